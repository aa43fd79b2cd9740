package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/booklore-app/booknamer/pkg/catalog"
	"github.com/booklore-app/booknamer/pkg/log"
)

// ↩️ UndoOperation reverses the most recent applied batch
type UndoOperation struct {
	BaseOperation
	reverted []catalog.Move
}

// 🏭 NewUndoOperation creates a new undo operation
func NewUndoOperation(opts Options) (*UndoOperation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &UndoOperation{BaseOperation: base}, nil
}

// Name implements Operation
func (op *UndoOperation) Name() string { return "undo" }

// 🏃 Execute moves every file of the last batch back, newest move first, then
// drops the batch from the journal. When a move fails the moves already
// reversed are replayed so the files keep matching the journal.
func (op *UndoOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	batch, moves, err := op.Store.LastBatch(ctx)
	if err != nil {
		return errors.Errorf("reading journal: %w", err)
	}
	if batch == "" {
		op.Logger.Info("nothing to undo")
		return nil
	}

	logger.Debug().Str("batch", batch).Int("moves", len(moves)).Msg("undoing batch")

	op.Logger.StartBatchOperation(ctx, log.BatchOperation{
		Root:   op.Config.LibraryRoot,
		Batch:  batch,
		DryRun: op.DryRun,
	})
	defer op.Logger.EndBatchOperation(ctx)

	var undone []catalog.Move
	for i := len(moves) - 1; i >= 0; i-- {
		m := moves[i]
		if err := ctx.Err(); err != nil {
			op.replay(ctx, undone)
			return errors.Errorf("undoing batch %s: %w", batch, err)
		}

		if op.DryRun {
			op.Logger.LogRenameOperation(ctx, log.RenameOperation{From: m.To, To: m.From, Status: "dry-run"})
			continue
		}

		if err := op.Mover.Move(m.To, m.From); err != nil {
			op.Logger.LogRenameOperation(ctx, log.RenameOperation{From: m.To, To: m.From, Status: "error", Reason: err.Error(), IsFailed: true})
			op.replay(ctx, undone)
			return errors.Errorf("undoing move of %s: %w", m.From, err)
		}
		undone = append(undone, m)
		op.Logger.LogRenameOperation(ctx, log.RenameOperation{From: m.To, To: m.From, Status: "restored", IsRenamed: true})
	}

	if op.DryRun {
		return nil
	}

	// every file is back in place, the catalog has to follow
	if err := op.Store.RevertBatch(context.WithoutCancel(ctx), batch, moves); err != nil {
		return errors.Errorf("reverting batch %s in catalog: %w", batch, err)
	}
	op.reverted = moves
	op.Logger.Successf("restored %d books from batch %s", len(moves), batch)
	return nil
}

// Mutates implements Mutator, a dry run leaves the library alone
func (op *UndoOperation) Mutates() bool { return !op.DryRun }

// replay moves undone files forward again, newest undo last
func (op *UndoOperation) replay(ctx context.Context, undone []catalog.Move) {
	logger := zerolog.Ctx(ctx)
	for i := len(undone) - 1; i >= 0; i-- {
		m := undone[i]
		if err := op.Mover.Move(m.From, m.To); err != nil {
			logger.Error().Err(err).Str("from", m.From).Str("to", m.To).Msg("replaying move after failed undo")
		}
	}
}

// 📋 Reverted returns the moves reversed by the last Execute
func (op *UndoOperation) Reverted() []catalog.Move {
	return op.reverted
}
