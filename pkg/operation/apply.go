package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/booklore-app/booknamer/pkg/catalog"
	"github.com/booklore-app/booknamer/pkg/library"
	"github.com/booklore-app/booknamer/pkg/log"
	"github.com/booklore-app/booknamer/pkg/status"
)

// ▶️ ApplyOperation moves books to their planned paths and journals the moves
type ApplyOperation struct {
	BaseOperation
	batch string
	items []library.PlanItem
}

// 🏭 NewApplyOperation creates a new apply operation
func NewApplyOperation(opts Options) (*ApplyOperation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &ApplyOperation{BaseOperation: base}, nil
}

// Name implements Operation
func (op *ApplyOperation) Name() string { return "apply" }

// 🏃 Execute runs the apply operation. Moves that succeed are journaled even
// when others fail or ctx is cancelled part way, so the journal always matches
// the filesystem.
func (op *ApplyOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	planned, err := op.plan(ctx)
	if err != nil {
		return err
	}

	op.Logger.StartBatchOperation(ctx, log.BatchOperation{
		Root:   op.Config.LibraryRoot,
		DryRun: op.DryRun,
	})

	items, applyErr := library.Apply(ctx, op.Mover, planned, op.DryRun)
	op.items = items

	var moves []catalog.Move
	attempted, failed := 0, 0
	for i, it := range items {
		if planned[i].Status == library.StatusOK {
			attempted++
		}
		switch {
		case it.Status == library.StatusRenamed:
			moves = append(moves, catalog.Move{From: it.From, To: it.To})
		case it.Status == library.StatusError && planned[i].Status == library.StatusOK:
			// planning errors such as missing files were never attempted
			failed++
		}
		op.Logger.LogRenameOperation(ctx, renameOperation(it))
	}
	op.Logger.EndBatchOperation(ctx)

	if len(moves) > 0 {
		// files already moved must be journaled even after ctrl-c
		batch, err := op.Store.RecordMoves(context.WithoutCancel(ctx), moves)
		if err != nil {
			return errors.Errorf("journaling %d moves: %w", len(moves), err)
		}
		op.batch = batch
		logger.Info().Str("batch", batch).Int("moves", len(moves)).Msg("batch recorded")
	}

	op.Logger.LogNewline()
	op.Logger.Info(status.FormatSummary(library.Summarize(items)))

	if applyErr != nil {
		return applyErr
	}
	if failed > 0 {
		return errors.Errorf("%d of %d books failed to move", failed, attempted)
	}
	if len(moves) > 0 {
		op.Logger.Successf("moved %d books, undo with batch %s", len(moves), op.batch)
	}
	return nil
}

// Mutates implements Mutator, a dry run leaves the library alone
func (op *ApplyOperation) Mutates() bool { return !op.DryRun }

// 🔖 Batch returns the journal batch id of the last Execute, empty when nothing moved
func (op *ApplyOperation) Batch() string {
	return op.batch
}

// 📋 Items returns the applied items of the last Execute
func (op *ApplyOperation) Items() []library.PlanItem {
	return op.items
}
