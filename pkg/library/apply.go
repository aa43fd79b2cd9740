package library

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🚚 Mover performs the filesystem side of a rename
type Mover interface {
	Move(from, to string) error
}

// 📁 OSMover moves files inside Root on the local filesystem
type OSMover struct {
	Root string
}

// 🚚 Move renames from to to, both library relative, creating parent
// directories and pruning the source directories left empty
func (m OSMover) Move(from, to string) error {
	src := filepath.Join(m.Root, filepath.FromSlash(from))
	dst := filepath.Join(m.Root, filepath.FromSlash(to))

	if !strings.EqualFold(src, dst) && exists(dst) {
		return errors.Errorf("target %s exists", to)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Errorf("creating directory for %s: %w", to, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return errors.Errorf("renaming %s: %w", from, err)
	}

	pruneEmptyDirs(m.Root, filepath.Dir(src))
	return nil
}

// pruneEmptyDirs removes dir and its parents while they are empty, stopping at root
func pruneEmptyDirs(root, dir string) {
	root = filepath.Clean(root)
	for dir = filepath.Clean(dir); dir != root && strings.HasPrefix(dir, root+string(filepath.Separator)); dir = filepath.Dir(dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
	}
}

// ▶️ Apply moves every ok item and returns the updated items. With dryRun
// set nothing is touched and ok items become dry-run. Failures are recorded
// on the item and do not stop the rest of the batch.
func Apply(ctx context.Context, mover Mover, items []PlanItem, dryRun bool) ([]PlanItem, error) {
	logger := zerolog.Ctx(ctx)

	out := make([]PlanItem, len(items))
	copy(out, items)

	for i := range out {
		it := &out[i]
		if it.Status != StatusOK {
			continue
		}
		if err := ctx.Err(); err != nil {
			return out, errors.Errorf("applying plan: %w", err)
		}

		if dryRun {
			it.Status = StatusDryRun
			continue
		}

		if err := mover.Move(it.From, it.To); err != nil {
			logger.Warn().Err(err).Str("from", it.From).Str("to", it.To).Msg("move failed")
			it.Status = StatusError
			it.Reason = err.Error()
			continue
		}

		logger.Debug().Str("from", it.From).Str("to", it.To).Msg("moved")
		it.Status = StatusRenamed
	}

	return out, nil
}
