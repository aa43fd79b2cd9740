// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/booklore-app/booknamer/pkg/catalog"
	"github.com/booklore-app/booknamer/pkg/config"
	"github.com/booklore-app/booknamer/pkg/library"
	"github.com/booklore-app/booknamer/pkg/log"
	"github.com/booklore-app/booknamer/pkg/naming"
)

// 🎯 Operation is a single unit of work against a library
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// ✏️ Mutator is implemented by operations that change the library. A runner
// never abandons a mutating operation half way, since its moves still have to
// reach the journal.
type Mutator interface {
	Mutates() bool
}

// mutates reports whether op changes the library
func mutates(op Operation) bool {
	m, ok := op.(Mutator)
	return ok && m.Mutates()
}

// 💾 Store is the catalog access operations need
type Store interface {
	Books(ctx context.Context) ([]naming.Book, error)
	RecordMoves(ctx context.Context, moves []catalog.Move) (string, error)
	LastBatch(ctx context.Context) (string, []catalog.Move, error)
	RevertBatch(ctx context.Context, batch string, moves []catalog.Move) error
}

var _ Store = (*catalog.Catalog)(nil)

// 🔧 Options contains everything an operation works with
type Options struct {
	// Config is the loaded booknamer configuration
	Config *config.Config
	// Store holds book metadata and the move journal
	Store Store
	// Mover performs renames, defaults to library.OSMover at the library root
	Mover library.Mover
	// Logger prints rename lines, defaults to a logger writing to Out
	Logger *log.Logger
	// Out receives tables and summaries, defaults to stdout
	Out io.Writer
	// DryRun reports what would happen without touching anything
	DryRun bool
}

// 🧱 BaseOperation holds the options shared by all operations
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation checks opts and fills in defaults
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Config == nil {
		return BaseOperation{}, errors.Errorf("config is required")
	}
	if opts.Store == nil {
		return BaseOperation{}, errors.Errorf("store is required")
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Mover == nil {
		opts.Mover = library.OSMover{Root: opts.Config.LibraryRoot}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(opts.Out, zerolog.InfoLevel)
	}
	return BaseOperation{Options: opts}, nil
}

// 🗺️ plan scans the library and works out the target of every book
func (op *BaseOperation) plan(ctx context.Context) ([]library.PlanItem, error) {
	cfg := op.Config

	files, err := library.Scan(ctx, cfg.LibraryRoot, cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, errors.Errorf("scanning library: %w", err)
	}

	books, err := op.Store.Books(ctx)
	if err != nil {
		return nil, errors.Errorf("reading catalog: %w", err)
	}

	items, err := library.Plan(ctx, cfg, files, books)
	if err != nil {
		return nil, errors.Errorf("planning: %w", err)
	}
	return items, nil
}

// renameOperation converts a plan item into a log line
func renameOperation(it library.PlanItem) log.RenameOperation {
	return log.RenameOperation{
		From:      it.From,
		To:        it.To,
		Status:    string(it.Status),
		Reason:    it.Reason,
		IsRenamed: it.Status == library.StatusRenamed,
		IsSkipped: it.Status == library.StatusSkip,
		IsFailed:  it.Status == library.StatusError || it.Status == library.StatusConflict,
	}
}
