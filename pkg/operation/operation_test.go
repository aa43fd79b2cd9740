package operation

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/booklore-app/booknamer/pkg/catalog"
	"github.com/booklore-app/booknamer/pkg/config"
	"github.com/booklore-app/booknamer/pkg/library"
	"github.com/booklore-app/booknamer/pkg/log"
	"github.com/booklore-app/booknamer/pkg/naming"
)

// 🔧 MockStore is a mock implementation of the Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Books(ctx context.Context) ([]naming.Book, error) {
	result := m.Called(ctx)
	return result.Get(0).([]naming.Book), result.Error(1)
}

func (m *MockStore) RecordMoves(ctx context.Context, moves []catalog.Move) (string, error) {
	result := m.Called(ctx, moves)
	return result.String(0), result.Error(1)
}

func (m *MockStore) LastBatch(ctx context.Context) (string, []catalog.Move, error) {
	result := m.Called(ctx)
	moves, _ := result.Get(1).([]catalog.Move)
	return result.String(0), moves, result.Error(2)
}

func (m *MockStore) RevertBatch(ctx context.Context, batch string, moves []catalog.Move) error {
	result := m.Called(ctx, batch, moves)
	return result.Error(0)
}

var dune = naming.Book{
	Path:    "incoming/dune.epub",
	Title:   "Dune",
	Authors: []string{"Frank Herbert"},
	Size:    1024,
}

const duneTarget = "Herbert, Frank/Dune.epub"

func setupLibrary(t *testing.T, files ...string) *config.Config {
	t.Helper()

	root := t.TempDir()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o644))
	}

	cfg := &config.Config{
		LibraryRoot:    root,
		DefaultPattern: "{authors:sort}/{title}",
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func testOptions(cfg *config.Config, store Store) Options {
	return Options{
		Config: cfg,
		Store:  store,
		Logger: log.NewWithZerolog(io.Discard, zerolog.Nop()),
		Out:    &bytes.Buffer{},
	}
}

func assertFile(t *testing.T, cfg *config.Config, rel string) {
	t.Helper()
	_, err := os.Stat(filepath.Join(cfg.LibraryRoot, filepath.FromSlash(rel)))
	assert.NoError(t, err, "%s should exist", rel)
}

func assertNoFile(t *testing.T, cfg *config.Config, rel string) {
	t.Helper()
	_, err := os.Stat(filepath.Join(cfg.LibraryRoot, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err), "%s should not exist", rel)
}

func TestNewBaseOperation(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options
		errContains string
	}{
		{
			name:        "missing_config",
			opts:        Options{Store: &MockStore{}},
			errContains: "config is required",
		},
		{
			name:        "missing_store",
			opts:        Options{Config: &config.Config{LibraryRoot: "/books"}},
			errContains: "store is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBaseOperation(tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}

	t.Run("defaults", func(t *testing.T) {
		base, err := NewBaseOperation(Options{Config: &config.Config{LibraryRoot: "/books"}, Store: &MockStore{}})
		require.NoError(t, err)
		assert.Equal(t, library.OSMover{Root: "/books"}, base.Mover)
		assert.NotNil(t, base.Logger)
		assert.Equal(t, os.Stdout, base.Out)
	})
}

func TestPlanOperation(t *testing.T) {
	cfg := setupLibrary(t, dune.Path, "notes/readme.pdf")

	store := &MockStore{}
	store.On("Books", mock.Anything).Return([]naming.Book{dune}, nil)

	opts := testOptions(cfg, store)
	op, err := NewPlanOperation(opts)
	require.NoError(t, err)

	require.NoError(t, op.Execute(context.Background()))

	items := op.Items()
	require.Len(t, items, 2)
	assert.Equal(t, library.StatusOK, items[0].Status)
	assert.Equal(t, duneTarget, items[0].To)
	assert.Equal(t, library.StatusSkip, items[1].Status)
	assert.Equal(t, "not in catalog", items[1].Reason)

	out := opts.Out.(*bytes.Buffer).String()
	assert.Contains(t, out, duneTarget)
	assert.Contains(t, out, "1 skipped")

	// nothing moved
	assertFile(t, cfg, dune.Path)
	store.AssertExpectations(t)
}

func TestApplyOperation(t *testing.T) {
	tests := []struct {
		name       string
		dryRun     bool
		wantStatus library.Status
		wantBatch  string
	}{
		{
			name:       "moves_and_journals",
			wantStatus: library.StatusRenamed,
			wantBatch:  "batch-1",
		},
		{
			name:       "dry_run_touches_nothing",
			dryRun:     true,
			wantStatus: library.StatusDryRun,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := setupLibrary(t, dune.Path)

			store := &MockStore{}
			store.On("Books", mock.Anything).Return([]naming.Book{dune}, nil)
			if !tt.dryRun {
				store.On("RecordMoves", mock.Anything, []catalog.Move{{From: dune.Path, To: duneTarget}}).Return("batch-1", nil)
			}

			opts := testOptions(cfg, store)
			opts.DryRun = tt.dryRun
			op, err := NewApplyOperation(opts)
			require.NoError(t, err)

			require.NoError(t, op.Execute(context.Background()))

			require.Len(t, op.Items(), 1)
			assert.Equal(t, tt.wantStatus, op.Items()[0].Status)
			assert.Equal(t, tt.wantBatch, op.Batch())

			if tt.dryRun {
				assertFile(t, cfg, dune.Path)
				assertNoFile(t, cfg, duneTarget)
				store.AssertNotCalled(t, "RecordMoves", mock.Anything, mock.Anything)
			} else {
				assertFile(t, cfg, duneTarget)
				assertNoFile(t, cfg, dune.Path)
				assertNoFile(t, cfg, "incoming")
			}
			store.AssertExpectations(t)
		})
	}
}

// failingMover fails every move from a given path
type failingMover struct {
	library.Mover
	failFrom string
}

func (m failingMover) Move(from, to string) error {
	if from == m.failFrom {
		return os.ErrPermission
	}
	return m.Mover.Move(from, to)
}

func TestApplyOperationJournalsPartialBatch(t *testing.T) {
	other := naming.Book{Path: "b.epub", Title: "Emma", Authors: []string{"Jane Austen"}}
	cfg := setupLibrary(t, dune.Path, other.Path)

	store := &MockStore{}
	store.On("Books", mock.Anything).Return([]naming.Book{dune, other}, nil)
	store.On("RecordMoves", mock.Anything, []catalog.Move{{From: dune.Path, To: duneTarget}}).Return("batch-2", nil)

	opts := testOptions(cfg, store)
	opts.Mover = failingMover{Mover: library.OSMover{Root: cfg.LibraryRoot}, failFrom: other.Path}
	op, err := NewApplyOperation(opts)
	require.NoError(t, err)

	err = op.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 books failed to move")
	assert.Equal(t, "batch-2", op.Batch(), "successful moves should still be journaled")

	assertFile(t, cfg, duneTarget)
	assertFile(t, cfg, other.Path)
	store.AssertExpectations(t)
}

func TestUndoOperation(t *testing.T) {
	moves := []catalog.Move{
		{Batch: "b1", Seq: 0, From: "a.epub", To: "A/a.epub"},
		{Batch: "b1", Seq: 1, From: "b.epub", To: "B/b.epub"},
	}

	t.Run("restores_last_batch", func(t *testing.T) {
		cfg := setupLibrary(t, "A/a.epub", "B/b.epub")

		store := &MockStore{}
		store.On("LastBatch", mock.Anything).Return("b1", moves, nil)
		store.On("RevertBatch", mock.Anything, "b1", moves).Return(nil)

		op, err := NewUndoOperation(testOptions(cfg, store))
		require.NoError(t, err)
		require.NoError(t, op.Execute(context.Background()))

		assertFile(t, cfg, "a.epub")
		assertFile(t, cfg, "b.epub")
		assertNoFile(t, cfg, "A")
		assert.Equal(t, moves, op.Reverted())
		store.AssertExpectations(t)
	})

	t.Run("empty_journal", func(t *testing.T) {
		cfg := setupLibrary(t)

		store := &MockStore{}
		store.On("LastBatch", mock.Anything).Return("", nil, nil)

		op, err := NewUndoOperation(testOptions(cfg, store))
		require.NoError(t, err)
		require.NoError(t, op.Execute(context.Background()))

		assert.Empty(t, op.Reverted())
		store.AssertNotCalled(t, "RevertBatch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failure_replays_undone_moves", func(t *testing.T) {
		// a.epub was moved again by hand so its undo fails
		cfg := setupLibrary(t, "B/b.epub")

		store := &MockStore{}
		store.On("LastBatch", mock.Anything).Return("b1", moves, nil)

		op, err := NewUndoOperation(testOptions(cfg, store))
		require.NoError(t, err)

		err = op.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "undoing move of a.epub")

		assertFile(t, cfg, "B/b.epub")
		assertNoFile(t, cfg, "b.epub")
		store.AssertNotCalled(t, "RevertBatch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("dry_run", func(t *testing.T) {
		cfg := setupLibrary(t, "A/a.epub", "B/b.epub")

		store := &MockStore{}
		store.On("LastBatch", mock.Anything).Return("b1", moves, nil)

		opts := testOptions(cfg, store)
		opts.DryRun = true
		op, err := NewUndoOperation(opts)
		require.NoError(t, err)
		require.NoError(t, op.Execute(context.Background()))

		assertFile(t, cfg, "A/a.epub")
		assertFile(t, cfg, "B/b.epub")
		store.AssertNotCalled(t, "RevertBatch", mock.Anything, mock.Anything, mock.Anything)
	})
}
