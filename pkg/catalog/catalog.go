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

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/booklore-app/booknamer/pkg/naming"
)

// 📦 Catalog stores book metadata and the journal of applied moves
type Catalog struct {
	db   *sql.DB
	path string
}

// 🚚 Move is a single rename recorded in the journal
type Move struct {
	Batch     string
	Seq       int
	From      string // Library relative, slash separated
	To        string // Library relative, slash separated
	CreatedAt time.Time
}

// 🏗️ Open opens or creates the catalog database at path
func Open(ctx context.Context, path string) (*Catalog, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("opening catalog")

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Errorf("creating catalog directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout=5000&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Errorf("opening catalog: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, errors.Errorf("initializing catalog schema: %w", err)
	}

	return &Catalog{db: db, path: path}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
			path TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			subtitle TEXT NOT NULL DEFAULT '',
			authors TEXT NOT NULL DEFAULT '[]',
			series TEXT NOT NULL DEFAULT '',
			series_index REAL,
			published TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			publisher TEXT NOT NULL DEFAULT '',
			isbn TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS moves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch TEXT NOT NULL,
			seq INTEGER NOT NULL,
			from_path TEXT NOT NULL,
			to_path TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS moves_batch ON moves(batch);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// 📝 Path returns the database file location
func (c *Catalog) Path() string {
	return c.path
}

// 🔒 Close closes the database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// 📝 PutBook inserts or replaces the metadata of a book
func (c *Catalog) PutBook(ctx context.Context, b naming.Book) error {
	if b.Path == "" {
		return errors.Errorf("book path is required")
	}

	authors, err := json.Marshal(b.Authors)
	if err != nil {
		return errors.Errorf("encoding authors: %w", err)
	}

	var seriesIndex sql.NullFloat64
	if b.SeriesIndex != nil {
		seriesIndex = sql.NullFloat64{Float64: *b.SeriesIndex, Valid: true}
	}

	_, err = c.db.ExecContext(ctx, `INSERT INTO books(path, title, subtitle, authors, series, series_index, published, language, publisher, isbn, size, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title=excluded.title, subtitle=excluded.subtitle, authors=excluded.authors,
			series=excluded.series, series_index=excluded.series_index, published=excluded.published,
			language=excluded.language, publisher=excluded.publisher, isbn=excluded.isbn,
			size=excluded.size, updated_at=excluded.updated_at`,
		filepath.ToSlash(b.Path), b.Title, b.Subtitle, string(authors), b.Series, seriesIndex,
		b.Published, b.Language, b.Publisher, b.ISBN, b.Size, time.Now().Unix())
	if err != nil {
		return errors.Errorf("storing book %s: %w", b.Path, err)
	}
	return nil
}

const bookColumns = `path, title, subtitle, authors, series, series_index, published, language, publisher, isbn, size`

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (naming.Book, error) {
	var (
		b           naming.Book
		authors     string
		seriesIndex sql.NullFloat64
	)
	if err := row.Scan(&b.Path, &b.Title, &b.Subtitle, &authors, &b.Series, &seriesIndex,
		&b.Published, &b.Language, &b.Publisher, &b.ISBN, &b.Size); err != nil {
		return b, err
	}
	if err := json.Unmarshal([]byte(authors), &b.Authors); err != nil {
		return b, errors.Errorf("decoding authors of %s: %w", b.Path, err)
	}
	if seriesIndex.Valid {
		v := seriesIndex.Float64
		b.SeriesIndex = &v
	}
	return b, nil
}

// 🔍 Book returns the metadata stored for path
func (c *Catalog) Book(ctx context.Context, path string) (naming.Book, bool, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE path = ?`, filepath.ToSlash(path))
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return naming.Book{}, false, nil
	}
	if err != nil {
		return naming.Book{}, false, errors.Errorf("reading book %s: %w", path, err)
	}
	return b, true, nil
}

// 📚 Books returns every book ordered by path
func (c *Catalog) Books(ctx context.Context) ([]naming.Book, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY path`)
	if err != nil {
		return nil, errors.Errorf("listing books: %w", err)
	}
	defer rows.Close()

	var books []naming.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, errors.Errorf("scanning book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("listing books: %w", err)
	}
	return books, nil
}

// 🚚 RecordMoves journals moves under a new batch and points the affected
// books at their new paths. Both happen in one transaction.
func (c *Catalog) RecordMoves(ctx context.Context, moves []Move) (string, error) {
	batch := uuid.NewString()
	if len(moves) == 0 {
		return batch, nil
	}

	err := c.inTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().Unix()
		for i, m := range moves {
			if _, err := tx.ExecContext(ctx, `INSERT INTO moves(batch, seq, from_path, to_path, created_at) VALUES(?, ?, ?, ?, ?)`,
				batch, i, m.From, m.To, now); err != nil {
				return errors.Errorf("journaling move %s: %w", m.From, err)
			}
			if _, err := tx.ExecContext(ctx, `UPDATE books SET path = ?, updated_at = ? WHERE path = ?`, m.To, now, m.From); err != nil {
				return errors.Errorf("updating book %s: %w", m.From, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return batch, nil
}

// 🔍 LastBatch returns the moves of the most recent batch in journal order,
// or an empty batch id when the journal is empty
func (c *Catalog) LastBatch(ctx context.Context) (string, []Move, error) {
	var batch string
	err := c.db.QueryRowContext(ctx, `SELECT batch FROM moves ORDER BY id DESC LIMIT 1`).Scan(&batch)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, errors.Errorf("finding last batch: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `SELECT batch, seq, from_path, to_path, created_at FROM moves WHERE batch = ? ORDER BY seq`, batch)
	if err != nil {
		return "", nil, errors.Errorf("reading batch %s: %w", batch, err)
	}
	defer rows.Close()

	var moves []Move
	for rows.Next() {
		var (
			m       Move
			created int64
		)
		if err := rows.Scan(&m.Batch, &m.Seq, &m.From, &m.To, &created); err != nil {
			return "", nil, errors.Errorf("scanning move: %w", err)
		}
		m.CreatedAt = time.Unix(created, 0)
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return "", nil, errors.Errorf("reading batch %s: %w", batch, err)
	}
	return batch, moves, nil
}

// ↩️ RevertBatch points books of batch back at their original paths and
// removes the batch from the journal
func (c *Catalog) RevertBatch(ctx context.Context, batch string, moves []Move) error {
	return c.inTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().Unix()
		for i := len(moves) - 1; i >= 0; i-- {
			m := moves[i]
			if _, err := tx.ExecContext(ctx, `UPDATE books SET path = ?, updated_at = ? WHERE path = ?`, m.From, now, m.To); err != nil {
				return errors.Errorf("restoring book %s: %w", m.From, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM moves WHERE batch = ?`, batch); err != nil {
			return errors.Errorf("deleting batch %s: %w", batch, err)
		}
		return nil
	})
}

func (c *Catalog) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Errorf("starting transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Errorf("committing transaction: %w", err)
	}
	return nil
}
