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

package library

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/booklore-app/booknamer/pkg/config"
	"github.com/booklore-app/booknamer/pkg/naming"
)

// 🚦 Status of a plan item
type Status string

const (
	StatusOK       Status = "ok"
	StatusSkip     Status = "skip"
	StatusConflict Status = "conflict"
	StatusError    Status = "error"
	StatusRenamed  Status = "renamed"
	StatusDryRun   Status = "dry-run"
)

// 📋 PlanItem is the planned move of one book file
type PlanItem struct {
	Book    naming.Book
	From    string // Library relative, slash separated
	To      string // Library relative, slash separated
	Pattern string
	Status  Status
	Reason  string
}

// 📊 Summary counts plan items by status
type Summary struct {
	Total    int
	OK       int
	Skip     int
	Conflict int
	Error    int
	Renamed  int
	DryRun   int
	Bytes    int64 // Size of the books that will move
}

// 📊 Summarize counts items by status
func Summarize(items []PlanItem) Summary {
	var s Summary
	s.Total = len(items)
	for _, it := range items {
		switch it.Status {
		case StatusOK:
			s.OK++
			s.Bytes += it.Book.Size
		case StatusSkip:
			s.Skip++
		case StatusConflict:
			s.Conflict++
		case StatusError:
			s.Error++
		case StatusRenamed:
			s.Renamed++
			s.Bytes += it.Book.Size
		case StatusDryRun:
			s.DryRun++
			s.Bytes += it.Book.Size
		}
	}
	return s
}

// 🎯 Target returns the library relative path rel should move to
func Target(cfg *config.Config, rel string, book naming.Book) string {
	name := naming.Generate(cfg.PatternFor(rel), book)
	if lib := cfg.LibraryFor(rel); lib != nil && lib.Path != "." {
		return path.Join(lib.Path, name)
	}
	return name
}

// 🗺️ Plan works out where every file should live.
//
// files are the paths found on disk, books the catalog entries. Files without
// catalog metadata are skipped, catalog entries missing on disk are errors.
// Targets are computed concurrently, conflicts are resolved afterwards in
// path order so the outcome does not depend on scheduling.
func Plan(ctx context.Context, cfg *config.Config, files []string, books []naming.Book) ([]PlanItem, error) {
	logger := zerolog.Ctx(ctx)

	byPath := make(map[string]naming.Book, len(books))
	for _, b := range books {
		byPath[filepath.ToSlash(b.Path)] = b
	}

	onDisk := make(map[string]bool, len(files))
	items := make([]PlanItem, len(files))
	for i, f := range files {
		onDisk[f] = true
		items[i] = PlanItem{From: f}
	}
	for _, b := range books {
		p := filepath.ToSlash(b.Path)
		if !onDisk[p] {
			items = append(items, PlanItem{Book: b, From: p, Status: StatusError, Reason: "missing on disk"})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Concurrency, 1))
	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			it := &items[i]
			book, ok := byPath[it.From]
			if !ok {
				it.Status = StatusSkip
				it.Reason = "not in catalog"
				return nil
			}

			it.Book = book
			it.Pattern = cfg.PatternFor(it.From)
			it.To = Target(cfg, it.From, book)
			it.Status = StatusOK
			if it.To == it.From {
				it.Status = StatusSkip
				it.Reason = "unchanged"
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("planning: %w", err)
	}

	inCatalog := make(map[string]bool, len(byPath))
	for p := range byPath {
		inCatalog[strings.ToLower(p)] = true
	}
	resolveConflicts(cfg.LibraryRoot, items, onDisk, inCatalog)

	logger.Debug().Int("items", len(items)).Msg("plan ready")
	return items, nil
}

// resolveConflicts marks items whose target is claimed twice, already taken
// by an existing file or held by another catalog entry, lowercased in
// inCatalog. Targets compare case-insensitively, libraries often live on
// case-insensitive filesystems.
func resolveConflicts(root string, items []PlanItem, onDisk, inCatalog map[string]bool) {
	claimed := map[string]string{}
	for i := range items {
		it := &items[i]
		if it.Status != StatusOK {
			continue
		}

		key := strings.ToLower(it.To)
		if other, ok := claimed[key]; ok {
			it.Status = StatusConflict
			it.Reason = "same target as " + other
			continue
		}

		if strings.EqualFold(it.To, it.From) {
			// case-only rename of the same file
			claimed[key] = it.From
			continue
		}

		if onDisk[it.To] || exists(filepath.Join(root, filepath.FromSlash(it.To))) {
			it.Status = StatusConflict
			it.Reason = "target exists"
			continue
		}

		// a catalog entry whose file is gone still owns its path
		if inCatalog[key] {
			it.Status = StatusConflict
			it.Reason = "target in catalog"
			continue
		}
		claimed[key] = it.From
	}
}

func exists(p string) bool {
	_, err := os.Lstat(p)
	return err == nil
}
