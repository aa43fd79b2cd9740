package library

import (
	"context"
	"io/fs"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Scan returns the slash separated paths under root matching any include
// glob and no exclude glob, sorted
func Scan(ctx context.Context, root string, include, exclude []string) ([]string, error) {
	return ScanFS(ctx, os.DirFS(root), include, exclude)
}

// 🔍 ScanFS is Scan over an arbitrary filesystem
func ScanFS(ctx context.Context, fsys fs.FS, include, exclude []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	seen := map[string]bool{}
	var files []string
	for _, pattern := range include {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, errors.Errorf("globbing %q: %w", pattern, err)
		}
		logger.Debug().Str("pattern", pattern).Int("matches", len(matches)).Msg("scanned library")

		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true

			excluded, err := matchesAny(exclude, m)
			if err != nil {
				return nil, err
			}
			if excluded {
				logger.Trace().Str("path", m).Msg("excluded")
				continue
			}
			files = append(files, m)
		}
	}

	sort.Strings(files)
	return files, nil
}

func matchesAny(globs []string, name string) (bool, error) {
	for _, g := range globs {
		ok, err := doublestar.Match(g, name)
		if err != nil {
			return false, errors.Errorf("matching %q: %w", g, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
