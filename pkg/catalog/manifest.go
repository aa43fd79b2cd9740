package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/booklore-app/booknamer/pkg/naming"
)

// 📄 Manifest is a list of book metadata, exported from a library server or
// written by hand
type Manifest struct {
	Books []naming.Book `json:"books" yaml:"books"`
}

// 📖 ReadManifest reads a YAML or JSON manifest, chosen by extension
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&m); err != nil {
			return nil, errors.Errorf("parsing JSON manifest: %w", err)
		}
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&m); err != nil {
			return nil, errors.Errorf("parsing YAML manifest: %w", err)
		}
	default:
		return nil, errors.Errorf("unsupported manifest extension %q", ext)
	}

	for i, b := range m.Books {
		if strings.TrimSpace(b.Path) == "" {
			return nil, errors.Errorf("books[%d]: path is required", i)
		}
	}
	return &m, nil
}

// 📥 Import stores every book of the manifest, returning how many were written
func (c *Catalog) Import(ctx context.Context, m *Manifest) (int, error) {
	logger := zerolog.Ctx(ctx)
	for i, b := range m.Books {
		if err := c.PutBook(ctx, b); err != nil {
			return i, errors.Errorf("importing books[%d]: %w", i, err)
		}
		logger.Debug().Str("path", b.Path).Str("title", b.Title).Msg("imported book")
	}
	return len(m.Books), nil
}
