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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/booklore-app/booknamer/pkg/naming"
	"github.com/booklore-app/booknamer/pkg/pattern"
)

// 📁 Defaults applied by Validate
const (
	DefaultCatalogName = ".booknamer.db"
	DefaultConcurrency = 4
	DefaultPattern     = "{authors:sort}/<{series}/{seriesIndex} - >{title}"
)

// DefaultInclude selects the book formats a library usually holds
var DefaultInclude = []string{"**/*.{epub,pdf,cbz,cbr,mobi,azw3,m4b,mp3}"}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Library is a sub-directory of the library root with its own naming pattern
type Library struct {
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path" yaml:"path"`                           // Relative to the library root
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"` // Falls back to Config.DefaultPattern
}

// 📚 Config represents the complete configuration
type Config struct {
	LibraryRoot    string    `json:"library_root" yaml:"library_root"`
	DefaultPattern string    `json:"default_pattern,omitempty" yaml:"default_pattern,omitempty"`
	Include        []string  `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude        []string  `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Catalog        string    `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Concurrency    int       `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
	Libraries      []Library `json:"libraries,omitempty" yaml:"libraries,omitempty"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Relative roots are relative to the config file
	if cfg.LibraryRoot != "" && !filepath.IsAbs(cfg.LibraryRoot) {
		cfg.LibraryRoot = filepath.Join(filepath.Dir(path), cfg.LibraryRoot)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("library_root", cfg.LibraryRoot).Int("libraries", len(cfg.Libraries)).Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid and fills in defaults
func (cfg *Config) Validate() error {
	// Check required fields
	if cfg.LibraryRoot == "" {
		return errors.Errorf("library_root is required")
	}

	// Clean up paths
	cfg.LibraryRoot = filepath.Clean(cfg.LibraryRoot)

	// Set defaults
	if cfg.DefaultPattern == "" {
		cfg.DefaultPattern = DefaultPattern
	}
	if len(cfg.Include) == 0 {
		cfg.Include = DefaultInclude
	}
	if cfg.Catalog == "" {
		cfg.Catalog = filepath.Join(cfg.LibraryRoot, DefaultCatalogName)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must be positive, got %d", cfg.Concurrency)
	}

	for _, g := range append(append([]string{}, cfg.Include...), cfg.Exclude...) {
		if !doublestar.ValidatePattern(g) {
			return errors.Errorf("invalid glob %q", g)
		}
	}

	validator := pattern.NewValidator(naming.Fields...)
	if err := validator.Validate(cfg.DefaultPattern); err != nil {
		return errors.Errorf("default_pattern: %w", err)
	}

	seen := map[string]bool{}
	for i := range cfg.Libraries {
		lib := &cfg.Libraries[i]
		if lib.Name == "" {
			return errors.Errorf("libraries[%d]: name is required", i)
		}
		if seen[lib.Name] {
			return errors.Errorf("libraries[%d]: duplicate name %q", i, lib.Name)
		}
		seen[lib.Name] = true

		if lib.Path == "" {
			return errors.Errorf("library %q: path is required", lib.Name)
		}
		lib.Path = filepath.ToSlash(filepath.Clean(lib.Path))
		if filepath.IsAbs(lib.Path) || strings.HasPrefix(lib.Path, "..") {
			return errors.Errorf("library %q: path must be inside library_root", lib.Name)
		}

		if lib.Pattern != "" {
			if err := validator.Validate(lib.Pattern); err != nil {
				return errors.Errorf("library %q: %w", lib.Name, err)
			}
		}
	}

	return nil
}

// 🎯 LibraryFor returns the library holding rel, a slash separated path
// relative to the library root. The deepest matching library wins.
func (cfg *Config) LibraryFor(rel string) *Library {
	var best *Library
	for i := range cfg.Libraries {
		lib := &cfg.Libraries[i]
		if lib.Path != "." && rel != lib.Path && !strings.HasPrefix(rel, lib.Path+"/") {
			continue
		}
		if best == nil || len(lib.Path) > len(best.Path) {
			best = lib
		}
	}
	return best
}

// 🎯 PatternFor returns the naming pattern that applies to rel
func (cfg *Config) PatternFor(rel string) string {
	if lib := cfg.LibraryFor(rel); lib != nil && lib.Pattern != "" {
		return lib.Pattern
	}
	return cfg.DefaultPattern
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s (%d libraries) pattern=%q", cfg.LibraryRoot, len(cfg.Libraries), cfg.DefaultPattern)
}
