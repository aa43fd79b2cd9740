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

package naming

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/booklore-app/booknamer/pkg/pattern"
)

// 🏷️ Field names available to naming patterns
const (
	FieldTitle           = "title"
	FieldSubtitle        = "subtitle"
	FieldAuthors         = "authors"
	FieldSeries          = "series"
	FieldSeriesIndex     = "seriesIndex"
	FieldYear            = "year"
	FieldLanguage        = "language"
	FieldPublisher       = "publisher"
	FieldISBN            = "isbn"
	FieldCurrentFilename = "currentFilename"
)

// Fields lists every field Values fills in
var Fields = []string{
	FieldTitle,
	FieldSubtitle,
	FieldAuthors,
	FieldSeries,
	FieldSeriesIndex,
	FieldYear,
	FieldLanguage,
	FieldPublisher,
	FieldISBN,
	FieldCurrentFilename,
}

// publishedLayouts are tried in order when reading Book.Published
var publishedLayouts = []string{time.RFC3339, "2006-01-02", "2006-01", "2006"}

// 📚 Book is the metadata of a single book file
type Book struct {
	Path        string   `json:"path" yaml:"path"`
	Title       string   `json:"title" yaml:"title"`
	Subtitle    string   `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Authors     []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Series      string   `json:"series,omitempty" yaml:"series,omitempty"`
	SeriesIndex *float64 `json:"series_index,omitempty" yaml:"series_index,omitempty"`
	Published   string   `json:"published,omitempty" yaml:"published,omitempty"` // ISO date or year
	Language    string   `json:"language,omitempty" yaml:"language,omitempty"`
	Publisher   string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	ISBN        string   `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Size        int64    `json:"size,omitempty" yaml:"size,omitempty"`
}

// 📝 Ext returns the file extension of the book, including the dot
func (b Book) Ext() string {
	return filepath.Ext(b.Path)
}

// 🗺️ Values flattens book metadata into the value map used by patterns.
// Dates are pre-formatted here since patterns have no date modifiers.
func Values(b Book) map[string]string {
	base := filepath.Base(b.Path)
	if b.Path == "" {
		base = ""
	}

	values := map[string]string{
		FieldTitle:           b.Title,
		FieldSubtitle:        b.Subtitle,
		FieldAuthors:         strings.Join(b.Authors, ", "),
		FieldSeries:          b.Series,
		FieldYear:            Year(b.Published),
		FieldLanguage:        b.Language,
		FieldPublisher:       b.Publisher,
		FieldISBN:            b.ISBN,
		FieldCurrentFilename: strings.TrimSuffix(base, filepath.Ext(base)),
	}
	if b.SeriesIndex != nil {
		values[FieldSeriesIndex] = strconv.FormatFloat(*b.SeriesIndex, 'f', -1, 64)
	}
	return values
}

// 📅 Year returns the four digit year of an ISO date, or "" when it can't be read
func Year(published string) string {
	published = strings.TrimSpace(published)
	if published == "" {
		return ""
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, published); err == nil {
			return t.Format("2006")
		}
	}
	return ""
}

// 🎯 Generate builds the library-relative path of book from pat. The result
// uses forward slashes and always ends with the book's extension. An empty
// pattern, or one that resolves to nothing usable, keeps the current file name.
func Generate(pat string, b Book) string {
	original := path.Base(filepath.ToSlash(b.Path))
	if strings.TrimSpace(pat) == "" {
		return original
	}

	cleaned := SanitizePath(pattern.Resolve(pat, Values(b)))
	if cleaned == "" {
		return original
	}
	return cleaned + b.Ext()
}
