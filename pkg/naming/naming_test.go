package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/booklore-app/booknamer/pkg/pattern"
)

func ptr(f float64) *float64 { return &f }

func dune() Book {
	return Book{
		Path:        "incoming/dune_final.EPUB",
		Title:       "Dune",
		Authors:     []string{"Frank Herbert"},
		Series:      "Dune Chronicles",
		SeriesIndex: ptr(1),
		Published:   "1965-08-01",
		Language:    "en",
		Publisher:   "Chilton Books",
		ISBN:        "9780441013593",
	}
}

func TestValues(t *testing.T) {
	b := dune()
	b.Authors = append(b.Authors, "Brian Herbert")
	b.SeriesIndex = ptr(2.5)

	assert.Equal(t, map[string]string{
		"title":           "Dune",
		"subtitle":        "",
		"authors":         "Frank Herbert, Brian Herbert",
		"series":          "Dune Chronicles",
		"seriesIndex":     "2.5",
		"year":            "1965",
		"language":        "en",
		"publisher":       "Chilton Books",
		"isbn":            "9780441013593",
		"currentFilename": "dune_final",
	}, Values(b))
}

func TestValues_MissingSeriesIndex(t *testing.T) {
	b := dune()
	b.SeriesIndex = nil

	_, ok := Values(b)[FieldSeriesIndex]
	assert.False(t, ok, "series index should be absent")
}

func TestYear(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1965", "1965"},
		{"1965-08", "1965"},
		{"1965-08-01", "1965"},
		{"1965-08-01T00:00:00Z", "1965"},
		{" 2001 ", "2001"},
		{"", ""},
		{"August 1965", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Year(tt.in), "Year(%q)", tt.in)
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		book    func() Book
		want    string
	}{
		{
			name:    "empty_pattern_keeps_filename",
			pattern: "",
			book:    dune,
			want:    "dune_final.EPUB",
		},
		{
			name:    "series_layout",
			pattern: "{authors:sort}/<{series}/{seriesIndex} - >{title} ({year})",
			book:    dune,
			want:    "Herbert, Frank/Dune Chronicles/1 - Dune (1965).EPUB",
		},
		{
			name:    "standalone_layout",
			pattern: "{authors:sort}/<{series}/{seriesIndex} - >{title} ({year})",
			book: func() Book {
				b := dune()
				b.Series = ""
				return b
			},
			want: "Herbert, Frank/Dune (1965).EPUB",
		},
		{
			name:    "initial_directory",
			pattern: "{authors:initial}/{authors}/{title}",
			book:    dune,
			want:    "H/Frank Herbert/Dune.EPUB",
		},
		{
			name:    "invalid_characters_removed",
			pattern: "{title}",
			book: func() Book {
				b := dune()
				b.Title = `Dune: "Messiah"?`
				return b
			},
			want: "Dune Messiah.EPUB",
		},
		{
			name:    "empty_segments_dropped",
			pattern: "{publisher}/{series}/{title}",
			book: func() Book {
				b := dune()
				b.Publisher = ""
				b.Series = ""
				return b
			},
			want: "Dune.EPUB",
		},
		{
			name:    "nothing_resolved_keeps_filename",
			pattern: "{subtitle}",
			book:    dune,
			want:    "dune_final.EPUB",
		},
		{
			name:    "current_filename_field",
			pattern: "{language:upper}/{currentFilename}",
			book:    dune,
			want:    "EN/dune_final.EPUB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.pattern, tt.book()))
		})
	}
}

func TestFieldsAreValid(t *testing.T) {
	v := pattern.NewValidator(Fields...)
	for _, f := range Fields {
		assert.NoError(t, v.Validate("{"+f+"}"), "field %s", f)
	}
}

func TestSanitizeSegment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Dune", "Dune"},
		{"collapse_whitespace", "  Dune \t  Messiah ", "Dune Messiah"},
		{"trailing_dots", "Vol. 1...", "Vol. 1"},
		{"dot_dir", "..", ""},
		{"control_chars", "Du\x00ne\n", "Dune"},
		{"nfc", "ébène", "ébène"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeSegment(tt.in))
		})
	}
}

func TestSanitizeSegment_Truncates(t *testing.T) {
	long := ""
	for i := 0; i < 150; i++ {
		long += "é"
	}
	got := SanitizeSegment(long)
	assert.LessOrEqual(t, len(got), maxSegmentBytes)
	assert.Equal(t, 100, len([]rune(got)))
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "a/b/c", SanitizePath("a//b/ /c/"))
	assert.Equal(t, "", SanitizePath("/ /."))
}
