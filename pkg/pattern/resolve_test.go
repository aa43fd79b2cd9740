package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		values  map[string]string
		want    string
	}{
		{
			name:    "empty_pattern",
			pattern: "",
			values:  map[string]string{"title": "Dune"},
			want:    "",
		},
		{
			name:    "literal_text_is_trimmed",
			pattern: "  hello world  ",
			want:    "hello world",
		},
		{
			name:    "absent_field",
			pattern: "{title}",
			values:  map[string]string{},
			want:    "",
		},
		{
			name:    "empty_field",
			pattern: "{title}",
			values:  map[string]string{"title": ""},
			want:    "",
		},
		{
			name:    "nil_values",
			pattern: "{title} - {authors:sort}",
			want:    "-",
		},
		{
			name:    "outer_trim_only",
			pattern: "  {Title}  ",
			values:  map[string]string{"Title": "X"},
			want:    "X",
		},
		{
			name:    "inner_whitespace_kept",
			pattern: "{a}   {b}",
			values:  map[string]string{"a": "x", "b": "y"},
			want:    "x   y",
		},
		{
			name:    "first_author",
			pattern: "{authors:first}",
			values:  map[string]string{"authors": "Jane Doe, John Smith"},
			want:    "Jane Doe",
		},
		{
			name:    "sort_author",
			pattern: "{authors:sort}",
			values:  map[string]string{"authors": "Jane Doe"},
			want:    "Doe, Jane",
		},
		{
			name:    "sort_splits_on_last_space",
			pattern: "{authors:sort}",
			values:  map[string]string{"authors": "Jane Q. Public"},
			want:    "Public, Jane Q.",
		},
		{
			name:    "sort_uses_first_author",
			pattern: "{authors:sort}",
			values:  map[string]string{"authors": "Jane Doe, John Smith"},
			want:    "Doe, Jane",
		},
		{
			name:    "sort_single_word",
			pattern: "{authors:sort}",
			values:  map[string]string{"authors": "Plato"},
			want:    "Plato",
		},
		{
			name:    "initial_of_authors_uses_last_name",
			pattern: "{authors:initial}",
			values:  map[string]string{"authors": "Jane Doe, John Smith"},
			want:    "D",
		},
		{
			name:    "initial_of_other_field",
			pattern: "{title:initial}",
			values:  map[string]string{"title": "dune"},
			want:    "D",
		},
		{
			name:    "initial_multibyte",
			pattern: "{title:initial}",
			values:  map[string]string{"title": "ébène"},
			want:    "É",
		},
		{
			name:    "upper",
			pattern: "{Title:upper}",
			values:  map[string]string{"Title": "dune"},
			want:    "DUNE",
		},
		{
			name:    "upper_full_case_mapping",
			pattern: "{Title:upper}",
			values:  map[string]string{"Title": "straße"},
			want:    "STRASSE",
		},
		{
			name:    "lower",
			pattern: "{Title:lower}",
			values:  map[string]string{"Title": "DUNE"},
			want:    "dune",
		},
		{
			name:    "unknown_modifier_passes_through",
			pattern: "{Title:reverse}",
			values:  map[string]string{"Title": "Dune"},
			want:    "Dune",
		},
		{
			name:    "modifier_on_missing_value",
			pattern: "{Title:upper}",
			want:    "",
		},
		{
			name:    "optional_block_satisfied",
			pattern: "<{SeriesName} #{SeriesNumber}>",
			values:  map[string]string{"SeriesName": "Foo", "SeriesNumber": "3"},
			want:    "Foo #3",
		},
		{
			name:    "optional_block_partially_satisfied",
			pattern: "<{SeriesName} #{SeriesNumber}>",
			values:  map[string]string{"SeriesName": "Foo"},
			want:    "",
		},
		{
			name:    "optional_block_fallback",
			pattern: "<{SeriesName}|{Title}>",
			values:  map[string]string{"Title": "Dune"},
			want:    "Dune",
		},
		{
			name:    "optional_block_without_fallback",
			pattern: "<{SeriesName}>",
			values:  map[string]string{},
			want:    "",
		},
		{
			name:    "blank_value_does_not_satisfy_block",
			pattern: "<{SeriesName}|none>",
			values:  map[string]string{"SeriesName": "   "},
			want:    "none",
		},
		{
			name:    "fallback_applies_modifiers",
			pattern: "<{series}|{authors:sort}>",
			values:  map[string]string{"authors": "Jane Doe"},
			want:    "Doe, Jane",
		},
		{
			name:    "fallback_with_missing_field",
			pattern: "<{a}|{b}>",
			want:    "",
		},
		{
			name:    "fallback_split_on_first_pipe",
			pattern: "<{a}|x|y>",
			want:    "x|y",
		},
		{
			name:    "block_without_placeholders",
			pattern: "<abc>",
			want:    "abc",
		},
		{
			name:    "empty_block",
			pattern: "a<>b",
			want:    "ab",
		},
		{
			name:    "unbalanced_brackets_are_literal",
			pattern: "a < b {Title}",
			values:  map[string]string{"Title": "Dune"},
			want:    "a < b Dune",
		},
		{
			name:    "nested_blocks_match_innermost",
			pattern: "<a<{Title}>b>",
			values:  map[string]string{"Title": "X"},
			want:    "<aXb>",
		},
		{
			name:    "malformed_placeholders_are_literal",
			pattern: "{:upper} {Title",
			values:  map[string]string{"Title": "Dune"},
			want:    "{:upper} {Title",
		},
		{
			name:    "path_without_series",
			pattern: "{authors:sort}/<{series}/>{title}",
			values:  map[string]string{"authors": "Frank Herbert", "title": "Dune"},
			want:    "Herbert, Frank/Dune",
		},
		{
			name:    "path_with_series",
			pattern: "{authors:sort}/<{series}/>{title}",
			values:  map[string]string{"authors": "Frank Herbert", "title": "Dune", "series": "Dune Chronicles"},
			want:    "Herbert, Frank/Dune Chronicles/Dune",
		},
		{
			name:    "trailing_block_whitespace_trimmed",
			pattern: "{title} <({series})>",
			values:  map[string]string{"title": "Dune"},
			want:    "Dune",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.pattern, tt.values)
			assert.Equal(t, tt.want, got, "Resolve(%q)", tt.pattern)
		})
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("{authors:sort}/<{series} #{seriesIndex}|{title:upper}>")

	assert.Equal(t, []Placeholder{
		{Field: "authors", Modifier: "sort", Raw: "{authors:sort}"},
		{Field: "series", Raw: "{series}"},
		{Field: "seriesIndex", Raw: "{seriesIndex}"},
		{Field: "title", Modifier: "upper", Raw: "{title:upper}"},
	}, got)
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"title", "authors"}, Fields("{title} {authors} ({title:upper})"))
	assert.Empty(t, Fields("no placeholders"))
}

func TestApplyModifier(t *testing.T) {
	assert.Equal(t, "", ApplyModifier("authors", "", ModifierSort), "empty values pass through")
	assert.Equal(t, "Dune", ApplyModifier("title", "Dune", ""), "no modifier")
	assert.Equal(t, "J", ApplyModifier("authors", "J", ModifierInitial))
	assert.True(t, IsModifier("first"))
	assert.False(t, IsModifier("yyyy"))
}
