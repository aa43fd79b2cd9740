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

package pattern

import (
	"regexp"
	"strings"
	"unicode"

	"gitlab.com/tozd/go/errors"
)

// 🔎 Extractor pulls field values back out of names built with a pattern
type Extractor struct {
	pattern string
	re      *regexp.Regexp
	groups  []Placeholder // one entry per capture group, in order
}

// 🏗️ NewExtractor compiles pattern into an anchored regular expression.
//
// Literal text must match exactly, each placeholder captures one or more
// characters and optional blocks may be skipped entirely. Whitespace next to
// an optional block is optional as well, since Resolve trims it away when the
// block resolves to nothing.
func NewExtractor(pattern string) (*Extractor, error) {
	c := &extractorCompiler{}
	trimmed := strings.TrimSpace(pattern)

	last := 0
	for _, loc := range optionalBlockRe.FindAllStringSubmatchIndex(trimmed, -1) {
		c.literalSegment(trimmed[last:loc[0]], true)

		primary, fallback, hasFallback := strings.Cut(trimmed[loc[2]:loc[3]], "|")
		c.b.WriteString("(?:")
		c.segment(primary)
		if hasFallback {
			c.b.WriteString("|")
			c.segment(fallback)
		}
		c.b.WriteString(")?")

		last = loc[1]
		c.afterBlock = true
	}
	c.literalSegment(trimmed[last:], false)

	re, err := regexp.Compile(`^\s*` + c.b.String() + `\s*$`)
	if err != nil {
		return nil, errors.Errorf("compiling pattern %q: %w", pattern, err)
	}

	return &Extractor{
		pattern: pattern,
		re:      re,
		groups:  c.groups,
	}, nil
}

// 📝 Pattern returns the source pattern
func (e *Extractor) Pattern() string {
	return e.pattern
}

// 🎯 Extract returns the values captured from name, or false when name was
// not produced by the pattern. When a field is captured more than once the
// first non-empty capture wins. Values captured through the sort modifier are
// turned back into "First Last" order.
func (e *Extractor) Extract(name string) (map[string]string, bool) {
	m := e.re.FindStringSubmatch(name)
	if m == nil {
		return nil, false
	}

	values := map[string]string{}
	for i, g := range e.groups {
		v := strings.TrimSpace(m[i+1])
		if v == "" || values[g.Field] != "" {
			continue
		}
		if g.Modifier == ModifierSort {
			v = unsortName(v)
		}
		values[g.Field] = v
	}
	return values, true
}

// 🔎 Extract is a one-shot helper around NewExtractor
func Extract(pattern, name string) (map[string]string, bool) {
	e, err := NewExtractor(pattern)
	if err != nil {
		return nil, false
	}
	return e.Extract(name)
}

type extractorCompiler struct {
	b          strings.Builder
	groups     []Placeholder
	afterBlock bool
}

// segment writes text that may contain placeholders
func (c *extractorCompiler) segment(text string) {
	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(text, -1) {
		c.b.WriteString(regexp.QuoteMeta(text[last:loc[0]]))
		c.b.WriteString("(.+?)")

		ph := Placeholder{Field: text[loc[2]:loc[3]], Raw: text[loc[0]:loc[1]]}
		if loc[4] >= 0 {
			ph.Modifier = text[loc[4]:loc[5]]
		}
		c.groups = append(c.groups, ph)
		last = loc[1]
	}
	c.b.WriteString(regexp.QuoteMeta(text[last:]))
}

// literalSegment writes top-level text, relaxing whitespace that touches an
// optional block
func (c *extractorCompiler) literalSegment(text string, beforeBlock bool) {
	lead := 0
	if c.afterBlock {
		lead = len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
	}
	trail := len(text)
	if beforeBlock {
		trail = len(strings.TrimRightFunc(text, unicode.IsSpace))
	}
	if trail < lead {
		// whitespace only, between two blocks
		c.b.WriteString(`\s*`)
		return
	}

	if lead > 0 {
		c.b.WriteString(`\s*`)
	}
	c.segment(text[lead:trail])
	if trail < len(text) {
		c.b.WriteString(`\s*`)
	}
}
