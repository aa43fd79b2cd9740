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
)

var (
	// 🧩 placeholderRe matches {field} and {field:modifier}
	placeholderRe = regexp.MustCompile(`\{([^}:]+)(?::([^}]+))?\}`)

	// 📦 optionalBlockRe matches the narrowest complete <...> span, blocks never nest
	optionalBlockRe = regexp.MustCompile(`<([^<>]*)>`)
)

// 🏷️ Placeholder is a single {field} or {field:modifier} occurrence in a pattern
type Placeholder struct {
	Field    string // Key into the value map
	Modifier string // Optional modifier name, empty when absent
	Raw      string // Placeholder text as written
}

// 🎯 Resolve expands pattern against values.
//
// Missing or empty values never fail the call: they resolve to an empty
// string, or switch an optional block over to its fallback.
func Resolve(pattern string, values map[string]string) string {
	if pattern == "" {
		return ""
	}

	resolved := optionalBlockRe.ReplaceAllStringFunc(pattern, func(block string) string {
		return resolveBlock(block[1:len(block)-1], values)
	})

	resolved = substitute(resolved, values)

	return strings.TrimSpace(resolved)
}

// resolveBlock picks between the primary and fallback content of an optional block
func resolveBlock(content string, values map[string]string) string {
	primary, fallback, hasFallback := strings.Cut(content, "|")

	if satisfied(primary, values) {
		return substitute(primary, values)
	}
	if hasFallback {
		return substitute(fallback, values)
	}
	return ""
}

// satisfied reports whether every field named in content has a non-blank value
func satisfied(content string, values map[string]string) bool {
	for _, m := range placeholderRe.FindAllStringSubmatch(content, -1) {
		if strings.TrimSpace(values[m[1]]) == "" {
			return false
		}
	}
	return true
}

// substitute replaces every placeholder in text, applying modifiers
func substitute(text string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(raw string) string {
		m := placeholderRe.FindStringSubmatch(raw)
		return ApplyModifier(m[1], values[m[1]], m[2])
	})
}

// 🔍 Placeholders returns every placeholder in pattern in order of appearance,
// including those inside optional blocks
func Placeholders(pattern string) []Placeholder {
	matches := placeholderRe.FindAllStringSubmatch(pattern, -1)
	out := make([]Placeholder, 0, len(matches))
	for _, m := range matches {
		out = append(out, Placeholder{
			Field:    m[1],
			Modifier: m[2],
			Raw:      m[0],
		})
	}
	return out
}

// 📋 Fields returns the distinct field names used in pattern
func Fields(pattern string) []string {
	seen := map[string]bool{}
	var fields []string
	for _, p := range Placeholders(pattern) {
		if seen[p.Field] {
			continue
		}
		seen[p.Field] = true
		fields = append(fields, p.Field)
	}
	return fields
}
