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
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var (
	// ✅ allowedRe is the character allow-list for user supplied patterns
	allowedRe = regexp.MustCompile(`^[\p{L}\p{N}\s\-_{}/().<>|,:'#&!+\[\]]*$`)

	// 🧱 braceSpanRe matches anything that looks like a placeholder
	braceSpanRe = regexp.MustCompile(`\{[^{}]*\}`)
)

// ❌ ValidationError lists every problem found in a pattern
type ValidationError struct {
	Pattern string
	Issues  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, strings.Join(e.Issues, "; "))
}

// 🔍 Validator checks patterns before they are handed to Resolve
type Validator struct {
	fields []string
}

// 🏗️ NewValidator creates a validator. When fields is empty any field name
// is accepted.
func NewValidator(fields ...string) *Validator {
	return &Validator{fields: fields}
}

// 🔍 Validate checks pattern with a validator that accepts any field name
func Validate(pattern string) error {
	return NewValidator().Validate(pattern)
}

// 🔍 Validate reports disallowed characters, unbalanced delimiters, malformed
// placeholders, unknown modifiers and unknown fields
func (v *Validator) Validate(pattern string) error {
	var issues []string

	if !allowedRe.MatchString(pattern) {
		issues = append(issues, fmt.Sprintf("disallowed characters %s", disallowed(pattern)))
	}

	issues = append(issues, checkBalance(pattern, '{', '}')...)
	issues = append(issues, checkBalance(pattern, '<', '>')...)

	for _, span := range braceSpanRe.FindAllString(pattern, -1) {
		if !placeholderRe.MatchString(span) || placeholderRe.FindString(span) != span {
			issues = append(issues, fmt.Sprintf("malformed placeholder %s", span))
		}
	}

	for _, p := range Placeholders(pattern) {
		if strings.TrimSpace(p.Field) == "" {
			issues = append(issues, fmt.Sprintf("empty field name in %s", p.Raw))
			continue
		}
		if p.Modifier != "" && !IsModifier(p.Modifier) {
			issues = append(issues, fmt.Sprintf("unknown modifier %q in %s (supported: %s)", p.Modifier, p.Raw, strings.Join(Modifiers, ", ")))
		}
		if len(v.fields) > 0 && !v.known(p.Field) {
			msg := fmt.Sprintf("unknown field %q", p.Field)
			if s := suggest(p.Field, v.fields); s != "" {
				msg += fmt.Sprintf(", did you mean %q?", s)
			}
			issues = append(issues, msg)
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Pattern: pattern, Issues: issues}
}

func (v *Validator) known(field string) bool {
	for _, f := range v.fields {
		if f == field {
			return true
		}
	}
	return false
}

func disallowed(pattern string) string {
	seen := map[rune]bool{}
	var out []string
	for _, r := range pattern {
		if seen[r] || allowedRe.MatchString(string(r)) {
			continue
		}
		seen[r] = true
		out = append(out, fmt.Sprintf("%q", r))
	}
	sort.Strings(out)
	return strings.Join(out, " ")
}

// checkBalance finds unmatched or nested delimiters. Neither braces nor angle
// brackets nest in the grammar.
func checkBalance(pattern string, open, close rune) []string {
	var issues []string
	depth := 0
	for i, r := range pattern {
		switch r {
		case open:
			if depth > 0 {
				issues = append(issues, fmt.Sprintf("nested %q at offset %d", open, i))
			}
			depth++
		case close:
			if depth == 0 {
				issues = append(issues, fmt.Sprintf("unmatched %q at offset %d", close, i))
				continue
			}
			depth--
		}
	}
	if depth > 0 {
		issues = append(issues, fmt.Sprintf("unclosed %q", open))
	}
	return issues
}

// suggest returns the candidate closest to field, or "" when nothing is close
func suggest(field string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		if fuzzy.MatchFold(field, c) && len(c)-len(field) <= 2 {
			return c
		}
		d := fuzzy.LevenshteinDistance(strings.ToLower(field), strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 || bestDist > 2 {
		return ""
	}
	return best
}
