package pattern

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 🔧 Modifier names understood by Resolve
const (
	ModifierFirst   = "first"
	ModifierSort    = "sort"
	ModifierInitial = "initial"
	ModifierUpper   = "upper"
	ModifierLower   = "lower"
)

// authorsField gets special treatment from the initial modifier
const authorsField = "authors"

// listSeparator joins multiple authors into a single value
const listSeparator = ", "

// Modifiers lists every supported modifier
var Modifiers = []string{ModifierFirst, ModifierSort, ModifierInitial, ModifierUpper, ModifierLower}

// 🔄 ApplyModifier transforms the value of field according to modifier.
// Empty values and unknown modifiers pass through unchanged.
func ApplyModifier(field, value, modifier string) string {
	if value == "" || modifier == "" {
		return value
	}

	switch modifier {
	case ModifierFirst:
		return firstEntry(value)
	case ModifierSort:
		return sortName(firstEntry(value))
	case ModifierInitial:
		if field == authorsField {
			return initial(lastName(firstEntry(value)))
		}
		return initial(value)
	case ModifierUpper:
		// cases.Caser is stateful, one per call keeps Resolve safe for concurrent use
		return cases.Upper(language.Und).String(value)
	case ModifierLower:
		return cases.Lower(language.Und).String(value)
	default:
		return value
	}
}

// IsModifier reports whether name is a supported modifier
func IsModifier(name string) bool {
	for _, m := range Modifiers {
		if m == name {
			return true
		}
	}
	return false
}

func firstEntry(value string) string {
	first, _, _ := strings.Cut(value, listSeparator)
	return strings.TrimSpace(first)
}

// sortName turns "Jane Q. Public" into "Public, Jane Q."
func sortName(name string) string {
	i := strings.LastIndex(name, " ")
	if i < 0 {
		return name
	}
	return name[i+1:] + listSeparator + name[:i]
}

func lastName(name string) string {
	i := strings.LastIndex(name, " ")
	if i < 0 {
		return name
	}
	return name[i+1:]
}

func initial(value string) string {
	r, size := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError && size <= 1 {
		return ""
	}
	return cases.Upper(language.Und).String(value[:size])
}

// unsortName reverses sortName, used when extracting values from names
func unsortName(name string) string {
	last, first, ok := strings.Cut(name, listSeparator)
	if !ok {
		return name
	}
	return strings.TrimSpace(first) + " " + strings.TrimSpace(last)
}
