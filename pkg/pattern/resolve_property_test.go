package pattern

import (
	"strings"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

// TestResolveProperties checks properties that hold for every input
func TestResolveProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: text without placeholders or blocks only gets trimmed
	properties.Property("literal text is trimmed", prop.ForAll(
		func(text string) bool {
			return Resolve(text, map[string]string{"title": "Dune"}) == strings.TrimSpace(text)
		},
		gen.RegexMatch(`^[a-zA-Z0-9 ._\-()#/,]*$`),
	))

	// Property: a missing field resolves to nothing whatever the modifier
	properties.Property("missing field is empty", prop.ForAll(
		func(field, modifier string) bool {
			return Resolve("{"+field+"}", nil) == "" &&
				Resolve("{"+field+":"+modifier+"}", map[string]string{}) == ""
		},
		gen.Identifier(),
		gen.OneConstOf("first", "sort", "initial", "upper", "lower", "unknown"),
	))

	// Property: an unsatisfied block without fallback disappears
	properties.Property("unsatisfied block is dropped", prop.ForAll(
		func(field, text string) bool {
			return Resolve(text+"<"+"{"+field+"} x>", nil) == strings.TrimSpace(text)
		},
		gen.Identifier(),
		gen.RegexMatch(`^[a-z ]*$`),
	))

	// Property: upper then lower is the same as lower
	properties.Property("case modifiers compose", prop.ForAll(
		func(value string) bool {
			upper := Resolve("{v:upper}", map[string]string{"v": value})
			return Resolve("{v:lower}", map[string]string{"v": upper}) == Resolve("{v:lower}", map[string]string{"v": value})
		},
		gen.RegexMatch(`^[a-zA-Z]*$`),
	))

	properties.TestingRun(t)
}

func TestResolveConcurrent(t *testing.T) {
	values := map[string]string{"authors": "Jane Doe, John Smith", "title": "straße"}

	var wg sync.WaitGroup
	results := make([]string, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Resolve("{authors:sort} - {title:upper}", values)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "Doe, Jane - STRASSE", r)
	}
}
