package pattern

import "strings"

// 📋 PreviewResult shows how a pattern reads a single sample name
type PreviewResult struct {
	Name      string            // Sample name as given
	Values    map[string]string // Values extracted from Name, nil when unmatched
	Resolved  string            // Values fed back through Resolve
	Matched   bool              // Whether Name fits the pattern at all
	RoundTrip bool              // Whether Resolved reproduces Name
}

// 👀 Preview extracts values from name and resolves them again, so a user can
// check a pattern against sample file names before importing
func (e *Extractor) Preview(name string) PreviewResult {
	res := PreviewResult{Name: name}

	values, ok := e.Extract(name)
	if !ok {
		return res
	}

	res.Values = values
	res.Matched = true
	res.Resolved = Resolve(e.pattern, values)
	res.RoundTrip = res.Resolved == strings.TrimSpace(name)
	return res
}
