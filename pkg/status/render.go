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

package status

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"

	"github.com/booklore-app/booknamer/pkg/library"
	"github.com/booklore-app/booknamer/pkg/pattern"
)

// 🎨 statusStyles colors the status column
var statusStyles = map[library.Status]*pterm.Style{
	library.StatusOK:       pterm.NewStyle(pterm.FgBlue),
	library.StatusSkip:     pterm.NewStyle(pterm.FgDarkGray),
	library.StatusConflict: pterm.NewStyle(pterm.FgRed),
	library.StatusError:    pterm.NewStyle(pterm.FgRed, pterm.Bold),
	library.StatusRenamed:  pterm.NewStyle(pterm.FgGreen),
	library.StatusDryRun:   pterm.NewStyle(pterm.FgYellow),
}

func styleStatus(s library.Status) string {
	if st, ok := statusStyles[s]; ok {
		return st.Sprint(string(s))
	}
	return string(s)
}

// 📋 RenderPlan writes a table of plan items followed by the summary line
func RenderPlan(w io.Writer, items []library.PlanItem) error {
	data := pterm.TableData{{"STATUS", "FROM", "TO", "SIZE", "NOTE"}}
	for _, it := range items {
		size := ""
		if it.Book.Size > 0 {
			size = humanize.Bytes(uint64(it.Book.Size))
		}
		data = append(data, []string{styleStatus(it.Status), it.From, it.To, size, it.Reason})
	}

	if len(items) > 0 {
		out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return errors.Errorf("rendering plan table: %w", err)
		}
		if _, err := fmt.Fprintln(w, out); err != nil {
			return errors.Errorf("writing plan table: %w", err)
		}
	}

	if _, err := fmt.Fprintln(w, FormatSummary(library.Summarize(items))); err != nil {
		return errors.Errorf("writing plan summary: %w", err)
	}
	return nil
}

// 📊 FormatSummary describes a summary in one line, omitting zero counts
func FormatSummary(s library.Summary) string {
	parts := []string{plural(s.Total, "book", "books")}

	moving := s.OK + s.Renamed + s.DryRun
	if moving > 0 {
		verb := "to move"
		switch {
		case s.Renamed > 0 && s.OK == 0 && s.DryRun == 0:
			verb = "moved"
		case s.DryRun > 0 && s.OK == 0 && s.Renamed == 0:
			verb = "would move"
		}
		parts = append(parts, fmt.Sprintf("%s %s (%s)", humanize.Comma(int64(moving)), verb, humanize.Bytes(uint64(s.Bytes))))
	}
	if s.Skip > 0 {
		parts = append(parts, fmt.Sprintf("%s skipped", humanize.Comma(int64(s.Skip))))
	}
	if s.Conflict > 0 {
		parts = append(parts, plural(s.Conflict, "conflict", "conflicts"))
	}
	if s.Error > 0 {
		parts = append(parts, plural(s.Error, "error", "errors"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return humanize.Comma(int64(n)) + " " + many
}

// 👀 RenderPreview writes one row per sample name showing the extracted
// values and whether resolving them gives the name back
func RenderPreview(w io.Writer, results []pattern.PreviewResult) error {
	data := pterm.TableData{{"NAME", "VALUES", "RESOLVED", "ROUND TRIP"}}
	for _, r := range results {
		if !r.Matched {
			data = append(data, []string{r.Name, pterm.Red("no match"), "", ""})
			continue
		}

		check := pterm.Green("yes")
		if !r.RoundTrip {
			check = pterm.Yellow("no")
		}
		data = append(data, []string{r.Name, FormatValues(r.Values), r.Resolved, check})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering preview table: %w", err)
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return errors.Errorf("writing preview table: %w", err)
	}
	return nil
}

// 🔤 FormatValues prints values as key=value pairs in key order
func FormatValues(values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, values[k]))
	}
	return strings.Join(parts, " ")
}
