// Copyright 2025 The Logfan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package highlight implements regex based colorization of formatted
// log lines destined for the console. A Highlighter is an explicit
// configuration value owned by whoever wires it into a logger; there
// is no process-wide rule registry.
package highlight

import (
	"regexp"
	"strings"

	"github.com/snerble/logfan/pkg/severity"
)

// Rule colors every match of Pattern with Color.
type Rule struct {
	Pattern *regexp.Regexp
	Color   severity.Color
}

// Span is a colored region of a line. Start is inclusive,
// End exclusive, both byte offsets.
type Span struct {
	Start, End int
	Color      severity.Color
}

// Highlighter applies an ordered rule list to log lines.
// Earlier rules take precedence on overlapping matches.
type Highlighter struct {
	rules []Rule
}

// New returns a Highlighter with the given rules.
func New(rules ...Rule) *Highlighter {
	return &Highlighter{rules: rules}
}

// DefaultRules returns a rule set coloring timestamps, canonical level
// names and quoted strings.
func DefaultRules() []Rule {
	rules := []Rule{
		{Pattern: regexp.MustCompile(`\d{2}:\d{2}:\d{2}(\.\d+)?`), Color: severity.ColorGray},
		{Pattern: regexp.MustCompile(`"[^"]*"`), Color: severity.ColorCyan},
	}
	for _, l := range severity.Levels() {
		if l.Color == severity.ColorNone {
			continue
		}
		rules = append(rules, Rule{
			Pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(l.Name) + `\b`),
			Color:   l.Color,
		})
	}
	return rules
}

// Spans returns the colored regions of line. Regions never overlap;
// when two rules match overlapping text the earlier rule wins.
func (h *Highlighter) Spans(line string) []Span {
	var spans []Span
	for _, r := range h.rules {
		for _, m := range r.Pattern.FindAllStringIndex(line, -1) {
			s := Span{Start: m[0], End: m[1], Color: r.Color}
			if s.Start == s.End || overlaps(spans, s) {
				continue
			}
			spans = append(spans, s)
		}
	}
	sortSpans(spans)
	return spans
}

// Render interleaves the plain segments of line with its painted
// spans. Spans must be sorted and non-overlapping, as produced
// by Spans.
func Render(line string, spans []Span) string {
	if len(spans) == 0 {
		return line
	}
	var b strings.Builder
	b.Grow(len(line) + 16*len(spans))
	pos := 0
	for _, s := range spans {
		if s.Start < pos || s.End > len(line) {
			continue
		}
		b.WriteString(line[pos:s.Start])
		b.WriteString(s.Color.Paint(line[s.Start:s.End]))
		pos = s.End
	}
	b.WriteString(line[pos:])
	return b.String()
}

func overlaps(spans []Span, s Span) bool {
	for _, o := range spans {
		if s.Start < o.End && o.Start < s.End {
			return true
		}
	}
	return false
}

func sortSpans(spans []Span) {
	// Insertion sort; rule lists produce nearly sorted spans and the
	// counts are small.
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].Start < spans[j-1].Start; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
}
