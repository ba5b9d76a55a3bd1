package tui

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/aalvaropc/suitemap/internal/domain"
	"github.com/aalvaropc/suitemap/internal/record"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func actionsLine(in []domain.Action) string {
	out := make([]string, len(in))
	for i, a := range in {
		out[i] = string(a)
	}
	return strings.Join(out, ", ")
}

func renderDescription(t Theme, d record.Description) string {
	var b strings.Builder

	b.WriteString(t.Title.Render(d.Name))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", t.Label.Render("type:   "), d.RecordType)
	fmt.Fprintf(&b, "%s %s\n", t.Label.Render("actions:"), actionsLine(d.Actions))
	if d.SearchClass != "" {
		fmt.Fprintf(&b, "%s %s\n", t.Label.Render("search: "), d.SearchClass)
	}

	width := 0
	for _, f := range d.Fields {
		if n := utf8.RuneCountInString(f.Name); n > width {
			width = n
		}
	}
	width = min(width, 32)

	b.WriteString("\nFields:\n")
	for _, f := range d.Fields {
		typ := string(f.Kind)
		if f.Type != "" {
			typ = f.Type
		}
		fmt.Fprintf(&b, "  %-*s  %s  %s\n", width, clampString(f.Name, width), t.Label.Render(f.Wire), typ)
	}

	if len(d.Aliases) > 0 {
		keys := make([]string, 0, len(d.Aliases))
		for k := range d.Aliases {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\nAliases:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s -> %s\n", k, d.Aliases[k])
		}
	}

	return b.String()
}
