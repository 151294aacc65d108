// Package report renders lint results for humans. Nothing here persists
// anything; generators write to the caller's io.Writer.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"trespass/internal/util"
	"trespass/lint"
)

type MarkdownOptions struct {
	Title       string
	GeneratedAt time.Time
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(result *lint.Result, opts MarkdownOptions) string {
	if opts.Title == "" {
		opts.Title = "Member Visibility Report"
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", opts.Title)
	fmt.Fprintf(&b, "- Run: `%s`\n", result.RunID)
	fmt.Fprintf(&b, "- Generated: %s\n", opts.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Files: %d (skipped %d)\n", result.Files, result.Skipped)
	fmt.Fprintf(&b, "- Checks: %d (allowed %d, denied %d, unknown member %d)\n\n",
		result.Checks, result.Allowed, result.Denied, result.Unknown)

	if len(result.PerLanguage) > 0 {
		b.WriteString("## Languages\n\n")
		for _, lang := range util.SortedStringKeys(result.PerLanguage) {
			fmt.Fprintf(&b, "- %s: %d file(s)\n", lang, result.PerLanguage[lang])
		}
		b.WriteString("\n")
	}

	if len(result.Findings) == 0 {
		b.WriteString("No visibility violations found.\n")
		return b.String()
	}

	b.WriteString("## Findings\n\n")
	b.WriteString("| Rule | Location | Member | Detail |\n")
	b.WriteString("|------|----------|--------|--------|\n")
	for _, f := range sortedFindings(result.Findings) {
		fmt.Fprintf(&b, "| %s | %s:%d:%d | `%s.%s` | %s |\n",
			f.Rule, f.Location.File, f.Location.Line, f.Location.Column,
			f.Class, f.Member, f.Message)
	}

	return b.String()
}

// Write renders straight to a writer.
func (m *MarkdownGenerator) Write(w io.Writer, result *lint.Result, opts MarkdownOptions) error {
	_, err := io.WriteString(w, m.Generate(result, opts))
	return err
}

// sortedFindings orders findings by file, then line, then column, so
// output is stable across runs.
func sortedFindings(findings []lint.Finding) []lint.Finding {
	out := append([]lint.Finding(nil), findings...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Location, out[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}
