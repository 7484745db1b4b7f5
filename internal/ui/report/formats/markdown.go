package formats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"codegrader/internal/engine/analysis"
	"codegrader/internal/engine/rules"
)

type MarkdownOptions struct {
	ProjectName string
	// MaxFindingsPerRule caps each rule section; 0 means no cap.
	MaxFindingsPerRule int
}

func GenerateMarkdown(r Report, opts MarkdownOptions) string {
	generatedAt := r.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Code Grading Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + generatedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(r.Version, "dev") + "\n")
	if r.RunID != "" {
		b.WriteString("run_id: " + r.RunID + "\n")
	}
	b.WriteString("---\n\n")

	b.WriteString("# Grading Report\n\n")
	writeSummary(&b, r)
	writeFindings(&b, r, opts.MaxFindingsPerRule)
	writeTypes(&b, r.Types)
	writeDiagnostics(&b, r.Diagnostics)
	return b.String()
}

func writeSummary(b *strings.Builder, r Report) {
	sev := r.CountBySeverity()
	b.WriteString("## Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Files | %d |\n", r.FileCount))
	b.WriteString(fmt.Sprintf("| Parse Failures | %d |\n", r.ParseFailures))
	b.WriteString(fmt.Sprintf("| Types | %d |\n", len(r.Types)))
	b.WriteString(fmt.Sprintf("| Findings | %d |\n", len(r.Findings)))
	b.WriteString(fmt.Sprintf("| Errors | %d |\n", sev[analysis.SeverityError]))
	b.WriteString(fmt.Sprintf("| Warnings | %d |\n", sev[analysis.SeverityWarning]))
	b.WriteString(fmt.Sprintf("| Notes | %d |\n", sev[analysis.SeverityInfo]))
	b.WriteString(fmt.Sprintf("| Diagnostics | %d |\n\n", len(r.Diagnostics)))
}

func writeFindings(b *strings.Builder, r Report, limit int) {
	grouped := make(map[string][]rules.Finding)
	for _, f := range r.Findings {
		grouped[f.Rule] = append(grouped[f.Rule], f)
	}
	names := make([]string, 0, len(r.ByRule))
	for name := range r.ByRule {
		names = append(names, name)
	}
	for name := range grouped {
		if _, ok := r.ByRule[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	b.WriteString("## Findings\n")
	if len(names) == 0 {
		b.WriteString("No rules were run.\n\n")
		return
	}
	for _, name := range names {
		rows := grouped[name]
		b.WriteString(fmt.Sprintf("### %s (%d)\n", name, len(rows)))
		if len(rows) == 0 {
			b.WriteString("None.\n\n")
			continue
		}
		b.WriteString("| Severity | Location | Symbol | Message |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		shown := rows
		if limit > 0 && len(shown) > limit {
			shown = shown[:limit]
		}
		for _, f := range shown {
			b.WriteString(fmt.Sprintf("| %s | `%s` | `%s` | %s |\n",
				f.Severity, location(f.File, f.Line), mdCell(f.Symbol), mdCell(f.Message)))
		}
		if len(shown) < len(rows) {
			b.WriteString(fmt.Sprintf("\n_%d more not shown._\n", len(rows)-len(shown)))
		}
		b.WriteString("\n")
	}
}

func writeTypes(b *strings.Builder, types []TypeRow) {
	b.WriteString("## Types\n")
	if len(types) == 0 {
		b.WriteString("No types were analyzed.\n\n")
		return
	}
	b.WriteString("| Type | File | Extends | Methods | Fields | Calls | Loops |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, t := range types {
		b.WriteString(fmt.Sprintf("| `%s` | `%s` | %s | %d | %d | %d | %d |\n",
			t.Name, slashPath(t.File), nonEmpty(t.Superclass, "-"), t.Methods, t.Fields, t.Calls, t.Loops))
	}
	b.WriteString("\n")
}

func writeDiagnostics(b *strings.Builder, diags []analysis.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	b.WriteString("## Diagnostics\n")
	b.WriteString("| Code | Severity | Location | Message |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, d := range diags {
		b.WriteString(fmt.Sprintf("| %s | %s | `%s` | %s |\n",
			d.Code, d.Severity, location(d.File, d.Line), mdCell(d.Message)))
	}
	b.WriteString("\n")
}

func location(file string, line int) string {
	if line <= 0 {
		return slashPath(file)
	}
	return fmt.Sprintf("%s:%d", slashPath(file), line)
}
