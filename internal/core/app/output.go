package app

import (
	"path/filepath"

	"codegrader/internal/core/errors"
	"codegrader/internal/engine/analysis"
	"codegrader/internal/engine/rules"
	"codegrader/internal/shared/util"
	"codegrader/internal/shared/version"
	"codegrader/internal/ui/report"
)

// BuildReport converts res into the report model with project-relative
// paths. Types are listed by name.
func (a *App) BuildReport(res *Result) report.Report {
	root := a.Paths.ProjectRoot
	rel := func(p string) string { return util.DisplayPath(root, p) }

	r := report.Report{
		RunID:         res.RunID,
		Version:       version.String(),
		GeneratedAt:   res.StartedAt,
		DurationMS:    res.Duration.Milliseconds(),
		FileCount:     len(res.Files),
		ParseFailures: res.ParseFailures,
		ByRule:        res.ByRule,
	}

	for _, name := range res.Types.SortedNames() {
		ti, _ := res.Types.Lookup(name)
		r.Types = append(r.Types, report.TypeRow{
			Name:       ti.Name,
			File:       rel(ti.File),
			Superclass: ti.Superclass(),
			Methods:    methodCount(ti),
			Fields:     fieldCount(ti),
			Calls:      len(ti.MethodCalls),
			Loops:      len(ti.Loops),
		})
	}

	r.Diagnostics = make([]analysis.Diagnostic, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		d.File = rel(d.File)
		r.Diagnostics = append(r.Diagnostics, d)
	}
	r.Findings = make([]rules.Finding, 0, len(res.Findings))
	for _, f := range res.Findings {
		f.File = rel(f.File)
		r.Findings = append(r.Findings, f)
	}
	return r
}

// OutputTargets resolves the configured report names against the output root.
func (a *App) OutputTargets() report.Targets {
	resolve := func(name string) string {
		if name == "" {
			return ""
		}
		if filepath.IsAbs(name) {
			return filepath.Clean(name)
		}
		return filepath.Join(a.Paths.OutputRoot, name)
	}
	out := a.Config.Output
	return report.Targets{
		Markdown: resolve(out.Markdown),
		SARIF:    resolve(out.SARIF),
		TSV:      resolve(out.TSV),
		JSON:     resolve(out.JSON),
		YAML:     resolve(out.YAML),
	}
}

// WriteOutputs writes every configured report for res.
func (a *App) WriteOutputs(res *Result) ([]string, error) {
	targets := a.OutputTargets()
	if targets.Empty() {
		return nil, nil
	}
	opts := report.MarkdownOptions{ProjectName: filepath.Base(a.Paths.ProjectRoot)}
	written, err := report.Write(targets, a.BuildReport(res), opts)
	if err != nil {
		return written, errors.Wrap(err, errors.CodeInternal, "write outputs")
	}
	return written, nil
}
