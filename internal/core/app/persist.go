package app

import (
	"context"
	"time"

	"codegrader/internal/core/errors"
	"codegrader/internal/data/history"
	"codegrader/internal/engine/analysis"
	"codegrader/internal/shared/observability"
	"codegrader/internal/shared/util"
)

// persist stores the run when history is enabled. Failures are logged and
// counted; they never fail the run.
func (a *App) persist(ctx context.Context, res *Result) {
	if a.history == nil {
		return
	}
	_, span := observability.Tracer.Start(ctx, "app.persist")
	defer span.End()
	start := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("persist").Observe(time.Since(start).Seconds())
	}()

	run := history.Run{
		ID:              res.RunID,
		ProjectKey:      a.Config.DB.ProjectKey,
		StartedAt:       res.StartedAt,
		Duration:        res.Duration,
		FileCount:       len(res.Files),
		ParseFailures:   res.ParseFailures,
		TypeCount:       res.Types.Len(),
		CallCount:       res.CallCount(),
		DiagnosticCount: len(res.Diagnostics),
		FindingCount:    len(res.Findings),
	}

	findings := make([]history.Finding, 0, len(res.Findings))
	for _, f := range res.Findings {
		findings = append(findings, history.Finding{
			RunID:    res.RunID,
			Rule:     f.Rule,
			Severity: string(f.Severity),
			File:     util.DisplayPath(a.Paths.ProjectRoot, f.File),
			Line:     f.Line,
			Column:   f.Column,
			Symbol:   f.Symbol,
			Message:  f.Message,
		})
	}

	types := make([]history.TypeSummary, 0, res.Types.Len())
	for _, ti := range res.Types.All() {
		types = append(types, history.TypeSummary{
			RunID:       res.RunID,
			TypeName:    ti.Name,
			File:        util.DisplayPath(a.Paths.ProjectRoot, ti.File),
			Superclass:  ti.Superclass(),
			MethodCount: methodCount(ti),
			FieldCount:  fieldCount(ti),
			CallCount:   len(ti.MethodCalls),
		})
	}

	if err := a.history.SaveRun(run, findings, types); err != nil {
		observability.HistoryWriteErrorsTotal.Inc()
		span.RecordError(err)
		a.logger.Warn("failed to save run history", "run_id", res.RunID, "error", err)
	}
}

func methodCount(ti *analysis.TypeInformation) int {
	n := 0
	for _, decls := range ti.MethodDeclarations {
		n += len(decls)
	}
	return n
}

func fieldCount(ti *analysis.TypeInformation) int {
	n := 0
	for _, d := range ti.Declarations {
		if d.Kind == analysis.DeclField || d.Kind == analysis.DeclConstantField {
			n++
		}
	}
	return n
}

// Trend loads up to limit recent runs of the configured project, oldest
// first, with deltas between consecutive runs.
func (a *App) Trend(limit int) ([]history.TrendPoint, error) {
	if a.history == nil {
		return nil, errors.New(errors.CodeNotSupported, "history is disabled; set db.enabled = true")
	}
	runs, err := a.history.LoadRuns(a.Config.DB.ProjectKey, limit)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "load_runs")
	}
	return history.BuildTrend(runs), nil
}
