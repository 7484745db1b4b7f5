package app

import (
	"context"
	stderrors "errors"
	"os"
	"time"

	"codegrader/internal/core/errors"
	"codegrader/internal/engine/analysis"
	"codegrader/internal/engine/rules"
	"codegrader/internal/shared/observability"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// Result is everything one analysis run produced.
type Result struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	// Files are in the order they were fed to the engine.
	Files         []*analysis.CodeFile
	Types         *analysis.TypeMap
	Diagnostics   []analysis.Diagnostic
	Findings      []rules.Finding
	ByRule        map[string]int
	ParseFailures int
	// Conflicts joins the duplicate-type errors of the run.
	Conflicts error
	Summary   string
}

// CallCount totals the method calls recorded across all types.
func (r *Result) CallCount() int {
	n := 0
	for _, ti := range r.Types.All() {
		n += len(ti.MethodCalls)
	}
	return n
}

// Analyze scans paths (the configured watch paths when empty), parses the
// files concurrently, resolves them in configured order, evaluates the
// rules and records the run. Runs are serialized.
func (a *App) Analyze(ctx context.Context, paths []string) (*Result, error) {
	a.runMu.Lock()
	defer a.runMu.Unlock()

	ctx, span := observability.Tracer.Start(ctx, "app.Analyze")
	defer span.End()

	if len(paths) == 0 {
		paths = a.Paths.WatchPaths
	}
	res := &Result{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}

	sources, err := a.ScanDirectories(paths)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		return nil, errors.AddContext(err, errors.CtxOperation, "scan_directories")
	}

	parsed, err := a.parseAll(ctx, sources)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, err
	}
	for _, f := range parsed {
		if f.ParseErr != nil {
			res.ParseFailures++
		}
	}

	engine := a.resolve(ctx, parsed, res)

	stageStart := time.Now()
	eval := a.evaluator.Evaluate(ctx, res.Files)
	observability.AnalysisDuration.WithLabelValues("rules").Observe(time.Since(stageStart).Seconds())
	res.Findings = eval.Findings
	res.ByRule = eval.ByRule
	res.Types = engine.Types()
	res.Diagnostics = engine.Diagnostics().Items()
	res.Summary = engine.Summary()
	res.Duration = time.Since(res.StartedAt)

	recordMetrics(res)
	a.persist(ctx, res)

	span.SetAttributes(
		attribute.String("run.id", res.RunID),
		attribute.Int("files", len(res.Files)),
		attribute.Int("types", res.Types.Len()),
		attribute.Int("findings", len(res.Findings)),
	)
	a.logger.Info("analysis complete",
		"run_id", res.RunID,
		"files", len(res.Files),
		"parse_failures", res.ParseFailures,
		"summary", res.Summary,
		"findings", len(res.Findings),
		"duration", res.Duration,
	)

	a.publish(res)
	return res, nil
}

// parseAll reads and parses sources with at most analysis.workers in
// flight. Unreadable files become parse failures rather than errors.
func (a *App) parseAll(ctx context.Context, sources []string) ([]*analysis.CodeFile, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.parse")
	defer span.End()
	start := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("parse").Observe(time.Since(start).Seconds())
	}()

	out := make([]*analysis.CodeFile, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, a.Config.Analysis.Workers))

	for i, path := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = a.parseOne(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("files", len(out)))
	return out, nil
}

func (a *App) parseOne(path string) *analysis.CodeFile {
	content, err := os.ReadFile(path)
	if err != nil {
		a.logger.Warn("failed to read source", "path", path, "error", err)
		err = errors.Wrap(err, errors.CodeNotFound, "read source")
		return &analysis.CodeFile{Path: path, ParseErr: errors.AddContext(err, errors.CtxPath, path)}
	}
	file, err := a.codeParser.ParseFile(path, content)
	if err != nil {
		a.logger.Warn("failed to parse source", "path", path, "error", err)
		return &analysis.CodeFile{Path: path, Source: content, ParseErr: err}
	}
	return file
}

// resolve feeds files to a fresh engine one at a time in configured order.
func (a *App) resolve(ctx context.Context, files []*analysis.CodeFile, res *Result) *analysis.Engine {
	_, span := observability.Tracer.Start(ctx, "app.resolve")
	defer span.End()
	start := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("resolve").Observe(time.Since(start).Seconds())
	}()

	cfg := a.Config.Analysis
	engine := analysis.NewEngine(analysis.Options{
		WarnUnresolvedReceivers: cfg.WarnUnresolvedReceivers,
		WellKnownTypes:          cfg.WellKnownTypes,
		TestAnnotations:         cfg.TestAnnotations,
		Logger:                  a.logger,
	})

	order, _ := analysis.ParseOrder(cfg.Order)
	if order == analysis.OrderInheritance {
		declared := engine.DeclareTypes(files)
		span.SetAttributes(attribute.Int("declared", declared))
	}
	res.Files = analysis.SortForAnalysis(files, order)

	var conflicts []error
	for _, f := range res.Files {
		if err := engine.FindComponentsInFile(f); err != nil {
			conflicts = append(conflicts, err)
		}
	}
	if len(conflicts) > 0 {
		res.Conflicts = stderrors.Join(conflicts...)
		span.RecordError(res.Conflicts)
	}
	return engine
}

func recordMetrics(res *Result) {
	observability.FilesAnalyzedTotal.Add(float64(len(res.Files) - res.ParseFailures))
	observability.TypesDeclared.Set(float64(res.Types.Len()))
	for _, ti := range res.Types.All() {
		for _, call := range ti.MethodCalls {
			observability.MethodCallsTotal.WithLabelValues(call.Kind.String()).Inc()
		}
	}
	for _, d := range res.Diagnostics {
		observability.DiagnosticsTotal.WithLabelValues(string(d.Severity)).Inc()
	}
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
