package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codegrader/internal/core/config"
	"codegrader/internal/data/history"
	"codegrader/internal/engine/analysis"
	"codegrader/internal/engine/parser"
)

var shapeSources = map[string]string{
	"shapes/Shape.java": `public interface Shape { double getArea(); }`,
	"shapes/b/Rectangle.java": `
public class Rectangle implements Shape {
    private double w;
    private double h;

    public Rectangle(double w, double h) {
        this.w = w;
        this.h = h;
    }

    public double getArea() {
        return w * h;
    }
}`,
	"shapes/a/Square.java": `
public class Square extends Rectangle {
    public Square(double side) {
        super(side, side);
    }
}`,
	"app/Main.java": `
public class Main {
    public static void main(String[] args) {
        Square sq = new Square(2);
        System.out.println(sq.getArea());
    }
}`,
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSources(t *testing.T, dir string, sources map[string]string) {
	t.Helper()
	for rel, code := range sources {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestApp(t *testing.T, sources map[string]string, mutate func(*config.Config), deps Dependencies) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	writeSources(t, dir, sources)

	cfg := config.DefaultConfig()
	cfg.WatchPaths = []string{dir}
	cfg.Output.Markdown = ""
	cfg.Analysis.Workers = 2
	if mutate != nil {
		mutate(cfg)
	}
	paths := config.ResolvedPaths{
		ProjectRoot: dir,
		WatchPaths:  []string{dir},
		DBPath:      filepath.Join(dir, ".codegrader", "history.db"),
		OutputRoot:  filepath.Join(dir, "reports"),
	}

	if deps.CodeParser == nil {
		deps.CodeParser = parser.NewParser(parser.NewGrammarLoader(), quietLogger())
	}
	if deps.Logger == nil {
		deps.Logger = quietLogger()
	}
	a, err := NewWithDependencies(cfg, paths, deps)
	if err != nil {
		t.Fatalf("NewWithDependencies: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a, dir
}

func TestNewWithDependencies_RequiresCodeParser(t *testing.T) {
	if _, err := NewWithDependencies(config.DefaultConfig(), config.ResolvedPaths{}, Dependencies{}); err == nil {
		t.Fatal("expected missing code parser dependency error")
	}
	if _, err := NewWithDependencies(nil, config.ResolvedPaths{}, Dependencies{}); err == nil {
		t.Fatal("expected missing config error")
	}
}

func TestNewWithDependencies_RejectsBadExcludePattern(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Exclude.Files = []string{"[bad"}
	deps := Dependencies{CodeParser: parser.NewParser(parser.NewGrammarLoader(), quietLogger())}
	if _, err := NewWithDependencies(cfg, config.ResolvedPaths{}, deps); err == nil {
		t.Fatal("expected invalid glob error")
	}
}

func TestScanDirectories(t *testing.T) {
	sources := map[string]string{
		"src/Main.java":             "class Main {}",
		"src/MainTest.java":         "class MainTest {}",
		"src/Generated_Dao.java":    "class Generated_Dao {}",
		"src/notes.txt":             "not java",
		"target/classes/Copy.java":  "class Copy {}",
		"src/nested/deep/Deep.java": "class Deep {}",
	}
	a, dir := newTestApp(t, sources, func(cfg *config.Config) {
		cfg.Exclude.Files = []string{"Generated_*"}
		includeTests := false
		cfg.Analysis.IncludeTests = &includeTests
	}, Dependencies{})

	files, err := a.ScanDirectories([]string{dir, filepath.Join(dir, "src")})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f)
		got = append(got, filepath.ToSlash(rel))
	}
	want := "src/Main.java,src/nested/deep/Deep.java"
	if strings.Join(got, ",") != want {
		t.Fatalf("scanned %v, want %s", got, want)
	}
}

func TestScanDirectories_MissingRoot(t *testing.T) {
	a, dir := newTestApp(t, nil, nil, Dependencies{})
	if _, err := a.ScanDirectories([]string{filepath.Join(dir, "missing")}); err == nil {
		t.Fatal("expected error for a missing root")
	}
}

func TestAnalyze_ResolvesAcrossFilesInInheritanceOrder(t *testing.T) {
	a, dir := newTestApp(t, shapeSources, nil, Dependencies{})

	res, err := a.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.RunID == "" {
		t.Fatal("expected a run id")
	}
	if res.ParseFailures != 0 || res.Conflicts != nil {
		t.Fatalf("unexpected failures: %d %v", res.ParseFailures, res.Conflicts)
	}
	if res.Types.Len() != 4 {
		t.Fatalf("expected 4 types, got %v", res.Types.SortedNames())
	}

	order := make(map[string]int)
	for i, f := range res.Files {
		order[filepath.Base(f.Path)] = i
	}
	if order["Rectangle.java"] > order["Square.java"] {
		t.Errorf("superclass must be analyzed first: %v", order)
	}

	mainType, ok := res.Types.Lookup("Main")
	if !ok {
		t.Fatal("Main not registered")
	}
	var resolved *analysis.MethodCall
	for _, c := range mainType.MethodCalls {
		if c.MethodName == "getArea" {
			resolved = c
		}
	}
	if resolved == nil || resolved.Name != "$Rectangle$.getArea" {
		t.Fatalf("expected inherited call resolution, got %+v", resolved)
	}

	for _, rule := range []string{"unused", "method_calls", "loops", "naming"} {
		if _, ok := res.ByRule[rule]; !ok {
			t.Errorf("rule %s did not run", rule)
		}
	}
	if a.LastResult() != res {
		t.Error("LastResult should return the latest run")
	}

	r := a.BuildReport(res)
	if len(r.Types) != 4 || r.Types[0].Name != "Main" {
		t.Fatalf("report types should be sorted by name: %+v", r.Types)
	}
	for _, row := range r.Types {
		if filepath.IsAbs(row.File) || strings.HasPrefix(row.File, dir) {
			t.Errorf("report paths must be relative, got %s", row.File)
		}
	}
	for _, row := range r.Types {
		if row.Name == "Square" && (row.Superclass != "Rectangle" || row.File != "shapes/a/Square.java") {
			t.Errorf("unexpected Square row %+v", row)
		}
		if row.Name == "Rectangle" && row.Fields != 2 {
			t.Errorf("Rectangle should have 2 fields, got %d", row.Fields)
		}
	}
}

func TestAnalyze_ParseFailureIsSkipped(t *testing.T) {
	sources := map[string]string{
		"Good.java":   "class Good { void run() {} }",
		"Broken.java": "class Broken { void run( { }",
	}
	a, _ := newTestApp(t, sources, nil, Dependencies{})

	res, err := a.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.ParseFailures != 1 {
		t.Fatalf("expected 1 parse failure, got %d", res.ParseFailures)
	}
	if _, ok := res.Types.Lookup("Broken"); ok {
		t.Error("a file that fails to parse must not contribute types")
	}
	found := false
	for _, d := range res.Diagnostics {
		if d.Code == analysis.DiagParseFailure && filepath.Base(d.File) == "Broken.java" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a parse-failure diagnostic, got %+v", res.Diagnostics)
	}
}

func TestAnalyze_DuplicateTypesConflict(t *testing.T) {
	sources := map[string]string{
		"a/Dup.java": "class Dup { void first() {} }",
		"b/Dup.java": "class Dup { void second() {} }",
	}
	a, _ := newTestApp(t, sources, func(cfg *config.Config) { cfg.Analysis.Order = "path" }, Dependencies{})

	res, err := a.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !analysis.IsDuplicateType(res.Conflicts) {
		t.Fatalf("expected duplicate-type conflict, got %v", res.Conflicts)
	}
	dup, _ := res.Types.Lookup("Dup")
	if !dup.DeclaresMethod("first") {
		t.Error("the first registration must be kept")
	}
}

func TestAnalyze_Cancelled(t *testing.T) {
	a, _ := newTestApp(t, shapeSources, nil, Dependencies{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Analyze(ctx, nil); err == nil {
		t.Fatal("expected cancellation error")
	}
}

type memoryHistory struct {
	runs     []history.Run
	findings map[string][]history.Finding
	types    map[string][]history.TypeSummary
	closed   bool
}

func newMemoryHistory() *memoryHistory {
	return &memoryHistory{
		findings: make(map[string][]history.Finding),
		types:    make(map[string][]history.TypeSummary),
	}
}

func (m *memoryHistory) SaveRun(run history.Run, findings []history.Finding, types []history.TypeSummary) error {
	m.runs = append(m.runs, run)
	m.findings[run.ID] = findings
	m.types[run.ID] = types
	return nil
}

func (m *memoryHistory) LoadRuns(projectKey string, limit int) ([]history.Run, error) {
	var out []history.Run
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].ProjectKey == projectKey {
			out = append(out, m.runs[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryHistory) LoadFindings(runID string) ([]history.Finding, error) {
	return m.findings[runID], nil
}

func (m *memoryHistory) Close() error {
	m.closed = true
	return nil
}

func TestAnalyze_PersistsRun(t *testing.T) {
	store := newMemoryHistory()
	sources := map[string]string{
		"Counter.java": `
public class Counter {
    public int count(int[] values) {
        int unusedTotal = 0;
        return values.length;
    }
}`,
	}
	a, _ := newTestApp(t, sources, nil, Dependencies{History: store})

	res, err := a.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(store.runs) != 1 {
		t.Fatalf("expected one saved run, got %d", len(store.runs))
	}
	run := store.runs[0]
	if run.ID != res.RunID || run.ProjectKey != "default" || run.TypeCount != 1 || run.FileCount != 1 {
		t.Errorf("unexpected run %+v", run)
	}
	if run.FindingCount != len(res.Findings) || len(store.findings[run.ID]) != run.FindingCount {
		t.Errorf("finding counts disagree: %+v", run)
	}
	found := false
	for _, f := range store.findings[run.ID] {
		if f.Symbol == "unusedTotal" && f.File == "Counter.java" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unused variable finding with a relative path, got %+v", store.findings[run.ID])
	}
	if ts := store.types[run.ID]; len(ts) != 1 || ts[0].TypeName != "Counter" || ts[0].MethodCount != 1 {
		t.Errorf("unexpected type summaries %+v", ts)
	}

	if _, err := a.Analyze(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	points, err := a.Trend(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 || points[1].DeltaFindings != 0 {
		t.Fatalf("unexpected trend %+v", points)
	}

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if !store.closed {
		t.Error("Close should close the history store")
	}
}

func TestTrend_RequiresHistory(t *testing.T) {
	a, _ := newTestApp(t, nil, nil, Dependencies{})
	if _, err := a.Trend(5); err == nil {
		t.Fatal("expected error when history is disabled")
	}
}

func TestNew_OpensSQLiteHistory(t *testing.T) {
	dir := t.TempDir()
	writeSources(t, dir, map[string]string{"Hello.java": "class Hello {}"})
	cfg := config.DefaultConfig()
	cfg.DB.Enabled = true
	cfg.Output.Markdown = ""
	paths := config.ResolvedPaths{
		ProjectRoot: dir,
		WatchPaths:  []string{dir},
		DBPath:      filepath.Join(dir, cfg.DB.Path),
		OutputRoot:  dir,
	}

	a, err := New(cfg, paths)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	for i := 0; i < 2; i++ {
		if _, err := a.Analyze(context.Background(), nil); err != nil {
			t.Fatal(err)
		}
	}
	points, err := a.Trend(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 || points[0].Run.TypeCount != 1 {
		t.Fatalf("unexpected trend %+v", points)
	}
}

func TestWriteOutputs(t *testing.T) {
	a, dir := newTestApp(t, shapeSources, func(cfg *config.Config) {
		cfg.Output.Markdown = "grade.md"
		cfg.Output.JSON = "grade.json"
		cfg.Output.SARIF = filepath.Join(t.TempDir(), "abs.sarif")
	}, Dependencies{})

	res, err := a.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	written, err := a.WriteOutputs(res)
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 3 {
		t.Fatalf("expected 3 outputs, got %v", written)
	}
	if written[0] != filepath.Join(dir, "reports", "grade.md") {
		t.Errorf("markdown should land under the output root, got %s", written[0])
	}
	data, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "| `Square` | `shapes/a/Square.java` | Rectangle |") {
		t.Errorf("unexpected markdown:\n%s", data)
	}
}

func TestWriteOutputs_NothingConfigured(t *testing.T) {
	a, _ := newTestApp(t, shapeSources, nil, Dependencies{})
	res, err := a.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	written, err := a.WriteOutputs(res)
	if err != nil || len(written) != 0 {
		t.Fatalf("expected no outputs, got %v %v", written, err)
	}
}

func TestHandleChanges_RespectsRunLimit(t *testing.T) {
	a, _ := newTestApp(t, shapeSources, func(cfg *config.Config) { cfg.Watch.MaxRunsPerMinute = 1 }, Dependencies{})

	var runs int
	a.SetResultHandler(func(*Result) { runs++ })

	a.HandleChanges(context.Background(), []string{"Shape.java"})
	a.HandleChanges(context.Background(), []string{"Shape.java"})
	if runs != 1 {
		t.Fatalf("expected the second run to be skipped, got %d runs", runs)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a.HandleChanges(ctx, []string{"Shape.java"})
	if runs != 1 {
		t.Fatal("cancelled contexts must not trigger runs")
	}
}

func TestStartWatcher_ReanalyzesOnChange(t *testing.T) {
	a, dir := newTestApp(t, shapeSources, func(cfg *config.Config) {
		cfg.Watch.Debounce = 50 * time.Millisecond
	}, Dependencies{})

	results := make(chan *Result, 4)
	a.SetResultHandler(func(res *Result) { results <- res })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := a.StartWatcher(ctx); err != nil {
		t.Fatal(err)
	}

	writeSources(t, dir, map[string]string{"shapes/Circle.java": `public class Circle implements Shape { public double getArea() { return 3.14; } }`})

	select {
	case res := <-results:
		if _, ok := res.Types.Lookup("Circle"); !ok {
			t.Fatalf("expected Circle after re-analysis, got %v", res.Types.SortedNames())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for re-analysis")
	}
}

func TestApplyConfig(t *testing.T) {
	a, _ := newTestApp(t, shapeSources, nil, Dependencies{})

	next := config.DefaultConfig()
	next.Rules.Unused.Enabled = false
	next.Rules.MethodCalls.Enabled = false
	next.Rules.Loops.Enabled = false
	next.Rules.Naming.Enabled = false
	if err := a.ApplyConfig(next); err != nil {
		t.Fatal(err)
	}

	res, err := a.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.ByRule) != 0 || len(res.Findings) != 0 {
		t.Fatalf("expected no rules after reload, got %v", res.ByRule)
	}

	bad := config.DefaultConfig()
	bad.Exclude.Dirs = []string{"[oops"}
	if err := a.ApplyConfig(bad); err == nil {
		t.Fatal("expected invalid pattern to be rejected")
	}
	if a.Config != next {
		t.Fatal("a rejected config must not replace the active one")
	}
}

func TestHealthService(t *testing.T) {
	a, _ := newTestApp(t, shapeSources, nil, Dependencies{})
	health := NewHealthService(a)

	status := health.Check(context.Background())
	if status.Status != "up" || status.Components["last_run"] != "pending" {
		t.Fatalf("unexpected status before first run %+v", status)
	}

	if _, err := a.Analyze(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	status = health.Check(context.Background())
	if !strings.HasPrefix(status.Components["last_run"], "ok (4 files, 4 types") {
		t.Fatalf("unexpected last_run %q", status.Components["last_run"])
	}

	a.Config.DB.Enabled = true
	if health.Check(context.Background()).Status != "degraded" {
		t.Fatal("enabled but missing history should degrade health")
	}
}
