package rules

import (
	"io"
	"log/slog"
	"testing"

	"codegrader/internal/engine/analysis"
	"codegrader/internal/engine/parser"
)

type source struct {
	path string
	code string
}

// analyze parses and resolves sources the way a full run does.
func analyze(t *testing.T, sources ...source) []*analysis.CodeFile {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := parser.NewParser(parser.NewGrammarLoader(), logger)

	files := make([]*analysis.CodeFile, 0, len(sources))
	for _, s := range sources {
		f, err := p.ParseFile(s.path, []byte(s.code))
		if err != nil {
			t.Fatalf("parse %s: %v", s.path, err)
		}
		if f.ParseErr != nil {
			t.Fatalf("parse %s: %v", s.path, f.ParseErr)
		}
		files = append(files, f)
	}

	e := analysis.NewEngine(analysis.Options{Logger: logger})
	e.DeclareTypes(files)
	for _, f := range analysis.SortForAnalysis(files, analysis.OrderInheritance) {
		if err := e.FindComponentsInFile(f); err != nil {
			t.Fatalf("analyze %s: %v", f.Path, err)
		}
	}
	return files
}

func symbols(findings []Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Symbol)
	}
	return out
}

func symbolSet(findings []Finding) map[string]bool {
	out := make(map[string]bool, len(findings))
	for _, f := range findings {
		out[f.Symbol] = true
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
