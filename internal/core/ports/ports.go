package ports

import (
	"codegrader/internal/data/history"
	"codegrader/internal/engine/analysis"
)

// CodeParser abstracts Java source parsing and source-file selection.
type CodeParser interface {
	ParseFile(path string, content []byte) (*analysis.CodeFile, error)
	IsSupportedPath(path string) bool
	IsTestFile(path string) bool
	SupportedExtensions() []string
	SupportedTestFileSuffixes() []string
}

// HistoryStore abstracts run persistence for trend reporting.
type HistoryStore interface {
	SaveRun(run history.Run, findings []history.Finding, types []history.TypeSummary) error
	LoadRuns(projectKey string, limit int) ([]history.Run, error)
	LoadFindings(runID string) ([]history.Finding, error)
	Close() error
}
