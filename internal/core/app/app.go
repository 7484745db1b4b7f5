// Package app wires parsing, resolution, rules, persistence and reporting
// into analysis runs.
package app

import (
	"fmt"
	"log/slog"
	"sync"

	"codegrader/internal/core/config"
	"codegrader/internal/core/errors"
	"codegrader/internal/core/ports"
	"codegrader/internal/core/watcher"
	"codegrader/internal/data/history"
	"codegrader/internal/engine/parser"
	"codegrader/internal/engine/rules"
	"codegrader/internal/shared/util"

	"github.com/gobwas/glob"
)

var (
	_ ports.CodeParser   = (*parser.Parser)(nil)
	_ ports.HistoryStore = (*history.Store)(nil)
)

// Dependencies lets callers replace the parser or history store.
// A nil History disables persistence.
type Dependencies struct {
	CodeParser ports.CodeParser
	History    ports.HistoryStore
	Logger     *slog.Logger
}

type App struct {
	Config *config.Config
	Paths  config.ResolvedPaths

	codeParser ports.CodeParser
	history    ports.HistoryStore
	evaluator  *rules.Evaluator
	logger     *slog.Logger

	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob

	resultMu sync.RWMutex
	last     *Result
	onResult func(*Result)

	runMu         sync.Mutex
	runLimiter    *util.Limiter
	activeWatcher *watcher.Watcher
}

// New builds an App with the tree-sitter Java parser and, when enabled, the
// SQLite history store.
func New(cfg *config.Config, paths config.ResolvedPaths) (*App, error) {
	logger := slog.Default()
	deps := Dependencies{
		CodeParser: parser.NewParser(parser.NewGrammarLoader(), logger),
		Logger:     logger,
	}
	if cfg.DB.Enabled {
		store, err := history.Open(paths.DBPath, cfg.DB.BusyTimeout)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxOperation, "open_history")
		}
		deps.History = store
	}
	a, err := NewWithDependencies(cfg, paths, deps)
	if err != nil && deps.History != nil {
		_ = deps.History.Close()
	}
	return a, err
}

func NewWithDependencies(cfg *config.Config, paths config.ResolvedPaths, deps Dependencies) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is required")
	}
	if deps.CodeParser == nil {
		return nil, errors.New(errors.CodeValidationError, "code parser is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	excludeDirs, err := compileGlobs(cfg.Exclude.Dirs, "exclude dir")
	if err != nil {
		return nil, err
	}
	excludeFiles, err := compileGlobs(cfg.Exclude.Files, "exclude file")
	if err != nil {
		return nil, err
	}
	if len(paths.WatchPaths) == 0 {
		paths.WatchPaths = append([]string(nil), cfg.WatchPaths...)
	}

	return &App{
		Config:       cfg,
		Paths:        paths,
		codeParser:   deps.CodeParser,
		history:      deps.History,
		evaluator:    rules.FromConfig(cfg.Rules),
		logger:       deps.Logger,
		excludeDirs:  excludeDirs,
		excludeFiles: excludeFiles,
		runLimiter:   util.PerMinute(cfg.Watch.MaxRunsPerMinute),
	}, nil
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid %s pattern %q", label, p))
		}
		out = append(out, g)
	}
	return out, nil
}

// SetResultHandler registers a callback invoked after every completed run.
func (a *App) SetResultHandler(handler func(*Result)) {
	a.resultMu.Lock()
	defer a.resultMu.Unlock()
	a.onResult = handler
}

// LastResult returns the most recent run, or nil.
func (a *App) LastResult() *Result {
	a.resultMu.RLock()
	defer a.resultMu.RUnlock()
	return a.last
}

func (a *App) publish(res *Result) {
	a.resultMu.Lock()
	a.last = res
	handler := a.onResult
	a.resultMu.Unlock()
	if handler != nil {
		handler(res)
	}
}

// History exposes the configured store, or nil when persistence is off.
func (a *App) History() ports.HistoryStore {
	return a.history
}

func (a *App) Close() error {
	var firstErr error
	a.runMu.Lock()
	w := a.activeWatcher
	a.activeWatcher = nil
	a.runMu.Unlock()
	if w != nil {
		if err := w.Close(); err != nil {
			firstErr = err
		}
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.history = nil
	}
	return firstErr
}
