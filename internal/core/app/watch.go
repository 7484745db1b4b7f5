package app

import (
	"context"
	"errors"
	"io"
	"time"

	"codegrader/internal/core/config"
	"codegrader/internal/core/watcher"
	"codegrader/internal/data/queue"
	"codegrader/internal/engine/rules"
	"codegrader/internal/shared/observability"
	"codegrader/internal/shared/util"
)

const (
	changeQueueCapacity = 32
	changeQueueWait     = time.Second
)

// StartWatcher re-analyzes the watch paths whenever sources change, until
// ctx is done. Runs beyond watch.max_runs_per_minute are skipped.
func (a *App) StartWatcher(ctx context.Context) error {
	changes := queue.NewMemoryQueue[[]string](changeQueueCapacity)
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		func(paths []string) {
			if changes.Enqueue(paths) == queue.EnqueueDropped {
				observability.WatcherRunsSkippedTotal.Inc()
				a.logger.Warn("change queue full, dropping batch", "changed", len(paths))
			}
		},
	)
	if err != nil {
		return err
	}
	w.SetLanguageFilters(
		a.codeParser.SupportedExtensions(),
		a.codeParser.SupportedTestFileSuffixes(),
		a.Config.Analysis.IncludesTests(),
	)
	if a.Paths.OutputRoot != "" && a.Paths.OutputRoot != a.Paths.ProjectRoot {
		w.IgnoreRoots(a.Paths.OutputRoot)
	}
	if err := w.Watch(a.Paths.WatchPaths); err != nil {
		_ = w.Close()
		return err
	}
	a.runMu.Lock()
	a.activeWatcher = w
	a.runMu.Unlock()

	go a.drainChanges(ctx, changes)
	go func() {
		<-ctx.Done()
		_ = w.Close()
		_ = changes.Close()
	}()
	return nil
}

// drainChanges merges every batch queued while a run was in progress into
// the next run.
func (a *App) drainChanges(ctx context.Context, changes *queue.MemoryQueue[[]string]) {
	for {
		batches, err := changes.DequeueBatch(ctx, changeQueueCapacity, changeQueueWait)
		if len(batches) > 0 {
			seen := make(map[string]bool)
			for _, batch := range batches {
				for _, p := range batch {
					seen[p] = true
				}
			}
			a.HandleChanges(ctx, util.SortedStringKeys(seen))
		}
		if errors.Is(err, io.EOF) || ctx.Err() != nil {
			return
		}
	}
}

// HandleChanges runs a full analysis for a batch of changed files. Type
// resolution depends on every file, so the whole tree is re-analyzed.
func (a *App) HandleChanges(ctx context.Context, paths []string) {
	if ctx.Err() != nil {
		return
	}
	a.runMu.Lock()
	limiter := a.runLimiter
	a.runMu.Unlock()
	if !limiter.Allow(1) {
		observability.WatcherRunsSkippedTotal.Inc()
		a.logger.Warn("skipping re-analysis: run rate limit reached", "changed", len(paths))
		return
	}
	a.logger.Info("sources changed", "count", len(paths))

	res, err := a.Analyze(ctx, nil)
	if err != nil {
		a.logger.Error("re-analysis failed", "error", err)
		return
	}
	if _, err := a.WriteOutputs(res); err != nil {
		a.logger.Error("failed to write outputs", "error", err)
	}
}

// ApplyConfig swaps in a reloaded config for subsequent runs. Watch paths,
// exclusions of the running watcher and the history store are kept.
func (a *App) ApplyConfig(cfg *config.Config) error {
	excludeDirs, err := compileGlobs(cfg.Exclude.Dirs, "exclude dir")
	if err != nil {
		return err
	}
	excludeFiles, err := compileGlobs(cfg.Exclude.Files, "exclude file")
	if err != nil {
		return err
	}

	a.runMu.Lock()
	defer a.runMu.Unlock()
	a.Config = cfg
	a.excludeDirs = excludeDirs
	a.excludeFiles = excludeFiles
	a.evaluator = rules.FromConfig(cfg.Rules)
	a.runLimiter = util.PerMinute(cfg.Watch.MaxRunsPerMinute)
	if a.activeWatcher != nil {
		a.activeWatcher.SetDebounce(cfg.Watch.Debounce)
	}
	a.logger.Info("config reloaded", "rules", len(a.evaluator.Rules()))
	return nil
}
