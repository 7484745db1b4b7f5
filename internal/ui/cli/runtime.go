package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	coreapp "codegrader/internal/core/app"
	"codegrader/internal/core/config"
	"codegrader/internal/shared/observability"
	"codegrader/internal/shared/util"
	"codegrader/internal/shared/version"
	"codegrader/internal/ui/report"
)

var validFormats = map[string]bool{"": true, "markdown": true, "md": true, "sarif": true, "tsv": true, "json": true, "yaml": true, "yml": true}

func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "codegrader %s\n", version.String())
		return 0
	}

	logger := configureLogging(opts.verbose, stderr)

	cwd, err := os.Getwd()
	if err != nil {
		logger.Error("failed to detect working directory", "error", err)
		return 1
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	if err := applyModeOptions(&opts, cfg); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			logger.Error("invalid config", "error", e)
		}
		return 1
	}

	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		logger.Error("failed to resolve runtime paths", "error", err)
		return 1
	}

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("failed to flush traces", "error", err)
		}
	}()

	a, err := coreapp.New(cfg, paths)
	if err != nil {
		logger.Error("failed to initialize app", "error", err)
		return 1
	}
	defer a.Close()

	if addr := strings.TrimSpace(cfg.Observability.MetricsAddr); addr != "" {
		server := NewObservabilityServer(addr, coreapp.NewHealthService(a))
		if err := server.Start(ctx); err != nil {
			logger.Error("failed to start observability server", "error", err)
			return 1
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(stopCtx)
		}()
	}

	res, err := a.Analyze(ctx, nil)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		return 1
	}
	if res.Conflicts != nil {
		logger.Warn("duplicate type declarations", "error", res.Conflicts)
	}
	if err := emitRun(a, res, opts.format, stdout); err != nil {
		logger.Error("failed to write outputs", "error", err)
		return 1
	}

	if opts.history {
		if err := printHistory(a, opts, stdout); err != nil {
			logger.Error("history mode failed", "error", err)
			return 1
		}
	}

	if !opts.watch {
		return 0
	}

	a.SetResultHandler(func(res *coreapp.Result) {
		if opts.format == "" {
			fmt.Fprint(stdout, report.RenderSummary(a.BuildReport(res)))
		}
	})
	if err := a.StartWatcher(ctx); err != nil {
		logger.Error("failed to start watcher", "error", err)
		return 1
	}
	if cfgPath != "" {
		reloader := config.NewWatcher(cfgPath, func(next *config.Config) {
			config.ApplyEnvOverrides(next)
			next.WatchPaths = cfg.WatchPaths
			if err := a.ApplyConfig(next); err != nil {
				logger.Warn("ignoring reloaded config", "error", err)
			}
		})
		if err := reloader.Start(ctx); err != nil {
			logger.Warn("config hot reload unavailable", "error", err)
		} else {
			defer reloader.Stop()
		}
	}

	logger.Info("watching for changes", "paths", strings.Join(paths.WatchPaths, ","))
	<-ctx.Done()
	return 0
}

// loadConfig reads path, or codegrader.toml in cwd when path is empty. The
// returned path is empty when defaults were used.
func loadConfig(path, cwd string) (*config.Config, string, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(cwd, config.DefaultFile)
	}

	var (
		cfg   *config.Config
		found bool
		err   error
	)
	if explicit {
		cfg, err = config.Load(path)
		found = err == nil
	} else {
		cfg, found, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return nil, "", err
	}
	config.ApplyEnvOverrides(cfg)
	if !found {
		return cfg, "", nil
	}
	return cfg, path, nil
}

func applyModeOptions(opts *cliOptions, cfg *config.Config) error {
	if opts.once && opts.watch {
		return errors.New("--once and --watch cannot be combined")
	}
	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	if !validFormats[opts.format] {
		return fmt.Errorf("unknown --format %q; use markdown, sarif, tsv, json or yaml", opts.format)
	}
	if opts.historyTSV != "" && !opts.history {
		return errors.New("--history-tsv requires --history")
	}
	if opts.history {
		cfg.DB.Enabled = true
	}
	if len(opts.args) > 0 {
		cfg.WatchPaths = append([]string(nil), opts.args...)
	}
	return nil
}

// emitRun writes the configured report files, then either prints the
// requested format or the terminal summary.
func emitRun(a *coreapp.App, res *coreapp.Result, format string, stdout io.Writer) error {
	if _, err := a.WriteOutputs(res); err != nil {
		return err
	}
	r := a.BuildReport(res)
	if format == "" {
		_, err := fmt.Fprint(stdout, report.RenderSummary(r))
		return err
	}
	data, err := report.Render(format, r, report.MarkdownOptions{ProjectName: filepath.Base(a.Paths.ProjectRoot)})
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

func printHistory(a *coreapp.App, opts cliOptions, stdout io.Writer) error {
	points, err := a.Trend(opts.historyLimit)
	if err != nil {
		return err
	}
	if opts.historyTSV != "" {
		target := config.ResolveRelative(a.Paths.ProjectRoot, opts.historyTSV)
		if err := util.WriteFileWithDirs(target, report.RenderTrendTSV(points), 0o644); err != nil {
			return err
		}
	}
	if opts.format != "" {
		return nil
	}
	_, err = fmt.Fprint(stdout, report.RenderTrendTable(points))
	return err
}
