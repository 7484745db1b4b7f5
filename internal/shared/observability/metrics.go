package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codegrader_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	ParseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegrader_parse_failures_total",
		Help: "Source files skipped because they did not parse.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codegrader_analysis_seconds",
		Help:    "Time spent on each stage of an analysis run.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	FilesAnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegrader_files_analyzed_total",
		Help: "Source files walked by the resolution engine.",
	})

	TypesDeclared = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codegrader_types_declared",
		Help: "Types registered in the type map by the latest run.",
	})

	MethodCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codegrader_method_calls_total",
		Help: "Method calls recorded, by dispatch kind.",
	}, []string{"kind"})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codegrader_diagnostics_total",
		Help: "Engine diagnostics emitted, by severity.",
	}, []string{"severity"})

	FindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codegrader_findings_total",
		Help: "Rule findings reported, by rule.",
	}, []string{"rule"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegrader_watcher_events_total",
		Help: "File system events received by the watcher.",
	})

	WatcherRunsSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegrader_watcher_runs_skipped_total",
		Help: "Watch-mode runs dropped by the run rate limit.",
	})

	ParserPoolLeased = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "codegrader_parser_pool_leased",
		Help: "Parsers currently checked out of the pool.",
	})

	HistoryWriteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegrader_history_write_errors_total",
		Help: "Failed attempts to persist a run to the history database.",
	})
)
