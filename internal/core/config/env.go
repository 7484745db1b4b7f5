package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies CODEGRADER_[SECTION]_[KEY] variables, e.g.
// CODEGRADER_DB_PATH or CODEGRADER_OBSERVABILITY_METRICS_ADDR.
func ApplyEnvOverrides(cfg *Config) {
	setEnvInt(&cfg.Analysis.Workers, "CODEGRADER_ANALYSIS_WORKERS")
	setEnvString(&cfg.Analysis.Order, "CODEGRADER_ANALYSIS_ORDER")
	setEnvBool(&cfg.Analysis.WarnUnresolvedReceivers, "CODEGRADER_ANALYSIS_WARN_UNRESOLVED_RECEIVERS")

	setEnvBool(&cfg.DB.Enabled, "CODEGRADER_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "CODEGRADER_DB_PATH")
	setEnvString(&cfg.DB.ProjectKey, "CODEGRADER_DB_PROJECT_KEY")
	setEnvDuration(&cfg.DB.BusyTimeout, "CODEGRADER_DB_BUSY_TIMEOUT")

	setEnvDuration(&cfg.Watch.Debounce, "CODEGRADER_WATCH_DEBOUNCE")
	setEnvInt(&cfg.Watch.MaxRunsPerMinute, "CODEGRADER_WATCH_MAX_RUNS_PER_MINUTE")

	setEnvString(&cfg.Output.Root, "CODEGRADER_OUTPUT_ROOT")

	setEnvString(&cfg.Observability.MetricsAddr, "CODEGRADER_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "CODEGRADER_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.ServiceName, "CODEGRADER_OBSERVABILITY_SERVICE_NAME")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(val)
		if err != nil {
			slog.Warn("ignoring env override", "key", key, "error", err)
			return
		}
		slog.Debug("applying env override", "key", key, "value", val)
		*target = i
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err != nil {
			slog.Warn("ignoring env override", "key", key, "error", err)
			return
		}
		slog.Debug("applying env override", "key", key, "value", val)
		*target = b
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			slog.Warn("ignoring env override", "key", key, "error", err)
			return
		}
		slog.Debug("applying env override", "key", key, "value", val)
		*target = d
	}
}
