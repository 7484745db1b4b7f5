package config

import (
	"errors"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	coreerrors "codegrader/internal/core/errors"
)

// DefaultFile is looked up in the working directory when -config is unset.
const DefaultFile = "codegrader.toml"

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// LoadOrDefault loads path, falling back to DefaultConfig when the file
// does not exist. The bool reports whether a file was read.
func LoadOrDefault(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Parse decodes TOML text over DefaultConfig and validates the result.
func Parse(data string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, coreerrors.Wrap(err, coreerrors.CodeValidationError, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, coreerrors.Newf(coreerrors.CodeValidationError, "unknown config keys: %s", strings.Join(keys, ", "))
	}

	applyDefaults(cfg)
	normalize(cfg)

	for _, validate := range []func(*Config) error{
		validateVersion,
		validateAnalysis,
		validateDatabase,
		validateExclude,
		validateOutput,
		validateRules,
	} {
		if err := validate(cfg); err != nil {
			return nil, coreerrors.Wrap(err, coreerrors.CodeValidationError, "invalid config")
		}
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.WatchPaths) == 0 {
		cfg.WatchPaths = []string{"."}
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "target", "build", "out", "node_modules"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}

	if cfg.Analysis.Workers <= 0 {
		cfg.Analysis.Workers = runtime.NumCPU()
	}
	if strings.TrimSpace(cfg.Analysis.Order) == "" {
		cfg.Analysis.Order = "inheritance"
	}
	if len(cfg.Analysis.TestAnnotations) == 0 {
		cfg.Analysis.TestAnnotations = []string{"Test", "ParameterizedTest", "RepeatedTest"}
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = ".codegrader/history.db"
	}
	if strings.TrimSpace(cfg.DB.ProjectKey) == "" {
		cfg.DB.ProjectKey = "default"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "codegrader"
	}
}

func normalize(cfg *Config) {
	cfg.Analysis.Order = strings.ToLower(strings.TrimSpace(cfg.Analysis.Order))
	cfg.DB.Path = strings.TrimSpace(cfg.DB.Path)
	cfg.DB.ProjectKey = strings.TrimSpace(cfg.DB.ProjectKey)
	cfg.Output.Root = strings.TrimSpace(cfg.Output.Root)
	cfg.Output.Markdown = strings.TrimSpace(cfg.Output.Markdown)
	cfg.Output.SARIF = strings.TrimSpace(cfg.Output.SARIF)
	cfg.Output.TSV = strings.TrimSpace(cfg.Output.TSV)
	cfg.Output.JSON = strings.TrimSpace(cfg.Output.JSON)
	cfg.Output.YAML = strings.TrimSpace(cfg.Output.YAML)
	for i, k := range cfg.Rules.Loops.DisallowedKinds {
		cfg.Rules.Loops.DisallowedKinds[i] = strings.ToLower(strings.TrimSpace(k))
	}
}
