package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codegrader/internal/engine/analysis"

	"github.com/gobwas/glob"
)

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateAnalysis(cfg *Config) error {
	if _, ok := analysis.ParseOrder(cfg.Analysis.Order); !ok {
		return fmt.Errorf("analysis.order must be one of: path, inheritance; got %q", cfg.Analysis.Order)
	}
	if cfg.Analysis.Workers < 1 {
		return fmt.Errorf("analysis.workers must be >= 1, got %d", cfg.Analysis.Workers)
	}
	for i, name := range cfg.Analysis.WellKnownTypes {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("analysis.well_known_types[%d] must not be empty", i)
		}
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if !cfg.DB.Enabled {
		return nil
	}
	if cfg.DB.Path == "" {
		return fmt.Errorf("db.path must not be empty")
	}
	if cfg.DB.ProjectKey == "" {
		return fmt.Errorf("db.project_key must not be empty")
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for _, group := range []struct {
		key      string
		patterns []string
	}{
		{"exclude.dirs", cfg.Exclude.Dirs},
		{"exclude.files", cfg.Exclude.Files},
	} {
		for _, pattern := range group.patterns {
			if _, err := glob.Compile(pattern); err != nil {
				return fmt.Errorf("%s: invalid pattern %q: %w", group.key, pattern, err)
			}
		}
	}
	return nil
}

// validateOutput rejects two reports targeting the same file.
func validateOutput(cfg *Config) error {
	seen := make(map[string]string)
	for _, target := range []struct {
		key  string
		path string
	}{
		{"output.markdown", cfg.Output.Markdown},
		{"output.sarif", cfg.Output.SARIF},
		{"output.tsv", cfg.Output.TSV},
		{"output.json", cfg.Output.JSON},
		{"output.yaml", cfg.Output.YAML},
	} {
		if target.path == "" {
			continue
		}
		clean := filepath.Clean(target.path)
		if other, ok := seen[clean]; ok {
			return fmt.Errorf("%s and %s both write %q", other, target.key, target.path)
		}
		seen[clean] = target.key
	}
	return nil
}

func validateRules(cfg *Config) error {
	for _, kind := range cfg.Rules.Loops.DisallowedKinds {
		if _, ok := analysis.ParseLoopKind(kind); !ok {
			return fmt.Errorf("rules.loops.disallowed_kinds: unknown loop kind %q", kind)
		}
	}
	for _, name := range cfg.Rules.Naming.AllowedSingleLetter {
		if len([]rune(name)) != 1 {
			return fmt.Errorf("rules.naming.allowed_single_letter: %q is not a single letter", name)
		}
	}
	for _, m := range cfg.Rules.Tests.MethodsExpectedToBeTested {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("rules.tests.methods_expected_to_be_tested must not contain empty names")
		}
	}
	return nil
}

// Validate reports every problem that would stop a run, including ones that
// depend on the filesystem. Parse only checks the file itself.
func Validate(cfg *Config) []error {
	var errs []error
	for _, check := range []func(*Config) error{
		validateVersion,
		validateAnalysis,
		validateDatabase,
		validateExclude,
		validateOutput,
		validateRules,
	} {
		if err := check(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range cfg.WatchPaths {
		info, err := os.Stat(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("watch_paths: %w", err))
			continue
		}
		if !info.IsDir() {
			errs = append(errs, fmt.Errorf("watch_paths: %s is not a directory", p))
		}
	}
	return errs
}
