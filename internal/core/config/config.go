package config

import "time"

// Config is the decoded codegrader.toml.
type Config struct {
	Version       int           `toml:"version"`
	WatchPaths    []string      `toml:"watch_paths"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Analysis      Analysis      `toml:"analysis"`
	DB            Database      `toml:"db"`
	Output        Output        `toml:"output"`
	Observability Observability `toml:"observability"`
	Rules         Rules         `toml:"rules"`
}

// Exclude holds gobwas/glob patterns matched against directory and file
// base names.
type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRunsPerMinute caps re-analysis in watch mode; 0 disables the cap.
	MaxRunsPerMinute int `toml:"max_runs_per_minute"`
}

type Analysis struct {
	Workers                 int      `toml:"workers"`
	Order                   string   `toml:"order"`
	IncludeTests            *bool    `toml:"include_tests"`
	WarnUnresolvedReceivers bool     `toml:"warn_unresolved_receivers"`
	WellKnownTypes          []string `toml:"well_known_types"`
	TestAnnotations         []string `toml:"test_annotations"`
}

// IncludesTests defaults to true when include_tests is unset.
func (a Analysis) IncludesTests() bool {
	return a.IncludeTests == nil || *a.IncludeTests
}

type Database struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	ProjectKey  string        `toml:"project_key"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

// Output names report files relative to Root. Empty names disable a report.
type Output struct {
	Root     string `toml:"root"`
	Markdown string `toml:"markdown"`
	SARIF    string `toml:"sarif"`
	TSV      string `toml:"tsv"`
	JSON     string `toml:"json"`
	YAML     string `toml:"yaml"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

type Rules struct {
	Unused      UnusedRule      `toml:"unused"`
	MethodCalls MethodCallsRule `toml:"method_calls"`
	Tests       TestsRule       `toml:"tests"`
	Loops       LoopsRule       `toml:"loops"`
	Naming      NamingRule      `toml:"naming"`
}

type UnusedRule struct {
	Enabled        bool `toml:"enabled"`
	CheckVariables bool `toml:"check_variables"`
	CheckMethods   bool `toml:"check_methods"`
	CheckTypes     bool `toml:"check_types"`
	// IgnoredNames maps a type name, or "global", to names never reported.
	IgnoredNames map[string][]string `toml:"ignored_names"`
}

type MethodCallsRule struct {
	Enabled        bool     `toml:"enabled"`
	IgnoredMethods []string `toml:"ignored_methods"`
	IgnoredTypes   []string `toml:"ignored_types"`
	UniqueOnly     bool     `toml:"unique_only"`
}

type TestsRule struct {
	Enabled                   bool     `toml:"enabled"`
	MethodsExpectedToBeTested []string `toml:"methods_expected_to_be_tested"`
}

type LoopsRule struct {
	Enabled           bool     `toml:"enabled"`
	DisallowedMethods []string `toml:"disallowed_methods"`
	DisallowedKinds   []string `toml:"disallowed_kinds"`
}

type NamingRule struct {
	Enabled             bool     `toml:"enabled"`
	AllowedSingleLetter []string `toml:"allowed_single_letter"`
}

// DefaultConfig is used when no config file exists.
func DefaultConfig() *Config {
	cfg := &Config{
		Rules: Rules{
			Unused:      UnusedRule{Enabled: true, CheckVariables: true, CheckMethods: true, CheckTypes: true},
			MethodCalls: MethodCallsRule{Enabled: true, UniqueOnly: true},
			Loops:       LoopsRule{Enabled: true},
			Naming:      NamingRule{Enabled: true, AllowedSingleLetter: []string{"i", "j", "k", "e", "x", "y"}},
		},
		Output: Output{Markdown: "codegrader-report.md"},
	}
	applyDefaults(cfg)
	return cfg
}
