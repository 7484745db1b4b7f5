package formats

import (
	"time"

	"codegrader/internal/engine/analysis"
	"codegrader/internal/engine/rules"
)

// Report is the rendered view of one analysis run. Paths are already
// relative to the project root.
type Report struct {
	RunID         string                `json:"run_id" yaml:"run_id"`
	Version       string                `json:"version" yaml:"version"`
	GeneratedAt   time.Time             `json:"generated_at" yaml:"generated_at"`
	DurationMS    int64                 `json:"duration_ms" yaml:"duration_ms"`
	FileCount     int                   `json:"file_count" yaml:"file_count"`
	ParseFailures int                   `json:"parse_failures" yaml:"parse_failures"`
	Types         []TypeRow             `json:"types" yaml:"types"`
	Diagnostics   []analysis.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Findings      []rules.Finding       `json:"findings" yaml:"findings"`
	ByRule        map[string]int        `json:"by_rule" yaml:"by_rule"`
}

// TypeRow summarizes one analyzed type.
type TypeRow struct {
	Name       string `json:"name" yaml:"name"`
	File       string `json:"file" yaml:"file"`
	Superclass string `json:"superclass,omitempty" yaml:"superclass,omitempty"`
	Methods    int    `json:"methods" yaml:"methods"`
	Fields     int    `json:"fields" yaml:"fields"`
	Calls      int    `json:"calls" yaml:"calls"`
	Loops      int    `json:"loops" yaml:"loops"`
}

// CountBySeverity tallies findings per severity.
func (r Report) CountBySeverity() map[analysis.Severity]int {
	out := make(map[analysis.Severity]int, 3)
	for _, f := range r.Findings {
		out[f.Severity]++
	}
	return out
}
