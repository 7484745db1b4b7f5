package history

import (
	"sort"
	"time"
)

// SchemaVersion is the newest migration this package knows.
const SchemaVersion = 2

// Run is one persisted analysis run.
type Run struct {
	ID              string
	ProjectKey      string
	StartedAt       time.Time
	Duration        time.Duration
	FileCount       int
	ParseFailures   int
	TypeCount       int
	CallCount       int
	DiagnosticCount int
	FindingCount    int
}

// Finding is a rule finding stored with its run.
type Finding struct {
	RunID    string
	Rule     string
	Severity string
	File     string
	Line     int
	Column   int
	Symbol   string
	Message  string
}

// TypeSummary records the shape of one declared type in a run.
type TypeSummary struct {
	RunID       string
	TypeName    string
	File        string
	Superclass  string
	MethodCount int
	FieldCount  int
	CallCount   int
}

// TrendPoint compares a run with the one before it.
type TrendPoint struct {
	Run              Run
	DeltaFindings    int
	DeltaDiagnostics int
	DeltaTypes       int
}

// BuildTrend orders runs oldest first and computes deltas against the
// previous run. The first point has zero deltas.
func BuildTrend(runs []Run) []TrendPoint {
	ordered := append([]Run(nil), runs...)
	sortRunsAscending(ordered)

	points := make([]TrendPoint, 0, len(ordered))
	for i, r := range ordered {
		p := TrendPoint{Run: r}
		if i > 0 {
			prev := ordered[i-1]
			p.DeltaFindings = r.FindingCount - prev.FindingCount
			p.DeltaDiagnostics = r.DiagnosticCount - prev.DiagnosticCount
			p.DeltaTypes = r.TypeCount - prev.TypeCount
		}
		points = append(points, p)
	}
	return points
}

func sortRunsAscending(runs []Run) {
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.Before(runs[j].StartedAt)
	})
}
