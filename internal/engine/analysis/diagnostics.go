package analysis

import (
	"log/slog"
	"sync"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type DiagnosticCode string

const (
	DiagUnresolvedReceiver DiagnosticCode = "unresolved-receiver"
	DiagUnrecognizedNode   DiagnosticCode = "unrecognized-node"
	DiagInheritanceCycle   DiagnosticCode = "inheritance-cycle"
	DiagDuplicateType      DiagnosticCode = "duplicate-type"
	DiagParseFailure       DiagnosticCode = "parse-failure"
)

// Diagnostic is a non-fatal finding produced while resolving a file.
type Diagnostic struct {
	Code     DiagnosticCode `json:"code" yaml:"code"`
	Severity Severity       `json:"severity" yaml:"severity"`
	File     string         `json:"file" yaml:"file"`
	Line     int            `json:"line,omitempty" yaml:"line,omitempty"`
	Message  string         `json:"message" yaml:"message"`
}

// Diagnostics collects engine diagnostics and mirrors them to a logger.
type Diagnostics struct {
	mu     sync.Mutex
	items  []Diagnostic
	logger *slog.Logger
}

func NewDiagnostics(logger *slog.Logger) *Diagnostics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Diagnostics{logger: logger}
}

func (d *Diagnostics) Add(diag Diagnostic) {
	d.mu.Lock()
	d.items = append(d.items, diag)
	d.mu.Unlock()

	attrs := []any{"code", string(diag.Code), "file", diag.File, "line", diag.Line}
	switch diag.Severity {
	case SeverityError:
		d.logger.Error(diag.Message, attrs...)
	case SeverityWarning:
		d.logger.Warn(diag.Message, attrs...)
	default:
		d.logger.Debug(diag.Message, attrs...)
	}
}

// Items returns a copy of everything collected so far.
func (d *Diagnostics) Items() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, len(d.items))
	copy(out, d.items)
	return out
}

// Count returns how many diagnostics carry code.
func (d *Diagnostics) Count(code DiagnosticCode) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, item := range d.items {
		if item.Code == code {
			n++
		}
	}
	return n
}
