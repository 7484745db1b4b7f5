package formats

import (
	"fmt"
	"strings"
)

// GenerateTSV writes one block for findings and, when present, one for
// diagnostics, separated by a blank line.
func GenerateTSV(r Report) string {
	var buf strings.Builder

	buf.WriteString("Rule\tSeverity\tFile\tLine\tColumn\tSymbol\tMessage\n")
	for _, f := range r.Findings {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			f.Rule,
			f.Severity,
			field(slashPath(f.File)),
			f.Line,
			f.Column,
			field(f.Symbol),
			field(f.Message),
		))
	}

	if len(r.Diagnostics) > 0 {
		buf.WriteString("\nCode\tSeverity\tFile\tLine\tMessage\n")
		for _, d := range r.Diagnostics {
			buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%s\n",
				d.Code,
				d.Severity,
				field(slashPath(d.File)),
				d.Line,
				field(d.Message),
			))
		}
	}
	return buf.String()
}
