package report

import (
	"fmt"
	"strings"
	"time"

	"codegrader/internal/data/history"
)

func RenderTrendTSV(points []history.TrendPoint) []byte {
	var buf strings.Builder

	buf.WriteString("RunID\tStartedAt\tFiles\tTypes\tCalls\tDiagnostics\tFindings\tDeltaTypes\tDeltaDiagnostics\tDeltaFindings\n")
	for _, p := range points {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			p.Run.ID,
			p.Run.StartedAt.UTC().Format(time.RFC3339),
			p.Run.FileCount,
			p.Run.TypeCount,
			p.Run.CallCount,
			p.Run.DiagnosticCount,
			p.Run.FindingCount,
			p.DeltaTypes,
			p.DeltaDiagnostics,
			p.DeltaFindings,
		))
	}
	return []byte(buf.String())
}

// RenderTrendTable is the terminal view of the run history, oldest first.
func RenderTrendTable(points []history.TrendPoint) string {
	if len(points) == 0 {
		return statusStyle.Render("no runs recorded") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("run history") + "\n")
	for _, p := range points {
		line := fmt.Sprintf("  %s  files=%-4d types=%-4d findings=%-4d %s",
			p.Run.StartedAt.Local().Format("2006-01-02 15:04"),
			p.Run.FileCount,
			p.Run.TypeCount,
			p.Run.FindingCount,
			signed(p.DeltaFindings),
		)
		switch {
		case p.DeltaFindings > 0:
			b.WriteString(errorStyle.Render(line))
		case p.DeltaFindings < 0:
			b.WriteString(successStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
