package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"codegrader/internal/engine/analysis"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

// RenderSummary is the terminal digest printed after each run.
func RenderSummary(r Report) string {
	sev := r.CountBySeverity()

	var b strings.Builder
	b.WriteString(titleStyle.Render("codegrader") + " " +
		statusStyle.Render(fmt.Sprintf("%d files, %d types in %s", r.FileCount, len(r.Types), time.Duration(r.DurationMS)*time.Millisecond)))
	b.WriteString("\n")

	if r.ParseFailures > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  %d file(s) failed to parse", r.ParseFailures)) + "\n")
	}

	names := make([]string, 0, len(r.ByRule))
	for name := range r.ByRule {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		count := r.ByRule[name]
		line := fmt.Sprintf("  %-14s %d", name, count)
		if count == 0 {
			b.WriteString(successStyle.Render(line) + "\n")
		} else {
			b.WriteString(warningStyle.Render(line) + "\n")
		}
	}

	switch {
	case sev[analysis.SeverityError] > 0:
		b.WriteString(errorStyle.Render(fmt.Sprintf("%d error(s), %d warning(s)", sev[analysis.SeverityError], sev[analysis.SeverityWarning])))
	case sev[analysis.SeverityWarning] > 0:
		b.WriteString(warningStyle.Render(fmt.Sprintf("%d warning(s)", sev[analysis.SeverityWarning])))
	default:
		b.WriteString(successStyle.Render("no warnings"))
	}
	b.WriteString("\n")
	return b.String()
}
