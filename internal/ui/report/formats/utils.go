package formats

import (
	"path/filepath"
	"strings"
)

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func slashPath(p string) string {
	return filepath.ToSlash(p)
}

var flatten = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// field keeps s on one TSV line.
func field(s string) string {
	return flatten.Replace(s)
}

// mdCell escapes s for a markdown table cell.
func mdCell(s string) string {
	return strings.ReplaceAll(flatten.Replace(s), "|", "\\|")
}
