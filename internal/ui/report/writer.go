package report

import (
	"fmt"
	"log/slog"

	"codegrader/internal/shared/util"
	"codegrader/internal/ui/report/formats"
)

// Targets holds resolved output paths; empty paths are skipped.
type Targets struct {
	Markdown string
	SARIF    string
	TSV      string
	JSON     string
	YAML     string
}

func (t Targets) Empty() bool {
	return t.Markdown == "" && t.SARIF == "" && t.TSV == "" && t.JSON == "" && t.YAML == ""
}

// Write renders r into every configured target and returns the paths
// written, in a fixed format order.
func Write(targets Targets, r Report, opts MarkdownOptions) ([]string, error) {
	type artifact struct {
		format string
		path   string
		render func() ([]byte, error)
	}
	artifacts := []artifact{
		{"markdown", targets.Markdown, func() ([]byte, error) { return []byte(formats.GenerateMarkdown(r, opts)), nil }},
		{"sarif", targets.SARIF, func() ([]byte, error) { return formats.GenerateSARIF(r) }},
		{"tsv", targets.TSV, func() ([]byte, error) { return []byte(formats.GenerateTSV(r)), nil }},
		{"json", targets.JSON, func() ([]byte, error) { return formats.GenerateJSON(r) }},
		{"yaml", targets.YAML, func() ([]byte, error) { return formats.GenerateYAML(r) }},
	}

	written := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		if a.path == "" {
			continue
		}
		data, err := a.render()
		if err != nil {
			return written, fmt.Errorf("generate %s output: %w", a.format, err)
		}
		if err := util.WriteFileWithDirs(a.path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s output %q: %w", a.format, a.path, err)
		}
		slog.Debug("report written", "format", a.format, "path", a.path)
		written = append(written, a.path)
	}
	return written, nil
}

// Render returns a single format as bytes, for printing to stdout.
func Render(format string, r Report, opts MarkdownOptions) ([]byte, error) {
	switch format {
	case "markdown", "md":
		return []byte(formats.GenerateMarkdown(r, opts)), nil
	case "sarif":
		return formats.GenerateSARIF(r)
	case "tsv":
		return []byte(formats.GenerateTSV(r)), nil
	case "json":
		return formats.GenerateJSON(r)
	case "yaml", "yml":
		return formats.GenerateYAML(r)
	}
	return nil, fmt.Errorf("unknown report format %q", format)
}
