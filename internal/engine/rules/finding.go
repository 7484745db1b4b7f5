package rules

import (
	"sort"

	"codegrader/internal/engine/analysis"
	"codegrader/internal/engine/ast"
)

// Finding is one grading remark produced by a rule.
type Finding struct {
	Rule     string            `json:"rule" yaml:"rule"`
	Severity analysis.Severity `json:"severity" yaml:"severity"`
	File     string            `json:"file" yaml:"file"`
	Line     int               `json:"line" yaml:"line"`
	Column   int               `json:"column" yaml:"column"`
	Symbol   string            `json:"symbol" yaml:"symbol"`
	Message  string            `json:"message" yaml:"message"`
}

// Rule inspects analyzed files. Rules must not modify what they read.
type Rule interface {
	Name() string
	Check(files []*analysis.CodeFile) []Finding
}

func findingAt(rule string, sev analysis.Severity, file string, node ast.Node, symbol, msg string) Finding {
	f := Finding{Rule: rule, Severity: sev, File: file, Symbol: symbol, Message: msg}
	if !ast.IsNil(node) {
		loc := node.Loc()
		f.Line = loc.Start.Line
		f.Column = loc.Start.Column
	}
	return f
}

// declFinding positions a finding on the declared name.
func declFinding(rule string, sev analysis.Severity, file string, d *analysis.Declaration, msg string) Finding {
	f := findingAt(rule, sev, file, d.Node, d.Name, msg)
	if d.Line > 0 {
		f.Line = d.Line
	}
	return f
}

// SortFindings orders findings by file, position, rule and symbol.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Symbol < b.Symbol
	})
}

// parsedFiles skips files the engine did not analyze.
func parsedFiles(files []*analysis.CodeFile) []*analysis.CodeFile {
	out := make([]*analysis.CodeFile, 0, len(files))
	for _, f := range files {
		if f == nil || f.ParseErr != nil || f.Unit == nil {
			continue
		}
		out = append(out, f)
	}
	return out
}
