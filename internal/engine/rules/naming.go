package rules

import (
	"fmt"
	"regexp"

	"codegrader/internal/core/config"
	"codegrader/internal/engine/analysis"
)

const RuleNaming = "naming"

var (
	digits      = regexp.MustCompile(`\d+`)
	camelCase   = regexp.MustCompile(`^[a-z]+(?:A|[A-Z][a-z]+)*[A-Z]?$`)
	pascalCase  = regexp.MustCompile(`^(?:A|[A-Z][a-z]+)*[A-Z]?$`)
	allCapsCase = regexp.MustCompile(`^[A-Z]+(?:_[A-Z]+)*$`)
)

type convention struct {
	label string
	re    *regexp.Regexp
}

var (
	conventionVariable = convention{"camelCase", camelCase}
	conventionType     = convention{"PascalCase", pascalCase}
	conventionConstant = convention{"ALL_CAPS_SNAKE_CASE", allCapsCase}
)

// NamingRule checks identifiers against Java naming conventions. Digits are
// ignored, and single-letter names are reported unless allowed.
type NamingRule struct {
	allowed map[string]bool
}

func NewNamingRule(cfg config.NamingRule) *NamingRule {
	allowed := make(map[string]bool, len(cfg.AllowedSingleLetter))
	for _, l := range cfg.AllowedSingleLetter {
		allowed[l] = true
	}
	return &NamingRule{allowed: allowed}
}

func (r *NamingRule) Name() string { return RuleNaming }

func (r *NamingRule) Check(files []*analysis.CodeFile) []Finding {
	var findings []Finding
	for _, f := range files {
		for _, ti := range f.DeclaredTypes() {
			for _, d := range ti.Declarations {
				conv, ok := conventionFor(d.Kind)
				if !ok || d.Name == "" {
					continue
				}
				name := digits.ReplaceAllString(d.Name, "")
				switch {
				case !conv.re.MatchString(name):
					msg := fmt.Sprintf("%s %q should be %s.", describeKind(d.Kind), d.Name, conv.label)
					findings = append(findings, declFinding(RuleNaming, analysis.SeverityWarning, ti.File, d, msg))
				case len(name) == 1 && !r.allowed[d.Name]:
					msg := fmt.Sprintf("%s %q has a single-letter name.", describeKind(d.Kind), d.Name)
					findings = append(findings, declFinding(RuleNaming, analysis.SeverityInfo, ti.File, d, msg))
				}
			}
		}
	}
	return findings
}

// conventionFor follows the Java conventions: constructors share the type
// name and are not checked.
func conventionFor(kind analysis.DeclKind) (convention, bool) {
	switch kind {
	case analysis.DeclType:
		return conventionType, true
	case analysis.DeclMethod, analysis.DeclVariable, analysis.DeclField:
		return conventionVariable, true
	case analysis.DeclConstant, analysis.DeclConstantField:
		return conventionConstant, true
	}
	return convention{}, false
}
