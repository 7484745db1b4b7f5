package rules

import (
	"fmt"
	"strings"

	"codegrader/internal/core/config"
	"codegrader/internal/engine/analysis"
)

const RuleMethodCalls = "method_calls"

// MethodCallRule lists the calls made by each type so a grader can check
// which library or project methods a submission relies on.
type MethodCallRule struct {
	ignoredMethods patternSet
	ignoredTypes   patternSet
	ignoreThis     bool
	uniqueOnly     bool
}

func NewMethodCallRule(cfg config.MethodCallsRule) *MethodCallRule {
	r := &MethodCallRule{
		ignoredTypes: compilePatterns(cfg.IgnoredTypes),
		uniqueOnly:   cfg.UniqueOnly,
	}
	methods := make([]string, 0, len(cfg.IgnoredMethods))
	for _, m := range cfg.IgnoredMethods {
		if strings.TrimSpace(m) == "this." {
			r.ignoreThis = true
			continue
		}
		methods = append(methods, m)
	}
	r.ignoredMethods = compilePatterns(methods)
	return r
}

func (r *MethodCallRule) Name() string { return RuleMethodCalls }

func (r *MethodCallRule) Check(files []*analysis.CodeFile) []Finding {
	seen := make(map[string]bool)
	var findings []Finding
	for _, f := range files {
		for _, ti := range f.DeclaredTypes() {
			if r.ignoredTypes.match(ti.Name) {
				continue
			}
			for _, call := range ti.MethodCalls {
				if r.ignoreThis && strings.HasPrefix(call.Name, "this.") {
					continue
				}
				if r.ignoredMethods.matchCall(call.Name) {
					continue
				}
				if r.uniqueOnly {
					if seen[call.Name] {
						continue
					}
					seen[call.Name] = true
				}
				findings = append(findings, findingAt(RuleMethodCalls, analysis.SeverityInfo, ti.File, call.Node, call.Name, describeCall(call)))
			}
		}
	}
	return findings
}

func describeCall(call *analysis.MethodCall) string {
	switch call.Kind {
	case analysis.CallConstructor:
		return fmt.Sprintf("Call to constructor of class %q.", call.CalledType)
	case analysis.CallSuperConstructor:
		return "Call to super constructor."
	case analysis.CallSuperMethod:
		return fmt.Sprintf("Call to super method %q.", call.MethodName)
	}
	kind := "method"
	if call.Kind == analysis.CallStaticMethod {
		kind = "static method"
	}
	if call.CalledType != "" {
		return fmt.Sprintf("Call to %s %q of class %q.", kind, call.MethodName, call.CalledType)
	}
	return fmt.Sprintf("Call to %s %q.", kind, call.MethodName)
}
