package rules

import (
	"fmt"

	"codegrader/internal/core/config"
	"codegrader/internal/engine/analysis"
)

const RuleLoops = "loops"

// LoopRule flags loops of disallowed kinds and loops inside methods that
// must not contain any, such as methods required to be recursive.
type LoopRule struct {
	methods patternSet
	kinds   map[analysis.LoopKind]bool
}

func NewLoopRule(cfg config.LoopsRule) *LoopRule {
	kinds := make(map[analysis.LoopKind]bool, len(cfg.DisallowedKinds))
	for _, k := range cfg.DisallowedKinds {
		if kind, ok := analysis.ParseLoopKind(k); ok {
			kinds[kind] = true
		}
	}
	return &LoopRule{methods: compilePatterns(cfg.DisallowedMethods), kinds: kinds}
}

func (r *LoopRule) Name() string { return RuleLoops }

func (r *LoopRule) Check(files []*analysis.CodeFile) []Finding {
	if len(r.kinds) == 0 && r.methods.empty() {
		return nil
	}
	var findings []Finding
	for _, f := range files {
		for _, ti := range f.DeclaredTypes() {
			for _, loop := range ti.Loops {
				symbol := loop.MethodIdentifier
				if symbol == "" {
					symbol = loop.TypeName
				}
				if r.kinds[loop.Kind] {
					msg := fmt.Sprintf("%s loops are not allowed.", loop.Kind)
					findings = append(findings, findingAt(RuleLoops, analysis.SeverityWarning, ti.File, loop.Node, symbol, msg))
					continue
				}
				if loop.MethodIdentifier != "" && r.methods.matchCall(loop.MethodIdentifier) {
					msg := fmt.Sprintf("Method %q must not use loops.", loop.MethodIdentifier)
					findings = append(findings, findingAt(RuleLoops, analysis.SeverityWarning, ti.File, loop.Node, symbol, msg))
				}
			}
		}
	}
	return findings
}
