package rules

import (
	"context"

	"codegrader/internal/core/config"
	"codegrader/internal/engine/analysis"
	"codegrader/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
)

type Evaluator struct {
	rules []Rule
}

type EvaluationResult struct {
	Findings     []Finding
	CheckedTypes int
	// ByRule counts findings per rule name, including rules with none.
	ByRule map[string]int
}

func NewEvaluator(rules ...Rule) *Evaluator {
	return &Evaluator{rules: rules}
}

// FromConfig builds an evaluator with every enabled rule, in a fixed order.
func FromConfig(cfg config.Rules) *Evaluator {
	var rules []Rule
	if cfg.Unused.Enabled {
		rules = append(rules, NewUnusedRule(cfg.Unused))
	}
	if cfg.MethodCalls.Enabled {
		rules = append(rules, NewMethodCallRule(cfg.MethodCalls))
	}
	if cfg.Tests.Enabled {
		rules = append(rules, NewTestRule(cfg.Tests))
	}
	if cfg.Loops.Enabled {
		rules = append(rules, NewLoopRule(cfg.Loops))
	}
	if cfg.Naming.Enabled {
		rules = append(rules, NewNamingRule(cfg.Naming))
	}
	return NewEvaluator(rules...)
}

func (e *Evaluator) Rules() []Rule {
	if e == nil {
		return nil
	}
	return append([]Rule(nil), e.rules...)
}

// Evaluate runs every rule over files and returns sorted findings.
func (e *Evaluator) Evaluate(ctx context.Context, files []*analysis.CodeFile) EvaluationResult {
	result := EvaluationResult{ByRule: make(map[string]int)}
	if e == nil {
		return result
	}
	parsed := parsedFiles(files)
	for _, f := range parsed {
		result.CheckedTypes += len(f.DeclaredTypes())
	}

	for _, rule := range e.rules {
		_, span := observability.Tracer.Start(ctx, "rules."+rule.Name())
		findings := rule.Check(parsed)
		span.SetAttributes(attribute.Int("findings", len(findings)))
		span.End()

		result.ByRule[rule.Name()] += len(findings)
		observability.FindingsTotal.WithLabelValues(rule.Name()).Add(float64(len(findings)))
		result.Findings = append(result.Findings, findings...)
	}
	SortFindings(result.Findings)
	return result
}
