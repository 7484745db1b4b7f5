package rules

import (
	"fmt"
	"sort"
	"strings"

	"codegrader/internal/core/config"
	"codegrader/internal/engine/analysis"
	"codegrader/internal/engine/ast"
)

const RuleTests = "tests"

// TestRule reports methods that no test reaches. A test reaches a method
// when a test scope calls it directly or through a chain of this. calls.
type TestRule struct {
	expected []string
}

func NewTestRule(cfg config.TestsRule) *TestRule {
	expected := make([]string, 0, len(cfg.MethodsExpectedToBeTested))
	for _, m := range cfg.MethodsExpectedToBeTested {
		if m = strings.TrimSpace(m); m != "" {
			expected = append(expected, m)
		}
	}
	return &TestRule{expected: expected}
}

func (r *TestRule) Name() string { return RuleTests }

func (r *TestRule) Check(files []*analysis.CodeFile) []Finding {
	if len(r.expected) == 0 || len(files) == 0 {
		return nil
	}
	untested := make(map[string]bool, len(r.expected))
	for _, m := range r.expected {
		untested[m] = true
	}

	anchor := files[0].Path
	anchored := false
	for _, f := range files {
		for _, ti := range f.DeclaredTypes() {
			var testScopes []*analysis.Scope
			for _, s := range ti.Scopes {
				if s.IsTest {
					testScopes = append(testScopes, s)
				}
			}
			if len(testScopes) > 0 && !anchored {
				anchor, anchored = ti.File, true
			}
			markTested(untested, testScopes, ti, make(map[*analysis.Scope]bool))
		}
	}

	remaining := make([]string, 0, len(untested))
	for m := range untested {
		remaining = append(remaining, m)
	}
	sort.Strings(remaining)

	findings := make([]Finding, 0, len(remaining))
	for _, m := range remaining {
		findings = append(findings, Finding{
			Rule:     RuleTests,
			Severity: analysis.SeverityWarning,
			File:     anchor,
			Line:     1,
			Column:   1,
			Symbol:   m,
			Message:  fmt.Sprintf("The method %q has not been tested.", shortMethodName(m)),
		})
	}
	return findings
}

// markTested removes every expected method reached from scopes. Calls to
// this.m descend into the scopes of m; visited stops recursive methods.
func markTested(untested map[string]bool, scopes []*analysis.Scope, ti *analysis.TypeInformation, visited map[*analysis.Scope]bool) {
	for _, s := range scopes {
		if visited[s] {
			continue
		}
		visited[s] = true
		for _, call := range s.MethodCalls {
			if strings.HasPrefix(call.Name, "this.") {
				markTested(untested, bodyScopes(ti, call.MethodName), ti, visited)
			}
			if untested[call.Name] {
				delete(untested, call.Name)
			} else if stripped := stripInstanceMarkers(call.Name); untested[stripped] {
				delete(untested, stripped)
			}
		}
	}
}

// bodyScopes returns the scopes of methods named name together with the
// block scopes nested inside them.
func bodyScopes(ti *analysis.TypeInformation, name string) []*analysis.Scope {
	roots := ti.MethodScopes(name)
	if len(roots) == 0 {
		return nil
	}
	var out []*analysis.Scope
	for _, s := range ti.Scopes {
		for _, root := range roots {
			if s == root || within(s.Node, root.Node) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func within(inner, outer ast.Node) bool {
	if ast.IsNil(inner) || ast.IsNil(outer) {
		return false
	}
	a, b := inner.Loc(), outer.Loc()
	return a.Start.Offset >= b.Start.Offset && a.End.Offset <= b.End.Offset
}

func shortMethodName(id string) string {
	if i := strings.LastIndexByte(id, '.'); i >= 0 {
		return id[i+1:]
	}
	return id
}
