package rules

import (
	"fmt"

	"codegrader/internal/core/config"
	"codegrader/internal/engine/analysis"
	"codegrader/internal/engine/ast"
)

const RuleUnused = "unused"

// UnusedRule reports declarations that nothing refers to. Variables count
// as used only through usages inside their own type; types, methods and
// constructors are also used by references from any other type.
type UnusedRule struct {
	cfg     config.UnusedRule
	ignored map[string]map[string]bool
}

func NewUnusedRule(cfg config.UnusedRule) *UnusedRule {
	ignored := make(map[string]map[string]bool, len(cfg.IgnoredNames))
	for typeName, names := range cfg.IgnoredNames {
		set := make(map[string]bool, len(names))
		for _, n := range names {
			set[n] = true
		}
		ignored[typeName] = set
	}
	return &UnusedRule{cfg: cfg, ignored: ignored}
}

func (r *UnusedRule) Name() string { return RuleUnused }

func (r *UnusedRule) Check(files []*analysis.CodeFile) []Finding {
	global := crossTypeReferences(files)

	var findings []Finding
	for _, f := range files {
		for _, ti := range f.DeclaredTypes() {
			local := make(map[string]bool, len(ti.Usages))
			for _, u := range ti.Usages {
				local[u.Declaration.Name] = true
			}
			testMethods := testMethodNodes(ti)
			anonymous := anonymousMethodNodes(ti)

			for _, d := range ti.Declarations {
				if !r.checks(d.Kind) || r.isIgnored(ti.Name, d.Name) || d.Name == "" {
					continue
				}
				if local[d.Name] {
					continue
				}
				if isCrossTypeKind(d.Kind) && global[d.Name] {
					continue
				}
				if m, ok := d.Node.(*ast.MethodDecl); ok && (isEntryPoint(m) || testMethods[m] || anonymous[m]) {
					continue
				}
				msg := fmt.Sprintf("Unused %s %q.", describeKind(d.Kind), d.Name)
				findings = append(findings, declFinding(RuleUnused, analysis.SeverityWarning, ti.File, d, msg))
			}
		}
	}
	return findings
}

func (r *UnusedRule) checks(kind analysis.DeclKind) bool {
	switch kind {
	case analysis.DeclType:
		return r.cfg.CheckTypes
	case analysis.DeclMethod, analysis.DeclConstructor:
		return r.cfg.CheckMethods
	case analysis.DeclVariable, analysis.DeclConstant, analysis.DeclField, analysis.DeclConstantField:
		return r.cfg.CheckVariables
	}
	return false
}

func (r *UnusedRule) isIgnored(typeName, name string) bool {
	return r.ignored["global"][name] || r.ignored[typeName][name]
}

func isCrossTypeKind(kind analysis.DeclKind) bool {
	switch kind {
	case analysis.DeclType, analysis.DeclMethod, analysis.DeclConstructor, analysis.DeclConstantField, analysis.DeclField:
		return true
	}
	return false
}

// crossTypeReferences collects the names any type refers to: called method
// names, called and declared types, superclasses and resolved usages.
func crossTypeReferences(files []*analysis.CodeFile) map[string]bool {
	refs := make(map[string]bool)
	for _, f := range files {
		for _, ti := range f.DeclaredTypes() {
			if s := ti.Superclass(); s != "" {
				refs[s] = true
			}
			for _, c := range ti.MethodCalls {
				refs[c.MethodName] = true
				if c.CalledType != "" {
					refs[c.CalledType] = true
				}
			}
			for _, d := range ti.Declarations {
				if !refersToType(d.Kind) {
					continue
				}
				if d.TypeName != "" {
					refs[analysis.BaseName(d.TypeName)] = true
				}
				for _, arg := range d.TypeArguments {
					refs[analysis.BaseName(arg.Name)] = true
				}
			}
			for _, u := range ti.Usages {
				refs[u.Declaration.Name] = true
			}
		}
	}
	return refs
}

// refersToType is true for declarations whose type name is a reference
// written in the source rather than the declaring type itself.
func refersToType(kind analysis.DeclKind) bool {
	switch kind {
	case analysis.DeclType, analysis.DeclThis, analysis.DeclConstructor, analysis.DeclUnknown:
		return false
	}
	return true
}

// testMethodNodes returns the methods whose body scope is a test scope.
func testMethodNodes(ti *analysis.TypeInformation) map[*ast.MethodDecl]bool {
	out := make(map[*ast.MethodDecl]bool)
	for _, s := range ti.Scopes {
		if m, ok := s.Node.(*ast.MethodDecl); ok && s.IsTest {
			out[m] = true
		}
	}
	return out
}

// anonymousMethodNodes returns the methods of anonymous class bodies. They
// implement the instantiated type and are called through it.
func anonymousMethodNodes(ti *analysis.TypeInformation) map[*ast.MethodDecl]bool {
	out := make(map[*ast.MethodDecl]bool)
	for _, s := range ti.Scopes {
		if _, ok := s.Node.(*ast.ClassInstanceCreation); !ok {
			continue
		}
		for _, d := range s.Declarations() {
			if m, ok := d.Node.(*ast.MethodDecl); ok {
				out[m] = true
			}
		}
	}
	return out
}

// isEntryPoint covers main and overrides, which are called from outside
// the analyzed sources.
func isEntryPoint(m *ast.MethodDecl) bool {
	if m.Modifiers.HasAnnotation("Override") {
		return true
	}
	return m.MethodName() == "main" && m.Modifiers.IsStatic()
}

func describeKind(kind analysis.DeclKind) string {
	switch kind {
	case analysis.DeclType:
		return "class/enum/interface"
	case analysis.DeclConstantField:
		return "constant field"
	}
	return kind.String()
}
