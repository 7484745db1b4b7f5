package analysis

import (
	"sort"
	"strings"

	"codegrader/internal/engine/ast"
)

type CallKind uint8

const (
	CallInstanceMethod CallKind = iota + 1
	CallStaticMethod
	CallConstructor
	CallSuperMethod
	CallSuperConstructor
)

func (k CallKind) String() string {
	switch k {
	case CallInstanceMethod:
		return "instance_method"
	case CallStaticMethod:
		return "static_method"
	case CallConstructor:
		return "constructor"
	case CallSuperMethod:
		return "super_method"
	case CallSuperConstructor:
		return "super_constructor"
	}
	return "unknown"
}

// MethodCall is one call site. Name is the normalized identifier
// ("this.m", "T.m", "$T$.m", "T<>(int)", "super.m"); CalledType is "" when
// the target type is unknown.
type MethodCall struct {
	Name       string
	Node       ast.Node
	Kind       CallKind
	MethodName string
	CalledType string
}

func (c *MethodCall) Line() int { return c.Node.Loc().Start.Line }

// Usage links a referencing node to the declaration it resolves to.
type Usage struct {
	Node        ast.Node
	Declaration *Declaration
}

type LoopKind uint8

const (
	LoopFor LoopKind = iota + 1
	LoopEnhancedFor
	LoopWhile
	LoopDoWhile
)

func (k LoopKind) String() string {
	switch k {
	case LoopFor:
		return "for"
	case LoopEnhancedFor:
		return "enhanced_for"
	case LoopWhile:
		return "while"
	case LoopDoWhile:
		return "do_while"
	}
	return "unknown"
}

// ParseLoopKind accepts the String form of a LoopKind.
func ParseLoopKind(s string) (LoopKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "for":
		return LoopFor, true
	case "enhanced_for", "foreach":
		return LoopEnhancedFor, true
	case "while":
		return LoopWhile, true
	case "do_while", "do":
		return LoopDoWhile, true
	}
	return 0, false
}

// Loop records a loop statement. MethodScope is nil for loops outside any
// method (initializer blocks) and MethodIdentifier is then "".
type Loop struct {
	Node             ast.Node
	Kind             LoopKind
	MethodScope      *Scope
	MethodIdentifier string
	TypeName         string
}

// TypeInformation is the walk result for one top-level type declaration.
type TypeInformation struct {
	Name string
	File string
	Decl *ast.TypeDecl

	MethodCalls        []*MethodCall
	Declarations       []*Declaration
	Loops              []*Loop
	Scopes             []*Scope
	Assignments        []ast.Node
	BinaryExpressions  []ast.Node
	UnaryExpressions   []ast.Node
	TernaryExpressions []ast.Node
	Usages             []*Usage

	MethodDeclarations      map[string][]*Declaration
	ConstructorDeclarations map[string]*Declaration
	TypeScope               *Scope
}

func newTypeInformation(file string, decl *ast.TypeDecl) *TypeInformation {
	return &TypeInformation{
		Name:                    decl.TypeName(),
		File:                    file,
		Decl:                    decl,
		MethodDeclarations:      make(map[string][]*Declaration),
		ConstructorDeclarations: make(map[string]*Declaration),
	}
}

// DeclaresMethod reports whether the type itself declares a method named name.
func (t *TypeInformation) DeclaresMethod(name string) bool {
	return len(t.MethodDeclarations[name]) > 0
}

// Superclass is the base name of the extends clause, or "".
func (t *TypeInformation) Superclass() string {
	return superclassOf(t.Decl)
}

// MethodNames returns the declared method names sorted.
func (t *TypeInformation) MethodNames() []string {
	names := make([]string, 0, len(t.MethodDeclarations))
	for name := range t.MethodDeclarations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MethodScopes returns the body scopes of methods named name.
func (t *TypeInformation) MethodScopes(name string) []*Scope {
	var out []*Scope
	for _, s := range t.Scopes {
		if m, ok := s.Node.(*ast.MethodDecl); ok && m.MethodName() == name {
			out = append(out, s)
		}
	}
	return out
}

func superclassOf(decl *ast.TypeDecl) string {
	if decl == nil || ast.IsNil(decl.Superclass) {
		return ""
	}
	ref, ok := ResolveTypeRef(decl.Superclass)
	if !ok {
		return ""
	}
	return simpleTypeName(ref.Name)
}

// simpleTypeName drops package qualifiers: "java.util.List" -> "List".
func simpleTypeName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// CodeFile is one source file moving through the pipeline. Types is filled
// by the engine, keyed by type name, with TypeOrder keeping source order.
type CodeFile struct {
	Path     string
	Source   []byte
	Unit     *ast.CompilationUnit
	ParseErr error

	Types     map[string]*TypeInformation
	TypeOrder []string
}

// Text returns the source covered by loc, or "" when out of range.
func (f *CodeFile) Text(loc ast.Location) string {
	start, end := loc.Start.Offset, loc.End.Offset
	if start < 0 || end > len(f.Source) || start >= end {
		return ""
	}
	return string(f.Source[start:end])
}

// DeclaredTypes returns the file's analyzed types in source order.
func (f *CodeFile) DeclaredTypes() []*TypeInformation {
	out := make([]*TypeInformation, 0, len(f.TypeOrder))
	for _, name := range f.TypeOrder {
		if ti, ok := f.Types[name]; ok {
			out = append(out, ti)
		}
	}
	return out
}
