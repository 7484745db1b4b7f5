package analysis

import (
	"strings"

	"codegrader/internal/engine/ast"
)

type DeclKind uint8

const (
	DeclUnknown DeclKind = iota
	DeclMethod
	DeclType
	DeclVariable
	DeclConstant
	DeclField
	DeclConstantField
	DeclConstructor
	DeclThis
	DeclCast
)

func (k DeclKind) String() string {
	switch k {
	case DeclMethod:
		return "method"
	case DeclType:
		return "type"
	case DeclVariable:
		return "variable"
	case DeclConstant:
		return "constant"
	case DeclField:
		return "field"
	case DeclConstantField:
		return "constant_field"
	case DeclConstructor:
		return "constructor"
	case DeclThis:
		return "this"
	case DeclCast:
		return "cast"
	}
	return "unknown"
}

// IsCallable reports whether the declaration can be the target of a call.
func (k DeclKind) IsCallable() bool {
	return k == DeclMethod || k == DeclConstructor
}

// Declaration is a named binding. Everything except the inferred value type
// is fixed at construction.
type Declaration struct {
	Name          string
	TypeName      string
	TypeArguments []TypeRef
	Kind          DeclKind
	IsFinal       bool
	IsStatic      bool
	Node          ast.Node
	Line          int
	// Signature is the parameter type list of constructors, "..." for methods.
	Signature string

	valueTypeName string
	arity         int
}

// NewDeclaration derives kind, finality and staticness from node and its
// modifiers. name is the declared identifier; typ is the declared type.
func NewDeclaration(name string, typ TypeRef, node ast.Node) *Declaration {
	d := &Declaration{
		Name:          name,
		TypeName:      typ.Name,
		TypeArguments: typ.Arguments,
		Node:          node,
	}
	if !ast.IsNil(node) {
		d.Line = node.Loc().Start.Line
	}

	var mods ast.Modifiers
	switch n := node.(type) {
	case *ast.TypeDecl:
		d.Kind = DeclType
		mods = n.Modifiers
	case *ast.MethodDecl:
		d.Kind = DeclMethod
		d.Signature = "..."
		if n.Constructor {
			d.Kind = DeclConstructor
		}
		mods = n.Modifiers
	case *ast.FieldDecl:
		d.Kind = DeclField
		mods = n.Modifiers
	case *ast.VariableDeclStmt:
		d.Kind = DeclVariable
		mods = n.Modifiers
	case *ast.VariableDeclExpr:
		d.Kind = DeclVariable
		mods = n.Modifiers
	case *ast.SingleVariableDecl:
		d.Kind = DeclVariable
		mods = n.Modifiers
	case *ast.InstanceofExpr:
		d.Kind = DeclVariable
	case *ast.ThisExpr:
		d.Kind = DeclThis
	case *ast.CastExpr:
		d.Kind = DeclCast
	}

	d.IsFinal = mods.IsFinal()
	d.IsStatic = mods.IsStatic()
	switch {
	case d.Kind == DeclVariable && d.IsFinal:
		d.Kind = DeclConstant
	case d.Kind == DeclField && d.IsFinal && d.IsStatic:
		d.Kind = DeclConstantField
	}
	return d
}

func newConstructorDeclaration(name string, params []TypeRef, node *ast.MethodDecl) *Declaration {
	d := NewDeclaration(name, TypeRef{Name: name}, node)
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.Qualified())
	}
	d.Signature = strings.Join(parts, ", ")
	return d
}

// Key is the name the declaration is registered under in its scope.
func (d *Declaration) Key() string {
	switch d.Kind {
	case DeclMethod:
		return methodKey(d.Name)
	case DeclConstructor:
		return d.Name + "(" + d.Signature + ")"
	}
	return d.Name
}

// ValueTypeName is the most recently inferred runtime type, or "".
func (d *Declaration) ValueTypeName() string { return d.valueTypeName }

// EffectiveTypeName prefers the inferred value type over the declared type.
func (d *Declaration) EffectiveTypeName() string {
	if d.valueTypeName != "" {
		return d.valueTypeName
	}
	return d.TypeName
}

func (d *Declaration) setValueType(name string) {
	if name != "" {
		d.valueTypeName = name
	}
}

func methodKey(name string) string { return name + "(...)" }
