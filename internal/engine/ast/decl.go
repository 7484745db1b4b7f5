package ast

// TypeFlavor distinguishes the Java type declaration keywords.
type TypeFlavor uint8

const (
	FlavorClass TypeFlavor = iota
	FlavorInterface
	FlavorEnum
	FlavorRecord
	FlavorAnnotation
)

func (f TypeFlavor) String() string {
	switch f {
	case FlavorInterface:
		return "interface"
	case FlavorEnum:
		return "enum"
	case FlavorRecord:
		return "record"
	case FlavorAnnotation:
		return "@interface"
	}
	return "class"
}

type CompilationUnit struct {
	Location
	Package string
	Imports []string
	Types   []*TypeDecl
}

// TypeDecl covers classes, interfaces, enums and records. Body holds the
// member declarations in source order.
type TypeDecl struct {
	Location
	Flavor         TypeFlavor
	Modifiers      Modifiers
	Name           *SimpleName
	TypeParameters []string
	Superclass     Type
	Interfaces     []Type
	Body           []Node
}

type MethodDecl struct {
	Location
	Modifiers   Modifiers
	Constructor bool
	ReturnType  Type
	Name        *SimpleName
	Parameters  []*SingleVariableDecl
	Body        *Block
}

type FieldDecl struct {
	Location
	Modifiers Modifiers
	Type      Type
	Fragments []*VariableDeclFragment
}

type VariableDeclStmt struct {
	Location
	Modifiers Modifiers
	Type      Type
	Fragments []*VariableDeclFragment
}

// VariableDeclExpr is a declaration in expression position: for-loop
// initializers and try resources.
type VariableDeclExpr struct {
	Location
	Modifiers Modifiers
	Type      Type
	Fragments []*VariableDeclFragment
}

type VariableDeclFragment struct {
	Location
	Name        *SimpleName
	Dimensions  int
	Initializer Node
}

// SingleVariableDecl is a formal parameter, catch parameter, enhanced-for
// variable or lambda parameter. Type is nil for inferred lambda parameters.
type SingleVariableDecl struct {
	Location
	Modifiers  Modifiers
	Type       Type
	Name       *SimpleName
	Varargs    bool
	Dimensions int
}

func (*CompilationUnit) Kind() Kind      { return KindCompilationUnit }
func (*TypeDecl) Kind() Kind             { return KindTypeDecl }
func (*MethodDecl) Kind() Kind           { return KindMethodDecl }
func (*FieldDecl) Kind() Kind            { return KindFieldDecl }
func (*VariableDeclStmt) Kind() Kind     { return KindVariableDeclStmt }
func (*VariableDeclExpr) Kind() Kind     { return KindVariableDeclExpr }
func (*VariableDeclFragment) Kind() Kind { return KindVariableDeclFragment }
func (*SingleVariableDecl) Kind() Kind   { return KindSingleVariableDecl }

// TypeName is the declared simple name, or "" for a nameless node.
func (t *TypeDecl) TypeName() string {
	if t == nil || t.Name == nil {
		return ""
	}
	return t.Name.Identifier
}

func (m *MethodDecl) MethodName() string {
	if m == nil || m.Name == nil {
		return ""
	}
	return m.Name.Identifier
}
