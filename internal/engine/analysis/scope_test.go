package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegrader/internal/engine/ast"
)

func variable(name, typeName string) *Declaration {
	return NewDeclaration(name, TypeRef{Name: typeName}, local(typ(typeName), name, nil))
}

func TestSearchReturnsInnermostBinding(t *testing.T) {
	outer := NewScope(nil, false, variable("x", "int"), variable("y", "int"))
	inner := NewScope(nil, false, variable("x", "String"))
	stack := []*Scope{outer, inner}

	x := Search("x", stack)
	require.NotNil(t, x)
	assert.Equal(t, "String", x.TypeName)

	y := Search("y", stack)
	require.NotNil(t, y)
	assert.Equal(t, "int", y.TypeName)
	assert.Same(t, outer, SearchScope("y", stack))

	assert.Nil(t, Search("z", stack))
	assert.Equal(t, "int", Search("x", stack[:1]).TypeName)
}

func TestDeclareLastWriteWinsAndKeepsOrder(t *testing.T) {
	s := NewScope(nil, false)
	s.Declare(variable("a", "int"))
	s.Declare(variable("b", "int"))
	s.Declare(variable("a", "long"))
	s.Declare(nil)

	require.Equal(t, 2, s.Len())
	decls := s.Declarations()
	assert.Equal(t, "a", decls[0].Name)
	assert.Equal(t, "long", decls[0].TypeName)
	assert.Equal(t, "b", decls[1].Name)
}

func TestPushDoesNotShareBackingArray(t *testing.T) {
	base := make([]*Scope, 1, 4)
	base[0] = NewScope(nil, false)
	a := push(base, NewScope(nil, false, variable("a", "int")))
	b := push(base, NewScope(nil, false, variable("b", "int")))

	assert.NotNil(t, Search("a", a))
	assert.Nil(t, Search("a", b))
	assert.NotNil(t, Search("b", b))
}

func TestDeclarationKinds(t *testing.T) {
	m := method(mods("public", "static"), prim("void"), "run", nil)
	c := ctor("Point", nil)

	tests := []struct {
		name   string
		decl   *Declaration
		kind   DeclKind
		key    string
		final  bool
		static bool
	}{
		{"variable", NewDeclaration("a", TypeRef{Name: "int"}, local(prim("int"), "a", nil)), DeclVariable, "a", false, false},
		{"final variable", NewDeclaration("a", TypeRef{Name: "int"}, &ast.VariableDeclStmt{Modifiers: mods("final"), Type: prim("int")}), DeclConstant, "a", true, false},
		{"field", NewDeclaration("f", TypeRef{Name: "int"}, field(nil, prim("int"), "f", nil)), DeclField, "f", false, false},
		{"final field", NewDeclaration("f", TypeRef{Name: "int"}, field(mods("final"), prim("int"), "f", nil)), DeclField, "f", true, false},
		{"static final field", NewDeclaration("MAX", TypeRef{Name: "int"}, field(mods("static", "final"), prim("int"), "MAX", nil)), DeclConstantField, "MAX", true, true},
		{"method", NewDeclaration("run", TypeRef{Name: "void"}, m), DeclMethod, "run(...)", false, true},
		{"constructor", newConstructorDeclaration("Point", []TypeRef{{Name: "int"}, {Name: "List", Arguments: []TypeRef{{Name: "String"}}}}, c), DeclConstructor, "Point(int, List<String>)", false, false},
		{"type", NewDeclaration("Point", TypeRef{Name: "Point"}, class("Point", "")), DeclType, "Point", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.decl.Kind)
			assert.Equal(t, tt.key, tt.decl.Key())
			assert.Equal(t, tt.final, tt.decl.IsFinal)
			assert.Equal(t, tt.static, tt.decl.IsStatic)
		})
	}
}

func TestEffectiveTypeNamePrefersValueType(t *testing.T) {
	d := variable("s", "Shape")
	assert.Equal(t, "Shape", d.EffectiveTypeName())
	d.setValueType("Square")
	d.setValueType("")
	assert.Equal(t, "Square", d.EffectiveTypeName())
	assert.Equal(t, "Square", d.ValueTypeName())
}
