package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codegrader/internal/engine/ast"
)

func TestNumberTypeName(t *testing.T) {
	tests := map[string]string{
		"42":       "int",
		"1_000":    "int",
		"42L":      "long",
		"0xFFl":    "long",
		"0xFF":     "int",
		"0x1Fp3":   "double",
		"1.5":      "double",
		"1e10":     "double",
		"2.0f":     "float",
		"3d":       "double",
		"0xCAFEBD": "int",
	}
	for token, want := range tests {
		assert.Equal(t, want, numberTypeName(token), token)
	}
}

func TestExpressionTypeName(t *testing.T) {
	stack := []*Scope{NewScope(nil, false,
		variable("count", "long"),
		variable("b", "byte"),
		NewDeclaration("size", TypeRef{Name: "int"}, abstractMethod(prim("int"), "size")),
		NewDeclaration("reset", TypeRef{Name: "void"}, abstractMethod(prim("void"), "reset")),
	)}

	tests := []struct {
		name string
		expr ast.Node
		want string
		ok   bool
	}{
		{"string", str(`"a"`), "String", true},
		{"char", &ast.Literal{LiteralKind: ast.KindCharacterLiteral, Value: "'c'"}, "char", true},
		{"null", &ast.Literal{LiteralKind: ast.KindNullLiteral, Value: "null"}, "", false},
		{"creation", &ast.ClassInstanceCreation{Type: generic("ArrayList", typ("String"))}, "ArrayList", true},
		{"array creation", &ast.ArrayCreation{Type: prim("int"), Dimensions: []ast.Node{num("3")}}, "int[]", true},
		{"cast", &ast.CastExpr{Type: typ("Square"), Expr: id("s")}, "Square", true},
		{"paren", &ast.ParenthesizedExpr{Expr: num("1.0")}, "double", true},
		{"name", id("count"), "long", true},
		{"unknown name", id("nope"), "", false},
		{"own method", call(nil, "size"), "int", true},
		{"void method", call(nil, "reset"), "", false},
		{"comparison", &ast.InfixExpr{Left: id("count"), Operator: "<", Right: num("1")}, "boolean", true},
		{"promotion", &ast.InfixExpr{Left: num("1"), Operator: "+", Right: id("count")}, "long", true},
		{"small ints", &ast.InfixExpr{Left: id("b"), Operator: "*", Right: id("b")}, "int", true},
		{"concat", &ast.InfixExpr{Left: str(`"n="`), Operator: "+", Right: id("nope")}, "String", true},
		{"instanceof", &ast.InstanceofExpr{Left: id("count"), Type: typ("Long")}, "boolean", true},
		{"not", &ast.PrefixExpr{Operator: "!", Operand: boolean("true")}, "boolean", true},
		{"ternary", &ast.ConditionalExpr{Condition: boolean("true"), Then: id("nope"), Else: num("2")}, "int", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExpressionTypeName(tt.expr, stack)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgumentTypeList(t *testing.T) {
	args := []ast.Node{num("1"), &ast.Literal{LiteralKind: ast.KindNullLiteral}, id("missing"), str(`"s"`)}
	assert.Equal(t, "int, Object, [unknown], String", argumentTypeList(args, nil))
	assert.Equal(t, "", argumentTypeList(nil, nil))
}
