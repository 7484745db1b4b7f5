package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindNamesAreUniqueAndComplete(t *testing.T) {
	seen := make(map[string]Kind)
	for _, k := range Kinds() {
		name := k.String()
		require.NotContains(t, name, "Kind(", "kind %d has no name", k)
		if prev, ok := seen[name]; ok {
			t.Fatalf("kinds %d and %d share name %q", prev, k, name)
		}
		seen[name] = k
	}
	assert.Equal(t, "Kind(250)", Kind(250).String())
}

func TestKindPredicates(t *testing.T) {
	loops := 0
	for _, k := range Kinds() {
		if k.IsLoop() {
			loops++
		}
	}
	assert.Equal(t, 4, loops)
	assert.True(t, KindArrayType.IsType())
	assert.False(t, KindSimpleName.IsType())
}

func TestLiteralKind(t *testing.T) {
	assert.Equal(t, KindNumberLiteral, (&Literal{LiteralKind: KindNumberLiteral}).Kind())
	assert.Equal(t, KindInvalid, (&Literal{LiteralKind: KindIfStmt}).Kind())
}

func TestModifiers(t *testing.T) {
	mods := Modifiers{{Keyword: "public"}, {Keyword: "static"}, {Annotation: "org.junit.Test"}}
	assert.True(t, mods.IsStatic())
	assert.False(t, mods.IsFinal())
	assert.True(t, mods.HasAnnotation("Test"))
	assert.False(t, mods.HasAnnotation("est"))
}

func TestIsNil(t *testing.T) {
	var b *Block
	assert.True(t, IsNil(nil))
	assert.True(t, IsNil(b))
	assert.False(t, IsNil(&Block{}))
}

func TestInspectVisitsNestedNodes(t *testing.T) {
	call := &MethodInvocation{
		Receiver:  &SimpleName{Identifier: "list"},
		Name:      &SimpleName{Identifier: "add"},
		Arguments: []Node{&Literal{LiteralKind: KindNumberLiteral, Value: "1"}},
	}
	body := &Block{Statements: []Node{
		&WhileStmt{
			Condition: &Literal{LiteralKind: KindBooleanLiteral, Value: "true"},
			Body:      &Block{Statements: []Node{&ExpressionStmt{Expr: call}}},
		},
	}}

	var kinds []Kind
	Inspect(body, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	assert.Equal(t, []Kind{
		KindBlock, KindWhileStmt, KindBooleanLiteral, KindBlock,
		KindExpressionStmt, KindMethodInvocation, KindSimpleName, KindNumberLiteral,
	}, kinds)
}

func TestDotted(t *testing.T) {
	q := &QualifiedName{
		Qualifier: &QualifiedName{Qualifier: &SimpleName{Identifier: "java"}, Name: &SimpleName{Identifier: "util"}},
		Name:      &SimpleName{Identifier: "List"},
	}
	assert.Equal(t, "java.util.List", Dotted(q))
	assert.Equal(t, "", Dotted(&ThisExpr{}))
}
