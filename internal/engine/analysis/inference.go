package analysis

import (
	"strings"

	"codegrader/internal/engine/ast"
)

// ExpressionTypeName guesses the static type of an expression. It is a
// heuristic: literals, constructor calls, casts, resolved names and the
// declared return type of resolved method calls. ok is false when no guess
// could be made.
func ExpressionTypeName(expr ast.Node, stack []*Scope) (string, bool) {
	switch n := expr.(type) {
	case *ast.Literal:
		return literalTypeName(n)
	case *ast.ClassInstanceCreation:
		ref, ok := ResolveTypeRef(n.Type)
		if !ok || ref.Name == "" {
			return "", false
		}
		return ref.Name, true
	case *ast.ArrayCreation:
		ref, ok := ResolveTypeRef(n.Type)
		if !ok || ref.Name == "" {
			return "", false
		}
		dims := len(n.Dimensions) + n.ExtraDims
		if dims == 0 {
			dims = 1
		}
		return ref.Name + strings.Repeat("[]", dims), true
	case *ast.CastExpr:
		ref, ok := ResolveTypeRef(n.Type)
		if !ok || ref.Name == "" {
			return "", false
		}
		return ref.Name, true
	case *ast.ParenthesizedExpr:
		return ExpressionTypeName(n.Expr, stack)
	case *ast.ConditionalExpr:
		if t, ok := ExpressionTypeName(n.Then, stack); ok {
			return t, true
		}
		return ExpressionTypeName(n.Else, stack)
	case *ast.SimpleName:
		if d := Search(n.Identifier, stack); d != nil && d.EffectiveTypeName() != "" {
			return d.EffectiveTypeName(), true
		}
	case *ast.ThisExpr:
		if d := Search("this", stack); d != nil {
			return d.TypeName, true
		}
	case *ast.FieldAccess:
		if _, isThis := n.Receiver.(*ast.ThisExpr); isThis && n.Name != nil {
			if d := Search(n.Name.Identifier, stack); d != nil && d.EffectiveTypeName() != "" {
				return d.EffectiveTypeName(), true
			}
		}
	case *ast.MethodInvocation:
		if n.Receiver == nil && n.Name != nil {
			if d := Search(methodKey(n.Name.Identifier), stack); d != nil && d.TypeName != "" && d.TypeName != "void" {
				return d.TypeName, true
			}
		}
	case *ast.InfixExpr:
		return infixTypeName(n, stack)
	case *ast.InstanceofExpr:
		return "boolean", true
	case *ast.PrefixExpr:
		if n.Operator == "!" {
			return "boolean", true
		}
		return ExpressionTypeName(n.Operand, stack)
	case *ast.PostfixExpr:
		return ExpressionTypeName(n.Operand, stack)
	}
	return "", false
}

func literalTypeName(l *ast.Literal) (string, bool) {
	switch l.Kind() {
	case ast.KindStringLiteral, ast.KindTextBlock:
		return "String", true
	case ast.KindCharacterLiteral:
		return "char", true
	case ast.KindBooleanLiteral:
		return "boolean", true
	case ast.KindNumberLiteral:
		return numberTypeName(l.Value), true
	}
	return "", false
}

func numberTypeName(token string) string {
	v := strings.ToLower(strings.ReplaceAll(token, "_", ""))
	isHex := strings.HasPrefix(v, "0x")
	switch {
	case strings.HasSuffix(v, "l"):
		return "long"
	case !isHex && strings.HasSuffix(v, "f"):
		return "float"
	case !isHex && strings.HasSuffix(v, "d"):
		return "double"
	case isHex && strings.Contains(v, "p"):
		return "double"
	case !isHex && (strings.ContainsAny(v, ".e")):
		return "double"
	}
	return "int"
}

var numericRank = map[string]int{"byte": 1, "short": 2, "char": 2, "int": 3, "long": 4, "float": 5, "double": 6}

func infixTypeName(n *ast.InfixExpr, stack []*Scope) (string, bool) {
	switch n.Operator {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return "boolean", true
	}
	left, lok := ExpressionTypeName(n.Left, stack)
	right, rok := ExpressionTypeName(n.Right, stack)
	if n.Operator == "+" && ((lok && left == "String") || (rok && right == "String")) {
		return "String", true
	}
	if !lok || !rok {
		return "", false
	}
	lr, rr := numericRank[left], numericRank[right]
	if lr == 0 || rr == 0 {
		return "", false
	}
	if lr < 3 && rr < 3 {
		return "int", true
	}
	if lr >= rr {
		return left, true
	}
	return right, true
}

// argumentTypeList renders argument types for constructor call identifiers.
// Arguments whose type cannot be guessed render as "[unknown]".
func argumentTypeList(args []ast.Node, stack []*Scope) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if lit, ok := a.(*ast.Literal); ok && lit.Kind() == ast.KindNullLiteral {
			parts = append(parts, "Object")
			continue
		}
		if t, ok := ExpressionTypeName(a, stack); ok {
			parts = append(parts, t)
			continue
		}
		parts = append(parts, "[unknown]")
	}
	return strings.Join(parts, ", ")
}
