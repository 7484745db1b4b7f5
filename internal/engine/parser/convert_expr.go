package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"codegrader/internal/engine/ast"
)

var literalKinds = map[string]ast.Kind{
	"decimal_integer_literal":        ast.KindNumberLiteral,
	"hex_integer_literal":            ast.KindNumberLiteral,
	"octal_integer_literal":          ast.KindNumberLiteral,
	"binary_integer_literal":         ast.KindNumberLiteral,
	"decimal_floating_point_literal": ast.KindNumberLiteral,
	"hex_floating_point_literal":     ast.KindNumberLiteral,
	"true":                           ast.KindBooleanLiteral,
	"false":                          ast.KindBooleanLiteral,
	"character_literal":              ast.KindCharacterLiteral,
	"string_literal":                 ast.KindStringLiteral,
	"null_literal":                   ast.KindNullLiteral,
}

// expr converts an expression node. It returns an untyped nil for nodes
// outside the vocabulary.
func (c *converter) expr(n *sitter.Node) ast.Node {
	if n == nil {
		return nil
	}
	loc := c.loc(n)
	if kind, ok := literalKinds[n.Kind()]; ok {
		value := c.text(n)
		if kind == ast.KindStringLiteral && strings.HasPrefix(value, `"""`) {
			kind = ast.KindTextBlock
		}
		return &ast.Literal{Location: loc, LiteralKind: kind, Value: value}
	}

	switch n.Kind() {
	case "identifier":
		return c.name(n)
	case "this":
		return &ast.ThisExpr{Location: loc}
	case "parenthesized_expression":
		if inner := named(n); len(inner) > 0 {
			return &ast.ParenthesizedExpr{Location: loc, Expr: c.expr(inner[0])}
		}
	case "field_access":
		return c.fieldAccess(n)
	case "method_invocation":
		return c.methodInvocation(n)
	case "object_creation_expression":
		return c.objectCreation(n)
	case "array_creation_expression":
		return c.arrayCreation(n)
	case "array_initializer":
		return c.arrayInitializer(n)
	case "array_access":
		return &ast.ArrayAccess{
			Location: loc,
			Array:    c.expr(n.ChildByFieldName("array")),
			Index:    c.expr(n.ChildByFieldName("index")),
		}
	case "assignment_expression":
		return &ast.Assignment{
			Location: loc,
			Target:   c.expr(n.ChildByFieldName("left")),
			Operator: c.text(n.ChildByFieldName("operator")),
			Value:    c.expr(n.ChildByFieldName("right")),
		}
	case "binary_expression":
		return &ast.InfixExpr{
			Location: loc,
			Left:     c.expr(n.ChildByFieldName("left")),
			Operator: c.text(n.ChildByFieldName("operator")),
			Right:    c.expr(n.ChildByFieldName("right")),
		}
	case "instanceof_expression":
		return c.instanceof(n)
	case "unary_expression":
		return &ast.PrefixExpr{
			Location: loc,
			Operator: c.text(n.ChildByFieldName("operator")),
			Operand:  c.expr(n.ChildByFieldName("operand")),
		}
	case "update_expression":
		return c.update(n)
	case "ternary_expression":
		return &ast.ConditionalExpr{
			Location:  loc,
			Condition: c.expr(n.ChildByFieldName("condition")),
			Then:      c.expr(n.ChildByFieldName("consequence")),
			Else:      c.expr(n.ChildByFieldName("alternative")),
		}
	case "cast_expression":
		return &ast.CastExpr{
			Location: loc,
			Type:     c.typ(n.ChildByFieldName("type")),
			Expr:     c.expr(n.ChildByFieldName("value")),
		}
	case "lambda_expression":
		return c.lambda(n)
	case "method_reference":
		return c.methodReference(n)
	case "class_literal":
		if inner := named(n); len(inner) > 0 {
			return &ast.TypeLiteral{Location: loc, Type: c.typ(inner[0])}
		}
	case "switch_expression":
		return &ast.SwitchStmt{
			Location: loc,
			Selector: c.expr(n.ChildByFieldName("condition")),
			Body:     c.switchBody(n.ChildByFieldName("body")),
		}
	case "pattern", "guard":
		if inner := named(n); len(inner) > 0 {
			return c.expr(inner[len(inner)-1])
		}
	case "type_pattern":
		// case labels: `case Circle c ->`
		if inner := named(n); len(inner) > 0 {
			return &ast.TypeLiteral{Location: loc, Type: c.typ(inner[0])}
		}
	}
	c.skip(n)
	return nil
}

// fieldAccess produces QualifiedName for plain name chains so `a.b` and
// `System.out` look the same regardless of how the grammar nested them.
func (c *converter) fieldAccess(n *sitter.Node) ast.Node {
	obj := n.ChildByFieldName("object")
	field := c.name(n.ChildByFieldName("field"))
	loc := c.loc(n)
	if obj != nil && obj.Kind() == "super" {
		return &ast.SuperFieldAccess{Location: loc, Name: field}
	}
	recv := c.expr(obj)
	switch recv.(type) {
	case *ast.SimpleName, *ast.QualifiedName:
		return &ast.QualifiedName{Location: loc, Qualifier: recv, Name: field}
	}
	return &ast.FieldAccess{Location: loc, Receiver: recv, Name: field}
}

func (c *converter) methodInvocation(n *sitter.Node) ast.Node {
	loc := c.loc(n)
	name := c.name(n.ChildByFieldName("name"))
	args := c.arguments(n.ChildByFieldName("arguments"))
	obj := n.ChildByFieldName("object")
	if obj != nil && obj.Kind() == "super" {
		return &ast.SuperMethodInvocation{Location: loc, Name: name, Arguments: args}
	}
	return &ast.MethodInvocation{Location: loc, Receiver: c.expr(obj), Name: name, Arguments: args}
}

func (c *converter) arguments(n *sitter.Node) []ast.Node {
	var out []ast.Node
	for _, a := range named(n) {
		out = appendNode(out, c.expr(a))
	}
	return out
}

func (c *converter) objectCreation(n *sitter.Node) ast.Node {
	e := &ast.ClassInstanceCreation{
		Location:  c.loc(n),
		Type:      c.typ(n.ChildByFieldName("type")),
		Arguments: c.arguments(n.ChildByFieldName("arguments")),
	}
	// `outer.new Inner()` puts the outer expression before the `new` token.
	for i := uint(0); i < n.ChildCount(); i++ {
		ch := n.Child(i)
		if ch == nil {
			continue
		}
		if !ch.IsNamed() && ch.Kind() == "new" {
			break
		}
		if ch.IsNamed() && n.FieldNameForChild(uint32(i)) == "" && !ch.IsExtra() {
			e.Outer = c.expr(ch)
		}
	}
	if body := childOfKind(n, "class_body"); body != nil {
		e.Body = c.members(body, nil)
		if e.Body == nil {
			e.Body = []ast.Node{}
		}
	}
	return e
}

func (c *converter) arrayCreation(n *sitter.Node) ast.Node {
	e := &ast.ArrayCreation{Location: c.loc(n), Type: c.typ(n.ChildByFieldName("type"))}
	for _, d := range fieldChildren(n, "dimensions") {
		switch d.Kind() {
		case "dimensions_expr":
			if inner := named(d); len(inner) > 0 {
				e.Dimensions = appendNode(e.Dimensions, c.expr(inner[len(inner)-1]))
			}
		case "dimensions":
			e.ExtraDims += countDims(c.text(d))
		}
	}
	if v := n.ChildByFieldName("value"); v != nil {
		e.Initializer = c.arrayInitializer(v)
	}
	return e
}

func (c *converter) arrayInitializer(n *sitter.Node) *ast.ArrayInitializer {
	init := &ast.ArrayInitializer{Location: c.loc(n)}
	for _, el := range named(n) {
		init.Elements = appendNode(init.Elements, c.expr(el))
	}
	return init
}

func (c *converter) instanceof(n *sitter.Node) ast.Node {
	e := &ast.InstanceofExpr{
		Location: c.loc(n),
		Left:     c.expr(n.ChildByFieldName("left")),
		Type:     c.typ(n.ChildByFieldName("right")),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		e.Binding = c.name(name)
	}
	if p := n.ChildByFieldName("pattern"); p != nil && e.Type == nil {
		if inner := named(p); len(inner) > 0 {
			e.Type = c.typ(inner[0])
		}
	}
	return e
}

// update distinguishes `++i` from `i++` by the position of the operator.
func (c *converter) update(n *sitter.Node) ast.Node {
	loc := c.loc(n)
	inner := named(n)
	if len(inner) == 0 {
		return nil
	}
	operand := c.expr(inner[0])
	first := n.Child(0)
	if first != nil && !first.IsNamed() {
		return &ast.PrefixExpr{Location: loc, Operator: first.Kind(), Operand: operand}
	}
	op := ""
	if last := n.Child(n.ChildCount() - 1); last != nil && !last.IsNamed() {
		op = last.Kind()
	}
	return &ast.PostfixExpr{Location: loc, Operand: operand, Operator: op}
}

func (c *converter) lambda(n *sitter.Node) ast.Node {
	l := &ast.LambdaExpr{Location: c.loc(n)}
	if params := n.ChildByFieldName("parameters"); params != nil {
		switch params.Kind() {
		case "identifier":
			l.Parameters = append(l.Parameters, &ast.SingleVariableDecl{Location: c.loc(params), Name: c.name(params)})
		case "formal_parameters":
			l.Parameters = c.parameters(params)
		case "inferred_parameters":
			for _, id := range named(params) {
				l.Parameters = append(l.Parameters, &ast.SingleVariableDecl{Location: c.loc(id), Name: c.name(id)})
			}
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Kind() == "block" {
			l.Body = c.block(body)
		} else {
			l.Body = c.expr(body)
		}
	}
	return l
}

func (c *converter) methodReference(n *sitter.Node) ast.Node {
	r := &ast.MethodReference{Location: c.loc(n)}
	inner := named(n)
	if len(inner) > 0 && inner[0].Kind() != "super" {
		if t := c.typ(inner[0]); t != nil {
			r.Expr = &ast.TypeLiteral{Location: c.loc(inner[0]), Type: t}
		} else {
			r.Expr = c.expr(inner[0])
		}
	}
	last := n.Child(n.ChildCount() - 1)
	if last != nil {
		r.Name = c.text(last)
	}
	return r
}
