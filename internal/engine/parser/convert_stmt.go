package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"codegrader/internal/engine/ast"
)

func (c *converter) block(n *sitter.Node) *ast.Block {
	b := &ast.Block{Location: c.loc(n)}
	for _, ch := range named(n) {
		b.Statements = appendNode(b.Statements, c.stmt(ch))
	}
	return b
}

// stmt converts a statement node. Expressions that tree-sitter allows in
// statement position are converted as expressions.
func (c *converter) stmt(n *sitter.Node) ast.Node {
	if n == nil {
		return nil
	}
	loc := c.loc(n)
	switch n.Kind() {
	case "block", "constructor_body":
		return c.block(n)
	case "local_variable_declaration":
		return &ast.VariableDeclStmt{
			Location:  loc,
			Modifiers: c.modifiers(childOfKind(n, "modifiers")),
			Type:      c.typ(n.ChildByFieldName("type")),
			Fragments: c.declarators(n),
		}
	case "expression_statement":
		if inner := named(n); len(inner) > 0 {
			return &ast.ExpressionStmt{Location: loc, Expr: c.expr(inner[0])}
		}
		return &ast.EmptyStmt{Location: loc}
	case "if_statement":
		return &ast.IfStmt{
			Location:  loc,
			Condition: c.expr(n.ChildByFieldName("condition")),
			Then:      c.stmt(n.ChildByFieldName("consequence")),
			Else:      c.stmt(n.ChildByFieldName("alternative")),
		}
	case "while_statement":
		return &ast.WhileStmt{
			Location:  loc,
			Condition: c.expr(n.ChildByFieldName("condition")),
			Body:      c.stmt(n.ChildByFieldName("body")),
		}
	case "do_statement":
		return &ast.DoStmt{
			Location:  loc,
			Body:      c.stmt(n.ChildByFieldName("body")),
			Condition: c.expr(n.ChildByFieldName("condition")),
		}
	case "for_statement":
		return c.forStmt(n)
	case "enhanced_for_statement":
		return c.enhancedFor(n)
	case "try_statement", "try_with_resources_statement":
		return c.tryStmt(n)
	case "return_statement":
		return &ast.ReturnStmt{Location: loc, Expr: c.firstExpr(n)}
	case "throw_statement":
		return &ast.ThrowStmt{Location: loc, Expr: c.firstExpr(n)}
	case "yield_statement":
		return &ast.YieldStmt{Location: loc, Expr: c.firstExpr(n)}
	case "break_statement":
		return &ast.BreakStmt{Location: loc, Label: c.text(childOfKind(n, "identifier"))}
	case "continue_statement":
		return &ast.ContinueStmt{Location: loc, Label: c.text(childOfKind(n, "identifier"))}
	case "labeled_statement":
		s := &ast.LabeledStmt{Location: loc}
		for _, ch := range named(n) {
			if ch.Kind() == "identifier" && s.Label == "" {
				s.Label = c.text(ch)
				continue
			}
			s.Body = c.stmt(ch)
		}
		return s
	case "synchronized_statement":
		s := &ast.SynchronizedStmt{Location: loc}
		if lock := childOfKind(n, "parenthesized_expression"); lock != nil {
			s.Lock = c.expr(lock)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			s.Body = c.block(body)
		}
		return s
	case "assert_statement":
		s := &ast.AssertStmt{Location: loc}
		for i, ch := range named(n) {
			switch i {
			case 0:
				s.Expr = c.expr(ch)
			case 1:
				s.Message = c.expr(ch)
			}
		}
		return s
	case "explicit_constructor_invocation":
		return c.constructorInvocation(n)
	case "local_class_declaration", "class_declaration", "interface_declaration",
		"enum_declaration", "record_declaration":
		if t := c.typeDecl(n); t != nil {
			return t
		}
		c.skip(n)
		return nil
	case ";", "empty_statement":
		return &ast.EmptyStmt{Location: loc}
	}
	return c.expr(n)
}

func (c *converter) firstExpr(n *sitter.Node) ast.Node {
	if inner := named(n); len(inner) > 0 {
		return c.expr(inner[0])
	}
	return nil
}

func (c *converter) forStmt(n *sitter.Node) ast.Node {
	s := &ast.ForStmt{
		Location:  c.loc(n),
		Condition: c.expr(n.ChildByFieldName("condition")),
		Body:      c.stmt(n.ChildByFieldName("body")),
	}
	for _, in := range fieldChildren(n, "init") {
		if in.Kind() == "local_variable_declaration" {
			s.Init = append(s.Init, &ast.VariableDeclExpr{
				Location:  c.loc(in),
				Modifiers: c.modifiers(childOfKind(in, "modifiers")),
				Type:      c.typ(in.ChildByFieldName("type")),
				Fragments: c.declarators(in),
			})
			continue
		}
		s.Init = appendNode(s.Init, c.expr(in))
	}
	for _, up := range fieldChildren(n, "update") {
		s.Updates = appendNode(s.Updates, c.expr(up))
	}
	return s
}

func (c *converter) enhancedFor(n *sitter.Node) ast.Node {
	param := &ast.SingleVariableDecl{
		Location:  c.loc(n),
		Modifiers: c.modifiers(childOfKind(n, "modifiers")),
		Type:      c.typ(n.ChildByFieldName("type")),
		Name:      c.name(n.ChildByFieldName("name")),
	}
	if dims := n.ChildByFieldName("dimensions"); dims != nil {
		param.Dimensions = countDims(c.text(dims))
	}
	return &ast.EnhancedForStmt{
		Location:  c.loc(n),
		Parameter: param,
		Iterable:  c.expr(n.ChildByFieldName("value")),
		Body:      c.stmt(n.ChildByFieldName("body")),
	}
}

func (c *converter) tryStmt(n *sitter.Node) ast.Node {
	s := &ast.TryStmt{Location: c.loc(n)}
	if res := n.ChildByFieldName("resources"); res != nil {
		for _, r := range named(res) {
			if r.Kind() == "resource" {
				s.Resources = appendNode(s.Resources, c.resource(r))
			}
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		s.Body = c.block(body)
	}
	for _, ch := range named(n) {
		switch ch.Kind() {
		case "catch_clause":
			s.Catches = append(s.Catches, c.catchClause(ch))
		case "finally_clause":
			if b := childOfKind(ch, "block"); b != nil {
				s.Finally = c.block(b)
			}
		}
	}
	return s
}

// resource converts `T name = value` into a declaration and anything else
// into an expression.
func (c *converter) resource(n *sitter.Node) ast.Node {
	name := n.ChildByFieldName("name")
	if name == nil {
		if inner := named(n); len(inner) > 0 {
			return c.expr(inner[0])
		}
		return nil
	}
	frag := &ast.VariableDeclFragment{
		Location:    c.loc(n),
		Name:        c.name(name),
		Initializer: c.expr(n.ChildByFieldName("value")),
	}
	if dims := n.ChildByFieldName("dimensions"); dims != nil {
		frag.Dimensions = countDims(c.text(dims))
	}
	return &ast.VariableDeclExpr{
		Location:  c.loc(n),
		Modifiers: c.modifiers(childOfKind(n, "modifiers")),
		Type:      c.typ(n.ChildByFieldName("type")),
		Fragments: []*ast.VariableDeclFragment{frag},
	}
}

func (c *converter) catchClause(n *sitter.Node) *ast.CatchClause {
	cc := &ast.CatchClause{Location: c.loc(n)}
	if p := childOfKind(n, "catch_formal_parameter"); p != nil {
		param := &ast.SingleVariableDecl{
			Location:  c.loc(p),
			Modifiers: c.modifiers(childOfKind(p, "modifiers")),
			Name:      c.name(p.ChildByFieldName("name")),
		}
		if ct := childOfKind(p, "catch_type"); ct != nil {
			param.Type = c.catchType(ct)
		}
		cc.Exception = param
	}
	if body := n.ChildByFieldName("body"); body != nil {
		cc.Body = c.block(body)
	}
	return cc
}

func (c *converter) catchType(n *sitter.Node) ast.Type {
	var alts []ast.Type
	for _, ch := range named(n) {
		if t := c.typ(ch); t != nil {
			alts = append(alts, t)
		}
	}
	switch len(alts) {
	case 0:
		return nil
	case 1:
		return alts[0]
	}
	return &ast.UnionType{Location: c.loc(n), Alternatives: alts}
}

// switchBody flattens case groups and rules into labels followed by their
// statements.
func (c *converter) switchBody(n *sitter.Node) []ast.Node {
	var out []ast.Node
	for _, group := range named(n) {
		switch group.Kind() {
		case "switch_block_statement_group", "switch_rule":
			for _, ch := range named(group) {
				if ch.Kind() == "switch_label" {
					out = append(out, c.switchLabel(ch))
					continue
				}
				out = appendNode(out, c.stmt(ch))
			}
		default:
			c.skip(group)
		}
	}
	return out
}

func (c *converter) switchLabel(n *sitter.Node) *ast.SwitchCase {
	sc := &ast.SwitchCase{Location: c.loc(n), Default: hasToken(n, "default")}
	for _, ch := range named(n) {
		sc.Labels = appendNode(sc.Labels, c.expr(ch))
	}
	return sc
}

func (c *converter) constructorInvocation(n *sitter.Node) ast.Node {
	args := c.arguments(n.ChildByFieldName("arguments"))
	ctor := n.ChildByFieldName("constructor")
	if ctor != nil && ctor.Kind() == "this" {
		return &ast.ConstructorInvocation{Location: c.loc(n), Arguments: args}
	}
	return &ast.SuperConstructorInvocation{
		Location:  c.loc(n),
		Outer:     c.expr(n.ChildByFieldName("object")),
		Arguments: args,
	}
}
