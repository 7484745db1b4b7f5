package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"codegrader/internal/engine/ast"
)

// typ converts a type node. It returns an untyped nil for anything that is
// not a type, so callers can try it on any node.
func (c *converter) typ(n *sitter.Node) ast.Type {
	if n == nil {
		return nil
	}
	loc := c.loc(n)
	switch n.Kind() {
	case "type_identifier":
		return &ast.SimpleType{Location: loc, Name: c.text(n)}
	case "scoped_type_identifier":
		return &ast.SimpleType{Location: loc, Name: c.scopedName(n)}
	case "integral_type", "floating_point_type", "boolean_type", "void_type":
		return &ast.PrimitiveType{Location: loc, Code: c.text(n)}
	case "generic_type":
		return c.genericType(n)
	case "array_type":
		elem := c.typ(n.ChildByFieldName("element"))
		if elem == nil {
			return nil
		}
		return &ast.ArrayType{
			Location:   loc,
			Element:    elem,
			Dimensions: countDims(c.text(n.ChildByFieldName("dimensions"))),
		}
	case "annotated_type":
		inner := named(n)
		for i := len(inner) - 1; i >= 0; i-- {
			if t := c.typ(inner[i]); t != nil {
				return t
			}
		}
	case "wildcard":
		w := &ast.WildcardType{Location: loc, Upper: hasToken(n, "extends")}
		for _, ch := range named(n) {
			if t := c.typ(ch); t != nil {
				w.Bound = t
			}
		}
		return w
	}
	return nil
}

// scopedName renders `java.util.List` without annotations or whitespace.
func (c *converter) scopedName(n *sitter.Node) string {
	var parts []string
	for _, ch := range named(n) {
		switch ch.Kind() {
		case "type_identifier", "identifier":
			parts = append(parts, c.text(ch))
		case "scoped_type_identifier", "scoped_identifier":
			parts = append(parts, c.scopedName(ch))
		}
	}
	if len(parts) == 0 {
		return strings.Join(strings.Fields(c.text(n)), "")
	}
	return strings.Join(parts, ".")
}

func (c *converter) genericType(n *sitter.Node) ast.Type {
	g := &ast.ParameterizedType{Location: c.loc(n)}
	for _, ch := range named(n) {
		if ch.Kind() == "type_arguments" {
			for _, a := range named(ch) {
				if t := c.typ(a); t != nil {
					g.Arguments = append(g.Arguments, t)
				}
			}
			continue
		}
		if g.Base == nil {
			g.Base = c.typ(ch)
		}
	}
	if g.Base == nil {
		return nil
	}
	return g
}
