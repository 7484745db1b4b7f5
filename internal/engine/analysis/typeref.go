package analysis

import (
	"strings"

	"codegrader/internal/engine/ast"
)

// TypeRef is a resolved type reference: a base name plus generic arguments.
// Array types carry their "[]" suffixes in Name.
type TypeRef struct {
	Name      string
	Arguments []TypeRef
}

func (t TypeRef) IsZero() bool {
	return t.Name == "" && len(t.Arguments) == 0
}

// Qualified renders the full generic form, e.g. "Map<String, List<Integer>>".
func (t TypeRef) Qualified() string {
	if len(t.Arguments) == 0 {
		return t.Name
	}
	args := make([]string, 0, len(t.Arguments))
	for _, a := range t.Arguments {
		args = append(args, a.Qualified())
	}
	base, dims := splitArraySuffix(t.Name)
	return base + "<" + strings.Join(args, ", ") + ">" + dims
}

// Unqualified drops generic arguments but keeps the diamond, e.g. "Map<>".
func (t TypeRef) Unqualified() string {
	if len(t.Arguments) == 0 {
		return t.Name
	}
	base, dims := splitArraySuffix(t.Name)
	return base + "<>" + dims
}

// ResolveTypeRef decomposes a type node. A nil node yields the zero ref; an
// unrecognized node yields the zero ref and false.
func ResolveTypeRef(node ast.Node) (TypeRef, bool) {
	if ast.IsNil(node) {
		return TypeRef{}, true
	}
	switch n := node.(type) {
	case *ast.SimpleType:
		return TypeRef{Name: n.Name}, true
	case *ast.PrimitiveType:
		return TypeRef{Name: n.Code}, true
	case *ast.ParameterizedType:
		base, ok := ResolveTypeRef(n.Base)
		if !ok {
			return TypeRef{}, false
		}
		args := make([]TypeRef, 0, len(n.Arguments))
		for _, a := range n.Arguments {
			ref, ok := ResolveTypeRef(a)
			if !ok {
				return TypeRef{}, false
			}
			args = append(args, ref)
		}
		return TypeRef{Name: base.Name, Arguments: args}, true
	case *ast.ArrayType:
		elem, ok := ResolveTypeRef(n.Element)
		if !ok {
			return TypeRef{}, false
		}
		dims := n.Dimensions
		if dims < 1 {
			dims = 1
		}
		elem.Name += strings.Repeat("[]", dims)
		return elem, true
	case *ast.UnionType:
		names := make([]string, 0, len(n.Alternatives))
		for _, alt := range n.Alternatives {
			ref, ok := ResolveTypeRef(alt)
			if !ok {
				return TypeRef{}, false
			}
			names = append(names, ref.Qualified())
		}
		return TypeRef{Name: strings.Join(names, "|")}, true
	case *ast.WildcardType:
		return ResolveTypeRef(n.Bound)
	}
	return TypeRef{}, false
}

// withDimensions appends extra declarator dimensions (`int x[]`).
func (t TypeRef) withDimensions(dims int) TypeRef {
	if dims <= 0 || t.Name == "" {
		return t
	}
	t.Name += strings.Repeat("[]", dims)
	return t
}

// BaseName strips generic arguments and array suffixes.
func BaseName(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	base, _ := splitArraySuffix(name)
	return base
}

func splitArraySuffix(name string) (string, string) {
	i := strings.Index(name, "[]")
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i:]
}
