// Package ast is the Java syntax tree consumed by the resolution engine.
// Nodes are produced once by the parser and only read afterwards.
package ast

import "reflect"

// Position is a point in a source file. Line and Column are 1-based,
// Offset is a 0-based byte offset.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Location is the source span of a node. Every node struct embeds it.
type Location struct {
	Start Position
	End   Position
}

func (l Location) Loc() Location { return l }

func (Location) node() {}

// Node is implemented by every struct in this package.
type Node interface {
	Kind() Kind
	Loc() Location
	node()
}

// Type is implemented by the type nodes (SimpleType, ArrayType, ...).
type Type interface {
	Node
	typeNode()
}

// Modifier is either a keyword ("static", "final") or an annotation ("Test").
type Modifier struct {
	Location
	Keyword    string
	Annotation string
}

// Modifiers is the modifier list of a declaration.
type Modifiers []Modifier

func (m Modifiers) Has(keyword string) bool {
	for _, mod := range m {
		if mod.Keyword == keyword {
			return true
		}
	}
	return false
}

// HasAnnotation matches either the simple or the qualified annotation name.
func (m Modifiers) HasAnnotation(name string) bool {
	for _, mod := range m {
		if mod.Annotation == "" {
			continue
		}
		if mod.Annotation == name || hasDottedSuffix(mod.Annotation, name) {
			return true
		}
	}
	return false
}

func (m Modifiers) IsStatic() bool { return m.Has("static") }

func (m Modifiers) IsFinal() bool { return m.Has("final") }

func hasDottedSuffix(s, suffix string) bool {
	n := len(s) - len(suffix)
	return n > 0 && s[n-1] == '.' && s[n:] == suffix
}

// IsNil reports whether n is nil or an interface holding a nil pointer.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
