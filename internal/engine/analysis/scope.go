package analysis

import "codegrader/internal/engine/ast"

// Scope is one lexical frame. Scopes hold no pointer to their parents; the
// walker passes the enclosing frames down as a slice, innermost last.
type Scope struct {
	Node        ast.Node
	IsTest      bool
	Children    []ast.Node
	MethodCalls []*MethodCall

	decls map[string]*Declaration
	order []string
}

func NewScope(node ast.Node, isTest bool, decls ...*Declaration) *Scope {
	s := &Scope{Node: node, IsTest: isTest, decls: make(map[string]*Declaration, len(decls))}
	for _, d := range decls {
		s.Declare(d)
	}
	return s
}

// Declare binds d under its key. A later declaration with the same key
// replaces the earlier one and keeps its position in Declarations.
func (s *Scope) Declare(d *Declaration) {
	if d == nil {
		return
	}
	key := d.Key()
	if _, exists := s.decls[key]; !exists {
		s.order = append(s.order, key)
	}
	s.decls[key] = d
}

func (s *Scope) Lookup(key string) (*Declaration, bool) {
	d, ok := s.decls[key]
	return d, ok
}

// Declarations returns the bindings in first-declared order.
func (s *Scope) Declarations() []*Declaration {
	out := make([]*Declaration, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.decls[key])
	}
	return out
}

// Len is the number of distinct keys bound in s.
func (s *Scope) Len() int { return len(s.order) }

func (s *Scope) queue(nodes ...ast.Node) {
	for _, n := range nodes {
		if !ast.IsNil(n) {
			s.Children = append(s.Children, n)
		}
	}
}

// SearchScope returns the innermost scope of stack that binds key.
func SearchScope(key string, stack []*Scope) *Scope {
	for i := len(stack) - 1; i >= 0; i-- {
		if _, ok := stack[i].decls[key]; ok {
			return stack[i]
		}
	}
	return nil
}

// Search resolves key against stack, innermost first.
func Search(key string, stack []*Scope) *Declaration {
	if s := SearchScope(key, stack); s != nil {
		return s.decls[key]
	}
	return nil
}

// push returns stack with s appended, never sharing the backing array.
func push(stack []*Scope, s *Scope) []*Scope {
	out := make([]*Scope, len(stack), len(stack)+1)
	copy(out, stack)
	return append(out, s)
}
