package analysis

import (
	"sort"

	coreerrors "codegrader/internal/core/errors"
)

// TypeMap is the run-wide registry of analyzed types, keyed by simple type
// name. Entries are written once.
type TypeMap struct {
	types map[string]*TypeInformation
	order []string
}

func NewTypeMap() *TypeMap {
	return &TypeMap{types: make(map[string]*TypeInformation)}
}

// Insert registers ti under name. A second insert for the same name returns
// a CONFLICT error and leaves the first entry in place.
func (m *TypeMap) Insert(name string, ti *TypeInformation) error {
	if name == "" {
		return coreerrors.New(coreerrors.CodeValidationError, "type name must not be empty")
	}
	if existing, ok := m.types[name]; ok {
		err := coreerrors.Newf(coreerrors.CodeConflict, "type %s is already declared in %s", name, existing.File)
		err = coreerrors.AddContext(err, coreerrors.CtxType, name)
		return coreerrors.AddContext(err, coreerrors.CtxPath, ti.File)
	}
	m.types[name] = ti
	m.order = append(m.order, name)
	return nil
}

func (m *TypeMap) Lookup(name string) (*TypeInformation, bool) {
	ti, ok := m.types[name]
	return ti, ok
}

func (m *TypeMap) Len() int { return len(m.types) }

// Names returns the registered names in insertion order.
func (m *TypeMap) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// SortedNames returns the registered names alphabetically.
func (m *TypeMap) SortedNames() []string {
	out := m.Names()
	sort.Strings(out)
	return out
}

// All returns every entry in insertion order.
func (m *TypeMap) All() []*TypeInformation {
	out := make([]*TypeInformation, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.types[name])
	}
	return out
}

// ownerResult describes the outcome of an inheritance walk.
type ownerResult struct {
	Owner string
	Found bool
	Cycle []string
}

// findMethodOwner walks from start up the superclass chain looking for a
// type that declares method. shape resolves a type name to its shape, or
// nil when the type is unknown. The walk stops on the first repeated type
// name.
func findMethodOwner(start, method string, shape func(string) typeShape) ownerResult {
	visited := make(map[string]bool)
	var path []string
	name := simpleTypeName(BaseName(start))
	for name != "" {
		if visited[name] {
			return ownerResult{Cycle: append(path, name)}
		}
		visited[name] = true
		path = append(path, name)

		t := shape(name)
		if t == nil {
			return ownerResult{}
		}
		if t.DeclaresMethod(method) {
			return ownerResult{Owner: name, Found: true}
		}
		name = t.Superclass()
	}
	return ownerResult{}
}
