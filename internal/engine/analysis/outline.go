package analysis

import "codegrader/internal/engine/ast"

// typeShape is what the inheritance walk needs to know about a type.
type typeShape interface {
	DeclaresMethod(name string) bool
	Superclass() string
}

// typeOutline is the pre-declared shape of a type that has not been
// analyzed yet: its superclass and the names of its methods.
type typeOutline struct {
	decl       *ast.TypeDecl
	name       string
	file       string
	superclass string
	methods    map[string]bool
}

func (o *typeOutline) DeclaresMethod(name string) bool { return o.methods[name] }

func (o *typeOutline) Superclass() string { return o.superclass }

func outlineOf(file string, decl *ast.TypeDecl) *typeOutline {
	o := &typeOutline{
		decl:       decl,
		name:       decl.TypeName(),
		file:       file,
		superclass: superclassOf(decl),
		methods:    make(map[string]bool),
	}
	for _, m := range decl.Body {
		if md, ok := m.(*ast.MethodDecl); ok && !md.Constructor && md.MethodName() != "" {
			o.methods[md.MethodName()] = true
		}
	}
	return o
}

// DeclareTypes registers the outline of every top-level type in files so
// that inheritance walks succeed regardless of analysis order. Files that
// failed to parse are ignored here; FindComponentsInFile reports them.
// The first outline for a name wins, matching the type map.
func (e *Engine) DeclareTypes(files []*CodeFile) int {
	n := 0
	for _, f := range files {
		if f == nil || f.ParseErr != nil || f.Unit == nil {
			continue
		}
		for _, decl := range f.Unit.Types {
			name := decl.TypeName()
			if name == "" {
				continue
			}
			if _, ok := e.outlines[name]; ok {
				continue
			}
			e.outlines[name] = outlineOf(f.Path, decl)
			n++
		}
	}
	return n
}

// shapeOf prefers the outline of the type being walked, whose own method
// map is still incomplete, then the analyzed type, then the declared outline.
func (e *Engine) shapeOf(name string, current *TypeInformation) typeShape {
	if current != nil && current.Name == name {
		return e.outlineFor(current)
	}
	if ti, ok := e.types.Lookup(name); ok {
		return ti
	}
	if o, ok := e.outlines[name]; ok {
		return o
	}
	return nil
}

// knownType reports whether name is analyzed or declared.
func (e *Engine) knownType(name string) bool {
	return e.shapeOf(name, nil) != nil
}

// outlineFor returns the complete outline of ti's own declaration. The
// registered outline is reused unless it belongs to a duplicate of ti.
func (e *Engine) outlineFor(ti *TypeInformation) *typeOutline {
	if o, ok := e.outlines[ti.Name]; ok && o.decl == ti.Decl {
		return o
	}
	if o, ok := e.selfOutlines[ti.Decl]; ok {
		return o
	}
	if e.selfOutlines == nil {
		e.selfOutlines = make(map[*ast.TypeDecl]*typeOutline)
	}
	o := outlineOf(ti.File, ti.Decl)
	e.selfOutlines[ti.Decl] = o
	return o
}
