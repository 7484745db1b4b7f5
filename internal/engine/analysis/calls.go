package analysis

import (
	"fmt"
	"strings"
	"unicode"

	"codegrader/internal/engine/ast"
)

// callIdentifier derives the normalized identifier, call kind and called
// type of a call to method on receiver.
func (w *walker) callIdentifier(receiver ast.Node, method string, stack []*Scope) (string, CallKind, string) {
	if ast.IsNil(receiver) {
		kind := CallInstanceMethod
		if d := Search(methodKey(method), stack); d != nil && d.IsStatic {
			kind = CallStaticMethod
		}
		owner := ""
		if t := enclosingType(stack); t != nil {
			owner = w.methodOwner(t.TypeName(), method, receiver)
		}
		return "this." + method, kind, owner
	}

	d := w.findDeclaration(receiver, stack)
	if d == nil {
		if sn, ok := receiver.(*ast.SimpleName); ok {
			return w.unresolvedNameCall(sn, method)
		}
		text := w.receiverText(receiver)
		w.engine.diags.Add(Diagnostic{
			Code:     DiagUnresolvedReceiver,
			Severity: SeverityInfo,
			File:     w.file.Path,
			Line:     receiver.Loc().Start.Line,
			Message:  fmt.Sprintf("call to %s on unresolved expression %s", method, text),
		})
		return text + "." + method, CallInstanceMethod, ""
	}

	if d.Kind == DeclType {
		return d.Name + "." + method, CallStaticMethod, d.Name
	}

	typeName := stripGenerics(d.EffectiveTypeName())
	if typeName == "" {
		return w.receiverText(receiver) + "." + method, CallInstanceMethod, ""
	}
	if strings.Contains(typeName, "|") {
		if typeName = w.commonSupertype(strings.Split(typeName, "|")); typeName == "" {
			return w.receiverText(receiver) + "." + method, CallInstanceMethod, ""
		}
	}
	owner := w.methodOwner(typeName, method, receiver)
	if owner == "" {
		owner = simpleTypeName(typeName)
	}
	return "$" + owner + "$." + method, CallInstanceMethod, owner
}

// commonSupertype picks the receiver type of a multi-catch parameter: the
// nearest type on the first alternative's superclass chain that every other
// alternative also extends, else the first alternative.
func (w *walker) commonSupertype(alternatives []string) string {
	first := w.superclassChain(alternatives[0])
	if len(first) == 0 {
		return ""
	}
	others := make([]map[string]bool, 0, len(alternatives)-1)
	for _, alt := range alternatives[1:] {
		set := make(map[string]bool)
		for _, name := range w.superclassChain(alt) {
			set[name] = true
		}
		others = append(others, set)
	}
	for _, candidate := range first {
		shared := true
		for _, set := range others {
			if !set[candidate] {
				shared = false
				break
			}
		}
		if shared {
			return candidate
		}
	}
	return first[0]
}

// superclassChain lists name and its known superclasses, stopping at the
// first unknown type or repeated name.
func (w *walker) superclassChain(name string) []string {
	var chain []string
	seen := make(map[string]bool)
	name = simpleTypeName(BaseName(strings.TrimSpace(name)))
	for name != "" && !seen[name] {
		seen[name] = true
		chain = append(chain, name)
		t := w.engine.shapeOf(name, w.info)
		if t == nil {
			break
		}
		name = t.Superclass()
	}
	return chain
}

// unresolvedNameCall handles `Name.m()` where Name is not bound in scope.
// Known types are treated as static call targets.
func (w *walker) unresolvedNameCall(sn *ast.SimpleName, method string) (string, CallKind, string) {
	name := sn.Identifier
	if w.engine.knownType(name) || name == w.info.Name {
		return name + "." + method, CallStaticMethod, name
	}
	if w.engine.wellKnown[name] {
		return name + "." + method, CallStaticMethod, name
	}
	if w.engine.opts.WarnUnresolvedReceivers {
		w.engine.diags.Add(Diagnostic{
			Code:     DiagUnresolvedReceiver,
			Severity: SeverityWarning,
			File:     w.file.Path,
			Line:     sn.Start.Line,
			Message:  fmt.Sprintf("cannot resolve receiver %s of call to %s", name, method),
		})
	}
	kind := CallInstanceMethod
	if looksLikeTypeName(name) {
		kind = CallStaticMethod
	}
	return name + "." + method, kind, ""
}

// methodOwner runs the inheritance walk from typeName. It returns "" when
// no type in the chain declares method or the chain is cyclic.
func (w *walker) methodOwner(typeName, method string, at ast.Node) string {
	r := findMethodOwner(typeName, method, func(name string) typeShape {
		return w.engine.shapeOf(name, w.info)
	})
	if len(r.Cycle) > 0 {
		key := strings.Join(r.Cycle, ">")
		if !w.reportedCycles[key] {
			if w.reportedCycles == nil {
				w.reportedCycles = make(map[string]bool)
			}
			w.reportedCycles[key] = true
			line := 0
			if !ast.IsNil(at) {
				line = at.Loc().Start.Line
			}
			w.engine.diags.Add(Diagnostic{
				Code:     DiagInheritanceCycle,
				Severity: SeverityError,
				File:     w.file.Path,
				Line:     line,
				Message:  fmt.Sprintf("inheritance cycle %s", strings.Join(r.Cycle, " -> ")),
			})
		}
		return ""
	}
	return r.Owner
}

// superclassOwner resolves `super.m()` starting at the enclosing type's
// superclass.
func (w *walker) superclassOwner(method string, stack []*Scope) string {
	sup := superclassOf(enclosingType(stack))
	if sup == "" {
		return ""
	}
	if owner := w.methodOwner(sup, method, nil); owner != "" {
		return owner
	}
	return sup
}

// receiverText is the receiver's source with whitespace removed, falling
// back to the dotted name when no source is available.
func (w *walker) receiverText(receiver ast.Node) string {
	text := w.file.Text(receiver.Loc())
	if text == "" {
		text = ast.Dotted(receiver)
	}
	if text == "" {
		return "<" + receiver.Kind().String() + ">"
	}
	return strings.Join(strings.Fields(text), "")
}

func stripGenerics(name string) string {
	i := strings.IndexByte(name, '<')
	if i < 0 {
		return name
	}
	j := strings.LastIndexByte(name, '>')
	if j < i {
		return name[:i]
	}
	return name[:i] + name[j+1:]
}

func looksLikeTypeName(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
