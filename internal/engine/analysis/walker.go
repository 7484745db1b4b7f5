package analysis

import (
	"fmt"

	"codegrader/internal/engine/ast"
)

// walker performs the single resolution pass over one top-level type.
type walker struct {
	engine *Engine
	file   *CodeFile
	info   *TypeInformation

	reportedCycles map[string]bool
}

// visit handles node in scope. stack holds the scopes enclosing scope,
// innermost last. Children that stay in scope are walked first, then every
// child scope opened here, each with its own queued nodes.
func (w *walker) visit(node ast.Node, scope *Scope, stack []*Scope) {
	if ast.IsNil(node) {
		return
	}
	full := push(stack, scope)

	var current []ast.Node
	var branches []*Scope

	switch n := node.(type) {
	case *ast.TypeDecl:
		branches = append(branches, w.typeDecl(n, scope))
	case *ast.MethodDecl:
		if body := w.methodDecl(n, scope); body != nil {
			branches = append(branches, body)
		}
	case *ast.FieldDecl:
		current = w.declareFragments(n, n.Type, n.Fragments, scope)
	case *ast.VariableDeclStmt:
		current = w.declareFragments(n, n.Type, n.Fragments, scope)
	case *ast.VariableDeclExpr:
		current = w.declareFragments(n, n.Type, n.Fragments, scope)
	case *ast.SingleVariableDecl:
		// declared by the enclosing method, loop, catch or lambda

	case *ast.IfStmt:
		current = append(current, n.Condition)
		then := w.child(n.Then, scope)
		then.queue(n.Then)
		branches = append(branches, then)
		if blk, ok := n.Else.(*ast.Block); ok && blk != nil {
			els := w.child(blk, scope)
			els.queue(blk)
			branches = append(branches, els)
		} else if !ast.IsNil(n.Else) {
			current = append(current, n.Else)
		}
	case *ast.ForStmt:
		s := w.child(n, scope)
		s.queue(n.Init...)
		s.queue(n.Condition)
		s.queue(n.Updates...)
		s.queue(n.Body)
		branches = append(branches, s)
	case *ast.EnhancedForStmt:
		s := w.child(n, scope, w.parameter(n.Parameter))
		w.recordIteratorCall(n, full)
		current = append(current, n.Iterable)
		s.queue(n.Body)
		branches = append(branches, s)
	case *ast.WhileStmt:
		s := w.child(n, scope)
		s.queue(n.Condition, n.Body)
		branches = append(branches, s)
	case *ast.DoStmt:
		s := w.child(n, scope)
		s.queue(n.Body, n.Condition)
		branches = append(branches, s)
	case *ast.TryStmt:
		branches = append(branches, w.tryStmt(n, scope)...)
	case *ast.LambdaExpr:
		decls := make([]*Declaration, 0, len(n.Parameters))
		for _, p := range n.Parameters {
			decls = append(decls, w.parameter(p))
		}
		s := w.child(n, scope, decls...)
		s.queue(n.Body)
		branches = append(branches, s)

	case *ast.CompilationUnit:
		for _, t := range n.Types {
			current = append(current, t)
		}
	case *ast.VariableDeclFragment:
		if !ast.IsNil(n.Initializer) {
			w.info.Assignments = append(w.info.Assignments, n)
			if n.Name != nil {
				w.inferValueType(Search(n.Name.Identifier, full), n.Initializer, full)
			}
			current = append(current, n.Initializer)
		}
	case *ast.Block:
		current = n.Statements
	case *ast.SwitchStmt:
		current = append(current, n.Selector)
		current = append(current, n.Body...)
	case *ast.SwitchCase:
		current = n.Labels
	case *ast.CatchClause:
		if n.Body != nil {
			current = n.Body.Statements
		}
	case *ast.ReturnStmt:
		current = append(current, n.Expr)
	case *ast.ThrowStmt:
		current = append(current, n.Expr)
	case *ast.YieldStmt:
		current = append(current, n.Expr)
	case *ast.ExpressionStmt:
		current = append(current, n.Expr)
	case *ast.LabeledStmt:
		current = append(current, n.Body)
	case *ast.SynchronizedStmt:
		if n.Body != nil {
			current = append(current, n.Body.Statements...)
		}
		current = append(current, n.Lock)
	case *ast.AssertStmt:
		current = append(current, n.Expr, n.Message)
	case *ast.Assignment:
		w.info.Assignments = append(w.info.Assignments, n)
		if n.Operator == "=" || n.Operator == "" {
			w.inferValueType(w.assignmentTarget(n.Target, full), n.Value, full)
		}
		current = append(current, n.Target, n.Value)
	case *ast.ConstructorInvocation:
		current = n.Arguments
	case *ast.FieldAccess:
		current = append(current, n.Receiver)
	case *ast.ArrayAccess:
		current = append(current, n.Array, n.Index)
	case *ast.ArrayCreation:
		current = append(current, n.Dimensions...)
		if n.Initializer != nil {
			current = append(current, n.Initializer)
		}
	case *ast.ArrayInitializer:
		current = n.Elements
	case *ast.QualifiedName:
		current = append(current, n.Qualifier)
	case *ast.CastExpr:
		current = append(current, n.Expr)
	case *ast.InfixExpr:
		w.info.BinaryExpressions = append(w.info.BinaryExpressions, n)
		current = append(current, n.Left, n.Right)
	case *ast.InstanceofExpr:
		w.info.BinaryExpressions = append(w.info.BinaryExpressions, n)
		if n.Binding != nil {
			d := NewDeclaration(n.Binding.Identifier, w.resolveType(n.Type), n)
			d.Line = n.Binding.Start.Line
			scope.Declare(d)
		}
		current = append(current, n.Left)
	case *ast.PrefixExpr:
		w.info.UnaryExpressions = append(w.info.UnaryExpressions, n)
		current = append(current, n.Operand)
	case *ast.PostfixExpr:
		w.info.UnaryExpressions = append(w.info.UnaryExpressions, n)
		current = append(current, n.Operand)
	case *ast.ConditionalExpr:
		w.info.TernaryExpressions = append(w.info.TernaryExpressions, n)
		current = append(current, n.Condition, n.Then, n.Else)
	case *ast.ParenthesizedExpr:
		current = append(current, n.Expr)
	case *ast.MethodReference:
		current = append(current, n.Expr)

	case *ast.MethodInvocation:
		method := identifierOf(n.Name)
		name, kind, calledType := w.callIdentifier(n.Receiver, method, full)
		w.recordCall(&MethodCall{Name: name, Node: n, Kind: kind, MethodName: method, CalledType: calledType}, full)
		current = append(current, n.Arguments...)
		current = append(current, n.Receiver)
	case *ast.SuperMethodInvocation:
		method := identifierOf(n.Name)
		w.recordCall(&MethodCall{
			Name:       "super." + method,
			Node:       n,
			Kind:       CallSuperMethod,
			MethodName: method,
			CalledType: w.superclassOwner(method, full),
		}, full)
		current = n.Arguments
	case *ast.SuperConstructorInvocation:
		w.recordCall(&MethodCall{
			Name:       "super(...)",
			Node:       n,
			Kind:       CallSuperConstructor,
			MethodName: "super",
			CalledType: superclassOf(enclosingType(full)),
		}, full)
		current = append(current, n.Outer)
		current = append(current, n.Arguments...)
	case *ast.ClassInstanceCreation:
		ref := w.resolveType(n.Type)
		typeName := simpleTypeName(BaseName(ref.Name))
		w.recordCall(&MethodCall{
			Name:       ref.Unqualified() + "(" + argumentTypeList(n.Arguments, full) + ")",
			Node:       n,
			Kind:       CallConstructor,
			MethodName: typeName,
			CalledType: typeName,
		}, full)
		current = append(current, n.Outer)
		current = append(current, n.Arguments...)
		if len(n.Body) > 0 {
			branches = append(branches, w.anonymousBody(n, typeName, scope))
		}

	default:
		if classify(node.Kind()) == classUnclassified {
			w.engine.diags.Add(Diagnostic{
				Code:     DiagUnrecognizedNode,
				Severity: SeverityInfo,
				File:     w.file.Path,
				Line:     node.Loc().Start.Line,
				Message:  fmt.Sprintf("no handler for node kind %s", node.Kind()),
			})
		}
	}

	if node.Kind().IsLoop() {
		w.recordLoop(node, full)
	}
	if d := w.findDeclaration(node, full); d != nil {
		w.info.Usages = append(w.info.Usages, &Usage{Node: node, Declaration: d})
	}

	for _, c := range current {
		w.visit(c, scope, stack)
	}
	for _, b := range branches {
		for _, c := range b.Children {
			w.visit(c, b, full)
		}
		w.info.Scopes = append(w.info.Scopes, b)
	}
}

func (w *walker) child(node ast.Node, parent *Scope, decls ...*Declaration) *Scope {
	return NewScope(node, parent.IsTest, decls...)
}

func (w *walker) typeDecl(n *ast.TypeDecl, scope *Scope) *Scope {
	ref := TypeRef{Name: n.TypeName()}
	this := NewDeclaration("this", ref, &ast.ThisExpr{Location: n.Location})
	self := NewDeclaration(n.TypeName(), ref, n)
	if _, nested := scope.Node.(*ast.TypeDecl); nested {
		scope.Declare(self)
	}
	s := NewScope(n, false, this, self)
	s.queue(n.Body...)
	if w.info.TypeScope == nil {
		w.info.TypeScope = s
	}
	return s
}

// anonymousBody opens the scope of an anonymous class body. Its `this` is
// the instantiated type.
func (w *walker) anonymousBody(n *ast.ClassInstanceCreation, typeName string, scope *Scope) *Scope {
	this := NewDeclaration("this", TypeRef{Name: typeName}, &ast.ThisExpr{Location: n.Location})
	s := w.child(n, scope, this)
	s.queue(n.Body...)
	return s
}

func (w *walker) methodDecl(n *ast.MethodDecl, scope *Scope) *Scope {
	name := n.MethodName()
	params := make([]TypeRef, 0, len(n.Parameters))
	paramDecls := make([]*Declaration, 0, len(n.Parameters))
	for _, p := range n.Parameters {
		d := w.parameter(p)
		if d == nil {
			continue
		}
		params = append(params, TypeRef{Name: d.TypeName, Arguments: d.TypeArguments})
		paramDecls = append(paramDecls, d)
	}

	// Only members of the top-level type itself belong to its method maps;
	// nested, inner and anonymous types keep theirs in their own scope.
	own := false
	if td, ok := scope.Node.(*ast.TypeDecl); ok && td == w.info.Decl {
		own = true
	}

	var d *Declaration
	if n.Constructor {
		d = newConstructorDeclaration(name, params, n)
		if own {
			w.info.ConstructorDeclarations[d.Key()] = d
		}
	} else {
		d = NewDeclaration(name, w.resolveType(n.ReturnType), n)
		if own {
			w.info.MethodDeclarations[name] = append(w.info.MethodDeclarations[name], d)
		}
	}
	d.arity = len(params)
	if n.Name != nil {
		d.Line = n.Name.Start.Line
	}
	scope.Declare(d)

	if n.Body == nil {
		return nil
	}
	s := NewScope(n, w.isTest(n.Modifiers), paramDecls...)
	s.queue(n.Body.Statements...)
	return s
}

// parameter builds the declaration of a formal, catch, loop or lambda
// parameter. Varargs parameters get an array type.
func (w *walker) parameter(p *ast.SingleVariableDecl) *Declaration {
	if p == nil || p.Name == nil {
		return nil
	}
	ref := w.resolveType(p.Type).withDimensions(p.Dimensions)
	if p.Varargs {
		ref = ref.withDimensions(1)
	}
	d := NewDeclaration(p.Name.Identifier, ref, p)
	d.Line = p.Name.Start.Line
	return d
}

func (w *walker) declareFragments(owner ast.Node, typ ast.Type, frags []*ast.VariableDeclFragment, scope *Scope) []ast.Node {
	ref := w.resolveType(typ)
	out := make([]ast.Node, 0, len(frags))
	for _, f := range frags {
		if f == nil || f.Name == nil {
			continue
		}
		d := NewDeclaration(f.Name.Identifier, ref.withDimensions(f.Dimensions), owner)
		d.Line = f.Name.Start.Line
		scope.Declare(d)
		out = append(out, f)
	}
	return out
}

func (w *walker) tryStmt(n *ast.TryStmt, scope *Scope) []*Scope {
	var out []*Scope
	body := w.child(n, scope)
	body.queue(n.Resources...)
	if n.Body != nil {
		body.queue(n.Body.Statements...)
	}
	out = append(out, body)
	for _, c := range n.Catches {
		if c == nil {
			continue
		}
		cs := w.child(c, scope, w.parameter(c.Exception))
		cs.queue(c)
		out = append(out, cs)
	}
	if n.Finally != nil {
		fs := w.child(n.Finally, scope)
		fs.queue(n.Finally)
		out = append(out, fs)
	}
	return out
}

func (w *walker) resolveType(t ast.Type) TypeRef {
	ref, ok := ResolveTypeRef(t)
	if !ok {
		w.engine.diags.Add(Diagnostic{
			Code:     DiagUnrecognizedNode,
			Severity: SeverityInfo,
			File:     w.file.Path,
			Line:     t.Loc().Start.Line,
			Message:  fmt.Sprintf("unrecognized type node %s", t.Kind()),
		})
	}
	return ref
}

func (w *walker) isTest(mods ast.Modifiers) bool {
	for _, a := range w.engine.opts.TestAnnotations {
		if mods.HasAnnotation(a) {
			return true
		}
	}
	return false
}

// assignmentTarget finds the declaration written by `x = ...` or
// `this.x = ...`.
func (w *walker) assignmentTarget(target ast.Node, stack []*Scope) *Declaration {
	switch t := target.(type) {
	case *ast.SimpleName:
		return Search(t.Identifier, stack)
	case *ast.FieldAccess:
		if _, ok := t.Receiver.(*ast.ThisExpr); ok && t.Name != nil {
			return Search(t.Name.Identifier, stack)
		}
	case *ast.ParenthesizedExpr:
		return w.assignmentTarget(t.Expr, stack)
	}
	return nil
}

func (w *walker) inferValueType(d *Declaration, value ast.Node, stack []*Scope) {
	if d == nil {
		return
	}
	if name, ok := ExpressionTypeName(value, stack); ok {
		d.setValueType(name)
	}
}

// findDeclaration resolves the name node refers to, if any.
func (w *walker) findDeclaration(node ast.Node, stack []*Scope) *Declaration {
	switch n := node.(type) {
	case *ast.SimpleName:
		return Search(n.Identifier, stack)
	case *ast.QualifiedName:
		if n.Name != nil {
			return Search(n.Name.Identifier, stack)
		}
	case *ast.ThisExpr:
		return Search("this", stack)
	case *ast.FieldAccess:
		if n.Name != nil {
			return Search(n.Name.Identifier, stack)
		}
	case *ast.CastExpr:
		return NewDeclaration("", w.resolveType(n.Type), n)
	case *ast.ParenthesizedExpr:
		return w.findDeclaration(n.Expr, stack)
	case *ast.MethodInvocation:
		if n.Name == nil {
			return nil
		}
		if _, self := n.Receiver.(*ast.ThisExpr); self || ast.IsNil(n.Receiver) {
			return Search(methodKey(n.Name.Identifier), stack)
		}
	case *ast.ClassInstanceCreation:
		return findConstructor(n, stack)
	}
	return nil
}

// findConstructor matches `new T(args)` by exact signature key, then by the
// only constructor of T with the same arity.
func findConstructor(n *ast.ClassInstanceCreation, stack []*Scope) *Declaration {
	ref, ok := ResolveTypeRef(n.Type)
	if !ok || ref.Name == "" {
		return nil
	}
	name := simpleTypeName(BaseName(ref.Name))
	if d := Search(name+"("+argumentTypeList(n.Arguments, stack)+")", stack); d != nil {
		return d
	}
	var match *Declaration
	for i := len(stack) - 1; i >= 0; i-- {
		for _, d := range stack[i].Declarations() {
			if d.Kind != DeclConstructor || d.Name != name || d.arity != len(n.Arguments) {
				continue
			}
			if match != nil {
				return nil
			}
			match = d
		}
		if match != nil {
			return match
		}
	}
	return nil
}

func (w *walker) recordCall(call *MethodCall, stack []*Scope) {
	w.info.MethodCalls = append(w.info.MethodCalls, call)
	if ms := enclosingMethodScope(stack); ms != nil {
		ms.MethodCalls = append(ms.MethodCalls, call)
	}
}

func (w *walker) recordIteratorCall(n *ast.EnhancedForStmt, stack []*Scope) {
	name, kind, calledType := w.callIdentifier(n.Iterable, "iterator", stack)
	w.recordCall(&MethodCall{Name: name, Node: n, Kind: kind, MethodName: "iterator", CalledType: calledType}, stack)
}

func (w *walker) recordLoop(node ast.Node, stack []*Scope) {
	loop := &Loop{Node: node, TypeName: w.info.Name}
	switch node.Kind() {
	case ast.KindForStmt:
		loop.Kind = LoopFor
	case ast.KindEnhancedForStmt:
		loop.Kind = LoopEnhancedFor
	case ast.KindWhileStmt:
		loop.Kind = LoopWhile
	case ast.KindDoStmt:
		loop.Kind = LoopDoWhile
	}
	if t := enclosingType(stack); t != nil {
		loop.TypeName = t.TypeName()
	}
	if ms := enclosingMethodScope(stack); ms != nil {
		loop.MethodScope = ms
		m := ms.Node.(*ast.MethodDecl)
		loop.MethodIdentifier = MethodIdentifier(loop.TypeName, m.MethodName(), m.Modifiers.IsStatic())
	}
	w.info.Loops = append(w.info.Loops, loop)
}

// MethodIdentifier renders "T.m" for static methods and "$T$.m" otherwise.
func MethodIdentifier(typeName, method string, static bool) string {
	if static {
		return typeName + "." + method
	}
	return "$" + typeName + "$." + method
}

func enclosingMethodScope(stack []*Scope) *Scope {
	for i := len(stack) - 1; i >= 0; i-- {
		if _, ok := stack[i].Node.(*ast.MethodDecl); ok {
			return stack[i]
		}
		if _, ok := stack[i].Node.(*ast.TypeDecl); ok {
			return nil
		}
	}
	return nil
}

func enclosingType(stack []*Scope) *ast.TypeDecl {
	for i := len(stack) - 1; i >= 0; i-- {
		if t, ok := stack[i].Node.(*ast.TypeDecl); ok {
			return t
		}
	}
	return nil
}

func identifierOf(n *ast.SimpleName) string {
	if n == nil {
		return ""
	}
	return n.Identifier
}
