package ast

// Children returns the direct children of n in source order. Modifiers and
// the name identifiers of declarations are not included.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !IsNil(c) {
				out = append(out, c)
			}
		}
	}
	switch v := n.(type) {
	case *CompilationUnit:
		for _, t := range v.Types {
			add(t)
		}
	case *TypeDecl:
		add(v.Body...)
	case *MethodDecl:
		for _, p := range v.Parameters {
			add(p)
		}
		if v.Body != nil {
			add(v.Body)
		}
	case *FieldDecl:
		for _, f := range v.Fragments {
			add(f)
		}
	case *VariableDeclStmt:
		for _, f := range v.Fragments {
			add(f)
		}
	case *VariableDeclExpr:
		for _, f := range v.Fragments {
			add(f)
		}
	case *VariableDeclFragment:
		add(v.Initializer)
	case *Block:
		add(v.Statements...)
	case *IfStmt:
		add(v.Condition, v.Then, v.Else)
	case *ForStmt:
		add(v.Init...)
		add(v.Condition)
		add(v.Updates...)
		add(v.Body)
	case *EnhancedForStmt:
		if v.Parameter != nil {
			add(v.Parameter)
		}
		add(v.Iterable, v.Body)
	case *WhileStmt:
		add(v.Condition, v.Body)
	case *DoStmt:
		add(v.Body, v.Condition)
	case *SwitchStmt:
		add(v.Selector)
		add(v.Body...)
	case *SwitchCase:
		add(v.Labels...)
	case *TryStmt:
		add(v.Resources...)
		if v.Body != nil {
			add(v.Body)
		}
		for _, c := range v.Catches {
			add(c)
		}
		if v.Finally != nil {
			add(v.Finally)
		}
	case *CatchClause:
		if v.Exception != nil {
			add(v.Exception)
		}
		if v.Body != nil {
			add(v.Body)
		}
	case *ReturnStmt:
		add(v.Expr)
	case *ThrowStmt:
		add(v.Expr)
	case *YieldStmt:
		add(v.Expr)
	case *ExpressionStmt:
		add(v.Expr)
	case *LabeledStmt:
		add(v.Body)
	case *SynchronizedStmt:
		add(v.Lock)
		if v.Body != nil {
			add(v.Body)
		}
	case *AssertStmt:
		add(v.Expr, v.Message)
	case *Assignment:
		add(v.Target, v.Value)
	case *MethodInvocation:
		add(v.Receiver)
		add(v.Arguments...)
	case *SuperMethodInvocation:
		add(v.Arguments...)
	case *ClassInstanceCreation:
		add(v.Outer)
		add(v.Arguments...)
		add(v.Body...)
	case *SuperConstructorInvocation:
		add(v.Outer)
		add(v.Arguments...)
	case *ConstructorInvocation:
		add(v.Arguments...)
	case *FieldAccess:
		add(v.Receiver)
	case *ArrayAccess:
		add(v.Array, v.Index)
	case *ArrayCreation:
		add(v.Dimensions...)
		if v.Initializer != nil {
			add(v.Initializer)
		}
	case *ArrayInitializer:
		add(v.Elements...)
	case *QualifiedName:
		add(v.Qualifier)
	case *CastExpr:
		add(v.Expr)
	case *InfixExpr:
		add(v.Left, v.Right)
	case *InstanceofExpr:
		add(v.Left)
	case *PrefixExpr:
		add(v.Operand)
	case *PostfixExpr:
		add(v.Operand)
	case *ConditionalExpr:
		add(v.Condition, v.Then, v.Else)
	case *ParenthesizedExpr:
		add(v.Expr)
	case *LambdaExpr:
		for _, p := range v.Parameters {
			add(p)
		}
		add(v.Body)
	case *MethodReference:
		add(v.Expr)
	}
	return out
}

// Inspect visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func Inspect(n Node, fn func(Node) bool) {
	if IsNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}
