package ast

type Assignment struct {
	Location
	Target   Node
	Operator string
	Value    Node
}

// MethodInvocation is `recv.name(args)`; Receiver is nil for unqualified calls.
type MethodInvocation struct {
	Location
	Receiver  Node
	Name      *SimpleName
	Arguments []Node
}

type SuperMethodInvocation struct {
	Location
	Name      *SimpleName
	Arguments []Node
}

// ClassInstanceCreation is `new T(args)`. Body is non-nil for anonymous classes.
type ClassInstanceCreation struct {
	Location
	Outer     Node
	Type      Type
	Arguments []Node
	Body      []Node
}

type SuperConstructorInvocation struct {
	Location
	Outer     Node
	Arguments []Node
}

// ConstructorInvocation is an explicit `this(args)` call.
type ConstructorInvocation struct {
	Location
	Arguments []Node
}

type FieldAccess struct {
	Location
	Receiver Node
	Name     *SimpleName
}

type SuperFieldAccess struct {
	Location
	Name *SimpleName
}

type ArrayAccess struct {
	Location
	Array Node
	Index Node
}

type ArrayCreation struct {
	Location
	Type        Type
	Dimensions  []Node
	ExtraDims   int
	Initializer *ArrayInitializer
}

type ArrayInitializer struct {
	Location
	Elements []Node
}

type SimpleName struct {
	Location
	Identifier string
}

// QualifiedName is `Qualifier.Name` where Qualifier is a name itself.
type QualifiedName struct {
	Location
	Qualifier Node
	Name      *SimpleName
}

type ThisExpr struct {
	Location
	Qualifier string
}

type CastExpr struct {
	Location
	Type Type
	Expr Node
}

type InfixExpr struct {
	Location
	Left     Node
	Operator string
	Right    Node
}

type InstanceofExpr struct {
	Location
	Left    Node
	Type    Type
	Binding *SimpleName
}

type PrefixExpr struct {
	Location
	Operator string
	Operand  Node
}

type PostfixExpr struct {
	Location
	Operand  Node
	Operator string
}

type ConditionalExpr struct {
	Location
	Condition Node
	Then      Node
	Else      Node
}

type ParenthesizedExpr struct {
	Location
	Expr Node
}

// LambdaExpr bodies are either a *Block or a single expression.
type LambdaExpr struct {
	Location
	Parameters []*SingleVariableDecl
	Body       Node
}

type MethodReference struct {
	Location
	Expr Node
	Name string
}

// TypeLiteral is `T.class`.
type TypeLiteral struct {
	Location
	Type Type
}

// Literal holds every literal token; LiteralKind is one of the *Literal kinds
// or KindTextBlock.
type Literal struct {
	Location
	LiteralKind Kind
	Value       string
}

func (*Assignment) Kind() Kind                 { return KindAssignment }
func (*MethodInvocation) Kind() Kind           { return KindMethodInvocation }
func (*SuperMethodInvocation) Kind() Kind      { return KindSuperMethodInvocation }
func (*ClassInstanceCreation) Kind() Kind      { return KindClassInstanceCreation }
func (*SuperConstructorInvocation) Kind() Kind { return KindSuperConstructorInvocation }
func (*ConstructorInvocation) Kind() Kind      { return KindConstructorInvocation }
func (*FieldAccess) Kind() Kind                { return KindFieldAccess }
func (*SuperFieldAccess) Kind() Kind           { return KindSuperFieldAccess }
func (*ArrayAccess) Kind() Kind                { return KindArrayAccess }
func (*ArrayCreation) Kind() Kind              { return KindArrayCreation }
func (*ArrayInitializer) Kind() Kind           { return KindArrayInitializer }
func (*SimpleName) Kind() Kind                 { return KindSimpleName }
func (*QualifiedName) Kind() Kind              { return KindQualifiedName }
func (*ThisExpr) Kind() Kind                   { return KindThisExpr }
func (*CastExpr) Kind() Kind                   { return KindCastExpr }
func (*InfixExpr) Kind() Kind                  { return KindInfixExpr }
func (*InstanceofExpr) Kind() Kind             { return KindInstanceofExpr }
func (*PrefixExpr) Kind() Kind                 { return KindPrefixExpr }
func (*PostfixExpr) Kind() Kind                { return KindPostfixExpr }
func (*ConditionalExpr) Kind() Kind            { return KindConditionalExpr }
func (*ParenthesizedExpr) Kind() Kind          { return KindParenthesizedExpr }
func (*LambdaExpr) Kind() Kind                 { return KindLambdaExpr }
func (*MethodReference) Kind() Kind            { return KindMethodReference }
func (*TypeLiteral) Kind() Kind                { return KindTypeLiteral }

func (l *Literal) Kind() Kind {
	switch l.LiteralKind {
	case KindStringLiteral, KindTextBlock, KindCharacterLiteral,
		KindNumberLiteral, KindBooleanLiteral, KindNullLiteral:
		return l.LiteralKind
	}
	return KindInvalid
}

// Dotted renders a SimpleName/QualifiedName chain as "a.b.c".
func Dotted(n Node) string {
	switch v := n.(type) {
	case *SimpleName:
		if v == nil {
			return ""
		}
		return v.Identifier
	case *QualifiedName:
		q := Dotted(v.Qualifier)
		if v.Name == nil {
			return q
		}
		if q == "" {
			return v.Name.Identifier
		}
		return q + "." + v.Name.Identifier
	case *FieldAccess:
		r := Dotted(v.Receiver)
		if r == "" || v.Name == nil {
			return ""
		}
		return r + "." + v.Name.Identifier
	}
	return ""
}
