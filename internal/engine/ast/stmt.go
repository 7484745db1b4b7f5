package ast

type Block struct {
	Location
	Statements []Node
}

type IfStmt struct {
	Location
	Condition Node
	Then      Node
	Else      Node
}

type ForStmt struct {
	Location
	Init      []Node
	Condition Node
	Updates   []Node
	Body      Node
}

type EnhancedForStmt struct {
	Location
	Parameter *SingleVariableDecl
	Iterable  Node
	Body      Node
}

type WhileStmt struct {
	Location
	Condition Node
	Body      Node
}

type DoStmt struct {
	Location
	Body      Node
	Condition Node
}

// SwitchStmt keeps case labels and statements as siblings in Body, so case
// groups share the enclosing scope.
type SwitchStmt struct {
	Location
	Selector Node
	Body     []Node
}

type SwitchCase struct {
	Location
	Default bool
	Labels  []Node
}

type TryStmt struct {
	Location
	Resources []Node
	Body      *Block
	Catches   []*CatchClause
	Finally   *Block
}

type CatchClause struct {
	Location
	Exception *SingleVariableDecl
	Body      *Block
}

type ReturnStmt struct {
	Location
	Expr Node
}

type ThrowStmt struct {
	Location
	Expr Node
}

type YieldStmt struct {
	Location
	Expr Node
}

type ExpressionStmt struct {
	Location
	Expr Node
}

type LabeledStmt struct {
	Location
	Label string
	Body  Node
}

type SynchronizedStmt struct {
	Location
	Lock Node
	Body *Block
}

type AssertStmt struct {
	Location
	Expr    Node
	Message Node
}

type BreakStmt struct {
	Location
	Label string
}

type ContinueStmt struct {
	Location
	Label string
}

type EmptyStmt struct {
	Location
}

func (*Block) Kind() Kind            { return KindBlock }
func (*IfStmt) Kind() Kind           { return KindIfStmt }
func (*ForStmt) Kind() Kind          { return KindForStmt }
func (*EnhancedForStmt) Kind() Kind  { return KindEnhancedForStmt }
func (*WhileStmt) Kind() Kind        { return KindWhileStmt }
func (*DoStmt) Kind() Kind           { return KindDoStmt }
func (*SwitchStmt) Kind() Kind       { return KindSwitchStmt }
func (*SwitchCase) Kind() Kind       { return KindSwitchCase }
func (*TryStmt) Kind() Kind          { return KindTryStmt }
func (*CatchClause) Kind() Kind      { return KindCatchClause }
func (*ReturnStmt) Kind() Kind       { return KindReturnStmt }
func (*ThrowStmt) Kind() Kind        { return KindThrowStmt }
func (*YieldStmt) Kind() Kind        { return KindYieldStmt }
func (*ExpressionStmt) Kind() Kind   { return KindExpressionStmt }
func (*LabeledStmt) Kind() Kind      { return KindLabeledStmt }
func (*SynchronizedStmt) Kind() Kind { return KindSynchronizedStmt }
func (*AssertStmt) Kind() Kind       { return KindAssertStmt }
func (*BreakStmt) Kind() Kind        { return KindBreakStmt }
func (*ContinueStmt) Kind() Kind     { return KindContinueStmt }
func (*EmptyStmt) Kind() Kind        { return KindEmptyStmt }
