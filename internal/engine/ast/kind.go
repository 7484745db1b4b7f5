package ast

import "strconv"

// Kind tags every node in the tree. The set is closed: the engine keeps a
// classification for each value and a test fails when one is missing.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Declarations.
	KindCompilationUnit
	KindTypeDecl
	KindMethodDecl
	KindFieldDecl
	KindVariableDeclStmt
	KindVariableDeclExpr
	KindVariableDeclFragment
	KindSingleVariableDecl

	// Statements.
	KindBlock
	KindIfStmt
	KindForStmt
	KindEnhancedForStmt
	KindWhileStmt
	KindDoStmt
	KindSwitchStmt
	KindSwitchCase
	KindTryStmt
	KindCatchClause
	KindReturnStmt
	KindThrowStmt
	KindYieldStmt
	KindExpressionStmt
	KindLabeledStmt
	KindSynchronizedStmt
	KindAssertStmt
	KindBreakStmt
	KindContinueStmt
	KindEmptyStmt

	// Expressions.
	KindAssignment
	KindMethodInvocation
	KindSuperMethodInvocation
	KindClassInstanceCreation
	KindSuperConstructorInvocation
	KindConstructorInvocation
	KindFieldAccess
	KindSuperFieldAccess
	KindArrayAccess
	KindArrayCreation
	KindArrayInitializer
	KindSimpleName
	KindQualifiedName
	KindThisExpr
	KindCastExpr
	KindInfixExpr
	KindInstanceofExpr
	KindPrefixExpr
	KindPostfixExpr
	KindConditionalExpr
	KindParenthesizedExpr
	KindLambdaExpr
	KindMethodReference
	KindTypeLiteral
	KindStringLiteral
	KindTextBlock
	KindCharacterLiteral
	KindNumberLiteral
	KindBooleanLiteral
	KindNullLiteral

	// Types.
	KindSimpleType
	KindPrimitiveType
	KindParameterizedType
	KindArrayType
	KindUnionType
	KindWildcardType

	kindCount
)

var kindNames = [...]string{
	KindInvalid:                    "Invalid",
	KindCompilationUnit:            "CompilationUnit",
	KindTypeDecl:                   "TypeDecl",
	KindMethodDecl:                 "MethodDecl",
	KindFieldDecl:                  "FieldDecl",
	KindVariableDeclStmt:           "VariableDeclStmt",
	KindVariableDeclExpr:           "VariableDeclExpr",
	KindVariableDeclFragment:       "VariableDeclFragment",
	KindSingleVariableDecl:         "SingleVariableDecl",
	KindBlock:                      "Block",
	KindIfStmt:                     "IfStmt",
	KindForStmt:                    "ForStmt",
	KindEnhancedForStmt:            "EnhancedForStmt",
	KindWhileStmt:                  "WhileStmt",
	KindDoStmt:                     "DoStmt",
	KindSwitchStmt:                 "SwitchStmt",
	KindSwitchCase:                 "SwitchCase",
	KindTryStmt:                    "TryStmt",
	KindCatchClause:                "CatchClause",
	KindReturnStmt:                 "ReturnStmt",
	KindThrowStmt:                  "ThrowStmt",
	KindYieldStmt:                  "YieldStmt",
	KindExpressionStmt:             "ExpressionStmt",
	KindLabeledStmt:                "LabeledStmt",
	KindSynchronizedStmt:           "SynchronizedStmt",
	KindAssertStmt:                 "AssertStmt",
	KindBreakStmt:                  "BreakStmt",
	KindContinueStmt:               "ContinueStmt",
	KindEmptyStmt:                  "EmptyStmt",
	KindAssignment:                 "Assignment",
	KindMethodInvocation:           "MethodInvocation",
	KindSuperMethodInvocation:      "SuperMethodInvocation",
	KindClassInstanceCreation:      "ClassInstanceCreation",
	KindSuperConstructorInvocation: "SuperConstructorInvocation",
	KindConstructorInvocation:      "ConstructorInvocation",
	KindFieldAccess:                "FieldAccess",
	KindSuperFieldAccess:           "SuperFieldAccess",
	KindArrayAccess:                "ArrayAccess",
	KindArrayCreation:              "ArrayCreation",
	KindArrayInitializer:           "ArrayInitializer",
	KindSimpleName:                 "SimpleName",
	KindQualifiedName:              "QualifiedName",
	KindThisExpr:                   "ThisExpr",
	KindCastExpr:                   "CastExpr",
	KindInfixExpr:                  "InfixExpr",
	KindInstanceofExpr:             "InstanceofExpr",
	KindPrefixExpr:                 "PrefixExpr",
	KindPostfixExpr:                "PostfixExpr",
	KindConditionalExpr:            "ConditionalExpr",
	KindParenthesizedExpr:          "ParenthesizedExpr",
	KindLambdaExpr:                 "LambdaExpr",
	KindMethodReference:            "MethodReference",
	KindTypeLiteral:                "TypeLiteral",
	KindStringLiteral:              "StringLiteral",
	KindTextBlock:                  "TextBlock",
	KindCharacterLiteral:           "CharacterLiteral",
	KindNumberLiteral:              "NumberLiteral",
	KindBooleanLiteral:             "BooleanLiteral",
	KindNullLiteral:                "NullLiteral",
	KindSimpleType:                 "SimpleType",
	KindPrimitiveType:              "PrimitiveType",
	KindParameterizedType:          "ParameterizedType",
	KindArrayType:                  "ArrayType",
	KindUnionType:                  "UnionType",
	KindWildcardType:               "WildcardType",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Kinds lists every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, kindCount-1)
	for k := KindInvalid + 1; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// IsLoop reports whether k is one of the four loop statements.
func (k Kind) IsLoop() bool {
	switch k {
	case KindForStmt, KindEnhancedForStmt, KindWhileStmt, KindDoStmt:
		return true
	}
	return false
}

// IsType reports whether k tags a type node.
func (k Kind) IsType() bool {
	return k >= KindSimpleType && k <= KindWildcardType
}
