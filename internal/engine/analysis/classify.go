package analysis

import "codegrader/internal/engine/ast"

// nodeClass is what the walker does with a node kind.
type nodeClass uint8

const (
	classUnclassified nodeClass = iota
	// classDeclare registers declarations in the current scope.
	classDeclare
	// classOpenScope opens child scopes and walks into them.
	classOpenScope
	// classCurrent walks children in the current scope.
	classCurrent
	// classCall records a method call and walks receiver and arguments.
	classCall
	// classLeaf has nothing to walk.
	classLeaf
)

func (c nodeClass) String() string {
	switch c {
	case classDeclare:
		return "declare"
	case classOpenScope:
		return "open-scope"
	case classCurrent:
		return "current-scope"
	case classCall:
		return "call"
	case classLeaf:
		return "leaf"
	}
	return "unclassified"
}

var kindClasses = map[ast.Kind]nodeClass{
	ast.KindTypeDecl:           classDeclare,
	ast.KindMethodDecl:         classDeclare,
	ast.KindFieldDecl:          classDeclare,
	ast.KindVariableDeclStmt:   classDeclare,
	ast.KindVariableDeclExpr:   classDeclare,
	ast.KindSingleVariableDecl: classDeclare,

	ast.KindIfStmt:          classOpenScope,
	ast.KindForStmt:         classOpenScope,
	ast.KindEnhancedForStmt: classOpenScope,
	ast.KindWhileStmt:       classOpenScope,
	ast.KindDoStmt:          classOpenScope,
	ast.KindTryStmt:         classOpenScope,
	ast.KindLambdaExpr:      classOpenScope,

	ast.KindCompilationUnit:       classCurrent,
	ast.KindVariableDeclFragment:  classCurrent,
	ast.KindBlock:                 classCurrent,
	ast.KindSwitchStmt:            classCurrent,
	ast.KindSwitchCase:            classCurrent,
	ast.KindCatchClause:           classCurrent,
	ast.KindReturnStmt:            classCurrent,
	ast.KindThrowStmt:             classCurrent,
	ast.KindYieldStmt:             classCurrent,
	ast.KindExpressionStmt:        classCurrent,
	ast.KindLabeledStmt:           classCurrent,
	ast.KindSynchronizedStmt:      classCurrent,
	ast.KindAssertStmt:            classCurrent,
	ast.KindAssignment:            classCurrent,
	ast.KindConstructorInvocation: classCurrent,
	ast.KindFieldAccess:           classCurrent,
	ast.KindArrayAccess:           classCurrent,
	ast.KindArrayCreation:         classCurrent,
	ast.KindArrayInitializer:      classCurrent,
	ast.KindQualifiedName:         classCurrent,
	ast.KindCastExpr:              classCurrent,
	ast.KindInfixExpr:             classCurrent,
	ast.KindInstanceofExpr:        classCurrent,
	ast.KindPrefixExpr:            classCurrent,
	ast.KindPostfixExpr:           classCurrent,
	ast.KindConditionalExpr:       classCurrent,
	ast.KindParenthesizedExpr:     classCurrent,
	ast.KindMethodReference:       classCurrent,

	ast.KindMethodInvocation:           classCall,
	ast.KindSuperMethodInvocation:      classCall,
	ast.KindClassInstanceCreation:      classCall,
	ast.KindSuperConstructorInvocation: classCall,

	ast.KindBreakStmt:         classLeaf,
	ast.KindContinueStmt:      classLeaf,
	ast.KindEmptyStmt:         classLeaf,
	ast.KindSuperFieldAccess:  classLeaf,
	ast.KindSimpleName:        classLeaf,
	ast.KindThisExpr:          classLeaf,
	ast.KindTypeLiteral:       classLeaf,
	ast.KindStringLiteral:     classLeaf,
	ast.KindTextBlock:         classLeaf,
	ast.KindCharacterLiteral:  classLeaf,
	ast.KindNumberLiteral:     classLeaf,
	ast.KindBooleanLiteral:    classLeaf,
	ast.KindNullLiteral:       classLeaf,
	ast.KindSimpleType:        classLeaf,
	ast.KindPrimitiveType:     classLeaf,
	ast.KindParameterizedType: classLeaf,
	ast.KindArrayType:         classLeaf,
	ast.KindUnionType:         classLeaf,
	ast.KindWildcardType:      classLeaf,
}

func classify(k ast.Kind) nodeClass {
	return kindClasses[k]
}
