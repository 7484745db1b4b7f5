package analysis

import (
	"io"
	"log/slog"
	"strings"

	"codegrader/internal/engine/ast"
)

// Small constructors for hand-built syntax trees.

func quietEngine(opts Options) *Engine {
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(opts)
}

func id(s string) *ast.SimpleName { return &ast.SimpleName{Identifier: s} }

func typ(s string) *ast.SimpleType { return &ast.SimpleType{Name: s} }

func prim(s string) *ast.PrimitiveType { return &ast.PrimitiveType{Code: s} }

func generic(base string, args ...ast.Type) *ast.ParameterizedType {
	return &ast.ParameterizedType{Base: typ(base), Arguments: args}
}

func mods(words ...string) ast.Modifiers {
	out := make(ast.Modifiers, 0, len(words))
	for _, w := range words {
		if strings.HasPrefix(w, "@") {
			out = append(out, ast.Modifier{Annotation: w[1:]})
			continue
		}
		out = append(out, ast.Modifier{Keyword: w})
	}
	return out
}

func class(name, super string, body ...ast.Node) *ast.TypeDecl {
	t := &ast.TypeDecl{Flavor: ast.FlavorClass, Name: id(name), Body: body}
	if super != "" {
		t.Superclass = typ(super)
	}
	return t
}

func iface(name string, body ...ast.Node) *ast.TypeDecl {
	return &ast.TypeDecl{Flavor: ast.FlavorInterface, Name: id(name), Body: body}
}

func method(m ast.Modifiers, ret ast.Type, name string, params []*ast.SingleVariableDecl, stmts ...ast.Node) *ast.MethodDecl {
	return &ast.MethodDecl{
		Modifiers:  m,
		ReturnType: ret,
		Name:       id(name),
		Parameters: params,
		Body:       &ast.Block{Statements: stmts},
	}
}

func abstractMethod(ret ast.Type, name string) *ast.MethodDecl {
	return &ast.MethodDecl{ReturnType: ret, Name: id(name)}
}

func ctor(name string, params []*ast.SingleVariableDecl, stmts ...ast.Node) *ast.MethodDecl {
	return &ast.MethodDecl{Constructor: true, Name: id(name), Parameters: params, Body: &ast.Block{Statements: stmts}}
}

func params(pairs ...ast.Node) []*ast.SingleVariableDecl {
	var out []*ast.SingleVariableDecl
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, &ast.SingleVariableDecl{Type: pairs[i].(ast.Type), Name: pairs[i+1].(*ast.SimpleName)})
	}
	return out
}

func local(t ast.Type, name string, init ast.Node) *ast.VariableDeclStmt {
	return &ast.VariableDeclStmt{Type: t, Fragments: []*ast.VariableDeclFragment{{Name: id(name), Initializer: init}}}
}

func field(m ast.Modifiers, t ast.Type, name string, init ast.Node) *ast.FieldDecl {
	return &ast.FieldDecl{Modifiers: m, Type: t, Fragments: []*ast.VariableDeclFragment{{Name: id(name), Initializer: init}}}
}

func call(recv ast.Node, name string, args ...ast.Node) *ast.MethodInvocation {
	return &ast.MethodInvocation{Receiver: recv, Name: id(name), Arguments: args}
}

func newObj(t string, args ...ast.Node) *ast.ClassInstanceCreation {
	return &ast.ClassInstanceCreation{Type: typ(t), Arguments: args}
}

func stmt(e ast.Node) *ast.ExpressionStmt { return &ast.ExpressionStmt{Expr: e} }

func block(stmts ...ast.Node) *ast.Block { return &ast.Block{Statements: stmts} }

func num(v string) *ast.Literal { return &ast.Literal{LiteralKind: ast.KindNumberLiteral, Value: v} }

func str(v string) *ast.Literal { return &ast.Literal{LiteralKind: ast.KindStringLiteral, Value: v} }

func boolean(v string) *ast.Literal {
	return &ast.Literal{LiteralKind: ast.KindBooleanLiteral, Value: v}
}

func javaFile(path string, types ...*ast.TypeDecl) *CodeFile {
	return &CodeFile{Path: path, Unit: &ast.CompilationUnit{Types: types}}
}

func callNamed(ti *TypeInformation, name string) *MethodCall {
	for _, c := range ti.MethodCalls {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func callNames(ti *TypeInformation) []string {
	out := make([]string, 0, len(ti.MethodCalls))
	for _, c := range ti.MethodCalls {
		out = append(out, c.Name)
	}
	return out
}

func usageOf(ti *TypeInformation, node ast.Node) *Usage {
	for _, u := range ti.Usages {
		if u.Node == node {
			return u
		}
	}
	return nil
}
