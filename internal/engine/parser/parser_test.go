package parser

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegrader/internal/core/errors"
	"codegrader/internal/engine/analysis"
	"codegrader/internal/engine/ast"
)

func newTestParser() *Parser {
	return NewParser(NewGrammarLoader(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func parse(t *testing.T, path, src string) *analysis.CodeFile {
	t.Helper()
	f, err := newTestParser().ParseFile(path, []byte(src))
	require.NoError(t, err)
	require.NoError(t, f.ParseErr)
	require.NotNil(t, f.Unit)
	return f
}

func findMethod(t *testing.T, td *ast.TypeDecl, name string) *ast.MethodDecl {
	t.Helper()
	for _, m := range td.Body {
		if md, ok := m.(*ast.MethodDecl); ok && md.MethodName() == name {
			return md
		}
	}
	t.Fatalf("method %s not found in %s", name, td.TypeName())
	return nil
}

func TestParseClassStructure(t *testing.T) {
	f := parse(t, "src/shapes/Square.java", `
package shapes;

import java.util.List;
import static org.junit.Assert.assertEquals;

public final class Square extends Rectangle implements Shape, Comparable<Square> {
    private static final int SIDES = 4;
    private int[] sides, extra[];

    public Square(double side) {
        super(side, side);
    }

    @Override
    public double getArea(String... labels) {
        return side * side;
    }
}
`)
	cu := f.Unit
	assert.Equal(t, "shapes", cu.Package)
	assert.Equal(t, []string{"java.util.List", "org.junit.Assert.assertEquals"}, cu.Imports)
	require.Len(t, cu.Types, 1)

	sq := cu.Types[0]
	assert.Equal(t, "Square", sq.TypeName())
	assert.Equal(t, ast.FlavorClass, sq.Flavor)
	assert.True(t, sq.Modifiers.Has("public"))
	assert.True(t, sq.Modifiers.IsFinal())
	require.NotNil(t, sq.Superclass)
	assert.Equal(t, "Rectangle", sq.Superclass.(*ast.SimpleType).Name)
	require.Len(t, sq.Interfaces, 2)
	assert.IsType(t, &ast.ParameterizedType{}, sq.Interfaces[1])

	sides := sq.Body[0].(*ast.FieldDecl)
	assert.True(t, sides.Modifiers.IsStatic())
	assert.Equal(t, "SIDES", sides.Fragments[0].Name.Identifier)

	arrays := sq.Body[1].(*ast.FieldDecl)
	require.Len(t, arrays.Fragments, 2)
	assert.Equal(t, 1, arrays.Fragments[1].Dimensions)

	ctor := findMethod(t, sq, "Square")
	assert.True(t, ctor.Constructor)
	require.Len(t, ctor.Body.Statements, 1)
	assert.IsType(t, &ast.SuperConstructorInvocation{}, ctor.Body.Statements[0])

	area := findMethod(t, sq, "getArea")
	assert.True(t, area.Modifiers.HasAnnotation("Override"))
	require.Len(t, area.Parameters, 1)
	assert.True(t, area.Parameters[0].Varargs)
	assert.Equal(t, "double", area.ReturnType.(*ast.PrimitiveType).Code)
	ret := area.Body.Statements[0].(*ast.ReturnStmt)
	infix := ret.Expr.(*ast.InfixExpr)
	assert.Equal(t, "*", infix.Operator)
	assert.Equal(t, 17, ret.Start.Line)
}

func TestParseStatementsAndExpressions(t *testing.T) {
	f := parse(t, "Loops.java", `
class Loops {
    void run(java.util.List<String> items) throws Exception {
        for (int i = 0; i < 3; i++) { System.out.println(i); }
        for (String s : items) { s.trim(); }
        int n = 0;
        while (n < 2) { n += 1; }
        do { --n; } while (n > 0);
        switch (n) {
            case 0: n = 1; break;
            default: n = 2;
        }
        try (java.io.Reader r = open()) {
            r.read();
        } catch (java.io.IOException | RuntimeException e) {
            throw e;
        } finally {
            items.clear();
        }
        Runnable task = () -> items.size();
        Object o = items;
        if (o instanceof String str) { str.length(); } else { new Loops().run(null); }
        int[] arr = new int[]{1, 2};
        String t = n > 0 ? "a" : "b";
        Class<?> k = String.class;
        items.forEach(System.out::println);
    }
    java.io.Reader open() { return null; }
}
`)
	run := findMethod(t, f.Unit.Types[0], "run")
	kinds := make([]ast.Kind, 0, len(run.Body.Statements))
	for _, s := range run.Body.Statements {
		kinds = append(kinds, s.Kind())
	}
	assert.Equal(t, []ast.Kind{
		ast.KindForStmt,
		ast.KindEnhancedForStmt,
		ast.KindVariableDeclStmt,
		ast.KindWhileStmt,
		ast.KindDoStmt,
		ast.KindSwitchStmt,
		ast.KindTryStmt,
		ast.KindVariableDeclStmt,
		ast.KindVariableDeclStmt,
		ast.KindIfStmt,
		ast.KindVariableDeclStmt,
		ast.KindVariableDeclStmt,
		ast.KindVariableDeclStmt,
		ast.KindExpressionStmt,
	}, kinds)

	forStmt := run.Body.Statements[0].(*ast.ForStmt)
	require.Len(t, forStmt.Init, 1)
	assert.IsType(t, &ast.VariableDeclExpr{}, forStmt.Init[0])
	require.Len(t, forStmt.Updates, 1)
	assert.IsType(t, &ast.PostfixExpr{}, forStmt.Updates[0])

	println := forStmt.Body.(*ast.Block).Statements[0].(*ast.ExpressionStmt).Expr.(*ast.MethodInvocation)
	assert.Equal(t, "System.out", ast.Dotted(println.Receiver))

	doStmt := run.Body.Statements[4].(*ast.DoStmt)
	prefix := doStmt.Body.(*ast.Block).Statements[0].(*ast.ExpressionStmt).Expr.(*ast.PrefixExpr)
	assert.Equal(t, "--", prefix.Operator)

	sw := run.Body.Statements[5].(*ast.SwitchStmt)
	var cases []*ast.SwitchCase
	for _, n := range sw.Body {
		if sc, ok := n.(*ast.SwitchCase); ok {
			cases = append(cases, sc)
		}
	}
	require.Len(t, cases, 2)
	assert.False(t, cases[0].Default)
	assert.True(t, cases[1].Default)

	try := run.Body.Statements[6].(*ast.TryStmt)
	require.Len(t, try.Resources, 1)
	require.Len(t, try.Catches, 1)
	assert.IsType(t, &ast.UnionType{}, try.Catches[0].Exception.Type)
	require.NotNil(t, try.Finally)

	lambda := run.Body.Statements[7].(*ast.VariableDeclStmt).Fragments[0].Initializer.(*ast.LambdaExpr)
	assert.IsType(t, &ast.MethodInvocation{}, lambda.Body)

	ifStmt := run.Body.Statements[9].(*ast.IfStmt)
	inst := ifStmt.Condition.(*ast.ParenthesizedExpr).Expr.(*ast.InstanceofExpr)
	require.NotNil(t, inst.Binding)
	assert.Equal(t, "str", inst.Binding.Identifier)

	arr := run.Body.Statements[10].(*ast.VariableDeclStmt).Fragments[0].Initializer.(*ast.ArrayCreation)
	require.NotNil(t, arr.Initializer)
	assert.Len(t, arr.Initializer.Elements, 2)

	ref := run.Body.Statements[13].(*ast.ExpressionStmt).Expr.(*ast.MethodInvocation).Arguments[0].(*ast.MethodReference)
	assert.Equal(t, "println", ref.Name)
}

func TestParseEnumRecordInterface(t *testing.T) {
	f := parse(t, "Kinds.java", `
interface Shape extends Comparable<Shape> { double area(); }
enum Color { RED, GREEN("g"); Color() {} Color(String s) {} }
record Point(int x, int y) { int sum() { return x + y; } }
`)
	require.Len(t, f.Unit.Types, 3)

	shape := f.Unit.Types[0]
	assert.Equal(t, ast.FlavorInterface, shape.Flavor)
	require.Len(t, shape.Interfaces, 1)
	assert.Nil(t, findMethod(t, shape, "area").Body)

	color := f.Unit.Types[1]
	assert.Equal(t, ast.FlavorEnum, color.Flavor)
	red := color.Body[0].(*ast.FieldDecl)
	assert.True(t, red.Modifiers.IsStatic())
	assert.Nil(t, red.Fragments[0].Initializer)
	green := color.Body[1].(*ast.FieldDecl)
	assert.IsType(t, &ast.ClassInstanceCreation{}, green.Fragments[0].Initializer)

	point := f.Unit.Types[2]
	assert.Equal(t, ast.FlavorRecord, point.Flavor)
	assert.Equal(t, "x", findMethod(t, point, "x").MethodName())
	assert.NotNil(t, findMethod(t, point, "sum").Body)
}

func TestParseErrorsAndUnsupportedPaths(t *testing.T) {
	p := newTestParser()

	f, err := p.ParseFile("Broken.java", []byte("class Broken {\n  void m( {\n}\n"))
	require.NoError(t, err)
	require.Error(t, f.ParseErr)
	assert.True(t, errors.IsCode(f.ParseErr, errors.CodeParseError))
	assert.Nil(t, f.Unit)

	_, err = p.ParseFile("README.md", []byte("# hi"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))

	assert.True(t, p.IsTestFile("src/test/SquareTest.java"))
	assert.False(t, p.IsTestFile("src/main/Square.java"))
	assert.Equal(t, []string{".java"}, p.SupportedExtensions())
}

func TestParsedSourceResolvesInheritedCalls(t *testing.T) {
	sources := map[string]string{
		"Shape.java":     `public interface Shape { double getArea(); }`,
		"Rectangle.java": `public class Rectangle implements Shape { double w, h; public double getArea() { return w * h; } }`,
		"Square.java":    `public class Square extends Rectangle { public Square(double side) { } }`,
		"Main.java": `public class Main {
    public static void main(String[] args) {
        Square sq = new Square(2.0);
        double a = sq.getArea();
        helper();
    }
    static void helper() {}
}`,
	}
	p := newTestParser()
	var files []*analysis.CodeFile
	for _, name := range []string{"Shape.java", "Rectangle.java", "Square.java", "Main.java"} {
		f, err := p.ParseFile(name, []byte(sources[name]))
		require.NoError(t, err)
		require.NoError(t, f.ParseErr)
		files = append(files, f)
	}

	e := analysis.NewEngine(analysis.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	e.DeclareTypes(files)
	for _, f := range analysis.SortForAnalysis(files, analysis.OrderInheritance) {
		require.NoError(t, e.FindComponentsInFile(f))
	}

	main, ok := e.Types().Lookup("Main")
	require.True(t, ok)
	names := make(map[string]*analysis.MethodCall)
	for _, c := range main.MethodCalls {
		names[c.Name] = c
	}
	require.Contains(t, names, "$Rectangle$.getArea")
	assert.Equal(t, "Rectangle", names["$Rectangle$.getArea"].CalledType)
	require.Contains(t, names, "Square(double)")
	require.Contains(t, names, "this.helper")
	assert.Equal(t, analysis.CallStaticMethod, names["this.helper"].Kind)
	assert.Equal(t, "Main", names["this.helper"].CalledType)
	assert.Greater(t, CountNodes(files[3]), 10)
}
