package parser_test

import (
	"testing"

	"github.com/jpetrucciani/beartype/internal/ast"
	"github.com/jpetrucciani/beartype/internal/lexer"
	"github.com/jpetrucciani/beartype/internal/parser"
)

func parseModule(t *testing.T, input string) *ast.Module {
	t.Helper()
	p := parser.New(lexer.New(input))
	mod := p.ParseModule()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	return mod
}

func TestImports(t *testing.T) {
	mod := parseModule(t, `from warhammer.chaos import Daemon, Bloodletter
import math.geometry as geo
import sigmar
`)
	if len(mod.Statements) != 3 {
		t.Fatalf("statements = %d, want 3", len(mod.Statements))
	}

	from, ok := mod.Statements[0].(*ast.FromImportStatement)
	if !ok {
		t.Fatalf("statements[0] is %T, want *ast.FromImportStatement", mod.Statements[0])
	}
	if from.Module != "warhammer.chaos" {
		t.Errorf("from module = %q, want %q", from.Module, "warhammer.chaos")
	}
	if len(from.Names) != 2 || from.Names[0].Value != "Daemon" || from.Names[1].Value != "Bloodletter" {
		t.Errorf("from names = %v", from.Names)
	}

	imp, ok := mod.Statements[1].(*ast.ImportStatement)
	if !ok {
		t.Fatalf("statements[1] is %T, want *ast.ImportStatement", mod.Statements[1])
	}
	if imp.Module != "math.geometry" || imp.Alias == nil || imp.Alias.Value != "geo" {
		t.Errorf("import = %q as %v", imp.Module, imp.Alias)
	}

	plain, ok := mod.Statements[2].(*ast.ImportStatement)
	if !ok {
		t.Fatalf("statements[2] is %T, want *ast.ImportStatement", mod.Statements[2])
	}
	if plain.Module != "sigmar" || plain.Alias != nil {
		t.Errorf("import = %+v", plain)
	}
}

func TestFunctionStatement(t *testing.T) {
	mod := parseModule(t, `fun scale(shape: Shape, factor: Float = 1.0) -> Shape {
	return shape
}
`)
	fn, ok := mod.Statements[0].(*ast.FunctionStatement)
	if !ok {
		t.Fatalf("statements[0] is %T, want *ast.FunctionStatement", mod.Statements[0])
	}
	if fn.Name.Value != "scale" {
		t.Errorf("name = %q", fn.Name.Value)
	}
	if len(fn.Parameters) != 2 {
		t.Fatalf("parameters = %d, want 2", len(fn.Parameters))
	}

	first := fn.Parameters[0]
	if first.Name.Value != "shape" {
		t.Errorf("param[0] name = %q", first.Name.Value)
	}
	if ident, ok := first.Type.(*ast.Identifier); !ok || ident.Value != "Shape" {
		t.Errorf("param[0] type = %v", first.Type)
	}
	if first.Default != nil {
		t.Errorf("param[0] default = %v, want nil", first.Default)
	}

	second := fn.Parameters[1]
	if second.Default == nil {
		t.Fatalf("param[1] has no default")
	}
	if lit, ok := second.Default.(*ast.FloatLiteral); !ok || lit.Value != 1.0 {
		t.Errorf("param[1] default = %v", second.Default)
	}

	if ret, ok := fn.ReturnType.(*ast.Identifier); !ok || ret.Value != "Shape" {
		t.Errorf("return type = %v", fn.ReturnType)
	}
	if !fn.IsAnnotated() {
		t.Errorf("IsAnnotated() = false")
	}
	if len(fn.Body.Statements) != 1 {
		t.Errorf("body statements = %d, want 1", len(fn.Body.Statements))
	}
}

func TestAnnotationForms(t *testing.T) {
	mod := parseModule(t, `fun f(a: (Str, Int), b: "chaos.Daemon", c: geo.Shape) { return a }`)
	fn := mod.Statements[0].(*ast.FunctionStatement)

	if _, ok := fn.Parameters[0].Type.(*ast.TupleLiteral); !ok {
		t.Errorf("param a type is %T, want *ast.TupleLiteral", fn.Parameters[0].Type)
	}
	if lit, ok := fn.Parameters[1].Type.(*ast.StringLiteral); !ok || lit.Value != "chaos.Daemon" {
		t.Errorf("param b type = %v", fn.Parameters[1].Type)
	}
	member, ok := fn.Parameters[2].Type.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("param c type is %T, want *ast.MemberExpression", fn.Parameters[2].Type)
	}
	if obj, ok := member.Object.(*ast.Identifier); !ok || obj.Value != "geo" || member.Property.Value != "Shape" {
		t.Errorf("param c member = %v.%v", member.Object, member.Property)
	}
}

func TestDecorators(t *testing.T) {
	mod := parseModule(t, `@memo
@registry.cached
fun hot() -> Int { return 1 }
`)
	fn := mod.Statements[0].(*ast.FunctionStatement)
	if len(fn.Decorators) != 2 {
		t.Fatalf("decorators = %d, want 2", len(fn.Decorators))
	}
	if ident, ok := fn.Decorators[0].(*ast.Identifier); !ok || ident.Value != "memo" {
		t.Errorf("decorators[0] = %v", fn.Decorators[0])
	}
	if _, ok := fn.Decorators[1].(*ast.MemberExpression); !ok {
		t.Errorf("decorators[1] is %T, want *ast.MemberExpression", fn.Decorators[1])
	}
}

func TestClassStatement(t *testing.T) {
	mod := parseModule(t, `class Bloodletter(Daemon, chaos.Khornate) {
	"""Lesser daemon."""
	fun strike(target: Daemon) -> Bool {
		return true
	}
}
`)
	cls, ok := mod.Statements[0].(*ast.ClassStatement)
	if !ok {
		t.Fatalf("statements[0] is %T, want *ast.ClassStatement", mod.Statements[0])
	}
	if cls.Name.Value != "Bloodletter" {
		t.Errorf("name = %q", cls.Name.Value)
	}
	if len(cls.Bases) != 2 {
		t.Fatalf("bases = %d, want 2", len(cls.Bases))
	}
	if len(cls.Body.Statements) != 2 {
		t.Fatalf("body statements = %d, want 2", len(cls.Body.Statements))
	}
	if lit := ast.DocstringOf(cls.Body.Statements[0]); lit == nil {
		t.Errorf("body[0] is not a docstring")
	}
	if _, ok := cls.Body.Statements[1].(*ast.FunctionStatement); !ok {
		t.Errorf("body[1] is %T, want *ast.FunctionStatement", cls.Body.Statements[1])
	}
}

func TestModuleDocstringAndFutureImport(t *testing.T) {
	mod := parseModule(t, `"""Ritual helpers."""
from __future__ import annotations

fun noop() { return }
`)
	if mod.Docstring() != "Ritual helpers." {
		t.Errorf("docstring = %q", mod.Docstring())
	}
	from, ok := mod.Statements[1].(*ast.FromImportStatement)
	if !ok || from.Module != "__future__" {
		t.Errorf("statements[1] = %v", mod.Statements[1])
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, expr ast.Expression)
	}{
		{
			"1 + 2 * 3",
			func(t *testing.T, expr ast.Expression) {
				add := expr.(*ast.InfixExpression)
				if add.Operator != "+" {
					t.Fatalf("top operator = %q, want +", add.Operator)
				}
				mul := add.Right.(*ast.InfixExpression)
				if mul.Operator != "*" {
					t.Errorf("right operator = %q, want *", mul.Operator)
				}
			},
		},
		{
			"a == b && c != d",
			func(t *testing.T, expr ast.Expression) {
				and := expr.(*ast.InfixExpression)
				if and.Operator != "&&" {
					t.Fatalf("top operator = %q, want &&", and.Operator)
				}
			},
		},
		{
			"-x * y",
			func(t *testing.T, expr ast.Expression) {
				mul := expr.(*ast.InfixExpression)
				if _, ok := mul.Left.(*ast.PrefixExpression); !ok {
					t.Errorf("left is %T, want *ast.PrefixExpression", mul.Left)
				}
			},
		},
		{
			"summon(name, 2 + 3).power",
			func(t *testing.T, expr ast.Expression) {
				member := expr.(*ast.MemberExpression)
				call, ok := member.Object.(*ast.CallExpression)
				if !ok {
					t.Fatalf("object is %T, want *ast.CallExpression", member.Object)
				}
				if len(call.Arguments) != 2 {
					t.Errorf("arguments = %d, want 2", len(call.Arguments))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mod := parseModule(t, tt.input)
			stmt, ok := mod.Statements[0].(*ast.ExpressionStatement)
			if !ok {
				t.Fatalf("statement is %T", mod.Statements[0])
			}
			tt.check(t, stmt.Expression)
		})
	}
}

func TestNestedFunctions(t *testing.T) {
	mod := parseModule(t, `fun outer() {
	fun inner(x: Int) -> Int {
		return x
	}
	return inner
}
`)
	outer := mod.Statements[0].(*ast.FunctionStatement)
	inner, ok := outer.Body.Statements[0].(*ast.FunctionStatement)
	if !ok {
		t.Fatalf("body[0] is %T, want *ast.FunctionStatement", outer.Body.Statements[0])
	}
	if inner.Name.Value != "inner" || !inner.IsAnnotated() {
		t.Errorf("inner = %q annotated=%v", inner.Name.Value, inner.IsAnnotated())
	}
}

func TestStatementSpans(t *testing.T) {
	mod := parseModule(t, "fun f() {\n\treturn 1\n}\n")
	fn := mod.Statements[0].(*ast.FunctionStatement)

	sp := fn.Span()
	if sp.StartLine != 1 || sp.StartCol != 1 {
		t.Errorf("span start = %d:%d, want 1:1", sp.StartLine, sp.StartCol)
	}
	if sp.EndLine != 3 || sp.EndCol != 2 {
		t.Errorf("span end = %d:%d, want 3:2", sp.EndLine, sp.EndCol)
	}
	if mod.Span().IsZero() {
		t.Errorf("module span is zero")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing_paren", "fun f( {"},
		{"decorator_without_fun", "@memo\nclass C {}"},
		{"unterminated_block", "fun f() {"},
		{"bad_expression", "var x = *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parser.New(lexer.New(tt.input))
			p.ParseModule()
			if len(p.Errors()) == 0 {
				t.Errorf("no parse errors for %q", tt.input)
			}
		})
	}
}

func TestIfElse(t *testing.T) {
	mod := parseModule(t, `fun pick(n: Int) -> Str {
	if n > 0 {
		return "many"
	} else if n == 0 {
		return "none"
	} else {
		return "debt"
	}
}
`)
	fn := mod.Statements[0].(*ast.FunctionStatement)
	ifStmt, ok := fn.Body.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("body[0] is %T, want *ast.IfStatement", fn.Body.Statements[0])
	}
	if ifStmt.Alternative == nil {
		t.Fatalf("missing else branch")
	}
	nested, ok := ifStmt.Alternative.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("else branch is %T, want nested *ast.IfStatement", ifStmt.Alternative.Statements[0])
	}
	if nested.Alternative == nil {
		t.Errorf("nested if has no else")
	}
}
