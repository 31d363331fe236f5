package ast_test

import (
	"testing"

	"github.com/jpetrucciani/beartype/internal/ast"
	"github.com/jpetrucciani/beartype/internal/token"
)

func TestSpanTokens(t *testing.T) {
	first := token.Token{Type: token.FUN, Lexeme: "fun", Line: 3, Column: 1}
	last := token.Token{Type: token.RBRACE, Lexeme: "}", Line: 5, Column: 1}

	sp := ast.SpanTokens(first, last)
	want := ast.Span{StartLine: 3, StartCol: 1, EndLine: 5, EndCol: 2}
	if sp != want {
		t.Fatalf("SpanTokens() = %+v, want %+v", sp, want)
	}
	if sp.IsZero() {
		t.Errorf("span %+v reported as zero", sp)
	}
}

func TestCopySpan(t *testing.T) {
	src := &ast.Identifier{Value: "shape"}
	src.SetSpan(ast.Span{StartLine: 2, StartCol: 5, EndLine: 2, EndCol: 10})

	dst := &ast.Identifier{Value: "__beartype_object__"}
	ast.CopySpan(dst, src)

	if dst.Span() != src.Span() {
		t.Fatalf("CopySpan: dst span = %+v, want %+v", dst.Span(), src.Span())
	}
}

func TestCopySpanSpanlessSource(t *testing.T) {
	dst := &ast.Identifier{Value: "keep"}
	orig := ast.Span{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 5}
	dst.SetSpan(orig)

	ast.CopySpan(dst, &ast.Identifier{Value: "blank"})

	if dst.Span() != orig {
		t.Errorf("spanless source overwrote dst span: %+v", dst.Span())
	}
}

func TestCopySpanNilNodes(t *testing.T) {
	// Must not panic in either direction.
	ast.CopySpan(nil, &ast.Identifier{Value: "x"})
	ast.CopySpan(&ast.Identifier{Value: "x"}, nil)
}

func TestModuleDocstring(t *testing.T) {
	doc := &ast.ExpressionStatement{
		Token:      token.Token{Type: token.STRING, Lexeme: `"Summon daemons."`, Literal: "Summon daemons."},
		Expression: &ast.StringLiteral{Value: "Summon daemons."},
	}
	mod := &ast.Module{Statements: []ast.Statement{doc}}

	if got := mod.Docstring(); got != "Summon daemons." {
		t.Errorf("Docstring() = %q, want %q", got, "Summon daemons.")
	}

	empty := &ast.Module{}
	if got := empty.Docstring(); got != "" {
		t.Errorf("Docstring() on empty module = %q, want empty", got)
	}
}

func TestIsAnnotated(t *testing.T) {
	intHint := &ast.Identifier{Value: "Int"}

	tests := []struct {
		name string
		fn   *ast.FunctionStatement
		want bool
	}{
		{
			"return_annotation",
			&ast.FunctionStatement{ReturnType: intHint},
			true,
		},
		{
			"param_annotation",
			&ast.FunctionStatement{Parameters: []*ast.Parameter{{Name: &ast.Identifier{Value: "n"}, Type: intHint}}},
			true,
		},
		{
			"no_annotations",
			&ast.FunctionStatement{Parameters: []*ast.Parameter{{Name: &ast.Identifier{Value: "n"}}}},
			false,
		},
		{
			"empty_signature",
			&ast.FunctionStatement{},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn.IsAnnotated(); got != tt.want {
				t.Errorf("IsAnnotated() = %v, want %v", got, tt.want)
			}
		})
	}
}
