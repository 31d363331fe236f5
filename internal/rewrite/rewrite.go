// Package rewrite injects runtime type-checking instrumentation into parsed
// modules before they are evaluated.
//
// Two transformations run over the tree. At module level, an import of the
// decoration entry point is inserted at the first position past any leading
// docstrings and __future__ imports, so the decorator name is bound before
// any definition executes. At function level, every definition carrying a
// return or parameter annotation gets that decorator appended to its
// decorator list; appending keeps it innermost, so wrapping decorators
// already present receive the checked function rather than the bare one.
// Synthesized nodes take their source positions from the statement they
// displace, keeping downstream diagnostics plausible.
package rewrite

import (
	"github.com/jpetrucciani/beartype/internal/ast"
	"github.com/jpetrucciani/beartype/internal/config"
	"github.com/jpetrucciani/beartype/internal/token"
)

// Apply instruments mod in place and reports whether anything changed.
// Empty and already-instrumented modules are left untouched.
func Apply(mod *ast.Module) bool {
	if mod == nil || len(mod.Statements) == 0 {
		return false
	}
	if isInstrumented(mod) {
		return false
	}
	changed := insertImport(mod)
	for _, stmt := range mod.Statements {
		if rewriteStatement(stmt) {
			changed = true
		}
	}
	return changed
}

// isInstrumented reports whether the module already imports the decoration
// entry point, which marks a tree that has been through Apply before.
func isInstrumented(mod *ast.Module) bool {
	for _, stmt := range mod.Statements {
		imp, ok := stmt.(*ast.FromImportStatement)
		if !ok || imp.Module != config.InstrumentModuleName {
			continue
		}
		for _, name := range imp.Names {
			if name.Value == config.InstrumentAttrName {
				return true
			}
		}
	}
	return false
}

// insertImport places the instrumentation import after the leading
// docstring and __future__ import block. When every statement is leading,
// the import lands at the end and borrows the module's own position.
func insertImport(mod *ast.Module) bool {
	idx := 0
	for idx < len(mod.Statements) && isLeading(mod.Statements[idx]) {
		idx++
	}
	var src ast.Node = mod
	if idx < len(mod.Statements) {
		src = mod.Statements[idx]
	}
	imp := newInstrumentImport(src)
	mod.Statements = append(mod.Statements, nil)
	copy(mod.Statements[idx+1:], mod.Statements[idx:])
	mod.Statements[idx] = imp
	return true
}

// isLeading reports whether stmt belongs to the prologue the injected
// import must not precede. The scan stops at the first statement that is
// neither, so a stray docstring later in the module does not count.
func isLeading(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		_, ok := s.Expression.(*ast.StringLiteral)
		return ok
	case *ast.FromImportStatement:
		return s.Module == config.FutureModuleName
	}
	return false
}

func rewriteStatement(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.FunctionStatement:
		return rewriteFunction(s)
	case *ast.ClassStatement:
		return rewriteBlock(s.Body)
	case *ast.IfStatement:
		changed := rewriteBlock(s.Consequence)
		if rewriteBlock(s.Alternative) {
			changed = true
		}
		return changed
	case *ast.BlockStatement:
		return rewriteBlock(s)
	}
	return false
}

func rewriteBlock(block *ast.BlockStatement) bool {
	if block == nil {
		return false
	}
	changed := false
	for _, stmt := range block.Statements {
		if rewriteStatement(stmt) {
			changed = true
		}
	}
	return changed
}

// rewriteFunction recurses into the body first, then decorates the
// function itself if any annotation makes it eligible. Nested definitions
// are judged independently of their enclosing function.
func rewriteFunction(fn *ast.FunctionStatement) bool {
	changed := rewriteBlock(fn.Body)
	if fn.IsAnnotated() && !hasInstrumentDecorator(fn) {
		fn.Decorators = append(fn.Decorators, newInstrumentRef(fn))
		changed = true
	}
	return changed
}

func hasInstrumentDecorator(fn *ast.FunctionStatement) bool {
	for _, deco := range fn.Decorators {
		if ident, ok := deco.(*ast.Identifier); ok && ident.Value == config.InstrumentAttrName {
			return true
		}
	}
	return false
}

// newInstrumentImport builds `from beartype import __beartype_object__`
// with positions copied from src.
func newInstrumentImport(src ast.Node) *ast.FromImportStatement {
	tok := token.Token{Type: token.FROM, Lexeme: "from"}
	if src != nil {
		sp := src.Span()
		tok.Line, tok.Column = sp.StartLine, sp.StartCol
	}
	name := &ast.Identifier{
		Token: token.Token{Type: token.IDENT, Lexeme: config.InstrumentAttrName, Line: tok.Line, Column: tok.Column},
		Value: config.InstrumentAttrName,
	}
	ast.CopySpan(name, src)
	imp := &ast.FromImportStatement{Token: tok, Module: config.InstrumentModuleName, Names: []*ast.Identifier{name}}
	ast.CopySpan(imp, src)
	return imp
}

// newInstrumentRef builds the decorator identifier appended to fn, with
// positions copied from the definition it instruments.
func newInstrumentRef(fn *ast.FunctionStatement) *ast.Identifier {
	tok := fn.GetToken()
	ref := &ast.Identifier{
		Token: token.Token{Type: token.IDENT, Lexeme: config.InstrumentAttrName, Line: tok.Line, Column: tok.Column},
		Value: config.InstrumentAttrName,
	}
	ast.CopySpan(ref, fn)
	return ref
}
