package ast

import (
	"github.com/jpetrucciani/beartype/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Span() Span
	SetSpan(Span)
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Module is the root node of every parsed source file.
type Module struct {
	spanned
	File       string // source file path
	Statements []Statement
}

func (m *Module) TokenLiteral() string {
	if len(m.Statements) > 0 {
		return m.Statements[0].TokenLiteral()
	}
	return ""
}

// Docstring returns the module documentation string, or "" when the
// module does not open with a string-literal expression statement.
func (m *Module) Docstring() string {
	if len(m.Statements) == 0 {
		return ""
	}
	if lit := DocstringOf(m.Statements[0]); lit != nil {
		return lit.Value
	}
	return ""
}

// DocstringOf returns the string literal of a documentation-string
// statement, or nil when stmt is not one.
func DocstringOf(stmt Statement) *StringLiteral {
	es, ok := stmt.(*ExpressionStatement)
	if !ok {
		return nil
	}
	lit, ok := es.Expression.(*StringLiteral)
	if !ok {
		return nil
	}
	return lit
}

// ExpressionStatement is an expression in statement position.
type ExpressionStatement struct {
	spanned
	Token      token.Token // first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}

// FromImportStatement binds names exported by another module.
// from pkg.mod import Alpha, beta
type FromImportStatement struct {
	spanned
	Token  token.Token // the 'from' token
	Module string      // dotted module path
	Names  []*Identifier
}

func (fi *FromImportStatement) statementNode()       {}
func (fi *FromImportStatement) TokenLiteral() string { return fi.Token.Lexeme }
func (fi *FromImportStatement) GetToken() token.Token {
	if fi == nil {
		return token.Token{}
	}
	return fi.Token
}

// ImportStatement binds a whole module, optionally under an alias.
// import pkg.mod as m
type ImportStatement struct {
	spanned
	Token  token.Token // the 'import' token
	Module string      // dotted module path
	Alias  *Identifier // optional
}

func (is *ImportStatement) statementNode()       {}
func (is *ImportStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *ImportStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

// Parameter is a single function parameter. Type and Default are optional.
type Parameter struct {
	spanned
	Token   token.Token // the parameter name token
	Name    *Identifier
	Type    Expression // annotation expression, nil when unannotated
	Default Expression // nil when required
}

func (p *Parameter) GetToken() token.Token {
	if p == nil {
		return token.Token{}
	}
	return p.Token
}

// FunctionStatement is a named function definition.
// @memo fun area(w: Int, h: Int) -> Int { ... }
type FunctionStatement struct {
	spanned
	Token      token.Token // the 'fun' token
	Name       *Identifier
	Parameters []*Parameter
	ReturnType Expression   // annotation expression, nil when unannotated
	Decorators []Expression // outermost first; applied last to first
	Body       *BlockStatement
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Lexeme }
func (fs *FunctionStatement) GetToken() token.Token {
	if fs == nil {
		return token.Token{}
	}
	return fs.Token
}

// IsAnnotated reports whether the definition carries any type annotation.
// The return annotation is checked first; most annotated functions have one,
// so this stays O(1) for them.
func (fs *FunctionStatement) IsAnnotated() bool {
	if fs.ReturnType != nil {
		return true
	}
	for _, param := range fs.Parameters {
		if param.Type != nil {
			return true
		}
	}
	return false
}

// ClassStatement is a class definition with optional base classes.
// class Daemonette(Daemon) { ... }
type ClassStatement struct {
	spanned
	Token token.Token // the 'class' token
	Name  *Identifier
	Bases []Expression
	Body  *BlockStatement
}

func (cs *ClassStatement) statementNode()       {}
func (cs *ClassStatement) TokenLiteral() string { return cs.Token.Lexeme }
func (cs *ClassStatement) GetToken() token.Token {
	if cs == nil {
		return token.Token{}
	}
	return cs.Token
}

// ReturnStatement returns an optional value from a function body.
type ReturnStatement struct {
	spanned
	Token token.Token // the 'return' token
	Value Expression  // nil for bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token {
	if rs == nil {
		return token.Token{}
	}
	return rs.Token
}

// VarStatement binds a name in the current environment.
// var total = 0
type VarStatement struct {
	spanned
	Token token.Token // the 'var' token
	Name  *Identifier
	Value Expression
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Token.Lexeme }
func (vs *VarStatement) GetToken() token.Token {
	if vs == nil {
		return token.Token{}
	}
	return vs.Token
}

// IfStatement is a conditional with an optional else block.
type IfStatement struct {
	spanned
	Token       token.Token // the 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // nil when there is no else
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

// BlockStatement is a brace-delimited statement sequence.
type BlockStatement struct {
	spanned
	Token      token.Token // the '{' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token {
	if bs == nil {
		return token.Token{}
	}
	return bs.Token
}
