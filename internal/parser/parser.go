package parser

import (
	"fmt"

	"github.com/jpetrucciani/beartype/internal/ast"
	"github.com/jpetrucciani/beartype/internal/lexer"
	"github.com/jpetrucciani/beartype/internal/token"
)

// Error is a parse error anchored to the token that triggered it.
type Error struct {
	Token   token.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Token.Line, e.Token.Column, e.Message)
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l      *lexer.Lexer
	errors []*Error

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.NIL, p.parseNilLiteral)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedOrTuple)
	p.registerPrefix(token.LBRACKET, p.parseListLiteral)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	for _, tt := range []token.TokenType{
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.LT, token.GT, token.LTE, token.GTE,
		token.AND, token.OR,
	} {
		p.registerInfix(tt, p.parseInfixExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)

	// Read two tokens so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// Errors returns every parse error collected so far.
func (p *Parser) Errors() []*Error { return p.errors }

func (p *Parser) errorf(tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, &Error{Token: tok, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(p.peekToken, "expected %s, got %s (%q)", t, p.peekToken.Type, p.peekToken.Lexeme)
	return false
}

// skipPeekNewlines drops newline tokens in the lookahead. Used inside
// bracketed constructs, where line breaks are not significant.
func (p *Parser) skipPeekNewlines() {
	for p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

// ParseModule consumes the whole token stream and returns the module root.
// Parse errors are collected on the parser rather than aborting, so a
// caller gets the best-effort tree plus Errors().
func (p *Parser) ParseModule() *ast.Module {
	mod := &ast.Module{}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			mod.Statements = append(mod.Statements, stmt)
		}
		p.nextToken()
	}

	if len(mod.Statements) > 0 {
		first := mod.Statements[0].Span()
		last := mod.Statements[len(mod.Statements)-1].Span()
		mod.SetSpan(ast.Span{
			StartLine: first.StartLine,
			StartCol:  first.StartCol,
			EndLine:   last.EndLine,
			EndCol:    last.EndCol,
		})
	}
	return mod
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.FROM:
		return p.parseFromImportStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.AT:
		return p.parseDecoratedFunction()
	case token.FUN:
		return p.parseFunctionStatement()
	case token.CLASS:
		return p.parseClassStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.VAR:
		return p.parseVarStatement()
	case token.IF:
		return p.parseIfStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseDottedName reads IDENT ("." IDENT)* starting at curToken and
// returns the joined path. curToken ends on the last segment.
func (p *Parser) parseDottedName() string {
	name := p.curToken.Lexeme
	for p.peekTokenIs(token.DOT) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return name
		}
		name += "." + p.curToken.Lexeme
	}
	return name
}

func (p *Parser) parseFromImportStatement() ast.Statement {
	stmt := &ast.FromImportStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Module = p.parseDottedName()

	if !p.expectPeek(token.IMPORT) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Names = append(stmt.Names, p.identifierNode())

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.skipPeekNewlines()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.Names = append(stmt.Names, p.identifierNode())
	}

	stmt.SetSpan(ast.SpanTokens(stmt.Token, p.curToken))
	return stmt
}

func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Module = p.parseDottedName()

	if p.peekTokenIs(token.AS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.Alias = p.identifierNode()
	}

	stmt.SetSpan(ast.SpanTokens(stmt.Token, p.curToken))
	return stmt
}

func (p *Parser) parseDecoratedFunction() ast.Statement {
	var decorators []ast.Expression

	for p.curTokenIs(token.AT) {
		p.nextToken()
		dec := p.parseExpression(LOWEST)
		if dec == nil {
			return nil
		}
		decorators = append(decorators, dec)
		p.nextToken()
		for p.curTokenIs(token.NEWLINE) {
			p.nextToken()
		}
	}

	if !p.curTokenIs(token.FUN) {
		p.errorf(p.curToken, "expected function definition after decorator, got %q", p.curToken.Lexeme)
		return nil
	}

	stmt := p.parseFunctionStatement()
	if stmt == nil {
		return nil
	}
	fn := stmt.(*ast.FunctionStatement)
	fn.Decorators = decorators
	return fn
}

func (p *Parser) parseFunctionStatement() ast.Statement {
	stmt := &ast.FunctionStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.identifierNode()

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	stmt.Parameters = p.parseParameters()
	if stmt.Parameters == nil {
		return nil
	}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		p.nextToken()
		stmt.ReturnType = p.parseExpression(LOWEST)
		if stmt.ReturnType == nil {
			return nil
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	stmt.SetSpan(ast.SpanTokens(stmt.Token, p.curToken))
	return stmt
}

// parseParameters parses the parenthesized parameter list. curToken is
// LPAREN on entry and RPAREN on success. Returns a non-nil (possibly
// empty) slice, or nil after a parse error.
func (p *Parser) parseParameters() []*ast.Parameter {
	params := []*ast.Parameter{}

	p.skipPeekNewlines()
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}

	for {
		p.skipPeekNewlines()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		param := &ast.Parameter{Token: p.curToken, Name: p.identifierNode()}

		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseExpression(LOWEST)
			if param.Type == nil {
				return nil
			}
		}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(LOWEST)
			if param.Default == nil {
				return nil
			}
		}
		param.SetSpan(ast.SpanTokens(param.Token, p.curToken))
		params = append(params, param)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		p.skipPeekNewlines()
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return params
	}
}

func (p *Parser) parseClassStatement() ast.Statement {
	stmt := &ast.ClassStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.identifierNode()

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		stmt.Bases = p.parseExpressionList(token.RPAREN)
		if stmt.Bases == nil {
			return nil
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	stmt.SetSpan(ast.SpanTokens(stmt.Token, p.curToken))
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.peekTokenIs(token.NEWLINE) || p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		stmt.SetSpan(ast.SpanTokens(stmt.Token, p.curToken))
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	stmt.SetSpan(ast.SpanTokens(stmt.Token, p.curToken))
	return stmt
}

func (p *Parser) parseVarStatement() ast.Statement {
	stmt := &ast.VarStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = p.identifierNode()

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	stmt.SetSpan(ast.SpanTokens(stmt.Token, p.curToken))
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			nested := p.parseIfStatement()
			if nested == nil {
				return nil
			}
			stmt.Alternative = &ast.BlockStatement{
				Token:      nested.GetToken(),
				Statements: []ast.Statement{nested},
			}
			ast.CopySpan(stmt.Alternative, nested)
		} else {
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			stmt.Alternative = p.parseBlockStatement()
		}
	}

	stmt.SetSpan(ast.SpanTokens(stmt.Token, p.curToken))
	return stmt
}

// parseBlockStatement parses a brace-delimited statement sequence.
// curToken is LBRACE on entry and RBRACE on exit.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.errorf(block.Token, "unterminated block")
			break
		}
		if p.curTokenIs(token.NEWLINE) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	block.SetSpan(ast.SpanTokens(block.Token, p.curToken))
	return block
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	stmt.SetSpan(ast.SpanTokens(stmt.Token, p.curToken))
	return stmt
}

// identifierNode builds an Identifier from curToken.
func (p *Parser) identifierNode() *ast.Identifier {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Lexeme}
	ident.SetSpan(ast.SpanTokens(p.curToken, p.curToken))
	return ident
}
