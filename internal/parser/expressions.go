package parser

import (
	"strconv"

	"github.com/jpetrucciani/beartype/internal/ast"
	"github.com/jpetrucciani/beartype/internal/token"
)

// Operator precedence, lowest to highest.
const (
	_ int = iota
	LOWEST
	LOGICOR     // ||
	LOGICAND    // &&
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x
	CALL        // f(x) x.y
)

var precedences = map[token.TokenType]int{
	token.OR:       LOGICOR,
	token.AND:      LOGICAND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GTE:      LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   CALL,
	token.DOT:      CALL,
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(p.curToken, "unexpected %s (%q) in expression", p.curToken.Type, p.curToken.Lexeme)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}
	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return p.identifierNode()
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}
	value, err := strconv.ParseInt(p.curToken.Lexeme, 10, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as integer", p.curToken.Lexeme)
		return nil
	}
	lit.Value = value
	lit.SetSpan(ast.SpanTokens(p.curToken, p.curToken))
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLiteral{Token: p.curToken}
	value, err := strconv.ParseFloat(p.curToken.Lexeme, 64)
	if err != nil {
		p.errorf(p.curToken, "could not parse %q as float", p.curToken.Lexeme)
		return nil
	}
	lit.Value = value
	lit.SetSpan(ast.SpanTokens(p.curToken, p.curToken))
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	lit := &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	lit.SetSpan(ast.SpanTokens(p.curToken, p.curToken))
	return lit
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	lit := &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
	lit.SetSpan(ast.SpanTokens(p.curToken, p.curToken))
	return lit
}

func (p *Parser) parseNilLiteral() ast.Expression {
	lit := &ast.NilLiteral{Token: p.curToken}
	lit.SetSpan(ast.SpanTokens(p.curToken, p.curToken))
	return lit
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Lexeme}

	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	if expr.Right == nil {
		return nil
	}
	expr.SetSpan(ast.SpanTokens(expr.Token, p.curToken))
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{Token: p.curToken, Left: left, Operator: p.curToken.Lexeme}

	precedence := precedences[p.curToken.Type]
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	expr.SetSpan(extendSpan(left.Span(), p.curToken))
	return expr
}

// parseGroupedOrTuple handles '(': a grouped expression, or a tuple
// literal when elements are comma-separated (including the one-element
// form with a trailing comma, and the empty tuple).
func (p *Parser) parseGroupedOrTuple() ast.Expression {
	tok := p.curToken

	p.skipPeekNewlines()
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		tuple := &ast.TupleLiteral{Token: tok}
		tuple.SetSpan(ast.SpanTokens(tok, p.curToken))
		return tuple
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}

	p.skipPeekNewlines()
	if !p.peekTokenIs(token.COMMA) {
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return first
	}

	tuple := &ast.TupleLiteral{Token: tok, Elements: []ast.Expression{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.skipPeekNewlines()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
		p.nextToken()
		elem := p.parseExpression(LOWEST)
		if elem == nil {
			return nil
		}
		tuple.Elements = append(tuple.Elements, elem)
	}
	p.skipPeekNewlines()
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	tuple.SetSpan(ast.SpanTokens(tok, p.curToken))
	return tuple
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}
	tok := p.curToken

	list.Elements = p.parseExpressionList(token.RBRACKET)
	if list.Elements == nil {
		return nil
	}
	list.SetSpan(ast.SpanTokens(tok, p.curToken))
	return list
}

// parseExpressionList parses a comma-separated expression sequence up
// to the closing end token. curToken is the opening delimiter on entry
// and the end token on success. Returns nil after a parse error.
func (p *Parser) parseExpressionList(end token.TokenType) []ast.Expression {
	list := []ast.Expression{}

	p.skipPeekNewlines()
	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	list = append(list, first)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.skipPeekNewlines()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
		elem := p.parseExpression(LOWEST)
		if elem == nil {
			return nil
		}
		list = append(list, elem)
	}

	p.skipPeekNewlines()
	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Function: function}

	call.Arguments = p.parseExpressionList(token.RPAREN)
	if call.Arguments == nil {
		return nil
	}
	call.SetSpan(extendSpan(function.Span(), p.curToken))
	return call
}

func (p *Parser) parseMemberExpression(object ast.Expression) ast.Expression {
	member := &ast.MemberExpression{Token: p.curToken, Object: object}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	member.Property = p.identifierNode()
	member.SetSpan(extendSpan(object.Span(), p.curToken))
	return member
}

func extendSpan(start ast.Span, last token.Token) ast.Span {
	return ast.Span{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   last.Line,
		EndCol:    last.Column + len(last.Lexeme),
	}
}
