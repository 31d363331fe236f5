// Package printer renders a syntax tree back to canonical source text.
// Literal lexemes are reused where the parser recorded them, so numeric
// spellings and docstring quoting survive a round trip; synthesized nodes
// fall back to formatted values.
package printer

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/jpetrucciani/beartype/internal/ast"
)

// Operator precedence, higher binds tighter. Operands at higher levels
// than their parent print without parentheses.
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3,
	"!=": 3,
	"<":  4,
	">":  4,
	"<=": 4,
	">=": 4,
	"+":  5,
	"-":  5,
	"*":  6,
	"/":  6,
	"%":  6,
}

// prefixPrec sits above every infix operator; maxPrec forces parentheses
// around any operator operand (call targets, member objects).
const (
	prefixPrec = 7
	maxPrec    = 8
)

func opPrecedence(op string) int {
	if p, ok := precedence[op]; ok {
		return p
	}
	return maxPrec
}

// Printer accumulates one module rendering. Use Print for the common case.
type Printer struct {
	buf    bytes.Buffer
	indent int
}

func New() *Printer {
	return &Printer{}
}

// Print renders mod as source text, one statement per line with blank
// lines before top-level function and class definitions.
func Print(mod *ast.Module) string {
	return New().Print(mod)
}

func (p *Printer) Print(mod *ast.Module) string {
	p.buf.Reset()
	p.indent = 0
	for i, stmt := range mod.Statements {
		if i > 0 && wantsGap(stmt) {
			p.buf.WriteByte('\n')
		}
		p.printStatement(stmt)
	}
	return p.buf.String()
}

// wantsGap reports whether a blank line should precede a top-level
// statement.
func wantsGap(stmt ast.Statement) bool {
	switch stmt.(type) {
	case *ast.FunctionStatement, *ast.ClassStatement:
		return true
	}
	return false
}

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteByte('\t')
	}
}

func (p *Printer) line(s string) {
	p.writeIndent()
	p.write(s)
	p.buf.WriteByte('\n')
}

func (p *Printer) printStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		p.writeIndent()
		p.printExpr(s.Expression, 0)
		p.buf.WriteByte('\n')

	case *ast.VarStatement:
		p.writeIndent()
		p.write("var " + s.Name.Value + " = ")
		p.printExpr(s.Value, 0)
		p.buf.WriteByte('\n')

	case *ast.ReturnStatement:
		p.writeIndent()
		p.write("return")
		if s.Value != nil {
			p.write(" ")
			p.printExpr(s.Value, 0)
		}
		p.buf.WriteByte('\n')

	case *ast.IfStatement:
		p.writeIndent()
		p.write("if ")
		p.printExpr(s.Condition, 0)
		p.write(" {\n")
		p.printBlock(s.Consequence)
		if s.Alternative != nil {
			p.line("} else {")
			p.printBlock(s.Alternative)
		}
		p.line("}")

	case *ast.BlockStatement:
		p.line("{")
		p.printBlock(s)
		p.line("}")

	case *ast.FunctionStatement:
		p.printFunction(s)

	case *ast.ClassStatement:
		p.printClass(s)

	case *ast.FromImportStatement:
		names := make([]string, len(s.Names))
		for i, n := range s.Names {
			names[i] = n.Value
		}
		p.line("from " + s.Module + " import " + strings.Join(names, ", "))

	case *ast.ImportStatement:
		if s.Alias != nil {
			p.line("import " + s.Module + " as " + s.Alias.Value)
		} else {
			p.line("import " + s.Module)
		}

	default:
		p.line("<?stmt?>")
	}
}

func (p *Printer) printBlock(block *ast.BlockStatement) {
	p.indent++
	for _, stmt := range block.Statements {
		p.printStatement(stmt)
	}
	p.indent--
}

func (p *Printer) printFunction(s *ast.FunctionStatement) {
	for _, dec := range s.Decorators {
		p.writeIndent()
		p.write("@")
		p.printExpr(dec, maxPrec)
		p.buf.WriteByte('\n')
	}
	p.writeIndent()
	p.write("fun " + s.Name.Value + "(")
	for i, param := range s.Parameters {
		if i > 0 {
			p.write(", ")
		}
		p.write(param.Name.Value)
		if param.Type != nil {
			p.write(": ")
			p.printExpr(param.Type, 0)
		}
		if param.Default != nil {
			p.write(" = ")
			p.printExpr(param.Default, 0)
		}
	}
	p.write(")")
	if s.ReturnType != nil {
		p.write(" -> ")
		p.printExpr(s.ReturnType, 0)
	}
	p.write(" {\n")
	p.printBlock(s.Body)
	p.line("}")
}

func (p *Printer) printClass(s *ast.ClassStatement) {
	p.writeIndent()
	p.write("class " + s.Name.Value)
	if len(s.Bases) > 0 {
		p.write("(")
		for i, base := range s.Bases {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(base, 0)
		}
		p.write(")")
	}
	p.write(" {\n")
	p.printBlock(s.Body)
	p.line("}")
}

func (p *Printer) printExpr(expr ast.Expression, parentPrec int) {
	switch e := expr.(type) {
	case *ast.Identifier:
		p.write(e.Value)

	case *ast.StringLiteral:
		if e.Token.Lexeme != "" {
			p.write(e.Token.Lexeme)
		} else {
			p.write(strconv.Quote(e.Value))
		}

	case *ast.IntegerLiteral:
		if e.Token.Lexeme != "" {
			p.write(e.Token.Lexeme)
		} else {
			p.write(strconv.FormatInt(e.Value, 10))
		}

	case *ast.FloatLiteral:
		if e.Token.Lexeme != "" {
			p.write(e.Token.Lexeme)
		} else {
			p.write(formatFloat(e.Value))
		}

	case *ast.BooleanLiteral:
		p.write(strconv.FormatBool(e.Value))

	case *ast.NilLiteral:
		p.write("nil")

	case *ast.TupleLiteral:
		p.write("(")
		for i, el := range e.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(el, 0)
		}
		if len(e.Elements) == 1 {
			p.write(",")
		}
		p.write(")")

	case *ast.ListLiteral:
		p.write("[")
		for i, el := range e.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(el, 0)
		}
		p.write("]")

	case *ast.MemberExpression:
		p.printExpr(e.Object, maxPrec)
		p.write("." + e.Property.Value)

	case *ast.CallExpression:
		p.printExpr(e.Function, maxPrec)
		p.write("(")
		for i, arg := range e.Arguments {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(arg, 0)
		}
		p.write(")")

	case *ast.PrefixExpression:
		if parentPrec > prefixPrec {
			p.write("(")
			p.write(e.Operator)
			p.printExpr(e.Right, prefixPrec)
			p.write(")")
		} else {
			p.write(e.Operator)
			p.printExpr(e.Right, prefixPrec)
		}

	case *ast.InfixExpression:
		prec := opPrecedence(e.Operator)
		if prec < parentPrec {
			p.write("(")
			p.printInfix(e, prec)
			p.write(")")
		} else {
			p.printInfix(e, prec)
		}

	default:
		p.write("<?expr?>")
	}
}

// printInfix prints the operands of a left-associative operator: the right
// operand needs parentheses at equal precedence, the left does not.
func (p *Printer) printInfix(e *ast.InfixExpression, prec int) {
	p.printExpr(e.Left, prec)
	p.write(" " + e.Operator + " ")
	p.printExpr(e.Right, prec+1)
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
