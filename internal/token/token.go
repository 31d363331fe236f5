package token

// TokenType identifies the lexical class of a token.
type TokenType string

// Token is a single lexical unit with its source position.
// Lexeme is the exact source text; Literal is the decoded value
// (identical to Lexeme except for string literals, where Lexeme
// keeps the quotes and Literal holds the content).
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal string
	Line    int
	Column  int
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"
	NEWLINE = "NEWLINE"

	// Identifiers and literals
	IDENT  = "IDENT"
	INT    = "INT"
	FLOAT  = "FLOAT"
	STRING = "STRING"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	BANG     = "!"
	EQ       = "=="
	NOT_EQ   = "!="
	LT       = "<"
	GT       = ">"
	LTE      = "<="
	GTE      = ">="
	AND      = "&&"
	OR       = "||"
	ARROW    = "->"
	AT       = "@"

	// Delimiters
	COLON    = ":"
	COMMA    = ","
	DOT      = "."
	LPAREN   = "("
	RPAREN   = ")"
	LBRACE   = "{"
	RBRACE   = "}"
	LBRACKET = "["
	RBRACKET = "]"

	// Keywords
	FUN    = "FUN"
	CLASS  = "CLASS"
	RETURN = "RETURN"
	IMPORT = "IMPORT"
	FROM   = "FROM"
	AS     = "AS"
	VAR    = "VAR"
	IF     = "IF"
	ELSE   = "ELSE"
	TRUE   = "TRUE"
	FALSE  = "FALSE"
	NIL    = "NIL"
)

var keywords = map[string]TokenType{
	"fun":    FUN,
	"class":  CLASS,
	"return": RETURN,
	"import": IMPORT,
	"from":   FROM,
	"as":     AS,
	"var":    VAR,
	"if":     IF,
	"else":   ELSE,
	"true":   TRUE,
	"false":  FALSE,
	"nil":    NIL,
}

// LookupIdent returns the keyword type for ident, or IDENT if it is
// not a reserved word.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
