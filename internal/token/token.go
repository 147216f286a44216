package token

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers and literals
	IDENT   TokenType = "IDENT"   // lower_case names
	UPNAME  TokenType = "UPNAME"  // Capitalised names: constructors and types
	DISCARD TokenType = "DISCARD" // _ or _name
	INT     TokenType = "INT"
	FLOAT   TokenType = "FLOAT"
	STRING  TokenType = "STRING"

	// Operators
	ASSIGN   TokenType = "="
	EQ       TokenType = "=="
	NOT_EQ   TokenType = "!="
	LT       TokenType = "<"
	GT       TokenType = ">"
	LTE      TokenType = "<="
	GTE      TokenType = ">="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"
	AND      TokenType = "&&"
	OR       TokenType = "||"
	CONCAT   TokenType = "<>"
	PIPE_GT  TokenType = "|>"
	ARROW    TokenType = "->"
	L_ARROW  TokenType = "<-"
	BANG     TokenType = "!"

	// Delimiters
	DOT         TokenType = "."
	DOT_DOT     TokenType = ".."
	COMMA       TokenType = ","
	COLON       TokenType = ":"
	LPAREN      TokenType = "("
	RPAREN      TokenType = ")"
	LBRACE      TokenType = "{"
	RBRACE      TokenType = "}"
	LBRACKET    TokenType = "["
	RBRACKET    TokenType = "]"
	HASH_LPAREN TokenType = "#("

	// Keywords
	IMPORT TokenType = "IMPORT"
	PUB    TokenType = "PUB"
	FN     TokenType = "FN"
	LET    TokenType = "LET"
	USE    TokenType = "USE"
	TODO   TokenType = "TODO"
	AS     TokenType = "AS"
)

// Token is a lexeme together with its byte range and 1-based line/column.
// Offset and End are UTF-8 byte offsets into the source, End exclusive.
type Token struct {
	Type   TokenType
	Lexeme string
	Offset int
	End    int
	Line   int
	Column int
}

var keywords = map[string]TokenType{
	"import": IMPORT,
	"pub":    PUB,
	"fn":     FN,
	"let":    LET,
	"use":    USE,
	"todo":   TODO,
	"as":     AS,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether name is reserved.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}
