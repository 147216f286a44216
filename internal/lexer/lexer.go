package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/refactorls/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// Tokens scans the whole input. The returned slice always ends with EOF.
func (l *Lexer) Tokens() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	start, line, col := l.position, l.line, l.column
	if l.position >= len(l.input) {
		return token.Token{Type: token.EOF, Offset: len(l.input), End: len(l.input), Line: line, Column: col}
	}

	// two-character operators first
	var typ token.TokenType
	switch l.ch {
	case '=':
		typ = l.either('=', token.EQ, token.ASSIGN)
	case '!':
		typ = l.either('=', token.NOT_EQ, token.BANG)
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			typ = token.LTE
		case '>':
			l.readChar()
			typ = token.CONCAT
		case '-':
			l.readChar()
			typ = token.L_ARROW
		default:
			typ = token.LT
		}
	case '>':
		typ = l.either('=', token.GTE, token.GT)
	case '-':
		typ = l.either('>', token.ARROW, token.MINUS)
	case '|':
		switch l.peekChar() {
		case '>':
			l.readChar()
			typ = token.PIPE_GT
		case '|':
			l.readChar()
			typ = token.OR
		default:
			typ = token.ILLEGAL
		}
	case '&':
		typ = l.either('&', token.AND, token.ILLEGAL)
	case '.':
		typ = l.either('.', token.DOT_DOT, token.DOT)
	case '#':
		typ = l.either('(', token.HASH_LPAREN, token.ILLEGAL)
	case '+':
		typ = token.PLUS
	case '*':
		typ = token.ASTERISK
	case '/':
		typ = token.SLASH
	case '%':
		typ = token.PERCENT
	case ',':
		typ = token.COMMA
	case ':':
		typ = token.COLON
	case '(':
		typ = token.LPAREN
	case ')':
		typ = token.RPAREN
	case '{':
		typ = token.LBRACE
	case '}':
		typ = token.RBRACE
	case '[':
		typ = token.LBRACKET
	case ']':
		typ = token.RBRACKET
	case '"':
		return l.readString(start, line, col)
	default:
		switch {
		case isDigit(l.ch):
			return l.readNumber(start, line, col)
		case l.ch == '_' || isLetter(l.ch):
			return l.readIdentifier(start, line, col)
		default:
			typ = token.ILLEGAL
		}
	}

	l.readChar()
	return l.makeToken(typ, start, line, col)
}

// either consumes the next char and returns match if it equals next,
// otherwise returns otherwise without consuming.
func (l *Lexer) either(next rune, match, otherwise token.TokenType) token.TokenType {
	if l.peekChar() == next {
		l.readChar()
		return match
	}
	return otherwise
}

func (l *Lexer) makeToken(typ token.TokenType, start, line, col int) token.Token {
	end := l.position
	if end > len(l.input) {
		end = len(l.input)
	}
	return token.Token{
		Type:   typ,
		Lexeme: l.input[start:end],
		Offset: start,
		End:    end,
		Line:   line,
		Column: col,
	}
}

// readString keeps escapes verbatim: the lexeme is the exact source text,
// quotes included, so the printer can reproduce it byte for byte.
func (l *Lexer) readString(start, line, col int) token.Token {
	l.readChar() // opening quote
	for {
		if l.position >= len(l.input) {
			return l.makeToken(token.ILLEGAL, start, line, col)
		}
		if l.ch == '\\' {
			l.readChar()
			if l.position < len(l.input) {
				l.readChar()
			}
			continue
		}
		if l.ch == '"' {
			l.readChar()
			return l.makeToken(token.STRING, start, line, col)
		}
		l.readChar()
	}
}

func (l *Lexer) readNumber(start, line, col int) token.Token {
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return l.makeToken(token.FLOAT, start, line, col)
	}
	return l.makeToken(token.INT, start, line, col)
}

func (l *Lexer) readIdentifier(start, line, col int) token.Token {
	first := l.ch
	for l.ch == '_' || isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	tok := l.makeToken(token.IDENT, start, line, col)
	switch {
	case first == '_':
		tok.Type = token.DISCARD
	case unicode.IsUpper(first):
		tok.Type = token.UPNAME
	default:
		tok.Type = token.LookupIdent(tok.Lexeme)
	}
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.position < len(l.input) {
				l.readChar()
			}
		default:
			return
		}
	}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
