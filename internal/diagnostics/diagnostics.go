package diagnostics

import (
	"fmt"

	"github.com/funvibe/refactorls/internal/token"
)

type ErrorCode string

const (
	// Lexer
	ErrL001 ErrorCode = "L001" // illegal character or unterminated string

	// Parser
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // no prefix parse function
	ErrP003 ErrorCode = "P003" // invalid pattern
	ErrP004 ErrorCode = "P004" // invalid top-level declaration
	ErrP005 ErrorCode = "P005" // expression too complex

	// Analyzer
	ErrA001 ErrorCode = "A001" // unknown variable
	ErrA002 ErrorCode = "A002" // unknown module
	ErrA003 ErrorCode = "A003" // duplicate function
)

// DiagnosticError is a located problem reported by one of the front-end
// stages. Token carries both the 1-based line/column and the byte range.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
	File    string
}

func NewError(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: message}
}

func (e *DiagnosticError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s [%s]", e.File, e.Token.Line, e.Token.Column, e.Message, e.Code)
	}
	return fmt.Sprintf("%d:%d: %s [%s]", e.Token.Line, e.Token.Column, e.Message, e.Code)
}

// At builds a synthetic token covering content[start:end] so that later
// stages, which only keep byte spans, can report located diagnostics.
func At(content string, start, end int) token.Token {
	if start < 0 {
		start = 0
	}
	if start > len(content) {
		start = len(content)
	}
	if end < start {
		end = start
	}
	if end > len(content) {
		end = len(content)
	}
	line, col := 1, 1
	for _, r := range content[:start] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return token.Token{
		Type:   token.IDENT,
		Lexeme: content[start:end],
		Offset: start,
		End:    end,
		Line:   line,
		Column: col,
	}
}
