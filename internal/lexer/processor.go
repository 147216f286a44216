package lexer

import (
	"github.com/funvibe/refactorls/internal/diagnostics"
	"github.com/funvibe/refactorls/internal/pipeline"
	"github.com/funvibe/refactorls/internal/token"
)

// LexerProcessor tokenizes ctx.Content into ctx.Tokens.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.Tokens = New(ctx.Content).Tokens()
	for _, tok := range ctx.Tokens {
		if tok.Type != token.ILLEGAL {
			continue
		}
		msg := "unexpected character " + tok.Lexeme
		if len(tok.Lexeme) > 0 && tok.Lexeme[0] == '"' {
			msg = "unterminated string literal"
		}
		ctx.AddError(diagnostics.NewError(diagnostics.ErrL001, tok, msg))
	}
	return ctx
}
