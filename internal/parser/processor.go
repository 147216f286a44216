package parser

import (
	"path/filepath"
	"strings"

	"github.com/funvibe/refactorls/internal/lexer"
	"github.com/funvibe/refactorls/internal/pipeline"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Tokens == nil {
		// Allow the parser to be used on its own.
		ctx.Tokens = lexer.New(ctx.Content).Tokens()
	}

	parser := New(ctx.Tokens, ctx)
	module := parser.ParseModule()
	module.File = ctx.FilePath
	module.Name = moduleName(ctx.FilePath)
	ctx.Module = module
	return ctx
}

func moduleName(path string) string {
	if path == "" {
		return "main"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
