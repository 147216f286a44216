package analyzer

import (
	"github.com/funvibe/refactorls/internal/pipeline"
)

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Module == nil {
		return ctx
	}
	for _, err := range New(ctx.Content).Analyze(ctx.Module) {
		ctx.AddError(err)
	}
	return ctx
}
