package pipeline

import (
	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/diagnostics"
	"github.com/funvibe/refactorls/internal/token"
)

// PipelineContext carries one document through the front-end stages. Each
// stage fills in its own field and appends to Errors.
type PipelineContext struct {
	FilePath string
	Content  string
	Tokens   []token.Token
	Module   *ast.Module
	Errors   []*diagnostics.DiagnosticError
}

// Processor is one stage of the front-end.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

func NewContext(filePath, content string) *PipelineContext {
	return &PipelineContext{FilePath: filePath, Content: content}
}

// AddError records a diagnostic, stamping it with the document path.
func (c *PipelineContext) AddError(err *diagnostics.DiagnosticError) {
	if err == nil {
		return
	}
	if err.File == "" {
		err.File = c.FilePath
	}
	c.Errors = append(c.Errors, err)
}

func (c *PipelineContext) HasErrors() bool {
	return len(c.Errors) > 0
}
