package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order. Stages run even after earlier ones
// reported errors so that the server can publish lexer, parser and
// resolution diagnostics together; a stage that cannot work with what it was
// given returns the context unchanged.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		if next := processor.Process(ctx); next != nil {
			ctx = next
		}
	}
	return ctx
}
