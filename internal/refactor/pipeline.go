package refactor

import (
	"fmt"
	"strings"

	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/edit"
	"github.com/funvibe/refactorls/internal/lines"
	"github.com/funvibe/refactorls/internal/prettyprinter"
)

// PipelinePlan is the pipeline form of a call chain before rendering.
type PipelinePlan struct {
	// Input is the first argument of the root call, or nil when the root
	// call takes no arguments and is itself rendered as the input.
	Input ast.Expr
	// Anchor is the span of the outermost call.
	Anchor ast.Span
	// Calls are the pipeline steps in order.
	Calls []*ast.Call
}

// PlanPipeline prepares the rewrite of chain.
func PlanPipeline(chain Chain) (*PipelinePlan, error) {
	if !chain.Eligible() {
		return nil, ErrChainTooShort
	}
	plan := &PipelinePlan{Anchor: chain.Outer().Loc, Calls: chain}
	if root := chain.Root(); len(root.Args) > 0 {
		plan.Input = root.Args[0].Value
	}
	return plan, nil
}

// RenderPipeline renders plan as a single replacement of its anchor:
//
//	input
//	|> f(b)
//	|> g()
//
// Each step line is indented to the column where the anchor starts.
func RenderPipeline(plan *PipelinePlan, idx *lines.Index) (edit.Edit, error) {
	indent, err := idx.Column(plan.Anchor.Start)
	if err != nil {
		return edit.Edit{}, err
	}

	var input string
	var ok bool
	steps := plan.Calls
	if plan.Input != nil {
		input, ok = prettyprinter.RenderOperand(plan.Input, prettyprinter.PipePrecedence, false)
	} else if len(steps) > 0 {
		input, ok = prettyprinter.RenderCall(steps[0], 0)
		steps = steps[1:]
	}
	if !ok {
		return edit.Edit{}, fmt.Errorf("%w: pipeline input", ErrUnrenderable)
	}

	var b strings.Builder
	b.WriteString(input)
	pad := strings.Repeat(" ", indent)
	for _, call := range steps {
		step, ok := prettyprinter.RenderCall(call, 1)
		if !ok {
			return edit.Edit{}, fmt.Errorf("%w: call at %d", ErrUnrenderable, call.Loc.Start)
		}
		b.WriteString("\n")
		b.WriteString(pad)
		b.WriteString("|> ")
		b.WriteString(step)
	}
	return edit.Replace(plan.Anchor, b.String()), nil
}

// RewritePipeline routes a cursor path to the pipeline rewrite: the first
// call on the path, outermost first, that heads an eligible chain is
// rewritten. A let whose value is such a call counts as that call.
func RewritePipeline(path []ast.Node, idx *lines.Index) (edit.Edit, error) {
	for _, n := range path {
		var call *ast.Call
		switch n := n.(type) {
		case *ast.Call:
			call = n
		case *ast.Assignment:
			call, _ = n.Value.(*ast.Call)
		}
		if call == nil {
			continue
		}
		chain := DetectChain(call)
		if !chain.Eligible() {
			continue
		}
		plan, err := PlanPipeline(chain)
		if err != nil {
			return edit.Edit{}, err
		}
		return RenderPipeline(plan, idx)
	}
	return edit.Edit{}, ErrChainTooShort
}
