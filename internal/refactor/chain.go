package refactor

import (
	"github.com/funvibe/refactorls/internal/ast"
)

// Chain is a sequence of nested calls in source order: Chain[0] is the
// innermost call, whose first argument is the pipeline input, and the last
// element is the outermost call.
type Chain []*ast.Call

// DetectChain collects the calls nested through first arguments, starting
// at call and moving inward. A call without arguments ends the chain and is
// not part of it. A call whose first argument is the pipe placeholder is
// already a pipeline step and ends the chain too, as does a labelled first
// argument, which a pipe could not fill.
func DetectChain(call *ast.Call) Chain {
	var calls []*ast.Call
	for depth := 0; call != nil && depth < ast.MaxTraversalDepth; depth++ {
		if len(call.Args) == 0 {
			break
		}
		first := call.Args[0]
		if ast.IsPipePlaceholder(first.Value) || first.Label != "" {
			break
		}
		calls = append(calls, call)
		call, _ = first.Value.(*ast.Call)
	}

	chain := make(Chain, len(calls))
	for i, c := range calls {
		chain[len(calls)-1-i] = c
	}
	return chain
}

// Eligible reports whether the chain is long enough to be worth a pipeline.
func (c Chain) Eligible() bool { return len(c) >= 2 }

// Root is the innermost call.
func (c Chain) Root() *ast.Call {
	if len(c) == 0 {
		return nil
	}
	return c[0]
}

// Outer is the outermost call; its span is replaced by the rewrite.
func (c Chain) Outer() *ast.Call {
	if len(c) == 0 {
		return nil
	}
	return c[len(c)-1]
}
