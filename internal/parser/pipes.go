package parser

import (
	"github.com/funvibe/refactorls/internal/ast"
)

// makeCapture wraps call as fn(_capture) { call } where the hole argument
// reads the single parameter.
func makeCapture(call *ast.Call, hole *ast.CallArg) ast.Expr {
	param := &ast.Param{Loc: hole.Value.Location(), Name: ast.CaptureVarName}
	return &ast.Fn{
		Loc:    call.Loc,
		Kind:   ast.FnCapture,
		Params: []*ast.Param{param},
		Body:   []ast.Statement{&ast.ExprStatement{Expr: call}},
	}
}

// parsePipe desugars left |> right. Steps are accumulated into one
// Pipeline: every step but the last becomes an assignment to the
// placeholder and each step reads the previous value through it.
func (p *Parser) parsePipe(left ast.Expr) ast.Expr {
	p.nextToken()
	right := p.parseExpression(PIPE)
	if right == nil {
		return nil
	}

	pl, ok := left.(*ast.Pipeline)
	if ok {
		pl.Assignments = append(pl.Assignments, &ast.PipeAssignment{Loc: pl.Finally.Location(), Value: pl.Finally})
	} else {
		pl = &ast.Pipeline{
			Assignments: []*ast.PipeAssignment{{Loc: left.Location(), Value: left}},
		}
	}
	pl.Finally = pipeStep(right)
	pl.Loc = ast.Span{Start: pl.Assignments[0].Loc.Start, End: right.Location().End}
	return pl
}

// pipeStep turns the right-hand side of |> into a call that receives the
// previous value:
//
//	x |> f(a)     => f(_pipe, a)
//	x |> f(a, _)  => f(a, _pipe)
//	x |> f        => f(_pipe)
func pipeStep(right ast.Expr) ast.Expr {
	at := right.Location().Start
	placeholder := func(loc ast.Span) *ast.CallArg {
		return &ast.CallArg{
			Loc:      loc,
			Value:    &ast.Var{Loc: loc, Name: ast.PipeVarName, Ref: ast.VarRef{Kind: ast.RefPipe}},
			Implicit: true,
		}
	}

	switch r := right.(type) {
	case *ast.Fn:
		if call, ok := r.CaptureCall(); ok {
			args := make([]*ast.CallArg, len(call.Args))
			for i, a := range call.Args {
				if v, ok := a.Value.(*ast.Var); ok && v.Name == ast.CaptureVarName {
					ph := placeholder(a.Loc)
					ph.Label = a.Label
					args[i] = ph
					continue
				}
				args[i] = a
			}
			return &ast.Call{Loc: call.Loc, Fun: call.Fun, Args: args}
		}
	case *ast.Call:
		args := append([]*ast.CallArg{placeholder(ast.Span{Start: at, End: at})}, r.Args...)
		return &ast.Call{Loc: r.Loc, Fun: r.Fun, Args: args}
	}
	return &ast.Call{
		Loc:  right.Location(),
		Fun:  right,
		Args: []*ast.CallArg{placeholder(ast.Span{Start: at, End: at})},
	}
}
