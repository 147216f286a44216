package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/diagnostics"
	"github.com/funvibe/refactorls/internal/lexer"
	"github.com/funvibe/refactorls/internal/parser"
	"github.com/funvibe/refactorls/internal/pipeline"
)

func parse(t *testing.T, src string) *pipeline.PipelineContext {
	t.Helper()
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(pipeline.NewContext("t.lang", src))
	require.NotNil(t, ctx.Module)
	return ctx
}

func codes(ctx *pipeline.PipelineContext) []diagnostics.ErrorCode {
	var out []diagnostics.ErrorCode
	for _, e := range ctx.Errors {
		out = append(out, e.Code)
	}
	return out
}

// bodyExpr parses src as the single statement of main.
func bodyExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	ctx := parse(t, "fn main() {\n  "+src+"\n}\n")
	require.Empty(t, ctx.Errors)
	body := ctx.Module.Functions[0].Body
	require.Len(t, body, 1)
	stmt, ok := body[0].(*ast.ExprStatement)
	require.True(t, ok, "got %T", body[0])
	return stmt.Expr
}

func TestParseModule(t *testing.T) {
	src := `import gleam/list
import gleam/string as s

pub fn main(xs: List(Int)) -> Int {
  let n = 1
  n
}

fn helper(by step, _unused) {
  step
}
`
	ctx := parse(t, src)
	require.Empty(t, ctx.Errors)
	mod := ctx.Module

	require.Len(t, mod.Imports, 2)
	assert.Equal(t, "gleam/list", mod.Imports[0].Path)
	assert.Equal(t, "list", mod.Imports[0].Alias)
	assert.Equal(t, "s", mod.Imports[1].Alias)
	assert.Same(t, mod.Imports[1], mod.Import("s"))

	require.Len(t, mod.Functions, 2)
	main := mod.Function("main")
	require.NotNil(t, main)
	assert.True(t, main.Public)
	require.Len(t, main.Params, 1)
	assert.Equal(t, "xs", main.Params[0].Name)
	assert.IsType(t, &ast.NamedAnn{}, main.Params[0].Annotation)
	assert.NotNil(t, main.ReturnAnnotation)
	require.Len(t, main.Body, 2)
	assign, ok := main.Body[0].(*ast.Assignment)
	require.True(t, ok)
	assert.Equal(t, "let n = 1", src[assign.Loc.Start:assign.Loc.End])
	assert.Equal(t, "main", src[main.NameLoc.Start:main.NameLoc.End])

	helper := mod.Function("helper")
	require.NotNil(t, helper)
	assert.False(t, helper.Public)
	assert.Equal(t, "by", helper.Params[0].Label)
	assert.Equal(t, "step", helper.Params[0].Name)
	assert.Equal(t, "_unused", helper.Params[1].Name)
}

func TestParsePrecedence(t *testing.T) {
	e := bodyExpr(t, "1 + 2 * 3 == 7 || ok")
	or, ok := e.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "||", or.Op)
	eq := or.Left.(*ast.BinOp)
	assert.Equal(t, "==", eq.Op)
	sum := eq.Left.(*ast.BinOp)
	assert.Equal(t, "+", sum.Op)
	assert.Equal(t, "*", sum.Right.(*ast.BinOp).Op)

	sub := bodyExpr(t, "a - b - c").(*ast.BinOp)
	assert.IsType(t, &ast.BinOp{}, sub.Left, "left associative")

	neg := bodyExpr(t, "-f(x)").(*ast.Negate)
	assert.Equal(t, "-", neg.Op)
	assert.IsType(t, &ast.Call{}, neg.Value)
}

func TestParsePipeline(t *testing.T) {
	src := "xs |> list.map(f) |> g"
	e := bodyExpr(t, src)
	pl, ok := e.(*ast.Pipeline)
	require.True(t, ok)
	require.Len(t, pl.Assignments, 2)
	assert.IsType(t, &ast.Var{}, pl.Assignments[0].Value)

	first := pl.Assignments[1].Value.(*ast.Call)
	require.Len(t, first.Args, 2)
	assert.True(t, first.Args[0].Implicit)
	placeholder := first.Args[0].Value.(*ast.Var)
	assert.Equal(t, ast.PipeVarName, placeholder.Name)
	assert.Equal(t, ast.RefPipe, placeholder.Ref.Kind)
	assert.False(t, first.Args[1].Implicit)

	bare := pl.Finally.(*ast.Call)
	assert.True(t, bare.Bare())
	assert.Equal(t, bare.Fun.Location(), bare.Loc)

	offset := len("fn main() {\n  ")
	assert.Equal(t, ast.Span{Start: offset, End: offset + len(src)}, pl.Loc)
	assert.Len(t, pl.Steps(), 3)
}

func TestParsePipeIntoCapture(t *testing.T) {
	pl := bodyExpr(t, "xs |> f(1, by: _)").(*ast.Pipeline)
	call := pl.Finally.(*ast.Call)
	require.Len(t, call.Args, 2)
	assert.False(t, call.Args[0].Implicit)
	assert.True(t, call.Args[1].Implicit)
	assert.Equal(t, "by", call.Args[1].Label)
}

func TestParseCapture(t *testing.T) {
	fn, ok := bodyExpr(t, "f(_, 1)").(*ast.Fn)
	require.True(t, ok)
	assert.Equal(t, ast.FnCapture, fn.Kind)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, ast.CaptureVarName, fn.Params[0].Name)
	call, ok := fn.CaptureCall()
	require.True(t, ok)
	assert.Len(t, call.Args, 2)
}

func TestParseLiterals(t *testing.T) {
	list := bodyExpr(t, "[1, 2.5, ..rest]").(*ast.List)
	require.Len(t, list.Elements, 2)
	assert.IsType(t, &ast.Int{}, list.Elements[0])
	assert.IsType(t, &ast.Float{}, list.Elements[1])
	assert.IsType(t, &ast.Var{}, list.Tail)

	tuple := bodyExpr(t, `#(a, "x\"y")`).(*ast.Tuple)
	require.Len(t, tuple.Elems, 2)
	assert.Equal(t, `"x\"y"`, tuple.Elems[1].(*ast.String).Lexeme)

	field := bodyExpr(t, "pair.0").(*ast.FieldAccess)
	assert.Equal(t, "0", field.Label)

	todo := bodyExpr(t, `todo as "soon"`).(*ast.Todo)
	assert.IsType(t, &ast.String{}, todo.Message)

	fn := bodyExpr(t, "fn(x) -> Int { x }").(*ast.Fn)
	assert.Equal(t, ast.FnAnonymous, fn.Kind)
	assert.NotNil(t, fn.ReturnAnnotation)
}

func TestParsePatterns(t *testing.T) {
	ctx := parse(t, `fn main() {
  let #(a, _b) = pair
  let [x, ..rest] = xs
  use y <- f()
  y
}
`)
	require.Empty(t, ctx.Errors)
	body := ctx.Module.Functions[0].Body
	require.Len(t, body, 4)

	tuple := body[0].(*ast.Assignment).Pattern.(*ast.PatternTuple)
	require.Len(t, tuple.Elems, 2)
	assert.IsType(t, &ast.PatternDiscard{}, tuple.Elems[1])

	list := body[1].(*ast.Assignment).Pattern
	vars := ast.PatternVars(list)
	require.Len(t, vars, 2)
	assert.Equal(t, "x", vars[0].Name)
	assert.Equal(t, "rest", vars[1].Name)

	use := body[2].(*ast.Use)
	require.Len(t, use.Patterns, 1)
	assert.IsType(t, &ast.Call{}, use.Call)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want diagnostics.ErrorCode
	}{
		{"empty block", "fn main() {\n  {}\n}\n", diagnostics.ErrP001},
		{"two holes", "fn main() {\n  f(_, _)\n}\n", diagnostics.ErrP001},
		{"discard value", "fn main() {\n  _x\n}\n", diagnostics.ErrP002},
		{"bad pattern", "fn main() {\n  let 1 = x\n}\n", diagnostics.ErrP003},
		{"top level", "let x = 1\nfn main() {\n  x\n}\n", diagnostics.ErrP004},
		{"missing brace", "fn main() {\n  x\n", diagnostics.ErrP001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := parse(t, tt.src)
			assert.Contains(t, codes(ctx), tt.want)
		})
	}
}

func TestParseRecovers(t *testing.T) {
	ctx := parse(t, "garbage here\nfn main() {\n  1\n}\nfn other() {\n  2\n}\n")
	assert.Equal(t, []diagnostics.ErrorCode{diagnostics.ErrP004}, codes(ctx))
	assert.Len(t, ctx.Module.Functions, 2)
}
