package ast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/lexer"
	"github.com/funvibe/refactorls/internal/parser"
	"github.com/funvibe/refactorls/internal/pipeline"
)

const src = `fn first(a) {
  a
}

fn main(x) {
  let y = f(x, 1)
  use z <- each(y)
  let g = fn(p) { p + z }
  y |> g
}
`

func parse(t *testing.T) *ast.Module {
	t.Helper()
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(pipeline.NewContext("t.lang", src))
	require.Empty(t, ctx.Errors)
	return ctx.Module
}

func offsetOf(t *testing.T, needle string) int {
	t.Helper()
	i := strings.Index(src, needle)
	require.GreaterOrEqual(t, i, 0, needle)
	return i
}

func TestFindEnclosingFunction(t *testing.T) {
	m := parse(t)
	assert.Equal(t, "first", ast.FindEnclosingFunction(m, offsetOf(t, "a\n")).Name)
	assert.Equal(t, "main", ast.FindEnclosingFunction(m, offsetOf(t, "let y")).Name)
	assert.Nil(t, ast.FindEnclosingFunction(m, offsetOf(t, "\n\nfn main")+1))
	assert.Nil(t, ast.FindEnclosingFunction(nil, 0))
}

func TestFindPath(t *testing.T) {
	m := parse(t)
	path := ast.FindPath(m, offsetOf(t, "x, 1"))
	require.Len(t, path, 3)
	assert.IsType(t, &ast.Assignment{}, path[0])
	assert.IsType(t, &ast.Call{}, path[1])
	v, ok := path[2].(*ast.Var)
	require.True(t, ok)
	assert.Equal(t, "x", v.Name)

	assert.Empty(t, ast.FindPath(m, len(src)))
}

func TestFindNodeHalfOpen(t *testing.T) {
	m := parse(t)
	call := offsetOf(t, "f(x, 1)")
	assert.IsType(t, &ast.Var{}, ast.FindNode(m, call), "callee")

	// The closing paren is part of the call; the byte after it is not.
	end := call + len("f(x, 1)")
	assert.IsType(t, &ast.Call{}, ast.FindNode(m, end-1))
	assert.Nil(t, ast.FindNode(m, end))
}

func TestFindNodeInsideFunctionLiteral(t *testing.T) {
	m := parse(t)
	n := ast.FindNode(m, offsetOf(t, "z }"))
	v, ok := n.(*ast.Var)
	require.True(t, ok)
	assert.Equal(t, "z", v.Name)
}

func TestFindNodeSkipsImplicitArguments(t *testing.T) {
	m := parse(t)
	n := ast.FindNode(m, offsetOf(t, "g\n}"))
	v, ok := n.(*ast.Var)
	require.True(t, ok)
	assert.Equal(t, "g", v.Name)
}

func TestFindAssignmentAndBinding(t *testing.T) {
	m := parse(t)
	main := m.Function("main")
	yDecl := ast.Span{Start: offsetOf(t, "y = f"), End: offsetOf(t, "y = f") + 1}

	assign := ast.FindAssignment(main, yDecl)
	require.NotNil(t, assign)
	assert.Equal(t, "let y = f(x, 1)", src[assign.Loc.Start:assign.Loc.End])
	assert.Nil(t, ast.FindAssignment(main, ast.Span{Start: 0, End: 1}))

	assert.IsType(t, &ast.PatternVar{}, ast.FindBinding(main, yDecl))

	xDecl := main.Params[0].Loc
	assert.Same(t, main.Params[0], ast.FindBinding(main, xDecl))

	zDecl := ast.Span{Start: offsetOf(t, "z <-"), End: offsetOf(t, "z <-") + 1}
	assert.IsType(t, &ast.PatternVar{}, ast.FindBinding(main, zDecl))

	pDecl := ast.Span{Start: offsetOf(t, "p)"), End: offsetOf(t, "p)") + 1}
	assert.IsType(t, &ast.Param{}, ast.FindBinding(main, pDecl))
}

func TestInspectOrder(t *testing.T) {
	m := parse(t)
	var names []string
	ast.Inspect(m.Function("main"), func(n ast.Node) bool {
		if v, ok := n.(*ast.Var); ok {
			names = append(names, v.Name)
		}
		return true
	})
	assert.Equal(t, []string{"f", "x", "each", "y", "p", "z", "y", "g"}, names)
}
