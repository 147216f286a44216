package prettyprinter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/lexer"
	"github.com/funvibe/refactorls/internal/parser"
	"github.com/funvibe/refactorls/internal/pipeline"
	"github.com/funvibe/refactorls/internal/prettyprinter"
)

// parseExpr parses src as the only statement of a function body.
func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(pipeline.NewContext("t.lang", "fn main() {\n  "+src+"\n}\n"))
	require.Empty(t, ctx.Errors)
	require.Len(t, ctx.Module.Functions, 1)
	body := ctx.Module.Functions[0].Body
	require.Len(t, body, 1)
	stmt, ok := body[0].(*ast.ExprStatement)
	require.True(t, ok)
	return stmt.Expr
}

func TestRenderRoundTrip(t *testing.T) {
	tests := []string{
		`1 + 2 * 3`,
		`{ 1 + 2 } * 3`,
		`a - b - c`,
		`a - { b - c }`,
		`a == b || c`,
		`-a`,
		`!{ a && b }`,
		`f(a, by: b)`,
		`list.map(xs, f)`,
		`f()`,
		`[1, 2, ..xs]`,
		`[..xs]`,
		`[]`,
		`#(a, "s\"q", 1.5)`,
		`t.0`,
		`f(_, 1)`,
		`xs |> f(1) |> g`,
		`xs |> f(1, _)`,
		`xs |> f(by: _)`,
		`xs |> f(_, 1)`,
		`{ a |> f } + 1`,
		`todo`,
		`todo as "later"`,
		`{ a }`,
		`a <> "x"`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			got, ok := prettyprinter.Render(parseExpr(t, src))
			require.True(t, ok)
			assert.Equal(t, src, got)
		})
	}
}

func TestRenderBracesByPrecedence(t *testing.T) {
	got, ok := prettyprinter.Render(parseExpr(t, "f({ a * b } + c)"))
	require.True(t, ok)
	assert.Equal(t, "f({ a * b } + c)", got)

	// Operands are braced from precedence, not from the source.
	e := parseExpr(t, "a * b + c")
	bin := e.(*ast.BinOp)
	got, ok = prettyprinter.Render(&ast.BinOp{Op: "*", Left: bin, Right: &ast.Int{Lexeme: "2"}})
	require.True(t, ok)
	assert.Equal(t, "{ a * b + c } * 2", got)
}

func TestRenderUnrenderable(t *testing.T) {
	for _, src := range []string{
		`fn(x) { x }`,
		`f(fn(x) { x })`,
		"{\n    let y = 1\n    y\n  }",
	} {
		t.Run(src, func(t *testing.T) {
			_, ok := prettyprinter.Render(parseExpr(t, src))
			assert.False(t, ok)
		})
	}

	placeholder := &ast.Var{Name: ast.PipeVarName, Ref: ast.VarRef{Kind: ast.RefPipe}}
	_, ok := prettyprinter.Render(placeholder)
	assert.False(t, ok)
	_, ok = prettyprinter.Render(nil)
	assert.False(t, ok)
}

func TestRenderCall(t *testing.T) {
	call := parseExpr(t, "f(a, by: b, c)").(*ast.Call)
	got, ok := prettyprinter.RenderCall(call, 1)
	require.True(t, ok)
	assert.Equal(t, "f(by: b, c)", got)

	got, ok = prettyprinter.RenderCall(call, 3)
	require.True(t, ok)
	assert.Equal(t, "f()", got)
}

func TestRenderOperand(t *testing.T) {
	tests := []struct {
		src     string
		prec    int
		isRight bool
		want    string
	}{
		{"a + b", prettyprinter.PipePrecedence, false, "a + b"},
		{"a == b", prettyprinter.PipePrecedence, false, "{ a == b }"},
		{"a + b", prettyprinter.OperatorPrecedence("+"), true, "{ a + b }"},
		{"a + b", prettyprinter.OperatorPrecedence("+"), false, "a + b"},
		{"a + b", prettyprinter.CallPrecedence, false, "{ a + b }"},
		{"-a", prettyprinter.PrefixPrecedence, false, "-a"},
		{"f(a)", prettyprinter.CallPrecedence, false, "f(a)"},
	}
	for _, tt := range tests {
		got, ok := prettyprinter.RenderOperand(parseExpr(t, tt.src), tt.prec, tt.isRight)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "%s at %d", tt.src, tt.prec)
	}
}

func TestPrecedence(t *testing.T) {
	assert.Equal(t, 7, prettyprinter.OperatorPrecedence("*"))
	assert.Equal(t, 1, prettyprinter.OperatorPrecedence("||"))
	assert.Equal(t, prettyprinter.PipePrecedence, prettyprinter.Precedence(parseExpr(t, "a |> f")))
	assert.Equal(t, prettyprinter.PrefixPrecedence, prettyprinter.Precedence(parseExpr(t, "-a")))
	assert.Greater(t, prettyprinter.Precedence(parseExpr(t, "f(a)")), prettyprinter.CallPrecedence)
}
