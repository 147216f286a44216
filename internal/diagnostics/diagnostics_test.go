package diagnostics_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/refactorls/internal/diagnostics"
)

func TestAt(t *testing.T) {
	src := "fn main() {\n  missing\n}\n"
	start := bytes.Index([]byte(src), []byte("missing"))
	tok := diagnostics.At(src, start, start+len("missing"))
	assert.Equal(t, 2, tok.Line)
	assert.Equal(t, 3, tok.Column)
	assert.Equal(t, "missing", tok.Lexeme)

	clamped := diagnostics.At(src, -4, 1000)
	assert.Equal(t, 0, clamped.Offset)
	assert.Equal(t, len(src), clamped.End)
}

func TestError(t *testing.T) {
	src := "fn main() {\n  missing\n}\n"
	err := diagnostics.NewError(diagnostics.ErrA001, diagnostics.At(src, 14, 21), "unknown variable missing")
	assert.Equal(t, "2:3: unknown variable missing [A001]", err.Error())
	err.File = "a.lang"
	assert.Equal(t, "a.lang:2:3: unknown variable missing [A001]", err.Error())
}

func TestRender(t *testing.T) {
	src := "fn main() {\n  missing\n}\n"
	err := diagnostics.NewError(diagnostics.ErrA001, diagnostics.At(src, 14, 21), "unknown variable missing")
	err.File = "a.lang"

	var buf bytes.Buffer
	require.NoError(t, diagnostics.Render(&buf, src, err, false))
	want := "error[A001]: unknown variable missing\n" +
		" --> a.lang:2:3\n" +
		"  |\n" +
		"2 |   missing\n" +
		"  |   ^^^^^^^\n"
	assert.Equal(t, want, buf.String())
}

func TestRenderAll(t *testing.T) {
	src := "x\ny\n"
	diags := []*diagnostics.DiagnosticError{
		diagnostics.NewError(diagnostics.ErrA001, diagnostics.At(src, 0, 1), "one"),
		diagnostics.NewError(diagnostics.ErrA001, diagnostics.At(src, 2, 3), "two"),
	}
	var buf bytes.Buffer
	require.NoError(t, diagnostics.RenderAll(&buf, src, diags, false))
	out := buf.String()
	assert.Contains(t, out, "error[A001]: one\n")
	assert.Contains(t, out, "--> <input>:2:1\n")
	assert.Contains(t, out, "\n\nerror[A001]: two\n")
}
