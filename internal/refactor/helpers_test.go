package refactor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/funvibe/refactorls/internal/analyzer"
	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/edit"
	"github.com/funvibe/refactorls/internal/lexer"
	"github.com/funvibe/refactorls/internal/parser"
	"github.com/funvibe/refactorls/internal/pipeline"
)

// compile runs the front-end and fails the test on any diagnostic.
func compile(t *testing.T, src string) *ast.Module {
	t.Helper()
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	).Run(pipeline.NewContext("test.lang", src))
	require.Empty(t, ctx.Errors)
	return ctx.Module
}

// offsetOf returns the byte offset of the first occurrence of needle after
// skipping the given number of earlier occurrences.
func offsetOf(t *testing.T, src, needle string, skip int) int {
	t.Helper()
	base := 0
	for i := 0; ; i++ {
		idx := strings.Index(src[base:], needle)
		require.GreaterOrEqual(t, idx, 0, "%q not found", needle)
		if i == skip {
			return base + idx
		}
		base += idx + len(needle)
	}
}

func apply(t *testing.T, src string, edits ...edit.Edit) string {
	t.Helper()
	out, err := edit.Apply(src, edits)
	require.NoError(t, err)
	return out
}
