package mcptools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const zipReverse = `import list

pub fn main(xs, ys) {
  list.reverse(list.zip(xs, ys))
}
`

func call(t *testing.T, handler func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (map[string]any, bool) {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	res, err := handler(context.Background(), &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: raw}})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	if res.IsError {
		return map[string]any{"error": text.Text}, true
	}
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out, false
}

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.lang")
	require.NoError(t, os.WriteFile(path, []byte(zipReverse), 0o644))
	return path
}

func TestListCodeActions(t *testing.T) {
	s := NewServer(nil, nil, "test")
	path := writeSource(t)

	out, isErr := call(t, s.handleListCodeActions, map[string]any{"path": path, "line": 4, "column": 3})
	require.False(t, isErr, out)
	actions := out["actions"].([]any)
	require.Len(t, actions, 1)
	first := actions[0].(map[string]any)
	assert.Equal(t, "pipeline", first["id"])
	assert.Equal(t, "refactor.rewrite", first["kind"])
	assert.Len(t, first["edits"], 1)

	out, isErr = call(t, s.handleListCodeActions, map[string]any{"path": path, "line": 1, "column": 1})
	require.False(t, isErr)
	assert.Empty(t, out["actions"])
}

func TestListCodeActionsErrors(t *testing.T) {
	s := NewServer(nil, nil, "test")
	path := writeSource(t)

	for name, args := range map[string]map[string]any{
		"no path":      {"line": 1, "column": 1},
		"no position":  {"path": path},
		"missing file": {"path": path + ".gone", "line": 1, "column": 1},
		"out of range": {"path": path, "line": 40, "column": 1},
	} {
		t.Run(name, func(t *testing.T) {
			_, isErr := call(t, s.handleListCodeActions, args)
			assert.True(t, isErr)
		})
	}
}

func TestApplyCodeAction(t *testing.T) {
	s := NewServer(nil, nil, "test")
	path := writeSource(t)
	want := "import list\n\npub fn main(xs, ys) {\n  xs\n  |> list.zip(ys)\n  |> list.reverse()\n}\n"

	out, isErr := call(t, s.handleApplyCodeAction, map[string]any{"path": path, "line": 4, "column": 3, "action": "pipeline"})
	require.False(t, isErr, out)
	assert.Equal(t, want, out["content"])
	assert.Equal(t, false, out["written"])
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, zipReverse, string(data))

	out, isErr = call(t, s.handleApplyCodeAction, map[string]any{"path": path, "line": 4, "column": 3, "action": "pipeline", "write": true})
	require.False(t, isErr, out)
	assert.Equal(t, true, out["written"])
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
}

func TestApplyCodeActionNotApplicable(t *testing.T) {
	s := NewServer(nil, nil, "test")
	path := writeSource(t)

	out, isErr := call(t, s.handleApplyCodeAction, map[string]any{"path": path, "line": 4, "column": 3, "action": "inline_variable"})
	require.True(t, isErr)
	assert.Contains(t, out["error"], "inline_variable not applicable")

	_, isErr = call(t, s.handleApplyCodeAction, map[string]any{"path": path, "line": 4, "column": 3})
	assert.True(t, isErr)
}

func TestScanCodeActions(t *testing.T) {
	s := NewServer(nil, nil, "test")
	path := writeSource(t)

	out, isErr := call(t, s.handleScanCodeActions, map[string]any{"paths": []string{filepath.Dir(path)}})
	require.False(t, isErr, out)
	files := out["files"].([]any)
	require.Len(t, files, 1)
	findings := files[0].(map[string]any)["findings"].([]any)
	require.Len(t, findings, 1)
	assert.Equal(t, "pipeline", findings[0].(map[string]any)["action"])

	_, isErr = call(t, s.handleScanCodeActions, map[string]any{})
	assert.True(t, isErr)
}
