package codeaction

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp/protocol_3_16"

	"github.com/funvibe/refactorls/internal/config"
	"github.com/funvibe/refactorls/internal/edit"
	"github.com/funvibe/refactorls/internal/lines"
	"github.com/funvibe/refactorls/internal/refactor"
	"github.com/funvibe/refactorls/internal/snapshot"
)

const testURI = protocol.DocumentUri("file:///work/main.lang")

const zipReverse = `import list

pub fn main(xs, ys) {
  let n = 1
  list.reverse(list.zip(xs, ys))
}
`

// overTheWire round-trips an action through JSON the way a client does.
func overTheWire(t *testing.T, ca protocol.CodeAction) protocol.CodeAction {
	t.Helper()
	raw, err := json.Marshal(ca)
	require.NoError(t, err)
	var out protocol.CodeAction
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func at(line, col int) protocol.Range {
	p := protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
	return protocol.Range{Start: p, End: p}
}

func params(rng protocol.Range, only ...protocol.CodeActionKind) *protocol.CodeActionParams {
	return &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: testURI},
		Range:        rng,
		Context:      protocol.CodeActionContext{Only: only},
	}
}

func titles(actions []protocol.CodeAction) []string {
	var out []string
	for _, a := range actions {
		out = append(out, a.Title)
	}
	return out
}

func TestCodeActionsShape(t *testing.T) {
	snap := snapshot.New(testURI, 1, zipReverse)
	actions, err := NewEngine(nil, nil).CodeActions(snap, params(at(4, 2)))
	require.NoError(t, err)
	require.Len(t, actions, 1)

	ca := actions[0]
	assert.Equal(t, config.PipelineActionTitle, ca.Title)
	require.NotNil(t, ca.Kind)
	assert.Equal(t, protocol.CodeActionKindRefactorRewrite, *ca.Kind)
	require.NotNil(t, ca.IsPreferred)
	assert.True(t, *ca.IsPreferred)
	assert.Nil(t, ca.Data)
	require.NotNil(t, ca.Edit)
	require.Len(t, ca.Edit.Changes[testURI], 1)
	assert.Equal(t, "xs\n  |> list.zip(ys)\n  |> list.reverse()", ca.Edit.Changes[testURI][0].NewText)
}

func TestCodeActionsOnlyFilter(t *testing.T) {
	snap := snapshot.New(testURI, 1, "pub fn main(xs) {\n  let x = f(g(xs))\n  x\n}\n\nfn f(a) { a }\nfn g(a) { a }\n")
	e := NewEngine(nil, nil)

	all, err := e.CodeActions(snap, params(at(1, 2)))
	require.NoError(t, err)
	assert.Equal(t, []string{config.PipelineActionTitle, config.InlineActionTitle}, titles(all))

	tests := []struct {
		only []protocol.CodeActionKind
		want []string
	}{
		{[]protocol.CodeActionKind{protocol.CodeActionKindRefactor}, []string{config.PipelineActionTitle, config.InlineActionTitle}},
		{[]protocol.CodeActionKind{protocol.CodeActionKindRefactorInline}, []string{config.InlineActionTitle}},
		{[]protocol.CodeActionKind{protocol.CodeActionKindRefactorRewrite}, []string{config.PipelineActionTitle}},
		{[]protocol.CodeActionKind{protocol.CodeActionKindQuickFix}, nil},
	}
	for _, tt := range tests {
		got, err := e.CodeActions(snap, params(at(1, 2), tt.only...))
		require.NoError(t, err)
		assert.Equal(t, tt.want, titles(got), "only %v", tt.only)
	}
}

func TestCodeActionsDisabledByConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Actions.Pipeline = false
	snap := snapshot.New(testURI, 1, zipReverse)
	actions, err := NewEngine(cfg, nil).CodeActions(snap, params(at(4, 2)))
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestCodeActionsOutOfRange(t *testing.T) {
	snap := snapshot.New(testURI, 1, zipReverse)
	_, err := NewEngine(nil, nil).CodeActions(snap, params(at(40, 0)))
	assert.ErrorIs(t, err, lines.ErrOutOfRange)
}

func TestRemoveDeclarationAlways(t *testing.T) {
	src := "pub fn main() {\n  let n = 2\n  n * n\n}\n"
	cfg := config.Default()
	cfg.Inline.RemoveDeclarationAlways = true
	snap := snapshot.New(testURI, 1, src)

	edits, err := NewEngine(cfg, nil).Compute(snap, config.InlineActionID, at(2, 2))
	require.NoError(t, err)
	got, err := edit.ApplyTextEdits(src, edits)
	require.NoError(t, err)
	assert.Equal(t, "pub fn main() {\n  2 * 2\n}\n", got)
}

func TestComputeUnknownAction(t *testing.T) {
	snap := snapshot.New(testURI, 1, zipReverse)
	_, err := NewEngine(nil, nil).Compute(snap, "rename", at(4, 2))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestResolveStale(t *testing.T) {
	cfg := config.Default()
	cfg.Resolve = config.ResolveDeferred
	e := NewEngine(cfg, nil)

	before := snapshot.New(testURI, 1, zipReverse)
	actions, err := e.CodeActions(before, params(at(4, 2)))
	require.NoError(t, err)
	require.Len(t, actions, 1)

	after := snapshot.New(testURI, 2, zipReverse+"\nfn extra() { 1 }\n")
	_, err = e.Resolve(after, overTheWire(t, actions[0]))
	assert.ErrorIs(t, err, ErrStale)

	// Same content recompiled is not stale.
	again := snapshot.New(testURI, 3, zipReverse)
	resolved, err := e.Resolve(again, overTheWire(t, actions[0]))
	require.NoError(t, err)
	assert.NotNil(t, resolved.Edit)
	assert.Nil(t, resolved.Data)
}

func TestResolveFromListedSnapshot(t *testing.T) {
	cfg := config.Default()
	cfg.Resolve = config.ResolveDeferred
	e := NewEngine(cfg, nil)
	store := snapshot.NewStore()

	before := store.Update(testURI, 1, zipReverse)
	actions, err := e.CodeActions(before, params(at(4, 2)))
	require.NoError(t, err)
	require.Len(t, actions, 1)

	// A save or no-op change republishes identical content.
	again := store.Update(testURI, 2, zipReverse)
	require.NotEqual(t, before.ID, again.ID)

	resolved, used, err := e.ResolveFrom(store, overTheWire(t, actions[0]))
	require.NoError(t, err)
	assert.Same(t, before, used)
	require.NotNil(t, resolved.Edit)
	assert.Len(t, resolved.Edit.Changes[testURI], 1)

	// Without a retained snapshot the current one is used.
	lost := overTheWire(t, actions[0])
	data, err := DecodeData(lost.Data)
	require.NoError(t, err)
	data.Snapshot = uuid.Nil
	lost.Data = data
	_, used, err = e.ResolveFrom(store, lost)
	require.NoError(t, err)
	assert.Same(t, again, used)
}

func TestResolveFromEvicted(t *testing.T) {
	cfg := config.Default()
	cfg.Resolve = config.ResolveDeferred
	e := NewEngine(cfg, nil)
	store := snapshot.NewStore()

	before := store.Update(testURI, 1, zipReverse)
	actions, err := e.CodeActions(before, params(at(4, 2)))
	require.NoError(t, err)
	require.Len(t, actions, 1)

	var current *snapshot.Snapshot
	for v := int32(2); v < snapshot.Retained+3; v++ {
		current = store.Update(testURI, v, zipReverse)
	}
	_, ok := store.Lookup(before.ID)
	require.False(t, ok)

	_, used, err := e.ResolveFrom(store, overTheWire(t, actions[0]))
	require.NoError(t, err)
	assert.Same(t, current, used)
}

func TestResolveFromChangedContent(t *testing.T) {
	cfg := config.Default()
	cfg.Resolve = config.ResolveDeferred
	e := NewEngine(cfg, nil)
	store := snapshot.NewStore()

	before := store.Update(testURI, 1, zipReverse)
	actions, err := e.CodeActions(before, params(at(4, 2)))
	require.NoError(t, err)
	require.Len(t, actions, 1)

	// The listed snapshot is still retained but no longer current.
	store.Update(testURI, 2, zipReverse+"\nfn extra() { 1 }\n")
	_, ok := store.Lookup(before.ID)
	require.True(t, ok)
	_, _, err = e.ResolveFrom(store, overTheWire(t, actions[0]))
	assert.ErrorIs(t, err, ErrStale)

	store.Close(testURI)
	_, _, err = e.ResolveFrom(store, overTheWire(t, actions[0]))
	assert.ErrorIs(t, err, ErrStale)
}

func TestDeferredListingMatchesEager(t *testing.T) {
	cfg := config.Default()
	cfg.Resolve = config.ResolveDeferred
	deferred := NewEngine(cfg, nil)
	eager := NewEngine(nil, nil)
	snap := snapshot.New(testURI, 1, zipReverse)

	for _, rng := range []protocol.Range{at(0, 0), at(3, 6), at(4, 2), at(4, 16), at(5, 0)} {
		lazy, err := deferred.CodeActions(snap, params(rng))
		require.NoError(t, err)
		full, err := eager.CodeActions(snap, params(rng))
		require.NoError(t, err)
		assert.Equal(t, titles(full), titles(lazy), "range %v", rng)
		for _, a := range lazy {
			assert.Nil(t, a.Edit)
			assert.NotNil(t, a.Data)
		}
	}
}

func TestResolveBadData(t *testing.T) {
	snap := snapshot.New(testURI, 1, zipReverse)
	e := NewEngine(nil, nil)

	_, err := e.Resolve(snap, protocol.CodeAction{Title: "x"})
	assert.ErrorIs(t, err, ErrBadData)

	_, err = e.Resolve(snap, protocol.CodeAction{Title: "x", Data: map[string]any{"id": 3}})
	assert.ErrorIs(t, err, ErrBadData)

	_, err = DecodeData(&Data{ID: config.PipelineActionID})
	assert.ErrorIs(t, err, ErrBadData)

	_, _, err = e.ResolveFrom(snapshot.NewStore(), protocol.CodeAction{Title: "x", Data: "nope"})
	assert.ErrorIs(t, err, ErrBadData)
}

func TestAutoResolveFollowsClient(t *testing.T) {
	e := NewEngine(nil, nil)
	assert.False(t, e.Deferred())

	var caps protocol.ClientCapabilities
	require.NoError(t, json.Unmarshal([]byte(`{"textDocument":{"codeAction":{"resolveSupport":{"properties":["edit"]}}}}`), &caps))
	e.SetClientCapabilities(&caps)
	assert.True(t, e.Deferred())

	e.SetClientCapabilities(&protocol.ClientCapabilities{})
	assert.False(t, e.Deferred())

	cfg := config.Default()
	cfg.Resolve = config.ResolveEager
	eager := NewEngine(cfg, nil)
	eager.SetClientCapabilities(&caps)
	assert.False(t, eager.Deferred())
}

func TestKindRequested(t *testing.T) {
	assert.True(t, kindRequested(protocol.CodeActionKindRefactorInline, nil))
	assert.True(t, kindRequested(protocol.CodeActionKindRefactorInline, []protocol.CodeActionKind{"refactor"}))
	assert.False(t, kindRequested(protocol.CodeActionKindRefactorInline, []protocol.CodeActionKind{"refactor.in"}))
	assert.False(t, kindRequested(protocol.CodeActionKindRefactorInline, []protocol.CodeActionKind{"source"}))
}

func TestApplyAndIDOf(t *testing.T) {
	snap := snapshot.New(testURI, 1, zipReverse)
	e := NewEngine(nil, nil)

	out, err := e.Apply(snap, config.PipelineActionID, at(4, 2))
	require.NoError(t, err)
	assert.Contains(t, out, "  xs\n  |> list.zip(ys)\n  |> list.reverse()\n")

	_, err = e.Apply(snap, config.InlineActionID, at(4, 2))
	assert.ErrorIs(t, err, refactor.ErrNotInlinable)

	actions, err := e.CodeActions(snap, params(at(4, 2)))
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, config.PipelineActionID, IDOf(actions[0]))
	assert.Empty(t, IDOf(protocol.CodeAction{Title: "Organize Imports"}))
}
