// Package codeaction turns a cursor range in a snapshot into the pipeline
// and inline code actions, either with their edits attached or as deferred
// handles resolved later.
package codeaction

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/tliron/glsp/protocol_3_16"

	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/config"
	"github.com/funvibe/refactorls/internal/edit"
	"github.com/funvibe/refactorls/internal/refactor"
	"github.com/funvibe/refactorls/internal/snapshot"
)

// ErrUnknownAction is returned for an action id the engine does not offer.
var ErrUnknownAction = errors.New("unknown code action")

type action struct {
	id    string
	title string
	kind  protocol.CodeActionKind
}

var actions = []action{
	{config.PipelineActionID, config.PipelineActionTitle, protocol.CodeActionKindRefactorRewrite},
	{config.InlineActionID, config.InlineActionTitle, protocol.CodeActionKindRefactorInline},
}

// Kinds lists the code action kinds the engine can produce.
func Kinds() []protocol.CodeActionKind {
	out := make([]protocol.CodeActionKind, len(actions))
	for i, a := range actions {
		out[i] = a.kind
	}
	return out
}

// IDOf returns the action id of an action listed by CodeActions, or "".
func IDOf(ca protocol.CodeAction) string {
	for _, a := range actions {
		if a.title == ca.Title {
			return a.id
		}
	}
	return ""
}

func lookup(id string) (action, bool) {
	for _, a := range actions {
		if a.id == id {
			return a, true
		}
	}
	return action{}, false
}

type Engine struct {
	cfg      *config.Config
	logger   *slog.Logger
	deferred bool
}

func NewEngine(cfg *config.Config, logger *slog.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = config.Discard()
	}
	return &Engine{cfg: cfg, logger: logger, deferred: cfg.Resolve == config.ResolveDeferred}
}

// SetClientCapabilities picks the deferred mode in auto resolve mode when
// the client can resolve the "edit" property lazily.
func (e *Engine) SetClientCapabilities(caps *protocol.ClientCapabilities) {
	if e.cfg.Resolve != config.ResolveAuto {
		return
	}
	e.deferred = supportsEditResolve(caps)
}

func supportsEditResolve(caps *protocol.ClientCapabilities) bool {
	if caps == nil || caps.TextDocument == nil || caps.TextDocument.CodeAction == nil {
		return false
	}
	rs := caps.TextDocument.CodeAction.ResolveSupport
	if rs == nil {
		return false
	}
	for _, p := range rs.Properties {
		if p == "edit" {
			return true
		}
	}
	return false
}

// Deferred reports whether listed actions omit their edits.
func (e *Engine) Deferred() bool { return e.deferred }

// CodeActions lists the actions available at params.Range. A range outside
// the document is an error wrapping lines.ErrOutOfRange; refactorings that
// do not apply are silently left out.
func (e *Engine) CodeActions(snap *snapshot.Snapshot, params *protocol.CodeActionParams) ([]protocol.CodeAction, error) {
	start, _, err := snap.Lines.RangeOffsets(params.Range)
	if err != nil {
		return nil, err
	}
	target := Target{URI: snap.URI, Range: params.Range}

	var out []protocol.CodeAction
	for _, a := range actions {
		if !e.cfg.Enabled(a.id) || !kindRequested(a.kind, params.Context.Only) {
			continue
		}
		var edits []protocol.TextEdit
		var err error
		if e.deferred {
			// Listing only needs to know the refactor applies; composing and
			// converting the edits is left to Resolve.
			_, err = e.rawEdits(snap, a.id, start)
		} else {
			edits, err = e.edits(snap, a.id, start)
		}
		if err != nil {
			e.refused(snap, a.id, err)
			continue
		}
		b := NewBuilder(a.title).Kind(a.kind).Preferred(true)
		if e.deferred {
			b.Data(&Data{
				ID:          a.id,
				Params:      target,
				Fingerprint: fingerprintString(snap.Fingerprint),
				Snapshot:    snap.ID,
			})
		} else {
			b.Changes(snap.URI, edits)
		}
		out = append(out, b.Build())
	}
	e.logger.Debug("codeaction.list", "uri", snap.URI, "offset", start, "count", len(out), "deferred", e.deferred)
	return out, nil
}

// Resolve attaches edits to a deferred action. The snapshot must have the
// same content as the one the action was listed for.
func (e *Engine) Resolve(snap *snapshot.Snapshot, ca protocol.CodeAction) (protocol.CodeAction, error) {
	data, err := DecodeData(ca.Data)
	if err != nil {
		return ca, err
	}
	return e.resolve(snap, data, ca)
}

// Snapshots is where ResolveFrom finds the snapshot to replay on.
type Snapshots interface {
	Lookup(id uuid.UUID) (*snapshot.Snapshot, bool)
	Get(uri protocol.DocumentUri) (*snapshot.Snapshot, bool)
}

// ResolveFrom resolves ca against the document as currently held by snaps,
// which must still have the content the action was listed for. The replay
// runs on the exact snapshot the action was listed on while snaps retains
// it, otherwise on the current one. The snapshot used is returned.
func (e *Engine) ResolveFrom(snaps Snapshots, ca protocol.CodeAction) (protocol.CodeAction, *snapshot.Snapshot, error) {
	data, err := DecodeData(ca.Data)
	if err != nil {
		return ca, nil, err
	}
	snap, ok := snaps.Get(data.Params.URI)
	if !ok {
		return ca, nil, fmt.Errorf("%w: %s is no longer open", ErrStale, data.Params.URI)
	}
	if listed, ok := snaps.Lookup(data.Snapshot); ok && listed.URI == snap.URI && listed.Fingerprint == snap.Fingerprint {
		snap = listed
	}
	out, err := e.resolve(snap, data, ca)
	if err != nil {
		return ca, nil, err
	}
	return out, snap, nil
}

func (e *Engine) resolve(snap *snapshot.Snapshot, data *Data, ca protocol.CodeAction) (protocol.CodeAction, error) {
	if data.Params.URI != snap.URI || data.Fingerprint != fingerprintString(snap.Fingerprint) {
		e.logger.Debug("codeaction.stale", "uri", data.Params.URI, "id", data.ID)
		return ca, ErrStale
	}
	edits, err := e.Compute(snap, data.ID, data.Params.Range)
	if err != nil {
		return ca, err
	}
	ca.Edit = &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{snap.URI: edits},
	}
	ca.Data = nil
	e.logger.Debug("codeaction.resolve", "uri", snap.URI, "id", data.ID, "snapshot", snap.ID, "listed_on", snap.ID == data.Snapshot)
	return ca, nil
}

// Compute returns the edits of the action id at rng.
func (e *Engine) Compute(snap *snapshot.Snapshot, id string, rng protocol.Range) ([]protocol.TextEdit, error) {
	if _, ok := lookup(id); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, id)
	}
	start, _, err := snap.Lines.RangeOffsets(rng)
	if err != nil {
		return nil, err
	}
	return e.edits(snap, id, start)
}

// Apply computes the action id at rng and returns the rewritten document.
func (e *Engine) Apply(snap *snapshot.Snapshot, id string, rng protocol.Range) (string, error) {
	edits, err := e.Compute(snap, id, rng)
	if err != nil {
		return "", err
	}
	return edit.ApplyTextEdits(snap.Content, edits)
}

func (e *Engine) edits(snap *snapshot.Snapshot, id string, offset int) ([]protocol.TextEdit, error) {
	raw, err := e.rawEdits(snap, id, offset)
	if err != nil {
		return nil, err
	}
	composed, err := edit.Compose(raw...)
	if err != nil {
		return nil, err
	}
	return edit.ToTextEdits(snap.Lines, composed)
}

// rawEdits runs the refactor itself; an error means it does not apply.
func (e *Engine) rawEdits(snap *snapshot.Snapshot, id string, offset int) ([]edit.Edit, error) {
	switch id {
	case config.PipelineActionID:
		ed, err := refactor.RewritePipeline(ast.FindPath(snap.Module, offset), snap.Lines)
		if err != nil {
			return nil, err
		}
		return []edit.Edit{ed}, nil
	case config.InlineActionID:
		return e.inlineEdits(snap, offset)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, id)
}

// inlineEdits routes on the innermost node at offset: a local variable is
// inlined at that usage, a let statement at all of its usages.
func (e *Engine) inlineEdits(snap *snapshot.Snapshot, offset int) ([]edit.Edit, error) {
	fn := ast.FindEnclosingFunction(snap.Module, offset)
	switch n := ast.FindNode(snap.Module, offset).(type) {
	case *ast.Var:
		if n.Ref.Kind != ast.RefLocal {
			return nil, fmt.Errorf("%w: %s is not a local variable", refactor.ErrNotInlinable, n.Name)
		}
		opts := refactor.InlineOptions{RemoveDeclarationAlways: e.cfg.Inline.RemoveDeclarationAlways}
		return refactor.InlineAtUsage(snap.Content, fn, n, opts)
	case *ast.Assignment:
		return refactor.InlineAtDeclaration(snap.Content, fn, n)
	}
	return nil, fmt.Errorf("%w: no variable at cursor", refactor.ErrNotInlinable)
}

func (e *Engine) refused(snap *snapshot.Snapshot, id string, err error) {
	e.logger.Debug("codeaction.refused", "uri", snap.URI, "id", id, "reason", err)
}

// kindRequested applies the LSP "only" filter, where a requested kind also
// selects its sub-kinds.
func kindRequested(kind protocol.CodeActionKind, only []protocol.CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	for _, o := range only {
		if o == kind || strings.HasPrefix(string(kind), string(o)+".") {
			return true
		}
	}
	return false
}
