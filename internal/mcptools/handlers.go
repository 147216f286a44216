package mcptools

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tliron/glsp/protocol_3_16"

	"github.com/funvibe/refactorls/internal/codeaction"
	"github.com/funvibe/refactorls/internal/scan"
	"github.com/funvibe/refactorls/internal/snapshot"
)

// ActionSummary is one entry of list_code_actions.
type ActionSummary struct {
	ID    string              `json:"id"`
	Title string              `json:"title"`
	Kind  string              `json:"kind"`
	Edits []protocol.TextEdit `json:"edits"`
}

// load compiles the file at path and converts the 1-based cursor arguments
// into a protocol range.
func load(args map[string]any) (*snapshot.Snapshot, protocol.Range, error) {
	path := getStringArg(args, "path")
	if path == "" {
		return nil, protocol.Range{}, fmt.Errorf("path is required")
	}
	line := getIntArg(args, "line", 0)
	col := getIntArg(args, "column", 0)
	if line < 1 || col < 1 {
		return nil, protocol.Range{}, fmt.Errorf("line and column are required and 1-based")
	}
	endLine := getIntArg(args, "end_line", line)
	endCol := getIntArg(args, "end_column", col)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, protocol.Range{}, fmt.Errorf("file not found: %s", path)
	}
	snap := snapshot.New(snapshot.URIFromPath(path), 0, string(data))
	rng := protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line - 1), Character: protocol.UInteger(col - 1)},
		End:   protocol.Position{Line: protocol.UInteger(endLine - 1), Character: protocol.UInteger(endCol - 1)},
	}
	return snap, rng, nil
}

func (s *Server) handleListCodeActions(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	snap, rng, err := load(args)
	if err != nil {
		return errResult(err.Error()), nil
	}

	actions, err := s.engine.CodeActions(snap, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: snap.URI},
		Range:        rng,
	})
	if err != nil {
		return errResult(err.Error()), nil
	}

	out := make([]ActionSummary, 0, len(actions))
	for _, ca := range actions {
		sum := ActionSummary{ID: codeaction.IDOf(ca), Title: ca.Title}
		if ca.Kind != nil {
			sum.Kind = string(*ca.Kind)
		}
		if ca.Edit != nil {
			sum.Edits = ca.Edit.Changes[snap.URI]
		}
		out = append(out, sum)
	}
	s.logger.Debug("mcp.list_code_actions", "path", snap.Path, "count", len(out))
	return jsonResult(map[string]any{"path": snap.Path, "actions": out}), nil
}

func (s *Server) handleApplyCodeAction(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	id := getStringArg(args, "action")
	if id == "" {
		return errResult("action is required"), nil
	}
	snap, rng, err := load(args)
	if err != nil {
		return errResult(err.Error()), nil
	}

	out, err := s.engine.Apply(snap, id, rng)
	if err != nil {
		return errResult(fmt.Sprintf("%s not applicable: %v", id, err)), nil
	}
	written := false
	if getBoolArg(args, "write") {
		if err := os.WriteFile(snap.Path, []byte(out), 0o644); err != nil {
			return errResult(fmt.Sprintf("write %s: %v", snap.Path, err)), nil
		}
		written = true
	}
	s.logger.Info("mcp.apply_code_action", "path", snap.Path, "action", id, "written", written)
	return jsonResult(map[string]any{"path": snap.Path, "action": id, "written": written, "content": out}), nil
}

func (s *Server) handleScanCodeActions(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	paths := getStringsArg(args, "paths")
	if len(paths) == 0 {
		return errResult("paths is required"), nil
	}
	files, err := scan.Files(paths)
	if err != nil {
		return errResult(err.Error()), nil
	}
	reports, err := scan.Run(ctx, s.engine, files)
	if err != nil {
		return errResult(err.Error()), nil
	}
	return jsonResult(map[string]any{"files": reports}), nil
}
