// Package mcptools exposes the code action engine as MCP tools so that
// agents can list and apply refactorings on files.
package mcptools

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/funvibe/refactorls/internal/codeaction"
	"github.com/funvibe/refactorls/internal/config"
)

// Server wraps the MCP server with tool handlers.
type Server struct {
	mcp    *mcp.Server
	engine *codeaction.Engine
	logger *slog.Logger
}

// NewServer creates an MCP server with all tools registered. Actions are
// always computed eagerly whatever cfg.Resolve says.
func NewServer(cfg *config.Config, logger *slog.Logger, version string) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = config.Discard()
	}
	eager := *cfg
	eager.Resolve = config.ResolveEager

	srv := &Server{
		engine: codeaction.NewEngine(&eager, logger),
		logger: logger,
		mcp: mcp.NewServer(
			&mcp.Implementation{
				Name:    "refactorls",
				Version: version,
			},
			nil,
		),
	}
	srv.registerTools()
	return srv
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

const positionProperties = `
				"path": {
					"type": "string",
					"description": "Path of the .lang source file"
				},
				"line": {
					"type": "integer",
					"description": "1-based line of the cursor"
				},
				"column": {
					"type": "integer",
					"description": "1-based column of the cursor in UTF-16 code units"
				},
				"end_line": {
					"type": "integer",
					"description": "1-based end line of a selection (defaults to line)"
				},
				"end_column": {
					"type": "integer",
					"description": "1-based end column of a selection (defaults to column)"
				}`

func (s *Server) registerTools() {
	s.mcp.AddTool(&mcp.Tool{
		Name:        "list_code_actions",
		Description: "List the refactorings available at a cursor position in a source file: rewriting nested calls into a pipeline (id 'pipeline') and inlining a let-bound variable (id 'inline_variable'). Returns each action's id, title, kind and the text edits it would make.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {` + positionProperties + `
			},
			"required": ["path", "line", "column"]
		}`),
	}, s.handleListCodeActions)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "apply_code_action",
		Description: "Apply one refactoring at a cursor position and return the rewritten file. The file on disk is only changed when write is true.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {` + positionProperties + `,
				"action": {
					"type": "string",
					"description": "Action id",
					"enum": ["pipeline", "inline_variable"]
				},
				"write": {
					"type": "boolean",
					"description": "Write the result back to the file"
				}
			},
			"required": ["path", "line", "column", "action"]
		}`),
	}, s.handleApplyCodeAction)

	s.mcp.AddTool(&mcp.Tool{
		Name:        "scan_code_actions",
		Description: "Scan files or directories for every refactoring offered in each function, in parallel. Returns per-file findings with 1-based positions plus compile diagnostics.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"paths": {
					"type": "array",
					"items": {"type": "string"},
					"description": "Files or directories to scan"
				}
			},
			"required": ["paths"]
		}`),
	}, s.handleScanCodeActions)
}

// jsonResult marshals data to JSON and returns as tool result.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}
}

// errResult returns a tool result indicating an error.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
		IsError: true,
	}
}

// parseArgs unmarshals the raw JSON arguments into a map.
func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if req.Params == nil || len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

func getStringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// getIntArg extracts an integer argument with a default value.
func getIntArg(args map[string]any, key string, defaultVal int) int {
	f, ok := args[key].(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

func getBoolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func getStringsArg(args map[string]any, key string) []string {
	raw, _ := args[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
