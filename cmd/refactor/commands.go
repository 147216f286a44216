package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tliron/glsp/protocol_3_16"

	"github.com/funvibe/refactorls/internal/codeaction"
	"github.com/funvibe/refactorls/internal/config"
	"github.com/funvibe/refactorls/internal/diagnostics"
	"github.com/funvibe/refactorls/internal/mcptools"
	"github.com/funvibe/refactorls/internal/scan"
	"github.com/funvibe/refactorls/internal/snapshot"
)

// Sentinel errors
var (
	ErrNotSourceFile = errors.New("not a source file")
	ErrCompileErrors = errors.New("scan found compile errors")
)

// Position selects the cursor. Lines and columns are 1-based; columns
// count UTF-16 code units.
type Position struct {
	File    string `arg:"" help:"Source file" type:"existingfile"`
	Line    int    `help:"Cursor line" short:"l" required:""`
	Col     int    `help:"Cursor column" short:"c" required:""`
	EndLine int    `help:"Selection end line (defaults to --line)"`
	EndCol  int    `help:"Selection end column (defaults to --col)"`
}

func (p *Position) load() (*snapshot.Snapshot, protocol.Range, error) {
	if !config.IsSourceFile(p.File) {
		return nil, protocol.Range{}, fmt.Errorf("%w: %s", ErrNotSourceFile, p.File)
	}
	if p.Line < 1 || p.Col < 1 {
		return nil, protocol.Range{}, fmt.Errorf("--line and --col are 1-based")
	}
	data, err := os.ReadFile(p.File)
	if err != nil {
		return nil, protocol.Range{}, err
	}
	endLine, endCol := p.EndLine, p.EndCol
	if endLine == 0 {
		endLine = p.Line
	}
	if endCol == 0 {
		endCol = p.Col
	}
	rng := protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(p.Line - 1), Character: protocol.UInteger(p.Col - 1)},
		End:   protocol.Position{Line: protocol.UInteger(endLine - 1), Character: protocol.UInteger(endCol - 1)},
	}
	return snapshot.New(snapshot.URIFromPath(p.File), 0, string(data)), rng, nil
}

func eagerEngine(ctx *Context) *codeaction.Engine {
	cfg := *ctx.Config
	cfg.Resolve = config.ResolveEager
	return codeaction.NewEngine(&cfg, ctx.Logger)
}

// ActionsCmd lists the code actions at a position
type ActionsCmd struct {
	Position
}

func (cmd *ActionsCmd) Run(ctx *Context) error {
	snap, rng, err := cmd.load()
	if err != nil {
		return err
	}
	actions, err := eagerEngine(ctx).CodeActions(snap, &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: snap.URI},
		Range:        rng,
	})
	if err != nil {
		return err
	}
	if len(actions) == 0 {
		_, err := fmt.Fprintln(ctx.Stdout, color.YellowString("No code actions at %s:%d:%d", cmd.File, cmd.Line, cmd.Col))
		return err
	}
	for _, ca := range actions {
		kind := ""
		if ca.Kind != nil {
			kind = string(*ca.Kind)
		}
		if _, err := fmt.Fprintf(ctx.Stdout, "%s\t%s\t%s\n", color.GreenString(codeaction.IDOf(ca)), ca.Title, color.CyanString(kind)); err != nil {
			return err
		}
	}
	return nil
}

// ApplyCmd applies a code action
type ApplyCmd struct {
	Position
	Action string `help:"Action id" short:"a" required:"" enum:"pipeline,inline_variable"`
	Write  bool   `help:"Write the result back to the file" short:"w"`
	Diff   bool   `help:"Print the changed lines instead of the whole file"`
}

func (cmd *ApplyCmd) Run(ctx *Context) error {
	snap, rng, err := cmd.load()
	if err != nil {
		return err
	}
	out, err := eagerEngine(ctx).Apply(snap, cmd.Action, rng)
	if err != nil {
		return fmt.Errorf("%s not applicable at %s:%d:%d: %w", cmd.Action, cmd.File, cmd.Line, cmd.Col, err)
	}

	if cmd.Write {
		info, err := os.Stat(cmd.File)
		if err != nil {
			return err
		}
		if err := os.WriteFile(cmd.File, []byte(out), info.Mode().Perm()); err != nil {
			return err
		}
		_, err = fmt.Fprintln(ctx.Stdout, color.GreenString("Rewrote %s", cmd.File))
		return err
	}
	if cmd.Diff {
		_, err := fmt.Fprint(ctx.Stdout, lineDiff(snap.Content, out))
		return err
	}
	_, err = fmt.Fprint(ctx.Stdout, out)
	return err
}

// lineDiff shows the changed region between before and after: the common
// leading and trailing lines are dropped, removed lines are prefixed with
// "-" and added lines with "+".
func lineDiff(before, after string) string {
	a := strings.SplitAfter(before, "\n")
	b := strings.SplitAfter(after, "\n")
	head := 0
	for head < len(a) && head < len(b) && a[head] == b[head] {
		head++
	}
	tail := 0
	for tail < len(a)-head && tail < len(b)-head && a[len(a)-1-tail] == b[len(b)-1-tail] {
		tail++
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", color.CyanString("@@ line %d @@", head+1))
	for _, l := range a[head : len(a)-tail] {
		sb.WriteString(color.RedString("-%s", strings.TrimSuffix(l, "\n")))
		sb.WriteString("\n")
	}
	for _, l := range b[head : len(b)-tail] {
		sb.WriteString(color.GreenString("+%s", strings.TrimSuffix(l, "\n")))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ScanCmd reports every offered code action
type ScanCmd struct {
	Paths []string `arg:"" help:"Files or directories to scan" type:"path"`
}

func (cmd *ScanCmd) Run(ctx *Context) error {
	files, err := scan.Files(cmd.Paths)
	if err != nil {
		return err
	}
	reports, err := scan.Run(context.Background(), eagerEngine(ctx), files)
	if err != nil {
		return err
	}

	total, broken := 0, 0
	for _, r := range reports {
		for _, f := range r.Findings {
			total++
			if _, err := fmt.Fprintf(ctx.Stdout, "%s:%d:%d: %s %s\n", r.Path, f.Line, f.Column, color.GreenString(f.Action), color.New(color.Faint).Sprintf("(in %s)", f.Function)); err != nil {
				return err
			}
		}
		if len(r.Snapshot.Diagnostics) > 0 {
			broken++
			if err := diagnostics.RenderAll(ctx.Stderr, r.Snapshot.Content, r.Snapshot.Diagnostics, ctx.Colored); err != nil {
				return err
			}
		}
	}
	fmt.Fprintf(ctx.Stdout, "%d action(s) in %d file(s)\n", total, len(reports))
	if broken > 0 {
		return fmt.Errorf("%w: %d file(s)", ErrCompileErrors, broken)
	}
	return nil
}

// MCPCmd serves MCP tools over stdio
type MCPCmd struct{}

func (cmd *MCPCmd) Run(ctx *Context) error {
	srv := mcptools.NewServer(ctx.Config, ctx.Logger, version)
	return srv.MCPServer().Run(context.Background(), &mcp.StdioTransport{})
}
