package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/funvibe/refactorls/internal/config"
)

const version = "0.1.0"

// Context represents the global context for commands
type Context struct {
	Config  *config.Config
	Logger  *slog.Logger
	Stdout  io.Writer
	Stderr  io.Writer
	Colored bool
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path" default:".refactorls.yaml" type:"path"`
	NoColor bool       `help:"Disable coloured output"`
	Verbose bool       `help:"Log debug events to stderr" short:"v"`
	Actions ActionsCmd `cmd:"" help:"List the code actions available at a position"`
	Apply   ApplyCmd   `cmd:"" help:"Apply a code action and print or write the result"`
	Scan    ScanCmd    `cmd:"" help:"Report every code action offered in files or directories"`
	MCP     MCPCmd     `cmd:"" name:"mcp" help:"Serve the code actions as MCP tools over stdio"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

func (cmd *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "refactor v%s\n", version)
	return err
}

func colorEnabled(noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("refactor"),
		kong.Description("Pipeline and inline refactorings for .lang sources."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.Verbose {
		cfg.Log.Level = "debug"
	}

	colored := colorEnabled(CLI.NoColor)
	color.NoColor = !colored

	appCtx := &Context{
		Config:  cfg,
		Logger:  config.NewLogger(os.Stderr, cfg),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Colored: colored,
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
