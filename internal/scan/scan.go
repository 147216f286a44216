// Package scan runs the code action engine over whole files and
// directories, reporting every refactoring offered in each function.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/tliron/glsp/protocol_3_16"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/codeaction"
	"github.com/funvibe/refactorls/internal/config"
	"github.com/funvibe/refactorls/internal/snapshot"
)

// Finding is one offered action. Line and Column are 1-based, the column
// counted in UTF-16 code units.
type Finding struct {
	Function string `json:"function"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Action   string `json:"action"`
	Title    string `json:"title"`
}

// FileReport holds the findings and front-end diagnostics of one file.
type FileReport struct {
	Path     string             `json:"path"`
	Findings []Finding          `json:"findings"`
	Problems []string           `json:"diagnostics,omitempty"`
	Snapshot *snapshot.Snapshot `json:"-"`
}

// Files expands paths into the sorted set of source files they name.
// Directories are walked recursively; hidden directories are skipped.
func Files(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && len(d.Name()) > 1 && d.Name()[0] == '.' {
					return filepath.SkipDir
				}
				return nil
			}
			if config.IsSourceFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Run scans files in parallel, at most one per CPU. Reports are returned in
// the order of files.
func Run(ctx context.Context, engine *codeaction.Engine, files []string) ([]*FileReport, error) {
	reports := make([]*FileReport, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			snap := snapshot.New(snapshot.URIFromPath(path), 0, string(data))
			report, err := File(engine, snap)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			report.Path = path
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// File reports the actions offered in snap. The cursor is tried at the
// start of every call, let statement and local variable; an action whose
// edits were already reported from another cursor is listed once.
func File(engine *codeaction.Engine, snap *snapshot.Snapshot) (*FileReport, error) {
	report := &FileReport{Path: snap.Path, Snapshot: snap, Findings: []Finding{}}
	for _, d := range snap.Diagnostics {
		report.Problems = append(report.Problems, d.Error())
	}
	if snap.Module == nil {
		return report, nil
	}

	for _, fn := range snap.Module.Functions {
		seen := make(map[string]bool)
		for _, offset := range cursors(fn) {
			line, col, err := snap.Lines.Position(offset)
			if err != nil {
				return nil, err
			}
			pos := protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
			actions, err := engine.CodeActions(snap, &protocol.CodeActionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: snap.URI},
				Range:        protocol.Range{Start: pos, End: pos},
			})
			if err != nil {
				return nil, err
			}
			for _, ca := range actions {
				key := actionKey(ca)
				if seen[key] {
					continue
				}
				seen[key] = true
				report.Findings = append(report.Findings, Finding{
					Function: fn.Name,
					Line:     line + 1,
					Column:   col + 1,
					Action:   codeaction.IDOf(ca),
					Title:    ca.Title,
				})
			}
		}
	}
	return report, nil
}

func cursors(fn *ast.Function) []int {
	var out []int
	ast.Inspect(fn, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Call, *ast.Assignment:
			out = append(out, n.Location().Start)
		case *ast.Var:
			if n.Ref.Kind == ast.RefLocal {
				out = append(out, n.Loc.Start)
			}
		}
		return true
	})
	return out
}

// actionKey identifies an action by its edits, or by its deferred target
// when it carries none.
func actionKey(ca protocol.CodeAction) string {
	key := ca.Title
	if ca.Edit == nil {
		if d, ok := ca.Data.(*codeaction.Data); ok {
			return fmt.Sprintf("%s@%v", key, d.Params.Range)
		}
		return key
	}
	for _, edits := range ca.Edit.Changes {
		for _, e := range edits {
			key += fmt.Sprintf("|%v:%q", e.Range, e.NewText)
		}
	}
	return key
}
