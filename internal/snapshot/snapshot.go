// Package snapshot holds the immutable per-document state that every code
// action request reads from: source text, typed module, Position Index and
// front-end diagnostics.
package snapshot

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tliron/glsp/protocol_3_16"
	"github.com/zeebo/xxh3"

	"github.com/funvibe/refactorls/internal/analyzer"
	"github.com/funvibe/refactorls/internal/ast"
	"github.com/funvibe/refactorls/internal/diagnostics"
	"github.com/funvibe/refactorls/internal/lexer"
	"github.com/funvibe/refactorls/internal/lines"
	"github.com/funvibe/refactorls/internal/parser"
	"github.com/funvibe/refactorls/internal/pipeline"
)

// Snapshot is one compiled version of a document. It is never mutated after
// New returns; a content change produces a new Snapshot.
type Snapshot struct {
	ID          uuid.UUID
	URI         protocol.DocumentUri
	Path        string
	Version     protocol.Integer
	Content     string
	Module      *ast.Module
	Lines       *lines.Index
	Fingerprint uint64
	Diagnostics []*diagnostics.DiagnosticError
}

// New compiles content through lexer, parser and analyzer.
func New(uri protocol.DocumentUri, version protocol.Integer, content string) *Snapshot {
	path := PathFromURI(uri)
	ctx := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	).Run(pipeline.NewContext(path, content))

	return &Snapshot{
		ID:          uuid.New(),
		URI:         uri,
		Path:        path,
		Version:     version,
		Content:     content,
		Module:      ctx.Module,
		Lines:       lines.New(content),
		Fingerprint: Fingerprint(content),
		Diagnostics: ctx.Errors,
	}
}

// Fingerprint hashes document content. Deferred code actions carry it so a
// resolve against changed content can be refused.
func Fingerprint(content string) uint64 {
	return xxh3.HashString(content)
}

// PathFromURI converts a file:// URI into a filesystem path. Other URIs are
// returned unchanged.
func PathFromURI(uri protocol.DocumentUri) string {
	s := string(uri)
	if !strings.HasPrefix(s, "file://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return strings.TrimPrefix(s, "file://")
	}
	return filepath.FromSlash(u.Path)
}

// URIFromPath is the inverse of PathFromURI for absolute paths.
func URIFromPath(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return protocol.DocumentUri(u.String())
}
