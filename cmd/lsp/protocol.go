package main

import (
	"github.com/tliron/glsp/protocol_3_16"
)

// LSP Message structures
type RequestMessage struct {
	Jsonrpc string      `json:"jsonrpc"`
	ID      interface{} `json:"id,omitempty"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type ResponseMessage struct {
	Jsonrpc string      `json:"jsonrpc"`
	ID      interface{} `json:"id,omitempty"`
	// Result must be present (even if null) on success. Error must be present on error.
	Result interface{} `json:"result"`
	Error  *Error      `json:"error,omitempty"`
}

type NotificationMessage struct {
	Jsonrpc string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC and LSP error codes
const (
	CodeParseError      = -32700
	CodeInvalidRequest  = -32600
	CodeMethodNotFound  = -32601
	CodeInvalidParams   = -32602
	CodeInternalError   = -32603
	CodeContentModified = -32801
)

// LSP specific types
type InitializeParams struct {
	ProcessID    *int                        `json:"processId,omitempty"`
	RootURI      *protocol.DocumentUri       `json:"rootUri,omitempty"`
	RootPath     *string                     `json:"rootPath,omitempty"`
	Capabilities protocol.ClientCapabilities `json:"capabilities"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo        `json:"serverInfo,omitempty"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type ServerCapabilities struct {
	TextDocumentSync   int                `json:"textDocumentSync"`
	CodeActionProvider *CodeActionOptions `json:"codeActionProvider,omitempty"`
}

type CodeActionOptions struct {
	CodeActionKinds []protocol.CodeActionKind `json:"codeActionKinds"`
	ResolveProvider bool                      `json:"resolveProvider"`
}

// TextDocument synchronization
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type TextDocumentItem struct {
	URI        protocol.DocumentUri `json:"uri"`
	LanguageID string               `json:"languageId"`
	Version    protocol.Integer     `json:"version"`
	Text       string               `json:"text"`
}

type VersionedTextDocumentIdentifier struct {
	URI     protocol.DocumentUri `json:"uri"`
	Version protocol.Integer     `json:"version"`
}

type TextDocumentIdentifier struct {
	URI protocol.DocumentUri `json:"uri"`
}

// Only full content changes are accepted; Range is set for incremental
// changes and rejected.
type TextDocumentContentChangeEvent struct {
	Range *protocol.Range `json:"range,omitempty"`
	Text  string          `json:"text"`
}

// PublishDiagnostics
type PublishDiagnosticsParams struct {
	URI         protocol.DocumentUri `json:"uri"`
	Version     *protocol.Integer    `json:"version,omitempty"`
	Diagnostics []Diagnostic         `json:"diagnostics"`
}

type Diagnostic struct {
	Range    protocol.Range     `json:"range"`
	Severity DiagnosticSeverity `json:"severity"`
	Code     interface{}        `json:"code,omitempty"`
	Message  string             `json:"message"`
	Source   string             `json:"source"`
}

type DiagnosticSeverity int

const (
	SeverityError   DiagnosticSeverity = 1
	SeverityWarning DiagnosticSeverity = 2
	SeverityInfo    DiagnosticSeverity = 3
	SeverityHint    DiagnosticSeverity = 4
)
