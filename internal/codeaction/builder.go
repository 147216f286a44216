package codeaction

import (
	"github.com/tliron/glsp/protocol_3_16"
)

// Builder assembles a protocol.CodeAction.
type Builder struct {
	action protocol.CodeAction
}

func NewBuilder(title string) *Builder {
	return &Builder{action: protocol.CodeAction{Title: title}}
}

func (b *Builder) Kind(kind protocol.CodeActionKind) *Builder {
	b.action.Kind = &kind
	return b
}

// Changes attaches edits for a single document.
func (b *Builder) Changes(uri protocol.DocumentUri, edits []protocol.TextEdit) *Builder {
	b.action.Edit = &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: edits},
	}
	return b
}

func (b *Builder) Preferred(preferred bool) *Builder {
	b.action.IsPreferred = &preferred
	return b
}

// Data attaches the handle used by codeAction/resolve.
func (b *Builder) Data(data *Data) *Builder {
	b.action.Data = data
	return b
}

func (b *Builder) Build() protocol.CodeAction {
	return b.action
}
