package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tliron/glsp/protocol_3_16"

	"github.com/funvibe/refactorls/internal/codeaction"
	"github.com/funvibe/refactorls/internal/lines"
)

func (s *LanguageServer) handleCodeAction(id interface{}, content []byte) error {
	var params protocol.CodeActionParams
	if err := json.Unmarshal(content, &RequestMessage{Params: &params}); err != nil {
		return s.sendError(id, CodeInvalidParams, err.Error())
	}

	snap, ok := s.store.Get(params.TextDocument.URI)
	if !ok {
		return s.sendError(id, CodeInvalidParams, fmt.Sprintf("document %s is not open", params.TextDocument.URI))
	}

	actions, err := s.currentEngine().CodeActions(snap, &params)
	if err != nil {
		return s.sendError(id, errorCode(err), err.Error())
	}
	if actions == nil {
		actions = []protocol.CodeAction{}
	}
	return s.sendResult(id, actions)
}

func (s *LanguageServer) handleCodeActionResolve(id interface{}, content []byte) error {
	var action protocol.CodeAction
	if err := json.Unmarshal(content, &RequestMessage{Params: &action}); err != nil {
		return s.sendError(id, CodeInvalidParams, err.Error())
	}

	resolved, snap, err := s.currentEngine().ResolveFrom(s.store, action)
	if err != nil {
		return s.sendError(id, errorCode(err), err.Error())
	}
	s.logger.Debug("lsp.resolve", "uri", snap.URI, "snapshot", snap.ID)
	return s.sendResult(id, resolved)
}

// errorCode maps engine errors to JSON-RPC error codes.
func errorCode(err error) int {
	switch {
	case errors.Is(err, lines.ErrOutOfRange), errors.Is(err, codeaction.ErrBadData), errors.Is(err, codeaction.ErrUnknownAction):
		return CodeInvalidParams
	case errors.Is(err, codeaction.ErrStale):
		return CodeContentModified
	}
	return CodeInternalError
}
