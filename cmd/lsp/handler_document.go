package main

import (
	"fmt"
)

func (s *LanguageServer) handleDidOpen(params DidOpenTextDocumentParams) error {
	doc := params.TextDocument
	snap := s.store.Update(doc.URI, doc.Version, doc.Text)
	s.logger.Info("snapshot.publish", "uri", doc.URI, "version", doc.Version, "diagnostics", len(snap.Diagnostics))
	return s.publishDiagnostics(snap)
}

func (s *LanguageServer) handleDidChange(params DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	uri := params.TextDocument.URI
	if _, ok := s.store.Get(uri); !ok {
		return fmt.Errorf("document %s not found", uri)
	}

	// Full sync: the last change carries the whole document.
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if change.Range != nil {
		return fmt.Errorf("document %s: incremental changes are not supported", uri)
	}

	snap := s.store.Update(uri, params.TextDocument.Version, change.Text)
	s.logger.Debug("snapshot.publish", "uri", uri, "version", snap.Version, "diagnostics", len(snap.Diagnostics))
	return s.publishDiagnostics(snap)
}

func (s *LanguageServer) handleDidClose(params DidCloseTextDocumentParams) error {
	s.store.Close(params.TextDocument.URI)
	s.logger.Debug("snapshot.close", "uri", params.TextDocument.URI)
	return nil
}
