package main

import (
	"github.com/funvibe/refactorls/internal/snapshot"
)

func (s *LanguageServer) publishDiagnostics(snap *snapshot.Snapshot) error {
	version := snap.Version
	notification := NotificationMessage{
		Jsonrpc: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: PublishDiagnosticsParams{
			URI:         snap.URI,
			Version:     &version,
			Diagnostics: convertDiagnostics(snap),
		},
	}
	return s.sendNotification(notification)
}

func convertDiagnostics(snap *snapshot.Snapshot) []Diagnostic {
	result := make([]Diagnostic, 0, len(snap.Diagnostics))
	for _, err := range snap.Diagnostics {
		rng, rerr := snap.Lines.OffsetRange(err.Token.Offset, err.Token.End)
		if rerr != nil {
			continue
		}
		result = append(result, Diagnostic{
			Range:    rng,
			Severity: SeverityError,
			Code:     string(err.Code),
			Message:  err.Message,
			Source:   serverName,
		})
	}
	return result
}
