package main

import (
	"os"
	"path/filepath"

	"github.com/funvibe/refactorls/internal/codeaction"
	"github.com/funvibe/refactorls/internal/config"
	"github.com/funvibe/refactorls/internal/snapshot"
)

const serverName = "refactorls"

func (s *LanguageServer) handleInitialize(id interface{}, params InitializeParams) error {
	s.mu.Lock()
	if params.RootURI != nil && *params.RootURI != "" {
		s.rootPath = snapshot.PathFromURI(*params.RootURI)
	} else if params.RootPath != nil && *params.RootPath != "" {
		s.rootPath = *params.RootPath
	}
	if s.rootPath != "" && hasConfig(s.rootPath) {
		cfg, err := config.LoadDir(s.rootPath)
		if err != nil {
			s.logger.Warn("config.load", "root", s.rootPath, "err", err)
		} else {
			s.cfg = cfg
			s.engine = codeaction.NewEngine(cfg, s.logger)
		}
	}
	s.engine.SetClientCapabilities(&params.Capabilities)
	deferred := s.engine.Deferred()
	s.mu.Unlock()

	s.logger.Info("server.initialize", "root", s.rootPath, "deferred", deferred)

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: 1, // Full sync
			CodeActionProvider: &CodeActionOptions{
				CodeActionKinds: codeaction.Kinds(),
				ResolveProvider: true,
			},
		},
		ServerInfo: &ServerInfo{Name: serverName},
	}
	return s.sendResult(id, result)
}

func (s *LanguageServer) handleShutdown(id interface{}) error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()
	return s.sendResult(id, nil)
}

// hasConfig reports whether the workspace carries its own config file, which
// then takes precedence over the one the server was started with.
func hasConfig(root string) bool {
	_, err := os.Stat(filepath.Join(root, config.ConfigFileName))
	return err == nil
}
