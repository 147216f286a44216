package main

import (
	"os"

	"github.com/funvibe/refactorls/internal/config"
)

func main() {
	cfg := config.Default()
	if path := os.Getenv("REFACTORLS_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			config.NewLogger(os.Stderr, cfg).Error("config.load", "path", path, "err", err)
			os.Exit(2)
		}
		cfg = loaded
	}

	// Log to stderr, not stdout (stdout is for LSP protocol)
	logger := config.NewLogger(os.Stderr, cfg)

	server := NewLanguageServer(os.Stdout, cfg, logger)
	server.Start()
}
