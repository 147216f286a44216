package config

import (
	"path/filepath"
	"strings"
)

const SourceFileExt = ".lang"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".lang"}

// ConfigFileName is looked up in the workspace root by the server.
const ConfigFileName = ".refactorls.yaml"

// Code action ids, carried in deferred action data and accepted by the CLI.
const (
	PipelineActionID = "pipeline"
	InlineActionID   = "inline_variable"
)

// Code action titles shown by editors.
const (
	PipelineActionTitle = "Apply Pipeline Rewrite"
	InlineActionTitle   = "Inline Variable Refactor"
)

// ActionIDs lists every known action id in display order.
var ActionIDs = []string{PipelineActionID, InlineActionID}

// IsSourceFile reports whether path has a recognized source extension.
func IsSourceFile(path string) bool {
	base := filepath.Base(path)
	for _, ext := range SourceFileExtensions {
		if base != ext && strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}
