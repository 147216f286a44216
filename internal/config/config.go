// Package config loads the .refactorls.yaml settings shared by the language
// server and the CLI, and builds the slog logger they both use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ResolveMode selects whether code actions carry their edits directly or
// defer them to codeAction/resolve.
type ResolveMode string

const (
	// ResolveAuto defers when the client advertises resolve support for "edit".
	ResolveAuto     ResolveMode = "auto"
	ResolveEager    ResolveMode = "eager"
	ResolveDeferred ResolveMode = "deferred"
)

// Config represents the top-level .refactorls.yaml configuration.
type Config struct {
	// Resolve is auto, eager or deferred. Defaults to auto.
	Resolve ResolveMode `yaml:"resolve,omitempty"`

	// Actions toggles each refactoring.
	Actions Actions `yaml:"actions"`

	// Inline tunes the inline refactoring.
	Inline InlineConfig `yaml:"inline"`

	// Log configures the structured logger written to stderr.
	Log LogConfig `yaml:"log"`
}

// Actions enables or disables individual refactorings.
type Actions struct {
	Pipeline bool `yaml:"pipeline"`
	Inline   bool `yaml:"inline"`
}

// InlineConfig holds options for the inline refactoring.
type InlineConfig struct {
	// RemoveDeclarationAlways deletes the let binding when inlining a single
	// use site even though other use sites remain.
	RemoveDeclarationAlways bool `yaml:"remove_declaration_always"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level,omitempty"`

	// Format is text or json.
	Format string `yaml:"format,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Resolve: ResolveAuto,
		Actions: Actions{Pipeline: true, Inline: true},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads and validates the config at path. A missing file yields Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadDir loads ConfigFileName from dir.
func LoadDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, ConfigFileName))
}

// Parse parses YAML config data. Fields absent from data keep their defaults.
func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Resolve == "" {
		c.Resolve = ResolveAuto
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	switch c.Resolve {
	case ResolveAuto, ResolveEager, ResolveDeferred:
	default:
		return fmt.Errorf("resolve: unknown mode %q (want auto, eager or deferred)", c.Resolve)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// Enabled reports whether the action with the given id is switched on.
func (c *Config) Enabled(id string) bool {
	switch id {
	case PipelineActionID:
		return c.Actions.Pipeline
	case InlineActionID:
		return c.Actions.Inline
	}
	return false
}
