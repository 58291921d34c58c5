// Package config provides configuration loading and parsing for workflow-go.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
)

// Loader loads LLM settings from YAML files.
type Loader struct {
	// ExpandEnv enables environment variable expansion.
	ExpandEnv bool
	// StrictEnv fails if referenced env vars are missing.
	StrictEnv bool
}

// NewLoader creates a configuration loader with default settings.
func NewLoader() *Loader {
	return &Loader{ExpandEnv: true}
}

// LoaderOption configures the loader.
type LoaderOption func(*Loader)

// WithEnvExpansion enables or disables environment variable expansion.
func WithEnvExpansion(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.ExpandEnv = enabled
	}
}

// WithStrictEnv enables strict environment variable checking.
func WithStrictEnv(enabled bool) LoaderOption {
	return func(l *Loader) {
		l.StrictEnv = enabled
	}
}

// Load reads, expands and parses a settings file.
func (l *Loader) Load(path string, opts ...LoaderOption) (*domainprovider.LLMSettings, error) {
	for _, opt := range opts {
		opt(l)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	return l.Parse(data)
}

// Parse expands and parses raw YAML settings.
func (l *Loader) Parse(data []byte) (*domainprovider.LLMSettings, error) {
	text := string(data)

	if l.ExpandEnv {
		expander := &envExpander{strict: l.StrictEnv}
		expanded, err := expander.Expand(text)
		if err != nil {
			return nil, fmt.Errorf("failed to expand settings: %w", err)
		}
		text = expanded
	}

	var settings domainprovider.LLMSettings
	if err := yaml.Unmarshal([]byte(text), &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if !settings.Provider.IsValid() {
		return nil, &domainprovider.UnsupportedProviderError{Provider: settings.Provider}
	}
	if _, err := settings.Active(); err != nil {
		return nil, err
	}

	return &settings, nil
}
