package config

import (
	"os"
	"path/filepath"
	"testing"

	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
)

const sampleSettings = `provider: ollama
providers:
  ollama:
    model: llama3.2
    baseURL: http://localhost:11434
  openai:
    apiKey: ${WORKFLOW_TEST_OPENAI_KEY}
    model: gpt-4o
`

func TestLoader_Parse(t *testing.T) {
	t.Run("parses provider records", func(t *testing.T) {
		settings, err := NewLoader().Parse([]byte(sampleSettings))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}

		if settings.Provider != domainprovider.KeyOllama {
			t.Errorf("Provider = %s, want ollama", settings.Provider)
		}
		active, err := settings.Active()
		if err != nil {
			t.Fatalf("Active() error = %v", err)
		}
		if active.Model != "llama3.2" {
			t.Errorf("Model = %s, want llama3.2", active.Model)
		}
	})

	t.Run("expands environment variables", func(t *testing.T) {
		t.Setenv("WORKFLOW_TEST_OPENAI_KEY", "sk-from-env")

		settings, err := NewLoader().Parse([]byte(sampleSettings))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if got := settings.Providers[domainprovider.KeyOpenAI].APIKey; got != "sk-from-env" {
			t.Errorf("APIKey = %q, want sk-from-env", got)
		}
	})

	t.Run("default value for unset variable", func(t *testing.T) {
		settings, err := NewLoader().Parse([]byte(`provider: ollama
providers:
  ollama:
    model: ${WORKFLOW_TEST_UNSET_MODEL:-llama3.2}
`))
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if got := settings.Providers[domainprovider.KeyOllama].Model; got != "llama3.2" {
			t.Errorf("Model = %q, want default applied", got)
		}
	})

	t.Run("strict mode reports missing variables", func(t *testing.T) {
		loader := &Loader{ExpandEnv: true, StrictEnv: true}
		_, err := loader.Parse([]byte(sampleSettings))
		if os.Getenv("WORKFLOW_TEST_OPENAI_KEY") == "" && err == nil {
			t.Error("Parse() = nil, want missing-variable error in strict mode")
		}
	})

	t.Run("rejects unknown provider", func(t *testing.T) {
		_, err := NewLoader().Parse([]byte("provider: palm\nproviders: {}\n"))
		if err == nil {
			t.Error("Parse() = nil, want error for unknown provider")
		}
	})

	t.Run("rejects missing active record", func(t *testing.T) {
		_, err := NewLoader().Parse([]byte("provider: openai\nproviders: {}\n"))
		if err == nil {
			t.Error("Parse() = nil, want error for missing record")
		}
	})
}

func TestLoader_Load(t *testing.T) {
	t.Run("reads from file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "settings.yaml")
		if err := os.WriteFile(path, []byte(sampleSettings), 0o600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		settings, err := NewLoader().Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if settings.Provider != domainprovider.KeyOllama {
			t.Errorf("Provider = %s, want ollama", settings.Provider)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("Load() = nil, want error")
		}
	})
}
