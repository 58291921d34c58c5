// Package provider defines the provider-facing domain model: connection
// settings for the supported LLM backends and the typed error taxonomy every
// adapter reports through.
package provider

// Key identifies a supported LLM backend.
type Key string

// Supported provider keys.
const (
	KeyGemini     Key = "gemini"
	KeyOllama     Key = "ollama"
	KeyOpenAI     Key = "openai"
	KeyGroq       Key = "groq"
	KeyDeepSeek   Key = "deepseek"
	KeyMistral    Key = "mistral"
	KeyOpenRouter Key = "openrouter"
	KeyAnthropic  Key = "anthropic"
)

// AllKeys returns every supported provider key.
func AllKeys() []Key {
	return []Key{
		KeyGemini,
		KeyOllama,
		KeyOpenAI,
		KeyGroq,
		KeyDeepSeek,
		KeyMistral,
		KeyOpenRouter,
		KeyAnthropic,
	}
}

// IsValid returns true if the key names a supported provider.
func (k Key) IsValid() bool {
	switch k {
	case KeyGemini, KeyOllama, KeyOpenAI, KeyGroq, KeyDeepSeek, KeyMistral, KeyOpenRouter, KeyAnthropic:
		return true
	default:
		return false
	}
}

// String returns the string form of the key.
func (k Key) String() string {
	return string(k)
}

// Settings is one provider's connection record.
type Settings struct {
	// APIKey is the credential for hosted providers. Local providers leave
	// it empty.
	APIKey string `yaml:"apiKey" json:"apiKey,omitempty"`

	// Model is the model identifier sent on every call.
	Model string `yaml:"model" json:"model"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `yaml:"baseURL" json:"baseURL,omitempty"`

	// RequestsPerMinute caps the call rate for quota-limited providers.
	RequestsPerMinute int `yaml:"requestsPerMinute" json:"requestsPerMinute,omitempty"`

	// TimeoutSeconds bounds each HTTP call (default: 120).
	TimeoutSeconds int `yaml:"timeoutSeconds" json:"timeoutSeconds,omitempty"`
}

// LLMSettings selects the active provider and carries one settings record
// per configured provider.
type LLMSettings struct {
	Provider  Key              `yaml:"provider" json:"provider"`
	Providers map[Key]Settings `yaml:"providers" json:"providers"`
}

// Active resolves the settings record for the selected provider.
func (s LLMSettings) Active() (Settings, error) {
	if !s.Provider.IsValid() {
		return Settings{}, &UnsupportedProviderError{Provider: s.Provider}
	}
	cfg, ok := s.Providers[s.Provider]
	if !ok {
		return Settings{}, &ConfigurationError{Provider: s.Provider, Field: "providers." + string(s.Provider)}
	}
	return cfg, nil
}
