package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
	"github.com/felixgeelhaar/workflow-go/domain/workflow"
	"github.com/felixgeelhaar/workflow-go/infrastructure/prompt"
)

// Anthropic is the message-API adapter. The rendered prompt is split at the
// sentinel heading into system instructions and user state injection, and
// the reply text may wrap the state JSON in prose, so the first balanced
// JSON object is extracted instead of parsing the whole body.
type Anthropic struct {
	client *http.Client
}

const (
	anthropicDefaultBaseURL = "https://api.anthropic.com"
	anthropicAPIVersion     = "2023-06-01"
	anthropicMaxTokens      = 8192
)

// NewAnthropic creates the Anthropic adapter.
func NewAnthropic() *Anthropic {
	return &Anthropic{client: &http.Client{}}
}

// Name returns the provider key.
func (a *Anthropic) Name() domainprovider.Key {
	return domainprovider.KeyAnthropic
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Call implements the Adapter interface.
func (a *Anthropic) Call(ctx context.Context, req Request, cfg domainprovider.Settings) (*workflow.State, error) {
	if cfg.APIKey == "" {
		return nil, &domainprovider.ConfigurationError{Provider: a.Name(), Field: "apiKey"}
	}
	if cfg.Model == "" {
		return nil, &domainprovider.ConfigurationError{Provider: a.Name(), Field: "model"}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout(cfg))
	defer cancel()

	system, user := prompt.Split(req.Prompt)
	payload := anthropicRequest{
		Model:     cfg.Model,
		MaxTokens: anthropicMaxTokens,
		System:    system,
		Messages: []anthropicMessage{
			{Role: "user", Content: user},
		},
	}

	body, err := send(ctx, a.client, a.Name(), http.MethodPost, a.baseURL(cfg)+"/v1/messages", a.headers(cfg), payload)
	if err != nil {
		return nil, err
	}

	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseError(a.Name(), "http_body", body, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, parseError(a.Name(), "http_body", body, errors.New("no text content in response"))
	}

	object, err := extractJSONObject(text.String())
	if err != nil {
		return nil, parseError(a.Name(), "message_text", []byte(text.String()), err)
	}

	return decodeState(a.Name(), "message_text", []byte(object))
}

// TestConnection sends a minimal 1-token completion. A 401 or 403 is a hard
// failure; any other status, including 400, means the credentials were
// accepted.
func (a *Anthropic) TestConnection(ctx context.Context, cfg domainprovider.Settings) error {
	if cfg.APIKey == "" {
		return &domainprovider.ConfigurationError{Provider: a.Name(), Field: "apiKey"}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout(cfg))
	defer cancel()

	payload := anthropicRequest{
		Model:     cfg.Model,
		MaxTokens: 1,
		Messages: []anthropicMessage{
			{Role: "user", Content: "ping"},
		},
	}

	_, err := send(ctx, a.client, a.Name(), http.MethodPost, a.baseURL(cfg)+"/v1/messages", a.headers(cfg), payload)
	if err != nil {
		var transport *domainprovider.TransportError
		if errors.As(err, &transport) && transport.Err == nil {
			if transport.StatusCode == http.StatusUnauthorized || transport.StatusCode == http.StatusForbidden {
				return err
			}
			return nil
		}
		return err
	}
	return nil
}

func (a *Anthropic) headers(cfg domainprovider.Settings) map[string]string {
	return map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": anthropicAPIVersion,
	}
}

func (a *Anthropic) baseURL(cfg domainprovider.Settings) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	return anthropicDefaultBaseURL
}
