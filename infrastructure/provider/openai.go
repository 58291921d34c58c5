package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
	"github.com/felixgeelhaar/workflow-go/domain/workflow"
)

// OpenAICompatible serves every provider speaking the OpenAI chat
// completions wire format. The named services differ only in key and
// default endpoint; one adapter instance is registered per key.
type OpenAICompatible struct {
	key            domainprovider.Key
	defaultBaseURL string
	client         *http.Client
}

// Default endpoints for the OpenAI-wire family.
var openAIWireDefaults = map[domainprovider.Key]string{
	domainprovider.KeyOpenAI:     "https://api.openai.com/v1",
	domainprovider.KeyGroq:       "https://api.groq.com/openai/v1",
	domainprovider.KeyDeepSeek:   "https://api.deepseek.com/v1",
	domainprovider.KeyMistral:    "https://api.mistral.ai/v1",
	domainprovider.KeyOpenRouter: "https://openrouter.ai/api/v1",
}

// NewOpenAICompatible creates an adapter for one OpenAI-wire service.
func NewOpenAICompatible(key domainprovider.Key) *OpenAICompatible {
	return &OpenAICompatible{
		key:            key,
		defaultBaseURL: openAIWireDefaults[key],
		client:         &http.Client{},
	}
}

// Name returns the provider key.
func (p *OpenAICompatible) Name() domainprovider.Key {
	return p.key
}

type openAIChatRequest struct {
	Model          string               `json:"model"`
	Messages       []openAIMessage      `json:"messages"`
	ResponseFormat openAIResponseFormat `json:"response_format"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Call implements the Adapter interface. The full prompt travels as a single
// system-role message and the reply state is nested at
// choices[0].message.content, itself a JSON string needing a second parse.
func (p *OpenAICompatible) Call(ctx context.Context, req Request, cfg domainprovider.Settings) (*workflow.State, error) {
	if cfg.APIKey == "" {
		return nil, &domainprovider.ConfigurationError{Provider: p.key, Field: "apiKey"}
	}
	if cfg.Model == "" {
		return nil, &domainprovider.ConfigurationError{Provider: p.key, Field: "model"}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout(cfg))
	defer cancel()

	payload := openAIChatRequest{
		Model: cfg.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: req.Prompt},
		},
		ResponseFormat: openAIResponseFormat{Type: "json_object"},
	}

	headers := map[string]string{"Authorization": "Bearer " + cfg.APIKey}
	body, err := send(ctx, p.client, p.key, http.MethodPost, p.baseURL(cfg)+"/chat/completions", headers, payload)
	if err != nil {
		return nil, err
	}

	var resp openAIChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseError(p.key, "http_body", body, err)
	}
	if len(resp.Choices) == 0 {
		return nil, parseError(p.key, "http_body", body, errors.New("no choices in response"))
	}

	return decodeState(p.key, "message_content", []byte(resp.Choices[0].Message.Content))
}

// TestConnection probes the list-models endpoint; any non-2xx is a failure.
func (p *OpenAICompatible) TestConnection(ctx context.Context, cfg domainprovider.Settings) error {
	if cfg.APIKey == "" {
		return &domainprovider.ConfigurationError{Provider: p.key, Field: "apiKey"}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout(cfg))
	defer cancel()

	headers := map[string]string{"Authorization": "Bearer " + cfg.APIKey}
	_, err := send(ctx, p.client, p.key, http.MethodGet, p.baseURL(cfg)+"/models", headers, nil)
	return err
}

func (p *OpenAICompatible) baseURL(cfg domainprovider.Settings) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	return p.defaultBaseURL
}
