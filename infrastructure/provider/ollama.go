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

// Ollama is the local generate-style adapter. The HTTP body wraps the state
// JSON inside a "response" string field, so the reply is decoded twice.
type Ollama struct {
	client *http.Client
}

// ollamaDefaultBaseURL is the default local endpoint.
const ollamaDefaultBaseURL = "http://localhost:11434"

// NewOllama creates the Ollama adapter.
func NewOllama() *Ollama {
	return &Ollama{client: &http.Client{}}
}

// Name returns the provider key.
func (o *Ollama) Name() domainprovider.Key {
	return domainprovider.KeyOllama
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Format string `json:"format"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// Call implements the Adapter interface.
func (o *Ollama) Call(ctx context.Context, req Request, cfg domainprovider.Settings) (*workflow.State, error) {
	if cfg.Model == "" {
		return nil, &domainprovider.ConfigurationError{Provider: o.Name(), Field: "model"}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout(cfg))
	defer cancel()

	payload := ollamaGenerateRequest{
		Model:  cfg.Model,
		Prompt: req.Prompt,
		Format: "json",
		Stream: false,
	}

	body, err := send(ctx, o.client, o.Name(), http.MethodPost, o.baseURL(cfg)+"/api/generate", nil, payload)
	if err != nil {
		return nil, err
	}

	var resp ollamaGenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseError(o.Name(), "http_body", body, err)
	}
	if resp.Response == "" {
		return nil, parseError(o.Name(), "http_body", body, errors.New("reply has no response field"))
	}

	return decodeState(o.Name(), "response_field", []byte(resp.Response))
}

// TestConnection probes the list-models endpoint and expects a models array.
func (o *Ollama) TestConnection(ctx context.Context, cfg domainprovider.Settings) error {
	ctx, cancel := context.WithTimeout(ctx, callTimeout(cfg))
	defer cancel()

	body, err := send(ctx, o.client, o.Name(), http.MethodGet, o.baseURL(cfg)+"/api/tags", nil, nil)
	if err != nil {
		return err
	}

	var resp struct {
		Models []json.RawMessage `json:"models"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return parseError(o.Name(), "http_body", body, err)
	}
	if resp.Models == nil {
		return parseError(o.Name(), "http_body", body, errors.New("reply has no models array"))
	}
	return nil
}

func (o *Ollama) baseURL(cfg domainprovider.Settings) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	return ollamaDefaultBaseURL
}
