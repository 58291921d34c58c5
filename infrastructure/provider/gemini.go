package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
	"github.com/felixgeelhaar/workflow-go/domain/workflow"
	"github.com/felixgeelhaar/workflow-go/infrastructure/ratelimit"
)

// Gemini is the structured-schema adapter: it requests a JSON reply
// validated against the workflow state schema and throttles calls through a
// process-wide rate limiter protecting the provider's global quota.
type Gemini struct {
	client  *http.Client
	limiter func(requestsPerMinute int) *ratelimit.Limiter
}

// geminiDefaultBaseURL is the production endpoint.
const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com"

// geminiTemperature is the fixed sampling temperature for workflow turns.
const geminiTemperature = 0.7

// NewGemini creates the Gemini adapter backed by the shared process-wide
// rate limiter.
func NewGemini() *Gemini {
	return &Gemini{
		client: &http.Client{},
		limiter: func(rpm int) *ratelimit.Limiter {
			return ratelimit.Shared(domainprovider.KeyGemini, rpm)
		},
	}
}

// NewGeminiWithLimiter creates the adapter with an injected limiter.
func NewGeminiWithLimiter(l *ratelimit.Limiter) *Gemini {
	return &Gemini{
		client:  &http.Client{},
		limiter: func(int) *ratelimit.Limiter { return l },
	}
}

// Name returns the provider key.
func (g *Gemini) Name() domainprovider.Key {
	return domainprovider.KeyGemini
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float64         `json:"temperature"`
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// geminiResponseSchema mirrors the workflow state shape in the provider's
// OpenAPI-style schema dialect (no $schema keyword, uppercase type names
// are not required; the subset below is accepted).
const geminiResponseSchema = `{
  "type": "object",
  "properties": {
    "goal": {"type": "string"},
    "maxIterations": {"type": "integer"},
    "currentIteration": {"type": "integer"},
    "status": {"type": "string"},
    "runLog": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "iteration": {"type": "integer"},
          "agent": {"type": "string"},
          "summary": {"type": "string"}
        },
        "required": ["iteration", "agent", "summary"]
      }
    },
    "state": {
      "type": "object",
      "properties": {
        "goal": {"type": "string"},
        "steps": {"type": "array", "items": {"type": "string"}},
        "initialPlan": {"type": "array", "items": {"type": "string"}},
        "artifacts": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "key": {"type": "string"},
              "value": {"type": "string"}
            },
            "required": ["key", "value"]
          }
        },
        "notes": {"type": "string"},
        "progress": {"type": "string"}
      },
      "required": ["goal", "steps", "artifacts", "notes", "progress"]
    },
    "finalResultMarkdown": {"type": "string"},
    "finalResultSummary": {"type": "string"},
    "resultType": {"type": "string"}
  },
  "required": ["goal", "maxIterations", "currentIteration", "status", "runLog", "state", "finalResultMarkdown", "finalResultSummary"]
}`

// Call implements the Adapter interface.
func (g *Gemini) Call(ctx context.Context, req Request, cfg domainprovider.Settings) (*workflow.State, error) {
	if cfg.APIKey == "" {
		return nil, &domainprovider.ConfigurationError{Provider: g.Name(), Field: "apiKey"}
	}
	if cfg.Model == "" {
		return nil, &domainprovider.ConfigurationError{Provider: g.Name(), Field: "model"}
	}

	if err := g.limiter(cfg.RequestsPerMinute).Wait(ctx); err != nil {
		return nil, &domainprovider.TransportError{Provider: g.Name(), Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout(cfg))
	defer cancel()

	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      geminiTemperature,
			ResponseMimeType: "application/json",
			ResponseSchema:   json.RawMessage(geminiResponseSchema),
		},
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL(cfg), cfg.Model, cfg.APIKey)
	body, err := send(ctx, g.client, g.Name(), http.MethodPost, url, nil, payload)
	if err != nil {
		return nil, err
	}

	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, parseError(g.Name(), "http_body", body, err)
	}
	if len(resp.Candidates) == 0 {
		return nil, parseError(g.Name(), "http_body", body, errors.New("no candidates in response"))
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	return decodeState(g.Name(), "candidate_text", []byte(text.String()))
}

// TestConnection probes the list-models endpoint and expects a models array.
func (g *Gemini) TestConnection(ctx context.Context, cfg domainprovider.Settings) error {
	if cfg.APIKey == "" {
		return &domainprovider.ConfigurationError{Provider: g.Name(), Field: "apiKey"}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout(cfg))
	defer cancel()

	url := fmt.Sprintf("%s/v1beta/models?key=%s", g.baseURL(cfg), cfg.APIKey)
	body, err := send(ctx, g.client, g.Name(), http.MethodGet, url, nil, nil)
	if err != nil {
		return err
	}

	var resp struct {
		Models []json.RawMessage `json:"models"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return parseError(g.Name(), "http_body", body, err)
	}
	if resp.Models == nil {
		return parseError(g.Name(), "http_body", body, errors.New("reply has no models array"))
	}
	return nil
}

func (g *Gemini) baseURL(cfg domainprovider.Settings) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	return geminiDefaultBaseURL
}
