// Package provider implements the LLM wire adapters. Each adapter translates
// the rendered workflow prompt into one provider's HTTP protocol and parses
// the reply back into a workflow state, reporting failures through the typed
// error taxonomy of the provider domain package.
package provider

import (
	"context"
	"time"

	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
	"github.com/felixgeelhaar/workflow-go/domain/workflow"
)

// Request is the normalized input for one provider call.
type Request struct {
	// State is the workflow state the prompt was rendered from.
	State *workflow.State

	// Prompt is the fully rendered instruction text for this turn.
	Prompt string
}

// Adapter is the shared contract every wire family implements. Call performs
// exactly one outbound HTTP request and never retries; retry policy belongs
// to the loop driver.
type Adapter interface {
	// Name returns the provider key this adapter serves.
	Name() domainprovider.Key

	// Call sends one turn and returns the parsed reply state.
	Call(ctx context.Context, req Request, cfg domainprovider.Settings) (*workflow.State, error)

	// TestConnection probes the provider endpoint with the configured
	// credentials without running a workflow turn.
	TestConnection(ctx context.Context, cfg domainprovider.Settings) error
}

// defaultTimeout bounds each HTTP call when the settings record sets none.
const defaultTimeout = 120 * time.Second

func callTimeout(cfg domainprovider.Settings) time.Duration {
	if cfg.TimeoutSeconds > 0 {
		return time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return defaultTimeout
}
