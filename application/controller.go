// Package application provides the application layer for the workflow
// runtime: the per-turn iteration controller and the loop driver that calls
// it until a terminal status or the iteration budget is reached.
package application

import (
	"context"
	"fmt"

	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
	"github.com/felixgeelhaar/workflow-go/domain/workflow"
	"github.com/felixgeelhaar/workflow-go/infrastructure/logging"
	"github.com/felixgeelhaar/workflow-go/infrastructure/prompt"
	"github.com/felixgeelhaar/workflow-go/infrastructure/provider"
	"github.com/felixgeelhaar/workflow-go/infrastructure/rag"
)

// MsgNoKnowledgeDocument is written to notes when the model requests a
// search but no knowledge document has been provided for this workflow.
const MsgNoKnowledgeDocument = "A search was requested, but no knowledge document has been provided for this workflow."

// searchCompletedFormat names the query and points at the results artifact.
const searchCompletedFormat = "I have completed the requested search for %q. The findings are stored in the %q artifact."

// Controller runs exactly one workflow turn: render the prompt, call the
// selected provider once, reconcile the reply against the previous state,
// and resolve any pending search request. It never retries and never touches
// the caller's input state.
type Controller struct {
	registry *provider.Registry
	builder  *prompt.Builder
}

// NewController creates a controller over the given adapter registry.
func NewController(registry *provider.Registry) *Controller {
	return &Controller{
		registry: registry,
		builder:  prompt.NewBuilder(),
	}
}

// RunIteration performs one turn against the active provider and returns the
// reply state. Any configuration, transport, or parse failure propagates to
// the caller untouched; the input state is never modified, so a failed turn
// leaves the caller's last-known-good state intact.
func (c *Controller) RunIteration(ctx context.Context, state *workflow.State, settings domainprovider.LLMSettings, ragContent string) (*workflow.State, error) {
	cfg, err := settings.Active()
	if err != nil {
		return nil, err
	}

	adapter, err := c.registry.Lookup(settings.Provider)
	if err != nil {
		return nil, err
	}

	rendered, err := c.builder.Build(state, ragContent != "")
	if err != nil {
		return nil, fmt.Errorf("failed to render prompt: %w", err)
	}

	reply, err := adapter.Call(ctx, provider.Request{State: state, Prompt: rendered}, cfg)
	if err != nil {
		return nil, err
	}

	for _, v := range workflow.Reconcile(state, reply) {
		logging.Warn().
			Add(logging.Provider(settings.Provider)).
			Add(logging.Iteration(state.CurrentIteration)).
			Add(logging.Violation(v)).
			Msg("reply violated a state invariant, reconciled")
	}

	c.resolveSearch(reply, ragContent)

	return reply, nil
}

// resolveSearch consumes a pending rag_query artifact. The query artifact is
// removed unconditionally; results are only produced when a knowledge
// document was supplied.
func (c *Controller) resolveSearch(reply *workflow.State, ragContent string) {
	query, ok := reply.State.Artifact(workflow.ArtifactRAGQuery)
	if !ok {
		return
	}
	reply.State.RemoveArtifact(workflow.ArtifactRAGQuery)

	if ragContent == "" {
		reply.State.Notes = MsgNoKnowledgeDocument
		logging.Debug().
			Add(logging.Query(query)).
			Msg("search requested without a knowledge document")
		return
	}

	results := rag.Search(query, ragContent)
	reply.State.SetArtifact(workflow.ArtifactRAGResults, results)
	reply.State.Notes = fmt.Sprintf(searchCompletedFormat, query, workflow.ArtifactRAGResults)

	logging.Debug().
		Add(logging.Query(query)).
		Msg("resolved search request against the knowledge document")
}
