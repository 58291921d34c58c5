// Package prompt renders the exact instruction text sent to the LLM for one
// workflow turn.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/workflow-go/domain/workflow"
)

// SentinelHeading separates the static instruction block from the state
// injection. Providers without a combined system+user call split the prompt
// here.
const SentinelHeading = "## CURRENT WORKFLOW STATE"

// DefaultRunLogWindow is how many recent run log entries the prompt keeps.
const DefaultRunLogWindow = 10

// reminderInterval is how often the original plan is restated.
const reminderInterval = 5

// Builder renders prompts. It is a pure function of its inputs and holds no
// hidden state.
type Builder struct {
	runLogWindow int
}

// NewBuilder creates a builder with the default run log window.
func NewBuilder() *Builder {
	return &Builder{runLogWindow: DefaultRunLogWindow}
}

// promptState is the pruned state shape embedded in the prompt. Terminal-only
// fields are omitted entirely: they are irrelevant to the next turn.
type promptState struct {
	Goal             string                 `json:"goal"`
	MaxIterations    int                    `json:"maxIterations"`
	CurrentIteration int                    `json:"currentIteration"`
	Status           workflow.Status        `json:"status"`
	RunLog           []workflow.RunLogEntry `json:"runLog"`
	State            workflow.InternalState `json:"state"`
}

// Build renders the full prompt for one turn. Only the presence of a
// knowledge document matters here, not its content.
func (b *Builder) Build(state *workflow.State, ragAvailable bool) (string, error) {
	var sections []string

	if reminder := b.reminder(state); reminder != "" {
		sections = append(sections, reminder)
	}

	sections = append(sections, operatingInstructions)

	if ragAvailable {
		sections = append(sections, ragInstructions)
	}

	pruned := b.prune(state)
	stateJSON, err := json.MarshalIndent(pruned, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal state: %w", err)
	}

	sections = append(sections, fmt.Sprintf("%s\n\n```json\n%s\n```\n\nCurrent iteration: %d of %d.",
		SentinelHeading, stateJSON, state.CurrentIteration, state.MaxIterations))

	return strings.Join(sections, "\n\n"), nil
}

// reminder restates the goal and the numbered initial plan every fifth
// iteration, bounding context drift on long runs without re-sending the full
// plan every turn.
func (b *Builder) reminder(state *workflow.State) string {
	if state.CurrentIteration == 0 || state.CurrentIteration%reminderInterval != 0 {
		return ""
	}
	if len(state.State.InitialPlan) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(reminderHeading)
	sb.WriteString("\n\nThe original goal of this workflow is: ")
	sb.WriteString(state.Goal)
	sb.WriteString("\n\nThe initial plan was:\n")
	for i, step := range state.State.InitialPlan {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// prune deep-copies the state, truncates the run log to the most recent
// window, and drops terminal-only fields.
func (b *Builder) prune(state *workflow.State) promptState {
	c := state.Clone()

	runLog := c.RunLog
	if len(runLog) > b.runLogWindow {
		runLog = runLog[len(runLog)-b.runLogWindow:]
	}

	return promptState{
		Goal:             c.Goal,
		MaxIterations:    c.MaxIterations,
		CurrentIteration: c.CurrentIteration,
		Status:           c.Status,
		RunLog:           runLog,
		State:            c.State,
	}
}

// Split divides a rendered prompt at the sentinel heading into the
// instruction block and the state block. Providers that separate system and
// user content use the two halves; if the sentinel is missing the whole
// prompt is returned as the user half.
func Split(rendered string) (system, user string) {
	idx := strings.Index(rendered, SentinelHeading)
	if idx < 0 {
		return "", rendered
	}
	return strings.TrimSpace(rendered[:idx]), strings.TrimSpace(rendered[idx:])
}
