package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/workflow-go/domain/workflow"
)

// Tracker follows one run's status through the chart and rejects reply
// transitions the protocol does not allow.
type Tracker struct {
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewTracker creates a tracker starting in the running status.
func NewTracker(runID string) (*Tracker, error) {
	machine, err := NewStatusMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to build status machine: %w", err)
	}

	ctx := &Context{RunID: runID}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	interp.Start()

	return &Tracker{interp: interp, ctx: ctx}, nil
}

// Current returns the tracked status.
func (t *Tracker) Current() workflow.Status {
	return workflow.Status(t.interp.State().Value)
}

// Accept applies a reply-claimed status. A claim of "error", any move out of
// a terminal status, or an unknown status is rejected with
// workflow.ErrInvalidTransition and leaves the tracker unchanged.
func (t *Tracker) Accept(to workflow.Status) error {
	from := t.Current()
	if !CanAccept(from, to) {
		return fmt.Errorf("%w: %s to %s", workflow.ErrInvalidTransition, from, to)
	}

	t.interp.Send(statekit.Event{Type: EventForStatus(to)})
	return nil
}

// Fail forces the error status. Only the loop driver calls this, when a
// turn's provider call failed.
func (t *Tracker) Fail() {
	if t.Current().IsTerminal() {
		return
	}
	t.interp.Send(statekit.Event{Type: EventForStatus(workflow.StatusError)})
}
