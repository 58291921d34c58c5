// Package statemachine provides the statekit statechart that guards which
// status transitions an accepted provider reply may claim.
package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/workflow-go/domain/workflow"
)

// Context carries run identity through the chart for logging.
type Context struct {
	RunID string
}

// Status IDs as StateID type for statekit.
const (
	statusRunning            statekit.StateID = statekit.StateID(workflow.StatusRunning)
	statusCompleted          statekit.StateID = statekit.StateID(workflow.StatusCompleted)
	statusNeedsClarification statekit.StateID = statekit.StateID(workflow.StatusNeedsClarification)
	statusError              statekit.StateID = statekit.StateID(workflow.StatusError)
)

// NewStatusMachine creates the canonical run status chart. A run loops on
// "running" until the QA phase finalizes or escalates; "error" is reachable
// only through the FAIL event, which the loop driver alone raises.
func NewStatusMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("workflow-status").
		WithInitial(statusRunning).
		WithContext(&Context{}).
		WithAction("logEntry", logStatusEntry).
		State(statusRunning).
			OnEntry("logEntry").
			On("CONTINUE").Target(statusRunning).
			On("COMPLETE").Target(statusCompleted).
			On("CLARIFY").Target(statusNeedsClarification).
			On("FAIL").Target(statusError).
			Done().
		State(statusCompleted).
			Final().
			OnEntry("logEntry").
			Done().
		State(statusNeedsClarification).
			Final().
			OnEntry("logEntry").
			Done().
		State(statusError).
			Final().
			OnEntry("logEntry").
			Done().
		Build()
}

// EventForStatus returns the event type that claims a status.
func EventForStatus(to workflow.Status) statekit.EventType {
	switch to {
	case workflow.StatusRunning:
		return "CONTINUE"
	case workflow.StatusCompleted:
		return "COMPLETE"
	case workflow.StatusNeedsClarification:
		return "CLARIFY"
	case workflow.StatusError:
		return "FAIL"
	default:
		return statekit.EventType(to)
	}
}

// CanAccept reports whether a reply may claim the transition. Replies never
// legitimately claim "error": adapter failures surface as errors, not state.
func CanAccept(from, to workflow.Status) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from.IsTerminal() {
		return false
	}
	return to != workflow.StatusError
}
