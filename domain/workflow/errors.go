package workflow

import "errors"

// Domain errors for workflow runs.
var (
	// ErrEmptyGoal indicates a run was created without a goal.
	ErrEmptyGoal = errors.New("goal must not be empty")

	// ErrInvalidStatus indicates the status is not a recognized canonical status.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidTransition indicates a reply claimed a status transition the
	// run protocol does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrBudgetExhausted indicates the iteration budget was reached without a
	// terminal status.
	ErrBudgetExhausted = errors.New("iteration budget exhausted")
)
