package workflow

// ReplyViolation flags a constraint the model's reply broke. The reply is
// repaired in place rather than rejected, so one failed constraint does not
// discard an otherwise usable turn.
type ReplyViolation int

// Violations detected by Reconcile.
const (
	// ViolationInitialPlanRewritten means the reply changed a non-empty
	// initial plan. The prior plan is restored.
	ViolationInitialPlanRewritten ReplyViolation = iota

	// ViolationGoalRewritten means the reply changed the immutable goal.
	ViolationGoalRewritten

	// ViolationIterationDrift means the reply reported an iteration counter
	// different from the driver's. The model's counter is untrusted and
	// always overwritten, so this is informational.
	ViolationIterationDrift
)

// String returns a short label for logging.
func (v ReplyViolation) String() string {
	switch v {
	case ViolationInitialPlanRewritten:
		return "initial_plan_rewritten"
	case ViolationGoalRewritten:
		return "goal_rewritten"
	case ViolationIterationDrift:
		return "iteration_drift"
	default:
		return "unknown"
	}
}

// Reconcile repairs a freshly parsed reply against the previous state and
// returns the violations it found. The initial plan is write-once: a
// non-empty plan that comes back different is restored from the previous
// state. The top-level goal and the iteration counters are owned by the
// caller, never by the model, and are forced back to the caller's values.
func Reconcile(prev, reply *State) []ReplyViolation {
	var violations []ReplyViolation

	if len(prev.State.InitialPlan) > 0 && !equalPlans(prev.State.InitialPlan, reply.State.InitialPlan) {
		reply.State.InitialPlan = append([]string(nil), prev.State.InitialPlan...)
		violations = append(violations, ViolationInitialPlanRewritten)
	}

	if reply.Goal != prev.Goal {
		reply.Goal = prev.Goal
		violations = append(violations, ViolationGoalRewritten)
	}

	if reply.CurrentIteration != prev.CurrentIteration {
		violations = append(violations, ViolationIterationDrift)
	}
	reply.CurrentIteration = prev.CurrentIteration
	reply.MaxIterations = prev.MaxIterations

	return violations
}

func equalPlans(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
