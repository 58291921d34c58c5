package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainprovider "github.com/felixgeelhaar/workflow-go/domain/provider"
	"github.com/felixgeelhaar/workflow-go/domain/workflow"
	"github.com/felixgeelhaar/workflow-go/infrastructure/logging"
	"github.com/felixgeelhaar/workflow-go/infrastructure/statemachine"
	"github.com/felixgeelhaar/workflow-go/infrastructure/telemetry"
)

// Driver owns the iteration loop: it invokes the controller once per turn,
// applies the returned state, and stops on a terminal status, the iteration
// budget, or a failed turn. One driver call runs one workflow sequentially;
// turn N's prompt always reflects turn N-1's full output.
type Driver struct {
	controller *Controller
	store      workflow.Store
	metrics    *telemetry.MetricsProvider
	tracer     *telemetry.Tracer
	turnRetry  turnRetrier
}

// RunResult is the outcome of one driver run.
type RunResult struct {
	// RunID identifies this run in logs, spans, and the snapshot store.
	RunID string

	// State is the final workflow state. After a failed turn it is the
	// last-known-good state with the status forced to error.
	State *workflow.State

	// Turns is the number of successfully completed turns.
	Turns int
}

// NewDriver creates a driver with the given options applied over defaults.
func NewDriver(opts ...Option) *Driver {
	cfg := defaultDriverConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Driver{
		controller: NewController(cfg.Registry),
		store:      cfg.Store,
		metrics:    cfg.Metrics,
		tracer:     cfg.Tracer,
		turnRetry:  cfg.TurnRetry,
	}
}

// Controller returns the driver's iteration controller, for callers that
// need single-turn access or connection probing.
func (d *Driver) Controller() *Controller {
	return d.controller
}

// Run drives the workflow from the given state until a terminal status, the
// iteration budget, or a failed turn. The returned state is always usable:
// on failure it is the last-known-good state with status error, and the
// error describes the failing turn.
func (d *Driver) Run(ctx context.Context, state *workflow.State, settings domainprovider.LLMSettings, ragContent string) (*RunResult, error) {
	runID := uuid.NewString()

	tracker, err := statemachine.NewTracker(runID)
	if err != nil {
		return nil, err
	}

	runCtx, runSpan := d.tracer.StartRun(ctx, runID, settings.Provider.String(), state.Goal)
	defer runSpan.End()

	logging.Info().
		Add(logging.RunID(runID)).
		Add(logging.Provider(settings.Provider)).
		Add(logging.Goal(state.Goal)).
		Msg("workflow run started")

	start := time.Now()
	current := state.Clone()
	turns := 0

	for current.Status == workflow.StatusRunning && current.CurrentIteration < current.MaxIterations {
		// Cancellation is cooperative: checked at turn boundaries, and the
		// context also aborts the in-flight HTTP call.
		if err := ctx.Err(); err != nil {
			return d.fail(ctx, runID, tracker, current, settings.Provider, turns, start, err)
		}

		turnCtx, turnSpan := d.tracer.StartTurn(runCtx, runID, current.CurrentIteration)
		turnStart := time.Now()

		next, err := d.callTurn(turnCtx, current, settings, ragContent)
		if err != nil {
			d.metrics.RecordTurn(ctx, settings.Provider.String(), workflow.StatusError.String(), false, time.Since(turnStart))
			telemetry.EndTurn(turnSpan, "", err)
			return d.fail(ctx, runID, tracker, current, settings.Provider, turns, start, err)
		}

		// The model's self-reported iteration number is untrusted; the
		// driver owns the counter.
		next.CurrentIteration = current.CurrentIteration + 1
		turns++

		if err := tracker.Accept(next.Status); err != nil {
			logging.Warn().
				Add(logging.RunID(runID)).
				Add(logging.Iteration(next.CurrentIteration)).
				Add(logging.Status(next.Status)).
				Add(logging.ErrorField(err)).
				Msg("reply claimed an illegal status, keeping previous status")
			next.Status = tracker.Current()
		}

		d.persist(ctx, runID, next)
		d.metrics.RecordTurn(ctx, settings.Provider.String(), next.Status.String(), true, time.Since(turnStart))
		telemetry.EndTurn(turnSpan, next.Status.String(), nil)

		logging.Info().
			Add(logging.RunID(runID)).
			Add(logging.Iteration(next.CurrentIteration)).
			Add(logging.Status(next.Status)).
			Add(logging.Duration(time.Since(turnStart))).
			Msg("workflow turn completed")

		current = next
	}

	d.metrics.RecordRun(ctx, settings.Provider.String(), current.Status.String(), turns, time.Since(start))

	result := &RunResult{RunID: runID, State: current, Turns: turns}

	if current.Status == workflow.StatusRunning {
		logging.Warn().
			Add(logging.RunID(runID)).
			Add(logging.Iteration(current.CurrentIteration)).
			Msg("iteration budget exhausted before a terminal status")
		return result, workflow.ErrBudgetExhausted
	}

	logging.Info().
		Add(logging.RunID(runID)).
		Add(logging.Status(current.Status)).
		Add(logging.Duration(time.Since(start))).
		Msg("workflow run finished")
	return result, nil
}

// callTurn runs one controller invocation, optionally wrapped in the
// configured retry policy. Without a policy a failed turn fails the run.
func (d *Driver) callTurn(ctx context.Context, state *workflow.State, settings domainprovider.LLMSettings, ragContent string) (*workflow.State, error) {
	if d.turnRetry == nil {
		return d.controller.RunIteration(ctx, state, settings, ragContent)
	}
	return d.turnRetry.Do(ctx, func(ctx context.Context) (*workflow.State, error) {
		return d.controller.RunIteration(ctx, state, settings, ragContent)
	})
}

// fail marks the run failed while keeping everything accumulated up to the
// last successful turn; only the failing turn's output is discarded.
func (d *Driver) fail(ctx context.Context, runID string, tracker *statemachine.Tracker, lastGood *workflow.State, key domainprovider.Key, turns int, start time.Time, cause error) (*RunResult, error) {
	tracker.Fail()

	failed := lastGood.Clone()
	failed.Status = workflow.StatusError

	d.persist(ctx, runID, failed)
	d.metrics.RecordRun(ctx, key.String(), failed.Status.String(), turns, time.Since(start))

	logging.Error().
		Add(logging.RunID(runID)).
		Add(logging.Iteration(failed.CurrentIteration)).
		Add(logging.ErrorField(cause)).
		Msg("workflow run failed")

	return &RunResult{RunID: runID, State: failed, Turns: turns}, cause
}

// persist snapshots the state after a turn. Snapshotting is best effort: a
// storage failure is logged, not fatal to the run.
func (d *Driver) persist(ctx context.Context, runID string, state *workflow.State) {
	if err := d.store.Save(ctx, runID, state); err != nil {
		logging.Warn().
			Add(logging.RunID(runID)).
			Add(logging.ErrorField(err)).
			Msg("failed to snapshot workflow state")
	}
}
