package application

import (
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/workflow-go/domain/workflow"
	"github.com/felixgeelhaar/workflow-go/infrastructure/provider"
	"github.com/felixgeelhaar/workflow-go/infrastructure/storage/memory"
	"github.com/felixgeelhaar/workflow-go/infrastructure/telemetry"
)

// turnRetrier re-runs a failed turn per the configured policy.
type turnRetrier = retry.Retry[*workflow.State]

// driverConfig collects the driver's dependencies.
type driverConfig struct {
	Registry  *provider.Registry
	Store     workflow.Store
	Metrics   *telemetry.MetricsProvider
	Tracer    *telemetry.Tracer
	TurnRetry turnRetrier
}

func defaultDriverConfig() driverConfig {
	return driverConfig{
		Registry: provider.NewRegistry(),
		Store:    memory.NewStore(),
		Metrics:  telemetry.NewMetricsProvider(telemetry.DefaultMetricsConfig()),
		Tracer:   telemetry.NewTracer(),
	}
}

// Option configures the driver.
type Option func(*driverConfig)

// WithRegistry sets the adapter registry.
func WithRegistry(r *provider.Registry) Option {
	return func(c *driverConfig) {
		c.Registry = r
	}
}

// WithStore sets the run snapshot store.
func WithStore(s workflow.Store) Option {
	return func(c *driverConfig) {
		c.Store = s
	}
}

// WithMetrics sets the metrics provider.
func WithMetrics(m *telemetry.MetricsProvider) Option {
	return func(c *driverConfig) {
		c.Metrics = m
	}
}

// WithTracer sets the tracer.
func WithTracer(t *telemetry.Tracer) Option {
	return func(c *driverConfig) {
		c.Tracer = t
	}
}

// WithTurnRetry enables retrying failed turns with exponential backoff.
// Turns are not retried unless this option is set: a provider failure fails
// the run.
func WithTurnRetry(maxAttempts int, initialDelay time.Duration) Option {
	return func(c *driverConfig) {
		c.TurnRetry = retry.New[*workflow.State](retry.Config{
			MaxAttempts:   maxAttempts,
			InitialDelay:  initialDelay,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    2.0,
		})
	}
}
