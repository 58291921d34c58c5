// Package telemetry provides OpenTelemetry metrics and tracing for workflow
// runs. Instruments resolve against the global providers, so everything is a
// no-op unless the host process installs an SDK.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	turns        metric.Int64Counter
	turnFailures metric.Int64Counter
	runs         metric.Int64Counter

	// Histograms
	turnDuration metric.Float64Histogram
	runDuration  metric.Float64Histogram

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/workflow-go").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
	// Attributes are default attributes to attach to all metrics.
	Attributes []attribute.KeyValue
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/workflow-go",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	provider := otel.GetMeterProvider()
	meter := provider.Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{
		meter: meter,
	}

	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})

	return mp
}

func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.turns, err = mp.meter.Int64Counter(
		"workflow.turns",
		metric.WithDescription("Number of workflow turns executed"),
		metric.WithUnit("{turn}"),
	)
	if err != nil {
		return err
	}

	mp.turnFailures, err = mp.meter.Int64Counter(
		"workflow.turn.failures",
		metric.WithDescription("Number of failed workflow turns"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return err
	}

	mp.runs, err = mp.meter.Int64Counter(
		"workflow.runs",
		metric.WithDescription("Number of workflow runs started"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	mp.turnDuration, err = mp.meter.Float64Histogram(
		"workflow.turn.duration",
		metric.WithDescription("Duration of workflow turns"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.runDuration, err = mp.meter.Float64Histogram(
		"workflow.run.duration",
		metric.WithDescription("Duration of workflow runs"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordTurn records one completed turn of the iteration loop.
func (mp *MetricsProvider) RecordTurn(ctx context.Context, provider string, status string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("llm.provider", provider),
		attribute.String("workflow.status", status),
		attribute.Bool("success", success),
	}

	mp.turns.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.turnDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if !success {
		mp.turnFailures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("llm.provider", provider),
		))
	}
}

// RecordRun records a completed run with its final status.
func (mp *MetricsProvider) RecordRun(ctx context.Context, provider string, finalStatus string, turns int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("llm.provider", provider),
		attribute.String("workflow.status", finalStatus),
		attribute.Int("workflow.turns", turns),
	}

	mp.runs.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.runDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
