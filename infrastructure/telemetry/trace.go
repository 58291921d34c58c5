package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies spans emitted by the iteration loop.
const tracerName = "github.com/felixgeelhaar/workflow-go"

// Tracer wraps an OpenTelemetry tracer for workflow spans.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a tracer against the global tracer provider.
func NewTracer() *Tracer {
	return &Tracer{tracer: otel.Tracer(tracerName)}
}

// StartRun starts the root span for a workflow run.
func (t *Tracer) StartRun(ctx context.Context, runID, provider, goal string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "workflow.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("llm.provider", provider),
			attribute.String("workflow.goal", goal),
		),
	)
}

// StartTurn starts the span for a single turn within a run.
func (t *Tracer) StartTurn(ctx context.Context, runID string, iteration int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "workflow.turn",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("workflow.iteration", iteration),
		),
	)
}

// EndTurn records the turn outcome on the span and ends it.
func EndTurn(span trace.Span, status string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.String("workflow.status", status))
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
