package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "briefhq/intake-api"
)

// GetTracer returns the tracer for the intake-api service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// ScopeAttributes returns common attributes for owner/scope spans.
func ScopeAttributes(ownerID, scopeID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("intake.owner_id", ownerID),
		attribute.String("intake.scope_id", scopeID),
	}
}

// StartResolverSpan starts a span for a resolver write operation.
func StartResolverSpan(ctx context.Context, operation, ownerID, scopeID string, questionID uint) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "resolver."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			append(ScopeAttributes(ownerID, scopeID),
				attribute.Int64("intake.question_id", int64(questionID)))...,
		),
	)
	return ctx, span
}

// StartRebuildSpan starts a span for a progress reconstruction.
func StartRebuildSpan(ctx context.Context, ownerID, scopeID string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "progress.rebuild",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(ScopeAttributes(ownerID, scopeID)...),
	)
	return ctx, span
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddPhaseEvent marks a phase evaluation on the active span, if any.
func AddPhaseEvent(ctx context.Context, phase string, complete bool) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("phase.evaluated",
		trace.WithAttributes(
			attribute.String("phase", phase),
			attribute.Bool("phase.complete", complete),
		),
	)
}
