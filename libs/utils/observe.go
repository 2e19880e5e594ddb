package utils

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ResetContextOnError detaches ctx from its cancellation once it is done, so
// that metrics recorded after a canceled or timed out request still land.
// Context values are kept.
func ResetContextOnError(ctx context.Context) context.Context {
	if ctx.Err() != nil {
		return context.WithoutCancel(ctx)
	}
	return ctx
}

// SetStatusAndEnd records err on the span, sets its status accordingly and
// ends it.
func SetStatusAndEnd(span trace.Span, err error) {
	defer span.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
