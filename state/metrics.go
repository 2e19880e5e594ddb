package state

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/libs/utils"
)

var meter = otel.Meter("state")

const (
	opCreate   = "create"
	opDelegate = "delegate"
	opWrite    = "write"
)

type metrics struct {
	submissions  metric.Int64Counter
	readDuration metric.Float64Histogram
}

// WithMetrics enables submission and read metrics on the Router.
func (r *Router) WithMetrics() error {
	submissions, err := meter.Int64Counter(
		"state_submissions_total",
		metric.WithDescription("total number of state instructions submitted per operation and layer"),
	)
	if err != nil {
		return err
	}

	readDuration, err := meter.Float64Histogram(
		"state_read_duration_seconds",
		metric.WithDescription("time taken to fetch state account bytes"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	r.metrics = &metrics{
		submissions:  submissions,
		readDuration: readDuration,
	}
	return nil
}

func (m *metrics) observe(ctx context.Context, observeFn func(ctx context.Context)) {
	if m == nil {
		return
	}

	ctx = utils.ResetContextOnError(ctx)

	observeFn(ctx)
}

func (m *metrics) observeSubmission(ctx context.Context, op string, layer core.Layer, err error) {
	m.observe(ctx, func(ctx context.Context) {
		m.submissions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("layer", layer.String()),
			attribute.String("status", statusOf(err)),
		))
	})
}

func (m *metrics) observeRead(ctx context.Context, layer core.Layer, duration time.Duration, err error) {
	m.observe(ctx, func(ctx context.Context) {
		m.readDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
			attribute.String("layer", layer.String()),
			attribute.String("status", statusOf(err)),
		))
	})
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, core.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, core.ErrConfirmTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "failed"
	}
}
