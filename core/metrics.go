package core

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/mojo-labs/mojo/libs/utils"
)

var meter = otel.Meter("core")

const (
	statusOk      = "ok"
	statusFailed  = "failed"
	statusTimeout = "timeout"
)

type metrics struct {
	requests        metric.Int64Counter
	confirmDuration metric.Float64Histogram
}

// WithMetrics enables request and confirmation metrics on the Client.
func (c *Client) WithMetrics() error {
	requests, err := meter.Int64Counter(
		"core_rpc_requests_total",
		metric.WithDescription("total number of JSON-RPC requests sent to ledger endpoints"),
	)
	if err != nil {
		return err
	}

	confirmDuration, err := meter.Float64Histogram(
		"core_confirm_duration_seconds",
		metric.WithDescription("time between sending a transaction and observing its confirmation"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	c.metrics = &metrics{
		requests:        requests,
		confirmDuration: confirmDuration,
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

func (m *metrics) observeRequest(ctx context.Context, method string, err error) {
	m.observe(ctx, func(ctx context.Context) {
		m.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("status", statusOf(err)),
		))
	})
}

func (m *metrics) observeConfirm(ctx context.Context, duration time.Duration, err error) {
	m.observe(ctx, func(ctx context.Context) {
		m.confirmDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
			attribute.String("status", statusOf(err)),
		))
	})
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return statusOk
	case errors.Is(err, ErrConfirmTimeout), errors.Is(err, context.DeadlineExceeded):
		return statusTimeout
	default:
		return statusFailed
	}
}
