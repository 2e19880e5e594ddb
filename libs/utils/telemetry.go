package utils

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.11.0"
)

// DefaultMetricInterval is how often metrics are exported when no interval is set.
const DefaultMetricInterval = 10 * time.Second

// TelemetryConfig describes the process exporting telemetry.
type TelemetryConfig struct {
	// ServiceNamespace groups instances, e.g. the network name.
	ServiceNamespace string
	// ServiceName is the binary name.
	ServiceName string
	// ServiceInstanceID tells instances of the same service apart.
	ServiceInstanceID string
	// Interval is the metric export interval.
	Interval time.Duration
}

func (cfg TelemetryConfig) resource() *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNamespaceKey.String(cfg.ServiceNamespace),
		semconv.ServiceNameKey.String(cfg.ServiceName),
		semconv.ServiceInstanceIDKey.String(cfg.ServiceInstanceID),
	)
}

// NewMetricProvider creates a meter provider periodically pushing metrics
// over OTLP HTTP with gzip compression.
func NewMetricProvider(
	ctx context.Context,
	cfg TelemetryConfig,
	opts ...otlpmetrichttp.Option,
) (*sdk.MeterProvider, error) {
	opts = append([]otlpmetrichttp.Option{otlpmetrichttp.WithCompression(otlpmetrichttp.GzipCompression)}, opts...)
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP metric exporter: %w", err)
	}

	interval := cfg.Interval
	if interval == 0 {
		interval = DefaultMetricInterval
	}

	return sdk.NewMeterProvider(
		sdk.WithReader(
			sdk.NewPeriodicReader(exp,
				sdk.WithTimeout(interval),
				sdk.WithInterval(interval))),
		sdk.WithResource(cfg.resource()),
	), nil
}

// NewTracerProvider creates a tracer provider batching spans to an OTLP HTTP
// endpoint with gzip compression.
func NewTracerProvider(
	ctx context.Context,
	cfg TelemetryConfig,
	opts ...otlptracehttp.Option,
) (*tracesdk.TracerProvider, error) {
	opts = append([]otlptracehttp.Option{otlptracehttp.WithCompression(otlptracehttp.GzipCompression)}, opts...)
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
	}

	return tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(cfg.resource()),
	), nil
}
