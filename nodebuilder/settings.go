package nodebuilder

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.uber.org/fx"

	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/libs/utils"
	"github.com/mojo-labs/mojo/state"
)

// WithNetwork specifies the Network the Node should target.
// The network must still be present in the configured endpoint table.
func WithNetwork(network core.Network) fx.Option {
	return fx.Decorate(func() (core.Network, error) {
		return network.Validate()
	})
}

// WithMetrics enables metrics exporting for the node.
func WithMetrics(metricOpts []otlpmetrichttp.Option) fx.Option {
	return fx.Options(
		fx.Supply(metricOpts),
		fx.Invoke(initializeMetrics),
		fx.Invoke(func(client *core.Client) error {
			return client.WithMetrics()
		}),
		fx.Invoke(func(router *state.Router) error {
			return router.WithMetrics()
		}),
	)
}

// initializeMetrics initializes the global meter provider.
func initializeMetrics(
	lc fx.Lifecycle,
	network core.Network,
	opts []otlpmetrichttp.Option,
) error {
	instance, err := os.Hostname()
	if err != nil {
		return err
	}
	provider, err := utils.NewMetricProvider(context.Background(), utils.TelemetryConfig{
		ServiceNamespace:  network.String(),
		ServiceName:       "mojo",
		ServiceInstanceID: instance,
	}, opts...)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})
	otel.SetMeterProvider(provider)
	return nil
}
