package core

import (
	"context"

	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/fx"

	"github.com/mojo-labs/mojo/core"
)

var log = logging.Logger("module/core")

// ConstructModule collects all the components related to talking to the
// ledger endpoints.
func ConstructModule(cfg *Config, options ...fx.Option) fx.Option {
	// sanitize config values before constructing module
	cfgErr := cfg.Validate()

	return fx.Module(
		"core",
		fx.Supply(*cfg),
		fx.Error(cfgErr),
		fx.Provide(cfg.NetworkID),
		fx.Provide(cfg.EndpointTable),
		fx.Provide(fx.Annotate(
			func() *core.Client {
				return core.NewClient(cfg.clientOptions()...)
			},
			fx.OnStart(func(ctx context.Context, client *core.Client) error {
				return client.Start(ctx)
			}),
			fx.OnStop(func(ctx context.Context, client *core.Client) error {
				return client.Stop(ctx)
			}),
		)),
		fx.Options(options...),
	)
}
