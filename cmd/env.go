package cmd

import (
	"context"

	"go.uber.org/fx"

	"github.com/mojo-labs/mojo/nodebuilder"
)

// StorePath reads the store path from the context.
func StorePath(ctx context.Context) string {
	return ctx.Value(storePathKey{}).(string)
}

// WithStorePath sets Store Path in the given context.
func WithStorePath(ctx context.Context, storePath string) context.Context {
	return context.WithValue(ctx, storePathKey{}, storePath)
}

// NodeConfig reads the node config from the context. The default config is
// returned when none was set.
func NodeConfig(ctx context.Context) nodebuilder.Config {
	cfg, ok := ctx.Value(configKey{}).(*nodebuilder.Config)
	if !ok {
		return *nodebuilder.DefaultConfig()
	}
	return *cfg
}

// WithNodeConfig sets the node config in the Env.
func WithNodeConfig(ctx context.Context, config *nodebuilder.Config) context.Context {
	return context.WithValue(ctx, configKey{}, config)
}

// NodeOptions returns node options parsed from Environment(Flags, ENV vars, etc)
func NodeOptions(ctx context.Context) []fx.Option {
	options, ok := ctx.Value(optionsKey{}).([]fx.Option)
	if !ok {
		return []fx.Option{}
	}
	return options
}

// WithNodeOptions add new options to Env.
func WithNodeOptions(ctx context.Context, opts ...fx.Option) context.Context {
	options := NodeOptions(ctx)
	return context.WithValue(ctx, optionsKey{}, append(options, opts...))
}

type (
	optionsKey   struct{}
	configKey    struct{}
	storePathKey struct{}
)
