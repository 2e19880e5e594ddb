package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/mojo-labs/mojo/nodebuilder"
)

var (
	nodeStoreFlag  = "node.store"
	nodeConfigFlag = "node.config"
)

// NodeFlags gives a set of hardcoded Node package flags.
func NodeFlags() *flag.FlagSet {
	flags := &flag.FlagSet{}

	flags.String(nodeStoreFlag, nodebuilder.DefaultStorePath, "Directory of the mojo store holding config and keys")
	flags.String(nodeConfigFlag, "", "Path to a node config TOML file overriding the store config")

	return flags
}

// ParseNodeFlags records the store path and loads the node config from
// --node.config, or from the store when it is initialized.
func ParseNodeFlags(ctx context.Context, cmd *cobra.Command) (context.Context, error) {
	path := cmd.Flag(nodeStoreFlag).Value.String()
	ctx = WithStorePath(ctx, path)

	cfg, err := loadNodeConfig(path, cmd.Flag(nodeConfigFlag).Value.String())
	if err != nil {
		return ctx, err
	}
	if cfg != nil {
		ctx = WithNodeConfig(ctx, cfg)
	}
	return ctx, nil
}

// loadNodeConfig returns nil when neither a config file nor an initialized
// store exists.
func loadNodeConfig(storePath, file string) (*nodebuilder.Config, error) {
	if file != "" {
		cfg, err := nodebuilder.LoadConfig(file)
		if err != nil {
			return nil, fmt.Errorf("cmd: while parsing '%s': %w", nodeConfigFlag, err)
		}
		return cfg, nil
	}
	if !nodebuilder.IsInit(storePath) {
		return nil, nil
	}

	store, err := nodebuilder.OpenStore(storePath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Config()
}
