package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mojo-labs/mojo/nodebuilder"
)

// Init constructs a CLI command to initialize the Mojo Store. Passed flags
// have persisted effect.
func Init() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialization for the Mojo Store. Passed flags have persisted effect.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return nodebuilder.Init(NodeConfig(ctx), StorePath(ctx))
		},
	}
}

// ConfigUpdate constructs a CLI command filling in config fields added since
// the Store was initialized.
func ConfigUpdate() *cobra.Command {
	return &cobra.Command{
		Use:   "config-update",
		Short: "Updates the stored config with new default values, preserving the ones already set.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return nodebuilder.UpdateConfig(StorePath(cmd.Context()))
		},
	}
}
