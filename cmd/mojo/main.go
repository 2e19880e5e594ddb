package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/mojo-labs/mojo/cmd"
	"github.com/mojo-labs/mojo/nodebuilder/core"
	"github.com/mojo-labs/mojo/nodebuilder/state"
)

func main() {
	err := run()
	if err != nil {
		os.Exit(1)
	}
}

func run() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mojo [subcommand]",
		Short: "Manage worlds and named state accounts on a two-layer ledger",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			return cmd.PersistentPreRunEnv(c, args)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	cmd.WithFlagSet([]*flag.FlagSet{
		cmd.NodeFlags(),
		core.Flags(),
		state.Flags(),
		cmd.MiscFlags(),
	})(rootCmd)

	rootCmd.AddCommand(
		cmd.Init(),
		cmd.ConfigUpdate(),
		cmd.Keys(),
		cmd.World(),
		cmd.State(),
		cmd.Address(),
		versionCmd(),
	)
	rootCmd.SetHelpCommand(&cobra.Command{})
	return rootCmd
}
