package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mojo-labs/mojo/nodebuilder"
)

// World constructs the CLI commands managing worlds.
func World() *cobra.Command {
	worldCmd := &cobra.Command{
		Use:   "world [command]",
		Short: "Create and inspect worlds.",
		Args:  cobra.NoArgs,
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Creates a world owned by the payer on the base layer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNode(cmd, func(ctx context.Context, nd *nodebuilder.Node) error {
				payer, err := nd.Payer()
				if err != nil {
					return err
				}
				w, err := nd.Router.CreateWorld(ctx, payer, args[0])
				if err != nil {
					return err
				}
				return PrintOutput(cmd.OutOrStdout(), w, nil, nil)
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Loads a world from the base layer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNode(cmd, func(ctx context.Context, nd *nodebuilder.Node) error {
				owner, err := ownerOf(cmd, nd)
				if err != nil {
					return err
				}
				w, err := nd.Router.LoadWorld(ctx, owner, args[0])
				if err != nil {
					return err
				}
				return PrintOutput(cmd.OutOrStdout(), w, nil, nil)
			})
		},
	}
	showCmd.Flags().String(ownerFlag, "", "Creator address, defaults to the payer")

	worldCmd.AddCommand(createCmd, showCmd)
	return worldCmd
}
