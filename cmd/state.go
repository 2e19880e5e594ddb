package cmd

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mojo-labs/mojo/account"
	"github.com/mojo-labs/mojo/nodebuilder"
	modstate "github.com/mojo-labs/mojo/nodebuilder/state"
)

var (
	dataFlag  = "data"
	sizeFlag  = "size"
	ownerFlag = "owner"
)

var errNoData = errors.New("cmd: --data is required")

type stateInfo struct {
	Name      string          `json:"name"`
	Address   account.Address `json:"address"`
	Signature string          `json:"signature,omitempty"`
	Data      string          `json:"data,omitempty"`
}

// State constructs the CLI commands managing named state accounts of the
// configured payer.
func State() *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state [command]",
		Short: "Create, delegate, write and read named state accounts.",
		Args:  cobra.NoArgs,
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Creates the account on the base layer and delegates it to the ephemeral layer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseData(cmd)
			if err != nil {
				return err
			}
			return withNode(cmd, func(ctx context.Context, nd *nodebuilder.Node) error {
				payer, err := nd.Payer()
				if err != nil {
					return err
				}
				addr, err := nd.Router.CreateStateBytes(ctx, payer, args[0], data)
				if err != nil {
					return err
				}
				return PrintOutput(cmd.OutOrStdout(), stateInfo{Name: args[0], Address: addr}, nil, nil)
			})
		},
	}

	delegateCmd := &cobra.Command{
		Use:   "delegate <name>",
		Short: "Delegates an account whose delegation failed during create.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseData(cmd)
			if err != nil {
				return err
			}
			return withNode(cmd, func(ctx context.Context, nd *nodebuilder.Node) error {
				payer, err := nd.Payer()
				if err != nil {
					return err
				}
				sig, err := nd.Router.DelegateStateBytes(ctx, payer, args[0], data)
				if err != nil {
					return err
				}
				d, err := nd.Router.Derive(payer.PublicKey(), args[0])
				if err != nil {
					return err
				}
				info := stateInfo{Name: args[0], Address: d.Address, Signature: sig.String()}
				return PrintOutput(cmd.OutOrStdout(), info, nil, nil)
			})
		},
	}

	writeCmd := &cobra.Command{
		Use:   "write <name>",
		Short: "Replaces the content of a delegated account on the ephemeral layer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseData(cmd)
			if err != nil {
				return err
			}
			return withNode(cmd, func(ctx context.Context, nd *nodebuilder.Node) error {
				payer, err := nd.Payer()
				if err != nil {
					return err
				}
				sig, err := nd.Router.WriteStateBytes(ctx, payer, args[0], data)
				if err != nil {
					return err
				}
				d, err := nd.Router.Derive(payer.PublicKey(), args[0])
				if err != nil {
					return err
				}
				info := stateInfo{Name: args[0], Address: d.Address, Signature: sig.String()}
				return PrintOutput(cmd.OutOrStdout(), info, nil, nil)
			})
		},
	}

	readCmd := &cobra.Command{
		Use:   "read <name>",
		Short: "Reads the first --size bytes of an account from the ephemeral layer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := cmd.Flags().GetInt(sizeFlag)
			if err != nil {
				return err
			}
			if size <= 0 {
				return fmt.Errorf("cmd: --%s must be positive", sizeFlag)
			}
			return withNode(cmd, func(ctx context.Context, nd *nodebuilder.Node) error {
				owner, err := ownerOf(cmd, nd)
				if err != nil {
					return err
				}
				data, err := nd.Router.ReadStateBytes(ctx, owner, args[0], size)
				if err != nil {
					return err
				}
				d, err := nd.Router.Derive(owner, args[0])
				if err != nil {
					return err
				}
				info := stateInfo{Name: args[0], Address: d.Address, Data: "0x" + hex.EncodeToString(data)}
				return PrintOutput(cmd.OutOrStdout(), info, nil, nil)
			})
		},
	}

	for _, c := range []*cobra.Command{createCmd, delegateCmd, writeCmd} {
		c.Flags().String(dataFlag, "", "Account content, 0x prefixed hex or base64")
	}
	readCmd.Flags().Int(sizeFlag, 0, "Number of bytes to read")
	readCmd.Flags().String(ownerFlag, "", "Owner address, defaults to the payer")

	stateCmd.AddCommand(createCmd, delegateCmd, writeCmd, readCmd)
	return stateCmd
}

// Address constructs a CLI command printing the derived address of a named
// account. It needs no connection to the ledger.
func Address() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address <name>",
		Short: "Prints the address of the named account of an owner.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := NodeConfig(cmd.Context())
			program, err := account.ParseAddress(cfg.State.ProgramID)
			if err != nil {
				return err
			}

			var owner account.Address
			if encoded := cmd.Flag(ownerFlag).Value.String(); encoded != "" {
				owner, err = account.ParseAddress(encoded)
			} else {
				err = withStore(cmd, func(store nodebuilder.Store) error {
					ks, err := store.Keystore()
					if err != nil {
						return err
					}
					payer, err := modstate.Payer(ks, cfg.State.Key())
					if err != nil {
						return err
					}
					owner = payer.PublicKey()
					return nil
				})
			}
			if err != nil {
				return err
			}

			addr, _, err := account.Derive(program, owner, args[0])
			if err != nil {
				return err
			}
			return PrintOutput(cmd.OutOrStdout(), stateInfo{Name: args[0], Address: addr}, nil, nil)
		},
	}
	cmd.Flags().String(ownerFlag, "", "Owner address, defaults to the payer")
	return cmd
}

func parseData(cmd *cobra.Command) ([]byte, error) {
	encoded := cmd.Flag(dataFlag).Value.String()
	if encoded == "" {
		return nil, errNoData
	}
	return DecodeToBytes(encoded)
}

// ownerOf returns the --owner flag, or the payer's address if unset.
func ownerOf(cmd *cobra.Command, nd *nodebuilder.Node) (account.Address, error) {
	if encoded := cmd.Flag(ownerFlag).Value.String(); encoded != "" {
		return account.ParseAddress(encoded)
	}
	payer, err := nd.Payer()
	if err != nil {
		return account.Address{}, err
	}
	return payer.PublicKey(), nil
}
