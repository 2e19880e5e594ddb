package cmd

import (
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"github.com/mojo-labs/mojo/account"
	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/libs/keystore"
	"github.com/mojo-labs/mojo/nodebuilder"
)

var privateKeyFlag = "private-key"

type keyInfo struct {
	Name    string          `json:"name"`
	Address account.Address `json:"address"`
}

// Keys constructs the CLI commands managing payer keys in the Store.
func Keys() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys [command]",
		Short: "Manage the keys paying for and signing transactions.",
		Args:  cobra.NoArgs,
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Generates a new key, or imports one given with --private-key.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				kp  *core.Keypair
				err error
			)
			if encoded := cmd.Flag(privateKeyFlag).Value.String(); encoded != "" {
				raw, derr := base58.Decode(encoded)
				if derr != nil {
					return fmt.Errorf("cmd: decoding --%s: %w", privateKeyFlag, derr)
				}
				kp, err = core.KeypairFromPrivateKey(raw)
			} else {
				kp, err = core.GenerateKeypair(nil)
			}
			if err != nil {
				return err
			}

			name := keystore.KeyName(args[0])
			err = withStore(cmd, func(store nodebuilder.Store) error {
				ks, err := store.Keystore()
				if err != nil {
					return err
				}
				return ks.Put(name, keystore.PrivKey{Body: kp.PrivateKey()})
			})
			if err != nil {
				return err
			}
			return PrintOutput(cmd.OutOrStdout(), keyInfo{Name: name.String(), Address: kp.PublicKey()}, nil, nil)
		},
	}
	addCmd.Flags().String(privateKeyFlag, "", "Base58 encoded 64-byte ed25519 private key to import")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists the keys of the Store with their addresses.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var infos []keyInfo
			err := withStore(cmd, func(store nodebuilder.Store) error {
				ks, err := store.Keystore()
				if err != nil {
					return err
				}
				names, err := ks.List()
				if err != nil {
					return err
				}
				infos = make([]keyInfo, 0, len(names))
				for _, name := range names {
					kp, err := loadKey(ks, name)
					if err != nil {
						return err
					}
					infos = append(infos, keyInfo{Name: name.String(), Address: kp.PublicKey()})
				}
				return nil
			})
			return PrintOutput(cmd.OutOrStdout(), infos, err, nil)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Shows the address of a key.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var info keyInfo
			err := withStore(cmd, func(store nodebuilder.Store) error {
				ks, err := store.Keystore()
				if err != nil {
					return err
				}
				kp, err := loadKey(ks, keystore.KeyName(args[0]))
				if err != nil {
					return err
				}
				info = keyInfo{Name: args[0], Address: kp.PublicKey()}
				return nil
			})
			if err != nil {
				return err
			}
			return PrintOutput(cmd.OutOrStdout(), info, nil, nil)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Deletes a key from the Store.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store nodebuilder.Store) error {
				ks, err := store.Keystore()
				if err != nil {
					return err
				}
				return ks.Delete(keystore.KeyName(args[0]))
			})
		},
	}

	keysCmd.AddCommand(addCmd, listCmd, showCmd, deleteCmd)
	return keysCmd
}

func loadKey(ks keystore.Keystore, name keystore.KeyName) (*core.Keypair, error) {
	key, err := ks.Get(name)
	if err != nil {
		return nil, fmt.Errorf("cmd: key '%s': %w", name, err)
	}
	return core.KeypairFromPrivateKey(key.Body)
}
