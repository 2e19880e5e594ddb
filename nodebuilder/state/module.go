package state

import (
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"go.uber.org/fx"

	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/libs/keystore"
	"github.com/mojo-labs/mojo/state"
)

var log = logging.Logger("module/state")

// ConstructModule provides all components necessary to construct the
// state router.
func ConstructModule(cfg *Config) fx.Option {
	// sanitize config values before constructing module
	cfgErr := cfg.Validate()

	return fx.Module(
		"state",
		fx.Supply(*cfg),
		fx.Error(cfgErr),
		fx.Provide(func(client *core.Client) state.Ledger {
			return client
		}),
		fx.Provide(func(network core.Network, endpoints core.Endpoints, ledger state.Ledger) (*state.Router, error) {
			return state.NewRouter(network, endpoints, ledger, ledger, cfg.routerOptions()...)
		}),
	)
}

// Payer loads the key named name from ks as a transaction signer.
func Payer(ks keystore.Keystore, name keystore.KeyName) (*core.Keypair, error) {
	key, err := ks.Get(name)
	if errors.Is(err, keystore.ErrNotFound) {
		return nil, fmt.Errorf("nodebuilder/state: payer key '%s' not found, create it with 'mojo keys add %s': %w", name, name, err)
	}
	if err != nil {
		return nil, err
	}

	kp, err := core.KeypairFromPrivateKey(key.Body)
	if err != nil {
		return nil, err
	}
	log.Debugw("loaded payer", "key", name, "address", kp.PublicKey())
	return kp, nil
}
