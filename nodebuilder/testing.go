package nodebuilder

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/ledgertest"
	"github.com/mojo-labs/mojo/libs/keystore"
	"github.com/mojo-labs/mojo/state"
)

// MockStore provides mock in memory Store for testing purposes. The store
// holds a freshly generated payer under the configured key name.
func MockStore(t *testing.T, cfg *Config) Store {
	t.Helper()
	store := NewMemStore()

	err := store.PutConfig(cfg)
	require.NoError(t, err)

	ks, err := store.Keystore()
	require.NoError(t, err)
	kp, err := core.GenerateKeypair(nil)
	require.NoError(t, err)
	err = ks.Put(cfg.State.Key(), keystore.PrivKey{Body: kp.PrivateKey()})
	require.NoError(t, err)

	return store
}

// TestNode builds a Node on Localnet whose ledger is an in-memory
// ledgertest.Ledger, also returned for inspection.
func TestNode(t *testing.T, opts ...fx.Option) (*Node, *ledgertest.Ledger) {
	return TestNodeWithConfig(t, DefaultConfig(), opts...)
}

func TestNodeWithConfig(t *testing.T, cfg *Config, opts ...fx.Option) (*Node, *ledgertest.Ledger) {
	cfg.Core.Network = core.Localnet.String()
	cfg.State.ProgramID = state.DefaultProgram.String()
	store := MockStore(t, cfg)

	ledger := ledgertest.New(state.DefaultProgram)
	opts = append(opts,
		fx.Decorate(func() core.Endpoints {
			return ledgertest.Endpoints()
		}),
		fx.Decorate(func() state.Ledger {
			return ledger
		}),
	)

	nd, err := New(store, opts...)
	require.NoError(t, err)
	return nd, ledger
}
