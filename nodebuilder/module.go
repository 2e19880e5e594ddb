package nodebuilder

import (
	"go.uber.org/fx"

	"github.com/mojo-labs/mojo/nodebuilder/core"
	"github.com/mojo-labs/mojo/nodebuilder/state"
)

func ConstructModule(cfg *Config, store Store) fx.Option {
	log.Infow("Accessing keystore...")
	ks, err := store.Keystore()
	if err != nil {
		return fx.Error(err)
	}

	baseComponents := fx.Options(
		fx.Supply(cfg),
		fx.Supply(ks),
		// modules provided by the node
		core.ConstructModule(&cfg.Core),
		state.ConstructModule(&cfg.State),
	)

	return fx.Module(
		"node",
		baseComponents,
	)
}
