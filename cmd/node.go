package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mojo-labs/mojo/nodebuilder"
)

// withNode opens the Store, starts a Node over it and runs fn, stopping the
// Node and closing the Store afterwards.
func withNode(cmd *cobra.Command, fn func(ctx context.Context, nd *nodebuilder.Node) error) (err error) {
	ctx := cmd.Context()

	store, err := nodebuilder.OpenStore(StorePath(ctx))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	cfg := NodeConfig(ctx)
	nd, err := nodebuilder.NewWithConfig(store, &cfg, NodeOptions(ctx)...)
	if err != nil {
		return err
	}

	if err = nd.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if serr := nd.Stop(context.WithoutCancel(ctx)); serr != nil {
			log.Errorw("stopping node", "err", serr)
		}
	}()

	return fn(ctx, nd)
}

// withStore opens the Store and runs fn against it.
func withStore(cmd *cobra.Command, fn func(store nodebuilder.Store) error) (err error) {
	store, err := nodebuilder.OpenStore(StorePath(cmd.Context()))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(store)
}
