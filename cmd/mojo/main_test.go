package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/mojo-labs/mojo/cmd"
	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/ledgertest"
	"github.com/mojo-labs/mojo/state"
)

type result struct {
	Result struct {
		Name      string `json:"name"`
		Address   string `json:"address"`
		Signature string `json:"signature"`
		Data      string `json:"data"`
		Creator   string `json:"creator"`
		Network   string `json:"network"`
	} `json:"result"`
}

func TestStateCommands(t *testing.T) {
	dir := t.TempDir()
	ledger := ledgertest.New(state.DefaultProgram)
	ctx := cmd.WithNodeOptions(context.Background(),
		fx.Decorate(func() core.Endpoints {
			return ledgertest.Endpoints()
		}),
		fx.Decorate(func() state.Ledger {
			return ledger
		}),
	)

	exec := func(t *testing.T, args ...string) result {
		t.Helper()
		output := &bytes.Buffer{}
		root := newRootCmd()
		root.SetOut(output)
		root.SetArgs(append([]string{"--node.store", dir}, args...))
		require.NoError(t, root.ExecuteContext(ctx))

		var res result
		if output.Len() > 0 {
			require.NoError(t, json.Unmarshal(output.Bytes(), &res), output.String())
		}
		return res
	}

	exec(t, "--core.network", "localnet", "init")
	payer := exec(t, "keys", "add", "payer")
	require.Equal(t, "payer", payer.Result.Name)
	require.NotEmpty(t, payer.Result.Address)

	shown := exec(t, "keys", "show", "payer")
	require.Equal(t, payer.Result.Address, shown.Result.Address)

	created := exec(t, "state", "create", "inventory", "--data", "0x0500000000000000")
	derived := exec(t, "address", "inventory")
	require.Equal(t, created.Result.Address, derived.Result.Address)
	foreign := exec(t, "address", "inventory", "--owner", state.DefaultProgram.String())
	require.NotEqual(t, derived.Result.Address, foreign.Result.Address)

	written := exec(t, "state", "write", "inventory", "--data", "BwAAAAAAAAA=")
	require.NotEmpty(t, written.Result.Signature)

	read := exec(t, "state", "read", "inventory", "--size", "8")
	require.Equal(t, "0x0700000000000000", read.Result.Data)
	read = exec(t, "state", "read", "inventory", "--size", "8", "--owner", payer.Result.Address)
	require.Equal(t, "0x0700000000000000", read.Result.Data)

	world := exec(t, "world", "create", "mojo-verse")
	require.Equal(t, payer.Result.Address, world.Result.Creator)
	require.Equal(t, "localnet", world.Result.Network)
	loaded := exec(t, "world", "show", "mojo-verse")
	require.Equal(t, world.Result, loaded.Result)

	subs := ledger.Submissions()
	require.Len(t, subs, 4)
}

func TestStateCommandErrors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	exec := func(args ...string) error {
		root := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(append([]string{"--node.store", dir}, args...))
		return root.ExecuteContext(ctx)
	}

	require.Error(t, exec("keys", "list"))
	require.NoError(t, exec("init"))
	require.Error(t, exec("state", "create", "inventory"))
	require.Error(t, exec("state", "read", "inventory", "--size", "0"))
	require.Error(t, exec("address", "inventory"))
	require.Error(t, exec("--core.network", "testnet", "keys", "list"))
	require.NoError(t, exec("keys", "list"))
}
