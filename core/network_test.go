package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNetworkValidate(t *testing.T) {
	tests := []struct {
		network Network
		want    Network
		expErr  bool
	}{
		{network: Mainnet, want: Mainnet},
		{network: "mainnet-beta", want: Mainnet},
		{network: Devnet, want: Devnet},
		{network: "localhost", want: Localnet},
		{network: "", expErr: true},
		{network: "testnet", expErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.network), func(t *testing.T) {
			got, err := tt.network.Validate()
			if tt.expErr {
				require.ErrorIs(t, err, ErrInvalidNetwork)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEndpoints(t *testing.T) {
	table := DefaultEndpoints()
	for net := range networksList {
		base, err := table.Endpoint(net, BaseLayer)
		require.NoError(t, err)
		eph, err := table.Endpoint(net, Ephemeral)
		require.NoError(t, err)
		require.NotEqual(t, base, eph, "layers of %s must not share an endpoint", net)
	}

	_, err := table.Endpoint("unknown", BaseLayer)
	require.ErrorIs(t, err, ErrUnknownEndpoint)

	_, err = table.Endpoint(Devnet, Layer(7))
	require.ErrorIs(t, err, ErrUnknownEndpoint)

	partial := Endpoints{Localnet: {BaseLayer: "http://127.0.0.1:8899"}}
	_, err = partial.Endpoint(Localnet, Ephemeral)
	require.ErrorIs(t, err, ErrUnknownEndpoint)
}

func TestLayerString(t *testing.T) {
	require.Equal(t, "base", BaseLayer.String())
	require.Equal(t, "ephemeral", Ephemeral.String())
	require.Equal(t, "layer(9)", Layer(9).String())
}
