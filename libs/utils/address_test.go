package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		// Testcase: trims trailing slash
		{endpoint: "https://api.devnet.solana.com/", want: "https://api.devnet.solana.com"},
		// Testcase: trims whitespace
		{endpoint: "  http://127.0.0.1:8899 ", want: "http://127.0.0.1:8899"},
		// Testcase: invariant endpoint
		{endpoint: "wss://devnet-eu.magicblock.app", want: "wss://devnet-eu.magicblock.app"},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			require.Equal(t, tt.want, SanitizeEndpoint(tt.endpoint))
		})
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
		err      error
	}{
		// Testcase: https endpoint
		{endpoint: "https://api.devnet.solana.com", want: "https://api.devnet.solana.com"},
		// Testcase: local endpoint with port and trailing slash
		{endpoint: "http://127.0.0.1:7799/", want: "http://127.0.0.1:7799"},
		// Testcase: websocket endpoint
		{endpoint: "ws://localhost:8900", want: "ws://localhost:8900"},
		// Testcase: missing scheme
		{endpoint: "api.devnet.solana.com", err: ErrInvalidEndpoint},
		// Testcase: unsupported scheme
		{endpoint: "tcp://127.0.0.1:8899", err: ErrInvalidEndpoint},
		// Testcase: missing host
		{endpoint: "http://:8899", err: ErrInvalidEndpoint},
		// Testcase: empty endpoint
		{endpoint: "", err: ErrInvalidEndpoint},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			got, err := ValidateEndpoint(tt.endpoint)
			require.ErrorIs(t, err, tt.err)
			require.Equal(t, tt.want, got)
		})
	}
}
