package state

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/libs/keystore"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(cfg *Config)
		expectErr bool
	}{
		{
			name:   "default config",
			mutate: func(*Config) {},
		},
		{
			name: "invalid program id",
			mutate: func(cfg *Config) {
				cfg.ProgramID = "not-base58-0OIl"
			},
			expectErr: true,
		},
		{
			name: "empty delegation program id",
			mutate: func(cfg *Config) {
				cfg.DelegationProgramID = ""
			},
			expectErr: true,
		},
		{
			name: "empty key name",
			mutate: func(cfg *Config) {
				cfg.KeyName = ""
			},
			expectErr: true,
		},
		{
			name: "negative cache",
			mutate: func(cfg *Config) {
				cfg.DerivationCacheSize = -1
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPayer(t *testing.T) {
	ks := keystore.NewMapKeystore()

	_, err := Payer(ks, "payer")
	require.ErrorIs(t, err, keystore.ErrNotFound)

	kp, err := core.GenerateKeypair(nil)
	require.NoError(t, err)
	require.NoError(t, ks.Put("payer", keystore.PrivKey{Body: kp.PrivateKey()}))

	payer, err := Payer(ks, "payer")
	require.NoError(t, err)
	require.Equal(t, kp.PublicKey(), payer.PublicKey())
}
