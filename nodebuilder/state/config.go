package state

import (
	"fmt"

	"github.com/mojo-labs/mojo/account"
	"github.com/mojo-labs/mojo/instructions"
	"github.com/mojo-labs/mojo/libs/keystore"
	"github.com/mojo-labs/mojo/state"
)

const (
	DefaultKeyName             = "payer"
	DefaultDerivationCacheSize = 1024
)

// Config contains configuration parameters for constructing the state
// router and its payer.
type Config struct {
	// ProgramID is the world program state accounts are derived under.
	ProgramID string
	// DelegationProgramID is the program delegating accounts to the ephemeral layer.
	DelegationProgramID string
	// KeyName is the keystore entry paying for and signing transactions.
	KeyName string
	// DerivationCacheSize bounds the derived address cache, 0 disables it.
	DerivationCacheSize int
	// StrictLifecycle rejects writes to accounts the node has not seen delegated.
	StrictLifecycle bool
}

func DefaultConfig() Config {
	return Config{
		ProgramID:           state.DefaultProgram.String(),
		DelegationProgramID: instructions.DelegationProgram.String(),
		KeyName:             DefaultKeyName,
		DerivationCacheSize: DefaultDerivationCacheSize,
	}
}

// Validate performs basic validation of the config.
func (cfg *Config) Validate() error {
	if _, err := account.ParseAddress(cfg.ProgramID); err != nil {
		return fmt.Errorf("nodebuilder/state: invalid program id: %w", err)
	}
	if _, err := account.ParseAddress(cfg.DelegationProgramID); err != nil {
		return fmt.Errorf("nodebuilder/state: invalid delegation program id: %w", err)
	}
	if cfg.KeyName == "" {
		return fmt.Errorf("nodebuilder/state: key name must be set")
	}
	if cfg.DerivationCacheSize < 0 {
		return fmt.Errorf("nodebuilder/state: derivation cache size must not be negative")
	}
	return nil
}

// Key returns the name of the payer key.
func (cfg *Config) Key() keystore.KeyName {
	return keystore.KeyName(cfg.KeyName)
}

func (cfg *Config) routerOptions() []state.Option {
	opts := []state.Option{
		state.WithProgram(account.MustParseAddress(cfg.ProgramID)),
		state.WithDelegationProgram(account.MustParseAddress(cfg.DelegationProgramID)),
		state.WithDerivationCache(cfg.DerivationCacheSize),
	}
	if cfg.StrictLifecycle {
		opts = append(opts, state.WithStrictLifecycle())
	}
	return opts
}
