package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/mojo-labs/mojo/core"
	"github.com/mojo-labs/mojo/libs/utils"
)

const (
	DefaultRequestsPerSecond = 10
	DefaultRequestBurst      = 5
)

var ErrNoEndpoints = errors.New("no endpoints configured for network")

// Config combines all configuration fields for managing the connection to
// the ledger endpoints.
type Config struct {
	// Network selects the row of Endpoints the node talks to.
	Network string
	// Endpoints maps each network to the RPC URLs of its two layers.
	Endpoints map[string]EndpointConfig
	// RequestsPerSecond limits requests sent to each endpoint. Zero disables the limit.
	RequestsPerSecond float64
	RequestBurst      int
	// ConfirmTimeout bounds how long a submission waits for confirmation.
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
}

// EndpointConfig holds the RPC URLs of the base and ephemeral layers.
type EndpointConfig struct {
	BaseLayer string
	Ephemeral string
}

// DefaultConfig returns default configuration targeting the public endpoints
// of the default network.
func DefaultConfig() Config {
	endpoints := make(map[string]EndpointConfig)
	for net, le := range core.DefaultEndpoints() {
		endpoints[net.String()] = EndpointConfig{
			BaseLayer: le.BaseLayer,
			Ephemeral: le.Ephemeral,
		}
	}

	return Config{
		Network:           core.DefaultNetwork.String(),
		Endpoints:         endpoints,
		RequestsPerSecond: DefaultRequestsPerSecond,
		RequestBurst:      DefaultRequestBurst,
		ConfirmTimeout:    core.DefaultConfirmTimeout,
		PollInterval:      core.DefaultPollInterval,
	}
}

// Validate performs basic validation of the config, canonicalizing the
// network name and endpoint URLs.
func (cfg *Config) Validate() error {
	net, err := core.Network(cfg.Network).Validate()
	if err != nil {
		return fmt.Errorf("nodebuilder/core: %w", err)
	}
	cfg.Network = net.String()

	for name, ec := range cfg.Endpoints {
		base, err := utils.ValidateEndpoint(ec.BaseLayer)
		if err != nil {
			return fmt.Errorf("nodebuilder/core: invalid base layer endpoint of %s: %w", name, err)
		}
		ephemeral, err := utils.ValidateEndpoint(ec.Ephemeral)
		if err != nil {
			return fmt.Errorf("nodebuilder/core: invalid ephemeral endpoint of %s: %w", name, err)
		}
		cfg.Endpoints[name] = EndpointConfig{BaseLayer: base, Ephemeral: ephemeral}
	}
	if _, ok := cfg.Endpoints[cfg.Network]; !ok {
		return fmt.Errorf("nodebuilder/core: %w: %s", ErrNoEndpoints, cfg.Network)
	}

	if cfg.RequestsPerSecond < 0 {
		return fmt.Errorf("nodebuilder/core: requests per second must not be negative")
	}
	if cfg.ConfirmTimeout <= 0 {
		return fmt.Errorf("nodebuilder/core: confirm timeout must be positive")
	}
	if cfg.PollInterval <= 0 || cfg.PollInterval >= cfg.ConfirmTimeout {
		return fmt.Errorf("nodebuilder/core: poll interval must be positive and below confirm timeout")
	}
	return nil
}

// NetworkID returns the configured network. The config must be validated.
func (cfg *Config) NetworkID() core.Network {
	return core.Network(cfg.Network)
}

// EndpointTable converts the configured endpoints into the table the state
// router resolves endpoints from.
func (cfg *Config) EndpointTable() core.Endpoints {
	table := make(core.Endpoints, len(cfg.Endpoints))
	for name, ec := range cfg.Endpoints {
		net, err := core.Network(name).Validate()
		if err != nil {
			log.Warnw("skipping endpoints of unknown network", "network", name)
			continue
		}
		table[net] = core.LayerEndpoints{
			BaseLayer: ec.BaseLayer,
			Ephemeral: ec.Ephemeral,
		}
	}
	return table
}

func (cfg *Config) clientOptions() []core.Option {
	return []core.Option{
		core.WithConfirmTimeout(cfg.ConfirmTimeout),
		core.WithPollInterval(cfg.PollInterval),
		core.WithRateLimit(cfg.RequestsPerSecond, cfg.RequestBurst),
	}
}
