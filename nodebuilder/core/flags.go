package core

import (
	"fmt"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var (
	networkFlag        = "core.network"
	baseURLFlag        = "core.base.url"
	ephemeralURLFlag   = "core.ephemeral.url"
	rateLimitFlag      = "core.rps"
	confirmTimeoutFlag = "core.confirm.timeout"
)

// Flags gives a set of hardcoded Core flags.
func Flags() *flag.FlagSet {
	flags := &flag.FlagSet{}

	flags.String(
		networkFlag,
		"",
		"Network to talk to: mainnet, devnet or localnet. Overrides the network of the config.",
	)
	flags.String(
		baseURLFlag,
		"",
		"Custom base layer RPC URL for the selected network. Requires --core.ephemeral.url.",
	)
	flags.String(
		ephemeralURLFlag,
		"",
		"Custom ephemeral layer RPC URL for the selected network. Requires --core.base.url.",
	)
	flags.Float64(
		rateLimitFlag,
		DefaultRequestsPerSecond,
		"Maximum requests per second sent to each endpoint, 0 disables the limit.",
	)
	flags.Duration(
		confirmTimeoutFlag,
		0,
		"How long to wait for a transaction to be confirmed.",
	)
	return flags
}

// ParseFlags parses Core flags from the given cmd and saves them to the passed config.
func ParseFlags(
	cmd *cobra.Command,
	cfg *Config,
) error {
	if net := cmd.Flag(networkFlag).Value.String(); net != "" {
		cfg.Network = net
	}

	base := cmd.Flag(baseURLFlag).Value.String()
	ephemeral := cmd.Flag(ephemeralURLFlag).Value.String()
	switch {
	case base == "" && ephemeral == "":
	case base == "" || ephemeral == "":
		return fmt.Errorf("cannot specify only one of --%s and --%s", baseURLFlag, ephemeralURLFlag)
	default:
		if cfg.Endpoints == nil {
			cfg.Endpoints = make(map[string]EndpointConfig)
		}
		cfg.Endpoints[cfg.Network] = EndpointConfig{BaseLayer: base, Ephemeral: ephemeral}
	}

	if cmd.Flag(rateLimitFlag).Changed {
		rps, err := cmd.Flags().GetFloat64(rateLimitFlag)
		if err != nil {
			return err
		}
		cfg.RequestsPerSecond = rps
	}
	if cmd.Flag(confirmTimeoutFlag).Changed {
		timeout, err := cmd.Flags().GetDuration(confirmTimeoutFlag)
		if err != nil {
			return err
		}
		cfg.ConfirmTimeout = timeout
	}
	return cfg.Validate()
}
