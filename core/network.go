package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	// DefaultNetwork is the network used when none is configured.
	DefaultNetwork = Devnet
	// Mainnet is the production ledger.
	Mainnet Network = "mainnet"
	// Devnet is the public development ledger.
	Devnet Network = "devnet"
	// Localnet targets validators running on the local machine.
	Localnet Network = "localnet"
)

var (
	// ErrInvalidNetwork is thrown when an unknown network is used.
	ErrInvalidNetwork = errors.New("core: invalid network")
	// ErrUnknownEndpoint is thrown when no endpoint is configured for a network and layer.
	ErrUnknownEndpoint = errors.New("core: no endpoint configured")
)

// Network is a declared ledger deployment. Endpoint selection is keyed on it.
type Network string

// networksList is a strict list of all known networks.
var networksList = map[Network]struct{}{
	Mainnet:  {},
	Devnet:   {},
	Localnet: {},
}

// networkAliases maps alternative names to the Network they stand for.
var networkAliases = map[string]Network{
	"mainnet-beta": Mainnet,
	"main":         Mainnet,
	"dev":          Devnet,
	"local":        Localnet,
	"localhost":    Localnet,
}

// Validate returns the canonical Network, resolving aliases.
func (n Network) Validate() (Network, error) {
	if net, ok := networkAliases[string(n)]; ok {
		return net, nil
	}
	if _, ok := networksList[n]; !ok {
		return "", fmt.Errorf("%w: %q, expected one of %s", ErrInvalidNetwork, string(n), listNetworks())
	}
	return n, nil
}

func (n Network) String() string {
	return string(n)
}

func listNetworks() string {
	networks := make([]string, 0, len(networksList))
	for net := range networksList {
		networks = append(networks, string(net))
	}
	sort.Strings(networks)
	return strings.Join(networks, ", ")
}

// Layer selects which tier of the ledger a request goes to.
type Layer uint8

const (
	// BaseLayer is the authoritative ledger where accounts are created and delegated.
	BaseLayer Layer = iota
	// Ephemeral is the fast layer that accepts writes for delegated accounts.
	Ephemeral
)

func (l Layer) String() string {
	switch l {
	case BaseLayer:
		return "base"
	case Ephemeral:
		return "ephemeral"
	default:
		return fmt.Sprintf("layer(%d)", uint8(l))
	}
}

// LayerEndpoints holds the RPC URLs of both layers of one network.
type LayerEndpoints struct {
	BaseLayer string
	Ephemeral string
}

// Endpoints is the static endpoint table keyed by network and layer.
type Endpoints map[Network]LayerEndpoints

// DefaultEndpoints returns the public endpoints of every known network.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Mainnet: {
			BaseLayer: "https://api.mainnet-beta.solana.com",
			Ephemeral: "https://mainnet-beta-eu.magicblock.app",
		},
		Devnet: {
			BaseLayer: "https://api.devnet.solana.com",
			Ephemeral: "https://devnet-eu.magicblock.app",
		},
		Localnet: {
			BaseLayer: "http://127.0.0.1:8899",
			Ephemeral: "http://127.0.0.1:7799",
		},
	}
}

// Endpoint returns the URL serving layer l of network n.
func (e Endpoints) Endpoint(n Network, l Layer) (string, error) {
	le, ok := e[n]
	if !ok {
		return "", fmt.Errorf("%w: network %s", ErrUnknownEndpoint, n)
	}

	var url string
	switch l {
	case BaseLayer:
		url = le.BaseLayer
	case Ephemeral:
		url = le.Ephemeral
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownEndpoint, l)
	}
	if url == "" {
		return "", fmt.Errorf("%w: %s layer of %s", ErrUnknownEndpoint, l, n)
	}
	return url, nil
}
