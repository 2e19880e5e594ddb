package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/mojo-labs/mojo/nodebuilder"
	"github.com/mojo-labs/mojo/nodebuilder/core"
	"github.com/mojo-labs/mojo/nodebuilder/state"
)

var log = logging.Logger("cmd")

// PrintOutput writes data, or err if set, to w as an indented JSON result.
func PrintOutput(w io.Writer, data interface{}, err error, formatData func(interface{}) interface{}) error {
	switch {
	case err != nil:
		data = err.Error()
	case formatData != nil:
		data = formatData(data)
	}

	resp := struct {
		Result interface{} `json:"result"`
	}{
		Result: data,
	}

	bytes, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bytes))
	return err
}

// DecodeToBytes decodes a Base64 or 0x prefixed hex input string into a byte slice.
func DecodeToBytes(param string) ([]byte, error) {
	if hexData, ok := strings.CutPrefix(param, "0x"); ok {
		b, err := hex.DecodeString(hexData)
		if err != nil {
			return nil, fmt.Errorf("cmd: decoding hex data: %w", err)
		}
		return b, nil
	}
	b, err := base64.StdEncoding.DecodeString(param)
	if err != nil {
		return nil, fmt.Errorf("cmd: decoding base64 data: %w", err)
	}
	return b, nil
}

// moduleParsers apply per-module flags on top of the loaded node config.
var moduleParsers = []func(*cobra.Command, *nodebuilder.Config) error{
	func(cmd *cobra.Command, cfg *nodebuilder.Config) error { return core.ParseFlags(cmd, &cfg.Core) },
	func(cmd *cobra.Command, cfg *nodebuilder.Config) error { return state.ParseFlags(cmd, &cfg.State) },
}

// PersistentPreRunEnv loads the node config, applies module and misc flags
// to it and stores the result in the command's context.
func PersistentPreRunEnv(cmd *cobra.Command, _ []string) error {
	ctx, err := ParseNodeFlags(cmd.Context(), cmd)
	if err != nil {
		return err
	}

	cfg := NodeConfig(ctx)
	for _, parse := range moduleParsers {
		if err := parse(cmd, &cfg); err != nil {
			return err
		}
	}

	ctx, err = ParseMiscFlags(WithNodeConfig(ctx, &cfg), cmd)
	if err != nil {
		return err
	}
	cmd.SetContext(ctx)
	return nil
}

// WithFlagSet adds the given flagset to the command.
func WithFlagSet(fset []*flag.FlagSet) func(*cobra.Command) {
	return func(c *cobra.Command) {
		for _, set := range fset {
			c.PersistentFlags().AddFlagSet(set)
		}
	}
}
