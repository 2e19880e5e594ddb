package state

import (
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
)

var (
	keyNameFlag   = "state.key"
	programIDFlag = "state.program"
	strictFlag    = "state.strict"
)

// Flags gives a set of hardcoded State flags.
func Flags() *flag.FlagSet {
	flags := &flag.FlagSet{}

	flags.String(keyNameFlag, "", "Name of the keystore key that pays for and signs transactions.")
	flags.String(programIDFlag, "", "Overrides the world program id state accounts are derived under.")
	flags.Bool(strictFlag, false, "Rejects writes to accounts this node has not seen delegated.")
	return flags
}

// ParseFlags parses State flags from the given cmd and saves them to the passed config.
func ParseFlags(cmd *cobra.Command, cfg *Config) error {
	if name := cmd.Flag(keyNameFlag).Value.String(); name != "" {
		cfg.KeyName = name
	}
	if program := cmd.Flag(programIDFlag).Value.String(); program != "" {
		cfg.ProgramID = program
	}
	if cmd.Flag(strictFlag).Changed {
		strict, err := cmd.Flags().GetBool(strictFlag)
		if err != nil {
			return err
		}
		cfg.StrictLifecycle = strict
	}
	return cfg.Validate()
}
