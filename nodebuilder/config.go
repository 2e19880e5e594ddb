package nodebuilder

import (
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/imdario/mergo"

	"github.com/mojo-labs/mojo/nodebuilder/core"
	"github.com/mojo-labs/mojo/nodebuilder/state"
)

// ConfigLoader defines a function that loads a config from any source.
type ConfigLoader func() (*Config, error)

// Config is main configuration structure for a Node.
// It combines configuration units for all Node subsystems.
type Config struct {
	Core  core.Config
	State state.Config
}

// DefaultConfig provides a default Config.
func DefaultConfig() *Config {
	return &Config{
		Core:  core.DefaultConfig(),
		State: state.DefaultConfig(),
	}
}

// Validate validates every configuration unit.
func (cfg *Config) Validate() error {
	if err := cfg.Core.Validate(); err != nil {
		return err
	}
	return cfg.State.Validate()
}

// SaveConfig saves Config 'cfg' under the given 'path'.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return cfg.Encode(f)
}

// LoadConfig loads Config from the given 'path'.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	return &cfg, cfg.Decode(f)
}

// UpdateConfig fills fields missing from the stored config with current
// defaults. The Store must not be open elsewhere.
func UpdateConfig(path string) error {
	dir, err := resolveLayout(path)
	if err != nil {
		return err
	}
	lk, err := dir.lock()
	if err != nil {
		return err
	}
	defer lk.Unlock() //nolint:errcheck

	cfg, err := LoadConfig(dir.config())
	if err != nil {
		return err
	}
	if cfg, err = updateConfig(cfg, DefaultConfig()); err != nil {
		return err
	}
	return SaveConfig(dir.config(), cfg)
}

// updateConfig copies into oldCfg every field it leaves empty.
func updateConfig(oldCfg, newCfg *Config) (*Config, error) {
	err := mergo.Merge(oldCfg, newCfg, mergo.WithOverrideEmptySlice)
	return oldCfg, err
}

// Encode encodes a given Config into w.
func (cfg *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Decode decodes a Config from a given reader r.
func (cfg *Config) Decode(r io.Reader) error {
	_, err := toml.NewDecoder(r).Decode(cfg)
	return err
}
