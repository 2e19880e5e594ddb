package nodebuilder

import (
	"bytes"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWriteRead(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	in := DefaultConfig()

	err := in.Encode(buf)
	require.NoError(t, err)

	var out Config
	err = out.Decode(buf)
	require.NoError(t, err)
	assert.EqualValues(t, in, &out)
}

// TestUpdateConfig tests that updating an outdated config
// using a new default config applies the new values while
// preserving the ones set by the user.
func TestUpdateConfig(t *testing.T) {
	var cfg Config
	_, err := toml.Decode(outdatedConfig, &cfg)
	require.NoError(t, err)

	newCfg := DefaultConfig()
	// ensure this config field is not filled in the outdated config
	require.NotEqual(t, newCfg.State.DerivationCacheSize, cfg.State.DerivationCacheSize)

	cfg2, err := updateConfig(&cfg, newCfg)
	require.NoError(t, err)

	// user values survive
	assert.Equal(t, "localnet", cfg2.Core.Network)
	assert.Equal(t, "http://127.0.0.1:9999", cfg2.Core.Endpoints["localnet"].BaseLayer)
	assert.Equal(t, "treasury", cfg2.State.KeyName)
	assert.Equal(t, 30*time.Second, cfg2.Core.ConfirmTimeout)
	// missing values are filled in
	assert.Equal(t, newCfg.State.DerivationCacheSize, cfg2.State.DerivationCacheSize)
	assert.Equal(t, newCfg.State.ProgramID, cfg2.State.ProgramID)
	assert.Equal(t, newCfg.Core.Endpoints["devnet"], cfg2.Core.Endpoints["devnet"])
	require.NoError(t, cfg2.Validate())
}

func TestUpdateConfigOnDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(*DefaultConfig(), dir))

	cfg, err := LoadConfig(layout(dir).config())
	require.NoError(t, err)
	cfg.State.DerivationCacheSize = 0
	cfg.State.KeyName = "treasury"
	require.NoError(t, SaveConfig(layout(dir).config(), cfg))

	require.NoError(t, UpdateConfig(dir))
	cfg, err = LoadConfig(layout(dir).config())
	require.NoError(t, err)
	assert.Equal(t, "treasury", cfg.State.KeyName)
	assert.Equal(t, DefaultConfig().State.DerivationCacheSize, cfg.State.DerivationCacheSize)

	store, err := OpenStore(dir)
	require.NoError(t, err)
	assert.ErrorIs(t, UpdateConfig(dir), ErrOpened)
	require.NoError(t, store.Close())
}

const outdatedConfig = `
[Core]
  Network = "localnet"
  ConfirmTimeout = "30s"

  [Core.Endpoints]
    [Core.Endpoints.localnet]
      BaseLayer = "http://127.0.0.1:9999"
      Ephemeral = "http://127.0.0.1:7799"

[State]
  KeyName = "treasury"
`
