package nodebuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojo-labs/mojo/libs/keystore"
)

func TestRepo(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenStore(dir)
	assert.ErrorIs(t, err, ErrNotInited)

	err = Init(*DefaultConfig(), dir)
	require.NoError(t, err)

	store, err := OpenStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, store.Path())

	_, err = OpenStore(dir)
	assert.ErrorIs(t, err, ErrOpened)

	ks, err := store.Keystore()
	assert.NoError(t, err)
	assert.NotNil(t, ks)
	assert.Equal(t, layout(dir).keys(), ks.Path())

	cfg, err := store.Config()
	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	cfg.State.KeyName = "treasury"
	require.NoError(t, store.PutConfig(cfg))

	err = store.Close()
	assert.NoError(t, err)

	// keys and config persist across opens
	store, err = OpenStore(dir)
	require.NoError(t, err)
	defer store.Close()

	cfg, err = store.Config()
	require.NoError(t, err)
	assert.Equal(t, "treasury", cfg.State.KeyName)
}

func TestMemStore(t *testing.T) {
	store := NewMemStore()
	_, err := store.Config()
	require.ErrorIs(t, err, ErrNotInited)

	cfg := DefaultConfig()
	require.NoError(t, store.PutConfig(cfg))
	got, err := store.Config()
	require.NoError(t, err)
	require.Equal(t, cfg, got)

	ks, err := store.Keystore()
	require.NoError(t, err)
	_, err = ks.Get(cfg.State.Key())
	require.ErrorIs(t, err, keystore.ErrNotFound)
}
