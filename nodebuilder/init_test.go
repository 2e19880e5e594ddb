package nodebuilder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	require.NoError(t, Init(*cfg, dir))
	assert.True(t, IsInit(dir))

	// initializing twice keeps the store usable
	require.NoError(t, Init(*cfg, dir))
	assert.True(t, IsInit(dir))
}

// notADir returns a path whose parent is a regular file.
func notADir(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	return filepath.Join(file, "store")
}

func TestInitErrForInvalidPath(t *testing.T) {
	path := notADir(t)
	cfg := DefaultConfig()
	require.Error(t, Init(*cfg, path))
}

func TestInitErrForInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Core.Network = "testnet"
	require.Error(t, Init(*cfg, dir))
	assert.False(t, IsInit(dir))
}

func TestIsInitWithBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(layout(dir).config())
	require.NoError(t, err)
	defer f.Close()
	//nolint:errcheck
	f.Write([]byte(`
		[Core]
		  Endpoints = [localnet]
    `))
	assert.False(t, IsInit(dir))
}

func TestIsInitForNonExistDir(t *testing.T) {
	path := notADir(t)
	assert.False(t, IsInit(path))
}

func TestInitErrForLockedDir(t *testing.T) {
	dir := t.TempDir()
	flk := flock.New(layout(dir).lockFile())
	_, err := flk.TryLock()
	require.NoError(t, err)
	defer flk.Unlock() //nolint:errcheck

	cfg := DefaultConfig()
	require.Error(t, Init(*cfg, dir))
}
