package nodebuilder

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/mitchellh/go-homedir"

	"github.com/mojo-labs/mojo/libs/keystore"
)

// DefaultStorePath is the Store location used when none is given.
const DefaultStorePath = "~/.mojo"

var (
	// ErrOpened is returned when another process holds the Store.
	ErrOpened = errors.New("node: store is in use")
	// ErrNotInited is returned when opening a Store that Init never created.
	ErrNotInited = errors.New("node: store is not initialized")
)

// Store is the on-disk home of a node: its config file and payer keys.
type Store interface {
	// Path reports the directory of the Store.
	Path() string
	// Keystore gives access to payer keys.
	Keystore() (keystore.Keystore, error)
	// Config reads the stored config.
	Config() (*Config, error)
	// PutConfig replaces the stored config.
	PutConfig(*Config) error
	// Close releases the Store lock.
	Close() error
}

// OpenStore opens an initialized Store and holds its lock until Close.
// A second OpenStore on the same directory fails with ErrOpened.
func OpenStore(path string) (Store, error) {
	dir, err := resolveLayout(path)
	if err != nil {
		return nil, err
	}
	if !IsInit(dir.root()) {
		return nil, ErrNotInited
	}

	lk, err := dir.lock()
	if err != nil {
		return nil, err
	}

	ks, err := keystore.NewFSKeystore(dir.keys())
	if err != nil {
		lk.Unlock() //nolint:errcheck
		return nil, err
	}
	return &fsStore{dir: dir, lk: lk, ks: ks}, nil
}

type fsStore struct {
	dir layout
	lk  *flock.Flock
	ks  keystore.Keystore
}

func (s *fsStore) Path() string {
	return s.dir.root()
}

func (s *fsStore) Keystore() (keystore.Keystore, error) {
	return s.ks, nil
}

func (s *fsStore) Config() (*Config, error) {
	cfg, err := LoadConfig(s.dir.config())
	if err != nil {
		return nil, fmt.Errorf("node: reading config: %w", err)
	}
	return cfg, nil
}

func (s *fsStore) PutConfig(cfg *Config) error {
	if err := SaveConfig(s.dir.config(), cfg); err != nil {
		return fmt.Errorf("node: writing config: %w", err)
	}
	return nil
}

func (s *fsStore) Close() error {
	return s.lk.Unlock()
}

// layout names the files of a Store rooted at an expanded directory.
type layout string

func resolveLayout(path string) (layout, error) {
	dir, err := homedir.Expand(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("node: expanding store path %q: %w", path, err)
	}
	return layout(dir), nil
}

func (l layout) root() string     { return string(l) }
func (l layout) config() string   { return filepath.Join(string(l), "config.toml") }
func (l layout) lockFile() string { return filepath.Join(string(l), "lock") }
func (l layout) keys() string     { return filepath.Join(string(l), "keys") }

// lock takes the Store lock without blocking.
func (l layout) lock() (*flock.Flock, error) {
	lk := flock.New(l.lockFile())
	ok, err := lk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("node: locking store: %w", err)
	}
	if !ok {
		return nil, ErrOpened
	}
	return lk, nil
}
