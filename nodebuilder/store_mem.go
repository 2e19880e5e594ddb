package nodebuilder

import (
	"sync"

	"github.com/mojo-labs/mojo/libs/keystore"
)

// NewMemStore creates an in-memory Store for Node.
// Useful for testing.
func NewMemStore() Store {
	return &memStore{
		keys: keystore.NewMapKeystore(),
	}
}

type memStore struct {
	keys keystore.Keystore

	cfgLk sync.Mutex
	cfg   *Config
}

func (m *memStore) Path() string {
	return ""
}

func (m *memStore) Keystore() (keystore.Keystore, error) {
	return m.keys, nil
}

func (m *memStore) Config() (*Config, error) {
	m.cfgLk.Lock()
	defer m.cfgLk.Unlock()
	if m.cfg == nil {
		return nil, ErrNotInited
	}
	return m.cfg, nil
}

func (m *memStore) PutConfig(cfg *Config) error {
	m.cfgLk.Lock()
	defer m.cfgLk.Unlock()
	m.cfg = cfg
	return nil
}

func (m *memStore) Close() error {
	return nil
}
