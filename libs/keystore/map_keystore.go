package keystore

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
)

// mapKeystore keeps keys in memory. It backs tests and ephemeral nodes.
type mapKeystore struct {
	keys   map[KeyName]PrivKey
	keysLk sync.Mutex
}

// NewMapKeystore constructs in-memory Keystore.
func NewMapKeystore() Keystore {
	return &mapKeystore{keys: make(map[KeyName]PrivKey)}
}

func (m *mapKeystore) Put(n KeyName, k PrivKey) error {
	if err := k.Validate(); err != nil {
		return err
	}

	m.keysLk.Lock()
	defer m.keysLk.Unlock()

	if _, ok := m.keys[n]; ok {
		return fmt.Errorf("%w: '%s'", ErrExists, n)
	}

	m.keys[n] = PrivKey{Body: bytes.Clone(k.Body)}
	return nil
}

func (m *mapKeystore) Get(n KeyName) (PrivKey, error) {
	m.keysLk.Lock()
	defer m.keysLk.Unlock()

	k, ok := m.keys[n]
	if !ok {
		return PrivKey{}, fmt.Errorf("%w: '%s'", ErrNotFound, n)
	}

	return PrivKey{Body: bytes.Clone(k.Body)}, nil
}

func (m *mapKeystore) Delete(n KeyName) error {
	m.keysLk.Lock()
	defer m.keysLk.Unlock()

	if _, ok := m.keys[n]; !ok {
		return fmt.Errorf("%w: '%s'", ErrNotFound, n)
	}

	delete(m.keys, n)
	return nil
}

func (m *mapKeystore) List() ([]KeyName, error) {
	m.keysLk.Lock()
	defer m.keysLk.Unlock()

	keys := make([]KeyName, 0, len(m.keys))
	for k := range m.keys {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys, nil
}

func (m *mapKeystore) Path() string {
	return ""
}
