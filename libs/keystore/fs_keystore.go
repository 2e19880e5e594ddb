package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

const keyExt = ".json"

// fsKeystore stores every key in its own file. File names are the Base32 form
// of the key name; contents are the key as a JSON array of bytes, the format
// ledger wallets use for keypair files.
type fsKeystore struct {
	path string
	lk   sync.Mutex
}

// NewFSKeystore creates a Keystore rooted at path, creating the directory
// when missing.
func NewFSKeystore(path string) (Keystore, error) {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("keystore: creating %s: %w", path, err)
	}
	return &fsKeystore{path: path}, nil
}

func (f *fsKeystore) Put(n KeyName, k PrivKey) error {
	if err := k.Validate(); err != nil {
		return err
	}

	f.lk.Lock()
	defer f.lk.Unlock()

	path := f.pathTo(n)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: '%s'", ErrExists, n)
	}

	body := make([]int, len(k.Body))
	for i, b := range k.Body {
		body[i] = int(b)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("keystore: encoding key '%s': %w", n, err)
	}

	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("keystore: writing key '%s': %w", n, err)
	}
	return nil
}

func (f *fsKeystore) Get(n KeyName) (PrivKey, error) {
	f.lk.Lock()
	defer f.lk.Unlock()

	path := f.pathTo(n)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return PrivKey{}, fmt.Errorf("%w: '%s'", ErrNotFound, n)
	}
	if err != nil {
		return PrivKey{}, fmt.Errorf("keystore: reading key '%s': %w", n, err)
	}
	if err = keyAccess(path); err != nil {
		return PrivKey{}, fmt.Errorf("keystore: key '%s' has insecure permissions: %w", n, err)
	}

	var body []byte
	var ints []int
	if err = json.Unmarshal(data, &ints); err != nil {
		return PrivKey{}, fmt.Errorf("%w: decoding '%s': %w", ErrInvalidKey, n, err)
	}
	for _, i := range ints {
		if i < 0 || i > 255 {
			return PrivKey{}, fmt.Errorf("%w: '%s' holds out of range byte %d", ErrInvalidKey, n, i)
		}
		body = append(body, byte(i))
	}

	k := PrivKey{Body: body}
	return k, k.Validate()
}

func (f *fsKeystore) Delete(n KeyName) error {
	f.lk.Lock()
	defer f.lk.Unlock()

	err := os.Remove(f.pathTo(n))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: '%s'", ErrNotFound, n)
	}
	if err != nil {
		return fmt.Errorf("keystore: deleting key '%s': %w", n, err)
	}
	return nil
}

func (f *fsKeystore) List() ([]KeyName, error) {
	f.lk.Lock()
	defer f.lk.Unlock()

	entries, err := os.ReadDir(f.path)
	if err != nil {
		return nil, fmt.Errorf("keystore: listing %s: %w", f.path, err)
	}

	keys := make([]KeyName, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), keyExt) {
			continue
		}
		name, err := KeyNameFromBase32(strings.TrimSuffix(e.Name(), keyExt))
		if err != nil {
			log.Warnw("skipping foreign file in keystore", "file", e.Name(), "err", err)
			continue
		}
		keys = append(keys, name)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys, nil
}

func (f *fsKeystore) Path() string {
	return f.path
}

func (f *fsKeystore) pathTo(n KeyName) string {
	return filepath.Join(f.path, n.Base32()+keyExt)
}
