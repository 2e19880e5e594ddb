// Package keystore stores the ed25519 keys that pay for and sign ledger
// transactions.
package keystore

import (
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"github.com/multiformats/go-base32"
)

var log = logging.Logger("keystore")

// PrivKeySize is the byte length of an ed25519 private key (seed followed by
// the public key).
const PrivKeySize = 64

var (
	ErrNotFound   = errors.New("keystore: key not found")
	ErrExists     = errors.New("keystore: key already exists")
	ErrInvalidKey = errors.New("keystore: invalid key")
)

// Keystore is a storage of payer keys by name.
type Keystore interface {
	// Put stores the key under name. Existing keys are never overwritten.
	Put(KeyName, PrivKey) error
	// Get returns the key stored under name.
	Get(KeyName) (PrivKey, error)
	// Delete removes the key stored under name.
	Delete(name KeyName) error
	// List lists the names of all stored keys.
	List() ([]KeyName, error)
	// Path reports the path of the Keystore, empty for in-memory ones.
	Path() string
}

// PrivKey is a stored private key.
type PrivKey struct {
	Body []byte
}

// Validate checks the key is a complete ed25519 private key.
func (p PrivKey) Validate() error {
	if len(p.Body) != PrivKeySize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, PrivKeySize, len(p.Body))
	}
	return nil
}

// KeyName represents private key name.
type KeyName string

// KeyNameFromBase32 decodes KeyName from Base32 format.
func KeyNameFromBase32(bs string) (KeyName, error) {
	name, err := base32.RawStdEncoding.DecodeString(bs)
	if err != nil {
		return "", err
	}

	return KeyName(name), nil
}

// Base32 formats KeyName to Base32 format, which is safe to use as a file name.
func (kn KeyName) Base32() string {
	return base32.RawStdEncoding.EncodeToString([]byte(kn))
}

func (kn KeyName) String() string {
	return string(kn)
}
