package core

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"

	"github.com/mr-tron/base58"

	"github.com/mojo-labs/mojo/account"
)

// SignatureLength is the byte length of a transaction signature.
const SignatureLength = ed25519.SignatureSize

var ErrInvalidSignature = errors.New("core: invalid signature")

// Signer authorizes transactions on behalf of an account.
type Signer interface {
	// PublicKey returns the address the signer signs for.
	PublicKey() account.Address
	// Sign signs a serialized transaction message.
	Sign(message []byte) ([]byte, error)
}

// Signature identifies a submitted transaction.
type Signature [SignatureLength]byte

// ParseSignature decodes the base58 text form of a Signature.
func ParseSignature(s string) (Signature, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if len(b) != SignatureLength {
		return Signature{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, SignatureLength, len(b))
	}
	var sig Signature
	copy(sig[:], b)
	return sig, nil
}

func (s Signature) String() string {
	return base58.Encode(s[:])
}

// IsZero reports whether s is unset.
func (s Signature) IsZero() bool {
	return s == Signature{}
}

// Keypair is an ed25519 Signer.
type Keypair struct {
	priv ed25519.PrivateKey
	pub  account.Address
}

// GenerateKeypair creates a new Keypair from rand. A nil rand uses crypto/rand.
func GenerateKeypair(rand io.Reader) (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("core: generating keypair: %w", err)
	}
	return KeypairFromPrivateKey(priv)
}

// KeypairFromPrivateKey wraps a 64-byte ed25519 private key.
func KeypairFromPrivateKey(priv []byte) (*Keypair, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("core: private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(priv))
	}

	key := ed25519.PrivateKey(append([]byte(nil), priv...))
	pub, err := account.AddressFromBytes(key.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Keypair{priv: key, pub: pub}, nil
}

func (k *Keypair) PublicKey() account.Address {
	return k.pub
}

func (k *Keypair) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(k.priv, message), nil
}

// PrivateKey returns a copy of the 64-byte private key.
func (k *Keypair) PrivateKey() []byte {
	return append([]byte(nil), k.priv...)
}
