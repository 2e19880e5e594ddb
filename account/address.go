package account

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// AddressLength is the byte length of a ledger address.
const AddressLength = 32

var ErrInvalidAddress = errors.New("account: invalid address")

// Address is a 32-byte ledger address: either an ed25519 public key or a
// program-derived address that has no private key.
type Address [AddressLength]byte

// SystemProgram is the address of the ledger's native system program.
var SystemProgram = Address{}

// ParseAddress decodes the base58 text form of an Address.
func ParseAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %s: %w", ErrInvalidAddress, s, err)
	}
	return AddressFromBytes(b)
}

// MustParseAddress is ParseAddress that panics on failure. Use for constants only.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// AddressFromBytes copies b into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressLength {
		return Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLength, len(b))
	}
	var addr Address
	copy(addr[:], b)
	return addr, nil
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return a.UnmarshalText([]byte(s))
}
