package account

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/minio/sha256-simd"
)

// MaxNameLength bounds the byte length of an account name. The name is used
// verbatim as a derivation seed, so it shares the seed bound.
const MaxNameLength = MaxSeedLength

// FingerprintLength is the byte length of a seed fingerprint.
const FingerprintLength = sha256.Size

var ErrInvalidNameLength = errors.New("account: invalid name length")

var (
	worldSeed       = []byte("world")
	fingerprintTag  = []byte("mojo:world-seed")
	errCacheSizeNeg = errors.New("account: cache size must be positive")
)

// Fingerprint is the hash of an (owner, name) seed pair. It is stored next to
// account data so the program can check a submitted seed against the target
// account.
type Fingerprint [FingerprintLength]byte

func (f Fingerprint) String() string {
	return fmt.Sprintf("%x", f[:])
}

// MarshalText encodes the fingerprint as hex.
func (f Fingerprint) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Seed computes the fingerprint of the (owner, name) pair. The owner is
// fixed-width, so the concatenation cannot be shifted between owner and name.
func Seed(owner Address, name string) Fingerprint {
	h := sha256.New()
	h.Write(fingerprintTag)
	h.Write(owner[:])
	h.Write([]byte(name))

	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}

// Derive maps (owner, name) under program to the account address and the
// seed fingerprint. It fails only when name exceeds MaxNameLength.
func Derive(program, owner Address, name string) (Address, Fingerprint, error) {
	if len(name) > MaxNameLength {
		return Address{}, Fingerprint{}, fmt.Errorf("%w: %d bytes, max %d", ErrInvalidNameLength, len(name), MaxNameLength)
	}

	addr, _, err := FindProgramAddress([][]byte{worldSeed, owner[:], []byte(name)}, program)
	if err != nil {
		return Address{}, Fingerprint{}, err
	}
	return addr, Seed(owner, name), nil
}

// Derived is the result of a derivation.
type Derived struct {
	Address     Address
	Fingerprint Fingerprint
}

type derivationKey struct {
	owner Address
	name  string
}

// Deriver binds Derive to a single program and optionally memoizes results.
// It is safe for concurrent use.
type Deriver struct {
	program Address
	cache   *lru.Cache[derivationKey, Derived]
}

// NewDeriver returns a Deriver for program. A cacheSize of zero disables the cache.
func NewDeriver(program Address, cacheSize int) (*Deriver, error) {
	d := &Deriver{program: program}
	if cacheSize < 0 {
		return nil, errCacheSizeNeg
	}
	if cacheSize == 0 {
		return d, nil
	}

	cache, err := lru.New[derivationKey, Derived](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("account: creating derivation cache: %w", err)
	}
	d.cache = cache
	return d, nil
}

// Program returns the program the Deriver derives under.
func (d *Deriver) Program() Address {
	return d.program
}

// Derive is Derive bound to the Deriver's program.
func (d *Deriver) Derive(owner Address, name string) (Derived, error) {
	key := derivationKey{owner: owner, name: name}
	if d.cache != nil {
		if v, ok := d.cache.Get(key); ok {
			return v, nil
		}
	}

	addr, fp, err := Derive(d.program, owner, name)
	if err != nil {
		return Derived{}, err
	}

	v := Derived{Address: addr, Fingerprint: fp}
	if d.cache != nil {
		d.cache.Add(key, v)
	}
	return v, nil
}
