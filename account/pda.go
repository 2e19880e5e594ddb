package account

import (
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/minio/sha256-simd"
)

const (
	// MaxSeeds is the maximum number of seeds a program-derived address may use.
	MaxSeeds = 16
	// MaxSeedLength is the maximum byte length of a single seed.
	MaxSeedLength = 32

	maxBump = 255
)

var (
	ErrMaxSeeds       = errors.New("account: too many seeds")
	ErrMaxSeedLength  = errors.New("account: seed exceeds maximum length")
	ErrNoViableBump   = errors.New("account: unable to find a viable program address bump")
	ErrAddressOnCurve = errors.New("account: derived address lies on the ed25519 curve")

	pdaMarker = []byte("ProgramDerivedAddress")
)

// CreateProgramAddress derives the address of the given seeds under program.
// The result must not be a valid ed25519 point, so that no private key exists
// for it.
func CreateProgramAddress(seeds [][]byte, program Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return Address{}, fmt.Errorf("%w: %d > %d", ErrMaxSeeds, len(seeds), MaxSeeds)
	}

	h := sha256.New()
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Address{}, fmt.Errorf("%w: seed %d is %d bytes", ErrMaxSeedLength, i, len(seed))
		}
		h.Write(seed)
	}
	h.Write(program[:])
	h.Write(pdaMarker)

	var addr Address
	copy(addr[:], h.Sum(nil))
	if IsOnCurve(addr[:]) {
		return Address{}, ErrAddressOnCurve
	}
	return addr, nil
}

// FindProgramAddress searches bumps from 255 down and returns the first
// off-curve address for seeds||bump under program together with the bump.
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	// one slot is taken by the bump seed
	if len(seeds) >= MaxSeeds {
		return Address{}, 0, fmt.Errorf("%w: %d seeds leave no room for the bump", ErrMaxSeeds, len(seeds))
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	bump := []byte{0}
	withBump[len(seeds)] = bump

	for b := maxBump; b >= 0; b-- {
		bump[0] = byte(b)
		addr, err := CreateProgramAddress(withBump, program)
		switch {
		case err == nil:
			return addr, byte(b), nil
		case errors.Is(err, ErrAddressOnCurve):
			continue
		default:
			return Address{}, 0, err
		}
	}
	return Address{}, 0, ErrNoViableBump
}

// IsOnCurve reports whether b is the compressed encoding of a point on the
// ed25519 curve.
func IsOnCurve(b []byte) bool {
	if len(b) != AddressLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
