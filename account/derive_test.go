package account

import (
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProgram = MustParseAddress("WoRLDxMojo111111111111111111111111111111111")

func randomOwner(t *testing.T) Address {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	owner, err := AddressFromBytes(pub)
	require.NoError(t, err)
	return owner
}

func TestDeriveDeterministic(t *testing.T) {
	owner := randomOwner(t)

	addr1, fp1, err := Derive(testProgram, owner, "inventory")
	require.NoError(t, err)
	addr2, fp2, err := Derive(testProgram, owner, "inventory")
	require.NoError(t, err)

	assert.Equal(t, addr1, addr2)
	assert.Equal(t, fp1, fp2)
	assert.False(t, IsOnCurve(addr1[:]))
}

func TestDeriveDistinct(t *testing.T) {
	ownerA, ownerB := randomOwner(t), randomOwner(t)

	addrA, fpA, err := Derive(testProgram, ownerA, "a")
	require.NoError(t, err)
	addrB, fpB, err := Derive(testProgram, ownerA, "b")
	require.NoError(t, err)
	assert.NotEqual(t, addrA, addrB)
	assert.NotEqual(t, fpA, fpB)

	addrOther, fpOther, err := Derive(testProgram, ownerB, "a")
	require.NoError(t, err)
	assert.NotEqual(t, addrA, addrOther)
	assert.NotEqual(t, fpA, fpOther)

	otherProgram := randomOwner(t)
	addrProg, fpProg, err := Derive(otherProgram, ownerA, "a")
	require.NoError(t, err)
	assert.NotEqual(t, addrA, addrProg)
	// the fingerprint binds owner and name only
	assert.Equal(t, fpA, fpProg)
}

func TestDeriveNameLength(t *testing.T) {
	owner := randomOwner(t)

	tests := []struct {
		name   string
		input  string
		expErr error
	}{
		{name: "empty", input: ""},
		{name: "at bound", input: strings.Repeat("x", MaxNameLength)},
		{name: "multi-byte at bound", input: strings.Repeat("é", MaxNameLength/2)},
		{name: "over bound", input: strings.Repeat("x", MaxNameLength+1), expErr: ErrInvalidNameLength},
		{name: "multi-byte over bound", input: strings.Repeat("é", MaxNameLength/2+1), expErr: ErrInvalidNameLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Derive(testProgram, owner, tt.input)
			if tt.expErr != nil {
				require.ErrorIs(t, err, tt.expErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSeedFraming(t *testing.T) {
	owner := randomOwner(t)
	// moving bytes between owner and name must not collide
	var shifted Address
	copy(shifted[:], owner[1:])
	shifted[AddressLength-1] = 'a'

	assert.NotEqual(t, Seed(owner, "ab"), Seed(shifted, "b"))
	assert.NotEqual(t, Seed(owner, ""), Seed(owner, "\x00"))
}

func TestDeriverCache(t *testing.T) {
	owner := randomOwner(t)

	_, err := NewDeriver(testProgram, -1)
	require.Error(t, err)

	for _, size := range []int{0, 4} {
		d, err := NewDeriver(testProgram, size)
		require.NoError(t, err)
		require.Equal(t, testProgram, d.Program())

		addr, fp, err := Derive(testProgram, owner, "inventory")
		require.NoError(t, err)

		for range 3 {
			got, err := d.Derive(owner, "inventory")
			require.NoError(t, err)
			require.Equal(t, addr, got.Address)
			require.Equal(t, fp, got.Fingerprint)
		}

		_, err = d.Derive(owner, strings.Repeat("x", MaxNameLength+1))
		require.ErrorIs(t, err, ErrInvalidNameLength)
	}
}
