package account

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		addr   string
		expErr bool
	}{
		// Testcase: system program
		{addr: "11111111111111111111111111111111"},
		// Testcase: regular address
		{addr: "DELeGGvXpWV2fqJUhqcF5ZSYMS4JTLjteaAMARRSaeSh"},
		// Testcase: empty
		{addr: "", expErr: true},
		// Testcase: not base58
		{addr: "0OIl", expErr: true},
		// Testcase: too short
		{addr: "3yZe7d", expErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			addr, err := ParseAddress(tt.addr)
			if tt.expErr {
				require.ErrorIs(t, err, ErrInvalidAddress)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.addr, addr.String())
		})
	}
}

func TestSystemProgram(t *testing.T) {
	require.True(t, SystemProgram.IsZero())
	require.Equal(t, "11111111111111111111111111111111", SystemProgram.String())
}

func TestAddressJSON(t *testing.T) {
	owner := randomOwner(t)

	raw, err := json.Marshal(struct{ Owner Address }{owner})
	require.NoError(t, err)
	require.JSONEq(t, `{"Owner":"`+owner.String()+`"}`, string(raw))

	var out struct{ Owner Address }
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Equal(t, owner, out.Owner)
	require.Equal(t, owner[:], out.Owner.Bytes())
}

func TestFindProgramAddress(t *testing.T) {
	seeds := make([][]byte, MaxSeeds)
	_, _, err := FindProgramAddress(seeds, testProgram)
	require.ErrorIs(t, err, ErrMaxSeeds)

	_, _, err = FindProgramAddress([][]byte{make([]byte, MaxSeedLength+1)}, testProgram)
	require.ErrorIs(t, err, ErrMaxSeedLength)

	addr, bump, err := FindProgramAddress([][]byte{[]byte("buffer")}, testProgram)
	require.NoError(t, err)
	require.False(t, IsOnCurve(addr[:]))

	again, err := CreateProgramAddress([][]byte{[]byte("buffer"), {bump}}, testProgram)
	require.NoError(t, err)
	require.Equal(t, addr, again)
}

func TestIsOnCurve(t *testing.T) {
	owner := randomOwner(t)
	require.True(t, IsOnCurve(owner[:]))
	require.False(t, IsOnCurve(owner[:31]))
}
