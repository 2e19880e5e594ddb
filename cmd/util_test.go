package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeToBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{
			// Testcase: hex with prefix
			name:  "hex",
			input: "0x0102ff",
			want:  []byte{1, 2, 0xff},
		},
		{
			// Testcase: base64 without prefix
			name:  "base64",
			input: "AQL/",
			want:  []byte{1, 2, 0xff},
		},
		{
			// Testcase: odd hex digits
			name:    "bad hex",
			input:   "0x012",
			wantErr: true,
		},
		{
			// Testcase: unprefixed hex is read as base64 and fails
			name:    "bad base64",
			input:   "01-2",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeToBytes(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, PrintOutput(buf, map[string]int{"count": 5}, nil, nil))
	assert.JSONEq(t, `{"result":{"count":5}}`, buf.String())

	buf.Reset()
	require.NoError(t, PrintOutput(buf, nil, errors.New("boom"), nil))
	assert.JSONEq(t, `{"result":"boom"}`, buf.String())

	buf.Reset()
	double := func(v interface{}) interface{} { return v.(int) * 2 }
	require.NoError(t, PrintOutput(buf, 21, nil, double))
	assert.JSONEq(t, `{"result":42}`, buf.String())
}
