package decode

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/jon4hz/sweepbox/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := cbor.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestDecode_Strict(t *testing.T) {
	d, err := New(config.DeserializeModeStrict, 16)
	require.NoError(t, err)

	tests := []struct {
		name      string
		input     []byte
		wantType  string
		wantValue string
	}{
		{name: "int", input: mustMarshal(t, 42), wantType: "int64", wantValue: "42"},
		{name: "negative int", input: mustMarshal(t, -7), wantType: "int64", wantValue: "-7"},
		{name: "string", input: mustMarshal(t, "hello"), wantType: "string", wantValue: "hello"},
		{name: "bool", input: mustMarshal(t, true), wantType: "bool", wantValue: "true"},
		{name: "float", input: mustMarshal(t, 1.5), wantType: "float64", wantValue: "1.5"},
		{name: "null", input: []byte{0xf6}, wantType: "<nil>", wantValue: "<nil>"},
		{name: "list", input: mustMarshal(t, []any{1, "a"}), wantType: "[]interface {}", wantValue: "[1 a]"},
		{name: "map", input: mustMarshal(t, map[string]any{"b": 2, "a": 1}), wantType: "map[string]interface {}", wantValue: "map[a:1 b:2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, res.Type)
			assert.Equal(t, tt.wantValue, res.Value)
		})
	}
}

func TestDecode_StrictRejects(t *testing.T) {
	d, err := New(config.DeserializeModeStrict, 2)
	require.NoError(t, err)

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "empty", input: nil},
		{name: "truncated array", input: []byte{0x82, 0x01}},
		{name: "truncated string", input: []byte{0x65, 'h', 'e'}},
		{name: "lone break", input: []byte{0xff}},
		{name: "trailing bytes", input: []byte{0x01, 0x02}},
		{name: "tag", input: []byte{0xc1, 0x00}},
		{name: "byte string", input: []byte{0x43, 0x01, 0x02, 0x03}},
		{name: "integer key", input: []byte{0xa1, 0x01, 0x02}},
		{name: "duplicate key", input: []byte{0xa2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}},
		{name: "indefinite length", input: []byte{0x9f, 0x01, 0xff}},
		{name: "too deep", input: mustMarshal(t, []any{[]any{[]any{1}}})},
		{name: "uint64 overflow", input: []byte{0x1b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Decode(tt.input)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}

	res, err := d.Decode(mustMarshal(t, []any{[]any{1}}))
	require.NoError(t, err)
	assert.Equal(t, "[[1]]", res.Value)
}

func TestDecode_Unrestricted(t *testing.T) {
	d, err := New(config.DeserializeModeUnrestricted, 16)
	require.NoError(t, err)

	tests := []struct {
		name      string
		input     []byte
		wantType  string
		wantValue string
	}{
		{name: "int", input: mustMarshal(t, 42), wantType: "uint64", wantValue: "42"},
		{name: "byte string", input: []byte{0x43, 0x01, 0x02, 0x03}, wantType: "[]uint8", wantValue: "[1 2 3]"},
		{name: "integer key", input: []byte{0xa1, 0x01, 0x02}, wantType: "map[interface {}]interface {}", wantValue: "map[1:2]"},
		{name: "indefinite length", input: []byte{0x9f, 0x01, 0xff}, wantType: "[]interface {}", wantValue: "[1]"},
		{
			name:      "negative int below int64",
			input:     []byte{0x3b, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			wantType:  "*big.Int",
			wantValue: "-18446744073709551616",
		},
		{
			name:      "bignum tag",
			input:     []byte{0xc2, 0x49, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			wantType:  "*big.Int",
			wantValue: "18446744073709551616",
		},
		{
			name:      "negative bignum tag",
			input:     []byte{0xc3, 0x49, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			wantType:  "*big.Int",
			wantValue: "-18446744073709551617",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, res.Type)
			assert.Equal(t, tt.wantValue, res.Value)
		})
	}

	res, err := d.Decode([]byte{0xc1, 0x00})
	require.NoError(t, err)
	assert.Equal(t, "time.Time", res.Type)

	_, err = d.Decode([]byte{0x82, 0x01})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("pickle", 16)
	assert.Error(t, err)

	_, err = New(config.DeserializeModeStrict, 0)
	assert.Error(t, err)
}
