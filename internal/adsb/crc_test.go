package adsb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCRC tests both parity routines against known frames
func TestCRC(t *testing.T) {
	tests := []struct {
		name     string
		squitter string
		df       uint32
		expected uint32
	}{
		{name: "DF17 position", squitter: airbornePosition, df: 17, expected: 2646951},
		{name: "DF21 identity", squitter: "A8281200200464B3CF7820CD194C", df: 21, expected: 15993772},
		{name: "DF0 short", squitter: "02E197B00179C3", df: 0, expected: 0x4A613D},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMessage(t, tt.squitter)
			assert.Equal(t, tt.expected, CRC(m, tt.df))
		})
	}
}

// TestRemainder tests the whole-frame remainder
func TestRemainder(t *testing.T) {
	tests := []struct {
		name     string
		squitter string
		expected uint32
	}{
		{name: "clean extended squitter", squitter: airbornePosition, expected: 0},
		{name: "corrupted parity", squitter: "8D40621D58C382D690C8AC2863A8", expected: 0xF},
		{name: "all-call", squitter: "5D4840D6F8740F", expected: 0},
		{name: "DF0 yields address", squitter: "02E197B00179C3", expected: 0x4B18FE},
		{name: "DF4 yields address", squitter: "200017B004F9A1", expected: 0x4840D6},
		{name: "DF21 yields address", squitter: "A8281200200464B3CF7820CD194C", expected: 0x3912E0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Remainder(mustMessage(t, tt.squitter)))
		})
	}
}

// TestRemainderMatchesICAO tests that the remainder of address/parity
// formats is the XOR recovered address
func TestRemainderMatchesICAO(t *testing.T) {
	for _, squitter := range []string{
		"02E197B00179C3",
		"200017B004F9A1",
		"28000E923B831B",
		"A020100A10020A80F000004F24AF",
		"A800189A805CE93F8004F6F2BCA4",
	} {
		m := mustMessage(t, squitter)
		icao, ok := ICAO(m, DF(m))
		require.True(t, ok)
		assert.Equal(t, icao, Remainder(m), squitter)
	}
}

// TestValidate tests the admission gate
func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		squitter string
		wantErr  error
	}{
		{name: "valid DF17", squitter: airbornePosition},
		{name: "valid DF11", squitter: "5D4840D6F8740F"},
		{name: "address/parity DF5", squitter: "28000E923B831B"},
		{name: "address/parity DF20", squitter: "A020100A10020A80F000004F24AF"},
		{name: "single bit error", squitter: "8D40621D58C382D690C8AC2863A8", wantErr: ErrParity},
		{name: "DF17 in a short frame", squitter: "8D40621D58C382", wantErr: ErrMalformed},
		{name: "DF24", squitter: "C0000000000000000000000000AA", wantErr: ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(mustMessage(t, tt.squitter))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
