package adsb

import "math"

// altitude code bit positions, as produced by MACode and MECode
const (
	acC1 = 13
	acA1 = 12
	acC2 = 11
	acA2 = 10
	acC4 = 9
	acA4 = 8
	acB1 = 7
	acD1 = 6 // Q in altitude replies
	acB2 = 5
	acD2 = 4
	acB4 = 3
	acD4 = 2
	acM  = 1
	acQ  = 0
)

func codeBit(code uint32, pos uint) uint32 {
	return (code >> pos) & 1
}

// AltitudeCode returns the altitude code for the format
func AltitudeCode(m Message, df uint32) uint32 {
	if df == DFExtended || df == DFExtendedNonXPDR {
		return MECode(m)
	}
	return MACode(m)
}

// Altitude decodes the barometric altitude in feet. Gillham coded values
// below -1200 ft and anything at or above MaxAltitude are rejected.
func Altitude(m Message, df uint32) (int, bool) {
	return DecodeAltitudeCode(AltitudeCode(m, df))
}

// DecodeAltitudeCode converts a 14-bit altitude code to feet
func DecodeAltitudeCode(code uint32) (int, bool) {
	alt, ok := altitudeFeet(code)
	if !ok || alt >= MaxAltitude {
		return 0, false
	}
	return alt, true
}

// altitudeFeet decodes the code without the plausibility bound
func altitudeFeet(code uint32) (int, bool) {
	switch {
	case codeBit(code, acM) == 1:
		n := ((code>>7)<<4)&0x7F0 | (code>>2)&0xF
		return int(float64(n) * 0.31), true
	case codeBit(code, acQ) == 1:
		n := (code>>7)<<4 | (code>>2)&0xF
		return int(n)*25 - 1000, true
	}

	high, low, ok := GrayToBin(code)
	if !ok {
		return 0, false
	}
	v := high*500 + low*100
	if v < 1200 {
		return 0, false
	}
	return v - 1200, true
}

// GrayToBin decodes a Gillham coded altitude into its 500 ft and 100 ft
// increments. The D2..B4 bits form the 500 ft Gray code and the C bits the
// 100 ft cycle, which runs backwards on odd 500 ft steps.
func GrayToBin(code uint32) (int, int, bool) {
	var five, parity uint32
	for _, pos := range [...]uint{acD2, acD4, acA1, acA2, acA4, acB1, acB2, acB4} {
		parity ^= codeBit(code, pos)
		five = five<<1 | parity
	}

	var one uint32
	if codeBit(code, acC1) == 1 {
		one = 7
	}
	if codeBit(code, acC2) == 1 {
		one ^= 3
	}
	if codeBit(code, acC4) == 1 {
		one ^= 1
	}
	if one&5 == 5 {
		one ^= 2
	}
	if one == 0 || one > 5 {
		return 0, 0, false
	}
	if five&1 == 1 {
		one = 6 - one
	}
	return int(five), int(one) - 1, true
}

// AltitudeDelta returns the GNSS minus barometric altitude difference
// carried in an airborne velocity message, in feet
func AltitudeDelta(m Message) (int, bool) {
	sign, v, ok := m.FlagAndRange(81, 82, 88)
	if !ok || v == 0 {
		return 0, false
	}
	delta := int(v-1) * 25
	if sign == 1 {
		delta = -delta
	}
	return delta, true
}

// GNSSAltitude returns the height above the ellipsoid carried by type
// codes 20-22, converted from meters to feet
func GNSSAltitude(m Message) (int, bool) {
	v, ok := m.Range(41, 52)
	if !ok || v == 0 {
		return 0, false
	}
	return int(math.Round(float64(v) * 3.28084)), true
}
