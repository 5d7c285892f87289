package adsb

import "strings"

// ia5 maps a 6-bit character code to its ASCII letter or digit. Space and
// the symbol range are dropped.
func ia5(c uint32) (byte, bool) {
	switch {
	case c >= 1 && c <= 26:
		return byte(c | 64), true
	case c >= 48 && c <= 57:
		return byte(c), true
	default:
		return 0, false
	}
}

// Identification decodes the eight character call sign held in bits 41-88
// (ME field of an extended squitter, MB field of BDS2,0)
func Identification(m Message) string {
	if !m.Long() {
		return ""
	}
	var sb strings.Builder
	for i := uint(0); i < 8; i++ {
		start := 41 + i*6
		c, _ := m.Range(start, start+5)
		if ch, ok := ia5(c); ok {
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// Category returns the emitter category and type code of an identification
// message
func Category(m Message) (uint32, uint32) {
	tc, sub := TypeCode(m)
	return tc, sub
}

// WakeCategory maps an emitter category to the wake turbulence class letter
// used in the aircraft table. Unmapped categories return 0.
func WakeCategory(tc, sub uint32) byte {
	if tc != 4 {
		return 0
	}
	switch sub {
	case 1:
		return 'L' // light
	case 2:
		return 'S' // small
	case 3:
		return 'M' // large
	case 4:
		return 'H' // high vortex
	case 5:
		return 'J' // heavy
	case 7:
		return 'R' // rotorcraft
	default:
		return 0
	}
}
