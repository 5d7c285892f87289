package adsb

import "fmt"

// CRC56 computes the parity of a short frame's 32 data bits
func CRC56(m Message) uint32 {
	data, _ := m.Range(1, 32)
	for i := 0; i < 32; i++ {
		if data&0x80000000 != 0 {
			data ^= CRCGenerator
		}
		data <<= 1
	}
	return data >> 8
}

// CRC112 computes the parity of a long frame's 88 data bits. The three
// 32-bit words shift as one register, carrying their top bits downward.
func CRC112(m Message) uint32 {
	data, _ := m.Range(1, 32)
	data1, _ := m.Range(33, 64)
	data2, _ := m.Range(65, 88)
	data2 <<= 8

	for i := 0; i < 88; i++ {
		if data&0x80000000 != 0 {
			data ^= CRCGenerator
		}
		data <<= 1
		if data1&0x80000000 != 0 {
			data |= 1
		}
		data1 <<= 1
		if data2&0x80000000 != 0 {
			data1 |= 1
		}
		data2 <<= 1
	}
	return data >> 8
}

// CRC selects the parity routine for the downlink format
func CRC(m Message, df uint32) uint32 {
	if df <= 15 {
		return CRC56(m)
	}
	return CRC112(m)
}

// Remainder divides the whole frame, parity field included, by the
// generator and returns the 24-bit remainder. A clean PI frame yields zero;
// for address/parity frames the remainder is the transponder address.
func Remainder(m Message) uint32 {
	b := make([]uint16, 0, len(m)/2)
	for _, x := range m.Bytes() {
		b = append(b, uint16(x))
	}
	n := len(b)
	if n < 3 {
		return 0
	}

	g := crcGeneratorBytes
	for i := 0; i < n-3; i++ {
		for j := uint(0); j < 8; j++ {
			if b[i]&(0x80>>j) == 0 {
				continue
			}
			b[i] ^= (g[0] >> j) & 0xFF
			b[i+1] ^= ((g[0] << (8 - j)) & 0xFF) | ((g[1] >> j) & 0xFF)
			b[i+2] ^= ((g[1] << (8 - j)) & 0xFF) | ((g[2] >> j) & 0xFF)
			if i+3 < n {
				b[i+3] ^= ((g[2] << (8 - j)) & 0xFF) | ((g[3] >> j) & 0xFF)
			}
		}
	}
	return uint32(b[n-3])<<16 | uint32(b[n-2])<<8 | uint32(b[n-1])
}

// Validate is the admission gate. Plain parity formats must divide cleanly;
// all-call replies may carry an interrogator code in the low seven bits.
// Address/parity formats are admitted as their remainder is the address.
func Validate(m Message) error {
	if len(m) != ShortFrameNibbles && len(m) != LongFrameNibbles {
		return fmt.Errorf("%w: %d nibbles", ErrMalformed, len(m))
	}

	df := DF(m)
	if !lengthMatches(df, len(m)) {
		return fmt.Errorf("%w: DF%d in a %d-bit frame", ErrMalformed, df, m.Bits())
	}

	switch df {
	case DFExtended, DFExtendedNonXPDR:
		if rem := Remainder(m); rem != 0 {
			return fmt.Errorf("%w: DF%d remainder %06X", ErrParity, df, rem)
		}
	case DFAllCall:
		if rem := Remainder(m); rem&^0x7F != 0 {
			return fmt.Errorf("%w: DF%d remainder %06X", ErrParity, df, rem)
		}
	case DFShortAirAir, DFAltitudeReply, DFIdentityReply, DFLongAirAir, DFCommBAltitude, DFCommBIdentity:
		if Remainder(m) == 0 {
			return fmt.Errorf("%w: DF%d without address", ErrParity, df)
		}
	default:
		return fmt.Errorf("%w: DF%d", ErrUnsupported, df)
	}
	return nil
}

// lengthMatches reports whether a DF arrived in a frame of the right size
func lengthMatches(df uint32, nibbles int) bool {
	if df >= 16 {
		return nibbles == LongFrameNibbles
	}
	return nibbles == ShortFrameNibbles
}
