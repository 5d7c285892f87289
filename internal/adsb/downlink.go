package adsb

import "fmt"

// DF returns the downlink format held in bits 1-5
func DF(m Message) uint32 {
	v, _ := m.Range(1, 5)
	return v
}

// addressParity reports whether the format overlays the parity field with
// the transponder address
func addressParity(df uint32) bool {
	switch df {
	case DFShortAirAir, DFAltitudeReply, DFIdentityReply, DFLongAirAir, DFCommBAltitude, DFCommBIdentity:
		return true
	}
	return false
}

// ICAO returns the 24-bit transponder address. Address/parity formats
// recover it from the parity field, the others carry it in bits 9-32.
func ICAO(m Message, df uint32) (uint32, bool) {
	if addressParity(df) {
		n := m.Bits()
		ap, ok := m.Range(n-23, n)
		if !ok {
			return 0, false
		}
		return ap ^ CRC(m, df), true
	}
	v, ok := m.Range(9, 32)
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}

// FormatICAO renders an address as six uppercase hex digits
func FormatICAO(icao uint32) string {
	return fmt.Sprintf("%06X", icao)
}

// Capability returns the CA field of DF11/17 (FF field of DF18)
func Capability(m Message) uint32 {
	return m[1] & 7
}

// TypeCode returns the extended squitter type code and subtype
func TypeCode(m Message) (uint32, uint32) {
	if !m.Long() {
		return 0, 0
	}
	return m[8]<<1 | m[9]>>3, m[9] & 7
}

// macodeBits lists the (nibble, shift) source of each bit of the 13-bit
// AC/ID field, most significant first, padded with M and Q positions.
var macodeBits = [14][2]uint32{
	{4, 0}, {5, 3}, {5, 2}, {5, 1}, {5, 0}, {6, 3}, {6, 1},
	{6, 0}, {7, 3}, {7, 2}, {7, 1}, {7, 0}, {6, 2}, {6, 0},
}

// MACode assembles the 14-bit altitude/identity code of a surveillance
// reply. Index 13 down to 0 holds C1 A1 C2 A2 C4 A4 B1 Q B2 D2 B4 D4 M Q.
func MACode(m Message) uint32 {
	var code uint32
	for i, p := range macodeBits {
		code |= ((m[p[0]] >> p[1]) & 1) << (13 - uint(i))
	}
	return code
}

// MECode assembles the extended squitter altitude field into the same
// layout as MACode with M cleared.
func MECode(m Message) uint32 {
	q, v, ok := m.FlagAndRange(48, 41, 52)
	if !ok {
		return 0
	}
	return v<<2 | q
}

// SurveillanceStatus maps the airborne position SS field to a letter
func SurveillanceStatus(m Message) byte {
	switch (m[9] & 7) >> 1 {
	case 1:
		return 'P' // permanent alert
	case 2:
		return 'T' // temporary alert
	case 3:
		return 'S' // SPI
	default:
		return 'N'
	}
}

// Version returns the ADS-B version from an operational status message
func Version(m Message) (uint32, bool) {
	return m.Range(73, 75)
}

// ThreatEncounter reads the ACAS resolution advisory threat indicators and
// returns the matching marker, or false when no threat is reported
func ThreatEncounter(m Message) (rune, bool) {
	if !m.Long() {
		return 0, false
	}
	if m[14]&1 == 1 {
		return MarkerMultiThreats, true
	}
	if (m[10]>>3)&1 == 1 {
		return MarkerSingleThreat, true
	}
	return 0, false
}

// FlightStatus returns the FS field of DF4/5/20/21
func FlightStatus(m Message) uint32 {
	return m[1] & 7
}
