package bds

import "squitterator/internal/adsb"

// Options controls which registers the classifier may report
type Options struct {
	// Relaxed enables every register regardless of the aircraft's capability
	Relaxed bool
	// Capability is the aircraft's last BDS1,7 report, nil if none was seen
	Capability *CapabilityReport
}

func (o Options) allows(code Code) bool {
	return o.Relaxed || o.Capability.Supports(code)
}

// candidate is one entry of the classification cascade
type candidate struct {
	code   Code
	gated  bool
	decode func(adsb.Message) (Register, bool)
}

// candidates are tried in order and the first match wins. The order and
// the thresholds inside each decoder decide ambiguous payloads.
var candidates = []candidate{
	{code: Code17, decode: decodeCapabilityReport},
	{code: Code40, gated: true, decode: decodeSelectedVerticalIntention},
	{code: Code44, decode: decodeMeteorological},
	{code: Code45, decode: decodeHazard},
	{code: Code50, gated: true, decode: decodeTrackAndTurn},
	{code: Code60, gated: true, decode: decodeHeadingAndSpeed},
}

// Classify identifies the register carried in the MB field of a long
// Comm-B message (bits 33-88) and decodes it. Registers that announce
// themselves in the first MB byte are checked before the cascade.
func Classify(m adsb.Message, opts Options) Register {
	if !m.Long() {
		return Unknown{}
	}

	if r, ok := selfIdentifying(m); ok {
		return r
	}

	for _, c := range candidates {
		if c.gated && !opts.allows(c.code) {
			continue
		}
		if r, ok := c.decode(m); ok {
			return r
		}
	}
	return Unknown{}
}

// selfIdentifying handles the registers whose first MB byte holds their
// own number
func selfIdentifying(m adsb.Message) (Register, bool) {
	switch {
	case isDataLinkCapability(m):
		return decodeDataLinkCapability(m), true

	case m[8] == 2 && m[9] == 0:
		return &AircraftIdentification{Callsign: adsb.Identification(m)}, true

	case m[8] == 3 && m[9] == 0:
		if v, _ := m.Range(48, 54); v >= 48 || m[15]&0xC == 0xC {
			return nil, false
		}
		r := &ACASResolution{}
		r.Threat, r.HasThreat = adsb.ThreatEncounter(m)
		return r, true
	}
	return nil, false
}
