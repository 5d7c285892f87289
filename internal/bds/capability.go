package bds

import "squitterator/internal/adsb"

// MB bit positions (in frame numbering) of the registers announced by the
// BDS1,7 capability mask
const (
	capBitBDS40 = 41
	capBitBDS44 = 45
	capBitBDS45 = 46
	capBitBDS50 = 48
	capBitBDS60 = 56
)

// isDataLinkCapability checks the reserved bits following the 1,0 header
func isDataLinkCapability(m adsb.Message) bool {
	return m[8] == 1 && m[9] == 0 && m[10]&7 == 0 && m[11]&0xC == 0
}

func decodeDataLinkCapability(m adsb.Message) *DataLinkCapability {
	cf, _ := m.Range(41, 41)
	occ, _ := m.Range(47, 47)
	return &DataLinkCapability{
		ContinuationFlag: cf == 1,
		OverlayCapable:   occ == 1,
	}
}

// decodeCapabilityReport matches BDS1,7: the first two MB bits differ and
// the trailing reserved part of the field is clear
func decodeCapabilityReport(m adsb.Message) (Register, bool) {
	if (m[8]>>3&1)^(m[8]>>2&1) != 1 {
		return nil, false
	}
	for _, n := range m[14:21] {
		if n != 0 {
			return nil, false
		}
	}

	mask, ok := m.Range(33, 56)
	if !ok {
		return nil, false
	}
	has := func(p uint) bool {
		v, _ := m.Range(p, p)
		return v == 1
	}
	return &CapabilityReport{
		Mask:  mask,
		BDS40: has(capBitBDS40),
		BDS44: has(capBitBDS44),
		BDS45: has(capBitBDS45),
		BDS50: has(capBitBDS50),
		BDS60: has(capBitBDS60),
	}, true
}
