package bds

import "squitterator/internal/adsb"

// decodeSelectedVerticalIntention matches BDS4,0. Every status-gated field
// has to agree with its status bit, the reserved bits have to be clear and
// at least one selected altitude has to be present.
func decodeSelectedVerticalIntention(m adsb.Message) (Register, bool) {
	for _, f := range [...][3]uint{
		{33, 34, 45}, // MCP/FCU selected altitude
		{46, 47, 58}, // FMS selected altitude
		{59, 60, 71}, // barometric pressure setting
		{80, 81, 83}, // MCP/FCU mode bits
		{86, 87, 88}, // target altitude source
	} {
		if !m.Consistent(f[0], f[1], f[2]) {
			return nil, false
		}
	}
	if v, _ := m.Range(72, 79); v != 0 {
		return nil, false
	}
	if v, _ := m.Range(84, 85); v != 0 {
		return nil, false
	}

	r := &SelectedVerticalIntention{}
	if status, v, _ := m.FlagAndRange(33, 34, 45); status == 1 {
		alt := int(v << 4)
		r.MCPAltitude = &alt
	}
	if status, v, _ := m.FlagAndRange(46, 47, 58); status == 1 {
		alt := int(v << 4)
		r.FMSAltitude = &alt
	}
	if r.MCPAltitude == nil && r.FMSAltitude == nil {
		return nil, false
	}

	if status, v, _ := m.FlagAndRange(59, 60, 71); status == 1 {
		baro := float64(v)*0.1 + 800
		r.BaroSetting = &baro
	}
	if status, v, _ := m.FlagAndRange(80, 81, 83); status == 1 {
		r.Modes = &v
	}
	if status, v, _ := m.FlagAndRange(86, 87, 88); status == 1 {
		r.TargetSource = &v
	}
	return r, true
}
