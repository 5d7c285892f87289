package bds

import "squitterator/internal/adsb"

// decodeTrackAndTurn matches BDS5,0
func decodeTrackAndTurn(m adsb.Message) (Register, bool) {
	for _, f := range [...][3]uint{
		{33, 34, 43}, // roll angle
		{44, 45, 55}, // true track angle
		{56, 57, 66}, // ground speed
		{67, 68, 77}, // track angle rate
		{78, 79, 88}, // true airspeed
	} {
		if !m.GoodFlags(f[0], f[1], f[2]) {
			return nil, false
		}
	}

	_, sign, v, _ := m.StatusFlagAndRange(33, 34, 35, 43)
	roll := int(v*45) / 256
	if sign == 1 {
		roll -= 90
	}

	_, sign, v, _ = m.StatusFlagAndRange(44, 45, 46, 55)
	track := int((v * 90) >> 9)
	if sign == 1 {
		track += 180
	}

	_, sign, v, _ = m.StatusFlagAndRange(67, 68, 69, 77)
	rate := int((v << 3) >> 8)
	if sign == 1 {
		rate -= 16
	}

	gs, _ := m.Range(57, 66)
	tas, _ := m.Range(79, 88)

	r := &TrackAndTurn{
		Roll:         roll,
		Track:        track,
		TurnRate:     rate,
		GroundSpeed:  int(gs << 1),
		TrueAirspeed: int(tas << 1),
	}

	switch {
	case r.Roll < -90 || r.Roll > 90:
		return nil, false
	case r.Track < 0 || r.Track > 360:
		return nil, false
	case r.TurnRate < -16 || r.TurnRate > 16:
		return nil, false
	case r.GroundSpeed > 2046 || r.TrueAirspeed > 2046:
		return nil, false
	case abs(r.GroundSpeed-r.TrueAirspeed) >= 200:
		return nil, false
	}
	return r, true
}

// decodeHeadingAndSpeed matches BDS6,0
func decodeHeadingAndSpeed(m adsb.Message) (Register, bool) {
	for _, f := range [...][3]uint{
		{33, 34, 44}, // magnetic heading
		{45, 46, 55}, // indicated airspeed
		{56, 57, 66}, // Mach
	} {
		if !m.GoodFlags(f[0], f[1], f[2]) {
			return nil, false
		}
	}
	// both rates carry a status bit, a zero magnitude only means no rate
	for _, flag := range [...]uint{67, 78} {
		if status, _ := m.Range(flag, flag); status != 1 {
			return nil, false
		}
	}

	_, sign, v, _ := m.StatusFlagAndRange(33, 34, 35, 44)
	heading := int((v * 90) >> 9)
	if sign == 1 {
		heading += 180
	}

	ias, _ := m.Range(46, 55)
	mach, _ := m.Range(57, 66)

	r := &HeadingAndSpeed{
		Heading:      heading,
		IAS:          int(ias),
		Mach:         float64(mach) * 0.004,
		BaroRate:     verticalRate(m, 67, 68, 69, 77),
		InertialRate: verticalRate(m, 78, 79, 80, 88),
	}

	switch {
	case r.Heading < 0 || r.Heading > 360:
		return nil, false
	case r.IAS == 0 || r.IAS > 1023:
		return nil, false
	case r.Mach <= 0 || r.Mach > 4.092:
		return nil, false
	}
	return r, true
}

// verticalRate decodes a signed 32 ft/min rate, nil for a zero magnitude
func verticalRate(m adsb.Message, status, sign, start, end uint) *int {
	_, s, v, ok := m.StatusFlagAndRange(status, sign, start, end)
	if !ok || v == 0 {
		return nil
	}
	rate := int(v << 5)
	if s == 1 {
		rate -= 16384
	}
	return &rate
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
