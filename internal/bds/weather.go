package bds

import "squitterator/internal/adsb"

// signed applies a sign bit to a scaled magnitude
func signed(sign uint32, v float64) float64 {
	if sign == 1 {
		return -v
	}
	return v
}

// decodeMeteorological matches BDS4,4, the meteorological routine air
// report
func decodeMeteorological(m adsb.Message) (Register, bool) {
	fom, _ := m.Range(33, 36)
	if fom == 0 {
		return nil, false
	}
	for _, f := range [...][3]uint{
		{37, 38, 55}, // wind
		{37, 57, 66}, // static air temperature
		{67, 68, 78}, // average static pressure
		{79, 80, 81}, // turbulence
		{82, 83, 88}, // humidity
	} {
		if !m.GoodFlags(f[0], f[1], f[2]) {
			return nil, false
		}
	}

	sign, t, _ := m.FlagAndRange(56, 57, 66)
	speed, _ := m.Range(38, 46)
	direction, _ := m.Range(47, 55)
	pressure, _ := m.Range(68, 78)
	turbulence, _ := m.Range(80, 81)
	humidity, _ := m.Range(83, 88)

	r := &Meteorological{
		FigureOfMerit: fom,
		WindSpeed:     int(speed),
		WindDirection: int((direction * 180) >> 8),
		Temperature:   signed(sign, float64(t)*0.25),
		Pressure:      int(pressure),
		Turbulence:    int(turbulence),
		Humidity:      int((humidity * 100) >> 6),
	}

	switch {
	case r.Temperature < -80 || r.Temperature > 60:
		return nil, false
	case r.WindSpeed > 300:
		return nil, false
	case r.Humidity > 100:
		return nil, false
	case r.Turbulence > 15:
		return nil, false
	case r.Pressure > 2048:
		return nil, false
	}
	return r, true
}

// decodeHazard matches BDS4,5, the meteorological hazard report
func decodeHazard(m adsb.Message) (Register, bool) {
	for _, f := range [...][3]uint{
		{33, 34, 35}, // turbulence
		{36, 37, 38}, // wind shear
		{39, 40, 41}, // microburst
		{42, 43, 44}, // icing
		{45, 46, 47}, // wake vortex
		{48, 49, 58}, // static air temperature
		{59, 60, 60}, // average static pressure
		{71, 72, 83}, // radio height
	} {
		if !m.GoodFlags(f[0], f[1], f[2]) {
			return nil, false
		}
	}
	if m.GoodFlags(33, 84, 88) {
		return nil, false
	}

	_, sign, t, _ := m.StatusFlagAndRange(48, 49, 50, 58)
	temp := signed(sign, float64(t)*0.25)
	if temp > 45 {
		return nil, false
	}
	return &Hazard{Temperature: temp}, true
}
