package adsb

import "math"

// Airspeed types reported by velocity subtypes 3 and 4
const (
	AirspeedIAS = 0
	AirspeedTAS = 1
)

// VerticalRate returns the vertical rate in ft/min. A raw value of 0 means
// no information and 1 means level, both reported as absent.
func VerticalRate(m Message) (int, bool) {
	sign, v, ok := m.FlagAndRange(69, 70, 78)
	if !ok || v <= 1 {
		return 0, false
	}
	rate := int((v - 1) << 6)
	if sign == 1 {
		rate = -rate
	}
	return rate, true
}

// VerticalRateSource returns 0 for GNSS and 1 for barometric vertical rate
func VerticalRateSource(m Message) uint32 {
	return m.bit(68)
}

// signedComponent applies a direction bit to a velocity component
func signedComponent(dir, v uint32) float64 {
	c := float64(v) - 1
	if dir == 1 {
		return -c
	}
	return c
}

// TrackAndGroundSpeed decodes the ground velocity vector of subtypes 1 and
// 2 into a track angle and a ground speed in knots. The supersonic subtype
// scales the speed by four.
func TrackAndGroundSpeed(m Message, supersonic bool) (int, int, bool) {
	dirW, west, ok := m.FlagAndRange(46, 47, 56)
	if !ok || west == 0 {
		return 0, 0, false
	}
	dirS, south, ok := m.FlagAndRange(57, 58, 67)
	if !ok || south == 0 {
		return 0, 0, false
	}

	w := signedComponent(dirW, west)
	s := signedComponent(dirS, south)

	gs := int(math.Floor(math.Sqrt(w*w + s*s)))
	if supersonic {
		gs *= 4
	}
	track := (int(math.Floor(math.Atan2(w, s)*180/math.Pi)) + 360) % 360
	return track, gs, true
}

// Heading decodes the magnetic heading of subtypes 3 and 4 in degrees
func Heading(m Message) (int, bool) {
	status, v, ok := m.FlagAndRange(46, 47, 56)
	if !ok || status == 0 {
		return 0, false
	}
	return int((v * 360) >> 10), true
}

// Airspeed decodes the airspeed of subtypes 3 and 4 and its type
func Airspeed(m Message, supersonic bool) (int, uint32, bool) {
	kind, v, ok := m.FlagAndRange(57, 58, 67)
	if !ok || v == 0 {
		return 0, 0, false
	}
	speed := int(v - 1)
	if supersonic {
		speed *= 4
	}
	return speed, kind, true
}

// GroundMovement decodes the surface position movement field in knots
func GroundMovement(m Message) (float64, bool) {
	v, ok := m.Range(38, 44)
	if !ok {
		return 0, false
	}
	return movementSpeed(v)
}

// movementSpeed expands the non-linear movement quantization
func movementSpeed(v uint32) (float64, bool) {
	f := float64(v)
	switch {
	case v == 1:
		return 0, true
	case v >= 2 && v <= 8:
		return 0.125 + (f-2)*0.125, true
	case v >= 9 && v <= 12:
		return 1 + (f-9)*0.25, true
	case v >= 13 && v <= 38:
		return 2 + (f-13)*0.5, true
	case v >= 39 && v <= 93:
		return 15 + (f - 39), true
	case v >= 94 && v <= 108:
		return 70 + (f-94)*2, true
	case v >= 109 && v <= 123:
		return 100 + (f-109)*5, true
	case v == 124:
		return 175, true
	default:
		return 0, false
	}
}

// GroundTrack decodes the surface ground track when its status bit is set
func GroundTrack(m Message) (int, bool) {
	status, v, ok := m.FlagAndRange(45, 46, 52)
	if !ok || status == 0 {
		return 0, false
	}
	return int((v * 360) >> 7), true
}

// CPR returns the format bit and the 17-bit latitude and longitude of an
// airborne or surface position message
func CPR(m Message) (uint32, uint32, uint32, bool) {
	form, lat, ok := m.FlagAndRange(54, 55, 71)
	if !ok {
		return 0, 0, 0, false
	}
	lon, ok := m.Range(72, 88)
	if !ok {
		return 0, 0, 0, false
	}
	return form, lat, lon, true
}
