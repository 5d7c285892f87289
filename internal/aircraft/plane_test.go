package aircraft

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squitterator/internal/adsb"
	"squitterator/internal/bds"
)

// Frames from aircraft 4840D6
const (
	evenPosition = "8D4840D658C382D690C8AC510563"
	oddPosition  = "8D4840D658C38641ECC319E032DE"
	identity     = "8D4840D6232CC371C32CE0CC1B88"
	surface      = "8D4840D63A7C0009A410E18B742F"
	allCall      = "5D4840D6F8740F"
	squawkReply  = "28000E923B831B"
	capability   = "A00018388289010000000042740B"
	trackAndTurn = "A0001838873401322104D21C79D9"
	headingSpeed = "A00018389009F53220A415643810"
	headingIVV   = "A00018389009F532200415A36C3D"
	weather      = "A000183818B5013223EAE07C6503"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func decode(t *testing.T, squitter string) adsb.Frame {
	t.Helper()
	m, err := adsb.Parse(squitter)
	require.NoError(t, err)
	frame, err := adsb.Decode(m)
	require.NoError(t, err)
	return frame
}

// TestNewPlane tests initial state
func TestNewPlane(t *testing.T) {
	p := NewPlane(0x4840D6)

	assert.Equal(t, "NL", p.Country.Code)
	assert.Equal(t, adsb.MarkerNone, p.AltitudeSource)
	assert.Equal(t, adsb.MarkerNoRate, p.VerticalRateSource)
	assert.False(t, p.HasPosition())
	assert.Nil(t, p.Altitude)
}

// TestUpdateIdentification tests call sign and category
func TestUpdateIdentification(t *testing.T) {
	p := NewPlane(0x4840D6)
	reg := p.Update(decode(t, identity), epoch, false)

	assert.Nil(t, reg)
	assert.Equal(t, "KLM1023", p.Identification)
	assert.Equal(t, [2]uint32{4, 3}, p.Category)
	assert.Equal(t, "A3", p.CategoryString())
	assert.Equal(t, byte('M'), p.WakeCategory)
	assert.Equal(t, uint32(5), p.Capability)
	assert.Equal(t, uint32(17), p.LastDF)
	assert.Equal(t, uint32(4), p.LastTypeCode)
	assert.Equal(t, epoch, p.Timestamp)
}

// TestUpdatePositionFix tests that an even and odd pair heard close
// together resolve to a position
func TestUpdatePositionFix(t *testing.T) {
	p := NewPlane(0x4840D6)

	p.Update(decode(t, evenPosition), epoch, false)
	assert.False(t, p.HasPosition())
	require.NotNil(t, p.Altitude)
	assert.Equal(t, 38000, *p.Altitude)
	assert.Equal(t, byte('N'), p.SurveillanceStatus)

	later := epoch.Add(time.Second)
	p.Update(decode(t, oddPosition), later, false)
	require.True(t, p.HasPosition())
	assert.InDelta(t, 52.25721456236758, p.Lat, 1e-9)
	assert.InDelta(t, 3.91937255859375, p.Lon, 1e-9)
	assert.Equal(t, later, p.PositionTime)
	assert.Equal(t, [2]uint32{93000, 73974}, p.CPRLat)
	assert.Equal(t, [2]uint32{51372, 49945}, p.CPRLon)
}

// TestUpdateStalePair tests that halves too far apart are not combined
// while other fields still update
func TestUpdateStalePair(t *testing.T) {
	p := NewPlane(0x4840D6)

	p.Update(decode(t, evenPosition), epoch, false)
	p.Update(decode(t, oddPosition), epoch.Add(PairWindow), false)
	assert.False(t, p.HasPosition())
	require.NotNil(t, p.Altitude)
	assert.Equal(t, 38000, *p.Altitude)

	p.Update(decode(t, squawkReply), epoch.Add(PairWindow+time.Second), false)
	require.NotNil(t, p.Squawk)
	assert.Equal(t, "7421", p.SquawkString())
	assert.False(t, p.HasPosition())

	// a fresh even half pairs with the recent odd one
	p.Update(decode(t, evenPosition), epoch.Add(PairWindow+2*time.Second), false)
	require.True(t, p.HasPosition())
	assert.InDelta(t, 52.2572021484375, p.Lat, 1e-9)
}

// TestUpdateSurface tests surface movement
func TestUpdateSurface(t *testing.T) {
	p := NewPlane(0x4840D6)
	p.Update(decode(t, evenPosition), epoch, false)
	require.NotNil(t, p.Altitude)

	p.Update(decode(t, surface), epoch.Add(time.Second), false)
	assert.Nil(t, p.Altitude)
	assert.Equal(t, adsb.MarkerSurface, p.AltitudeSource)
	require.NotNil(t, p.GroundMovement)
	assert.Equal(t, 15.0, *p.GroundMovement)
	require.NotNil(t, p.Track)
	assert.Equal(t, 180, *p.Track)
}

// TestUpdateSurfaceHalves tests that surface halves never pair with
// airborne ones
func TestUpdateSurfaceHalves(t *testing.T) {
	p := NewPlane(0x4840D6)
	p.Update(decode(t, oddPosition), epoch, false)
	assert.Equal(t, adsb.CPRAirborne, p.CPRCoeff)

	p.Update(decode(t, surface), epoch.Add(time.Second), false)
	assert.False(t, p.HasPosition())
	assert.Equal(t, adsb.CPRSurface, p.CPRCoeff)
	assert.Equal(t, [2]uint32{1234, 0}, p.CPRLat)
	assert.Equal(t, [2]uint32{4321, 0}, p.CPRLon)
	assert.True(t, p.CPRTime[1].IsZero())

	// back in the air the surface half is dropped as well
	p.Update(decode(t, evenPosition), epoch.Add(2*time.Second), false)
	assert.False(t, p.HasPosition())
	assert.Equal(t, [2]uint32{93000, 0}, p.CPRLat)
}

// TestUpdateVelocity tests ground speed and airspeed velocities
func TestUpdateVelocity(t *testing.T) {
	t.Run("ground speed", func(t *testing.T) {
		p := NewPlane(0x485020)
		alt := 10000
		p.Altitude = &alt

		p.Update(decode(t, "8D485020994409940838175B284F"), epoch, false)
		require.NotNil(t, p.VerticalRate)
		assert.Equal(t, -832, *p.VerticalRate)
		assert.Equal(t, adsb.MarkerNone, p.VerticalRateSource)
		require.NotNil(t, p.Track)
		assert.Equal(t, 182, *p.Track)
		assert.Equal(t, 159, *p.GroundSpeed)
		assert.Equal(t, adsb.MarkerGroundSpeed, p.TrackSource)
		require.NotNil(t, p.GNSSAltitude)
		assert.Equal(t, 10550, *p.GNSSAltitude)
	})

	t.Run("airspeed", func(t *testing.T) {
		p := NewPlane(0xA05F21)
		p.Update(decode(t, "8DA05F219B06B6AF189400CBC33F"), epoch, false)

		require.NotNil(t, p.Track)
		assert.Equal(t, 243, *p.Track)
		assert.Equal(t, adsb.MarkerHeading, p.TrackSource)
		require.NotNil(t, p.TrueAirspeed)
		assert.Equal(t, 375, *p.TrueAirspeed)
		assert.Equal(t, adsb.MarkerAirspeed, p.AltitudeSource)
		assert.Nil(t, p.GNSSAltitude)
	})
}

// TestUpdateCommBGate tests that Comm-B needs a capable aircraft or
// relaxed mode
func TestUpdateCommBGate(t *testing.T) {
	p := NewPlane(0x4840D6)

	reg := p.Update(decode(t, trackAndTurn), epoch, false)
	assert.Nil(t, reg)
	assert.Nil(t, p.Roll)
	require.NotNil(t, p.Altitude)
	assert.Equal(t, 38000, *p.Altitude)

	p.Update(decode(t, allCall), epoch, false)
	assert.Equal(t, uint32(5), p.Capability)

	// capable, but BDS5,0 has not been announced yet
	reg = p.Update(decode(t, trackAndTurn), epoch, false)
	require.NotNil(t, reg)
	assert.Equal(t, bds.CodeUnknown, reg.Code())

	reg = p.Update(decode(t, capability), epoch, false)
	require.NotNil(t, reg)
	assert.Equal(t, bds.Code17, reg.Code())
	require.NotNil(t, p.CapabilityReport)

	reg = p.Update(decode(t, trackAndTurn), epoch, false)
	require.NotNil(t, reg)
	assert.Equal(t, bds.Code50, reg.Code())
	require.NotNil(t, p.Roll)
	assert.Equal(t, 10, *p.Roll)
	assert.Equal(t, 90, *p.Track)
	assert.Equal(t, 400, *p.GroundSpeed)
	assert.Equal(t, 420, *p.TrueAirspeed)
	assert.Equal(t, adsb.MarkerTrackAndTurn, p.TrackSource)
	assert.Equal(t, epoch, p.TrackTime)
}

// TestUpdateCommBRelaxed tests registers applied in relaxed mode
func TestUpdateCommBRelaxed(t *testing.T) {
	p := NewPlane(0x4840D6)

	reg := p.Update(decode(t, headingSpeed), epoch, true)
	require.NotNil(t, reg)
	assert.Equal(t, bds.Code60, reg.Code())
	require.NotNil(t, p.Heading)
	assert.Equal(t, 45, *p.Heading)
	assert.Equal(t, 250, *p.IndicatedAirspeed)
	assert.InDelta(t, 0.8, *p.Mach, 1e-9)
	assert.Equal(t, 640, *p.VerticalRate)
	assert.Equal(t, adsb.MarkerHeadingSpeed, p.VerticalRateSource)
	assert.Equal(t, adsb.MarkerHeadingSpeed, p.HeadingSource)

	// no baro rate, the inertial rate is used
	p.Update(decode(t, headingIVV), epoch, true)
	require.NotNil(t, p.VerticalRate)
	assert.Equal(t, 672, *p.VerticalRate)
	assert.Equal(t, adsb.MarkerInertial, p.VerticalRateSource)

	reg = p.Update(decode(t, weather), epoch, true)
	assert.Equal(t, bds.Code44, reg.Code())
	require.NotNil(t, p.Temperature)
	assert.Equal(t, -50.0, *p.Temperature)
	assert.Equal(t, 45, *p.WindSpeed)
	assert.Equal(t, 90, *p.WindDirection)
	assert.Equal(t, 250, *p.Pressure)
}
