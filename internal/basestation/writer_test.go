package basestation

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squitterator/internal/adsb"
	"squitterator/internal/aircraft"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func decode(t *testing.T, squitter string) adsb.Frame {
	t.Helper()
	m, err := adsb.Parse(squitter)
	require.NoError(t, err)
	frame, err := adsb.Decode(m)
	require.NoError(t, err)
	return frame
}

// records splits the written output into CSV records
func records(t *testing.T, out *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(out).ReadAll()
	require.NoError(t, err)
	for _, row := range rows {
		require.Len(t, row, 22)
	}
	return rows
}

// TestWriter_Convert tests the transmission type and fields per frame
func TestWriter_Convert(t *testing.T) {
	tests := []struct {
		name         string
		squitter     string
		transmission int
		hexIdent     string
		callsign     string
		altitude     string
		groundSpeed  string
		track        string
		verticalRate string
		squawk       string
		onGround     string
	}{
		{
			name:         "identification",
			squitter:     "8D4840D6232CC371C32CE0CC1B88",
			transmission: TransmissionESIdentification,
			hexIdent:     "4840D6",
			callsign:     "KLM1023",
		},
		{
			name:         "surface position",
			squitter:     "8D4840D63A7C0009A410E18B742F",
			transmission: TransmissionESSurface,
			hexIdent:     "4840D6",
			groundSpeed:  "15",
			track:        "180",
			onGround:     "-1",
		},
		{
			name:         "airborne position",
			squitter:     "8D4840D658C382D690C8AC510563",
			transmission: TransmissionESAirborne,
			hexIdent:     "4840D6",
			altitude:     "38000",
			onGround:     "0",
		},
		{
			name:         "ground speed velocity",
			squitter:     "8D485020994409940838175B284F",
			transmission: TransmissionESVelocity,
			hexIdent:     "485020",
			groundSpeed:  "159",
			track:        "182",
			verticalRate: "-832",
		},
		{
			name:         "airspeed velocity",
			squitter:     "8DA05F219B06B6AF189400CBC33F",
			transmission: TransmissionESVelocity,
			hexIdent:     "A05F21",
			track:        "243",
			verticalRate: "-2304",
		},
		{
			name:         "altitude reply",
			squitter:     "200017B004F9A1",
			transmission: TransmissionSurveillance,
			hexIdent:     "4840D6",
			altitude:     "37000",
			onGround:     "0",
		},
		{
			name:         "identity reply",
			squitter:     "28000E923B831B",
			transmission: TransmissionSurveillanceID,
			hexIdent:     "4840D6",
			squawk:       "7421",
			onGround:     "0",
		},
		{
			name:         "all call",
			squitter:     "5D4840D6F8740F",
			transmission: TransmissionAllCall,
			hexIdent:     "4840D6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := decode(t, tt.squitter)
			plane := aircraft.NewPlane(frame.Address())
			plane.Update(frame, epoch, false)

			msg := NewWriter(io.Discard, newTestLogger()).Convert(frame, *plane, epoch)
			require.NotNil(t, msg)

			assert.Equal(t, MessageMSG, msg.MessageType)
			assert.Equal(t, tt.transmission, msg.TransmissionType)
			assert.Equal(t, tt.hexIdent, msg.HexIdent)
			assert.Equal(t, 1, msg.AircraftID)
			assert.Equal(t, tt.callsign, msg.Callsign)
			assert.Equal(t, tt.altitude, msg.Altitude)
			assert.Equal(t, tt.groundSpeed, msg.GroundSpeed)
			assert.Equal(t, tt.track, msg.Track)
			assert.Equal(t, tt.verticalRate, msg.VerticalRate)
			assert.Equal(t, tt.squawk, msg.Squawk)
			assert.Equal(t, tt.onGround, msg.IsOnGround)
			assert.Empty(t, msg.Latitude)
		})
	}
}

// TestWriter_Write tests a stream of frames through a tracker
func TestWriter_Write(t *testing.T) {
	now := epoch
	tracker := aircraft.NewTracker(newTestLogger(), aircraft.WithClock(func() time.Time { return now }))
	var out bytes.Buffer
	writer := NewWriter(&out, newTestLogger())

	stream := []struct {
		squitter string
		after    time.Duration
	}{
		{squitter: "8D4840D658C382D690C8AC510563"},
		{squitter: "8D4840D658C38641ECC319E032DE", after: time.Second},
		{squitter: "2800189A8E0F41", after: time.Second},
		{squitter: "8D4840D6F8000000004000A540F8", after: time.Second},
	}
	for _, s := range stream {
		now = now.Add(s.after)
		frame := decode(t, s.squitter)
		plane, _ := tracker.Process(frame)
		require.NoError(t, writer.Write(frame, plane, now))
	}

	rows := records(t, &out)
	require.Len(t, rows, 3, "operational status has no BaseStation equivalent")
	assert.Equal(t, uint64(3), writer.Written())

	first := rows[0]
	assert.Equal(t, []string{"MSG", "3", "1", "1", "4840D6", "1"}, first[:6])
	assert.Equal(t, "2024/05/01", first[6])
	assert.Equal(t, "12:00:00.000", first[7])
	assert.Equal(t, "38000", first[11])
	assert.Empty(t, first[14], "no fix from a single frame")

	second := rows[1]
	assert.Equal(t, "12:00:01.000", second[7])
	assert.Equal(t, "52.25721", second[14])
	assert.Equal(t, "3.91937", second[15])

	third := rows[2]
	assert.Equal(t, "6", third[1])
	assert.Equal(t, "3949E0", third[4])
	assert.Equal(t, "2", third[3], "second aircraft gets the next id")
	assert.Equal(t, "5611", third[17])
	assert.Equal(t, "0", third[19])
}

// TestWriter_Emergency tests the emergency flag on squawk changes
func TestWriter_Emergency(t *testing.T) {
	msg := &Message{}
	squawkFields(msg, 7700)
	assert.Equal(t, "7700", msg.Squawk)
	assert.Equal(t, "-1", msg.Emergency)

	squawkFields(msg, 1200)
	assert.Equal(t, "1200", msg.Squawk)
	assert.Equal(t, "0", msg.Emergency)

	squawkFields(msg, 7)
	assert.Equal(t, "0007", msg.Squawk)
}

// TestWriter_Nil tests the nil frame error
func TestWriter_Nil(t *testing.T) {
	err := NewWriter(io.Discard, newTestLogger()).Write(nil, aircraft.Plane{}, epoch)
	assert.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

// TestWriter_WriteError tests that output errors are wrapped
func TestWriter_WriteError(t *testing.T) {
	frame := decode(t, "5D4840D6F8740F")
	err := NewWriter(failingWriter{}, newTestLogger()).Write(frame, aircraft.Plane{}, epoch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

// TestMessage_String tests the CSV layout
func TestMessage_String(t *testing.T) {
	ts := time.Date(2023, 1, 1, 12, 0, 0, 500_000_000, time.UTC)
	msg := &Message{
		MessageType:      MessageMSG,
		TransmissionType: TransmissionESAirborne,
		SessionID:        1,
		AircraftID:       1,
		HexIdent:         "484412",
		FlightID:         1,
		DateGenerated:    ts,
		TimeGenerated:    ts,
		DateLogged:       ts,
		TimeLogged:       ts,
		Altitude:         "35000",
		Latitude:         "52.25721",
		Longitude:        "3.91937",
		Alert:            "0",
		Emergency:        "0",
		SPI:              "0",
		IsOnGround:       "0",
	}

	assert.Equal(t,
		"MSG,3,1,1,484412,1,2023/01/01,12:00:00.500,2023/01/01,12:00:00.500,,35000,,,52.25721,3.91937,,,0,0,0,0",
		msg.String())
}
