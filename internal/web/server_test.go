package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squitterator/internal/adsb"
	"squitterator/internal/aircraft"
	"squitterator/internal/metrics"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestTracker(t *testing.T, squitters ...string) *aircraft.Tracker {
	t.Helper()
	tracker := aircraft.NewTracker(newTestLogger(), aircraft.WithClock(func() time.Time { return epoch }))
	for _, s := range squitters {
		m, err := adsb.Parse(s)
		require.NoError(t, err)
		frame, err := adsb.Decode(m)
		require.NoError(t, err)
		tracker.Process(frame)
	}
	return tracker
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

// TestServer_Aircraft tests the JSON listing and its ordering
func TestServer_Aircraft(t *testing.T) {
	tracker := newTestTracker(t,
		"8D4840D6232CC371C32CE0CC1B88", // 4840D6 KLM1023
		"2800189A8E0F41",               // 3949E0 squawk 5611
		"28000E923B831B",               // 4840D6 squawk 7421
	)
	server := httptest.NewServer(NewServer(":0", tracker, nil, "", newTestLogger()).Handler())
	defer server.Close()

	status, body := get(t, server.URL+"/aircraft")
	require.Equal(t, http.StatusOK, status)
	var list []aircraft.Summary
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "3949E0", list[0].ICAO)
	assert.Equal(t, "4840D6", list[1].ICAO)
	assert.Equal(t, "KLM1023", list[1].Identification)
	assert.Equal(t, "7421", list[1].Squawk)

	// descending category puts the identified A3 first
	_, body = get(t, server.URL+"/aircraft?order=C")
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "4840D6", list[0].ICAO)
}

// TestServer_One tests the single aircraft route
func TestServer_One(t *testing.T) {
	tracker := newTestTracker(t, "8D4840D6232CC371C32CE0CC1B88")
	server := httptest.NewServer(NewServer(":0", tracker, nil, "", newTestLogger()).Handler())
	defer server.Close()

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{path: "/aircraft/4840D6", status: http.StatusOK, body: `"ident":"KLM1023"`},
		{path: "/aircraft/4840d6", status: http.StatusOK, body: `"country":"NL"`},
		{path: "/aircraft/ABCDEF", status: http.StatusNotFound, body: "unknown aircraft ABCDEF"},
		{path: "/aircraft/XYZ", status: http.StatusBadRequest, body: "invalid ICAO address"},
		{path: "/aircraft/1000000", status: http.StatusBadRequest, body: "invalid ICAO address"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			status, body := get(t, server.URL+tt.path)
			assert.Equal(t, tt.status, status)
			assert.Contains(t, string(body), tt.body)
		})
	}
}

// TestServer_Metrics tests that the metrics handler is mounted
func TestServer_Metrics(t *testing.T) {
	m := metrics.New()
	m.Aircraft(1)
	server := httptest.NewServer(NewServer(":0", newTestTracker(t), m.Handler(), "", newTestLogger()).Handler())
	defer server.Close()

	status, body := get(t, server.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "squitterator_aircraft 1")

	status, _ = get(t, server.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
}

// TestServer_NoMetrics tests the unrouted metrics path
func TestServer_NoMetrics(t *testing.T) {
	server := httptest.NewServer(NewServer(":0", newTestTracker(t), nil, "", newTestLogger()).Handler())
	defer server.Close()

	status, _ := get(t, server.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, status)
}

// TestServer_WebSocket tests the snapshot followed by live events
func TestServer_WebSocket(t *testing.T) {
	tracker := newTestTracker(t, "8D4840D6232CC371C32CE0CC1B88")
	s := NewServer(":0", tracker, nil, "", newTestLogger())
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventSnapshot, event.Type)
	require.Len(t, event.Aircraft, 1)
	assert.Equal(t, "KLM1023", event.Aircraft[0].Identification)
	assert.Equal(t, 1, s.Hub().Clients())

	s.Hub().Update(aircraft.Summary{ICAO: "3949E0", Squawk: "5611"})
	event = Event{}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventUpdate, event.Type)
	require.Len(t, event.Aircraft, 1)
	assert.Equal(t, "5611", event.Aircraft[0].Squawk)

	s.Hub().Remove("3949E0")
	event = Event{}
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, EventRemove, event.Type)
	assert.Equal(t, "3949E0", event.ICAO)

	s.Hub().Close()
	assert.Zero(t, s.Hub().Clients())
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

// TestServer_Run tests listening and graceful shutdown
func TestServer_Run(t *testing.T) {
	s := NewServer("127.0.0.1:0", newTestTracker(t), nil, "", newTestLogger())
	require.NoError(t, s.Listen())
	assert.NotEmpty(t, s.Addr())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	status, _ := get(t, "http://"+s.Addr()+"/healthz")
	assert.Equal(t, http.StatusOK, status)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
