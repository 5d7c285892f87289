package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMetrics_Counters tests that each helper moves its collector
func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.LineRead()
	m.LineRead()
	m.FrameDecoded(17)
	m.FrameDecoded(17)
	m.FrameDecoded(4)
	m.FrameRejected("parity")
	m.Register("5,0")
	m.Position()
	m.Aircraft(12)
	m.Evicted(3)
	m.Published("mqtt")
	m.PublishFailed("nats")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.linesRead))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.framesDecoded.WithLabelValues("17")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.framesDecoded.WithLabelValues("4")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.framesRejected.WithLabelValues("parity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registers.WithLabelValues("5,0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.positions))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.aircraft))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.evicted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.published.WithLabelValues("mqtt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.publishErrors.WithLabelValues("nats")))
}

// TestMetrics_Independent tests that two instances do not share state
func TestMetrics_Independent(t *testing.T) {
	a, b := New(), New()
	a.LineRead()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.linesRead))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.linesRead))
}

// TestMetrics_Gather tests the exported families
func TestMetrics_Gather(t *testing.T) {
	m := New()
	m.FrameDecoded(11)

	families, err := m.Gatherer().Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, f := range families {
		byName[f.GetName()] = f
	}

	family, ok := byName["squitterator_frames_decoded_total"]
	require.True(t, ok)
	require.Len(t, family.GetMetric(), 1)
	metric := family.GetMetric()[0]
	assert.Equal(t, 1.0, metric.GetCounter().GetValue())
	require.Len(t, metric.GetLabel(), 1)
	assert.Equal(t, "df", metric.GetLabel()[0].GetName())
	assert.Equal(t, "11", metric.GetLabel()[0].GetValue())

	_, ok = byName["go_goroutines"]
	assert.True(t, ok)
}

// TestMetrics_Handler tests the HTTP exposition
func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Aircraft(5)

	server := httptest.NewServer(m.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "squitterator_aircraft 5")
}
