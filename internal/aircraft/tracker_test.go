package aircraft

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squitterator/internal/bds"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker(clock *fakeClock, opts ...TrackerOption) *Tracker {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	return NewTracker(logger, append(opts, WithClock(clock.now))...)
}

// TestTrackerProcess tests that frames accumulate per address
func TestTrackerProcess(t *testing.T) {
	clock := &fakeClock{t: epoch}
	schiphol := &Observer{Lat: 52.3086, Lon: 4.7639}
	tracker := newTestTracker(clock, WithObserver(schiphol))

	tracker.Process(decode(t, evenPosition))
	clock.advance(time.Second)
	plane, reg := tracker.Process(decode(t, oddPosition))
	assert.Nil(t, reg)
	require.True(t, plane.HasPosition())
	require.NotNil(t, plane.Distance)
	assert.InDelta(t, 31.1728, *plane.Distance, 1e-3)

	tracker.Process(decode(t, "2800189A8E0F41"))
	assert.Equal(t, 2, tracker.Len())

	got, ok := tracker.Get(0x4840D6)
	require.True(t, ok)
	assert.Equal(t, uint64(2), got.Messages)

	_, ok = tracker.Get(0xABCDEF)
	assert.False(t, ok)
}

// TestTrackerRelaxed tests that the relaxed option reaches Comm-B
// classification
func TestTrackerRelaxed(t *testing.T) {
	clock := &fakeClock{t: epoch}

	strict := newTestTracker(clock)
	_, reg := strict.Process(decode(t, trackAndTurn))
	assert.Nil(t, reg)

	relaxed := newTestTracker(clock, WithRelaxed(true))
	plane, reg := relaxed.Process(decode(t, trackAndTurn))
	require.NotNil(t, reg)
	assert.Equal(t, bds.Code50, reg.Code())
	require.NotNil(t, plane.Roll)
}

// TestTrackerSnapshot tests that snapshots are ordered copies
func TestTrackerSnapshot(t *testing.T) {
	clock := &fakeClock{t: epoch}
	tracker := newTestTracker(clock)

	tracker.Process(decode(t, identity))
	tracker.Process(decode(t, "2800189A8E0F41"))

	planes := tracker.Snapshot()
	require.Len(t, planes, 2)
	assert.Equal(t, uint32(0x3949E0), planes[0].ICAO)
	assert.Equal(t, uint32(0x4840D6), planes[1].ICAO)

	planes[1].Identification = "CHANGED"
	got, _ := tracker.Get(0x4840D6)
	assert.Equal(t, "KLM1023", got.Identification)
}

// TestTrackerRemoveStale tests eviction of silent aircraft
func TestTrackerRemoveStale(t *testing.T) {
	clock := &fakeClock{t: epoch}
	tracker := newTestTracker(clock)

	tracker.Process(decode(t, identity))
	clock.advance(30 * time.Second)
	tracker.Process(decode(t, "2800189A8E0F41"))

	clock.advance(31 * time.Second)
	assert.Equal(t, []uint32{0x4840D6}, tracker.RemoveStale(DefaultMaxAge))
	assert.Equal(t, 1, tracker.Len())
	_, ok := tracker.Get(0x3949E0)
	assert.True(t, ok)

	assert.Empty(t, tracker.RemoveStale(DefaultMaxAge))
}
