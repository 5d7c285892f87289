package aircraft

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"squitterator/internal/adsb"
	"squitterator/internal/bds"
)

// DefaultMaxAge is how long an aircraft is kept without hearing from it
const DefaultMaxAge = 60 * time.Second

// Tracker holds every aircraft heard recently, keyed by ICAO address
type Tracker struct {
	mutex    sync.RWMutex
	planes   map[uint32]*Plane
	relaxed  bool
	observer *Observer
	logger   *logrus.Logger
	now      func() time.Time
}

// TrackerOption configures a Tracker
type TrackerOption func(*Tracker)

// WithRelaxed enables Comm-B classification for every aircraft
func WithRelaxed(relaxed bool) TrackerOption {
	return func(t *Tracker) { t.relaxed = relaxed }
}

// WithObserver makes the tracker compute distances from the given location
func WithObserver(o *Observer) TrackerOption {
	return func(t *Tracker) { t.observer = o }
}

// WithClock replaces the wall clock, mostly for tests
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates an empty tracker
func NewTracker(logger *logrus.Logger, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		planes: make(map[uint32]*Plane),
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Process folds a decoded frame into the state of its aircraft and returns
// a copy of the updated record along with the classified Comm-B register,
// if any
func (t *Tracker) Process(frame adsb.Frame) (Plane, bds.Register) {
	now := t.now()

	t.mutex.Lock()
	defer t.mutex.Unlock()

	icao := frame.Address()
	plane, exists := t.planes[icao]
	if !exists {
		plane = NewPlane(icao)
		t.planes[icao] = plane
		if t.logger != nil {
			t.logger.WithFields(logrus.Fields{
				"icao":    adsb.FormatICAO(icao),
				"country": plane.Country.Code,
			}).Debug("New aircraft")
		}
	}

	hadFix := plane.PositionTime
	reg := plane.Update(frame, now, t.relaxed)
	if t.observer != nil && plane.PositionTime != hadFix {
		d := t.observer.DistanceNM(plane.Lat, plane.Lon)
		plane.Distance = &d
	}

	if reg != nil && t.logger != nil && reg.Code() != bds.CodeUnknown {
		t.logger.WithFields(logrus.Fields{
			"icao": adsb.FormatICAO(icao),
			"bds":  reg.Code().String(),
		}).Debug("Comm-B register")
	}
	return *plane, reg
}

// Get returns a copy of one aircraft's record
func (t *Tracker) Get(icao uint32) (Plane, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	plane, exists := t.planes[icao]
	if !exists {
		return Plane{}, false
	}
	return *plane, true
}

// Len returns the number of tracked aircraft
func (t *Tracker) Len() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return len(t.planes)
}

// Snapshot returns copies of every record in ICAO order
func (t *Tracker) Snapshot() []Plane {
	t.mutex.RLock()
	planes := make([]Plane, 0, len(t.planes))
	for _, plane := range t.planes {
		planes = append(planes, *plane)
	}
	t.mutex.RUnlock()

	Sort(planes, "")
	return planes
}

// RemoveStale drops aircraft not heard for longer than maxAge and returns
// their addresses
func (t *Tracker) RemoveStale(maxAge time.Duration) []uint32 {
	now := t.now()

	t.mutex.Lock()
	defer t.mutex.Unlock()

	var removed []uint32
	for icao, plane := range t.planes {
		if plane.Stale(now, maxAge) {
			delete(t.planes, icao)
			removed = append(removed, icao)
		}
	}
	return removed
}
