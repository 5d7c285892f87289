// Package publish delivers aircraft updates as JSON to message brokers
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"squitterator/internal/aircraft"
)

// Publisher is a broker sink for aircraft summaries
type Publisher interface {
	Name() string
	Publish(ctx context.Context, s aircraft.Summary) error
	Close() error
}

// Recorder counts deliveries, satisfied by the metrics package
type Recorder interface {
	Published(sink string)
	PublishFailed(sink string)
}

// Payload is the JSON document sent for each update
type Payload struct {
	Timestamp int64            `json:"timestamp"`
	Aircraft  aircraft.Summary `json:"aircraft"`
}

// Marshal encodes a summary as a Payload
func Marshal(s aircraft.Summary, now time.Time) ([]byte, error) {
	data, err := json.Marshal(Payload{Timestamp: now.Unix(), Aircraft: s})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return data, nil
}

// Fanout sends every update to all publishers, at most once per interval
// for each aircraft
type Fanout struct {
	publishers []Publisher
	recorder   Recorder
	logger     *logrus.Logger
	interval   time.Duration

	mutex sync.Mutex
	last  map[string]time.Time
}

// NewFanout creates a fanout over the given publishers. A nil recorder is
// allowed.
func NewFanout(publishers []Publisher, interval time.Duration, recorder Recorder, logger *logrus.Logger) *Fanout {
	return &Fanout{
		publishers: publishers,
		recorder:   recorder,
		logger:     logger,
		interval:   interval,
		last:       make(map[string]time.Time),
	}
}

// Len returns the number of publishers
func (f *Fanout) Len() int {
	return len(f.publishers)
}

// Publish delivers the summary unless the aircraft was published less than
// an interval ago. It reports whether the update was sent. Failures are
// logged and counted; one failing sink does not stop the others.
func (f *Fanout) Publish(ctx context.Context, s aircraft.Summary, now time.Time) bool {
	if len(f.publishers) == 0 {
		return false
	}

	f.mutex.Lock()
	if last, ok := f.last[s.ICAO]; ok && now.Sub(last) < f.interval {
		f.mutex.Unlock()
		return false
	}
	f.last[s.ICAO] = now
	f.mutex.Unlock()

	for _, p := range f.publishers {
		if err := p.Publish(ctx, s); err != nil {
			f.logger.WithError(err).WithFields(logrus.Fields{
				"sink": p.Name(),
				"icao": s.ICAO,
			}).Warn("Failed to publish")
			if f.recorder != nil {
				f.recorder.PublishFailed(p.Name())
			}
			continue
		}
		if f.recorder != nil {
			f.recorder.Published(p.Name())
		}
	}
	return true
}

// Forget drops the rate limit state of evicted aircraft
func (f *Fanout) Forget(icao string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	delete(f.last, icao)
}

// Close closes every publisher and returns the first error
func (f *Fanout) Close() error {
	var first error
	for _, p := range f.publishers {
		if err := p.Close(); err != nil && first == nil {
			first = fmt.Errorf("close %s: %w", p.Name(), err)
		}
	}
	return first
}
