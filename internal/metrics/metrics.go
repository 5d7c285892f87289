// Package metrics exposes decoder counters to Prometheus
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "squitterator"

// Metrics holds every collector of the decoder
type Metrics struct {
	registry *prometheus.Registry

	linesRead      prometheus.Counter
	framesDecoded  *prometheus.CounterVec // by downlink format
	framesRejected *prometheus.CounterVec // by reason
	registers      *prometheus.CounterVec // Comm-B register by code
	positions      prometheus.Counter
	aircraft       prometheus.Gauge
	evicted        prometheus.Counter
	published      *prometheus.CounterVec // by sink
	publishErrors  *prometheus.CounterVec // by sink
}

// New creates the collectors on a private registry, which also carries
// the Go runtime and process collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		linesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_read_total",
			Help:      "Input lines read from the source",
		}),
		framesDecoded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_decoded_total",
			Help:      "Frames that passed validation, by downlink format",
		}, []string{"df"}),
		framesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rejected_total",
			Help:      "Lines rejected before decoding, by reason",
		}, []string{"reason"}),
		registers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commb_registers_total",
			Help:      "Comm-B replies by classified register",
		}, []string{"bds"}),
		positions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "positions_total",
			Help:      "Committed CPR position fixes",
		}),
		aircraft: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "aircraft",
			Help:      "Aircraft currently tracked",
		}),
		evicted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aircraft_evicted_total",
			Help:      "Aircraft dropped after going silent",
		}),
		published: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "published_total",
			Help:      "Aircraft updates delivered, by sink",
		}, []string{"sink"}),
		publishErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed deliveries, by sink",
		}, []string{"sink"}),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry, mostly for tests
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Metrics) LineRead() { m.linesRead.Inc() }

func (m *Metrics) FrameDecoded(df uint32) {
	m.framesDecoded.WithLabelValues(strconv.FormatUint(uint64(df), 10)).Inc()
}

func (m *Metrics) FrameRejected(reason string) { m.framesRejected.WithLabelValues(reason).Inc() }

func (m *Metrics) Register(code string) { m.registers.WithLabelValues(code).Inc() }

func (m *Metrics) Position() { m.positions.Inc() }

func (m *Metrics) Aircraft(n int) { m.aircraft.Set(float64(n)) }

func (m *Metrics) Evicted(n int) { m.evicted.Add(float64(n)) }

func (m *Metrics) Published(sink string) { m.published.WithLabelValues(sink).Inc() }

func (m *Metrics) PublishFailed(sink string) { m.publishErrors.WithLabelValues(sink).Inc() }
