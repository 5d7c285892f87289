// Package web serves the tracked aircraft over HTTP: a JSON listing, a
// websocket stream of updates and the Prometheus metrics
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"squitterator/internal/adsb"
	"squitterator/internal/aircraft"
)

const shutdownTimeout = 5 * time.Second

// Source provides the current aircraft, satisfied by *aircraft.Tracker
type Source interface {
	Snapshot() []aircraft.Plane
	Get(icao uint32) (aircraft.Plane, bool)
}

// Server is the HTTP front end
type Server struct {
	addr    string
	source  Source
	metrics http.Handler
	hub     *Hub
	logger  *logrus.Logger
	order   string

	server   *http.Server
	listener net.Listener
}

// NewServer creates a server on addr. A nil metrics handler leaves
// /metrics unrouted. order is the default sort of /aircraft.
func NewServer(addr string, source Source, metrics http.Handler, order string, logger *logrus.Logger) *Server {
	s := &Server{
		addr:    addr,
		source:  source,
		metrics: metrics,
		hub:     NewHub(logger),
		logger:  logger,
		order:   order,
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Hub returns the websocket hub for broadcasting updates
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /aircraft", s.handleAircraft)
	mux.HandleFunc("GET /aircraft/{icao}", s.handleOne)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	return mux
}

// Listen binds the address so Addr is known before Run
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, empty before Listen
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.Addr()).Info("HTTP server listening")
		errCh <- s.server.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) summaries(order string) []aircraft.Summary {
	planes := s.source.Snapshot()
	aircraft.Sort(planes, order)

	out := make([]aircraft.Summary, 0, len(planes))
	for i := range planes {
		out = append(out, planes[i].Summary())
	}
	return out
}

func (s *Server) handleAircraft(w http.ResponseWriter, r *http.Request) {
	order := s.order
	if o := r.URL.Query().Get("order"); o != "" {
		order = o
	}
	writeJSON(w, http.StatusOK, s.summaries(order))
}

func (s *Server) handleOne(w http.ResponseWriter, r *http.Request) {
	icao, err := strconv.ParseUint(r.PathValue("icao"), 16, 24)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid ICAO address"})
		return
	}
	plane, ok := s.source.Get(uint32(icao))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown aircraft " + adsb.FormatICAO(uint32(icao))})
		return
	}
	writeJSON(w, http.StatusOK, plane.Summary())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.Serve(w, r, s.summaries(s.order))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
