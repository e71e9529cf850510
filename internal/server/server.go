// Package server exposes the telemetry stream and its companion endpoints.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"electrolyzer-sim/internal/broadcast"
	"electrolyzer-sim/internal/logging"
	"electrolyzer-sim/internal/telemetry"
)

// Snapshotter reports the most recent event.
type Snapshotter interface {
	Snapshot() (telemetry.Event, bool)
}

// Options tune the server.
type Options struct {
	Facility    telemetry.FacilitySpec
	TickSeconds float64
	Origins     []string
	Gatherer    prometheus.Gatherer
}

type Server struct {
	hub      *broadcast.Broadcaster
	snap     Snapshotter
	opts     Options
	origins  map[string]bool
	tpl      *template.Template
	shutdown time.Duration
}

//go:embed templates/index.html
var content embed.FS

// NewServer creates a server streaming events published on hub.
func NewServer(hub *broadcast.Broadcaster, snap Snapshotter, opts Options) *Server {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	origins := make(map[string]bool, len(opts.Origins))
	for _, o := range opts.Origins {
		origins[o] = true
	}
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{
		hub:      hub,
		snap:     snap,
		opts:     opts,
		origins:  origins,
		tpl:      tpl,
		shutdown: 5 * time.Second,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/stream", s.cors(http.HandlerFunc(s.handleStream)))
	mux.HandleFunc("GET /snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /{$}", s.handleIndex)
	return mux
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
// Request contexts derive from ctx, so open streams end with it.
func (s *Server) Start(ctx context.Context, addr string) error {
	log := logging.FromContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	log.Info("http server stopped")
	return nil
}

// cors allows configured origins to open the stream from a browser.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Add("Vary", "Origin")
		if origin := r.Header.Get("Origin"); origin != "" && s.origins[origin] {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Cache-Control, Last-Event-ID")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET, OPTIONS")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	sub := s.hub.Subscribe()
	defer s.hub.Unsubscribe(sub)
	log := logging.FromContext(r.Context()).With("subscriber", sub.ID)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	log.Debug("stream opened", "remote", r.RemoteAddr)

	for {
		select {
		case <-r.Context().Done():
			log.Debug("stream closed by client")
			return
		case <-sub.Done():
			log.Debug("stream dropped")
			return
		case ev := <-sub.Events():
			if err := writeEvent(w, ev); err != nil {
				log.Debug("stream write failed", "err", err)
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent frames ev as a single SSE data message.
func writeEvent(w http.ResponseWriter, ev telemetry.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.snap.Snapshot()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ev)
}

type health struct {
	Status         string  `json:"status"`
	FacilityStatus string  `json:"facility_status,omitempty"`
	Subscribers    int     `json:"subscribers"`
	TickSeconds    float64 `json:"tick_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := health{Status: "ok", Subscribers: s.hub.Len(), TickSeconds: s.opts.TickSeconds}
	if ev, ok := s.snap.Snapshot(); ok {
		resp.FacilityStatus = string(ev.Status)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Facility    telemetry.FacilitySpec
		TickSeconds float64
	}{
		Facility:    s.opts.Facility,
		TickSeconds: s.opts.TickSeconds,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, data); err != nil {
		logging.FromContext(r.Context()).Error("render index", "err", err)
	}
}
