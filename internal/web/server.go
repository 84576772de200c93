// Package web serves the adc-display status page and its JSON form.
package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/fitodd-23707/adc-display/internal/status"
)

// Source supplies the state shown on every request. *status.Tracker implements it.
type Source interface {
	Snapshot() status.Snapshot
}

// Server is the read-only HTTP status endpoint.
type Server struct {
	src Source
	srv *http.Server
}

// New creates a Server on addr. Nothing listens until ListenAndServe.
func New(addr string, src Source) *Server {
	s := &Server{src: src}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler routes GET and HEAD requests for the page and the JSON snapshot.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.readOnly(s.page))
	mux.HandleFunc("/index.json", s.readOnly(s.snapshotJSON))
	return mux
}

// ListenAndServe blocks until Shutdown.
func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) readOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		h(w, r)
	}
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/", "/index.html":
	default:
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, s.src.Snapshot())
}

func (s *Server) snapshotJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(status.FormatJSON(s.src.Snapshot())); err != nil {
		log.Printf("web: write json: %v", err)
	}
}
