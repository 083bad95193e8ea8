// Package web serves the analysis pipeline as a small JSON API for
// dashboards and scripts. All endpoints are read-only GETs.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/iasiv5/a-share-analyst/internal/analyzer"
	"github.com/iasiv5/a-share-analyst/internal/datasource"
)

// Server represents the API server
type Server struct {
	source datasource.Source
	config analyzer.Config
	days   int
	srv    *http.Server
}

// NewServer creates a new API server analyzing days bars per request.
func NewServer(src datasource.Source, cfg analyzer.Config, days int) *Server {
	return &Server{source: src, config: cfg, days: days}
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/analysis/", s.handleAnalysis)
	mux.HandleFunc("/api/market", s.handleMarket)
	mux.HandleFunc("/api/picks", s.handlePicks)

	return corsMiddleware(mux)
}

// Start starts the server on the specified port
func (s *Server) Start(port int) error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting analyst API at http://localhost:%d", port)
	log.Printf("Press Ctrl+C to stop")

	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

// corsMiddleware adds CORS headers for local development
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
