package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iasiv5/a-share-analyst/internal/analyzer"
	"github.com/iasiv5/a-share-analyst/internal/datasource"
	"github.com/iasiv5/a-share-analyst/internal/strategy"
	"github.com/iasiv5/a-share-analyst/internal/symbols"
	"github.com/iasiv5/a-share-analyst/internal/watch"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WEB] Encode error: %v", err)
	}
}

// handleHealth reports liveness and the active data source.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]string{
		"status": "ok",
		"source": s.source.Name(),
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleAnalysis runs the full pipeline for one stock: /api/analysis/600519
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/analysis/")
	code, err := symbols.NormalizeCode(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	bars, err := s.source.DailyBars(ctx, code, s.days)
	if err != nil {
		if errors.Is(err, datasource.ErrNotFound) {
			http.Error(w, "No data for code "+code, http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get bars: "+err.Error(), http.StatusBadGateway)
		return
	}

	res, err := analyzer.Analyze(bars, s.config)
	if err != nil {
		http.Error(w, "Analysis failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// best effort, the response works without a name
	name := ""
	if q, err := s.source.Quote(ctx, code); err == nil {
		name = q.Name
	}

	writeJSON(w, newAnalysisResponse(code, name, res))
}

// handleMarket assembles the market overview.
func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	in, err := watch.GatherMarket(ctx, s.source, 5)
	if err != nil {
		http.Error(w, "Failed to get market data: "+err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, newMarketResponse(in))
}

// handlePicks runs one ranking strategy over the live snapshot:
// /api/picks?strategy=value&n=10
func (s *Server) handlePicks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("strategy")
	if name == "" {
		name = "multifactor"
	}
	strat, err := strategy.Get(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n := 10
	if v := r.URL.Query().Get("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			n = parsed
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	quotes, err := s.source.Snapshot(ctx)
	if err != nil {
		http.Error(w, "Failed to get snapshot: "+err.Error(), http.StatusBadGateway)
		return
	}

	picks := strat.Run(quotes)
	if len(picks) > n {
		picks = picks[:n]
	}

	writeJSON(w, newPicksResponse(strat, picks))
}
