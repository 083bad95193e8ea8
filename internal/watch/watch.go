// Package watch runs the daily report routine on a cron schedule:
// after the close it writes the market report and one analysis report
// per watchlist stock, and records the scores to history.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/iasiv5/a-share-analyst/internal/analyzer"
	"github.com/iasiv5/a-share-analyst/internal/datasource"
	"github.com/iasiv5/a-share-analyst/internal/history"
	"github.com/iasiv5/a-share-analyst/internal/report"
)

// Config controls the daily run.
type Config struct {
	Cron      string   // cron spec, e.g. "0 16 * * 1-5"
	OutputDir string   // where the markdown reports land
	Codes     []string // watchlist, normalized 6-digit codes
	Days      int      // bars fetched per stock
	TopBoards int      // board rows per report section
}

// Watcher generates the daily reports on a schedule.
type Watcher struct {
	config Config
	source datasource.Source
	store  history.Store
	acfg   analyzer.Config
	cron   *cron.Cron
}

// New creates a watcher; Start arms the schedule.
func New(cfg Config, src datasource.Source, store history.Store, acfg analyzer.Config) *Watcher {
	if cfg.TopBoards <= 0 {
		cfg.TopBoards = 5
	}
	return &Watcher{config: cfg, source: src, store: store, acfg: acfg}
}

// Start registers the cron entry and starts the scheduler.
func (w *Watcher) Start() error {
	w.cron = cron.New()
	_, err := w.cron.AddFunc(w.config.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := w.RunOnce(ctx); err != nil {
			log.Printf("[WATCH] Run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("bad cron spec %q: %w", w.config.Cron, err)
	}

	w.cron.Start()
	log.Printf("[WATCH] Scheduled daily reports at %q (%d stocks)", w.config.Cron, len(w.config.Codes))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (w *Watcher) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

// RunOnce generates the market report and one report per watchlist
// stock. Individual stock failures are logged and skipped so one bad
// code cannot sink the whole run.
func (w *Watcher) RunOnce(ctx context.Context) error {
	runID := uuid.NewString()
	now := time.Now()
	log.Printf("[WATCH] Run %s starting", runID)

	if err := os.MkdirAll(w.config.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	in, err := GatherMarket(ctx, w.source, w.config.TopBoards)
	if err != nil {
		log.Printf("[WATCH] Market report skipped: %v", err)
	} else {
		in.RunID = runID
		in.GeneratedAt = now
		path := filepath.Join(w.config.OutputDir, "market-"+now.Format("20060102")+".md")
		if err := os.WriteFile(path, []byte(report.Market(*in)), 0o644); err != nil {
			return fmt.Errorf("write market report: %w", err)
		}
		log.Printf("[WATCH] Market report saved: %s", path)
	}

	for _, code := range w.config.Codes {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := w.reportStock(ctx, code, runID, now); err != nil {
			log.Printf("[WATCH] %s failed: %v", code, err)
		}
	}

	log.Printf("[WATCH] Run %s complete", runID)
	return nil
}

func (w *Watcher) reportStock(ctx context.Context, code, runID string, now time.Time) error {
	bars, err := w.source.DailyBars(ctx, code, w.config.Days)
	if err != nil {
		return err
	}
	res, err := analyzer.Analyze(bars, w.acfg)
	if err != nil {
		return err
	}

	// best effort; the report renders without the spot section
	quote, err := w.source.Quote(ctx, code)
	if err != nil {
		quote = nil
	}

	name := code
	if quote != nil && quote.Name != "" {
		name = quote.Name
	}

	md := report.Stock(report.StockInput{
		Code:        code,
		Name:        name,
		Quote:       quote,
		Result:      res,
		RunID:       runID,
		GeneratedAt: now,
	})
	path := filepath.Join(w.config.OutputDir, code+"-"+now.Format("20060102")+".md")
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if err := w.store.SaveAnalysis(history.AnalysisRecord{
		RunID:     runID,
		Code:      code,
		Name:      name,
		Price:     res.Price,
		Score:     res.Score.Value,
		Rating:    string(res.Score.Rating),
		Trend:     string(res.Trend),
		CreatedAt: now,
	}); err != nil {
		log.Printf("[WATCH] History save failed for %s: %v", code, err)
	}

	log.Printf("[WATCH] %s report saved: %s", code, path)
	return nil
}
