package scanner

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/iasiv5/a-share-analyst/internal/analyzer"
	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// BarSource is the slice of the data source a scan needs.
type BarSource interface {
	DailyBars(ctx context.Context, code string, days int) (model.Series, error)
}

// ProgressCallback is called with progress updates
type ProgressCallback func(scanned, total int)

// Result couples one stock with its analysis bundle.
type Result struct {
	Stock  model.Stock      `json:"stock"`
	Result *analyzer.Result `json:"result"`
}

// ScanResult aggregates a batch run, ranked by score descending.
type ScanResult struct {
	TotalScanned int           `json:"total_scanned"`
	Analyzed     int           `json:"analyzed"`
	Failed       int           `json:"failed"`
	Results      []Result      `json:"results"`
	ScanTime     time.Duration `json:"scan_time"`
}

// Scanner scores a stock list in parallel. Parallelism lives entirely
// in the fetch fan-out; each analysis run stays single-threaded.
type Scanner struct {
	source       BarSource
	config       analyzer.Config
	days         int
	workers      int
	timeout      time.Duration
	progressFunc ProgressCallback
}

// NewScanner creates a scanner fetching days bars per stock. timeout
// bounds each stock's fetch-and-analyze round trip.
func NewScanner(src BarSource, cfg analyzer.Config, days, workers int, timeout time.Duration) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		source:  src,
		config:  cfg,
		days:    days,
		workers: workers,
		timeout: timeout,
	}
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(fn ProgressCallback) {
	s.progressFunc = fn
}

// Scan fetches and analyzes every stock. Stocks whose fetch or analysis
// fails are counted but dropped from the ranking.
func (s *Scanner) Scan(ctx context.Context, stocks []model.Stock) (*ScanResult, error) {
	startTime := time.Now()

	if len(stocks) == 0 {
		return &ScanResult{Results: []Result{}}, nil
	}

	// Channels
	jobChan := make(chan model.Stock, len(stocks))
	resultChan := make(chan Result, len(stocks))

	// Send all jobs
	for _, stock := range stocks {
		jobChan <- stock
	}
	close(jobChan)

	// Progress counters
	var scannedCount int64
	var failedCount int64

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for stock := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				result, err := s.analyzeOne(ctx, stock)
				if err != nil {
					atomic.AddInt64(&failedCount, 1)
				} else {
					resultChan <- Result{Stock: stock, Result: result}
				}

				// Update progress
				count := atomic.AddInt64(&scannedCount, 1)
				if s.progressFunc != nil {
					s.progressFunc(int(count), len(stocks))
				}
			}
		}()
	}

	// Close result channel when all workers are done
	go func() {
		wg.Wait()
		close(resultChan)
	}()

	// Collect and rank results
	results := []Result{}
	for result := range resultChan {
		results = append(results, result)
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Result.Score.Value > results[b].Result.Score.Value
	})

	return &ScanResult{
		TotalScanned: len(stocks),
		Analyzed:     len(results),
		Failed:       int(failedCount),
		Results:      results,
		ScanTime:     time.Since(startTime),
	}, nil
}

func (s *Scanner) analyzeOne(ctx context.Context, stock model.Stock) (*analyzer.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bars, err := s.source.DailyBars(ctx, stock.Code, s.days)
	if err != nil {
		return nil, err
	}
	return analyzer.Analyze(bars, s.config)
}

// ScanCodes scans specific stock codes.
func (s *Scanner) ScanCodes(ctx context.Context, codes []string) (*ScanResult, error) {
	stocks := make([]model.Stock, len(codes))
	for i, code := range codes {
		stocks[i] = model.Stock{Code: code, Name: code}
	}
	return s.Scan(ctx, stocks)
}
