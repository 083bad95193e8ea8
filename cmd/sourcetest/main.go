// Command sourcetest exercises the live EastMoney endpoints by hand.
// It is a manual check for the data-source plumbing, not part of the
// test suite.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/iasiv5/a-share-analyst/internal/analyzer"
	"github.com/iasiv5/a-share-analyst/internal/config"
	"github.com/iasiv5/a-share-analyst/internal/datasource"
)

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal(err)
	}

	src := datasource.NewEastMoney(cfg.Source.RateLimit)
	ctx := context.Background()

	fmt.Println("=== EastMoney API Test ===")

	// 1. Daily bars
	fmt.Println("\n[1] DailyBars for 600519 (贵州茅台)")
	start := time.Now()
	bars, err := src.DailyBars(ctx, "600519", 100)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Printf("    ERROR: %v\n", err)
	} else {
		fmt.Printf("    OK: %d bars in %s\n", len(bars), elapsed)
		if len(bars) > 0 {
			last := bars[len(bars)-1]
			fmt.Printf("    Last: %s O=%.2f H=%.2f L=%.2f C=%.2f V=%d\n",
				last.Time.Format("2006-01-02"), last.Open, last.High, last.Low, last.Close, last.Volume)
		}
	}

	// 2. Analyzer on the fetched bars
	fmt.Println("\n[2] Analyze 600519")
	if len(bars) > 0 {
		res, err := analyzer.Analyze(bars, analyzer.DefaultConfig())
		if err != nil {
			fmt.Printf("    ERROR: %v\n", err)
		} else {
			fmt.Printf("    Score=%d (%s) trend=%s macd=%s kdj=%s rsi=%s\n",
				res.Score.Value, res.Score.Rating, res.Trend,
				res.MACD.Signal, res.KDJ.Signal, res.RSI.SignalText())
		}
	} else {
		fmt.Println("    skipped, no bars")
	}

	// 3. Spot endpoints
	fmt.Println("\n[3] Spot endpoints")
	start = time.Now()
	quote, err := src.Quote(ctx, "600519")
	if err != nil {
		fmt.Printf("    Quote: ERROR - %v\n", err)
	} else {
		fmt.Printf("    Quote: %s %.2f (%+.2f%%) in %s\n", quote.Name, quote.Price, quote.ChangePct, time.Since(start))
	}

	start = time.Now()
	indices, err := src.IndexQuotes(ctx)
	if err != nil {
		fmt.Printf("    IndexQuotes: ERROR - %v\n", err)
	} else {
		fmt.Printf("    IndexQuotes: %d rows in %s\n", len(indices), time.Since(start))
		for _, idx := range indices {
			fmt.Printf("      %s %s %.2f (%+.2f%%)\n", idx.Code, idx.Name, idx.Price, idx.ChangePct)
		}
	}

	start = time.Now()
	snapshot, err := src.Snapshot(ctx)
	if err != nil {
		fmt.Printf("    Snapshot: ERROR - %v\n", err)
	} else {
		fmt.Printf("    Snapshot: %d rows in %s\n", len(snapshot), time.Since(start))
	}

	start = time.Now()
	boards, err := src.ConceptBoards(ctx)
	if err != nil {
		fmt.Printf("    ConceptBoards: ERROR - %v\n", err)
	} else {
		fmt.Printf("    ConceptBoards: %d rows in %s\n", len(boards), time.Since(start))
	}

	// 4. Multi-stock bar fetch with timings
	testCodes := []string{"000001", "000858", "601318", "600036", "300750"}
	fmt.Println("\n[4] Multi-stock bar fetch")
	for _, code := range testCodes {
		start = time.Now()
		b, err := src.DailyBars(ctx, code, 100)
		elapsed = time.Since(start)
		if err != nil {
			fmt.Printf("    %s: ERROR - %v (%.1fs)\n", code, err, elapsed.Seconds())
			continue
		}

		res, err := analyzer.Analyze(b, analyzer.DefaultConfig())
		if err != nil {
			fmt.Printf("    %s: %d bars, analyze error: %v (%.1fs)\n", code, len(b), err, elapsed.Seconds())
			continue
		}
		last := b[len(b)-1]
		fmt.Printf("    %s: %d bars, last=%.2f, score=%d %s (%.1fs)\n",
			code, len(b), last.Close, res.Score.Value, res.Score.Rating, elapsed.Seconds())
	}

	fmt.Println("\n=== Test Complete ===")
}
