package watch

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/iasiv5/a-share-analyst/internal/datasource"
	"github.com/iasiv5/a-share-analyst/internal/report"
	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// GatherMarket pulls every market-wide table once and arranges it for
// the report: indices, breadth, limit pools, northbound flow and the
// board movers. Indices are required; every other section degrades to
// empty when its fetch fails.
func GatherMarket(ctx context.Context, src datasource.Source, topBoards int) (*report.MarketInput, error) {
	indices, err := src.IndexQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("index quotes: %w", err)
	}

	in := &report.MarketInput{Indices: indices, GeneratedAt: time.Now()}

	if quotes, err := src.Snapshot(ctx); err == nil {
		in.UpCount, in.DownCount = report.Breadth(quotes)
	} else {
		log.Printf("[WATCH] Breadth skipped: %v", err)
	}

	if ups, err := src.LimitUpPool(ctx, ""); err == nil {
		in.LimitUps = ups
	} else {
		log.Printf("[WATCH] Limit-up pool skipped: %v", err)
	}
	if downs, err := src.LimitDownPool(ctx, ""); err == nil {
		in.LimitDowns = downs
	} else {
		log.Printf("[WATCH] Limit-down pool skipped: %v", err)
	}

	if nf, err := src.NorthFlow(ctx); err == nil {
		in.North = nf
	} else {
		log.Printf("[WATCH] North flow skipped: %v", err)
	}

	if concepts, err := src.ConceptBoards(ctx); err == nil {
		in.TopConcept = boardsByChange(concepts, topBoards, true)
		in.BottomConcept = boardsByChange(concepts, topBoards, false)
	} else {
		log.Printf("[WATCH] Concept boards skipped: %v", err)
	}
	if industries, err := src.IndustryBoards(ctx); err == nil {
		in.TopIndustry = boardsByChange(industries, topBoards, true)
	} else {
		log.Printf("[WATCH] Industry boards skipped: %v", err)
	}

	return in, nil
}

// boardsByChange returns the n strongest (or weakest) boards.
func boardsByChange(boards []model.BoardQuote, n int, best bool) []model.BoardQuote {
	out := make([]model.BoardQuote, len(boards))
	copy(out, boards)
	sort.SliceStable(out, func(a, b int) bool {
		if best {
			return out[a].ChangePct > out[b].ChangePct
		}
		return out[a].ChangePct < out[b].ChangePct
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
