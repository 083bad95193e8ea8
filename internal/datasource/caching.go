package datasource

import (
	"context"
	"sync"
	"time"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// CachingSource wraps a Source with an in-memory cache for the calls a
// scan repeats: daily bars per stock, plus the spot and board tables.
// Designed for scan scenarios where multiple strategies read the same data.
type CachingSource struct {
	inner   Source
	maxDays int
	ttl     time.Duration

	mu         sync.Mutex
	bars       map[string]model.Series
	snapshot   []model.Quote
	snapshotAt time.Time
	boards     map[string]boardEntry
}

type boardEntry struct {
	quotes    []model.BoardQuote
	fetchedAt time.Time
}

// NewCachingSource creates a caching wrapper. maxDays is the floor for
// upstream bar fetches (use 250 so the 120-day moving average stays
// defined); ttl bounds how long spot and board tables are reused.
func NewCachingSource(inner Source, maxDays int, ttl time.Duration) *CachingSource {
	return &CachingSource{
		inner:   inner,
		maxDays: maxDays,
		ttl:     ttl,
		bars:    make(map[string]model.Series),
		boards:  make(map[string]boardEntry),
	}
}

func (c *CachingSource) Name() string { return c.inner.Name() }

func (c *CachingSource) DailyBars(ctx context.Context, code string, days int) (model.Series, error) {
	c.mu.Lock()
	if cached, ok := c.bars[code]; ok {
		c.mu.Unlock()
		if len(cached) >= days {
			return cached[len(cached)-days:], nil
		}
		return cached, nil
	}
	c.mu.Unlock()

	// Fetch max days to satisfy all strategies in one call
	fetchDays := c.maxDays
	if days > fetchDays {
		fetchDays = days
	}

	bars, err := c.inner.DailyBars(ctx, code, fetchDays)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.bars[code] = bars
	c.mu.Unlock()

	if len(bars) >= days {
		return bars[len(bars)-days:], nil
	}
	return bars, nil
}

func (c *CachingSource) Snapshot(ctx context.Context) ([]model.Quote, error) {
	c.mu.Lock()
	if c.snapshot != nil && time.Since(c.snapshotAt) < c.ttl {
		quotes := c.snapshot
		c.mu.Unlock()
		return quotes, nil
	}
	c.mu.Unlock()

	quotes, err := c.inner.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = quotes
	c.snapshotAt = time.Now()
	c.mu.Unlock()
	return quotes, nil
}

func (c *CachingSource) cachedBoards(ctx context.Context, key string, fetch func(context.Context) ([]model.BoardQuote, error)) ([]model.BoardQuote, error) {
	c.mu.Lock()
	if entry, ok := c.boards[key]; ok && time.Since(entry.fetchedAt) < c.ttl {
		c.mu.Unlock()
		return entry.quotes, nil
	}
	c.mu.Unlock()

	quotes, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.boards[key] = boardEntry{quotes: quotes, fetchedAt: time.Now()}
	c.mu.Unlock()
	return quotes, nil
}

func (c *CachingSource) ConceptBoards(ctx context.Context) ([]model.BoardQuote, error) {
	return c.cachedBoards(ctx, "concept", c.inner.ConceptBoards)
}

func (c *CachingSource) IndustryBoards(ctx context.Context) ([]model.BoardQuote, error) {
	return c.cachedBoards(ctx, "industry", c.inner.IndustryBoards)
}

func (c *CachingSource) Quote(ctx context.Context, code string) (*model.Quote, error) {
	return c.inner.Quote(ctx, code)
}

func (c *CachingSource) IndexQuotes(ctx context.Context) ([]model.IndexQuote, error) {
	return c.inner.IndexQuotes(ctx)
}

func (c *CachingSource) BoardMembers(ctx context.Context, boardCode string) ([]model.Quote, error) {
	return c.inner.BoardMembers(ctx, boardCode)
}

func (c *CachingSource) LimitUpPool(ctx context.Context, date string) ([]model.LimitStock, error) {
	return c.inner.LimitUpPool(ctx, date)
}

func (c *CachingSource) LimitDownPool(ctx context.Context, date string) ([]model.LimitStock, error) {
	return c.inner.LimitDownPool(ctx, date)
}

func (c *CachingSource) NorthFlow(ctx context.Context) (*model.NorthFlow, error) {
	return c.inner.NorthFlow(ctx)
}

func (c *CachingSource) FundFlow(ctx context.Context, code string) (*model.FundFlow, error) {
	return c.inner.FundFlow(ctx, code)
}
