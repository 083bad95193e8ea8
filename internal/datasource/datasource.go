// Package datasource fetches A-share market data: daily bars, realtime
// spot snapshots, board and money-flow tables. The EastMoney client is
// the default source; an optional self-hosted gateway can front it,
// with caching and fallback decorators composing either.
package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// Source supplies market data. Implementations must be safe for
// concurrent use; every call honors its context for cancellation.
type Source interface {
	Name() string

	// DailyBars returns up to days forward-adjusted daily bars for a
	// 6-digit stock code, oldest first.
	DailyBars(ctx context.Context, code string, days int) (model.Series, error)

	// Quote returns the realtime snapshot row for one stock.
	Quote(ctx context.Context, code string) (*model.Quote, error)

	// Snapshot returns the realtime spot table for the whole market.
	Snapshot(ctx context.Context) ([]model.Quote, error)

	// IndexQuotes returns the benchmark index snapshots.
	IndexQuotes(ctx context.Context) ([]model.IndexQuote, error)

	ConceptBoards(ctx context.Context) ([]model.BoardQuote, error)
	IndustryBoards(ctx context.Context) ([]model.BoardQuote, error)

	// BoardMembers returns the spot rows of one board's constituents,
	// identified by its BKxxxx board code.
	BoardMembers(ctx context.Context, boardCode string) ([]model.Quote, error)

	// LimitUpPool and LimitDownPool return the limit-move pools for a
	// YYYYMMDD trading date; an empty date means today.
	LimitUpPool(ctx context.Context, date string) ([]model.LimitStock, error)
	LimitDownPool(ctx context.Context, date string) ([]model.LimitStock, error)

	NorthFlow(ctx context.Context) (*model.NorthFlow, error)
	FundFlow(ctx context.Context, code string) (*model.FundFlow, error)
}

// SourceError wraps a failure from a named source. Retryable marks
// transient conditions (rate limits, 5xx, network) where trying again
// or falling through to another source makes sense.
type SourceError struct {
	Source    string
	Err       error
	Retryable bool
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// ErrNotFound is returned when a code has no data at the source.
var ErrNotFound = errors.New("no data for code")

// FallbackSource tries each wrapped source in order until one answers.
type FallbackSource struct {
	sources []Source
}

// NewFallbackSource builds a fallback chain; earlier sources win.
func NewFallbackSource(sources ...Source) *FallbackSource {
	return &FallbackSource{sources: sources}
}

func (f *FallbackSource) Name() string { return "fallback" }

// each wraps the per-method loop: run fn against every source in order
// and keep the last error when all of them fail.
func (f *FallbackSource) each(fn func(Source) error) error {
	var lastErr error
	for _, s := range f.sources {
		err := fn(s)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no sources configured")
	}
	return fmt.Errorf("all sources failed: %w", lastErr)
}

func (f *FallbackSource) DailyBars(ctx context.Context, code string, days int) (model.Series, error) {
	var out model.Series
	err := f.each(func(s Source) error {
		bars, err := s.DailyBars(ctx, code, days)
		out = bars
		return err
	})
	return out, err
}

func (f *FallbackSource) Quote(ctx context.Context, code string) (*model.Quote, error) {
	var out *model.Quote
	err := f.each(func(s Source) error {
		q, err := s.Quote(ctx, code)
		out = q
		return err
	})
	return out, err
}

func (f *FallbackSource) Snapshot(ctx context.Context) ([]model.Quote, error) {
	var out []model.Quote
	err := f.each(func(s Source) error {
		q, err := s.Snapshot(ctx)
		out = q
		return err
	})
	return out, err
}

func (f *FallbackSource) IndexQuotes(ctx context.Context) ([]model.IndexQuote, error) {
	var out []model.IndexQuote
	err := f.each(func(s Source) error {
		q, err := s.IndexQuotes(ctx)
		out = q
		return err
	})
	return out, err
}

func (f *FallbackSource) ConceptBoards(ctx context.Context) ([]model.BoardQuote, error) {
	var out []model.BoardQuote
	err := f.each(func(s Source) error {
		b, err := s.ConceptBoards(ctx)
		out = b
		return err
	})
	return out, err
}

func (f *FallbackSource) IndustryBoards(ctx context.Context) ([]model.BoardQuote, error) {
	var out []model.BoardQuote
	err := f.each(func(s Source) error {
		b, err := s.IndustryBoards(ctx)
		out = b
		return err
	})
	return out, err
}

func (f *FallbackSource) BoardMembers(ctx context.Context, boardCode string) ([]model.Quote, error) {
	var out []model.Quote
	err := f.each(func(s Source) error {
		q, err := s.BoardMembers(ctx, boardCode)
		out = q
		return err
	})
	return out, err
}

func (f *FallbackSource) LimitUpPool(ctx context.Context, date string) ([]model.LimitStock, error) {
	var out []model.LimitStock
	err := f.each(func(s Source) error {
		p, err := s.LimitUpPool(ctx, date)
		out = p
		return err
	})
	return out, err
}

func (f *FallbackSource) LimitDownPool(ctx context.Context, date string) ([]model.LimitStock, error) {
	var out []model.LimitStock
	err := f.each(func(s Source) error {
		p, err := s.LimitDownPool(ctx, date)
		out = p
		return err
	})
	return out, err
}

func (f *FallbackSource) NorthFlow(ctx context.Context) (*model.NorthFlow, error) {
	var out *model.NorthFlow
	err := f.each(func(s Source) error {
		nf, err := s.NorthFlow(ctx)
		out = nf
		return err
	})
	return out, err
}

func (f *FallbackSource) FundFlow(ctx context.Context, code string) (*model.FundFlow, error) {
	var out *model.FundFlow
	err := f.each(func(s Source) error {
		ff, err := s.FundFlow(ctx, code)
		out = ff
		return err
	})
	return out, err
}
