package symbols

import (
	"context"
	"fmt"
	"strings"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// SnapshotSource provides the realtime spot table the "all" universe
// is built from.
type SnapshotSource interface {
	Snapshot(ctx context.Context) ([]model.Quote, error)
}

// Loader handles loading stock code lists from various universes
type Loader struct {
	source    SnapshotSource
	watchlist []string
}

// NewLoader creates a new symbol loader
func NewLoader(src SnapshotSource, watchlist []string) *Loader {
	return &Loader{source: src, watchlist: watchlist}
}

// Load resolves a universe into a concrete stock list.
func (l *Loader) Load(ctx context.Context, u Universe) ([]model.Stock, error) {
	switch u {
	case UniverseAll:
		return l.loadAll(ctx)
	case UniverseBluechip:
		return BluechipStocks(), nil
	case UniverseWatchlist:
		if len(l.watchlist) == 0 {
			return nil, fmt.Errorf("watchlist is empty, add codes under watch.codes in the config file")
		}
		return LoadCodes(l.watchlist)
	default:
		return nil, fmt.Errorf("unknown universe %q", u)
	}
}

// loadAll pulls the whole A-share spot table and keeps rows with a
// well-formed six digit code.
func (l *Loader) loadAll(ctx context.Context) ([]model.Stock, error) {
	quotes, err := l.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load spot table: %w", err)
	}

	stocks := make([]model.Stock, 0, len(quotes))
	for _, q := range quotes {
		if !IsValidCode(q.Code) {
			continue
		}
		stocks = append(stocks, model.Stock{Code: q.Code, Name: q.Name})
	}

	if len(stocks) == 0 {
		return nil, fmt.Errorf("spot table returned no usable codes")
	}
	return stocks, nil
}

// LoadCodes normalizes user-supplied codes. Names stay empty until a
// quote fills them in.
func LoadCodes(codes []string) ([]model.Stock, error) {
	stocks := make([]model.Stock, 0, len(codes))
	for _, raw := range codes {
		code, err := NormalizeCode(raw)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, model.Stock{Code: code})
	}
	return stocks, nil
}

// NormalizeCode strips common exchange prefixes and suffixes
// (sh600519, 600519.SH) and validates the remaining six digits.
func NormalizeCode(raw string) (string, error) {
	code := strings.TrimSpace(raw)

	lower := strings.ToLower(code)
	for _, prefix := range []string{"sh", "sz", "bj"} {
		if strings.HasPrefix(lower, prefix) {
			code = code[len(prefix):]
			break
		}
	}

	upper := strings.ToUpper(code)
	for _, suffix := range []string{".SH", ".SZ", ".BJ"} {
		if strings.HasSuffix(upper, suffix) {
			code = code[:len(code)-len(suffix)]
			break
		}
	}

	if !IsValidCode(code) {
		return "", fmt.Errorf("invalid stock code %q, expected six digits like 600519", raw)
	}
	return code, nil
}

// IsValidCode checks if a code is a six digit A-share code
func IsValidCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
