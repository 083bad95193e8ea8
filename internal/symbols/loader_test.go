package symbols

import (
	"context"
	"errors"
	"testing"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

type fakeSnapshot struct {
	quotes []model.Quote
	err    error
	calls  int
}

func (f *fakeSnapshot) Snapshot(ctx context.Context) ([]model.Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"600519", "600519", false},
		{" 600519 ", "600519", false},
		{"sh600519", "600519", false},
		{"SZ000001", "000001", false},
		{"bj871981", "871981", false},
		{"600519.SH", "600519", false},
		{"000001.sz", "000001", false},
		{"sh600519.SH", "600519", false},
		{"60051", "", true},
		{"6005190", "", true},
		{"abc123", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := NormalizeCode(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("NormalizeCode(%q): expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeCode(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeCode(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestIsValidCode(t *testing.T) {
	valid := []string{"600519", "000001", "300750", "688981"}
	for _, code := range valid {
		if !IsValidCode(code) {
			t.Errorf("Expected %q to be valid", code)
		}
	}

	invalid := []string{"", "60051", "6005190", "60051a", "600 19"}
	for _, code := range invalid {
		if IsValidCode(code) {
			t.Errorf("Expected %q to be invalid", code)
		}
	}
}

func TestParseUniverse(t *testing.T) {
	for _, s := range []string{"all", "bluechip", "watchlist"} {
		u, err := ParseUniverse(s)
		if err != nil {
			t.Errorf("ParseUniverse(%q): unexpected error: %v", s, err)
		}
		if string(u) != s {
			t.Errorf("ParseUniverse(%q): expected %q, got %q", s, s, u)
		}
	}

	if _, err := ParseUniverse("hot"); err == nil {
		t.Error("Expected error for unknown universe")
	}
}

func TestBluechipStocks(t *testing.T) {
	stocks := BluechipStocks()
	if len(stocks) == 0 {
		t.Fatal("Expected non-empty bluechip universe")
	}

	seen := make(map[string]bool)
	for _, s := range stocks {
		if !IsValidCode(s.Code) {
			t.Errorf("Invalid bluechip code %q", s.Code)
		}
		if s.Name == "" {
			t.Errorf("Bluechip %s has empty name", s.Code)
		}
		if seen[s.Code] {
			t.Errorf("Duplicate bluechip code %q", s.Code)
		}
		seen[s.Code] = true
	}
}

func TestLoadAll(t *testing.T) {
	src := &fakeSnapshot{quotes: []model.Quote{
		{Code: "600519", Name: "贵州茅台"},
		{Code: "000001", Name: "平安银行"},
		{Code: "BK0475", Name: "银行板块"}, // not a stock code, dropped
	}}

	loader := NewLoader(src, nil)
	stocks, err := loader.Load(context.Background(), UniverseAll)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(stocks) != 2 {
		t.Fatalf("Expected 2 stocks, got %d", len(stocks))
	}
	if stocks[0].Code != "600519" || stocks[0].Name != "贵州茅台" {
		t.Errorf("Unexpected first stock: %+v", stocks[0])
	}
}

func TestLoadAllError(t *testing.T) {
	src := &fakeSnapshot{err: errors.New("network down")}
	loader := NewLoader(src, nil)

	if _, err := loader.Load(context.Background(), UniverseAll); err == nil {
		t.Error("Expected error when snapshot fails")
	}
}

func TestLoadBluechipSkipsSource(t *testing.T) {
	src := &fakeSnapshot{err: errors.New("should not be called")}
	loader := NewLoader(src, nil)

	stocks, err := loader.Load(context.Background(), UniverseBluechip)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(stocks) == 0 {
		t.Error("Expected bluechip stocks")
	}
	if src.calls != 0 {
		t.Errorf("Expected no snapshot calls, got %d", src.calls)
	}
}

func TestLoadWatchlist(t *testing.T) {
	loader := NewLoader(&fakeSnapshot{}, []string{"sh600519", "000001.SZ"})

	stocks, err := loader.Load(context.Background(), UniverseWatchlist)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(stocks) != 2 {
		t.Fatalf("Expected 2 stocks, got %d", len(stocks))
	}
	if stocks[0].Code != "600519" {
		t.Errorf("Expected normalized code 600519, got %q", stocks[0].Code)
	}
	if stocks[1].Code != "000001" {
		t.Errorf("Expected normalized code 000001, got %q", stocks[1].Code)
	}
}

func TestLoadEmptyWatchlist(t *testing.T) {
	loader := NewLoader(&fakeSnapshot{}, nil)

	if _, err := loader.Load(context.Background(), UniverseWatchlist); err == nil {
		t.Error("Expected error for empty watchlist")
	}
}

func TestLoadWatchlistBadCode(t *testing.T) {
	loader := NewLoader(&fakeSnapshot{}, []string{"600519", "notacode"})

	if _, err := loader.Load(context.Background(), UniverseWatchlist); err == nil {
		t.Error("Expected error for malformed watchlist code")
	}
}
