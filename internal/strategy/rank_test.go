package strategy

import (
	"math"
	"testing"
)

func TestPercentileRankAscending(t *testing.T) {
	got := percentileRank([]float64{10, 20, 20, 30}, true)
	want := []float64{0.25, 0.625, 0.625, 1.0}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank[%d]: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestPercentileRankDescending(t *testing.T) {
	got := percentileRank([]float64{10, 20, 20, 30}, false)
	want := []float64{1.0, 0.625, 0.625, 0.25}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank[%d]: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestPercentileRankNaN(t *testing.T) {
	got := percentileRank([]float64{10, math.NaN(), 30}, true)

	if got[0] != 0.5 {
		t.Errorf("Expected 0.5 for smallest of two ranked values, got %f", got[0])
	}
	if got[1] != 0 {
		t.Errorf("Expected NaN input to rank zero, got %f", got[1])
	}
	if got[2] != 1.0 {
		t.Errorf("Expected 1.0 for largest value, got %f", got[2])
	}
}

func TestPercentileRankEmpty(t *testing.T) {
	if got := percentileRank(nil, true); len(got) != 0 {
		t.Errorf("Expected empty output, got %d entries", len(got))
	}

	got := percentileRank([]float64{math.NaN()}, true)
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("Expected single zero rank for all-NaN input, got %v", got)
	}
}

func TestMedianOf(t *testing.T) {
	if got := medianOf([]float64{3, 1, 2}); got != 2 {
		t.Errorf("Expected median 2, got %f", got)
	}
	if got := medianOf([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("Expected median 2.5, got %f", got)
	}
	if got := medianOf([]float64{1, math.NaN(), 3}); got != 2 {
		t.Errorf("Expected NaN skipped in median, got %f", got)
	}
	if got := medianOf([]float64{math.NaN()}); !math.IsNaN(got) {
		t.Errorf("Expected NaN median for all-NaN input, got %f", got)
	}
}
