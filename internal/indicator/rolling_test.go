package indicator

import (
	"math"
	"testing"
)

func TestRollingMax(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	assertSeries(t, "max3", RollingMax(values, 3),
		[]float64{nan, nan, 4, 4, 5, 9, 9, 9})
}

func TestRollingMin(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	assertSeries(t, "min3", RollingMin(values, 3),
		[]float64{nan, nan, 1, 1, 1, 1, 2, 2})
}

func TestRollingMinMaxWindowOne(t *testing.T) {
	values := []float64{2, 7, 1}
	assertSeries(t, "max1", RollingMax(values, 1), values)
	assertSeries(t, "min1", RollingMin(values, 1), values)
}

func TestRollingStd(t *testing.T) {
	// {1,2,3} and {2,3,4} each have sample variance 1
	assertSeries(t, "std3", RollingStd([]float64{1, 2, 3, 4}, 3),
		[]float64{nan, nan, 1, 1})
}

func TestRollingStdFlat(t *testing.T) {
	flat := []float64{7, 7, 7, 7, 7}
	got := RollingStd(flat, 3)
	for i := 2; i < len(got); i++ {
		if got[i] != 0 {
			t.Errorf("std3[%d]: expected 0 for flat values, got %v", i, got[i])
		}
	}
}

func TestRollingStdWindowTooSmall(t *testing.T) {
	// sample std needs at least two observations
	for i, v := range RollingStd([]float64{1, 2, 3}, 1) {
		if !math.IsNaN(v) {
			t.Errorf("std1[%d]: expected NaN, got %v", i, v)
		}
	}
}
