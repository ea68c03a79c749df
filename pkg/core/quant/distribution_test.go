package quant

import (
	"math"
	"testing"
	"time"
)

func seriesFrom(values []float64) []PEPoint {
	// Most recent first, matching the production ordering.
	points := make([]PEPoint, len(values))
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		points[i] = PEPoint{Time: base.AddDate(0, 0, -i), PETrailing: v}
	}
	return points
}

func TestPEDistributionStatsKnownSeries(t *testing.T) {
	// Values 2,4,4,4,5,5,7,9 (current = 12 prepended): textbook series with
	// mean 5 and population std 2 for the 8-element tail.
	stats, err := PEDistributionStats(seriesFrom([]float64{12, 2, 4, 4, 4, 5, 5, 7, 9}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Count != 9 {
		t.Errorf("Expected count 9, got %d", stats.Count)
	}
	// mean = (12+2+4+4+4+5+5+7+9)/9 = 52/9 = 5.777... -> 5.8
	if stats.CurrentPE != 12.0 {
		t.Errorf("Expected current 12.0, got %f", stats.CurrentPE)
	}
	if stats.Mean != 5.8 {
		t.Errorf("Expected mean 5.8, got %f", stats.Mean)
	}
	if stats.Median != 5.0 {
		t.Errorf("Expected median 5.0, got %f", stats.Median)
	}
	if stats.Min != 2.0 || stats.Max != 12.0 || stats.Range != 10.0 {
		t.Errorf("Expected min/max/range 2/12/10, got %f/%f/%f", stats.Min, stats.Max, stats.Range)
	}
	// sample variance = sum((x-52/9)^2)/8 = 9.444 -> 9.4, std = 3.073 -> 3.1
	if stats.Variance != 9.4 {
		t.Errorf("Expected variance 9.4, got %f", stats.Variance)
	}
	if stats.Std != 3.1 {
		t.Errorf("Expected std 3.1, got %f", stats.Std)
	}
	// Current value is the maximum: rank 9/9 = 100%.
	if stats.CurrentPercentile != 100.0 {
		t.Errorf("Expected percentile rank 100, got %f", stats.CurrentPercentile)
	}
	// z = (12 - 5.8) / 3.1 = 2.0
	if stats.CurrentZScore != 2.0 {
		t.Errorf("Expected z-score 2.0, got %f", stats.CurrentZScore)
	}
	// CV = 3.1 / 5.8 = 0.534 -> 0.5
	if stats.CoefficientOfVariation != 0.5 {
		t.Errorf("Expected CV 0.5, got %f", stats.CoefficientOfVariation)
	}
	if stats.HasMA200 {
		t.Error("MA200 should not be set for 9 observations")
	}
}

func TestPEDistributionPercentileInterpolation(t *testing.T) {
	// 1..5: p75 with linear interpolation = 1 + 0.75*4 = 4.0
	stats, err := PEDistributionStats(seriesFrom([]float64{1, 2, 3, 4, 5}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Percentiles[75] != 4.0 {
		t.Errorf("Expected p75 4.0, got %f", stats.Percentiles[75])
	}
	if stats.Percentiles[50] != 3.0 {
		t.Errorf("Expected p50 3.0, got %f", stats.Percentiles[50])
	}
	// IQR = p75 - p25 = 4 - 2 = 2; thresholds q1-2*iqr=-2, q3+2*iqr=8
	if stats.IQR != 2.0 {
		t.Errorf("Expected IQR 2.0, got %f", stats.IQR)
	}
	if stats.OutlierLowerThreshold != -2.0 || stats.OutlierUpperThreshold != 8.0 {
		t.Errorf("Expected outlier thresholds -2/8, got %f/%f",
			stats.OutlierLowerThreshold, stats.OutlierUpperThreshold)
	}
}

func TestPercentileRankMonotonic(t *testing.T) {
	history := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}

	rankFor := func(current float64) float64 {
		stats, err := PEDistributionStats(seriesFrom(append([]float64{current}, history...)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return stats.CurrentPercentile
	}

	prev := rankFor(9.0)
	for _, current := range []float64{11.5, 14.2, 17.9, 25.0} {
		rank := rankFor(current)
		if rank <= prev {
			t.Errorf("Percentile rank not monotonic: %f -> %f for current %f", prev, rank, current)
		}
		prev = rank
	}
}

func TestPEDistributionStatsSkipsNaNAndInf(t *testing.T) {
	stats, err := PEDistributionStats(seriesFrom([]float64{
		10, math.NaN(), math.Inf(1), 20, math.Inf(-1), 30,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Count != 3 {
		t.Errorf("Expected 3 valid observations, got %d", stats.Count)
	}
	if stats.Mean != 20.0 {
		t.Errorf("Expected mean 20.0, got %f", stats.Mean)
	}
}

func TestPEDistributionStatsEmptyAndAllInvalid(t *testing.T) {
	if _, err := PEDistributionStats(nil); err == nil {
		t.Error("Expected error for empty series")
	}
	if _, err := PEDistributionStats(seriesFrom([]float64{math.NaN(), math.Inf(1)})); err == nil {
		t.Error("Expected error when no valid observations remain")
	}
}

func TestPEDistributionStatsMA200(t *testing.T) {
	values := make([]float64, 250)
	for i := range values {
		values[i] = 10.0 // flat series
	}
	values[0] = 12.0 // current
	stats, err := PEDistributionStats(seriesFrom(values))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stats.HasMA200 {
		t.Fatal("Expected MA200 for 250 observations")
	}
	// MA over the first 200 values = (12 + 199*10)/200 = 10.01 -> 10.0
	if stats.MA200 != 10.0 {
		t.Errorf("Expected MA200 10.0, got %f", stats.MA200)
	}
	// deviation = (12 - 10.01)/10.01*100 = 19.88 -> 19.9
	if math.Abs(stats.DeviationFromMA200-19.9) > 0.0001 {
		t.Errorf("Expected deviation 19.9, got %f", stats.DeviationFromMA200)
	}
}

func TestDistributionMapOmitsNonFinite(t *testing.T) {
	// Constant series: std = 0 so the z-score is undefined.
	stats, err := PEDistributionStats(seriesFrom([]float64{5, 5, 5, 5}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := stats.Map()
	if _, ok := m["current_z_score"]; ok {
		t.Error("z-score should be omitted for a zero-std series")
	}
	if _, ok := m["coefficient_of_variation"]; !ok {
		t.Error("CV should be present for a nonzero mean")
	}
	if m["count"] != 4 {
		t.Errorf("Expected count 4 in map, got %v", m["count"])
	}
}
