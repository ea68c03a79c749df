package quant

import (
	"fmt"
	"math"
	"sort"
)

// DistributionPercentiles is the fixed percentile ladder reported to the
// valuation analyst.
var DistributionPercentiles = []int{25, 30, 40, 50, 60, 70, 75, 80, 90, 95, 99}

// DistributionStats describes the historical trailing P/E distribution.
// Every figure is rounded to one decimal. Fields that cannot be computed
// (e.g. the z-score of a NaN current value) are NaN and omitted from Map().
type DistributionStats struct {
	CurrentPE float64 `json:"current_pe"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	Std       float64 `json:"std"`
	Variance  float64 `json:"var"`
	Skewness  float64 `json:"skewness"`
	Kurtosis  float64 `json:"kurtosis"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Range     float64 `json:"range"`

	Percentiles       map[int]float64 `json:"percentiles"`
	CurrentPercentile float64         `json:"current_percentile"`

	IQR                   float64 `json:"iqr"`
	OutlierLowerThreshold float64 `json:"outlier_lower_threshold"`
	OutlierUpperThreshold float64 `json:"outlier_upper_threshold"`

	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	CurrentZScore          float64 `json:"current_z_score"`

	// Set only when at least 200 observations exist.
	MA200              float64 `json:"ma200"`
	DeviationFromMA200 float64 `json:"deviation_from_ma200"`
	HasMA200           bool    `json:"-"`
}

// PEDistributionStats computes descriptive statistics over a trailing P/E
// series ordered most recent first. NaN and infinite values are dropped
// before anything is computed; an entirely empty series is an error, not a
// panic.
func PEDistributionStats(points []PEPoint) (*DistributionStats, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("empty trailing P/E series")
	}

	values := make([]float64, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.PETrailing) || math.IsInf(p.PETrailing, 0) {
			continue
		}
		values = append(values, p.PETrailing)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no valid trailing P/E observations")
	}

	current := values[0]
	n := float64(len(values))

	mean := meanOf(values)
	variance := sampleVariance(values, mean)
	std := math.Sqrt(variance)
	minV, maxV := minMax(values)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	stats := &DistributionStats{
		CurrentPE:   round1(current),
		Count:       len(values),
		Mean:        round1(mean),
		Median:      round1(percentileSorted(sorted, 50)),
		Std:         round1(std),
		Variance:    round1(variance),
		Skewness:    round1(populationSkewness(values, mean)),
		Kurtosis:    round1(excessKurtosis(values, mean)),
		Min:         round1(minV),
		Max:         round1(maxV),
		Range:       round1(maxV - minV),
		Percentiles: make(map[int]float64, len(DistributionPercentiles)),
	}

	for _, p := range DistributionPercentiles {
		stats.Percentiles[p] = round1(percentileSorted(sorted, float64(p)))
	}

	// Percentile rank of the current value: fraction at or below it.
	atOrBelow := 0
	for _, v := range values {
		if v <= current {
			atOrBelow++
		}
	}
	stats.CurrentPercentile = round1(float64(atOrBelow) / n * 100)

	q1, q3 := stats.Percentiles[25], stats.Percentiles[75]
	iqr := q3 - q1
	stats.IQR = round1(iqr)
	stats.OutlierLowerThreshold = round1(q1 - 2*iqr)
	stats.OutlierUpperThreshold = round1(q3 + 2*iqr)

	if stats.Mean != 0 {
		stats.CoefficientOfVariation = round1(stats.Std / stats.Mean)
	} else {
		stats.CoefficientOfVariation = math.Inf(1)
	}

	if stats.Std != 0 {
		stats.CurrentZScore = round1((current - stats.Mean) / stats.Std)
	} else {
		stats.CurrentZScore = math.NaN()
	}

	if len(values) >= 200 {
		ma200 := meanOf(values[:200])
		stats.MA200 = round1(ma200)
		stats.HasMA200 = true
		if ma200 != 0 {
			stats.DeviationFromMA200 = round1((current - ma200) / ma200 * 100)
		}
	}

	return stats, nil
}

// Map renders the stats as a flat key->value mapping for prompt embedding,
// skipping NaN and infinite entries so the result always serializes.
func (s *DistributionStats) Map() map[string]interface{} {
	m := map[string]interface{}{"count": s.Count}
	put := func(key string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
		m[key] = v
	}
	put("current_pe", s.CurrentPE)
	put("mean", s.Mean)
	put("median", s.Median)
	put("std", s.Std)
	put("var", s.Variance)
	put("skewness", s.Skewness)
	put("kurtosis", s.Kurtosis)
	put("min", s.Min)
	put("max", s.Max)
	put("range", s.Range)
	for _, p := range DistributionPercentiles {
		put(fmt.Sprintf("percentile_%d", p), s.Percentiles[p])
	}
	put("current_percentile", s.CurrentPercentile)
	put("iqr", s.IQR)
	put("outlier_lower_threshold", s.OutlierLowerThreshold)
	put("outlier_upper_threshold", s.OutlierUpperThreshold)
	put("coefficient_of_variation", s.CoefficientOfVariation)
	put("current_z_score", s.CurrentZScore)
	if s.HasMA200 {
		put("ma200", s.MA200)
		put("deviation_from_ma200", s.DeviationFromMA200)
	}
	return m
}

// percentileSorted interpolates the p-th percentile (0..100) over an
// ascending slice, matching the linear interpolation convention of the
// reference statistics packages.
func percentileSorted(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleVariance uses the n-1 denominator, like the reference packages.
func sampleVariance(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return ss / float64(len(values)-1)
}

// populationSkewness is the biased g1 = m3 / m2^1.5 estimator.
func populationSkewness(values []float64, mean float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return math.NaN()
	}
	m2, m3 := 0.0, 0.0
	for _, v := range values {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return 0
	}
	return m3 / math.Pow(m2, 1.5)
}

// excessKurtosis is the biased Fisher estimator g2 = m4 / m2^2 - 3.
func excessKurtosis(values []float64, mean float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return math.NaN()
	}
	m2, m4 := 0.0, 0.0
	for _, v := range values {
		d := v - mean
		m2 += d * d
		m4 += d * d * d * d
	}
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return 0
	}
	return m4/(m2*m2) - 3
}

func minMax(values []float64) (float64, float64) {
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	return minV, maxV
}

func round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}
