// Package quant implements the deterministic numeric transforms behind the
// analysts: trailing P/E construction, P/E distribution statistics, rolling
// DuPont decomposition and the technical indicator pack.
//
// All transforms are pure: given fixed inputs they produce one deterministic
// output. Missing data degrades to NaN or zero, never to a panic.
package quant

import (
	"math"
	"time"

	"goldenkey/pkg/core/marketdata"
)

// PEPoint is one daily trailing P/E observation.
type PEPoint struct {
	Time       time.Time `json:"time"`
	Close      float64   `json:"close"`
	EPSTTM     float64   `json:"eps_ttm"`
	PETrailing float64   `json:"pe_trailing"`
}

// ComputePETrailing joins trailing-twelve-month EPS onto daily price bars.
//
// EPS rows are summed over a rolling 4-quarter window (NaN until 4 quarters
// exist), keyed by (year, quarter) and left-joined onto the bars. Bars whose
// quarter has no published EPS yet borrow the nearest older TTM value, so the
// current quarter always prices off the last reported twelve months.
// Trailing P/E = close x 1000 / EPS_TTM, close being in thousand VND.
//
// The result is ordered most recent first.
func ComputePETrailing(candles []marketdata.Candle, ratios []marketdata.RatioRow) []PEPoint {
	ttm := ttmEPSByQuarter(ratios)

	points := make([]PEPoint, 0, len(candles))
	for _, c := range candles {
		eps := math.NaN()
		if v, ok := ttm[marketdata.QuarterKey{Year: c.Year(), Quarter: c.Quarter()}]; ok {
			eps = v
		}
		points = append(points, PEPoint{Time: c.Time, Close: c.Close, EPSTTM: eps})
	}

	// Most recent first, then backfill: a NaN EPS takes the nearest older value.
	reverseInPlace(points)
	for i := len(points) - 2; i >= 0; i-- {
		if math.IsNaN(points[i].EPSTTM) {
			points[i].EPSTTM = points[i+1].EPSTTM
		}
	}

	for i := range points {
		points[i].PETrailing = points[i].Close * 1000 / points[i].EPSTTM
	}
	return points
}

// ttmEPSByQuarter computes the rolling 4-quarter EPS sum per quarter.
func ttmEPSByQuarter(ratios []marketdata.RatioRow) map[marketdata.QuarterKey]float64 {
	// Ascending chronological order for the rolling window.
	rows := make([]marketdata.RatioRow, len(ratios))
	copy(rows, ratios)
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			ki := marketdata.QuarterKey{Year: rows[i].Year, Quarter: rows[i].Quarter}
			kj := marketdata.QuarterKey{Year: rows[j].Year, Quarter: rows[j].Quarter}
			if kj.Before(ki) {
				rows[i], rows[j] = rows[j], rows[i]
			}
		}
	}

	ttm := make(map[marketdata.QuarterKey]float64, len(rows))
	for i, r := range rows {
		key := marketdata.QuarterKey{Year: r.Year, Quarter: r.Quarter}
		if i < 3 {
			continue // fewer than four quarters, no TTM yet
		}
		sum := 0.0
		for _, prev := range rows[i-3 : i+1] {
			sum += prev.EPS
		}
		ttm[key] = sum
	}
	return ttm
}

// LatestPE returns the most recent trailing P/E, or NaN when unavailable.
func LatestPE(points []PEPoint) float64 {
	if len(points) == 0 {
		return math.NaN()
	}
	return points[0].PETrailing
}

// LatestClose returns the most recent close, or NaN when unavailable.
func LatestClose(points []PEPoint) float64 {
	if len(points) == 0 {
		return math.NaN()
	}
	return points[0].Close
}

// LatestEPSTTM returns the most recent trailing EPS, or NaN when unavailable.
func LatestEPSTTM(points []PEPoint) float64 {
	if len(points) == 0 {
		return math.NaN()
	}
	return points[0].EPSTTM
}

func reverseInPlace(points []PEPoint) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}
