package quant

import (
	"math"
	"testing"
	"time"

	"goldenkey/pkg/core/marketdata"
)

func dailyCandles(start time.Time, closes []float64) []marketdata.Candle {
	candles := make([]marketdata.Candle, len(closes))
	for i, c := range closes {
		candles[i] = marketdata.Candle{Time: start.AddDate(0, 0, i), Close: c}
	}
	return candles
}

func TestComputePETrailingJoin(t *testing.T) {
	// Five quarters of EPS 500 each: TTM EPS = 2000 from 2023Q4 onward.
	ratios := []marketdata.RatioRow{
		{Year: 2023, Quarter: 1, EPS: 500},
		{Year: 2023, Quarter: 2, EPS: 500},
		{Year: 2023, Quarter: 3, EPS: 500},
		{Year: 2023, Quarter: 4, EPS: 500},
		{Year: 2024, Quarter: 1, EPS: 500},
	}
	// Two bars in 2024Q1: close 40 (thousand VND).
	candles := dailyCandles(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), []float64{40, 40})

	points := ComputePETrailing(candles, ratios)
	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(points))
	}
	// PE = 40 * 1000 / 2000 = 20
	if points[0].PETrailing != 20.0 {
		t.Errorf("Expected trailing PE 20.0, got %f", points[0].PETrailing)
	}
	if points[0].EPSTTM != 2000.0 {
		t.Errorf("Expected TTM EPS 2000, got %f", points[0].EPSTTM)
	}
	// Most recent first.
	if !points[0].Time.After(points[1].Time) {
		t.Error("Expected points ordered most recent first")
	}
}

func TestComputePETrailingBackfillsCurrentQuarter(t *testing.T) {
	ratios := []marketdata.RatioRow{
		{Year: 2023, Quarter: 2, EPS: 400},
		{Year: 2023, Quarter: 3, EPS: 400},
		{Year: 2023, Quarter: 4, EPS: 400},
		{Year: 2024, Quarter: 1, EPS: 800}, // TTM = 2000
	}
	// One bar in 2024Q1 (EPS published) and one in 2024Q2 (not yet published).
	candles := []marketdata.Candle{
		{Time: time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC), Close: 30},
		{Time: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Close: 30},
	}

	points := ComputePETrailing(candles, ratios)
	// The Q2 bar (most recent) borrows Q1's TTM EPS.
	if points[0].EPSTTM != 2000.0 {
		t.Errorf("Expected borrowed TTM EPS 2000, got %f", points[0].EPSTTM)
	}
	if points[0].PETrailing != 15.0 {
		t.Errorf("Expected trailing PE 15.0, got %f", points[0].PETrailing)
	}
}

func TestComputePETrailingInsufficientQuarters(t *testing.T) {
	// Fewer than four quarters of EPS: no TTM anywhere, PE is NaN.
	ratios := []marketdata.RatioRow{
		{Year: 2024, Quarter: 1, EPS: 500},
		{Year: 2024, Quarter: 2, EPS: 500},
	}
	candles := dailyCandles(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), []float64{40})

	points := ComputePETrailing(candles, ratios)
	if !math.IsNaN(points[0].PETrailing) {
		t.Errorf("Expected NaN trailing PE, got %f", points[0].PETrailing)
	}
}

func TestLatestAccessorsEmpty(t *testing.T) {
	if !math.IsNaN(LatestPE(nil)) || !math.IsNaN(LatestClose(nil)) || !math.IsNaN(LatestEPSTTM(nil)) {
		t.Error("Expected NaN accessors on an empty series")
	}
}
