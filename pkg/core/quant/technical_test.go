package quant

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"goldenkey/pkg/core/marketdata"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	sma := SMA(values, 3)
	if !math.IsNaN(sma[1]) {
		t.Error("Expected NaN before the window fills")
	}
	if sma[2] != 2.0 || sma[4] != 4.0 {
		t.Errorf("Expected SMA 2.0/4.0, got %f/%f", sma[2], sma[4])
	}
}

func TestRSIExtremes(t *testing.T) {
	// Strictly rising closes: RSI pegs at 100.
	up := make([]float64, 30)
	for i := range up {
		up[i] = float64(10 + i)
	}
	rsi := RSI(up, 14)
	if rsi[29] != 100.0 {
		t.Errorf("Expected RSI 100 for monotonic gains, got %f", rsi[29])
	}

	// Strictly falling closes: RSI at 0.
	down := make([]float64, 30)
	for i := range down {
		down[i] = float64(100 - i)
	}
	rsi = RSI(down, 14)
	if math.Abs(rsi[29]) > 0.0001 {
		t.Errorf("Expected RSI 0 for monotonic losses, got %f", rsi[29])
	}
}

func TestMACDFlatSeries(t *testing.T) {
	flat := make([]float64, 60)
	for i := range flat {
		flat[i] = 50
	}
	macd, signal, hist := MACD(flat, 12, 26, 9)
	if macd[59] != 0 || signal[59] != 0 || hist[59] != 0 {
		t.Errorf("Expected zero MACD on a flat series, got %f/%f/%f",
			macd[59], signal[59], hist[59])
	}
}

func TestATRConstantRange(t *testing.T) {
	n := 40
	high := make([]float64, n)
	low := make([]float64, n)
	close := make([]float64, n)
	for i := 0; i < n; i++ {
		high[i], low[i], close[i] = 12, 10, 11
	}
	atr := ATR(high, low, close, 14)
	// True range is 2 every bar, so the smoothed ATR is exactly 2.
	if math.Abs(atr[n-1]-2.0) > 0.0001 {
		t.Errorf("Expected ATR 2.0, got %f", atr[n-1])
	}
}

func TestOBVAccumulation(t *testing.T) {
	close := []float64{10, 11, 10, 10, 12}
	volume := []float64{0, 100, 50, 30, 200}
	obv := OBV(close, volume)
	// +100 -50 +0 +200 = 250
	if obv[4] != 250 {
		t.Errorf("Expected OBV 250, got %f", obv[4])
	}
}

func TestComputeTechnicalSnapshotEmpty(t *testing.T) {
	snap := ComputeTechnicalSnapshot(nil)
	if snap.DataQuality["price_data_points"] != 0 {
		t.Errorf("Expected 0 data points, got %v", snap.DataQuality["price_data_points"])
	}
	if snap.Summary["latest_close"] != 0.0 {
		t.Errorf("Expected zero latest close, got %v", snap.Summary["latest_close"])
	}
}

// Fewer than 20 bars leaves no dynamic support/resistance window; the
// snapshot must omit those levels and still be serializable.
func TestComputeTechnicalSnapshotShortHistory(t *testing.T) {
	base := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	candles := make([]marketdata.Candle, 0, 10)
	for i := 0; i < 10; i++ {
		candles = append(candles, marketdata.Candle{
			Time: base.AddDate(0, 0, i),
			Open: 40, High: 41, Low: 39, Close: 40, Volume: 1000,
		})
	}

	snap := ComputeTechnicalSnapshot(candles)
	if snap.SupportResist["dynamic_support"] != nil {
		t.Errorf("Expected nil dynamic_support with 10 bars, got %v", snap.SupportResist["dynamic_support"])
	}
	if snap.SupportResist["dynamic_resistance"] != nil {
		t.Errorf("Expected nil dynamic_resistance with 10 bars, got %v", snap.SupportResist["dynamic_resistance"])
	}
	if _, err := json.Marshal(snap); err != nil {
		t.Fatalf("snapshot must serialize with a short history: %v", err)
	}
}

func TestComputeTechnicalSnapshot(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]marketdata.Candle, 0, 60)
	for i := 0; i < 60; i++ {
		price := 20 + 0.1*float64(i)
		candles = append(candles, marketdata.Candle{
			Time:   base.AddDate(0, 0, i),
			Open:   price - 0.2,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: 1000 + float64(i),
		})
	}

	snap := ComputeTechnicalSnapshot(candles)

	if snap.DataQuality["price_data_points"] != 60 {
		t.Errorf("Expected 60 data points, got %v", snap.DataQuality["price_data_points"])
	}
	// 60 of 200 bars -> completeness 0.3
	if snap.DataQuality["completeness_score"] != 0.3 {
		t.Errorf("Expected completeness 0.3, got %v", snap.DataQuality["completeness_score"])
	}
	if snap.Summary["latest_close"] != 25.9 {
		t.Errorf("Expected latest close 25.9, got %v", snap.Summary["latest_close"])
	}
	// A steady uptrend keeps price above MA20 and OBV rising.
	if snap.VolumeAnalysis["OBV_trend"] != "Up" {
		t.Errorf("Expected OBV trend Up, got %v", snap.VolumeAnalysis["OBV_trend"])
	}
	pvsma, ok := snap.MovingAverages["price_vs_MA20_pct"].(float64)
	if !ok || pvsma <= 0 {
		t.Errorf("Expected positive price_vs_MA20_pct, got %v", snap.MovingAverages["price_vs_MA20_pct"])
	}
	// MA200 requires 200 bars.
	if snap.MovingAverages["MA200"] != nil {
		t.Errorf("Expected nil MA200 with 60 bars, got %v", snap.MovingAverages["MA200"])
	}
	// Fibonacci swing bounds come from the last 50 closes.
	fib := snap.Fibonacci
	if fib["swing_high"] != 25.9 {
		t.Errorf("Expected swing high 25.9, got %v", fib["swing_high"])
	}
}
