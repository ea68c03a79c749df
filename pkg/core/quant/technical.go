package quant

import (
	"math"

	"goldenkey/pkg/core/marketdata"
)

// TechnicalSnapshot is the compact indicator pack fed to the technical
// analyst: latest oscillator readings, moving-average ladder, volume flow,
// pivots and Fibonacci levels. Mirrors the provider-agnostic summary the
// dashboard used to show.
type TechnicalSnapshot struct {
	Summary        map[string]interface{} `json:"technical_summary"`
	MovingAverages map[string]interface{} `json:"moving_averages"`
	VolumeAnalysis map[string]interface{} `json:"volume_analysis"`
	SupportResist  map[string]interface{} `json:"support_resistance"`
	Fibonacci      map[string]interface{} `json:"fibonacci"`
	DataQuality    map[string]interface{} `json:"data_quality"`
}

// ComputeTechnicalSnapshot derives the indicator pack from ascending daily
// bars. An empty input yields a zeroed snapshot rather than an error so the
// analyst can still report data quality.
func ComputeTechnicalSnapshot(candles []marketdata.Candle) *TechnicalSnapshot {
	snap := &TechnicalSnapshot{
		Summary:        map[string]interface{}{"latest_close": 0.0},
		MovingAverages: map[string]interface{}{},
		VolumeAnalysis: map[string]interface{}{},
		SupportResist:  map[string]interface{}{},
		Fibonacci:      map[string]interface{}{},
		DataQuality:    map[string]interface{}{"price_data_points": 0, "completeness_score": 0.0},
	}
	if len(candles) == 0 {
		return snap
	}

	n := len(candles)
	close := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	volume := make([]float64, n)
	for i, c := range candles {
		close[i] = c.Close
		high[i] = c.High
		low[i] = c.Low
		volume[i] = c.Volume
	}

	latestClose := close[n-1]
	latestVolume := volume[n-1]

	rsi := RSI(close, 14)
	macd, macdSignal, _ := MACD(close, 12, 26, 9)
	atr := ATR(high, low, close, 14)
	adx := ADX(high, low, close, 14)

	snap.Summary = map[string]interface{}{
		"latest_close": latestClose,
		"RSI14":        lastFinite(rsi, 2),
		"MACD":         lastFinite(macd, 2),
		"SignalMACD":   lastFinite(macdSignal, 2),
		"ATR14":        lastFinite(atr, 2),
		"ADX":          lastFinite(adx, 2),
	}

	ma := func(window int) float64 { return tailMean(close, window) }
	ma20, ma50 := ma(20), ma(50)
	snap.MovingAverages = map[string]interface{}{
		"MA5":   roundIf(ma(5), 2),
		"MA20":  roundIf(ma20, 2),
		"MA50":  roundIf(ma50, 2),
		"MA100": roundIf(ma(100), 2),
		"MA200": roundIf(ma(200), 2),
	}
	if !math.IsNaN(ma20) && ma20 != 0 {
		snap.MovingAverages["price_vs_MA20_pct"] = round2((latestClose/ma20 - 1) * 100)
	}
	if !math.IsNaN(ma50) && ma50 != 0 {
		snap.MovingAverages["price_vs_MA50_pct"] = round2((latestClose/ma50 - 1) * 100)
	}

	volMA20 := tailMean(volume, 20)
	obv := OBV(close, volume)
	snap.VolumeAnalysis = map[string]interface{}{
		"latest_volume": latestVolume,
		"volume_ma20":   roundIf(volMA20, 0),
		"OBV_latest":    obv[n-1],
		"OBV_trend":     obvTrend(obv),
	}
	if !math.IsNaN(volMA20) && volMA20 != 0 {
		snap.VolumeAnalysis["volume_ratio"] = round2(latestVolume / volMA20)
	}

	h, l, c := high[n-1], low[n-1], latestClose
	pivot := round2((2*h + l + c) / 4)
	snap.SupportResist = map[string]interface{}{
		"pivot":              pivot,
		"R1":                 round2(2*pivot - l),
		"S1":                 round2(2*pivot - h),
		"R2":                 round2(pivot + (h - l)),
		"S2":                 round2(pivot - (h - l)),
		"dynamic_support":    roundIf(tailMin(low, 20), 2),
		"dynamic_resistance": roundIf(tailMax(high, 20), 2),
	}

	snap.Fibonacci = fibonacciLevels(close)

	completeness := 1.0
	if n < 200 {
		completeness = round2(float64(n) / 200)
	}
	snap.DataQuality = map[string]interface{}{
		"price_data_points":  n,
		"completeness_score": completeness,
	}
	return snap
}

// SMA returns the simple moving average series; positions with fewer than
// period samples are NaN.
func SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA returns the exponential moving average seeded with the SMA of the
// first period samples.
func EMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)
	out[period-1] = seed
	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}

// RSI computes the Wilder relative strength index.
func RSI(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) <= period {
		return out
	}
	var gain, loss float64
	for i := 1; i <= period; i++ {
		d := values[i] - values[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	out[period] = rsiFrom(avgGain, avgLoss)
	for i := period + 1; i < len(values); i++ {
		d := values[i] - values[i-1]
		g, l := 0.0, 0.0
		if d > 0 {
			g = d
		} else {
			l = -d
		}
		avgGain = (avgGain*float64(period-1) + g) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + l) / float64(period)
		out[i] = rsiFrom(avgGain, avgLoss)
	}
	return out
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD returns the MACD line, signal line and histogram for the standard
// fast/slow/signal EMA configuration.
func MACD(values []float64, fast, slow, signal int) (macd, signalLine, histogram []float64) {
	n := len(values)
	macd, signalLine, histogram = nanSlice(n), nanSlice(n), nanSlice(n)
	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)
	for i := 0; i < n; i++ {
		if !math.IsNaN(fastEMA[i]) && !math.IsNaN(slowEMA[i]) {
			macd[i] = fastEMA[i] - slowEMA[i]
		}
	}
	// Signal line: EMA of the MACD line over its valid region.
	start := -1
	for i, v := range macd {
		if !math.IsNaN(v) {
			start = i
			break
		}
	}
	if start < 0 || n-start < signal {
		return
	}
	sig := EMA(macd[start:], signal)
	for i, v := range sig {
		signalLine[start+i] = v
		if !math.IsNaN(v) && !math.IsNaN(macd[start+i]) {
			histogram[start+i] = macd[start+i] - v
		}
	}
	return
}

// ATR computes the Wilder average true range.
func ATR(high, low, close []float64, period int) []float64 {
	n := len(close)
	out := nanSlice(n)
	if period <= 0 || n <= period {
		return out
	}
	tr := make([]float64, n)
	tr[0] = high[0] - low[0]
	for i := 1; i < n; i++ {
		tr[i] = math.Max(high[i]-low[i],
			math.Max(math.Abs(high[i]-close[i-1]), math.Abs(low[i]-close[i-1])))
	}
	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	out[period] = sum / float64(period)
	for i := period + 1; i < n; i++ {
		out[i] = (out[i-1]*float64(period-1) + tr[i]) / float64(period)
	}
	return out
}

// ADX computes the Wilder average directional index.
func ADX(high, low, close []float64, period int) []float64 {
	n := len(close)
	out := nanSlice(n)
	if period <= 0 || n < 2*period+1 {
		return out
	}

	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)
	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
		tr[i] = math.Max(high[i]-low[i],
			math.Max(math.Abs(high[i]-close[i-1]), math.Abs(low[i]-close[i-1])))
	}

	var smTR, smPlus, smMinus float64
	for i := 1; i <= period; i++ {
		smTR += tr[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}

	dx := nanSlice(n)
	computeDX := func(i int) {
		if smTR == 0 {
			dx[i] = 0
			return
		}
		pdi := smPlus / smTR * 100
		mdi := smMinus / smTR * 100
		if pdi+mdi == 0 {
			dx[i] = 0
			return
		}
		dx[i] = math.Abs(pdi-mdi) / (pdi + mdi) * 100
	}
	computeDX(period)
	for i := period + 1; i < n; i++ {
		smTR = smTR - smTR/float64(period) + tr[i]
		smPlus = smPlus - smPlus/float64(period) + plusDM[i]
		smMinus = smMinus - smMinus/float64(period) + minusDM[i]
		computeDX(i)
	}

	sum := 0.0
	for i := period; i < 2*period; i++ {
		sum += dx[i]
	}
	out[2*period-1] = sum / float64(period)
	for i := 2 * period; i < n; i++ {
		out[i] = (out[i-1]*float64(period-1) + dx[i]) / float64(period)
	}
	return out
}

// OBV computes on-balance volume as the cumulative signed volume flow.
func OBV(close, volume []float64) []float64 {
	out := make([]float64, len(close))
	for i := 1; i < len(close); i++ {
		switch {
		case close[i] > close[i-1]:
			out[i] = out[i-1] + volume[i]
		case close[i] < close[i-1]:
			out[i] = out[i-1] - volume[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// obvTrend labels the 5-bar OBV drift.
func obvTrend(obv []float64) string {
	if len(obv) < 6 {
		return "Flat"
	}
	sum := 0.0
	for i := len(obv) - 5; i < len(obv); i++ {
		sum += obv[i] - obv[i-1]
	}
	if sum > 0 {
		return "Up"
	}
	return "Down"
}

// fibonacciLevels derives retracement and extension levels off the last 50
// closes.
func fibonacciLevels(close []float64) map[string]interface{} {
	window := close
	if len(window) > 50 {
		window = window[len(window)-50:]
	}
	if len(window) == 0 {
		return map[string]interface{}{}
	}
	swingHigh, swingLow := window[0], window[0]
	for _, v := range window[1:] {
		if v > swingHigh {
			swingHigh = v
		}
		if v < swingLow {
			swingLow = v
		}
	}
	span := swingHigh - swingLow
	fib := func(level float64) float64 { return round2(swingLow + span*level) }
	return map[string]interface{}{
		"swing_high": swingHigh,
		"swing_low":  swingLow,
		"23.6":       fib(0.236),
		"38.2":       fib(0.382),
		"50.0":       fib(0.5),
		"61.8":       fib(0.618),
		"78.6":       fib(0.786),
		"127.2_ext":  round2(swingHigh + span*0.272),
		"161.8_ext":  round2(swingHigh + span*0.618),
		"261.8_ext":  round2(swingHigh + span*1.618),
	}
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func tailMean(values []float64, window int) float64 {
	if len(values) < window {
		return math.NaN()
	}
	return meanOf(values[len(values)-window:])
}

func tailMin(values []float64, window int) float64 {
	if len(values) < window {
		return math.NaN()
	}
	minV, _ := minMax(values[len(values)-window:])
	return minV
}

func tailMax(values []float64, window int) float64 {
	if len(values) < window {
		return math.NaN()
	}
	_, maxV := minMax(values[len(values)-window:])
	return maxV
}

// lastFinite pulls the last non-NaN value rounded to the given decimals, or
// nil so JSON renders null like the reference summary.
func lastFinite(values []float64, decimals int) interface{} {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) && !math.IsInf(values[i], 0) {
			scale := math.Pow(10, float64(decimals))
			return math.Round(values[i]*scale) / scale
		}
	}
	return nil
}

func roundIf(v float64, decimals int) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
