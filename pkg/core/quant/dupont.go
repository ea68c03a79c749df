package quant

import (
	"math"
	"sort"

	"goldenkey/pkg/core/marketdata"
)

// DuPontRow is one quarter of the TTM DuPont decomposition:
// ROE = profit margin x asset turnover x equity multiplier.
type DuPontRow struct {
	Year             int     `json:"year"`
	Quarter          int     `json:"quarter"`
	ProfitMargin     float64 `json:"profit_margin"`     // %
	AssetTurnover    float64 `json:"asset_turnover"`    // x
	EquityMultiplier float64 `json:"equity_multiplier"` // x
	ROE              float64 `json:"roe"`               // %
}

// ComputeRollingDuPont inner-joins quarterly income and balance rows on
// (year, quarter) and computes the trailing-twelve-month decomposition:
// rolling 4-quarter sums for revenue and net income, rolling 4-quarter
// means for total assets and equity. Windows shorter than four quarters use
// whatever periods exist, mirroring the min-periods-1 convention upstream.
//
// Non-finite components collapse to zero; results are rounded to two
// decimals and returned most recent quarter first.
func ComputeRollingDuPont(income []marketdata.IncomeRow, balance []marketdata.BalanceRow) []DuPontRow {
	balanceByQuarter := make(map[marketdata.QuarterKey]marketdata.BalanceRow, len(balance))
	for _, b := range balance {
		balanceByQuarter[marketdata.QuarterKey{Year: b.Year, Quarter: b.Quarter}] = b
	}

	type joined struct {
		key       marketdata.QuarterKey
		revenue   float64
		netIncome float64
		assets    float64
		equity    float64
	}
	rows := make([]joined, 0, len(income))
	for _, in := range income {
		key := marketdata.QuarterKey{Year: in.Year, Quarter: in.Quarter}
		b, ok := balanceByQuarter[key]
		if !ok {
			continue
		}
		rows = append(rows, joined{
			key:       key,
			revenue:   finiteOrZero(in.NetRevenue),
			netIncome: finiteOrZero(in.NetIncomeParent),
			assets:    finiteOrZero(b.TotalAssets),
			equity:    finiteOrZero(b.Equity),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].key.Before(rows[j].key) })

	out := make([]DuPontRow, 0, len(rows))
	for i := range rows {
		lo := i - 3
		if lo < 0 {
			lo = 0
		}
		window := rows[lo : i+1]

		var revTTM, niTTM, assetSum, equitySum float64
		for _, w := range window {
			revTTM += w.revenue
			niTTM += w.netIncome
			assetSum += w.assets
			equitySum += w.equity
		}
		wn := float64(len(window))
		avgAssets := assetSum / wn
		avgEquity := equitySum / wn

		pm := niTTM / revTTM * 100
		at := revTTM / avgAssets
		em := avgAssets / avgEquity
		roe := pm / 100 * at * em * 100

		out = append(out, DuPontRow{
			Year:             rows[i].key.Year,
			Quarter:          rows[i].key.Quarter,
			ProfitMargin:     round2(finiteOrZero(pm)),
			AssetTurnover:    round2(finiteOrZero(at)),
			EquityMultiplier: round2(finiteOrZero(em)),
			ROE:              round2(finiteOrZero(roe)),
		})
	}

	// Most recent quarter first for display and prompt embedding.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
