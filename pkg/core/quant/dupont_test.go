package quant

import (
	"math"
	"testing"

	"goldenkey/pkg/core/marketdata"
)

func quarterlyFinancials(n int, revenue, netIncome, assets, equity float64) ([]marketdata.IncomeRow, []marketdata.BalanceRow) {
	income := make([]marketdata.IncomeRow, 0, n)
	balance := make([]marketdata.BalanceRow, 0, n)
	year, quarter := 2022, 1
	for i := 0; i < n; i++ {
		income = append(income, marketdata.IncomeRow{
			Year: year, Quarter: quarter,
			NetRevenue: revenue, NetIncomeParent: netIncome,
		})
		balance = append(balance, marketdata.BalanceRow{
			Year: year, Quarter: quarter,
			TotalAssets: assets, Equity: equity,
		})
		quarter++
		if quarter > 4 {
			quarter, year = 1, year+1
		}
	}
	return income, balance
}

func TestRollingDuPontSteadyState(t *testing.T) {
	// 100 revenue / 10 net income per quarter, 400 assets, 200 equity.
	// TTM: revenue 400, NI 40, avg assets 400, avg equity 200.
	// pm = 10%, at = 1.0, em = 2.0, roe = 20%.
	income, balance := quarterlyFinancials(8, 100, 10, 400, 200)
	rows := ComputeRollingDuPont(income, balance)
	if len(rows) != 8 {
		t.Fatalf("Expected 8 rows, got %d", len(rows))
	}

	latest := rows[0]
	if latest.Year != 2023 || latest.Quarter != 4 {
		t.Errorf("Expected latest row 2023Q4, got %dQ%d", latest.Year, latest.Quarter)
	}
	if latest.ProfitMargin != 10.0 {
		t.Errorf("Expected profit margin 10.0, got %f", latest.ProfitMargin)
	}
	if latest.AssetTurnover != 1.0 {
		t.Errorf("Expected asset turnover 1.0, got %f", latest.AssetTurnover)
	}
	if latest.EquityMultiplier != 2.0 {
		t.Errorf("Expected equity multiplier 2.0, got %f", latest.EquityMultiplier)
	}
	if latest.ROE != 20.0 {
		t.Errorf("Expected ROE 20.0, got %f", latest.ROE)
	}
}

func TestRollingDuPontIdentity(t *testing.T) {
	// Varying inputs: the identity roe = pm/100 * at * em * 100 must hold on
	// every row with a full 4-quarter window, to rounding tolerance.
	income, balance := quarterlyFinancials(12, 100, 10, 400, 200)
	for i := range income {
		income[i].NetRevenue += float64(i) * 7
		income[i].NetIncomeParent += float64(i) * 1.3
		balance[i].TotalAssets += float64(i) * 11
		balance[i].Equity += float64(i) * 5
	}

	rows := ComputeRollingDuPont(income, balance)
	for _, r := range rows[:len(rows)-3] { // rows with >= 4 prior periods
		want := r.ProfitMargin / 100 * r.AssetTurnover * r.EquityMultiplier * 100
		if math.Abs(r.ROE-want) > 0.5 {
			t.Errorf("%dQ%d: DuPont identity broken: roe=%f want~%f",
				r.Year, r.Quarter, r.ROE, want)
		}
	}
}

func TestRollingDuPontShortWindow(t *testing.T) {
	// A single quarter still produces a row (min periods 1).
	income, balance := quarterlyFinancials(1, 100, 10, 400, 200)
	rows := ComputeRollingDuPont(income, balance)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].ROE != 20.0 {
		t.Errorf("Expected ROE 20.0, got %f", rows[0].ROE)
	}
}

func TestRollingDuPontZeroAndMissingData(t *testing.T) {
	// An all-zero equity column makes the multiplier undefined; it must
	// collapse to zero, never panic.
	income, balance := quarterlyFinancials(6, 100, 10, 400, 0)
	rows := ComputeRollingDuPont(income, balance)
	for _, r := range rows {
		if math.IsNaN(r.EquityMultiplier) || math.IsInf(r.EquityMultiplier, 0) {
			t.Errorf("Expected finite equity multiplier, got %f", r.EquityMultiplier)
		}
		if r.EquityMultiplier != 0 {
			t.Errorf("Expected zero equity multiplier, got %f", r.EquityMultiplier)
		}
	}

	// Quarters missing from the balance sheet are dropped by the inner join.
	income2, balance2 := quarterlyFinancials(6, 100, 10, 400, 200)
	balance2 = balance2[:3]
	rows2 := ComputeRollingDuPont(income2, balance2)
	if len(rows2) != 3 {
		t.Errorf("Expected 3 joined rows, got %d", len(rows2))
	}
}
