package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"goldenkey/pkg/core/analysts"
	"goldenkey/pkg/core/marketdata"
	"goldenkey/pkg/core/prompt"
	"goldenkey/pkg/models"
)

type roleExecutor struct {
	responses map[string]string
}

func (r *roleExecutor) ExecutePrompt(_ context.Context, agentType, _, _ string, _ map[string]interface{}) (string, error) {
	resp, ok := r.responses[agentType]
	if !ok {
		return "", fmt.Errorf("no canned response for role %s", agentType)
	}
	return resp, nil
}

type stubSource struct {
	candles  []marketdata.Candle
	ratios   []marketdata.RatioRow
	income   []marketdata.IncomeRow
	balance  []marketdata.BalanceRow
	cashflow []marketdata.CashFlowRow
}

func (s *stubSource) QuoteHistory(context.Context, string, string, string) ([]marketdata.Candle, error) {
	return s.candles, nil
}
func (s *stubSource) Ratios(context.Context) ([]marketdata.RatioRow, error) { return s.ratios, nil }
func (s *stubSource) IncomeStatements(context.Context) ([]marketdata.IncomeRow, error) {
	return s.income, nil
}
func (s *stubSource) BalanceSheets(context.Context) ([]marketdata.BalanceRow, error) {
	return s.balance, nil
}
func (s *stubSource) CashFlows(context.Context) ([]marketdata.CashFlowRow, error) {
	return s.cashflow, nil
}

type captureRepo struct {
	saved []*models.ComprehensiveReport
}

func (c *captureRepo) SaveReport(_ context.Context, r *models.ComprehensiveReport) error {
	c.saved = append(c.saved, r)
	return nil
}
func (c *captureRepo) LoadReport(context.Context, string) (*models.ComprehensiveReport, error) {
	return nil, fmt.Errorf("not found")
}
func (c *captureRepo) ListSymbols(context.Context) ([]string, error) { return nil, nil }

func stubSourceFixture() *stubSource {
	s := &stubSource{}
	quarters := []struct{ y, q int }{{2023, 1}, {2023, 2}, {2023, 3}, {2023, 4}, {2024, 1}}
	for _, k := range quarters {
		s.ratios = append(s.ratios, marketdata.RatioRow{Symbol: "FPT", Year: k.y, Quarter: k.q, EPS: 500})
		s.income = append(s.income, marketdata.IncomeRow{Symbol: "FPT", Year: k.y, Quarter: k.q, NetRevenue: 100, NetIncomeParent: 10})
		s.balance = append(s.balance, marketdata.BalanceRow{Symbol: "FPT", Year: k.y, Quarter: k.q, TotalAssets: 400, Equity: 200})
	}
	for d := 0; d < 30; d++ {
		s.candles = append(s.candles, marketdata.Candle{
			Time: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d),
			Open: 40, High: 41, Low: 39, Close: 40, Volume: 1000,
		})
	}
	return s
}

const minimalFundamental = `{"strategy_recommendation":{"action":"BUY"},"key_highlights":["a"],"risk_factors":["b"],"data_quality":{"completeness":90,"confidence_level":"Cao"}}`

const minimalTechnical = `{"strategy_recommendation":{"action":"HOLD"},"investment_scores":{"reliability_score":60},"key_highlights":["a"],"risk_factors":["b"],"data_quality":{"completeness":60,"confidence_level":"Trung bình"}}`

const minimalPE = `{"strategy_recommendation":{"action":"BUY"},"reliability_score":70,"key_highlights":["a"],"risk_factors":["b"],"data_quality":{"sample_size":30,"confidence_level":"Cao"}}`

const minimalAdvisor = `{"overall_rating":"BUY","target_price":45,"confidence_level":0.8,"time_horizon":"6M","rationale":"đồng thuận","investment_score":72}`

func newTestOrchestrator() (*Orchestrator, *captureRepo) {
	prompt.RegisterBuiltins()
	exec := &roleExecutor{responses: map[string]string{
		"fundamental": minimalFundamental,
		"technical":   minimalTechnical,
		"pe":          minimalPE,
		"advisor":     minimalAdvisor,
	}}
	o := NewOrchestrator(exec)
	o.SetDataSourceFactory(func(string) analysts.DataSource { return stubSourceFixture() })
	repo := &captureRepo{}
	o.SetRepository(repo)
	return o, repo
}

func TestRunForSymbolProducesFullReport(t *testing.T) {
	o, repo := newTestOrchestrator()

	report, err := o.RunForSymbol(context.Background(), "fpt")
	if err != nil {
		t.Fatalf("RunForSymbol: %v", err)
	}

	if report.Symbol != "FPT" {
		t.Errorf("symbol = %q", report.Symbol)
	}
	if report.RunID == "" {
		t.Error("run id should be set")
	}
	if report.Fundamental == nil || report.Technical == nil || report.PEValuation == nil {
		t.Fatalf("all three analyst reports expected: %+v", report)
	}
	if report.Fundamental.Recommendation != "BUY" {
		t.Errorf("fundamental recommendation = %q", report.Fundamental.Recommendation)
	}
	if report.Advisor == nil || report.Advisor.OverallRating != "BUY" {
		t.Errorf("advisor = %+v", report.Advisor)
	}
	if len(repo.saved) != 1 {
		t.Errorf("report should be persisted once, got %d", len(repo.saved))
	}
}

func TestRunForSymbolSurvivesAdvisorGarbage(t *testing.T) {
	o, _ := newTestOrchestrator()
	o.advisor = &analysts.Advisor{Executor: &roleExecutor{responses: map[string]string{"advisor": "không có"}}}

	report, err := o.RunForSymbol(context.Background(), "FPT")
	if err != nil {
		t.Fatalf("RunForSymbol: %v", err)
	}
	if report.Advisor == nil || report.Advisor.OverallRating != "PARSE_ERROR" {
		t.Errorf("advisor = %+v, want PARSE_ERROR passthrough", report.Advisor)
	}
}

func TestRunBatchTruncatesAndCollects(t *testing.T) {
	o, repo := newTestOrchestrator()

	symbols := make([]string, 25)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("SYM%02d", i)
	}

	reports, failures := o.RunBatch(context.Background(), symbols)
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if len(reports) != maxBatchSymbols {
		t.Errorf("reports = %d, want batch cap %d", len(reports), maxBatchSymbols)
	}
	if len(repo.saved) != maxBatchSymbols {
		t.Errorf("persisted = %d, want %d", len(repo.saved), maxBatchSymbols)
	}
}

func TestQuickOverviewNoModelCalls(t *testing.T) {
	prompt.RegisterBuiltins()
	o := NewOrchestrator(&roleExecutor{responses: map[string]string{}})
	o.SetDataSourceFactory(func(string) analysts.DataSource { return stubSourceFixture() })

	overview, err := o.QuickOverview(context.Background(), "FPT")
	if err != nil {
		t.Fatalf("QuickOverview: %v", err)
	}
	if overview.LatestPE == nil || *overview.LatestPE != 20 {
		t.Errorf("latest PE = %v, want 20", overview.LatestPE)
	}
	if overview.LatestPrice == nil || *overview.LatestPrice != 40 {
		t.Errorf("latest price = %v", overview.LatestPrice)
	}
	if len(overview.DuPont) != 5 {
		t.Errorf("dupont rows = %d, want 5", len(overview.DuPont))
	}
	if overview.Technical == nil {
		t.Error("technical snapshot missing")
	}
	if overview.Distribution == nil {
		t.Error("distribution stats missing")
	}
}

// A listing with fewer than four reported quarters has no TTM EPS, so the
// P/E series is empty. The overview must still serialize cleanly.
func TestQuickOverviewYoungListingMarshals(t *testing.T) {
	prompt.RegisterBuiltins()
	s := &stubSource{}
	for _, k := range []struct{ y, q int }{{2024, 1}, {2024, 2}} {
		s.ratios = append(s.ratios, marketdata.RatioRow{Symbol: "NEW", Year: k.y, Quarter: k.q, EPS: 500})
		s.income = append(s.income, marketdata.IncomeRow{Symbol: "NEW", Year: k.y, Quarter: k.q, NetRevenue: 100, NetIncomeParent: 10})
		s.balance = append(s.balance, marketdata.BalanceRow{Symbol: "NEW", Year: k.y, Quarter: k.q, TotalAssets: 400, Equity: 200})
	}
	for d := 0; d < 10; d++ {
		s.candles = append(s.candles, marketdata.Candle{
			Time: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d),
			Open: 40, High: 41, Low: 39, Close: 40, Volume: 1000,
		})
	}

	o := NewOrchestrator(&roleExecutor{responses: map[string]string{}})
	o.SetDataSourceFactory(func(string) analysts.DataSource { return s })

	overview, err := o.QuickOverview(context.Background(), "NEW")
	if err != nil {
		t.Fatalf("QuickOverview: %v", err)
	}
	if overview.LatestPE != nil {
		t.Errorf("latest PE = %v, want omitted for 2-quarter listing", *overview.LatestPE)
	}
	if overview.LatestPrice == nil || *overview.LatestPrice != 40 {
		t.Errorf("latest price = %v, want candle close fallback 40", overview.LatestPrice)
	}
	if _, err := json.Marshal(overview); err != nil {
		t.Fatalf("overview must serialize for young listings: %v", err)
	}
}
