package analysts

import (
	"context"
	"fmt"

	"goldenkey/pkg/core/marketdata"
	"goldenkey/pkg/core/quant"
	"goldenkey/pkg/models"
)

// FundamentalAnalyst runs the DuPont decomposition over rolling
// four-quarter (TTM) fundamentals and asks the model for a structured read.
type FundamentalAnalyst struct {
	Executor PromptExecutor
}

const fundamentalRole = "fundamental"

// compactQuarters is how many quarters of each statement go into the prompt.
const compactQuarters = 8

// Analyze builds the DuPont dataset for the context's symbol, prompts the
// model, and parses its JSON report. A malformed model response yields a
// PARSE_ERROR result carrying the raw text, never an error.
func (a *FundamentalAnalyst) Analyze(ctx context.Context, mctx models.MarketContext, ds DataSource) (*models.AnalysisResponse, error) {
	data, err := a.compactMarketData(ctx, mctx, ds)
	if err != nil {
		return nil, err
	}

	userPrompt, systemPrompt, err := renderPrompt(fundamentalRole, map[string]interface{}{
		"Symbol":      mctx.Symbol,
		"LatestPrice": fmt.Sprintf("%g", mctx.CurrentPrice),
		"DataJSON":    compactJSON(data),
	})
	if err != nil {
		return nil, err
	}

	raw, err := a.Executor.ExecutePrompt(ctx, fundamentalRole, userPrompt, systemPrompt, jsonOptions())
	if err != nil {
		return nil, fmt.Errorf("fundamental analysis call failed for %s: %w", mctx.Symbol, err)
	}

	return parseFundamentalResponse(raw), nil
}

func (a *FundamentalAnalyst) compactMarketData(ctx context.Context, mctx models.MarketContext, ds DataSource) (map[string]interface{}, error) {
	income, err := ds.IncomeStatements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load income statements for %s: %w", mctx.Symbol, err)
	}
	balance, err := ds.BalanceSheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance sheets for %s: %w", mctx.Symbol, err)
	}
	ratios, err := ds.Ratios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratios for %s: %w", mctx.Symbol, err)
	}
	cashflow, err := ds.CashFlows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cash flows for %s: %w", mctx.Symbol, err)
	}

	dupont := quant.ComputeRollingDuPont(income, balance)

	// The sector profile decides which statement columns the model sees:
	// banks get interest/fee income and loan/deposit lines, corporates get
	// the revenue and working-capital set.
	profile := marketdata.FindIndustryProfile(mctx.Symbol)

	return map[string]interface{}{
		"symbol":            mctx.Symbol,
		"latest_price":      mctx.CurrentPrice,
		"timestamp":         mctx.Timestamp.Format("2006-01-02"),
		"industry":          profile.Name,
		"income_statement":  marketdata.ProjectRows(headRows(income, compactQuarters), profile.IncomeFields),
		"balance_sheet":     marketdata.ProjectRows(headRows(balance, compactQuarters), profile.BalanceFields),
		"ratios":            marketdata.ProjectRows(headRows(ratios, compactQuarters), profile.RatioFields),
		"cash_flow":         marketdata.ProjectRows(headRows(cashflow, compactQuarters), profile.CashFlowFields),
		"dupont_components": headRows(dupont, compactQuarters),
	}, nil
}

func parseFundamentalResponse(raw string) *models.AnalysisResponse {
	var report models.FundamentalReport
	content, err := decodeReport(raw, &report)
	if err != nil {
		return parseErrorResponse(err, raw)
	}
	if insight, ok := content["professional_insight"].(string); ok {
		content["professional_insight"] = sanitizeNarrative(insight)
	}

	return &models.AnalysisResponse{
		Recommendation:  report.StrategyRecommendation.Action,
		ConfidenceLevel: confidenceScore(report.DataQuality.ConfidenceLevel),
		DataQuality:     asFloat(report.DataQuality.Completeness, 50),
		KeyPoints:       report.KeyHighlights,
		Concerns:        report.RiskFactors,
		Content:         content,
	}
}

func parseErrorResponse(err error, raw string) *models.AnalysisResponse {
	return &models.AnalysisResponse{
		Recommendation:  "PARSE_ERROR",
		ConfidenceLevel: 0,
		DataQuality:     0,
		KeyPoints:       []string{fmt.Sprintf("Parse error: %v", err)},
		Concerns:        []string{"Invalid AI response"},
		Content:         map[string]interface{}{"raw": raw},
	}
}

// headRows keeps the most recent n quarters; rows arrive most recent first.
func headRows[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}
