package analysts

import (
	"context"
	"fmt"
	"time"

	"goldenkey/pkg/core/marketdata"
	"goldenkey/pkg/core/quant"
	"goldenkey/pkg/models"
)

// TechnicalAnalyst reads price action through VSA and SEBA: the indicator
// snapshot plus raw bars go into the prompt, the model supplies the read.
type TechnicalAnalyst struct {
	Executor PromptExecutor
}

const technicalRole = "technical"

// promptBars is how many daily bars of raw history the prompt carries.
const promptBars = 200

// Analyze fetches the symbol's daily bars, derives the indicator snapshot,
// prompts the model, and parses its JSON report. Index history, when the
// caller put one under MarketData["index_history"], rides along as market
// background.
func (a *TechnicalAnalyst) Analyze(ctx context.Context, mctx models.MarketContext, ds DataSource) (*models.AnalysisResponse, error) {
	end := time.Now()
	start := end.AddDate(-2, 0, 0)
	candles, err := ds.QuoteHistory(ctx, start.Format("2006-01-02"), end.Format("2006-01-02"), "1D")
	if err != nil {
		return nil, fmt.Errorf("failed to load price history for %s: %w", mctx.Symbol, err)
	}

	snapshot := quant.ComputeTechnicalSnapshot(candles)

	latestPrice := mctx.CurrentPrice
	if latestPrice == 0 && len(candles) > 0 {
		latestPrice = candles[len(candles)-1].Close
	}

	data := map[string]interface{}{
		"symbol":                 mctx.Symbol,
		"latest_price":           latestPrice,
		"timestamp":              mctx.Timestamp.Format("2006-01-02"),
		"price_history":          tailCandles(candles, promptBars),
		"comprehensive_analysis": snapshot,
		"index_history":          indexHistory(mctx),
	}

	userPrompt, systemPrompt, err := renderPrompt(technicalRole, map[string]interface{}{
		"Symbol":      mctx.Symbol,
		"LatestPrice": formatNumber(latestPrice),
		"DataJSON":    compactJSON(data),
	})
	if err != nil {
		return nil, err
	}

	raw, err := a.Executor.ExecutePrompt(ctx, technicalRole, userPrompt, systemPrompt, jsonOptions())
	if err != nil {
		return nil, fmt.Errorf("technical analysis call failed for %s: %w", mctx.Symbol, err)
	}

	return parseTechnicalResponse(raw), nil
}

func tailCandles(candles []marketdata.Candle, n int) []marketdata.Candle {
	if len(candles) > n {
		return candles[len(candles)-n:]
	}
	return candles
}

func indexHistory(mctx models.MarketContext) []marketdata.Candle {
	if mctx.MarketData == nil {
		return nil
	}
	if idx, ok := mctx.MarketData["index_history"].([]marketdata.Candle); ok {
		return tailCandles(idx, promptBars)
	}
	return nil
}

func parseTechnicalResponse(raw string) *models.AnalysisResponse {
	var report models.TechnicalReport
	content, err := decodeReport(raw, &report)
	if err != nil {
		return parseErrorResponse(err, raw)
	}

	return &models.AnalysisResponse{
		Recommendation:  report.StrategyRecommendation.Action,
		ConfidenceLevel: report.InvestmentScores.ReliabilityScore,
		DataQuality:     asFloat(report.DataQuality.Completeness, 50),
		KeyPoints:       report.KeyHighlights,
		Concerns:        report.RiskFactors,
		Content:         content,
	}
}
