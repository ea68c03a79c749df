package analysts

import (
	"context"
	"fmt"
	"math"
	"time"

	"goldenkey/pkg/core/quant"
	"goldenkey/pkg/models"
)

// PEValuationAnalyst prices the symbol off its own trailing P/E history:
// the distribution statistics anchor the bull/neutral/bear scenarios.
type PEValuationAnalyst struct {
	Executor PromptExecutor
}

const valuationRole = "pe"

// historyLimit caps the daily P/E rows embedded in the prompt.
const historyLimit = 1200

// historyYears is how far back the daily price history reaches.
const historyYears = 5

// Analyze computes the trailing P/E series and its distribution, prompts the
// model, and parses its JSON valuation report.
func (a *PEValuationAnalyst) Analyze(ctx context.Context, mctx models.MarketContext, ds DataSource) (*models.AnalysisResponse, error) {
	points, err := a.peHistory(ctx, mctx, ds)
	if err != nil {
		return nil, err
	}

	stats, err := quant.PEDistributionStats(points)
	if err != nil {
		return nil, fmt.Errorf("cannot build P/E distribution for %s: %w", mctx.Symbol, err)
	}

	latestPE := quant.LatestPE(points)
	latestPrice := quant.LatestClose(points)
	if mctx.CurrentPrice > 0 {
		latestPrice = mctx.CurrentPrice
	}

	userPrompt, systemPrompt, err := renderPrompt(valuationRole, map[string]interface{}{
		"Symbol":        mctx.Symbol,
		"LatestPrice":   formatNumber(latestPrice),
		"LatestPE":      formatNumber(latestPE),
		"DistStatsJSON": compactJSON(stats.Map()),
		"HistoryJSON":   compactJSON(peRecords(points, historyLimit)),
	})
	if err != nil {
		return nil, err
	}

	raw, err := a.Executor.ExecutePrompt(ctx, valuationRole, userPrompt, systemPrompt, jsonOptions())
	if err != nil {
		return nil, fmt.Errorf("pe valuation call failed for %s: %w", mctx.Symbol, err)
	}

	return parsePEResponse(raw), nil
}

func (a *PEValuationAnalyst) peHistory(ctx context.Context, mctx models.MarketContext, ds DataSource) ([]quant.PEPoint, error) {
	end := time.Now()
	start := end.AddDate(-historyYears, 0, 0)
	candles, err := ds.QuoteHistory(ctx, start.Format("2006-01-02"), end.Format("2006-01-02"), "1D")
	if err != nil {
		return nil, fmt.Errorf("failed to load price history for %s: %w", mctx.Symbol, err)
	}
	ratios, err := ds.Ratios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratios for %s: %w", mctx.Symbol, err)
	}
	return quant.ComputePETrailing(candles, ratios), nil
}

// peRecords flattens points into time/close/PE rows for the prompt,
// skipping rows whose P/E never resolved.
func peRecords(points []quant.PEPoint, limit int) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, limit)
	for _, p := range points {
		if len(out) >= limit {
			break
		}
		if math.IsNaN(p.PETrailing) || math.IsInf(p.PETrailing, 0) {
			continue
		}
		out = append(out, map[string]interface{}{
			"time":        p.Time.Format("2006-01-02"),
			"close":       p.Close,
			"pe_trailing": p.PETrailing,
		})
	}
	return out
}

func parsePEResponse(raw string) *models.AnalysisResponse {
	var report models.PEValuationReport
	content, err := decodeReport(raw, &report)
	if err != nil {
		return parseErrorResponse(err, raw)
	}

	confidence := report.ReliabilityScore
	if confidence == 0 {
		confidence = 50
	}

	return &models.AnalysisResponse{
		Recommendation:  report.StrategyRecommendation.Action,
		ConfidenceLevel: confidence,
		DataQuality:     report.DataQuality.SampleSize,
		KeyPoints:       report.KeyHighlights,
		Concerns:        report.RiskFactors,
		Content:         content,
	}
}

func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "null"
	}
	return fmt.Sprintf("%g", v)
}
