package analysts

import (
	"context"
	"fmt"

	"goldenkey/pkg/models"
)

// Advisor plays the CIO: it weighs the three analyst reports against each
// other and commits to a final rating, target and entry strategy.
type Advisor struct {
	Executor PromptExecutor
}

const advisorRole = "advisor"

// Aggregate prompts the model with all three reports. Missing reports are
// passed as empty objects so a partial run still produces a decision.
func (a *Advisor) Aggregate(ctx context.Context, symbol string, fundamental, technical, peValuation *models.AnalysisResponse) (*models.AggregationResult, error) {
	userPrompt, systemPrompt, err := renderPrompt(advisorRole, map[string]interface{}{
		"Symbol":          symbol,
		"FundamentalJSON": reportJSON(fundamental),
		"TechnicalJSON":   reportJSON(technical),
		"PEValuationJSON": reportJSON(peValuation),
	})
	if err != nil {
		return nil, err
	}

	raw, err := a.Executor.ExecutePrompt(ctx, advisorRole, userPrompt, systemPrompt, jsonOptions())
	if err != nil {
		return nil, fmt.Errorf("advisor aggregation call failed for %s: %w", symbol, err)
	}

	return parseAdvisorResponse(raw), nil
}

func reportJSON(r *models.AnalysisResponse) string {
	if r == nil || r.Content == nil {
		return "{}"
	}
	return compactJSON(r.Content)
}

func parseAdvisorResponse(raw string) *models.AggregationResult {
	content := map[string]interface{}{}
	if _, err := decodeReport(raw, &content); err != nil {
		return &models.AggregationResult{
			OverallRating: "PARSE_ERROR",
			Rationale:     fmt.Sprintf("Lỗi phân tích JSON: %v", err),
			RawContent:    map[string]interface{}{"raw": raw},
		}
	}

	result := &models.AggregationResult{
		OverallRating:   stringOr(content["overall_rating"], "HOLD"),
		TargetPrice:     asFloat(content["target_price"], 0),
		ConfidenceLevel: asFloat(content["confidence_level"], 0.5),
		TimeHorizon:     stringOr(content["time_horizon"], "6M"),
		Rationale:       sanitizeNarrative(stringOr(content["rationale"], "")),
		RiskFactors:     stringSlice(content["risk_factors"]),
		KeyHighlights:   stringSlice(content["key_highlights"]),
		InvestmentScore: asFloat(content["investment_score"], 50),
		RawContent:      content,
	}
	return result
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func stringSlice(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
