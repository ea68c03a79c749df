// Package analysts implements the AI analyst agents: DuPont fundamental,
// trailing P/E valuation, VSA/SEBA technical, and the CIO advisor that
// aggregates the three reports into a final decision.
package analysts

import (
	"context"
	"encoding/json"
	"fmt"

	"goldenkey/pkg/core/marketdata"
	"goldenkey/pkg/core/prompt"
	"goldenkey/pkg/core/utils"
)

// DataSource is the per-symbol market data feed an analyst reads from.
// *marketdata.Client satisfies it.
type DataSource interface {
	QuoteHistory(ctx context.Context, start, end, interval string) ([]marketdata.Candle, error)
	Ratios(ctx context.Context) ([]marketdata.RatioRow, error)
	IncomeStatements(ctx context.Context) ([]marketdata.IncomeRow, error)
	BalanceSheets(ctx context.Context) ([]marketdata.BalanceRow, error)
	CashFlows(ctx context.Context) ([]marketdata.CashFlowRow, error)
}

// PromptExecutor sends a rendered prompt to the configured model backend.
// *agent.Manager satisfies it.
type PromptExecutor interface {
	ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error)
}

// jsonOptions asks the backend for a JSON object response.
func jsonOptions() map[string]interface{} {
	return map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	}
}

// compactJSON marshals v for prompt embedding. Marshal errors collapse to
// an empty object so a bad value degrades the prompt, not the whole run.
func compactJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// sanitizeNarrative strips fence wrappers off a free-text model field and
// drops text that does not parse as Markdown, so report prose renders
// cleanly downstream.
func sanitizeNarrative(s string) string {
	cleaned := utils.CleanMarkdown(s)
	if cleaned == "" || !utils.ValidateMarkdown(cleaned) {
		return ""
	}
	return cleaned
}

// renderPrompt looks up the registered template for the role and fills it.
func renderPrompt(role string, vars map[string]interface{}) (userPrompt, systemPrompt string, err error) {
	pt, err := prompt.GetAnalysisPrompt(role)
	if err != nil {
		return "", "", fmt.Errorf("prompt for %s not registered: %w", role, err)
	}
	ctx := prompt.NewContext()
	for k, v := range vars {
		ctx.Set(k, v)
	}
	user, err := prompt.RenderUserPrompt(pt, ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to render %s prompt: %w", role, err)
	}
	return user, pt.SystemPrompt, nil
}

// confidenceScore maps the model's qualitative confidence label to a score.
func confidenceScore(level string) float64 {
	switch level {
	case "Cao":
		return 80
	case "Trung bình":
		return 50
	default:
		return 20
	}
}

// decodeReport extracts the JSON object from raw model text and decodes it
// twice: into the typed schema and into a generic map for UI passthrough.
func decodeReport(raw string, schema interface{}) (map[string]interface{}, error) {
	if err := utils.DecodeModelJSON(raw, schema); err != nil {
		return nil, err
	}
	content := map[string]interface{}{}
	if err := utils.DecodeModelJSON(raw, &content); err != nil {
		return nil, err
	}
	return content, nil
}

func asFloat(v interface{}, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return fallback
		}
		return f
	default:
		return fallback
	}
}
