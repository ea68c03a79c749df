package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"goldenkey/pkg/core/config"
)

// GeminiLegacyProvider drives Gemini through the older generative-ai-go SDK.
// Kept as a fallback backend for environments pinned to the pre-GA client.
type GeminiLegacyProvider struct {
	Model string
}

var _ Provider = (*GeminiLegacyProvider)(nil)

func (p *GeminiLegacyProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey, ok := options["api_key"].(string)
	if !ok || apiKey == "" {
		apiKey = config.APIKey("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not configured (secrets.json, environment, or config.json)")
	}

	modelName := p.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if val, ok := options["model"].(string); ok && val != "" {
		modelName = val
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.1)
	if val, ok := options["temperature"].(float64); ok {
		model.SetTemperature(float32(val))
	}
	if val, ok := options["response_format"].(map[string]interface{}); ok {
		if val["type"] == "json_object" {
			model.ResponseMIMEType = "application/json"
		}
	}

	fullPrompt := prompt
	if systemPrompt != "" {
		fullPrompt = fmt.Sprintf("%s\n\nTask: %s", systemPrompt, prompt)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

func (p *GeminiLegacyProvider) AdaptInstructions(raw string) string {
	return raw
}
