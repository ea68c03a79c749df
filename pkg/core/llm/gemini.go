package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"goldenkey/pkg/core/config"
)

// GeminiProvider implements the Provider interface for Google's Gemini models
// via the official GenAI SDK.
type GeminiProvider struct {
	Model string // e.g. "gemini-2.0-flash"
}

var _ Provider = (*GeminiProvider)(nil)

// GenerateResponse sends a generateContent request to the Gemini API.
func (p *GeminiProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey, ok := options["api_key"].(string)
	if !ok || apiKey == "" {
		apiKey = config.APIKey("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not configured (secrets.json, environment, or config.json)")
	}

	model := p.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if val, ok := options["model"].(string); ok && val != "" {
		model = val
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	}
	if val, ok := options["temperature"].(float64); ok {
		genCfg.Temperature = genai.Ptr(float32(val))
	}

	// JSON mode: explicit via options, else a heuristic on the prompts.
	if val, ok := options["response_format"].(map[string]interface{}); ok {
		if val["type"] == "json_object" {
			genCfg.ResponseMIMEType = "application/json"
		}
	} else if strings.Contains(strings.ToLower(systemPrompt), "json") || strings.Contains(strings.ToLower(prompt), "json") {
		genCfg.ResponseMIMEType = "application/json"
	}

	if systemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{
				{Text: systemPrompt},
			},
		}
	}

	result, err := client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(prompt),
		genCfg,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	return result.Text(), nil
}

func (p *GeminiProvider) AdaptInstructions(raw string) string {
	return raw
}
