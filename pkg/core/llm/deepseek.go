package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"goldenkey/pkg/core/config"
)

// DeepSeekProvider talks to the DeepSeek chat completions API over plain HTTP.
type DeepSeekProvider struct{}

var _ Provider = (*DeepSeekProvider)(nil)

type deepSeekRequest struct {
	Messages       []chatMessage  `json:"messages"`
	Model          string         `json:"model"`
	MaxTokens      int            `json:"max_tokens"`
	ResponseFormat responseFormat `json:"response_format"`
	Stream         bool           `json:"stream"`
	Temperature    float64        `json:"temperature"`
	TopP           float64        `json:"top_p"`
}

type chatMessage struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type deepSeekResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *DeepSeekProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	apiKey, ok := options["api_key"].(string)
	if !ok || apiKey == "" {
		apiKey = config.APIKey("DEEPSEEK_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("DEEPSEEK_API_KEY not configured (secrets.json, environment, or config.json)")
	}

	model := "deepseek-chat"
	if val, ok := options["model"].(string); ok && val != "" {
		model = val
	}

	format := "text"
	if val, ok := options["response_format"].(map[string]interface{}); ok {
		if val["type"] == "json_object" {
			format = "json_object"
		}
	}

	temperature := 0.1
	if val, ok := options["temperature"].(float64); ok {
		temperature = val
	}

	reqBody := deepSeekRequest{
		Messages: []chatMessage{
			{Content: systemPrompt, Role: "system"},
			{Content: prompt, Role: "user"},
		},
		Model:          model,
		MaxTokens:      4096,
		ResponseFormat: responseFormat{Type: format},
		Stream:         false,
		Temperature:    temperature,
		TopP:           1.0,
	}

	jsonBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal deepseek request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.deepseek.com/chat/completions", bytes.NewBuffer(jsonBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create deepseek request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepseek call failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read deepseek response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("deepseek API error: status=%d body=%s", res.StatusCode, string(body))
	}

	var response deepSeekResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to decode deepseek response: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("deepseek returned no choices: %s", string(body))
	}

	return response.Choices[0].Message.Content, nil
}

func (p *DeepSeekProvider) AdaptInstructions(raw string) string {
	return raw
}
