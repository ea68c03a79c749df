package agent

import (
	"context"
	"fmt"
	"sort"

	"goldenkey/pkg/core/llm"
)

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider"` // Optional override
	Model       string `yaml:"model"`    // Optional model override
	Description string `yaml:"description"`
}

// Manager routes each analyst agent to its configured LLM backend.
type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini":        &llm.GeminiProvider{},
			"gemini-legacy": &llm.GeminiLegacyProvider{},
			"deepseek":      &llm.DeepSeekProvider{},
		},
	}
}

func (m *Manager) GetProvider(agentType string) llm.Provider {
	// 1. Check for agent-specific override
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
	}

	// 2. Use global active provider
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}

	// 3. Fallback
	return m.providers["gemini"]
}

// ProviderNames lists the registered backend names, sorted.
func (m *Manager) ProviderNames() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExecutePrompt handles instruction adaptation before sending to the model.
func (m *Manager) ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(agentType)

	if options == nil {
		options = map[string]interface{}{}
	}
	if _, ok := options["model"]; !ok {
		if agentConfig, exists := m.config.Agents[agentType]; exists && agentConfig.Model != "" {
			options["model"] = agentConfig.Model
		}
	}

	adaptedSystemPrompt := provider.AdaptInstructions(rawSystemPrompt)

	return provider.GenerateResponse(ctx, rawPrompt, adaptedSystemPrompt, options)
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	fmt.Printf("Global provider set to: %s\n", newProvider)
	return nil
}

func (m *Manager) GetActiveProvider() string {
	return m.config.ActiveProvider
}
