package prompt

import (
	"fmt"
	"sync"
)

// Registry is the in-process prompt store. One process uses one registry.
type Registry struct {
	mu      sync.RWMutex
	prompts map[string]*PromptTemplate
}

var (
	globalRegistry *Registry
	once           sync.Once
)

// Get returns the global registry.
func Get() *Registry {
	once.Do(func() {
		globalRegistry = &Registry{prompts: make(map[string]*PromptTemplate)}
	})
	return globalRegistry
}

// Register adds or replaces a prompt template.
func (r *Registry) Register(pt *PromptTemplate) error {
	if pt.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts[pt.ID] = pt
	return nil
}

// GetPrompt retrieves a prompt by ID.
func (r *Registry) GetPrompt(id string) (*PromptTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.prompts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("prompt not found: %s", id)
}

// GetSystemPrompt returns only the system prompt string for an ID.
func (r *Registry) GetSystemPrompt(id string) (string, error) {
	pt, err := r.GetPrompt(id)
	if err != nil {
		return "", err
	}
	return pt.SystemPrompt, nil
}

// Count returns the number of registered prompts.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prompts)
}
