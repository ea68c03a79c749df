// Package prompt holds the prompt library for the analyst agents. Roles ship
// with built-in templates (see RegisterBuiltins) and can be overridden by
// JSON files loaded from a resources directory at startup.
package prompt

import (
	"bytes"
	"fmt"
	"text/template"
)

// PromptTemplate is one reusable prompt: a fixed system prompt plus a Go
// text/template for the user message.
type PromptTemplate struct {
	ID             string           `json:"id"` // e.g. "analysis.fundamental"
	Name           string           `json:"name"`
	Category       string           `json:"category"` // "analysis" for the agent roles
	Description    string           `json:"description"`
	SystemPrompt   string           `json:"system_prompt"`
	UserPromptTmpl string           `json:"user_prompt_template"`
	Variables      []PromptVariable `json:"variables"`
	Version        string           `json:"version"`
}

// PromptVariable documents one template variable.
type PromptVariable struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Default     string `json:"default"`
}

// PromptExecutionContext carries the variable values for one render.
type PromptExecutionContext struct {
	Variables map[string]interface{}
}

// NewContext creates an empty execution context.
func NewContext() *PromptExecutionContext {
	return &PromptExecutionContext{Variables: make(map[string]interface{})}
}

// Set adds a variable and returns the context for chaining.
func (c *PromptExecutionContext) Set(key string, value interface{}) *PromptExecutionContext {
	c.Variables[key] = value
	return c
}

// RenderUserPrompt executes the template's user prompt with the context
// variables. An empty template renders to the empty string.
func RenderUserPrompt(pt *PromptTemplate, ctx *PromptExecutionContext) (string, error) {
	if pt.UserPromptTmpl == "" {
		return "", nil
	}

	tmpl, err := template.New(pt.ID).Parse(pt.UserPromptTmpl)
	if err != nil {
		return "", fmt.Errorf("parse prompt template %s: %w", pt.ID, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ctx.Variables); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", pt.ID, err)
	}
	return buf.String(), nil
}
