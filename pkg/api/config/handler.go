package config

import (
	"encoding/json"
	"fmt"
	"net/http"

	"goldenkey/pkg/core/agent"
	coreconfig "goldenkey/pkg/core/config"
)

type Response struct {
	ActiveProvider string          `json:"active_provider"`
	Available      []string        `json:"available"`
	APIKeys        map[string]bool `json:"api_keys"`
}

type SwitchRequest struct {
	Provider string `json:"provider"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	AgentMgr *agent.Manager
}

// NewHandler creates a new config handler
func NewHandler(agentMgr *agent.Manager) *Handler {
	return &Handler{
		AgentMgr: agentMgr,
	}
}

// HandleConfig reports the active provider and which API keys resolve
// through the secrets/env/config chain. Key values are never echoed.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	resp := Response{
		ActiveProvider: h.AgentMgr.GetActiveProvider(),
		Available:      h.AgentMgr.ProviderNames(),
		APIKeys: map[string]bool{
			"GEMINI_API_KEY":   coreconfig.APIKey("GEMINI_API_KEY") != "",
			"DEEPSEEK_API_KEY": coreconfig.APIKey("DEEPSEEK_API_KEY") != "",
		},
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req SwitchRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err = h.AgentMgr.SetGlobalProvider(req.Provider)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fmt.Fprintf(w, "Success: Switched to %s", req.Provider)
}
