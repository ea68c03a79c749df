// Package analyze provides the HTTP handlers for the analyst endpoints:
// per-agent analysis, the comprehensive fan-out, and the no-AI overview.
package analyze

import (
	"encoding/json"
	"net/http"
	"strings"

	"goldenkey/pkg/core/analysts"
	"goldenkey/pkg/core/marketdata"
	"goldenkey/pkg/core/pipeline"
	"goldenkey/pkg/core/store"
	"goldenkey/pkg/models"
)

// Handler holds the orchestrator and the individual agents so single-agent
// endpoints don't pay for the full fan-out.
type Handler struct {
	Orchestrator *pipeline.Orchestrator
	Fundamental  *analysts.FundamentalAnalyst
	Technical    *analysts.TechnicalAnalyst
	Valuation    *analysts.PEValuationAnalyst
	Repo         store.AnalysisRepository // optional, enables /api/report
}

// NewHandler wires the agents to the same executor the orchestrator uses.
func NewHandler(orchestrator *pipeline.Orchestrator, executor analysts.PromptExecutor) *Handler {
	return &Handler{
		Orchestrator: orchestrator,
		Fundamental:  &analysts.FundamentalAnalyst{Executor: executor},
		Technical:    &analysts.TechnicalAnalyst{Executor: executor},
		Valuation:    &analysts.PEValuationAnalyst{Executor: executor},
	}
}

// AnalyzeRequest is the body for the POST analysis endpoints.
type AnalyzeRequest struct {
	Symbol string `json:"symbol"`
}

// HandleFundamental handles POST /api/analyze/fundamental
func (h *Handler) HandleFundamental(w http.ResponseWriter, r *http.Request) {
	h.runSingle(w, r, func(r *http.Request, mctx models.MarketContext, ds analysts.DataSource) (interface{}, error) {
		return h.Fundamental.Analyze(r.Context(), mctx, ds)
	})
}

// HandleTechnical handles POST /api/analyze/technical
func (h *Handler) HandleTechnical(w http.ResponseWriter, r *http.Request) {
	h.runSingle(w, r, func(r *http.Request, mctx models.MarketContext, ds analysts.DataSource) (interface{}, error) {
		return h.Technical.Analyze(r.Context(), mctx, ds)
	})
}

// HandlePE handles POST /api/analyze/pe
func (h *Handler) HandlePE(w http.ResponseWriter, r *http.Request) {
	h.runSingle(w, r, func(r *http.Request, mctx models.MarketContext, ds analysts.DataSource) (interface{}, error) {
		return h.Valuation.Analyze(r.Context(), mctx, ds)
	})
}

// HandleComprehensive handles POST /api/analyze/comprehensive: three agents
// in parallel plus the CIO advisor.
func (h *Handler) HandleComprehensive(w http.ResponseWriter, r *http.Request) {
	symbol, ok := h.decodeSymbol(w, r)
	if !ok {
		return
	}

	report, err := h.Orchestrator.RunForSymbol(r.Context(), symbol)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, report)
}

// HandleOverview handles GET /api/overview?symbol=FPT — the quantitative
// summary with no model calls.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		http.Error(w, "symbol query parameter is required", http.StatusBadRequest)
		return
	}

	overview, err := h.Orchestrator.QuickOverview(r.Context(), symbol)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, overview)
}

// HandleReport handles GET /api/report?symbol=FPT — the last stored
// comprehensive report.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.Repo == nil {
		http.Error(w, "report storage not configured", http.StatusServiceUnavailable)
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("symbol")))
	if symbol == "" {
		http.Error(w, "symbol query parameter is required", http.StatusBadRequest)
		return
	}

	report, err := h.Repo.LoadReport(r.Context(), symbol)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, report)
}

// HandleReports handles GET /api/reports — the symbols with a stored
// report, most recently analyzed first.
func (h *Handler) HandleReports(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.Repo == nil {
		http.Error(w, "report storage not configured", http.StatusServiceUnavailable)
		return
	}

	symbols, err := h.Repo.ListSymbols(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	writeJSON(w, map[string]interface{}{"symbols": symbols})
}

func (h *Handler) runSingle(w http.ResponseWriter, r *http.Request, run func(*http.Request, models.MarketContext, analysts.DataSource) (interface{}, error)) {
	symbol, ok := h.decodeSymbol(w, r)
	if !ok {
		return
	}

	mctx := models.NewMarketContext(symbol, 0)
	ds := marketdata.NewClient(mctx.Symbol)

	result, err := run(r, mctx, ds)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

// decodeSymbol applies CORS, method and body validation shared by the POST
// endpoints. Returns ok=false when the response has already been written.
func (h *Handler) decodeSymbol(w http.ResponseWriter, r *http.Request) (string, bool) {
	setCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return "", false
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return "", false
	}
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return "", false
	}
	return symbol, true
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
