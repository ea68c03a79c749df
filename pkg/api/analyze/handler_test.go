package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"goldenkey/pkg/models"
)

type stubRepo struct {
	symbols []string
}

func (s *stubRepo) SaveReport(context.Context, *models.ComprehensiveReport) error { return nil }
func (s *stubRepo) LoadReport(context.Context, string) (*models.ComprehensiveReport, error) {
	return nil, fmt.Errorf("not found")
}
func (s *stubRepo) ListSymbols(context.Context) ([]string, error) { return s.symbols, nil }

func TestHandleReportsListsStoredSymbols(t *testing.T) {
	h := &Handler{Repo: &stubRepo{symbols: []string{"FPT", "VNM"}}}

	rec := httptest.NewRecorder()
	h.HandleReports(rec, httptest.NewRequest("GET", "/api/reports", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Symbols []string `json:"symbols"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Symbols) != 2 || body.Symbols[0] != "FPT" {
		t.Errorf("symbols = %v", body.Symbols)
	}
}

func TestHandleReportsWithoutStorage(t *testing.T) {
	h := &Handler{}

	rec := httptest.NewRecorder()
	h.HandleReports(rec, httptest.NewRequest("GET", "/api/reports", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when storage is not configured", rec.Code)
	}
}
