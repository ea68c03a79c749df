package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"goldenkey/pkg/models"
)

// AnalysisRepository persists finished comprehensive reports.
type AnalysisRepository interface {
	SaveReport(ctx context.Context, report *models.ComprehensiveReport) error
	LoadReport(ctx context.Context, symbol string) (*models.ComprehensiveReport, error)
	ListSymbols(ctx context.Context) ([]string, error)
}

// AnalysisRepo is the Postgres-backed repository. One row per symbol, the
// latest run wins.
type AnalysisRepo struct{}

var _ AnalysisRepository = (*AnalysisRepo)(nil)

// NewAnalysisRepo creates a new repository instance.
func NewAnalysisRepo() *AnalysisRepo {
	return &AnalysisRepo{}
}

// SaveReport upserts the report keyed by symbol.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS stock_analysis (
//
//	symbol TEXT PRIMARY KEY,
//	run_id TEXT,
//	report_json JSONB,
//	updated_at TIMESTAMPTZ
//
// );
func (r *AnalysisRepo) SaveReport(ctx context.Context, report *models.ComprehensiveReport) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO stock_analysis (symbol, run_id, report_json, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (symbol)
		DO UPDATE SET
			run_id = EXCLUDED.run_id,
			report_json = EXCLUDED.report_json,
			updated_at = EXCLUDED.updated_at;
	`

	if _, err := pool.Exec(ctx, query, report.Symbol, report.RunID, jsonData, time.Now()); err != nil {
		return fmt.Errorf("failed to save report for %s: %w", report.Symbol, err)
	}
	return nil
}

// LoadReport retrieves the latest stored report for a symbol.
func (r *AnalysisRepo) LoadReport(ctx context.Context, symbol string) (*models.ComprehensiveReport, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var jsonData []byte
	err := pool.QueryRow(ctx, `SELECT report_json FROM stock_analysis WHERE symbol = $1`, symbol).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no report found for symbol %s", symbol)
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report models.ComprehensiveReport
	if err := json.Unmarshal(jsonData, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// ListSymbols returns every symbol with a stored report, most recent first.
func (r *AnalysisRepo) ListSymbols(ctx context.Context) ([]string, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `SELECT symbol FROM stock_analysis ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
