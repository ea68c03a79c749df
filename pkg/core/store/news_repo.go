package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"goldenkey/pkg/core/news"
)

// NewsRepo stores scraped headlines so past sentiment context stays
// queryable after the source pages rotate.
type NewsRepo struct {
	pool *pgxpool.Pool
}

// NewNewsRepo creates a new headline repository.
func NewNewsRepo(pool *pgxpool.Pool) *NewsRepo {
	return &NewsRepo{pool: pool}
}

// SaveHeadlines inserts the batch, ignoring URLs already stored.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS news_headlines (
//
//	symbol TEXT,
//	title TEXT,
//	url TEXT PRIMARY KEY,
//	scraped_at TIMESTAMPTZ
//
// );
func (r *NewsRepo) SaveHeadlines(ctx context.Context, symbol string, headlines []news.Headline) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	now := time.Now()
	for _, h := range headlines {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO news_headlines (symbol, title, url, scraped_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (url) DO NOTHING;
		`, symbol, h.Title, h.URL, now)
		if err != nil {
			return fmt.Errorf("failed to save headline: %w", err)
		}
	}
	return nil
}

// RecentHeadlines returns the latest stored headlines for a symbol.
func (r *NewsRepo) RecentHeadlines(ctx context.Context, symbol string, limit int) ([]news.Headline, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx, `
		SELECT title, url FROM news_headlines
		WHERE symbol = $1
		ORDER BY scraped_at DESC
		LIMIT $2
	`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query headlines: %w", err)
	}
	defer rows.Close()

	var out []news.Headline
	for rows.Next() {
		var h news.Headline
		if err := rows.Scan(&h.Title, &h.URL); err != nil {
			return nil, fmt.Errorf("failed to scan headline: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
