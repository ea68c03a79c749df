package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"goldenkey/pkg/core/marketdata"
)

// QuoteCache caches daily candle history per symbol so repeated analyst
// runs don't hammer the upstream data provider.
// Hybrid vault: DB (primary) + file system (fallback/local).
type QuoteCache struct {
	pool    *pgxpool.Pool
	fileDir string
	ttl     time.Duration
}

// NewQuoteCache creates a cache instance. If pool is nil it falls back to a
// file-based cache in dir; an empty dir defaults to .cache/quotes.
func NewQuoteCache(pool *pgxpool.Pool, dir string, ttl time.Duration) *QuoteCache {
	if pool == nil && dir == "" {
		dir = filepath.Join(".cache", "quotes")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check QuoteCache dir: %v\n", err)
		}
	}
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &QuoteCache{pool: pool, fileDir: dir, ttl: ttl}
}

type quoteCacheEntry struct {
	Symbol    string              `json:"symbol"`
	Interval  string              `json:"interval"`
	Candles   []marketdata.Candle `json:"candles"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// Get returns the cached candles for (symbol, interval), or nil on a miss
// or an expired entry. Cache errors are misses, never failures.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS quote_cache (
//
//	symbol TEXT,
//	interval TEXT,
//	candles_json JSONB,
//	fetched_at TIMESTAMPTZ,
//	PRIMARY KEY (symbol, interval)
//
// );
func (c *QuoteCache) Get(ctx context.Context, symbol, interval string) []marketdata.Candle {
	if c.pool != nil {
		var dataJSON []byte
		var fetchedAt time.Time
		err := c.pool.QueryRow(ctx,
			`SELECT candles_json, fetched_at FROM quote_cache WHERE symbol = $1 AND interval = $2`,
			symbol, interval).Scan(&dataJSON, &fetchedAt)
		if err != nil {
			return nil
		}
		if time.Since(fetchedAt) > c.ttl {
			return nil
		}
		var candles []marketdata.Candle
		if err := json.Unmarshal(dataJSON, &candles); err != nil {
			return nil
		}
		return candles
	}

	if c.fileDir != "" {
		data, err := os.ReadFile(c.entryPath(symbol, interval))
		if err != nil {
			return nil
		}
		var entry quoteCacheEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil
		}
		if time.Since(entry.FetchedAt) > c.ttl {
			return nil
		}
		return entry.Candles
	}

	return nil
}

// Put stores candles for (symbol, interval). Write failures are logged,
// the fresh data is still returned to the caller.
func (c *QuoteCache) Put(ctx context.Context, symbol, interval string, candles []marketdata.Candle) {
	now := time.Now()

	if c.pool != nil {
		dataJSON, err := json.Marshal(candles)
		if err != nil {
			fmt.Printf("[WARNING] QuoteCache marshal failed for %s: %v\n", symbol, err)
			return
		}
		_, err = c.pool.Exec(ctx, `
			INSERT INTO quote_cache (symbol, interval, candles_json, fetched_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (symbol, interval)
			DO UPDATE SET candles_json = EXCLUDED.candles_json, fetched_at = EXCLUDED.fetched_at;
		`, symbol, interval, dataJSON, now)
		if err != nil {
			fmt.Printf("[WARNING] QuoteCache db write failed for %s: %v\n", symbol, err)
		}
		return
	}

	if c.fileDir != "" {
		entry := quoteCacheEntry{Symbol: symbol, Interval: interval, Candles: candles, FetchedAt: now}
		data, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			fmt.Printf("[WARNING] QuoteCache marshal failed for %s: %v\n", symbol, err)
			return
		}
		if err := os.WriteFile(c.entryPath(symbol, interval), data, 0644); err != nil {
			fmt.Printf("[WARNING] QuoteCache file write failed for %s: %v\n", symbol, err)
		}
	}
}

func (c *QuoteCache) entryPath(symbol, interval string) string {
	name := fmt.Sprintf("%s_%s.json", strings.ToUpper(symbol), strings.ToUpper(interval))
	return filepath.Join(c.fileDir, name)
}
