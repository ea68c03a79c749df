// Package store holds the persistence layer: the shared pgx pool, the
// analysis report repository, the quote cache and the headline repository.
package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB initializes the connection pool from the DATABASE_URL environment
// variable. Safe to call more than once; only the first call connects.
func InitDB(ctx context.Context) error {
	var err error
	once.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			err = fmt.Errorf("DATABASE_URL environment variable not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			return
		}
		if pingErr := pool.Ping(ctx); pingErr != nil {
			err = fmt.Errorf("database unreachable: %w", pingErr)
		}
	})
	return err
}

// GetPool returns the database connection pool, nil before InitDB.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the database connection pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}
