package pipeline

import (
	"context"
	"fmt"

	"goldenkey/pkg/core/analysts"
	"goldenkey/pkg/core/marketdata"
	"goldenkey/pkg/core/store"
)

// cachingSource wraps a DataSource with the quote cache. Only candle
// history is cached; statement endpoints are cheap and change quarterly.
type cachingSource struct {
	symbol string
	inner  analysts.DataSource
	cache  *store.QuoteCache
}

var _ analysts.DataSource = (*cachingSource)(nil)

// SetQuoteCache routes candle fetches through the cache. Call after
// SetDataSourceFactory if both are used.
func (o *Orchestrator) SetQuoteCache(cache *store.QuoteCache) {
	inner := o.sourceFor
	o.sourceFor = func(symbol string) analysts.DataSource {
		return &cachingSource{symbol: symbol, inner: inner(symbol), cache: cache}
	}
}

func (s *cachingSource) QuoteHistory(ctx context.Context, start, end, interval string) ([]marketdata.Candle, error) {
	key := fmt.Sprintf("%s:%s:%s", interval, start, end)
	if candles := s.cache.Get(ctx, s.symbol, key); candles != nil {
		return candles, nil
	}
	candles, err := s.inner.QuoteHistory(ctx, start, end, interval)
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, s.symbol, key, candles)
	return candles, nil
}

func (s *cachingSource) Ratios(ctx context.Context) ([]marketdata.RatioRow, error) {
	return s.inner.Ratios(ctx)
}

func (s *cachingSource) IncomeStatements(ctx context.Context) ([]marketdata.IncomeRow, error) {
	return s.inner.IncomeStatements(ctx)
}

func (s *cachingSource) BalanceSheets(ctx context.Context) ([]marketdata.BalanceRow, error) {
	return s.inner.BalanceSheets(ctx)
}

func (s *cachingSource) CashFlows(ctx context.Context) ([]marketdata.CashFlowRow, error) {
	return s.inner.CashFlows(ctx)
}
