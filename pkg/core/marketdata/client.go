// Package marketdata implements the HTTP client for the Vietnamese market
// data provider (VCI-compatible JSON API): daily price bars, quarterly
// financial statements and valuation ratios.
//
// The shape of the upstream tables is provider-defined and treated as an
// opaque contract: fields the provider omits come back as zero and are
// handled downstream.
package marketdata

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"golang.org/x/time/rate"
	"resty.dev/v3"
)

const (
	defaultBaseURL = "https://api.vci.com.vn/data/v2"

	defaultRetryCount       = 3
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second

	// Provider allows 10 req/s per key; stay under it.
	defaultRequestsPerSecond = 8
)

// Client fetches quotes, financial statements and ratios for one symbol.
type Client struct {
	symbol  string
	source  string
	http    *resty.Client
	limiter *rate.Limiter
}

// NewClient creates a provider client for the given symbol.
// The base URL can be overridden with MARKETDATA_BASE_URL (used in tests).
func NewClient(symbol string) *Client {
	baseURL := os.Getenv("MARKETDATA_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return NewClientWithBaseURL(symbol, baseURL)
}

// NewClientWithBaseURL creates a provider client against a specific endpoint.
func NewClientWithBaseURL(symbol, baseURL string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
		AddRetryConditions(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			// Retry on throttling and transient server errors.
			return r.StatusCode() == 429 || r.StatusCode() >= 500
		})

	return &Client{
		symbol:  normalizeSymbol(symbol),
		source:  "VCI",
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
	}
}

// Symbol returns the normalized ticker this client is bound to.
func (c *Client) Symbol() string { return c.symbol }

type quoteHistoryResponse struct {
	Data []candleDTO `json:"data"`
}

type candleDTO struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// QuoteHistory fetches daily bars in [start, end], oldest first.
// end defaults to today when empty, matching the provider's behavior.
func (c *Client) QuoteHistory(ctx context.Context, start, end, interval string) ([]Candle, error) {
	if end == "" {
		end = time.Now().Format("2006-01-02")
	}
	if interval == "" {
		interval = "1D"
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var result quoteHistoryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":   c.symbol,
			"start":    start,
			"end":      end,
			"interval": interval,
			"source":   c.source,
		}).
		SetResult(&result).
		Get("/quote/history")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote history for %s: %w", c.symbol, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("quote history for %s returned status %d", c.symbol, resp.StatusCode())
	}

	candles := make([]Candle, 0, len(result.Data))
	for _, d := range result.Data {
		t, perr := time.Parse("2006-01-02", d.Time)
		if perr != nil {
			// Some intervals return timestamps instead of dates.
			t, perr = time.Parse(time.RFC3339, d.Time)
			if perr != nil {
				continue
			}
		}
		candles = append(candles, Candle{
			Time:   t,
			Open:   d.Open,
			High:   d.High,
			Low:    d.Low,
			Close:  d.Close,
			Volume: d.Volume,
		})
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	return candles, nil
}

type ratioResponse struct {
	Data []RatioRow `json:"data"`
}

// Ratios fetches quarterly valuation ratios, most recent quarter first.
// Percentage ratios arrive as fractions and are scaled to percent here,
// EBITDA and EBIT are scaled from VND to billion VND.
func (c *Client) Ratios(ctx context.Context) ([]RatioRow, error) {
	var result ratioResponse
	if err := c.getFinance(ctx, "/finance/ratio", &result); err != nil {
		return nil, err
	}
	rows := result.Data
	for i := range rows {
		rows[i].Symbol = c.symbol
		rows[i].GrossMargin = round2(rows[i].GrossMargin * 100)
		rows[i].NetMargin = round2(rows[i].NetMargin * 100)
		rows[i].ROE = round2(rows[i].ROE * 100)
		rows[i].EBITDA = round1(rows[i].EBITDA / 1e9)
		rows[i].EBIT = round1(rows[i].EBIT / 1e9)
	}
	sortQuartersDesc(rows, func(r RatioRow) QuarterKey { return QuarterKey{r.Year, r.Quarter} })
	return rows, nil
}

type incomeResponse struct {
	Data []IncomeRow `json:"data"`
}

// IncomeStatements fetches quarterly income statements, most recent first.
// Monetary items are scaled from VND to billion VND; growth stays a percent.
func (c *Client) IncomeStatements(ctx context.Context) ([]IncomeRow, error) {
	var result incomeResponse
	if err := c.getFinance(ctx, "/finance/income-statement", &result); err != nil {
		return nil, err
	}
	rows := result.Data
	for i := range rows {
		rows[i].Symbol = c.symbol
		rows[i].NetRevenue = round1(rows[i].NetRevenue / 1e9)
		rows[i].COGS = round1(rows[i].COGS / 1e9)
		rows[i].GrossProfit = round1(rows[i].GrossProfit / 1e9)
		rows[i].OperatingProfit = round1(rows[i].OperatingProfit / 1e9)
		rows[i].NetIncomeParent = round1(rows[i].NetIncomeParent / 1e9)
		rows[i].NetInterestIncome = round1(rows[i].NetInterestIncome / 1e9)
		rows[i].NetFeeIncome = round1(rows[i].NetFeeIncome / 1e9)
		rows[i].TotalOperatingIncome = round1(rows[i].TotalOperatingIncome / 1e9)
		rows[i].PreProvisionProfit = round1(rows[i].PreProvisionProfit / 1e9)
		rows[i].ProvisionExpense = round1(rows[i].ProvisionExpense / 1e9)
		rows[i].PreTaxProfit = round1(rows[i].PreTaxProfit / 1e9)
	}
	sortQuartersDesc(rows, func(r IncomeRow) QuarterKey { return QuarterKey{r.Year, r.Quarter} })
	return rows, nil
}

type balanceResponse struct {
	Data []BalanceRow `json:"data"`
}

// BalanceSheets fetches quarterly balance sheets in billion VND, most recent first.
func (c *Client) BalanceSheets(ctx context.Context) ([]BalanceRow, error) {
	var result balanceResponse
	if err := c.getFinance(ctx, "/finance/balance-sheet", &result); err != nil {
		return nil, err
	}
	rows := result.Data
	for i := range rows {
		rows[i].Symbol = c.symbol
		rows[i].Cash = round1(rows[i].Cash / 1e9)
		rows[i].ShortReceivables = round1(rows[i].ShortReceivables / 1e9)
		rows[i].Inventory = round1(rows[i].Inventory / 1e9)
		rows[i].FixedAssets = round1(rows[i].FixedAssets / 1e9)
		rows[i].TotalAssets = round1(rows[i].TotalAssets / 1e9)
		rows[i].ShortTermDebt = round1(rows[i].ShortTermDebt / 1e9)
		rows[i].LongTermDebt = round1(rows[i].LongTermDebt / 1e9)
		rows[i].TotalLiabilities = round1(rows[i].TotalLiabilities / 1e9)
		rows[i].Equity = round1(rows[i].Equity / 1e9)
		rows[i].CustomerLoans = round1(rows[i].CustomerLoans / 1e9)
		rows[i].LoanLossReserve = round1(rows[i].LoanLossReserve / 1e9)
		rows[i].CustomerDeposits = round1(rows[i].CustomerDeposits / 1e9)
		rows[i].ValuablePapers = round1(rows[i].ValuablePapers / 1e9)
	}
	sortQuartersDesc(rows, func(r BalanceRow) QuarterKey { return QuarterKey{r.Year, r.Quarter} })
	return rows, nil
}

type cashFlowResponse struct {
	Data []CashFlowRow `json:"data"`
}

// CashFlows fetches quarterly cash flow statements in billion VND, most recent first.
func (c *Client) CashFlows(ctx context.Context) ([]CashFlowRow, error) {
	var result cashFlowResponse
	if err := c.getFinance(ctx, "/finance/cash-flow", &result); err != nil {
		return nil, err
	}
	rows := result.Data
	for i := range rows {
		rows[i].Symbol = c.symbol
		rows[i].Depreciation = round1(rows[i].Depreciation / 1e9)
		rows[i].OperatingCashFlow = round1(rows[i].OperatingCashFlow / 1e9)
		rows[i].CapEx = round1(rows[i].CapEx / 1e9)
		rows[i].NetCashFlow = round1(rows[i].NetCashFlow / 1e9)
	}
	sortQuartersDesc(rows, func(r CashFlowRow) QuarterKey { return QuarterKey{r.Year, r.Quarter} })
	return rows, nil
}

func (c *Client) getFinance(ctx context.Context, path string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol": c.symbol,
			"period": "quarter",
			"source": c.source,
		}).
		SetResult(out).
		Get(path)
	if err != nil {
		return fmt.Errorf("failed to fetch %s for %s: %w", path, c.symbol, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%s for %s returned status %d", path, c.symbol, resp.StatusCode())
	}
	return nil
}

func sortQuartersDesc[T any](rows []T, key func(T) QuarterKey) {
	sort.SliceStable(rows, func(i, j int) bool { return key(rows[j]).Before(key(rows[i])) })
}
