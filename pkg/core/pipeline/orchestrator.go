package pipeline

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"goldenkey/pkg/core/analysts"
	"goldenkey/pkg/core/marketdata"
	"goldenkey/pkg/core/quant"
	"goldenkey/pkg/core/store"
	"goldenkey/pkg/models"
)

// indexSymbol is the market benchmark embedded as background context for
// the technical analyst.
const indexSymbol = "VNINDEX"

// maxBatchSymbols caps one batch run; larger lists are truncated.
const maxBatchSymbols = 20

// batchConcurrency is how many symbols run their analyst fan-out at once.
const batchConcurrency = 3

// Orchestrator manages the per-symbol flow: market data -> three analysts
// in parallel -> CIO advisor -> storage.
type Orchestrator struct {
	fundamental *analysts.FundamentalAnalyst
	technical   *analysts.TechnicalAnalyst
	valuation   *analysts.PEValuationAnalyst
	advisor     *analysts.Advisor

	sourceFor func(symbol string) analysts.DataSource
	repo      store.AnalysisRepository
}

// NewOrchestrator wires the four agents to one prompt executor. Market data
// clients are created per symbol through the marketdata package.
func NewOrchestrator(executor analysts.PromptExecutor) *Orchestrator {
	return &Orchestrator{
		fundamental: &analysts.FundamentalAnalyst{Executor: executor},
		technical:   &analysts.TechnicalAnalyst{Executor: executor},
		valuation:   &analysts.PEValuationAnalyst{Executor: executor},
		advisor:     &analysts.Advisor{Executor: executor},
		sourceFor: func(symbol string) analysts.DataSource {
			return marketdata.NewClient(symbol)
		},
	}
}

// SetRepository enables persistence of finished reports.
func (o *Orchestrator) SetRepository(repo store.AnalysisRepository) {
	o.repo = repo
}

// SetDataSourceFactory allows injecting a custom market data feed (e.g. for
// testing).
func (o *Orchestrator) SetDataSourceFactory(f func(symbol string) analysts.DataSource) {
	o.sourceFor = f
}

// RunForSymbol executes the full analysis fan-out for one symbol. A single
// failing analyst does not abort the run; the advisor aggregates whatever
// reports came back. The run fails only when every analyst failed.
func (o *Orchestrator) RunForSymbol(ctx context.Context, symbol string) (*models.ComprehensiveReport, error) {
	start := time.Now()
	mctx := models.NewMarketContext(symbol, 0)
	fmt.Printf("Starting analysis run for %s...\n", mctx.Symbol)

	ds := o.sourceFor(mctx.Symbol)
	o.primeContext(ctx, &mctx, ds)

	report := &models.ComprehensiveReport{
		RunID:       uuid.NewString(),
		Symbol:      mctx.Symbol,
		GeneratedAt: time.Now(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resp, err := o.fundamental.Analyze(gctx, mctx, ds)
		if err != nil {
			fmt.Printf("Warning: fundamental analysis failed for %s: %v\n", mctx.Symbol, err)
			return nil
		}
		report.Fundamental = resp
		return nil
	})
	g.Go(func() error {
		resp, err := o.technical.Analyze(gctx, mctx, ds)
		if err != nil {
			fmt.Printf("Warning: technical analysis failed for %s: %v\n", mctx.Symbol, err)
			return nil
		}
		report.Technical = resp
		return nil
	})
	g.Go(func() error {
		resp, err := o.valuation.Analyze(gctx, mctx, ds)
		if err != nil {
			fmt.Printf("Warning: pe valuation failed for %s: %v\n", mctx.Symbol, err)
			return nil
		}
		report.PEValuation = resp
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if report.Fundamental == nil && report.Technical == nil && report.PEValuation == nil {
		return nil, fmt.Errorf("all analysts failed for %s", mctx.Symbol)
	}

	advice, err := o.advisor.Aggregate(ctx, mctx.Symbol, report.Fundamental, report.Technical, report.PEValuation)
	if err != nil {
		fmt.Printf("Warning: advisor aggregation failed for %s: %v\n", mctx.Symbol, err)
	} else {
		report.Advisor = advice
	}

	if o.repo != nil {
		if err := o.repo.SaveReport(ctx, report); err != nil {
			fmt.Printf("Warning: failed to persist report for %s: %v\n", mctx.Symbol, err)
		}
	}

	fmt.Printf("Analysis run %s completed for %s in %v\n", report.RunID, mctx.Symbol, time.Since(start))
	return report, nil
}

// RunBatch runs RunForSymbol over a symbol list with capped concurrency.
// Failed symbols are reported in the error map, not fatal to the batch.
func (o *Orchestrator) RunBatch(ctx context.Context, symbols []string) ([]*models.ComprehensiveReport, map[string]error) {
	if len(symbols) > maxBatchSymbols {
		fmt.Printf("Batch truncated from %d to %d symbols\n", len(symbols), maxBatchSymbols)
		symbols = symbols[:maxBatchSymbols]
	}

	reports := make([]*models.ComprehensiveReport, len(symbols))
	failures := make(map[string]error)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, symbol := range symbols {
		g.Go(func() error {
			report, err := o.RunForSymbol(gctx, symbol)
			if err != nil {
				mu.Lock()
				failures[symbol] = err
				mu.Unlock()
				return nil
			}
			reports[i] = report
			return nil
		})
	}
	_ = g.Wait()

	out := reports[:0]
	for _, r := range reports {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, failures
}

// Overview is the no-AI quantitative summary served by the overview
// endpoint: trailing P/E distribution, DuPont components and the technical
// snapshot, straight from the computed data.
type Overview struct {
	Symbol       string                   `json:"symbol"`
	LatestPrice  *float64                 `json:"latest_price,omitempty"`
	LatestPE     *float64                 `json:"latest_pe,omitempty"`
	Distribution map[string]interface{}   `json:"pe_distribution,omitempty"`
	DuPont       []quant.DuPontRow        `json:"dupont_components"`
	Technical    *quant.TechnicalSnapshot `json:"technical"`
}

// finitePtr guards the overview's optional numbers: non-finite values are
// omitted from the JSON body instead of breaking json.Marshal.
func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// QuickOverview computes the quantitative summary without any model calls.
func (o *Orchestrator) QuickOverview(ctx context.Context, symbol string) (*Overview, error) {
	mctx := models.NewMarketContext(symbol, 0)
	ds := o.sourceFor(mctx.Symbol)

	end := time.Now()
	start := end.AddDate(-5, 0, 0)
	candles, err := ds.QuoteHistory(ctx, start.Format("2006-01-02"), end.Format("2006-01-02"), "1D")
	if err != nil {
		return nil, fmt.Errorf("failed to load price history for %s: %w", mctx.Symbol, err)
	}
	ratios, err := ds.Ratios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ratios for %s: %w", mctx.Symbol, err)
	}
	income, err := ds.IncomeStatements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load income statements for %s: %w", mctx.Symbol, err)
	}
	balance, err := ds.BalanceSheets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load balance sheets for %s: %w", mctx.Symbol, err)
	}

	points := quant.ComputePETrailing(candles, ratios)
	price := quant.LatestClose(points)
	if math.IsNaN(price) && len(candles) > 0 {
		// Young listings have prices before they have a TTM EPS series.
		price = candles[len(candles)-1].Close
	}
	overview := &Overview{
		Symbol:      mctx.Symbol,
		LatestPrice: finitePtr(price),
		LatestPE:    finitePtr(quant.LatestPE(points)),
		DuPont:      quant.ComputeRollingDuPont(income, balance),
		Technical:   quant.ComputeTechnicalSnapshot(candles),
	}
	if stats, err := quant.PEDistributionStats(points); err == nil {
		overview.Distribution = stats.Map()
	}
	return overview, nil
}

// primeContext fills the current price and market index background the
// analysts expect. Failures degrade the prompt, they do not stop the run.
func (o *Orchestrator) primeContext(ctx context.Context, mctx *models.MarketContext, ds analysts.DataSource) {
	end := time.Now()
	start := end.AddDate(0, -1, 0)
	if candles, err := ds.QuoteHistory(ctx, start.Format("2006-01-02"), end.Format("2006-01-02"), "1D"); err == nil && len(candles) > 0 {
		mctx.CurrentPrice = candles[len(candles)-1].Close
	} else if err != nil {
		fmt.Printf("Warning: could not prime current price for %s: %v\n", mctx.Symbol, err)
	}

	index := o.sourceFor(indexSymbol)
	if candles, err := index.QuoteHistory(ctx, end.AddDate(-1, 0, 0).Format("2006-01-02"), end.Format("2006-01-02"), "1D"); err == nil {
		mctx.MarketData["index_history"] = candles
	} else {
		fmt.Printf("Warning: could not load %s history: %v\n", indexSymbol, err)
	}
}
