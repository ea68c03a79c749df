package marketdata

import "time"

// Candle is one price bar as returned by the quote history endpoint.
// Prices are quoted in thousand VND, the convention of the upstream provider.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Year returns the calendar year of the bar.
func (c Candle) Year() int { return c.Time.Year() }

// Quarter returns the calendar quarter (1..4) of the bar.
func (c Candle) Quarter() int { return (int(c.Time.Month())-1)/3 + 1 }

// RatioRow holds one quarter of valuation and profitability ratios.
// Margins and ROE are percentages, EBITDA/EBIT are billion VND, EPS is VND.
type RatioRow struct {
	Symbol            string  `json:"symbol"`
	Year              int     `json:"year"`
	Quarter           int     `json:"quarter"`
	EPS               float64 `json:"eps_vnd"`
	PE                float64 `json:"pe"`
	PB                float64 `json:"pb"`
	DebtToEquity      float64 `json:"debt_to_equity"`
	GrossMargin       float64 `json:"gross_margin_pct"`
	NetMargin         float64 `json:"net_margin_pct"`
	ROE               float64 `json:"roe_pct"`
	EBITDA            float64 `json:"ebitda_bn"`
	EVEBITDA          float64 `json:"ev_ebitda"`
	EBIT              float64 `json:"ebit_bn"`
	AssetTurnover     float64 `json:"asset_turnover"`
	FinancialLeverage float64 `json:"financial_leverage"`
	SharesOutstanding float64 `json:"shares_outstanding_m"`
}

// IncomeRow holds one quarter of income statement items in billion VND,
// except RevenueGrowth which is a percentage.
type IncomeRow struct {
	Symbol          string  `json:"symbol"`
	Year            int     `json:"year"`
	Quarter         int     `json:"quarter"`
	RevenueGrowth   float64 `json:"revenue_growth_pct"`
	NetRevenue      float64 `json:"net_revenue"`
	COGS            float64 `json:"cogs"`
	GrossProfit     float64 `json:"gross_profit"`
	OperatingProfit float64 `json:"operating_profit"`
	NetIncomeParent float64 `json:"net_income_parent"`

	// Banks report income through these lines instead; zero for other sectors.
	NetInterestIncome    float64 `json:"net_interest_income"`
	NetFeeIncome         float64 `json:"net_fee_income"`
	TotalOperatingIncome float64 `json:"total_operating_income"`
	PreProvisionProfit   float64 `json:"pre_provision_profit"`
	ProvisionExpense     float64 `json:"credit_provision_expense"`
	PreTaxProfit         float64 `json:"pre_tax_profit"`
}

// BalanceRow holds one quarter of balance sheet items in billion VND.
type BalanceRow struct {
	Symbol           string  `json:"symbol"`
	Year             int     `json:"year"`
	Quarter          int     `json:"quarter"`
	Cash             float64 `json:"cash"`
	ShortReceivables float64 `json:"short_term_receivables"`
	Inventory        float64 `json:"inventory"`
	FixedAssets      float64 `json:"fixed_assets"`
	TotalAssets      float64 `json:"total_assets"`
	ShortTermDebt    float64 `json:"short_term_debt"`
	LongTermDebt     float64 `json:"long_term_debt"`
	TotalLiabilities float64 `json:"total_liabilities"`
	Equity           float64 `json:"equity"`

	// Bank balance sheet lines; zero for other sectors.
	CustomerLoans    float64 `json:"customer_loans"`
	LoanLossReserve  float64 `json:"loan_loss_reserve"`
	CustomerDeposits float64 `json:"customer_deposits"`
	ValuablePapers   float64 `json:"valuable_papers_issued"`
}

// CashFlowRow holds one quarter of cash flow items in billion VND.
type CashFlowRow struct {
	Symbol            string  `json:"symbol"`
	Year              int     `json:"year"`
	Quarter           int     `json:"quarter"`
	Depreciation      float64 `json:"depreciation"`
	OperatingCashFlow float64 `json:"operating_cash_flow"`
	CapEx             float64 `json:"capex"`
	NetCashFlow       float64 `json:"net_cash_flow"`
}

// QuarterKey identifies a fiscal quarter for joins across statements.
type QuarterKey struct {
	Year    int
	Quarter int
}

// Before reports whether k is chronologically earlier than other.
func (k QuarterKey) Before(other QuarterKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Quarter < other.Quarter
}
