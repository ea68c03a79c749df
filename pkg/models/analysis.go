// Package models defines the shared report structures exchanged between the
// analyst agents, the pipeline, the store, and the HTTP API.
package models

import (
	"strings"
	"time"
)

// MarketContext carries the inputs an analyst needs for one symbol.
type MarketContext struct {
	Symbol       string                 `json:"symbol"`
	CurrentPrice float64                `json:"current_price,omitempty"`
	MarketData   map[string]interface{} `json:"market_data,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
}

// NewMarketContext normalizes the symbol and stamps the context.
func NewMarketContext(symbol string, currentPrice float64) MarketContext {
	return MarketContext{
		Symbol:       strings.ToUpper(strings.TrimSpace(symbol)),
		CurrentPrice: currentPrice,
		MarketData:   map[string]interface{}{},
		Timestamp:    time.Now(),
	}
}

// AnalysisResponse is the standardized analyst result consumed by the UI and
// the advisor. Content holds the full parsed report; on parse failure the
// Recommendation is "PARSE_ERROR" and Content carries the raw model text.
type AnalysisResponse struct {
	Recommendation  string                 `json:"recommendation"`
	ConfidenceLevel float64                `json:"confidence_level"`
	DataQuality     float64                `json:"data_quality"`
	KeyPoints       []string               `json:"key_points"`
	Concerns        []string               `json:"concerns"`
	Content         map[string]interface{} `json:"content"`
}

// Scenario is one branch of a bull/neutral/bear projection.
type Scenario struct {
	PE            float64     `json:"pe,omitempty"`
	TargetPrice   float64     `json:"target_price"`
	Probability   interface{} `json:"probability"` // number or "<%>" string, models emit both
	Drivers       []string    `json:"drivers,omitempty"`
	Invalidations string      `json:"invalidations,omitempty"`
	Rationale     string      `json:"rationale,omitempty"`
}

// StrategyRecommendation is the action block shared by all analyst reports.
type StrategyRecommendation struct {
	Action         string `json:"action"`
	Reasoning      string `json:"reasoning"`
	TimeHorizon    string `json:"time_horizon"`
	EntryStrategy  string `json:"entry_strategy,omitempty"`
	Entry          string `json:"entry,omitempty"`
	StopLoss       string `json:"stop_loss,omitempty"`
	TakeProfit     string `json:"take_profit,omitempty"`
	PositionSizing string `json:"position_sizing,omitempty"`
	RiskManagement string `json:"risk_management,omitempty"`
}

// DataQualityBlock reports how much of the underlying data was available.
type DataQualityBlock struct {
	SampleSize       float64     `json:"sample_size,omitempty"`
	Completeness     interface{} `json:"completeness,omitempty"`
	DataCompleteness string      `json:"data_completeness,omitempty"`
	ConfidenceLevel  string      `json:"confidence_level"`
}

// FundamentalReport is the DuPont analyst's structured output.
type FundamentalReport struct {
	QuickConclusion string `json:"quick_conclusion"`
	DuPontAnalysis  struct {
		ProfitMarginTrend     string `json:"profit_margin_trend"`
		AssetTurnoverTrend    string `json:"asset_turnover_trend"`
		EquityMultiplierTrend string `json:"equity_multiplier_trend"`
		ROEOverall            string `json:"roe_overall"`
	} `json:"dupont_analysis"`
	ProfessionalInsight    string                 `json:"professional_insight"`
	Scenarios              map[string]Scenario    `json:"scenarios"`
	StrategyRecommendation StrategyRecommendation `json:"strategy_recommendation"`
	InvestmentScores       struct {
		ROEQuality   float64 `json:"roe_quality"`
		RiskLevel    float64 `json:"risk_level"`
		SummaryScore float64 `json:"summary_score"`
	} `json:"investment_scores"`
	KeyHighlights []string         `json:"key_highlights"`
	RiskFactors   []string         `json:"risk_factors"`
	DataQuality   DataQualityBlock `json:"data_quality"`
}

// PEValuationReport is the PE analyst's structured output.
type PEValuationReport struct {
	QuickConclusion string `json:"quick_conclusion"`
	PEValuation     struct {
		CurrentPE       float64 `json:"current_pe"`
		HistoricalStats struct {
			Mean              float64 `json:"mean"`
			Median            float64 `json:"median"`
			PercentileCurrent float64 `json:"percentile_current"`
		} `json:"historical_pe_stats"`
		FairValuePE   float64             `json:"fair_value_pe"`
		FairPrice     float64             `json:"fair_price"`
		CurrentVsFair string              `json:"current_vs_fair"`
		ZScore        float64             `json:"z_score"`
		Scenarios     map[string]Scenario `json:"scenarios"`
	} `json:"pe_valuation"`
	GrowthAnalysis struct {
		RequiredNextQuarterEPSGrowth string  `json:"required_next_quarter_eps_growth"`
		SuitableNextQuarterGrowth    string  `json:"suitable_next_quarter_growth"`
		GrowthSustainability         float64 `json:"growth_sustainability"`
	} `json:"growth_analysis"`
	StrategyRecommendation StrategyRecommendation `json:"strategy_recommendation"`
	InvestmentScore        struct {
		Overall             float64 `json:"overall"`
		GrowthPotential     float64 `json:"growth_potential"`
		ValueAttractiveness float64 `json:"value_attractiveness"`
		RiskAdjusted        float64 `json:"risk_adjusted"`
	} `json:"investment_score"`
	ReliabilityScore float64          `json:"reliability_score"`
	KeyHighlights    []string         `json:"key_highlights"`
	RiskFactors      []string         `json:"risk_factors"`
	DataQuality      DataQualityBlock `json:"data_quality"`
}

// TechnicalReport is the VSA/SEBA technical analyst's structured output.
type TechnicalReport struct {
	QuickConclusion string `json:"quick_conclusion"`
	VSASEBAAnalysis struct {
		SupplyDemandImbalance         string   `json:"supply_demand_imbalance"`
		EffortBackground              string   `json:"effort_background"`
		KeyPricePoints                []string `json:"key_price_points"`
		VolumeInsights                []string `json:"volume_insights"`
		PatternPotential              []string `json:"pattern_potential"`
		PatternConfirmationConditions []string `json:"pattern_confirmation_conditions"`
		ProfessionalInsight           string   `json:"professional_insight"`
	} `json:"vsa_seba_analysis"`
	PriceIncrease1M struct {
		Expectation      string   `json:"expectation"`
		Conditions       []string `json:"conditions"`
		ProbabilityScore float64  `json:"probability_score"`
	} `json:"price_increase_1m"`
	TechOverview struct {
		Trend      string   `json:"trend"`
		Momentum   string   `json:"momentum"`
		Volatility string   `json:"volatility"`
		Breadth    string   `json:"breadth"`
		Notes      []string `json:"notes"`
	} `json:"tech_overview"`
	Scenarios              map[string]Scenario    `json:"scenarios"`
	StrategyRecommendation StrategyRecommendation `json:"strategy_recommendation"`
	InvestmentScores       struct {
		SetupQuality     float64 `json:"setup_quality"`
		RiskReward       float64 `json:"risk_reward"`
		TrendAlignment   float64 `json:"trend_alignment"`
		MomentumStrength float64 `json:"momentum_strength"`
		ReliabilityScore float64 `json:"reliability_score"`
		SummaryScore     float64 `json:"summary_score"`
	} `json:"investment_scores"`
	KeyHighlights []string         `json:"key_highlights"`
	RiskFactors   []string         `json:"risk_factors"`
	DataQuality   DataQualityBlock `json:"data_quality"`
}

// AggregationResult is the CIO advisor's final decision after weighing the
// three analyst reports.
type AggregationResult struct {
	OverallRating   string                 `json:"overall_rating"`
	TargetPrice     float64                `json:"target_price"`
	ConfidenceLevel float64                `json:"confidence_level"`
	TimeHorizon     string                 `json:"time_horizon"`
	Rationale       string                 `json:"rationale"`
	RiskFactors     []string               `json:"risk_factors"`
	KeyHighlights   []string               `json:"key_highlights"`
	InvestmentScore float64                `json:"investment_score"`
	RawContent      map[string]interface{} `json:"raw_content,omitempty"`
}

// ComprehensiveReport bundles everything produced for a symbol in one run.
type ComprehensiveReport struct {
	RunID       string             `json:"run_id"`
	Symbol      string             `json:"symbol"`
	GeneratedAt time.Time          `json:"generated_at"`
	Fundamental *AnalysisResponse  `json:"fundamental,omitempty"`
	Technical   *AnalysisResponse  `json:"technical,omitempty"`
	PEValuation *AnalysisResponse  `json:"pe_valuation,omitempty"`
	Advisor     *AggregationResult `json:"advisor,omitempty"`
}
