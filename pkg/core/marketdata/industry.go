package marketdata

import (
	"encoding/json"
	"math"
	"strings"
)

// IndustryProfile selects which statement columns matter for a sector when
// the tables are compacted for analysis. Real estate and banking tickers get
// dedicated profiles; everything else falls through to the default.
type IndustryProfile struct {
	Name           string
	RatioFields    []string
	IncomeFields   []string
	BalanceFields  []string
	CashFlowFields []string
}

var (
	realEstateCodes = codeSet("NBB,HPR,C21,DIH,NVT,SID,CEO,HD2,CKG,HBI,TN1,VPI,SIP,CRE,HPX,BCM,DXS,UNI,VCG,PVR,STL,TIG,PFL,LGL,FLC,LSG,VGC,DTI,CER,EIN,KOS,AGG,TBH,BIG,MBT,RCL,HDC,DXG,NHN,PNT,VNN,LAI,FIR,E29,SJS,CII,ITA,ITC,PPI,D11,VPH,IDV,NDN,IDJ,VNI,CLG,HU6,BAX,HTT,SZC,PLA,SSH,TDH,DIG,NTL,CSC,OCH,SZL,PFV,TNT,SGR,LEC,NTC,NVL,TID,VHM,HRB,IDC,BDP,SZB,KHG,BVL,KHA,LHG,QCG,PDR,SDI,FDC,DTA,HQC,KAC,HAR,TIP,SII,BII,HIZ,SLD,SNZ,BCR,ASM,BCI,SDU,OGC,SCR,NTB,CCL,DLR,VCR,NLG,VRE,DCH,PWA,FTI,SZG,TIX,D2D,VIC,KBC,VRC,KDH,DRH,PXL,PVL,CIG,NVN,HDG,FIT,HPI,TCH,LDG,MH3,HD8,NRC,HD3,HD6,PTN,MGR,TAL")

	bankingCodes = codeSet("ACB,STB,BID,SSB,HDB,MBB,BVB,ABB,PNB,VCB,BAB,PGB,TPB,VRB,OCB,DAB,TB,NAB,MSB,EIB,VAB,TCB,SGB,AGRB,KLB,MXBANK,VNDB,LPB,VIB,EAB,CTG,DCB,NVB,PACB,VBB,VPBF,GB,SCB,WEB,FCB,MHBB,SHB,MDB,VPB")
)

// All sectors share the same cash flow lines.
var commonCashFlowFields = []string{
	"depreciation", "operating_cash_flow", "capex", "net_cash_flow",
}

var (
	realEstateProfile = IndustryProfile{
		Name: "real_estate",
		RatioFields: []string{
			"debt_to_equity", "gross_margin_pct", "net_margin_pct", "roe_pct",
			"ebitda_bn", "ev_ebitda", "ebit_bn", "asset_turnover",
			"financial_leverage", "shares_outstanding_m",
		},
		IncomeFields: []string{
			"revenue_growth_pct", "net_revenue", "cogs", "gross_profit",
			"operating_profit", "net_income_parent",
		},
		BalanceFields: []string{
			"cash", "short_term_receivables", "inventory", "fixed_assets",
			"total_assets", "short_term_debt", "long_term_debt",
			"total_liabilities", "equity",
		},
		CashFlowFields: commonCashFlowFields,
	}

	// Banks: interest/fee income instead of revenue lines, loans and
	// deposits instead of inventory, no asset turnover in the ratio set.
	bankingProfile = IndustryProfile{
		Name: "banking",
		RatioFields: []string{
			"debt_to_equity", "gross_margin_pct", "net_margin_pct", "roe_pct",
			"ebitda_bn", "ev_ebitda", "ebit_bn", "shares_outstanding_m",
		},
		IncomeFields: []string{
			"net_interest_income", "net_fee_income", "total_operating_income",
			"pre_provision_profit", "credit_provision_expense",
			"pre_tax_profit", "net_income_parent",
		},
		BalanceFields: []string{
			"customer_loans", "loan_loss_reserve", "customer_deposits",
			"valuable_papers_issued", "total_assets", "total_liabilities",
			"equity",
		},
		CashFlowFields: commonCashFlowFields,
	}

	defaultProfile = IndustryProfile{
		Name:           "general",
		RatioFields:    realEstateProfile.RatioFields,
		IncomeFields:   realEstateProfile.IncomeFields,
		BalanceFields:  realEstateProfile.BalanceFields,
		CashFlowFields: commonCashFlowFields,
	}
)

// FindIndustryProfile classifies a ticker into its sector profile.
func FindIndustryProfile(symbol string) IndustryProfile {
	s := normalizeSymbol(symbol)
	if realEstateCodes[s] {
		return realEstateProfile
	}
	if bankingCodes[s] {
		return bankingProfile
	}
	return defaultProfile
}

// ProjectRows projects statement rows onto a profile's field list, keeping
// the identifying columns. Rows serialize through their json tags, so the
// field names match what the analyst prompt embeds.
func ProjectRows[T any](rows []T, fields []string) []map[string]interface{} {
	keep := map[string]bool{"symbol": true, "year": true, "quarter": true}
	for _, f := range fields {
		keep[f] = true
	}
	out := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		for k := range m {
			if !keep[k] {
				delete(m, k)
			}
		}
		out = append(out, m)
	}
	return out
}

func codeSet(csv string) map[string]bool {
	set := make(map[string]bool)
	for _, code := range strings.Split(csv, ",") {
		set[strings.TrimSpace(code)] = true
	}
	return set
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
