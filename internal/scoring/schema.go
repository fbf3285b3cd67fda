package scoring

// Canonical category names, in aggregation order.
const (
	CategoryValuation    = "valuation"
	CategorySentiment    = "sentiment"
	CategoryPositioning  = "positioning"
	CategoryMacro        = "macro"
	CategoryFundamentals = "fundamentals"
)

// CategoryOrder fixes the order categories are flattened and summarized in.
var CategoryOrder = []string{
	CategoryValuation,
	CategorySentiment,
	CategoryPositioning,
	CategoryMacro,
	CategoryFundamentals,
}

// categorySchema lists the complete, fixed sub-indicator set per category.
// A payload must supply every name listed here; partial categories fail
// validation rather than defaulting (a silent default would corrupt the
// weighted average without the caller knowing).
var categorySchema = map[string][]string{
	CategoryValuation:    {"pe_ratio", "revenue_multiple", "market_cap_gdp", "growth_premium"},
	CategorySentiment:    {"media_mentions", "social_sentiment", "search_trends", "analyst_ratings"},
	CategoryPositioning:  {"fund_flows", "institutional_holdings", "retail_interest", "options_volume"},
	CategoryMacro:        {"interest_rates", "liquidity", "vix", "put_call_ratio"},
	CategoryFundamentals: {"revenue_growth", "profit_margins", "capex_cycle", "adoption_rate"},
}

// IndicatorNames returns the fixed sub-indicator names for a category, or nil
// for an unknown category.
func IndicatorNames(category string) []string {
	return categorySchema[category]
}
