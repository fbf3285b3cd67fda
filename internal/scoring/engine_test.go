package scoring_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/bubble-agent/internal/domain"
	"github.com/ignite/bubble-agent/internal/scoring"
)

// uniformSet builds a full payload with the same value and weight everywhere.
func uniformSet(value, weight, catWeight float64) domain.IndicatorSet {
	set := make(domain.IndicatorSet)
	for _, cat := range scoring.CategoryOrder {
		indicators := make(map[string]domain.Indicator)
		for _, name := range scoring.IndicatorNames(cat) {
			indicators[name] = domain.Indicator{Value: value, Weight: weight}
		}
		set[cat] = domain.Category{Weight: catWeight, Indicators: indicators}
	}
	return set
}

func TestEvaluateUniformFifty(t *testing.T) {
	res, err := scoring.Evaluate(uniformSet(50, 25, 20))
	require.NoError(t, err)

	assert.Equal(t, 50.0, res.Score)
	assert.Equal(t, domain.RiskMedium, res.Level)
}

func TestEvaluateExtremes(t *testing.T) {
	res, err := scoring.Evaluate(uniformSet(0, 25, 20))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, domain.RiskLow, res.Level)

	res, err = scoring.Evaluate(uniformSet(100, 25, 20))
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Score)
	assert.Equal(t, domain.RiskHigh, res.Level)
}

func TestEvaluateDeterministic(t *testing.T) {
	set := uniformSet(73.5, 12, 40)
	first, err := scoring.Evaluate(set)
	require.NoError(t, err)
	second, err := scoring.Evaluate(set)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Level, second.Level)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestZeroWeightCategoryContributesZero(t *testing.T) {
	set := uniformSet(90, 25, 20)

	// Valuation keeps its category weight but all sub-indicator weights are
	// zero: its category score must be 0, not a division by zero.
	indicators := make(map[string]domain.Indicator)
	for _, name := range scoring.IndicatorNames(scoring.CategoryValuation) {
		indicators[name] = domain.Indicator{Value: 90, Weight: 0}
	}
	set[scoring.CategoryValuation] = domain.Category{Weight: 20, Indicators: indicators}

	res, err := scoring.Evaluate(set)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.CategoryScores[scoring.CategoryValuation])
	// 4 categories at 90, 1 at 0, equal category weights.
	assert.InDelta(t, 72.0, res.Score, 1e-9)
}

func TestAllWeightsZeroScoresZero(t *testing.T) {
	res, err := scoring.Evaluate(uniformSet(80, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, domain.RiskLow, res.Level)
}

func TestScoreClampedAtHundred(t *testing.T) {
	// Score is reachable without Normalize, so feed it raw tuples whose
	// weighted sum exceeds 100. The reported score must be exactly 100.
	res := scoring.Score([]scoring.Tuple{
		{Category: scoring.CategoryValuation, CategoryWeight: 100, Weight: 1, Value: 130},
		{Category: scoring.CategorySentiment, CategoryWeight: 100, Weight: 1, Value: 110},
	})
	assert.Equal(t, 100.0, res.Score)
	assert.Equal(t, domain.RiskHigh, res.Level)
}

func TestLevelThresholds(t *testing.T) {
	cases := []struct {
		score float64
		level domain.RiskLevel
	}{
		{33.33999, domain.RiskLow},
		{33.34, domain.RiskMedium},
		{66.66999, domain.RiskMedium},
		{66.67, domain.RiskHigh},
		{0, domain.RiskLow},
		{100, domain.RiskHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, domain.LevelForScore(tc.score), "score %v", tc.score)
	}
}

func TestNormalizeMissingCategory(t *testing.T) {
	set := uniformSet(50, 25, 20)
	delete(set, scoring.CategoryMacro)

	_, err := scoring.Evaluate(set)
	require.Error(t, err)

	var verr *scoring.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, scoring.CategoryMacro, verr.Field)
}

func TestNormalizeMissingIndicator(t *testing.T) {
	set := uniformSet(50, 25, 20)
	cat := set[scoring.CategorySentiment]
	delete(cat.Indicators, "search_trends")

	_, err := scoring.Evaluate(set)
	var verr *scoring.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sentiment.search_trends", verr.Field)
}

func TestNormalizeRejectsOutOfRange(t *testing.T) {
	set := uniformSet(50, 25, 20)
	cat := set[scoring.CategoryValuation]
	cat.Indicators["pe_ratio"] = domain.Indicator{Value: 101, Weight: 25}

	_, err := scoring.Evaluate(set)
	var verr *scoring.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "valuation.pe_ratio.value", verr.Field)
	assert.Contains(t, verr.Error(), "out of range")
}

func TestNormalizeOrderIsStable(t *testing.T) {
	tuples, err := scoring.Normalize(uniformSet(50, 25, 20))
	require.NoError(t, err)
	require.Len(t, tuples, 20)

	assert.Equal(t, scoring.CategoryValuation, tuples[0].Category)
	assert.Equal(t, "pe_ratio", tuples[0].Indicator)
	assert.Equal(t, scoring.CategoryFundamentals, tuples[len(tuples)-1].Category)
}

func TestSummaryMentionsEveryCategory(t *testing.T) {
	res, err := scoring.Evaluate(uniformSet(50, 25, 20))
	require.NoError(t, err)
	for _, cat := range scoring.CategoryOrder {
		assert.True(t, strings.Contains(strings.ToLower(res.Summary), cat), "summary missing %s", cat)
	}
}
