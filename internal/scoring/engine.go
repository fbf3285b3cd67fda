package scoring

import (
	"fmt"
	"strings"

	"github.com/ignite/bubble-agent/internal/domain"
)

// Result is the full output of one scoring pass.
type Result struct {
	Score          float64
	Level          domain.RiskLevel
	CategoryScores map[string]float64
	Summary        string
}

// Score aggregates normalized tuples into a 0-100 risk score.
//
// Per category: category_score = sum(value*weight) / sum(weight). A category
// whose sub-indicator weights total zero scores 0 rather than dividing by
// zero; it simply contributes nothing.
//
// Overall: risk_score = min(100, sum(category_score*catWeight) / sum(catWeight)).
// The ceiling clamp keeps the reported scale bounded even when rounding in
// the caller's weights would push the raw aggregate past 100. Zero total
// category weight likewise yields 0.
func Score(tuples []Tuple) Result {
	type acc struct {
		weighted float64
		weight   float64
		catW     float64
	}
	byCat := make(map[string]*acc, len(CategoryOrder))
	for _, t := range tuples {
		a, ok := byCat[t.Category]
		if !ok {
			a = &acc{catW: t.CategoryWeight}
			byCat[t.Category] = a
		}
		a.weighted += t.Value * t.Weight
		a.weight += t.Weight
	}

	catScores := make(map[string]float64, len(byCat))
	var totalWeighted, totalCatW float64
	for _, name := range CategoryOrder {
		a, ok := byCat[name]
		if !ok {
			continue
		}
		score := 0.0
		if a.weight > 0 {
			score = a.weighted / a.weight
		}
		catScores[name] = score
		totalWeighted += score * a.catW
		totalCatW += a.catW
	}

	risk := 0.0
	if totalCatW > 0 {
		risk = totalWeighted / totalCatW
	}
	if risk > 100 {
		risk = 100
	}

	return Result{
		Score:          risk,
		Level:          domain.LevelForScore(risk),
		CategoryScores: catScores,
		Summary:        buildSummary(risk, catScores),
	}
}

// Evaluate runs Normalize and Score in one pass.
func Evaluate(set domain.IndicatorSet) (Result, error) {
	tuples, err := Normalize(set)
	if err != nil {
		return Result{}, err
	}
	return Score(tuples), nil
}

// buildSummary renders the human-readable metrics summary attached to every
// snapshot, one clause per category in canonical order.
func buildSummary(risk float64, catScores map[string]float64) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Risk %.1f/100.", risk))
	for _, name := range CategoryOrder {
		score, ok := catScores[name]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf(" %s %.1f,", capitalize(name), score))
	}
	return strings.TrimSuffix(sb.String(), ",") + "."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
