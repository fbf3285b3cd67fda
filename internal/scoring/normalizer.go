package scoring

import (
	"fmt"

	"github.com/ignite/bubble-agent/internal/domain"
)

// Tuple is one flattened (category weight, sub-indicator weight, value) entry.
type Tuple struct {
	Category       string
	Indicator      string
	CategoryWeight float64
	Weight         float64
	Value          float64
}

// Normalize validates a structured indicator payload and flattens it into an
// ordered tuple list. Order follows CategoryOrder, then the fixed indicator
// order within each category, so downstream aggregation is deterministic.
//
// Validation rules:
//   - all five categories must be present
//   - every category must carry its complete named sub-indicator set
//   - every weight and value must be within [0,100]
//
// The first offending field fails the whole payload with a *ValidationError.
// Out-of-range values are rejected, never clamped, so bad input stays
// observable to the caller.
func Normalize(set domain.IndicatorSet) ([]Tuple, error) {
	if set == nil {
		return nil, missingField("metrics")
	}

	tuples := make([]Tuple, 0, 20)
	for _, name := range CategoryOrder {
		cat, ok := set[name]
		if !ok {
			return nil, missingField(name)
		}
		if cat.Weight < 0 || cat.Weight > 100 {
			return nil, outOfRange(name+".weight", cat.Weight)
		}
		for _, ind := range categorySchema[name] {
			field := fmt.Sprintf("%s.%s", name, ind)
			entry, ok := cat.Indicators[ind]
			if !ok {
				return nil, missingField(field)
			}
			if entry.Value < 0 || entry.Value > 100 {
				return nil, outOfRange(field+".value", entry.Value)
			}
			if entry.Weight < 0 || entry.Weight > 100 {
				return nil, outOfRange(field+".weight", entry.Weight)
			}
			tuples = append(tuples, Tuple{
				Category:       name,
				Indicator:      ind,
				CategoryWeight: cat.Weight,
				Weight:         entry.Weight,
				Value:          entry.Value,
			})
		}
	}
	return tuples, nil
}
