package domain

import "time"

// RiskLevel enumerates the discrete bubble risk bands.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Risk level thresholds on the 0-100 score scale. The lower edge is
// inclusive: exactly 33.34 is medium, exactly 66.67 is high.
const (
	MediumThreshold = 33.34
	HighThreshold   = 66.67
)

// LevelForScore maps a 0-100 risk score to its discrete level.
func LevelForScore(score float64) RiskLevel {
	switch {
	case score < MediumThreshold:
		return RiskLow
	case score < HighThreshold:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Indicator is a single named economic input with a value and a relative
// weight inside its category. Both are on a 0-100 scale; weights need not
// sum to anything in particular.
type Indicator struct {
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// Category groups a fixed set of named indicators under one importance
// weight. The indicator names a category accepts are fixed by the schema in
// the scoring package; a payload missing any of them fails validation.
type Category struct {
	Weight     float64              `json:"weight"`
	Indicators map[string]Indicator `json:"indicators"`
}

// IndicatorSet is the complete five-category metrics payload for one bubble.
// Map keys are the canonical category names (valuation, sentiment,
// positioning, macro, fundamentals).
type IndicatorSet map[string]Category

// Persona describes how a bubble speaks at a given risk level.
type Persona struct {
	Tone        string `json:"tone"`
	Stance      string `json:"stance"`
	Register    string `json:"register"`
	Description string `json:"description"`
}

// BubbleSnapshot is the committed, fully-derived state of one bubble at a
// point in time. Readers always see a whole snapshot, never a partial write.
type BubbleSnapshot struct {
	BubbleID  string    `json:"bubble_id"`
	RiskScore float64   `json:"risk_score"`
	RiskLevel RiskLevel `json:"risk_level"`
	Persona   Persona   `json:"persona"`
	Summary   string    `json:"summary"`
	UpdatedAt time.Time `json:"updated_at"`
}
