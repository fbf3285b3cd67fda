// Package persona maps a risk level to the bubble's fixed personality
// descriptor. The mapping is total and stateless: every level has exactly one
// persona, there is no interpolation between levels.
package persona

import "github.com/ignite/bubble-agent/internal/domain"

var (
	confident = domain.Persona{
		Tone:     "enthusiastic, boastful, slightly cocky",
		Stance:   "dismissive of concerns, convinced the hype is justified",
		Register: "expansive and triumphant",
		Description: "Confident and inflated. Feeling euphoric and expansive. " +
			"Full of optimism about the future. Dismissive of concerns.",
	}
	anxious = domain.Persona{
		Tone:     "worried, uncertain",
		Stance:   "aware of growing pressure, starting to doubt the run can continue",
		Register: "hesitant and self-questioning",
		Description: "Anxious and uncertain. Starting to feel wobbly and uncomfortable. " +
			"Aware of growing pressures. Nervous about the future.",
	}
	panicked = domain.Persona{
		Tone:     "panicked, desperate, pained",
		Stance:   "in survival mode, fixated on every warning sign",
		Register: "fragmented and urgent",
		Description: "Panicked and unwell. Feeling fragile and about to pop. " +
			"Overwhelmed by warning signs. Desperate and unstable.",
	}
)

// Resolve returns the persona for a risk level. The switch is exhaustive over
// the three levels; an unrecognized level falls back to the anxious middle
// ground rather than panicking the caller.
func Resolve(level domain.RiskLevel) domain.Persona {
	switch level {
	case domain.RiskLow:
		return confident
	case domain.RiskMedium:
		return anxious
	case domain.RiskHigh:
		return panicked
	default:
		return anxious
	}
}
