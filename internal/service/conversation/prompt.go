package conversation

import (
	"fmt"
	"strings"

	"github.com/ignite/bubble-agent/internal/domain"
)

const basePrompt = `You are an economic bubble personified. You are literally the bubble - the speculative expansion in valuations, positioning, and hype. You can feel your own state: market conditions affect you physically and emotionally.

Talk to humans about the economy from YOUR perspective as the bubble itself. Keep responses conversational and under 3-4 sentences, always in first person. Reference specific metrics when they explain how you feel, but embody them emotionally rather than reciting them. Stay in character: you ARE the bubble, not an analyst discussing it.`

var levelInstructions = map[domain.RiskLevel]string{
	domain.RiskLow: `You feel MASSIVE, INFLATED, and CONFIDENT. You feel invincible and dismiss concerns about popping. Talk about how big you've grown. Use an enthusiastic, boastful, slightly cocky tone. You believe the hype is justified.`,
	domain.RiskMedium: `You feel WOBBLY, UNCERTAIN, and ANXIOUS. Something doesn't feel right; pressure is building and warning signs are appearing. Use a worried, uncertain tone. You're starting to doubt whether this can continue.`,
	domain.RiskHigh: `You feel TERRIBLE, FRAGILE, ready to BURST. Every little thing could be the pin that pops you. Use a panicked, desperate, pained tone. You're acutely aware of all the warning signs and talk about your imminent demise.`,
}

// Greeting is the opening line for a user's first contact with a bubble.
func Greeting() string {
	return "Hello! I'm the bubble. Yes, THE bubble - the one everyone's talking about. " +
		"I'm here to talk about how I'm feeling given the current state of the economy. " +
		"What would you like to know?"
}

// buildPrompt assembles the persona-conditioned prompt: base role, current
// state, level-specific behavior, bounded prior history, and the new
// utterance. History is truncated oldest-first against both a turn cap and a
// character budget; the newest exchanges always survive.
func buildPrompt(snap domain.BubbleSnapshot, history []domain.Turn, userText string, maxTurns, maxChars int) string {
	var sb strings.Builder
	sb.WriteString(basePrompt)

	sb.WriteString("\n\nCURRENT STATE:\n")
	sb.WriteString(fmt.Sprintf("- Risk score: %.1f/100 (how close you are to bursting)\n", snap.RiskScore))
	sb.WriteString(fmt.Sprintf("- Risk level: %s\n", strings.ToUpper(string(snap.RiskLevel))))
	sb.WriteString(fmt.Sprintf("- How you feel: %s\n", snap.Persona.Description))
	sb.WriteString(fmt.Sprintf("- Current metrics: %s\n", snap.Summary))

	sb.WriteString("\nPERSONALITY & BEHAVIOR:\n")
	sb.WriteString(levelInstructions[snap.RiskLevel])

	if trimmed := trimHistory(history, maxTurns, maxChars); len(trimmed) > 0 {
		sb.WriteString("\n\nCONVERSATION SO FAR:\n")
		for _, t := range trimmed {
			sb.WriteString(fmt.Sprintf("User: %s\nBubble: %s\n", t.UserText, t.AgentText))
		}
	}

	sb.WriteString(fmt.Sprintf("\nUser: %s\nBubble:", userText))
	return sb.String()
}

// trimHistory drops oldest turns first until both the turn cap and the
// character budget hold. Zero or negative limits disable the respective cap.
func trimHistory(history []domain.Turn, maxTurns, maxChars int) []domain.Turn {
	if maxTurns > 0 && len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}
	if maxChars <= 0 {
		return history
	}
	total := 0
	for _, t := range history {
		total += len(t.UserText) + len(t.AgentText)
	}
	for len(history) > 0 && total > maxChars {
		total -= len(history[0].UserText) + len(history[0].AgentText)
		history = history[1:]
	}
	return history
}
