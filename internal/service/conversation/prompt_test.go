package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ignite/bubble-agent/internal/domain"
)

func turns(n int) []domain.Turn {
	out := make([]domain.Turn, n)
	for i := range out {
		out[i] = domain.Turn{
			UserText:  fmt.Sprintf("question %d", i),
			AgentText: fmt.Sprintf("answer %d", i),
		}
	}
	return out
}

func TestTrimHistoryTurnCap(t *testing.T) {
	trimmed := trimHistory(turns(15), 10, 0)
	assert.Len(t, trimmed, 10)
	// Oldest dropped first: entry 5 is now the head.
	assert.Equal(t, "question 5", trimmed[0].UserText)
	assert.Equal(t, "question 14", trimmed[9].UserText)
}

func TestTrimHistoryCharBudget(t *testing.T) {
	history := []domain.Turn{
		{UserText: "aaaaaaaaaa", AgentText: "bbbbbbbbbb"}, // 20 chars
		{UserText: "cccccccccc", AgentText: "dddddddddd"}, // 20 chars
		{UserText: "ee", AgentText: "ff"},                 // 4 chars
	}
	trimmed := trimHistory(history, 0, 25)
	assert.Len(t, trimmed, 2)
	assert.Equal(t, "cccccccccc", trimmed[0].UserText)
}

func TestTrimHistoryDisabledLimits(t *testing.T) {
	assert.Len(t, trimHistory(turns(30), 0, 0), 30)
}

func TestBuildPromptSkipsEmptyHistory(t *testing.T) {
	snap := domain.BubbleSnapshot{
		RiskScore: 12.0,
		RiskLevel: domain.RiskLow,
		Persona:   domain.Persona{Description: "Confident and inflated."},
		Summary:   "Risk 12.0/100.",
	}
	p := buildPrompt(snap, nil, "hello", 10, 8000)
	assert.NotContains(t, p, "CONVERSATION SO FAR")
	assert.Contains(t, p, "Confident and inflated.")
	assert.Contains(t, p, "User: hello")
}
