package domain

import "time"

// Speaker roles inside a conversation turn.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Turn is one completed exchange: the user's utterance and the agent's reply,
// appended as a single atomic pair. Turns within a conversation are totally
// ordered by append time.
type Turn struct {
	UserText  string    `json:"user_text"`
	AgentText string    `json:"agent_text"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationKey namespaces a conversation log. Conversation identifiers are
// scoped to exactly one bubble; the same conversation id under two bubbles
// addresses two disjoint logs.
type ConversationKey struct {
	BubbleID       string
	ConversationID string
}
