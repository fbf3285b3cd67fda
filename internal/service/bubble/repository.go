package bubble

import (
	"context"

	"github.com/ignite/bubble-agent/internal/domain"
)

// Repository persists bubble records. Implementations must return ErrNotFound
// for unknown bubble identifiers, must replace state wholesale without
// touching conversation logs, and must keep snapshot replacement atomic: a
// concurrent read observes either the prior or the new snapshot, never a mix.
type Repository interface {
	// GetSnapshot returns the committed snapshot for a bubble.
	GetSnapshot(ctx context.Context, bubbleID string) (domain.BubbleSnapshot, error)

	// ReplaceState overwrites the bubble's indicator set and snapshot,
	// creating the bubble on first call. Conversation logs are untouched.
	ReplaceState(ctx context.Context, bubbleID string, indicators domain.IndicatorSet, snap domain.BubbleSnapshot) error

	// AppendTurn appends one completed (user, agent) pair to the conversation
	// log, creating the log lazily on first use.
	AppendTurn(ctx context.Context, key domain.ConversationKey, turn domain.Turn) error

	// History returns the ordered turn log. An unseen conversation id on a
	// known bubble yields an empty slice, not an error.
	History(ctx context.Context, key domain.ConversationKey) ([]domain.Turn, error)

	// ClearConversation drops one conversation log. Clearing an unseen
	// conversation on a known bubble is a no-op.
	ClearConversation(ctx context.Context, key domain.ConversationKey) error

	// Count returns the number of known bubble identifiers.
	Count(ctx context.Context) (int, error)
}
