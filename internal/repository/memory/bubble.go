// Package memory provides the in-memory bubble repository. State lives for
// the process lifetime only; the durability contract is served by
// repository/postgres.
package memory

import (
	"context"
	"sync"

	"github.com/ignite/bubble-agent/internal/domain"
	"github.com/ignite/bubble-agent/internal/service/bubble"
)

// record is one bubble's committed state. The snapshot pointer is swapped
// wholesale on re-initialization so readers never see a half-written mix of
// old and new fields.
type record struct {
	indicators domain.IndicatorSet
	snapshot   *domain.BubbleSnapshot
	turns      map[string][]domain.Turn // keyed by conversation id
}

// Repository is a concurrency-safe in-memory implementation of
// bubble.Repository.
type Repository struct {
	mu      sync.RWMutex
	bubbles map[string]*record
}

// New creates an empty in-memory repository.
func New() *Repository {
	return &Repository{bubbles: make(map[string]*record)}
}

var _ bubble.Repository = (*Repository)(nil)

func (r *Repository) GetSnapshot(_ context.Context, bubbleID string) (domain.BubbleSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.bubbles[bubbleID]
	if !ok {
		return domain.BubbleSnapshot{}, bubble.ErrNotFound
	}
	return *rec.snapshot, nil
}

func (r *Repository) ReplaceState(_ context.Context, bubbleID string, indicators domain.IndicatorSet, snap domain.BubbleSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.bubbles[bubbleID]
	if !ok {
		rec = &record{turns: make(map[string][]domain.Turn)}
		r.bubbles[bubbleID] = rec
	}
	// Replace, never merge. Conversation logs are untouched.
	rec.indicators = indicators
	rec.snapshot = &snap
	return nil
}

func (r *Repository) AppendTurn(_ context.Context, key domain.ConversationKey, turn domain.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.bubbles[key.BubbleID]
	if !ok {
		return bubble.ErrNotFound
	}
	rec.turns[key.ConversationID] = append(rec.turns[key.ConversationID], turn)
	return nil
}

func (r *Repository) History(_ context.Context, key domain.ConversationKey) ([]domain.Turn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.bubbles[key.BubbleID]
	if !ok {
		return nil, bubble.ErrNotFound
	}
	turns := rec.turns[key.ConversationID]
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (r *Repository) ClearConversation(_ context.Context, key domain.ConversationKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.bubbles[key.BubbleID]
	if !ok {
		return bubble.ErrNotFound
	}
	delete(rec.turns, key.ConversationID)
	return nil
}

func (r *Repository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bubbles), nil
}
