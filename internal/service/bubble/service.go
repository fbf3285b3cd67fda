package bubble

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ignite/bubble-agent/internal/domain"
	"github.com/ignite/bubble-agent/internal/persona"
	"github.com/ignite/bubble-agent/internal/pkg/distlock"
	"github.com/ignite/bubble-agent/internal/pkg/logger"
	"github.com/ignite/bubble-agent/internal/scoring"
)

// LockFactory builds a cross-process lock for one bubble identifier. Nil is
// fine for single-instance deployments; the in-process keyed mutex already
// serializes upserts per bubble.
type LockFactory func(bubbleID string) distlock.DistLock

// Service implements bubble state management. It coordinates the scoring
// pipeline, persona resolution, and the repository layer. All public methods
// are safe for concurrent use if the underlying repository is
// concurrency-safe.
type Service struct {
	repo     Repository
	newLock  LockFactory
	mu       sync.Mutex
	perKey   map[string]*sync.Mutex
	now      func() time.Time
}

// NewService creates a bubble service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{
		repo:   repo,
		perKey: make(map[string]*sync.Mutex),
		now:    time.Now,
	}
}

// WithLockFactory enables cross-process upsert locking for deployments where
// several instances share one durable repository.
func (s *Service) WithLockFactory(f LockFactory) *Service {
	s.newLock = f
	return s
}

// keyLock returns the exclusive-access guard for one bubble identifier,
// creating it on first use. A single global lock would let a slow market
// bubble recalculation delay an unrelated personal bubble, so each identifier
// gets its own.
func (s *Service) keyLock(bubbleID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.perKey[bubbleID]
	if !ok {
		l = &sync.Mutex{}
		s.perKey[bubbleID] = l
	}
	return l
}

// Upsert validates and scores an indicator set, resolves the persona, and
// replaces the bubble's state wholesale. Conversation logs survive
// re-initialization. The returned snapshot is the newly-committed one.
//
// Concurrent upserts on the same identifier serialize; the later writer wins.
func (s *Service) Upsert(ctx context.Context, bubbleID string, indicators domain.IndicatorSet) (domain.BubbleSnapshot, error) {
	if bubbleID == "" {
		return domain.BubbleSnapshot{}, &scoring.ValidationError{Field: "bubble_id", Reason: "is missing"}
	}

	// Validate and score before taking any lock: a bad payload should fail
	// fast without blocking other writers.
	res, err := scoring.Evaluate(indicators)
	if err != nil {
		return domain.BubbleSnapshot{}, err
	}

	lock := s.keyLock(bubbleID)
	lock.Lock()
	defer lock.Unlock()

	if s.newLock != nil {
		dl := s.newLock(bubbleID)
		if err := acquireWithWait(ctx, dl); err != nil {
			return domain.BubbleSnapshot{}, fmt.Errorf("acquiring bubble lock %s: %w", bubbleID, err)
		}
		defer func() {
			if err := dl.Release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("bubble lock release failed", "bubble_id", bubbleID, "error", err)
			}
		}()
	}

	snap := domain.BubbleSnapshot{
		BubbleID:  bubbleID,
		RiskScore: res.Score,
		RiskLevel: res.Level,
		Persona:   persona.Resolve(res.Level),
		Summary:   res.Summary,
		UpdatedAt: s.now().UTC(),
	}

	if err := s.repo.ReplaceState(ctx, bubbleID, indicators, snap); err != nil {
		return domain.BubbleSnapshot{}, fmt.Errorf("replacing state for %s: %w", bubbleID, err)
	}

	logger.Info("bubble initialized",
		"bubble_id", bubbleID,
		"risk_score", fmt.Sprintf("%.2f", snap.RiskScore),
		"risk_level", string(snap.RiskLevel))
	return snap, nil
}

// Get returns the committed snapshot. ErrNotFound for never-initialized ids;
// an in-progress upsert is invisible, the prior snapshot is returned.
func (s *Service) Get(ctx context.Context, bubbleID string) (domain.BubbleSnapshot, error) {
	return s.repo.GetSnapshot(ctx, bubbleID)
}

// AppendTurn records one completed exchange. The bubble must exist; the
// conversation log is created lazily on first turn.
func (s *Service) AppendTurn(ctx context.Context, key domain.ConversationKey, userText, agentText string) error {
	return s.repo.AppendTurn(ctx, key, domain.Turn{
		UserText:  userText,
		AgentText: agentText,
		Timestamp: s.now().UTC(),
	})
}

// History returns the ordered turn log for one (bubble, conversation) pair.
func (s *Service) History(ctx context.Context, key domain.ConversationKey) ([]domain.Turn, error) {
	return s.repo.History(ctx, key)
}

// ClearConversation drops one conversation log without touching the bubble's
// indicator state.
func (s *Service) ClearConversation(ctx context.Context, key domain.ConversationKey) error {
	return s.repo.ClearConversation(ctx, key)
}

// Count reports how many bubble identifiers are known. Diagnostic only.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// acquireWithWait polls a distributed lock until acquired or the context is
// done. The poll interval is short; contention on one bubble id is rare.
func acquireWithWait(ctx context.Context, dl distlock.DistLock) error {
	for {
		ok, err := dl.Acquire(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}
