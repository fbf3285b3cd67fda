package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ignite/bubble-agent/internal/domain"
	"github.com/ignite/bubble-agent/internal/pkg/logger"
	"github.com/ignite/bubble-agent/internal/service/bubble"
)

// Defaults for prompt truncation; the original agent kept the last ten
// exchanges to stay inside the model context window.
const (
	DefaultMaxHistoryTurns = 10
	DefaultMaxHistoryChars = 8000
)

// Request is one voice conversation call.
type Request struct {
	BubbleID       string
	Audio          []byte
	ConversationID string // minted if empty
}

// Reply is the completed turn: both transcripts, the synthesized audio, and
// the bubble snapshot the reply was conditioned on. The snapshot reflects
// state at read time; a re-initialization racing with this call may land
// between the read and the log append, which is documented, not hidden.
type Reply struct {
	ConversationID string
	UserText       string
	AgentText      string
	Audio          []byte
	Snapshot       domain.BubbleSnapshot
}

// Service orchestrates one conversation turn across the three external
// providers and the bubble store.
type Service struct {
	store       *bubble.Service
	transcriber Transcriber
	generator   Generator
	synthesizer Synthesizer

	maxHistoryTurns int
	maxHistoryChars int
}

// NewService creates a conversation orchestrator.
func NewService(store *bubble.Service, t Transcriber, g Generator, s Synthesizer) *Service {
	return &Service{
		store:           store,
		transcriber:     t,
		generator:       g,
		synthesizer:     s,
		maxHistoryTurns: DefaultMaxHistoryTurns,
		maxHistoryChars: DefaultMaxHistoryChars,
	}
}

// WithHistoryLimits overrides the prompt truncation bounds. Zero disables a
// bound.
func (s *Service) WithHistoryLimits(turns, chars int) *Service {
	s.maxHistoryTurns = turns
	s.maxHistoryChars = chars
	return s
}

// Converse runs the pipeline: transcribe, load state, build prompt, generate,
// synthesize, append. Terminal on first failure; an already-committed append
// is never rolled back when the caller goes away mid-return.
func (s *Service) Converse(ctx context.Context, req Request) (Reply, error) {
	if len(req.Audio) == 0 {
		return Reply{}, stageErr(StageTranscribe, errors.New("empty audio"))
	}

	userText, err := s.transcriber.Transcribe(ctx, req.Audio)
	if err != nil {
		return Reply{}, stageErr(StageTranscribe, err)
	}
	if strings.TrimSpace(userText) == "" {
		return Reply{}, stageErr(StageTranscribe, errors.New("unintelligible audio: empty transcript"))
	}

	snap, err := s.store.Get(ctx, req.BubbleID)
	if err != nil {
		// Not-found is caller-actionable (initialize first), so it passes
		// through unwrapped.
		return Reply{}, err
	}

	convID := req.ConversationID
	if convID == "" {
		convID = uuid.New().String()
	}
	key := domain.ConversationKey{BubbleID: req.BubbleID, ConversationID: convID}

	history, err := s.store.History(ctx, key)
	if err != nil {
		return Reply{}, fmt.Errorf("loading history: %w", err)
	}

	prompt := buildPrompt(snap, history, userText, s.maxHistoryTurns, s.maxHistoryChars)

	agentText, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return Reply{}, stageErr(StageGenerate, err)
	}

	audio, err := s.synthesizer.Synthesize(ctx, agentText)
	if err != nil {
		return Reply{}, stageErr(StageSynthesize, err)
	}

	if err := s.store.AppendTurn(ctx, key, userText, agentText); err != nil {
		return Reply{}, fmt.Errorf("appending turn: %w", err)
	}

	logger.Info("conversation turn completed",
		"bubble_id", req.BubbleID,
		"conversation_id", convID,
		"risk_level", string(snap.RiskLevel))

	return Reply{
		ConversationID: convID,
		UserText:       userText,
		AgentText:      agentText,
		Audio:          audio,
		Snapshot:       snap,
	}, nil
}
