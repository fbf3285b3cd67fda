package conversation_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/bubble-agent/internal/domain"
	"github.com/ignite/bubble-agent/internal/repository/memory"
	"github.com/ignite/bubble-agent/internal/scoring"
	"github.com/ignite/bubble-agent/internal/service/bubble"
	"github.com/ignite/bubble-agent/internal/service/conversation"
)

// Deterministic provider fakes. Each records the input it saw so tests can
// assert on the assembled prompt.

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte) (string, error) {
	return f.text, f.err
}

type fakeGenerator struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

type fakeSynthesizer struct {
	audio []byte
	err   error
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, _ string) ([]byte, error) {
	return f.audio, f.err
}

func validSet(value float64) domain.IndicatorSet {
	set := make(domain.IndicatorSet)
	for _, cat := range scoring.CategoryOrder {
		indicators := make(map[string]domain.Indicator)
		for _, name := range scoring.IndicatorNames(cat) {
			indicators[name] = domain.Indicator{Value: value, Weight: 25}
		}
		set[cat] = domain.Category{Weight: 20, Indicators: indicators}
	}
	return set
}

func newFixture(t *testing.T, value float64) (*bubble.Service, *conversation.Service, *fakeGenerator) {
	t.Helper()
	store := bubble.NewService(memory.New())
	_, err := store.Upsert(context.Background(), "market", validSet(value))
	require.NoError(t, err)

	gen := &fakeGenerator{reply: "I'm feeling stretched thin."}
	svc := conversation.NewService(store,
		&fakeTranscriber{text: "how are you feeling?"},
		gen,
		&fakeSynthesizer{audio: []byte("mp3-bytes")})
	return store, svc, gen
}

func TestConverseHappyPath(t *testing.T) {
	store, svc, _ := newFixture(t, 50)

	reply, err := svc.Converse(context.Background(), conversation.Request{
		BubbleID: "market",
		Audio:    []byte("raw-audio"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, reply.ConversationID, "a fresh conversation id is minted")
	assert.Equal(t, "how are you feeling?", reply.UserText)
	assert.Equal(t, "I'm feeling stretched thin.", reply.AgentText)
	assert.Equal(t, []byte("mp3-bytes"), reply.Audio)
	assert.Equal(t, domain.RiskMedium, reply.Snapshot.RiskLevel)

	turns, err := store.History(context.Background(),
		domain.ConversationKey{BubbleID: "market", ConversationID: reply.ConversationID})
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "how are you feeling?", turns[0].UserText)
}

func TestConverseContinuity(t *testing.T) {
	store, svc, gen := newFixture(t, 50)
	ctx := context.Background()

	first, err := svc.Converse(ctx, conversation.Request{BubbleID: "market", Audio: []byte("a")})
	require.NoError(t, err)

	second, err := svc.Converse(ctx, conversation.Request{
		BubbleID:       "market",
		Audio:          []byte("b"),
		ConversationID: first.ConversationID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, second.ConversationID)

	turns, err := store.History(ctx,
		domain.ConversationKey{BubbleID: "market", ConversationID: first.ConversationID})
	require.NoError(t, err)
	assert.Len(t, turns, 2)

	// The second prompt carries the first exchange.
	assert.Contains(t, gen.lastPrompt, "CONVERSATION SO FAR")
	assert.Contains(t, gen.lastPrompt, "I'm feeling stretched thin.")
}

func TestConverseMintsDistinctIDs(t *testing.T) {
	_, svc, _ := newFixture(t, 50)
	ctx := context.Background()

	first, err := svc.Converse(ctx, conversation.Request{BubbleID: "market", Audio: []byte("a")})
	require.NoError(t, err)
	second, err := svc.Converse(ctx, conversation.Request{BubbleID: "market", Audio: []byte("b")})
	require.NoError(t, err)

	assert.NotEqual(t, first.ConversationID, second.ConversationID)
}

func TestConverseUnknownBubble(t *testing.T) {
	store := bubble.NewService(memory.New())
	svc := conversation.NewService(store,
		&fakeTranscriber{text: "hello"},
		&fakeGenerator{reply: "hi"},
		&fakeSynthesizer{audio: []byte("x")})

	_, err := svc.Converse(context.Background(), conversation.Request{
		BubbleID: "ghost",
		Audio:    []byte("raw"),
	})
	assert.ErrorIs(t, err, bubble.ErrNotFound)
}

func TestConverseEmptyAudio(t *testing.T) {
	_, svc, _ := newFixture(t, 50)

	_, err := svc.Converse(context.Background(), conversation.Request{BubbleID: "market"})
	var serr *conversation.StageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, conversation.StageTranscribe, serr.Stage)
}

func TestConverseStageErrorIdentity(t *testing.T) {
	store := bubble.NewService(memory.New())
	_, err := store.Upsert(context.Background(), "market", validSet(50))
	require.NoError(t, err)

	boom := errors.New("provider down")
	cases := []struct {
		name  string
		svc   *conversation.Service
		stage conversation.Stage
	}{
		{
			name: "transcription",
			svc: conversation.NewService(store,
				&fakeTranscriber{err: boom}, &fakeGenerator{reply: "r"}, &fakeSynthesizer{audio: []byte("x")}),
			stage: conversation.StageTranscribe,
		},
		{
			name: "generation",
			svc: conversation.NewService(store,
				&fakeTranscriber{text: "hi"}, &fakeGenerator{err: boom}, &fakeSynthesizer{audio: []byte("x")}),
			stage: conversation.StageGenerate,
		},
		{
			name: "synthesis",
			svc: conversation.NewService(store,
				&fakeTranscriber{text: "hi"}, &fakeGenerator{reply: "r"}, &fakeSynthesizer{err: boom}),
			stage: conversation.StageSynthesize,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.svc.Converse(context.Background(), conversation.Request{
				BubbleID: "market", Audio: []byte("raw"),
			})
			var serr *conversation.StageError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tc.stage, serr.Stage)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestFailedTurnLeavesNoLogEntry(t *testing.T) {
	store := bubble.NewService(memory.New())
	_, err := store.Upsert(context.Background(), "market", validSet(50))
	require.NoError(t, err)

	svc := conversation.NewService(store,
		&fakeTranscriber{text: "hi"},
		&fakeGenerator{reply: "r"},
		&fakeSynthesizer{err: errors.New("tts down")})

	_, err = svc.Converse(context.Background(), conversation.Request{
		BubbleID:       "market",
		Audio:          []byte("raw"),
		ConversationID: "c1",
	})
	require.Error(t, err)

	turns, err := store.History(context.Background(),
		domain.ConversationKey{BubbleID: "market", ConversationID: "c1"})
	require.NoError(t, err)
	assert.Empty(t, turns, "the pair appends atomically only after synthesis")
}

func TestPromptReflectsPersona(t *testing.T) {
	_, svc, gen := newFixture(t, 90)

	_, err := svc.Converse(context.Background(), conversation.Request{
		BubbleID: "market", Audio: []byte("raw"),
	})
	require.NoError(t, err)

	assert.Contains(t, gen.lastPrompt, "HIGH")
	assert.Contains(t, gen.lastPrompt, "ready to BURST")
	assert.Contains(t, gen.lastPrompt, "Risk score: 90.0/100")
}

func TestGreetingNonEmpty(t *testing.T) {
	assert.True(t, strings.Contains(conversation.Greeting(), "bubble"))
}
