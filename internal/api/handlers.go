package api

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/bubble-agent/internal/domain"
	"github.com/ignite/bubble-agent/internal/pkg/httputil"
	"github.com/ignite/bubble-agent/internal/scoring"
	"github.com/ignite/bubble-agent/internal/service/bubble"
	"github.com/ignite/bubble-agent/internal/service/conversation"
)

// Handlers holds the HTTP handlers and their service dependencies.
type Handlers struct {
	bubbles       *bubble.Service
	conversations *conversation.Service
	health        *HealthChecker
}

// NewHandlers creates the handler set.
func NewHandlers(bubbles *bubble.Service, conversations *conversation.Service, health *HealthChecker) *Handlers {
	return &Handlers{
		bubbles:       bubbles,
		conversations: conversations,
		health:        health,
	}
}

// bubbleState is the wire shape of a snapshot. The persona travels under
// "personality" to match the frontend contract.
type bubbleState struct {
	BubbleID    string           `json:"bubble_id"`
	RiskScore   float64          `json:"risk_score"`
	RiskLevel   domain.RiskLevel `json:"risk_level"`
	Personality domain.Persona   `json:"personality"`
	Summary     string           `json:"summary"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func toState(snap domain.BubbleSnapshot) bubbleState {
	return bubbleState{
		BubbleID:    snap.BubbleID,
		RiskScore:   snap.RiskScore,
		RiskLevel:   snap.RiskLevel,
		Personality: snap.Persona,
		Summary:     snap.Summary,
		UpdatedAt:   snap.UpdatedAt,
	}
}

// writeServiceError maps service-layer errors onto the HTTP error taxonomy:
// caller-fixable payloads to 400, unknown bubbles to 404, provider failures
// to 502 tagged with the failing stage, everything else to 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var vErr *scoring.ValidationError
	if errors.As(err, &vErr) {
		httputil.JSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error:   vErr.Error(),
			Code:    "invalid_metrics",
			Details: map[string]string{"field": vErr.Field},
		})
		return
	}
	if errors.Is(err, bubble.ErrNotFound) {
		httputil.NotFound(w, "bubble_not_found", bubble.ErrNotFound.Error())
		return
	}
	var sErr *conversation.StageError
	if errors.As(err, &sErr) {
		httputil.BadGateway(w, string(sErr.Stage)+"_failed", sErr.Error())
		return
	}
	httputil.InternalError(w, err)
}

// Root returns the service banner with the endpoint list.
//
//	GET /
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{
		"service": "bubble-agent",
		"message": "Economic bubble conversation engine",
		"endpoints": []string{
			"POST /api/initialize",
			"GET /api/bubble-status/{bubbleID}",
			"POST /api/chat/voice",
			"GET /api/greeting",
			"GET /api/conversations/{bubbleID}/{conversationID}",
			"DELETE /api/conversations/{bubbleID}/{conversationID}",
			"GET /health",
		},
	})
}

type initializeRequest struct {
	BubbleID string              `json:"bubble_id"`
	Metrics  domain.IndicatorSet `json:"metrics"`
}

// Initialize creates or replaces a bubble's state from a metrics payload and
// returns the committed snapshot.
//
//	POST /api/initialize
func (h *Handlers) Initialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	snap, err := h.bubbles.Upsert(r.Context(), req.BubbleID, req.Metrics)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httputil.OK(w, toState(snap))
}

// BubbleStatus returns the committed snapshot for one bubble.
//
//	GET /api/bubble-status/{bubbleID}
func (h *Handlers) BubbleStatus(w http.ResponseWriter, r *http.Request) {
	bubbleID := chi.URLParam(r, "bubbleID")

	snap, err := h.bubbles.Get(r.Context(), bubbleID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httputil.OK(w, toState(snap))
}

type voiceChatRequest struct {
	BubbleID       string `json:"bubble_id"`
	AudioBase64    string `json:"audio_base64"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type voiceChatResponse struct {
	ConversationID string      `json:"conversation_id"`
	UserTranscript string      `json:"user_transcript"`
	BubbleResponse string      `json:"bubble_response"`
	AudioBase64    string      `json:"audio_base64"`
	BubbleState    bubbleState `json:"bubble_state"`
}

// VoiceChat runs one full conversation turn: decode audio, transcribe,
// generate the in-character reply, synthesize it, and log the exchange.
//
//	POST /api/chat/voice
func (h *Handlers) VoiceChat(w http.ResponseWriter, r *http.Request) {
	var req voiceChatRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		httputil.BadRequest(w, "bad_audio", "audio_base64 is not valid base64: "+err.Error())
		return
	}

	reply, err := h.conversations.Converse(r.Context(), conversation.Request{
		BubbleID:       req.BubbleID,
		Audio:          audio,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httputil.OK(w, voiceChatResponse{
		ConversationID: reply.ConversationID,
		UserTranscript: reply.UserText,
		BubbleResponse: reply.AgentText,
		AudioBase64:    base64.StdEncoding.EncodeToString(reply.Audio),
		BubbleState:    toState(reply.Snapshot),
	})
}

// Greeting returns the fixed opening line the client plays before the first
// user utterance.
//
//	GET /api/greeting
func (h *Handlers) Greeting(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"greeting": conversation.Greeting()})
}

// ConversationHistory returns the full turn log for one conversation.
//
//	GET /api/conversations/{bubbleID}/{conversationID}
func (h *Handlers) ConversationHistory(w http.ResponseWriter, r *http.Request) {
	key := domain.ConversationKey{
		BubbleID:       chi.URLParam(r, "bubbleID"),
		ConversationID: chi.URLParam(r, "conversationID"),
	}

	turns, err := h.bubbles.History(r.Context(), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if turns == nil {
		turns = []domain.Turn{}
	}

	httputil.OK(w, map[string]any{
		"bubble_id":       key.BubbleID,
		"conversation_id": key.ConversationID,
		"turns":           turns,
	})
}

// ClearConversation drops one conversation's log. Clearing a conversation
// that never existed is a success.
//
//	DELETE /api/conversations/{bubbleID}/{conversationID}
func (h *Handlers) ClearConversation(w http.ResponseWriter, r *http.Request) {
	key := domain.ConversationKey{
		BubbleID:       chi.URLParam(r, "bubbleID"),
		ConversationID: chi.URLParam(r, "conversationID"),
	}

	if err := h.bubbles.ClearConversation(r.Context(), key); err != nil {
		writeServiceError(w, err)
		return
	}

	httputil.NoContent(w)
}
