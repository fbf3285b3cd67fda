package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes. The browser client posts recorded
// audio directly, so CORS is wide open on methods but pinned to the
// configured origins.
func SetupRoutes(h *Handlers, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Service banner and health probes (no /api prefix)
	r.Get("/", h.Root)
	r.Get("/health", h.health.HandleHealth)
	r.Get("/health/live", h.health.HandleLiveness)
	r.Get("/health/ready", h.health.HandleReadiness)

	r.Route("/api", func(r chi.Router) {
		r.Post("/initialize", h.Initialize)
		r.Get("/bubble-status/{bubbleID}", h.BubbleStatus)
		r.Post("/chat/voice", h.VoiceChat)
		r.Get("/greeting", h.Greeting)
		r.Get("/conversations/{bubbleID}/{conversationID}", h.ConversationHistory)
		r.Delete("/conversations/{bubbleID}/{conversationID}", h.ClearConversation)
	})

	return r
}
