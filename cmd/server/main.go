package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/ignite/bubble-agent/internal/api"
	"github.com/ignite/bubble-agent/internal/config"
	"github.com/ignite/bubble-agent/internal/llm"
	"github.com/ignite/bubble-agent/internal/pkg/distlock"
	"github.com/ignite/bubble-agent/internal/repository/memory"
	"github.com/ignite/bubble-agent/internal/repository/postgres"
	"github.com/ignite/bubble-agent/internal/service/bubble"
	"github.com/ignite/bubble-agent/internal/service/conversation"
	"github.com/ignite/bubble-agent/internal/voice"
)

func main() {
	configPath := "config/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Repository: in-memory by default, postgres when a DSN is configured.
	repo, db, err := buildRepository(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	store := bubble.NewService(repo)

	// Cross-process bubble locking only matters when several instances share
	// a durable store.
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Redis unreachable at %s: %v", cfg.Redis.Addr, err)
		}
		store = store.WithLockFactory(distlock.RedisFactory(redisClient, cfg.Redis.LockTTL()))
		log.Printf("Distributed bubble locking enabled via Redis at %s", cfg.Redis.Addr)
	}

	generator, err := buildGenerator(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize reply generator: %v", err)
	}

	voiceClient := voice.NewElevenLabsClient(cfg.ElevenLabs)

	conv := conversation.NewService(store, voiceClient, generator, voiceClient).
		WithHistoryLimits(cfg.Conversation.MaxHistoryTurns, cfg.Conversation.MaxHistoryChars)

	health := api.NewHealthChecker(store, generator, voiceClient)
	handlers := api.NewHandlers(store, conv, health)
	server := api.NewServer(cfg.Server, handlers)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Starting bubble agent on %s (storage=%s)", addr, cfg.Storage.Type)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// buildRepository selects the bubble store backend. The postgres path applies
// the schema on boot so a fresh database works without a migration step.
func buildRepository(cfg config.StorageConfig) (bubble.Repository, *sql.DB, error) {
	if cfg.Type != "postgres" {
		return memory.New(), nil, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("opening postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if _, err := db.Exec(postgres.Schema); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("applying schema: %w", err)
	}

	return postgres.NewBubbleRepo(db), db, nil
}

// buildGenerator picks the reply provider: AWS Bedrock when enabled,
// otherwise the OpenAI chat completion API.
func buildGenerator(cfg *config.Config) (interface {
	conversation.Generator
	api.Pinger
}, error) {
	if cfg.Bedrock.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := llm.NewBedrockClient(ctx, cfg.Bedrock)
		if err != nil {
			return nil, err
		}
		log.Printf("Reply generator: AWS Bedrock (%s)", cfg.Bedrock.ModelID)
		return client, nil
	}

	log.Printf("Reply generator: OpenAI (%s)", cfg.OpenAI.Model)
	return llm.NewOpenAIClient(cfg.OpenAI), nil
}
