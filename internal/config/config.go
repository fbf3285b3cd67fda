// Package config loads the bubble agent configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	OpenAI       OpenAIConfig       `yaml:"openai"`
	Bedrock      BedrockConfig      `yaml:"bedrock"`
	ElevenLabs   ElevenLabsConfig   `yaml:"elevenlabs"`
	Storage      StorageConfig      `yaml:"storage"`
	Redis        RedisConfig        `yaml:"redis"`
	Conversation ConversationConfig `yaml:"conversation"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// OpenAIConfig holds the chat completion provider settings. The default
// temperature is deliberately high: the bubble needs personality more than it
// needs precision.
type OpenAIConfig struct {
	APIKey         string  `yaml:"api_key"`
	BaseURL        string  `yaml:"base_url"`
	Model          string  `yaml:"model"`
	Temperature    float64 `yaml:"temperature"`
	MaxTokens      int     `yaml:"max_tokens"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
}

// Timeout returns the HTTP client timeout for OpenAI calls.
func (c OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BedrockConfig selects AWS Bedrock as the reply generator instead of OpenAI.
type BedrockConfig struct {
	Enabled bool   `yaml:"enabled"`
	ModelID string `yaml:"model_id"`
	Region  string `yaml:"region"`
}

// ElevenLabsConfig holds the speech-to-text / text-to-speech provider settings.
type ElevenLabsConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	VoiceID        string `yaml:"voice_id"`
	ModelID        string `yaml:"model_id"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the HTTP client timeout for ElevenLabs calls.
func (c ElevenLabsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig picks the bubble repository backend.
type StorageConfig struct {
	Type        string `yaml:"type"` // "memory" or "postgres"
	DatabaseURL string `yaml:"database_url"`
}

// RedisConfig enables cross-process bubble locking when several instances
// share one durable repository. Empty addr disables it.
type RedisConfig struct {
	Addr           string `yaml:"addr"`
	LockTTLSeconds int    `yaml:"lock_ttl_seconds"`
}

// LockTTL returns the distributed lock expiry.
func (c RedisConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// ConversationConfig bounds the prompt history window.
type ConversationConfig struct {
	MaxHistoryTurns int `yaml:"max_history_turns"`
	MaxHistoryChars int `yaml:"max_history_chars"`
}

// Load reads and parses the configuration file, then applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:8080"}
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4o-mini"
	}
	if cfg.OpenAI.Temperature == 0 {
		cfg.OpenAI.Temperature = 0.8
	}
	if cfg.OpenAI.MaxTokens == 0 {
		cfg.OpenAI.MaxTokens = 500
	}
	if cfg.OpenAI.TimeoutSeconds == 0 {
		cfg.OpenAI.TimeoutSeconds = 60
	}
	if cfg.Bedrock.ModelID == "" {
		cfg.Bedrock.ModelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	}
	if cfg.Bedrock.Region == "" {
		cfg.Bedrock.Region = "us-east-1"
	}
	if cfg.ElevenLabs.BaseURL == "" {
		cfg.ElevenLabs.BaseURL = "https://api.elevenlabs.io"
	}
	if cfg.ElevenLabs.VoiceID == "" {
		cfg.ElevenLabs.VoiceID = "21m00Tcm4TlvDq8ikWAM"
	}
	if cfg.ElevenLabs.ModelID == "" {
		cfg.ElevenLabs.ModelID = "eleven_multilingual_v2"
	}
	if cfg.ElevenLabs.TimeoutSeconds == 0 {
		cfg.ElevenLabs.TimeoutSeconds = 60
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "memory"
	}
	if cfg.Redis.LockTTLSeconds == 0 {
		cfg.Redis.LockTTLSeconds = 30
	}
	if cfg.Conversation.MaxHistoryTurns == 0 {
		cfg.Conversation.MaxHistoryTurns = 10
	}
	if cfg.Conversation.MaxHistoryChars == 0 {
		cfg.Conversation.MaxHistoryChars = 8000
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		cfg.ElevenLabs.APIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Storage.Type = "postgres"
		cfg.Storage.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	return cfg, nil
}

// Validate checks that the selected providers have their credentials. It
// fails loudly at boot rather than on the first conversation.
func (c *Config) Validate() error {
	if !c.Bedrock.Enabled && c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key (or OPENAI_API_KEY) is required unless bedrock is enabled")
	}
	if c.ElevenLabs.APIKey == "" {
		return fmt.Errorf("elevenlabs.api_key (or ELEVENLABS_API_KEY) is required")
	}
	if c.Storage.Type == "postgres" && c.Storage.DatabaseURL == "" {
		return fmt.Errorf("storage.database_url is required for the postgres store")
	}
	if c.Storage.Type != "memory" && c.Storage.Type != "postgres" {
		return fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type)
	}
	return nil
}
