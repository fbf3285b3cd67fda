package conversation

import "context"

// Capability interfaces for the external voice/AI providers. Implementations
// live in internal/voice and internal/llm; tests substitute deterministic
// fakes so the suite never touches the network.

// Transcriber converts raw audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Generator produces the bubble's reply for a fully-assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Synthesizer converts reply text to audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
