package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/ignite/bubble-agent/internal/config"
	"github.com/ignite/bubble-agent/internal/pkg/logger"
)

// BedrockInvoker is the slice of the Bedrock runtime client we use; tests
// substitute a fake.
type BedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient generates bubble replies via AWS Bedrock (Claude). All
// traffic stays inside AWS, which some deployments require.
type BedrockClient struct {
	client  BedrockInvoker
	modelID string
}

type bedrockMessage struct {
	Role    string                `json:"role"`
	Content []bedrockContentBlock `json:"content"`
}

type bedrockContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	Messages         []bedrockMessage `json:"messages"`
	Temperature      float64          `json:"temperature,omitempty"`
}

type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewBedrockClient creates a Bedrock-backed generator using the default AWS
// credential chain.
func NewBedrockClient(ctx context.Context, cfg config.BedrockConfig) (*BedrockClient, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	logger.Info("bedrock generator initialized", "model_id", cfg.ModelID, "region", cfg.Region)
	return &BedrockClient{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.ModelID,
	}, nil
}

// NewBedrockClientWithInvoker wires a custom invoker (tests).
func NewBedrockClientWithInvoker(invoker BedrockInvoker, modelID string) *BedrockClient {
	return &BedrockClient{client: invoker, modelID: modelID}
}

// Generate sends the assembled prompt to Claude and concatenates the text
// blocks of the answer.
func (b *BedrockClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(bedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        500,
		Temperature:      0.8,
		Messages: []bedrockMessage{{
			Role:    "user",
			Content: []bedrockContentBlock{{Type: "text", Text: prompt}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	output, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        reqBody,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock invoke: %w", err)
	}

	var parsed bedrockResponse
	if err := json.Unmarshal(output.Body, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty completion (stop reason %q)", parsed.StopReason)
	}
	return text, nil
}

// Ping is a no-op connectivity check: credential problems surface on the
// first Generate, and an InvokeModel ping would bill tokens.
func (b *BedrockClient) Ping(ctx context.Context) error {
	return nil
}
