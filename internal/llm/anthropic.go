package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/wezza-dev/prembot/internal/models"
	"github.com/wezza-dev/prembot/internal/prompts"
)

// AnthropicClassifier classifies intents with a Claude model via
// langchaingo. Temperature is pinned low so the label set stays stable.
type AnthropicClassifier struct {
	model     llms.Model
	maxTokens int
}

func NewAnthropicClassifier(apiKey, model string, timeout time.Duration) (*AnthropicClassifier, error) {
	client, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(model),
		anthropic.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic client: %w", err)
	}

	return &AnthropicClassifier{
		model:     client,
		maxTokens: 64,
	}, nil
}

func (a *AnthropicClassifier) ClassifyIntent(ctx context.Context, text string) (models.Intent, error) {
	prompt := prompts.BuildClassifyPrompt(text)

	content, err := llms.GenerateFromSinglePrompt(ctx, a.model, prompt,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(a.maxTokens),
	)
	if err != nil {
		return models.IntentUnrecognized, fmt.Errorf("anthropic call failed: %w", err)
	}

	intent, err := prompts.ParseIntentResponse(content)
	if err != nil {
		return models.IntentUnrecognized, fmt.Errorf("failed to parse classifier response: %w", err)
	}

	return intent, nil
}
