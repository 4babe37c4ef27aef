package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/plan-autofill/internal/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiGenerator drafts sections with Google's Gemini models.
type GeminiGenerator struct {
	client   *genai.Client
	model    string
	language string
	timeout  time.Duration
	logger   *zap.Logger
}

// Ensure interface compliance
var _ Generator = (*GeminiGenerator)(nil)

// NewGenerator returns a Gemini generator when narrative drafting is enabled
// and an API key is present, and Unavailable otherwise.
func NewGenerator(ctx context.Context, logger *zap.Logger, conf config.NarrativeConfig) Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !conf.Enabled {
		return Unavailable{}
	}

	apiKey := os.Getenv(conf.APIKeyEnv)
	if apiKey == "" {
		logger.Warn(fmt.Sprintf("%s is not set, narrative drafting disabled", conf.APIKeyEnv),
			zap.String("op", "narrative.NewGenerator"),
		)
		return Unavailable{}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		logger.Warn("failed to create GenAI client, narrative drafting disabled",
			zap.String("op", "narrative.NewGenerator"),
			zap.Error(err),
		)
		return Unavailable{}
	}

	return &GeminiGenerator{
		client:   client,
		model:    conf.Model,
		language: conf.Language,
		timeout:  conf.Timeout,
		logger:   logger,
	}
}

// Generate sends a single generateContent request for one section.
func (g *GeminiGenerator) Generate(ctx context.Context, title, instructions string, plan Context) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	prompt, err := buildPrompt(title, instructions, g.language, plan)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.5)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: gemini generation failed: %v", ErrUnavailable, err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	g.logger.Debug("narrative section drafted",
		zap.String("op", "narrative.GeminiGenerator.Generate"),
		zap.String("section", title),
		zap.String("model", g.model),
		zap.Duration("duration", time.Since(start)),
	)
	return text, nil
}

func buildPrompt(title, instructions, language string, plan Context) (string, error) {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("failed to encode plan context: %w", err)
	}
	return fmt.Sprintf("Write a clear text for the business plan section '%s' in language %q. Context: %s. %s Use 120-200 words.",
		title, language, planJSON, instructions), nil
}
