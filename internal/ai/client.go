package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/smartinv/inventory-backend/pkg/config"
)

const insightsTemperature float32 = 0.7

// Generator produces text for a prompt. Wrapping the vendor client behind
// this interface keeps the service testable without network calls.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiClient is the production Generator backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds a Gemini-backed generator from config.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  cfg.Model,
	}, nil
}

func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](insightsTemperature),
	})
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}
