package suggest

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-1.5-flash"

var ErrEmptyResponse = errors.New("empty response from model")

// GeminiCompleter calls the Gemini API.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
