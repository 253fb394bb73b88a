package ai

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"telegram-job-applier/internal/domain/model"
	"telegram-job-applier/internal/domain/ports/adapter"
)

var _ adapter.AnswerGenerator = (*GeminiAdapter)(nil)

// GeminiAdapter drafts answers through the official Gemini SDK.
type GeminiAdapter struct {
	client    *genai.Client
	model     string
	maxTokens int
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string, maxTokens int) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model, maxTokens: maxTokens}, nil
}

func (g *GeminiAdapter) DraftAnswer(ctx context.Context, profile *model.UserProfile, question string) (string, error) {
	// Token budgeting reuses the OpenAI tokenizer as an approximation; Gemini
	// counts differently but the budget only guards against runaway prompts.
	prompt, err := BuildAnswerPrompt(profile, question, "gpt-4o-mini", g.maxTokens)
	if err != nil {
		return "", err
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(answerSystemPrompt+"\n\n"+prompt), nil)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
