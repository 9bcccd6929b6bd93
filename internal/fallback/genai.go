package fallback

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GenAIResponder talks to Google's Gemini API.
type GenAIResponder struct {
	client *genai.Client
	model  string
}

// NewGenAIResponder creates a Gemini-backed responder.
func NewGenAIResponder(apiKey, model string) (*GenAIResponder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIResponder{client: client, model: model}, nil
}

// Respond sends the utterance to the model.
func (r *GenAIResponder) Respond(ctx context.Context, utterance string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(utterance, genai.RoleUser),
	}

	result, err := r.client.Models.GenerateContent(ctx, r.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("GenAI request failed: %w", err)
	}

	reply := strings.TrimSpace(result.Text())
	if reply == "" {
		return "", fmt.Errorf("GenAI returned an empty reply")
	}
	return reply, nil
}

// Name returns the provider identity for logs.
func (r *GenAIResponder) Name() string {
	return fmt.Sprintf("genai:%s", r.model)
}
