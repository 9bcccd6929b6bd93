// Package fallback answers utterances the rule-based pipeline could not
// handle by consulting a conversational model. It is strictly optional:
// when disabled or unreachable the caller keeps the deterministic "not
// understood" reply.
package fallback

import (
	"context"
	"fmt"

	"spark/internal/config"
	"spark/internal/logging"
)

// Responder produces a conversational reply for an unhandled utterance.
type Responder interface {
	// Respond returns a short reply to the raw utterance.
	Respond(ctx context.Context, utterance string) (string, error)
	// Name identifies the backing provider for logs.
	Name() string
}

// systemPrompt keeps replies short enough to be spoken aloud.
const systemPrompt = "You are a concise voice assistant. Answer in one or two short sentences suitable for being read aloud."

// New builds a Responder from the configuration. It returns (nil, nil)
// when the fallback is disabled; callers must treat a nil Responder as
// "no fallback".
func New(cfg config.LLMConfig) (Responder, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Provider {
	case "", "ollama":
		r := NewOllamaResponder(cfg.BaseURL, cfg.Model, cfg.TimeoutDuration())
		logging.Fallback("conversational fallback enabled (%s)", r.Name())
		return r, nil
	case "genai":
		r, err := NewGenAIResponder(cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		logging.Fallback("conversational fallback enabled (%s)", r.Name())
		return r, nil
	default:
		return nil, fmt.Errorf("unknown fallback provider %q", cfg.Provider)
	}
}
