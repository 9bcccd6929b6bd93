package fallback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spark/internal/config"
)

func TestNewDisabledReturnsNil(t *testing.T) {
	r, err := New(config.LLMConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(config.LLMConfig{Enabled: true, Provider: "skynet"})
	assert.Error(t, err)
}

func TestNewDefaultsToOllama(t *testing.T) {
	r, err := New(config.LLMConfig{Enabled: true})
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "ollama:llama3.2", r.Name())
}

func TestNewGenAIRequiresKey(t *testing.T) {
	_, err := New(config.LLMConfig{Enabled: true, Provider: "genai"})
	assert.Error(t, err)
}

func TestOllamaRespond(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "tell me a joke", req.Messages[1].Content)
		assert.False(t, req.Stream)

		_ = json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "  Why did the gopher cross the road?  "},
		})
	}))
	defer srv.Close()

	r := NewOllamaResponder(srv.URL, "llama3.2", 5*time.Second)
	reply, err := r.Respond(context.Background(), "tell me a joke")
	require.NoError(t, err)
	assert.Equal(t, "Why did the gopher cross the road?", reply)
}

func TestOllamaRespondServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewOllamaResponder(srv.URL, "llama3.2", 5*time.Second)
	_, err := r.Respond(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestOllamaRespondEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaChatResponse{})
	}))
	defer srv.Close()

	r := NewOllamaResponder(srv.URL, "llama3.2", 5*time.Second)
	_, err := r.Respond(context.Background(), "hello")
	assert.Error(t, err)
}

func TestOllamaRespondUnreachable(t *testing.T) {
	r := NewOllamaResponder("http://127.0.0.1:1", "llama3.2", 500*time.Millisecond)
	_, err := r.Respond(context.Background(), "hello")
	assert.Error(t, err)
}
