package actions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spark/internal/intent"
)

func weatherServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWeatherLookup(t *testing.T) {
	srv := weatherServer(t, http.StatusOK, map[string]any{
		"name": "Paris",
		"weather": []map[string]string{
			{"description": "light rain"},
		},
		"main": map[string]any{"temp": 14.3, "humidity": 82},
	})

	w := NewWeatherClient(srv.URL, "k123", "metric", "")
	msg, err := w.Lookup(context.Background(), intent.Entities{Location: "paris"})
	require.NoError(t, err)
	assert.Equal(t, "It's 14°C with light rain in Paris", msg)
}

func TestWeatherDefaultLocation(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "London"})
	}))
	defer srv.Close()

	w := NewWeatherClient(srv.URL, "k123", "metric", "London")
	_, err := w.Lookup(context.Background(), intent.Entities{})
	require.NoError(t, err)
	assert.Equal(t, "London", gotQuery)
}

func TestWeatherNoLocationAnywhere(t *testing.T) {
	w := NewWeatherClient("http://unused", "k123", "metric", "")
	_, err := w.Lookup(context.Background(), intent.Entities{})
	assert.Error(t, err)
}

func TestWeatherMissingAPIKey(t *testing.T) {
	w := NewWeatherClient("http://unused", "", "metric", "London")
	_, err := w.Lookup(context.Background(), intent.Entities{})
	assert.Error(t, err)
}

func TestWeatherUnknownCity(t *testing.T) {
	srv := weatherServer(t, http.StatusNotFound, map[string]any{"message": "city not found"})

	w := NewWeatherClient(srv.URL, "k123", "metric", "")
	_, err := w.Lookup(context.Background(), intent.Entities{Location: "atlantis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "atlantis")
}

func TestWeatherImperialUnits(t *testing.T) {
	srv := weatherServer(t, http.StatusOK, map[string]any{
		"name":    "Phoenix",
		"weather": []map[string]string{{"description": "clear sky"}},
		"main":    map[string]any{"temp": 101.0},
	})

	w := NewWeatherClient(srv.URL, "k123", "imperial", "")
	msg, err := w.Lookup(context.Background(), intent.Entities{Location: "phoenix"})
	require.NoError(t, err)
	assert.Contains(t, msg, "101°F")
}
