package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0.7, cfg.Voice.ConfidenceThreshold)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.BaseURL)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)
	assert.False(t, cfg.LLM.Enabled)
	assert.False(t, cfg.Weather.Enabled)
	assert.True(t, cfg.History.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Voice.ConfidenceThreshold, cfg.Voice.ConfidenceThreshold)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spark.yaml")
	data := `
assistant:
  name: jarvis
  default_location: London
voice:
  confidence_threshold: 0.8
llm:
  enabled: true
  model: mistral
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "jarvis", cfg.Assistant.Name)
	assert.Equal(t, "London", cfg.Assistant.DefaultLocation)
	assert.Equal(t, 0.8, cfg.Voice.ConfidenceThreshold)
	assert.True(t, cfg.LLM.Enabled)
	assert.Equal(t, "mistral", cfg.LLM.Model)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spark.yaml")
	require.NoError(t, os.WriteFile(path, []byte("voice: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("llm overrides", func(t *testing.T) {
		t.Setenv("LLM_BASE_URL", "http://llm.internal:11434")
		t.Setenv("LLM_MODEL", "phi3")
		t.Setenv("LLM_ENABLED", "true")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "http://llm.internal:11434", cfg.LLM.BaseURL)
		assert.Equal(t, "phi3", cfg.LLM.Model)
		assert.True(t, cfg.LLM.Enabled)
	})

	t.Run("weather key enables weather", func(t *testing.T) {
		t.Setenv("OPENWEATHER_API_KEY", "k123")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.True(t, cfg.Weather.Enabled)
		assert.Equal(t, "k123", cfg.Weather.APIKey)
	})

	t.Run("log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "DEBUG")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("env wins over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spark.yaml")
		require.NoError(t, os.WriteFile(path, []byte("llm:\n  model: from-file\n"), 0o644))
		t.Setenv("LLM_MODEL", "from-env")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.LLM.Model)
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Voice.ConfidenceThreshold = 1.2
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LLM.Provider = "skynet"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Weather.Units = "kelvin"
	assert.Error(t, cfg.Validate())
}

func TestTimeoutDuration(t *testing.T) {
	assert.Equal(t, "20s", LLMConfig{}.TimeoutDuration().String())
	assert.Equal(t, "5s", LLMConfig{Timeout: "5s"}.TimeoutDuration().String())
	assert.Equal(t, "20s", LLMConfig{Timeout: "garbage"}.TimeoutDuration().String())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spark.yaml")
	cfg := Default()
	cfg.Assistant.Name = "jarvis"
	cfg.Voice.ConfidenceThreshold = 0.85
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "jarvis", loaded.Assistant.Name)
	assert.Equal(t, 0.85, loaded.Voice.ConfidenceThreshold)
}
