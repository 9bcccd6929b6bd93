// Package config loads spark configuration from YAML with environment
// overrides. The file is read once at startup; Watcher (watcher.go) can
// reload it when it changes on disk.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"spark/internal/logging"
)

// Config holds all spark configuration.
type Config struct {
	Assistant AssistantConfig `yaml:"assistant"`
	Voice     VoiceConfig     `yaml:"voice"`
	LLM       LLMConfig       `yaml:"llm"`
	Weather   WeatherConfig   `yaml:"weather"`
	History   HistoryConfig   `yaml:"history"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// AssistantConfig names the assistant and sets cross-handler defaults.
type AssistantConfig struct {
	Name            string `yaml:"name"`
	DefaultLocation string `yaml:"default_location"`
}

// VoiceConfig carries the recognition tuning. Only ConfidenceThreshold is
// consumed by this core; the audio values are passed through to the
// speech-capture collaborators.
type VoiceConfig struct {
	WakeWords           []string `yaml:"wake_words"`
	ConfidenceThreshold float64  `yaml:"confidence_threshold"`
	SampleRate          int      `yaml:"sample_rate"`
	ChunkSize           int      `yaml:"chunk_size"`
	EnableTTS           bool     `yaml:"enable_tts"`
}

// LLMConfig configures the conversational fallback collaborator.
type LLMConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider"` // ollama, genai
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	Timeout  string `yaml:"timeout"`
}

// TimeoutDuration parses the timeout string, defaulting to 20s.
func (c LLMConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 20 * time.Second
	}
	return d
}

// WeatherConfig configures the OpenWeather lookup handler.
type WeatherConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	Units   string `yaml:"units"`
	BaseURL string `yaml:"base_url"`
}

// HistoryConfig configures the command history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures the category logger.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Directory string `yaml:"directory"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Assistant: AssistantConfig{
			Name: "spark",
		},
		Voice: VoiceConfig{
			WakeWords:           []string{"hey spark", "spark", "computer"},
			ConfidenceThreshold: 0.7,
			SampleRate:          16000,
			ChunkSize:           1024,
			EnableTTS:           false,
		},
		LLM: LLMConfig{
			Enabled:  false,
			Provider: "ollama",
			BaseURL:  "http://localhost:11434",
			Model:    "llama3.2",
			Timeout:  "20s",
		},
		Weather: WeatherConfig{
			Enabled: false,
			Units:   "metric",
			BaseURL: "https://api.openweathermap.org",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "spark_history.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path (if it exists), applies environment
// overrides, and validates the result. A missing file is not an error;
// defaults plus environment win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			logging.Config("loaded configuration from %s", path)
		case os.IsNotExist(err):
			logging.Config("config file %s not found, using defaults", path)
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers environment variables over the file values.
// The variable names match the original deployment environment.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_ENABLED"); v != "" {
		c.LLM.Enabled = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
		if c.LLM.Provider == "" {
			c.LLM.Provider = "genai"
		}
	}
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		c.Weather.APIKey = v
		c.Weather.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// Validate enforces the documented ranges.
func (c *Config) Validate() error {
	if c.Voice.ConfidenceThreshold < 0 || c.Voice.ConfidenceThreshold > 1 {
		return fmt.Errorf("voice.confidence_threshold %.2f outside [0,1]", c.Voice.ConfidenceThreshold)
	}
	switch c.LLM.Provider {
	case "", "ollama", "genai":
	default:
		return fmt.Errorf("llm.provider %q not supported (want ollama or genai)", c.LLM.Provider)
	}
	if c.Weather.Units != "" && c.Weather.Units != "metric" && c.Weather.Units != "imperial" {
		return fmt.Errorf("weather.units %q not supported (want metric or imperial)", c.Weather.Units)
	}
	return nil
}

// Save writes the configuration back to disk as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	logging.Config("configuration saved to %s", path)
	return nil
}
