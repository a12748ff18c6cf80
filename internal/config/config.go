package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Inputs struct {
		Dir           string `yaml:"dir"`
		Visuals       string `yaml:"visuals"`        // detected visuals (final.json)
		ReportVisuals string `yaml:"report_visuals"` // placed visual containers
		Schema        string `yaml:"schema"`
		Actions       string `yaml:"actions"`
		Positions     string `yaml:"positions"`
		Reference     string `yaml:"reference"`
	} `yaml:"inputs"`
	AI struct {
		Provider       string `yaml:"provider"` // gemini, openai or none
		Model          string `yaml:"model"`
		APIKey         string `yaml:"api_key"`
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"ai"`
	Store struct {
		Path                 string `yaml:"path"`
		CacheClassifications bool   `yaml:"cache_classifications"`
	} `yaml:"store"`
	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Inputs.Dir = "."
	cfg.Inputs.Visuals = "final.json"
	cfg.Inputs.ReportVisuals = "visuals_output.json"
	cfg.Inputs.Schema = "schema_output.json"
	cfg.Inputs.Actions = "combined_parameter_actions.json"
	cfg.Inputs.Positions = "powerbi_chart_positions.json"
	cfg.Inputs.Reference = "Reference Chart Configurations.txt"
	cfg.AI.Provider = "gemini"
	cfg.AI.Model = "gemini-2.5-flash"
	cfg.AI.TimeoutSeconds = 60
	cfg.Store.Path = "vizsynth.db"
	cfg.Store.CacheClassifications = true
	cfg.Output.Dir = "output"
	cfg.Log.Level = "info"
	return &cfg
}

// LoadConfig reads path on top of the defaults. A missing file is not an
// error. Environment variables override the file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("VIZSYNTH_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	} else if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if provider := os.Getenv("VIZSYNTH_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if model := os.Getenv("VIZSYNTH_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))

	return cfg, nil
}

// ClassifierTimeout is zero when no bound is configured.
func (c *Config) ClassifierTimeout() time.Duration {
	if c.AI.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}
