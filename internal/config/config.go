// Package config provides unified configuration loading for futuresim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the futuresim home directory.
const FileName = "config.yaml"

// Config contains all futuresim configuration settings.
type Config struct {
	// Simulation controls the branch runner.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Output controls where results are written.
	Output OutputConfig `json:"output" yaml:"output"`

	// LLM contains settings for the generative forecast source.
	LLM LLMConfig `json:"llm" yaml:"llm"`

	// Logging contains settings for operational and journal logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig configures scenario runs.
type SimulationConfig struct {
	// Workers bounds concurrent branches. Zero means one per CPU.
	Workers int `json:"workers" yaml:"workers" env:"FUTURESIM_WORKERS"`

	// Seed fixes the random streams. Zero draws a fresh seed per run.
	Seed int64 `json:"seed" yaml:"seed" env:"FUTURESIM_SEED"`

	// Deterministic disables noise and stochastic events entirely.
	Deterministic bool `json:"deterministic" yaml:"deterministic" env:"FUTURESIM_DETERMINISTIC"`

	// Autocheck verifies trajectory invariants after every run.
	Autocheck bool `json:"autocheck" yaml:"autocheck" env:"FUTURESIM_AUTOCHECK"`
}

// OutputConfig configures result persistence.
type OutputConfig struct {
	// Dir receives run files and the journal.
	Dir string `json:"dir" yaml:"dir" env:"FUTURESIM_OUTPUT_DIR"`

	// Format is "json" (default) or "sqlite".
	Format string `json:"format" yaml:"format" env:"FUTURESIM_OUTPUT_FORMAT"`

	// History is the SQLite archive path. Empty means ~/.futuresim/history.db.
	History string `json:"history,omitempty" yaml:"history,omitempty" env:"FUTURESIM_HISTORY_DB"`
}

// LoggingConfig configures futuresim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables the journal in the output directory.
	// "trace" additionally includes full forecast prompts and responses.
	Level string `json:"level" yaml:"level" env:"FUTURESIM_LOG_LEVEL"`
}

// LLMConfig configures the generative forecast source.
type LLMConfig struct {
	// Provider identifies the backend: "openai" or "" for disabled.
	Provider string `json:"provider" yaml:"provider" env:"FUTURESIM_LLM_PROVIDER"`

	// APIKey is the API key for the provider. Supports ${VAR} syntax for env vars.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" env:"OPENAI_API_KEY"`

	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" env:"OPENAI_BASE_URL"`

	// Model is the model identifier.
	Model string `json:"model,omitempty" yaml:"model,omitempty" env:"OPENAI_MODEL"`

	// Timeout bounds each request.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" env:"FUTURESIM_LLM_TIMEOUT"`

	// MaxRetries is the number of attempts per forecast.
	MaxRetries int `json:"max_retries" yaml:"max_retries" env:"FUTURESIM_LLM_MAX_RETRIES"`

	// RetryDelay is the linear retry step; attempt n waits n*RetryDelay.
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" env:"FUTURESIM_LLM_RETRY_DELAY"`

	// RequestsPerMinute paces requests. Zero means unlimited.
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute" env:"FUTURESIM_LLM_RPM"`

	// Temperature is the sampling temperature.
	Temperature float32 `json:"temperature" yaml:"temperature" env:"FUTURESIM_LLM_TEMPERATURE"`

	// MaxTokens caps completion length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" env:"FUTURESIM_LLM_MAX_TOKENS"`
}

// RedactedAPIKey returns the API key with most characters masked.
// Shows first 4 and last 4 characters, e.g., "sk-a...xyz9".
// Returns "" for empty keys and "(set)" for keys shorter than 12 chars.
func (c LLMConfig) RedactedAPIKey() string {
	if c.APIKey == "" {
		return ""
	}
	if len(c.APIKey) < 12 {
		return "(set)"
	}
	return c.APIKey[:4] + "..." + c.APIKey[len(c.APIKey)-4:]
}

// String implements fmt.Stringer to prevent accidental API key logging.
func (c LLMConfig) String() string {
	return fmt.Sprintf("LLMConfig{Provider:%s, APIKey:%s, Model:%s, BaseURL:%s}",
		c.Provider, c.RedactedAPIKey(), c.Model, c.BaseURL)
}

// Enabled reports whether a forecast provider is selected.
func (c LLMConfig) Enabled() bool {
	return c.Provider != ""
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Workers: 0,
			Seed:    0,
		},
		Output: OutputConfig{
			Dir:    "runs",
			Format: "json",
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4.1-mini",
			Timeout:     60 * time.Second,
			MaxRetries:  4,
			RetryDelay:  5 * time.Second,
			Temperature: 0.4,
			MaxTokens:   2048,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.futuresim/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".futuresim", FileName), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.futuresim/config.yaml -> environment variables
func Load() (*Config, error) {
	return LoadPath("")
}

// LoadPath is Load with an explicit config file. An explicit path must
// exist; the default path is optional.
func LoadPath(path string) (*Config, error) {
	config := Default()

	explicit := path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}

	if path != "" {
		_, statErr := os.Stat(path)
		if statErr == nil || explicit {
			fileConfig, err := LoadFromFile(path)
			if err != nil {
				return nil, fmt.Errorf("loading config file: %w", err)
			}
			config = fileConfig
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand environment variables in API key
	config.LLM.APIKey = expandEnvVars(config.LLM.APIKey)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Simulation.Workers)
	}

	validFormats := map[string]bool{"": true, "json": true, "sqlite": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format: %s (valid: json, sqlite)", c.Output.Format)
	}

	if c.LLM.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.LLM.Timeout)
	}
	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got %d", c.LLM.MaxRetries)
	}
	if c.LLM.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must be non-negative, got %v", c.LLM.RetryDelay)
	}
	if c.LLM.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must be non-negative, got %d", c.LLM.RequestsPerMinute)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d", c.LLM.MaxTokens)
	}

	validProviders := map[string]bool{"": true, "openai": true}
	if !validProviders[c.LLM.Provider] {
		return fmt.Errorf("invalid provider: %s (valid: openai, or empty)", c.LLM.Provider)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) error {
	if err := ParseEnv(config); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}
	return nil
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
