// Package config loads the duet CLI configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rickchristie/duet/conversation"
	"gopkg.in/yaml.v3"
)

// Backend kinds.
const (
	BackendMemory = "memory"
	BackendHTTP   = "http"
)

// Config is the CLI configuration.
type Config struct {
	Provider ProviderConfig    `yaml:"provider"`
	Agent    ParticipantConfig `yaml:"agent"`
	User     ParticipantConfig `yaml:"user"`
	Run      RunConfig         `yaml:"run"`
	Backend  BackendConfig     `yaml:"backend"`
	Log      LogConfig         `yaml:"log"`
}

// ProviderConfig locates an OpenAI-compatible endpoint.
type ProviderConfig struct {
	BaseURL   string `yaml:"base_url,omitempty"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// ParticipantConfig configures one side of the conversation.
type ParticipantConfig struct {
	Model           string        `yaml:"model"`
	SystemPrompt    string        `yaml:"system_prompt,omitempty"`
	AllowedTools    []string      `yaml:"allowed_tools,omitempty"`
	ResponseTimeout time.Duration `yaml:"response_timeout,omitempty"`
	Temperature     float64       `yaml:"temperature,omitempty"`
}

// RunConfig mirrors conversation.Config.
type RunConfig struct {
	MaxSteps                 int           `yaml:"max_steps"`
	CounterpartMaxIterations int           `yaml:"counterpart_max_iterations"`
	CounterpartTimeout       time.Duration `yaml:"counterpart_timeout,omitempty"`
	StatelessCounterpart     bool          `yaml:"stateless_counterpart,omitempty"`
}

// BackendConfig selects where the bulb switches live.
type BackendConfig struct {
	Kind     string `yaml:"kind"`
	AgentURL string `yaml:"agent_url,omitempty"`
	UserURL  string `yaml:"user_url,omitempty"`
}

// LogConfig configures diagnostics.
type LogConfig struct {
	Level string `yaml:"level"`

	// File, when set, receives a YAML transcript of every run.
	File string `yaml:"file,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{APIKeyEnv: "OPENAI_API_KEY"},
		Agent:    ParticipantConfig{Model: "gpt-4o-mini"},
		User:     ParticipantConfig{Model: "gpt-4o-mini"},
		Run: RunConfig{
			MaxSteps:                 conversation.DefaultMaxSteps,
			CounterpartMaxIterations: conversation.DefaultCounterpartMaxIterations,
		},
		Backend: BackendConfig{
			Kind:     BackendMemory,
			AgentURL: "http://localhost:8001",
			UserURL:  "http://localhost:8002",
		},
		Log: LogConfig{Level: "warn"},
	}
}

// DefaultConfigPath returns the default configuration file path for the current platform.
// - macOS/Linux: ~/.duet/config.yaml
// - Windows: %USERPROFILE%\.duet\config.yaml
func DefaultConfigPath() string {
	var homeDir string
	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		return "config.yaml"
	}
	return filepath.Join(homeDir, ".duet", "config.yaml")
}

// Load reads the configuration at path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Backend.Kind {
	case BackendMemory:
	case BackendHTTP:
		if c.Backend.AgentURL == "" || c.Backend.UserURL == "" {
			return errors.New("backend: http backend needs agent_url and user_url")
		}
	default:
		return fmt.Errorf("backend: unknown kind %q", c.Backend.Kind)
	}

	if c.Run.CounterpartMaxIterations < 1 {
		return fmt.Errorf("run: counterpart_max_iterations must be at least 1, got %d",
			c.Run.CounterpartMaxIterations)
	}
	if c.Run.CounterpartTimeout < 0 {
		return errors.New("run: counterpart_timeout must not be negative")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", c.Log.Level)
	}
	return nil
}

// APIKey returns the API key from the configured environment variable.
func (c *Config) APIKey() string {
	if c.Provider.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Provider.APIKeyEnv)
}

// Conversation returns the orchestrator configuration.
func (c *Config) Conversation() conversation.Config {
	cfg := conversation.DefaultConfig()
	cfg.MaxSteps = c.Run.MaxSteps
	cfg.CounterpartMaxIterations = c.Run.CounterpartMaxIterations
	cfg.CounterpartTimeout = c.Run.CounterpartTimeout
	cfg.StatelessCounterpart = c.Run.StatelessCounterpart
	return cfg
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
