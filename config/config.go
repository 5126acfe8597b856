// =============================================================================
// 📦 Debateflow configuration loader
// =============================================================================
// Unified configuration loading: defaults → YAML file → environment variables.
//
// Usage:
//
//	cfg, err := config.Load("debateflow.yaml")
//
// A missing file is not an error; compiled-in defaults apply.
// =============================================================================
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete runtime configuration. It is constructed once at
// process start and passed explicitly into the components that need it;
// nothing mutates it afterwards.
type Config struct {
	// Gemini upstream provider settings
	Gemini GeminiConfig `yaml:"gemini"`

	// Pacing settings for the call pacer
	Pacing PacingConfig `yaml:"pacing"`

	// Retry settings for the generation client
	Retry RetryConfig `yaml:"retry"`

	// Debate persona registry
	Debate DebateConfig `yaml:"debate"`

	// Paths for problem input and result output
	Paths PathsConfig `yaml:"paths"`

	// Log settings
	Log LogConfig `yaml:"log"`
}

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	// API key; overridden by GEMINI_API_KEY
	APIKey string `yaml:"api_key"`
	// Model identifier
	Model string `yaml:"model"`
	// API base URL (empty uses the public endpoint)
	BaseURL string `yaml:"base_url"`
	// Per-request HTTP timeout
	Timeout time.Duration `yaml:"timeout"`
}

// PacingConfig bounds the upstream call rate.
type PacingConfig struct {
	// Maximum calls within the rolling one-minute window
	MaxCallsPerMinute int `yaml:"max_calls_per_minute"`
	// Minimum spacing between consecutive calls
	MinInterval time.Duration `yaml:"min_interval"`
}

// RetryConfig bounds retry behavior of the generation client.
type RetryConfig struct {
	// Total attempts including the first
	MaxAttempts int `yaml:"max_attempts"`
}

// DebateConfig carries the persona registry. Exactly three solvers and one
// judge; validated on load.
type DebateConfig struct {
	Solvers []Persona `yaml:"solvers"`
	Judge   Persona   `yaml:"judge"`
}

// PathsConfig locates external inputs and outputs.
type PathsConfig struct {
	ProblemsFile string `yaml:"problems_file"`
	ResultsDir   string `yaml:"results_dir"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// debug, info, warn, error
	Level string `yaml:"level"`
	// json or console
	Format string `yaml:"format"`
}

// Load builds the configuration: defaults first, then the YAML file at path
// (if it exists), then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// defaults apply
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
func applyEnv(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("DEBATEFLOW_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("DEBATEFLOW_BASE_URL"); v != "" {
		cfg.Gemini.BaseURL = v
	}
	if v := os.Getenv("DEBATEFLOW_PROBLEMS_FILE"); v != "" {
		cfg.Paths.ProblemsFile = v
	}
	if v := os.Getenv("DEBATEFLOW_RESULTS_DIR"); v != "" {
		cfg.Paths.ResultsDir = v
	}
	if v := os.Getenv("DEBATEFLOW_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DEBATEFLOW_MAX_CALLS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pacing.MaxCallsPerMinute = n
		}
	}
}

// Validate enforces the structural invariants of the persona registry.
func (c *Config) Validate() error {
	if len(c.Debate.Solvers) != 3 {
		return fmt.Errorf("config: expected exactly 3 solver personas, got %d", len(c.Debate.Solvers))
	}
	seen := make(map[string]bool, 3)
	for i, s := range c.Debate.Solvers {
		if s.Name == "" {
			return fmt.Errorf("config: solver %d has no name", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("config: duplicate solver persona %q", s.Name)
		}
		seen[s.Name] = true
	}
	if c.Debate.Judge.SystemPrompt == "" {
		return fmt.Errorf("config: judge persona has no system prompt")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("config: retry.max_attempts must be at least 1")
	}
	return nil
}
