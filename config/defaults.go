package config

import "time"

// Persona is the static behavioral profile bound to a debate role: an
// instruction plus the two sampling controls the upstream accepts. Personas
// are never mutated at runtime.
type Persona struct {
	Name         string  `yaml:"name"`
	Role         string  `yaml:"role,omitempty"` // empty for the judge
	SystemPrompt string  `yaml:"system_prompt"`
	Temperature  float32 `yaml:"temperature"`
	TopP         float32 `yaml:"top_p"`
}

// DefaultSolvers returns the three built-in solver personas. Temperatures
// differ deliberately to diversify the independent solutions.
func DefaultSolvers() []Persona {
	return []Persona{
		{
			Name:         "Solver_1",
			Role:         "Mathematical Rigor Specialist",
			SystemPrompt: "You are a solver who prioritizes mathematical rigor and formal proofs. Break down problems systematically with clear logical steps.",
			Temperature:  0.7,
			TopP:         0.9,
		},
		{
			Name:         "Solver_2",
			Role:         "Intuitive Problem Solver",
			SystemPrompt: "You are a solver who uses intuition and creative approaches. Look for patterns and elegant solutions.",
			Temperature:  0.8,
			TopP:         0.95,
		},
		{
			Name:         "Solver_3",
			Role:         "Edge Case Hunter",
			SystemPrompt: "You are a solver who focuses on edge cases and boundary conditions. Question assumptions and test limits.",
			Temperature:  0.6,
			TopP:         0.85,
		},
	}
}

// DefaultJudge returns the built-in judge persona. Low temperature for
// consistent evaluation.
func DefaultJudge() Persona {
	return Persona{
		Name:         "Judge",
		SystemPrompt: "You are an impartial judge evaluating solutions. Focus on correctness, completeness, and logical soundness.",
		Temperature:  0.3,
		TopP:         0.8,
	}
}

// DefaultConfig returns the full default configuration.
func DefaultConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model:   "gemini-2.0-flash-exp",
			Timeout: 120 * time.Second,
		},
		Pacing: PacingConfig{
			MaxCallsPerMinute: 10,
			MinInterval:       4 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
		},
		Debate: DebateConfig{
			Solvers: DefaultSolvers(),
			Judge:   DefaultJudge(),
		},
		Paths: PathsConfig{
			ProblemsFile: "data/problems/problems.json",
			ResultsDir:   "data/results",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
