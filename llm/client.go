package llm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/debateflow/debateflow/config"
	"github.com/debateflow/debateflow/internal/metrics"
	"github.com/debateflow/debateflow/llm/retry"
)

// Default sampling parameters applied when a caller leaves them unset.
const (
	DefaultTemperature float32 = 0.7
	DefaultTopP        float32 = 0.9
)

// GenerateOptions controls a single client call. Zero-valued sampling fields
// fall back to the package defaults; a zero MaxAttempts falls back to the
// client's configured attempt budget.
type GenerateOptions struct {
	SystemPrompt string
	Temperature  float32
	TopP         float32
	MaxAttempts  int
}

// ClientOptions configures a Client.
type ClientOptions struct {
	// Pacer gates every dispatch. Nil disables pacing.
	Pacer *Pacer
	// MaxAttempts is the default total attempt budget per call.
	MaxAttempts int
	// BackoffUnit is the base backoff after the first failed attempt
	// (doubling thereafter). Defaults to one second.
	BackoffUnit time.Duration
	// Clock drives backoff sleeps. Nil uses the system clock.
	Clock Clock
	// Metrics receives call instrumentation. Nil disables it.
	Metrics *metrics.Collector
	Logger  *zap.Logger
}

// Client wraps a Provider with rate pacing, bounded retry and persona-config
// convenience. It is the single path every model call takes; callers never
// dispatch to the provider directly.
type Client struct {
	provider    Provider
	pacer       *Pacer
	maxAttempts int
	backoffUnit time.Duration
	clock       Clock
	metrics     *metrics.Collector
	logger      *zap.Logger
}

// NewClient creates a generation client around provider.
func NewClient(provider Provider, opts ClientOptions) *Client {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	if opts.BackoffUnit <= 0 {
		opts.BackoffUnit = 1 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		provider:    provider,
		pacer:       opts.Pacer,
		maxAttempts: opts.MaxAttempts,
		backoffUnit: opts.BackoffUnit,
		clock:       opts.Clock,
		metrics:     opts.Metrics,
		logger:      opts.Logger.With(zap.String("component", "llm_client")),
	}
}

// Generate issues one generation call. An optional system instruction is
// combined with the prompt by textual prepending (instruction, blank line,
// prompt). On failure the call is retried up to the attempt budget with
// exponential backoff (1, 2, 4, ... units); exhaustion returns an aggregate
// error wrapping the last failure.
func (c *Client) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	fullPrompt := prompt
	if opts.SystemPrompt != "" {
		fullPrompt = opts.SystemPrompt + "\n\n" + prompt
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}
	topP := opts.TopP
	if topP == 0 {
		topP = DefaultTopP
	}
	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = c.maxAttempts
	}

	req := &GenerateRequest{
		TraceID:     uuid.NewString(),
		Prompt:      fullPrompt,
		Temperature: temperature,
		TopP:        topP,
	}

	retryer := retry.NewBackoffRetryer(&retry.Policy{
		MaxAttempts:  attempts,
		InitialDelay: c.backoffUnit,
		Multiplier:   2.0,
		Sleep:        c.clock.Sleep,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			c.metrics.RecordLLMRetry(c.provider.Name())
		},
	}, c.logger)

	result, err := retryer.DoWithResult(ctx, func() (any, error) {
		if c.pacer != nil {
			waitStart := c.clock.Now()
			if err := c.pacer.Wait(ctx); err != nil {
				return nil, err
			}
			c.metrics.RecordPacingWait(c.clock.Now().Sub(waitStart))
		}

		start := c.clock.Now()
		resp, err := c.provider.Generate(ctx, req)
		elapsed := c.clock.Now().Sub(start)
		if err != nil {
			c.metrics.RecordLLMRequest(c.provider.Name(), "error", elapsed)
			c.logger.Warn("generation call failed",
				zap.String("trace_id", req.TraceID),
				zap.Duration("elapsed", elapsed),
				zap.Error(err))
			return nil, err
		}
		c.metrics.RecordLLMRequest(c.provider.Name(), "success", elapsed)
		c.logger.Debug("generation call succeeded",
			zap.String("trace_id", req.TraceID),
			zap.Duration("elapsed", elapsed),
			zap.Int("total_tokens", resp.Usage.TotalTokens))
		return resp.Text, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// GenerateWithPersona issues a generation call with a persona's instruction
// and sampling parameters.
func (c *Client) GenerateWithPersona(ctx context.Context, prompt string, p config.Persona) (string, error) {
	return c.Generate(ctx, prompt, GenerateOptions{
		SystemPrompt: p.SystemPrompt,
		Temperature:  p.Temperature,
		TopP:         p.TopP,
	})
}

// HealthCheck probes the underlying provider.
func (c *Client) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	return c.provider.HealthCheck(ctx)
}

// ProviderName returns the wrapped provider's identifier.
func (c *Client) ProviderName() string { return c.provider.Name() }
