package llm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/debateflow/debateflow/config"
)

// mockProvider implements Provider for testing.
type mockProvider struct {
	responses []string
	failFirst int // number of leading calls that fail
	callCount int
	requests  []*GenerateRequest
}

func (m *mockProvider) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	m.callCount++
	m.requests = append(m.requests, req)
	if m.callCount <= m.failFirst {
		return nil, &Error{Code: ErrUpstreamError, Message: "upstream boom", Retryable: true}
	}
	text := "generated text"
	if n := len(m.responses); n > 0 {
		text = m.responses[(m.callCount-1)%n]
	}
	return &GenerateResponse{Text: text, Provider: m.Name(), Model: "test-model"}, nil
}

func (m *mockProvider) HealthCheck(ctx context.Context) (*HealthStatus, error) {
	return &HealthStatus{Healthy: true}, nil
}

func (m *mockProvider) Name() string { return "mock" }

func newTestClient(provider *mockProvider, clock Clock, opts ClientOptions) *Client {
	opts.Clock = clock
	opts.Logger = zap.NewNop()
	return NewClient(provider, opts)
}

func TestClient_PrependsSystemInstruction(t *testing.T) {
	provider := &mockProvider{}
	client := newTestClient(provider, newFakeClock(), ClientOptions{})

	_, err := client.Generate(context.Background(), "solve this", GenerateOptions{
		SystemPrompt: "You are a careful solver.",
	})
	require.NoError(t, err)

	require.Len(t, provider.requests, 1)
	assert.Equal(t, "You are a careful solver.\n\nsolve this", provider.requests[0].Prompt)
}

func TestClient_NoSystemInstruction(t *testing.T) {
	provider := &mockProvider{}
	client := newTestClient(provider, newFakeClock(), ClientOptions{})

	_, err := client.Generate(context.Background(), "solve this", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "solve this", provider.requests[0].Prompt)
}

func TestClient_SamplingDefaults(t *testing.T) {
	provider := &mockProvider{}
	client := newTestClient(provider, newFakeClock(), ClientOptions{})

	_, err := client.Generate(context.Background(), "q", GenerateOptions{})
	require.NoError(t, err)

	req := provider.requests[0]
	assert.Equal(t, DefaultTemperature, req.Temperature)
	assert.Equal(t, DefaultTopP, req.TopP)
	assert.NotEmpty(t, req.TraceID)
}

func TestClient_GenerateWithPersona(t *testing.T) {
	provider := &mockProvider{responses: []string{"persona reply"}}
	client := newTestClient(provider, newFakeClock(), ClientOptions{})

	persona := config.Persona{
		Name:         "Solver_2",
		Role:         "Intuitive Problem Solver",
		SystemPrompt: "You are a solver who uses intuition.",
		Temperature:  0.8,
		TopP:         0.95,
	}
	text, err := client.GenerateWithPersona(context.Background(), "question", persona)
	require.NoError(t, err)
	assert.Equal(t, "persona reply", text)

	req := provider.requests[0]
	assert.True(t, strings.HasPrefix(req.Prompt, persona.SystemPrompt+"\n\n"))
	assert.Equal(t, float32(0.8), req.Temperature)
	assert.Equal(t, float32(0.95), req.TopP)
}

func TestClient_RetriesWithExponentialBackoff(t *testing.T) {
	provider := &mockProvider{failFirst: 2, responses: []string{"eventually ok"}}
	clock := newFakeClock()
	client := newTestClient(provider, clock, ClientOptions{MaxAttempts: 3})

	text, err := client.Generate(context.Background(), "q", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "eventually ok", text)
	assert.Equal(t, 3, provider.callCount)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, clock.sleeps)
}

func TestClient_SingleAttemptFailsWithoutSleep(t *testing.T) {
	provider := &mockProvider{failFirst: 100}
	clock := newFakeClock()
	client := newTestClient(provider, clock, ClientOptions{MaxAttempts: 1})

	_, err := client.Generate(context.Background(), "q", GenerateOptions{})
	require.Error(t, err)
	assert.Equal(t, 1, provider.callCount)
	assert.Empty(t, clock.sleeps)
	assert.Contains(t, err.Error(), "failed after 1 attempts")
}

func TestClient_PerCallAttemptOverride(t *testing.T) {
	provider := &mockProvider{failFirst: 100}
	clock := newFakeClock()
	client := newTestClient(provider, clock, ClientOptions{MaxAttempts: 5})

	_, err := client.Generate(context.Background(), "q", GenerateOptions{MaxAttempts: 2})
	require.Error(t, err)
	assert.Equal(t, 2, provider.callCount)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
}

func TestClient_PacerGatesEveryDispatch(t *testing.T) {
	provider := &mockProvider{}
	clock := newFakeClock()
	pacer := NewPacer(PacerConfig{MinInterval: 5 * time.Second}, clock, zap.NewNop())
	client := newTestClient(provider, clock, ClientOptions{Pacer: pacer})

	ctx := context.Background()
	_, err := client.Generate(ctx, "first", GenerateOptions{})
	require.NoError(t, err)
	_, err = client.Generate(ctx, "second", GenerateOptions{})
	require.NoError(t, err)

	// Second dispatch happened immediately after the first; the pacer must
	// have enforced the full minimum interval.
	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, 5*time.Second, clock.sleeps[0])
}

func TestClient_TraceIDStableAcrossRetries(t *testing.T) {
	provider := &mockProvider{failFirst: 1}
	clock := newFakeClock()
	client := newTestClient(provider, clock, ClientOptions{MaxAttempts: 2})

	_, err := client.Generate(context.Background(), "q", GenerateOptions{})
	require.NoError(t, err)
	require.Len(t, provider.requests, 2)
	assert.Equal(t, provider.requests[0].TraceID, provider.requests[1].TraceID)
}
