package llm

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// pacerWindow is the horizon over which recent calls are counted.
const pacerWindow = time.Minute

// Clock abstracts wall time and blocking sleeps so pacing and backoff can be
// driven deterministically in tests.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is cancelled, returning ctx.Err() in
	// the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SystemClock returns the wall clock.
func SystemClock() Clock { return realClock{} }

// PacerConfig bounds the call rate against the upstream provider.
type PacerConfig struct {
	// MaxCallsPerMinute caps calls within the rolling one-minute window.
	// Zero disables the window check.
	MaxCallsPerMinute int `yaml:"max_calls_per_minute"`
	// MinInterval is the minimum spacing between consecutive calls.
	// Zero disables spacing.
	MinInterval time.Duration `yaml:"min_interval"`
}

// Pacer owns a rolling window of recent call instants and grants permission
// to dispatch. It is the only mutable shared state in the generation path and
// is safe for use from a single sequential caller; the mutex guards against
// accidental concurrent use.
type Pacer struct {
	cfg    PacerConfig
	clock  Clock
	logger *zap.Logger

	mu    sync.Mutex
	calls []time.Time
}

// NewPacer creates a pacer. A nil clock uses the system clock.
func NewPacer(cfg PacerConfig, clock Clock, logger *zap.Logger) *Pacer {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pacer{
		cfg:    cfg,
		clock:  clock,
		logger: logger.With(zap.String("component", "pacer")),
	}
}

// Wait blocks until a call may be dispatched, then records the call instant.
// Two independent policies apply: if the rolling window is full, wait until
// the oldest instant leaves the window and clear it; if the previous call was
// too recent, wait out the remainder of the minimum interval.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock.Now()
	p.prune(now)

	if p.cfg.MaxCallsPerMinute > 0 && len(p.calls) >= p.cfg.MaxCallsPerMinute {
		oldest := p.calls[0]
		wait := oldest.Add(pacerWindow).Sub(now) + time.Second
		if wait > 0 {
			p.logger.Info("rate limit protection",
				zap.Duration("wait", wait),
				zap.Int("window_calls", len(p.calls)))
			if err := p.clock.Sleep(ctx, wait); err != nil {
				return err
			}
		}
		p.calls = p.calls[:0]
	}

	if p.cfg.MinInterval > 0 && len(p.calls) > 0 {
		since := p.clock.Now().Sub(p.calls[len(p.calls)-1])
		if since < p.cfg.MinInterval {
			wait := p.cfg.MinInterval - since
			p.logger.Debug("spacing requests", zap.Duration("wait", wait))
			if err := p.clock.Sleep(ctx, wait); err != nil {
				return err
			}
		}
	}

	p.calls = append(p.calls, p.clock.Now())
	return nil
}

// prune drops call instants older than the window.
func (p *Pacer) prune(now time.Time) {
	cutoff := now.Add(-pacerWindow)
	i := 0
	for i < len(p.calls) && !p.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		p.calls = append(p.calls[:0], p.calls[i:]...)
	}
}
