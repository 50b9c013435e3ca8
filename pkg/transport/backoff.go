package transport

import (
	"math/rand/v2"
	"time"
)

// Redial backoff defaults.
const (
	// DefaultInitialBackoff is the first redial delay.
	DefaultInitialBackoff = 1 * time.Second

	// DefaultMaxBackoff caps the redial delay.
	DefaultMaxBackoff = 60 * time.Second

	// DefaultBackoffMultiplier is the factor applied after every failure.
	DefaultBackoffMultiplier = 2.0

	// DefaultJitterFactor is the maximum jitter as a fraction of the delay.
	DefaultJitterFactor = 0.25
)

// BackoffConfig customizes a Backoff. Zero fields take the defaults.
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64

	// Jitter is the maximum added delay as a fraction of the base delay.
	// Negative disables jitter.
	Jitter float64
}

// Backoff computes exponential redial delays with jitter. It is not safe
// for concurrent use; the goroutine that dials owns it.
type Backoff struct {
	config   BackoffConfig
	current  time.Duration
	attempts int
}

// NewBackoff creates a backoff starting at cfg.Initial.
func NewBackoff(cfg BackoffConfig) *Backoff {
	if cfg.Initial <= 0 {
		cfg.Initial = DefaultInitialBackoff
	}
	if cfg.Max <= 0 {
		cfg.Max = DefaultMaxBackoff
	}
	if cfg.Max < cfg.Initial {
		cfg.Max = cfg.Initial
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = DefaultBackoffMultiplier
	}
	if cfg.Jitter == 0 {
		cfg.Jitter = DefaultJitterFactor
	}
	return &Backoff{config: cfg, current: cfg.Initial}
}

// Next returns the next delay (with jitter) and advances the backoff.
func (b *Backoff) Next() time.Duration {
	delay := b.current
	if b.config.Jitter > 0 {
		delay += time.Duration(float64(delay) * b.config.Jitter * rand.Float64())
	}

	b.attempts++
	b.current = min(time.Duration(float64(b.current)*b.config.Multiplier), b.config.Max)
	return delay
}

// Current returns the next base delay without jitter.
func (b *Backoff) Current() time.Duration { return b.current }

// Attempts returns the number of delays handed out since the last reset.
func (b *Backoff) Attempts() int { return b.attempts }

// Reset starts over at the initial delay. Call it after a successful dial.
func (b *Backoff) Reset() {
	b.current = b.config.Initial
	b.attempts = 0
}
