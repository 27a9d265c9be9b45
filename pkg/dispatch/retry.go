package dispatch

import (
	"math"
	"math/rand"
	"time"
)

// RetryPolicy produces a, possibly infinite, sequence of delays for a
// failing event. Implementations are stateless with respect to wall-clock
// time: NextDelay depends only on the attempt ordinal (plus random jitter
// where a policy is configured with it), so a policy value can be copied
// freely onto many events without sharing state.
//
// The watch source, not the dispatcher, is responsible for sleeping
// between attempts and re-delivering the event; see spec §5.
type RetryPolicy interface {
	// NextDelay returns the delay to wait before retrying the attempt-th
	// failure (attempt starts at 1 for the first retry after an initial
	// failure), and whether a retry should be attempted at all. ok=false
	// means retries are exhausted and the event should be dropped (after
	// being surfaced to whatever observability the caller has).
	NextDelay(attempt int) (delay time.Duration, ok bool)
}

// GenericRetryPolicyConfig configures GenericRetryPolicy.
type GenericRetryPolicyConfig struct {
	// InitialInterval is the delay before the first retry. Defaults to
	// one second when zero.
	InitialInterval time.Duration

	// Multiplier is the factor applied to the interval on each
	// subsequent attempt. Defaults to 2.0 when zero.
	Multiplier float64

	// MaxInterval caps the computed delay. Defaults to five minutes when
	// zero.
	MaxInterval time.Duration

	// MaxAttempts bounds the total number of attempts, the initial one
	// included, so at most MaxAttempts-1 retries are allowed. Zero means
	// unlimited. MaxAttempts == 1 disables retry entirely: the first
	// failure already exhausts the policy.
	MaxAttempts int

	// RandomizationFactor adds jitter to the computed delay in the range
	// [-factor, +factor] of the unjittered value. Zero disables jitter.
	RandomizationFactor float64
}

// DefaultGenericRetryPolicyConfig returns the bounded-exponential default:
// one second initial delay, doubling, capped at five minutes, ten attempts,
// ten percent jitter. This mirrors the teacher's DefaultBackoffConfig plus
// a finite attempt cap, since the spec's default policy is bounded rather
// than infinite.
func DefaultGenericRetryPolicyConfig() GenericRetryPolicyConfig {
	return GenericRetryPolicyConfig{
		InitialInterval:     time.Second,
		Multiplier:          2.0,
		MaxInterval:         5 * time.Minute,
		MaxAttempts:         10,
		RandomizationFactor: 0.1,
	}
}

// genericRetryPolicy implements the spec's default bounded-exponential
// policy: delay_n = min(initial * multiplier^n, maxInterval).
type genericRetryPolicy struct {
	cfg GenericRetryPolicyConfig
}

// NewGenericRetryPolicy builds the default bounded-exponential retry
// policy described in spec §4.1.
func NewGenericRetryPolicy() RetryPolicy {
	return NewGenericRetryPolicyWithConfig(DefaultGenericRetryPolicyConfig())
}

// NewGenericRetryPolicyWithConfig builds a bounded-exponential retry
// policy from an explicit configuration, filling in the documented
// defaults for any zero field.
func NewGenericRetryPolicyWithConfig(cfg GenericRetryPolicyConfig) RetryPolicy {
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = time.Second
	}
	if cfg.Multiplier == 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Minute
	}
	return &genericRetryPolicy{cfg: cfg}
}

func (p *genericRetryPolicy) NextDelay(attempt int) (time.Duration, bool) {
	if attempt < 1 {
		attempt = 1
	}
	if p.cfg.MaxAttempts > 0 && attempt >= p.cfg.MaxAttempts {
		return 0, false
	}

	interval := float64(p.cfg.InitialInterval) * math.Pow(p.cfg.Multiplier, float64(attempt-1))
	if interval > float64(p.cfg.MaxInterval) {
		interval = float64(p.cfg.MaxInterval)
	}

	if p.cfg.RandomizationFactor > 0 {
		delta := p.cfg.RandomizationFactor * interval
		interval = interval - delta + rand.Float64()*(2*delta)
	}

	return time.Duration(interval), true
}

// NoRetryPolicy returns a policy that disables retry: the very first
// failure exhausts it. Equivalent to MaxAttempts: 1.
func NoRetryPolicy() RetryPolicy {
	return NewGenericRetryPolicyWithConfig(GenericRetryPolicyConfig{MaxAttempts: 1})
}

// ConstantRetryPolicy retries forever at a fixed interval.
func ConstantRetryPolicy(interval time.Duration) RetryPolicy {
	return &constantRetryPolicy{interval: interval}
}

type constantRetryPolicy struct {
	interval time.Duration
}

func (p *constantRetryPolicy) NextDelay(attempt int) (time.Duration, bool) {
	return p.interval, true
}

// LinearRetryPolicy retries with a delay that grows by increment on each
// attempt, capped at max, up to maxAttempts (0 = unlimited).
func LinearRetryPolicy(initial, increment, max time.Duration, maxAttempts int) RetryPolicy {
	return &linearRetryPolicy{initial: initial, increment: increment, max: max, maxAttempts: maxAttempts}
}

type linearRetryPolicy struct {
	initial     time.Duration
	increment   time.Duration
	max         time.Duration
	maxAttempts int
}

func (p *linearRetryPolicy) NextDelay(attempt int) (time.Duration, bool) {
	if attempt < 1 {
		attempt = 1
	}
	if p.maxAttempts > 0 && attempt > p.maxAttempts {
		return 0, false
	}
	d := p.initial + time.Duration(attempt-1)*p.increment
	if d > p.max {
		d = p.max
	}
	return d, true
}
