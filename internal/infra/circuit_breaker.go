package infra

import (
	"errors"
	"sync"
	"time"
)

// BreakerState is the state of the SMTP circuit breaker, as shown by /health.
type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"    // sends go through
	BreakerOpen     BreakerState = "open"      // sends fail with ErrCircuitOpen
	BreakerHalfOpen BreakerState = "half-open" // trial sends after the pause
)

// ErrCircuitOpen is returned while the relay is considered down.
var ErrCircuitOpen = errors.New("relais SMTP suspendu (circuit ouvert)")

// BreakerConfig tunes the breaker.
type BreakerConfig struct {
	MaxFailures int           // consecutive failures that open the circuit
	TrialSends  int           // successful half-open sends needed to close it
	Pause       time.Duration // time spent open before a trial send
}

// DefaultBreakerConfig returns the settings used for the mailer.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{MaxFailures: 5, TrialSends: 2, Pause: time.Minute}
}

// BreakerStatus is a snapshot of the breaker.
type BreakerStatus struct {
	State       BreakerState `json:"state"`
	Failures    int          `json:"failures"`
	LastFailure *time.Time   `json:"last_failure,omitempty"`
	RetryAt     *time.Time   `json:"retry_at,omitempty"`
}

// CircuitBreaker stops calling the SMTP relay after repeated failures, so
// e-mail jobs fail fast to the dead-letter queue instead of stacking retries.
type CircuitBreaker struct {
	cfg BreakerConfig
	now func() time.Time

	mu          sync.Mutex
	state       BreakerState
	failures    int
	trials      int
	lastFailure time.Time
}

func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	def := DefaultBreakerConfig()
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = def.MaxFailures
	}
	if cfg.TrialSends <= 0 {
		cfg.TrialSends = def.TrialSends
	}
	if cfg.Pause <= 0 {
		cfg.Pause = def.Pause
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now, state: BreakerClosed}
}

// Execute calls fn unless the circuit is open.
func (b *CircuitBreaker) Execute(fn func() error) error {
	if !b.allow() {
		return ErrCircuitOpen
	}
	err := fn()
	b.record(err)
	return err
}

// Status reports the current state; an elapsed pause shows as half-open.
func (b *CircuitBreaker) Status() BreakerStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()

	st := BreakerStatus{State: b.state, Failures: b.failures}
	if !b.lastFailure.IsZero() {
		last := b.lastFailure
		st.LastFailure = &last
	}
	if b.state == BreakerOpen {
		retry := b.lastFailure.Add(b.cfg.Pause)
		st.RetryAt = &retry
	}
	return st
}

func (b *CircuitBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	return b.state != BreakerOpen
}

// refresh moves open to half-open once the pause has elapsed. Caller holds mu.
func (b *CircuitBreaker) refresh() {
	if b.state == BreakerOpen && b.now().Sub(b.lastFailure) >= b.cfg.Pause {
		b.state = BreakerHalfOpen
		b.trials = 0
	}
}

func (b *CircuitBreaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		b.lastFailure = b.now()
		if b.state == BreakerHalfOpen || b.failures >= b.cfg.MaxFailures {
			b.state = BreakerOpen
		}
		return
	}

	switch b.state {
	case BreakerHalfOpen:
		b.trials++
		if b.trials >= b.cfg.TrialSends {
			b.state = BreakerClosed
			b.failures = 0
		}
	case BreakerClosed:
		b.failures = 0
	}
}
