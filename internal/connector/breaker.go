package connector

import (
	"sync"
	"time"
)

// State enumerates the breaker state machine. Transitions are restricted to
// closed -> open (failure threshold), open -> half-open (cooldown elapsed),
// half-open -> closed (probe succeeds) and half-open -> open (probe fails).
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig tunes a per-connector breaker.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold"`
	BaseCooldown     time.Duration `yaml:"base_cooldown"`
	MaxCooldown      time.Duration `yaml:"max_cooldown"`
}

// DefaultBreakerConfig returns the tuning used when none is configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		BaseCooldown:     2 * time.Second,
		MaxCooldown:      2 * time.Minute,
	}
}

// Transition records an observable breaker state change.
type Transition struct {
	From, To State
}

// Changed reports whether a state change actually occurred.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Breaker is the per-connector fault-isolation state machine. All methods
// are safe for concurrent use; a probe during half-open is granted to
// exactly one caller at a time.
type Breaker struct {
	mu   sync.Mutex
	name string
	cfg  BreakerConfig

	state         State
	failures      int // consecutive classified failures
	trips         int // consecutive opens, drives exponential cooldown
	lastFailure   time.Time
	cooldownUntil time.Time
	probing       bool

	now func() time.Time
}

// NewBreaker constructs a closed breaker for one connector.
func NewBreaker(name string, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	if cfg.BaseCooldown <= 0 {
		cfg.BaseCooldown = DefaultBreakerConfig().BaseCooldown
	}
	if cfg.MaxCooldown < cfg.BaseCooldown {
		cfg.MaxCooldown = DefaultBreakerConfig().MaxCooldown
	}
	return &Breaker{name: name, cfg: cfg, now: time.Now}
}

// Name returns the connector identity this breaker guards.
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// CooldownUntil returns when an open breaker will admit a probe.
func (b *Breaker) CooldownUntil() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cooldownUntil
}

// Allow decides whether a call may proceed. While open and cooling down it
// denies without a network attempt. Once the cooldown elapses the breaker
// moves to half-open and admits exactly one probe; concurrent callers are
// denied until that probe reports a result.
func (b *Breaker) Allow() (Transition, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return Transition{StateClosed, StateClosed}, true
	case StateOpen:
		if b.now().Before(b.cooldownUntil) {
			return Transition{StateOpen, StateOpen}, false
		}
		b.state = StateHalfOpen
		b.probing = true
		return Transition{StateOpen, StateHalfOpen}, true
	default: // half-open
		if b.probing {
			return Transition{StateHalfOpen, StateHalfOpen}, false
		}
		b.probing = true
		return Transition{StateHalfOpen, StateHalfOpen}, true
	}
}

// RecordSuccess resets the failure count; a successful half-open probe
// closes the breaker.
func (b *Breaker) RecordSuccess() Transition {
	b.mu.Lock()
	defer b.mu.Unlock()

	from := b.state
	b.failures = 0
	b.probing = false
	if b.state == StateHalfOpen {
		b.state = StateClosed
		b.trips = 0
	}
	return Transition{from, b.state}
}

// RecordFailure counts a classified failure. Crossing the configured
// threshold opens the breaker; a failed half-open probe reopens it with an
// extended cooldown (exponential, capped at MaxCooldown).
func (b *Breaker) RecordFailure() Transition {
	b.mu.Lock()
	defer b.mu.Unlock()

	from := b.state
	b.failures++
	b.lastFailure = b.now()
	b.probing = false

	switch b.state {
	case StateHalfOpen:
		b.open()
	case StateClosed:
		if b.failures >= b.cfg.FailureThreshold {
			b.open()
		}
	}
	return Transition{from, b.state}
}

// Reset forces the breaker closed and clears all counters. Exposed for the
// operator reset endpoint.
func (b *Breaker) Reset() Transition {
	b.mu.Lock()
	defer b.mu.Unlock()

	from := b.state
	b.state = StateClosed
	b.failures = 0
	b.trips = 0
	b.probing = false
	b.cooldownUntil = time.Time{}
	return Transition{from, StateClosed}
}

// open transitions to StateOpen under b.mu and schedules the cooldown.
func (b *Breaker) open() {
	b.state = StateOpen
	b.trips++
	cooldown := b.cfg.BaseCooldown << (b.trips - 1)
	if cooldown > b.cfg.MaxCooldown || cooldown <= 0 {
		cooldown = b.cfg.MaxCooldown
	}
	b.cooldownUntil = b.now().Add(cooldown)
}

// BreakerRegistry holds the process-wide breaker state, keyed by connector
// identity. Breakers persist across assessments until the process restarts
// or an operator resets them.
type BreakerRegistry struct {
	mu       sync.Mutex
	cfg      BreakerConfig
	breakers map[string]*Breaker
}

// NewBreakerRegistry creates a registry applying cfg to every breaker.
func NewBreakerRegistry(cfg BreakerConfig) *BreakerRegistry {
	return &BreakerRegistry{cfg: cfg, breakers: make(map[string]*Breaker)}
}

// Get returns the breaker for a connector, creating it on first use.
func (r *BreakerRegistry) Get(connectorID string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.breakers[connectorID]
	if !ok {
		b = NewBreaker(connectorID, r.cfg)
		r.breakers[connectorID] = b
	}
	return b
}

// Reset explicitly closes a connector's breaker. It reports whether a
// breaker existed for the ID.
func (r *BreakerRegistry) Reset(connectorID string) bool {
	r.mu.Lock()
	b, ok := r.breakers[connectorID]
	r.mu.Unlock()
	if ok {
		b.Reset()
	}
	return ok
}

// States snapshots all breaker states for diagnostics.
func (r *BreakerRegistry) States() map[string]State {
	r.mu.Lock()
	defer r.mu.Unlock()
	states := make(map[string]State, len(r.breakers))
	for id, b := range r.breakers {
		states[id] = b.State()
	}
	return states
}
