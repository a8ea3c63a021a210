package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by callers that consult Allow before issuing
// a window-manager call while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// Cooldown is how long the breaker stays open after a timeout
	Cooldown time.Duration
	// MaxRecoveryAttempts bounds background recovery probes per trip
	MaxRecoveryAttempts int
	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from State, to State)
	// Clock overrides the time source (tests)
	Clock func() time.Time
}

// Snapshot is a point-in-time view of the breaker for diagnostics.
type Snapshot struct {
	State            string    `json:"state"`
	OpenUntil        time.Time `json:"open_until,omitempty"`
	RecoveryAttempts int       `json:"recovery_attempts"`
	Recovering       bool      `json:"recovering"`
}

// Breaker guards the external window-manager interface. A single
// unresponsive call otherwise produces one timeout per subsequent call in
// the same user-visible operation; tripping after the first turns an
// O(n*timeout) stall into O(timeout). One instance is shared process-wide
// and this is the only core component holding a lock.
type Breaker struct {
	name     string
	cooldown time.Duration
	maxTries int
	onChange func(name string, from State, to State)
	now      func() time.Time

	mu         sync.Mutex
	state      State
	openUntil  time.Time
	tries      int
	recovering bool
}

// New creates a new circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	if settings.Cooldown == 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.MaxRecoveryAttempts == 0 {
		settings.MaxRecoveryAttempts = 2
	}
	if settings.Clock == nil {
		settings.Clock = time.Now
	}

	return &Breaker{
		name:     name,
		cooldown: settings.Cooldown,
		maxTries: settings.MaxRecoveryAttempts,
		onChange: settings.OnStateChange,
		now:      settings.Clock,
		state:    StateClosed,
	}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// Allow reports whether a call may proceed. Once the cooldown has elapsed
// the breaker closes itself, admitting the next call as a probe; if that
// probe times out, RecordTimeout re-opens it.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && !b.now().Before(b.openUntil) {
		b.setState(StateClosed)
	}
	return b.state == StateClosed
}

// RecordTimeout opens the breaker for one cooldown. The recovery-attempt
// budget is reset only on the closed-to-open transition, so each trip gets
// a fresh budget while a failed recovery probe does not.
func (b *Breaker) RecordTimeout() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateClosed {
		b.tries = 0
	}
	b.openUntil = b.now().Add(b.cooldown)
	b.setState(StateOpen)
}

// RecordSuccess closes the breaker and resets the recovery budget.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tries = 0
	b.setState(StateClosed)
}

// ShouldAttemptRecovery reports whether a background recovery probe is
// worthwhile: open, cooldown not yet expired, attempts remaining, and no
// probe already running.
func (b *Breaker) ShouldAttemptRecovery() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shouldAttemptRecovery()
}

func (b *Breaker) shouldAttemptRecovery() bool {
	return b.state == StateOpen &&
		b.now().Before(b.openUntil) &&
		b.tries < b.maxTries &&
		!b.recovering
}

// BeginRecovery atomically claims a recovery attempt. It returns false if
// no attempt should run, including when another claim is outstanding.
func (b *Breaker) BeginRecovery() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.shouldAttemptRecovery() {
		return false
	}
	b.recovering = true
	return true
}

// EndRecovery releases the claim taken by BeginRecovery. On success the
// breaker closes; on failure the attempt is consumed and the breaker
// re-opens for another cooldown.
func (b *Breaker) EndRecovery(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.recovering = false
	if success {
		b.tries = 0
		b.setState(StateClosed)
		return
	}
	b.tries++
	b.openUntil = b.now().Add(b.cooldown)
	b.setState(StateOpen)
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && !b.now().Before(b.openUntil) {
		return StateClosed
	}
	return b.state
}

// Snapshot returns a diagnostic view of the breaker.
func (b *Breaker) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := Snapshot{
		State:            b.state.String(),
		RecoveryAttempts: b.tries,
		Recovering:       b.recovering,
	}
	if b.state == StateOpen {
		snap.OpenUntil = b.openUntil
	}
	return snap
}

// setState changes the state; caller must hold the lock.
func (b *Breaker) setState(state State) {
	if b.state == state {
		return
	}

	prev := b.state
	b.state = state

	if b.onChange != nil {
		b.onChange(b.name, prev, state)
	}
}
