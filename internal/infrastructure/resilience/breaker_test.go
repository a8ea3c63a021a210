package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is an adjustable time source for deterministic tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestBreaker(cooldown time.Duration) (*Breaker, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	b := New("wm", Settings{
		Cooldown:            cooldown,
		MaxRecoveryAttempts: 2,
		Clock:               clock.Now,
	})
	return b, clock
}

func TestAllowWhileClosed(t *testing.T) {
	b, _ := newTestBreaker(30 * time.Second)

	assert.True(t, b.Allow())
	assert.Equal(t, StateClosed, b.State())
}

func TestTimeoutOpensUntilCooldown(t *testing.T) {
	b, clock := newTestBreaker(30 * time.Second)

	b.RecordTimeout()
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())

	clock.Advance(29 * time.Second)
	assert.False(t, b.Allow())

	// Cooldown elapsed: the breaker closes and admits the next call.
	clock.Advance(time.Second)
	assert.True(t, b.Allow())
	assert.Equal(t, StateClosed, b.State())
}

func TestProbeTimeoutReopens(t *testing.T) {
	b, clock := newTestBreaker(30 * time.Second)

	b.RecordTimeout()
	clock.Advance(30 * time.Second)
	require.True(t, b.Allow())

	// The admitted probe times out again.
	b.RecordTimeout()
	assert.False(t, b.Allow())
	clock.Advance(30 * time.Second)
	assert.True(t, b.Allow())
}

func TestSuccessCloses(t *testing.T) {
	b, _ := newTestBreaker(30 * time.Second)

	b.RecordTimeout()
	b.RecordSuccess()
	assert.True(t, b.Allow())
	assert.Equal(t, 0, b.Snapshot().RecoveryAttempts)
}

func TestRecoveryClaimIsExclusive(t *testing.T) {
	b, _ := newTestBreaker(30 * time.Second)

	b.RecordTimeout()
	require.True(t, b.ShouldAttemptRecovery())

	require.True(t, b.BeginRecovery())
	// Second claim must fail while the first is outstanding.
	assert.False(t, b.BeginRecovery())
	assert.False(t, b.ShouldAttemptRecovery())

	b.EndRecovery(false)
	assert.True(t, b.BeginRecovery())
	b.EndRecovery(false)

	// Attempt budget (2) exhausted for this trip.
	assert.False(t, b.BeginRecovery())
}

func TestRecoverySuccessCloses(t *testing.T) {
	b, _ := newTestBreaker(30 * time.Second)

	b.RecordTimeout()
	require.True(t, b.BeginRecovery())
	b.EndRecovery(true)

	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}

func TestFreshBudgetPerTrip(t *testing.T) {
	b, clock := newTestBreaker(30 * time.Second)

	// First trip: burn both recovery attempts.
	b.RecordTimeout()
	require.True(t, b.BeginRecovery())
	b.EndRecovery(false)
	require.True(t, b.BeginRecovery())
	b.EndRecovery(false)
	assert.False(t, b.ShouldAttemptRecovery())

	// Close via natural probe, then trip again from closed: fresh budget.
	clock.Advance(31 * time.Second)
	require.True(t, b.Allow())
	b.RecordTimeout()
	assert.True(t, b.ShouldAttemptRecovery())
}

func TestNoRecoveryAfterCooldownExpiry(t *testing.T) {
	b, clock := newTestBreaker(30 * time.Second)

	b.RecordTimeout()
	clock.Advance(31 * time.Second)

	// Expired cooldown means the next natural call probes instead.
	assert.False(t, b.ShouldAttemptRecovery())
	assert.False(t, b.BeginRecovery())
}

func TestStateChangeCallback(t *testing.T) {
	var transitions []string
	clock := &fakeClock{now: time.Unix(1000, 0)}
	b := New("wm", Settings{
		Cooldown: 30 * time.Second,
		Clock:    clock.Now,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	b.RecordTimeout()
	b.RecordSuccess()

	assert.Equal(t, []string{"closed->open", "open->closed"}, transitions)
}
