/*
Package resilience provides the circuit breaker guarding window-manager calls.

# Overview

Every call to the external window manager passes through one process-wide
breaker. A call timeout trips it open for a fixed cooldown, during which
calls fail immediately instead of stacking timeouts; once the cooldown
elapses the next call is admitted as a probe.

# Usage

	breaker := resilience.New("wm", resilience.Settings{
		Cooldown:            30 * time.Second,
		MaxRecoveryAttempts: 2,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Printf("breaker %s: %s -> %s", name, from, to)
		},
	})

	if !breaker.Allow() {
		return resilience.ErrCircuitOpen
	}
	err := client.Call()
	if isTimeout(err) {
		breaker.RecordTimeout()
	} else {
		breaker.RecordSuccess()
	}

# Auto-recovery

While open, a bounded number of background probes may run:

	if breaker.BeginRecovery() {
		go func() { breaker.EndRecovery(probe() == nil) }()
	}

BeginRecovery never grants two claims without an intervening EndRecovery.
The attempt budget resets only when the breaker trips from closed, so each
trip gets a fresh budget and failed probes consume it.
*/
package resilience
