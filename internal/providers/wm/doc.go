// Package wm provides the window-manager capability interface.
//
// Client is the behavioral contract; CLI is the thin exec-backed adapter;
// Guarded is the decorator every core component uses, wiring the circuit
// breaker, call metrics, and logging around each operation. Only call
// timeouts trip the breaker: an error returned promptly still proves the
// window manager is responsive.
package wm
