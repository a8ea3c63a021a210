// Package ws streams daemon events (activations, recovery sweeps,
// breaker state changes) to WebSocket subscribers.
package ws
