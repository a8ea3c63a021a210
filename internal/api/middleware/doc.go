// Package middleware provides the HTTP middleware of the control API:
// CORS for local launcher UIs and token-bucket rate limiting, per-client
// and global.
package middleware
