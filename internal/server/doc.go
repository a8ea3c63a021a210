// Package server assembles the daemon: configuration, providers, domain
// services, the HTTP control API, and the WebSocket event stream.
package server
