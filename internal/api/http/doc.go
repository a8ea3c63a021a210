// Package http contains the gin handlers of the daemon's control API.
package http
