// Package types provides shared data structures for the deskpilot daemon.
//
// This package defines core types used across all components:
//   - Window: read-only snapshot of one window-manager window
//   - CapturedFocus: focus snapshot taken before UI disruption
//   - Rect, ScreenMode: normalized screen geometry
//   - Project: one configured project entry
//   - RecoveryResult: aggregate outcome of a recovery sweep
//   - Role: managed application role (editor, browser)
//
// Window identity is the externally-issued window id. Snapshots are
// re-fetched on every query; nothing here is cached across calls.
package types
