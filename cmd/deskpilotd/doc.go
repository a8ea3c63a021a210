// Command deskpilotd is the workspace-switcher daemon. It drives the
// tiling window manager's CLI to activate per-project workspaces, lay out
// editor and browser windows, and recover windows that drift.
package main
