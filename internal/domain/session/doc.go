// Package session drives project activation: finding or launching the
// tagged editor and browser windows, moving them into the project's
// workspace, verifying arrival, and keeping the recency-ordered project
// list that display surfaces consume.
package session
