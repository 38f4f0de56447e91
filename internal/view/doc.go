// Package view holds the published advisor state. Store keeps the latest
// State under a read-write lock and exposes a conflated Watch channel the
// WebSocket hub consumes; the REST API reads Latest directly. States are
// replaced whole, never patched.
package view
