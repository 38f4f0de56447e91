// Package ws pushes published advisor states to WebSocket clients. The Hub
// consumes the view store's watch channel and broadcasts each state as a
// JSON envelope; clients receive the latest state on connect and are
// disconnected when they stop draining their buffer.
package ws
