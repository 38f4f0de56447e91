// Package orchestrator ties the scan source, the decision engine, and the
// outputs together in one serialized control loop. Periodic cycles are
// gated on the cached path-health state; manual triggers bypass the gate
// but share the same loop, so two cycles never overlap and a trigger
// during a running cycle is dropped. Each completed cycle publishes one
// atomic view state and at most one notification.
package orchestrator
