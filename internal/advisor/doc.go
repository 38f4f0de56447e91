// Package advisor is the network quality decision engine.
//
// score.go provides the pure Policy.Score function that rates one scanned
// network 0-100 from signal, band, security, and internet-bonus terms, with
// a hard weak-signal floor. Every weight lives in the Policy value so the
// scoring formula can be tuned without touching selection logic.
//
// selector.go resolves the current network from a scan snapshot, picks the
// best viable alternative, and applies the hysteresis gate that keeps
// recommendations from flapping as signal fluctuates between scans.
//
// debounce.go suppresses repeat notifications for a recommendation that
// has already been announced.
package advisor
