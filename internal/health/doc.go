// Package health monitors network path health. A Monitor runs a Prober on
// its own interval and caches the latest {satisfied, internet-reachable}
// snapshot; the scan orchestrator reads that cached value at the start of
// each cycle and never blocks on an in-flight probe.
//
// Probes: a plain HTTP connectivity check (prober.go, httpProber) and a
// blackbox exporter scrape that reads the probe_success gauge from a
// Prometheus exposition (blackboxProber).
package health
