package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wifiadvisor/wifiadvisor/internal/config"
)

// Snapshot is the latest known state of the network path.
type Snapshot struct {
	// Satisfied reports that the path is usable at all; the probe target
	// answered, even if not with the expected result.
	Satisfied bool

	// InternetReachable reports that the probe confirmed actual internet
	// reachability (expected status, or probe_success for blackbox).
	// A captive portal typically reads as Satisfied but not reachable.
	InternetReachable bool

	// CheckedAt is when the probe last completed. Zero before the first probe.
	CheckedAt time.Time
}

// Prober performs one path check. Implementations must honor ctx deadlines.
type Prober interface {
	Probe(ctx context.Context) Snapshot
}

// Monitor runs a Prober on a fixed interval and caches the latest Snapshot
// for lock-cheap reads. Consumers read the cached value at the moment they
// need it rather than blocking on an in-flight probe.
//
// Monitor is safe for concurrent use.
type Monitor struct {
	prober   Prober
	interval time.Duration

	mu     sync.RWMutex
	latest Snapshot
}

// NewMonitor builds a Monitor with the prober selected by cfg.
func NewMonitor(cfg config.HealthConfig) (*Monitor, error) {
	p, err := newProber(cfg)
	if err != nil {
		return nil, err
	}
	return &Monitor{prober: p, interval: cfg.Interval}, nil
}

// NewMonitorWith wraps an existing Prober; used by tests.
func NewMonitorWith(p Prober, interval time.Duration) *Monitor {
	return &Monitor{prober: p, interval: interval}
}

func newProber(cfg config.HealthConfig) (Prober, error) {
	switch cfg.Probe {
	case "http":
		return newHTTPProber(cfg), nil
	case "blackbox":
		return newBlackboxProber(cfg), nil
	default:
		return nil, fmt.Errorf("health: unsupported probe %q", cfg.Probe)
	}
}

// Run probes immediately, then on every interval tick, until ctx is
// cancelled. State transitions are logged; steady states are not.
func (m *Monitor) Run(ctx context.Context) {
	m.update(m.prober.Probe(ctx))

	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.update(m.prober.Probe(ctx))
		}
	}
}

// Latest returns the most recent snapshot. Before the first probe finishes
// it returns the zero Snapshot, which reads as an unsatisfied path.
func (m *Monitor) Latest() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

func (m *Monitor) update(s Snapshot) {
	m.mu.Lock()
	prev := m.latest
	m.latest = s
	m.mu.Unlock()

	if prev.Satisfied != s.Satisfied || prev.InternetReachable != s.InternetReachable {
		slog.Info("health: path state changed",
			"satisfied", s.Satisfied,
			"internet_reachable", s.InternetReachable,
		)
	}
}
