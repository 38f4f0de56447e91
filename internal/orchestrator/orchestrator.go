package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wifiadvisor/wifiadvisor/internal/advisor"
	"github.com/wifiadvisor/wifiadvisor/internal/health"
	"github.com/wifiadvisor/wifiadvisor/internal/notify"
	"github.com/wifiadvisor/wifiadvisor/internal/scan"
	"github.com/wifiadvisor/wifiadvisor/internal/view"
)

// PathHealth exposes the latest cached path health snapshot. The
// orchestrator reads it at the start of each cycle and never blocks on an
// in-flight probe.
type PathHealth interface {
	Latest() health.Snapshot
}

// Notifier delivers a recommendation that passed the debouncer.
type Notifier interface {
	Dispatch(n notify.Notification)
}

// Orchestrator runs the periodic scan cycle: gate on path health, scan,
// select, debounce, publish. All cycles, timer-driven and manual alike, run on
// the single Run goroutine, so they are serialized by construction; a
// trigger that arrives while a cycle is in flight is dropped, not queued.
//
// The only state carried between cycles is the last-known current SSID and
// the debouncer's own record; both are owned here or below, never global.
type Orchestrator struct {
	source    scan.Source
	path      PathHealth
	store     *view.Store
	debouncer *advisor.Debouncer
	notifier  Notifier
	interval  time.Duration

	mu     sync.RWMutex
	policy advisor.Policy

	lastSSID string // loop-goroutine only
	scanNow  chan struct{}

	now func() time.Time // injectable for tests
}

// New creates an Orchestrator. Call Run to start the loop.
func New(source scan.Source, path PathHealth, store *view.Store,
	debouncer *advisor.Debouncer, notifier Notifier,
	policy advisor.Policy, interval time.Duration) *Orchestrator {
	return &Orchestrator{
		source:    source,
		path:      path,
		store:     store,
		debouncer: debouncer,
		notifier:  notifier,
		interval:  interval,
		policy:    policy,
		scanNow:   make(chan struct{}),
		now:       time.Now,
	}
}

// SetPolicy swaps the scoring policy; the next cycle picks it up. Called
// by the config hot-reload path.
func (o *Orchestrator) SetPolicy(p advisor.Policy) {
	o.mu.Lock()
	o.policy = p
	o.mu.Unlock()
	slog.Info("orchestrator: scoring policy updated",
		"switch_threshold", p.SwitchThreshold,
		"weak_signal_floor", p.WeakSignalFloor,
	)
}

// ScanNow requests a manual scan cycle, bypassing the path-health gate.
// Returns false when a cycle is already in flight; the request is dropped
// rather than queued; a queued stale request would produce a second,
// conflicting snapshot right after the current one.
func (o *Orchestrator) ScanNow() bool {
	select {
	case o.scanNow <- struct{}{}:
		return true
	default:
		return false
	}
}

// Run drives the scan loop until ctx is cancelled. Periodic ticks are
// skipped entirely while the path is unsatisfied; manual triggers are not.
func (o *Orchestrator) Run(ctx context.Context) {
	t := time.NewTicker(o.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if !o.path.Latest().Satisfied {
				slog.Debug("orchestrator: path unsatisfied (skipping cycle)")
				continue
			}
			o.cycle(ctx)
		case <-o.scanNow:
			o.cycle(ctx)
		}

		// A tick that fired while the cycle ran would start a back-to-back
		// cycle on the stale schedule; stale ticks are dropped the same way
		// stale manual triggers are.
		select {
		case <-t.C:
		default:
		}
	}
}

// cycle performs one scan cycle end to end. View state is published
// exactly once, at the end, so consumers never observe a partial update.
func (o *Orchestrator) cycle(ctx context.Context) {
	o.store.SetScanning(true)
	defer o.store.SetScanning(false)

	hs := o.path.Latest()

	obs, err := o.source.Scan(ctx)
	if err != nil {
		// Transient scan failure collapses to an empty snapshot; the next
		// tick is the retry.
		slog.Warn("orchestrator: scan failed", "err", err)
		obs = nil
	}

	if len(obs) == 0 {
		// Radio off, permission denied, or nothing visible. Publish the
		// empty list but leave debounce state and the last-known SSID
		// alone; "no networks" is not a recommendation of nothing.
		slog.Debug("orchestrator: empty scan result")
		o.store.Publish(view.State{
			GeneratedAt:       o.now(),
			PathSatisfied:     hs.Satisfied,
			InternetReachable: hs.InternetReachable,
			Networks:          []view.Network{},
		})
		return
	}

	if ssid, err := o.source.CurrentSSID(ctx); err != nil {
		slog.Warn("orchestrator: current ssid lookup failed, keeping previous", "err", err)
	} else {
		o.lastSSID = ssid
	}

	pol := o.currentPolicy()
	res := pol.Select(obs, o.lastSSID, hs.InternetReachable)

	currentID := ""
	if res.Current != nil {
		currentID = res.Current.ID
	}
	bestID := ""
	if res.BestAlternative != nil {
		bestID = res.BestAlternative.ID
	}

	if o.debouncer.ShouldNotify(res) {
		n := notify.Notification{
			BestSSID:   res.BestAlternative.SSID,
			BestID:     res.BestAlternative.ID,
			ScoreDelta: res.ScoreDelta,
			At:         o.now(),
		}
		if res.Current != nil {
			n.CurrentSSID = res.Current.SSID
		}
		o.notifier.Dispatch(n)
	}

	ranked := pol.Rank(obs, currentID, hs.InternetReachable)
	o.store.Publish(view.State{
		GeneratedAt:       o.now(),
		PathSatisfied:     hs.Satisfied,
		InternetReachable: hs.InternetReachable,
		Networks:          view.FromScored(ranked),
		CurrentID:         currentID,
		BestID:            bestID,
		RecommendSwitch:   res.RecommendSwitch,
		ScoreDelta:        res.ScoreDelta,
	})
}

func (o *Orchestrator) currentPolicy() advisor.Policy {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.policy
}
