package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/wifiadvisor/wifiadvisor/internal/advisor"
	"github.com/wifiadvisor/wifiadvisor/internal/health"
	"github.com/wifiadvisor/wifiadvisor/internal/notify"
	"github.com/wifiadvisor/wifiadvisor/internal/scan"
	"github.com/wifiadvisor/wifiadvisor/internal/view"
)

// fakeSource replays queued snapshots; the last one repeats.
type fakeSource struct {
	mu        sync.Mutex
	snapshots [][]scan.Observation
	ssid      string
	scans     int
	started   chan struct{} // signalled on Scan entry when non-nil
	release   chan struct{} // Scan blocks on this when non-nil
}

func (f *fakeSource) Scan(ctx context.Context) ([]scan.Observation, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scans++
	if len(f.snapshots) == 0 {
		return nil, nil
	}
	snap := f.snapshots[0]
	if len(f.snapshots) > 1 {
		f.snapshots = f.snapshots[1:]
	}
	return snap, nil
}

func (f *fakeSource) CurrentSSID(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ssid, nil
}

func (f *fakeSource) scanCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scans
}

// fakeHealth serves a fixed snapshot.
type fakeHealth struct{ snap health.Snapshot }

func (f *fakeHealth) Latest() health.Snapshot { return f.snap }

func healthy() *fakeHealth {
	return &fakeHealth{snap: health.Snapshot{Satisfied: true, InternetReachable: true, CheckedAt: time.Now()}}
}

// fakeNotifier records dispatched notifications.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (f *fakeNotifier) Dispatch(n notify.Notification) {
	f.mu.Lock()
	f.sent = append(f.sent, n)
	f.mu.Unlock()
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func network(id, ssid string, rssi int, band scan.Band, security string) scan.Observation {
	return scan.Observation{ID: id, SSID: ssid, RSSI: rssi, Band: band, Channel: 1, Security: security}
}

// homeSnapshot is the reference scenario: the 5 GHz sibling beats the
// current 2.4 GHz association by exactly the switch threshold.
func homeSnapshot() []scan.Observation {
	return []scan.Observation{
		network("home-24", "Home", -55, scan.Band24GHz, "WPA2"),
		network("home-5g", "Home5G", -50, scan.Band5GHz, "WPA3"),
	}
}

func newTestOrchestrator(src *fakeSource, ph PathHealth, n Notifier) (*Orchestrator, *view.Store) {
	store := view.NewStore()
	o := New(src, ph, store, advisor.NewDebouncer(0), n, advisor.DefaultPolicy(), time.Hour)
	return o, store
}

func TestCycle_RecommendsAndNotifiesOnce(t *testing.T) {
	src := &fakeSource{snapshots: [][]scan.Observation{homeSnapshot()}, ssid: "Home"}
	notifier := &fakeNotifier{}
	o, store := newTestOrchestrator(src, healthy(), notifier)

	o.cycle(context.Background())

	st := store.Latest()
	if st.CurrentID != "home-24" {
		t.Errorf("CurrentID = %q, want home-24", st.CurrentID)
	}
	if st.BestID != "home-5g" {
		t.Errorf("BestID = %q, want home-5g", st.BestID)
	}
	if !st.RecommendSwitch || st.ScoreDelta < advisor.DefaultSwitchThreshold {
		t.Errorf("recommendation = %v delta %d", st.RecommendSwitch, st.ScoreDelta)
	}
	if len(st.Networks) != 2 || st.Networks[0].ID != "home-5g" {
		t.Errorf("ranked list = %+v, want home-5g first", st.Networks)
	}

	if notifier.count() != 1 {
		t.Fatalf("notifications = %d, want 1", notifier.count())
	}
	notifier.mu.Lock()
	n := notifier.sent[0]
	notifier.mu.Unlock()
	if n.BestSSID != "Home5G" || n.CurrentSSID != "Home" {
		t.Errorf("notification = %+v", n)
	}

	// An identical second cycle is debounced.
	o.cycle(context.Background())
	if notifier.count() != 1 {
		t.Errorf("notifications after repeat cycle = %d, want 1", notifier.count())
	}
}

// Scenario: the recommended network vanishes for a cycle and then returns
// unchanged. The debounce record survives, so no second notification.
func TestCycle_NoRenotifyAfterDisappearance(t *testing.T) {
	src := &fakeSource{
		snapshots: [][]scan.Observation{
			homeSnapshot(),
			{network("home-24", "Home", -55, scan.Band24GHz, "WPA2")},
			homeSnapshot(),
		},
		ssid: "Home",
	}
	notifier := &fakeNotifier{}
	o, _ := newTestOrchestrator(src, healthy(), notifier)

	o.cycle(context.Background())
	o.cycle(context.Background())
	o.cycle(context.Background())

	if notifier.count() != 1 {
		t.Errorf("notifications = %d, want 1", notifier.count())
	}
}

func TestCycle_SingleNetworkIsCurrent(t *testing.T) {
	src := &fakeSource{
		snapshots: [][]scan.Observation{{network("only", "Home", -52, scan.Band5GHz, "WPA2")}},
		ssid:      "Home",
	}
	notifier := &fakeNotifier{}
	o, store := newTestOrchestrator(src, healthy(), notifier)

	o.cycle(context.Background())

	st := store.Latest()
	if st.CurrentID != "only" || st.BestID != "" {
		t.Errorf("state = current %q best %q, want only/none", st.CurrentID, st.BestID)
	}
	if st.RecommendSwitch {
		t.Error("RecommendSwitch = true, want false")
	}
	if len(st.Networks) != 1 || st.Networks[0].Score == 0 {
		t.Errorf("ranked list = %+v, want the full score still published", st.Networks)
	}
	if notifier.count() != 0 {
		t.Errorf("notifications = %d, want 0", notifier.count())
	}
}

func TestCycle_EmptyScan(t *testing.T) {
	// Prime the debouncer, then feed an empty scan.
	src := &fakeSource{snapshots: [][]scan.Observation{homeSnapshot(), {}}, ssid: "Home"}
	notifier := &fakeNotifier{}
	o, store := newTestOrchestrator(src, healthy(), notifier)

	o.cycle(context.Background())
	o.cycle(context.Background())

	st := store.Latest()
	if len(st.Networks) != 0 {
		t.Errorf("Networks = %+v, want empty", st.Networks)
	}
	if st.CurrentID != "" || st.BestID != "" || st.RecommendSwitch {
		t.Errorf("state = %+v, want no selection", st)
	}
	if notifier.count() != 1 {
		t.Errorf("notifications = %d, want the one from before the outage", notifier.count())
	}

	// The SSID memory survived the outage: the next good scan still
	// resolves the current network and stays debounced.
	src.mu.Lock()
	src.snapshots = [][]scan.Observation{homeSnapshot()}
	src.mu.Unlock()
	o.cycle(context.Background())

	if got := store.Latest().CurrentID; got != "home-24" {
		t.Errorf("CurrentID after recovery = %q, want home-24", got)
	}
	if notifier.count() != 1 {
		t.Errorf("notifications after recovery = %d, want 1", notifier.count())
	}
}

func TestRun_SkipsCycleWhenPathUnsatisfied(t *testing.T) {
	src := &fakeSource{snapshots: [][]scan.Observation{homeSnapshot()}, ssid: "Home"}
	o, _ := newTestOrchestrator(src, &fakeHealth{}, &fakeNotifier{})
	o.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go o.Run(ctx)

	time.Sleep(100 * time.Millisecond)
	cancel()

	if n := src.scanCount(); n != 0 {
		t.Errorf("scans = %d, want 0 with unsatisfied path", n)
	}
}

func TestScanNow_BypassesHealthGate(t *testing.T) {
	src := &fakeSource{snapshots: [][]scan.Observation{homeSnapshot()}, ssid: "Home"}
	o, store := newTestOrchestrator(src, &fakeHealth{}, &fakeNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	deadline := time.After(2 * time.Second)
	for !o.ScanNow() {
		select {
		case <-deadline:
			t.Fatal("ScanNow never accepted")
		case <-time.After(5 * time.Millisecond):
		}
	}

	for store.Latest().CurrentID == "" {
		select {
		case <-deadline:
			t.Fatal("manual cycle never published")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestScanNow_DroppedWhileCycleInFlight(t *testing.T) {
	src := &fakeSource{
		snapshots: [][]scan.Observation{homeSnapshot()},
		ssid:      "Home",
		started:   make(chan struct{}, 1),
		release:   make(chan struct{}),
	}
	o, _ := newTestOrchestrator(src, healthy(), &fakeNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	deadline := time.After(2 * time.Second)
	for !o.ScanNow() {
		select {
		case <-deadline:
			t.Fatal("first ScanNow never accepted")
		case <-time.After(5 * time.Millisecond):
		}
	}
	<-src.started // the cycle is now blocked inside Scan

	if o.ScanNow() {
		t.Error("second ScanNow accepted while a cycle is in flight")
	}
	close(src.release)
}

// A periodic tick that fires while a cycle is in flight is dropped like a
// stale manual trigger; the next cycle waits for a fresh tick instead of
// running back-to-back.
func TestRun_DropsTickDuringCycle(t *testing.T) {
	src := &fakeSource{
		snapshots: [][]scan.Observation{homeSnapshot()},
		ssid:      "Home",
		started:   make(chan struct{}, 4),
		release:   make(chan struct{}),
	}
	o, _ := newTestOrchestrator(src, healthy(), &fakeNotifier{})
	o.interval = 100 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go o.Run(ctx)

	<-src.started // first periodic cycle is blocked inside Scan

	// Let more than one interval elapse so a tick buffers in the ticker.
	time.Sleep(250 * time.Millisecond)
	src.release <- struct{}{}
	resumed := time.Now()

	<-src.started // second cycle begins
	if gap := time.Since(resumed); gap < 25*time.Millisecond {
		t.Errorf("second cycle started %v after the first finished, want a fresh tick", gap)
	}
	close(src.release)
}

func TestSetPolicy_AppliesOnNextCycle(t *testing.T) {
	src := &fakeSource{snapshots: [][]scan.Observation{homeSnapshot()}, ssid: "Home"}
	notifier := &fakeNotifier{}
	o, store := newTestOrchestrator(src, healthy(), notifier)

	// Raise the threshold above the reference delta: no recommendation.
	p := advisor.DefaultPolicy()
	p.SwitchThreshold = 40
	o.SetPolicy(p)

	o.cycle(context.Background())

	st := store.Latest()
	if st.RecommendSwitch {
		t.Error("RecommendSwitch = true with raised threshold")
	}
	if notifier.count() != 0 {
		t.Errorf("notifications = %d, want 0", notifier.count())
	}
}
