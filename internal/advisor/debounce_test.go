package advisor

import (
	"testing"
	"time"

	"github.com/wifiadvisor/wifiadvisor/internal/scan"
)

func recommendation(id, ssid string) SelectionResult {
	o := scan.Observation{ID: id, SSID: ssid, RSSI: -50, Band: scan.Band5GHz, Security: "WPA3"}
	return SelectionResult{
		BestAlternative: &o,
		RecommendSwitch: true,
		ScoreDelta:      20,
	}
}

func TestDebouncer_FiresOncePerTarget(t *testing.T) {
	d := NewDebouncer(0)

	res := recommendation("net-a", "NetA")
	if !d.ShouldNotify(res) {
		t.Fatal("first call: want true")
	}
	if d.ShouldNotify(res) {
		t.Error("second identical call: want false")
	}
	if d.ShouldNotify(res) {
		t.Error("third identical call: want false")
	}
}

func TestDebouncer_RearmsOnDifferentTarget(t *testing.T) {
	d := NewDebouncer(0)

	if !d.ShouldNotify(recommendation("net-a", "NetA")) {
		t.Fatal("net-a: want true")
	}
	if !d.ShouldNotify(recommendation("net-b", "NetB")) {
		t.Error("net-b after net-a: want true")
	}
	if d.ShouldNotify(recommendation("net-b", "NetB")) {
		t.Error("net-b repeat: want false")
	}
	// Back to the earlier target; it is a different network again.
	if !d.ShouldNotify(recommendation("net-a", "NetA")) {
		t.Error("net-a after net-b: want true")
	}
}

func TestDebouncer_NoFireWithoutRecommendation(t *testing.T) {
	d := NewDebouncer(0)

	res := recommendation("net-a", "NetA")
	res.RecommendSwitch = false
	if d.ShouldNotify(res) {
		t.Error("want false when RecommendSwitch is false")
	}

	if d.ShouldNotify(SelectionResult{RecommendSwitch: true}) {
		t.Error("want false when BestAlternative is nil")
	}
}

// A negative result must not mutate state: the next real recommendation
// for a new target still fires.
func TestDebouncer_NoMutationOnFalse(t *testing.T) {
	d := NewDebouncer(0)

	res := recommendation("net-a", "NetA")
	res.RecommendSwitch = false
	d.ShouldNotify(res)

	if !d.ShouldNotify(recommendation("net-a", "NetA")) {
		t.Error("want true; the suppressed call must not have recorded net-a")
	}
}

// The recommendation disappears for a while and returns unchanged: state
// persists, so no second notification.
func TestDebouncer_PersistsAcrossDisappearance(t *testing.T) {
	d := NewDebouncer(0)

	if !d.ShouldNotify(recommendation("net-a", "NetA")) {
		t.Fatal("initial: want true")
	}

	// Two cycles where the recommendation is gone.
	d.ShouldNotify(SelectionResult{})
	d.ShouldNotify(SelectionResult{})

	if d.ShouldNotify(recommendation("net-a", "NetA")) {
		t.Error("reappearance of the same target: want false")
	}
}

func TestDebouncer_RenotifyAfter(t *testing.T) {
	base := time.Now()
	now := base
	d := NewDebouncer(30 * time.Minute)
	d.now = func() time.Time { return now }

	if !d.ShouldNotify(recommendation("net-a", "NetA")) {
		t.Fatal("initial: want true")
	}

	now = base.Add(29 * time.Minute)
	if d.ShouldNotify(recommendation("net-a", "NetA")) {
		t.Error("before renotify interval: want false")
	}

	now = base.Add(30 * time.Minute)
	if !d.ShouldNotify(recommendation("net-a", "NetA")) {
		t.Error("at renotify interval: want true")
	}

	// Firing re-stamps the clock.
	now = base.Add(31 * time.Minute)
	if d.ShouldNotify(recommendation("net-a", "NetA")) {
		t.Error("right after re-fire: want false")
	}
}
