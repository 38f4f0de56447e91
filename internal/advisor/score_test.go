package advisor

import (
	"testing"

	"github.com/wifiadvisor/wifiadvisor/internal/config"
	"github.com/wifiadvisor/wifiadvisor/internal/scan"
)

func scoringOverrides(threshold, floor, bonus int) config.ScoringConfig {
	return config.ScoringConfig{
		SwitchThreshold: &threshold,
		WeakSignalFloor: &floor,
		InternetBonus:   &bonus,
	}
}

func obs(rssi int, band scan.Band, security string) scan.Observation {
	return scan.Observation{
		ID:       "aa:bb:cc:dd:ee:ff",
		SSID:     "net",
		RSSI:     rssi,
		Band:     band,
		Channel:  36,
		Security: security,
	}
}

func TestScore_Buckets(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		name string
		o    scan.Observation
		net  bool
		want int
	}{
		{"strong 5GHz WPA3", obs(-45, scan.Band5GHz, "WPA3"), false, 50 + 20 + 15},
		{"strong 5GHz WPA3 with internet", obs(-45, scan.Band5GHz, "WPA3"), true, 50 + 20 + 15 + 10},
		{"top bucket boundary", obs(-50, scan.Band5GHz, "WPA3"), false, 50 + 20 + 15},
		{"second bucket", obs(-55, scan.Band24GHz, "WPA2"), false, 40 + 10 + 10},
		{"third bucket", obs(-65, scan.Band24GHz, "WPA"), false, 30 + 10 + 5},
		{"fourth bucket", obs(-72, scan.Band24GHz, ""), false, 20 + 10 + 0},
		{"open network", obs(-45, scan.Band24GHz, ""), false, 50 + 10 + 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Score(tc.o, tc.net); got != tc.want {
				t.Errorf("Score = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestScore_WeakSignalFloor(t *testing.T) {
	p := DefaultPolicy()

	// Below the lowest bucket the signal score is the base (10), which is
	// under the floor: band and security must not contribute at all.
	weak := obs(-85, scan.Band5GHz, "WPA3")

	if got := p.Score(weak, false); got != p.SignalBase {
		t.Errorf("weak score = %d, want exactly signal base %d", got, p.SignalBase)
	}
	if got := p.Score(weak, true); got != p.SignalBase+p.InternetBonus {
		t.Errorf("weak score with internet = %d, want %d", got, p.SignalBase+p.InternetBonus)
	}
}

func TestScore_Range(t *testing.T) {
	p := DefaultPolicy()
	for rssi := -100; rssi <= 0; rssi += 5 {
		for _, band := range []scan.Band{scan.Band24GHz, scan.Band5GHz} {
			for _, sec := range []string{"", "WEP", "WPA", "WPA2", "WPA3", "garbage"} {
				for _, net := range []bool{false, true} {
					got := p.Score(obs(rssi, band, sec), net)
					if got < 0 || got > MaxScore {
						t.Fatalf("Score(rssi=%d band=%s sec=%q net=%v) = %d out of [0,%d]",
							rssi, band, sec, net, got, MaxScore)
					}
				}
			}
		}
	}
}

func TestScore_MonotonicInRSSI(t *testing.T) {
	p := DefaultPolicy()
	for _, band := range []scan.Band{scan.Band24GHz, scan.Band5GHz} {
		for _, sec := range []string{"", "WPA2", "WPA3"} {
			prev := -1
			for rssi := -100; rssi <= 0; rssi++ {
				got := p.Score(obs(rssi, band, sec), false)
				if got < prev {
					t.Fatalf("score decreased from %d to %d at rssi=%d (band=%s sec=%q)",
						prev, got, rssi, band, sec)
				}
				prev = got
			}
		}
	}
}

func TestScore_SecurityOrdering(t *testing.T) {
	p := DefaultPolicy()
	order := []string{"", "WPA", "WPA2", "WPA3"}
	for rssi := -80; rssi <= -40; rssi += 10 {
		prev := -1
		for _, sec := range order {
			got := p.Score(obs(rssi, scan.Band24GHz, sec), false)
			if got < prev {
				t.Errorf("security %q scored %d, below weaker tier's %d (rssi=%d)",
					sec, got, prev, rssi)
			}
			prev = got
		}
	}
}

func TestScore_WeakFiveGHzDoesNotBeatStrongTwoFour(t *testing.T) {
	p := DefaultPolicy()
	strong24 := p.Score(obs(-48, scan.Band24GHz, "WPA2"), false)
	weak5 := p.Score(obs(-82, scan.Band5GHz, "WPA3"), false)
	if weak5 >= strong24 {
		t.Errorf("weak 5GHz (%d) must not outscore strong 2.4GHz (%d)", weak5, strong24)
	}
}

func TestSecurityScore_Labels(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		label string
		want  int
	}{
		{"WPA3", p.SecurityWPA3},
		{"WPA2 WPA3", p.SecurityWPA3}, // most capable wins
		{"WPA2", p.SecurityWPA2},
		{"RSN", p.SecurityWPA2},
		{"WPA1", p.SecurityWPA},
		{"wpa2", p.SecurityWPA2}, // case-insensitive
		{"", p.SecurityOpen},
		{"--", p.SecurityOpen},
		{"WEP", p.SecurityOpen}, // unrecognized defaults to open
	}
	for _, tc := range tests {
		if got := p.securityScore(tc.label); got != tc.want {
			t.Errorf("securityScore(%q) = %d, want %d", tc.label, got, tc.want)
		}
	}
}

func TestPolicyFromConfig_Overrides(t *testing.T) {
	p := PolicyFromConfig(scoringOverrides(20, 25, 5))
	if p.SwitchThreshold != 20 {
		t.Errorf("SwitchThreshold = %d, want 20", p.SwitchThreshold)
	}
	if p.WeakSignalFloor != 25 {
		t.Errorf("WeakSignalFloor = %d, want 25", p.WeakSignalFloor)
	}
	if p.InternetBonus != 5 {
		t.Errorf("InternetBonus = %d, want 5", p.InternetBonus)
	}

	// Unset overrides keep defaults.
	d := PolicyFromConfig(config.ScoringConfig{})
	if d.SwitchThreshold != DefaultSwitchThreshold {
		t.Errorf("default SwitchThreshold = %d, want %d", d.SwitchThreshold, DefaultSwitchThreshold)
	}
	if d.InternetBonus != DefaultInternetBonus {
		t.Errorf("default InternetBonus = %d, want %d", d.InternetBonus, DefaultInternetBonus)
	}

	// An explicit zero is a real override, not "unset".
	z := PolicyFromConfig(scoringOverrides(0, 0, 0))
	if z.InternetBonus != 0 {
		t.Errorf("explicit zero InternetBonus = %d, want 0", z.InternetBonus)
	}
	if z.WeakSignalFloor != 0 {
		t.Errorf("explicit zero WeakSignalFloor = %d, want 0", z.WeakSignalFloor)
	}
	if z.SwitchThreshold != 0 {
		t.Errorf("explicit zero SwitchThreshold = %d, want 0", z.SwitchThreshold)
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct{ in, want int }{
		{-5, 0}, {0, 0}, {50, 50}, {100, 100}, {120, 100},
	}
	for _, tc := range tests {
		if got := clampScore(tc.in); got != tc.want {
			t.Errorf("clampScore(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
