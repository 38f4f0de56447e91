package advisor

import (
	"strings"

	"github.com/wifiadvisor/wifiadvisor/internal/config"
	"github.com/wifiadvisor/wifiadvisor/internal/scan"
)

// Default policy values. The weights are a tuned policy, not a fixed law:
// everything that shapes a score or a recommendation is a named value here
// and can be revisited without touching selection logic.
const (
	// DefaultSwitchThreshold is the minimum score improvement before a
	// switch is recommended. Signal naturally fluctuates a few dBm between
	// scans; this gap keeps marginal improvements from flapping.
	DefaultSwitchThreshold = 15

	// DefaultWeakSignalFloor is the signal score below which a network is
	// capped to signal + internet bonus and is never viable as a
	// recommendation target.
	DefaultWeakSignalFloor = 20

	// DefaultInternetBonus is the additive bonus for a network whose
	// internet reachability was actually verified; only ever the
	// currently associated one.
	DefaultInternetBonus = 10

	// DefaultSignalBase is the score for signals weaker than the lowest
	// bucket threshold.
	DefaultSignalBase = 10

	// DefaultBand24Score is the flat band term for 2.4 GHz networks.
	DefaultBand24Score = 10

	// DefaultBand5Base is the 5 GHz band term at the weakest signal tier.
	// Equal to the 2.4 GHz term so a weak 5 GHz link earns no band edge.
	DefaultBand5Base = 10

	// MaxScore is the saturation ceiling for a total score.
	MaxScore = 100
)

// Default security term per tier, strictly increasing Open through WPA3.
const (
	DefaultSecurityOpen = 0
	DefaultSecurityWPA  = 5
	DefaultSecurityWPA2 = 10
	DefaultSecurityWPA3 = 15
)

// SignalBucket maps an rssi threshold to a signal score. A bucket applies
// when rssi >= MinRSSI.
type SignalBucket struct {
	MinRSSI int
	Score   int
}

// BandTier maps a signal-score threshold to a 5 GHz band score. A tier
// applies when the signal score >= MinSignal, which makes the band term a
// non-decreasing function of signal quality.
type BandTier struct {
	MinSignal int
	Score     int
}

// Policy holds every weight and threshold used by scoring and selection.
// A Policy is an immutable value; derive a changed copy rather than
// mutating one that is in use.
type Policy struct {
	// SignalBuckets is ordered strongest-first; the first bucket whose
	// MinRSSI the observation meets decides the signal score.
	SignalBuckets []SignalBucket

	// SignalBase is the score for anything weaker than the last bucket.
	SignalBase int

	// Band24Score is the flat 2.4 GHz band term.
	Band24Score int

	// Band5Tiers is ordered strongest-first, keyed on the signal score.
	Band5Tiers []BandTier

	// Band5Base is the 5 GHz band term below the lowest tier.
	Band5Base int

	// Security terms per tier.
	SecurityOpen int
	SecurityWPA  int
	SecurityWPA2 int
	SecurityWPA3 int

	// InternetBonus is added when reachability is verified for the
	// observation being scored.
	InternetBonus int

	// WeakSignalFloor caps weak-signal networks to signal + bonus and sets
	// the viability floor for recommendations.
	WeakSignalFloor int

	// SwitchThreshold is the hysteresis gate for recommendations.
	SwitchThreshold int
}

// DefaultPolicy returns the reference scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		SignalBuckets: []SignalBucket{
			{MinRSSI: -50, Score: 50},
			{MinRSSI: -60, Score: 40},
			{MinRSSI: -67, Score: 30},
			{MinRSSI: -75, Score: 20},
		},
		SignalBase:  DefaultSignalBase,
		Band24Score: DefaultBand24Score,
		Band5Tiers: []BandTier{
			{MinSignal: 50, Score: 20},
			{MinSignal: 40, Score: 16},
			{MinSignal: 30, Score: 13},
			{MinSignal: 20, Score: 11},
		},
		Band5Base:       DefaultBand5Base,
		SecurityOpen:    DefaultSecurityOpen,
		SecurityWPA:     DefaultSecurityWPA,
		SecurityWPA2:    DefaultSecurityWPA2,
		SecurityWPA3:    DefaultSecurityWPA3,
		InternetBonus:   DefaultInternetBonus,
		WeakSignalFloor: DefaultWeakSignalFloor,
		SwitchThreshold: DefaultSwitchThreshold,
	}
}

// PolicyFromConfig returns the default policy with any set overrides from
// the scoring config applied. Unset fields keep the defaults; an explicit
// zero is a real override, so internet_bonus: 0 disables the bonus.
func PolicyFromConfig(sc config.ScoringConfig) Policy {
	p := DefaultPolicy()
	if sc.SwitchThreshold != nil {
		p.SwitchThreshold = *sc.SwitchThreshold
	}
	if sc.WeakSignalFloor != nil {
		p.WeakSignalFloor = *sc.WeakSignalFloor
	}
	if sc.InternetBonus != nil {
		p.InternetBonus = *sc.InternetBonus
	}
	return p
}

// Score computes the quality score for one observation, in [0, MaxScore].
// Pure and total: any well-formed observation yields a score, and
// unrecognized security labels fall back to the open tier.
//
// internetAvailable must only be true when reachability was verified for
// this specific observation.
func (p Policy) Score(o scan.Observation, internetAvailable bool) int {
	sig := p.signalScore(o.RSSI)

	bonus := 0
	if internetAvailable {
		bonus = p.InternetBonus
	}

	// Hard floor: a weak-signal network never out-ranks on band or
	// security. Capped here, before the other terms enter.
	if sig < p.WeakSignalFloor {
		return clampScore(sig + bonus)
	}

	total := sig + p.bandScore(o.Band, sig) + p.securityScore(o.Security) + bonus
	return clampScore(total)
}

// signalScore maps rssi into the piecewise-constant bucket table.
func (p Policy) signalScore(rssi int) int {
	for _, b := range p.SignalBuckets {
		if rssi >= b.MinRSSI {
			return b.Score
		}
	}
	return p.SignalBase
}

// bandScore returns the band term. The 5 GHz term is tiered on the signal
// score so a weak 5 GHz link does not automatically outscore a strong
// 2.4 GHz one.
func (p Policy) bandScore(band scan.Band, signalScore int) int {
	if band != scan.Band5GHz {
		return p.Band24Score
	}
	for _, t := range p.Band5Tiers {
		if signalScore >= t.MinSignal {
			return t.Score
		}
	}
	return p.Band5Base
}

// securityScore maps a free-form capability label to its tier term.
// The label is matched most-capable-first since nmcli reports compound
// strings like "WPA2 WPA3".
func (p Policy) securityScore(label string) int {
	u := strings.ToUpper(label)
	switch {
	case strings.Contains(u, "WPA3"):
		return p.SecurityWPA3
	case strings.Contains(u, "WPA2") || strings.Contains(u, "RSN"):
		return p.SecurityWPA2
	case strings.Contains(u, "WPA"):
		return p.SecurityWPA
	default:
		return p.SecurityOpen
	}
}

// clampScore restricts a total to [0, MaxScore].
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
