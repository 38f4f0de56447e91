package advisor

import (
	"sort"

	"github.com/wifiadvisor/wifiadvisor/internal/scan"
)

// ScoredObservation pairs an observation with its computed score. Derived
// per cycle, never stored independently of its source observation.
type ScoredObservation struct {
	scan.Observation

	// Score is the 0-100 quality rating.
	Score int

	// HasInternetBonus reports whether the internet bonus entered the score.
	HasInternetBonus bool
}

// SelectionResult is the outcome of one selection pass over a snapshot.
type SelectionResult struct {
	// Current is the observation resolved as the associated network, nil
	// when no SSID was known or none matched.
	Current *scan.Observation

	// BestAlternative is the highest-scoring viable network other than
	// Current, nil when no viable alternative exists.
	BestAlternative *scan.Observation

	// RecommendSwitch is true when BestAlternative beats Current by at
	// least the switch threshold.
	RecommendSwitch bool

	// ScoreDelta is best score minus current score (current treated as 0
	// when unresolved). Zero when there is no alternative.
	ScoreDelta int
}

// Select resolves the current network, scores the snapshot, and applies the
// hysteresis gate. Pure: the same inputs always yield the same result, and
// nothing is mutated.
//
// Only the resolved current observation receives the internet bonus; the
// engine cannot verify reachability for networks it is not associated with,
// and internetAvailable refers to the association in use.
func (p Policy) Select(snapshot []scan.Observation, previousCurrentSSID string, internetAvailable bool) SelectionResult {
	var res SelectionResult

	// Current-network resolution: strongest rssi among same-named
	// candidates; strict comparison keeps the first seen on ties.
	cur := -1
	if previousCurrentSSID != "" {
		for i, o := range snapshot {
			if o.SSID != previousCurrentSSID {
				continue
			}
			if cur < 0 || o.RSSI > snapshot[cur].RSSI {
				cur = i
			}
		}
	}

	currentScore := 0
	if cur >= 0 {
		c := snapshot[cur]
		res.Current = &c
		currentScore = p.Score(c, internetAvailable)
	}

	// Best-alternative selection over viable candidates, excluding the
	// current network. Ties break by score, then stronger rssi, then
	// lexical id.
	best := -1
	bestScore := 0
	for i, o := range snapshot {
		if i == cur {
			continue
		}
		s := p.Score(o, false)
		if s < p.WeakSignalFloor {
			continue // below the viability floor; never recommended
		}
		if best < 0 || s > bestScore ||
			(s == bestScore && o.RSSI > snapshot[best].RSSI) ||
			(s == bestScore && o.RSSI == snapshot[best].RSSI && o.ID < snapshot[best].ID) {
			best = i
			bestScore = s
		}
	}

	if best < 0 {
		return res
	}
	b := snapshot[best]
	res.BestAlternative = &b
	res.ScoreDelta = bestScore - currentScore

	// No recommendation when the current network already scores at least
	// as well as every viable candidate.
	if cur >= 0 && currentScore >= bestScore {
		return res
	}
	res.RecommendSwitch = res.ScoreDelta >= p.SwitchThreshold
	return res
}

// Rank scores every observation in the snapshot and returns the list sorted
// by score descending, for display. Only the observation whose ID matches
// currentID receives the internet bonus. Ties order by stronger rssi, then
// lexical id, so the ranking is stable scan-to-scan.
func (p Policy) Rank(snapshot []scan.Observation, currentID string, internetAvailable bool) []ScoredObservation {
	out := make([]ScoredObservation, 0, len(snapshot))
	for _, o := range snapshot {
		bonus := internetAvailable && currentID != "" && o.ID == currentID
		out = append(out, ScoredObservation{
			Observation:      o,
			Score:            p.Score(o, bonus),
			HasInternetBonus: bonus,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].RSSI != out[j].RSSI {
			return out[i].RSSI > out[j].RSSI
		}
		return out[i].ID < out[j].ID
	})
	return out
}
