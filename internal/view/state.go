package view

import (
	"sync"
	"time"

	"github.com/wifiadvisor/wifiadvisor/internal/advisor"
)

// Network is one ranked entry in the published view.
type Network struct {
	ID               string `json:"id"`
	SSID             string `json:"ssid"`
	IsHidden         bool   `json:"is_hidden,omitempty"`
	RSSI             int    `json:"rssi"`
	Band             string `json:"band"`
	Channel          int    `json:"channel"`
	Security         string `json:"security"`
	Score            int    `json:"score"`
	HasInternetBonus bool   `json:"has_internet_bonus,omitempty"`
}

// State is the complete view published at the end of each scan cycle.
// It is replaced atomically; consumers never see a partial update.
type State struct {
	GeneratedAt       time.Time `json:"generated_at"`
	IsScanning        bool      `json:"is_scanning"`
	PathSatisfied     bool      `json:"path_satisfied"`
	InternetReachable bool      `json:"internet_reachable"`

	// Networks is the ranked list, sorted by score descending.
	Networks []Network `json:"networks"`

	// CurrentID and BestID identify the associated network and the best
	// alternative within Networks. Empty when unresolved.
	CurrentID string `json:"current_id,omitempty"`
	BestID    string `json:"best_id,omitempty"`

	RecommendSwitch bool `json:"recommend_switch"`
	ScoreDelta      int  `json:"score_delta"`
}

// FromScored converts the advisor's ranked observations to view entries.
func FromScored(scored []advisor.ScoredObservation) []Network {
	out := make([]Network, 0, len(scored))
	for _, s := range scored {
		out = append(out, Network{
			ID:               s.ID,
			SSID:             s.SSID,
			IsHidden:         s.IsHidden,
			RSSI:             s.RSSI,
			Band:             string(s.Band),
			Channel:          s.Channel,
			Security:         s.Security,
			Score:            s.Score,
			HasInternetBonus: s.HasInternetBonus,
		})
	}
	return out
}

// Store holds the latest published State and fans updates out to watchers.
// Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	latest   State
	scanning bool
	watch    chan State
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		latest: State{Networks: []Network{}},
		watch:  make(chan State, 1),
	}
}

// Publish replaces the stored state and notifies the watcher. Called by the
// orchestrator's completion step only.
func (s *Store) Publish(st State) {
	s.mu.Lock()
	st.IsScanning = s.scanning
	s.latest = st
	s.mu.Unlock()
	s.notify(st)
}

// SetScanning flags whether a scan cycle is in flight and re-broadcasts the
// latest state so indicators update promptly.
func (s *Store) SetScanning(v bool) {
	s.mu.Lock()
	s.scanning = v
	st := s.latest
	st.IsScanning = v
	s.latest = st
	s.mu.Unlock()
	s.notify(st)
}

// Latest returns the most recently published state.
func (s *Store) Latest() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Watch returns a channel carrying published states. The channel is
// conflated: when the consumer lags, intermediate states are replaced by
// the newest one rather than queued.
func (s *Store) Watch() <-chan State {
	return s.watch
}

func (s *Store) notify(st State) {
	for {
		select {
		case s.watch <- st:
			return
		default:
			// Drop the stale pending state and retry with the newest.
			select {
			case <-s.watch:
			default:
			}
		}
	}
}
