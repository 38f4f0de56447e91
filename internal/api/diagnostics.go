package api

import (
	"fmt"
	"net/http"

	"github.com/wifiadvisor/wifiadvisor/internal/health"
	"github.com/wifiadvisor/wifiadvisor/internal/view"
)

// DiagnosticHint is one human-readable insight about the current wireless
// situation, written in plain English for display in a client UI.
type DiagnosticHint struct {
	// Key is a stable machine-readable identifier (used for dedup/ordering).
	Key string `json:"key"`
	// Level is "ok" | "info" | "warning" | "critical"
	Level string `json:"level"`
	// Title is a short label (≤ 5 words).
	Title string `json:"title"`
	// Detail is the full explanation shown on click/hover.
	Detail string `json:"detail"`
	// Value is an optional number associated with this hint (score, RSSI).
	Value *float64 `json:"value,omitempty"`
}

// diagnostics returns GET /api/v1/diagnostics: plain-English hints derived
// from the latest view state and path health snapshot.
func (h *Handler) diagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, diagnosticsResponse{
		Hints: computeDiagnostics(h.store.Latest(), h.path.Latest()),
	})
}

type diagnosticsResponse struct {
	Hints []DiagnosticHint `json:"hints"`
}

// weakSignalHintDBm is the RSSI below which the current association gets a
// weak-signal hint. Matches the level where most clients start to struggle.
const weakSignalHintDBm = -75

// computeDiagnostics derives hints from a snapshot. Hints are ordered:
// critical first, then warnings, then info.
func computeDiagnostics(st view.State, hs health.Snapshot) []DiagnosticHint {
	var hints []DiagnosticHint

	if st.GeneratedAt.IsZero() {
		hints = append(hints, DiagnosticHint{
			Key:   "warming_up",
			Level: "info",
			Title: "Warming up",
			Detail: "The advisor has not completed its first scan cycle yet. " +
				"Results appear after the next cycle; trigger one now with " +
				"POST /api/v1/scan if you don't want to wait. No action needed.",
		})
		return hints
	}

	if !hs.Satisfied {
		hints = append(hints, DiagnosticHint{
			Key:   "path_down",
			Level: "critical",
			Title: "Network path down",
			Detail: "The connectivity probe cannot reach its target at all. " +
				"The device is either not associated to any network or the local " +
				"link is broken. Periodic scanning is paused until the path " +
				"recovers; manual scans still work.",
		})
		return hints
	}

	if hs.Satisfied && !hs.InternetReachable {
		hints = append(hints, DiagnosticHint{
			Key:   "captive_portal",
			Level: "warning",
			Title: "Captive portal suspected",
			Detail: "The probe target answered, but not with the expected " +
				"response. Something on the path is intercepting traffic, " +
				"most commonly a captive portal login page. Open a browser " +
				"and complete the portal sign-in. Until then no network " +
				"receives the verified-internet score bonus.",
		})
	}

	if len(st.Networks) == 0 {
		hints = append(hints, DiagnosticHint{
			Key:   "no_networks",
			Level: "warning",
			Title: "No networks visible",
			Detail: "The last scan returned nothing. Check that the wireless " +
				"radio is on and the advisor has permission to scan. The " +
				"previous recommendation state is kept, so a transient empty " +
				"scan will not cause repeat notifications.",
		})
		return hints
	}

	current := findNetwork(st.Networks, st.CurrentID)

	if current != nil && current.RSSI <= weakSignalHintDBm {
		v := float64(current.RSSI)
		hints = append(hints, DiagnosticHint{
			Key:   "weak_signal",
			Level: "warning",
			Title: fmt.Sprintf("Weak signal (%d dBm)", current.RSSI),
			Detail: fmt.Sprintf(
				"Your current network %s is at %d dBm, which is weak enough "+
					"that most devices see packet loss and retransmissions. "+
					"Move closer to the access point or switch to a stronger "+
					"network if one is listed.",
				current.SSID, current.RSSI,
			),
			Value: &v,
		})
	}

	if current != nil && current.Security == "" {
		hints = append(hints, DiagnosticHint{
			Key:   "open_network",
			Level: "warning",
			Title: "Unencrypted network",
			Detail: fmt.Sprintf(
				"Your current network %s has no encryption. Anyone in radio "+
					"range can read your traffic. Prefer a WPA2 or WPA3 "+
					"network, or use a VPN on this one.",
				current.SSID,
			),
		})
	}

	if st.RecommendSwitch {
		best := findNetwork(st.Networks, st.BestID)
		v := float64(st.ScoreDelta)
		detail := fmt.Sprintf(
			"A visible network scores %d points above your current one, "+
				"which clears the switch threshold. ", st.ScoreDelta)
		if best != nil {
			detail = fmt.Sprintf(
				"%s scores %d points above your current network, which "+
					"clears the switch threshold. ", best.SSID, st.ScoreDelta)
		}
		detail += "The advisor never switches for you; reconnect manually when convenient."
		hints = append(hints, DiagnosticHint{
			Key:    "better_network",
			Level:  "info",
			Title:  "Better network available",
			Detail: detail,
			Value:  &v,
		})
	}

	if len(hints) == 0 {
		var score float64
		if current != nil {
			score = float64(current.Score)
		}
		hint := DiagnosticHint{
			Key:   "healthy",
			Level: "ok",
			Title: "All clear",
			Detail: "Signal is solid, the internet path is verified, and no " +
				"visible network beats the current one by enough to be worth " +
				"a switch.",
		}
		if current != nil {
			hint.Detail = fmt.Sprintf(
				"You are on %s with a quality score of %.0f/100. Signal is "+
					"solid, the internet path is verified, and no visible "+
					"network beats it by enough to be worth a switch.",
				current.SSID, score,
			)
			hint.Value = &score
		}
		hints = append(hints, hint)
	}

	return hints
}

func findNetwork(nets []view.Network, id string) *view.Network {
	if id == "" {
		return nil
	}
	for i := range nets {
		if nets[i].ID == id {
			return &nets[i]
		}
	}
	return nil
}
