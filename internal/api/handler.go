package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/wifiadvisor/wifiadvisor/internal/health"
	"github.com/wifiadvisor/wifiadvisor/internal/view"
)

// ScanTrigger requests a manual scan cycle. It reports false when a cycle
// is already in flight; manual triggers are dropped, never queued.
type ScanTrigger interface {
	ScanNow() bool
}

// PathHealth exposes the latest cached path health snapshot.
type PathHealth interface {
	Latest() health.Snapshot
}

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	store   *view.Store
	trigger ScanTrigger
	path    PathHealth
	mux     *http.ServeMux
}

// New creates a Handler wired to the view store, the manual scan trigger,
// and the path health monitor, and registers all routes.
func New(st *view.Store, trigger ScanTrigger, path PathHealth) http.Handler {
	h := &Handler{store: st, trigger: trigger, path: path, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/state", h.state)
	h.mux.HandleFunc("/api/v1/networks", h.networks)
	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/diagnostics", h.diagnostics)
	h.mux.HandleFunc("/api/v1/scan", h.scan)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// state returns GET /api/v1/state: the latest published view state.
func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.store.Latest())
}

// networks returns GET /api/v1/networks: the ranked network list only.
func (h *Handler) networks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	st := h.store.Latest()
	jsonResp(w, http.StatusOK, networksResponse{
		Networks:    st.Networks,
		CurrentID:   st.CurrentID,
		BestID:      st.BestID,
		GeneratedAt: st.GeneratedAt,
	})
}

// health returns GET /api/v1/health: liveness plus the latest path state.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	snap := h.path.Latest()
	jsonResp(w, http.StatusOK, healthResponse{
		Status:            "ok",
		PathSatisfied:     snap.Satisfied,
		InternetReachable: snap.InternetReachable,
		CheckedAt:         snap.CheckedAt,
	})
}

// scan handles POST /api/v1/scan; triggers a manual scan cycle. The manual
// path bypasses the path-health gate; a cycle already in flight yields 409.
func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !h.trigger.ScanNow() {
		jsonErr(w, http.StatusConflict, "scan already in progress")
		return
	}
	jsonResp(w, http.StatusAccepted, statusResponse{Status: "scan triggered"})
}

// --- payloads and helpers ---------------------------------------------------

type networksResponse struct {
	Networks    []view.Network `json:"networks"`
	CurrentID   string         `json:"current_id,omitempty"`
	BestID      string         `json:"best_id,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
}

type healthResponse struct {
	Status            string    `json:"status"`
	PathSatisfied     bool      `json:"path_satisfied"`
	InternetReachable bool      `json:"internet_reachable"`
	CheckedAt         time.Time `json:"checked_at"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
