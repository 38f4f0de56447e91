package scan

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/wifiadvisor/wifiadvisor/internal/config"
)

// Band identifies the radio band an observation was seen on.
type Band string

const (
	Band24GHz Band = "2.4GHz"
	Band5GHz  Band = "5GHz"
)

// HiddenSSID is the placeholder display name for networks that do not
// broadcast an SSID.
const HiddenSSID = "Hidden"

// Observation is one scanned wireless network's measured attributes at a
// point in time. Observations are created fresh each scan cycle and are
// immutable once normalized; nothing outside the current cycle retains them.
type Observation struct {
	// ID is the stable identity of the network, normally the hardware
	// address (BSSID). When no hardware address is available a fingerprint
	// identity is generated; see fallbackID.
	ID string

	// SSID is the display name. Hidden networks carry HiddenSSID.
	SSID string

	// IsHidden is true when the network did not broadcast an SSID.
	IsHidden bool

	// RSSI is the signal strength in dBm, roughly -100..0. Always present.
	RSSI int

	// Band is the radio band: 2.4 GHz or 5 GHz.
	Band Band

	// Channel is the radio channel number.
	Channel int

	// Security is a free-form capability label such as "WPA2" or "WPA3".
	// Unrecognized values are treated as open by the score engine.
	Security string
}

// Source is the port every radio scan backend implements. Scan returns a
// fresh snapshot of visible networks; an empty slice means the radio is
// off, permission was denied, or the scan transiently failed; callers
// treat all three the same way. CurrentSSID returns the SSID of the
// currently associated network, or "" when not associated.
type Source interface {
	Scan(ctx context.Context) ([]Observation, error)
	CurrentSSID(ctx context.Context) (string, error)
}

// New returns the appropriate Source for the given scanner configuration.
func New(cfg config.ScannerConfig) (Source, error) {
	switch cfg.Type {
	case "nmcli":
		return &nmcliSource{iface: cfg.Interface}, nil
	case "static":
		if cfg.FixturePath == "" {
			return nil, fmt.Errorf("scan: static source requires fixture_path")
		}
		return &staticSource{path: cfg.FixturePath}, nil
	default:
		return nil, fmt.Errorf("scan: unsupported source type %q", cfg.Type)
	}
}

// Normalize applies the defaulting and uniqueness rules to a raw snapshot:
// hidden networks get the placeholder SSID and a fingerprint identity,
// and duplicate identities keep only the strongest signal so IDs are
// unique within one snapshot. Order of first appearance is preserved for
// the survivors.
func Normalize(obs []Observation) []Observation {
	out := make([]Observation, 0, len(obs))
	index := make(map[string]int, len(obs))

	for _, o := range obs {
		if o.SSID == "" {
			o.SSID = HiddenSSID
			o.IsHidden = true
		}
		if o.ID == "" {
			o.ID = fallbackID(o)
		}
		if i, ok := index[o.ID]; ok {
			if o.RSSI > out[i].RSSI {
				out[i] = o
			}
			continue
		}
		index[o.ID] = len(out)
		out = append(out, o)
	}
	return out
}

// fallbackID derives a stable identity for observations without a hardware
// address. The fingerprint uses band, channel, and security only, fields
// that do not fluctuate scan-to-scan, so the same hidden network keeps the
// same identity across cycles and debounce/current tracking keep working.
func fallbackID(o Observation) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%d|%s", o.Band, o.Channel, o.Security)
	return fmt.Sprintf("hidden-%08x", h.Sum32())
}

// SortByRSSI orders observations by signal strength descending, breaking
// ties by ID so the order is deterministic.
func SortByRSSI(obs []Observation) {
	sort.SliceStable(obs, func(i, j int) bool {
		if obs[i].RSSI != obs[j].RSSI {
			return obs[i].RSSI > obs[j].RSSI
		}
		return obs[i].ID < obs[j].ID
	})
}
