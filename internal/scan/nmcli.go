package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// nmcliFields is the terse field list requested from nmcli. BSSID colons
// arrive backslash-escaped in -t mode; see splitTerse.
const nmcliFields = "IN-USE,BSSID,SSID,CHAN,FREQ,SIGNAL,SECURITY"

// nmcliSource scans via the NetworkManager CLI. It shells out on every
// Scan call; NetworkManager owns caching and rescan pacing.
type nmcliSource struct {
	iface string // optional; restricts the scan to one interface

	// runner is injectable for tests. Defaults to running nmcli.
	runner func(ctx context.Context, args ...string) ([]byte, error)
}

func (s *nmcliSource) run(ctx context.Context, args ...string) ([]byte, error) {
	if s.runner != nil {
		return s.runner(ctx, args...)
	}
	return exec.CommandContext(ctx, "nmcli", args...).Output()
}

// Scan lists visible networks. Any nmcli failure (no radio, no
// NetworkManager, permission denied) is logged and collapsed to an empty
// snapshot; the orchestrator treats those cases identically.
func (s *nmcliSource) Scan(ctx context.Context) ([]Observation, error) {
	args := []string{"-t", "-f", nmcliFields, "device", "wifi", "list"}
	if s.iface != "" {
		args = append(args, "ifname", s.iface)
	}

	out, err := s.run(ctx, args...)
	if err != nil {
		slog.Warn("scan: nmcli list failed", "err", err)
		return nil, nil
	}
	return Normalize(parseNmcliList(string(out))), nil
}

// CurrentSSID returns the SSID of the active wifi connection, or "" when
// not associated.
func (s *nmcliSource) CurrentSSID(ctx context.Context) (string, error) {
	out, err := s.run(ctx, "-t", "-f", "ACTIVE,SSID", "device", "wifi", "list")
	if err != nil {
		return "", fmt.Errorf("scan: nmcli active lookup: %w", err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		fields := splitTerse(line)
		if len(fields) >= 2 && fields[0] == "yes" {
			return fields[1], nil
		}
	}
	return "", nil
}

// parseNmcliList converts terse nmcli output into raw observations.
// Malformed lines are skipped rather than failing the whole snapshot.
func parseNmcliList(out string) []Observation {
	var obs []Observation
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitTerse(line)
		if len(fields) < 7 {
			continue
		}

		chanNum, err := strconv.Atoi(fields[3])
		if err != nil || chanNum < 0 {
			chanNum = 0
		}
		freq := parseLeadingInt(fields[4])
		signal, err := strconv.Atoi(fields[5])
		if err != nil {
			continue // signal is mandatory
		}

		obs = append(obs, Observation{
			ID:       fields[1],
			SSID:     fields[2],
			RSSI:     percentToDBm(signal),
			Band:     bandFromFreq(freq),
			Channel:  chanNum,
			Security: fields[6],
		})
	}
	return obs
}

// splitTerse splits one nmcli -t line on unescaped colons and unescapes
// the "\:" and "\\" sequences nmcli emits inside field values.
func splitTerse(line string) []string {
	var fields []string
	var cur strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// percentToDBm converts NetworkManager's 0-100 signal quality to an
// approximate dBm value using the common linear mapping.
func percentToDBm(pct int) int {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct/2 - 100
}

// bandFromFreq maps a frequency in MHz to a Band. Anything at or above
// 5000 MHz counts as 5 GHz; everything else (including unparsable
// frequencies) defaults to 2.4 GHz.
func bandFromFreq(mhz int) Band {
	if mhz >= 5000 {
		return Band5GHz
	}
	return Band24GHz
}

// parseLeadingInt extracts the leading integer from strings like
// "5180 MHz". Returns 0 when no digits are found.
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}
