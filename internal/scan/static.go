package scan

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// staticSource reads observations from a YAML fixture file. The file is
// re-read on every scan, so editing it while the advisor runs simulates a
// changing radio environment. Used for development and in tests.
type staticSource struct {
	path string
}

// fixture is the YAML schema of a static scan file.
type fixture struct {
	CurrentSSID string        `yaml:"current_ssid"`
	Networks    []fixtureItem `yaml:"networks"`
}

type fixtureItem struct {
	ID       string `yaml:"id"`
	SSID     string `yaml:"ssid"`
	RSSI     int    `yaml:"rssi"`
	Band     string `yaml:"band"`
	Channel  int    `yaml:"channel"`
	Security string `yaml:"security"`
}

func (s *staticSource) load() (*fixture, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("scan: read fixture: %w", err)
	}
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("scan: parse fixture: %w", err)
	}
	return &f, nil
}

func (s *staticSource) Scan(ctx context.Context) ([]Observation, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}
	obs := make([]Observation, 0, len(f.Networks))
	for _, n := range f.Networks {
		band := Band24GHz
		if n.Band == string(Band5GHz) || n.Band == "5" {
			band = Band5GHz
		}
		obs = append(obs, Observation{
			ID:       n.ID,
			SSID:     n.SSID,
			RSSI:     n.RSSI,
			Band:     band,
			Channel:  n.Channel,
			Security: n.Security,
		})
	}
	return Normalize(obs), nil
}

func (s *staticSource) CurrentSSID(ctx context.Context) (string, error) {
	f, err := s.load()
	if err != nil {
		return "", err
	}
	return f.CurrentSSID, nil
}
