package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from the config file.
const (
	DefaultScanInterval  = 20 * time.Second
	DefaultProbeInterval = 10 * time.Second
	DefaultProbeTimeout  = 5 * time.Second
	DefaultProbeURL      = "http://connectivity-check.ubuntu.com/"
	DefaultHTTPPort      = 8080
)

// Config is the top-level configuration for the advisor.
// Fields map 1:1 to config.example.yaml.
type Config struct {
	Advisor AdvisorConfig `yaml:"advisor"`
}

// AdvisorConfig holds all advisor settings.
type AdvisorConfig struct {
	// ScanInterval controls how often the automatic scan cycle runs.
	ScanInterval time.Duration `yaml:"scan_interval"`

	// HTTPPort is the port the REST API and WebSocket hub listen on.
	HTTPPort int `yaml:"http_port"`

	// Scanner selects and configures the radio scan source.
	Scanner ScannerConfig `yaml:"scanner"`

	// Health configures the network path health probe.
	Health HealthConfig `yaml:"health"`

	// Scoring overrides individual scoring policy values. Absent fields
	// keep the built-in defaults.
	Scoring ScoringConfig `yaml:"scoring"`

	// Notify configures switch-recommendation notification delivery.
	Notify NotifyConfig `yaml:"notify"`
}

// ScannerConfig selects the radio scan backend.
type ScannerConfig struct {
	// Type is one of: nmcli | static.
	Type string `yaml:"type"`

	// Interface optionally restricts nmcli scans to one wireless interface.
	Interface string `yaml:"interface"`

	// FixturePath is the YAML snapshot file read by the static source.
	FixturePath string `yaml:"fixture_path"`
}

// HealthConfig configures the path health monitor.
type HealthConfig struct {
	// Probe is one of: http | blackbox.
	Probe string `yaml:"probe"`

	// URL is the endpoint the probe contacts. For the http probe this is a
	// connectivity-check URL; for the blackbox probe it is a Prometheus
	// exposition endpoint carrying a probe_success metric.
	URL string `yaml:"url"`

	// ExpectStatus is the HTTP status treated as full internet
	// reachability by the http probe. Defaults to 204 when zero.
	ExpectStatus int `yaml:"expect_status"`

	// Interval controls how often the probe runs.
	Interval time.Duration `yaml:"interval"`

	// Timeout bounds a single probe attempt.
	Timeout time.Duration `yaml:"timeout"`
}

// ScoringConfig carries optional scoring policy overrides. The scoring
// weights are a tuned policy that operators revisit without code changes,
// so the headline values are exposed here. Pointers distinguish "not set"
// from an explicit zero, so internet_bonus: 0 is a valid override.
type ScoringConfig struct {
	// SwitchThreshold is the minimum score improvement before a switch is
	// recommended.
	SwitchThreshold *int `yaml:"switch_threshold"`

	// WeakSignalFloor is the score below which a network is never viable.
	WeakSignalFloor *int `yaml:"weak_signal_floor"`

	// InternetBonus is the additive bonus for verified reachability.
	InternetBonus *int `yaml:"internet_bonus"`
}

// NotifyConfig holds notification delivery settings.
type NotifyConfig struct {
	// Webhooks is the list of delivery targets for switch recommendations.
	Webhooks []WebhookConfig `yaml:"webhooks"`

	// RenotifyAfter re-arms a standing recommendation after this duration
	// so a long-ignored alert is surfaced again. Zero (the default) means
	// a recommendation is announced once until a different network becomes
	// the target.
	RenotifyAfter time.Duration `yaml:"renotify_after"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: slack | teams | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable holding the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Load reads and parses the YAML config file at path.
// Missing optional fields are filled with sensible defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Advisor: AdvisorConfig{
			ScanInterval: DefaultScanInterval,
			HTTPPort:     DefaultHTTPPort,
			Scanner: ScannerConfig{
				Type: "nmcli",
			},
			Health: HealthConfig{
				Probe:    "http",
				URL:      DefaultProbeURL,
				Interval: DefaultProbeInterval,
				Timeout:  DefaultProbeTimeout,
			},
		},
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	a := cfg.Advisor
	if a.ScanInterval <= 0 {
		return fmt.Errorf("advisor.scan_interval must be positive")
	}
	if a.HTTPPort <= 0 || a.HTTPPort > 65535 {
		return fmt.Errorf("advisor.http_port must be in 1..65535")
	}

	switch a.Scanner.Type {
	case "nmcli":
	case "static":
		if a.Scanner.FixturePath == "" {
			return fmt.Errorf("scanner %q: fixture_path is required", a.Scanner.Type)
		}
	default:
		return fmt.Errorf("scanner: unknown type %q", a.Scanner.Type)
	}

	switch a.Health.Probe {
	case "http", "blackbox":
		if a.Health.URL == "" {
			return fmt.Errorf("health probe %q: url is required", a.Health.Probe)
		}
	default:
		return fmt.Errorf("health: unknown probe %q", a.Health.Probe)
	}
	if a.Health.Interval <= 0 {
		return fmt.Errorf("health.interval must be positive")
	}
	if a.Health.Timeout <= 0 {
		return fmt.Errorf("health.timeout must be positive")
	}

	if v := a.Scoring.SwitchThreshold; v != nil && *v < 0 {
		return fmt.Errorf("scoring.switch_threshold must not be negative")
	}
	if v := a.Scoring.WeakSignalFloor; v != nil && *v < 0 {
		return fmt.Errorf("scoring.weak_signal_floor must not be negative")
	}
	if v := a.Scoring.InternetBonus; v != nil && *v < 0 {
		return fmt.Errorf("scoring.internet_bonus must not be negative")
	}
	if a.Notify.RenotifyAfter < 0 {
		return fmt.Errorf("notify.renotify_after must not be negative")
	}

	for i, wh := range a.Notify.Webhooks {
		switch wh.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("notify.webhooks[%d]: unknown type %q", i, wh.Type)
		}
	}
	return nil
}
