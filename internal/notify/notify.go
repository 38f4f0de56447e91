package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/wifiadvisor/wifiadvisor/internal/config"
)

// Notification describes one switch recommendation to announce.
type Notification struct {
	// CurrentSSID is the associated network's name; empty when the device
	// is not associated.
	CurrentSSID string `json:"current_ssid,omitempty"`

	// BestSSID names the recommended network.
	BestSSID string `json:"best_ssid"`

	// BestID is the recommended network's identity.
	BestID string `json:"best_id"`

	// ScoreDelta is how many points the recommendation improves on the
	// current network.
	ScoreDelta int `json:"score_delta"`

	// At is when the recommendation was made.
	At time.Time `json:"at"`
}

// Sink delivers one notification. Implementations own permission and
// delivery mechanics; the engine only decides when to call them.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// Dispatcher fans a notification out to all configured sinks
// asynchronously. Delivery errors are logged, never propagated; a failed
// webhook must not disturb the scan loop.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
}

const deliverTimeout = 10 * time.Second

// NewDispatcher builds a Dispatcher from the notify configuration. A log
// sink is always included so recommendations are visible without any
// webhook configured.
func NewDispatcher(cfg config.NotifyConfig) *Dispatcher {
	sinks := []Sink{logSink{}}
	for _, wh := range cfg.Webhooks {
		sinks = append(sinks, newWebhookSink(wh))
	}
	return &Dispatcher{sinks: sinks, timeout: deliverTimeout}
}

// Dispatch delivers n to every sink in its own goroutine and returns
// immediately.
func (d *Dispatcher) Dispatch(n Notification) {
	for _, s := range d.sinks {
		s := s
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()
			if err := s.Notify(ctx, n); err != nil {
				slog.Error("notify: delivery failed", "best", n.BestSSID, "err", err)
			}
		}()
	}
}

// logSink announces recommendations through the structured log.
type logSink struct{}

func (logSink) Notify(_ context.Context, n Notification) error {
	slog.Info("notify: better network available",
		"current", n.CurrentSSID,
		"best", n.BestSSID,
		"delta", n.ScoreDelta,
	)
	return nil
}
