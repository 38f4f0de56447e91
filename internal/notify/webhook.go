package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/wifiadvisor/wifiadvisor/internal/config"
)

// webhookSink posts notifications to one configured webhook target.
type webhookSink struct {
	cfg    config.WebhookConfig
	client *http.Client
}

func newWebhookSink(cfg config.WebhookConfig) *webhookSink {
	return &webhookSink{
		cfg:    cfg,
		client: &http.Client{},
	}
}

func (s *webhookSink) Notify(ctx context.Context, n Notification) error {
	url := s.cfg.URL()
	if url == "" {
		slog.Warn("notify: webhook url env not set, skipping", "type", s.cfg.Type, "env", s.cfg.URLEnv)
		return nil
	}

	var body []byte
	switch s.cfg.Type {
	case "slack":
		body, _ = json.Marshal(map[string]string{
			"text": fmt.Sprintf("*Wi-Fi advisor:* %s looks %d points better than %s. Consider switching.",
				n.BestSSID, n.ScoreDelta, currentLabel(n)),
		})
	case "teams":
		body, _ = json.Marshal(map[string]interface{}{
			"@type":      "MessageCard",
			"@context":   "http://schema.org/extensions",
			"themeColor": "00D4FF",
			"summary":    "Better Wi-Fi network available",
			"title":      fmt.Sprintf("Wi-Fi advisor: switch to %s", n.BestSSID),
			"text": fmt.Sprintf("%s scores %d points above %s.",
				n.BestSSID, n.ScoreDelta, currentLabel(n)),
		})
	case "http":
		body, _ = json.Marshal(map[string]interface{}{"recommendation": n})
	default:
		return fmt.Errorf("unknown webhook type %q", s.cfg.Type)
	}

	return s.post(ctx, url, body)
}

func (s *webhookSink) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func currentLabel(n Notification) string {
	if n.CurrentSSID == "" {
		return "no association"
	}
	return n.CurrentSSID
}
