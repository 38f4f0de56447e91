package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/wifiadvisor/wifiadvisor/internal/config"
)

// defaultExpectStatus is the HTTP status a connectivity-check endpoint
// returns on the open internet. Captive portals intercept the request and
// answer with something else.
const defaultExpectStatus = http.StatusNoContent

// httpProber checks path health with a plain HTTP request to a
// connectivity-check URL.
type httpProber struct {
	client *http.Client
	url    string
	expect int
}

func newHTTPProber(cfg config.HealthConfig) *httpProber {
	expect := cfg.ExpectStatus
	if expect == 0 {
		expect = defaultExpectStatus
	}
	return &httpProber{
		client: &http.Client{
			Timeout: cfg.Timeout,
			// A captive portal redirect must surface as the wrong status,
			// not be followed to a 200.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		url:    cfg.URL,
		expect: expect,
	}
}

func (p *httpProber) Probe(ctx context.Context) Snapshot {
	now := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Snapshot{CheckedAt: now}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Debug("health: http probe failed", "url", p.url, "err", err)
		return Snapshot{CheckedAt: now}
	}
	defer resp.Body.Close()

	return Snapshot{
		Satisfied:         true,
		InternetReachable: resp.StatusCode == p.expect,
		CheckedAt:         now,
	}
}

// blackboxProber reads path health from a Prometheus exposition endpoint,
// typically a blackbox exporter probe page. The path is satisfied when the
// exposition could be scraped; the internet is reachable when the
// probe_success gauge reads 1.
type blackboxProber struct {
	client *http.Client
	url    string
}

// probeSuccessMetric is the gauge the blackbox exporter sets to 1 when its
// probe of the real target succeeded.
const probeSuccessMetric = "probe_success"

func newBlackboxProber(cfg config.HealthConfig) *blackboxProber {
	return &blackboxProber{
		client: &http.Client{Timeout: cfg.Timeout},
		url:    cfg.URL,
	}
}

func (p *blackboxProber) Probe(ctx context.Context) Snapshot {
	now := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return Snapshot{CheckedAt: now}
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Debug("health: blackbox probe failed", "url", p.url, "err", err)
		return Snapshot{CheckedAt: now}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Snapshot{CheckedAt: now}
	}

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil && len(mfs) == 0 {
		slog.Debug("health: blackbox parse failed", "url", p.url, "err", err)
		return Snapshot{CheckedAt: now}
	}

	return Snapshot{
		Satisfied:         true,
		InternetReachable: gaugeIsSet(mfs[probeSuccessMetric]),
		CheckedAt:         now,
	}
}

// gaugeIsSet reports whether any gauge or untyped sample in mf reads 1.
// Returns false if mf is nil (metric not present in the scrape).
func gaugeIsSet(mf *dto.MetricFamily) bool {
	if mf == nil {
		return false
	}
	for _, m := range mf.GetMetric() {
		switch {
		case m.Gauge != nil && m.Gauge.GetValue() == 1:
			return true
		case m.Untyped != nil && m.Untyped.GetValue() == 1:
			return true
		}
	}
	return false
}
