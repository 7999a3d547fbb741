package monitor

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
)

const websiteTimeout = 10 * time.Second

// WebsiteMonitor probes the configured URLs and records availability.
type WebsiteMonitor struct {
	store   ports.Store
	alerter ports.Alerter
	cfg     func() *config.Config
	client  *http.Client
	log     zerolog.Logger
}

func NewWebsiteMonitor(store ports.Store, alerter ports.Alerter, cfg func() *config.Config) *WebsiteMonitor {
	return &WebsiteMonitor{
		store:   store,
		alerter: alerter,
		cfg:     cfg,
		client: &http.Client{
			Timeout: websiteTimeout,
			Transport: &http.Transport{
				// Self-hosted dashboards with self-signed certs are the
				// common case here.
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402
			},
		},
		log: logging.WithComponent("websites"),
	}
}

func (m *WebsiteMonitor) Run(ctx context.Context) {
	runLoop(ctx, m.log, "websites",
		func() time.Duration { return m.cfg().Monitoring.Websites.Period() },
		m.runCycle)
}

func (m *WebsiteMonitor) runCycle(ctx context.Context) error {
	cfg := m.cfg()
	for _, url := range cfg.Monitoring.Websites.URLs {
		if err := ctx.Err(); err != nil {
			return err
		}
		check := m.checkOne(ctx, url)
		if err := m.store.AppendWebsiteCheck(check); err != nil {
			m.log.Error().Err(err).Str("url", url).Msg("record website check failed")
		}
		if !check.IsUp && cfg.Alerts.WebsiteError {
			reason := check.Error
			if reason == "" && check.StatusCode != nil {
				reason = fmt.Sprintf("status %d", *check.StatusCode)
			}
			m.alerter.Send("Website Unreachable",
				fmt.Sprintf("%s: %s", url, reason),
				domain.SeverityWarning)
		}
	}
	return nil
}

// checkOne GETs one URL. is_up means the server answered with a
// non-error status.
func (m *WebsiteMonitor) checkOne(ctx context.Context, url string) domain.WebsiteCheck {
	check := domain.WebsiteCheck{URL: url, Timestamp: time.Now()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		check.Error = err.Error()
		return check
	}

	start := time.Now()
	resp, err := m.client.Do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		check.Error = err.Error()
		return check
	}
	defer resp.Body.Close()

	check.StatusCode = &resp.StatusCode
	check.ResponseTime = &elapsed
	check.IsUp = resp.StatusCode < 400
	return check
}
