package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
	"github.com/avidal-labs/lanwarden/internal/proc"
)

const (
	speedtestTimeout = 90 * time.Second
	speedtestRetry   = 15 * time.Second
)

// SpeedMonitor samples internet health with speedtest-cli and alerts when
// the connection drops below the configured thresholds.
type SpeedMonitor struct {
	store   ports.Store
	alerter ports.Alerter
	cfg     func() *config.Config
	log     zerolog.Logger

	// runTool is swapped out in tests.
	runTool func(ctx context.Context) (string, error)
}

func NewSpeedMonitor(store ports.Store, alerter ports.Alerter, cfg func() *config.Config) *SpeedMonitor {
	m := &SpeedMonitor{
		store:   store,
		alerter: alerter,
		cfg:     cfg,
		log:     logging.WithComponent("speedtest"),
	}
	m.runTool = func(ctx context.Context) (string, error) {
		res, err := proc.Run(ctx, speedtestTimeout, "speedtest-cli", "--json", "--secure")
		return res.Stdout, err
	}
	return m
}

func (m *SpeedMonitor) Run(ctx context.Context) {
	runLoop(ctx, m.log, "speedtest",
		func() time.Duration { return m.cfg().Monitoring.InternetHealth.Period() },
		m.runCycle)
}

// speedtestResult is the subset of speedtest-cli --json we keep.
type speedtestResult struct {
	Download float64 `json:"download"` // bits/s
	Upload   float64 `json:"upload"`   // bits/s
	Ping     float64 `json:"ping"`     // ms
	Client   struct {
		ISP string `json:"isp"`
	} `json:"client"`
	Server struct {
		Sponsor string `json:"sponsor"`
		Name    string `json:"name"`
	} `json:"server"`
}

// runCycle measures once, retrying a single time on malformed output, and
// records a sample either way. A failed test yields a sample with only
// the error populated.
func (m *SpeedMonitor) runCycle(ctx context.Context) error {
	result, err := m.measure(ctx)
	if err != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(speedtestRetry):
		}
		result, err = m.measure(ctx)
	}

	if err != nil {
		sample := domain.SpeedSample{Timestamp: time.Now(), Error: err.Error()}
		if storeErr := m.store.AppendSpeedSample(sample); storeErr != nil {
			return fmt.Errorf("record failed sample: %w", storeErr)
		}
		m.log.Warn().Err(err).Msg("speed test failed")
		return nil
	}

	down := result.Download / 1e6
	up := result.Upload / 1e6
	ping := result.Ping
	sample := domain.SpeedSample{
		Timestamp:    time.Now(),
		DownloadMbps: &down,
		UploadMbps:   &up,
		PingMs:       &ping,
		ISP:          result.Client.ISP,
		Server:       joinNonEmpty(result.Server.Sponsor, result.Server.Name),
	}
	if err := m.store.AppendSpeedSample(sample); err != nil {
		return fmt.Errorf("record sample: %w", err)
	}

	m.log.Info().
		Float64("download_mbps", down).
		Float64("upload_mbps", up).
		Float64("ping_ms", ping).
		Msg("speed test complete")

	m.checkThresholds(down, up, ping)
	return nil
}

func (m *SpeedMonitor) measure(ctx context.Context) (*speedtestResult, error) {
	out, err := m.runTool(ctx)
	if err != nil {
		return nil, fmt.Errorf("speedtest-cli: %w", err)
	}
	var result speedtestResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		return nil, fmt.Errorf("parse speedtest output: %w", err)
	}
	if result.Download == 0 && result.Upload == 0 {
		return nil, fmt.Errorf("speedtest output carried no measurements")
	}
	return &result, nil
}

func (m *SpeedMonitor) checkThresholds(down, up, ping float64) {
	alerts := m.cfg().Alerts

	if t := alerts.LatencyThreshold; t > 0 && ping > t {
		m.alerter.Send("High Latency",
			fmt.Sprintf("Ping %.0f ms exceeds the %.0f ms threshold", ping, t),
			domain.SeverityWarning)
	}
	if t := alerts.DownloadSpeedThreshold; t > 0 && down < t {
		m.alerter.Send("Slow Download Speed",
			fmt.Sprintf("Download %.1f Mbps is below the %.1f Mbps threshold", down, t),
			domain.SeverityWarning)
	}
	if t := alerts.UploadSpeedThreshold; t > 0 && up < t {
		m.alerter.Send("Slow Upload Speed",
			fmt.Sprintf("Upload %.1f Mbps is below the %.1f Mbps threshold", up, t),
			domain.SeverityWarning)
	}
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " - " + b
	}
}
