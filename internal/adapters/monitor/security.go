package monitor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
	"github.com/avidal-labs/lanwarden/internal/proc"
)

const portScanTimeout = 5 * time.Minute

// "80/tcp   open  http"
var nmapPortRe = regexp.MustCompile(`^(\d+)/(tcp|udp)\s+open\s+(\S+)`)

// SecurityMonitor audits every known device's open ports with a fast
// nmap scan and flags suspicious exposure.
type SecurityMonitor struct {
	store   ports.Store
	alerter ports.Alerter
	cfg     func() *config.Config
	log     zerolog.Logger

	// scanHost is swapped out in tests.
	scanHost func(ctx context.Context, ip string) (string, error)
}

func NewSecurityMonitor(store ports.Store, alerter ports.Alerter, cfg func() *config.Config) *SecurityMonitor {
	m := &SecurityMonitor{
		store:   store,
		alerter: alerter,
		cfg:     cfg,
		log:     logging.WithComponent("security"),
	}
	m.scanHost = func(ctx context.Context, ip string) (string, error) {
		res, err := proc.Run(ctx, portScanTimeout, "nmap", "-F", ip)
		return res.Stdout, err
	}
	return m
}

func (m *SecurityMonitor) Run(ctx context.Context) {
	runLoop(ctx, m.log, "security",
		func() time.Duration { return m.cfg().Monitoring.Security.Period() },
		m.runCycle)
}

func (m *SecurityMonitor) runCycle(ctx context.Context) error {
	if !proc.Available("nmap") {
		m.log.Warn().Msg("nmap not installed, security audit disabled for this run")
		return nil
	}

	devices, err := m.store.GetAllDevices()
	if err != nil {
		return fmt.Errorf("list devices: %w", err)
	}

	for _, device := range devices {
		if err := ctx.Err(); err != nil {
			return err
		}
		if device.IP == "" {
			continue
		}
		if err := m.auditDevice(ctx, device); err != nil {
			m.log.Warn().Err(err).Str("mac", device.MAC).Msg("port audit failed")
		}
	}
	return nil
}

// AuditDevice scans one device on demand; the control API uses this for
// per-device port listings.
func (m *SecurityMonitor) AuditDevice(ctx context.Context, mac string) (*domain.SecurityScan, error) {
	device, err := m.store.GetDevice(mac)
	if err != nil {
		return nil, err
	}
	if err := m.auditDevice(ctx, *device); err != nil {
		return nil, err
	}
	return m.store.LatestSecurityScan(mac)
}

func (m *SecurityMonitor) auditDevice(ctx context.Context, device domain.Device) error {
	out, err := m.scanHost(ctx, device.IP)
	if err != nil {
		return fmt.Errorf("scan %s: %w", device.IP, err)
	}

	openPorts := parseNmapPorts(out)
	findings := DetectSuspicious(openPorts)

	scan := domain.SecurityScan{
		DeviceID:        device.ID,
		Timestamp:       time.Now(),
		OpenPorts:       openPorts,
		Vulnerabilities: findings,
	}
	if err := m.store.AppendSecurityScan(scan); err != nil {
		return fmt.Errorf("record scan: %w", err)
	}

	if len(findings) > 0 {
		m.log.Warn().
			Str("mac", device.MAC).
			Str("ip", device.IP).
			Int("findings", len(findings)).
			Msg("suspicious ports found")

		if m.cfg().Alerts.SuspiciousPorts {
			m.alerter.Send("Suspicious Open Ports",
				fmt.Sprintf("%s (%s): %s", deviceLabel(device), device.IP, summarizeFindings(findings)),
				domain.SeverityWarning)
		}
	}
	return nil
}

// parseNmapPorts extracts the open-port table from `nmap -F` output.
func parseNmapPorts(out string) []domain.PortInfo {
	var ports []domain.PortInfo
	for _, line := range strings.Split(out, "\n") {
		m := nmapPortRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		port, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		service := m[3]
		if service == "unknown" {
			service = ""
		}
		ports = append(ports, domain.PortInfo{Port: port, Protocol: m[2], Service: service})
	}
	return ports
}

func summarizeFindings(findings []domain.SecurityFinding) string {
	parts := make([]string, 0, len(findings))
	for _, f := range findings {
		parts = append(parts, fmt.Sprintf("%d (%s)", f.Port, f.Reason))
		if len(parts) == 5 && len(findings) > 5 {
			parts = append(parts, fmt.Sprintf("and %d more", len(findings)-5))
			break
		}
	}
	return strings.Join(parts, ", ")
}

func deviceLabel(d domain.Device) string {
	if d.Hostname != "" {
		return d.Hostname
	}
	if d.Vendor != "" {
		return d.Vendor
	}
	return d.MAC
}
