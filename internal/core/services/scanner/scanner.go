// Package scanner owns the periodic network scan cycle: discovery,
// device-state reconciliation against the previous cycle, store updates,
// transition events and the fingerprinting dispatch. Cycles never
// overlap; a failed cycle backs off and the loop continues.
package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
	"github.com/avidal-labs/lanwarden/internal/telemetry"
)

// errorBackoff is how long the loop sleeps after a failed cycle before
// trying again.
const errorBackoff = 10 * time.Second

// Scanner reconciles the subnet's device population each cycle.
type Scanner struct {
	store         ports.Store
	discoverer    ports.Discoverer
	fingerprinter ports.Fingerprinter
	alerter       ports.Alerter
	log           zerolog.Logger

	mu           sync.Mutex
	cfg          *config.Config
	previousMACs map[string]struct{}
	lastStats    *domain.CycleStats
}

func New(store ports.Store, discoverer ports.Discoverer, fingerprinter ports.Fingerprinter, alerter ports.Alerter, cfg *config.Config) *Scanner {
	return &Scanner{
		store:         store,
		discoverer:    discoverer,
		fingerprinter: fingerprinter,
		alerter:       alerter,
		cfg:           cfg,
		previousMACs:  make(map[string]struct{}),
		log:           logging.WithComponent("scanner"),
	}
}

// UpdateConfig swaps the configuration; the next cycle picks it up.
func (s *Scanner) UpdateConfig(cfg *config.Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *Scanner) config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// LastStats returns the most recent completed cycle's summary, or nil.
func (s *Scanner) LastStats() *domain.CycleStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStats
}

// Run loops scan cycles until the context is cancelled. A cycle error
// aborts that cycle only.
func (s *Scanner) Run(ctx context.Context) {
	s.log.Info().Msg("network scanner started")
	for {
		interval := s.config().General.Interval()

		if err := s.RunCycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.log.Error().Err(err).Msg("scan cycle failed")
			interval = errorBackoff
		}

		select {
		case <-ctx.Done():
			s.log.Info().Msg("network scanner stopped")
			return
		case <-time.After(interval):
		}
	}
}

// RunCycle executes one full cycle: discovery, reconciliation, offline
// detection, fingerprint dispatch. Discovery completes before
// reconciliation starts, and reconciliation before dispatch.
func (s *Scanner) RunCycle(ctx context.Context) error {
	cfg := s.config()
	subnet := cfg.Network.Subnet
	if subnet == "" {
		s.log.Warn().Msg("no subnet configured, skipping scan cycle")
		telemetry.ScanCycles.WithLabelValues("skipped").Inc()
		return nil
	}

	start := time.Now()
	stats := domain.CycleStats{CycleID: uuid.NewString(), StartedAt: start}

	hosts, err := s.discoverer.Discover(ctx, subnet)
	if err != nil {
		telemetry.ScanCycles.WithLabelValues("error").Inc()
		return fmt.Errorf("discovery: %w", err)
	}
	stats.DevicesFound = len(hosts)

	currentMACs := make(map[string]struct{}, len(hosts))
	processingMACs := make(map[string]struct{}, len(hosts))
	var worklist []domain.HostTarget

	for _, host := range hosts {
		if err := ctx.Err(); err != nil {
			return err
		}
		mac := domain.NormalizeMAC(host.MAC)
		if mac == "" {
			continue
		}
		if _, seen := processingMACs[mac]; seen {
			continue
		}
		processingMACs[mac] = struct{}{}
		currentMACs[mac] = struct{}{}

		host.MAC = mac
		host.Vendor = domain.NormalizeVendor(host.Vendor)

		enqueue, isNew, quick := s.reconcileHost(cfg, host)
		if isNew {
			stats.NewDevices++
		}
		if quick {
			stats.QuickMatched++
		}
		if enqueue {
			worklist = append(worklist, domain.HostTarget{IP: host.IP, MAC: mac})
		}
	}

	stats.Offline = s.detectOffline(cfg, currentMACs, processingMACs)

	if cfg.Fingerprinting.Enabled && len(worklist) > 0 {
		stats.Fingerprinted = s.dispatchFingerprinting(ctx, cfg, worklist, false)
	}

	s.mu.Lock()
	s.previousMACs = currentMACs
	stats.Duration = time.Since(start)
	s.lastStats = &stats
	s.mu.Unlock()

	telemetry.ScanCycles.WithLabelValues("ok").Inc()
	telemetry.ScanCycleDuration.Observe(stats.Duration.Seconds())
	s.logCycleStats(stats)
	return nil
}

// reconcileHost upserts one discovered host and decides whether it goes on
// the deep-fingerprint worklist. Returns (enqueue, isNew, quickMatched).
func (s *Scanner) reconcileHost(cfg *config.Config, host domain.DiscoveredHost) (bool, bool, bool) {
	threshold := cfg.Fingerprinting.ConfidenceThreshold

	existing, err := s.store.GetDevice(host.MAC)
	if err != nil && !errors.Is(err, ports.ErrDeviceNotFound) {
		s.log.Error().Err(err).Str("mac", host.MAC).Msg("device lookup failed")
		return false, false, false
	}

	var quick *domain.FingerprintResult
	if existing == nil || !existing.IsFingerprinted {
		quick = classifyByVendor(host.Vendor)
	}

	update := domain.DeviceUpdate{}
	if host.Hostname != "" {
		update.Hostname = &host.Hostname
	}
	if host.Vendor != "" {
		update.Vendor = &host.Vendor
	}

	if existing == nil {
		// First sighting.
		if quick != nil {
			update.Fingerprint = quick
			telemetry.FingerprintMatches.WithLabelValues("quick").Inc()
		}
		if _, err := s.store.UpsertDevice(host.MAC, host.IP, update); err != nil {
			s.log.Error().Err(err).Str("mac", host.MAC).Msg("device insert failed")
			return false, false, false
		}
		s.appendEvent(domain.EventDeviceDetected, domain.SeverityInfo,
			fmt.Sprintf("New device detected: %s (%s)", deviceLabel(host.Hostname, host.Vendor, host.MAC), host.IP),
			map[string]string{"mac": host.MAC, "ip": host.IP, "vendor": host.Vendor})
		telemetry.DeviceTransitions.WithLabelValues("detected").Inc()

		if cfg.Alerts.NewDevice {
			s.alerter.Send("New Device Detected",
				fmt.Sprintf("%s joined the network at %s", deviceLabel(host.Hostname, host.Vendor, host.MAC), host.IP),
				domain.SeverityInfo)
		}
		return quick == nil, true, quick != nil
	}

	// Known device: refresh IP, last_seen and the soft fields.
	if _, err := s.store.UpsertDevice(host.MAC, host.IP, update); err != nil {
		s.log.Error().Err(err).Str("mac", host.MAC).Msg("device refresh failed")
		return false, false, false
	}

	if quick != nil && quick.Confidence > existing.FingerprintConfidence {
		if err := s.store.UpdateDeviceMetadata(host.MAC, *quick); err != nil {
			s.log.Error().Err(err).Str("mac", host.MAC).Msg("quick classification write failed")
		} else {
			telemetry.FingerprintMatches.WithLabelValues("quick").Inc()
			return false, false, true
		}
	}

	if existing.NeedsFingerprint(threshold) {
		return true, false, false
	}
	// Fingerprints go stale; refresh after the configured interval.
	if existing.IsFingerprinted && !existing.NeverFingerprint &&
		existing.FingerprintExpired(cfg.Fingerprinting.RescanInterval()) {
		s.fingerprinter.Forget(host.MAC)
		return true, false, false
	}
	return false, false, false
}

// detectOffline emits transitions for MACs present last cycle but absent
// now. Devices that never resolved a hostname are skipped to keep the
// event log free of ephemeral-client noise.
func (s *Scanner) detectOffline(cfg *config.Config, currentMACs, processingMACs map[string]struct{}) int {
	s.mu.Lock()
	previous := s.previousMACs
	s.mu.Unlock()

	offline := 0
	for mac := range previous {
		if _, present := currentMACs[mac]; present {
			continue
		}
		if _, present := processingMACs[mac]; present {
			continue
		}
		device, err := s.store.GetDevice(mac)
		if err != nil || device == nil {
			continue
		}
		offline++

		if device.Hostname != "" {
			s.appendEvent(domain.EventDeviceOffline, domain.SeverityInfo,
				fmt.Sprintf("Device offline: %s (%s)", device.Hostname, device.IP),
				map[string]string{"mac": mac, "ip": device.IP})
		}
		telemetry.DeviceTransitions.WithLabelValues("offline").Inc()

		label := deviceLabel(device.Hostname, device.Vendor, mac)
		switch {
		case device.IsImportant && cfg.Alerts.ImportantDeviceOffline:
			s.alerter.Send("Important Device Offline",
				fmt.Sprintf("%s (%s) is no longer responding", label, device.IP),
				domain.SeverityWarning)
		case !device.IsImportant && cfg.Alerts.DeviceOffline:
			s.alerter.Send("Device Offline",
				fmt.Sprintf("%s (%s) left the network", label, device.IP),
				domain.SeverityInfo)
		}
	}
	return offline
}

// dispatchFingerprinting hands the worklist to the fingerprint scanner and
// applies every match that clears the threshold. Returns how many devices
// were classified.
func (s *Scanner) dispatchFingerprinting(ctx context.Context, cfg *config.Config, worklist []domain.HostTarget, forced bool) int {
	threshold := cfg.Fingerprinting.ConfidenceThreshold
	results := s.fingerprinter.FingerprintHosts(ctx, worklist, forced)

	applied := 0
	for _, res := range results {
		if res.Err != nil || res.Skipped || len(res.Matches) == 0 {
			continue
		}
		best := res.Matches[0]
		if best.Confidence < threshold {
			telemetry.FingerprintMatches.WithLabelValues("below_threshold").Inc()
			continue
		}
		if s.applyMatch(res.Target.MAC, best, forced) {
			applied++
		}
	}
	return applied
}

func (s *Scanner) applyMatch(mac string, match domain.SignatureMatch, forced bool) bool {
	result := domain.FingerprintResult{
		DeviceType:   match.DeviceType,
		Model:        match.Model,
		Manufacturer: match.Manufacturer,
		Confidence:   match.Confidence,
		Date:         time.Now(),
	}
	if err := s.store.UpdateDeviceMetadata(mac, result); err != nil {
		s.log.Error().Err(err).Str("mac", mac).Msg("fingerprint write failed")
		return false
	}
	telemetry.FingerprintMatches.WithLabelValues("deep").Inc()

	details := map[string]string{
		"mac":          mac,
		"signature_id": match.SignatureID,
		"confidence":   fmt.Sprintf("%.2f", match.Confidence),
	}
	if forced {
		details["context"] = "manual"
	}
	s.appendEvent(domain.EventDeviceFingerprinted, domain.SeverityInfo,
		fmt.Sprintf("Device %s identified as %s %s (%.0f%%)",
			mac, match.Manufacturer, nonEmpty(match.Model, match.DeviceType), match.Confidence*100),
		details)
	return true
}

// ForceFingerprint re-runs the full pipeline for one device on user
// request: the stored fingerprint is cleared first, then the probes run
// regardless of the already-done set. The threshold still applies.
func (s *Scanner) ForceFingerprint(ctx context.Context, mac string) (*domain.Device, error) {
	mac = domain.NormalizeMAC(mac)
	if mac == "" {
		return nil, errors.New("invalid MAC")
	}
	device, err := s.store.GetDevice(mac)
	if err != nil {
		return nil, err
	}
	if device.NeverFingerprint {
		return nil, fmt.Errorf("device %s is excluded from fingerprinting", mac)
	}

	if err := s.store.ClearDeviceFingerprint(mac); err != nil {
		return nil, err
	}

	cfg := s.config()
	target := []domain.HostTarget{{IP: device.IP, MAC: mac}}
	s.dispatchFingerprinting(ctx, cfg, target, true)

	return s.store.GetDevice(mac)
}

func (s *Scanner) appendEvent(kind domain.EventKind, severity domain.Severity, message string, details map[string]string) {
	blob, _ := json.Marshal(details)
	if err := s.store.AppendEvent(kind, severity, message, blob); err != nil {
		s.log.Error().Err(err).Str("kind", string(kind)).Msg("event append failed")
		return
	}
	telemetry.EventsAppended.WithLabelValues(string(kind)).Inc()
}

func (s *Scanner) logCycleStats(stats domain.CycleStats) {
	s.log.Info().
		Str("cycle_id", stats.CycleID).
		Int("found", stats.DevicesFound).
		Int("new", stats.NewDevices).
		Int("offline", stats.Offline).
		Int("quick", stats.QuickMatched).
		Int("fingerprinted", stats.Fingerprinted).
		Dur("duration", stats.Duration).
		Msg("scan cycle complete")
}

func deviceLabel(hostname, vendor, mac string) string {
	if hostname != "" {
		return hostname
	}
	if vendor != "" {
		return vendor
	}
	return mac
}

func nonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
