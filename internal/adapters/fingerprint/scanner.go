package fingerprint

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
	"github.com/avidal-labs/lanwarden/internal/telemetry"
)

// Scanner runs the probe set per host and feeds the engine. A MAC set
// remembers hosts already probed this run so repeat batches are cheap;
// forced scans evict from the set before processing.
type Scanner struct {
	engine ports.FingerprintEngine
	probes ports.ProbeSet
	log    zerolog.Logger

	mu      sync.Mutex
	workers int
	done    map[string]struct{}
}

func NewScanner(engine ports.FingerprintEngine, probes ports.ProbeSet, workers int) *Scanner {
	if workers <= 0 {
		workers = 10
	}
	return &Scanner{
		engine:  engine,
		probes:  probes,
		workers: workers,
		log:     logging.WithComponent("fingerprint"),
		done:    make(map[string]struct{}),
	}
}

// SetWorkers resizes the batch pool; the next batch picks it up.
func (s *Scanner) SetWorkers(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.workers = n
	s.mu.Unlock()
}

func (s *Scanner) poolSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workers
}

// FingerprintHost issues the four probes concurrently, joins the evidence
// into one observation and ranks it. Individual probe failures surface as
// empty evidence, not errors.
func (s *Scanner) FingerprintHost(ctx context.Context, ip, mac string) (domain.Observation, []domain.SignatureMatch, error) {
	normalized := domain.NormalizeMAC(mac)
	if normalized == "" {
		return domain.Observation{}, nil, ErrInvalidMAC
	}

	obs := domain.Observation{IP: ip, MAC: normalized}
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		obs.OpenPorts = s.probes.Ports(ctx, ip)
	}()
	go func() {
		defer wg.Done()
		obs.HTTP = s.probes.HTTP(ctx, ip)
	}()
	go func() {
		defer wg.Done()
		obs.SNMP = s.probes.SNMP(ctx, ip)
	}()
	go func() {
		defer wg.Done()
		obs.MDNS = s.probes.MDNS(ctx, ip)
	}()
	wg.Wait()

	if h := obs.MDNS["hostname"]; h != "" {
		obs.Hostname = h
	}

	matches := s.engine.Identify(obs)

	s.log.Debug().
		Str("ip", ip).
		Str("mac", normalized).
		Int("open_ports", len(obs.OpenPorts)).
		Int("matches", len(matches)).
		Dur("elapsed", time.Since(start)).
		Msg("host fingerprinted")
	return obs, matches, nil
}

// FingerprintHosts probes a batch in parallel, bounded by the worker pool.
// Hosts already in the done set are skipped unless force evicts them first.
// A failing host never aborts the rest of the batch.
func (s *Scanner) FingerprintHosts(ctx context.Context, hosts []domain.HostTarget, force bool) []domain.HostResult {
	results := make([]domain.HostResult, len(hosts))

	sem := make(chan struct{}, s.poolSize())
	var wg sync.WaitGroup

	for i, host := range hosts {
		mac := domain.NormalizeMAC(host.MAC)
		if mac == "" {
			results[i] = domain.HostResult{Target: host, Err: ErrInvalidMAC}
			continue
		}
		if force {
			s.Forget(mac)
		}
		if !s.claim(mac) {
			results[i] = domain.HostResult{Target: host, Skipped: true}
			continue
		}

		wg.Add(1)
		go func(i int, host domain.HostTarget) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				results[i] = domain.HostResult{Target: host, Err: err}
				return
			}
			obs, matches, err := s.FingerprintHost(ctx, host.IP, host.MAC)
			results[i] = domain.HostResult{Target: host, Observation: obs, Matches: matches, Err: err}
		}(i, host)
	}

	wg.Wait()

	for i := range results {
		if results[i].Err != nil {
			s.log.Warn().
				Err(results[i].Err).
				Str("ip", results[i].Target.IP).
				Str("mac", results[i].Target.MAC).
				Msg("fingerprint failed for host")
		}
	}
	telemetry.FingerprintBatchSize.Observe(float64(len(hosts)))
	return results
}

// Forget drops a MAC from the done set so the next unforced batch probes
// it again.
func (s *Scanner) Forget(mac string) {
	mac = domain.NormalizeMAC(mac)
	if mac == "" {
		return
	}
	s.mu.Lock()
	delete(s.done, mac)
	s.mu.Unlock()
}

// claim marks a MAC as handled; false means it was already claimed.
func (s *Scanner) claim(mac string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.done[mac]; ok {
		return false
	}
	s.done[mac] = struct{}{}
	return true
}

var _ ports.Fingerprinter = (*Scanner)(nil)
