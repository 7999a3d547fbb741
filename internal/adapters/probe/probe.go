// Package probe implements the four evidence probes the fingerprint
// scanner issues against one host: a TCP port sweep, an HTTP header and
// content probe, an SNMP walk of the system subtree and an mDNS service
// lookup. Probes never return errors; a failed dimension contributes its
// empty-shape result so the matcher stays total.
package probe

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
)

const (
	defaultTimeout = 2 * time.Second
	defaultWorkers = 10
)

// Set bundles the four probes behind ports.ProbeSet. One Set is shared by
// all fingerprint workers; it holds no per-host state. Timeout and pool
// size follow the live settings via Configure.
type Set struct {
	mu      sync.RWMutex
	timeout time.Duration
	workers int

	// signature_id -> body substrings, used to synthesize
	// X-Content-Indicator headers in the HTTP probe.
	indicators map[string][]string

	log zerolog.Logger
}

// Option configures a Set.
type Option func(*Set)

// WithTimeout sets the shared per-probe deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Set) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithWorkers bounds the port-sweep pool.
func WithWorkers(n int) Option {
	return func(s *Set) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithContentIndicators supplies the signature body substrings the HTTP
// probe reports back as synthesized headers.
func WithContentIndicators(indicators map[string][]string) Option {
	return func(s *Set) { s.indicators = indicators }
}

// NewSet builds a probe set with the given options.
func NewSet(opts ...Option) *Set {
	s := &Set{
		timeout: defaultTimeout,
		workers: defaultWorkers,
		log:     logging.WithComponent("probe"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configure updates the shared deadline and pool size. In-flight probes
// finish on the old values; the next probe call picks the new ones up.
func (s *Set) Configure(timeout time.Duration, workers int) {
	s.mu.Lock()
	if timeout > 0 {
		s.timeout = timeout
	}
	if workers > 0 {
		s.workers = workers
	}
	s.mu.Unlock()
}

func (s *Set) deadline() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeout
}

func (s *Set) poolSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.workers
}

var _ ports.ProbeSet = (*Set)(nil)
