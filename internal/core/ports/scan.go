package ports

import (
	"context"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

// Discoverer finds live hosts on a subnet. Implementations wrap nmap,
// arp-scan and the system ARP table; they degrade to an empty result when
// their tool is missing.
type Discoverer interface {
	Discover(ctx context.Context, subnet string) ([]domain.DiscoveredHost, error)
}

// HostnameResolver fills in hostnames for bare IPs (getent, reverse DNS).
type HostnameResolver interface {
	Resolve(ctx context.Context, ip string) string
}

// ProbeSet issues the four evidence probes against one host. Each method
// returns its empty-shape result on failure; none of them return errors.
type ProbeSet interface {
	Ports(ctx context.Context, ip string) []int
	HTTP(ctx context.Context, ip string) map[string]string
	SNMP(ctx context.Context, ip string) map[string]string
	MDNS(ctx context.Context, ip string) map[string]string
}

// FingerprintEngine ranks the signature library against one observation.
type FingerprintEngine interface {
	Identify(obs domain.Observation) []domain.SignatureMatch
	SignatureCount() int
	Families() map[string]int // device type -> signature count
}

// Fingerprinter runs the probe set per host and delegates to the engine,
// de-duplicating repeat work via an in-memory MAC set.
type Fingerprinter interface {
	FingerprintHost(ctx context.Context, ip, mac string) (domain.Observation, []domain.SignatureMatch, error)
	FingerprintHosts(ctx context.Context, hosts []domain.HostTarget, force bool) []domain.HostResult
	// Forget drops a MAC from the de-duplication set so the next unforced
	// batch probes it again.
	Forget(mac string)
}
