// Package discovery finds live hosts on the configured subnet. The chain
// of preference is nmap ping-sweep, arp-scan, then the system ARP table;
// whichever answers first wins. Results missing a MAC are enriched from
// the ARP table, and missing hostnames resolved through getent. Every
// tool is optional; absence degrades to the next method.
package discovery

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
	"github.com/avidal-labs/lanwarden/internal/telemetry"
)

const (
	nmapTimeout    = 120 * time.Second
	arpScanTimeout = 60 * time.Second
	tableTimeout   = 5 * time.Second
)

// Discovery implements ports.Discoverer and ports.HostnameResolver over
// the external tools.
type Discovery struct {
	fallbackToARPScan bool
	log               zerolog.Logger
}

func New(fallbackToARPScan bool) *Discovery {
	return &Discovery{
		fallbackToARPScan: fallbackToARPScan,
		log:               logging.WithComponent("discovery"),
	}
}

// Discover sweeps the subnet and returns the raw host rows, MACs and
// hostnames filled in where the tools could supply them. An empty slice
// with a nil error means the sweep ran but found nothing.
func (d *Discovery) Discover(ctx context.Context, subnet string) ([]domain.DiscoveredHost, error) {
	hosts, method := d.sweep(ctx, subnet)

	if len(hosts) > 0 {
		telemetry.DevicesDiscovered.WithLabelValues(method).Add(float64(len(hosts)))
	}

	// The ARP table knows MACs nmap could not read unprivileged.
	d.enrichFromARPTable(ctx, hosts)
	d.resolveHostnames(ctx, hosts)

	d.log.Debug().
		Str("subnet", subnet).
		Str("method", method).
		Int("hosts", len(hosts)).
		Msg("discovery pass complete")
	return hosts, nil
}

func (d *Discovery) sweep(ctx context.Context, subnet string) ([]domain.DiscoveredHost, string) {
	hosts, err := d.nmapSweep(ctx, subnet)
	if err != nil {
		d.log.Debug().Err(err).Msg("nmap sweep failed")
	}
	if len(hosts) > 0 {
		return hosts, "nmap"
	}

	if d.fallbackToARPScan {
		hosts, err = d.arpScan(ctx, subnet)
		if err != nil {
			d.log.Debug().Err(err).Msg("arp-scan failed")
		}
		if len(hosts) > 0 {
			return hosts, "arp-scan"
		}
	}

	hosts = d.arpTable(ctx)
	if len(hosts) > 0 {
		return hosts, "arp-table"
	}
	return nil, "none"
}

// enrichFromARPTable fills in MACs for hosts a sweep saw only by IP.
func (d *Discovery) enrichFromARPTable(ctx context.Context, hosts []domain.DiscoveredHost) {
	missing := false
	for i := range hosts {
		if hosts[i].MAC == "" {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	table := make(map[string]string)
	for _, entry := range d.arpTable(ctx) {
		table[entry.IP] = entry.MAC
	}
	for i := range hosts {
		if hosts[i].MAC == "" {
			hosts[i].MAC = table[hosts[i].IP]
		}
	}
}

func (d *Discovery) resolveHostnames(ctx context.Context, hosts []domain.DiscoveredHost) {
	for i := range hosts {
		if hosts[i].Hostname == "" {
			hosts[i].Hostname = d.Resolve(ctx, hosts[i].IP)
		}
	}
}

var _ ports.Discoverer = (*Discovery)(nil)
var _ ports.HostnameResolver = (*Discovery)(nil)
