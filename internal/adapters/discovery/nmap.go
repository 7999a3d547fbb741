package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/proc"
)

var (
	// "Nmap scan report for router.lan (192.168.1.1)" or
	// "Nmap scan report for 192.168.1.42"
	nmapReportRe = regexp.MustCompile(`^Nmap scan report for (?:(\S+) \()?(\d+\.\d+\.\d+\.\d+)\)?$`)

	// "MAC Address: B4:FB:E4:5A:11:22 (Ubiquiti Networks)"
	nmapMACRe = regexp.MustCompile(`^MAC Address: ([0-9A-Fa-f:]{17})(?: \((.*)\))?$`)
)

// nmapSweep runs a ping sweep over the subnet. Unprivileged nmap cannot
// read MACs, so a failed plain run is retried under sudo before giving up.
func (d *Discovery) nmapSweep(ctx context.Context, subnet string) ([]domain.DiscoveredHost, error) {
	if !proc.Available("nmap") {
		return nil, fmt.Errorf("nmap not installed")
	}

	res, err := proc.Run(ctx, nmapTimeout, "nmap", "-sn", subnet)
	if err != nil {
		res, err = proc.Run(ctx, nmapTimeout, "sudo", "-n", "nmap", "-sn", subnet)
		if err != nil {
			return nil, fmt.Errorf("nmap sweep: %w", err)
		}
	}
	return parseNmapOutput(res.Stdout), nil
}

// parseNmapOutput walks the report blocks of `nmap -sn` text output. A MAC
// line belongs to the report block it follows.
func parseNmapOutput(out string) []domain.DiscoveredHost {
	var hosts []domain.DiscoveredHost
	var current *domain.DiscoveredHost

	flush := func() {
		if current != nil {
			hosts = append(hosts, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)

		if m := nmapReportRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &domain.DiscoveredHost{IP: m[2]}
			if hostname := m[1]; hostname != "" && hostname != m[2] {
				current.Hostname = hostname
			}
			continue
		}
		if current == nil {
			continue
		}
		if m := nmapMACRe.FindStringSubmatch(line); m != nil {
			current.MAC = domain.NormalizeMAC(m[1])
			current.Vendor = domain.NormalizeVendor(m[2])
		}
	}
	flush()
	return hosts
}
