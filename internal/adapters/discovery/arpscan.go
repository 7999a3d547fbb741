package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/proc"
)

// arpScan runs arp-scan over the subnet. Its output is tab-separated
// "ip\tmac\tvendor" rows between a banner and a summary footer.
func (d *Discovery) arpScan(ctx context.Context, subnet string) ([]domain.DiscoveredHost, error) {
	if !proc.Available("arp-scan") {
		return nil, fmt.Errorf("arp-scan not installed")
	}

	res, err := proc.Run(ctx, arpScanTimeout, "arp-scan", subnet)
	if err != nil {
		res, err = proc.Run(ctx, arpScanTimeout, "sudo", "-n", "arp-scan", subnet)
		if err != nil {
			return nil, fmt.Errorf("arp-scan: %w", err)
		}
	}
	return parseARPScanOutput(res.Stdout), nil
}

func parseARPScanOutput(out string) []domain.DiscoveredHost {
	var hosts []domain.DiscoveredHost
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(strings.TrimSpace(line), "\t")
		if len(fields) < 2 {
			continue
		}
		mac := domain.NormalizeMAC(fields[1])
		if mac == "" || !looksLikeIPv4(fields[0]) {
			continue
		}
		host := domain.DiscoveredHost{IP: fields[0], MAC: mac}
		if len(fields) >= 3 {
			host.Vendor = domain.NormalizeVendor(fields[2])
		}
		hosts = append(hosts, host)
	}
	return hosts
}

func looksLikeIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return false
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				return false
			}
		}
	}
	return true
}
