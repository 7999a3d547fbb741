package discovery

import (
	"context"
	"regexp"
	"strings"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/proc"
)

var (
	// "router.lan (192.168.1.1) at b4:fb:e4:5a:11:22 [ether] on eth0"
	arpARe = regexp.MustCompile(`^(\S+) \((\d+\.\d+\.\d+\.\d+)\) at ([0-9A-Fa-f:]{17})`)

	// "192.168.1.1 dev eth0 lladdr b4:fb:e4:5a:11:22 REACHABLE"
	ipNeighRe = regexp.MustCompile(`^(\d+\.\d+\.\d+\.\d+) .*lladdr ([0-9A-Fa-f:]{17})`)
)

// arpTable reads the kernel neighbor cache: `arp -a` first, `ip neigh` as
// the fallback on systems without net-tools. Incomplete entries are
// dropped.
func (d *Discovery) arpTable(ctx context.Context) []domain.DiscoveredHost {
	if proc.Available("arp") {
		if res, err := proc.Run(ctx, tableTimeout, "arp", "-a"); err == nil {
			if hosts := parseARPAOutput(res.Stdout); len(hosts) > 0 {
				return hosts
			}
		}
	}
	if proc.Available("ip") {
		if res, err := proc.Run(ctx, tableTimeout, "ip", "neigh"); err == nil {
			return parseIPNeighOutput(res.Stdout)
		}
	}
	return nil
}

func parseARPAOutput(out string) []domain.DiscoveredHost {
	var hosts []domain.DiscoveredHost
	for _, line := range strings.Split(out, "\n") {
		m := arpARe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		mac := domain.NormalizeMAC(m[3])
		if mac == "" {
			continue
		}
		host := domain.DiscoveredHost{IP: m[2], MAC: mac}
		if m[1] != "?" {
			host.Hostname = m[1]
		}
		hosts = append(hosts, host)
	}
	return hosts
}

func parseIPNeighOutput(out string) []domain.DiscoveredHost {
	var hosts []domain.DiscoveredHost
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasSuffix(line, "FAILED") || strings.HasSuffix(line, "INCOMPLETE") {
			continue
		}
		m := ipNeighRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if mac := domain.NormalizeMAC(m[2]); mac != "" {
			hosts = append(hosts, domain.DiscoveredHost{IP: m[1], MAC: mac})
		}
	}
	return hosts
}
