package discovery

import (
	"context"
	"strings"

	"github.com/avidal-labs/lanwarden/internal/proc"
)

// Resolve returns the hostname for an IP via `getent hosts`, which
// consults every configured NSS source (hosts file, DNS, mDNS). An
// unresolvable IP yields "".
func (d *Discovery) Resolve(ctx context.Context, ip string) string {
	if !proc.Available("getent") {
		return ""
	}
	res, err := proc.Run(ctx, tableTimeout, "getent", "hosts", ip)
	if err != nil {
		return ""
	}
	return parseGetentOutput(res.Stdout)
}

func parseGetentOutput(out string) string {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) < 2 {
		return ""
	}
	// "192.168.1.1   router.lan router" -> first name wins.
	return strings.TrimSuffix(fields[1], ".")
}
