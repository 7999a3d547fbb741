package probe

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/avidal-labs/lanwarden/internal/telemetry"
)

// mdnsServiceTypes are the service types home devices commonly advertise.
// Browsing a fixed list keeps the probe bounded; an exhaustive meta-query
// would not fit the shared probe deadline.
var mdnsServiceTypes = []string{
	"_http._tcp",
	"_https._tcp",
	"_workstation._tcp",
	"_smb._tcp",
	"_afpovertcp._tcp",
	"_device-info._tcp",
	"_printer._tcp",
	"_ipp._tcp",
	"_airplay._tcp",
	"_raop._tcp",
	"_googlecast._tcp",
	"_spotify-connect._tcp",
	"_sonos._tcp",
	"_hap._tcp",
	"_ssh._tcp",
	"_sftp-ssh._tcp",
}

// MDNS browses the common service types and keeps the first advertisement
// published from the target IP. The result carries service_type,
// service_name and hostname keys; silence yields an empty map.
func (s *Set) MDNS(ctx context.Context, ip string) map[string]string {
	start := time.Now()
	defer func() {
		telemetry.ProbeDuration.WithLabelValues("mdns").Observe(time.Since(start).Seconds())
	}()

	browseCtx, cancel := context.WithTimeout(ctx, s.deadline())
	defer cancel()

	var (
		mu    sync.Mutex
		found map[string]string
		wg    sync.WaitGroup
	)

	for _, serviceType := range mdnsServiceTypes {
		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return map[string]string{}
		}

		entries := make(chan *zeroconf.ServiceEntry, 8)
		wg.Add(1)
		go func(serviceType string, entries <-chan *zeroconf.ServiceEntry) {
			defer wg.Done()
			for entry := range entries {
				if !entryMatchesIP(entry, ip) {
					continue
				}
				mu.Lock()
				if found == nil {
					found = map[string]string{
						"service_type": serviceType,
						"service_name": entry.Instance,
						"hostname":     strings.TrimSuffix(entry.HostName, "."),
					}
					cancel()
				}
				mu.Unlock()
			}
		}(serviceType, entries)

		if err := resolver.Browse(browseCtx, serviceType, "local.", entries); err != nil {
			// Browse closes the channel itself on success; on error the
			// collector goroutine must still terminate.
			close(entries)
		}
	}

	<-browseCtx.Done()
	wg.Wait()

	if found == nil {
		return map[string]string{}
	}
	s.log.Debug().
		Str("ip", ip).
		Str("service", found["service_type"]).
		Str("hostname", found["hostname"]).
		Msg("mdns answered")
	return found
}

func entryMatchesIP(entry *zeroconf.ServiceEntry, ip string) bool {
	for _, addr := range entry.AddrIPv4 {
		if addr.String() == ip {
			return true
		}
	}
	return false
}
