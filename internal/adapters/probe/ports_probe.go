package probe

import (
	"context"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/avidal-labs/lanwarden/internal/telemetry"
)

// defaultPortList covers the services home devices commonly expose:
// remote shells, name services, web UIs, print/NAS/IoT ports and the
// UPnP range.
var defaultPortList = []int{
	21, 22, 23, 25, 53, 80, 81, 88, 443, 445, 515, 631,
	1883, 3000, 3306, 3389, 5000, 5001, 5060, 5900,
	8000, 8080, 8443, 8081, 8123, 8888, 49152, 49153,
}

// Ports sweeps the default port list with TCP connects, bounded by the
// worker pool. A port is open when the connect succeeds within the probe
// timeout.
func (s *Set) Ports(ctx context.Context, ip string) []int {
	start := time.Now()
	defer func() {
		telemetry.ProbeDuration.WithLabelValues("ports").Observe(time.Since(start).Seconds())
	}()

	var (
		mu   sync.Mutex
		open []int
		wg   sync.WaitGroup
	)
	sem := make(chan struct{}, s.poolSize())

	for _, port := range defaultPortList {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if s.portOpen(ctx, ip, port) {
				mu.Lock()
				open = append(open, port)
				mu.Unlock()
			}
		}(port)
	}
	wg.Wait()

	sort.Ints(open)
	if len(open) > 0 {
		s.log.Debug().Str("ip", ip).Ints("open", open).Msg("port sweep done")
	}
	return open
}

func (s *Set) portOpen(ctx context.Context, ip string, port int) bool {
	d := net.Dialer{Timeout: s.deadline()}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(ip, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
