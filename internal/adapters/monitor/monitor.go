// Package monitor implements the auxiliary periodic loops: the internet
// speed sampler, the website prober and the security port audit. Each
// loop is independent of the scan cycle, owns its own interval and
// swallows per-cycle errors so one bad pass never kills the monitor.
package monitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/telemetry"
)

// runLoop drives one monitor: cycle, sleep, repeat until cancelled. The
// interval is re-read every pass so settings updates apply without a
// restart.
func runLoop(ctx context.Context, log zerolog.Logger, name string, interval func() time.Duration, cycle func(context.Context) error) {
	log.Info().Msg(name + " monitor started")
	for {
		if ctx.Err() != nil {
			log.Info().Msg(name + " monitor stopped")
			return
		}

		if err := cycle(ctx); err != nil {
			telemetry.MonitorCycles.WithLabelValues(name, "error").Inc()
			log.Error().Err(err).Msg(name + " cycle failed")
		} else {
			telemetry.MonitorCycles.WithLabelValues(name, "ok").Inc()
		}

		select {
		case <-ctx.Done():
			log.Info().Msg(name + " monitor stopped")
			return
		case <-time.After(interval()):
		}
	}
}
