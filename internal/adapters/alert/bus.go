// Package alert classifies state-change notifications and fans them out
// to the configured sinks. Every alert lands in the event log; external
// sinks (Telegram) are best-effort and their delivery result is what the
// bus reports back to callers.
package alert

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
	"github.com/avidal-labs/lanwarden/internal/telemetry"
)

const deliveryTimeout = 10 * time.Second

// Bus implements ports.Alerter. Disabled buses swallow everything and
// report false.
type Bus struct {
	store       ports.Store
	broadcaster ports.LiveBroadcaster
	enabled     bool
	log         zerolog.Logger

	mu    sync.RWMutex
	sinks []ports.AlertSink
}

func NewBus(store ports.Store, enabled bool) *Bus {
	return &Bus{
		store:   store,
		enabled: enabled,
		log:     logging.WithComponent("alerts"),
	}
}

// AddSink registers an external delivery target.
func (b *Bus) AddSink(sink ports.AlertSink) {
	b.mu.Lock()
	b.sinks = append(b.sinks, sink)
	b.mu.Unlock()
}

// SetTelegram installs, re-keys or removes the Telegram sink to match the
// current settings. Other sinks are untouched, so toggling Telegram at
// runtime never loses them.
func (b *Bus) SetTelegram(enabled bool, token, chatID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.sinks[:0]
	for _, sink := range b.sinks {
		if sink.Name() != "telegram" {
			kept = append(kept, sink)
		}
	}
	b.sinks = kept
	if enabled && token != "" && chatID != "" {
		b.sinks = append(b.sinks, NewTelegramSink(token, chatID))
	}
}

// SetBroadcaster attaches the live dashboard hub. Optional.
func (b *Bus) SetBroadcaster(bc ports.LiveBroadcaster) {
	b.mu.Lock()
	b.broadcaster = bc
	b.mu.Unlock()
}

// SetEnabled flips the master toggle; used by settings hot-reload.
func (b *Bus) SetEnabled(enabled bool) {
	b.mu.Lock()
	b.enabled = enabled
	b.mu.Unlock()
}

// Send logs the alert as an event, pushes it to the live hub and delivers
// it through every sink. The returned bool reflects external delivery
// success only; with no sinks registered it is false.
func (b *Bus) Send(title, message string, severity domain.Severity) bool {
	b.mu.RLock()
	enabled := b.enabled
	sinks := make([]ports.AlertSink, len(b.sinks))
	copy(sinks, b.sinks)
	broadcaster := b.broadcaster
	b.mu.RUnlock()

	if !enabled {
		return false
	}

	b.log.Info().
		Str("title", title).
		Str("severity", string(severity)).
		Msg(message)

	details, _ := json.Marshal(map[string]string{"title": title})
	if err := b.store.AppendEvent(domain.EventAlert, severity, title+": "+message, details); err != nil {
		// Alerting must never crash the caller over a store hiccup.
		b.log.Error().Err(err).Msg("failed to record alert event")
	}
	telemetry.EventsAppended.WithLabelValues(string(domain.EventAlert)).Inc()

	if broadcaster != nil {
		broadcaster.BroadcastAlert(title, message, severity)
	}

	delivered := false
	for _, sink := range sinks {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		err := sink.Deliver(ctx, title, message, severity)
		cancel()
		if err != nil {
			telemetry.AlertsSent.WithLabelValues(sink.Name(), "error").Inc()
			b.log.Warn().Err(err).Str("sink", sink.Name()).Msg("alert delivery failed")
			continue
		}
		telemetry.AlertsSent.WithLabelValues(sink.Name(), "ok").Inc()
		delivered = true
	}
	return delivered
}

var _ ports.Alerter = (*Bus)(nil)
