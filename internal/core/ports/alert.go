package ports

import (
	"context"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

// Alerter is what components call to raise an alert. The returned bool
// reports external delivery success only; log/store sinks do not count.
type Alerter interface {
	Send(title, message string, severity domain.Severity) bool
}

// AlertSink is one delivery target registered on the alert bus.
type AlertSink interface {
	Name() string
	Deliver(ctx context.Context, title, message string, severity domain.Severity) error
}

// LiveBroadcaster pushes events and alerts to connected dashboard clients.
// Implementations must never block the caller.
type LiveBroadcaster interface {
	BroadcastEvent(event domain.Event)
	BroadcastAlert(title, message string, severity domain.Severity)
}
