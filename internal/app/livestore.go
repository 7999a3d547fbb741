package app

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
)

// liveEvents decorates the store so every appended event also reaches the
// websocket hub. The broadcaster attaches once the control API exists;
// until then appends only hit the store. The alert bus keeps the raw
// store: alerts already reach clients through BroadcastAlert.
type liveEvents struct {
	ports.Store

	mu sync.RWMutex
	bc ports.LiveBroadcaster
}

func (l *liveEvents) SetBroadcaster(bc ports.LiveBroadcaster) {
	l.mu.Lock()
	l.bc = bc
	l.mu.Unlock()
}

func (l *liveEvents) AppendEvent(kind domain.EventKind, severity domain.Severity, message string, details json.RawMessage) error {
	if err := l.Store.AppendEvent(kind, severity, message, details); err != nil {
		return err
	}

	l.mu.RLock()
	bc := l.bc
	l.mu.RUnlock()
	if bc != nil {
		bc.BroadcastEvent(domain.Event{
			Timestamp: time.Now(),
			Kind:      kind,
			Severity:  severity,
			Message:   message,
			Details:   details,
		})
	}
	return nil
}
