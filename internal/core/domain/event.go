package domain

import (
	"encoding/json"
	"time"
)

// EventKind classifies an entry of the append-only event log.
type EventKind string

const (
	EventDeviceDetected      EventKind = "device_detected"
	EventDeviceOffline       EventKind = "device_offline"
	EventDeviceFingerprinted EventKind = "device_fingerprinted"
	EventAlert               EventKind = "alert"
	EventSpeedTest           EventKind = "speed_test"
	EventWebsiteCheck        EventKind = "website_check"
	EventSecurityScan        EventKind = "security_scan"
	EventSystem              EventKind = "system"
	EventUser                EventKind = "user"
)

// Severity grades an event or alert.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event is one immutable row of the event log. Events are inserted and
// queried, never edited.
type Event struct {
	ID        int64           `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Kind      EventKind       `json:"kind"`
	Severity  Severity        `json:"severity"`
	Message   string          `json:"message"`
	Details   json.RawMessage `json:"details,omitempty"` // Opaque JSON blob
}

// ValidEventKind reports whether k is one of the known kinds.
func ValidEventKind(k EventKind) bool {
	switch k {
	case EventDeviceDetected, EventDeviceOffline, EventDeviceFingerprinted,
		EventAlert, EventSpeedTest, EventWebsiteCheck, EventSecurityScan,
		EventSystem, EventUser:
		return true
	}
	return false
}

// EventFilter narrows RecentEvents queries. Zero values mean "no filter".
// Alert-kind rows are excluded unless IncludeAlerts is set; they have their
// own feed on the dashboard.
type EventFilter struct {
	Kind          EventKind
	Severity      Severity
	IncludeAlerts bool
}
