package ports

import (
	"encoding/json"
	"errors"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

// ErrDeviceNotFound is returned by device lookups and updates for MACs
// the store has never seen.
var ErrDeviceNotFound = errors.New("device not found")

// Store defines the durable record behind every component: devices, the
// append-only event log, speed samples, website checks and security scans.
// Implementations serialize writers; readers see last committed state.
type Store interface {
	// UpsertDevice inserts a device on first sighting (first_seen=last_seen=now)
	// or patches the provided fields and bumps last_seen. Stored hostname and
	// vendor values set by the user are never overwritten by scanner values
	// (vendor only refreshes when empty or equal). Returns the row id.
	UpsertDevice(mac, ip string, update domain.DeviceUpdate) (int64, error)

	// UpdateDeviceMetadata writes the fingerprint result fields. A nil result
	// clears nothing; use ClearDeviceFingerprint for that.
	UpdateDeviceMetadata(mac string, result domain.FingerprintResult) error

	// ClearDeviceFingerprint nulls all five fingerprint fields and resets
	// is_fingerprinted.
	ClearDeviceFingerprint(mac string) error

	MarkImportant(mac string, important bool) error
	SetNeverFingerprint(mac string, never bool) error
	UpdateDeviceUserFields(mac string, hostname, vendor, notes *string) error

	GetDevice(mac string) (*domain.Device, error)
	GetAllDevices() ([]domain.Device, error) // ordered by last_seen desc
	CountDevices() (int64, error)

	AppendEvent(kind domain.EventKind, severity domain.Severity, message string, details json.RawMessage) error
	RecentEvents(limit int, filter domain.EventFilter) ([]domain.Event, error)
	CountEvents() (int64, error)

	AppendSpeedSample(sample domain.SpeedSample) error
	RecentSpeedSamples(limit int) ([]domain.SpeedSample, error)

	AppendWebsiteCheck(check domain.WebsiteCheck) error
	WebsiteChecks(url string, limit int) ([]domain.WebsiteCheck, error)

	AppendSecurityScan(scan domain.SecurityScan) error
	SecurityScans(deviceID int64, limit int) ([]domain.SecurityScan, error)
	LatestSecurityScan(mac string) (*domain.SecurityScan, error)

	// WipeDevices removes every device and cascades to security scans,
	// events, speed samples and website checks (full reset).
	WipeDevices() error

	// DestroyStore closes the store and removes the backing file.
	DestroyStore() error

	Close() error
}
