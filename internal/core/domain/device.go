package domain

import (
	"strings"
	"time"
)

// Device represents a host observed on the monitored subnet.
// Identity is the normalized MAC address; it never changes after insert.
type Device struct {
	ID       int64  `json:"id"`
	MAC      string `json:"mac_address"`
	IP       string `json:"ip_address"`
	Hostname string `json:"hostname,omitempty"`
	Vendor   string `json:"vendor,omitempty"` // As reported by nmap/arp-scan, normalized

	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`

	IsImportant bool   `json:"is_important"`
	Notes       string `json:"notes,omitempty"`

	// Fingerprint result. All five fields are cleared together; the
	// IsFingerprinted flag is the single source of truth.
	DeviceType            string    `json:"device_type,omitempty"`  // "networking", "nas", "media", ...
	DeviceModel           string    `json:"device_model,omitempty"` // "Dream Machine Pro", "DS920+"
	DeviceManufacturer    string    `json:"device_manufacturer,omitempty"`
	FingerprintConfidence float64   `json:"fingerprint_confidence,omitempty"` // 0.0-1.0
	FingerprintDate       time.Time `json:"fingerprint_date,omitzero"`
	IsFingerprinted       bool      `json:"is_fingerprinted"`

	NeverFingerprint bool `json:"never_fingerprint"`
}

// unidentifiedTypes are device_type values that do not count as a usable
// classification.
var unidentifiedTypes = map[string]bool{
	"":             true,
	"unknown":      true,
	"unidentified": true,
}

// IsUnidentified reports whether the device still lacks a usable type.
func (d *Device) IsUnidentified() bool {
	return unidentifiedTypes[strings.ToLower(strings.TrimSpace(d.DeviceType))]
}

// NeedsFingerprint reports whether a regular (unforced) scan should probe
// this device. Forced scans only honor NeverFingerprint.
func (d *Device) NeedsFingerprint(threshold float64) bool {
	if d.NeverFingerprint || d.IsFingerprinted {
		return false
	}
	return d.IsUnidentified() || d.FingerprintDate.IsZero() || d.FingerprintConfidence < threshold
}

// FingerprintExpired reports whether an already-fingerprinted device is due
// for a refresh under the configured re-scan interval.
func (d *Device) FingerprintExpired(interval time.Duration) bool {
	if !d.IsFingerprinted || d.FingerprintDate.IsZero() {
		return true
	}
	return time.Since(d.FingerprintDate) > interval
}

// DeviceUpdate carries optional fields for an upsert. Nil pointers mean
// "leave the stored value alone".
type DeviceUpdate struct {
	Hostname *string
	Vendor   *string

	Fingerprint *FingerprintResult
}

// FingerprintResult is the metadata patch written after a successful
// classification, either the vendor quick path or the full probe pipeline.
type FingerprintResult struct {
	DeviceType   string    `json:"device_type"`
	Model        string    `json:"model,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	Confidence   float64   `json:"confidence"`
	Date         time.Time `json:"date"`
}

// HostTarget is one entry of a fingerprinting worklist.
type HostTarget struct {
	IP  string `json:"ip"`
	MAC string `json:"mac"`
}

// HostResult is the outcome of fingerprinting one host in a batch.
type HostResult struct {
	Target      HostTarget       `json:"target"`
	Observation Observation      `json:"observation"`
	Matches     []SignatureMatch `json:"matches,omitempty"`
	Skipped     bool             `json:"skipped,omitempty"` // already fingerprinted this run
	Err         error            `json:"-"`
}

// DiscoveredHost is one raw row out of a discovery pass, before
// normalization and store reconciliation.
type DiscoveredHost struct {
	IP       string `json:"ip"`
	MAC      string `json:"mac"`
	Vendor   string `json:"vendor,omitempty"`
	Hostname string `json:"hostname,omitempty"`
}
