package domain

import "time"

// CycleStats summarizes one network scan cycle.
type CycleStats struct {
	CycleID       string        `json:"cycle_id"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
	DevicesFound  int           `json:"devices_found"`
	NewDevices    int           `json:"new_devices"`
	Offline       int           `json:"offline"`
	QuickMatched  int           `json:"quick_matched"`
	Fingerprinted int           `json:"fingerprinted"`
}

// SystemStatus is the aggregate snapshot served by /api/status.
type SystemStatus struct {
	DeviceCount    int             `json:"device_count"`
	ImportantCount int             `json:"important_count"`
	EventCount     int             `json:"event_count"`
	Components     map[string]bool `json:"components"` // name -> running
	LastCycle      *CycleStats     `json:"last_cycle,omitempty"`
	StoreSizeBytes int64           `json:"store_size_bytes"`
	UptimeSeconds  int64           `json:"uptime_seconds"`
	Version        string          `json:"version"`
}
