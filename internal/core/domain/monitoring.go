package domain

import "time"

// SpeedSample is one internet health measurement. A sample with Error set
// carries null metrics; a successful sample carries all three.
type SpeedSample struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	DownloadMbps *float64  `json:"download_mbps"`
	UploadMbps   *float64  `json:"upload_mbps"`
	PingMs       *float64  `json:"ping_ms"`
	ISP          string    `json:"isp,omitempty"`
	Server       string    `json:"server,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Failed reports whether the sample recorded an error instead of metrics.
func (s *SpeedSample) Failed() bool { return s.Error != "" }

// WebsiteCheck is one availability probe of a configured URL.
type WebsiteCheck struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	Timestamp    time.Time `json:"timestamp"`
	StatusCode   *int      `json:"status_code"`
	ResponseTime *float64  `json:"response_time_s"`
	IsUp         bool      `json:"is_up"`
	Error        string    `json:"error,omitempty"`
}

// PortInfo describes one open port found by the security audit.
type PortInfo struct {
	Port     int    `json:"port"`
	Protocol string `json:"protocol"` // "tcp"
	Service  string `json:"service,omitempty"`
}

// SecurityFinding flags a suspicious open port with the reason it matched.
type SecurityFinding struct {
	Port     int    `json:"port"`
	Service  string `json:"service,omitempty"`
	Reason   string `json:"reason"`
	Severity string `json:"severity"` // "warning" or "error"
}

// SecurityScan is one port-audit result for a device. OpenPorts and
// Vulnerabilities are stored as JSON columns; the scan is removed when its
// device is deleted.
type SecurityScan struct {
	ID              int64             `json:"id"`
	DeviceID        int64             `json:"device_id"`
	Timestamp       time.Time         `json:"timestamp"`
	OpenPorts       []PortInfo        `json:"open_ports"`
	Vulnerabilities []SecurityFinding `json:"vulnerabilities,omitempty"`
}
