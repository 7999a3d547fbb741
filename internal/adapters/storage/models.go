package storage

// Database models. Timestamps are stored as epoch seconds; the five
// fingerprint columns are nullable and cleared together.

type DeviceModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	MACAddress string `gorm:"column:mac_address;uniqueIndex;not null"`
	IPAddress  string `gorm:"column:ip_address"`
	Hostname   string
	Vendor     string

	FirstSeen int64
	LastSeen  int64

	IsImportant bool
	Notes       string

	DeviceType            *string
	DeviceModel           *string `gorm:"column:device_model"`
	DeviceManufacturer    *string
	FingerprintConfidence *float64
	FingerprintDate       *int64
	IsFingerprinted       bool

	NeverFingerprint bool
}

func (DeviceModel) TableName() string { return "devices" }

type EventModel struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	Timestamp int64 `gorm:"index"`
	Kind      string
	Severity  string
	Message   string
	Details   string // opaque JSON blob
}

func (EventModel) TableName() string { return "events" }

type SpeedTestModel struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	Timestamp    int64 `gorm:"index"`
	DownloadMbps *float64
	UploadMbps   *float64
	PingMs       *float64
	ISP          string `gorm:"column:isp"`
	Server       string
	Error        *string
}

func (SpeedTestModel) TableName() string { return "speed_tests" }

type WebsiteCheckModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	URL           string `gorm:"column:url;index"`
	Timestamp     int64  `gorm:"index"`
	StatusCode    *int
	ResponseTimeS *float64 `gorm:"column:response_time_s"`
	IsUp          bool
	Error         *string
}

func (WebsiteCheckModel) TableName() string { return "website_checks" }

type SecurityScanModel struct {
	ID              int64 `gorm:"primaryKey;autoIncrement"`
	DeviceID        int64 `gorm:"index;not null"`
	Timestamp       int64 `gorm:"index"`
	OpenPorts       string  // JSON array of {port, protocol, service}
	Vulnerabilities *string // JSON, nullable

	Device DeviceModel `gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SecurityScanModel) TableName() string { return "security_scans" }
