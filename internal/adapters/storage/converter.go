package storage

import (
	"encoding/json"
	"time"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

// toDeviceDomain converts a database row to the domain entity.
func toDeviceDomain(m DeviceModel) *domain.Device {
	d := &domain.Device{
		ID:               m.ID,
		MAC:              m.MACAddress,
		IP:               m.IPAddress,
		Hostname:         m.Hostname,
		Vendor:           m.Vendor,
		FirstSeen:        time.Unix(m.FirstSeen, 0),
		LastSeen:         time.Unix(m.LastSeen, 0),
		IsImportant:      m.IsImportant,
		Notes:            m.Notes,
		IsFingerprinted:  m.IsFingerprinted,
		NeverFingerprint: m.NeverFingerprint,
	}

	if m.DeviceType != nil {
		d.DeviceType = *m.DeviceType
	}
	if m.DeviceModel != nil {
		d.DeviceModel = *m.DeviceModel
	}
	if m.DeviceManufacturer != nil {
		d.DeviceManufacturer = *m.DeviceManufacturer
	}
	if m.FingerprintConfidence != nil {
		d.FingerprintConfidence = *m.FingerprintConfidence
	}
	if m.FingerprintDate != nil && *m.FingerprintDate > 0 {
		d.FingerprintDate = time.Unix(*m.FingerprintDate, 0)
	}

	return d
}

func toEventDomain(m EventModel) domain.Event {
	e := domain.Event{
		ID:        m.ID,
		Timestamp: time.Unix(m.Timestamp, 0),
		Kind:      domain.EventKind(m.Kind),
		Severity:  domain.Severity(m.Severity),
		Message:   m.Message,
	}
	if m.Details != "" {
		e.Details = json.RawMessage(m.Details)
	}
	return e
}

func toSpeedDomain(m SpeedTestModel) domain.SpeedSample {
	s := domain.SpeedSample{
		ID:           m.ID,
		Timestamp:    time.Unix(m.Timestamp, 0),
		DownloadMbps: m.DownloadMbps,
		UploadMbps:   m.UploadMbps,
		PingMs:       m.PingMs,
		ISP:          m.ISP,
		Server:       m.Server,
	}
	if m.Error != nil {
		s.Error = *m.Error
	}
	return s
}

func toSpeedModel(s domain.SpeedSample) SpeedTestModel {
	m := SpeedTestModel{
		Timestamp:    s.Timestamp.Unix(),
		DownloadMbps: s.DownloadMbps,
		UploadMbps:   s.UploadMbps,
		PingMs:       s.PingMs,
		ISP:          s.ISP,
		Server:       s.Server,
	}
	if s.Error != "" {
		err := s.Error
		m.Error = &err
		// A failed sample never carries metrics.
		m.DownloadMbps, m.UploadMbps, m.PingMs = nil, nil, nil
	}
	return m
}

func toWebsiteDomain(m WebsiteCheckModel) domain.WebsiteCheck {
	c := domain.WebsiteCheck{
		ID:           m.ID,
		URL:          m.URL,
		Timestamp:    time.Unix(m.Timestamp, 0),
		StatusCode:   m.StatusCode,
		ResponseTime: m.ResponseTimeS,
		IsUp:         m.IsUp,
	}
	if m.Error != nil {
		c.Error = *m.Error
	}
	return c
}

func toWebsiteModel(c domain.WebsiteCheck) WebsiteCheckModel {
	m := WebsiteCheckModel{
		URL:           c.URL,
		Timestamp:     c.Timestamp.Unix(),
		StatusCode:    c.StatusCode,
		ResponseTimeS: c.ResponseTime,
		IsUp:          c.IsUp,
	}
	if c.Error != "" {
		err := c.Error
		m.Error = &err
	}
	return m
}

func toSecurityDomain(m SecurityScanModel) (domain.SecurityScan, error) {
	s := domain.SecurityScan{
		ID:        m.ID,
		DeviceID:  m.DeviceID,
		Timestamp: time.Unix(m.Timestamp, 0),
	}
	if m.OpenPorts != "" {
		if err := json.Unmarshal([]byte(m.OpenPorts), &s.OpenPorts); err != nil {
			return s, err
		}
	}
	if m.Vulnerabilities != nil && *m.Vulnerabilities != "" {
		if err := json.Unmarshal([]byte(*m.Vulnerabilities), &s.Vulnerabilities); err != nil {
			return s, err
		}
	}
	return s, nil
}

func toSecurityModel(s domain.SecurityScan) (SecurityScanModel, error) {
	ports, err := json.Marshal(s.OpenPorts)
	if err != nil {
		return SecurityScanModel{}, err
	}
	m := SecurityScanModel{
		DeviceID:  s.DeviceID,
		Timestamp: s.Timestamp.Unix(),
		OpenPorts: string(ports),
	}
	if len(s.Vulnerabilities) > 0 {
		vulns, err := json.Marshal(s.Vulnerabilities)
		if err != nil {
			return SecurityScanModel{}, err
		}
		v := string(vulns)
		m.Vulnerabilities = &v
	}
	return m, nil
}
