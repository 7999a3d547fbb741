package storage

import (
	"testing"
	"time"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

func TestToDeviceDomainNullFingerprint(t *testing.T) {
	model := DeviceModel{
		ID:         7,
		MACAddress: "aa:bb:cc:dd:ee:ff",
		IPAddress:  "192.168.1.5",
		Hostname:   "printer.lan",
		Vendor:     "Brother Industries",
		FirstSeen:  1700000000,
		LastSeen:   1700003600,
	}

	dev := toDeviceDomain(model)

	if dev.DeviceType != "" || dev.DeviceModel != "" || dev.DeviceManufacturer != "" {
		t.Errorf("null fingerprint columns must map to empty strings, got %q/%q/%q",
			dev.DeviceType, dev.DeviceModel, dev.DeviceManufacturer)
	}
	if dev.FingerprintConfidence != 0 {
		t.Errorf("null confidence must map to 0, got %f", dev.FingerprintConfidence)
	}
	if !dev.FingerprintDate.IsZero() {
		t.Errorf("null fingerprint date must map to zero time, got %v", dev.FingerprintDate)
	}
	if dev.FirstSeen.Unix() != 1700000000 || dev.LastSeen.Unix() != 1700003600 {
		t.Errorf("epoch mapping wrong: %v / %v", dev.FirstSeen.Unix(), dev.LastSeen.Unix())
	}
}

func TestToDeviceDomainFullFingerprint(t *testing.T) {
	dtype, dmodel, dmanu := "nas", "DiskStation", "Synology"
	conf := 0.85
	date := int64(1700007200)

	model := DeviceModel{
		MACAddress:            "00:11:32:aa:bb:cc",
		DeviceType:            &dtype,
		DeviceModel:           &dmodel,
		DeviceManufacturer:    &dmanu,
		FingerprintConfidence: &conf,
		FingerprintDate:       &date,
		IsFingerprinted:       true,
	}

	dev := toDeviceDomain(model)

	if dev.DeviceType != "nas" || dev.DeviceModel != "DiskStation" || dev.DeviceManufacturer != "Synology" {
		t.Errorf("fingerprint fields not mapped: %+v", dev)
	}
	if dev.FingerprintDate.Unix() != date {
		t.Errorf("fingerprint date mismatch: got %d want %d", dev.FingerprintDate.Unix(), date)
	}
	if !dev.IsFingerprinted {
		t.Errorf("flag not mapped")
	}
}

func TestSpeedConverterFailedSample(t *testing.T) {
	down := 100.0
	sample := domain.SpeedSample{
		Timestamp:    time.Unix(1700000000, 0),
		DownloadMbps: &down,
		Error:        "timed out",
	}

	model := toSpeedModel(sample)
	if model.DownloadMbps != nil {
		t.Errorf("failed sample must store null metrics, got %v", *model.DownloadMbps)
	}
	if model.Error == nil || *model.Error != "timed out" {
		t.Errorf("error text not stored")
	}

	back := toSpeedDomain(model)
	if !back.Failed() {
		t.Errorf("round-tripped sample should report failure")
	}
}

func TestSecurityConverterRoundTrip(t *testing.T) {
	scan := domain.SecurityScan{
		DeviceID:  3,
		Timestamp: time.Unix(1700000000, 0),
		OpenPorts: []domain.PortInfo{{Port: 22, Protocol: "tcp", Service: "ssh"}},
		Vulnerabilities: []domain.SecurityFinding{
			{Port: 22, Service: "ssh", Reason: "remote access port open: 22 (SSH)", Severity: "warning"},
		},
	}

	model, err := toSecurityModel(scan)
	if err != nil {
		t.Fatalf("to model: %v", err)
	}
	back, err := toSecurityDomain(model)
	if err != nil {
		t.Fatalf("to domain: %v", err)
	}

	if len(back.OpenPorts) != 1 || back.OpenPorts[0].Port != 22 {
		t.Errorf("open ports lost in round trip: %+v", back.OpenPorts)
	}
	if len(back.Vulnerabilities) != 1 || back.Vulnerabilities[0].Reason != scan.Vulnerabilities[0].Reason {
		t.Errorf("vulnerabilities lost in round trip: %+v", back.Vulnerabilities)
	}
}

func TestSecurityConverterNoVulnerabilities(t *testing.T) {
	scan := domain.SecurityScan{
		DeviceID:  4,
		Timestamp: time.Unix(1700000000, 0),
		OpenPorts: []domain.PortInfo{{Port: 80, Protocol: "tcp", Service: "http"}},
	}

	model, err := toSecurityModel(scan)
	if err != nil {
		t.Fatalf("to model: %v", err)
	}
	if model.Vulnerabilities != nil {
		t.Errorf("clean scan should store null vulnerabilities")
	}

	back, err := toSecurityDomain(model)
	if err != nil {
		t.Fatalf("to domain: %v", err)
	}
	if len(back.Vulnerabilities) != 0 {
		t.Errorf("expected no vulnerabilities, got %+v", back.Vulnerabilities)
	}
}
