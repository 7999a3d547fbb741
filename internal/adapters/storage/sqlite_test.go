package storage

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "lanwarden.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func strPtr(s string) *string { return &s }

func TestUpsertDeviceInsert(t *testing.T) {
	store := newTestStore(t)

	id, err := store.UpsertDevice("b4:fb:e4:aa:bb:cc", "192.168.1.50", domain.DeviceUpdate{
		Hostname: strPtr("office-ap"),
		Vendor:   strPtr("Ubiquiti Inc"),
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	dev, err := store.GetDevice("b4:fb:e4:aa:bb:cc")
	require.NoError(t, err)
	assert.Equal(t, "b4:fb:e4:aa:bb:cc", dev.MAC)
	assert.Equal(t, "192.168.1.50", dev.IP)
	assert.Equal(t, "office-ap", dev.Hostname)
	assert.Equal(t, "Ubiquiti Inc", dev.Vendor)
	assert.Equal(t, dev.FirstSeen.Unix(), dev.LastSeen.Unix())
	assert.False(t, dev.IsFingerprinted)
	assert.True(t, dev.FingerprintDate.IsZero())
}

func TestUpsertDeviceNormalizesMAC(t *testing.T) {
	store := newTestStore(t)

	_, err := store.UpsertDevice("B4-FB-E4-AA-BB-CC", "10.0.0.2", domain.DeviceUpdate{})
	require.NoError(t, err)

	dev, err := store.GetDevice("b4:fb:e4:aa:bb:cc")
	require.NoError(t, err)
	assert.Equal(t, "b4:fb:e4:aa:bb:cc", dev.MAC)

	_, err = store.UpsertDevice("not-a-mac", "10.0.0.3", domain.DeviceUpdate{})
	assert.Error(t, err)
}

func TestUpsertDevicePatchRules(t *testing.T) {
	store := newTestStore(t)
	mac := "aa:bb:cc:dd:ee:01"

	_, err := store.UpsertDevice(mac, "192.168.1.10", domain.DeviceUpdate{
		Hostname: strPtr("nas.local"),
		Vendor:   strPtr("Synology Inc"),
	})
	require.NoError(t, err)

	// Second sighting with a new IP and conflicting hostname/vendor.
	_, err = store.UpsertDevice(mac, "192.168.1.99", domain.DeviceUpdate{
		Hostname: strPtr("other-name"),
		Vendor:   strPtr("Different Vendor"),
	})
	require.NoError(t, err)

	dev, err := store.GetDevice(mac)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.99", dev.IP, "IP always follows the latest sighting")
	assert.Equal(t, "nas.local", dev.Hostname, "stored hostname survives")
	assert.Equal(t, "Synology Inc", dev.Vendor, "stored vendor survives a conflicting value")
}

func TestUpsertDeviceFillsEmptyFields(t *testing.T) {
	store := newTestStore(t)
	mac := "aa:bb:cc:dd:ee:02"

	_, err := store.UpsertDevice(mac, "192.168.1.11", domain.DeviceUpdate{})
	require.NoError(t, err)

	_, err = store.UpsertDevice(mac, "192.168.1.11", domain.DeviceUpdate{
		Hostname: strPtr("printer.lan"),
		Vendor:   strPtr("Brother Industries"),
	})
	require.NoError(t, err)

	dev, err := store.GetDevice(mac)
	require.NoError(t, err)
	assert.Equal(t, "printer.lan", dev.Hostname)
	assert.Equal(t, "Brother Industries", dev.Vendor)
}

func TestUpsertDeviceLastSeenMonotonic(t *testing.T) {
	store := newTestStore(t)
	mac := "aa:bb:cc:dd:ee:03"

	_, err := store.UpsertDevice(mac, "10.0.0.5", domain.DeviceUpdate{})
	require.NoError(t, err)

	// Force a stored last_seen in the future and re-sight: the value must
	// not move backwards even if the wall clock says otherwise.
	future := time.Now().Add(time.Hour).Unix()
	require.NoError(t, store.db.Model(&DeviceModel{}).
		Where("mac_address = ?", mac).
		Update("last_seen", future).Error)

	_, err = store.UpsertDevice(mac, "10.0.0.5", domain.DeviceUpdate{})
	require.NoError(t, err)

	dev, err := store.GetDevice(mac)
	require.NoError(t, err)
	assert.Equal(t, future, dev.LastSeen.Unix())
}

func TestFingerprintRoundTrip(t *testing.T) {
	store := newTestStore(t)
	mac := "24:5e:be:11:22:33"

	_, err := store.UpsertDevice(mac, "192.168.1.20", domain.DeviceUpdate{})
	require.NoError(t, err)

	when := time.Now()
	err = store.UpdateDeviceMetadata(mac, domain.FingerprintResult{
		DeviceType:   "nas",
		Model:        "DiskStation",
		Manufacturer: "Synology",
		Confidence:   0.85,
		Date:         when,
	})
	require.NoError(t, err)

	dev, err := store.GetDevice(mac)
	require.NoError(t, err)
	assert.Equal(t, "nas", dev.DeviceType)
	assert.Equal(t, "DiskStation", dev.DeviceModel)
	assert.Equal(t, "Synology", dev.DeviceManufacturer)
	assert.InDelta(t, 0.85, dev.FingerprintConfidence, 1e-9)
	assert.Equal(t, when.Unix(), dev.FingerprintDate.Unix())
	assert.True(t, dev.IsFingerprinted)

	// Clearing nulls everything and resets the flag.
	require.NoError(t, store.ClearDeviceFingerprint(mac))

	dev, err = store.GetDevice(mac)
	require.NoError(t, err)
	assert.Empty(t, dev.DeviceType)
	assert.Empty(t, dev.DeviceModel)
	assert.Empty(t, dev.DeviceManufacturer)
	assert.Zero(t, dev.FingerprintConfidence)
	assert.True(t, dev.FingerprintDate.IsZero())
	assert.False(t, dev.IsFingerprinted)
}

func TestUpdateMetadataKeepsModelOnBlank(t *testing.T) {
	store := newTestStore(t)
	mac := "24:5e:be:11:22:44"

	_, err := store.UpsertDevice(mac, "192.168.1.21", domain.DeviceUpdate{})
	require.NoError(t, err)

	require.NoError(t, store.UpdateDeviceMetadata(mac, domain.FingerprintResult{
		DeviceType: "camera", Model: "Doorbell", Manufacturer: "Ring",
		Confidence: 0.8, Date: time.Now(),
	}))
	require.NoError(t, store.UpdateDeviceMetadata(mac, domain.FingerprintResult{
		DeviceType: "camera", Confidence: 0.6, Date: time.Now(),
	}))

	dev, err := store.GetDevice(mac)
	require.NoError(t, err)
	assert.Equal(t, "Doorbell", dev.DeviceModel)
	assert.Equal(t, "Ring", dev.DeviceManufacturer)
	assert.InDelta(t, 0.6, dev.FingerprintConfidence, 1e-9)
}

func TestDeviceFlagsAndNotFound(t *testing.T) {
	store := newTestStore(t)
	mac := "aa:bb:cc:00:00:01"

	_, err := store.UpsertDevice(mac, "10.0.0.9", domain.DeviceUpdate{})
	require.NoError(t, err)

	require.NoError(t, store.MarkImportant(mac, true))
	require.NoError(t, store.SetNeverFingerprint(mac, true))

	dev, err := store.GetDevice(mac)
	require.NoError(t, err)
	assert.True(t, dev.IsImportant)
	assert.True(t, dev.NeverFingerprint)

	assert.ErrorIs(t, store.MarkImportant("ff:ff:ff:ff:ff:fe", true), ErrDeviceNotFound)
	assert.ErrorIs(t, store.ClearDeviceFingerprint("ff:ff:ff:ff:ff:fe"), ErrDeviceNotFound)
	_, err = store.GetDevice("ff:ff:ff:ff:ff:fe")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestUpdateDeviceUserFields(t *testing.T) {
	store := newTestStore(t)
	mac := "aa:bb:cc:00:00:02"

	_, err := store.UpsertDevice(mac, "10.0.0.10", domain.DeviceUpdate{
		Hostname: strPtr("old-name"),
	})
	require.NoError(t, err)

	// User edits can overwrite scanner values; nil leaves fields alone.
	require.NoError(t, store.UpdateDeviceUserFields(mac, strPtr("living-room-tv"), nil, strPtr("wall mounted")))

	dev, err := store.GetDevice(mac)
	require.NoError(t, err)
	assert.Equal(t, "living-room-tv", dev.Hostname)
	assert.Equal(t, "wall mounted", dev.Notes)
	assert.Empty(t, dev.Vendor)
}

func TestGetAllDevicesOrder(t *testing.T) {
	store := newTestStore(t)

	for i, mac := range []string{"aa:00:00:00:00:01", "aa:00:00:00:00:02", "aa:00:00:00:00:03"} {
		_, err := store.UpsertDevice(mac, "10.0.0.1", domain.DeviceUpdate{})
		require.NoError(t, err)
		require.NoError(t, store.db.Model(&DeviceModel{}).
			Where("mac_address = ?", mac).
			Update("last_seen", int64(1000+i)).Error)
	}

	devices, err := store.GetAllDevices()
	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, "aa:00:00:00:00:03", devices[0].MAC)
	assert.Equal(t, "aa:00:00:00:00:01", devices[2].MAC)

	n, err := store.CountDevices()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestEventsFiltering(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AppendEvent(domain.EventDeviceDetected, domain.SeverityInfo, "new device aa:bb", nil))
	require.NoError(t, store.AppendEvent(domain.EventAlert, domain.SeverityWarning, "device offline", nil))
	require.NoError(t, store.AppendEvent(domain.EventDeviceOffline, domain.SeverityWarning, "bb:cc gone", json.RawMessage(`{"mac":"bb:cc"}`)))

	// Default view hides raw alert rows.
	events, err := store.RecentEvents(10, domain.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventDeviceOffline, events[0].Kind)

	// Explicit kind filter returns only that kind, alerts included.
	alerts, err := store.RecentEvents(10, domain.EventFilter{Kind: domain.EventAlert})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "device offline", alerts[0].Message)

	warnings, err := store.RecentEvents(10, domain.EventFilter{Severity: domain.SeverityWarning, IncludeAlerts: true})
	require.NoError(t, err)
	assert.Len(t, warnings, 2)

	n, err := store.CountEvents()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestSpeedSamples(t *testing.T) {
	store := newTestStore(t)

	down, up, ping := 512.3, 48.7, 11.2
	require.NoError(t, store.AppendSpeedSample(domain.SpeedSample{
		Timestamp:    time.Now(),
		DownloadMbps: &down,
		UploadMbps:   &up,
		PingMs:       &ping,
		ISP:          "Example ISP",
		Server:       "Amsterdam",
	}))
	require.NoError(t, store.AppendSpeedSample(domain.SpeedSample{
		Timestamp: time.Now(),
		Error:     "speedtest-cli timed out",
	}))

	samples, err := store.RecentSpeedSamples(10)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	var ok, failed int
	for _, s := range samples {
		if s.Failed() {
			failed++
			assert.Nil(t, s.DownloadMbps)
		} else {
			ok++
			require.NotNil(t, s.DownloadMbps)
			assert.InDelta(t, 512.3, *s.DownloadMbps, 1e-9)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)
}

func TestWebsiteChecks(t *testing.T) {
	store := newTestStore(t)

	status := 200
	rt := 0.123
	require.NoError(t, store.AppendWebsiteCheck(domain.WebsiteCheck{
		URL: "https://example.org", Timestamp: time.Now(),
		StatusCode: &status, ResponseTime: &rt, IsUp: true,
	}))
	require.NoError(t, store.AppendWebsiteCheck(domain.WebsiteCheck{
		URL: "https://down.example.org", Timestamp: time.Now(),
		IsUp: false, Error: "connection refused",
	}))

	checks, err := store.WebsiteChecks("https://example.org", 10)
	require.NoError(t, err)
	require.Len(t, checks, 1)
	assert.True(t, checks[0].IsUp)
	require.NotNil(t, checks[0].StatusCode)
	assert.Equal(t, 200, *checks[0].StatusCode)

	all, err := store.WebsiteChecks("", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSecurityScans(t *testing.T) {
	store := newTestStore(t)
	mac := "aa:bb:cc:dd:ee:99"

	id, err := store.UpsertDevice(mac, "192.168.1.77", domain.DeviceUpdate{})
	require.NoError(t, err)

	scan := domain.SecurityScan{
		DeviceID:  id,
		Timestamp: time.Now(),
		OpenPorts: []domain.PortInfo{
			{Port: 23, Protocol: "tcp", Service: "telnet"},
			{Port: 80, Protocol: "tcp", Service: "http"},
		},
		Vulnerabilities: []domain.SecurityFinding{
			{Port: 23, Service: "telnet", Reason: "insecure service: telnet", Severity: "warning"},
		},
	}
	require.NoError(t, store.AppendSecurityScan(scan))

	latest, err := store.LatestSecurityScan(mac)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, id, latest.DeviceID)
	require.Len(t, latest.OpenPorts, 2)
	assert.Equal(t, 23, latest.OpenPorts[0].Port)
	require.Len(t, latest.Vulnerabilities, 1)
	assert.Equal(t, "insecure service: telnet", latest.Vulnerabilities[0].Reason)

	scans, err := store.SecurityScans(id, 10)
	require.NoError(t, err)
	assert.Len(t, scans, 1)

	// Device without scans yields nil, not an error.
	_, err = store.UpsertDevice("aa:bb:cc:dd:ee:98", "192.168.1.78", domain.DeviceUpdate{})
	require.NoError(t, err)
	latest, err = store.LatestSecurityScan("aa:bb:cc:dd:ee:98")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestWipeDevices(t *testing.T) {
	store := newTestStore(t)

	id, err := store.UpsertDevice("aa:bb:cc:dd:ee:55", "192.168.1.5", domain.DeviceUpdate{})
	require.NoError(t, err)
	require.NoError(t, store.AppendEvent(domain.EventSystem, domain.SeverityInfo, "startup", nil))
	require.NoError(t, store.AppendSecurityScan(domain.SecurityScan{DeviceID: id, Timestamp: time.Now()}))

	require.NoError(t, store.WipeDevices())

	n, err := store.CountDevices()
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = store.CountEvents()
	require.NoError(t, err)
	assert.Zero(t, n)
	scans, err := store.SecurityScans(0, 10)
	require.NoError(t, err)
	assert.Empty(t, scans)
}

func TestStoreSetsSQLitePragmas(t *testing.T) {
	store := newTestStore(t)

	var mode string
	require.NoError(t, store.db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", strings.ToLower(mode))

	var timeout int
	require.NoError(t, store.db.Raw("PRAGMA busy_timeout").Scan(&timeout).Error)
	assert.Equal(t, 5000, timeout)
}
