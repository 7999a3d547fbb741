package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	assert.False(t, cfg.General.Configured)
	assert.Equal(t, 60, cfg.General.ScanInterval)
	assert.True(t, cfg.Network.FallbackToARPScan)
	assert.Equal(t, 0.5, cfg.Fingerprinting.ConfidenceThreshold)
	assert.Equal(t, 10, cfg.Fingerprinting.MaxThreads)
	assert.Equal(t, 2*time.Second, cfg.Fingerprinting.ProbeTimeout())
	assert.Equal(t, 24*time.Hour, cfg.Fingerprinting.RescanInterval())
	assert.Equal(t, 3600, cfg.Monitoring.InternetHealth.Interval)
}

func TestLoadPartialFileKeepsExplicitValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"general": {"scan_interval": 120, "configured": true},
		"network": {"subnet": "192.168.1.0/24", "fallback_to_arp_scan": false},
		"fingerprinting": {"enabled": true, "confidence_threshold": 0.7}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.General.ScanInterval)
	assert.True(t, cfg.General.Configured)
	assert.Equal(t, "192.168.1.0/24", cfg.Network.Subnet)
	assert.False(t, cfg.Network.FallbackToARPScan, "explicit false must survive defaulting")
	assert.Equal(t, 0.7, cfg.Fingerprinting.ConfidenceThreshold)
	// Untouched sections still get defaults.
	assert.Equal(t, 10, cfg.Fingerprinting.MaxThreads)
	assert.Equal(t, 300, cfg.Monitoring.Websites.Interval)
}

func TestLoadRejectsBadSubnet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"network":{"subnet":"not-a-cidr"}}`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network.subnet")
}

func TestValidateTelegramNeedsToken(t *testing.T) {
	cfg := Default()
	cfg.Telegram.Enabled = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram")
}

func TestValidateThresholdRange(t *testing.T) {
	cfg := Default()
	cfg.Fingerprinting.ConfidenceThreshold = 1.5
	require.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Path = filepath.Join(dir, "config.json")
	cfg.Network.Subnet = "10.0.0.0/24"
	cfg.General.Configured = true
	cfg.Monitoring.Websites.URLs = []string{"https://example.com"}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(cfg.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(cfg.Path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Network.Subnet, loaded.Network.Subnet)
	assert.True(t, loaded.General.Configured)
	assert.Equal(t, []string{"https://example.com"}, loaded.Monitoring.Websites.URLs)
}

func TestResetClearsConfiguredFlag(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Path = filepath.Join(dir, "config.json")
	cfg.General.Configured = true
	cfg.Network.Subnet = "10.0.0.0/24"
	require.NoError(t, cfg.Save())

	require.NoError(t, cfg.Reset())
	assert.False(t, cfg.General.Configured)
	assert.Empty(t, cfg.Network.Subnet)

	loaded, err := Load(cfg.Path)
	require.NoError(t, err)
	assert.False(t, loaded.General.Configured)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LANWARDEN_SUBNET", "172.16.0.0/24")
	t.Setenv("LANWARDEN_HTTP_ADDR", "127.0.0.1:9999")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Equal(t, "172.16.0.0/24", cfg.Network.Subnet)
	assert.Equal(t, "127.0.0.1", cfg.WebInterface.Host)
	assert.Equal(t, 9999, cfg.WebInterface.Port)
	assert.Equal(t, "127.0.0.1:9999", cfg.WebInterface.HTTPAddr())
}
