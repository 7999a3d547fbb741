package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the on-disk JSON configuration. Zero values are replaced by
// defaults at load time, so a partial file is always valid.
type Config struct {
	General        General        `json:"general"`
	Network        Network        `json:"network"`
	Alerts         Alerts         `json:"alerts"`
	Telegram       Telegram       `json:"telegram"`
	Monitoring     Monitoring     `json:"monitoring"`
	Fingerprinting Fingerprinting `json:"fingerprinting"`
	WebInterface   WebInterface   `json:"web_interface"`

	// Runtime-only fields, never serialized.
	Path   string `json:"-"`
	DBPath string `json:"-"`
}

type General struct {
	ScanInterval int  `json:"scan_interval"` // seconds between scan cycles
	Configured   bool `json:"configured"`
	DebugLogging bool `json:"debug_logging"`
}

type Network struct {
	Subnet            string `json:"subnet"` // CIDR, e.g. "192.168.1.0/24"
	FallbackToARPScan bool   `json:"fallback_to_arp_scan"`
}

type Alerts struct {
	Enabled                bool    `json:"enabled"`
	NewDevice              bool    `json:"new_device"`
	DeviceOffline          bool    `json:"device_offline"`
	ImportantDeviceOffline bool    `json:"important_device_offline"`
	WebsiteError           bool    `json:"website_error"`
	SuspiciousPorts        bool    `json:"suspicious_ports"`
	LatencyThreshold       float64 `json:"latency_threshold"`        // ms, 0 disables the check
	DownloadSpeedThreshold float64 `json:"download_speed_threshold"` // Mbps, 0 disables
	UploadSpeedThreshold   float64 `json:"upload_speed_threshold"`   // Mbps, 0 disables
}

type Telegram struct {
	Enabled  bool   `json:"enabled"`
	APIToken string `json:"api_token"`
	ChatID   string `json:"chat_id"`
}

type Monitoring struct {
	InternetHealth MonitorToggle  `json:"internet_health"`
	Websites       WebsiteMonitor `json:"websites"`
	Security       MonitorToggle  `json:"security"`
}

type MonitorToggle struct {
	Enabled  bool `json:"enabled"`
	Interval int  `json:"interval"` // seconds
}

type WebsiteMonitor struct {
	Enabled  bool     `json:"enabled"`
	URLs     []string `json:"urls"`
	Interval int      `json:"interval"` // seconds
}

type Fingerprinting struct {
	Enabled             bool    `json:"enabled"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	MaxThreads          int     `json:"max_threads"`
	Timeout             int     `json:"timeout"`       // seconds per probe
	ScanInterval        int     `json:"scan_interval"` // seconds before re-fingerprinting
}

type WebInterface struct {
	Enabled      bool   `json:"enabled"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"` // sha256 hex or bcrypt
}

// Flags are the command line options of the single binary.
type Flags struct {
	ConfigPath   string
	Reset        bool
	ConsoleSetup bool
}

// ParseFlags reads the command line. Environment variables provide the
// defaults so containers can skip flags entirely.
func ParseFlags() Flags {
	var f Flags
	flag.StringVar(&f.ConfigPath, "config", getEnv("LANWARDEN_CONFIG", ""), "Path to config file")
	flag.BoolVar(&f.Reset, "reset", false, "Re-run initial configuration")
	flag.BoolVar(&f.ConsoleSetup, "console-setup", false, "Force console setup instead of the web wizard")
	flag.Parse()
	return f
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		General: General{
			ScanInterval: 60,
		},
		Network: Network{
			FallbackToARPScan: true,
		},
		Alerts: Alerts{
			Enabled:                true,
			NewDevice:              true,
			ImportantDeviceOffline: true,
			WebsiteError:           true,
			SuspiciousPorts:        true,
		},
		Monitoring: Monitoring{
			InternetHealth: MonitorToggle{Interval: 3600},
			Websites:       WebsiteMonitor{Interval: 300},
			Security:       MonitorToggle{Interval: 86400},
		},
		Fingerprinting: Fingerprinting{
			Enabled:             true,
			ConfidenceThreshold: 0.5,
			MaxThreads:          10,
			Timeout:             2,
			ScanInterval:        86400,
		},
		WebInterface: WebInterface{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8090,
		},
	}
}

// Load reads the JSON file at path (or the default location) over the
// defaults, then applies environment overrides. A missing file is not an
// error: it yields defaults with general.configured=false.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigPath()
	}

	cfg := Default()
	cfg.Path = path
	cfg.DBPath = getEnv("LANWARDEN_DB", defaultDBPath())

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		cfg.General.Configured = false
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.fillZeroes()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration back to its file with restrictive
// permissions (it may hold a Telegram token and a password hash).
func (c *Config) Save() error {
	if c.Path == "" {
		c.Path = defaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", c.Path, err)
	}
	return nil
}

// Validate reports configuration errors a user must fix. A blank subnet is
// allowed: the scanner logs and idles until one is configured.
func (c *Config) Validate() error {
	var errs []error

	if c.Network.Subnet != "" {
		if _, _, err := net.ParseCIDR(c.Network.Subnet); err != nil {
			errs = append(errs, fmt.Errorf("network.subnet %q is not a CIDR block", c.Network.Subnet))
		}
	}
	if c.General.ScanInterval <= 0 {
		errs = append(errs, errors.New("general.scan_interval must be positive"))
	}
	if t := c.Fingerprinting.ConfidenceThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("fingerprinting.confidence_threshold %v outside [0,1]", t))
	}
	if c.Fingerprinting.MaxThreads <= 0 {
		errs = append(errs, errors.New("fingerprinting.max_threads must be positive"))
	}
	if p := c.WebInterface.Port; c.WebInterface.Enabled && (p <= 0 || p > 65535) {
		errs = append(errs, fmt.Errorf("web_interface.port %d out of range", p))
	}
	for _, raw := range c.Monitoring.Websites.URLs {
		if _, err := url.ParseRequestURI(raw); err != nil {
			errs = append(errs, fmt.Errorf("monitoring.websites: invalid url %q", raw))
		}
	}
	if c.Telegram.Enabled && (c.Telegram.APIToken == "" || c.Telegram.ChatID == "") {
		errs = append(errs, errors.New("telegram enabled but api_token/chat_id missing"))
	}

	return errors.Join(errs...)
}

// Duration helpers keep the seconds-as-int JSON shape out of call sites.

func (g General) Interval() time.Duration        { return time.Duration(g.ScanInterval) * time.Second }
func (m MonitorToggle) Period() time.Duration    { return time.Duration(m.Interval) * time.Second }
func (w WebsiteMonitor) Period() time.Duration   { return time.Duration(w.Interval) * time.Second }
func (f Fingerprinting) ProbeTimeout() time.Duration {
	return time.Duration(f.Timeout) * time.Second
}
func (f Fingerprinting) RescanInterval() time.Duration {
	return time.Duration(f.ScanInterval) * time.Second
}

// HTTPAddr joins host and port for the control server listener.
func (w WebInterface) HTTPAddr() string {
	return net.JoinHostPort(w.Host, strconv.Itoa(w.Port))
}

// AuthConfigured reports whether the control API requires a login.
func (w WebInterface) AuthConfigured() bool {
	return w.Username != "" && w.PasswordHash != ""
}

func (c *Config) applyEnv() {
	if v := getEnv("LANWARDEN_SUBNET", ""); v != "" {
		c.Network.Subnet = v
	}
	if v := getEnv("LANWARDEN_HTTP_ADDR", ""); v != "" {
		if host, port, err := net.SplitHostPort(v); err == nil {
			c.WebInterface.Host = host
			if p, err := strconv.Atoi(port); err == nil {
				c.WebInterface.Port = p
			}
		}
	}
	if getEnvBool("LANWARDEN_DEBUG", false) {
		c.General.DebugLogging = true
	}
}

// fillZeroes restores defaults for fields a hand-edited file zeroed out.
func (c *Config) fillZeroes() {
	def := Default()
	if c.General.ScanInterval == 0 {
		c.General.ScanInterval = def.General.ScanInterval
	}
	if c.Monitoring.InternetHealth.Interval == 0 {
		c.Monitoring.InternetHealth.Interval = def.Monitoring.InternetHealth.Interval
	}
	if c.Monitoring.Websites.Interval == 0 {
		c.Monitoring.Websites.Interval = def.Monitoring.Websites.Interval
	}
	if c.Monitoring.Security.Interval == 0 {
		c.Monitoring.Security.Interval = def.Monitoring.Security.Interval
	}
	if c.Fingerprinting.ConfidenceThreshold == 0 {
		c.Fingerprinting.ConfidenceThreshold = def.Fingerprinting.ConfidenceThreshold
	}
	if c.Fingerprinting.MaxThreads == 0 {
		c.Fingerprinting.MaxThreads = def.Fingerprinting.MaxThreads
	}
	if c.Fingerprinting.Timeout == 0 {
		c.Fingerprinting.Timeout = def.Fingerprinting.Timeout
	}
	if c.Fingerprinting.ScanInterval == 0 {
		c.Fingerprinting.ScanInterval = def.Fingerprinting.ScanInterval
	}
	if c.WebInterface.Port == 0 {
		c.WebInterface.Port = def.WebInterface.Port
	}
	if c.WebInterface.Host == "" {
		c.WebInterface.Host = def.WebInterface.Host
	}
}

// Reset clears the configured flag and rewrites the file with defaults,
// keeping only the database location.
func (c *Config) Reset() error {
	fresh := Default()
	fresh.Path = c.Path
	fresh.DBPath = c.DBPath
	*c = *fresh
	return c.Save()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func defaultConfigPath() string {
	return filepath.Join(stateDir(), "config.json")
}

func defaultDBPath() string {
	return filepath.Join(stateDir(), "lanwarden.db")
}

// stateDir returns ~/.lanwarden, creating it if needed. Falls back to the
// working directory when the home directory is unavailable.
func stateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(home, ".lanwarden")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "."
	}
	return dir
}
