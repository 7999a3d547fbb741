// Package app wires the components together: store, alert bus, discovery,
// fingerprinting, scanner, monitors, supervisor and the control API.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/adapters/alert"
	"github.com/avidal-labs/lanwarden/internal/adapters/discovery"
	"github.com/avidal-labs/lanwarden/internal/adapters/fingerprint"
	"github.com/avidal-labs/lanwarden/internal/adapters/fingerprint/signatures"
	"github.com/avidal-labs/lanwarden/internal/adapters/monitor"
	"github.com/avidal-labs/lanwarden/internal/adapters/probe"
	"github.com/avidal-labs/lanwarden/internal/adapters/storage"
	webauth "github.com/avidal-labs/lanwarden/internal/adapters/web/auth"
	"github.com/avidal-labs/lanwarden/internal/adapters/web/server"
	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/core/services/scanner"
	"github.com/avidal-labs/lanwarden/internal/core/services/supervisor"
	"github.com/avidal-labs/lanwarden/internal/logging"
	"github.com/avidal-labs/lanwarden/internal/telemetry"
)

// Version is stamped by the build; the default marks dev builds.
var Version = "dev"

// App owns every long-lived component and their shared configuration.
type App struct {
	log zerolog.Logger

	mu  sync.RWMutex
	cfg *config.Config

	store         *storage.SQLiteStore
	bus           *alert.Bus
	engine        *fingerprint.Engine
	probes        *probe.Set
	fingerprinter *fingerprint.Scanner
	scanner       *scanner.Scanner
	security      *monitor.SecurityMonitor
	supervisor    *supervisor.Supervisor
	web           *server.Server

	// shutdown cancels the root context; the destroy endpoint uses it.
	shutdown context.CancelFunc
}

// New builds the full component graph. Nothing runs until Run.
func New(ctx context.Context, cfg *config.Config, shutdown context.CancelFunc) (*App, error) {
	a := &App{
		log:      logging.WithComponent("app"),
		cfg:      cfg,
		shutdown: shutdown,
	}

	telemetry.InitMetrics()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.store = store
	live := &liveEvents{Store: store}

	a.bus = alert.NewBus(store, cfg.Alerts.Enabled)
	a.bus.SetTelegram(cfg.Telegram.Enabled, cfg.Telegram.APIToken, cfg.Telegram.ChatID)

	a.engine = fingerprint.NewEngine(signatures.All())
	a.probes = probe.NewSet(
		probe.WithTimeout(cfg.Fingerprinting.ProbeTimeout()),
		probe.WithWorkers(cfg.Fingerprinting.MaxThreads),
		probe.WithContentIndicators(a.engine.ContentIndicators()),
	)
	a.fingerprinter = fingerprint.NewScanner(a.engine, a.probes, cfg.Fingerprinting.MaxThreads)

	discoverer := discovery.New(cfg.Network.FallbackToARPScan)
	a.scanner = scanner.New(live, discoverer, a.fingerprinter, a.bus, cfg)

	speed := monitor.NewSpeedMonitor(live, a.bus, a.Config)
	websites := monitor.NewWebsiteMonitor(live, a.bus, a.Config)
	a.security = monitor.NewSecurityMonitor(live, a.bus, a.Config)

	a.supervisor = supervisor.New(ctx)
	a.supervisor.Register(supervisor.Component{
		Name: "scanner",
		Run:  a.scanner.Run,
		RestartOn: func(old, new *config.Config) bool {
			return old.Fingerprinting.Enabled != new.Fingerprinting.Enabled
		},
	})
	a.supervisor.Register(supervisor.Component{
		Name:    "speedtest",
		Run:     speed.Run,
		Enabled: func(c *config.Config) bool { return c.Monitoring.InternetHealth.Enabled },
	})
	a.supervisor.Register(supervisor.Component{
		Name:    "websites",
		Run:     websites.Run,
		Enabled: func(c *config.Config) bool { return c.Monitoring.Websites.Enabled },
	})
	a.supervisor.Register(supervisor.Component{
		Name:    "security",
		Run:     a.security.Run,
		Enabled: func(c *config.Config) bool { return c.Monitoring.Security.Enabled },
	})

	if cfg.WebInterface.Enabled {
		a.web = server.New(cfg.WebInterface.HTTPAddr(), server.Deps{
			Store:      live,
			Auth:       webauth.New(a.Config),
			Config:     a.Config,
			Engine:     a.engine,
			Forcer:     a.scanner,
			Auditor:    a.security,
			Components: a.supervisor,
			Cycles:     a.scanner,
			OnConfig:   a.saveAndApply,
			OnDestroy:  a.destroyed,
			Version:    Version,
		})
		a.bus.SetBroadcaster(a.web.Hub())
		live.SetBroadcaster(a.web.Hub())
	}

	return a, nil
}

// Config returns the current configuration snapshot. Monitors hold this
// function so settings changes apply on their next cycle.
func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// ApplyConfig installs a new configuration and reconciles the running
// components against it.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	a.scanner.UpdateConfig(cfg)
	a.bus.SetEnabled(cfg.Alerts.Enabled)
	a.bus.SetTelegram(cfg.Telegram.Enabled, cfg.Telegram.APIToken, cfg.Telegram.ChatID)
	a.probes.Configure(cfg.Fingerprinting.ProbeTimeout(), cfg.Fingerprinting.MaxThreads)
	a.fingerprinter.SetWorkers(cfg.Fingerprinting.MaxThreads)
	a.supervisor.Reconcile(cfg)
}

// saveAndApply persists a settings change and reconciles against it. The
// settings endpoint uses it; nothing is applied when the write fails.
func (a *App) saveAndApply(cfg *config.Config) error {
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	a.ApplyConfig(cfg)
	return nil
}

// Run starts everything and blocks until ctx is cancelled or the control
// API fails.
func (a *App) Run(ctx context.Context) error {
	a.log.Info().
		Int("signatures", a.engine.SignatureCount()).
		Str("subnet", a.Config().Network.Subnet).
		Msg("starting components")

	a.supervisor.Reconcile(a.Config())

	var webErr chan error
	if a.web != nil {
		webErr = make(chan error, 1)
		go func() { webErr <- a.web.Run(ctx) }()
	}

	select {
	case <-ctx.Done():
	case err := <-webErr:
		if err != nil {
			return fmt.Errorf("control API: %w", err)
		}
	}

	a.supervisor.Shutdown()
	if err := a.store.Close(); err != nil {
		a.log.Error().Err(err).Msg("store close failed")
	}
	return nil
}

// destroyed runs after the admin destroy endpoint removed the database:
// nothing useful can continue, so stop the process.
func (a *App) destroyed() {
	a.log.Warn().Msg("store destroyed, shutting down")
	a.shutdown()
}
