// Package server assembles the control API: handlers, middleware, the
// websocket hub and the HTTP listener.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/avidal-labs/lanwarden/internal/adapters/reporting"
	"github.com/avidal-labs/lanwarden/internal/adapters/web/handlers"
	"github.com/avidal-labs/lanwarden/internal/adapters/web/websocket"
	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
)

// Deps carries everything the API surfaces. Optional fields may be nil;
// the affected endpoints degrade instead of panicking.
type Deps struct {
	Store      ports.Store
	Auth       ports.AuthService
	Config     func() *config.Config
	Engine     ports.FingerprintEngine
	Forcer     handlers.Forcer
	Auditor    handlers.PortAuditor
	Components handlers.ComponentReporter
	Cycles     handlers.CycleReporter
	OnConfig   func(*config.Config) error
	OnDestroy  func()
	Version    string
}

// Server is the control API listener.
type Server struct {
	addr string
	hub  *websocket.Hub
	log  zerolog.Logger

	deviceHandler     *handlers.DeviceHandler
	eventHandler      *handlers.EventHandler
	monitoringHandler *handlers.MonitoringHandler
	modulesHandler    *handlers.ModulesHandler
	settingsHandler   *handlers.SettingsHandler
	adminHandler      *handlers.AdminHandler
	statusHandler     *handlers.StatusHandler
	authHandler       *handlers.AuthHandler
	exportHandler     *handlers.ExportHandler
	auth              ports.AuthService

	srv *http.Server
}

func New(addr string, deps Deps) *Server {
	return &Server{
		addr: addr,
		hub:  websocket.NewHub(),
		log:  logging.WithComponent("web"),

		deviceHandler:     handlers.NewDeviceHandler(deps.Store, deps.Forcer, deps.Auditor),
		eventHandler:      handlers.NewEventHandler(deps.Store),
		monitoringHandler: handlers.NewMonitoringHandler(deps.Store, deps.Config),
		modulesHandler:    handlers.NewModulesHandler(deps.Config, deps.Engine),
		settingsHandler:   handlers.NewSettingsHandler(deps.Store, deps.Config, deps.OnConfig),
		adminHandler:      handlers.NewAdminHandler(deps.Store, deps.OnDestroy),
		statusHandler:     handlers.NewStatusHandler(deps.Store, deps.Config, deps.Components, deps.Cycles, deps.Version),
		authHandler:       handlers.NewAuthHandler(deps.Auth),
		exportHandler:     handlers.NewExportHandler(deps.Store, deps.Config, reporting.NewPDFExporter()),
		auth:              deps.Auth,
	}
}

// Hub exposes the live broadcaster so the alert bus can push to clients.
func (s *Server) Hub() *websocket.Hub { return s.hub }

// Run serves until ctx is cancelled, then drains with a short grace
// period.
func (s *Server) Run(ctx context.Context) error {
	handler := otelhttp.NewHandler(s.routes(), "lanwarden-api")

	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("control API shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error().Err(err).Msg("shutdown error")
		}
	}()

	s.log.Info().Str("addr", s.addr).Msg("control API listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
