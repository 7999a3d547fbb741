package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
)

// ComponentReporter exposes which supervised components are running.
type ComponentReporter interface {
	Running() map[string]bool
}

// CycleReporter exposes the last completed scan cycle.
type CycleReporter interface {
	LastStats() *domain.CycleStats
}

// StatusHandler serves the aggregate /api/status snapshot.
type StatusHandler struct {
	store      ports.Store
	cfg        func() *config.Config
	components ComponentReporter
	cycles     CycleReporter
	started    time.Time
	version    string
}

func NewStatusHandler(store ports.Store, cfg func() *config.Config, components ComponentReporter, cycles CycleReporter, version string) *StatusHandler {
	return &StatusHandler{
		store:      store,
		cfg:        cfg,
		components: components,
		cycles:     cycles,
		started:    time.Now(),
		version:    version,
	}
}

func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status := domain.SystemStatus{
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Version:       h.version,
	}

	if n, err := h.store.CountDevices(); err == nil {
		status.DeviceCount = int(n)
	}
	if n, err := h.store.CountEvents(); err == nil {
		status.EventCount = int(n)
	}
	if devices, err := h.store.GetAllDevices(); err == nil {
		for _, d := range devices {
			if d.IsImportant {
				status.ImportantCount++
			}
		}
	}

	if h.components != nil {
		status.Components = h.components.Running()
	}
	if h.cycles != nil {
		status.LastCycle = h.cycles.LastStats()
	}
	if info, err := os.Stat(h.cfg().DBPath); err == nil {
		status.StoreSizeBytes = info.Size()
	}

	writeJSON(w, http.StatusOK, status)
}
