package handlers

import (
	"net/http"

	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
)

const defaultSampleLimit = 50

// MonitoringHandler serves the speed-test, website and security history
// endpoints.
type MonitoringHandler struct {
	store ports.Store
	cfg   func() *config.Config
}

func NewMonitoringHandler(store ports.Store, cfg func() *config.Config) *MonitoringHandler {
	return &MonitoringHandler{store: store, cfg: cfg}
}

func (h *MonitoringHandler) HandleSpeedTests(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultSampleLimit)
	samples, err := h.store.RecentSpeedSamples(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"samples": samples})
}

type websiteHistory struct {
	URL    string                `json:"url"`
	Checks []domain.WebsiteCheck `json:"checks"`
}

// HandleWebsites groups recent checks per configured URL so the dashboard
// can chart each site separately.
func (h *MonitoringHandler) HandleWebsites(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultSampleLimit)
	urls := h.cfg().Monitoring.Websites.URLs

	histories := make([]websiteHistory, 0, len(urls))
	for _, url := range urls {
		checks, err := h.store.WebsiteChecks(url, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		histories = append(histories, websiteHistory{URL: url, Checks: checks})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"websites": histories})
}

type deviceScans struct {
	MAC      string               `json:"mac_address"`
	Hostname string               `json:"hostname,omitempty"`
	IP       string               `json:"ip_address"`
	Latest   *domain.SecurityScan `json:"latest_scan,omitempty"`
}

// HandleSecurity returns the most recent port audit per device.
func (h *MonitoringHandler) HandleSecurity(w http.ResponseWriter, r *http.Request) {
	devices, err := h.store.GetAllDevices()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]deviceScans, 0, len(devices))
	for _, d := range devices {
		scan, err := h.store.LatestSecurityScan(d.MAC)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out = append(out, deviceScans{
			MAC:      d.MAC,
			Hostname: d.Hostname,
			IP:       d.IP,
			Latest:   scan,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"devices": out})
}
