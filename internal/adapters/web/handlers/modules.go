package handlers

import (
	"net/http"

	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
)

// ModulesHandler reports which subsystems are enabled and how many
// fingerprint signatures are loaded per device family.
type ModulesHandler struct {
	cfg    func() *config.Config
	engine ports.FingerprintEngine
}

func NewModulesHandler(cfg func() *config.Config, engine ports.FingerprintEngine) *ModulesHandler {
	return &ModulesHandler{cfg: cfg, engine: engine}
}

type moduleInfo struct {
	Enabled  bool `json:"enabled"`
	Interval int  `json:"interval_seconds,omitempty"`
}

type fingerprintInfo struct {
	Enabled             bool           `json:"enabled"`
	ConfidenceThreshold float64        `json:"confidence_threshold"`
	SignatureCount      int            `json:"signature_count"`
	Families            map[string]int `json:"families"`
}

func (h *ModulesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	cfg := h.cfg()

	fp := fingerprintInfo{
		Enabled:             cfg.Fingerprinting.Enabled,
		ConfidenceThreshold: cfg.Fingerprinting.ConfidenceThreshold,
	}
	if h.engine != nil {
		fp.SignatureCount = h.engine.SignatureCount()
		fp.Families = h.engine.Families()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scanner": moduleInfo{Enabled: true, Interval: cfg.General.ScanInterval},
		"internet_health": moduleInfo{
			Enabled:  cfg.Monitoring.InternetHealth.Enabled,
			Interval: cfg.Monitoring.InternetHealth.Interval,
		},
		"websites": moduleInfo{
			Enabled:  cfg.Monitoring.Websites.Enabled,
			Interval: cfg.Monitoring.Websites.Interval,
		},
		"security": moduleInfo{
			Enabled:  cfg.Monitoring.Security.Enabled,
			Interval: cfg.Monitoring.Security.Interval,
		},
		"fingerprinting": fp,
		"telegram":       moduleInfo{Enabled: cfg.Telegram.Enabled},
	})
}
