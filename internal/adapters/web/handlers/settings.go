package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
)

// masked replaces stored secrets in API responses. A PUT that sends the
// mask back keeps the stored value.
const masked = "***"

// SettingsHandler reads and updates the runtime configuration. Updates go
// through apply, which persists the file and reconciles running
// components.
type SettingsHandler struct {
	store ports.Store
	cfg   func() *config.Config
	apply func(*config.Config) error
	log   zerolog.Logger
}

func NewSettingsHandler(store ports.Store, cfg func() *config.Config, apply func(*config.Config) error) *SettingsHandler {
	return &SettingsHandler{
		store: store,
		cfg:   cfg,
		apply: apply,
		log:   logging.WithComponent("api"),
	}
}

func (h *SettingsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, redactSecrets(*h.cfg()))
}

// HandleUpdate accepts a full or partial configuration document. Fields
// absent from the body keep their current values.
func (h *SettingsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	cur := h.cfg()
	next := *cur
	if !decodeJSON(w, r, &next) {
		return
	}
	next.Path, next.DBPath = cur.Path, cur.DBPath
	if next.Telegram.APIToken == masked {
		next.Telegram.APIToken = cur.Telegram.APIToken
	}
	if next.WebInterface.PasswordHash == masked {
		next.WebInterface.PasswordHash = cur.WebInterface.PasswordHash
	}

	if err := next.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.apply == nil {
		writeError(w, http.StatusServiceUnavailable, "settings updates not available")
		return
	}
	if err := h.apply(&next); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	details, _ := json.Marshal(map[string]string{"source": r.RemoteAddr})
	if err := h.store.AppendEvent(domain.EventUser, domain.SeverityInfo,
		"settings updated via API", details); err != nil {
		h.log.Error().Err(err).Msg("audit event failed")
	}
	writeJSON(w, http.StatusOK, redactSecrets(next))
}

func redactSecrets(c config.Config) config.Config {
	if c.Telegram.APIToken != "" {
		c.Telegram.APIToken = masked
	}
	if c.WebInterface.PasswordHash != "" {
		c.WebInterface.PasswordHash = masked
	}
	return c
}
