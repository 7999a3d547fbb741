package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
)

// AdminHandler serves the destructive endpoints. Both require an explicit
// confirmation in the body so a stray POST cannot erase the inventory.
type AdminHandler struct {
	store ports.Store
	// onDestroy is called after the store is gone; the app uses it to
	// shut the process down.
	onDestroy func()
	log       zerolog.Logger
}

func NewAdminHandler(store ports.Store, onDestroy func()) *AdminHandler {
	return &AdminHandler{
		store:     store,
		onDestroy: onDestroy,
		log:       logging.WithComponent("api"),
	}
}

type confirmRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *AdminHandler) confirmed(w http.ResponseWriter, r *http.Request) bool {
	var req confirmRequest
	if !decodeJSON(w, r, &req) {
		return false
	}
	if !req.Confirm {
		writeError(w, http.StatusBadRequest, "confirmation required: send {\"confirm\": true}")
		return false
	}
	return true
}

// HandleWipe deletes every device and all dependent history, keeping the
// store itself usable.
func (h *AdminHandler) HandleWipe(w http.ResponseWriter, r *http.Request) {
	if !h.confirmed(w, r) {
		return
	}
	if err := h.store.WipeDevices(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	details, _ := json.Marshal(map[string]string{"source": r.RemoteAddr})
	if err := h.store.AppendEvent(domain.EventUser, domain.SeverityWarning,
		"all device data wiped via API", details); err != nil {
		h.log.Error().Err(err).Msg("audit event failed")
	}
	h.log.Warn().Str("source", r.RemoteAddr).Msg("device data wiped")
	writeJSON(w, http.StatusOK, map[string]string{"status": "wiped"})
}

// HandleDestroy removes the database file and stops the service.
func (h *AdminHandler) HandleDestroy(w http.ResponseWriter, r *http.Request) {
	if !h.confirmed(w, r) {
		return
	}
	h.log.Warn().Str("source", r.RemoteAddr).Msg("destroying store")

	if err := h.store.DestroyStore(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("destroy failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "destroyed, shutting down"})

	if h.onDestroy != nil {
		go h.onDestroy()
	}
}
