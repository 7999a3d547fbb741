package handlers

import (
	"net/http"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

// EventHandler serves the event log feed.
type EventHandler struct {
	store ports.Store
}

func NewEventHandler(store ports.Store) *EventHandler {
	return &EventHandler{store: store}
}

// HandleList filters by kind and severity; alert-kind rows are excluded
// unless include_alerts=true, they have their own feed on the dashboard.
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultEventLimit)
	if limit < 1 || limit > maxEventLimit {
		limit = defaultEventLimit
	}

	filter := domain.EventFilter{
		Severity:      domain.Severity(r.URL.Query().Get("severity")),
		IncludeAlerts: r.URL.Query().Get("include_alerts") == "true",
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		if !domain.ValidEventKind(domain.EventKind(kind)) {
			writeError(w, http.StatusBadRequest, "unknown event kind: "+kind)
			return
		}
		filter.Kind = domain.EventKind(kind)
	}

	events, err := h.store.RecentEvents(limit, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}
