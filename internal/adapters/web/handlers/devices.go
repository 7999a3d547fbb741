package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// Forcer triggers an immediate re-fingerprint of one device.
type Forcer interface {
	ForceFingerprint(ctx context.Context, mac string) (*domain.Device, error)
}

// PortAuditor runs an on-demand port audit of one device.
type PortAuditor interface {
	AuditDevice(ctx context.Context, mac string) (*domain.SecurityScan, error)
}

// DeviceHandler serves the /api/devices endpoints.
type DeviceHandler struct {
	store   ports.Store
	forcer  Forcer
	auditor PortAuditor
	log     zerolog.Logger
}

func NewDeviceHandler(store ports.Store, forcer Forcer, auditor PortAuditor) *DeviceHandler {
	return &DeviceHandler{
		store:   store,
		forcer:  forcer,
		auditor: auditor,
		log:     logging.WithComponent("api"),
	}
}

type deviceListResponse struct {
	Devices  []domain.Device `json:"devices"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// HandleList returns the inventory, deduplicated by MAC (the most recent
// sighting wins) and paginated.
func (h *DeviceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	devices, err := h.store.GetAllDevices()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The store orders by last_seen descending, so keeping the first
	// occurrence per MAC keeps the freshest row.
	seen := make(map[string]struct{}, len(devices))
	deduped := devices[:0]
	for _, d := range devices {
		if _, dup := seen[d.MAC]; dup {
			continue
		}
		seen[d.MAC] = struct{}{}
		deduped = append(deduped, d)
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(r, "page_size", defaultPageSize)
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	start := (page - 1) * pageSize
	if start > len(deduped) {
		start = len(deduped)
	}
	end := start + pageSize
	if end > len(deduped) {
		end = len(deduped)
	}

	writeJSON(w, http.StatusOK, deviceListResponse{
		Devices:  deduped[start:end],
		Total:    len(deduped),
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *DeviceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	device, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, device)
}

// HandlePorts returns the latest port audit of a device, running one on
// demand when none is stored yet.
func (h *DeviceHandler) HandlePorts(w http.ResponseWriter, r *http.Request) {
	device, ok := h.lookup(w, r)
	if !ok {
		return
	}

	scan, err := h.store.LatestSecurityScan(device.MAC)
	if err != nil && !errors.Is(err, ports.ErrDeviceNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if scan == nil && h.auditor != nil {
		scan, err = h.auditor.AuditDevice(r.Context(), device.MAC)
		if err != nil {
			writeError(w, http.StatusBadGateway, fmt.Sprintf("port audit failed: %v", err))
			return
		}
	}
	if scan == nil {
		writeJSON(w, http.StatusOK, domain.SecurityScan{DeviceID: device.ID})
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

// HandleForceFingerprint clears the stored classification and probes the
// device immediately, ignoring freshness and confidence gates.
func (h *DeviceHandler) HandleForceFingerprint(w http.ResponseWriter, r *http.Request) {
	device, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if h.forcer == nil {
		writeError(w, http.StatusServiceUnavailable, "fingerprinting is not running")
		return
	}

	updated, err := h.forcer.ForceFingerprint(r.Context(), device.MAC)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	h.audit(r, "fingerprint forced", map[string]string{"mac": device.MAC})
	writeJSON(w, http.StatusOK, updated)
}

type importantRequest struct {
	Important bool `json:"important"`
}

func (h *DeviceHandler) HandleMarkImportant(w http.ResponseWriter, r *http.Request) {
	device, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req importantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.store.MarkImportant(device.MAC, req.Important); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.audit(r, "importance changed", map[string]string{
		"mac":       device.MAC,
		"important": strconv.FormatBool(req.Important),
	})
	h.respondWithDevice(w, device.MAC)
}

type deviceUpdateRequest struct {
	Hostname         *string `json:"hostname"`
	Vendor           *string `json:"vendor"`
	Notes            *string `json:"notes"`
	NeverFingerprint *bool   `json:"never_fingerprint"`
}

// HandleUpdate edits the user-owned metadata fields. Absent fields stay
// untouched.
func (h *DeviceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	device, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req deviceUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Hostname != nil || req.Vendor != nil || req.Notes != nil {
		if err := h.store.UpdateDeviceUserFields(device.MAC, req.Hostname, req.Vendor, req.Notes); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if req.NeverFingerprint != nil {
		if err := h.store.SetNeverFingerprint(device.MAC, *req.NeverFingerprint); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	h.audit(r, "device edited", map[string]string{"mac": device.MAC})
	h.respondWithDevice(w, device.MAC)
}

func (h *DeviceHandler) lookup(w http.ResponseWriter, r *http.Request) (*domain.Device, bool) {
	mac := domain.NormalizeMAC(mux.Vars(r)["mac"])
	if !domain.IsValidMAC(mac) {
		writeError(w, http.StatusBadRequest, "invalid MAC address")
		return nil, false
	}
	device, err := h.store.GetDevice(mac)
	if errors.Is(err, ports.ErrDeviceNotFound) {
		writeError(w, http.StatusNotFound, "device not found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return device, true
}

func (h *DeviceHandler) respondWithDevice(w http.ResponseWriter, mac string) {
	device, err := h.store.GetDevice(mac)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, device)
}

// audit records a mutation in the event log. Failures are logged, not
// surfaced; the mutation itself already happened.
func (h *DeviceHandler) audit(r *http.Request, action string, fields map[string]string) {
	details, _ := json.Marshal(fields)
	if err := h.store.AppendEvent(domain.EventUser, domain.SeverityInfo,
		fmt.Sprintf("%s via API (%s)", action, r.RemoteAddr), details); err != nil {
		h.log.Error().Err(err).Str("action", action).Msg("audit event failed")
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
