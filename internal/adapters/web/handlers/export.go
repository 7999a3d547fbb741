package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/avidal-labs/lanwarden/internal/adapters/reporting"
	"github.com/avidal-labs/lanwarden/internal/config"
	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
)

// ExportHandler serves the CSV device export and the PDF report.
type ExportHandler struct {
	store ports.Store
	cfg   func() *config.Config
	pdf   *reporting.PDFExporter
}

func NewExportHandler(store ports.Store, cfg func() *config.Config, pdf *reporting.PDFExporter) *ExportHandler {
	return &ExportHandler{store: store, cfg: cfg, pdf: pdf}
}

var csvHeader = []string{
	"mac_address", "ip_address", "hostname", "vendor",
	"device_type", "device_model", "device_manufacturer",
	"fingerprint_confidence", "is_important", "first_seen", "last_seen",
}

func (h *ExportHandler) HandleCSV(w http.ResponseWriter, r *http.Request) {
	devices, err := h.store.GetAllDevices()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="devices.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)
	for _, d := range devices {
		_ = cw.Write([]string{
			d.MAC,
			d.IP,
			d.Hostname,
			d.Vendor,
			d.DeviceType,
			d.DeviceModel,
			d.DeviceManufacturer,
			strconv.FormatFloat(d.FingerprintConfidence, 'f', 2, 64),
			strconv.FormatBool(d.IsImportant),
			formatTime(d.FirstSeen),
			formatTime(d.LastSeen),
		})
	}
	cw.Flush()
}

func (h *ExportHandler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	devices, err := h.store.GetAllDevices()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	scans := make(map[string]*domain.SecurityScan, len(devices))
	for _, d := range devices {
		scan, err := h.store.LatestSecurityScan(d.MAC)
		if err == nil && scan != nil {
			scans[d.MAC] = scan
		}
	}

	data, err := h.pdf.Export(reporting.Inventory{
		GeneratedAt: time.Now(),
		Subnet:      h.cfg().Network.Subnet,
		Devices:     devices,
		Scans:       scans,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("report generation failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="lanwarden-report.pdf"`)
	_, _ = w.Write(data)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
