// Package reporting renders the device inventory and the latest security
// findings as a downloadable PDF.
package reporting

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

// Inventory is the material a report is built from.
type Inventory struct {
	GeneratedAt time.Time
	Subnet      string
	Devices     []domain.Device
	// Scans holds the most recent security scan per device MAC.
	Scans map[string]*domain.SecurityScan
}

// PDFExporter renders inventories with gofpdf.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Export produces the full report: header, summary counters, the device
// table and a findings section.
func (e *PDFExporter) Export(inv Inventory) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	e.addHeader(pdf, inv)
	e.addSummary(pdf, inv)
	e.addDeviceTable(pdf, inv.Devices)
	e.addFindings(pdf, inv)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, inv Inventory) {
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 14, "Network Inventory Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(120, 120, 120)
	when := inv.GeneratedAt
	if when.IsZero() {
		when = time.Now()
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", when.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	if inv.Subnet != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Subnet: %s", inv.Subnet), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func (e *PDFExporter) addSummary(pdf *gofpdf.Fpdf, inv Inventory) {
	var important, fingerprinted, flagged int
	for _, d := range inv.Devices {
		if d.IsImportant {
			important++
		}
		if d.IsFingerprinted {
			fingerprinted++
		}
		if scan := inv.Scans[d.MAC]; scan != nil && len(scan.Vulnerabilities) > 0 {
			flagged++
		}
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	rows := []string{
		fmt.Sprintf("Devices: %d", len(inv.Devices)),
		fmt.Sprintf("Identified: %d", fingerprinted),
		fmt.Sprintf("Important: %d", important),
		fmt.Sprintf("With suspicious ports: %d", flagged),
	}
	for _, row := range rows {
		pdf.CellFormat(0, 6, row, "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func (e *PDFExporter) addDeviceTable(pdf *gofpdf.Fpdf, devices []domain.Device) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Devices", "", 1, "L", false, 0, "")

	headers := []string{"MAC", "IP", "Hostname", "Type", "Model", "Last Seen"}
	widths := []float64{36, 26, 34, 24, 40, 30}

	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 235, 245)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, d := range devices {
		cells := []string{
			d.MAC,
			d.IP,
			clip(d.Hostname, 22),
			d.DeviceType,
			clip(d.DeviceModel, 28),
			d.LastSeen.Format("2006-01-02 15:04"),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func (e *PDFExporter) addFindings(pdf *gofpdf.Fpdf, inv Inventory) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Security Findings", "", 1, "L", false, 0, "")

	any := false
	for _, d := range inv.Devices {
		scan := inv.Scans[d.MAC]
		if scan == nil || len(scan.Vulnerabilities) == 0 {
			continue
		}
		any = true

		label := d.Hostname
		if label == "" {
			label = d.MAC
		}
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s (%s)", label, d.IP), "", 1, "L", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		for _, f := range scan.Vulnerabilities {
			if f.Severity == "error" {
				pdf.SetTextColor(180, 30, 30)
			} else {
				pdf.SetTextColor(160, 110, 0)
			}
			pdf.CellFormat(0, 5, fmt.Sprintf("  port %d: %s", f.Port, f.Reason), "", 1, "L", false, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	if !any {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, "No suspicious open ports recorded.", "", 1, "L", false, 0, "")
	}
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "~"
}
