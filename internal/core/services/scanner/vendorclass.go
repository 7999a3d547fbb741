package scanner

import (
	"strings"
	"time"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

// quickConfidence is what a vendor-string hit is worth. It clears the
// default threshold but loses to any stronger deep-fingerprint match.
const quickConfidence = 0.8

type vendorClass struct {
	match      string // case-insensitive substring of the normalized vendor
	deviceType string
	model      string
}

// vendorClasses is the cheap classification shortcut: a vendor string from
// nmap or arp-scan alone often pins the device category. First hit wins,
// so more specific entries come before generic ones.
var vendorClasses = []vendorClass{
	{"philips", "lighting", "Hue"},
	{"phillips", "lighting", "Hue"},
	{"tp-link", "networking", ""},
	{"amazon", "media", "Echo"},
	{"apple", "computer", ""},
	{"google", "media", ""},
	{"samsung", "media", ""},
	{"sonos", "media", "Speaker"},
	{"nest", "thermostat", ""},
	{"ring", "camera", "Doorbell"},
	{"wyze", "camera", ""},
	{"roku", "media", ""},
	{"belkin", "networking", ""},
	{"netgear", "networking", ""},
	{"d-link", "networking", ""},
	{"synology", "nas", ""},
	{"qnap", "nas", ""},
	{"ubiquiti", "networking", ""},
	{"cisco", "networking", ""},
	{"linksys", "networking", ""},
	{"asus", "networking", ""},
	{"avm", "networking", ""},
}

// classifyByVendor tries the vendor shortcut on a normalized vendor
// string. The manufacturer is the vendor's first token, which reads
// better than the full registration name ("Ubiquiti" vs "Ubiquiti
// Networks Inc.").
func classifyByVendor(vendor string) *domain.FingerprintResult {
	v := strings.ToLower(vendor)
	if v == "" {
		return nil
	}
	for _, vc := range vendorClasses {
		if !strings.Contains(v, vc.match) {
			continue
		}
		manufacturer := vendor
		if fields := strings.Fields(vendor); len(fields) > 0 {
			manufacturer = strings.TrimRight(fields[0], ",")
		}
		return &domain.FingerprintResult{
			DeviceType:   vc.deviceType,
			Model:        vc.model,
			Manufacturer: manufacturer,
			Confidence:   quickConfidence,
			Date:         time.Now(),
		}
	}
	return nil
}
