package domain

import (
	"regexp"
	"strings"
)

var (
	macRegex     = regexp.MustCompile(`^([0-9a-f]{2}:){5}[0-9a-f]{2}$`)
	parenTail    = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	spaceCollaps = regexp.MustCompile(`\s+`)
)

// NormalizeMAC converts any common MAC rendering (AA-BB-CC-DD-EE-FF,
// aabb.ccdd.eeff, AABBCCDDEEFF) to the canonical lowercase colon-separated
// form. It returns "" when the input is not a 48-bit address.
// Normalization is idempotent.
func NormalizeMAC(mac string) string {
	s := strings.ToLower(strings.TrimSpace(mac))
	s = strings.NewReplacer("-", "", ":", "", ".", "").Replace(s)
	if len(s) != 12 {
		return ""
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return ""
		}
	}
	var b strings.Builder
	b.Grow(17)
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(s[i : i+2])
	}
	return b.String()
}

// IsValidMAC reports whether mac is already in canonical form.
func IsValidMAC(mac string) bool {
	return macRegex.MatchString(mac)
}

// MACPrefix returns the OUI of a canonical MAC as 6 uppercase hex chars
// ("B4FBE4"), the shape signature prefixes are normalized to.
func MACPrefix(mac string) string {
	n := NormalizeMAC(mac)
	if n == "" {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(n[:8], ":", ""))
}

// NormalizeVendor cleans a vendor string as reported by nmap or arp-scan:
// trailing parenthesized qualifiers such as "(locally administered)" are
// stripped and runs of whitespace collapse to one space. Idempotent.
func NormalizeVendor(vendor string) string {
	v := strings.TrimSpace(vendor)
	for {
		stripped := parenTail.ReplaceAllString(v, "")
		if stripped == v {
			break
		}
		v = strings.TrimSpace(stripped)
	}
	return spaceCollaps.ReplaceAllString(v, " ")
}
