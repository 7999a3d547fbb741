package fingerprint

import (
	"regexp"
	"strings"
	"sync"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

// Evidence weights. Content evidence counts more for storage appliances,
// whose web UIs are the main tell. The page-title bonus raises only the
// matched side, so a title hit can lift but never dilute a score.
const (
	weightMAC        = 25.0
	weightPorts      = 15.0
	weightHTTP       = 20.0
	weightContent    = 25.0
	weightContentNAS = 30.0
	weightSNMP       = 15.0
	weightMDNS       = 10.0
	weightHostname   = 15.0
	weightTitleBonus = 15.0
)

const contentContainsPrefix = "X-Content-Contains-"

// Score computes the confidence in [0,1] that the observation matches the
// signature. It is pure: no I/O, no shared state beyond the regex cache.
//
// Hard requirements short-circuit to 0: a signature that lists MAC prefixes
// matches only hosts carrying one of them, and ports_required zeroes the
// score when no expected port is open.
func Score(obs *domain.Observation, sig *domain.Signature) float64 {
	macHit := macPrefixHit(obs.MAC, sig.MACPrefixes)
	if len(sig.MACPrefixes) > 0 && !macHit {
		return 0
	}
	if sig.MACRequired && !macHit {
		return 0
	}

	portOverlap := 0
	for _, p := range sig.OpenPorts {
		if obs.HasOpenPort(p) {
			portOverlap++
		}
	}
	if sig.PortsRequired && portOverlap == 0 {
		return 0
	}

	var total, matched float64

	if len(sig.MACPrefixes) > 0 {
		total += weightMAC
		if macHit {
			matched += weightMAC
		}
	}

	if len(sig.OpenPorts) > 0 {
		total += weightPorts
		matched += weightPorts * float64(portOverlap) / float64(len(sig.OpenPorts))
	}

	if len(sig.HTTPHeaderPatterns) > 0 {
		total += weightHTTP
		hits := 0
		for name, pattern := range sig.HTTPHeaderPatterns {
			if value, ok := obs.Header(name); ok && matchPattern(pattern, value) {
				hits++
			}
		}
		matched += weightHTTP * float64(hits) / float64(len(sig.HTTPHeaderPatterns))
	}

	if len(sig.ContentIndicators) > 0 {
		w := weightContent
		if sig.IsNAS() {
			w = weightContentNAS
		}
		total += w
		matched += w * contentScore(obs, sig)
	}

	if len(sig.SNMPOIDPatterns) > 0 {
		total += weightSNMP
		hits := 0
		for oid, pattern := range sig.SNMPOIDPatterns {
			if value, ok := obs.SNMP[oid]; ok && matchPattern(pattern, value) {
				hits++
			}
		}
		matched += weightSNMP * float64(hits) / float64(len(sig.SNMPOIDPatterns))
	}

	if len(sig.MDNSPatterns) > 0 {
		total += weightMDNS
		hits := 0
		for key, pattern := range sig.MDNSPatterns {
			if value, ok := obs.MDNS[key]; ok && matchPattern(pattern, value) {
				hits++
			}
		}
		matched += weightMDNS * float64(hits) / float64(len(sig.MDNSPatterns))
	}

	if len(sig.HostnamePatterns) > 0 {
		total += weightHostname
		for _, pattern := range sig.HostnamePatterns {
			if obs.Hostname != "" && matchPattern(pattern, obs.Hostname) {
				matched += weightHostname
				break
			}
		}
	}

	if total == 0 {
		return 0
	}

	if titleMentions(obs, sig) {
		matched += weightTitleBonus
	}

	confidence := matched / total
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

// contentScore grades body-derived evidence: 1.0 for an explicit indicator
// or family flag, 0.6 for a page title mentioning the device, else 0.
func contentScore(obs *domain.Observation, sig *domain.Signature) float64 {
	if v, ok := obs.Header("X-Content-Indicator-" + sig.ID); ok && v == "true" {
		return 1.0
	}
	for name, value := range obs.HTTP {
		token, found := strings.CutPrefix(name, contentContainsPrefix)
		if !found {
			continue
		}
		// Flag headers carry "true"; the model header carries the literal.
		if value != "true" {
			token = value
		}
		if tokenMentionsSignature(token, sig) {
			return 1.0
		}
	}
	if titleMentions(obs, sig) {
		return 0.6
	}
	return 0
}

func titleMentions(obs *domain.Observation, sig *domain.Signature) bool {
	title, ok := obs.Header("X-Page-Title")
	if !ok || title == "" {
		return false
	}
	t := strings.ToLower(title)
	if sig.Manufacturer != "" && strings.Contains(t, strings.ToLower(sig.Manufacturer)) {
		return true
	}
	return sig.Model != "" && strings.Contains(t, strings.ToLower(sig.Model))
}

// tokenMentionsSignature compares a synthesized evidence token against the
// signature's manufacturer and model with separators squashed, so
// "UDM-Pro-Max" and "udm pro max" agree.
func tokenMentionsSignature(token string, sig *domain.Signature) bool {
	tok := squash(token)
	if len(tok) < 3 {
		return false
	}
	for _, field := range []string{sig.Manufacturer, sig.Model} {
		f := squash(field)
		if len(f) < 3 {
			continue
		}
		if strings.Contains(f, tok) || strings.Contains(tok, f) {
			return true
		}
	}
	return false
}

var squashReplacer = strings.NewReplacer(" ", "", "-", "", "_", "", ".", "")

func squash(s string) string {
	return squashReplacer.Replace(strings.ToLower(s))
}

func macPrefixHit(mac string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return false
	}
	oui := domain.MACPrefix(mac)
	if oui == "" {
		return false
	}
	for _, p := range prefixes {
		if oui == normalizePrefix(p) {
			return true
		}
	}
	return false
}

// normalizePrefix reduces a prefix to 6 uppercase hex chars. The signature
// loader pre-normalizes, so this usually returns its input unchanged.
func normalizePrefix(p string) string {
	if len(p) == 6 && !strings.ContainsAny(p, ":-._abcdef") {
		return p
	}
	p = strings.ToUpper(squash(p))
	p = strings.ReplaceAll(p, ":", "")
	if len(p) > 6 {
		p = p[:6]
	}
	return p
}

// regexCache holds compiled patterns; a pattern that fails to compile is
// cached as nil and never matches.
var regexCache sync.Map

func matchPattern(pattern, value string) bool {
	if pattern == "" || value == "" {
		return false
	}
	var re *regexp.Regexp
	if cached, ok := regexCache.Load(pattern); ok {
		re, _ = cached.(*regexp.Regexp)
	} else {
		compiled, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			regexCache.Store(pattern, (*regexp.Regexp)(nil))
			return false
		}
		regexCache.Store(pattern, compiled)
		re = compiled
	}
	return re != nil && re.MatchString(value)
}
