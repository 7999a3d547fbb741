package domain

// Signature is one static fingerprint record: the evidence a particular
// device model or family is expected to show. Signatures are pure data;
// the matcher interprets them.
type Signature struct {
	ID           string `json:"id"`
	DeviceType   string `json:"device_type"` // "networking", "nas", "media", "printer", ...
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model,omitempty"`

	// MAC OUI prefixes, normalized at load time to 6 uppercase hex chars.
	MACPrefixes []string `json:"mac_prefixes,omitempty"`

	// TCP ports the device family characteristically exposes.
	OpenPorts []int `json:"open_ports,omitempty"`

	// Header name -> case-insensitive regex over the observed value.
	HTTPHeaderPatterns map[string]string `json:"http_header_patterns,omitempty"`

	// Symbolic OID name -> case-insensitive regex over the observed value.
	SNMPOIDPatterns map[string]string `json:"snmp_oid_patterns,omitempty"`

	// Keys "service_type" and "service_name" -> regex, matched against the
	// mDNS answer for the host.
	MDNSPatterns map[string]string `json:"mdns_patterns,omitempty"`

	// Regexes over the resolved hostname.
	HostnamePatterns []string `json:"hostname_patterns,omitempty"`

	// Literal substrings expected somewhere in a served page body.
	ContentIndicators []string `json:"content_indicators,omitempty"`

	// Hard requirements: a miss on a required dimension zeroes the score.
	MACRequired   bool `json:"mac_required,omitempty"`
	PortsRequired bool `json:"ports_required,omitempty"`
}

// IsNAS reports whether the signature classifies a storage appliance;
// content evidence weighs heavier for those.
func (s *Signature) IsNAS() bool { return s.DeviceType == "nas" }

// SignatureMatch is one ranked result of the fingerprint engine.
type SignatureMatch struct {
	SignatureID  string  `json:"signature_id"`
	DeviceType   string  `json:"device_type"`
	Manufacturer string  `json:"manufacturer"`
	Model        string  `json:"model,omitempty"`
	Confidence   float64 `json:"confidence"` // 0.0-1.0
}
