package domain

import "net/http"

// Observation is the typed evidence bag the probe set collects for one host.
// The HTTP probe synthesizes extra pseudo-headers into HTTPHeaders:
//
//	X-Content-Contains-<Family>  body matched a NAS family keyword set
//	X-Content-Indicator-<sig>    body contained a signature content indicator
//	X-Content-Contains-UniFi     UniFi controller markers on 443/8443
//	X-Content-Contains-Model     exact model literal found in a UniFi body
//	X-Page-Title                 inner text of <title>
//	X-Has-Login-Form             a login/password form marker was seen
//
// SNMPData is keyed by the symbolic OID name (SNMPv2-MIB::sysDescr.0 style)
// with the raw numeric OID kept as a fallback key. MDNSData carries
// service_type, service_name and hostname when mDNS answered.
type Observation struct {
	IP        string            `json:"ip"`
	MAC       string            `json:"mac"`
	Hostname  string            `json:"hostname,omitempty"`
	OpenPorts []int             `json:"open_ports,omitempty"`
	HTTP      map[string]string `json:"http_headers,omitempty"`
	SNMP      map[string]string `json:"snmp_data,omitempty"`
	MDNS      map[string]string `json:"mdns_data,omitempty"`
}

// Header returns the observed HTTP header value for name, tolerating
// non-canonical capture casing.
func (o *Observation) Header(name string) (string, bool) {
	if len(o.HTTP) == 0 {
		return "", false
	}
	if v, ok := o.HTTP[name]; ok {
		return v, true
	}
	canon := http.CanonicalHeaderKey(name)
	if v, ok := o.HTTP[canon]; ok {
		return v, true
	}
	for k, v := range o.HTTP {
		if http.CanonicalHeaderKey(k) == canon {
			return v, true
		}
	}
	return "", false
}

// HasOpenPort reports whether the port probe saw the given port open.
func (o *Observation) HasOpenPort(port int) bool {
	for _, p := range o.OpenPorts {
		if p == port {
			return true
		}
	}
	return false
}
