package signatures

import "github.com/avidal-labs/lanwarden/internal/core/domain"

// Ubiquiti OUIs shared by the UniFi line.
var ubiquitiOUIs = []string{
	"B4:FB:E4", "F0:9F:C2", "78:8A:20", "04:18:D6", "24:A4:3C",
	"80:2A:A8", "68:72:51", "FC:EC:DA", "18:E8:29", "74:AC:B9",
	"E0:63:DA", "78:45:58",
}

func unifiSignatures() []domain.Signature {
	return []domain.Signature{
		{
			ID:           "unifi_udm_pro_max",
			DeviceType:   "networking",
			Manufacturer: "Ubiquiti",
			Model:        "UDM-Pro-Max",
			MACPrefixes:  ubiquitiOUIs,
			OpenPorts:    []int{22, 80, 443, 8080, 8443},
			HTTPHeaderPatterns: map[string]string{
				"Server": `unifi|ubnt|ubiquiti`,
			},
			SNMPOIDPatterns: map[string]string{
				"SNMPv2-MIB::sysDescr.0": `udm.?pro.?max|udmpmax`,
			},
			ContentIndicators: []string{"udm-pro-max", "udmpmax", "udm pro max"},
			HostnamePatterns:  []string{`udm.?pro.?max`, `udmpmax`},
		},
		{
			ID:           "unifi_udm_se",
			DeviceType:   "networking",
			Manufacturer: "Ubiquiti",
			Model:        "UDM-SE",
			MACPrefixes:  ubiquitiOUIs,
			OpenPorts:    []int{22, 80, 443, 8080, 8443},
			HTTPHeaderPatterns: map[string]string{
				"Server": `unifi|ubnt|ubiquiti`,
			},
			SNMPOIDPatterns: map[string]string{
				"SNMPv2-MIB::sysDescr.0": `udm.?se|dream machine se`,
			},
			ContentIndicators: []string{"udm-se", "udm se", "dream machine se"},
			HostnamePatterns:  []string{`udm.?se`},
		},
		{
			ID:           "unifi_udm_pro",
			DeviceType:   "networking",
			Manufacturer: "Ubiquiti",
			Model:        "UniFi Dream Machine Pro",
			MACPrefixes:  ubiquitiOUIs,
			OpenPorts:    []int{22, 80, 443, 8080, 8443},
			HTTPHeaderPatterns: map[string]string{
				"Server": `unifi|ubnt|ubiquiti`,
			},
			SNMPOIDPatterns: map[string]string{
				"SNMPv2-MIB::sysDescr.0": `dream machine|udm|unifi`,
			},
			ContentIndicators: []string{"unifi", "ubiquiti", "dream machine"},
		},
		{
			ID:           "unifi_ap",
			DeviceType:   "networking",
			Manufacturer: "Ubiquiti",
			Model:        "UniFi Access Point",
			MACPrefixes:  ubiquitiOUIs,
			OpenPorts:    []int{22, 80, 443},
			SNMPOIDPatterns: map[string]string{
				"SNMPv2-MIB::sysDescr.0": `uap|access point|u6|u7`,
			},
			MDNSPatterns: map[string]string{
				"service_type": `_ubnt|_http`,
			},
			HostnamePatterns: []string{`u6-|u7-|uap|unifi-ap`},
		},
		{
			ID:           "unifi_switch",
			DeviceType:   "networking",
			Manufacturer: "Ubiquiti",
			Model:        "UniFi Switch",
			MACPrefixes:  ubiquitiOUIs,
			OpenPorts:    []int{22, 80, 443, 161},
			SNMPOIDPatterns: map[string]string{
				"SNMPv2-MIB::sysDescr.0": `usw|unifi switch|edgeswitch`,
			},
			HostnamePatterns: []string{`usw|switch`},
		},
	}
}
