package signatures

import "github.com/avidal-labs/lanwarden/internal/core/domain"

func ciscoSignatures() []domain.Signature {
	return []domain.Signature{
		{
			ID:           "cisco_catalyst_switch",
			DeviceType:   "networking",
			Manufacturer: "Cisco",
			Model:        "Catalyst Switch",
			MACPrefixes:  []string{"00:1B:0D", "00:17:94", "58:97:1E", "2C:3E:CF", "70:6B:B9"},
			OpenPorts:    []int{22, 23, 80, 443, 161},
			SNMPOIDPatterns: map[string]string{
				"SNMPv2-MIB::sysDescr.0": `cisco ios|catalyst`,
			},
			HostnamePatterns: []string{`catalyst|sw\d`},
		},
		{
			ID:           "cisco_router",
			DeviceType:   "networking",
			Manufacturer: "Cisco",
			Model:        "ISR Router",
			MACPrefixes:  []string{"00:1A:A1", "00:23:04", "00:25:45"},
			OpenPorts:    []int{22, 23, 443, 161},
			SNMPOIDPatterns: map[string]string{
				"SNMPv2-MIB::sysDescr.0": `cisco ios|isr`,
			},
		},
		{
			ID:           "cisco_meraki_ap",
			DeviceType:   "networking",
			Manufacturer: "Cisco Meraki",
			Model:        "MR Access Point",
			MACPrefixes:  []string{"88:15:44", "0C:8D:DB", "E0:55:3D"},
			OpenPorts:    []int{80, 443},
			HTTPHeaderPatterns: map[string]string{
				"Server": `meraki`,
			},
			ContentIndicators: []string{"meraki"},
			HostnamePatterns:  []string{`meraki`},
		},
		{
			ID:           "cisco_ip_phone",
			DeviceType:   "voip",
			Manufacturer: "Cisco",
			Model:        "IP Phone",
			MACPrefixes:  []string{"00:1E:4A", "1C:E8:5D", "64:16:8D"},
			OpenPorts:    []int{80, 5060},
			PortsRequired: true,
			ContentIndicators: []string{"cisco ip phone"},
		},
	}
}
