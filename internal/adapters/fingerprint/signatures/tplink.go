package signatures

import "github.com/avidal-labs/lanwarden/internal/core/domain"

func tplinkSignatures() []domain.Signature {
	return []domain.Signature{
		{
			ID:           "tplink_deco",
			DeviceType:   "networking",
			Manufacturer: "TP-Link",
			Model:        "Deco Mesh",
			MACPrefixes:  []string{"60:32:B1", "B0:4E:26", "1C:61:B4"},
			OpenPorts:    []int{80, 443, 53},
			ContentIndicators: []string{"deco"},
			HostnamePatterns:  []string{`deco`},
		},
		{
			ID:           "tplink_kasa_plug",
			DeviceType:   "smart_plug",
			Manufacturer: "TP-Link",
			Model:        "Kasa Smart Plug",
			MACPrefixes:  []string{"50:C7:BF", "98:DE:D0", "B0:BE:76"},
			OpenPorts:    []int{9999},
			PortsRequired: true,
			HostnamePatterns: []string{`hs1\d\d|kp1\d\d|kasa`},
		},
		{
			ID:           "tplink_router",
			DeviceType:   "networking",
			Manufacturer: "TP-Link",
			Model:        "Router",
			MACPrefixes: []string{
				"14:CC:20", "A4:2B:B0", "C4:6E:1F", "EC:08:6B",
				"F4:F2:6D", "18:D6:C7", "50:FA:84", "AC:84:C6",
			},
			OpenPorts: []int{80, 443, 53},
			HTTPHeaderPatterns: map[string]string{
				"Server": `tp-?link|router webserver`,
			},
			ContentIndicators: []string{"tp-link", "tplinkwifi", "archer"},
		},
	}
}
