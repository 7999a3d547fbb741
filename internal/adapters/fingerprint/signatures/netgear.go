package signatures

import "github.com/avidal-labs/lanwarden/internal/core/domain"

func netgearSignatures() []domain.Signature {
	return []domain.Signature{
		{
			ID:           "netgear_readynas",
			DeviceType:   "nas",
			Manufacturer: "Netgear",
			Model:        "ReadyNAS",
			MACPrefixes:  []string{"00:14:6C", "20:4E:7F", "A0:40:A0"},
			OpenPorts:    []int{80, 443, 445, 22},
			ContentIndicators: []string{"readynas", "readycloud"},
			HostnamePatterns:  []string{`readynas|nas`},
		},
		{
			ID:           "netgear_orbi",
			DeviceType:   "networking",
			Manufacturer: "Netgear",
			Model:        "Orbi",
			MACPrefixes:  []string{"9C:3D:CF", "C0:3F:0E", "28:80:88"},
			OpenPorts:    []int{80, 443, 53},
			ContentIndicators: []string{"orbi", "orbilogin"},
			HostnamePatterns:  []string{`orbi`},
		},
		{
			ID:           "netgear_router",
			DeviceType:   "networking",
			Manufacturer: "Netgear",
			Model:        "Router",
			MACPrefixes: []string{
				"00:09:5B", "00:0F:B5", "00:1B:2F", "00:1E:2A",
				"00:22:3F", "00:26:F2", "84:1B:5E", "E0:46:9A",
			},
			OpenPorts: []int{80, 443, 53},
			HTTPHeaderPatterns: map[string]string{
				"WWW-Authenticate": `netgear`,
			},
			ContentIndicators: []string{"netgear", "routerlogin"},
		},
	}
}
