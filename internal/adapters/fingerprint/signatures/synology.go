package signatures

import "github.com/avidal-labs/lanwarden/internal/core/domain"

func synologySignatures() []domain.Signature {
	return []domain.Signature{
		{
			ID:           "synology_nas",
			DeviceType:   "nas",
			Manufacturer: "Synology",
			Model:        "DiskStation",
			MACPrefixes:  []string{"00:11:32", "90:09:D0"},
			OpenPorts:    []int{5000, 5001, 445, 22, 80},
			HTTPHeaderPatterns: map[string]string{
				"Server": `nginx|synology`,
			},
			SNMPOIDPatterns: map[string]string{
				"SNMPv2-MIB::sysDescr.0": `synology|dsm`,
			},
			MDNSPatterns: map[string]string{
				"service_type": `_synology|_smb|_http`,
			},
			ContentIndicators: []string{"synology", "diskstation", "dsm"},
			HostnamePatterns:  []string{`diskstation|synology|ds\d{3}`},
		},
		{
			ID:           "synology_router",
			DeviceType:   "networking",
			Manufacturer: "Synology",
			Model:        "RT Router",
			MACPrefixes:  []string{"00:11:32", "90:09:D0"},
			OpenPorts:    []int{8000, 8001, 80, 443, 53},
			ContentIndicators: []string{"srm", "synology router"},
			HostnamePatterns:  []string{`rt\d{4}|synologyrouter`},
		},
	}
}
