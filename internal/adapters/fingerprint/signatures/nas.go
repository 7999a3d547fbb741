package signatures

import "github.com/avidal-labs/lanwarden/internal/core/domain"

// Storage appliances other than Synology. Several vendors here ship on
// generic boards, so MAC evidence is weak or absent and the web UI body
// carries most of the weight.
func nasSignatures() []domain.Signature {
	return []domain.Signature{
		{
			ID:           "qnap_nas",
			DeviceType:   "nas",
			Manufacturer: "QNAP",
			Model:        "TS Series",
			MACPrefixes:  []string{"00:08:9B", "24:5E:BE"},
			OpenPorts:    []int{8080, 443, 445, 22},
			SNMPOIDPatterns: map[string]string{
				"SNMPv2-MIB::sysDescr.0": `qnap|qts`,
			},
			ContentIndicators: []string{"qnap", "qts"},
			HostnamePatterns:  []string{`qnap|ts-\d{3}`},
		},
		{
			ID:           "truenas",
			DeviceType:   "nas",
			Manufacturer: "iXsystems",
			Model:        "TrueNAS",
			OpenPorts:    []int{80, 443, 445, 22},
			ContentIndicators: []string{"truenas", "freenas"},
			HostnamePatterns:  []string{`truenas|freenas`},
		},
		{
			ID:           "unraid_server",
			DeviceType:   "nas",
			Manufacturer: "Lime Technology",
			Model:        "Unraid",
			OpenPorts:    []int{80, 443, 445},
			ContentIndicators: []string{"unraid", "lime technology"},
			HostnamePatterns:  []string{`unraid|tower`},
		},
		{
			ID:           "wd_mycloud",
			DeviceType:   "nas",
			Manufacturer: "Western Digital",
			Model:        "MyCloud",
			MACPrefixes:  []string{"00:90:A9", "00:14:EE"},
			OpenPorts:    []int{80, 443, 445},
			ContentIndicators: []string{"wd my cloud", "mycloud", "western digital"},
			HostnamePatterns:  []string{`mycloud|wdmycloud`},
		},
		{
			ID:           "asustor_nas",
			DeviceType:   "nas",
			Manufacturer: "Asustor",
			Model:        "AS Series",
			OpenPorts:    []int{8000, 8001, 445, 22},
			ContentIndicators: []string{"asustor", "asus nas"},
			HostnamePatterns:  []string{`asustor|as\d{4}`},
		},
		{
			ID:           "terramaster_nas",
			DeviceType:   "nas",
			Manufacturer: "TerraMaster",
			Model:        "F Series",
			OpenPorts:    []int{8181, 445, 22},
			ContentIndicators: []string{"terramaster", "tnas"},
			HostnamePatterns:  []string{`tnas|terramaster`},
		},
	}
}
