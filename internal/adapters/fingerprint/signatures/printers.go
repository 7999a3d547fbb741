package signatures

import "github.com/avidal-labs/lanwarden/internal/core/domain"

// Network printers share the LPD/IPP/raw-9100 port triple; the vendor is
// told apart by OUI and the embedded web server.
func printerSignatures() []domain.Signature {
	return []domain.Signature{
		{
			ID:           "hp_printer",
			DeviceType:   "printer",
			Manufacturer: "HP",
			MACPrefixes:  []string{"3C:D9:2B", "00:21:5A", "9C:8E:99", "B4:B5:2F"},
			OpenPorts:    []int{631, 9100, 515, 80},
			HTTPHeaderPatterns: map[string]string{
				"Server": `hp http server|hp-chai`,
			},
			MDNSPatterns: map[string]string{
				"service_type": `_ipp|_printer|_pdl-datastream`,
			},
			ContentIndicators: []string{"hp laserjet", "hp officejet", "hp envy"},
			HostnamePatterns:  []string{`hp|laserjet|officejet`},
		},
		{
			ID:           "brother_printer",
			DeviceType:   "printer",
			Manufacturer: "Brother",
			MACPrefixes:  []string{"00:1B:A9", "00:80:77", "30:05:5C"},
			OpenPorts:    []int{631, 9100, 515, 80},
			HTTPHeaderPatterns: map[string]string{
				"Server": `debut|brother`,
			},
			MDNSPatterns: map[string]string{
				"service_type": `_ipp|_printer|_pdl-datastream`,
			},
			ContentIndicators: []string{"brother"},
			HostnamePatterns:  []string{`brother|brn`},
		},
		{
			ID:           "canon_printer",
			DeviceType:   "printer",
			Manufacturer: "Canon",
			MACPrefixes:  []string{"00:1E:8F", "2C:9E:FC", "18:0C:AC"},
			OpenPorts:    []int{631, 9100, 515, 80},
			MDNSPatterns: map[string]string{
				"service_type": `_ipp|_printer|_canon`,
			},
			ContentIndicators: []string{"canon", "pixma", "imageclass"},
			HostnamePatterns:  []string{`canon|pixma`},
		},
		{
			ID:           "epson_printer",
			DeviceType:   "printer",
			Manufacturer: "Epson",
			MACPrefixes:  []string{"00:26:AB", "A4:EE:57", "9C:AE:D3"},
			OpenPorts:    []int{631, 9100, 515, 80},
			HTTPHeaderPatterns: map[string]string{
				"Server": `epson`,
			},
			MDNSPatterns: map[string]string{
				"service_type": `_ipp|_printer`,
			},
			ContentIndicators: []string{"epson", "workforce", "ecotank"},
			HostnamePatterns:  []string{`epson`},
		},
	}
}
