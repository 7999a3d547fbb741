package signatures

import "github.com/avidal-labs/lanwarden/internal/core/domain"

// Remaining network gear and IP cameras.
func networkSignatures() []domain.Signature {
	arubaOUIs := []string{"94:B4:0F", "20:4C:03", "00:0B:86", "24:DE:C6", "D8:C7:C8"}

	return []domain.Signature{
		{
			ID:           "aruba_switch",
			DeviceType:   "networking",
			Manufacturer: "Aruba",
			Model:        "Switch",
			MACPrefixes:  arubaOUIs,
			OpenPorts:    []int{22, 80, 443, 161},
			SNMPOIDPatterns: map[string]string{
				"SNMPv2-MIB::sysDescr.0": `switch|2930|2540|3810|aruba cx`,
			},
			HostnamePatterns: []string{`switch`},
		},
		{
			ID:           "aruba_ap",
			DeviceType:   "networking",
			Manufacturer: "Aruba",
			Model:        "Access Point",
			MACPrefixes:  arubaOUIs,
			OpenPorts:    []int{22, 80, 443, 161},
			SNMPOIDPatterns: map[string]string{
				"SNMPv2-MIB::sysDescr.0": `access point|iap|aruba ap`,
			},
			HostnamePatterns: []string{`iap|ap\d`},
		},
		{
			ID:           "mikrotik_router",
			DeviceType:   "networking",
			Manufacturer: "MikroTik",
			Model:        "RouterBOARD",
			MACPrefixes:  []string{"4C:5E:0C", "64:D1:54", "E4:8D:8C", "CC:2D:E0", "B8:69:F4", "DC:2C:6E"},
			OpenPorts:    []int{8291, 8728, 22, 80},
			SNMPOIDPatterns: map[string]string{
				"SNMPv2-MIB::sysDescr.0": `routeros|mikrotik`,
			},
			ContentIndicators: []string{"routeros", "mikrotik"},
			HostnamePatterns:  []string{`mikrotik|routerboard`},
		},
		{
			ID:           "avm_fritzbox",
			DeviceType:   "networking",
			Manufacturer: "AVM",
			Model:        "FRITZ!Box",
			MACPrefixes:  []string{"C8:0E:14", "3C:A6:2F", "38:10:D5", "E0:28:6D", "CC:CE:1E"},
			OpenPorts:    []int{80, 443, 53, 49000},
			ContentIndicators: []string{"fritz!box", "fritzbox", "avm"},
			HostnamePatterns:  []string{`fritz`},
		},
		{
			ID:           "dlink_router",
			DeviceType:   "networking",
			Manufacturer: "D-Link",
			Model:        "Router",
			MACPrefixes:  []string{"00:05:5D", "00:13:46", "00:17:9A", "00:21:91", "14:D6:4D", "1C:7E:E5"},
			OpenPorts:    []int{80, 443, 53},
			HTTPHeaderPatterns: map[string]string{
				"Server": `d-?link|mathopd`,
			},
			ContentIndicators: []string{"d-link", "dlink"},
		},
		{
			ID:           "asus_router",
			DeviceType:   "networking",
			Manufacturer: "Asus",
			Model:        "Router",
			MACPrefixes:  []string{"04:D4:C4", "08:60:6E", "1C:87:2C", "2C:FD:A1", "50:EB:F6", "AC:9E:17"},
			OpenPorts:    []int{80, 443, 53},
			HTTPHeaderPatterns: map[string]string{
				"Server": `httpd|asus`,
			},
			ContentIndicators: []string{"asuswrt", "asus router", "rt-ax", "rt-ac"},
			HostnamePatterns:  []string{`rt-a|asus`},
		},
		{
			ID:           "linksys_router",
			DeviceType:   "networking",
			Manufacturer: "Linksys",
			Model:        "Router",
			MACPrefixes:  []string{"00:25:9C", "58:6D:8F", "20:AA:4B", "C0:C1:C0", "00:14:BF"},
			OpenPorts:    []int{80, 443, 53},
			ContentIndicators: []string{"linksys", "smart wi-fi"},
			HostnamePatterns:  []string{`linksys`},
		},
		{
			ID:           "grandstream_voip",
			DeviceType:   "voip",
			Manufacturer: "Grandstream",
			Model:        "IP Phone",
			MACPrefixes:  []string{"00:0B:82", "C0:74:AD"},
			OpenPorts:    []int{80, 443, 5060},
			HTTPHeaderPatterns: map[string]string{
				"Server": `grandstream`,
			},
			ContentIndicators: []string{"grandstream"},
		},
		{
			ID:           "hikvision_camera",
			DeviceType:   "camera",
			Manufacturer: "Hikvision",
			Model:        "IP Camera",
			MACPrefixes:  []string{"C0:56:E3", "44:19:B6", "28:57:BE"},
			OpenPorts:    []int{554, 8000, 80},
			HTTPHeaderPatterns: map[string]string{
				"Server": `hikvision|dnvrs`,
			},
			ContentIndicators: []string{"hikvision"},
		},
		{
			ID:           "axis_camera",
			DeviceType:   "camera",
			Manufacturer: "Axis",
			Model:        "Network Camera",
			MACPrefixes:  []string{"00:40:8C", "AC:CC:8E"},
			OpenPorts:    []int{554, 80, 443},
			HTTPHeaderPatterns: map[string]string{
				"Server": `axis`,
			},
			MDNSPatterns: map[string]string{
				"service_name": `axis`,
			},
			ContentIndicators: []string{"axis"},
		},
	}
}
