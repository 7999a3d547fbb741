package signatures

import "github.com/avidal-labs/lanwarden/internal/core/domain"

func mediaSignatures() []domain.Signature {
	return []domain.Signature{
		{
			ID:           "apple_tv",
			DeviceType:   "media",
			Manufacturer: "Apple",
			Model:        "Apple TV",
			MACPrefixes:  []string{"F0:18:98", "A4:83:E7", "D0:81:7A", "AC:BC:32"},
			OpenPorts:    []int{7000, 49152, 49153},
			MDNSPatterns: map[string]string{
				"service_type": `_airplay|_raop`,
				"service_name": `apple.?tv`,
			},
			HostnamePatterns: []string{`apple-?tv`},
		},
		{
			ID:           "google_chromecast",
			DeviceType:   "media",
			Manufacturer: "Google",
			Model:        "Chromecast",
			MACPrefixes:  []string{"F4:F5:D8", "54:60:09", "48:D6:D5", "30:FD:38"},
			OpenPorts:    []int{8008, 8009},
			MDNSPatterns: map[string]string{
				"service_type": `_googlecast`,
			},
			HostnamePatterns: []string{`chromecast|google-?home|google-?nest`},
		},
		{
			ID:           "sonos_speaker",
			DeviceType:   "media",
			Manufacturer: "Sonos",
			Model:        "Speaker",
			MACPrefixes:  []string{"00:0E:58", "5C:AA:FD", "78:28:CA", "94:9F:3E", "B8:E9:37"},
			OpenPorts:    []int{1400, 1443},
			HTTPHeaderPatterns: map[string]string{
				"Server": `sonos`,
			},
			MDNSPatterns: map[string]string{
				"service_type": `_sonos`,
			},
			HostnamePatterns: []string{`sonos`},
		},
		{
			ID:           "roku_player",
			DeviceType:   "media",
			Manufacturer: "Roku",
			Model:        "Streaming Player",
			MACPrefixes:  []string{"DC:3A:5E", "B0:A7:37", "CC:6D:A0", "D8:31:34", "88:DE:A9"},
			OpenPorts:    []int{8060},
			HTTPHeaderPatterns: map[string]string{
				"Server": `roku`,
			},
			MDNSPatterns: map[string]string{
				"service_type": `_roku`,
			},
			HostnamePatterns: []string{`roku`},
		},
		{
			ID:           "amazon_echo",
			DeviceType:   "media",
			Manufacturer: "Amazon",
			Model:        "Echo",
			MACPrefixes:  []string{"44:65:0D", "FC:65:DE", "74:C2:46", "68:37:E9", "40:B4:CD"},
			OpenPorts:    []int{4070, 55442, 55443},
			HostnamePatterns: []string{`echo|amazon-`},
		},
		{
			ID:           "samsung_tv",
			DeviceType:   "media",
			Manufacturer: "Samsung",
			Model:        "Smart TV",
			MACPrefixes:  []string{"8C:77:12", "5C:49:7D", "F4:7B:5E", "BC:14:85", "E8:50:8B"},
			OpenPorts:    []int{8001, 8002, 9197},
			MDNSPatterns: map[string]string{
				"service_name": `samsung`,
			},
			HostnamePatterns: []string{`samsung|tizen`},
		},
		{
			ID:           "lg_tv",
			DeviceType:   "media",
			Manufacturer: "LG",
			Model:        "webOS TV",
			MACPrefixes:  []string{"A8:23:FE", "CC:2D:8C", "10:F9:6F"},
			OpenPorts:    []int{3000, 3001, 1843},
			HostnamePatterns: []string{`lgwebostv|lg.?tv`},
		},
		{
			ID:           "sony_playstation",
			DeviceType:   "gaming",
			Manufacturer: "Sony",
			Model:        "PlayStation",
			MACPrefixes:  []string{"00:D9:D1", "BC:60:A7", "78:C8:81"},
			OpenPorts:    []int{9295, 9296, 9297},
			HostnamePatterns: []string{`ps4|ps5|playstation`},
		},
		{
			ID:           "nintendo_switch",
			DeviceType:   "gaming",
			Manufacturer: "Nintendo",
			Model:        "Switch",
			MACPrefixes:  []string{"98:B6:E9", "7C:BB:8A"},
			HostnamePatterns: []string{`nintendo|switch`},
			MACRequired:      true,
		},
		{
			ID:           "microsoft_xbox",
			DeviceType:   "gaming",
			Manufacturer: "Microsoft",
			Model:        "Xbox",
			MACPrefixes:  []string{"98:5F:D3", "60:45:BD"},
			OpenPorts:    []int{3074},
			HostnamePatterns: []string{`xbox`},
		},
	}
}
