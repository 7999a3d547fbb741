package signatures

import "github.com/avidal-labs/lanwarden/internal/core/domain"

func smartHomeSignatures() []domain.Signature {
	return []domain.Signature{
		{
			ID:           "philips_hue_bridge",
			DeviceType:   "lighting",
			Manufacturer: "Philips",
			Model:        "Hue Bridge",
			MACPrefixes:  []string{"00:17:88", "EC:B5:FA"},
			OpenPorts:    []int{80, 443},
			MDNSPatterns: map[string]string{
				"service_type": `_hue|_hap`,
			},
			ContentIndicators: []string{"hue personal wireless lighting", "philips hue"},
			HostnamePatterns:  []string{`hue|philips`},
		},
		{
			ID:           "nest_thermostat",
			DeviceType:   "thermostat",
			Manufacturer: "Nest",
			Model:        "Thermostat",
			MACPrefixes:  []string{"18:B4:30", "64:16:66"},
			HostnamePatterns: []string{`nest`},
			MACRequired:      true,
		},
		{
			ID:           "ecobee_thermostat",
			DeviceType:   "thermostat",
			Manufacturer: "Ecobee",
			Model:        "Thermostat",
			MACPrefixes:  []string{"44:61:32"},
			HostnamePatterns: []string{`ecobee`},
			MACRequired:      true,
		},
		{
			ID:           "ring_doorbell",
			DeviceType:   "camera",
			Manufacturer: "Ring",
			Model:        "Doorbell",
			MACPrefixes:  []string{"54:E0:19"},
			HostnamePatterns: []string{`ring`},
			MACRequired:      true,
		},
		{
			ID:           "wyze_camera",
			DeviceType:   "camera",
			Manufacturer: "Wyze",
			Model:        "Cam",
			MACPrefixes:  []string{"2C:AA:8E"},
			HostnamePatterns: []string{`wyze`},
			MACRequired:      true,
		},
		{
			ID:           "belkin_wemo",
			DeviceType:   "smart_plug",
			Manufacturer: "Belkin",
			Model:        "WeMo",
			MACPrefixes:  []string{"94:10:3E", "EC:1A:59", "08:86:3B", "14:91:82"},
			OpenPorts:    []int{49152, 49153},
			ContentIndicators: []string{"wemo", "belkin"},
			HostnamePatterns:  []string{`wemo`},
		},
		{
			ID:           "lifx_bulb",
			DeviceType:   "lighting",
			Manufacturer: "LIFX",
			Model:        "Bulb",
			MACPrefixes:  []string{"D0:73:D5"},
			HostnamePatterns: []string{`lifx`},
			MACRequired:      true,
		},
		{
			ID:           "espressif_device",
			DeviceType:   "iot",
			Manufacturer: "Espressif",
			MACPrefixes:  []string{"24:0A:C4", "30:AE:A4", "A0:20:A6", "84:CC:A8"},
			OpenPorts:    []int{80},
			HostnamePatterns: []string{`esp_?\w*|tasmota|shelly`},
		},
		{
			ID:           "raspberry_pi",
			DeviceType:   "computer",
			Manufacturer: "Raspberry Pi",
			MACPrefixes:  []string{"B8:27:EB", "DC:A6:32", "E4:5F:01", "28:CD:C1", "D8:3A:DD"},
			OpenPorts:    []int{22},
			HostnamePatterns: []string{`raspberrypi|rpi|pi\d?`},
		},
	}
}
