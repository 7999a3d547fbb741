package fingerprint

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidal-labs/lanwarden/internal/adapters/fingerprint/signatures"
	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

func TestIdentifyDreamMachinePro(t *testing.T) {
	engine := NewEngine(signatures.All())

	obs := domain.Observation{
		IP:        "192.168.1.1",
		MAC:       "24:a4:3c:10:20:30",
		OpenPorts: []int{22, 80, 443, 8080, 8443},
		HTTP: map[string]string{
			"Server":                            "UniFi Network",
			"X-Content-Indicator-unifi_udm_pro": "true",
		},
		SNMP: map[string]string{
			"SNMPv2-MIB::sysDescr.0": "UniFi Dream Machine Pro",
		},
	}

	matches := engine.Identify(obs)
	require.NotEmpty(t, matches)
	best := matches[0]
	assert.Equal(t, "unifi_udm_pro", best.SignatureID)
	assert.Equal(t, "networking", best.DeviceType)
	assert.Greater(t, best.Confidence, 0.80)
}

func TestIdentifyArubaSwitchOverAccessPoint(t *testing.T) {
	engine := NewEngine(signatures.All())

	// Same OUI and port shape for both Aruba entries; sysDescr is the
	// disambiguator.
	obs := domain.Observation{
		IP:        "192.168.1.2",
		MAC:       "94:b4:0f:aa:bb:cc",
		OpenPorts: []int{22, 80, 443, 161},
		SNMP: map[string]string{
			"SNMPv2-MIB::sysDescr.0": "Aruba JL258A 2930F Switch",
		},
	}

	matches := engine.Identify(obs)
	require.NotEmpty(t, matches)
	assert.Equal(t, "aruba_switch", matches[0].SignatureID)

	var apConfidence, switchConfidence float64
	for _, m := range matches {
		switch m.SignatureID {
		case "aruba_switch":
			switchConfidence = m.Confidence
		case "aruba_ap":
			apConfidence = m.Confidence
		}
	}
	assert.Greater(t, switchConfidence, apConfidence)
}

func TestIdentifyNoEvidence(t *testing.T) {
	engine := NewEngine(signatures.All())
	matches := engine.Identify(domain.Observation{IP: "192.168.1.3", MAC: "02:00:00:00:00:01"})
	assert.Empty(t, matches)
}

func TestIdentifySortedDescending(t *testing.T) {
	engine := NewEngine(signatures.All())
	obs := domain.Observation{
		MAC:       "24:a4:3c:10:20:30",
		OpenPorts: []int{22, 80, 443},
	}
	matches := engine.Identify(obs)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Confidence, matches[i].Confidence)
	}
}

func TestIdentifyStableTieBreakKeepsLibraryOrder(t *testing.T) {
	// Two identical signatures: equal confidence, registration order wins.
	sigs := []domain.Signature{
		{ID: "first", DeviceType: "media", OpenPorts: []int{8009}},
		{ID: "second", DeviceType: "media", OpenPorts: []int{8009}},
	}
	engine := NewEngine(sigs)

	matches := engine.Identify(domain.Observation{
		MAC:       "aa:bb:cc:dd:ee:ff",
		OpenPorts: []int{8009},
	})
	require.Len(t, matches, 2)
	assert.Equal(t, "first", matches[0].SignatureID)
	assert.Equal(t, matches[0].Confidence, matches[1].Confidence)
}

func TestPreFilterNeverChangesScores(t *testing.T) {
	// Build a library big enough to trigger the pre-filter, with one
	// signature only reachable through full scoring (no cheap evidence).
	var sigs []domain.Signature
	for i := 0; i < 30; i++ {
		sigs = append(sigs, domain.Signature{
			ID:          fmt.Sprintf("filler_%d", i),
			DeviceType:  "other",
			MACPrefixes: []string{fmt.Sprintf("0000%02X", i)},
		})
	}
	sigs = append(sigs, domain.Signature{
		ID:         "headers_only",
		DeviceType: "printer",
		HTTPHeaderPatterns: map[string]string{
			"Server": "ipp",
		},
	})
	engine := NewEngine(sigs)

	// No OUI or port evidence at all: the filter must fall back to the
	// full library and still find the header-only match.
	matches := engine.Identify(domain.Observation{
		MAC:  "ff:ff:ff:00:00:01",
		HTTP: map[string]string{"Server": "IPP/2.0"},
	})
	require.Len(t, matches, 1)
	assert.Equal(t, "headers_only", matches[0].SignatureID)
}

func TestLibraryLoadsDeduplicated(t *testing.T) {
	all := signatures.All()
	require.NotEmpty(t, all)

	seen := map[string]bool{}
	for _, sig := range all {
		assert.False(t, seen[sig.ID], "duplicate signature id %s", sig.ID)
		seen[sig.ID] = true
		assert.NotEmpty(t, sig.DeviceType, "%s has no device type", sig.ID)
		for _, p := range sig.MACPrefixes {
			assert.Len(t, p, 6, "%s prefix %q not normalized", sig.ID, p)
		}
	}

	assert.Equal(t, len(all), signatures.Count())
	assert.NotNil(t, signatures.ByID(all[0].ID))
	assert.Nil(t, signatures.ByID("no_such_signature"))
}

func TestFamiliesCounts(t *testing.T) {
	engine := NewEngine(signatures.All())
	families := engine.Families()
	total := 0
	for _, n := range families {
		total += n
	}
	assert.Equal(t, engine.SignatureCount(), total)
	assert.Greater(t, families["networking"], 0)
	assert.Greater(t, families["nas"], 0)
}
