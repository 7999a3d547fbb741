package fingerprint

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

// stubProbes counts probe invocations per IP and returns canned evidence.
type stubProbes struct {
	mu    sync.Mutex
	calls map[string]int
	http  map[string]map[string]string
}

func newStubProbes() *stubProbes {
	return &stubProbes{calls: map[string]int{}, http: map[string]map[string]string{}}
}

func (p *stubProbes) Ports(_ context.Context, ip string) []int {
	p.mu.Lock()
	p.calls[ip]++
	p.mu.Unlock()
	return []int{80}
}
func (p *stubProbes) HTTP(_ context.Context, ip string) map[string]string { return p.http[ip] }
func (p *stubProbes) SNMP(context.Context, string) map[string]string      { return nil }
func (p *stubProbes) MDNS(_ context.Context, ip string) map[string]string {
	return map[string]string{"hostname": "host-" + ip}
}

func (p *stubProbes) probeCount(ip string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[ip]
}

func testEngine() *Engine {
	return NewEngine([]domain.Signature{
		{ID: "web_thing", DeviceType: "other", OpenPorts: []int{80}},
	})
}

func TestFingerprintHostCollectsEvidence(t *testing.T) {
	probes := newStubProbes()
	probes.http["192.168.1.5"] = map[string]string{"Server": "nginx"}
	s := NewScanner(testEngine(), probes, 4)

	obs, matches, err := s.FingerprintHost(context.Background(), "192.168.1.5", "AA-BB-CC-DD-EE-FF")
	require.NoError(t, err)

	assert.Equal(t, "aa:bb:cc:dd:ee:ff", obs.MAC, "MAC is normalized")
	assert.Equal(t, []int{80}, obs.OpenPorts)
	assert.Equal(t, "nginx", obs.HTTP["Server"])
	assert.Equal(t, "host-192.168.1.5", obs.Hostname, "mDNS hostname is promoted")
	require.NotEmpty(t, matches)
	assert.Equal(t, "web_thing", matches[0].SignatureID)
}

func TestFingerprintHostInvalidMAC(t *testing.T) {
	s := NewScanner(testEngine(), newStubProbes(), 4)
	_, _, err := s.FingerprintHost(context.Background(), "192.168.1.5", "not-a-mac")
	assert.ErrorIs(t, err, ErrInvalidMAC)
}

func TestFingerprintHostsSkipsDoneSet(t *testing.T) {
	probes := newStubProbes()
	s := NewScanner(testEngine(), probes, 4)

	hosts := []domain.HostTarget{{IP: "192.168.1.5", MAC: "aa:bb:cc:dd:ee:01"}}

	first := s.FingerprintHosts(context.Background(), hosts, false)
	require.Len(t, first, 1)
	assert.False(t, first[0].Skipped)
	assert.Equal(t, 1, probes.probeCount("192.168.1.5"))

	second := s.FingerprintHosts(context.Background(), hosts, false)
	assert.True(t, second[0].Skipped, "already probed this run")
	assert.Equal(t, 1, probes.probeCount("192.168.1.5"), "no second probe")
}

func TestFingerprintHostsForceEvictsDoneSet(t *testing.T) {
	probes := newStubProbes()
	s := NewScanner(testEngine(), probes, 4)
	hosts := []domain.HostTarget{{IP: "192.168.1.5", MAC: "aa:bb:cc:dd:ee:01"}}

	s.FingerprintHosts(context.Background(), hosts, false)
	forced := s.FingerprintHosts(context.Background(), hosts, true)
	assert.False(t, forced[0].Skipped)
	assert.Equal(t, 2, probes.probeCount("192.168.1.5"))
}

func TestForgetReopensMAC(t *testing.T) {
	probes := newStubProbes()
	s := NewScanner(testEngine(), probes, 4)
	hosts := []domain.HostTarget{{IP: "192.168.1.5", MAC: "aa:bb:cc:dd:ee:01"}}

	s.FingerprintHosts(context.Background(), hosts, false)
	s.Forget("AA:BB:CC:DD:EE:01")
	again := s.FingerprintHosts(context.Background(), hosts, false)
	assert.False(t, again[0].Skipped)
}

func TestFingerprintHostsBadMACDoesNotAbortBatch(t *testing.T) {
	probes := newStubProbes()
	s := NewScanner(testEngine(), probes, 4)

	results := s.FingerprintHosts(context.Background(), []domain.HostTarget{
		{IP: "192.168.1.5", MAC: "garbage"},
		{IP: "192.168.1.6", MAC: "aa:bb:cc:dd:ee:02"},
	}, false)

	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, ErrInvalidMAC)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, 1, probes.probeCount("192.168.1.6"))
}

func TestFingerprintHostsDedupesWithinBatch(t *testing.T) {
	probes := newStubProbes()
	s := NewScanner(testEngine(), probes, 4)

	results := s.FingerprintHosts(context.Background(), []domain.HostTarget{
		{IP: "192.168.1.5", MAC: "aa:bb:cc:dd:ee:01"},
		{IP: "192.168.1.5", MAC: "AA:BB:CC:DD:EE:01"}, // same host, different casing
	}, false)

	skipped := 0
	for _, r := range results {
		if r.Skipped {
			skipped++
		}
	}
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, probes.probeCount("192.168.1.5"))
}

func TestSetWorkersResizesPool(t *testing.T) {
	s := NewScanner(testEngine(), newStubProbes(), 4)

	s.SetWorkers(2)
	assert.Equal(t, 2, s.poolSize())

	s.SetWorkers(0)
	assert.Equal(t, 2, s.poolSize(), "non-positive sizes are ignored")

	// A batch still completes with the smaller pool.
	results := s.FingerprintHosts(context.Background(), []domain.HostTarget{
		{IP: "192.168.1.7", MAC: "aa:bb:cc:dd:ee:07"},
		{IP: "192.168.1.8", MAC: "aa:bb:cc:dd:ee:08"},
		{IP: "192.168.1.9", MAC: "aa:bb:cc:dd:ee:09"},
	}, false)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.False(t, r.Skipped)
	}
}
