package fingerprint

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
	"github.com/avidal-labs/lanwarden/internal/core/ports"
	"github.com/avidal-labs/lanwarden/internal/logging"
)

// Signatures with cheap identifying evidence are scored first when the
// library is at least this large.
const preFilterMinLibrary = 20

// Engine ranks signature matches for an observation. The signature slice is
// immutable after construction; Identify is safe for concurrent use.
type Engine struct {
	sigs []domain.Signature
	log  zerolog.Logger
}

func NewEngine(sigs []domain.Signature) *Engine {
	return &Engine{
		sigs: sigs,
		log:  logging.WithComponent("fingerprint"),
	}
}

// Identify scores the observation against the library and returns matches
// with non-zero confidence, best first. Equal confidences keep library
// order, so more specific signatures should be registered before generic
// ones.
func (e *Engine) Identify(obs domain.Observation) []domain.SignatureMatch {
	candidates := e.preFilter(&obs)

	matches := make([]domain.SignatureMatch, 0, 4)
	for _, idx := range candidates {
		sig := &e.sigs[idx]
		confidence := Score(&obs, sig)
		if confidence <= 0 {
			continue
		}
		matches = append(matches, domain.SignatureMatch{
			SignatureID:  sig.ID,
			DeviceType:   sig.DeviceType,
			Manufacturer: sig.Manufacturer,
			Model:        sig.Model,
			Confidence:   confidence,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	if len(matches) > 0 {
		e.log.Debug().
			Str("ip", obs.IP).
			Str("best", matches[0].SignatureID).
			Float64("confidence", matches[0].Confidence).
			Int("candidates", len(candidates)).
			Msg("ranked signature matches")
	}
	return matches
}

// preFilter narrows the candidate set on cheap evidence before scoring.
// OUI hits are kept first; port-overlap hits are added while the kept set
// stays under half the library. An empty result falls back to the full
// library, so filtering can only skip work, never change a score.
func (e *Engine) preFilter(obs *domain.Observation) []int {
	all := func() []int {
		idx := make([]int, len(e.sigs))
		for i := range e.sigs {
			idx[i] = i
		}
		return idx
	}
	if len(e.sigs) < preFilterMinLibrary {
		return all()
	}

	keep := make([]bool, len(e.sigs))
	kept := 0
	for i := range e.sigs {
		if macPrefixHit(obs.MAC, e.sigs[i].MACPrefixes) {
			keep[i] = true
			kept++
		}
	}

	if kept < len(e.sigs)/2 {
		for i := range e.sigs {
			if keep[i] {
				continue
			}
			for _, p := range e.sigs[i].OpenPorts {
				if obs.HasOpenPort(p) {
					keep[i] = true
					kept++
					break
				}
			}
		}
	}

	if kept == 0 {
		return all()
	}

	// Library order is preserved for stable tie-breaks.
	idx := make([]int, 0, kept)
	for i := range e.sigs {
		if keep[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

// SignatureCount returns the library size.
func (e *Engine) SignatureCount() int { return len(e.sigs) }

// Families returns the signature count per device type.
func (e *Engine) Families() map[string]int {
	families := make(map[string]int)
	for i := range e.sigs {
		families[e.sigs[i].DeviceType]++
	}
	return families
}

// ContentIndicators returns signature_id -> body substrings, consumed by
// the HTTP probe when it synthesizes X-Content-Indicator headers.
func (e *Engine) ContentIndicators() map[string][]string {
	out := make(map[string][]string)
	for i := range e.sigs {
		if len(e.sigs[i].ContentIndicators) > 0 {
			out[e.sigs[i].ID] = e.sigs[i].ContentIndicators
		}
	}
	return out
}

var _ ports.FingerprintEngine = (*Engine)(nil)
