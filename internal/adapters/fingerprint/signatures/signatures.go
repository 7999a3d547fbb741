// Package signatures holds the static fingerprint library: one file per
// vendor family, pure data, no behavior. The matcher interprets it.
package signatures

import (
	"strings"
	"sync"

	"github.com/avidal-labs/lanwarden/internal/core/domain"
)

var (
	once sync.Once
	lib  []domain.Signature
	byID map[string]*domain.Signature
)

// All returns the full library, loaded once. The returned slice is shared
// and must not be mutated.
func All() []domain.Signature {
	once.Do(load)
	return lib
}

// ByID looks up one signature, or nil.
func ByID(id string) *domain.Signature {
	once.Do(load)
	return byID[id]
}

// Count returns the library size.
func Count() int {
	once.Do(load)
	return len(lib)
}

func load() {
	// Within a family, more specific models come first: the engine breaks
	// confidence ties by library order.
	groups := [][]domain.Signature{
		unifiSignatures(),
		ciscoSignatures(),
		netgearSignatures(),
		tplinkSignatures(),
		synologySignatures(),
		nasSignatures(),
		mediaSignatures(),
		printerSignatures(),
		smartHomeSignatures(),
		networkSignatures(),
	}

	// Duplicate ids keep the first registration, so ranking stays stable
	// no matter how often a family file repeats an entry.
	seen := make(map[string]bool)
	for _, group := range groups {
		for _, sig := range group {
			if seen[sig.ID] {
				continue
			}
			seen[sig.ID] = true
			sig.MACPrefixes = normalizePrefixes(sig.MACPrefixes)
			lib = append(lib, sig)
		}
	}

	byID = make(map[string]*domain.Signature, len(lib))
	for i := range lib {
		byID[lib[i].ID] = &lib[i]
	}
}

// normalizePrefixes reduces each OUI to 6 uppercase hex chars; anything
// shorter is dropped.
func normalizePrefixes(prefixes []string) []string {
	if len(prefixes) == 0 {
		return nil
	}
	cleaner := strings.NewReplacer(":", "", "-", "", ".", "", " ", "")
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.ToUpper(cleaner.Replace(p))
		if len(p) < 6 {
			continue
		}
		out = append(out, p[:6])
	}
	return out
}
