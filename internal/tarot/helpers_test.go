package tarot

import (
	"math/rand/v2"
	"testing"
)

// seededRNG wraps a seeded generator so draw tests are deterministic.
type seededRNG struct {
	r *rand.Rand
}

func newTestRNG(seed uint64) *seededRNG {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, seed))}
}

func (s *seededRNG) Intn(n int) int { return s.r.IntN(n) }

// testCatalogs loads the embedded roster and spread config.
func testCatalogs(t *testing.T) (*Catalog, *SpreadCatalog) {
	t.Helper()
	catalog, spreads, err := DefaultCatalogs()
	if err != nil {
		t.Fatalf("Failed to load default catalogs: %v", err)
	}
	return catalog, spreads
}
