package tarot

import (
	"errors"
	"testing"
)

// TestLookup tests spread catalog lookup
func TestLookup(t *testing.T) {
	_, spreads := testCatalogs(t)

	spread, err := spreads.Lookup("past-present-future")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(spread.Positions) != 3 {
		t.Errorf("Expected 3 positions, got %d", len(spread.Positions))
	}

	if _, err := spreads.Lookup("no-such-spread"); !errors.Is(err, ErrSpreadNotFound) {
		t.Errorf("Expected ErrSpreadNotFound, got %v", err)
	}
}

// TestSpreadMergesLayoutCoordinates tests the index-by-index merge
func TestSpreadMergesLayoutCoordinates(t *testing.T) {
	_, spreads := testCatalogs(t)

	spread, err := spreads.Lookup("past-present-future")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	wantX := []float64{0.2, 0.5, 0.8}
	wantNames := []string{"Past", "Present", "Future"}
	for i, pos := range spread.Positions {
		if pos.X != wantX[i] {
			t.Errorf("Position %d: expected x %.1f, got %.1f", i, wantX[i], pos.X)
		}
		if pos.Y != 0.5 {
			t.Errorf("Position %d: expected y 0.5, got %.1f", i, pos.Y)
		}
		if pos.Name != wantNames[i] {
			t.Errorf("Position %d: expected name %q, got %q", i, wantNames[i], pos.Name)
		}
		if pos.RagMapping == "" {
			t.Errorf("Position %d: missing rag mapping", i)
		}
	}
}

// TestSpreadOptionalCoordinateFields tests rotation/zIndex passthrough
func TestSpreadOptionalCoordinateFields(t *testing.T) {
	_, spreads := testCatalogs(t)

	spread, err := spreads.Lookup("crossroads")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	crossing := spread.Positions[1]
	if crossing.Rotation == nil || *crossing.Rotation != 90 {
		t.Error("Expected rotation 90 on the crossing position")
	}
	if crossing.ZIndex == nil || *crossing.ZIndex != 2 {
		t.Error("Expected zIndex 2 on the crossing position")
	}

	first := spread.Positions[2]
	if first.Rotation != nil || first.ZIndex != nil {
		t.Error("Expected absent rotation/zIndex to stay nil")
	}
}

// TestParseSpreadCatalogMissingLayout tests the layout reference check
func TestParseSpreadCatalogMissingLayout(t *testing.T) {
	raw := []byte(`{
		"spreads": [{"id": "s", "name": "S", "layout": "ghost", "positions": [{"name": "P"}]}],
		"layouts": {}
	}`)

	_, err := ParseSpreadCatalog(raw)
	if !errors.Is(err, ErrLayoutNotFound) {
		t.Errorf("Expected ErrLayoutNotFound, got %v", err)
	}
}

// TestParseSpreadCatalogCountMismatch tests the load-time position count check
func TestParseSpreadCatalogCountMismatch(t *testing.T) {
	raw := []byte(`{
		"spreads": [{"id": "s", "name": "S", "layout": "row", "positions": [{"name": "A"}, {"name": "B"}]}],
		"layouts": {"row": {"positions": [{"x": 0.5, "y": 0.5}]}}
	}`)

	if _, err := ParseSpreadCatalog(raw); err == nil {
		t.Error("Expected load failure for position count mismatch")
	}
}

// TestMergeWithCardsPrefix tests partial merges for incremental reveals
func TestMergeWithCardsPrefix(t *testing.T) {
	_, spreads := testCatalogs(t)
	spread, _ := spreads.Lookup("past-present-future")

	cards := []Card{
		{Name: "The Fool", Suit: SuitMajor, Number: 0},
		{Name: "Death", Suit: SuitMajor, Number: 13},
	}

	positioned := spread.MergeWithCards(cards)
	if len(positioned) != 2 {
		t.Fatalf("Expected 2 positioned cards, got %d", len(positioned))
	}
	if positioned[0].Position.Name != "Past" || positioned[1].Position.Name != "Present" {
		t.Error("Positioned cards not aligned to spread order")
	}

	if got := spread.MergeWithCards(nil); len(got) != 0 {
		t.Errorf("Expected empty merge for no cards, got %d", len(got))
	}
}

// TestSpreadCatalogOrder tests definition-order iteration
func TestSpreadCatalogOrder(t *testing.T) {
	_, spreads := testCatalogs(t)

	ids := spreads.IDs()
	if len(ids) == 0 || ids[0] != "single-card" {
		t.Errorf("Expected definition order starting with single-card, got %v", ids)
	}
	if len(spreads.All()) != len(ids) {
		t.Error("All() and IDs() disagree on catalog size")
	}
}
