package game

import (
	"fmt"

	"github.com/arcanum-games/parlor/internal/tarot"
)

// DeckSpec describes a curated per-position deck for a reading request.
type DeckSpec struct {
	// Kind selects the deck constructor: "full", "major", "suit",
	// "numbers" or "names".
	Kind string `json:"kind"`
	// Suit restricts "suit" decks, and optionally "numbers" decks.
	Suit string `json:"suit,omitempty"`
	// Min and Max bound card numbers for "numbers" decks.
	Min int `json:"min,omitempty"`
	Max int `json:"max,omitempty"`
	// Names lists explicit cards for "names" decks.
	Names []string `json:"names,omitempty"`
}

// Build constructs the deck described by the spec against a catalog.
func (s DeckSpec) Build(catalog *tarot.Catalog) (*tarot.Deck, error) {
	switch s.Kind {
	case "", "full":
		return tarot.NewDeck(catalog), nil
	case "major":
		return tarot.MajorOnly(catalog), nil
	case "suit":
		return tarot.BySuit(catalog, s.Suit)
	case "numbers":
		return tarot.ByNumbers(catalog, s.Min, s.Max, s.Suit)
	case "names":
		return tarot.FromNames(catalog, s.Names), nil
	}
	return nil, fmt.Errorf("unknown deck kind: %q", s.Kind)
}
