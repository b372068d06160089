package tarot

import "fmt"

// ReadingOptions configures how a reading draws its cards.
type ReadingOptions struct {
	// Decks supplies one deck per spread position for curated draws.
	// When nil, every position draws from a fresh full-catalog deck.
	Decks []*Deck
	// AllowRepeats permits the same card identity at multiple
	// positions. When false, cards drawn earlier in the reading are
	// excluded from later position pools even across distinct decks.
	AllowRepeats bool
}

// Reading orchestrates one spread against one deck per position and
// merges drawn cards with position metadata and meaning lookups.
type Reading struct {
	Spread *Spread

	catalog      *Catalog
	decks        []*Deck
	allowRepeats bool
	drawn        []Card
}

// NewReading binds a spread by id and prepares position decks.
func NewReading(catalog *Catalog, spreads *SpreadCatalog, spreadID string, opts ReadingOptions) (*Reading, error) {
	spread, err := spreads.Lookup(spreadID)
	if err != nil {
		return nil, err
	}

	decks := opts.Decks
	if decks == nil {
		decks = make([]*Deck, len(spread.Positions))
		for i := range decks {
			decks[i] = NewDeck(catalog)
		}
	} else if len(decks) != len(spread.Positions) {
		return nil, fmt.Errorf("%w: %d decks for %d positions in %q",
			ErrDeckCountMismatch, len(decks), len(spread.Positions), spreadID)
	}

	return &Reading{
		Spread:       spread,
		catalog:      catalog,
		decks:        decks,
		allowRepeats: opts.AllowRepeats,
	}, nil
}

// DrawCards draws one card per spread position, in spread-definition
// order. The decks themselves are never mutated: without repeats, each
// position's pool excludes every card already drawn earlier in this
// reading, so a deck shared across positions still yields distinct
// cards; with repeats allowed the full pool is sampled every time. An
// exhausted pool fails with a position-scoped NoCardsError. Returns
// exactly one card per position.
func (r *Reading) DrawCards(rng RNG) ([]Card, error) {
	for p := range r.Spread.Positions {
		pool := r.decks[p].Cards()
		if !r.allowRepeats {
			filtered := pool[:0]
			for _, c := range pool {
				if !r.alreadyDrawn(c) {
					filtered = append(filtered, c)
				}
			}
			pool = filtered
		}

		if len(pool) == 0 {
			return nil, &NoCardsError{Position: p}
		}

		card := pool[rng.Intn(len(pool))]
		card.InPosition(r.Spread.Positions[p].Name)
		r.drawn = append(r.drawn, card)
	}

	return r.DrawnCards(), nil
}

// DrawnCards returns a copy of the cards drawn so far, index-aligned
// to spread positions.
func (r *Reading) DrawnCards() []Card {
	drawn := make([]Card, len(r.drawn))
	copy(drawn, r.drawn)
	return drawn
}

// Resolve merges each drawn card with its position metadata, the core
// meaning branch for its orientation, and the position-specific meaning
// resolved through the position's mapping path. Missing meaning text
// degrades to empty fields rather than failing the reading.
func (r *Reading) Resolve() []PositionedCard {
	positioned := r.Spread.MergeWithCards(r.drawn)

	for i := range positioned {
		card := positioned[i].Card
		doc := r.catalog.Meaning(card)
		positioned[i].CoreMeaning = doc.Core(card.Orientation())
		positioned[i].PositionMeaning = doc.PositionMeaning(positioned[i].Position.RagMapping, card.Orientation())
	}

	return positioned
}

func (r *Reading) alreadyDrawn(card Card) bool {
	for _, d := range r.drawn {
		if d.SameIdentity(card) {
			return true
		}
	}
	return false
}

// DrawRandom draws count cards from a fresh full deck, applying a 30%
// reversal chance to each. Convenience for beats that want loose cards
// outside a spread.
func DrawRandom(catalog *Catalog, count int, rng RNG) ([]Card, error) {
	deck := NewDeck(catalog)
	drawn, err := deck.DrawMany(count, rng)
	if err != nil {
		return nil, err
	}
	for i := range drawn {
		if rng.Intn(10) < 3 {
			drawn[i].SetReversed(true)
		}
	}
	return drawn, nil
}
