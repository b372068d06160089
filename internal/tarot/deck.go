package tarot

import (
	"fmt"
	"log"
)

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Deck is a mutable pool of cards drawn from the shared catalog.
// Drawing removes cards from the pool; a deck is typically built per
// reading position and discarded afterwards.
type Deck struct {
	cards []Card
}

// NewDeck creates a deck holding a copy of the full catalog roster.
func NewDeck(catalog *Catalog) *Deck {
	return &Deck{cards: catalog.Cards()}
}

// MajorOnly creates a deck of only major arcana cards.
func MajorOnly(catalog *Catalog) *Deck {
	d := &Deck{}
	for _, c := range catalog.Cards() {
		if c.IsMajor() {
			d.cards = append(d.cards, c)
		}
	}
	return d
}

// BySuit creates a deck of a single suit. The suit name accepts the
// external spellings handled by NormalizeSuit.
func BySuit(catalog *Catalog, suitName string) (*Deck, error) {
	suit, err := NormalizeSuit(suitName)
	if err != nil {
		return nil, err
	}
	d := &Deck{}
	for _, c := range catalog.Cards() {
		if c.Suit == suit {
			d.cards = append(d.cards, c)
		}
	}
	return d, nil
}

// ByNumbers creates a deck of cards whose number falls in [min, max],
// optionally restricted to one suit (pass "" for all suits).
func ByNumbers(catalog *Catalog, min, max int, suitName string) (*Deck, error) {
	var suit Suit
	if suitName != "" {
		s, err := NormalizeSuit(suitName)
		if err != nil {
			return nil, err
		}
		suit = s
	}

	d := &Deck{}
	for _, c := range catalog.Cards() {
		if c.Number < min || c.Number > max {
			continue
		}
		if suit != "" && c.Suit != suit {
			continue
		}
		d.cards = append(d.cards, c)
	}
	return d, nil
}

// FromNames creates a deck from an explicit card name list. Unknown
// names are dropped with a warning rather than failing the build.
func FromNames(catalog *Catalog, names []string) *Deck {
	d := &Deck{}
	for _, name := range names {
		card, ok := catalog.ByName(name)
		if !ok {
			log.Printf("Warning: card %q not found in catalog", name)
			continue
		}
		d.cards = append(d.cards, card)
	}
	return d
}

// Size returns the number of cards remaining in the pool.
func (d *Deck) Size() int { return len(d.cards) }

// Cards returns a copy of the remaining pool.
func (d *Deck) Cards() []Card {
	cards := make([]Card, len(d.cards))
	copy(cards, d.cards)
	return cards
}

// DrawOne removes and returns one card sampled uniformly from the pool.
func (d *Deck) DrawOne(rng RNG) (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	i := rng.Intn(len(d.cards))
	card := d.cards[i]
	d.cards = append(d.cards[:i], d.cards[i+1:]...)
	return card, nil
}

// DrawMany removes and returns n distinct cards sampled uniformly
// without replacement.
func (d *Deck) DrawMany(n int, rng RNG) ([]Card, error) {
	if n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, len(d.cards))
	}

	// Fisher-Yates partial shuffle: only the first n slots matter.
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(d.cards)-i)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}

	drawn := make([]Card, n)
	copy(drawn, d.cards[:n])
	d.cards = d.cards[n:]
	return drawn, nil
}

// Remove deletes the first card matching the given identity from the
// pool, if present.
func (d *Deck) Remove(card Card) {
	for i, c := range d.cards {
		if c.SameIdentity(card) {
			d.cards = append(d.cards[:i], d.cards[i+1:]...)
			return
		}
	}
}
