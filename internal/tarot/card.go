package tarot

import "fmt"

// Suit identifies one of the five tarot suits.
type Suit string

const (
	SuitMajor     Suit = "major"
	SuitCups      Suit = "cups"
	SuitSwords    Suit = "swords"
	SuitWands     Suit = "wands"
	SuitPentacles Suit = "pentacles"
)

// NormalizeSuit maps external suit spellings ("Majors", "Cups", ...)
// to the internal form. Unknown names return ErrUnknownSuit.
func NormalizeSuit(s string) (Suit, error) {
	switch s {
	case "Majors", "majors", "Major", "major":
		return SuitMajor, nil
	case "Cups", "cups":
		return SuitCups, nil
	case "Swords", "swords":
		return SuitSwords, nil
	case "Wands", "wands":
		return SuitWands, nil
	case "Pentacles", "pentacles":
		return SuitPentacles, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSuit, s)
}

// Card is a single tarot card instance. Identity is (Name, Suit,
// Number); Reversed and Position are instance-local state set while a
// card is being drawn and placed.
type Card struct {
	Name     string `json:"name"`
	Suit     Suit   `json:"suit"`
	Number   int    `json:"number"`
	Reversed bool   `json:"reversed"`
	Position string `json:"position,omitempty"`
}

// SetReversed sets the card's orientation.
func (c *Card) SetReversed(reversed bool) {
	c.Reversed = reversed
}

// InPosition assigns a spread position name and returns the card for
// chaining.
func (c *Card) InPosition(position string) *Card {
	c.Position = position
	return c
}

// SameIdentity reports whether two cards are the same catalog card,
// ignoring orientation and position.
func (c Card) SameIdentity(other Card) bool {
	return c.Name == other.Name && c.Suit == other.Suit && c.Number == other.Number
}

// IsMajor reports whether the card belongs to the major arcana.
func (c Card) IsMajor() bool { return c.Suit == SuitMajor }

// IsMinor reports whether the card is a numbered minor arcana card.
func (c Card) IsMinor() bool { return c.Suit != SuitMajor && c.Number <= 10 }

// IsCourt reports whether the card is a court card.
func (c Card) IsCourt() bool { return c.Suit != SuitMajor && c.Number > 10 }

// DisplayName returns the card name, prefixed when reversed.
func (c Card) DisplayName() string {
	if c.Reversed {
		return "↓ " + c.Name
	}
	return c.Name
}

// Code returns the two-digit asset code for the card (m00, c05, w12).
func (c Card) Code() string {
	var prefix string
	switch c.Suit {
	case SuitMajor:
		prefix = "m"
	case SuitCups:
		prefix = "c"
	case SuitSwords:
		prefix = "s"
	case SuitWands:
		prefix = "w"
	case SuitPentacles:
		prefix = "p"
	}
	return fmt.Sprintf("%s%02d", prefix, c.Number)
}

// Orientation returns the meaning-document branch key for the card's
// current orientation.
func (c Card) Orientation() string {
	if c.Reversed {
		return "reversed"
	}
	return "upright"
}

// Record is the serialized card shape stored in save files.
type Record struct {
	Name     string `json:"name"`
	Number   int    `json:"number"`
	Reversed bool   `json:"reversed"`
	Suit     string `json:"suit"`
}

// Record serializes the card into its save-file shape.
func (c Card) Record() Record {
	return Record{
		Name:     c.Name,
		Number:   c.Number,
		Reversed: c.Reversed,
		Suit:     string(c.Suit),
	}
}

// FromRecord restores a card from its save-file shape. Round-trips
// exactly with Record.
func FromRecord(r Record) (Card, error) {
	suit, err := NormalizeSuit(r.Suit)
	if err != nil {
		return Card{}, err
	}
	return Card{
		Name:     r.Name,
		Suit:     suit,
		Number:   r.Number,
		Reversed: r.Reversed,
	}, nil
}
