package tarot

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDeck         = errors.New("cannot draw from an empty deck")
	ErrInsufficientCards = errors.New("not enough cards in deck")
	ErrSpreadNotFound    = errors.New("spread not found")
	ErrLayoutNotFound    = errors.New("layout not found")
	ErrUnknownSuit       = errors.New("unknown suit")
	ErrDeckCountMismatch = errors.New("deck count does not match spread positions")
)

// NoCardsError reports a reading position whose candidate pool was
// exhausted after filtering out already-drawn cards.
type NoCardsError struct {
	Position int
}

func (e *NoCardsError) Error() string {
	return fmt.Sprintf("no cards available for position %d", e.Position)
}
