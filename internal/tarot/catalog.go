package tarot

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strconv"
	"sync"
)

//go:embed data
var defaultFS embed.FS

// cardFile is the on-disk shape of the card roster. Numbers are strings
// in the source data.
type cardFile struct {
	Cards []struct {
		Name   string `json:"name"`
		Number string `json:"number"`
		Suit   string `json:"suit"`
	} `json:"cards"`
}

// Catalog is the immutable registry of the 78-card set plus lazily
// loaded per-card meaning documents. Loaded once at startup and shared
// by reference across all readings.
type Catalog struct {
	cards []Card
	fsys  fs.FS

	mu       sync.Mutex
	meanings map[string]*MeaningDoc
}

// LoadCatalog reads cards.json from fsys and prepares lazy meaning
// lookup against meanings/<code>.json in the same filesystem.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, "cards.json")
	if err != nil {
		return nil, fmt.Errorf("read card roster: %w", err)
	}

	var file cardFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse card roster: %w", err)
	}

	cards := make([]Card, 0, len(file.Cards))
	for _, entry := range file.Cards {
		number, err := strconv.Atoi(entry.Number)
		if err != nil {
			return nil, fmt.Errorf("card %q: invalid number %q", entry.Name, entry.Number)
		}
		suit, err := NormalizeSuit(entry.Suit)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", entry.Name, err)
		}
		cards = append(cards, Card{Name: entry.Name, Suit: suit, Number: number})
	}

	return &Catalog{
		cards:    cards,
		fsys:     fsys,
		meanings: make(map[string]*MeaningDoc),
	}, nil
}

// DefaultCatalogs loads the embedded card roster and spread
// configuration shipped with the binary.
func DefaultCatalogs() (*Catalog, *SpreadCatalog, error) {
	sub, err := fs.Sub(defaultFS, "data")
	if err != nil {
		return nil, nil, err
	}
	return LoadCatalogs(sub)
}

// LoadCatalogs loads both the card catalog and the spread catalog from
// a data directory (cards.json, spreads.json, meanings/).
func LoadCatalogs(fsys fs.FS) (*Catalog, *SpreadCatalog, error) {
	catalog, err := LoadCatalog(fsys)
	if err != nil {
		return nil, nil, err
	}
	spreads, err := LoadSpreadCatalog(fsys)
	if err != nil {
		return nil, nil, err
	}
	return catalog, spreads, nil
}

// Cards returns a copy of the full roster.
func (c *Catalog) Cards() []Card {
	cards := make([]Card, len(c.cards))
	copy(cards, c.cards)
	return cards
}

// Size returns the roster size.
func (c *Catalog) Size() int { return len(c.cards) }

// ByName returns the roster card with the given name.
func (c *Catalog) ByName(name string) (Card, bool) {
	for _, card := range c.cards {
		if card.Name == name {
			return card, true
		}
	}
	return Card{}, false
}

// Meaning returns the meaning document for a card, loading and caching
// it on first use. A missing or malformed document is logged and cached
// as an empty document; readings still resolve without enriched text.
func (c *Catalog) Meaning(card Card) *MeaningDoc {
	code := card.Code()

	c.mu.Lock()
	defer c.mu.Unlock()

	if doc, ok := c.meanings[code]; ok {
		return doc
	}

	doc := &MeaningDoc{}
	raw, err := fs.ReadFile(c.fsys, "meanings/"+code+".json")
	if err != nil {
		log.Printf("Warning: meaning document for %s (%s) not found", card.Name, code)
	} else if err := json.Unmarshal(raw, doc); err != nil {
		log.Printf("Warning: invalid meaning document for %s (%s): %v", card.Name, code, err)
		doc = &MeaningDoc{}
	}

	c.meanings[code] = doc
	return doc
}
