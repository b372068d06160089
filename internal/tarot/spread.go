package tarot

import (
	"encoding/json"
	"fmt"
	"io/fs"
)

// Position is one slot of a spread: the meaning descriptor from the
// spread definition merged with the coordinate descriptor from its
// layout. Rotation and ZIndex are optional in the source data.
type Position struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	ShortDescription string   `json:"short_description,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	RagMapping       string   `json:"rag_mapping,omitempty"`

	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Rotation *float64 `json:"rotation,omitempty"`
	ZIndex   *int     `json:"zIndex,omitempty"`
}

// Spread is a named, ordered set of reading positions with display
// metadata, built by pairing a spread definition with its layout
// index-for-index.
type Spread struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	LayoutName  string     `json:"layout"`
	CardSize    string     `json:"cardSize"`
	AspectRatio float64    `json:"aspectRatio"`
	Category    string     `json:"category"`
	Difficulty  string     `json:"difficulty"`
	Positions   []Position `json:"positions"`
}

// PositionedCard is one drawn card paired with its spread position.
type PositionedCard struct {
	Card            Card        `json:"card"`
	Position        Position    `json:"position"`
	CoreMeaning     CoreMeaning `json:"core_meaning"`
	PositionMeaning string      `json:"position_meaning"`
}

// MergeWithCards zips drawn cards with position metadata by index. A
// card list shorter than the position list produces only the
// overlapping prefix; readings may be revealed incrementally.
func (s *Spread) MergeWithCards(cards []Card) []PositionedCard {
	n := len(cards)
	if n > len(s.Positions) {
		n = len(s.Positions)
	}
	positioned := make([]PositionedCard, 0, n)
	for i := 0; i < n; i++ {
		positioned = append(positioned, PositionedCard{
			Card:     cards[i],
			Position: s.Positions[i],
		})
	}
	return positioned
}

// spreadFile is the on-disk spread configuration document.
type spreadFile struct {
	Spreads []struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Layout      string  `json:"layout"`
		CardSize    string  `json:"cardSize"`
		AspectRatio float64 `json:"aspectRatio"`
		Category    string  `json:"category"`
		Difficulty  string  `json:"difficulty"`
		Positions   []struct {
			Name             string   `json:"name"`
			Description      string   `json:"description"`
			ShortDescription string   `json:"short_description"`
			Keywords         []string `json:"keywords"`
			RagMapping       string   `json:"rag_mapping"`
		} `json:"positions"`
	} `json:"spreads"`
	Layouts map[string]struct {
		Positions []struct {
			X        float64  `json:"x"`
			Y        float64  `json:"y"`
			Rotation *float64 `json:"rotation"`
			ZIndex   *int     `json:"zIndex"`
		} `json:"positions"`
	} `json:"layouts"`
}

// SpreadCatalog is the immutable registry of spread definitions, loaded
// once at startup with layouts already merged in.
type SpreadCatalog struct {
	spreads map[string]*Spread
	order   []string
}

// LoadSpreadCatalog reads spreads.json from fsys and merges every
// spread with its referenced layout. A spread referencing a missing
// layout, or whose position count disagrees with its layout, is a
// configuration defect and fails the load.
func LoadSpreadCatalog(fsys fs.FS) (*SpreadCatalog, error) {
	raw, err := fs.ReadFile(fsys, "spreads.json")
	if err != nil {
		return nil, fmt.Errorf("read spread config: %w", err)
	}
	return ParseSpreadCatalog(raw)
}

// ParseSpreadCatalog builds a spread catalog from a raw configuration
// document.
func ParseSpreadCatalog(raw []byte) (*SpreadCatalog, error) {
	var file spreadFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse spread config: %w", err)
	}

	catalog := &SpreadCatalog{spreads: make(map[string]*Spread)}

	for _, def := range file.Spreads {
		layout, ok := file.Layouts[def.Layout]
		if !ok {
			return nil, fmt.Errorf("spread %q: %w: %q", def.ID, ErrLayoutNotFound, def.Layout)
		}
		if len(def.Positions) != len(layout.Positions) {
			return nil, fmt.Errorf("spread %q has %d positions but layout %q has %d",
				def.ID, len(def.Positions), def.Layout, len(layout.Positions))
		}

		spread := &Spread{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			LayoutName:  def.Layout,
			CardSize:    def.CardSize,
			AspectRatio: def.AspectRatio,
			Category:    def.Category,
			Difficulty:  def.Difficulty,
		}
		for i, pos := range def.Positions {
			coord := layout.Positions[i]
			spread.Positions = append(spread.Positions, Position{
				Name:             pos.Name,
				Description:      pos.Description,
				ShortDescription: pos.ShortDescription,
				Keywords:         pos.Keywords,
				RagMapping:       pos.RagMapping,
				X:                coord.X,
				Y:                coord.Y,
				Rotation:         coord.Rotation,
				ZIndex:           coord.ZIndex,
			})
		}

		catalog.spreads[spread.ID] = spread
		catalog.order = append(catalog.order, spread.ID)
	}

	return catalog, nil
}

// Lookup returns the spread with the given id.
func (c *SpreadCatalog) Lookup(spreadID string) (*Spread, error) {
	spread, ok := c.spreads[spreadID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSpreadNotFound, spreadID)
	}
	return spread, nil
}

// IDs returns all spread ids in definition order.
func (c *SpreadCatalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// All returns all spreads in definition order.
func (c *SpreadCatalog) All() []*Spread {
	spreads := make([]*Spread, 0, len(c.order))
	for _, id := range c.order {
		spreads = append(spreads, c.spreads[id])
	}
	return spreads
}
