package characters

import (
	"github.com/arcanum-games/parlor/internal/attr"
)

// Session tracks the quality, atmosphere and focus of one reading
// session. It resets between clients.
type Session struct {
	CurrentClient string `json:"current_client"`

	Atmosphere       attr.Attribute `json:"atmosphere"`
	Quality          attr.Attribute `json:"quality"`
	Pacing           attr.Attribute `json:"pacing"`
	RoomEnergy       attr.Attribute `json:"room_energy"`
	TechInterference attr.Attribute `json:"tech_interference"`

	// Interpretive focus counters accumulate without bounds.
	MysticalFocus   int `json:"mystical_focus"`
	SystemicFocus   int `json:"systemic_focus"`
	RelationalFocus int `json:"relational_focus"`
	PracticalFocus  int `json:"practical_focus"`
	DismissiveFocus int `json:"dismissive_focus"`

	WeatherIntensity int `json:"weather_intensity"`

	PastCard    string `json:"past_card,omitempty"`
	PresentCard string `json:"present_card,omitempty"`
	FutureCard  string `json:"future_card,omitempty"`

	DeepRevelationOccurred bool `json:"deep_revelation_occurred"`
	ClientWalkedOut        bool `json:"client_walked_out"`
	MysticalEventHappened  bool `json:"mystical_event_happened"`
}

// NewSession creates a fresh session for a client, randomizing the
// weather and applying character-specific environmental modifiers.
func NewSession(client *Client, rng RNG) *Session {
	s := &Session{
		CurrentClient:    client.Name,
		Atmosphere:       attr.New(0, -3, 5),
		Quality:          attr.New(0, 0, 5),
		Pacing:           attr.New(0, -2, 2),
		RoomEnergy:       attr.New(0, -2, 5),
		TechInterference: attr.New(0, 0, 5),
		WeatherIntensity: rng.Intn(4),
	}

	// Nyx brings tech problems.
	if client.Kind == KindNyx {
		s.TechInterference.Set(1)
	}

	return s
}

// DominantFocus returns the interpretive lens that dominated the
// session. Ties resolve toward the mystical end of the list.
func (s *Session) DominantFocus() string {
	focuses := []struct {
		name  string
		value int
	}{
		{"mystical", s.MysticalFocus},
		{"systemic", s.SystemicFocus},
		{"relational", s.RelationalFocus},
		{"practical", s.PracticalFocus},
		{"dismissive", s.DismissiveFocus},
	}

	best := focuses[0]
	for _, f := range focuses[1:] {
		if f.value > best.value {
			best = f
		}
	}
	return best.name
}

// IsHighQuality reports whether the session went well.
func (s *Session) IsHighQuality() bool { return s.Quality.Value >= 3 }

// IsExcellent reports an exceptional session.
func (s *Session) IsExcellent() bool { return s.Quality.Value >= 4 }

// IsMystical reports strong mystical energy in the room.
func (s *Session) IsMystical() bool {
	return s.RoomEnergy.Value >= 3 || s.MysticalFocus >= 4
}

// IsTense reports a hostile or uncomfortable atmosphere.
func (s *Session) IsTense() bool { return s.Atmosphere.Value < 0 }

// AllCardsDrawn reports whether the full three-card spread is revealed.
func (s *Session) AllCardsDrawn() bool {
	return s.PastCard != "" && s.PresentCard != "" && s.FutureCard != ""
}

// Cards returns the drawn cards in spread order, skipping empty slots.
func (s *Session) Cards() []string {
	var cards []string
	for _, c := range []string{s.PastCard, s.PresentCard, s.FutureCard} {
		if c != "" {
			cards = append(cards, c)
		}
	}
	return cards
}
