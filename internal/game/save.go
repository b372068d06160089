package game

import (
	"time"

	"github.com/arcanum-games/parlor/internal/characters"
	"github.com/arcanum-games/parlor/internal/script"
	"github.com/arcanum-games/parlor/internal/tarot"
)

// SaveVersion tags the save envelope format.
const SaveVersion = 1

// SaveState is the serializable playthrough envelope. Card state is
// stored as save records so a restored engine sees exactly the cards
// that were saved.
type SaveState struct {
	Version     int                           `json:"version"`
	Reader      *characters.Reader            `json:"reader"`
	Clients     map[string]*characters.Client `json:"clients"`
	Session     *characters.Session           `json:"session,omitempty"`
	LastReading []tarot.Record                `json:"last_reading,omitempty"`
	CreatedAt   time.Time                     `json:"created_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
}

// Save captures the playthrough state into a save envelope.
func (e *Engine) Save() *SaveState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var records []tarot.Record
	for _, card := range e.lastReading {
		records = append(records, card.Record())
	}

	return &SaveState{
		Version:     SaveVersion,
		Reader:      e.reader,
		Clients:     e.clients,
		Session:     e.session,
		LastReading: records,
		CreatedAt:   e.createdAt,
		UpdatedAt:   e.updatedAt,
	}
}

// Load restores a playthrough from a save envelope.
func Load(id string, state *SaveState, catalog *tarot.Catalog, spreads *tarot.SpreadCatalog, rng tarot.RNG) (*Engine, error) {
	var lastReading []tarot.Card
	for _, record := range state.LastReading {
		card, err := tarot.FromRecord(record)
		if err != nil {
			return nil, err
		}
		lastReading = append(lastReading, card)
	}

	clients := state.Clients
	if clients == nil {
		clients = make(map[string]*characters.Client)
	}

	return &Engine{
		ID:          id,
		reader:      state.Reader,
		clients:     clients,
		session:     state.Session,
		catalog:     catalog,
		spreads:     spreads,
		eval:        script.NewEvaluator(),
		rng:         rng,
		lastReading: lastReading,
		createdAt:   state.CreatedAt,
		updatedAt:   state.UpdatedAt,
	}, nil
}
