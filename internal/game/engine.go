package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/arcanum-games/parlor/internal/characters"
	"github.com/arcanum-games/parlor/internal/script"
	"github.com/arcanum-games/parlor/internal/tarot"
)

// Known client ids that resolve to their scripted variants.
const (
	ClientNyx  = "nyx"
	ClientChen = "chen"
)

// Engine orchestrates one playthrough: the reader, the clients met so
// far, the active session and the card catalogs. All operations are
// safe for concurrent use.
type Engine struct {
	ID string

	reader  *characters.Reader
	clients map[string]*characters.Client
	session *characters.Session

	catalog *tarot.Catalog
	spreads *tarot.SpreadCatalog
	eval    *script.Evaluator
	rng     tarot.RNG

	lastReading []tarot.Card

	createdAt time.Time
	updatedAt time.Time

	mu sync.RWMutex
}

// NewEngine creates a fresh playthrough.
func NewEngine(id, readerName string, catalog *tarot.Catalog, spreads *tarot.SpreadCatalog, rng tarot.RNG) *Engine {
	now := time.Now()
	return &Engine{
		ID:        id,
		reader:    characters.NewReader(readerName),
		clients:   make(map[string]*characters.Client),
		catalog:   catalog,
		spreads:   spreads,
		eval:      script.NewEvaluator(),
		rng:       rng,
		createdAt: now,
		updatedAt: now,
	}
}

// Reader returns the playthrough's reader.
func (e *Engine) Reader() *characters.Reader {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reader
}

// Client returns a client the playthrough has already met.
func (e *Engine) Client(id string) (*characters.Client, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	client, ok := e.clients[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrClientNotFound, id)
	}
	return client, nil
}

// MeetClient returns the client for an id, constructing it on first
// encounter. The scripted ids build their variants; any other id builds
// a generic client from the given name and age. Later encounters ignore
// name and age.
func (e *Engine) MeetClient(id, name string, age int) *characters.Client {
	e.mu.Lock()
	defer e.mu.Unlock()

	if client, ok := e.clients[id]; ok {
		return client
	}

	var client *characters.Client
	switch id {
	case ClientNyx:
		client = characters.NewNyx()
	case ClientChen:
		client = characters.NewChen()
	default:
		client = characters.NewClient(name, age)
	}

	e.clients[id] = client
	e.touch()
	return client
}

// ApplyAttribute applies a delta to an entity's attribute and returns
// the new value. Entity is "reader" or a client id. Client track
// attributes fire their threshold reactions as part of the mutation.
func (e *Engine) ApplyAttribute(entity, field string, delta int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if entity == "reader" {
		val, err := e.applyReaderAttr(field, delta)
		if err == nil {
			e.touch()
		}
		return val, err
	}

	client, ok := e.clients[entity]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	val, err := e.applyClientAttr(client, field, delta)
	if err == nil {
		e.touch()
	}
	return val, err
}

// AttributeValue reads an entity's attribute.
func (e *Engine) AttributeValue(entity, field string) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if entity == "reader" {
		return e.readerAttrValue(field)
	}

	client, ok := e.clients[entity]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	return e.clientAttrValue(client, field)
}

func (e *Engine) applyReaderAttr(field string, delta int) (int, error) {
	switch field {
	case "empathy":
		return e.reader.Empathy.Apply(delta), nil
	case "insight":
		return e.reader.Insight.Apply(delta), nil
	case "competence":
		return e.reader.Competence.Apply(delta), nil
	case "mystical_affinity":
		return e.reader.MysticalAffinity.Apply(delta), nil
	case "reputation":
		return e.reader.Reputation.Apply(delta), nil
	case "manipulation":
		return e.reader.Manipulation.Apply(delta), nil
	case "corruption":
		return e.reader.Corruption.Apply(delta), nil
	case "experience":
		e.reader.AddExperience(delta)
		return e.reader.Experience, nil
	case "money":
		e.reader.AddMoney(delta)
		return e.reader.Money, nil
	}
	return 0, fmt.Errorf("%w: reader.%s", ErrUnknownField, field)
}

func (e *Engine) readerAttrValue(field string) (int, error) {
	switch field {
	case "empathy":
		return e.reader.Empathy.Value, nil
	case "insight":
		return e.reader.Insight.Value, nil
	case "competence":
		return e.reader.Competence.Value, nil
	case "mystical_affinity":
		return e.reader.MysticalAffinity.Value, nil
	case "reputation":
		return e.reader.Reputation.Value, nil
	case "manipulation":
		return e.reader.Manipulation.Value, nil
	case "corruption":
		return e.reader.Corruption.Value, nil
	case "experience":
		return e.reader.Experience, nil
	case "money":
		return e.reader.Money, nil
	}
	return 0, fmt.Errorf("%w: reader.%s", ErrUnknownField, field)
}

func (e *Engine) applyClientAttr(client *characters.Client, field string, delta int) (int, error) {
	switch field {
	case "trust":
		return client.AddTrust(delta), nil
	case "comfort":
		return client.AddComfort(delta), nil
	case "openness":
		return client.AddOpenness(delta), nil
	case "shamanic_awakening":
		return client.AddShamanicAwakening(delta)
	case "kitsune_suspicion":
		return client.AddKitsuneSuspicion(delta)
	case "cyber_glitches":
		return client.AddCyberGlitches(delta)
	case "clarity":
		return client.AddClarity(delta)
	}
	return 0, fmt.Errorf("%w: %s.%s", ErrUnknownField, client.Name, field)
}

func (e *Engine) clientAttrValue(client *characters.Client, field string) (int, error) {
	switch field {
	case "trust":
		return client.Trust.Value, nil
	case "comfort":
		return client.Comfort.Value, nil
	case "openness":
		return client.Openness.Value, nil
	}
	if client.Nyx != nil {
		switch field {
		case "shamanic_awakening":
			return client.Nyx.ShamanicAwakening.Value, nil
		case "kitsune_suspicion":
			return client.Nyx.KitsuneSuspicion.Value, nil
		case "cyber_glitches":
			return client.Nyx.CyberGlitches.Value, nil
		}
	}
	if client.Chen != nil && field == "clarity" {
		return client.Chen.Clarity.Value, nil
	}
	return 0, fmt.Errorf("%w: %s.%s", ErrUnknownField, client.Name, field)
}

// DiscussTopic records a topic discussion on a client.
func (e *Engine) DiscussTopic(clientID, topic string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	client, ok := e.clients[clientID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrClientNotFound, clientID)
	}
	client.DiscussTopic(topic)
	e.touch()
	return nil
}

// HasDiscussed checks whether a topic has come up with a client.
func (e *Engine) HasDiscussed(clientID, topic string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	client, ok := e.clients[clientID]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrClientNotFound, clientID)
	}
	return client.HasDiscussed(topic), nil
}

// ReadingResult is a drawn and resolved reading.
type ReadingResult struct {
	Spread *tarot.Spread         `json:"spread"`
	Cards  []tarot.PositionedCard `json:"cards"`
}

// DrawReading draws and resolves one reading for a spread. When
// clientID is set the drawn cards are recorded on that client. Deck
// specs, when given, supply one curated deck per spread position;
// otherwise every position draws from a fresh full deck.
func (e *Engine) DrawReading(clientID, spreadID string, allowRepeats bool, specs []DeckSpec) (*ReadingResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var client *characters.Client
	if clientID != "" {
		var ok bool
		client, ok = e.clients[clientID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrClientNotFound, clientID)
		}
	}

	opts := tarot.ReadingOptions{AllowRepeats: allowRepeats}
	if len(specs) > 0 {
		decks := make([]*tarot.Deck, 0, len(specs))
		for _, spec := range specs {
			deck, err := spec.Build(e.catalog)
			if err != nil {
				return nil, err
			}
			decks = append(decks, deck)
		}
		opts.Decks = decks
	}

	reading, err := tarot.NewReading(e.catalog, e.spreads, spreadID, opts)
	if err != nil {
		return nil, err
	}
	if _, err := reading.DrawCards(e.rng); err != nil {
		return nil, err
	}

	e.lastReading = reading.DrawnCards()
	if client != nil {
		for _, card := range e.lastReading {
			client.SeeCard(card.Name)
		}
	}

	e.touch()
	return &ReadingResult{
		Spread: reading.Spread,
		Cards:  reading.Resolve(),
	}, nil
}

// LastReading returns the cards of the most recent reading.
func (e *Engine) LastReading() []tarot.Card {
	e.mu.RLock()
	defer e.mu.RUnlock()

	cards := make([]tarot.Card, len(e.lastReading))
	copy(cards, e.lastReading)
	return cards
}

// EvalCondition evaluates a branch predicate against the current game
// state. When clientID is set the client's attributes and topic history
// join the environment.
func (e *Engine) EvalCondition(clientID, condition string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var client *characters.Client
	if clientID != "" {
		var ok bool
		client, ok = e.clients[clientID]
		if !ok {
			return false, fmt.Errorf("%w: %q", ErrClientNotFound, clientID)
		}
	}

	return e.eval.Eval(condition, e.conditionEnv(client))
}

// conditionEnv builds the predicate environment from reader state plus,
// when present, a client's state and topic history.
func (e *Engine) conditionEnv(client *characters.Client) map[string]interface{} {
	env := map[string]interface{}{
		"empathy":            e.reader.Empathy.Value,
		"insight":            e.reader.Insight.Value,
		"competence":         e.reader.Competence.Value,
		"mystical_affinity":  e.reader.MysticalAffinity.Value,
		"reputation":         e.reader.Reputation.Value,
		"manipulation":       e.reader.Manipulation.Value,
		"corruption":         e.reader.Corruption.Value,
		"experience":         e.reader.Experience,
		"money":              e.reader.Money,
		"sessions_completed": e.reader.SessionsCompleted,
		"level":              e.reader.Level(),
		"reputation_tier":    e.reader.ReputationTier(),
		"dominant_skill":     e.reader.DominantSkill(),
	}

	if client == nil {
		env["hasDiscussed"] = func(string) bool { return false }
		return env
	}

	env["trust"] = client.Trust.Value
	env["comfort"] = client.Comfort.Value
	env["openness"] = client.Openness.Value
	env["client_sessions"] = client.Sessions
	env["hasDiscussed"] = func(id string) bool { return client.HasDiscussed(id) }

	if client.Nyx != nil {
		env["shamanic_awakening"] = client.Nyx.ShamanicAwakening.Value
		env["kitsune_suspicion"] = client.Nyx.KitsuneSuspicion.Value
		env["cyber_glitches"] = client.Nyx.CyberGlitches.Value
	}
	if client.Chen != nil {
		env["clarity"] = client.Chen.Clarity.Value
	}

	return env
}

// SessionThreePath resolves Chen's session-three branch for a client.
// Non-Chen clients resolve to the empty path.
func (e *Engine) SessionThreePath(clientID string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	client, ok := e.clients[clientID]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrClientNotFound, clientID)
	}
	path := client.DetermineSessionThreePath(e.rng)
	e.touch()
	return path, nil
}

// StartSession opens a reading session with a client, replacing any
// session in progress.
func (e *Engine) StartSession(clientID string) (*characters.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	client, ok := e.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrClientNotFound, clientID)
	}

	client.StartSession()
	e.session = characters.NewSession(client, e.rng)
	e.touch()
	return e.session, nil
}

// Session returns the session in progress, if any.
func (e *Engine) Session() *characters.Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session
}

// CompleteSession closes the session in progress, crediting the reader
// with experience and payment.
func (e *Engine) CompleteSession(experience, payment int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return ErrNoActiveSession
	}

	e.reader.CompleteSession()
	e.reader.AddExperience(experience)
	e.reader.AddMoney(payment)
	e.session = nil
	e.touch()
	return nil
}

// Info returns the playthrough summary for listings and HUD display.
func (e *Engine) Info() map[string]interface{} {
	e.mu.RLock()
	defer e.mu.RUnlock()

	clientIDs := make([]string, 0, len(e.clients))
	for id := range e.clients {
		clientIDs = append(clientIDs, id)
	}

	return map[string]interface{}{
		"id":                 e.ID,
		"reader_name":        e.reader.Name,
		"level":              e.reader.Level(),
		"experience":         e.reader.Experience,
		"money":              e.reader.Money,
		"sessions_completed": e.reader.SessionsCompleted,
		"reputation_tier":    e.reader.ReputationTier(),
		"dominant_skill":     e.reader.DominantSkill(),
		"clients":            clientIDs,
		"created_at":         e.createdAt,
		"updated_at":         e.updatedAt,
	}
}

func (e *Engine) touch() {
	e.updatedAt = time.Now()
}
