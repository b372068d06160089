package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/arcanum-games/parlor/internal/db"
	"github.com/arcanum-games/parlor/internal/game"
	mw "github.com/arcanum-games/parlor/internal/middleware"
	"github.com/arcanum-games/parlor/internal/tarot"
	"github.com/arcanum-games/parlor/internal/validation"
)

// Server handles HTTP requests
type Server struct {
	router      chi.Router
	db          *db.DB
	catalog     *tarot.Catalog
	spreads     *tarot.SpreadCatalog
	rng         tarot.RNG
	games       map[string]*game.Engine
	gamesMu     sync.RWMutex
	rateLimiter *mw.RateLimiter
	auth        *mw.Auth
}

// NewServer creates a new API server
func NewServer(database *db.DB, catalog *tarot.Catalog, spreads *tarot.SpreadCatalog, rng tarot.RNG, authSecret string) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		db:          database,
		catalog:     catalog,
		spreads:     spreads,
		rng:         rng,
		games:       make(map[string]*game.Engine),
		rateLimiter: mw.NewRateLimiter(),
		auth:        mw.NewAuth(authSecret),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.SetHeader("Content-Type", "application/json"))
	s.router.Use(s.rateLimiter.Middleware)
	s.router.Use(mw.SecurityHeadersMiddleware)
	s.router.Use(mw.MaxBodySizeMiddleware(1024 * 1024)) // 1MB max

	// Public endpoints (no auth required)
	s.router.Post("/api/auth/token", s.issueToken)
	s.router.Get("/api/spreads", s.listSpreads)

	// Protected endpoints (auth required)
	s.router.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)
		r.Post("/api/games", s.createGame)
		r.Get("/api/games", s.listGames)
		r.Get("/api/games/{id}", s.getGame)
		r.Delete("/api/games/{id}", s.deleteGame)
		r.Post("/api/games/{id}/save", s.saveGame)
		r.Post("/api/games/{id}/clients", s.meetClient)
		r.Get("/api/games/{id}/clients/{clientID}", s.getClient)
		r.Post("/api/games/{id}/readings", s.createReading)
		r.Post("/api/games/{id}/topics", s.discussTopic)
		r.Post("/api/games/{id}/attributes", s.applyAttribute)
		r.Post("/api/games/{id}/conditions", s.evalCondition)
		r.Post("/api/games/{id}/sessions", s.startSession)
		r.Post("/api/games/{id}/sessions/complete", s.completeSession)
	})
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response wraps API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (sanitized)
func writeError(w http.ResponseWriter, status int, message string) {
	if status >= 500 {
		message = "Internal server error"
	}
	writeJSON(w, status, Response{
		Success: false,
		Error:   message,
	})
}

// writeEngineError maps engine errors to HTTP statuses
func writeEngineError(w http.ResponseWriter, err error) {
	var noCards *tarot.NoCardsError
	switch {
	case errors.Is(err, game.ErrClientNotFound), errors.Is(err, tarot.ErrSpreadNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrUnknownEntity),
		errors.Is(err, game.ErrUnknownField),
		errors.Is(err, game.ErrNoActiveSession),
		errors.Is(err, tarot.ErrUnknownSuit),
		errors.Is(err, tarot.ErrEmptyDeck),
		errors.Is(err, tarot.ErrInsufficientCards),
		errors.Is(err, tarot.ErrDeckCountMismatch),
		errors.As(err, &noCards):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// getEngine looks up a live engine, falling back to the latest save
func (s *Server) getEngine(gameID string) (*game.Engine, bool) {
	s.gamesMu.RLock()
	engine, ok := s.games[gameID]
	s.gamesMu.RUnlock()
	if ok {
		return engine, true
	}

	state, err := s.db.LoadGame(gameID)
	if err != nil {
		return nil, false
	}
	engine, err = game.Load(gameID, state, s.catalog, s.spreads, s.rng)
	if err != nil {
		return nil, false
	}

	s.gamesMu.Lock()
	defer s.gamesMu.Unlock()
	if existing, ok := s.games[gameID]; ok {
		return existing, true
	}
	s.games[gameID] = engine
	return engine, true
}

// checkGameOwnership verifies user owns the game
func (s *Server) checkGameOwnership(w http.ResponseWriter, r *http.Request, gameID string) bool {
	userID := mw.UserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Missing user ID")
		return false
	}

	isOwner, err := s.db.IsGameOwner(gameID, userID)
	if err != nil || !isOwner {
		writeError(w, http.StatusForbidden, "Access denied")
		return false
	}
	return true
}

// requireGame validates the game id, checks ownership and returns the
// engine
func (s *Server) requireGame(w http.ResponseWriter, r *http.Request) (*game.Engine, bool) {
	gameID := chi.URLParam(r, "id")

	if err := validation.ValidateGameID(gameID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid game ID")
		return nil, false
	}

	if !s.checkGameOwnership(w, r, gameID) {
		return nil, false
	}

	engine, ok := s.getEngine(gameID)
	if !ok {
		writeError(w, http.StatusNotFound, "Game not found")
		return nil, false
	}
	return engine, true
}

// issueToken issues a signed token for a user
func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.ValidateClientID(req.UserID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	token, err := s.auth.IssueToken(req.UserID, 24*time.Hour)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]string{"token": token},
	})
}

// listSpreads returns the spread catalog
func (s *Server) listSpreads(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    s.spreads.All(),
	})
}

// createGame creates a new playthrough
func (s *Server) createGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReaderName string `json:"reader_name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.ValidateReaderName(req.ReaderName); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid reader name")
		return
	}

	userID := mw.UserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Missing user ID")
		return
	}

	// Game IDs are generated server-side
	gameID := uuid.New().String()
	engine := game.NewEngine(gameID, req.ReaderName, s.catalog, s.spreads, s.rng)

	s.gamesMu.Lock()
	s.games[gameID] = engine
	s.gamesMu.Unlock()

	if err := s.db.SaveGameOwnership(gameID, userID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save game")
		return
	}
	if err := s.db.SaveGame(gameID, engine.Save()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save game")
		return
	}

	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Data:    engine.Info(),
	})
}

// listGames lists all games owned by the user
func (s *Server) listGames(w http.ResponseWriter, r *http.Request) {
	userID := mw.UserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Missing user ID")
		return
	}

	gameIDs, err := s.db.GetUserGames(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list games")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    gameIDs,
	})
}

// getGame gets a game's current state
func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.requireGame(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"info":  engine.Info(),
			"state": engine.Save(),
		},
	})
}

// deleteGame removes a game, its saves and its ownership
func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")

	if err := validation.ValidateGameID(gameID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid game ID")
		return
	}

	if !s.checkGameOwnership(w, r, gameID) {
		return
	}

	if err := s.db.DeleteGame(gameID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete game")
		return
	}

	s.gamesMu.Lock()
	delete(s.games, gameID)
	s.gamesMu.Unlock()

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    "Game deleted",
	})
}

// saveGame persists a game's current state
func (s *Server) saveGame(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.requireGame(w, r)
	if !ok {
		return
	}

	if err := s.db.SaveGame(engine.ID, engine.Save()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save game")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    "Game saved",
	})
}

// meetClient introduces a client into the playthrough
func (s *Server) meetClient(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.requireGame(w, r)
	if !ok {
		return
	}

	var req struct {
		ClientID string `json:"client_id"`
		Name     string `json:"name"`
		Age      int    `json:"age"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.ValidateClientID(req.ClientID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	client := engine.MeetClient(req.ClientID, req.Name, req.Age)

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    client,
	})
}

// getClient returns a client's state
func (s *Server) getClient(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.requireGame(w, r)
	if !ok {
		return
	}

	clientID := chi.URLParam(r, "clientID")
	if err := validation.ValidateClientID(clientID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	client, err := engine.Client(clientID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    client,
	})
}

// createReading draws and resolves one reading
func (s *Server) createReading(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.requireGame(w, r)
	if !ok {
		return
	}

	var req struct {
		ClientID     string          `json:"client_id"`
		SpreadID     string          `json:"spread_id"`
		AllowRepeats bool            `json:"allow_repeats"`
		Decks        []game.DeckSpec `json:"decks"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.ValidateSpreadID(req.SpreadID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid spread ID")
		return
	}
	if req.ClientID != "" {
		if err := validation.ValidateClientID(req.ClientID); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid client ID")
			return
		}
	}

	result, err := engine.DrawReading(req.ClientID, req.SpreadID, req.AllowRepeats, req.Decks)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// discussTopic records a topic discussion
func (s *Server) discussTopic(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.requireGame(w, r)
	if !ok {
		return
	}

	var req struct {
		ClientID string `json:"client_id"`
		Topic    string `json:"topic"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.ValidateClientID(req.ClientID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}
	if err := validation.ValidateTopicID(req.Topic); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid topic ID")
		return
	}

	if err := engine.DiscussTopic(req.ClientID, req.Topic); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    "Topic recorded",
	})
}

// applyAttribute applies a delta to an entity's attribute
func (s *Server) applyAttribute(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.requireGame(w, r)
	if !ok {
		return
	}

	var req struct {
		Entity string `json:"entity"`
		Field  string `json:"field"`
		Delta  int    `json:"delta"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.ValidateEntity(req.Entity); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entity")
		return
	}
	if err := validation.ValidateFieldName(req.Field); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid field name")
		return
	}
	if err := validation.ValidateDelta(req.Delta); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid delta")
		return
	}

	value, err := engine.ApplyAttribute(req.Entity, req.Field, req.Delta)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"entity": req.Entity,
			"field":  req.Field,
			"value":  value,
		},
	})
}

// evalCondition evaluates a branch predicate against game state
func (s *Server) evalCondition(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.requireGame(w, r)
	if !ok {
		return
	}

	var req struct {
		ClientID  string `json:"client_id"`
		Condition string `json:"condition"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ClientID != "" {
		if err := validation.ValidateClientID(req.ClientID); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid client ID")
			return
		}
	}
	if err := validation.ValidateCondition(req.Condition); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid condition")
		return
	}

	result, err := engine.EvalCondition(req.ClientID, req.Condition)
	if err != nil {
		if errors.Is(err, game.ErrClientNotFound) {
			writeEngineError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid condition")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]bool{"result": result},
	})
}

// startSession opens a reading session with a client
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.requireGame(w, r)
	if !ok {
		return
	}

	var req struct {
		ClientID string `json:"client_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.ValidateClientID(req.ClientID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid client ID")
		return
	}

	session, err := engine.StartSession(req.ClientID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    session,
	})
}

// completeSession closes the active session and credits the reader
func (s *Server) completeSession(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.requireGame(w, r)
	if !ok {
		return
	}

	var req struct {
		Experience int `json:"experience"`
		Payment    int `json:"payment"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.ValidateDelta(req.Experience); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid experience")
		return
	}
	if err := validation.ValidateDelta(req.Payment); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment")
		return
	}

	if err := engine.CompleteSession(req.Experience, req.Payment); err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    engine.Info(),
	})
}
