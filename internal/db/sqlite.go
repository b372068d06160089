package db

import (
	"database/sql"
	"encoding/json"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/arcanum-games/parlor/internal/game"
)

// DB wraps database operations
type DB struct {
	conn *sql.DB
	mu   sync.RWMutex
}

// NewDB creates a new database connection
func NewDB(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	db := &DB{conn: conn}

	// Run migrations
	if err := db.migrate(); err != nil {
		return nil, err
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate runs database migrations
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		reader_name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS playthrough_states (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		reader_json TEXT NOT NULL,
		clients_json TEXT NOT NULL,
		session_json TEXT,
		last_reading_json TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS game_ownership (
		game_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_playthrough_states_game_id ON playthrough_states(game_id);
	CREATE INDEX IF NOT EXISTS idx_game_ownership_user_id ON game_ownership(user_id);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// SaveGameOwnership saves game ownership
func (db *DB) SaveGameOwnership(gameID, userID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO game_ownership (game_id, user_id)
		VALUES (?, ?)
	`, gameID, userID)
	return err
}

// GetGameOwner returns the owner of a game
func (db *DB) GetGameOwner(gameID string) (string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var userID string
	err := db.conn.QueryRow(`
		SELECT user_id FROM game_ownership WHERE game_id = ?
	`, gameID).Scan(&userID)

	if err != nil {
		return "", err
	}
	return userID, nil
}

// IsGameOwner checks if user owns the game
func (db *DB) IsGameOwner(gameID, userID string) (bool, error) {
	owner, err := db.GetGameOwner(gameID)
	if err != nil {
		return false, err
	}
	return owner == userID, nil
}

// GetUserGames returns all games owned by a user
func (db *DB) GetUserGames(userID string) ([]string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(`
		SELECT game_id FROM game_ownership WHERE user_id = ? ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gameIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		gameIDs = append(gameIDs, id)
	}

	return gameIDs, rows.Err()
}

// SaveGame saves a playthrough envelope as the latest state
func (db *DB) SaveGame(gameID string, state *game.SaveState) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Upsert game
	_, err = tx.Exec(`
		INSERT INTO games (id, reader_name, created_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
	`, gameID, state.Reader.Name)
	if err != nil {
		return err
	}

	readerJSON, err := json.Marshal(state.Reader)
	if err != nil {
		return err
	}
	clientsJSON, err := json.Marshal(state.Clients)
	if err != nil {
		return err
	}
	sessionJSON, err := json.Marshal(state.Session)
	if err != nil {
		return err
	}
	readingJSON, err := json.Marshal(state.LastReading)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO playthrough_states (
			game_id, version, reader_json, clients_json, session_json, last_reading_json
		) VALUES (?, ?, ?, ?, ?, ?)
	`, gameID, state.Version, readerJSON, clientsJSON, sessionJSON, readingJSON)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadGame loads the latest saved envelope for a game
func (db *DB) LoadGame(gameID string) (*game.SaveState, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var (
		version                  int
		readerJSON, clientsJSON  string
		sessionJSON, readingJSON sql.NullString
	)

	err := db.conn.QueryRow(`
		SELECT version, reader_json, clients_json, session_json, last_reading_json
		FROM playthrough_states
		WHERE game_id = ?
		ORDER BY id DESC
		LIMIT 1
	`, gameID).Scan(&version, &readerJSON, &clientsJSON, &sessionJSON, &readingJSON)

	if err != nil {
		return nil, err
	}

	state := &game.SaveState{Version: version}
	if err := json.Unmarshal([]byte(readerJSON), &state.Reader); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(clientsJSON), &state.Clients); err != nil {
		return nil, err
	}
	if sessionJSON.Valid {
		if err := json.Unmarshal([]byte(sessionJSON.String), &state.Session); err != nil {
			return nil, err
		}
	}
	if readingJSON.Valid {
		if err := json.Unmarshal([]byte(readingJSON.String), &state.LastReading); err != nil {
			return nil, err
		}
	}

	return state, nil
}

// DeleteGame deletes a game, its saved states and its ownership row
func (db *DB) DeleteGame(gameID string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM playthrough_states WHERE game_id = ?", gameID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM game_ownership WHERE game_id = ?", gameID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM games WHERE id = ?", gameID); err != nil {
		return err
	}

	return tx.Commit()
}
