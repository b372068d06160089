package api

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/arcanum-games/parlor/internal/db"
	"github.com/arcanum-games/parlor/internal/tarot"
)

type seededRNG struct {
	r *rand.Rand
}

func (s *seededRNG) Intn(n int) int { return s.r.IntN(n) }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	database, err := db.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	catalog, spreads, err := tarot.DefaultCatalogs()
	if err != nil {
		t.Fatalf("DefaultCatalogs failed: %v", err)
	}

	rng := &seededRNG{r: rand.New(rand.NewPCG(7, 7))}
	return NewServer(database, catalog, spreads, rng, "test-secret")
}

func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var resp map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Unmarshal response failed: %v (%s)", err, rec.Body.String())
		}
	}
	return rec.Code, resp
}

func getToken(t *testing.T, s *Server, userID string) string {
	t.Helper()

	code, resp := doJSON(t, s, http.MethodPost, "/api/auth/token", "", map[string]string{"user_id": userID})
	if code != http.StatusOK {
		t.Fatalf("Token request failed with %d: %v", code, resp)
	}
	data := resp["data"].(map[string]interface{})
	return data["token"].(string)
}

// TestAuthRequired tests that protected routes reject anonymous requests
func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

// TestListSpreads tests the public spread catalog endpoint
func TestListSpreads(t *testing.T) {
	s := newTestServer(t)

	code, resp := doJSON(t, s, http.MethodGet, "/api/spreads", "", nil)
	if code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", code)
	}
	spreads, ok := resp["data"].([]interface{})
	if !ok || len(spreads) == 0 {
		t.Errorf("Expected non-empty spread list, got %v", resp["data"])
	}
}

// TestGameLifecycle tests create, play, save and reload over HTTP
func TestGameLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := getToken(t, s, "user-1")

	// Create
	code, resp := doJSON(t, s, http.MethodPost, "/api/games", token, map[string]string{"reader_name": "Vera"})
	if code != http.StatusCreated {
		t.Fatalf("Create failed with %d: %v", code, resp)
	}
	info := resp["data"].(map[string]interface{})
	gameID := info["id"].(string)
	if info["reader_name"] != "Vera" || info["level"] != "Novice" {
		t.Errorf("Unexpected game info %v", info)
	}

	// List
	code, resp = doJSON(t, s, http.MethodGet, "/api/games", token, nil)
	if code != http.StatusOK {
		t.Fatalf("List failed with %d", code)
	}
	ids := resp["data"].([]interface{})
	if len(ids) != 1 || ids[0] != gameID {
		t.Errorf("Expected [%s], got %v", gameID, ids)
	}

	// Meet Nyx and push a threshold
	code, _ = doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/clients", token,
		map[string]interface{}{"client_id": "nyx"})
	if code != http.StatusOK {
		t.Fatalf("Meet client failed with %d", code)
	}

	code, resp = doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/attributes", token,
		map[string]interface{}{"entity": "nyx", "field": "kitsune_suspicion", "delta": 4})
	if code != http.StatusOK {
		t.Fatalf("Apply attribute failed with %d: %v", code, resp)
	}
	result := resp["data"].(map[string]interface{})
	if result["value"].(float64) != 4 {
		t.Errorf("Expected suspicion 4, got %v", result["value"])
	}

	// The crossing should have recorded the reaction topic
	code, resp = doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/conditions", token,
		map[string]interface{}{"client_id": "nyx", "condition": `hasDiscussed("corporate_danger")`})
	if code != http.StatusOK {
		t.Fatalf("Condition failed with %d: %v", code, resp)
	}
	if resp["data"].(map[string]interface{})["result"] != true {
		t.Error("Expected corporate_danger topic after crossing")
	}

	// Draw a reading
	code, resp = doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/readings", token,
		map[string]interface{}{"client_id": "nyx", "spread_id": "past-present-future"})
	if code != http.StatusOK {
		t.Fatalf("Reading failed with %d: %v", code, resp)
	}
	reading := resp["data"].(map[string]interface{})
	cards := reading["cards"].([]interface{})
	if len(cards) != 3 {
		t.Fatalf("Expected 3 cards, got %d", len(cards))
	}

	// Save and fetch state
	code, _ = doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/save", token, nil)
	if code != http.StatusOK {
		t.Fatalf("Save failed with %d", code)
	}

	code, resp = doJSON(t, s, http.MethodGet, "/api/games/"+gameID, token, nil)
	if code != http.StatusOK {
		t.Fatalf("Get failed with %d", code)
	}
	state := resp["data"].(map[string]interface{})["state"].(map[string]interface{})
	clients := state["clients"].(map[string]interface{})
	if _, ok := clients["nyx"]; !ok {
		t.Errorf("Expected nyx in saved clients, got %v", clients)
	}

	// Reload from the save after evicting the live engine
	s.gamesMu.Lock()
	delete(s.games, gameID)
	s.gamesMu.Unlock()

	code, resp = doJSON(t, s, http.MethodGet, "/api/games/"+gameID+"/clients/nyx", token, nil)
	if code != http.StatusOK {
		t.Fatalf("Get client after reload failed with %d: %v", code, resp)
	}
	nyx := resp["data"].(map[string]interface{})
	if nyx["name"] != "Nyx" {
		t.Errorf("Unexpected reloaded client %v", nyx)
	}
}

// TestOwnershipEnforced tests that another user cannot touch a game
func TestOwnershipEnforced(t *testing.T) {
	s := newTestServer(t)
	owner := getToken(t, s, "user-1")
	intruder := getToken(t, s, "user-2")

	code, resp := doJSON(t, s, http.MethodPost, "/api/games", owner, map[string]string{"reader_name": "Vera"})
	if code != http.StatusCreated {
		t.Fatalf("Create failed with %d", code)
	}
	gameID := resp["data"].(map[string]interface{})["id"].(string)

	code, _ = doJSON(t, s, http.MethodGet, "/api/games/"+gameID, intruder, nil)
	if code != http.StatusForbidden {
		t.Errorf("Expected 403 for intruder, got %d", code)
	}
}

// TestSessionEndpoints tests session start and completion over HTTP
func TestSessionEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := getToken(t, s, "user-1")

	code, resp := doJSON(t, s, http.MethodPost, "/api/games", token, map[string]string{"reader_name": "Vera"})
	if code != http.StatusCreated {
		t.Fatalf("Create failed with %d", code)
	}
	gameID := resp["data"].(map[string]interface{})["id"].(string)

	doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/clients", token,
		map[string]interface{}{"client_id": "ana", "name": "Ana", "age": 34})

	code, resp = doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/sessions", token,
		map[string]interface{}{"client_id": "ana"})
	if code != http.StatusOK {
		t.Fatalf("Start session failed with %d: %v", code, resp)
	}

	code, resp = doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/sessions/complete", token,
		map[string]interface{}{"experience": 25, "payment": 40})
	if code != http.StatusOK {
		t.Fatalf("Complete session failed with %d: %v", code, resp)
	}
	info := resp["data"].(map[string]interface{})
	if info["sessions_completed"].(float64) != 1 || info["money"].(float64) != 40 {
		t.Errorf("Unexpected progression %v", info)
	}

	// Completing again should fail
	code, _ = doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/sessions/complete", token,
		map[string]interface{}{"experience": 1, "payment": 1})
	if code != http.StatusBadRequest {
		t.Errorf("Expected 400 without active session, got %d", code)
	}
}

// TestReadingErrors tests error mapping for bad reading requests
func TestReadingErrors(t *testing.T) {
	s := newTestServer(t)
	token := getToken(t, s, "user-1")

	code, resp := doJSON(t, s, http.MethodPost, "/api/games", token, map[string]string{"reader_name": "Vera"})
	if code != http.StatusCreated {
		t.Fatalf("Create failed with %d", code)
	}
	gameID := resp["data"].(map[string]interface{})["id"].(string)

	code, _ = doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/readings", token,
		map[string]interface{}{"spread_id": "no-such-spread"})
	if code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown spread, got %d", code)
	}

	code, _ = doJSON(t, s, http.MethodPost, "/api/games/"+gameID+"/readings", token,
		map[string]interface{}{"client_id": "stranger", "spread_id": "past-present-future"})
	if code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown client, got %d", code)
	}
}

// TestDeleteGame tests removal through the ownership check
func TestDeleteGame(t *testing.T) {
	s := newTestServer(t)
	owner := getToken(t, s, "user-1")
	intruder := getToken(t, s, "user-2")

	code, resp := doJSON(t, s, http.MethodPost, "/api/games", owner, map[string]string{"reader_name": "Vera"})
	if code != http.StatusCreated {
		t.Fatalf("Create failed with %d", code)
	}
	gameID := resp["data"].(map[string]interface{})["id"].(string)

	code, _ = doJSON(t, s, http.MethodDelete, "/api/games/"+gameID, intruder, nil)
	if code != http.StatusForbidden {
		t.Errorf("Expected 403 for intruder delete, got %d", code)
	}

	code, _ = doJSON(t, s, http.MethodDelete, "/api/games/"+gameID, owner, nil)
	if code != http.StatusOK {
		t.Fatalf("Delete failed with %d", code)
	}

	code, resp = doJSON(t, s, http.MethodGet, "/api/games", owner, nil)
	if code != http.StatusOK {
		t.Fatalf("List failed with %d", code)
	}
	if ids, ok := resp["data"].([]interface{}); ok && len(ids) != 0 {
		t.Errorf("Expected empty list after delete, got %v", ids)
	}

	// Ownership row is gone, so further access is refused
	code, _ = doJSON(t, s, http.MethodGet, "/api/games/"+gameID, owner, nil)
	if code != http.StatusForbidden {
		t.Errorf("Expected 403 after delete, got %d", code)
	}
}
