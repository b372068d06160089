package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"os"

	"github.com/arcanum-games/parlor/internal/api"
	"github.com/arcanum-games/parlor/internal/db"
	"github.com/arcanum-games/parlor/internal/tarot"
)

// stdRNG adapts the standard generator to the game's RNG interface.
type stdRNG struct {
	r *rand.Rand
}

func (s *stdRNG) Intn(n int) int { return s.r.IntN(n) }

func main() {
	// Get configuration from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "parlor.db"
	}

	authSecret := os.Getenv("AUTH_SECRET")
	if authSecret == "" {
		log.Fatalf("AUTH_SECRET must be set")
	}

	// Load card and spread catalogs, preferring DATA_DIR when set
	var (
		catalog *tarot.Catalog
		spreads *tarot.SpreadCatalog
		err     error
	)
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		catalog, spreads, err = tarot.LoadCatalogs(os.DirFS(dataDir))
	} else {
		catalog, spreads, err = tarot.DefaultCatalogs()
	}
	if err != nil {
		log.Fatalf("Failed to load catalogs: %v", err)
	}

	// Initialize database
	database, err := db.NewDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Create API server
	rng := &stdRNG{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	server := api.NewServer(database, catalog, spreads, rng, authSecret)

	// Start HTTP server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting server on %s", addr)

	if err := http.ListenAndServe(addr, server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
