package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cinephile/internal/config"
	"cinephile/internal/models"
	"cinephile/internal/puzzle"
	"cinephile/internal/tmdb"
)

// poolgen builds a static pool snapshot for every curated genre so the
// server can assemble puzzles without live collaborator traffic.
func main() {
	output := flag.String("output", "pools.json", "Output snapshot file path")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall fetch timeout")
	flag.Parse()

	cfg := config.Load()
	if cfg.TMDBAPIKey == "" {
		log.Fatal("TMDB_API_KEY is required to generate a pool snapshot")
	}

	client := tmdb.NewClient(cfg.TMDBAPIKey)
	source := puzzle.NewLivePoolSource(client, puzzle.DefaultPoolConfig())

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	snapshot := puzzle.PoolSnapshot{
		Generated: time.Now().UTC().Format(time.RFC3339),
		Version:   1,
		Pools:     make(map[string][]models.PoolEntry),
	}

	for _, genre := range puzzle.CuratedGenres {
		log.Printf("Fetching pool for %s (%d)...", genre.Name, genre.ID)
		pool, err := source.PoolForGenre(ctx, genre.ID)
		if err != nil {
			log.Fatalf("Failed to fetch pool for %s: %v", genre.Name, err)
		}
		snapshot.Pools[strconv.Itoa(genre.ID)] = pool
		log.Printf("  %d candidates", len(pool))
	}

	if dir := filepath.Dir(*output); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode snapshot: %v", err)
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		log.Fatalf("Failed to write snapshot: %v", err)
	}

	fmt.Printf("Snapshot written to %s (%d genres)\n", *output, len(snapshot.Pools))
}
