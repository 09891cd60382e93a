package database

import (
	"fmt"
	"log"

	"cinephile/internal/puzzle"
)

// SeedGenres populates the genres reference table from the curated list.
// Idempotent: an already-populated table is left alone so renames applied
// by an operator survive restarts.
func (db *DB) SeedGenres() error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM genres").Scan(&count); err != nil {
		return fmt.Errorf("failed to check genres count: %w", err)
	}

	if count > 0 {
		log.Printf("Genres table already populated with %d entries", count)
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, g := range puzzle.CuratedGenres {
		if _, err := tx.Exec("INSERT INTO genres (id, name) VALUES (?, ?)", g.ID, g.Name); err != nil {
			return fmt.Errorf("failed to insert genre %d: %w", g.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit genre seed: %w", err)
	}

	log.Printf("Genres table seeded with %d entries", len(puzzle.CuratedGenres))
	return nil
}

// ListGenres returns the seeded genre reference rows in id order
func (db *DB) ListGenres() ([]puzzle.Genre, error) {
	rows, err := db.Query("SELECT id, name FROM genres ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	var genres []puzzle.Genre
	for rows.Next() {
		var g puzzle.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
