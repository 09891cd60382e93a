package database

import (
	"context"
	"path/filepath"
	"testing"
)

func newMigratedDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "cinephile_test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations", "sqlite")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newMigratedDB(t)
	ctx := context.Background()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	// Migrations must have produced every table the repositories expect
	tables := []string{"players", "player_state", "settings", "genres"}
	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		if err := db.QueryRowContext(ctx, query, table).Scan(&name); err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	if err := db.SeedGenres(); err != nil {
		t.Fatalf("Failed to seed genres: %v", err)
	}
	genres, err := db.ListGenres()
	if err != nil {
		t.Fatalf("Failed to list genres: %v", err)
	}
	if len(genres) != 17 {
		t.Errorf("Seeded %d genres, want the 17 curated ones", len(genres))
	}

	// Seeding twice must not duplicate rows
	if err := db.SeedGenres(); err != nil {
		t.Fatalf("Second seed failed: %v", err)
	}
	genres, err = db.ListGenres()
	if err != nil {
		t.Fatalf("Failed to list genres after reseed: %v", err)
	}
	if len(genres) != 17 {
		t.Errorf("Reseed changed genre count to %d", len(genres))
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newMigratedDB(t)

	// Committed insert is visible
	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	_, err = tx.Exec("INSERT INTO players (public_id, display_name) VALUES (?, ?)",
		"5f0c2a1e-0000-4000-8000-000000000001", "Curious Kubrick")
	if err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM players WHERE display_name = ?", "Curious Kubrick").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 player, got %d", count)
	}

	// Rolled-back insert is not
	tx2, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}
	_, err = tx2.Exec("INSERT INTO players (public_id, display_name) VALUES (?, ?)",
		"5f0c2a1e-0000-4000-8000-000000000002", "Vanishing Varda")
	if err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}
	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	err = db.QueryRow("SELECT COUNT(*) FROM players WHERE display_name = ?", "Vanishing Varda").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 players after rollback, got %d", count)
	}
}

// TestConcurrentAccess tests concurrent reads under WAL mode
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newMigratedDB(t)

	playerID, err := db.ExecReturningID(
		"INSERT INTO players (public_id, display_name) VALUES (?, ?)",
		"5f0c2a1e-0000-4000-8000-000000000003", "Midnight Melies")
	if err != nil {
		t.Fatalf("Failed to create test player: %v", err)
	}
	_, err = db.Exec(
		"INSERT INTO player_state (player_id, state_key, payload) VALUES (?, ?, ?)",
		playerID, "cinephile-daily-stats", `{"streak":3}`)
	if err != nil {
		t.Fatalf("Failed to create test state: %v", err)
	}

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			var payload string
			err := db.QueryRow(
				"SELECT payload FROM player_state WHERE player_id = ? AND state_key = ?",
				playerID, "cinephile-daily-stats").Scan(&payload)
			if err != nil {
				t.Errorf("Concurrent read failed: %v", err)
			}
			if payload != `{"streak":3}` {
				t.Errorf("Unexpected payload %q", payload)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
