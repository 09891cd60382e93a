package repository

import (
	"database/sql"
	"fmt"

	"cinephile/internal/database"
)

// StateRepository stores per-player game state as opaque JSON payloads
// keyed by a state key. The game service reads, mutates and writes whole
// records, so the repository never interprets the payload.
type StateRepository struct {
	db *database.DB
}

// NewStateRepository creates a new state repository
func NewStateRepository(db *database.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Get retrieves one state payload. ok is false when the key has never
// been written for this player.
func (r *StateRepository) Get(playerID int64, key string) (string, bool, error) {
	var payload string
	query := "SELECT payload FROM player_state WHERE player_id = ? AND state_key = ?"
	err := r.db.QueryRow(query, playerID, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get state %s: %w", key, err)
	}
	return payload, true, nil
}

// Put writes one state payload, replacing any previous value
func (r *StateRepository) Put(playerID int64, key, payload string) error {
	if _, err := r.db.Exec(r.db.Dialect.UpsertPlayerState(), playerID, key, payload); err != nil {
		return fmt.Errorf("failed to put state %s: %w", key, err)
	}
	return nil
}

// Delete removes one state payload. Deleting a missing key is not an error.
func (r *StateRepository) Delete(playerID int64, key string) error {
	query := "DELETE FROM player_state WHERE player_id = ? AND state_key = ?"
	if _, err := r.db.Exec(query, playerID, key); err != nil {
		return fmt.Errorf("failed to delete state %s: %w", key, err)
	}
	return nil
}

// AllForPlayer returns every stored payload for a player, keyed by state
// key. Used by the export tool.
func (r *StateRepository) AllForPlayer(playerID int64) (map[string]string, error) {
	query := "SELECT state_key, payload FROM player_state WHERE player_id = ?"
	rows, err := r.db.Query(query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list state: %w", err)
	}
	defer rows.Close()

	states := make(map[string]string)
	for rows.Next() {
		var key, payload string
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan state row: %w", err)
		}
		states[key] = payload
	}
	return states, rows.Err()
}

// ReplaceAll swaps a player's entire state set in one transaction.
// Used by the import tool.
func (r *StateRepository) ReplaceAll(playerID int64, states map[string]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin state replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM player_state WHERE player_id = ?", playerID); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	for key, payload := range states {
		if _, err := tx.Exec(r.db.Dialect.UpsertPlayerState(), playerID, key, payload); err != nil {
			return fmt.Errorf("failed to write state %s: %w", key, err)
		}
	}
	return tx.Commit()
}
