package repository

import (
	"database/sql"
	"fmt"
	"time"

	"cinephile/internal/database"
	"cinephile/internal/models"
)

// PlayerRepository handles database operations for players
type PlayerRepository struct {
	db *database.DB
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// CreatePlayer inserts a new anonymous player
func (r *PlayerRepository) CreatePlayer(publicID, displayName string) (*models.Player, error) {
	query := `
		INSERT INTO players (public_id, display_name)
		VALUES (?, ?)
	`
	id, err := r.db.ExecReturningID(query, publicID, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return &models.Player{
		ID:          id,
		PublicID:    publicID,
		DisplayName: displayName,
		CreatedAt:   time.Now(),
		LastSeenAt:  time.Now(),
	}, nil
}

// GetPlayerByPublicID retrieves a player by the id carried in the
// session cookie. Returns nil when no such player exists.
func (r *PlayerRepository) GetPlayerByPublicID(publicID string) (*models.Player, error) {
	query := `
		SELECT id, public_id, display_name, COALESCE(provider, ''), COALESCE(provider_subject, ''), COALESCE(email, ''), created_at, last_seen_at
		FROM players
		WHERE public_id = ?
	`
	return r.scanPlayer(r.db.QueryRow(query, publicID))
}

// GetPlayerByIdentity retrieves a player by linked OAuth identity.
// Returns nil when no player carries that identity.
func (r *PlayerRepository) GetPlayerByIdentity(provider, subject string) (*models.Player, error) {
	query := `
		SELECT id, public_id, display_name, COALESCE(provider, ''), COALESCE(provider_subject, ''), COALESCE(email, ''), created_at, last_seen_at
		FROM players
		WHERE provider = ? AND provider_subject = ?
	`
	return r.scanPlayer(r.db.QueryRow(query, provider, subject))
}

// LinkIdentity attaches an OAuth identity to an existing player
func (r *PlayerRepository) LinkIdentity(playerID int64, provider, subject, email string) error {
	query := `
		UPDATE players
		SET provider = ?, provider_subject = ?, email = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query, provider, subject, email, playerID)
	if err != nil {
		return fmt.Errorf("failed to link identity: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check link result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("player %d not found", playerID)
	}
	return nil
}

// UpdateDisplayName changes a player's display name
func (r *PlayerRepository) UpdateDisplayName(playerID int64, name string) error {
	query := "UPDATE players SET display_name = ? WHERE id = ?"
	if _, err := r.db.Exec(query, name, playerID); err != nil {
		return fmt.Errorf("failed to update display name: %w", err)
	}
	return nil
}

// TouchLastSeen records player activity
func (r *PlayerRepository) TouchLastSeen(playerID int64) error {
	query := "UPDATE players SET last_seen_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, playerID); err != nil {
		return fmt.Errorf("failed to touch player: %w", err)
	}
	return nil
}

// CountPlayers returns the total number of players
func (r *PlayerRepository) CountPlayers() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

func (r *PlayerRepository) scanPlayer(row *sql.Row) (*models.Player, error) {
	player := &models.Player{}
	err := row.Scan(
		&player.ID,
		&player.PublicID,
		&player.DisplayName,
		&player.Provider,
		&player.ProviderSubject,
		&player.Email,
		&player.CreatedAt,
		&player.LastSeenAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}
