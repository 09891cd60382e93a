package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"cinephile/internal/database"
)

// BackupData is the complete portable backup: every player row with its
// full state blob set, plus the settings table
type BackupData struct {
	Version      string            `json:"version"`
	ExportedAt   time.Time         `json:"exported_at"`
	DatabaseType string            `json:"database_type"`
	Players      []PlayerBackup    `json:"players"`
	Settings     map[string]string `json:"settings"`
}

// PlayerBackup is one player and their namespaced state payloads
type PlayerBackup struct {
	PublicID        string            `json:"public_id"`
	DisplayName     string            `json:"display_name"`
	Provider        string            `json:"provider,omitempty"`
	ProviderSubject string            `json:"provider_subject,omitempty"`
	Email           string            `json:"email,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	State           map[string]string `json:"state"`
}

// BackupService handles database export and restore
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete backup to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Export completed: %s", outputPath)
	return nil
}

// ExportToWriter streams a complete backup as indented JSON
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:      "1",
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.DriverName(),
		Settings:     make(map[string]string),
	}

	if err := s.exportPlayers(backup); err != nil {
		return fmt.Errorf("failed to export players: %w", err)
	}
	if err := s.exportSettings(backup); err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// Import restores a backup file. Players are matched by public id:
// existing rows keep their id and have their state replaced, unknown
// rows are created.
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a backup from a JSON stream
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	backup := &BackupData{}
	if err := json.NewDecoder(reader).Decode(backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != "1" {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	imported := 0
	for _, player := range backup.Players {
		if err := s.importPlayer(player); err != nil {
			return fmt.Errorf("failed to import player %s: %w", player.PublicID, err)
		}
		imported++
	}

	for key, value := range backup.Settings {
		if _, err := s.db.Exec(s.db.Dialect.UpsertSettings(), key, value); err != nil {
			return fmt.Errorf("failed to import setting %s: %w", key, err)
		}
	}

	log.Printf("Import completed: %d players, %d settings", imported, len(backup.Settings))
	return nil
}

func (s *BackupService) exportPlayers(backup *BackupData) error {
	rows, err := s.db.Query(`
		SELECT id, public_id, display_name, COALESCE(provider, ''), COALESCE(provider_subject, ''), COALESCE(email, ''), created_at
		FROM players ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type playerRow struct {
		id     int64
		backup PlayerBackup
	}
	var players []playerRow
	for rows.Next() {
		var p playerRow
		if err := rows.Scan(&p.id, &p.backup.PublicID, &p.backup.DisplayName,
			&p.backup.Provider, &p.backup.ProviderSubject, &p.backup.Email, &p.backup.CreatedAt); err != nil {
			return err
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range players {
		state, err := s.readPlayerState(p.id)
		if err != nil {
			return err
		}
		p.backup.State = state
		backup.Players = append(backup.Players, p.backup)
	}
	return nil
}

func (s *BackupService) readPlayerState(playerID int64) (map[string]string, error) {
	rows, err := s.db.Query("SELECT state_key, payload FROM player_state WHERE player_id = ?", playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	state := make(map[string]string)
	for rows.Next() {
		var key, payload string
		if err := rows.Scan(&key, &payload); err != nil {
			return nil, err
		}
		state[key] = payload
	}
	return state, rows.Err()
}

func (s *BackupService) exportSettings(backup *BackupData) error {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		backup.Settings[key] = value
	}
	return rows.Err()
}

func (s *BackupService) importPlayer(player PlayerBackup) error {
	var playerID int64
	err := s.db.QueryRow("SELECT id FROM players WHERE public_id = ?", player.PublicID).Scan(&playerID)
	if err == sql.ErrNoRows {
		playerID, err = s.db.ExecReturningID(`
			INSERT INTO players (public_id, display_name, provider, provider_subject, email)
			VALUES (?, ?, ?, ?, ?)
		`, player.PublicID, player.DisplayName,
			nullIfEmpty(player.Provider), nullIfEmpty(player.ProviderSubject), nullIfEmpty(player.Email))
		if err != nil {
			return err
		}
	} else if err != nil {
		return err
	} else {
		_, err = s.db.Exec(`
			UPDATE players SET display_name = ?, provider = ?, provider_subject = ?, email = ?
			WHERE id = ?
		`, player.DisplayName,
			nullIfEmpty(player.Provider), nullIfEmpty(player.ProviderSubject), nullIfEmpty(player.Email), playerID)
		if err != nil {
			return err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM player_state WHERE player_id = ?", playerID); err != nil {
		return err
	}
	for key, payload := range player.State {
		if _, err := tx.Exec(s.db.Dialect.UpsertPlayerState(), playerID, key, payload); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
