package handlers

import (
	"net/http"
	"strings"
	"time"

	"cinephile/internal/database"
	"cinephile/internal/repository"
	"cinephile/internal/security"
	"cinephile/internal/service"
)

// PoolRefresher rebuilds the candidate pools from the metadata
// collaborator. Nil when the server runs from a static snapshot.
type PoolRefresher func(r *http.Request) error

// AdminHandler handles operator-only routes. Every route is guarded by
// a bearer token checked against the configured bcrypt hash; without a
// configured hash the whole surface is disabled.
type AdminHandler struct {
	db             *database.DB
	settingsRepo   *repository.SettingsRepository
	backupService  *service.BackupService
	refreshPools   PoolRefresher
	adminTokenHash string
	version        string
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *database.DB, settingsRepo *repository.SettingsRepository, backupService *service.BackupService, refreshPools PoolRefresher, adminTokenHash, version string) *AdminHandler {
	return &AdminHandler{
		db:             db,
		settingsRepo:   settingsRepo,
		backupService:  backupService,
		refreshPools:   refreshPools,
		adminTokenHash: adminTokenHash,
		version:        version,
	}
}

// RequireToken wraps an admin route with the bearer token check
func (h *AdminHandler) RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.adminTokenHash == "" {
			http.Error(w, "Admin endpoints not configured", http.StatusServiceUnavailable)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || !security.VerifyAdminToken(h.adminTokenHash, token) {
			http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// Health reports server and database status
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.db.Ping(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// RefreshPools rebuilds the candidate pools and records the refresh time
func (h *AdminHandler) RefreshPools(w http.ResponseWriter, r *http.Request) {
	if h.refreshPools == nil {
		http.Error(w, "Pool refresh not available in snapshot mode", http.StatusConflict)
		return
	}
	if err := h.refreshPools(r); err != nil {
		respondWithError(w, http.StatusBadGateway, "Pool refresh failed", "Error refreshing pools", err)
		return
	}

	refreshedAt := time.Now().UTC().Format(time.RFC3339)
	if err := h.settingsRepo.SetPoolRefreshedAt(refreshedAt); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error recording pool refresh", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"refreshedAt": refreshedAt})
}

// SetShareEnabled toggles the results email feature
func (h *AdminHandler) SetShareEnabled(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := h.settingsRepo.SetShareEnabled(req.Enabled); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error updating share setting", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"enabled": req.Enabled})
}

// ExportBackup streams a full database export
func (h *AdminHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="cinephile-backup.json"`)
	if err := h.backupService.ExportToWriter(w); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error exporting backup", err)
	}
}

// ImportBackup restores players and settings from an uploaded export
func (h *AdminHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	if err := h.backupService.ImportFromReader(r.Body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Backup import failed", "Error importing backup", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"imported": true})
}
