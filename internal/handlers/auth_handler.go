package handlers

import (
	"net/http"
	"time"

	"cinephile/internal/models"
	"cinephile/internal/security"
	"cinephile/internal/validation"
)

// PlayerAccounts is the subset of the player repository the auth flow
// needs to link provider identities to players
type PlayerAccounts interface {
	PlayerDirectory
	GetPlayerByIdentity(provider, subject string) (*models.Player, error)
	LinkIdentity(playerID int64, provider, subject, email string) error
	UpdateDisplayName(playerID int64, name string) error
}

// AuthHandler handles account sync via OAuth providers
type AuthHandler struct {
	players              PlayerAccounts
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
	sessionDuration      time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(players PlayerAccounts, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL string, sessionDuration time.Duration) *AuthHandler {
	return &AuthHandler{
		players:              players,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
		sessionDuration:      sessionDuration,
	}
}

// ListProviders returns the providers with usable credentials
func (h *AuthHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers := []OAuthProviderView{}
	for key, provider := range h.oauthProviders {
		if provider.Config == nil || provider.Config.ClientID == "" || provider.Config.ClientSecret == "" {
			continue
		}
		providers = append(providers, OAuthProviderView{
			Name:  key,
			Label: provider.Label,
			URL:   "/auth/" + key + "/start",
		})
	}
	respondJSON(w, http.StatusOK, providers)
}

// GetProfile returns the current player
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"player": player,
		"linked": player.Linked(),
	})
}

// UpdateDisplayName renames the current player
func (h *AuthHandler) UpdateDisplayName(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	var req struct {
		DisplayName string `json:"displayName"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := validation.ValidateDisplayName(req.DisplayName); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.players.UpdateDisplayName(player.ID, req.DisplayName); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error updating display name", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Logout clears the player cookie; the next request mints a fresh
// anonymous player. Linked players get their progress back by signing
// in again.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, security.CreateDeleteCookie(r, PlayerCookieName))
	respondJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}
