package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"cinephile/internal/credentials"
	"cinephile/internal/models"
	"cinephile/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const PlayerContextKey ContextKey = "player"

// PlayerDirectory is the subset of the player repository the middleware
// needs to resolve or mint a player for a request
type PlayerDirectory interface {
	GetPlayerByPublicID(publicID string) (*models.Player, error)
	CreatePlayer(publicID, displayName string) (*models.Player, error)
	TouchLastSeen(playerID int64) error
}

// Middleware holds dependencies for middleware functions
type Middleware struct {
	players         PlayerDirectory
	limiter         *security.RateLimiter
	sessionDuration time.Duration
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(players PlayerDirectory, limiter *security.RateLimiter, sessionDuration time.Duration) *Middleware {
	return &Middleware{
		players:         players,
		limiter:         limiter,
		sessionDuration: sessionDuration,
	}
}

// WithPlayer resolves the player for the request, minting a new anonymous
// player (and its cookie) on first visit. Every game endpoint runs behind
// this; there is no logged-out state.
func (m *Middleware) WithPlayer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var player *models.Player

		if cookie, err := r.Cookie(PlayerCookieName); err == nil && cookie.Value != "" {
			player, err = m.players.GetPlayerByPublicID(cookie.Value)
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading player", err)
				return
			}
		}

		if player == nil {
			var err error
			player, err = m.mintPlayer()
			if err != nil {
				respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error creating player", err)
				return
			}
		}

		// Refresh the cookie on every request so an active player
		// never ages out
		expires := time.Now().Add(m.sessionDuration)
		http.SetCookie(w, security.CreateSessionCookie(r, PlayerCookieName, player.PublicID, expires))

		if err := m.players.TouchLastSeen(player.ID); err != nil {
			log.Printf("Error touching player %d last seen: %v", player.ID, err)
		}

		ctx := context.WithValue(r.Context(), PlayerContextKey, player)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects requests from clients that exceed the configured rate
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.limiter != nil && !m.limiter.Allow(security.GetClientIP(r)) {
			http.Error(w, ErrTooManyRequests, http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

func (m *Middleware) mintPlayer() (*models.Player, error) {
	name, err := credentials.GeneratePlayerName()
	if err != nil {
		return nil, err
	}
	return m.players.CreatePlayer(security.GenerateSessionID(), name)
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetPlayerFromContext retrieves the player from the request context
func GetPlayerFromContext(ctx context.Context) *models.Player {
	player, ok := ctx.Value(PlayerContextKey).(*models.Player)
	if !ok {
		return nil
	}
	return player
}
