package handlers

import (
	"fmt"
	"net/http"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"cinephile/internal/seed"
	"cinephile/internal/service"
	"cinephile/internal/validation"
)

// ShareSettings gates the email share feature. Satisfied by
// repository.SettingsRepository.
type ShareSettings interface {
	IsShareEnabled() bool
}

// ShareHandler handles result sharing: email delivery and QR codes
type ShareHandler struct {
	games        *service.GameService
	emailService *service.EmailService
	settings     ShareSettings
	puzzles      PuzzleProvider
	appBaseURL   string
	now          func() time.Time
}

// NewShareHandler creates a new share handler
func NewShareHandler(games *service.GameService, emailService *service.EmailService, settings ShareSettings, puzzles PuzzleProvider, appBaseURL string) *ShareHandler {
	return &ShareHandler{
		games:        games,
		emailService: emailService,
		settings:     settings,
		puzzles:      puzzles,
		appBaseURL:   appBaseURL,
		now:          time.Now,
	}
}

// EmailResults mails the player's results grid for today
func (h *ShareHandler) EmailResults(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	if !h.settings.IsShareEnabled() {
		http.Error(w, "Sharing by email is disabled", http.StatusForbidden)
		return
	}
	if h.emailService == nil || !h.emailService.IsEnabled() {
		http.Error(w, "Email delivery not configured", http.StatusServiceUnavailable)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pz, err := h.puzzles.Daily(r.Context())
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Puzzle unavailable", "Error assembling daily puzzle", err)
		return
	}

	state, err := h.games.DailyState(player.ID, pz.Date)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading daily state", err)
		return
	}
	stats, err := h.games.Stats(player.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading stats", err)
		return
	}

	if err := h.emailService.SendResultsEmail(r.Context(), req.Email, pz.Date, pz.Genre, state, stats); err != nil {
		respondWithError(w, http.StatusBadGateway, "Failed to send email", "Error sending results email", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

// QRCode serves a PNG QR code linking to today's puzzle
func (h *ShareHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	date := seed.Today(h.now())
	shareURL := fmt.Sprintf("%s/?d=%s", h.appBaseURL, date)

	png, err := qrcode.Encode(shareURL, qrcode.Medium, 256)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error encoding QR code", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
