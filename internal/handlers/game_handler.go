package handlers

import (
	"errors"
	"net/http"
	"time"

	"cinephile/internal/game"
	"cinephile/internal/models"
	"cinephile/internal/seed"
	"cinephile/internal/service"
	"cinephile/internal/validation"
)

// GameHandler handles daily game HTTP requests
type GameHandler struct {
	games   *service.GameService
	puzzles PuzzleProvider
	now     func() time.Time
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *service.GameService, puzzles PuzzleProvider) *GameHandler {
	return &GameHandler{games: games, puzzles: puzzles, now: time.Now}
}

type guessRequest struct {
	Mode  models.Mode `json:"mode"`
	Guess string      `json:"guess"`
}

type guessResponse struct {
	Outcome game.Outcome       `json:"outcome"`
	State   *models.DailyState `json:"state"`
	Answer  *models.Movie      `json:"answer,omitempty"`
}

type stateResponse struct {
	Date    string                             `json:"date"`
	State   *models.DailyState                 `json:"state"`
	Stats   *models.Stats                      `json:"stats"`
	Streaks map[models.Mode]*models.ModeStreak `json:"streaks"`
}

// GetState returns the player's state, stats and streaks for today
func (h *GameHandler) GetState(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	date := seed.Today(h.now())
	state, err := h.games.DailyState(player.ID, date)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading daily state", err)
		return
	}

	stats, err := h.games.Stats(player.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading stats", err)
		return
	}

	streaks, err := h.games.Streaks(player.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading streaks", err)
		return
	}

	respondJSON(w, http.StatusOK, stateResponse{Date: date, State: state, Stats: stats, Streaks: streaks})
}

// SubmitGuess applies a guess to one of today's games
func (h *GameHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	var req guessRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if !req.Mode.Valid() {
		http.Error(w, "Unknown game mode", http.StatusBadRequest)
		return
	}

	if req.Mode == models.ModeYear {
		if _, err := validation.ValidateYearGuess(req.Guess); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := validation.ValidateGuess(req.Guess); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	pz, err := h.puzzles.Daily(r.Context())
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Puzzle unavailable", "Error assembling daily puzzle", err)
		return
	}
	target := pz.Movies[req.Mode.MovieIndex()]

	outcome, state, err := h.games.SubmitGuess(player.ID, pz.Date, req.Mode, req.Guess, target)
	if err != nil {
		if errors.Is(err, service.ErrInvalidYear) || errors.Is(err, service.ErrUnknownMode) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error applying guess", err)
		return
	}

	respondJSON(w, http.StatusOK, h.guessResponse(outcome, state, req.Mode, target))
}

// Skip advances a game one round without logging a guess
func (h *GameHandler) Skip(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}

	var req struct {
		Mode models.Mode `json:"mode"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}
	if !req.Mode.Valid() {
		http.Error(w, "Unknown game mode", http.StatusBadRequest)
		return
	}

	pz, err := h.puzzles.Daily(r.Context())
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Puzzle unavailable", "Error assembling daily puzzle", err)
		return
	}
	target := pz.Movies[req.Mode.MovieIndex()]

	outcome, state, err := h.games.Skip(player.ID, pz.Date, req.Mode)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error applying skip", err)
		return
	}

	respondJSON(w, http.StatusOK, h.guessResponse(outcome, state, req.Mode, target))
}

// guessResponse packages an outcome, revealing the answer only once the
// game is over
func (h *GameHandler) guessResponse(outcome game.Outcome, state *models.DailyState, mode models.Mode, target *models.Movie) guessResponse {
	resp := guessResponse{Outcome: outcome, State: state}
	if state.Game(mode).Completed {
		resp.Answer = target
	}
	return resp
}
