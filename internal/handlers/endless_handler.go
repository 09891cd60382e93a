package handlers

import (
	"errors"
	"net/http"

	"cinephile/internal/game"
	"cinephile/internal/models"
	"cinephile/internal/service"
	"cinephile/internal/validation"
)

// EndlessHandler handles endless run HTTP requests
type EndlessHandler struct {
	endless *service.EndlessService
	puzzles PuzzleProvider
}

// NewEndlessHandler creates a new endless handler
func NewEndlessHandler(endless *service.EndlessService, puzzles PuzzleProvider) *EndlessHandler {
	return &EndlessHandler{endless: endless, puzzles: puzzles}
}

type endlessResponse struct {
	Run   *models.EndlessRun  `json:"run"`
	Best  *models.EndlessBest `json:"best,omitempty"`
	Movie *models.Movie       `json:"movie,omitempty"`
}

type endlessGuessResponse struct {
	Outcome game.Outcome       `json:"outcome"`
	Run     *models.EndlessRun `json:"run"`
	Answer  *models.Movie      `json:"answer,omitempty"`
}

func endlessMode(r *http.Request) (models.Mode, bool) {
	mode := models.Mode(r.PathValue("mode"))
	return mode, mode.Valid()
}

// Start begins a fresh run for a mode, replacing any existing one
func (h *EndlessHandler) Start(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}
	mode, ok := endlessMode(r)
	if !ok {
		http.Error(w, "Unknown game mode", http.StatusBadRequest)
		return
	}

	run, err := h.endless.Start(player.ID, mode)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error starting endless run", err)
		return
	}

	movie, err := h.puzzles.EndlessRound(r.Context(), run.Seed, mode, run.Round)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Round unavailable", "Error assembling endless round", err)
		return
	}

	respondJSON(w, http.StatusOK, endlessResponse{Run: run, Movie: movie})
}

// GetRun returns the current run, the best records and, when a run is
// active, the movie for the round in progress
func (h *EndlessHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}
	mode, ok := endlessMode(r)
	if !ok {
		http.Error(w, "Unknown game mode", http.StatusBadRequest)
		return
	}

	run, best, err := h.endless.Run(player.ID, mode)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading endless run", err)
		return
	}

	resp := endlessResponse{Run: run, Best: best}
	if run != nil && run.Active {
		movie, err := h.puzzles.EndlessRound(r.Context(), run.Seed, mode, run.Round)
		if err != nil {
			respondWithError(w, http.StatusBadGateway, "Round unavailable", "Error assembling endless round", err)
			return
		}
		resp.Movie = movie
	}
	respondJSON(w, http.StatusOK, resp)
}

// Next acknowledges a completed round and serves the movie for the round
// in progress. The run itself advances when the winning guess lands, so
// this is the client's checkpoint to fetch the next target.
func (h *EndlessHandler) Next(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}
	mode, ok := endlessMode(r)
	if !ok {
		http.Error(w, "Unknown game mode", http.StatusBadRequest)
		return
	}

	run, best, err := h.endless.Run(player.ID, mode)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading endless run", err)
		return
	}
	if run == nil || !run.Active {
		http.Error(w, "No active run", http.StatusConflict)
		return
	}

	movie, err := h.puzzles.EndlessRound(r.Context(), run.Seed, mode, run.Round)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Round unavailable", "Error assembling endless round", err)
		return
	}
	respondJSON(w, http.StatusOK, endlessResponse{Run: run, Best: best, Movie: movie})
}

// SubmitGuess applies a guess to the active run. A loss reveals the
// answer; after a round win the client fetches the next target from
// Next.
func (h *EndlessHandler) SubmitGuess(w http.ResponseWriter, r *http.Request) {
	player := GetPlayerFromContext(r.Context())
	if player == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}
	mode, ok := endlessMode(r)
	if !ok {
		http.Error(w, "Unknown game mode", http.StatusBadRequest)
		return
	}

	var req struct {
		Guess string `json:"guess"`
	}
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, ErrInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if mode == models.ModeYear {
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

	run, _, err := h.endless.Run(player.ID, mode)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error loading endless run", err)
		return
	}
	if run == nil || !run.Active {
		http.Error(w, "No active run", http.StatusConflict)
		return
	}

	// The target belongs to the round the guess was made against,
	// before the run advances
	target, err := h.puzzles.EndlessRound(r.Context(), run.Seed, mode, run.Round)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Round unavailable", "Error assembling endless round", err)
		return
	}

	outcome, run, err := h.endless.Guess(player.ID, mode, req.Guess, target)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRun) {
			http.Error(w, "No active run", http.StatusConflict)
			return
		}
		if errors.Is(err, service.ErrInvalidYear) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error applying endless guess", err)
		return
	}

	resp := endlessGuessResponse{Outcome: outcome, Run: run}
	if !run.Active {
		resp.Answer = target
	}
	respondJSON(w, http.StatusOK, resp)
}
