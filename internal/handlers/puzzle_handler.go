package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cinephile/internal/models"
	"cinephile/internal/puzzle"
	"cinephile/internal/seed"
)

// PuzzleProvider assembles daily puzzles and endless round movies.
// Satisfied by puzzle.Assembler.
type PuzzleProvider interface {
	Daily(ctx context.Context) (*models.DailyPuzzle, error)
	EndlessRound(ctx context.Context, runSeed int64, mode models.Mode, round int) (*models.Movie, error)
}

// PuzzleHandler serves the shared daily puzzle
type PuzzleHandler struct {
	puzzles PuzzleProvider
	now     func() time.Time
}

// NewPuzzleHandler creates a new puzzle handler
func NewPuzzleHandler(puzzles PuzzleProvider) *PuzzleHandler {
	return &PuzzleHandler{puzzles: puzzles, now: time.Now}
}

// GetDailyPuzzle serves today's puzzle. The response is identical for
// every player, so it carries a Cache-Control lifetime that expires at
// the UTC day boundary when the next puzzle takes over.
func (h *PuzzleHandler) GetDailyPuzzle(w http.ResponseWriter, r *http.Request) {
	pz, err := h.puzzles.Daily(r.Context())
	if err != nil {
		if errors.Is(err, puzzle.ErrPoolTooSmall) {
			respondWithError(w, http.StatusServiceUnavailable, "Puzzle unavailable", "Daily puzzle pool too small", err)
			return
		}
		respondWithError(w, http.StatusBadGateway, "Puzzle unavailable", "Error assembling daily puzzle", err)
		return
	}

	now := h.now().UTC()
	maxAge := int(seed.EndOfUTCDay(now).Sub(now).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	respondJSON(w, http.StatusOK, pz)
}
