// Package game implements the round/scoring state machine and the seeded
// movie selection shared by the three daily modes and endless mode.
package game

import (
	"strconv"
	"strings"

	"cinephile/internal/models"
)

// MaxRounds is the guess cap for a single puzzle instance
const MaxRounds = 5

// Score returns the points awarded for a win at the given round.
// Round 1 scores 5, round 5 scores 1; a loss scores 0 (handled by the
// machine, not here).
func Score(round int) int {
	s := MaxRounds + 1 - round
	if s < 1 {
		s = 1
	}
	return s
}

// Direction is the advisory hint shown after a year-mode miss
type Direction string

const (
	DirectionHigher Direction = "higher"
	DirectionLower  Direction = "lower"
)

// Outcome describes what a single submission did to the game state
type Outcome struct {
	Accepted  bool      `json:"accepted"`
	Correct   bool      `json:"correct"`
	Completed bool      `json:"completed"`
	Won       bool      `json:"won"`
	Score     int       `json:"score"`
	Direction Direction `json:"direction,omitempty"`
}

// NormalizeTitle prepares a title for comparison: trimmed, case folded.
// Comparison is exact after normalization; there is no fuzzy matching.
func NormalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SubmitTitleGuess applies a title guess to the state. Submissions after
// completion are no-ops with Accepted=false.
func SubmitTitleGuess(gs *models.GameState, guess, target string) Outcome {
	if gs.Completed {
		return Outcome{Completed: true, Won: gs.Won, Score: gs.Score}
	}
	gs.Guesses = append(gs.Guesses, guess)
	correct := NormalizeTitle(guess) == NormalizeTitle(target)
	return advance(gs, correct)
}

// SubmitYearGuess applies a parsed year guess. On a miss the outcome
// carries a higher/lower hint; the hint never alters the transition.
func SubmitYearGuess(gs *models.GameState, guess, target int) Outcome {
	if gs.Completed {
		return Outcome{Completed: true, Won: gs.Won, Score: gs.Score}
	}
	gs.Guesses = append(gs.Guesses, strconv.Itoa(guess))
	gs.YearGuesses = append(gs.YearGuesses, guess)
	out := advance(gs, guess == target)
	if !out.Correct {
		if guess < target {
			out.Direction = DirectionHigher
		} else {
			out.Direction = DirectionLower
		}
	}
	return out
}

// Skip advances the round as a guaranteed-wrong guess without recording
// anything in the guess log. It respects the same terminal transition at
// the final round.
func Skip(gs *models.GameState) Outcome {
	if gs.Completed {
		return Outcome{Completed: true, Won: gs.Won, Score: gs.Score}
	}
	return advance(gs, false)
}

// advance performs the shared playing→won/lost transition
func advance(gs *models.GameState, correct bool) Outcome {
	out := Outcome{Accepted: true, Correct: correct}
	switch {
	case correct:
		gs.Completed = true
		gs.Won = true
		gs.Score = Score(gs.Round)
	case gs.Round >= MaxRounds:
		gs.Completed = true
		gs.Won = false
		gs.Score = 0
	default:
		gs.Round++
	}
	out.Completed = gs.Completed
	out.Won = gs.Won
	out.Score = gs.Score
	return out
}
