package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cinephile/internal/game"
	"cinephile/internal/models"
	"cinephile/internal/seed"
)

// State keys, namespaced under the application prefix. Every record is a
// whole JSON blob read, mutated and written back as one unit.
const (
	stateKeyDaily = "cinephile-daily-state"
	stateKeyStats = "cinephile-daily-stats"
)

func streakKey(mode models.Mode) string {
	return "cinephile-streak-" + string(mode)
}

func endlessRunKey(mode models.Mode) string {
	return "cinephile-endless-run-" + string(mode)
}

func endlessBestKey(mode models.Mode) string {
	return "cinephile-endless-best-" + string(mode)
}

var (
	ErrUnknownMode = errors.New("unknown game mode")
	ErrInvalidYear = errors.New("year guess is not a number")
)

// StateStore is the per-player blob storage the game services run on.
// Satisfied by repository.StateRepository; tests use an in-memory map.
type StateStore interface {
	Get(playerID int64, key string) (string, bool, error)
	Put(playerID int64, key, payload string) error
	Delete(playerID int64, key string) error
}

// GameService owns the daily-mode state lifecycle: lazy initialization,
// date-mismatch discard, guess/skip application and the once-per-day
// stats and streak updates.
type GameService struct {
	states StateStore
}

// NewGameService creates a new game service
func NewGameService(states StateStore) *GameService {
	return &GameService{states: states}
}

// DailyState loads the player's state for the given date. A stored record
// for a different date is discarded and replaced with a fresh one; this
// is the normal day-roll path, never an error.
func (s *GameService) DailyState(playerID int64, date string) (*models.DailyState, error) {
	payload, ok, err := s.states.Get(playerID, stateKeyDaily)
	if err != nil {
		return nil, err
	}
	if ok {
		state := &models.DailyState{}
		if err := json.Unmarshal([]byte(payload), state); err == nil && state.Date == date {
			return state, nil
		}
		// Corrupt or stale: fall through to a fresh record
	}
	return models.NewDailyState(date), nil
}

// Stats loads the player's global aggregate record, zero-valued if absent
func (s *GameService) Stats(playerID int64) (*models.Stats, error) {
	stats := &models.Stats{}
	if err := s.loadJSON(playerID, stateKeyStats, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Streaks loads every per-mode streak record
func (s *GameService) Streaks(playerID int64) (map[models.Mode]*models.ModeStreak, error) {
	streaks := make(map[models.Mode]*models.ModeStreak, len(models.Modes))
	for _, mode := range models.Modes {
		streak := &models.ModeStreak{}
		if err := s.loadJSON(playerID, streakKey(mode), streak); err != nil {
			return nil, err
		}
		streaks[mode] = streak
	}
	return streaks, nil
}

// SubmitGuess applies one guess to the mode's game against the target
// movie. Year mode parses the guess as an integer and rejects non-numeric
// input before any state is touched. On completion the daily stats and
// per-mode streak updates fire, each gated to once per calendar day.
func (s *GameService) SubmitGuess(playerID int64, date string, mode models.Mode, guess string, target *models.Movie) (game.Outcome, *models.DailyState, error) {
	if !mode.Valid() {
		return game.Outcome{}, nil, ErrUnknownMode
	}

	state, err := s.DailyState(playerID, date)
	if err != nil {
		return game.Outcome{}, nil, err
	}
	gs := state.Game(mode)

	var outcome game.Outcome
	if mode == models.ModeYear {
		year, err := strconv.Atoi(strings.TrimSpace(guess))
		if err != nil {
			return game.Outcome{}, nil, ErrInvalidYear
		}
		outcome = game.SubmitYearGuess(gs, year, target.Year)
	} else {
		outcome = game.SubmitTitleGuess(gs, guess, target.Title)
	}

	if err := s.saveJSON(playerID, stateKeyDaily, state); err != nil {
		return game.Outcome{}, nil, err
	}
	if err := s.applyCompletion(playerID, date, mode, outcome); err != nil {
		return game.Outcome{}, nil, err
	}
	return outcome, state, nil
}

// Skip advances the mode's game as a guaranteed-wrong guess
func (s *GameService) Skip(playerID int64, date string, mode models.Mode) (game.Outcome, *models.DailyState, error) {
	if !mode.Valid() {
		return game.Outcome{}, nil, ErrUnknownMode
	}

	state, err := s.DailyState(playerID, date)
	if err != nil {
		return game.Outcome{}, nil, err
	}
	outcome := game.Skip(state.Game(mode))

	if err := s.saveJSON(playerID, stateKeyDaily, state); err != nil {
		return game.Outcome{}, nil, err
	}
	if err := s.applyCompletion(playerID, date, mode, outcome); err != nil {
		return game.Outcome{}, nil, err
	}
	return outcome, state, nil
}

// applyCompletion triggers the stats and streak side effects when a
// submission just finished a game. Wins update the global record and the
// mode streak; losses only reset the mode streak.
func (s *GameService) applyCompletion(playerID int64, date string, mode models.Mode, outcome game.Outcome) error {
	if !outcome.Accepted || !outcome.Completed {
		return nil
	}

	if outcome.Won {
		if err := s.updateStats(playerID, date, outcome.Score); err != nil {
			return fmt.Errorf("stats update: %w", err)
		}
	}
	if err := s.updateStreak(playerID, date, mode, outcome.Won); err != nil {
		return fmt.Errorf("streak update: %w", err)
	}
	return nil
}

// updateStats applies the once-per-day global aggregate update. A repeat
// trigger on a date already recorded is a no-op.
func (s *GameService) updateStats(playerID int64, date string, score int) error {
	stats := &models.Stats{}
	if err := s.loadJSON(playerID, stateKeyStats, stats); err != nil {
		return err
	}
	if stats.LastPlayedDate == date {
		return nil
	}

	if stats.LastPlayedDate == seed.PreviousDay(date) {
		stats.Streak++
	} else {
		stats.Streak = 1
	}
	if stats.Streak > stats.MaxStreak {
		stats.MaxStreak = stats.Streak
	}
	stats.TotalScore += score
	stats.GamesPlayed++
	stats.LastPlayedDate = date

	return s.saveJSON(playerID, stateKeyStats, stats)
}

// updateStreak applies the once-per-day per-mode streak update
func (s *GameService) updateStreak(playerID int64, date string, mode models.Mode, won bool) error {
	streak := &models.ModeStreak{}
	if err := s.loadJSON(playerID, streakKey(mode), streak); err != nil {
		return err
	}
	if streak.LastPlayedDate == date {
		return nil
	}

	if won {
		if streak.LastPlayedDate == seed.PreviousDay(date) {
			streak.Streak++
		} else {
			streak.Streak = 1
		}
		if streak.Streak > streak.BestStreak {
			streak.BestStreak = streak.Streak
		}
	} else {
		streak.Streak = 0
	}
	streak.LastPlayedDate = date

	return s.saveJSON(playerID, streakKey(mode), streak)
}

// loadJSON reads a state blob into v, leaving v zero-valued when the key
// has never been written
func (s *GameService) loadJSON(playerID int64, key string, v interface{}) error {
	payload, ok, err := s.states.Get(playerID, key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return fmt.Errorf("corrupt state %s: %w", key, err)
	}
	return nil
}

// saveJSON writes v as a whole state blob
func (s *GameService) saveJSON(playerID int64, key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", key, err)
	}
	return s.states.Put(playerID, key, string(payload))
}
