package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cinephile/internal/game"
	"cinephile/internal/models"
)

var ErrNoActiveRun = errors.New("no active endless run")

// EndlessService manages one survival run per mode per player. The run
// record is persisted after every mutation so a reload resumes exactly
// where the player left off, including mid-round guesses.
type EndlessService struct {
	states StateStore
	seedFn func() int64
}

// NewEndlessService creates a new endless service. Run seeds come from
// the wall clock; unlike the daily puzzle they do not need to agree
// across players, only to be reproducible within one run.
func NewEndlessService(states StateStore) *EndlessService {
	return &EndlessService{
		states: states,
		seedFn: func() int64 { return time.Now().UnixMilli() },
	}
}

// Start begins a fresh run for the mode, replacing any previous one
func (s *EndlessService) Start(playerID int64, mode models.Mode) (*models.EndlessRun, error) {
	if !mode.Valid() {
		return nil, ErrUnknownMode
	}
	run := models.NewEndlessRun(mode, s.seedFn())
	if err := s.saveRun(playerID, run); err != nil {
		return nil, err
	}
	return run, nil
}

// Run loads the current run and best record for a mode. The run is nil
// when the player has never started one.
func (s *EndlessService) Run(playerID int64, mode models.Mode) (*models.EndlessRun, *models.EndlessBest, error) {
	if !mode.Valid() {
		return nil, nil, ErrUnknownMode
	}

	best := &models.EndlessBest{}
	payload, ok, err := s.states.Get(playerID, endlessBestKey(mode))
	if err != nil {
		return nil, nil, err
	}
	if ok {
		if err := json.Unmarshal([]byte(payload), best); err != nil {
			return nil, nil, fmt.Errorf("corrupt endless best: %w", err)
		}
	}

	payload, ok, err = s.states.Get(playerID, endlessRunKey(mode))
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, best, nil
	}
	run := &models.EndlessRun{}
	if err := json.Unmarshal([]byte(payload), run); err != nil {
		return nil, nil, fmt.Errorf("corrupt endless run: %w", err)
	}
	return run, best, nil
}

// Guess applies one guess to the run's embedded round machine. A round
// win banks the score, advances the round and resets the machine; the
// caller is expected to show a checkpoint and fetch the next round's
// movie explicitly. A round loss ends the run, leaving the terminal
// machine state in place as the failure summary.
func (s *EndlessService) Guess(playerID int64, mode models.Mode, guess string, target *models.Movie) (game.Outcome, *models.EndlessRun, error) {
	run, _, err := s.Run(playerID, mode)
	if err != nil {
		return game.Outcome{}, nil, err
	}
	if run == nil || !run.Active {
		return game.Outcome{}, nil, ErrNoActiveRun
	}

	var outcome game.Outcome
	if mode == models.ModeYear {
		year, err := strconv.Atoi(strings.TrimSpace(guess))
		if err != nil {
			return game.Outcome{}, nil, ErrInvalidYear
		}
		outcome = game.SubmitYearGuess(run.Current, year, target.Year)
	} else {
		outcome = game.SubmitTitleGuess(run.Current, guess, target.Title)
	}

	if outcome.Accepted && outcome.Completed {
		if outcome.Won {
			run.Score += outcome.Score
			run.Round++
			run.Current = models.NewGameState()
		} else {
			run.Active = false
		}
		if err := s.updateBest(playerID, mode, run); err != nil {
			return game.Outcome{}, nil, err
		}
	}

	if err := s.saveRun(playerID, run); err != nil {
		return game.Outcome{}, nil, err
	}
	return outcome, run, nil
}

// updateBest raises the mode's best record from the run's current totals
func (s *EndlessService) updateBest(playerID int64, mode models.Mode, run *models.EndlessRun) error {
	best := &models.EndlessBest{}
	payload, ok, err := s.states.Get(playerID, endlessBestKey(mode))
	if err != nil {
		return err
	}
	if ok {
		if err := json.Unmarshal([]byte(payload), best); err != nil {
			return fmt.Errorf("corrupt endless best: %w", err)
		}
	}

	if !best.Update(run.Round, run.Score) {
		return nil
	}
	encoded, err := json.Marshal(best)
	if err != nil {
		return fmt.Errorf("encode endless best: %w", err)
	}
	return s.states.Put(playerID, endlessBestKey(mode), string(encoded))
}

func (s *EndlessService) saveRun(playerID int64, run *models.EndlessRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode endless run: %w", err)
	}
	return s.states.Put(playerID, endlessRunKey(run.Mode), string(payload))
}
