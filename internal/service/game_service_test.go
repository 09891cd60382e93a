package service

import (
	"errors"
	"testing"

	"cinephile/internal/models"
)

// memoryStore is the in-memory StateStore used across the service tests
type memoryStore struct {
	data map[int64]map[string]string
	puts int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[int64]map[string]string)}
}

func (m *memoryStore) Get(playerID int64, key string) (string, bool, error) {
	payload, ok := m.data[playerID][key]
	return payload, ok, nil
}

func (m *memoryStore) Put(playerID int64, key, payload string) error {
	if m.data[playerID] == nil {
		m.data[playerID] = make(map[string]string)
	}
	m.data[playerID][key] = payload
	m.puts++
	return nil
}

func (m *memoryStore) Delete(playerID int64, key string) error {
	delete(m.data[playerID], key)
	return nil
}

var targetMovie = &models.Movie{ID: 550, Title: "Fight Club", Year: 1999}

func TestDailyStateLazyInit(t *testing.T) {
	svc := NewGameService(newMemoryStore())

	state, err := svc.DailyState(1, "2024-03-15")
	if err != nil {
		t.Fatalf("DailyState failed: %v", err)
	}
	if state.Date != "2024-03-15" {
		t.Errorf("date = %q", state.Date)
	}
	for _, mode := range models.Modes {
		gs := state.Game(mode)
		if gs.Round != 1 || gs.Completed || len(gs.Guesses) != 0 {
			t.Errorf("mode %s not fresh: %+v", mode, gs)
		}
	}
}

func TestDailyStateDateMismatchDiscard(t *testing.T) {
	store := newMemoryStore()
	svc := NewGameService(store)

	// Play a guess yesterday, then load today
	if _, _, err := svc.SubmitGuess(1, "2024-03-14", models.ModeCredits, "wrong", targetMovie); err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}

	state, err := svc.DailyState(1, "2024-03-15")
	if err != nil {
		t.Fatalf("DailyState failed: %v", err)
	}
	if state.Date != "2024-03-15" {
		t.Errorf("date = %q, want the stale record discarded", state.Date)
	}
	if got := len(state.Game(models.ModeCredits).Guesses); got != 0 {
		t.Errorf("carried %d guesses across the day roll", got)
	}
}

func TestSubmitGuessRoundThreeWin(t *testing.T) {
	svc := NewGameService(newMemoryStore())
	date := "2024-03-15"

	for _, g := range []string{"wrong", "wrong again"} {
		outcome, _, err := svc.SubmitGuess(1, date, models.ModeCredits, g, targetMovie)
		if err != nil {
			t.Fatalf("SubmitGuess(%q) failed: %v", g, err)
		}
		if outcome.Completed {
			t.Fatalf("completed early on %q", g)
		}
	}

	outcome, state, err := svc.SubmitGuess(1, date, models.ModeCredits, "fight club", targetMovie)
	if err != nil {
		t.Fatalf("winning guess failed: %v", err)
	}
	if !outcome.Won || outcome.Score != 3 {
		t.Errorf("outcome = %+v, want a round-3 win worth 3", outcome)
	}

	gs := state.Game(models.ModeCredits)
	if gs.Round != 3 || !gs.Completed || !gs.Won || gs.Score != 3 {
		t.Errorf("game state = %+v", gs)
	}
	if len(gs.Guesses) != 3 || gs.Guesses[2] != "fight club" {
		t.Errorf("guesses = %v", gs.Guesses)
	}

	stats, err := svc.Stats(1)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Streak != 1 || stats.TotalScore != 3 || stats.GamesPlayed != 1 || stats.LastPlayedDate != date {
		t.Errorf("stats = %+v", stats)
	}

	streaks, err := svc.Streaks(1)
	if err != nil {
		t.Fatalf("Streaks failed: %v", err)
	}
	if s := streaks[models.ModeCredits]; s.Streak != 1 || s.BestStreak != 1 {
		t.Errorf("credits streak = %+v", s)
	}
}

func TestStatsUpdateOncePerDay(t *testing.T) {
	svc := NewGameService(newMemoryStore())
	date := "2024-03-15"

	// Win credits, then win poster the same day
	if _, _, err := svc.SubmitGuess(1, date, models.ModeCredits, "Fight Club", targetMovie); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.SubmitGuess(1, date, models.ModePoster, "Fight Club", targetMovie); err != nil {
		t.Fatal(err)
	}

	stats, err := svc.Stats(1)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Streak != 1 || stats.GamesPlayed != 1 || stats.TotalScore != 5 {
		t.Errorf("stats after second same-day win = %+v, want the first win only", stats)
	}

	// The poster mode's own streak still updates
	streaks, _ := svc.Streaks(1)
	if streaks[models.ModePoster].Streak != 1 {
		t.Errorf("poster streak = %+v", streaks[models.ModePoster])
	}
}

func TestStreakContinuationAndReset(t *testing.T) {
	svc := NewGameService(newMemoryStore())

	days := []string{"2024-03-14", "2024-03-15"}
	for _, date := range days {
		if _, _, err := svc.SubmitGuess(1, date, models.ModeCredits, "Fight Club", targetMovie); err != nil {
			t.Fatal(err)
		}
	}

	stats, _ := svc.Stats(1)
	if stats.Streak != 2 || stats.MaxStreak != 2 {
		t.Errorf("stats after consecutive days = %+v", stats)
	}

	// Skip a day: streak restarts at 1, max stays
	if _, _, err := svc.SubmitGuess(1, "2024-03-18", models.ModeCredits, "Fight Club", targetMovie); err != nil {
		t.Fatal(err)
	}
	stats, _ = svc.Stats(1)
	if stats.Streak != 1 || stats.MaxStreak != 2 {
		t.Errorf("stats after a gap = %+v", stats)
	}
}

func TestLossResetsModeStreakOnly(t *testing.T) {
	svc := NewGameService(newMemoryStore())

	// Build a streak, then lose the next day
	if _, _, err := svc.SubmitGuess(1, "2024-03-14", models.ModeCredits, "Fight Club", targetMovie); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if _, _, err := svc.SubmitGuess(1, "2024-03-15", models.ModeCredits, "nope", targetMovie); err != nil {
			t.Fatal(err)
		}
	}

	streaks, _ := svc.Streaks(1)
	if s := streaks[models.ModeCredits]; s.Streak != 0 || s.BestStreak != 1 {
		t.Errorf("credits streak after loss = %+v", s)
	}

	// Global stats keep the prior day's win; a loss never touches them
	stats, _ := svc.Stats(1)
	if stats.Streak != 1 || stats.LastPlayedDate != "2024-03-14" {
		t.Errorf("stats after loss = %+v", stats)
	}
}

func TestInvalidYearRejectedWithoutMutation(t *testing.T) {
	store := newMemoryStore()
	svc := NewGameService(store)

	_, _, err := svc.SubmitGuess(1, "2024-03-15", models.ModeYear, "ninteen-99", targetMovie)
	if !errors.Is(err, ErrInvalidYear) {
		t.Fatalf("err = %v, want ErrInvalidYear", err)
	}
	if store.puts != 0 {
		t.Errorf("state written %d times for rejected input", store.puts)
	}
}

func TestYearGuessDirection(t *testing.T) {
	svc := NewGameService(newMemoryStore())

	outcome, _, err := svc.SubmitGuess(1, "2024-03-15", models.ModeYear, "1985", targetMovie)
	if err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}
	if outcome.Correct || outcome.Direction != "higher" {
		t.Errorf("outcome = %+v, want a higher hint for a low guess", outcome)
	}
}

func TestSkipDoesNotLogGuess(t *testing.T) {
	svc := NewGameService(newMemoryStore())
	date := "2024-03-15"

	for i := 0; i < 4; i++ {
		outcome, _, err := svc.Skip(1, date, models.ModePoster)
		if err != nil {
			t.Fatalf("Skip %d failed: %v", i+1, err)
		}
		if outcome.Completed {
			t.Fatalf("completed after %d skips", i+1)
		}
	}

	outcome, state, err := svc.Skip(1, date, models.ModePoster)
	if err != nil {
		t.Fatalf("final Skip failed: %v", err)
	}
	if !outcome.Completed || outcome.Won || outcome.Score != 0 {
		t.Errorf("outcome = %+v, want a loss", outcome)
	}
	if got := len(state.Game(models.ModePoster).Guesses); got != 0 {
		t.Errorf("skips logged %d guesses", got)
	}
}

func TestUnknownModeRejected(t *testing.T) {
	svc := NewGameService(newMemoryStore())

	if _, _, err := svc.SubmitGuess(1, "2024-03-15", "trailer", "x", targetMovie); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("SubmitGuess err = %v, want ErrUnknownMode", err)
	}
	if _, _, err := svc.Skip(1, "2024-03-15", "trailer"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Skip err = %v, want ErrUnknownMode", err)
	}
}
