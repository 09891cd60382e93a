package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cinephile/internal/models"
	"cinephile/internal/service"
)

func newGameHandlerForTest(t *testing.T) (*GameHandler, *models.Player) {
	t.Helper()
	games := service.NewGameService(newMemoryStore())
	puzzles := &fakePuzzles{puzzle: testPuzzle("2024-03-15")}
	h := NewGameHandler(games, puzzles)
	h.now = func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return h, &models.Player{ID: 1, PublicID: "pub-1", DisplayName: "Quiet Varda"}
}

func TestGetStateInitializesDay(t *testing.T) {
	h, player := newGameHandlerForTest(t)

	recorder := httptest.NewRecorder()
	req := withPlayer(httptest.NewRequest("GET", "/api/state", nil), player)
	h.GetState(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var resp struct {
		Date  string             `json:"date"`
		State *models.DailyState `json:"state"`
		Stats *models.Stats      `json:"stats"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Date != "2024-03-15" {
		t.Errorf("expected date 2024-03-15, got %q", resp.Date)
	}
	if resp.State == nil || len(resp.State.Games) != 3 {
		t.Fatalf("expected three fresh games, got %+v", resp.State)
	}
	if resp.Stats.GamesPlayed != 0 {
		t.Errorf("fresh stats should have 0 games played, got %d", resp.Stats.GamesPlayed)
	}
}

func TestSubmitGuessFirstRoundWin(t *testing.T) {
	h, player := newGameHandlerForTest(t)

	body := `{"mode":"credits","guess":"fight club"}`
	recorder := httptest.NewRecorder()
	req := withPlayer(httptest.NewRequest("POST", "/api/guess", strings.NewReader(body)), player)
	h.SubmitGuess(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var resp guessResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Outcome.Won || resp.Outcome.Score != 5 {
		t.Errorf("first-round win should score 5, got %+v", resp.Outcome)
	}
	if resp.Answer == nil || resp.Answer.Title != "Fight Club" {
		t.Errorf("completed game should reveal the answer, got %+v", resp.Answer)
	}
}

func TestSubmitGuessWrongKeepsAnswerHidden(t *testing.T) {
	h, player := newGameHandlerForTest(t)

	body := `{"mode":"poster","guess":"The Matrix"}`
	recorder := httptest.NewRecorder()
	req := withPlayer(httptest.NewRequest("POST", "/api/guess", strings.NewReader(body)), player)
	h.SubmitGuess(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var resp guessResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Outcome.Correct || resp.Outcome.Completed {
		t.Errorf("wrong guess should not complete the game, got %+v", resp.Outcome)
	}
	if resp.Answer != nil {
		t.Error("answer must stay hidden while the game is in progress")
	}
	if resp.State.Game(models.ModePoster).Round != 2 {
		t.Errorf("expected round 2, got %d", resp.State.Game(models.ModePoster).Round)
	}
}

func TestSubmitGuessRejectsUnknownMode(t *testing.T) {
	h, player := newGameHandlerForTest(t)

	body := `{"mode":"charades","guess":"Fight Club"}`
	recorder := httptest.NewRecorder()
	req := withPlayer(httptest.NewRequest("POST", "/api/guess", strings.NewReader(body)), player)
	h.SubmitGuess(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestSubmitGuessRejectsMalformedYear(t *testing.T) {
	h, player := newGameHandlerForTest(t)

	body := `{"mode":"year","guess":"nineteen ninety-nine"}`
	recorder := httptest.NewRecorder()
	req := withPlayer(httptest.NewRequest("POST", "/api/guess", strings.NewReader(body)), player)
	h.SubmitGuess(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestSubmitYearGuessReturnsDirection(t *testing.T) {
	h, player := newGameHandlerForTest(t)

	body := `{"mode":"year","guess":"1985"}`
	recorder := httptest.NewRecorder()
	req := withPlayer(httptest.NewRequest("POST", "/api/guess", strings.NewReader(body)), player)
	h.SubmitGuess(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var resp guessResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Target year is 1994; 1985 is too low, so the hint points higher
	if resp.Outcome.Direction != "higher" {
		t.Errorf("expected higher hint, got %q", resp.Outcome.Direction)
	}
}

func TestSkipAdvancesWithoutGuess(t *testing.T) {
	h, player := newGameHandlerForTest(t)

	body := `{"mode":"credits"}`
	recorder := httptest.NewRecorder()
	req := withPlayer(httptest.NewRequest("POST", "/api/skip", strings.NewReader(body)), player)
	h.Skip(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var resp guessResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	gs := resp.State.Game(models.ModeCredits)
	if gs.Round != 2 {
		t.Errorf("expected round 2 after skip, got %d", gs.Round)
	}
	if len(gs.Guesses) != 0 {
		t.Errorf("skip must not log a guess, got %v", gs.Guesses)
	}
}

func TestSubmitGuessRequiresPlayer(t *testing.T) {
	h, _ := newGameHandlerForTest(t)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/guess", strings.NewReader(`{"mode":"credits","guess":"x"}`))
	h.SubmitGuess(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a player, got %d", recorder.Code)
	}
}
