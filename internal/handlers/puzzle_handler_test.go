package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cinephile/internal/models"
	"cinephile/internal/puzzle"
)

func TestGetDailyPuzzleCacheLifetime(t *testing.T) {
	puzzles := &fakePuzzles{puzzle: testPuzzle("2024-03-15")}
	h := NewPuzzleHandler(puzzles)
	h.now = func() time.Time {
		// Two hours before the day boundary
		return time.Date(2024, 3, 15, 22, 0, 0, 0, time.UTC)
	}

	recorder := httptest.NewRecorder()
	h.GetDailyPuzzle(recorder, httptest.NewRequest("GET", "/api/daily-puzzle", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}

	cacheControl := recorder.Header().Get("Cache-Control")
	if !strings.Contains(cacheControl, "max-age=7200") {
		t.Errorf("expected max-age=7200 two hours before midnight, got %q", cacheControl)
	}

	var pz models.DailyPuzzle
	if err := json.Unmarshal(recorder.Body.Bytes(), &pz); err != nil {
		t.Fatalf("decode puzzle: %v", err)
	}
	if pz.Date != "2024-03-15" || len(pz.Movies) != 3 {
		t.Errorf("unexpected puzzle payload: %+v", pz)
	}
}

func TestGetDailyPuzzlePoolTooSmall(t *testing.T) {
	puzzles := &fakePuzzles{err: puzzle.ErrPoolTooSmall}
	h := NewPuzzleHandler(puzzles)

	recorder := httptest.NewRecorder()
	h.GetDailyPuzzle(recorder, httptest.NewRequest("GET", "/api/daily-puzzle", nil))

	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the pool is too small, got %d", recorder.Code)
	}
}
