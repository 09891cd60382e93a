package service

import (
	"strings"
	"testing"

	"cinephile/internal/models"
)

func TestBuildShareGrid(t *testing.T) {
	state := models.NewDailyState("2024-03-15")

	// Credits: won on round 3
	credits := state.Game(models.ModeCredits)
	credits.Round = 3
	credits.Completed = true
	credits.Won = true

	// Poster: lost
	poster := state.Game(models.ModePoster)
	poster.Round = 5
	poster.Completed = true

	// Year: mid-game on round 2
	state.Game(models.ModeYear).Round = 2

	grid := BuildShareGrid(state)
	lines := strings.Split(grid, "\n")
	if len(lines) != 3 {
		t.Fatalf("grid has %d lines: %q", len(lines), grid)
	}

	want := []string{
		"Credits 🟥🟥🟩⬜⬜",
		"Poster 🟥🟥🟥🟥🟥",
		"Year 🟥⬜⬜⬜⬜",
	}
	for i, line := range want {
		if lines[i] != line {
			t.Errorf("line %d = %q, want %q", i, lines[i], line)
		}
	}
}

func TestDisabledEmailServiceSkipsSend(t *testing.T) {
	svc, err := NewEmailService("us-east-1", "", "", "https://cinephile.example", false)
	if err != nil {
		t.Fatalf("NewEmailService failed: %v", err)
	}
	if svc.IsEnabled() {
		t.Fatal("service without a from address should be disabled")
	}

	state := models.NewDailyState("2024-03-15")
	err = svc.SendResultsEmail(t.Context(), "p@example.com", "2024-03-15", "Comedy", state, &models.Stats{})
	if err != nil {
		t.Errorf("disabled send returned %v, want nil", err)
	}
}
