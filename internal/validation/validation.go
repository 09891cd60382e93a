// Package validation rejects malformed input at the HTTP boundary so
// the game engine only ever sees well-formed guesses.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// The first public film screening was 1895; the earliest surviving
// films date to 1878. One year of headroom covers upcoming releases.
const earliestFilmYear = 1878

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateGuess checks a title guess before it reaches the state machine
func ValidateGuess(guess string) error {
	trimmed := strings.TrimSpace(guess)
	if trimmed == "" {
		return ValidationError{Field: "guess", Message: "guess is required"}
	}
	if len(trimmed) > 200 {
		return ValidationError{Field: "guess", Message: "guess is too long"}
	}
	return nil
}

// ValidateYearGuess checks a year-mode guess: numeric and within the
// range of years a feature film could plausibly carry
func ValidateYearGuess(guess string) (int, error) {
	trimmed := strings.TrimSpace(guess)
	year, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, ValidationError{Field: "guess", Message: "year must be a number"}
	}
	if year < earliestFilmYear || year > time.Now().UTC().Year()+1 {
		return 0, ValidationError{Field: "guess", Message: "year is out of range"}
	}
	return year, nil
}

// ValidateDisplayName checks a player-chosen display name
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "displayName", Message: "display name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "displayName", Message: "display name must be at least 2 characters"}
	}
	if len(name) > 100 {
		return ValidationError{Field: "displayName", Message: "display name is too long"}
	}
	return nil
}
