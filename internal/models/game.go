package models

// Mode identifies one of the three daily puzzle games
type Mode string

const (
	ModeCredits Mode = "credits"
	ModePoster  Mode = "poster"
	ModeYear    Mode = "year"
)

// Modes lists all game modes in their daily-puzzle order.
// The index doubles as the pick index into the daily movie triple.
var Modes = []Mode{ModeCredits, ModePoster, ModeYear}

// Valid reports whether m is a known game mode
func (m Mode) Valid() bool {
	switch m {
	case ModeCredits, ModePoster, ModeYear:
		return true
	}
	return false
}

// MovieIndex returns the index of this mode's movie within the daily triple
func (m Mode) MovieIndex() int {
	for i, mode := range Modes {
		if mode == m {
			return i
		}
	}
	return 0
}

// GameState is the per-mode round/guess state of a single puzzle instance.
// Round is 1-indexed and never exceeds the round cap; once Completed is
// true no further guesses are accepted. YearGuesses is populated only by
// the year mode and runs parallel to Guesses.
type GameState struct {
	Round       int      `json:"round"`
	Completed   bool     `json:"completed"`
	Score       int      `json:"score"`
	Guesses     []string `json:"guesses"`
	Won         bool     `json:"won"`
	YearGuesses []int    `json:"yearGuesses,omitempty"`
}

// NewGameState returns the default (round 1, nothing guessed) state
func NewGameState() *GameState {
	return &GameState{Round: 1, Guesses: []string{}}
}

// Reset returns the state to its round-1 defaults in place
func (gs *GameState) Reset() {
	gs.Round = 1
	gs.Completed = false
	gs.Score = 0
	gs.Guesses = []string{}
	gs.Won = false
	gs.YearGuesses = nil
}

// DailyState holds one GameState per mode, valid only for its own date.
// A date mismatch on load means the whole record is discarded.
type DailyState struct {
	Date  string              `json:"date"`
	Games map[Mode]*GameState `json:"games"`
}

// NewDailyState creates a fresh state for the given date
func NewDailyState(date string) *DailyState {
	return &DailyState{
		Date: date,
		Games: map[Mode]*GameState{
			ModeCredits: NewGameState(),
			ModePoster:  NewGameState(),
			ModeYear:    NewGameState(),
		},
	}
}

// Game returns the state for a mode, initializing it if absent
func (ds *DailyState) Game(mode Mode) *GameState {
	if ds.Games == nil {
		ds.Games = make(map[Mode]*GameState)
	}
	gs, ok := ds.Games[mode]
	if !ok || gs == nil {
		gs = NewGameState()
		ds.Games[mode] = gs
	}
	return gs
}
