package models

// EndlessRun tracks one survival run for a mode. Round is unbounded and
// increments on every round win; Score only accumulates. Active flips to
// false exactly once, on a loss, and never back. Current holds the
// embedded round state for the round in progress.
type EndlessRun struct {
	Seed    int64      `json:"seed"`
	Mode    Mode       `json:"mode"`
	Round   int        `json:"round"`
	Score   int        `json:"score"`
	Active  bool       `json:"active"`
	Current *GameState `json:"current"`
}

// NewEndlessRun starts a fresh run seeded with the given value
func NewEndlessRun(mode Mode, seed int64) *EndlessRun {
	return &EndlessRun{
		Seed:    seed,
		Mode:    mode,
		Round:   1,
		Active:  true,
		Current: NewGameState(),
	}
}

// EndlessBest stores the two independently-tracked records for a mode
type EndlessBest struct {
	BestRound int `json:"bestRound"`
	BestScore int `json:"bestScore"`
}

// Update raises whichever records the given round/score exceed and
// reports whether anything changed
func (b *EndlessBest) Update(round, score int) bool {
	changed := false
	if round > b.BestRound {
		b.BestRound = round
		changed = true
	}
	if score > b.BestScore {
		b.BestScore = score
		changed = true
	}
	return changed
}
