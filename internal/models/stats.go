package models

// Stats is the global daily-mode aggregate record. It is mutated at most
// once per calendar day: the first daily win updates every field and any
// repeat trigger on the same date is a no-op.
type Stats struct {
	Streak         int    `json:"streak"`
	MaxStreak      int    `json:"maxStreak"`
	TotalScore     int    `json:"totalScore"`
	GamesPlayed    int    `json:"gamesPlayed"`
	LastPlayedDate string `json:"lastPlayedDate"`
}

// ModeStreak is the per-mode streak record. A win extends the streak only
// when the previous played date was exactly yesterday; a loss resets it
// to zero. Both updates are idempotent within a calendar day.
type ModeStreak struct {
	Streak         int    `json:"streak"`
	BestStreak     int    `json:"bestStreak"`
	LastPlayedDate string `json:"lastPlayedDate"`
}
