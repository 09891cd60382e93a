package models

// WatchProvider is a single streaming/rent/buy offer for a movie
type WatchProvider struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl"`
	Type    string `json:"type"` // "stream", "rent" or "buy"
}

// CastMember is one billed cast entry
type CastMember struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profilePath,omitempty"`
}

// Movie is the enriched record served to the games.
// Projected from the metadata collaborator when a puzzle is assembled;
// immutable afterwards.
type Movie struct {
	ID             int             `json:"id"`
	Title          string          `json:"title"`
	Year           int             `json:"year"`
	Director       string          `json:"director"`
	DirectorPhoto  string          `json:"directorPhoto,omitempty"`
	Cast           []CastMember    `json:"cast"`
	Writers        []string        `json:"writers"`
	Genre          string          `json:"genre"`
	Tagline        string          `json:"tagline"`
	Overview       string          `json:"overview,omitempty"`
	PlotKeywords   []string        `json:"plotKeywords"`
	PosterURL      string          `json:"posterUrl"`
	Rating         float64         `json:"rating"`
	WatchProviders []WatchProvider `json:"watchProviders"`
}

// PoolEntry is a movie summary eligible for a genre pool
type PoolEntry struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalLanguage string  `json:"originalLanguage"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"voteAverage"`
	VoteCount        int     `json:"voteCount"`
	ReleaseDate      string  `json:"releaseDate"` // YYYY-MM-DD
	GenreIDs         []int   `json:"genreIds,omitempty"`
}

// ReleaseYear parses the year out of the release date, 0 if unknown
func (e PoolEntry) ReleaseYear() int {
	if len(e.ReleaseDate) < 4 {
		return 0
	}
	year := 0
	for _, c := range e.ReleaseDate[:4] {
		if c < '0' || c > '9' {
			return 0
		}
		year = year*10 + int(c-'0')
	}
	return year
}

// Decade returns the release decade (e.g. 1990), 0 if unknown
func (e PoolEntry) Decade() int {
	return e.ReleaseYear() / 10 * 10
}

// DailyPuzzle is the assembled per-day result served to every player
type DailyPuzzle struct {
	Date   string   `json:"date"`
	Genre  string   `json:"genre"`
	Movies []*Movie `json:"movies"`
}
