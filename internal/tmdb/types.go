package tmdb

// Raw response shapes for the TMDB v3 API. These stay inside this package;
// everything that crosses into the engine is projected into the typed
// records in internal/models first.

type discoverResponse struct {
	Page         int             `json:"page"`
	TotalPages   int             `json:"total_pages"`
	TotalResults int             `json:"total_results"`
	Results      []discoverMovie `json:"results"`
}

type discoverMovie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalLanguage string  `json:"original_language"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	ReleaseDate      string  `json:"release_date"`
	GenreIDs         []int   `json:"genre_ids"`
}

type movieDetail struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Tagline     string  `json:"tagline"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	Genres      []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	Credits creditsResponse `json:"credits"`
}

type creditsResponse struct {
	Cast []castMember `json:"cast"`
	Crew []crewMember `json:"crew"`
}

type castMember struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type crewMember struct {
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

type keywordsResponse struct {
	Keywords []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"keywords"`
}

type watchProvidersResponse struct {
	Results map[string]countryProviders `json:"results"`
}

type countryProviders struct {
	Flatrate []watchProvider `json:"flatrate"`
	Rent     []watchProvider `json:"rent"`
	Buy      []watchProvider `json:"buy"`
}

type watchProvider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	LogoPath     string `json:"logo_path"`
}

type searchResponse struct {
	Results []discoverMovie `json:"results"`
}

// SearchResult is one type-ahead match
type SearchResult struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Year  int    `json:"year,omitempty"`
}
