package puzzle

// Genre pairs a TMDB genre id with its display label
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CuratedGenres is the list the daily draw chooses from. TV Movie and
// Documentary are deliberately absent: neither works for poster or
// credits guessing. The order is part of the deterministic contract:
// reordering changes which genre every past date resolves to.
var CuratedGenres = []Genre{
	{28, "Action"},
	{12, "Adventure"},
	{16, "Animation"},
	{35, "Comedy"},
	{80, "Crime"},
	{18, "Drama"},
	{10751, "Family"},
	{14, "Fantasy"},
	{36, "History"},
	{27, "Horror"},
	{10402, "Music"},
	{9648, "Mystery"},
	{10749, "Romance"},
	{878, "Science Fiction"},
	{53, "Thriller"},
	{10752, "War"},
	{37, "Western"},
}

// GenreByID looks up a curated genre, ok=false when it is not curated
func GenreByID(id int) (Genre, bool) {
	for _, g := range CuratedGenres {
		if g.ID == id {
			return g, true
		}
	}
	return Genre{}, false
}
