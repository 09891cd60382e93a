// Package tmdb is the typed client for the external movie-metadata
// collaborator. Raw responses are projected into the engine's Movie shape
// at this boundary, failing fast on missing required fields.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cinephile/internal/models"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultImageURL = "https://image.tmdb.org/t/p"

	// Sort orders for DiscoverByGenre
	SortTopRated = "vote_average.desc"
	SortPopular  = "popularity.desc"

	// Region used when projecting watch-provider offers
	providerRegion = "US"
)

var ErrMissingAPIKey = errors.New("tmdb: API key not configured")

// APIError is a non-2xx response from the collaborator
type APIError struct {
	StatusCode int
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb: %s returned status %d", e.Endpoint, e.StatusCode)
}

// Client talks to the TMDB v3 API
type Client struct {
	apiKey     string
	BaseURL    string
	ImageURL   string
	httpClient *http.Client
}

// NewClient creates a client with sane timeouts
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		BaseURL:  defaultBaseURL,
		ImageURL: defaultImageURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// get fetches an endpoint and decodes the JSON body into out
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)

	reqURL := c.BaseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// DiscoverByGenre returns one page of movie summaries for a genre, ranked
// by the given sort order with a minimum vote count.
func (c *Client) DiscoverByGenre(ctx context.Context, genreID int, sortBy string, minVotes, page int) ([]models.PoolEntry, error) {
	params := url.Values{}
	params.Set("with_genres", strconv.Itoa(genreID))
	params.Set("sort_by", sortBy)
	params.Set("vote_count.gte", strconv.Itoa(minVotes))
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var resp discoverResponse
	if err := c.get(ctx, "/discover/movie", params, &resp); err != nil {
		return nil, err
	}

	entries := make([]models.PoolEntry, 0, len(resp.Results))
	for _, m := range resp.Results {
		entries = append(entries, models.PoolEntry{
			ID:               m.ID,
			Title:            m.Title,
			OriginalLanguage: m.OriginalLanguage,
			Popularity:       m.Popularity,
			VoteAverage:      m.VoteAverage,
			VoteCount:        m.VoteCount,
			ReleaseDate:      m.ReleaseDate,
			GenreIDs:         m.GenreIDs,
		})
	}
	return entries, nil
}

// FullMovie fetches detail+credits, keywords and watch providers for a
// movie id and projects them into the engine's Movie record
func (c *Client) FullMovie(ctx context.Context, id int) (*models.Movie, error) {
	var detail movieDetail
	params := url.Values{}
	params.Set("append_to_response", "credits")
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", id), params, &detail); err != nil {
		return nil, err
	}

	var keywords keywordsResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/keywords", id), nil, &keywords); err != nil {
		return nil, err
	}

	var providers watchProvidersResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/watch/providers", id), nil, &providers); err != nil {
		return nil, err
	}

	return c.projectMovie(&detail, &keywords, &providers)
}

// projectMovie maps raw responses into the typed Movie, rejecting records
// that are missing the fields every game depends on
func (c *Client) projectMovie(detail *movieDetail, keywords *keywordsResponse, providers *watchProvidersResponse) (*models.Movie, error) {
	if detail.ID == 0 || detail.Title == "" {
		return nil, fmt.Errorf("tmdb: movie detail missing id or title")
	}
	year := releaseYear(detail.ReleaseDate)
	if year == 0 {
		return nil, fmt.Errorf("tmdb: movie %d has no usable release date %q", detail.ID, detail.ReleaseDate)
	}

	movie := &models.Movie{
		ID:       detail.ID,
		Title:    detail.Title,
		Year:     year,
		Tagline:  detail.Tagline,
		Overview: detail.Overview,
		Rating:   detail.VoteAverage,
		Genre:    "Drama",
	}
	if len(detail.Genres) > 0 {
		movie.Genre = detail.Genres[0].Name
	}
	if detail.PosterPath != "" {
		movie.PosterURL = c.ImageURL + "/w500" + detail.PosterPath
	}

	for _, crew := range detail.Credits.Crew {
		if crew.Job == "Director" {
			movie.Director = crew.Name
			if crew.ProfilePath != "" {
				movie.DirectorPhoto = c.ImageURL + "/w185" + crew.ProfilePath
			}
			break
		}
	}
	if movie.Director == "" {
		movie.Director = "Unknown"
	}

	seenWriters := make(map[string]bool)
	for _, crew := range detail.Credits.Crew {
		if crew.Department != "Writing" || seenWriters[crew.Name] {
			continue
		}
		seenWriters[crew.Name] = true
		movie.Writers = append(movie.Writers, crew.Name)
		if len(movie.Writers) == 3 {
			break
		}
	}

	cast := detail.Credits.Cast
	if len(cast) > 6 {
		cast = cast[:6]
	}
	movie.Cast = make([]models.CastMember, 0, len(cast))
	for _, m := range cast {
		member := models.CastMember{Name: m.Name, Character: m.Character}
		if m.ProfilePath != "" {
			member.ProfilePath = c.ImageURL + "/w185" + m.ProfilePath
		}
		movie.Cast = append(movie.Cast, member)
	}

	for i, kw := range keywords.Keywords {
		if i == 5 {
			break
		}
		movie.PlotKeywords = append(movie.PlotKeywords, kw.Name)
	}

	if region, ok := providers.Results[providerRegion]; ok {
		movie.WatchProviders = c.projectProviders(&region)
	}

	return movie, nil
}

func (c *Client) projectProviders(region *countryProviders) []models.WatchProvider {
	var offers []models.WatchProvider
	appendOffers := func(list []watchProvider, offerType string) {
		for _, p := range list {
			offer := models.WatchProvider{
				ID:   p.ProviderID,
				Name: p.ProviderName,
				Type: offerType,
			}
			if p.LogoPath != "" {
				offer.LogoURL = c.ImageURL + "/w92" + p.LogoPath
			}
			offers = append(offers, offer)
		}
	}
	appendOffers(region.Flatrate, "stream")
	appendOffers(region.Rent, "rent")
	appendOffers(region.Buy, "buy")
	return offers
}

// Search returns up to limit type-ahead matches for a free-text query.
// Queries shorter than two runes return nothing without calling out.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []SearchResult{}, nil
	}
	if limit <= 0 {
		limit = 8
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	params.Set("include_adult", "false")

	var resp searchResponse
	if err := c.get(ctx, "/search/movie", params, &resp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, limit)
	for _, m := range resp.Results {
		if len(results) == limit {
			break
		}
		results = append(results, SearchResult{
			ID:    m.ID,
			Title: m.Title,
			Year:  releaseYear(m.ReleaseDate),
		})
	}
	return results, nil
}

// releaseYear parses the leading year of a YYYY-MM-DD date, 0 if unusable
func releaseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return 0
	}
	return year
}
