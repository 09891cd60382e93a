// Package puzzle assembles the deterministic daily puzzle: one seeded
// genre draw, a ranked candidate pool, three decade-diverse picks and
// full detail enrichment. The same date always yields the same puzzle.
package puzzle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"cinephile/internal/game"
	"cinephile/internal/models"
	"cinephile/internal/seed"
)

// MoviesPerDay is how many movies a daily puzzle carries, one per mode
const MoviesPerDay = 3

// ErrPoolTooSmall is returned when even the unfiltered candidate pool
// cannot cover the picks a puzzle needs
var ErrPoolTooSmall = errors.New("candidate pool too small for a puzzle")

// Enricher resolves a pool entry into a fully detailed movie record
type Enricher interface {
	FullMovie(ctx context.Context, id int) (*models.Movie, error)
}

// maxCachedRounds bounds the endless-round memo. Movies are deterministic
// per key, so eviction only costs a rebuild, never a wrong answer.
const maxCachedRounds = 256

type roundKey struct {
	seed  int64
	mode  models.Mode
	round int
}

// Assembler builds daily puzzles and endless-round movies. It caches the
// current day's puzzle in memory and recomputes after UTC midnight.
type Assembler struct {
	enricher Enricher
	pools    PoolSource
	now      func() time.Time

	mu     sync.Mutex
	cached *models.DailyPuzzle
	rounds map[roundKey]*models.Movie
}

// NewAssembler creates an assembler over a pool source and an enricher
func NewAssembler(pools PoolSource, enricher Enricher) *Assembler {
	return &Assembler{
		enricher: enricher,
		pools:    pools,
		now:      time.Now,
		rounds:   make(map[roundKey]*models.Movie),
	}
}

// Daily returns today's puzzle (UTC), serving the in-memory copy while
// the date matches and rebuilding on the first request of a new day.
// Failures are not cached, so a transient collaborator outage only
// affects the requests that hit it.
func (a *Assembler) Daily(ctx context.Context) (*models.DailyPuzzle, error) {
	date := seed.Today(a.now())

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cached != nil && a.cached.Date == date {
		return a.cached, nil
	}

	puzzle, err := a.ForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	a.cached = puzzle
	return puzzle, nil
}

// ForDate assembles the puzzle for an arbitrary date, bypassing the
// cache. The pipeline draws the genre with the first RNG value and feeds
// the same generator into the diversity pick, so call order here is part
// of the determinism contract.
func (a *Assembler) ForDate(ctx context.Context, date string) (*models.DailyPuzzle, error) {
	rng := seed.NewRand(seed.DateSeed(date))
	genre := CuratedGenres[rng.Intn(len(CuratedGenres))]

	picks, err := a.pickFromGenre(ctx, rng, genre.ID, MoviesPerDay)
	if err != nil {
		return nil, fmt.Errorf("puzzle for %s: %w", date, err)
	}

	movies, err := a.enrichAll(ctx, picks)
	if err != nil {
		return nil, fmt.Errorf("puzzle for %s: %w", date, err)
	}

	return &models.DailyPuzzle{
		Date:   date,
		Genre:  genre.Name,
		Movies: movies,
	}, nil
}

// EndlessRound produces the single movie for one round of an endless
// run. Each (runSeed, mode, round) triple maps to its own variation seed
// so consecutive rounds draw from fresh shuffles. Results are memoized
// per triple: every guess in a round re-requests the same target, and
// against a live pool source a rebuild costs a full discover sweep.
func (a *Assembler) EndlessRound(ctx context.Context, runSeed int64, mode models.Mode, round int) (*models.Movie, error) {
	key := roundKey{seed: runSeed, mode: mode, round: round}

	a.mu.Lock()
	if movie, ok := a.rounds[key]; ok {
		a.mu.Unlock()
		return movie, nil
	}
	a.mu.Unlock()

	s := seed.VariationSeed(strconv.FormatInt(runSeed, 10), string(mode), round)
	rng := seed.NewRand(s)
	genre := CuratedGenres[rng.Intn(len(CuratedGenres))]

	picks, err := a.pickFromGenre(ctx, rng, genre.ID, 1)
	if err != nil {
		return nil, fmt.Errorf("endless round %d: %w", round, err)
	}

	movie, err := a.enricher.FullMovie(ctx, picks[0].ID)
	if err != nil {
		return nil, fmt.Errorf("endless round %d: movie %d: %w", round, picks[0].ID, err)
	}

	a.mu.Lock()
	if len(a.rounds) >= maxCachedRounds {
		a.rounds = make(map[roundKey]*models.Movie)
	}
	a.rounds[key] = movie
	a.mu.Unlock()
	return movie, nil
}

// pickFromGenre builds the genre pool, applies the language filter with
// the underflow fallback, and selects n decade-diverse entries
func (a *Assembler) pickFromGenre(ctx context.Context, rng *seed.Rand, genreID, n int) ([]models.PoolEntry, error) {
	pool, err := a.pools.PoolForGenre(ctx, genreID)
	if err != nil {
		return nil, err
	}

	candidates := game.FilterPool(pool)
	if len(candidates) < n {
		candidates = pool
	}
	if len(candidates) < n {
		return nil, fmt.Errorf("genre %d has %d candidates, need %d: %w", genreID, len(candidates), n, ErrPoolTooSmall)
	}

	return game.PickDiverse(candidates, rng, n), nil
}

// enrichAll resolves every pick to a full movie record, preserving pick
// order. Any failure fails the whole set: a daily puzzle with a missing
// movie would desynchronize players.
func (a *Assembler) enrichAll(ctx context.Context, picks []models.PoolEntry) ([]*models.Movie, error) {
	movies := make([]*models.Movie, len(picks))
	errs := make([]error, len(picks))

	var wg sync.WaitGroup
	for i, pick := range picks {
		wg.Add(1)
		go func(idx, id int) {
			defer wg.Done()
			movies[idx], errs[idx] = a.enricher.FullMovie(ctx, id)
		}(i, pick.ID)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("movie %d: %w", picks[i].ID, err)
		}
	}
	return movies, nil
}
