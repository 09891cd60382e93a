package puzzle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"cinephile/internal/game"
	"cinephile/internal/models"
	"cinephile/internal/tmdb"
)

// PoolSource produces the candidate movie set for a genre
type PoolSource interface {
	PoolForGenre(ctx context.Context, genreID int) ([]models.PoolEntry, error)
}

// Discoverer is the slice of the metadata collaborator pool building needs
type Discoverer interface {
	DiscoverByGenre(ctx context.Context, genreID int, sortBy string, minVotes, page int) ([]models.PoolEntry, error)
}

// PoolConfig controls how many ranking pages feed a live pool
type PoolConfig struct {
	TopRatedPages    int
	TopRatedMinVotes int
	PopularPages     int
	PopularMinVotes  int
	BatchSize        int
}

// DefaultPoolConfig mixes prestige picks against recognizable
// blockbusters: top-rated pages require a high vote floor, popular pages
// a lower one.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		TopRatedPages:    10,
		TopRatedMinVotes: 500,
		PopularPages:     10,
		PopularMinVotes:  200,
		BatchSize:        5,
	}
}

// LivePoolSource builds pools against the collaborator on demand
type LivePoolSource struct {
	client Discoverer
	cfg    PoolConfig
}

// NewLivePoolSource creates a live pool source
func NewLivePoolSource(client Discoverer, cfg PoolConfig) *LivePoolSource {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1
	}
	return &LivePoolSource{client: client, cfg: cfg}
}

// PoolForGenre merges the two ranked source lists for a genre,
// deduplicated by id. Page fetches run in small concurrent batches and the
// whole build fails if any page does: a partial pool would corrupt the
// underflow fallback decision.
func (s *LivePoolSource) PoolForGenre(ctx context.Context, genreID int) ([]models.PoolEntry, error) {
	topRated, err := s.fetchRanking(ctx, genreID, tmdb.SortTopRated, s.cfg.TopRatedMinVotes, s.cfg.TopRatedPages)
	if err != nil {
		return nil, fmt.Errorf("top-rated ranking for genre %d: %w", genreID, err)
	}

	popular, err := s.fetchRanking(ctx, genreID, tmdb.SortPopular, s.cfg.PopularMinVotes, s.cfg.PopularPages)
	if err != nil {
		return nil, fmt.Errorf("popular ranking for genre %d: %w", genreID, err)
	}

	return game.MergeRanked(topRated, popular), nil
}

// fetchRanking pulls pages 1..pages of one ranking, preserving page order
func (s *LivePoolSource) fetchRanking(ctx context.Context, genreID int, sortBy string, minVotes, pages int) ([]models.PoolEntry, error) {
	results := make([][]models.PoolEntry, pages)
	errs := make([]error, pages)

	for start := 0; start < pages; start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > pages {
			end = pages
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				entries, err := s.client.DiscoverByGenre(ctx, genreID, sortBy, minVotes, idx+1)
				results[idx] = entries
				errs[idx] = err
			}(i)
		}
		wg.Wait()

		for i := start; i < end; i++ {
			if errs[i] != nil {
				return nil, fmt.Errorf("page %d: %w", i+1, errs[i])
			}
		}
	}

	var all []models.PoolEntry
	for _, page := range results {
		all = append(all, page...)
	}
	return all, nil
}

// PoolSnapshot is the on-disk format written by cmd/poolgen
type PoolSnapshot struct {
	Generated string                        `json:"generated"`
	Version   int                           `json:"version"`
	Pools     map[string][]models.PoolEntry `json:"pools"`
}

// SnapshotPoolSource serves pools from a precomputed static snapshot,
// trading freshness for zero collaborator traffic during assembly
type SnapshotPoolSource struct {
	snapshot PoolSnapshot
}

// LoadSnapshot reads a pool snapshot file
func LoadSnapshot(path string) (*SnapshotPoolSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool snapshot: %w", err)
	}
	var snap PoolSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse pool snapshot: %w", err)
	}
	if len(snap.Pools) == 0 {
		return nil, fmt.Errorf("pool snapshot %s contains no pools", path)
	}
	return &SnapshotPoolSource{snapshot: snap}, nil
}

// PoolForGenre returns the snapshotted pool for a genre
func (s *SnapshotPoolSource) PoolForGenre(ctx context.Context, genreID int) ([]models.PoolEntry, error) {
	pool, ok := s.snapshot.Pools[strconv.Itoa(genreID)]
	if !ok || len(pool) == 0 {
		return nil, fmt.Errorf("pool snapshot has no entries for genre %d", genreID)
	}
	return pool, nil
}
