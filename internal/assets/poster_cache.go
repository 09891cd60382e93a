// Package assets mirrors remote puzzle imagery into local static
// storage so the UI never hotlinks the metadata provider's CDN.
package assets

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"cinephile/internal/models"
)

// PosterCache downloads and stores poster and headshot images. Files are
// named by a content-addressed hash of the source URL, so a cache hit is
// a single stat call and repeated prefetches are free.
type PosterCache struct {
	dir    string
	client *http.Client
}

// NewPosterCache creates a cache rooted at dir
func NewPosterCache(dir string, client *http.Client) *PosterCache {
	if client == nil {
		client = http.DefaultClient
	}
	return &PosterCache{dir: dir, client: client}
}

// Cache fetches one image URL into the cache directory, returning the
// local filename. An already-cached URL is returned without a fetch.
func (c *PosterCache) Cache(ctx context.Context, imageURL string) (string, error) {
	filename := cacheFilename(imageURL)
	path := filepath.Join(c.dir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := c.fetch(ctx, imageURL, path); err != nil {
		return "", fmt.Errorf("failed to cache image: %w", err)
	}
	return filename, nil
}

// PrefetchPuzzle warms the cache with every image today's puzzle needs.
// Failures are returned but the prefetch continues: a missing headshot
// should not block the posters.
func (c *PosterCache) PrefetchPuzzle(ctx context.Context, puzzle *models.DailyPuzzle) []error {
	var errs []error
	for _, movie := range puzzle.Movies {
		urls := []string{movie.PosterURL, movie.DirectorPhoto}
		for _, member := range movie.Cast {
			urls = append(urls, member.ProfilePath)
		}
		for _, u := range urls {
			if u == "" {
				continue
			}
			if _, err := c.Cache(ctx, u); err != nil {
				errs = append(errs, fmt.Errorf("movie %d: %w", movie.ID, err))
			}
		}
	}
	return errs
}

// PuzzleSource yields the puzzle whose imagery should be warmed
type PuzzleSource func(ctx context.Context) (*models.DailyPuzzle, error)

// Warm runs one warming pass: resolve the current puzzle and prefetch
// its imagery. Failures are logged, not returned; warming is advisory
// and a cold cache only means the first viewer waits on the origin.
func (c *PosterCache) Warm(ctx context.Context, daily PuzzleSource) {
	puzzle, err := daily(ctx)
	if err != nil {
		log.Printf("Poster warm skipped, puzzle unavailable: %v", err)
		return
	}
	for _, err := range c.PrefetchPuzzle(ctx, puzzle) {
		log.Printf("Poster warm: %v", err)
	}
}

// WarmLoop warms immediately and then on every interval tick until ctx
// is cancelled. The interval re-check is what picks up the new puzzle
// after UTC midnight.
func (c *PosterCache) WarmLoop(ctx context.Context, interval time.Duration, daily PuzzleSource) {
	for {
		c.Warm(ctx, daily)
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// ListCached returns the filenames currently in the cache directory
func (c *PosterCache) ListCached() ([]string, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var cached []string
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".jpg" {
			cached = append(cached, file.Name())
		}
	}
	return cached, nil
}

// Remove deletes one cached file. Removing a missing file is not an error.
func (c *PosterCache) Remove(filename string) error {
	path := filepath.Join(c.dir, filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(path)
}

func (c *PosterCache) fetch(ctx context.Context, imageURL, outputPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

func cacheFilename(imageURL string) string {
	sum := sha1.Sum([]byte(imageURL))
	return hex.EncodeToString(sum[:]) + ".jpg"
}
