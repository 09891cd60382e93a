package game

import "cinephile/internal/models"

// PrimaryLanguage is the site's primary original-language code
const PrimaryLanguage = "en"

// ForeignPopularityCutoff is the popularity score above which a
// non-primary-language movie stays in the pool. Suppresses obscure
// foreign-language noise while keeping globally popular foreign films.
const ForeignPopularityCutoff = 40.0

// MergeRanked merges ranked source lists into one pool, deduplicating by
// movie id as entries are appended. The first occurrence of an id wins.
func MergeRanked(lists ...[]models.PoolEntry) []models.PoolEntry {
	seen := make(map[int]bool)
	var merged []models.PoolEntry
	for _, list := range lists {
		for _, entry := range list {
			if seen[entry.ID] {
				continue
			}
			seen[entry.ID] = true
			merged = append(merged, entry)
		}
	}
	return merged
}

// FilterPool applies the locale filter: primary-language entries always
// pass; others only when their popularity exceeds the cutoff. Callers
// must fall back to the unfiltered pool when the result is smaller than
// the number of picks they need.
func FilterPool(entries []models.PoolEntry) []models.PoolEntry {
	filtered := make([]models.PoolEntry, 0, len(entries))
	for _, e := range entries {
		if e.OriginalLanguage == PrimaryLanguage || e.Popularity > ForeignPopularityCutoff {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
