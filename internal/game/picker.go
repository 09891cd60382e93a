package game

import (
	"cinephile/internal/models"
	"cinephile/internal/seed"
)

// Shuffle performs a seeded Fisher–Yates pass in place, scanning from the
// end and swapping index i with a uniformly chosen index in [0, i]. The
// result is bit-reproducible for a given RNG sequence.
func Shuffle(pool []models.PoolEntry, rng *seed.Rand) {
	for i := len(pool) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
}

// PickDiverse selects up to n movies from the pool using the seeded RNG,
// spreading picks across release decades where it can. The decade
// constraint is soft: once only one slot remains any candidate is
// accepted, and a fill pass tops up from the shuffled order if the greedy
// walk came up short. Returns exactly min(n, len(pool)) entries with no
// duplicate ids, in a fully reproducible order.
func PickDiverse(pool []models.PoolEntry, rng *seed.Rand, n int) []models.PoolEntry {
	if n <= 0 || len(pool) == 0 {
		return nil
	}

	shuffled := make([]models.PoolEntry, len(pool))
	copy(shuffled, pool)
	Shuffle(shuffled, rng)

	usedDecades := make(map[int]bool)
	pickedIDs := make(map[int]bool)
	picks := make([]models.PoolEntry, 0, n)

	for _, cand := range shuffled {
		if len(picks) == n {
			break
		}
		lastSlot := n-len(picks) == 1
		if !usedDecades[cand.Decade()] || lastSlot {
			picks = append(picks, cand)
			usedDecades[cand.Decade()] = true
			pickedIDs[cand.ID] = true
		}
	}

	// Top up from the shuffled order if decade exhaustion left gaps
	for _, cand := range shuffled {
		if len(picks) == n {
			break
		}
		if !pickedIDs[cand.ID] {
			picks = append(picks, cand)
			pickedIDs[cand.ID] = true
		}
	}

	return picks
}
