package game

import (
	"testing"

	"cinephile/internal/models"
	"cinephile/internal/seed"
)

func poolOf(dates ...string) []models.PoolEntry {
	pool := make([]models.PoolEntry, len(dates))
	for i, d := range dates {
		pool[i] = models.PoolEntry{ID: i + 1, ReleaseDate: d, OriginalLanguage: "en"}
	}
	return pool
}

func TestPickDiverseCounts(t *testing.T) {
	tests := []struct {
		name  string
		pool  []models.PoolEntry
		n     int
		wantN int
	}{
		{"pool larger than n", poolOf("1994-01-01", "1985-01-01", "2001-01-01", "2010-01-01", "1972-01-01"), 3, 3},
		{"pool equal to n", poolOf("1994-01-01", "1985-01-01", "2001-01-01"), 3, 3},
		{"pool smaller than n", poolOf("1994-01-01", "1985-01-01"), 3, 2},
		{"empty pool", nil, 3, 0},
		{"zero picks", poolOf("1994-01-01"), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			picks := PickDiverse(tt.pool, seed.NewRand(99), tt.n)
			if len(picks) != tt.wantN {
				t.Fatalf("got %d picks, want %d", len(picks), tt.wantN)
			}
			seen := make(map[int]bool)
			for _, p := range picks {
				if seen[p.ID] {
					t.Errorf("duplicate id %d in picks", p.ID)
				}
				seen[p.ID] = true
			}
		})
	}
}

func TestPickDiverseReproducible(t *testing.T) {
	pool := poolOf(
		"1972-03-14", "1985-07-03", "1994-09-23", "1999-03-31", "2008-07-18",
		"2010-07-16", "1977-05-25", "1991-02-14", "2014-11-07", "2019-05-30",
	)

	first := PickDiverse(pool, seed.NewRand(613282015), 3)
	for run := 0; run < 5; run++ {
		again := PickDiverse(pool, seed.NewRand(613282015), 3)
		if len(again) != len(first) {
			t.Fatalf("run %d returned %d picks, want %d", run, len(again), len(first))
		}
		for i := range first {
			if again[i].ID != first[i].ID {
				t.Fatalf("run %d pick %d = id %d, want id %d", run, i, again[i].ID, first[i].ID)
			}
		}
	}
}

func TestPickDiverseDecadeSpread(t *testing.T) {
	// 10 movies spanning 5 decades: any 3 picks should cover at least 2
	pool := poolOf(
		"1970-01-01", "1975-01-01", "1980-01-01", "1985-01-01", "1990-01-01",
		"1995-01-01", "2000-01-01", "2005-01-01", "2010-01-01", "2015-01-01",
	)

	for s := 0; s < 50; s++ {
		picks := PickDiverse(pool, seed.NewRand(s), 3)
		decades := make(map[int]bool)
		for _, p := range picks {
			decades[p.Decade()] = true
		}
		if len(decades) < 2 {
			t.Errorf("seed %d: picks span only %d decade(s)", s, len(decades))
		}
	}
}

func TestPickDiverseSingleDecadePool(t *testing.T) {
	// All candidates share one decade; the last-slot relaxation plus the
	// fill pass must still deliver the full count.
	pool := poolOf("1994-01-01", "1995-06-01", "1996-12-01", "1999-01-01")
	picks := PickDiverse(pool, seed.NewRand(5), 3)
	if len(picks) != 3 {
		t.Fatalf("got %d picks from a single-decade pool, want 3", len(picks))
	}
}

func TestShuffleReproducible(t *testing.T) {
	a := poolOf("1970-01-01", "1980-01-01", "1990-01-01", "2000-01-01", "2010-01-01")
	b := poolOf("1970-01-01", "1980-01-01", "1990-01-01", "2000-01-01", "2010-01-01")
	Shuffle(a, seed.NewRand(42))
	Shuffle(b, seed.NewRand(42))
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("shuffles diverge at %d: %d != %d", i, a[i].ID, b[i].ID)
		}
	}
}

func TestShuffleDoesNotLoseEntries(t *testing.T) {
	pool := poolOf("1970-01-01", "1980-01-01", "1990-01-01", "2000-01-01")
	Shuffle(pool, seed.NewRand(7))
	seen := make(map[int]bool)
	for _, e := range pool {
		seen[e.ID] = true
	}
	for id := 1; id <= 4; id++ {
		if !seen[id] {
			t.Errorf("id %d missing after shuffle", id)
		}
	}
}
