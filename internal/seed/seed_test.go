package seed

import (
	"testing"
	"time"
)

func TestHashStringKnownValues(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"2024-03-15", 613282015},
		{"2024-01-01", 613341632},
		{"2025-12-31", 275115454},
		{"hello", 99162322},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := HashString(tt.input); got != tt.want {
				t.Errorf("HashString(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateSeedDeterminism(t *testing.T) {
	date := "2024-03-15"
	first := DateSeed(date)
	for i := 0; i < 100; i++ {
		if got := DateSeed(date); got != first {
			t.Fatalf("DateSeed(%q) changed between calls: %d != %d", date, got, first)
		}
	}
	if first < 0 {
		t.Errorf("DateSeed(%q) = %d, want non-negative", date, first)
	}
}

func TestVariationSeedDistinct(t *testing.T) {
	base := DateSeed("2024-03-15")
	v0 := VariationSeed("2024-03-15", "endless", 0)
	v1 := VariationSeed("2024-03-15", "endless", 1)
	if v0 == v1 {
		t.Error("variation 0 and 1 produced the same seed")
	}
	if v0 == base {
		t.Error("variation seed collides with the plain date seed")
	}
	if again := VariationSeed("2024-03-15", "endless", 1); again != v1 {
		t.Errorf("VariationSeed not stable: %d != %d", again, v1)
	}
}

func TestRandKnownSequence(t *testing.T) {
	// First draws of mulberry32 seeded with DateSeed("2024-03-15")
	want := []float64{
		0.22384048555977643,
		0.86838737432844937,
		0.73909043520689011,
		0.30230797035619617,
		0.28027165099047124,
	}

	r := NewRand(613282015)
	for i, w := range want {
		if got := r.Float64(); got != w {
			t.Errorf("draw %d = %.17g, want %.17g", i, got, w)
		}
	}
}

func TestRandDeterminism(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 1000; i++ {
		av, bv := a.Float64(), b.Float64()
		if av != bv {
			t.Fatalf("sequences diverge at draw %d: %v != %v", i, av, bv)
		}
		if av < 0 || av >= 1 {
			t.Fatalf("draw %d = %v outside [0, 1)", i, av)
		}
	}
}

func TestRandUniformity(t *testing.T) {
	// Coarse bucket check: 10k draws into 10 buckets should each land
	// within a generous band around 1000.
	r := NewRand(123456)
	var buckets [10]int
	for i := 0; i < 10000; i++ {
		buckets[int(r.Float64()*10)]++
	}
	for i, n := range buckets {
		if n < 800 || n > 1200 {
			t.Errorf("bucket %d has %d draws, expected roughly 1000", i, n)
		}
	}
}

func TestRandIntn(t *testing.T) {
	r := NewRand(7)
	for i := 0; i < 1000; i++ {
		if got := r.Intn(17); got < 0 || got >= 17 {
			t.Fatalf("Intn(17) = %d out of range", got)
		}
	}
	if got := NewRand(7).Intn(0); got != 0 {
		t.Errorf("Intn(0) = %d, want 0", got)
	}
}

func TestTodayAndPreviousDay(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	// 23:30 EST is already the 16th in UTC
	if got := Today(now); got != "2024-03-16" {
		t.Errorf("Today() = %q, want %q", got, "2024-03-16")
	}

	tests := []struct {
		date string
		want string
	}{
		{"2024-03-15", "2024-03-14"},
		{"2024-03-01", "2024-02-29"},
		{"2024-01-01", "2023-12-31"},
		{"not-a-date", ""},
	}
	for _, tt := range tests {
		if got := PreviousDay(tt.date); got != tt.want {
			t.Errorf("PreviousDay(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestEndOfUTCDay(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	end := EndOfUTCDay(now)
	if end.Format(DateFormat) != "2024-03-15" {
		t.Errorf("end of day fell on %s", end.Format(DateFormat))
	}
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Errorf("unexpected end-of-day time: %v", end)
	}
}
