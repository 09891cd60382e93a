package seed

// Rand is a mulberry32 pseudo-random generator. Two instances constructed
// with the same seed produce identical sequences on every platform, which
// is what keeps the daily puzzle identical for every player.
type Rand struct {
	state uint32
}

// NewRand creates a generator from a 32-bit integer seed
func NewRand(s int) *Rand {
	return &Rand{state: uint32(s)}
}

// Float64 returns the next value in [0, 1)
func (r *Rand) Float64() float64 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296
}

// Intn returns a uniformly distributed int in [0, n)
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Float64() * float64(n))
}
