package tmdb

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the trailing window for search-as-you-type callers
const DefaultDebounce = 275 * time.Millisecond

// SearchFunc performs one search request
type SearchFunc func(ctx context.Context, query string) ([]SearchResult, error)

// DeliverFunc receives the results for the most recently issued query
type DeliverFunc func(query string, results []SearchResult, err error)

// Typeahead coalesces a stream of keystrokes into collaborator searches.
// Requests inside the trailing debounce window are suppressed, and each
// dispatched request carries the generation it was issued under: a result
// arriving after a newer query has been issued is dropped, so the most
// recently issued query's result wins, not the most recently resolved one.
type Typeahead struct {
	search  SearchFunc
	deliver DeliverFunc
	delay   time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
}

// NewTypeahead creates a typeahead over the given search function. A zero
// delay uses DefaultDebounce.
func NewTypeahead(search SearchFunc, deliver DeliverFunc, delay time.Duration) *Typeahead {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Typeahead{search: search, deliver: deliver, delay: delay}
}

// Query registers a new keystroke state. Empty and single-rune queries
// resolve to an empty result immediately without touching the collaborator.
func (t *Typeahead) Query(ctx context.Context, query string) {
	t.mu.Lock()
	t.generation++
	gen := t.generation
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}

	if len([]rune(query)) < 2 {
		t.mu.Unlock()
		t.deliverIfCurrent(gen, query, []SearchResult{}, nil)
		return
	}

	t.timer = time.AfterFunc(t.delay, func() {
		results, err := t.search(ctx, query)
		t.deliverIfCurrent(gen, query, results, err)
	})
	t.mu.Unlock()
}

// Cancel drops any pending dispatch and invalidates in-flight results
func (t *Typeahead) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.generation++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// deliverIfCurrent forwards results only when no newer query was issued
func (t *Typeahead) deliverIfCurrent(gen uint64, query string, results []SearchResult, err error) {
	t.mu.Lock()
	current := t.generation == gen
	t.mu.Unlock()
	if current {
		t.deliver(query, results, err)
	}
}
