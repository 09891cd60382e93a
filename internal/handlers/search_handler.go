package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"cinephile/internal/security"
	"cinephile/internal/tmdb"
)

const searchResultLimit = 8

// maxSearchClients bounds the per-client debouncer map. Entries are
// tiny, so a full reset on overflow beats per-entry bookkeeping.
const maxSearchClients = 1024

// MovieSearcher is the title lookup behind the guess typeahead.
// Satisfied by tmdb.Client.
type MovieSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]tmdb.SearchResult, error)
}

type searchReply struct {
	results []tmdb.SearchResult
	err     error
}

// clientSearch owns one client's typeahead and the request, if any,
// waiting on its next delivery.
type clientSearch struct {
	ta *tmdb.Typeahead

	mu           sync.Mutex
	pending      chan searchReply
	pendingQuery string
}

// issue registers a request as the one waiting for this client's next
// delivery. An older waiter is released with a closed channel so its
// handler can answer that the query was superseded.
func (c *clientSearch) issue(ctx context.Context, query string) chan searchReply {
	ch := make(chan searchReply, 1)
	c.mu.Lock()
	if c.pending != nil {
		close(c.pending)
	}
	c.pending = ch
	c.pendingQuery = query
	c.mu.Unlock()
	c.ta.Query(ctx, query)
	return ch
}

// deliver hands results to the waiting request. The query check guards
// against a slow search resolving after a newer query took the slot.
func (c *clientSearch) deliver(query string, results []tmdb.SearchResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil || query != c.pendingQuery {
		return
	}
	c.pending <- searchReply{results: results, err: err}
	c.pending = nil
}

// SearchHandler serves title suggestions for the guess input. Each
// client's keystrokes funnel through one tmdb.Typeahead, so rapid typing
// collapses into a single upstream search and only the most recently
// issued query is ever answered with results.
type SearchHandler struct {
	searcher MovieSearcher
	debounce time.Duration

	mu      sync.Mutex
	clients map[string]*clientSearch
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searcher MovieSearcher) *SearchHandler {
	return &SearchHandler{
		searcher: searcher,
		debounce: tmdb.DefaultDebounce,
		clients:  make(map[string]*clientSearch),
	}
}

func (h *SearchHandler) client(key string) *clientSearch {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[key]; ok {
		return c
	}
	if len(h.clients) >= maxSearchClients {
		h.clients = make(map[string]*clientSearch)
	}
	c := &clientSearch{}
	c.ta = tmdb.NewTypeahead(func(ctx context.Context, query string) ([]tmdb.SearchResult, error) {
		return h.searcher.Search(ctx, query, searchResultLimit)
	}, c.deliver, h.debounce)
	h.clients[key] = c
	return c
}

// Search resolves a title query through the client's debouncer. Queries
// under two characters return an empty list without an upstream call. A
// request superseded by a newer query from the same client returns 204,
// telling the UI to keep waiting for the newer answer.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	client := h.client(security.GetClientIP(r))
	reply := client.issue(r.Context(), query)

	select {
	case res, ok := <-reply:
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if res.err != nil {
			respondWithError(w, http.StatusBadGateway, "Search unavailable", "Error searching titles", res.err)
			return
		}
		results := res.results
		if results == nil {
			results = []tmdb.SearchResult{}
		}
		respondJSON(w, http.StatusOK, results)
	case <-r.Context().Done():
		w.WriteHeader(http.StatusNoContent)
	}
}
