package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"cinephile/internal/models"
)

// fakePlayers is an in-memory PlayerAccounts implementation
type fakePlayers struct {
	mu       sync.Mutex
	nextID   int64
	byPublic map[string]*models.Player
	created  int
}

func newFakePlayers() *fakePlayers {
	return &fakePlayers{byPublic: make(map[string]*models.Player)}
}

func (f *fakePlayers) GetPlayerByPublicID(publicID string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byPublic[publicID], nil
}

func (f *fakePlayers) CreatePlayer(publicID, displayName string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.created++
	player := &models.Player{ID: f.nextID, PublicID: publicID, DisplayName: displayName}
	f.byPublic[publicID] = player
	return player, nil
}

func (f *fakePlayers) TouchLastSeen(playerID int64) error { return nil }

func (f *fakePlayers) GetPlayerByIdentity(provider, subject string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byPublic {
		if p.Provider == provider && p.ProviderSubject == subject {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePlayers) LinkIdentity(playerID int64, provider, subject, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byPublic {
		if p.ID == playerID {
			p.Provider = provider
			p.ProviderSubject = subject
			p.Email = email
			return nil
		}
	}
	return fmt.Errorf("player %d not found", playerID)
}

func (f *fakePlayers) UpdateDisplayName(playerID int64, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byPublic {
		if p.ID == playerID {
			p.DisplayName = name
			return nil
		}
	}
	return fmt.Errorf("player %d not found", playerID)
}

// fakePuzzles serves a fixed puzzle and one movie per endless round
type fakePuzzles struct {
	puzzle     *models.DailyPuzzle
	err        error
	dailyCalls int
}

func (f *fakePuzzles) Daily(ctx context.Context) (*models.DailyPuzzle, error) {
	f.dailyCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.puzzle, nil
}

func (f *fakePuzzles) EndlessRound(ctx context.Context, runSeed int64, mode models.Mode, round int) (*models.Movie, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Movie{
		ID:    round,
		Title: fmt.Sprintf("Round %d Feature", round),
		Year:  1960 + round,
	}, nil
}

// memoryStore is an in-memory service.StateStore
type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (m *memoryStore) storeKey(playerID int64, key string) string {
	return fmt.Sprintf("%d/%s", playerID, key)
}

func (m *memoryStore) Get(playerID int64, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[m.storeKey(playerID, key)]
	return v, ok, nil
}

func (m *memoryStore) Put(playerID int64, key, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[m.storeKey(playerID, key)] = payload
	return nil
}

func (m *memoryStore) Delete(playerID int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, m.storeKey(playerID, key))
	return nil
}

func testPuzzle(date string) *models.DailyPuzzle {
	return &models.DailyPuzzle{
		Date:  date,
		Genre: "Thriller",
		Movies: []*models.Movie{
			{ID: 550, Title: "Fight Club", Year: 1999},
			{ID: 27205, Title: "Inception", Year: 2010},
			{ID: 680, Title: "Pulp Fiction", Year: 1994},
		},
	}
}

// withPlayer injects a player into the request context, bypassing the
// session middleware
func withPlayer(r *http.Request, player *models.Player) *http.Request {
	ctx := context.WithValue(r.Context(), PlayerContextKey, player)
	return r.WithContext(ctx)
}
