package repository

import (
	"path/filepath"
	"testing"

	"cinephile/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "repo_test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations", "sqlite")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestPlayerLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlayerRepository(db)

	created, err := repo.CreatePlayer("11111111-2222-4333-8444-555555555555", "Restless Rohmer")
	if err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected a database id")
	}

	found, err := repo.GetPlayerByPublicID(created.PublicID)
	if err != nil {
		t.Fatalf("GetPlayerByPublicID failed: %v", err)
	}
	if found == nil || found.DisplayName != "Restless Rohmer" {
		t.Fatalf("found = %+v", found)
	}
	if found.Linked() {
		t.Error("anonymous player should not report a linked identity")
	}

	missing, err := repo.GetPlayerByPublicID("no-such-id")
	if err != nil {
		t.Fatalf("lookup of missing player errored: %v", err)
	}
	if missing != nil {
		t.Errorf("missing player = %+v, want nil", missing)
	}
}

func TestLinkIdentity(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlayerRepository(db)

	player, err := repo.CreatePlayer("11111111-2222-4333-8444-666666666666", "Brooding Bergman")
	if err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}

	if err := repo.LinkIdentity(player.ID, "google", "sub-123", "b@example.com"); err != nil {
		t.Fatalf("LinkIdentity failed: %v", err)
	}

	linked, err := repo.GetPlayerByIdentity("google", "sub-123")
	if err != nil {
		t.Fatalf("GetPlayerByIdentity failed: %v", err)
	}
	if linked == nil || linked.ID != player.ID {
		t.Fatalf("linked = %+v, want the original player row", linked)
	}
	if !linked.Linked() || linked.Email != "b@example.com" {
		t.Errorf("identity fields = %q/%q/%q", linked.Provider, linked.ProviderSubject, linked.Email)
	}

	if err := repo.LinkIdentity(99999, "google", "sub-999", ""); err == nil {
		t.Error("linking a missing player should fail")
	}
}

func TestStateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	players := NewPlayerRepository(db)
	states := NewStateRepository(db)

	player, err := players.CreatePlayer("11111111-2222-4333-8444-777777777777", "Quiet Kurosawa")
	if err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}

	_, ok, err := states.Get(player.ID, "cinephile-daily-state")
	if err != nil {
		t.Fatalf("Get on empty state failed: %v", err)
	}
	if ok {
		t.Fatal("expected no state before the first Put")
	}

	if err := states.Put(player.ID, "cinephile-daily-state", `{"round":1}`); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := states.Put(player.ID, "cinephile-daily-state", `{"round":2}`); err != nil {
		t.Fatalf("overwrite Put failed: %v", err)
	}

	payload, ok, err := states.Get(player.ID, "cinephile-daily-state")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || payload != `{"round":2}` {
		t.Errorf("payload = %q, ok = %v, want the overwritten value", payload, ok)
	}

	if err := states.Delete(player.ID, "cinephile-daily-state"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := states.Get(player.ID, "cinephile-daily-state"); ok {
		t.Error("state survived deletion")
	}
	if err := states.Delete(player.ID, "cinephile-daily-state"); err != nil {
		t.Errorf("deleting a missing key errored: %v", err)
	}
}

func TestStateExportImport(t *testing.T) {
	db := newTestDB(t)
	players := NewPlayerRepository(db)
	states := NewStateRepository(db)

	player, err := players.CreatePlayer("11111111-2222-4333-8444-888888888888", "Patient Pakula")
	if err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}

	seed := map[string]string{
		"cinephile-daily-stats":    `{"streak":4}`,
		"cinephile-streak-credits": `{"streak":2,"bestStreak":6}`,
	}
	for k, v := range seed {
		if err := states.Put(player.ID, k, v); err != nil {
			t.Fatalf("Put %s failed: %v", k, err)
		}
	}

	exported, err := states.AllForPlayer(player.ID)
	if err != nil {
		t.Fatalf("AllForPlayer failed: %v", err)
	}
	if len(exported) != len(seed) {
		t.Fatalf("exported %d keys, want %d", len(exported), len(seed))
	}
	for k, v := range seed {
		if exported[k] != v {
			t.Errorf("exported[%s] = %q, want %q", k, exported[k], v)
		}
	}

	replacement := map[string]string{"cinephile-daily-stats": `{"streak":9}`}
	if err := states.ReplaceAll(player.ID, replacement); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	after, err := states.AllForPlayer(player.ID)
	if err != nil {
		t.Fatalf("AllForPlayer after replace failed: %v", err)
	}
	if len(after) != 1 || after["cinephile-daily-stats"] != `{"streak":9}` {
		t.Errorf("state after replace = %v", after)
	}
}

func TestSettings(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepository(db)

	if !repo.IsShareEnabled() {
		t.Error("share should default to enabled")
	}
	if err := repo.SetShareEnabled(false); err != nil {
		t.Fatalf("SetShareEnabled failed: %v", err)
	}
	if repo.IsShareEnabled() {
		t.Error("share still enabled after disabling")
	}

	if got := repo.GetPoolRefreshedAt(); got != "" {
		t.Errorf("pool timestamp before any refresh = %q", got)
	}
	if err := repo.SetPoolRefreshedAt("2026-08-29T12:00:00Z"); err != nil {
		t.Fatalf("SetPoolRefreshedAt failed: %v", err)
	}
	if got := repo.GetPoolRefreshedAt(); got != "2026-08-29T12:00:00Z" {
		t.Errorf("pool timestamp = %q", got)
	}
}
