package storage

import (
	"context"
	"testing"
	"time"

	"github.com/hammamikhairi/ottobar/internal/domain"
	"github.com/hammamikhairi/ottobar/internal/drink"
	"github.com/hammamikhairi/ottobar/internal/logger"
)

func testSession(id string, status domain.SessionStatus, started time.Time) *domain.Session {
	gin := domain.Ingredient{ID: "gin", Name: "伦敦干金酒 (Gin)", Category: domain.CategoryBaseSpirit, ABV: 40, Color: "#F5F5F5", Density: 0.94}
	state := drink.New(domain.GlassMartini)
	state = drink.Apply(state, domain.Action{Type: domain.ActionPour, Ingredient: &gin, Amount: 60})
	state = drink.Apply(state, domain.Action{Type: domain.ActionStir})

	return &domain.Session{
		ID:     id,
		Drink:  state,
		Status: status,
		Recipe: &domain.Recipe{
			Name:         "Martini",
			Ingredients:  []domain.RecipeIngredient{{Name: "金酒(Gin)", Amount: "60ml"}},
			Instructions: []string{"倒入60ml金酒", "搅拌"},
		},
		StartedAt: started,
		UpdatedAt: started,
	}
}

func TestMemoryStoreCRUD(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	session := testSession("test-session-1", domain.SessionActive, time.Now())

	// Save.
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Load.
	loaded, err := store.Load(ctx, "test-session-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != session.ID || len(loaded.Drink.Steps) != 2 {
		t.Fatalf("unexpected session loaded: %+v", loaded)
	}

	// Load nonexistent.
	_, err = store.Load(ctx, "nonexistent")
	if err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Delete.
	if err := store.Delete(ctx, "test-session-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = store.Load(ctx, "test-session-1")
	if err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Delete nonexistent.
	if err := store.Delete(ctx, "nonexistent"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreCopiesSessions(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	session := testSession("s1", domain.SessionActive, time.Now())
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the caller's copy must not reach the store.
	session.Drink.Steps[0].Description = "changed"
	session.Recipe.Instructions[0] = "changed"
	session.Status = domain.SessionAbandoned

	loaded, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Drink.Steps[0].Description == "changed" || loaded.Recipe.Instructions[0] == "changed" {
		t.Fatal("store shares slices with the caller")
	}
	if loaded.Status != domain.SessionActive {
		t.Fatalf("status = %s, want active", loaded.Status)
	}

	// Nor must mutating a loaded copy.
	loaded.Drink.Layers[0].Amount = 999
	again, _ := store.Load(ctx, "s1")
	if again.Drink.Layers[0].Amount != 60 {
		t.Fatal("loaded session aliases stored state")
	}
}

func TestMemoryStoreListActiveFilters(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	sessions := []*domain.Session{
		testSession("s1", domain.SessionActive, base.Add(time.Minute)),
		testSession("s2", domain.SessionActive, base),
		testSession("s3", domain.SessionFinished, base),
		testSession("s4", domain.SessionAbandoned, base),
	}

	for _, s := range sessions {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("save %s: %v", s.ID, err)
		}
	}

	active, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active sessions, got %d", len(active))
	}
	if active[0].ID != "s2" || active[1].ID != "s1" {
		t.Fatalf("expected oldest first, got %s, %s", active[0].ID, active[1].ID)
	}
}

func TestMemoryStoreListFinishedNewestFirst(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	older := testSession("older", domain.SessionFinished, base)
	newer := testSession("newer", domain.SessionFinished, base)
	newer.UpdatedAt = base.Add(time.Hour)
	for _, s := range []*domain.Session{
		older,
		newer,
		testSession("open", domain.SessionActive, base),
		testSession("gone", domain.SessionAbandoned, base),
	} {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("save %s: %v", s.ID, err)
		}
	}

	served, err := store.ListFinished(ctx)
	if err != nil {
		t.Fatalf("list finished: %v", err)
	}
	if len(served) != 2 || served[0].ID != "newer" || served[1].ID != "older" {
		t.Fatalf("expected [newer older], got %d sessions", len(served))
	}

	if err := store.Delete(ctx, "newer"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	served, _ = store.ListFinished(ctx)
	if len(served) != 1 || served[0].ID != "older" {
		t.Fatalf("expected only older left, got %d sessions", len(served))
	}
}
