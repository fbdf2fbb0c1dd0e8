package cart

import (
	"context"
	"testing"
)

func TestManagerReturnsSameStorePerOwner(t *testing.T) {
	ctx := context.Background()
	manager, err := NewManager(newMemoryPersister(), testLogger(), nil)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	first, err := manager.Store(ctx, "alice")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	second, err := manager.Store(ctx, "alice")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if first != second {
		t.Fatal("expected the same store instance for one owner")
	}
}

func TestManagerIsolatesOwners(t *testing.T) {
	ctx := context.Background()
	manager, _ := NewManager(newMemoryPersister(), testLogger(), nil)

	alice, _ := manager.Store(ctx, "alice")
	bob, _ := manager.Store(ctx, "bob")

	if _, err := alice.AddItem(ctx, line(500, 2)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if bob.ItemCount() != 0 {
		t.Fatal("one shopper's cart leaked into another's")
	}
}

func TestManagerEvictRehydratesFromPersister(t *testing.T) {
	ctx := context.Background()
	persister := newMemoryPersister()
	manager, _ := NewManager(persister, testLogger(), nil)

	store, _ := manager.Store(ctx, "alice")
	if _, err := store.AddItem(ctx, line(320, 3)); err != nil {
		t.Fatalf("add: %v", err)
	}

	manager.Evict("alice")
	rebuilt, err := manager.Store(ctx, "alice")
	if err != nil {
		t.Fatalf("store after evict: %v", err)
	}
	if rebuilt == store {
		t.Fatal("expected a fresh store after evict")
	}
	if rebuilt.TotalCents() != 960 {
		t.Fatalf("expected rehydrated total 960, got %d", rebuilt.TotalCents())
	}
}

func TestManagerRequiresOwner(t *testing.T) {
	manager, _ := NewManager(newMemoryPersister(), testLogger(), nil)
	if _, err := manager.Store(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty owner")
	}
}
