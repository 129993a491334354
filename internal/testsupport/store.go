package testsupport

import (
	"context"
	"testing"

	"github.com/Venipa/taiga/internal/anime"
	"github.com/Venipa/taiga/internal/config"
	"github.com/Venipa/taiga/internal/library"
)

// MustOpenLibrary opens a library.Store for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// InsertItem stores item in the library and returns its identifier.
func InsertItem(t testing.TB, store *library.Store, item *anime.Item) anime.ID {
	t.Helper()

	id, err := store.Insert(context.Background(), item)
	if err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return id
}
