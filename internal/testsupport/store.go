package testsupport

import (
	"context"
	"testing"

	"unify/internal/config"
	"unify/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedLabels inserts source records for tests using the provided store.
func SeedLabels(t testing.TB, st *store.Store, labels ...string) {
	t.Helper()

	if _, err := st.InsertLabels(context.Background(), labels); err != nil {
		t.Fatalf("store.InsertLabels: %v", err)
	}
}
