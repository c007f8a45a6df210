package credstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "creds.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndLookup(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	joined := time.Unix(1700000000, 0)
	creds := Credentials{GameID: "g1", PlayerID: "p1", Username: "alice", JoinedAt: joined}
	if err := store.Save(ctx, creds); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Lookup(ctx, "g1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.PlayerID != "p1" || got.Username != "alice" || !got.JoinedAt.Equal(joined) {
		t.Errorf("got %+v", got)
	}
}

func TestLookupUnknownGame(t *testing.T) {
	store := testStore(t)

	_, err := store.Lookup(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRejoinOverwrites(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, Credentials{GameID: "g1", PlayerID: "p1", Username: "alice"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, Credentials{GameID: "g1", PlayerID: "p2", Username: "bob"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Lookup(ctx, "g1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.PlayerID != "p2" || got.Username != "bob" {
		t.Errorf("got %+v", got)
	}
}

func TestDeleteRemovesCredentials(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, Credentials{GameID: "g1", PlayerID: "p1", Username: "alice"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "g1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.Lookup(ctx, "g1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	// Deleting again is harmless.
	if err := store.Delete(ctx, "g1"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestCredentialsPerGameAreIndependent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, Credentials{GameID: "g1", PlayerID: "p1", Username: "alice"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, Credentials{GameID: "g2", PlayerID: "p2", Username: "alice"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Delete(ctx, "g1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := store.Lookup(ctx, "g2")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.PlayerID != "p2" {
		t.Errorf("got %+v", got)
	}
}
