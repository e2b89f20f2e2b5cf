package service

import (
	"errors"
	"testing"

	"github.com/benbeisheim/duckchess-backend/internal/model"
)

func newActiveRecord(t *testing.T, store *Store) Record {
	t.Helper()
	game, err := model.SquareType.NewGame("alice", "bob", model.White)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := store.Insert(Record{Status: StatusActive, Game: game})
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestStoreInsertFind(t *testing.T) {
	store := NewStore()
	rec := newActiveRecord(t, store)
	if rec.ID == "" || rec.Version != 1 {
		t.Fatalf("inserted %+v", rec)
	}

	found, err := store.Find(rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	found.Game.Square.Turns = append(found.Game.Square.Turns, model.SquareTurn{})
	again, _ := store.Find(rec.ID)
	if again.Game.TurnCount() != 0 {
		t.Fatal("mutating a found record changed the store")
	}

	if _, err := store.Find("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("got %v, want ErrGameNotFound", err)
	}
}

func TestStoreReplaceIsOptimistic(t *testing.T) {
	store := NewStore()
	rec := newActiveRecord(t, store)

	next := rec
	next.Status = StatusCompleted
	saved, err := store.Replace(rec.ID, rec.Version, next)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Version != 2 {
		t.Fatalf("version = %d, want 2", saved.Version)
	}

	if _, err := store.Replace(rec.ID, rec.Version, next); !errors.Is(err, ErrStaleRecord) {
		t.Fatalf("got %v, want ErrStaleRecord", err)
	}
	if _, err := store.Replace("missing", 1, next); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("got %v, want ErrGameNotFound", err)
	}
}

func TestStoreList(t *testing.T) {
	store := NewStore()
	first := newActiveRecord(t, store)
	request, _ := store.Insert(Record{
		Status:  StatusRequest,
		Request: &model.GameRequest{GameType: model.HexType, Maker: "carol"},
	})

	all := store.List(nil)
	if len(all) != 2 || all[0].ID != first.ID {
		t.Fatalf("List(nil) = %+v", all)
	}
	requests := store.List(func(rec Record) bool { return rec.Status == StatusRequest })
	if len(requests) != 1 || requests[0].ID != request.ID {
		t.Fatalf("requests = %+v", requests)
	}
}

func TestStoreWatch(t *testing.T) {
	store := NewStore()
	rec := newActiveRecord(t, store)

	updates, cancel, err := store.Watch(rec.ID)
	if err != nil {
		t.Fatal(err)
	}

	version := rec.Version
	for i := 0; i < 3; i++ {
		saved, err := store.Replace(rec.ID, version, rec)
		if err != nil {
			t.Fatal(err)
		}
		version = saved.Version
	}

	latest := <-updates
	if latest.Version != version {
		t.Fatalf("slow watcher got version %d, want latest %d", latest.Version, version)
	}

	cancel()
	cancel()
	if _, open := <-updates; open {
		t.Fatal("channel still open after cancel")
	}
	if _, err := store.Replace(rec.ID, version, rec); err != nil {
		t.Fatalf("replace after cancel: %v", err)
	}

	if _, _, err := store.Watch("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("got %v, want ErrGameNotFound", err)
	}
}
