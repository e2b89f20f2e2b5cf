package service

import (
	"errors"
	"testing"

	"github.com/benbeisheim/duckchess-backend/internal/model"
)

func TestQueuePairsSameGameType(t *testing.T) {
	q := NewQueue()
	for _, p := range []struct {
		id       string
		gameType model.GameType
	}{
		{"alice", model.SquareType},
		{"bob", model.HexType},
		{"carol", model.SquareType},
		{"dave", model.HexType},
	} {
		if err := q.AddPlayer(p.id, p.gameType); err != nil {
			t.Fatal(err)
		}
	}

	a, b, ok := q.NextPair()
	if !ok || a.PlayerID != "alice" || b.PlayerID != "carol" {
		t.Fatalf("first pair = %v, %v, %v", a.PlayerID, b.PlayerID, ok)
	}
	a, b, ok = q.NextPair()
	if !ok || a.PlayerID != "bob" || b.PlayerID != "dave" {
		t.Fatalf("second pair = %v, %v, %v", a.PlayerID, b.PlayerID, ok)
	}
	if _, _, ok := q.NextPair(); ok || q.Size() != 0 {
		t.Fatal("queue should be empty")
	}
}

func TestQueueRejectsDuplicates(t *testing.T) {
	q := NewQueue()
	if err := q.AddPlayer("alice", model.SquareType); err != nil {
		t.Fatal(err)
	}
	if err := q.AddPlayer("alice", model.HexType); !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("got %v, want ErrAlreadyQueued", err)
	}
	if !q.RemovePlayer("alice") || q.RemovePlayer("alice") {
		t.Fatal("RemovePlayer should succeed exactly once")
	}
}

func TestQueueNoPairAcrossTypes(t *testing.T) {
	q := NewQueue()
	q.AddPlayer("alice", model.SquareType)
	q.AddPlayer("bob", model.HexType)
	if _, _, ok := q.NextPair(); ok {
		t.Fatal("paired players wanting different boards")
	}
	if q.Size() != 2 {
		t.Fatalf("size = %d, want 2", q.Size())
	}
}
