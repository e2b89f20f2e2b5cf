package service

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/benbeisheim/duckchess-backend/internal/model"
	"github.com/benbeisheim/duckchess-backend/internal/ws"
)

type recordingNotifier struct {
	sent map[string][]ws.Message
	mu   sync.Mutex
}

func (n *recordingNotifier) Notify(playerID string, msg ws.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = make(map[string][]ws.Message)
	}
	n.sent[playerID] = append(n.sent[playerID], msg)
}

func (n *recordingNotifier) last(t *testing.T, playerID string) ws.Notification {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	msgs := n.sent[playerID]
	if len(msgs) == 0 {
		t.Fatalf("%s was never notified", playerID)
	}
	var note ws.Notification
	if err := json.Unmarshal(msgs[len(msgs)-1].Payload, &note); err != nil {
		t.Fatal(err)
	}
	return note
}

func (n *recordingNotifier) count(playerID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent[playerID])
}

// newTestService gives the maker white in every game it starts.
func newTestService() (*GameService, *recordingNotifier) {
	notifier := &recordingNotifier{}
	manager := NewGameManager(NewStore(), notifier)
	manager.makerWhite = func() bool { return true }
	return NewGameService(manager), notifier
}

func squareMove(t *testing.T, from, to, duck string) model.AnyTurn {
	t.Helper()
	f, err := model.ParsePosition(from)
	if err != nil {
		t.Fatal(err)
	}
	tp, _ := model.ParsePosition(to)
	d, _ := model.ParsePosition(duck)
	offset := model.Delta{DX: tp.X - f.X, DY: tp.Y - f.Y}
	piece := model.NewPawn(offset.DY == 2 || offset.DY == -2)
	return model.AnyTurn{
		Type:   model.SquareType,
		Square: &model.SquareTurn{From: f, Action: model.MoveAction(offset, piece), Duck: d},
	}
}

func startSquareGame(t *testing.T, gs *GameService) Record {
	t.Helper()
	rec, err := gs.NewOpenGame("alice", model.SquareType)
	if err != nil {
		t.Fatal(err)
	}
	rec, err = gs.JoinGame(rec.ID, "bob")
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestOpenAndJoinGame(t *testing.T) {
	gs, notifier := newTestService()

	rec, err := gs.NewOpenGame("alice", model.HexType)
	if err != nil {
		t.Fatal(err)
	}
	if open := gs.OpenGames(); len(open) != 1 || open[0].ID != rec.ID {
		t.Fatalf("open games = %+v", open)
	}
	if _, err := gs.JoinGame(rec.ID, "alice"); !errors.Is(err, ErrOwnGame) {
		t.Fatalf("got %v, want ErrOwnGame", err)
	}

	joined, err := gs.JoinGame(rec.ID, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if joined.Status != StatusActive || joined.Game.Type != model.HexType {
		t.Fatalf("joined = %+v", joined)
	}
	if joined.Game.PlayerFor(model.White) != "alice" {
		t.Fatal("maker should hold white")
	}
	if len(gs.OpenGames()) != 0 {
		t.Fatal("joined game still listed as open")
	}
	if note := notifier.last(t, "bob"); note.Event != ws.EventGameStarted || note.Color != model.Black {
		t.Fatalf("bob notified %+v", note)
	}
	if note := notifier.last(t, "alice"); note.Color != model.White {
		t.Fatalf("alice notified %+v", note)
	}

	if _, err := gs.JoinGame(rec.ID, "carol"); !errors.Is(err, ErrNotJoinable) {
		t.Fatalf("got %v, want ErrNotJoinable", err)
	}
	if _, err := gs.JoinGame("missing", "carol"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("got %v, want ErrGameNotFound", err)
	}
	if _, err := gs.NewOpenGame("alice", "triangle"); !errors.Is(err, model.ErrUnknownType) {
		t.Fatalf("got %v, want ErrUnknownType", err)
	}
}

func TestSubmitTurn(t *testing.T) {
	gs, notifier := newTestService()
	rec := startSquareGame(t, gs)

	saved, err := gs.SubmitTurn(rec.ID, "alice", squareMove(t, "e2", "e4", "a4"))
	if err != nil {
		t.Fatal(err)
	}
	if saved.Version != rec.Version+1 || saved.Game.TurnCount() != 1 {
		t.Fatalf("saved = %+v", saved)
	}
	if note := notifier.last(t, "bob"); note.Event != ws.EventYourTurn {
		t.Fatalf("bob notified %+v", note)
	}

	_, err = gs.SubmitTurn(rec.ID, "alice", squareMove(t, "d2", "d4", "a5"))
	if !errors.Is(err, model.ErrNotYourTurn) {
		t.Fatalf("got %v, want ErrNotYourTurn", err)
	}
	_, err = gs.SubmitTurn(rec.ID, "bob", squareMove(t, "e7", "e5", "a4"))
	if !errors.Is(err, model.ErrInvalidDuck) {
		t.Fatalf("got %v, want ErrInvalidDuck", err)
	}
	_, err = gs.SubmitTurn(rec.ID, "bob", squareMove(t, "e7", "e4", "a5"))
	if !errors.Is(err, model.ErrInvalidAction) {
		t.Fatalf("got %v, want ErrInvalidAction", err)
	}

	stored, _ := gs.GetGame(rec.ID)
	if stored.Version != saved.Version {
		t.Fatal("rejected turns changed the stored record")
	}
}

func TestSubmitTurnBeforeStart(t *testing.T) {
	gs, _ := newTestService()
	rec, _ := gs.NewOpenGame("alice", model.SquareType)
	if _, err := gs.SubmitTurn(rec.ID, "alice", squareMove(t, "e2", "e4", "a4")); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("got %v, want ErrNotStarted", err)
	}
	if _, err := gs.Destinations(rec.ID, model.AnyLocation{}); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("got %v, want ErrNotStarted", err)
	}
}

func TestKingCaptureCompletesGame(t *testing.T) {
	gs, notifier := newTestService()
	rec := startSquareGame(t, gs)

	board := model.NewEmptySquareBoard(8, 8)
	board.Set(model.Position{X: 0, Y: 7}, model.PieceSquare(model.White, model.NewRook(true)))
	board.Set(model.Position{X: 7, Y: 7}, model.PieceSquare(model.White, model.NewKing(true)))
	board.Set(model.Position{X: 0, Y: 0}, model.PieceSquare(model.Black, model.NewKing(true)))
	next := rec
	next.Game.Square.Board = board
	rec, err := gs.gameManager.store.Replace(rec.ID, rec.Version, next)
	if err != nil {
		t.Fatal(err)
	}

	capture := model.AnyTurn{Type: model.SquareType, Square: &model.SquareTurn{
		From:   model.Position{X: 0, Y: 7},
		Action: model.MoveAction(model.Delta{DX: 0, DY: -7}, model.NewRook(true)),
		Duck:   model.Position{X: 3, Y: 3},
	}}
	saved, err := gs.SubmitTurn(rec.ID, "alice", capture)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Status != StatusCompleted || saved.Winner != model.White {
		t.Fatalf("saved = %+v", saved)
	}
	if note := notifier.last(t, "bob"); note.Event != ws.EventGameOver || note.Winner != model.White {
		t.Fatalf("bob notified %+v", note)
	}

	_, err = gs.SubmitTurn(rec.ID, "bob", squareMove(t, "a2", "a3", "h4"))
	if !errors.Is(err, ErrGameOver) {
		t.Fatalf("got %v, want ErrGameOver", err)
	}
	if games := gs.PlayerGames("bob"); len(games.Completed) != 1 {
		t.Fatalf("bob's games = %+v", games)
	}
}

func TestPlayerGames(t *testing.T) {
	gs, _ := newTestService()
	active := startSquareGame(t, gs)
	if _, err := gs.NewOpenGame("alice", model.HexType); err != nil {
		t.Fatal(err)
	}

	alice := gs.PlayerGames("alice")
	if len(alice.MyTurn) != 1 || len(alice.Unstarted) != 1 || len(alice.OtherTurn) != 0 {
		t.Fatalf("alice's games = %+v", alice)
	}
	bob := gs.PlayerGames("bob")
	if len(bob.OtherTurn) != 1 || bob.OtherTurn[0].ID != active.ID || len(bob.Unstarted) != 0 {
		t.Fatalf("bob's games = %+v", bob)
	}
	if carol := gs.PlayerGames("carol"); len(carol.MyTurn)+len(carol.OtherTurn)+len(carol.Unstarted) != 0 {
		t.Fatalf("carol's games = %+v", carol)
	}
}

func TestServiceDestinations(t *testing.T) {
	gs, _ := newTestService()
	rec := startSquareGame(t, gs)
	from := model.Position{X: 6, Y: 7}

	dests, err := gs.Destinations(rec.ID, model.AnyLocation{Type: model.SquareType, Square: &from})
	if err != nil {
		t.Fatal(err)
	}
	if len(dests.Square) != 2 {
		t.Fatalf("knight destinations = %+v", dests.Square)
	}
	if _, err := gs.Destinations(rec.ID, model.AnyLocation{Type: model.HexType}); !errors.Is(err, model.ErrInvalidAction) {
		t.Fatalf("got %v, want ErrInvalidAction", err)
	}
}

func TestSubmitTurnNotifiesWatchers(t *testing.T) {
	gs, _ := newTestService()
	rec := startSquareGame(t, gs)

	updates, cancel, err := gs.Watch(rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	if _, err := gs.SubmitTurn(rec.ID, "alice", squareMove(t, "e2", "e4", "a4")); err != nil {
		t.Fatal(err)
	}
	snapshot := <-updates
	if snapshot.Game.TurnCount() != 1 {
		t.Fatalf("watcher saw %d turns", snapshot.Game.TurnCount())
	}
}

func TestMatchmaking(t *testing.T) {
	gs, notifier := newTestService()

	if err := gs.JoinMatchmaking("alice", model.HexType); err != nil {
		t.Fatal(err)
	}
	if err := gs.JoinMatchmaking("alice", model.HexType); !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("got %v, want ErrAlreadyQueued", err)
	}
	if err := gs.JoinMatchmaking("bob", "triangle"); !errors.Is(err, model.ErrUnknownType) {
		t.Fatalf("got %v, want ErrUnknownType", err)
	}
	if n := gs.gameManager.matchOnce(); n != 0 {
		t.Fatalf("matched %d games with one player queued", n)
	}

	gs.JoinMatchmaking("bob", model.HexType)
	if n := gs.gameManager.matchOnce(); n != 1 {
		t.Fatalf("matched %d games, want 1", n)
	}
	if notifier.count("alice") != 1 || notifier.count("bob") != 1 {
		t.Fatal("both players should hear about the match")
	}

	games := gs.PlayerGames("bob")
	if len(games.OtherTurn) != 1 || games.OtherTurn[0].Game.Type != model.HexType {
		t.Fatalf("bob's games = %+v", games)
	}

	gs.JoinMatchmaking("carol", model.SquareType)
	if !gs.LeaveMatchmaking("carol") {
		t.Fatal("carol was not queued")
	}
}
