package model

import "testing"

func at(t *testing.T, name string) Position {
	t.Helper()
	p, err := ParsePosition(name)
	if err != nil {
		t.Fatalf("parse %q: %v", name, err)
	}
	return p
}

func deltaBetween(from, to Position) Delta {
	return Delta{DX: to.X - from.X, DY: to.Y - from.Y}
}

// place builds an empty 8x8 board holding the given pieces.
func place(t *testing.T, pieces map[string]Square) *SquareBoard {
	t.Helper()
	board := NewEmptySquareBoard(8, 8)
	for name, square := range pieces {
		board.Set(at(t, name), square)
	}
	return board
}

// playTurn submits the legal action from -> to, promoting to a queen when
// the destination asks for a choice.
func playTurn[B Grid[B, L, R], L Location[L, R], R Offset[R]](t *testing.T, g *Game[B, L, R], player string, from, to, duck L) {
	t.Helper()
	choice, ok := g.Destinations(from)[to]
	if !ok {
		t.Fatalf("%v -> %v is not legal", from, to)
	}
	action := choice.Action
	if choice.IsPromotion() {
		action.Piece = NewQueen()
	}
	if err := g.ApplyTurn(player, Turn[L, R]{From: from, Action: action, Duck: duck}); err != nil {
		t.Fatalf("apply %v -> %v: %v", from, to, err)
	}
}

func countDucks[L Location[L, R], R Offset[R]](board ChessBoard[L, R]) int {
	n := 0
	for _, square := range board.All() {
		if square.IsDuck() {
			n++
		}
	}
	return n
}
