package model

import "iter"

// Offset is a relative displacement on some board topology.
type Offset[R any] interface {
	comparable
	Add(R) R
	Times(n int) R
}

// Location is an absolute address on some board topology.
type Location[L any, R any] interface {
	comparable
	Add(R) L
}

// ChessBoard is everything the move generator needs to know about a board
// shape. Implementations never leak their geometry any other way.
type ChessBoard[L Location[L, R], R Offset[R]] interface {
	// Get reports false for locations off the board.
	Get(loc L) (Square, bool)
	// Set is a no-op off the board and reports whether it wrote.
	Set(loc L, square Square) bool
	// All visits every cell exactly once in a fixed order.
	All() iter.Seq2[L, Square]

	KnightLeaps() []R
	RookDirections() []R
	BishopDirections() []R
	Forward(color Color) R
	IsPawnHome(color Color, loc L) bool
	CaptureDirections(color Color) []R
	IsPromotion(color Color, loc L) bool
	CastlingRoutes() []Castle[R]
}

// Grid is a concrete board type a Game can own: a ChessBoard that can copy
// itself and build a one-row menu of the same shape.
type Grid[B any, L Location[L, R], R Offset[R]] interface {
	ChessBoard[L, R]
	Clone() B
	Menu(squares []Square) B
}

// DuckAt returns the duck's location, if any.
func DuckAt[L Location[L, R], R Offset[R]](board ChessBoard[L, R]) (L, bool) {
	for loc, square := range board.All() {
		if square.IsDuck() {
			return loc, true
		}
	}
	var zero L
	return zero, false
}
