package model

import "fmt"

// Game is one match on a concrete board type. It is not safe for concurrent
// use; callers serialize access per game.
type Game[B Grid[B, L, R], L Location[L, R], R Offset[R]] struct {
	Maker      string       `json:"maker"`
	Joiner     string       `json:"joiner"`
	MakerColor Color        `json:"makerColor"`
	Board      B            `json:"board"`
	Turns      []Turn[L, R] `json:"turns"`
	Duck       *L           `json:"duck"`
}

type (
	SquareGame = Game[*SquareBoard, Position, Delta]
	HexGame    = Game[*HexBoard, Coord, HexDelta]
	SquareTurn = Turn[Position, Delta]
	HexTurn    = Turn[Coord, HexDelta]
)

func NewSquareGame(maker, joiner string, makerColor Color) *SquareGame {
	return NewGame[*SquareBoard, Position, Delta](NewSquareBoard(), maker, joiner, makerColor)
}

func NewHexGame(maker, joiner string, makerColor Color) *HexGame {
	return NewGame[*HexBoard, Coord, HexDelta](NewHexBoard(), maker, joiner, makerColor)
}

func NewGame[B Grid[B, L, R], L Location[L, R], R Offset[R]](board B, maker, joiner string, makerColor Color) *Game[B, L, R] {
	return &Game[B, L, R]{
		Maker:      maker,
		Joiner:     joiner,
		MakerColor: makerColor,
		Board:      board,
		Turns:      make([]Turn[L, R], 0),
	}
}

// Turn is the color to move: white after an even number of turns.
func (g *Game[B, L, R]) Turn() Color {
	if len(g.Turns)%2 == 0 {
		return White
	}
	return Black
}

// PlayerColors lists the colors player controls; one player may hold both.
func (g *Game[B, L, R]) PlayerColors(player string) []Color {
	var colors []Color
	if player == "" {
		return colors
	}
	if g.Maker == player {
		colors = append(colors, g.MakerColor)
	}
	if g.Joiner == player {
		colors = append(colors, g.MakerColor.Other())
	}
	return colors
}

func (g *Game[B, L, R]) IsPlayerTurn(player string) bool {
	for _, color := range g.PlayerColors(player) {
		if color == g.Turn() {
			return true
		}
	}
	return false
}

// Destinations lists the legal choices for the piece at from, which is empty
// unless that piece belongs to the color to move.
func (g *Game[B, L, R]) Destinations(from L) map[L]Choice[R] {
	focus, ok := NewFocus[L, R](g.Board, from)
	if !ok {
		return map[L]Choice[R]{}
	}
	return focus.DestinationsFor(g.Turn())
}

// ApplyTurn validates a whole turn against a scratch copy of the board and
// commits it only when every step succeeds, so a rejected turn changes nothing.
func (g *Game[B, L, R]) ApplyTurn(player string, turn Turn[L, R]) error {
	if !g.IsPlayerTurn(player) {
		return ErrNotYourTurn
	}
	choice, ok := g.Destinations(turn.From)[turn.From.Add(turn.Action.Offset)]
	if !ok || !choice.Allows(turn.Action) {
		return fmt.Errorf("%w: %v from %v", ErrInvalidAction, turn.Action, turn.From)
	}
	action := choice.Action
	if choice.IsPromotion() {
		action.Piece = turn.Action.Piece
	}

	board := g.Board.Clone()
	focus, _ := NewFocus[L, R](board, turn.From)
	focus.Apply(action)

	if square, ok := board.Get(turn.Duck); !ok || !square.IsEmpty() {
		return fmt.Errorf("%w: %v", ErrInvalidDuck, turn.Duck)
	}
	if old, ok := DuckAt[L, R](board); ok {
		board.Set(old, EmptySquare())
	}
	board.Set(turn.Duck, DuckSquare())

	duck := turn.Duck
	g.Board = board
	g.Duck = &duck
	// History keeps the generated action, not the submitted one.
	g.Turns = append(g.Turns, Turn[L, R]{From: turn.From, Action: action, Duck: turn.Duck})
	return nil
}

// GameOver reports the winner once either king has been captured.
func (g *Game[B, L, R]) GameOver() (Color, bool) {
	var whiteKing, blackKing bool
	for _, square := range g.Board.All() {
		whiteKing = whiteKing || square.IsKing(White)
		blackKing = blackKing || square.IsKing(Black)
	}
	switch {
	case !whiteKing:
		return Black, true
	case !blackKing:
		return White, true
	}
	return "", false
}

// PromotionMenu is a throwaway one-row board showing the promotion options
// for the color to move.
func (g *Game[B, L, R]) PromotionMenu() B {
	pieces := PromotionPieces()
	squares := make([]Square, len(pieces))
	for i, piece := range pieces {
		squares[i] = PieceSquare(g.Turn(), piece)
	}
	return g.Board.Menu(squares)
}

func (g *Game[B, L, R]) Clone() *Game[B, L, R] {
	clone := *g
	clone.Board = g.Board.Clone()
	clone.Turns = append(make([]Turn[L, R], 0, len(g.Turns)), g.Turns...)
	if g.Duck != nil {
		duck := *g.Duck
		clone.Duck = &duck
	}
	return &clone
}

// Destination is one legal landing square and how to reach it.
type Destination[L Location[L, R], R Offset[R]] struct {
	To     L         `json:"to"`
	Choice Choice[R] `json:"choice"`
}

// DestinationList is Destinations in board iteration order.
func (g *Game[B, L, R]) DestinationList(from L) []Destination[L, R] {
	dests := g.Destinations(from)
	list := make([]Destination[L, R], 0, len(dests))
	for loc := range g.Board.All() {
		if choice, ok := dests[loc]; ok {
			list = append(list, Destination[L, R]{To: loc, Choice: choice})
		}
	}
	return list
}
