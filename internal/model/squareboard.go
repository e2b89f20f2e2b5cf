package model

import (
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/notnil/chess"
)

// Position addresses a square-grid cell: X is the column from the left, Y the
// row from the top (black's back rank is row 0).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) Add(d Delta) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

// String names the position in algebraic notation when it fits on an 8x8 board.
func (p Position) String() string {
	if p.X < 0 || p.X > 7 || p.Y < 0 || p.Y > 7 {
		return fmt.Sprintf("(%d,%d)", p.X, p.Y)
	}
	return chess.NewSquare(chess.File(p.X), chess.Rank(7-p.Y)).String()
}

// positions maps every algebraic square name to its grid position.
var positions = func() map[string]Position {
	names := make(map[string]Position, 64)
	for sq := chess.A1; sq <= chess.H8; sq++ {
		names[sq.String()] = Position{X: int(sq.File()), Y: 7 - int(sq.Rank())}
	}
	return names
}()

// ParsePosition reads an algebraic square name such as "e4".
func ParsePosition(name string) (Position, error) {
	p, ok := positions[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Position{}, fmt.Errorf("invalid square %q", name)
	}
	return p, nil
}

// UnmarshalJSON accepts either {"x","y"} or an algebraic name like "e4".
func (p *Position) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		pos, err := ParsePosition(name)
		if err != nil {
			return err
		}
		*p = pos
		return nil
	}
	type xy Position
	return json.Unmarshal(data, (*xy)(p))
}

type Delta struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

func (d Delta) Add(o Delta) Delta {
	return Delta{DX: d.DX + o.DX, DY: d.DY + o.DY}
}

func (d Delta) Times(n int) Delta {
	return Delta{DX: d.DX * n, DY: d.DY * n}
}

func (d Delta) String() string {
	return fmt.Sprintf("%+d%+d", d.DX, d.DY)
}

var (
	squareKnightLeaps = []Delta{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	squareRookDirs   = []Delta{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	squareBishopDirs = []Delta{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	squareCastles    = []Castle[Delta]{
		{Rook: Delta{3, 0}, RookTo: Delta{-2, 0}, Step: Delta{1, 0}, Steps: 2},
		{Rook: Delta{-4, 0}, RookTo: Delta{3, 0}, Step: Delta{-1, 0}, Steps: 2},
	}
)

// SquareBoard is a rectangular grid stored row by row.
type SquareBoard struct {
	Grid [][]Square `json:"grid"`
}

// NewSquareBoard returns the standard chess starting position.
func NewSquareBoard() *SquareBoard {
	back := []Piece{
		NewRook(false), NewKnight(), NewBishop(), NewQueen(),
		NewKing(false), NewBishop(), NewKnight(), NewRook(false),
	}
	board := NewEmptySquareBoard(8, 8)
	for x, piece := range back {
		board.Grid[0][x] = PieceSquare(Black, piece)
		board.Grid[1][x] = PieceSquare(Black, NewPawn(false))
		board.Grid[6][x] = PieceSquare(White, NewPawn(false))
		board.Grid[7][x] = PieceSquare(White, piece)
	}
	return board
}

func NewEmptySquareBoard(width, height int) *SquareBoard {
	board := &SquareBoard{Grid: make([][]Square, height)}
	for y := range board.Grid {
		row := make([]Square, width)
		for x := range row {
			row[x] = EmptySquare()
		}
		board.Grid[y] = row
	}
	return board
}

func (b *SquareBoard) Width() int {
	if len(b.Grid) == 0 {
		return 0
	}
	return len(b.Grid[0])
}

func (b *SquareBoard) Height() int {
	return len(b.Grid)
}

func (b *SquareBoard) inBounds(p Position) bool {
	return p.Y >= 0 && p.Y < len(b.Grid) && p.X >= 0 && p.X < len(b.Grid[p.Y])
}

func (b *SquareBoard) Get(p Position) (Square, bool) {
	if !b.inBounds(p) {
		return Square{}, false
	}
	return b.Grid[p.Y][p.X], true
}

func (b *SquareBoard) Set(p Position, square Square) bool {
	if !b.inBounds(p) {
		return false
	}
	b.Grid[p.Y][p.X] = square
	return true
}

func (b *SquareBoard) All() iter.Seq2[Position, Square] {
	return func(yield func(Position, Square) bool) {
		for y, row := range b.Grid {
			for x, square := range row {
				if !yield(Position{X: x, Y: y}, square) {
					return
				}
			}
		}
	}
}

func (b *SquareBoard) KnightLeaps() []Delta      { return squareKnightLeaps }
func (b *SquareBoard) RookDirections() []Delta   { return squareRookDirs }
func (b *SquareBoard) BishopDirections() []Delta { return squareBishopDirs }

func (b *SquareBoard) CastlingRoutes() []Castle[Delta] {
	return squareCastles
}

func (b *SquareBoard) Forward(color Color) Delta {
	return Delta{DX: 0, DY: color.Dir()}
}

func (b *SquareBoard) CaptureDirections(color Color) []Delta {
	return []Delta{{DX: 1, DY: color.Dir()}, {DX: -1, DY: color.Dir()}}
}

// IsPawnHome holds on the second rank in front of each color's back rank.
func (b *SquareBoard) IsPawnHome(color Color, p Position) bool {
	if color == Black {
		return p.Y == 1
	}
	return p.Y == b.Height()-2
}

// IsPromotion holds on the far back rank from each color's point of view.
func (b *SquareBoard) IsPromotion(color Color, p Position) bool {
	if color == Black {
		return p.Y == b.Height()-1
	}
	return p.Y == 0
}

func (b *SquareBoard) Clone() *SquareBoard {
	clone := &SquareBoard{Grid: make([][]Square, len(b.Grid))}
	for y, row := range b.Grid {
		clone.Grid[y] = append([]Square(nil), row...)
	}
	return clone
}

// Menu builds a one-row board holding the given squares left to right.
func (b *SquareBoard) Menu(squares []Square) *SquareBoard {
	return &SquareBoard{Grid: [][]Square{append([]Square(nil), squares...)}}
}

func (b *SquareBoard) String() string {
	var sb strings.Builder
	for _, row := range b.Grid {
		for x, square := range row {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(squareGlyph(square))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// squareGlyph renders a cell as one FEN-style character.
func squareGlyph(square Square) string {
	switch square.Kind {
	case Duck:
		return "D"
	case Occupied:
		glyph := square.Piece.Type.notation()
		if square.Color == Black {
			return strings.ToLower(glyph)
		}
		return glyph
	}
	return "."
}
