package model

import (
	"fmt"
	"iter"
	"strings"

	"golang.org/x/exp/constraints"
)

const HexRadius = 5

// Coord is an axial hex coordinate. The board is drawn with q as the column
// and 2r+q as the half-row counted downwards, so white sits at positive r.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

func (c Coord) Add(d HexDelta) Coord {
	return Coord{Q: c.Q + d.Q, R: c.R + d.R}
}

// Distance is the number of single steps from the center cell.
func (c Coord) Distance() int {
	return max(abs(c.Q), abs(c.R), abs(c.Q+c.R))
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Q, c.R)
}

// mirror reflects a coordinate across the horizontal axis.
func (c Coord) mirror() Coord {
	return Coord{Q: c.Q, R: -c.R - c.Q}
}

type HexDelta struct {
	Q int `json:"q"`
	R int `json:"r"`
}

func (d HexDelta) Add(o HexDelta) HexDelta {
	return HexDelta{Q: d.Q + o.Q, R: d.R + o.R}
}

func (d HexDelta) Times(n int) HexDelta {
	return HexDelta{Q: d.Q * n, R: d.R * n}
}

func (d HexDelta) String() string {
	return fmt.Sprintf("%+d%+d", d.Q, d.R)
}

func abs[T constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

var (
	hexKnightLeaps = []HexDelta{
		{-2, -1}, {-1, -2}, {1, -3}, {2, -3}, {3, -2}, {3, -1},
		{2, 1}, {1, 2}, {-1, 3}, {-2, 3}, {-3, 2}, {-3, 1},
	}
	hexRookDirs   = []HexDelta{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, -1}, {-1, 1}}
	hexBishopDirs = []HexDelta{{-1, -1}, {1, -2}, {2, -1}, {1, 1}, {-1, 2}, {-2, 1}}
)

// HexRow is one horizontal run of cells with constant r, starting at column Q.
type HexRow struct {
	R     int      `json:"r"`
	Q     int      `json:"q"`
	Cells []Square `json:"cells"`
}

// HexBoard is a hexagon of the given radius stored as variable-length rows.
type HexBoard struct {
	Radius int      `json:"radius"`
	Rows   []HexRow `json:"rows"`
}

func NewEmptyHexBoard(radius int) *HexBoard {
	board := &HexBoard{Radius: radius}
	for r := -radius; r <= radius; r++ {
		row := HexRow{R: r, Q: max(-radius, -radius-r)}
		for q := row.Q; (Coord{Q: q, R: r}).Distance() <= radius; q++ {
			row.Cells = append(row.Cells, EmptySquare())
		}
		board.Rows = append(board.Rows, row)
	}
	return board
}

// NewHexBoard returns the Gliński starting position.
func NewHexBoard() *HexBoard {
	board := NewEmptyHexBoard(HexRadius)
	white := map[Coord]Piece{
		{Q: 1, R: 4}:  NewKing(false),
		{Q: -1, R: 5}: NewQueen(),
		{Q: 0, R: 5}:  NewBishop(),
		{Q: 0, R: 4}:  NewBishop(),
		{Q: 0, R: 3}:  NewBishop(),
		{Q: -2, R: 5}: NewKnight(),
		{Q: 2, R: 3}:  NewKnight(),
		{Q: -3, R: 5}: NewRook(false),
		{Q: 3, R: 2}:  NewRook(false),
	}
	for _, c := range board.pawnHomes(White) {
		white[c] = NewPawn(false)
	}
	for c, piece := range white {
		board.Set(c, PieceSquare(White, piece))
		board.Set(c.mirror(), PieceSquare(Black, piece))
	}
	return board
}

func (b *HexBoard) cell(c Coord) (*Square, bool) {
	if len(b.Rows) == 0 {
		return nil, false
	}
	y := c.R - b.Rows[0].R
	if y < 0 || y >= len(b.Rows) {
		return nil, false
	}
	row := &b.Rows[y]
	x := c.Q - row.Q
	if x < 0 || x >= len(row.Cells) {
		return nil, false
	}
	return &row.Cells[x], true
}

func (b *HexBoard) Get(c Coord) (Square, bool) {
	square, ok := b.cell(c)
	if !ok {
		return Square{}, false
	}
	return *square, true
}

func (b *HexBoard) Set(c Coord, square Square) bool {
	cell, ok := b.cell(c)
	if !ok {
		return false
	}
	*cell = square
	return true
}

func (b *HexBoard) All() iter.Seq2[Coord, Square] {
	return func(yield func(Coord, Square) bool) {
		for _, row := range b.Rows {
			for i, square := range row.Cells {
				if !yield(Coord{Q: row.Q + i, R: row.R}, square) {
					return
				}
			}
		}
	}
}

func (b *HexBoard) KnightLeaps() []HexDelta      { return hexKnightLeaps }
func (b *HexBoard) RookDirections() []HexDelta   { return hexRookDirs }
func (b *HexBoard) BishopDirections() []HexDelta { return hexBishopDirs }

// CastlingRoutes is empty: hex chess has no castling.
func (b *HexBoard) CastlingRoutes() []Castle[HexDelta] {
	return nil
}

func (b *HexBoard) Forward(color Color) HexDelta {
	return HexDelta{Q: 0, R: color.Dir()}
}

func (b *HexBoard) CaptureDirections(color Color) []HexDelta {
	dir := color.Dir()
	return []HexDelta{{Q: dir, R: 0}, {Q: -dir, R: dir}}
}

func (b *HexBoard) IsPawnHome(color Color, c Coord) bool {
	for _, home := range b.pawnHomes(color) {
		if home == c {
			return true
		}
	}
	return false
}

func (b *HexBoard) IsPromotion(color Color, c Coord) bool {
	dir := color.Dir()
	apex := Coord{Q: 0, R: dir * b.Radius}
	for _, home := range b.wedge(apex, HexDelta{Q: -dir, R: 0}, HexDelta{Q: dir, R: -dir}) {
		if home == c {
			return true
		}
	}
	return false
}

// pawnHomes is the V of starting pawn cells, apex just behind the center.
func (b *HexBoard) pawnHomes(color Color) []Coord {
	dir := color.Dir()
	apex := Coord{Q: 0, R: -dir}
	return b.wedge(apex, HexDelta{Q: -dir, R: 0}, HexDelta{Q: dir, R: -dir})
}

// wedge walks Radius steps from apex along both arms, keeping on-board cells.
func (b *HexBoard) wedge(apex Coord, left, right HexDelta) []Coord {
	cells := []Coord{apex}
	for i := 1; i <= b.Radius; i++ {
		cells = append(cells, apex.Add(left.Times(i)), apex.Add(right.Times(i)))
	}
	onBoard := cells[:0]
	for _, c := range cells {
		if _, ok := b.cell(c); ok {
			onBoard = append(onBoard, c)
		}
	}
	return onBoard
}

func (b *HexBoard) Clone() *HexBoard {
	clone := &HexBoard{Radius: b.Radius, Rows: make([]HexRow, len(b.Rows))}
	for i, row := range b.Rows {
		row.Cells = append([]Square(nil), row.Cells...)
		clone.Rows[i] = row
	}
	return clone
}

// Menu builds a single row of cells starting at the center.
func (b *HexBoard) Menu(squares []Square) *HexBoard {
	return &HexBoard{Rows: []HexRow{{R: 0, Q: 0, Cells: append([]Square(nil), squares...)}}}
}

func (b *HexBoard) String() string {
	var sb strings.Builder
	for _, row := range b.Rows {
		sb.WriteString(strings.Repeat(" ", abs(row.R)))
		for i, square := range row.Cells {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(squareGlyph(square))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
