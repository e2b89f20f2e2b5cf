package model

import "fmt"

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Dir is the sign of a single pawn step along the board's vertical axis.
func (c Color) Dir() int {
	if c == Black {
		return 1
	}
	return -1
}

func (c Color) Other() Color {
	if c == Black {
		return White
	}
	return Black
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return "?"
}

// Piece is a piece kind plus the one flag that kind carries. Moved is only
// meaningful for kings and rooks, Passantable only for pawns.
type Piece struct {
	Type        PieceType `json:"type"`
	Moved       bool      `json:"moved,omitempty"`
	Passantable bool      `json:"passantable,omitempty"`
}

func NewKing(moved bool) Piece       { return Piece{Type: King, Moved: moved} }
func NewQueen() Piece                { return Piece{Type: Queen} }
func NewBishop() Piece               { return Piece{Type: Bishop} }
func NewKnight() Piece               { return Piece{Type: Knight} }
func NewRook(moved bool) Piece       { return Piece{Type: Rook, Moved: moved} }
func NewPawn(passantable bool) Piece { return Piece{Type: Pawn, Passantable: passantable} }

func (p Piece) String() string {
	switch {
	case p.Type == Pawn && p.Passantable:
		return "P*"
	case (p.Type == King || p.Type == Rook) && p.Moved:
		return p.Type.notation() + "'"
	}
	return p.Type.notation()
}

// PromotionPieces are the pieces a pawn may become on its promotion zone.
func PromotionPieces() []Piece {
	return []Piece{NewQueen(), NewKnight(), NewRook(true), NewBishop()}
}

type SquareKind string

const (
	Empty    SquareKind = "empty"
	Duck     SquareKind = "duck"
	Occupied SquareKind = "piece"
)

type Square struct {
	Kind  SquareKind `json:"kind"`
	Color Color      `json:"color,omitempty"`
	Piece Piece      `json:"piece"`
}

func EmptySquare() Square { return Square{Kind: Empty} }
func DuckSquare() Square  { return Square{Kind: Duck} }

func PieceSquare(color Color, piece Piece) Square {
	return Square{Kind: Occupied, Color: color, Piece: piece}
}

func (s Square) IsEmpty() bool { return s.Kind == Empty }
func (s Square) IsDuck() bool  { return s.Kind == Duck }

// Holds reports whether the square carries a piece of the given color.
func (s Square) Holds(color Color) bool {
	return s.Kind == Occupied && s.Color == color
}

func (s Square) IsKing(color Color) bool {
	return s.Holds(color) && s.Piece.Type == King
}

func (s Square) unpassant() Square {
	if s.Kind == Occupied && s.Piece.Type == Pawn {
		s.Piece.Passantable = false
	}
	return s
}

func (s Square) String() string {
	switch s.Kind {
	case Duck:
		return "duck"
	case Occupied:
		return fmt.Sprintf("%c%s", s.Color[0], s.Piece)
	}
	return "empty"
}
