package model

import "fmt"

type ActionKind string

const (
	ActionMove      ActionKind = "move"
	ActionEnPassant ActionKind = "enPassant"
	ActionCastle    ActionKind = "castle"
)

// Castle describes one castling route relative to the king. The king walks
// Steps single Step offsets; the rook at Rook jumps by RookTo.
type Castle[R Offset[R]] struct {
	Rook   R   `json:"rook"`
	RookTo R   `json:"rookTo"`
	Step   R   `json:"step"`
	Steps  int `json:"steps"`
}

// KingTo is the king's landing offset.
func (c Castle[R]) KingTo() R {
	return c.Step.Times(c.Steps)
}

// Path returns every offset the king passes through, landing square included.
func (c Castle[R]) Path() []R {
	path := make([]R, 0, c.Steps)
	for i := 1; i <= c.Steps; i++ {
		path = append(path, c.Step.Times(i))
	}
	return path
}

// Action is a single already-composed piece action relative to its origin.
// Piece is the piece that lands for a move; Castle is only set for castles.
type Action[R Offset[R]] struct {
	Kind   ActionKind `json:"kind"`
	Offset R          `json:"offset"`
	Piece  Piece      `json:"piece"`
	Castle Castle[R]  `json:"castle"`
}

func MoveAction[R Offset[R]](offset R, piece Piece) Action[R] {
	return Action[R]{Kind: ActionMove, Offset: offset, Piece: piece}
}

func EnPassantAction[R Offset[R]](capture R) Action[R] {
	return Action[R]{Kind: ActionEnPassant, Offset: capture, Piece: NewPawn(false)}
}

func CastleAction[R Offset[R]](castle Castle[R]) Action[R] {
	return Action[R]{Kind: ActionCastle, Offset: castle.KingTo(), Piece: NewKing(true), Castle: castle}
}

// matches compares the fields that identify an action of a's kind, so a
// client need not echo the redundant landing piece of a castle or en passant.
func (a Action[R]) matches(other Action[R]) bool {
	if a.Kind != other.Kind {
		return false
	}
	switch a.Kind {
	case ActionMove:
		return a.Offset == other.Offset && a.Piece == other.Piece
	case ActionEnPassant:
		return a.Offset == other.Offset
	case ActionCastle:
		return a.Castle == other.Castle
	}
	return false
}

func (a Action[R]) String() string {
	switch a.Kind {
	case ActionEnPassant:
		return fmt.Sprintf("ep%v", a.Offset)
	case ActionCastle:
		return fmt.Sprintf("castle%v", a.Offset)
	}
	return fmt.Sprintf("%s%v", a.Piece, a.Offset)
}

// Choice is one entry of a legal-destination map: either a plain action or,
// when Promotions is non-empty, a promotion the caller must resolve by
// resubmitting a move with one of the listed pieces.
type Choice[R Offset[R]] struct {
	Action     Action[R] `json:"action"`
	Promotions []Piece   `json:"promotions,omitempty"`
}

func (c Choice[R]) IsPromotion() bool {
	return len(c.Promotions) > 0
}

// Allows reports whether a submitted action is the one this choice offers.
func (c Choice[R]) Allows(action Action[R]) bool {
	if !c.IsPromotion() {
		return c.Action.matches(action)
	}
	if action.Kind != ActionMove || action.Offset != c.Action.Offset {
		return false
	}
	for _, piece := range c.Promotions {
		if piece == action.Piece {
			return true
		}
	}
	return false
}

type Turn[L Location[L, R], R Offset[R]] struct {
	From   L         `json:"from"`
	Action Action[R] `json:"action"`
	Duck   L         `json:"duck"`
}
