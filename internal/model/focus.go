package model

// Focus is the move generator anchored at one occupied location. It only
// talks to the board through ChessBoard, so every topology shares it.
type Focus[L Location[L, R], R Offset[R]] struct {
	board  ChessBoard[L, R]
	loc    L
	player Color
	piece  Piece
}

// NewFocus anchors on loc; it fails when loc holds no piece.
func NewFocus[L Location[L, R], R Offset[R]](board ChessBoard[L, R], loc L) (*Focus[L, R], bool) {
	square, ok := board.Get(loc)
	if !ok || square.Kind != Occupied {
		return nil, false
	}
	return &Focus[L, R]{board: board, loc: loc, player: square.Color, piece: square.Piece}, true
}

func (f *Focus[L, R]) get(rel R) (Square, bool) {
	return f.board.Get(f.loc.Add(rel))
}

// DestinationsFor is Destinations when turn owns the focused piece, else empty.
func (f *Focus[L, R]) DestinationsFor(turn Color) map[L]Choice[R] {
	if turn != f.player {
		return map[L]Choice[R]{}
	}
	return f.Destinations()
}

// Destinations maps every legal landing square to the action reaching it.
func (f *Focus[L, R]) Destinations() map[L]Choice[R] {
	dests := make(map[L]Choice[R])
	switch f.piece.Type {
	case King:
		f.slide(dests, f.board.RookDirections(), NewKing(true), 1)
		f.slide(dests, f.board.BishopDirections(), NewKing(true), 1)
		f.castle(dests)
	case Queen:
		f.slide(dests, f.board.RookDirections(), NewQueen(), 0)
		f.slide(dests, f.board.BishopDirections(), NewQueen(), 0)
	case Rook:
		f.slide(dests, f.board.RookDirections(), NewRook(true), 0)
	case Bishop:
		f.slide(dests, f.board.BishopDirections(), NewBishop(), 0)
	case Knight:
		for _, rel := range f.board.KnightLeaps() {
			if _, ok := f.reach(rel); ok {
				f.add(dests, MoveAction(rel, NewKnight()))
			}
		}
	case Pawn:
		f.pawnForward(dests)
		f.pawnCapture(dests)
		f.enPassant(dests)
		f.promote(dests)
	}
	return dests
}

func (f *Focus[L, R]) add(dests map[L]Choice[R], action Action[R]) {
	dests[f.loc.Add(action.Offset)] = Choice[R]{Action: action}
}

// reach reports whether the piece may stand on rel, and whether that
// would capture.
func (f *Focus[L, R]) reach(rel R) (capture bool, ok bool) {
	square, onBoard := f.get(rel)
	switch {
	case !onBoard || square.IsDuck():
		return false, false
	case square.IsEmpty():
		return false, true
	case square.Color != f.player:
		return true, true
	}
	return false, false
}

// slide walks each direction until blocked; limit 0 means unbounded.
func (f *Focus[L, R]) slide(dests map[L]Choice[R], dirs []R, piece Piece, limit int) {
	for _, dir := range dirs {
		rel := dir
		for step := 1; limit == 0 || step <= limit; step++ {
			capture, ok := f.reach(rel)
			if !ok {
				break
			}
			f.add(dests, MoveAction(rel, piece))
			if capture {
				break
			}
			rel = rel.Add(dir)
		}
	}
}

func (f *Focus[L, R]) castle(dests map[L]Choice[R]) {
	if f.piece.Moved {
		return
	}
	for _, route := range f.board.CastlingRoutes() {
		rook, ok := f.get(route.Rook)
		if !ok || !rook.Holds(f.player) || rook.Piece.Type != Rook || rook.Piece.Moved {
			continue
		}
		open := true
		for _, rel := range route.Path() {
			if square, ok := f.get(rel); !ok || !square.IsEmpty() {
				open = false
				break
			}
		}
		if open {
			f.add(dests, CastleAction(route))
		}
	}
}

func (f *Focus[L, R]) pawnForward(dests map[L]Choice[R]) {
	one := f.board.Forward(f.player)
	if square, ok := f.get(one); !ok || !square.IsEmpty() {
		return
	}
	f.add(dests, MoveAction(one, NewPawn(false)))
	if !f.board.IsPawnHome(f.player, f.loc) {
		return
	}
	two := one.Times(2)
	if square, ok := f.get(two); ok && square.IsEmpty() {
		f.add(dests, MoveAction(two, NewPawn(true)))
	}
}

func (f *Focus[L, R]) pawnCapture(dests map[L]Choice[R]) {
	for _, rel := range f.board.CaptureDirections(f.player) {
		if square, ok := f.get(rel); ok && square.Kind == Occupied && square.Color != f.player {
			f.add(dests, MoveAction(rel, NewPawn(false)))
		}
	}
}

// enPassant lands on an empty capture square whose neighbour one step back
// holds an enemy pawn that has just advanced two squares.
func (f *Focus[L, R]) enPassant(dests map[L]Choice[R]) {
	back := f.board.Forward(f.player.Other())
	for _, rel := range f.board.CaptureDirections(f.player) {
		landing, ok := f.get(rel)
		if !ok || !landing.IsEmpty() {
			continue
		}
		passed, ok := f.get(rel.Add(back))
		if !ok || passed.Kind != Occupied || passed.Color == f.player {
			continue
		}
		if passed.Piece.Type == Pawn && passed.Piece.Passantable {
			f.add(dests, EnPassantAction(rel))
		}
	}
}

func (f *Focus[L, R]) promote(dests map[L]Choice[R]) {
	for loc, choice := range dests {
		if choice.Action.Kind == ActionMove && f.board.IsPromotion(f.player, loc) {
			choice.Promotions = PromotionPieces()
			dests[loc] = choice
		}
	}
}

// Apply performs an action that Destinations produced. Every pawn on the
// board loses its en passant flag first.
func (f *Focus[L, R]) Apply(action Action[R]) {
	for loc, square := range f.board.All() {
		if unflagged := square.unpassant(); unflagged != square {
			f.board.Set(loc, unflagged)
		}
	}
	switch action.Kind {
	case ActionMove:
		f.moveTo(action.Offset, action.Piece)
	case ActionEnPassant:
		f.moveTo(action.Offset, NewPawn(false))
		f.board.Set(f.loc.Add(f.board.Forward(f.player.Other())), EmptySquare())
	case ActionCastle:
		king := f.loc
		f.moveTo(action.Castle.KingTo(), NewKing(true))
		f.loc = king.Add(action.Castle.Rook)
		f.moveTo(action.Castle.RookTo, NewRook(true))
		f.loc = king.Add(action.Castle.KingTo())
	}
}

// moveTo relocates the focused piece, which becomes piece, and follows it.
func (f *Focus[L, R]) moveTo(rel R, piece Piece) {
	to := f.loc.Add(rel)
	f.board.Set(to, PieceSquare(f.player, piece))
	f.board.Set(f.loc, EmptySquare())
	f.loc = to
	f.piece = piece
}
