package model

import "fmt"

// GameType selects the board topology a game is played on.
type GameType string

const (
	SquareType GameType = "square"
	HexType    GameType = "hex"
)

func (t GameType) Valid() bool {
	return t == SquareType || t == HexType
}

// NewGame builds the initial game for this topology.
func (t GameType) NewGame(maker, joiner string, makerColor Color) (*AnyGame, error) {
	switch t {
	case SquareType:
		return &AnyGame{Type: t, Square: NewSquareGame(maker, joiner, makerColor)}, nil
	case HexType:
		return &AnyGame{Type: t, Hex: NewHexGame(maker, joiner, makerColor)}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// GameRequest is an open game waiting for a second player.
type GameRequest struct {
	GameType GameType `json:"gameType"`
	Maker    string   `json:"maker"`
}

// AnyGame is a game on one of the supported topologies. Exactly the field
// named by Type is set.
type AnyGame struct {
	Type   GameType    `json:"type"`
	Square *SquareGame `json:"square,omitempty"`
	Hex    *HexGame    `json:"hex,omitempty"`
}

type AnyTurn struct {
	Type   GameType    `json:"type"`
	Square *SquareTurn `json:"square,omitempty"`
	Hex    *HexTurn    `json:"hex,omitempty"`
}

type AnyLocation struct {
	Type   GameType  `json:"type"`
	Square *Position `json:"square,omitempty"`
	Hex    *Coord    `json:"hex,omitempty"`
}

// AnyDestinations is a legal-destination listing plus, when any entry is a
// promotion, the menu board offering the promotion pieces.
type AnyDestinations struct {
	Type       GameType                       `json:"type"`
	Square     []Destination[Position, Delta] `json:"square,omitempty"`
	Hex        []Destination[Coord, HexDelta] `json:"hex,omitempty"`
	SquareMenu *SquareBoard                   `json:"squareMenu,omitempty"`
	HexMenu    *HexBoard                      `json:"hexMenu,omitempty"`
}

func (g *AnyGame) Turn() Color {
	if g.Type == HexType {
		return g.Hex.Turn()
	}
	return g.Square.Turn()
}

func (g *AnyGame) TurnCount() int {
	if g.Type == HexType {
		return len(g.Hex.Turns)
	}
	return len(g.Square.Turns)
}

// Players returns the maker and the joiner.
func (g *AnyGame) Players() (string, string) {
	if g.Type == HexType {
		return g.Hex.Maker, g.Hex.Joiner
	}
	return g.Square.Maker, g.Square.Joiner
}

// PlayerFor returns the player controlling color.
func (g *AnyGame) PlayerFor(color Color) string {
	maker, joiner := g.Players()
	var makerColor Color
	if g.Type == HexType {
		makerColor = g.Hex.MakerColor
	} else {
		makerColor = g.Square.MakerColor
	}
	if color == makerColor {
		return maker
	}
	return joiner
}

func (g *AnyGame) PlayerColors(player string) []Color {
	if g.Type == HexType {
		return g.Hex.PlayerColors(player)
	}
	return g.Square.PlayerColors(player)
}

func (g *AnyGame) IsPlayerTurn(player string) bool {
	if g.Type == HexType {
		return g.Hex.IsPlayerTurn(player)
	}
	return g.Square.IsPlayerTurn(player)
}

func (g *AnyGame) InGame(player string) bool {
	return len(g.PlayerColors(player)) > 0
}

func (g *AnyGame) GameOver() (Color, bool) {
	if g.Type == HexType {
		return g.Hex.GameOver()
	}
	return g.Square.GameOver()
}

// ApplyTurn rejects a turn for a different topology as an invalid action.
func (g *AnyGame) ApplyTurn(player string, turn AnyTurn) error {
	if turn.Type != g.Type {
		return fmt.Errorf("%w: %s turn for %s game", ErrInvalidAction, turn.Type, g.Type)
	}
	switch g.Type {
	case SquareType:
		if turn.Square == nil {
			return fmt.Errorf("%w: missing square turn", ErrInvalidAction)
		}
		return g.Square.ApplyTurn(player, *turn.Square)
	case HexType:
		if turn.Hex == nil {
			return fmt.Errorf("%w: missing hex turn", ErrInvalidAction)
		}
		return g.Hex.ApplyTurn(player, *turn.Hex)
	}
	return fmt.Errorf("%w: %q", ErrUnknownType, g.Type)
}

func (g *AnyGame) Destinations(from AnyLocation) (AnyDestinations, error) {
	dests := AnyDestinations{Type: g.Type}
	if from.Type != g.Type {
		return dests, fmt.Errorf("%w: %s location for %s game", ErrInvalidAction, from.Type, g.Type)
	}
	switch {
	case g.Type == SquareType && from.Square != nil:
		dests.Square = g.Square.DestinationList(*from.Square)
		for _, dest := range dests.Square {
			if dest.Choice.IsPromotion() {
				dests.SquareMenu = g.Square.PromotionMenu()
				break
			}
		}
	case g.Type == HexType && from.Hex != nil:
		dests.Hex = g.Hex.DestinationList(*from.Hex)
		for _, dest := range dests.Hex {
			if dest.Choice.IsPromotion() {
				dests.HexMenu = g.Hex.PromotionMenu()
				break
			}
		}
	default:
		return dests, fmt.Errorf("%w: missing location", ErrInvalidAction)
	}
	return dests, nil
}

func (g *AnyGame) Clone() *AnyGame {
	clone := &AnyGame{Type: g.Type}
	if g.Square != nil {
		clone.Square = g.Square.Clone()
	}
	if g.Hex != nil {
		clone.Hex = g.Hex.Clone()
	}
	return clone
}
