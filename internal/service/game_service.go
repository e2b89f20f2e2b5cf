package service

import (
	"errors"
	"fmt"

	"github.com/benbeisheim/duckchess-backend/internal/model"
	"github.com/benbeisheim/duckchess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// maxTurnAttempts bounds how often SubmitTurn reloads after losing a race.
const maxTurnAttempts = 3

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// PlayerGames sorts a player's games by what they are waiting on.
type PlayerGames struct {
	MyTurn    []Record `json:"myTurn"`
	OtherTurn []Record `json:"otherTurn"`
	Unstarted []Record `json:"unstarted"`
	Completed []Record `json:"completed"`
}

func (gs *GameService) NewOpenGame(maker string, gameType model.GameType) (Record, error) {
	if !gameType.Valid() {
		return Record{}, fmt.Errorf("%w: %q", model.ErrUnknownType, gameType)
	}
	rec, err := gs.gameManager.store.Insert(Record{
		Status:  StatusRequest,
		Request: &model.GameRequest{GameType: gameType, Maker: maker},
	})
	if err != nil {
		return Record{}, fmt.Errorf("failed to create game: %w", err)
	}
	log.Infof("player %s opened %s game %s", maker, gameType, rec.ID)
	return rec, nil
}

func (gs *GameService) OpenGames() []Record {
	return gs.gameManager.store.List(func(rec Record) bool {
		return rec.Status == StatusRequest
	})
}

// JoinGame turns an open request into a running game with joiner as the
// second player.
func (gs *GameService) JoinGame(gameID string, joiner string) (Record, error) {
	store := gs.gameManager.store
	rec, err := store.Find(gameID)
	if err != nil {
		return Record{}, err
	}
	if rec.Status != StatusRequest || rec.Request == nil {
		return Record{}, fmt.Errorf("%w: %s", ErrNotJoinable, gameID)
	}
	if rec.Request.Maker == joiner {
		return Record{}, ErrOwnGame
	}

	game, err := rec.Request.GameType.NewGame(rec.Request.Maker, joiner, gs.gameManager.makerColor())
	if err != nil {
		return Record{}, err
	}
	next := rec
	next.Status = StatusActive
	next.Request = nil
	next.Game = game
	saved, err := store.Replace(gameID, rec.Version, next)
	if errors.Is(err, ErrStaleRecord) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotJoinable, gameID)
	}
	if err != nil {
		return Record{}, err
	}

	log.Infof("player %s joined game %s", joiner, gameID)
	for _, player := range []string{rec.Request.Maker, joiner} {
		gs.gameManager.notify(player, ws.MessageTypeNotification, ws.Notification{
			GameID: gameID,
			Event:  ws.EventGameStarted,
			Color:  playerColor(game, player),
		})
	}
	return saved, nil
}

func (gs *GameService) GetGame(gameID string) (Record, error) {
	return gs.gameManager.store.Find(gameID)
}

// SubmitTurn applies a turn to the stored game. A turn that loses a race
// with another writer is validated again against the fresh record.
func (gs *GameService) SubmitTurn(gameID string, playerID string, turn model.AnyTurn) (Record, error) {
	store := gs.gameManager.store
	for attempt := 0; attempt < maxTurnAttempts; attempt++ {
		rec, err := store.Find(gameID)
		if err != nil {
			return Record{}, err
		}
		switch rec.Status {
		case StatusRequest:
			return Record{}, fmt.Errorf("%w: %s", ErrNotStarted, gameID)
		case StatusCompleted:
			return Record{}, fmt.Errorf("%w: %s", ErrGameOver, gameID)
		}

		next := rec
		if err := next.Game.ApplyTurn(playerID, turn); err != nil {
			return Record{}, err
		}
		if winner, over := next.Game.GameOver(); over {
			next.Status = StatusCompleted
			next.Winner = winner
		}

		saved, err := store.Replace(gameID, rec.Version, next)
		if errors.Is(err, ErrStaleRecord) {
			log.Debugf("turn on %s lost a race, retrying", gameID)
			continue
		}
		if err != nil {
			return Record{}, err
		}
		gs.announceTurn(saved, playerID)
		return saved, nil
	}
	return Record{}, fmt.Errorf("submit turn to %s: %w", gameID, ErrStaleRecord)
}

func (gs *GameService) announceTurn(rec Record, mover string) {
	maker, joiner := rec.Game.Players()
	if rec.Status == StatusCompleted {
		log.Infof("game %s won by %s", rec.ID, rec.Winner)
		for _, player := range []string{maker, joiner} {
			if player == mover {
				continue
			}
			gs.gameManager.notify(player, ws.MessageTypeNotification, ws.Notification{
				GameID: rec.ID,
				Event:  ws.EventGameOver,
				Winner: rec.Winner,
			})
		}
		return
	}
	next := rec.Game.PlayerFor(rec.Game.Turn())
	if next == mover {
		return
	}
	gs.gameManager.notify(next, ws.MessageTypeNotification, ws.Notification{
		GameID: rec.ID,
		Event:  ws.EventYourTurn,
		Color:  rec.Game.Turn(),
	})
}

func (gs *GameService) PlayerGames(playerID string) PlayerGames {
	games := PlayerGames{
		MyTurn:    []Record{},
		OtherTurn: []Record{},
		Unstarted: []Record{},
		Completed: []Record{},
	}
	recs := gs.gameManager.store.List(func(rec Record) bool {
		return rec.Involves(playerID)
	})
	for _, rec := range recs {
		switch {
		case rec.Status == StatusRequest:
			games.Unstarted = append(games.Unstarted, rec)
		case rec.Status == StatusCompleted:
			games.Completed = append(games.Completed, rec)
		case rec.Game.IsPlayerTurn(playerID):
			games.MyTurn = append(games.MyTurn, rec)
		default:
			games.OtherTurn = append(games.OtherTurn, rec)
		}
	}
	return games
}

// Destinations lists where the piece at from may go this turn.
func (gs *GameService) Destinations(gameID string, from model.AnyLocation) (model.AnyDestinations, error) {
	rec, err := gs.gameManager.store.Find(gameID)
	if err != nil {
		return model.AnyDestinations{}, err
	}
	if rec.Game == nil {
		return model.AnyDestinations{}, fmt.Errorf("%w: %s", ErrNotStarted, gameID)
	}
	return rec.Game.Destinations(from)
}

// Watch streams snapshots of the game after every change.
func (gs *GameService) Watch(gameID string) (<-chan Record, func(), error) {
	return gs.gameManager.store.Watch(gameID)
}

func (gs *GameService) JoinMatchmaking(playerID string, gameType model.GameType) error {
	return gs.gameManager.JoinMatchmaking(playerID, gameType)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}
