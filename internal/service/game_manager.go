package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/benbeisheim/duckchess-backend/internal/model"
	"github.com/benbeisheim/duckchess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// Notifier delivers a message to a player wherever they are connected.
type Notifier interface {
	Notify(playerID string, msg ws.Message)
}

// GameManager owns the record store and the matchmaking queue, and starts
// games from either open requests or queued pairs.
type GameManager struct {
	store    *Store
	queue    *Queue
	notifier Notifier
	// makerWhite decides the maker's color when a game starts.
	makerWhite func() bool
}

func NewGameManager(store *Store, notifier Notifier) *GameManager {
	return &GameManager{
		store:      store,
		queue:      NewQueue(),
		notifier:   notifier,
		makerWhite: func() bool { return rand.IntN(2) == 0 },
	}
}

func (gm *GameManager) makerColor() model.Color {
	if gm.makerWhite() {
		return model.White
	}
	return model.Black
}

func (gm *GameManager) notify(playerID string, t ws.MessageType, payload interface{}) {
	if gm.notifier == nil || playerID == "" {
		return
	}
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		log.Errorf("encode %s for %s: %v", t, playerID, err)
		return
	}
	gm.notifier.Notify(playerID, msg)
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Infof("matchmaking every %s", interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := gm.matchOnce(); n > 0 {
				log.Infof("matched %d game(s)", n)
			}
		}
	}
}

// matchOnce starts a game for every pair currently in the queue.
func (gm *GameManager) matchOnce() int {
	matched := 0
	for {
		maker, joiner, ok := gm.queue.NextPair()
		if !ok {
			return matched
		}
		rec, err := gm.insertGame(maker.GameType, maker.PlayerID, joiner.PlayerID)
		if err != nil {
			log.Errorf("start match %s vs %s: %v", maker.PlayerID, joiner.PlayerID, err)
			continue
		}
		matched++
		for _, player := range []string{maker.PlayerID, joiner.PlayerID} {
			gm.notify(player, ws.MessageTypeMatchFound, ws.MatchFound{
				GameID:   rec.ID,
				GameType: maker.GameType,
				Color:    playerColor(rec.Game, player),
			})
		}
	}
}

func (gm *GameManager) insertGame(gameType model.GameType, maker, joiner string) (Record, error) {
	game, err := gameType.NewGame(maker, joiner, gm.makerColor())
	if err != nil {
		return Record{}, err
	}
	return gm.store.Insert(Record{Status: StatusActive, Game: game})
}

// JoinMatchmaking queues the player for a game of the given type.
func (gm *GameManager) JoinMatchmaking(playerID string, gameType model.GameType) error {
	if !gameType.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownType, gameType)
	}
	if err := gm.queue.AddPlayer(playerID, gameType); err != nil {
		log.Debugf("join matchmaking: %v", err)
		return err
	}
	log.Infof("player %s queued for %s", playerID, gameType)
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.RemovePlayer(playerID)
}

// playerColor is the first color player controls, or empty.
func playerColor(game *model.AnyGame, player string) model.Color {
	if colors := game.PlayerColors(player); len(colors) > 0 {
		return colors[0]
	}
	return ""
}
