package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/duckchess-backend/internal/model"
)

type QueuedPlayer struct {
	PlayerID string
	GameType model.GameType
	JoinedAt time.Time
}

// Queue holds players waiting for an opponent, oldest first.
type Queue struct {
	players []QueuedPlayer
	mu      sync.Mutex
}

func NewQueue() *Queue {
	return &Queue{
		players: []QueuedPlayer{},
	}
}

func (q *Queue) AddPlayer(playerID string, gameType model.GameType) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, p := range q.players {
		if p.PlayerID == playerID {
			return fmt.Errorf("%w: %s", ErrAlreadyQueued, playerID)
		}
	}

	q.players = append(q.players, QueuedPlayer{
		PlayerID: playerID,
		GameType: gameType,
		JoinedAt: time.Now(),
	})
	return nil
}

// RemovePlayer reports whether the player was waiting.
func (q *Queue) RemovePlayer(playerID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, p := range q.players {
		if p.PlayerID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return true
		}
	}
	return false
}

// NextPair removes and returns the two longest-waiting players who want the
// same game type.
func (q *Queue) NextPair() (QueuedPlayer, QueuedPlayer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	first := make(map[model.GameType]int)
	for i, p := range q.players {
		j, seen := first[p.GameType]
		if !seen {
			first[p.GameType] = i
			continue
		}
		a, b := q.players[j], p
		q.players = append(q.players[:i], q.players[i+1:]...)
		q.players = append(q.players[:j], q.players[j+1:]...)
		return a, b, true
	}
	return QueuedPlayer{}, QueuedPlayer{}, false
}

func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.players)
}
