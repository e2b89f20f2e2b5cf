package ws

import (
	"encoding/json"

	"github.com/benbeisheim/duckchess-backend/internal/model"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeTurn         MessageType = "turn"
	MessageTypeGameState    MessageType = "gameState"
	MessageTypeNotification MessageType = "notification"
	MessageTypeMatchFound   MessageType = "matchFound"
	MessageTypeError        MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewMessage encodes payload as the message body.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}

// ErrorMessage never fails to encode.
func ErrorMessage(text string) Message {
	msg, _ := NewMessage(MessageTypeError, ErrorPayload{Error: text})
	return msg
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type Event string

const (
	EventGameStarted Event = "gameStarted"
	EventYourTurn    Event = "yourTurn"
	EventGameOver    Event = "gameOver"
)

// Notification tells a player something happened in one of their games.
type Notification struct {
	GameID string      `json:"gameId"`
	Event  Event       `json:"event"`
	Color  model.Color `json:"color,omitempty"`
	Winner model.Color `json:"winner,omitempty"`
}

type MatchFound struct {
	GameID   string         `json:"gameId"`
	GameType model.GameType `json:"gameType"`
	Color    model.Color    `json:"color"`
}
