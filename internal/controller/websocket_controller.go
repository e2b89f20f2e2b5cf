package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/duckchess-backend/internal/model"
	"github.com/benbeisheim/duckchess-backend/internal/service"
	"github.com/benbeisheim/duckchess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
	hub         *ws.Hub
}

func NewWebSocketController(gameService *service.GameService, hub *ws.Hub) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
		hub:         hub,
	}
}

func playerOf(c *websocket.Conn) string {
	playerID, _ := c.Locals("playerID").(string)
	return playerID
}

// HandleConnection streams one game to the client and accepts its turns.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := playerOf(c)

	client := wsc.hub.Register(playerID, c)
	defer wsc.hub.Unregister(client)

	updates, cancel, err := wsc.gameService.Watch(gameID)
	if err != nil {
		log.Warnf("watch %s for %s: %v", gameID, playerID, err)
		client.Send(ws.ErrorMessage(err.Error()))
		return
	}

	rec, err := wsc.gameService.GetGame(gameID)
	if err != nil {
		cancel()
		client.Send(ws.ErrorMessage(err.Error()))
		return
	}
	wsc.sendState(client, rec)

	// The connection is recycled once this handler returns, so the
	// forwarder must finish first.
	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		for rec := range updates {
			wsc.sendState(client, rec)
		}
	}()
	defer func() {
		cancel()
		<-forwarded
	}()

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("read error for %s on %s: %v", playerID, gameID, err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			client.Send(ws.ErrorMessage(fmt.Sprintf("parse error: %v", err)))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debugf("handle %s from %s: %v", msg.Type, playerID, err)
			client.Send(ws.ErrorMessage(err.Error()))
		}
	}
}

// HandlePlayerFeed keeps a connection open purely to receive notifications.
func (wsc *WebSocketController) HandlePlayerFeed(c *websocket.Conn) {
	client := wsc.hub.Register(playerOf(c), c)
	defer wsc.hub.Unregister(client)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeTurn:
		var turn model.AnyTurn
		if err := json.Unmarshal(msg.Payload, &turn); err != nil {
			return err
		}
		_, err := wsc.gameService.SubmitTurn(gameID, playerID, turn)
		return err
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendState(client *ws.Client, rec service.Record) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, rec)
	if err != nil {
		log.Errorf("encode state of %s: %v", rec.ID, err)
		return
	}
	if err := client.Send(msg); err != nil {
		log.Debugf("send state of %s: %v", rec.ID, err)
	}
}
