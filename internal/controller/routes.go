package controller

import (
	"github.com/benbeisheim/duckchess-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Routes mounts the REST and websocket endpoints. Websocket origins are
// checked against allowedOrigins.
func Routes(app *fiber.App, gameController *GameController, wsController *WebSocketController, allowedOrigins []string) {
	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         allowedOrigins,
	}
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID(), middleware.WebSocketUpgrade())
	wsRoutes.Get("/player", websocket.New(wsController.HandlePlayerFeed, wsConfig))
	wsRoutes.Get("/game/:gameId", websocket.New(wsController.HandleConnection, wsConfig))

	api := app.Group("/api", middleware.EnsurePlayerID())

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Post("/matchmaking/leave", gameController.LeaveMatchmaking)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Get("/open", gameController.OpenGames)
	gameRoutes.Get("/mine", gameController.MyGames)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGame)
	gameRoutes.Post("/:gameId/turn", gameController.SubmitTurn)
	gameRoutes.Post("/:gameId/destinations", gameController.Destinations)
}
