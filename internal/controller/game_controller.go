package controller

import (
	"errors"

	"github.com/benbeisheim/duckchess-backend/internal/middleware"
	"github.com/benbeisheim/duckchess-backend/internal/model"
	"github.com/benbeisheim/duckchess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type gameTypeRequest struct {
	GameType model.GameType `json:"gameType"`
}

// parseGameType reads an optional {"gameType"} body, defaulting to the square board.
func parseGameType(c *fiber.Ctx) (model.GameType, error) {
	var req gameTypeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return "", err
		}
	}
	if req.GameType == "" {
		return model.SquareType, nil
	}
	return req.GameType, nil
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameType, err := parseGameType(c)
	if err != nil {
		return badRequest(c, err)
	}

	rec, err := gc.gameService.NewOpenGame(middleware.PlayerID(c), gameType)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": rec.ID,
		"game":    rec,
	})
}

func (gc *GameController) OpenGames(c *fiber.Ctx) error {
	return c.JSON(gc.gameService.OpenGames())
}

func (gc *GameController) MyGames(c *fiber.Ctx) error {
	return c.JSON(gc.gameService.PlayerGames(middleware.PlayerID(c)))
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	playerID := middleware.PlayerID(c)
	rec, err := gc.gameService.JoinGame(c.Params("gameId"), playerID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   rec.Game.PlayerColors(playerID)[0],
		"game":    rec,
	})
}

func (gc *GameController) GetGame(c *fiber.Ctx) error {
	rec, err := gc.gameService.GetGame(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

func (gc *GameController) SubmitTurn(c *fiber.Ctx) error {
	var turn model.AnyTurn
	if err := c.BodyParser(&turn); err != nil {
		return badRequest(c, err)
	}

	rec, err := gc.gameService.SubmitTurn(c.Params("gameId"), middleware.PlayerID(c), turn)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

func (gc *GameController) Destinations(c *fiber.Ctx) error {
	var from model.AnyLocation
	if err := c.BodyParser(&from); err != nil {
		return badRequest(c, err)
	}

	dests, err := gc.gameService.Destinations(c.Params("gameId"), from)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dests)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	gameType, err := parseGameType(c)
	if err != nil {
		return badRequest(c, err)
	}

	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c), gameType); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	if !gc.gameService.LeaveMatchmaking(middleware.PlayerID(c)) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not queued",
		})
	}
	return c.JSON(fiber.Map{
		"status": "left",
	})
}

// errorStatus maps service and engine errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidAction), errors.Is(err, model.ErrInvalidDuck):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrUnknownType), errors.Is(err, service.ErrOwnGame):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, service.ErrNotJoinable),
		errors.Is(err, service.ErrNotStarted),
		errors.Is(err, service.ErrGameOver),
		errors.Is(err, service.ErrAlreadyQueued),
		errors.Is(err, service.ErrStaleRecord):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	} else {
		log.Debugf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}
