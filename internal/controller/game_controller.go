package controller

import (
	"errors"
	"log"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type promoteRequest struct {
	Piece model.PieceType `json:"piece"`
}

// errorStatus maps core and service errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrInvalidPromotion),
		errors.Is(err, model.ErrNoPromotionPending),
		errors.Is(err, model.ErrPromotionPending),
		errors.Is(err, model.ErrGameOver):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func gameID(c *fiber.Ctx) string {
	if id, ok := c.Locals("gameID").(string); ok {
		return id
	}
	return c.Params("gameId")
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	gameID, err := gc.gameService.CreateGame()
	if err != nil {
		return sendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(gameID(c)); err != nil {
		return sendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(gameID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

// GetLegalMoves answers GET /:gameId/moves/:square, square in algebraic form.
func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	from, err := model.ParsePosition(c.Params("square"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	moves, err := gc.gameService.LegalMoves(gameID(c), from)
	if err != nil {
		return sendError(c, err)
	}
	if moves == nil {
		moves = []model.Position{}
	}
	return c.JSON(fiber.Map{
		"from":  from,
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.SimpleMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}

	gameState, err := gc.gameService.MakeMove(gameID(c), move)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req promoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid promotion body",
		})
	}

	gameState, err := gc.gameService.Promote(gameID(c), req.Piece)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	gameState, err := gc.gameService.Reset(gameID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}
