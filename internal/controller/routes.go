package controller

import (
	"github.com/benbeisheim/chess-backend/internal/middleware"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes mounts the REST API under /api/game and the live game feed
// under /ws/game/:gameId.
func RegisterRoutes(app *fiber.App, gameService *service.GameService, wsConfig websocket.Config) {
	gameController := NewGameController(gameService)
	wsController := NewWebSocketController(gameService)
	requireGame := middleware.RequireGame(gameService)

	app.Get("/ws/game/:gameId", requireGame, middleware.WebSocketUpgrade(),
		websocket.New(wsController.HandleConnection, wsConfig))

	gameRoutes := app.Group("/api/game")
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Get("/:gameId", requireGame, gameController.GetGameState)
	gameRoutes.Delete("/:gameId", requireGame, gameController.DeleteGame)
	gameRoutes.Get("/:gameId/moves/:square", requireGame, gameController.GetLegalMoves)
	gameRoutes.Post("/:gameId/move", requireGame, gameController.MakeMove)
	gameRoutes.Post("/:gameId/promote", requireGame, gameController.Promote)
	gameRoutes.Post("/:gameId/reset", requireGame, gameController.Reset)
}
