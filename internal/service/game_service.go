package service

import (
	"fmt"
	"log"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame() (string, error) {
	gameID := uuid.New().String()

	if err := gs.gameManager.CreateGame(gameID); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	log.Printf("created game %s", gameID)
	return gameID, nil
}

func (gs *GameService) DeleteGame(gameID string) error {
	return gs.gameManager.DeleteGame(gameID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.State(), nil
}

func (gs *GameService) LegalMoves(gameID string, from model.Position) ([]model.Position, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from), nil
}

func (gs *GameService) MakeMove(gameID string, move model.SimpleMove) (model.GameState, error) {
	return gs.apply(gameID, func(g *model.Game) error {
		return g.MakeMove(move.From, move.To)
	})
}

func (gs *GameService) Promote(gameID string, piece model.PieceType) (model.GameState, error) {
	return gs.apply(gameID, func(g *model.Game) error {
		return g.Promote(piece)
	})
}

func (gs *GameService) Reset(gameID string) (model.GameState, error) {
	return gs.apply(gameID, func(g *model.Game) error {
		g.Reset()
		return nil
	})
}

// apply runs one state transition and pushes the resulting state to every
// observer of the game.
func (gs *GameService) apply(gameID string, transition func(*model.Game) error) (model.GameState, error) {
	var state model.GameState
	err := gs.gameManager.withGame(gameID, func(game *model.Game, conns *GameConnections) error {
		if err := transition(game); err != nil {
			return err
		}
		state = game.State()
		gs.broadcast(gameID, conns, state)
		return nil
	})
	if err != nil {
		return model.GameState{}, err
	}
	return state, nil
}

func (gs *GameService) broadcast(gameID string, conns *GameConnections, state model.GameState) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.Printf("failed to marshal state for game %s: %v", gameID, err)
		return
	}
	conns.Broadcast(msg)
}

// RegisterConnection adds an observer and sends it the current state. No
// broadcast can reach the observer ahead of that first state.
func (gs *GameService) RegisterConnection(gameID, connID string, conn Conn) error {
	return gs.gameManager.withGame(gameID, func(game *model.Game, conns *GameConnections) error {
		msg, err := ws.NewMessage(ws.MessageTypeGameState, game.State())
		if err != nil {
			return err
		}
		if err := conn.WriteJSON(msg); err != nil {
			return err
		}
		conns.Register(connID, conn)
		return nil
	})
}

func (gs *GameService) UnregisterConnection(gameID, connID string) {
	gs.gameManager.UnregisterConnection(gameID, connID)
}

func (gs *GameService) HasGame(gameID string) bool {
	return gs.gameManager.HasGame(gameID)
}
