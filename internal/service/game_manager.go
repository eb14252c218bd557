// service/game_manager.go
package service

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
)

type gameEntry struct {
	game        *model.Game
	connections *GameConnections
	lastActive  time.Time

	// mu orders updates with the broadcasts describing them.
	mu sync.Mutex
}

// GameManager is the registry of running games. Each game serialises its own
// moves; the manager lock only guards the registry itself.
type GameManager struct {
	games       map[string]*gameEntry
	mu          sync.RWMutex
	idleTimeout time.Duration
	now         func() time.Time
	done        chan struct{}
	stopOnce    sync.Once
}

// NewGameManager starts a janitor that removes games idle for longer than
// idleTimeout, checking every interval. A zero interval disables it.
func NewGameManager(idleTimeout, interval time.Duration) *GameManager {
	gm := &GameManager{
		games:       make(map[string]*gameEntry),
		idleTimeout: idleTimeout,
		now:         time.Now,
		done:        make(chan struct{}),
	}
	if interval > 0 && idleTimeout > 0 {
		go gm.processIdleGames(interval)
	}
	return gm
}

func (gm *GameManager) Stop() {
	gm.stopOnce.Do(func() { close(gm.done) })
}

func (gm *GameManager) processIdleGames(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			for _, id := range gm.removeIdleGames() {
				log.Printf("removed idle game %s", id)
			}
		}
	}
}

func (gm *GameManager) removeIdleGames() []string {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	cutoff := gm.now().Add(-gm.idleTimeout)
	var removed []string
	for id, entry := range gm.games {
		if entry.lastActive.Before(cutoff) {
			entry.connections.CloseAll()
			delete(gm.games, id)
			removed = append(removed, id)
		}
	}
	return removed
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = &gameEntry{
		game:        model.NewGame(gameID),
		connections: NewGameConnections(),
		lastActive:  gm.now(),
	}
	return nil
}

func (gm *GameManager) DeleteGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	entry, exists := gm.games[gameID]
	if !exists {
		return ErrGameNotFound
	}
	entry.connections.CloseAll()
	delete(gm.games, gameID)
	return nil
}

// GetGame returns the game and marks it active.
func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	entry, err := gm.touch(gameID)
	if err != nil {
		return nil, err
	}
	return entry.game, nil
}

func (gm *GameManager) touch(gameID string) (*gameEntry, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	entry, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	entry.lastActive = gm.now()
	return entry, nil
}

func (gm *GameManager) Len() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// withGame runs fn under the game's update lock. Observers therefore receive
// states in the order the game reached them.
func (gm *GameManager) withGame(gameID string, fn func(*model.Game, *GameConnections) error) error {
	entry, err := gm.touch(gameID)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.game, entry.connections)
}

func (gm *GameManager) UnregisterConnection(gameID, connID string) {
	gm.mu.RLock()
	entry, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}
	entry.connections.Unregister(connID)
}

func (gm *GameManager) HasGame(gameID string) bool {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	_, exists := gm.games[gameID]
	return exists
}
