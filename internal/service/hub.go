package service

import (
	"log"
	"sync"

	"github.com/benbeisheim/chess-backend/internal/ws"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// GameConnections holds the observers of a single game, keyed by connection id.
type GameConnections struct {
	connections map[string]Conn
	mu          sync.RWMutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

func (gc *GameConnections) Register(connID string, conn Conn) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.connections[connID] = conn
}

func (gc *GameConnections) Unregister(connID string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	delete(gc.connections, connID)
}

func (gc *GameConnections) Len() int {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return len(gc.connections)
}

// Broadcast sends msg to every observer. Observers that fail to receive it are
// dropped.
func (gc *GameConnections) Broadcast(msg ws.Message) {
	// Snapshot under the read lock so a slow write does not block registration.
	gc.mu.RLock()
	active := make(map[string]Conn, len(gc.connections))
	for id, conn := range gc.connections {
		active[id] = conn
	}
	gc.mu.RUnlock()

	for id, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("dropping observer %s: %v", id, err)
			gc.Unregister(id)
			conn.Close()
		}
	}
}

// CloseAll disconnects every observer.
func (gc *GameConnections) CloseAll() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	for id, conn := range gc.connections {
		conn.Close()
		delete(gc.connections, id)
	}
}
