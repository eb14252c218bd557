package service

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/google/go-cmp/cmp"
)

// fakeConn records every message written to it.
type fakeConn struct {
	mu       sync.Mutex
	messages []ws.Message
	failWith error
	closed   bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.messages = append(f.messages, v.(ws.Message))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) states(t *testing.T) []model.GameState {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.GameState
	for _, msg := range f.messages {
		if msg.Type != ws.MessageTypeGameState {
			t.Fatalf("unexpected message type %q", msg.Type)
		}
		var state model.GameState
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			t.Fatalf("decoding state: %v", err)
		}
		out = append(out, state)
	}
	return out
}

func sq(t *testing.T, s string) model.Position {
	t.Helper()
	p, err := model.ParsePosition(s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestGameManagerLifecycle(t *testing.T) {
	gm := NewGameManager(0, 0)
	defer gm.Stop()

	if err := gm.CreateGame("g1"); err != nil {
		t.Fatal(err)
	}
	if err := gm.CreateGame("g1"); !errors.Is(err, ErrGameExists) {
		t.Errorf("duplicate create: got %v, want ErrGameExists", err)
	}
	if !gm.HasGame("g1") || gm.Len() != 1 {
		t.Fatalf("game not registered")
	}

	g, err := gm.GetGame("g1")
	if err != nil {
		t.Fatal(err)
	}
	if g.ID != "g1" {
		t.Errorf("game id = %q", g.ID)
	}

	gs := NewGameService(gm)
	conn := &fakeConn{}
	if err := gs.RegisterConnection("g1", "c1", conn); err != nil {
		t.Fatal(err)
	}
	if err := gm.DeleteGame("g1"); err != nil {
		t.Fatal(err)
	}
	if !conn.closed {
		t.Error("observer left open after delete")
	}
	if _, err := gm.GetGame("g1"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("get after delete: got %v, want ErrGameNotFound", err)
	}
	if err := gm.DeleteGame("g1"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("second delete: got %v, want ErrGameNotFound", err)
	}
	if err := gs.RegisterConnection("g1", "c2", &fakeConn{}); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("register on missing game: got %v", err)
	}
	gm.UnregisterConnection("g1", "c1")
}

func TestRemoveIdleGames(t *testing.T) {
	gm := NewGameManager(time.Hour, 0)
	defer gm.Stop()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	gm.now = func() time.Time { return clock }

	for _, id := range []string{"stale", "fresh"} {
		if err := gm.CreateGame(id); err != nil {
			t.Fatal(err)
		}
	}
	conn := &fakeConn{}
	if err := NewGameService(gm).RegisterConnection("stale", "c1", conn); err != nil {
		t.Fatal(err)
	}

	clock = clock.Add(50 * time.Minute)
	if _, err := gm.GetGame("fresh"); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(20 * time.Minute)

	removed := gm.removeIdleGames()
	if diff := cmp.Diff([]string{"stale"}, removed); diff != "" {
		t.Errorf("removed games mismatch (-want +got):\n%s", diff)
	}
	if gm.HasGame("stale") || !gm.HasGame("fresh") {
		t.Error("wrong games survived the sweep")
	}
	if !conn.closed {
		t.Error("observer of removed game left open")
	}
}

func TestJanitorStops(t *testing.T) {
	gm := NewGameManager(time.Nanosecond, time.Millisecond)
	if err := gm.CreateGame("g1"); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for gm.HasGame("g1") {
		if time.Now().After(deadline) {
			t.Fatal("janitor never removed the idle game")
		}
		time.Sleep(5 * time.Millisecond)
	}
	gm.Stop()
	gm.Stop()
}

func TestBroadcastDropsFailingObservers(t *testing.T) {
	gc := NewGameConnections()
	good := &fakeConn{}
	bad := &fakeConn{failWith: errors.New("broken pipe")}
	gc.Register("good", good)
	gc.Register("bad", bad)

	msg, err := ws.NewMessage(ws.MessageTypeReset, struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	gc.Broadcast(msg)

	if gc.Len() != 1 {
		t.Errorf("%d observers left, want 1", gc.Len())
	}
	if !bad.closed || good.closed {
		t.Error("wrong observer closed")
	}
	if len(good.messages) != 1 {
		t.Errorf("good observer got %d messages", len(good.messages))
	}

	gc.CloseAll()
	if gc.Len() != 0 || !good.closed {
		t.Error("CloseAll left observers behind")
	}
}

func TestGameServiceBroadcastsTransitions(t *testing.T) {
	gm := NewGameManager(0, 0)
	defer gm.Stop()
	gs := NewGameService(gm)

	id, err := gs.CreateGame()
	if err != nil {
		t.Fatal(err)
	}
	watcher := &fakeConn{}
	if err := gs.RegisterConnection(id, "watcher", watcher); err != nil {
		t.Fatal(err)
	}

	if _, err := gs.MakeMove(id, model.SimpleMove{From: sq(t, "e2"), To: sq(t, "e4")}); err != nil {
		t.Fatal(err)
	}
	if _, err := gs.MakeMove(id, model.SimpleMove{From: sq(t, "e2"), To: sq(t, "e4")}); !errors.Is(err, model.ErrIllegalMove) {
		t.Errorf("replayed move: got %v, want ErrIllegalMove", err)
	}
	state, err := gs.Reset(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(state.MoveLog) != 0 || state.ToMove != model.White {
		t.Errorf("reset state = %+v", state)
	}

	// Initial snapshot, the move, the reset. The rejected move is silent.
	states := watcher.states(t)
	if len(states) != 3 {
		t.Fatalf("watcher saw %d states, want 3", len(states))
	}
	var logs [][]string
	for _, s := range states {
		logs = append(logs, s.MoveLog)
	}
	want := [][]string{{}, {"e4"}, {}}
	if diff := cmp.Diff(want, logs); diff != "" {
		t.Errorf("broadcast logs mismatch (-want +got):\n%s", diff)
	}
}

// gatedConn holds its n-th write until release is closed.
type gatedConn struct {
	fakeConn
	n       int
	writes  int
	entered chan struct{}
	release chan struct{}
}

func (g *gatedConn) WriteJSON(v interface{}) error {
	g.mu.Lock()
	i := g.writes
	g.writes++
	g.mu.Unlock()
	if i == g.n {
		close(g.entered)
		<-g.release
	}
	return g.fakeConn.WriteJSON(v)
}

func TestBroadcastsFollowMoveOrder(t *testing.T) {
	gm := NewGameManager(0, 0)
	defer gm.Stop()
	gs := NewGameService(gm)

	id, err := gs.CreateGame()
	if err != nil {
		t.Fatal(err)
	}
	watcher := &gatedConn{n: 1, entered: make(chan struct{}), release: make(chan struct{})}
	if err := gs.RegisterConnection(id, "watcher", watcher); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	play := func(from, to string) {
		defer wg.Done()
		if _, err := gs.MakeMove(id, model.SimpleMove{From: sq(t, from), To: sq(t, to)}); err != nil {
			t.Errorf("%s%s: %v", from, to, err)
		}
	}

	wg.Add(1)
	go play("e2", "e4")
	<-watcher.entered

	// The reply waits behind the stalled broadcast of the first move.
	wg.Add(1)
	go play("e7", "e5")
	time.Sleep(20 * time.Millisecond)
	close(watcher.release)
	wg.Wait()

	var logs [][]string
	for _, s := range watcher.states(t) {
		logs = append(logs, s.MoveLog)
	}
	want := [][]string{{}, {"e4"}, {"e4", "e5"}}
	if diff := cmp.Diff(want, logs); diff != "" {
		t.Errorf("observed states out of order (-want +got):\n%s", diff)
	}
}

func TestGameServicePromotionFlow(t *testing.T) {
	gm := NewGameManager(0, 0)
	defer gm.Stop()
	gs := NewGameService(gm)

	id, err := gs.CreateGame()
	if err != nil {
		t.Fatal(err)
	}
	moves := []string{"b2b4", "a7a5", "b4a5", "b7b6", "a5b6", "h7h6", "b6c7", "h6h5"}
	for _, m := range moves {
		if _, err := gs.MakeMove(id, model.SimpleMove{From: sq(t, m[:2]), To: sq(t, m[2:])}); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
	}
	state, err := gs.MakeMove(id, model.SimpleMove{From: sq(t, "c7"), To: sq(t, "d8")})
	if err != nil {
		t.Fatal(err)
	}
	if state.PromotionSquare == nil || state.PromotionSquare.String() != "d8" {
		t.Fatalf("promotion square = %v, want d8", state.PromotionSquare)
	}
	if _, err := gs.MakeMove(id, model.SimpleMove{From: sq(t, "h5"), To: sq(t, "h4")}); !errors.Is(err, model.ErrPromotionPending) {
		t.Errorf("move during promotion: got %v", err)
	}
	if _, err := gs.Promote(id, model.King); !errors.Is(err, model.ErrInvalidPromotion) {
		t.Errorf("king promotion: got %v", err)
	}

	state, err = gs.Promote(id, model.Queen)
	if err != nil {
		t.Fatal(err)
	}
	if got := state.MoveLog[len(state.MoveLog)-1]; got != "cxd8=Q+" {
		t.Errorf("last notation = %q, want cxd8=Q+", got)
	}
	if state.ToMove != model.Black {
		t.Errorf("ToMove = %s, want black", state.ToMove)
	}
}

func TestGameServiceUnknownGame(t *testing.T) {
	gs := NewGameService(NewGameManager(0, 0))
	if _, err := gs.GetGameState("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGameState: got %v", err)
	}
	if _, err := gs.LegalMoves("missing", model.Position{}); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("LegalMoves: got %v", err)
	}
	if _, err := gs.Reset("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("Reset: got %v", err)
	}
}
