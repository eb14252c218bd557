package model

import (
	"fmt"
	"sync"
)

type GameResult uint8

const (
	InProgress GameResult = iota
	WhiteWins
	BlackWins
	Stalemate
)

func (r GameResult) String() string {
	switch r {
	case WhiteWins:
		return "white-wins"
	case BlackWins:
		return "black-wins"
	case Stalemate:
		return "stalemate"
	}
	return "in-progress"
}

func (r GameResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *GameResult) UnmarshalText(text []byte) error {
	for _, candidate := range []GameResult{InProgress, WhiteWins, BlackWins, Stalemate} {
		if candidate.String() == string(text) {
			*r = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown game result %q", text)
}

func winner(c Color) GameResult {
	if c == White {
		return WhiteWins
	}
	return BlackWins
}

// Game is one chess game. It owns its Board exclusively; every exported
// method takes the game's lock, so a Game may be shared between goroutines
// while moves are still applied one at a time.
type Game struct {
	ID       string
	mu       sync.Mutex
	board    Board
	history  []Ply
	result   GameResult
	lastMove *SimpleMove
	captured CapturedPieces
}

// CapturedPieces lists the pieces each side has lost.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

// GameState is a read-only snapshot handed to the presentation layer. It
// shares no memory with the game it was taken from.
type GameState struct {
	ID              string         `json:"id"`
	Board           Board          `json:"boardState"`
	ToMove          Color          `json:"toMove"`
	Result          GameResult     `json:"result"`
	IsCheck         bool           `json:"isCheck"`
	MoveLog         []string       `json:"moveLog"`
	MoveHistory     []Move         `json:"moveHistory"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	PromotionSquare *Position      `json:"promotionSquare"`
	LastMove        *SimpleMove    `json:"lastMove"`
}

func NewGame(id string) *Game {
	return newGameFrom(id, NewBoard())
}

// newGameFrom starts a game from an arbitrary position.
func newGameFrom(id string, b Board) *Game {
	return &Game{
		ID:       id,
		board:    b,
		captured: newCapturedPieces(),
	}
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

// Reset returns the game to the starting position from any state.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.board = NewBoard()
	g.history = nil
	g.result = InProgress
	g.lastMove = nil
	g.captured = newCapturedPieces()
}

func (g *Game) Board() Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone()
}

func (g *Game) ToMove() Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.ToMove
}

func (g *Game) Result() GameResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result
}

func (g *Game) InCheck() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return IsInCheck(&g.board, g.board.ToMove)
}

// PendingPromotion returns the square of the pawn awaiting promotion, or nil.
func (g *Game) PendingPromotion() *Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.board.Promotion == nil {
		return nil
	}
	sq := *g.board.Promotion
	return &sq
}

func (g *Game) MoveLog() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.moveLog()
}

func (g *Game) moveLog() []string {
	log := make([]string, len(g.history))
	for i, ply := range g.history {
		log[i] = ply.Notation
	}
	return log
}

func (g *Game) History() []Ply {
	g.mu.Lock()
	defer g.mu.Unlock()
	return clonePlies(g.history)
}

func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := GameState{
		ID:          g.ID,
		Board:       g.board.Clone(),
		ToMove:      g.board.ToMove,
		Result:      g.result,
		IsCheck:     IsInCheck(&g.board, g.board.ToMove),
		MoveLog:     g.moveLog(),
		MoveHistory: pairPlies(g.history),
		CapturedPieces: CapturedPieces{
			White: append(make([]Piece, 0, len(g.captured.White)), g.captured.White...),
			Black: append(make([]Piece, 0, len(g.captured.Black)), g.captured.Black...),
		},
	}
	state.PromotionSquare = state.Board.Promotion
	if g.lastMove != nil {
		last := *g.lastMove
		state.LastMove = &last
	}
	return state
}

// LegalMoves returns where the piece on from may move. It is empty unless the
// piece belongs to the side to move and the game is waiting for a move.
func (g *Game) LegalMoves(from Position) []Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.acceptingMoves() || !from.InBounds() || !g.board.Get(from).Is(g.board.ToMove) {
		return nil
	}
	return LegalMoves(&g.board, from)
}

func (g *Game) acceptingMoves() bool {
	return g.result == InProgress && g.board.Promotion == nil
}

// MakeMove plays from -> to for the side to move. A rejected move leaves the
// game exactly as it was.
func (g *Game) MakeMove(from, to Position) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.result != InProgress {
		return ErrGameOver
	}
	if g.board.Promotion != nil {
		return fmt.Errorf("%w at %s", ErrPromotionPending, g.board.Promotion)
	}
	if !from.InBounds() || !to.InBounds() {
		return fmt.Errorf("%w: square off the board", ErrIllegalMove)
	}
	if !g.board.Get(from).Is(g.board.ToMove) {
		return fmt.Errorf("%w: no %s piece on %s", ErrIllegalMove, g.board.ToMove, from)
	}
	if !containsPosition(LegalMoves(&g.board, from), to) {
		return fmt.Errorf("%w: %s-%s", ErrIllegalMove, from, to)
	}

	g.executeMove(from, to)
	return nil
}

func containsPosition(list []Position, p Position) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}

func (g *Game) executeMove(from, to Position) {
	b := &g.board
	piece := b.Get(from)
	ply := Ply{
		Piece:         piece,
		From:          from,
		To:            to,
		CapturedPiece: b.Get(to),
		Notation:      Notation(b, from, to),
	}
	enPassant := isEnPassantCapture(b, piece, to)

	b.Set(to, piece)
	b.Set(from, NoPiece)

	if enPassant {
		victim := Position{X: to.X, Y: from.Y}
		ply.CapturedPiece = b.Get(victim)
		b.Set(victim, NoPiece)
	}

	if piece.Type == Pawn && abs(to.Y-from.Y) == 2 {
		b.EnPassant = &Position{X: from.X, Y: (from.Y + to.Y) / 2}
	} else {
		b.EnPassant = nil
	}

	if piece.Type == King && abs(to.X-from.X) == 2 {
		ply.CastleRookMove = g.handleCastle(from, to)
	}

	g.updateCastlingRights(piece, from)

	if !ply.CapturedPiece.IsEmpty() {
		g.recordCapture(ply.CapturedPiece)
	}
	g.history = append(g.history, ply)
	g.lastMove = &SimpleMove{From: from, To: to}

	if piece.Type == Pawn && (to.Y == 0 || to.Y == 7) {
		b.Promotion = &Position{X: to.X, Y: to.Y}
		return
	}
	g.switchTurn()
}

// handleCastle moves the rook that belongs to a two-file king move.
func (g *Game) handleCastle(from, to Position) *CastleRookMove {
	row := from.Y
	rookMove := &CastleRookMove{
		From: Position{X: 0, Y: row},
		To:   Position{X: 3, Y: row},
	}
	if to.X == 6 {
		rookMove.From = Position{X: 7, Y: row}
		rookMove.To = Position{X: 5, Y: row}
	}
	g.board.Set(rookMove.To, g.board.Get(rookMove.From))
	g.board.Set(rookMove.From, NoPiece)
	return rookMove
}

// updateCastlingRights revokes rights after a king move or a rook leaving its
// home corner. Capturing a rook on its home corner does not revoke anything.
func (g *Game) updateCastlingRights(piece Piece, from Position) {
	c := piece.Color
	switch piece.Type {
	case King:
		g.board.Castling.revoke(c, true, true)
	case Rook:
		if from.Y != c.homeRow() {
			return
		}
		switch from.X {
		case 0:
			g.board.Castling.revoke(c, false, true)
		case 7:
			g.board.Castling.revoke(c, true, false)
		}
	}
}

func (g *Game) recordCapture(p Piece) {
	if p.Color == White {
		g.captured.White = append(g.captured.White, p)
	} else {
		g.captured.Black = append(g.captured.Black, p)
	}
}

// Promote replaces the pawn waiting on the last rank and completes the ply.
func (g *Game) Promote(choice PieceType) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.board.Promotion == nil {
		return ErrNoPromotionPending
	}
	switch choice {
	case Queen, Rook, Bishop, Knight:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidPromotion, choice)
	}

	sq := *g.board.Promotion
	g.board.Set(sq, NewPiece(g.board.ToMove, choice))
	last := &g.history[len(g.history)-1]
	last.Promotion = &choice
	last.Notation += "=" + choice.Letter()
	g.board.Promotion = nil

	g.switchTurn()
	return nil
}

// switchTurn hands the move to the opponent and classifies the position they
// are left in.
func (g *Game) switchTurn() {
	g.board.ToMove = g.board.ToMove.Opponent()
	side := g.board.ToMove
	inCheck := IsInCheck(&g.board, side)

	if !hasLegalMoves(&g.board, side) {
		if inCheck {
			g.result = winner(side.Opponent())
			g.appendSuffix("#")
		} else {
			g.result = Stalemate
		}
		return
	}
	if inCheck {
		g.appendSuffix("+")
	}
}

func (g *Game) appendSuffix(s string) {
	if len(g.history) > 0 {
		g.history[len(g.history)-1].Notation += s
	}
}
