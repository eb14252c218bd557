package model

// LegalMoves narrows the pseudo moves of the piece on from (plus castling for
// kings) to those that do not leave its own king in check. Every candidate is
// tried on b in place and undone before the next one, so b is unchanged when
// LegalMoves returns.
func LegalMoves(b *Board, from Position) []Position {
	piece := b.Get(from)
	if piece.IsEmpty() {
		return nil
	}
	candidates := PseudoMoves(b, from)
	if piece.Type == King {
		candidates = append(candidates, CastlingDestinations(b, from)...)
	}

	var legal []Position
	for _, to := range candidates {
		if leavesKingSafe(b, from, to) {
			legal = append(legal, to)
		}
	}
	return legal
}

// LegalMovesForColor returns every legal move of every piece of color c.
func LegalMovesForColor(b *Board, c Color) []SimpleMove {
	var moves []SimpleMove
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			from := Position{X: x, Y: y}
			if !b.Get(from).Is(c) {
				continue
			}
			for _, to := range LegalMoves(b, from) {
				moves = append(moves, SimpleMove{From: from, To: to})
			}
		}
	}
	return moves
}

func hasLegalMoves(b *Board, c Color) bool {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			from := Position{X: x, Y: y}
			if b.Get(from).Is(c) && len(LegalMoves(b, from)) > 0 {
				return true
			}
		}
	}
	return false
}

func leavesKingSafe(b *Board, from, to Position) bool {
	mover := b.Get(from).Color
	sim := simulate(b, from, to)
	defer sim.undo()
	return !IsInCheck(b, mover)
}

// simulation is a move applied to a board in place, holding what it needs to
// put every touched square back.
type simulation struct {
	b        *Board
	from, to Position
	moved    Piece
	captured Piece

	enPassant    bool
	enPassantSq  Position
	enPassantPwn Piece
}

func isEnPassantCapture(b *Board, piece Piece, to Position) bool {
	return piece.Type == Pawn && samePosition(b.EnPassant, to)
}

func simulate(b *Board, from, to Position) *simulation {
	s := &simulation{
		b:        b,
		from:     from,
		to:       to,
		moved:    b.Get(from),
		captured: b.Get(to),
	}
	if isEnPassantCapture(b, s.moved, to) {
		s.enPassant = true
		s.enPassantSq = Position{X: to.X, Y: from.Y}
		s.enPassantPwn = b.Get(s.enPassantSq)
		b.Set(s.enPassantSq, NoPiece)
	}
	b.Set(to, s.moved)
	b.Set(from, NoPiece)
	return s
}

func (s *simulation) undo() {
	s.b.Set(s.from, s.moved)
	s.b.Set(s.to, s.captured)
	if s.enPassant {
		s.b.Set(s.enPassantSq, s.enPassantPwn)
	}
}
