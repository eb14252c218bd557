package model

import "fmt"

// IsAttacked reports whether any piece of color by has sq among its pseudo
// moves.
func IsAttacked(b *Board, sq Position, by Color) bool {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			from := Position{X: x, Y: y}
			if !b.Get(from).Is(by) {
				continue
			}
			for _, target := range PseudoMoves(b, from) {
				if target == sq {
					return true
				}
			}
		}
	}
	return false
}

// IsInCheck reports whether c's king is attacked by the opponent. A board
// without a king for c panics with ErrInvariantViolation.
func IsInCheck(b *Board, c Color) bool {
	king, ok := b.findKing(c)
	if !ok {
		panic(fmt.Errorf("%w: no %s king on the board", ErrInvariantViolation, c))
	}
	return IsAttacked(b, king, c.Opponent())
}

// CastlingDestinations returns the two-file king destinations available to
// the king on king. Each side needs its right, empty squares between king and
// rook, and an unattacked start, transit and destination square.
func CastlingDestinations(b *Board, king Position) []Position {
	piece := b.Get(king)
	if piece.Type != King {
		return nil
	}
	c := piece.Color
	if king != (Position{X: 4, Y: c.homeRow()}) {
		return nil
	}
	enemy := c.Opponent()
	if IsAttacked(b, king, enemy) {
		return nil
	}

	var moves []Position
	if b.Castling.kingside(c) &&
		b.Get(king.add(1, 0)).IsEmpty() && b.Get(king.add(2, 0)).IsEmpty() &&
		!IsAttacked(b, king.add(1, 0), enemy) && !IsAttacked(b, king.add(2, 0), enemy) {
		moves = append(moves, king.add(2, 0))
	}
	if b.Castling.queenside(c) &&
		b.Get(king.add(-1, 0)).IsEmpty() && b.Get(king.add(-2, 0)).IsEmpty() && b.Get(king.add(-3, 0)).IsEmpty() &&
		!IsAttacked(b, king.add(-1, 0), enemy) && !IsAttacked(b, king.add(-2, 0), enemy) {
		moves = append(moves, king.add(-2, 0))
	}
	return moves
}
