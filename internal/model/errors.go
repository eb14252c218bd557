package model

import "errors"

// Errors returned by Game. Callers should compare with errors.Is since most
// are wrapped with the offending squares or piece.
var (
	// ErrIllegalMove rejects a destination outside the piece's legal set,
	// including squares off the board. The game is left untouched.
	ErrIllegalMove = errors.New("illegal move")

	// ErrInvalidPromotion rejects a promotion to anything but queen, rook,
	// bishop or knight.
	ErrInvalidPromotion = errors.New("invalid promotion choice")

	// ErrNoPromotionPending is returned by Promote when no pawn is waiting.
	ErrNoPromotionPending = errors.New("no promotion pending")

	// ErrPromotionPending blocks moves until the waiting pawn is promoted.
	ErrPromotionPending = errors.New("promotion pending")

	ErrGameOver = errors.New("game is over")

	// ErrInvariantViolation is only ever raised through panic. It means the
	// board reached a state no legal sequence of moves can produce.
	ErrInvariantViolation = errors.New("invariant violation")
)
