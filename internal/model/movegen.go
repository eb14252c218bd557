package model

var (
	rookDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	bishopDirs = []Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs = []Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
	kingDirs   = []Position{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
)

// PseudoMoves returns the destinations the piece on from can reach by its
// movement rules alone. It does not look at the mover's king safety and never
// produces castling moves, so it is safe to call from attack detection.
func PseudoMoves(b *Board, from Position) []Position {
	piece := b.Get(from)
	switch piece.Type {
	case Pawn:
		return pseudoPawnMoves(b, piece, from)
	case Knight:
		return stepMoves(b, piece, from, knightDirs)
	case Bishop:
		return slideMoves(b, piece, from, bishopDirs)
	case Rook:
		return slideMoves(b, piece, from, rookDirs)
	case Queen:
		return append(slideMoves(b, piece, from, bishopDirs), slideMoves(b, piece, from, rookDirs)...)
	case King:
		return stepMoves(b, piece, from, kingDirs)
	}
	return nil
}

func pawnDirection(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

func pawnStartRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

func pseudoPawnMoves(b *Board, piece Piece, from Position) []Position {
	var moves []Position
	dir := pawnDirection(piece.Color)

	one := from.add(0, dir)
	if one.InBounds() && b.Get(one).IsEmpty() {
		moves = append(moves, one)
		two := from.add(0, 2*dir)
		if from.Y == pawnStartRow(piece.Color) && b.Get(two).IsEmpty() {
			moves = append(moves, two)
		}
	}

	for _, dx := range []int{-1, 1} {
		target := from.add(dx, dir)
		if !target.InBounds() {
			continue
		}
		if b.Get(target).Is(piece.Color.Opponent()) || samePosition(b.EnPassant, target) {
			moves = append(moves, target)
		}
	}
	return moves
}

// stepMoves handles the fixed-offset pieces (knight and king).
func stepMoves(b *Board, piece Piece, from Position, dirs []Position) []Position {
	var moves []Position
	for _, dir := range dirs {
		target := from.add(dir.X, dir.Y)
		if target.InBounds() && !b.Get(target).Is(piece.Color) {
			moves = append(moves, target)
		}
	}
	return moves
}

// slideMoves walks each ray until it leaves the board or hits a piece. An
// enemy blocker is included as a capture, a friendly one is not.
func slideMoves(b *Board, piece Piece, from Position, dirs []Position) []Position {
	var moves []Position
	for _, dir := range dirs {
		target := from.add(dir.X, dir.Y)
		for target.InBounds() {
			occupant := b.Get(target)
			if occupant.IsEmpty() {
				moves = append(moves, target)
			} else {
				if occupant.Color != piece.Color {
					moves = append(moves, target)
				}
				break
			}
			target = target.add(dir.X, dir.Y)
		}
	}
	return moves
}
