package model

// Notation renders the move from -> to in algebraic notation, read off the
// board before the move is applied. Check, mate and promotion suffixes are
// added later by Game once the outcome is known.
func Notation(b *Board, from, to Position) string {
	piece := b.Get(from)
	if piece.Type == King && abs(from.X-to.X) == 2 {
		if to.X == 6 {
			return "O-O"
		}
		return "O-O-O"
	}

	capture := !b.Get(to).IsEmpty()
	if piece.Type == Pawn && from.X != to.X {
		capture = true
	}

	if piece.Type == Pawn {
		if capture {
			return from.file() + "x" + to.String()
		}
		return to.String()
	}
	if capture {
		return piece.Type.Letter() + "x" + to.String()
	}
	return piece.Type.Letter() + to.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
