package model

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Ply records one completed move. Notation is amended in place when the move
// turns out to promote, give check or mate.
type Ply struct {
	Piece          Piece           `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	CapturedPiece  Piece           `json:"capturedPiece"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      *PieceType      `json:"promotion"`
	Notation       string          `json:"notation"`
}

// Move pairs a white ply with black's reply for move-numbered display.
type Move struct {
	Number   int  `json:"number"`
	WhitePly Ply  `json:"whitePly"`
	BlackPly *Ply `json:"blackPly"`
}

// clone copies the ply together with the records its pointers refer to.
func (p Ply) clone() Ply {
	if p.CastleRookMove != nil {
		rook := *p.CastleRookMove
		p.CastleRookMove = &rook
	}
	if p.Promotion != nil {
		kind := *p.Promotion
		p.Promotion = &kind
	}
	return p
}

func clonePlies(plies []Ply) []Ply {
	out := make([]Ply, len(plies))
	for i, p := range plies {
		out[i] = p.clone()
	}
	return out
}

// pairPlies groups plies two by two, white first.
func pairPlies(plies []Ply) []Move {
	moves := make([]Move, 0, (len(plies)+1)/2)
	for i := 0; i < len(plies); i += 2 {
		m := Move{Number: i/2 + 1, WhitePly: plies[i].clone()}
		if i+1 < len(plies) {
			black := plies[i+1].clone()
			m.BlackPly = &black
		}
		moves = append(moves, m)
	}
	return moves
}
