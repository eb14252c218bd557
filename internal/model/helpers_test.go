package model

import (
	"strings"
	"testing"
)

// boardFromFEN builds a Board from the first four FEN fields.
func boardFromFEN(t *testing.T, fen string) Board {
	t.Helper()
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		t.Fatalf("short FEN %q", fen)
	}

	var b Board
	rows := strings.Split(fields[0], "/")
	if len(rows) != 8 {
		t.Fatalf("FEN %q: want 8 rows, got %d", fen, len(rows))
	}
	for y, row := range rows {
		x := 0
		for _, r := range row {
			if r >= '1' && r <= '8' {
				x += int(r - '0')
				continue
			}
			kind, err := ParsePieceType(string(r))
			if err != nil {
				t.Fatalf("FEN %q: %v", fen, err)
			}
			c := White
			if r >= 'a' && r <= 'z' {
				c = Black
			}
			b.Squares[y][x] = NewPiece(c, kind)
			x++
		}
	}

	if fields[1] == "b" {
		b.ToMove = Black
	}
	b.Castling = CastlingRights{
		WhiteKingside:  strings.Contains(fields[2], "K"),
		WhiteQueenside: strings.Contains(fields[2], "Q"),
		BlackKingside:  strings.Contains(fields[2], "k"),
		BlackQueenside: strings.Contains(fields[2], "q"),
	}
	if fields[3] != "-" {
		ep := mustPos(t, fields[3])
		b.EnPassant = &ep
	}
	return b
}

func mustPos(t *testing.T, s string) Position {
	t.Helper()
	p, err := ParsePosition(s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// play applies moves written as "e2e4" and fails on the first rejection.
func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, m := range moves {
		if err := g.MakeMove(mustPos(t, m[:2]), mustPos(t, m[2:4])); err != nil {
			t.Fatalf("move %s: %v", m, err)
		}
	}
}

func positionSet(ps []Position) map[string]bool {
	set := make(map[string]bool, len(ps))
	for _, p := range ps {
		set[p.String()] = true
	}
	return set
}

func moveSet(moves []SimpleMove) map[string]bool {
	set := make(map[string]bool, len(moves))
	for _, m := range moves {
		set[m.From.String()+m.To.String()] = true
	}
	return set
}
