package model

import (
	"encoding/json"
	"fmt"
)

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white":
		*c = White
	case "black":
		*c = Black
	default:
		return fmt.Errorf("unknown color %q", text)
	}
	return nil
}

// homeRow is the back rank of the given color.
func (c Color) homeRow() int {
	if c == White {
		return 7
	}
	return 0
}

// PieceType is the kind of a piece. The zero value is not a kind and only
// appears inside NoPiece.
type PieceType uint8

const (
	noPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = map[PieceType]string{
	Pawn:   "pawn",
	Knight: "knight",
	Bishop: "bishop",
	Rook:   "rook",
	Queen:  "queen",
	King:   "king",
}

func (p PieceType) String() string {
	if name, ok := pieceTypeNames[p]; ok {
		return name
	}
	return "none"
}

// Letter returns the algebraic notation letter, empty for pawns.
func (p PieceType) Letter() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

func (p PieceType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PieceType) UnmarshalText(text []byte) error {
	parsed, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePieceType accepts a full name ("queen") or a notation letter ("Q", "q").
func ParsePieceType(s string) (PieceType, error) {
	for t, name := range pieceTypeNames {
		if s == name {
			return t, nil
		}
	}
	switch s {
	case "P", "p":
		return Pawn, nil
	case "N", "n":
		return Knight, nil
	case "B", "b":
		return Bishop, nil
	case "R", "r":
		return Rook, nil
	case "Q", "q":
		return Queen, nil
	case "K", "k":
		return King, nil
	}
	return noPieceType, fmt.Errorf("unknown piece type %q", s)
}

// Piece is either NoPiece or an occupied square's (type, color) pair.
type Piece struct {
	Type  PieceType
	Color Color
}

var NoPiece = Piece{}

func NewPiece(c Color, t PieceType) Piece {
	return Piece{Type: t, Color: c}
}

func (p Piece) IsEmpty() bool {
	return p.Type == noPieceType
}

// Is reports whether p is an occupied square of color c. Empty squares belong
// to no color.
func (p Piece) Is(c Color) bool {
	return !p.IsEmpty() && p.Color == c
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "--"
	}
	letter := p.Type.Letter()
	if p.Type == Pawn {
		letter = "P"
	}
	if p.Color == White {
		return "w" + letter
	}
	return "b" + letter
}

type pieceJSON struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) MarshalJSON() ([]byte, error) {
	if p.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(pieceJSON{Type: p.Type, Color: p.Color})
}

func (p *Piece) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = NoPiece
		return nil
	}
	var pj pieceJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return err
	}
	*p = Piece{Type: pj.Type, Color: pj.Color}
	return nil
}

// Position is a board square. X is the file column (0 = a-file) and Y the row
// (0 = rank 8, 7 = rank 1).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < 8 && p.Y >= 0 && p.Y < 8
}

func (p Position) add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

func (p Position) String() string {
	return fmt.Sprintf("%c%d", p.X+'a', 8-p.Y)
}

func (p Position) file() string {
	return fmt.Sprintf("%c", p.X+'a')
}

// ParsePosition converts an algebraic square such as "e4".
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	p := Position{X: int(s[0] - 'a'), Y: 8 - int(s[1]-'0')}
	if !p.InBounds() {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return p, nil
}

func samePosition(a *Position, b Position) bool {
	return a != nil && *a == b
}

type CastlingRights struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

func (r CastlingRights) kingside(c Color) bool {
	if c == White {
		return r.WhiteKingside
	}
	return r.BlackKingside
}

func (r CastlingRights) queenside(c Color) bool {
	if c == White {
		return r.WhiteQueenside
	}
	return r.BlackQueenside
}

// revoke clears rights; it never sets one.
func (r *CastlingRights) revoke(c Color, kingside, queenside bool) {
	if c == White {
		r.WhiteKingside = r.WhiteKingside && !kingside
		r.WhiteQueenside = r.WhiteQueenside && !queenside
		return
	}
	r.BlackKingside = r.BlackKingside && !kingside
	r.BlackQueenside = r.BlackQueenside && !queenside
}

// Board is the full positional truth of a game: the grid plus the side to
// move, castling rights, the en passant target and a pending promotion.
type Board struct {
	Squares   [8][8]Piece    `json:"board"`
	ToMove    Color          `json:"toMove"`
	Castling  CastlingRights `json:"castling"`
	EnPassant *Position      `json:"enPassantTarget"`
	Promotion *Position      `json:"promotionSquare"`
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewBoard returns the standard starting position with white to move.
func NewBoard() Board {
	var b Board
	for x := 0; x < 8; x++ {
		b.Squares[0][x] = NewPiece(Black, backRank[x])
		b.Squares[1][x] = NewPiece(Black, Pawn)
		b.Squares[6][x] = NewPiece(White, Pawn)
		b.Squares[7][x] = NewPiece(White, backRank[x])
	}
	b.ToMove = White
	b.Castling = CastlingRights{
		WhiteKingside:  true,
		WhiteQueenside: true,
		BlackKingside:  true,
		BlackQueenside: true,
	}
	return b
}

func (b *Board) Get(p Position) Piece {
	return b.Squares[p.Y][p.X]
}

func (b *Board) Set(p Position, piece Piece) {
	b.Squares[p.Y][p.X] = piece
}

// Clone returns a copy that shares no memory with b.
func (b *Board) Clone() Board {
	c := *b
	if b.EnPassant != nil {
		ep := *b.EnPassant
		c.EnPassant = &ep
	}
	if b.Promotion != nil {
		pr := *b.Promotion
		c.Promotion = &pr
	}
	return c
}

func (b *Board) findKing(c Color) (Position, bool) {
	king := NewPiece(c, King)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if b.Squares[y][x] == king {
				return Position{X: x, Y: y}, true
			}
		}
	}
	return Position{}, false
}

// String draws the board with rank 8 on top, using "--" for empty squares.
func (b *Board) String() string {
	s := ""
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x > 0 {
				s += " "
			}
			s += b.Squares[y][x].String()
		}
		s += "\n"
	}
	return s
}
