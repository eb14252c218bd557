package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benbeisheim/chess-backend/internal/model"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/fatih/color"
)

var (
	lightSquare = color.New(color.BgHiWhite)
	darkSquare  = color.New(color.BgGreen)
	highlight   = color.New(color.BgYellow)
	whitePiece  = color.New(color.FgHiWhite, color.Bold)
	blackPiece  = color.New(color.FgBlack, color.Bold)
)

const help = `commands:
  e2 e4        move (also e2e4)
  moves e2     show legal destinations
  promote q    choose q, r, b or n for a waiting pawn
  log          print the move log
  reset        start over
  quit`

func main() {
	game := model.NewGame(petname.Generate(2, "-"))
	fmt.Printf("game %s\n%s\n", game.ID, help)
	render(os.Stdout, game, nil)
	run(game, os.Stdin, os.Stdout)
}

func run(game *model.Game, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for prompt(out, game); scanner.Scan(); prompt(out, game) {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" {
			return
		}
		highlights, err := execute(game, fields, out)
		if err != nil {
			fmt.Fprintln(out, color.RedString(err.Error()))
			continue
		}
		render(out, game, highlights)
	}
}

func execute(game *model.Game, fields []string, out io.Writer) ([]model.Position, error) {
	switch fields[0] {
	case "moves":
		if len(fields) != 2 {
			return nil, fmt.Errorf("usage: moves <square>")
		}
		from, err := model.ParsePosition(fields[1])
		if err != nil {
			return nil, err
		}
		return append(game.LegalMoves(from), from), nil
	case "promote":
		if len(fields) != 2 {
			return nil, fmt.Errorf("usage: promote <q|r|b|n>")
		}
		kind, err := model.ParsePieceType(fields[1])
		if err != nil {
			return nil, err
		}
		return nil, game.Promote(kind)
	case "reset":
		game.Reset()
		return nil, nil
	case "log":
		printLog(out, game.MoveLog())
		return nil, nil
	}

	squares := fields
	if len(fields) == 1 && len(fields[0]) == 4 {
		squares = []string{fields[0][:2], fields[0][2:]}
	}
	if len(squares) != 2 {
		return nil, fmt.Errorf("unknown command %q", strings.Join(fields, " "))
	}
	from, err := model.ParsePosition(squares[0])
	if err != nil {
		return nil, err
	}
	to, err := model.ParsePosition(squares[1])
	if err != nil {
		return nil, err
	}
	return []model.Position{from, to}, game.MakeMove(from, to)
}

func prompt(out io.Writer, game *model.Game) {
	switch {
	case game.Result() != model.InProgress:
		fmt.Fprintf(out, "game over: %s (reset or quit) > ", game.Result())
	case game.PendingPromotion() != nil:
		fmt.Fprintf(out, "%s promotes on %s > ", game.ToMove(), game.PendingPromotion())
	default:
		fmt.Fprintf(out, "%s to move > ", game.ToMove())
	}
}

func render(out io.Writer, game *model.Game, highlights []model.Position) {
	board := game.Board()
	marked := make(map[model.Position]bool, len(highlights))
	for _, p := range highlights {
		marked[p] = true
	}

	for y := 0; y < 8; y++ {
		fmt.Fprintf(out, "%d ", 8-y)
		for x := 0; x < 8; x++ {
			pos := model.Position{X: x, Y: y}
			bg := lightSquare
			if (x+y)%2 == 1 {
				bg = darkSquare
			}
			if marked[pos] {
				bg = highlight
			}
			fmt.Fprint(out, bg.Sprint(pieceLabel(board.Get(pos))))
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, "   a  b  c  d  e  f  g  h")
}

func pieceLabel(p model.Piece) string {
	if p.IsEmpty() {
		return "   "
	}
	letter := p.Type.Letter()
	if p.Type == model.Pawn {
		letter = "P"
	}
	if p.Color == model.White {
		return " " + whitePiece.Sprint(letter) + " "
	}
	return " " + blackPiece.Sprint(strings.ToLower(letter)) + " "
}

func printLog(out io.Writer, entries []string) {
	for i := 0; i < len(entries); i += 2 {
		line := fmt.Sprintf("%d. %s", i/2+1, entries[i])
		if i+1 < len(entries) {
			line += " " + entries[i+1]
		}
		fmt.Fprintln(out, line)
	}
}
