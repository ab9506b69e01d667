// Package console implements a line-oriented text front end for the rules
// engine. Commands are read one per line; output is coloured with
// fatih/color unless color.NoColor is set.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/fatih/color"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/storage"
)

var (
	whitePiece = color.New(color.FgHiWhite, color.Bold)
	blackPiece = color.New(color.FgHiBlue, color.Bold)
	emptyCell  = color.New(color.FgHiBlack)
	marked     = color.New(color.FgGreen, color.Bold)
	errorText  = color.New(color.FgRed)
	statusText = color.New(color.FgYellow)
	okText     = color.New(color.FgGreen)
)

// Console runs the command loop over one game at a time.
type Console struct {
	game  *board.Game
	store *storage.Storage // optional
	out   io.Writer

	// recorded is set once the current game's result is in the stats.
	recorded bool
}

// New creates a console writing to out. store may be nil, in which case
// save, load, games and result recording are unavailable.
func New(out io.Writer, store *storage.Storage) *Console {
	return &Console{
		game:  board.NewGame(),
		store: store,
		out:   out,
	}
}

// Game returns the game currently being played.
func (c *Console) Game() *board.Game {
	return c.game
}

// SetGame replaces the current game.
func (c *Console) SetGame(g *board.Game) {
	c.game = g
	c.recorded = false
}

// Run reads commands from in until EOF or "quit".
func (c *Console) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	c.printBoard(nil)
	c.printStatus()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !c.Execute(line) {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs a single command line. It returns false when the console
// should stop.
func (c *Console) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "quit", "exit":
		return false
	case "help":
		c.handleHelp()
	case "new":
		c.SetGame(board.NewGame())
		c.printBoard(nil)
		c.printStatus()
	case "fen":
		c.handleFEN(args)
	case "show", "d":
		c.printBoard(nil)
	case "moves":
		c.handleMoves(args)
	case "move":
		if len(args) != 1 {
			c.errorf("usage: move <from><to>")
			break
		}
		c.handleMove(args[0])
	case "status":
		c.printStatus()
	case "history":
		c.handleHistory()
	case "save":
		c.handleSave(args)
	case "load":
		c.handleLoad(args)
	case "games":
		c.handleGames()
	case "stats":
		c.handleStats()
	default:
		// A bare coordinate move such as "e2e4".
		if _, _, err := board.ParseMove(cmd); err == nil {
			c.handleMove(cmd)
			break
		}
		c.errorf("unknown command %q (try \"help\")", cmd)
	}
	return true
}

func (c *Console) handleHelp() {
	fmt.Fprintln(c.out, "Commands:")
	fmt.Fprintln(c.out, "  new                 start a new game")
	fmt.Fprintln(c.out, "  fen [<fen>]         print the position, or start from a FEN")
	fmt.Fprintln(c.out, "  show                draw the board")
	fmt.Fprintln(c.out, "  moves <square>      list destinations of the piece on square")
	fmt.Fprintln(c.out, "  move <e2e4>         play a move (the word move is optional)")
	fmt.Fprintln(c.out, "  status              side to move, check and checkmate")
	fmt.Fprintln(c.out, "  history             list the moves played")
	fmt.Fprintln(c.out, "  save <id>           store the game")
	fmt.Fprintln(c.out, "  load <id>           restore a stored game")
	fmt.Fprintln(c.out, "  games               list stored games")
	fmt.Fprintln(c.out, "  stats               results of finished games")
	fmt.Fprintln(c.out, "  quit                leave")
}

// handleFEN prints the current FEN or, with arguments, starts a game from one.
func (c *Console) handleFEN(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, c.game.FEN())
		return
	}

	g, err := board.NewGameFromFEN(strings.Join(args, " "))
	if err != nil {
		c.errorf("%v", err)
		return
	}
	c.SetGame(g)
	c.printBoard(nil)
	c.printStatus()
}

func (c *Console) handleMoves(args []string) {
	if len(args) != 1 {
		c.errorf("usage: moves <square>")
		return
	}
	sq, err := board.ParseSquare(args[0])
	if err != nil {
		c.errorf("%v", err)
		return
	}
	idx, ok := c.game.Board().Occupant(sq)
	if !ok {
		c.errorf("%v: %v", board.ErrEmptySquare, sq)
		return
	}

	dests := c.game.SafeDestinations(idx)
	marks := make(map[board.Square]bool, len(dests))
	names := make([]string, len(dests))
	for i, d := range dests {
		marks[d] = true
		names[i] = d.String()
	}

	c.printBoard(marks)
	if len(names) == 0 {
		fmt.Fprintf(c.out, "%v: no moves\n", sq)
		return
	}
	fmt.Fprintf(c.out, "%v: %s\n", sq, strings.Join(names, " "))
}

func (c *Console) handleMove(s string) {
	from, to, err := board.ParseMove(s)
	if err != nil {
		c.errorf("%v", err)
		return
	}

	rec, err := c.game.Move(from, to)
	if err != nil {
		switch {
		case errors.Is(err, board.ErrSelfCheckMove):
			c.errorf("%s leaves the king in check", s)
		case errors.Is(err, board.ErrWrongTurn):
			c.errorf("%v to move", c.game.Turn())
		default:
			c.errorf("%v", err)
		}
		return
	}

	note := ""
	switch {
	case rec.Castle:
		note = " (castles)"
	case rec.IsCapture():
		captured, _ := c.game.Board().Piece(rec.Captured)
		note = fmt.Sprintf(" (takes %s)", strings.ToLower(captured.Type.String()))
	}
	okText.Fprintf(c.out, "%s%s\n", rec, note)

	c.printBoard(nil)
	c.printStatus()
	c.recordResult()
}

func (c *Console) handleHistory() {
	moves := c.game.Moves()
	if len(moves) == 0 {
		fmt.Fprintln(c.out, "no moves")
		return
	}
	var sb strings.Builder
	for i := 0; i < len(moves); i += 2 {
		fmt.Fprintf(&sb, "%d. %s", i/2+1, moves[i])
		if i+1 < len(moves) {
			fmt.Fprintf(&sb, " %s", moves[i+1])
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(c.out, sb.String())
}

func (c *Console) handleSave(args []string) {
	if c.store == nil {
		c.errorf("no storage configured")
		return
	}
	if len(args) != 1 {
		c.errorf("usage: save <id>")
		return
	}
	if err := c.store.SaveGame(storage.NewSavedGame(args[0], c.game)); err != nil {
		c.errorf("save failed: %v", err)
		return
	}
	okText.Fprintf(c.out, "saved %s\n", args[0])
}

func (c *Console) handleLoad(args []string) {
	if c.store == nil {
		c.errorf("no storage configured")
		return
	}
	if len(args) != 1 {
		c.errorf("usage: load <id>")
		return
	}
	sg, err := c.store.LoadGame(args[0])
	if err != nil {
		c.errorf("%v", err)
		return
	}
	g, err := sg.Replay()
	if err != nil {
		c.errorf("replay %s: %v", sg.ID, err)
		return
	}
	c.SetGame(g)
	// A finished game was counted when it ended.
	c.recorded = sg.Finished
	c.printBoard(nil)
	c.printStatus()
}

func (c *Console) handleGames() {
	if c.store == nil {
		c.errorf("no storage configured")
		return
	}
	games, err := c.store.ListGames()
	if err != nil {
		c.errorf("%v", err)
		return
	}
	if len(games) == 0 {
		fmt.Fprintln(c.out, "no saved games")
		return
	}
	for _, sg := range games {
		state := "in progress"
		if sg.Finished {
			state = sg.Winner.String() + " won"
		}
		fmt.Fprintf(c.out, "%-24s %3d moves  %s\n", sg.ID, len(sg.Moves), state)
	}
}

func (c *Console) handleStats() {
	if c.store == nil {
		c.errorf("no storage configured")
		return
	}
	stats, err := c.store.LoadStats()
	if err != nil {
		c.errorf("%v", err)
		return
	}
	fmt.Fprintf(c.out, "games %d  white %d (%.0f%%)  black %d (%.0f%%)  checkmates %d\n",
		stats.GamesPlayed,
		stats.WhiteWins, stats.WinRate(board.White),
		stats.BlackWins, stats.WinRate(board.Black),
		stats.Checkmates)
}

// recordResult adds a just-finished game to the stats once.
func (c *Console) recordResult() {
	if c.store == nil || c.recorded {
		return
	}
	status := c.game.Status()
	if !status.GameOver() {
		return
	}
	c.recorded = true
	err := c.store.RecordGame(storage.GameResult{
		Winner:    status.Winner,
		Checkmate: true,
		Moves:     len(c.game.History()),
	})
	if err != nil {
		log.Printf("Warning: failed to record result: %v", err)
	}
}

func (c *Console) printStatus() {
	statusText.Fprintln(c.out, c.game.Status().Summary())
}

// printBoard draws the board with rank 8 at the top. Squares in marks are
// highlighted.
func (c *Console) printBoard(marks map[board.Square]bool) {
	b := c.game.Board()
	var sb strings.Builder
	for row := 0; row < board.Rows; row++ {
		fmt.Fprintf(&sb, "%d  ", board.Rows-row)
		for col := 0; col < board.Cols; col++ {
			sq := board.NewSquare(row, col)
			p, ok := b.PieceAt(sq)
			switch {
			case marks[sq] && ok:
				sb.WriteString(marked.Sprint(string(p.Char())))
			case marks[sq]:
				sb.WriteString(marked.Sprint("*"))
			case !ok:
				sb.WriteString(emptyCell.Sprint("."))
			case p.Color == board.White:
				sb.WriteString(whitePiece.Sprint(string(p.Char())))
			default:
				sb.WriteString(blackPiece.Sprint(string(p.Char())))
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n")
	fmt.Fprint(c.out, sb.String())
}

func (c *Console) errorf(format string, args ...any) {
	errorText.Fprintf(c.out, "error: "+format+"\n", args...)
}
