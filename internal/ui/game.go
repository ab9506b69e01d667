package ui

import (
	"errors"
	"log"
	"slices"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/storage"
)

// UI Constants
const (
	ScreenWidth  = 960
	ScreenHeight = 640 // Match board height to eliminate unused space
	BoardSize    = 640
	SquareSize   = BoardSize / 8
	PanelWidth   = ScreenWidth - BoardSize
)

var errNoStorage = errors.New("no storage available")

// UIScale is the global HiDPI scale factor for all UI drawing.
// Set by Game.Layout() and used by widgets and modals.
var UIScale float64 = 1.0

func scaleF(v int) float32 {
	return float32(float64(v) * UIScale)
}

func scaleD(v int) float64 {
	return float64(v) * UIScale
}

// Game implements ebiten.Game on top of a rules game.
type Game struct {
	game      *board.Game
	gameID    string
	status    board.Status
	startedAt time.Time
	recorded  bool

	// Selection and drag state. selected is a piece index or board.NoPiece.
	selected     int
	destinations []board.Square
	dragging     bool
	dragOffX     float64 // cursor minus piece origin
	dragOffY     float64

	// Storage
	storage *storage.Storage
	prefs   *storage.UserPreferences

	// Components
	renderer      *Renderer
	input         *InputHandler
	panel         *Panel
	feedback      *FeedbackManager
	settingsModal *SettingsModal

	// HiDPI scaling
	scale float64
}

// NewGame creates the desktop client. An empty fen starts from the
// standard position. store may be nil, in which case nothing is persisted.
func NewGame(fen string, store *storage.Storage) (*Game, error) {
	g := &Game{
		selected: board.NoPiece,
		storage:  store,
		renderer: NewRenderer(),
		input:    NewInputHandler(),
		scale:    1.0,
	}
	if err := g.reset(fen); err != nil {
		return nil, err
	}

	g.loadPreferences()
	g.feedback = NewFeedbackManager()
	g.feedback.Audio().SetEnabled(g.prefs.SoundEnabled)
	g.panel = NewPanel(g)
	g.settingsModal = NewSettingsModal()

	g.checkFirstLaunch()
	return g, nil
}

// reset starts a fresh game from fen.
func (g *Game) reset(fen string) error {
	ng := board.NewGame()
	if fen != "" {
		var err error
		if ng, err = board.NewGameFromFEN(fen); err != nil {
			return err
		}
	}
	g.game = ng
	g.gameID = petname.Generate(2, "-")
	g.status = ng.Status()
	g.startedAt = time.Now()
	g.recorded = false
	g.clearSelection()
	if g.feedback != nil {
		g.feedback.Animations().Clear()
	}
	return nil
}

// loadPreferences loads user preferences from storage.
func (g *Game) loadPreferences() {
	g.prefs = storage.DefaultPreferences()
	if g.storage == nil {
		return
	}

	prefs, err := g.storage.LoadPreferences()
	if err != nil {
		log.Printf("Warning: Failed to load preferences: %v", err)
	} else {
		g.prefs = prefs
	}
	g.renderer.SetFlipped(g.prefs.Flipped)
}

// savePreferences saves current preferences to storage.
func (g *Game) savePreferences() {
	if g.storage == nil {
		return
	}
	g.prefs.Flipped = g.renderer.Flipped()
	g.prefs.SoundEnabled = g.feedback.Audio().IsEnabled()
	g.prefs.LastPlayed = time.Now()
	if err := g.storage.SavePreferences(g.prefs); err != nil {
		log.Printf("Warning: Failed to save preferences: %v", err)
	}
}

// checkFirstLaunch greets new players once.
func (g *Game) checkFirstLaunch() {
	if g.storage == nil {
		return
	}
	isFirst, err := g.storage.IsFirstLaunch()
	if err != nil {
		log.Printf("Warning: Failed to check first launch: %v", err)
		return
	}
	if !isFirst {
		return
	}
	g.feedback.Toast("Drag a piece to move it. N: new game, F: flip", ToastInfo)
	if err := g.storage.MarkFirstLaunchComplete(); err != nil {
		log.Printf("Warning: Failed to mark first launch complete: %v", err)
	}
}

// Update handles game logic updates.
func (g *Game) Update() error {
	g.input.Update()
	g.feedback.Update()

	if g.settingsModal.IsVisible() {
		g.settingsModal.Update(g.input)
		g.updateCursor()
		return nil
	}

	if g.panel.HandleInput(g.input) {
		g.updateCursor()
		return nil
	}

	g.handleKeys()
	g.handleBoardInput()
	g.updateCursor()
	return nil
}

// handleKeys processes keyboard shortcuts.
func (g *Game) handleKeys() {
	switch {
	case IsKeyJustPressed(ebiten.KeyN):
		g.NewGameAction()
	case IsKeyJustPressed(ebiten.KeyF):
		g.FlipAction()
	case IsKeyJustPressed(ebiten.KeyS):
		g.SaveAction()
	case IsKeyJustPressed(ebiten.KeyEscape):
		g.clearSelection()
	}
}

// updateCursor sets the cursor shape based on what's being hovered.
func (g *Game) updateCursor() {
	var hovered bool
	switch {
	case g.settingsModal.IsVisible():
		hovered = g.settingsModal.AnyButtonHovered()
	case g.dragging:
		hovered = true
	default:
		hovered = g.panel.AnyButtonHovered() || g.hoveringMovable()
	}

	if hovered {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

// hoveringMovable reports whether the cursor is over a piece of the side to move.
func (g *Game) hoveringMovable() bool {
	if g.status.GameOver() {
		return false
	}
	mx, my := g.input.MousePosition()
	sq, ok := screenToSquare(mx, my, g.renderer.Flipped())
	if !ok {
		return false
	}
	p, ok := g.game.Board().PieceAt(sq)
	return ok && p.Color == g.game.Turn()
}

// Draw renders the game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetScale(g.scale)
	screen.Fill(g.renderer.Theme().Background)

	g.renderer.DrawBoard(screen)

	var last *board.MoveRecord
	if rec, ok := g.game.LastMove(); ok {
		last = &rec
	}
	selectedSq := board.OffBoard
	if p, err := g.game.Board().Piece(g.selected); err == nil {
		selectedSq = p.Square
	}
	var dots []board.Square
	if g.prefs.ShowLegalMoves {
		dots = g.destinations
	}
	g.renderer.DrawHighlights(screen, selectedSq, dots, last)

	for _, sq := range g.checkedKings() {
		g.renderer.DrawCheck(screen, sq)
	}

	anims := g.feedback.Animations()
	dragIdx := board.NoPiece
	if g.dragging {
		dragIdx = g.selected
	}
	g.renderer.DrawPieces(screen, g.game.Board(), dragIdx, anims)
	anims.DrawCaptures(screen, g.renderer)

	if g.dragging {
		if p, err := g.game.Board().Piece(g.selected); err == nil {
			mx, my := g.input.MousePosition()
			g.renderer.DrawDraggedPiece(screen, p, float64(mx)-g.dragOffX, float64(my)-g.dragOffY)
		}
	}

	g.feedback.Draw(screen, g.renderer)
	g.panel.Draw(screen)
	g.settingsModal.Draw(screen)
}

// checkedKings returns the squares of kings currently in check.
func (g *Game) checkedKings() []board.Square {
	var out []board.Square
	for c, inCheck := range map[board.Color]bool{board.White: g.status.WhiteInCheck, board.Black: g.status.BlackInCheck} {
		if !inCheck {
			continue
		}
		if idx, ok := g.game.Board().KingIndex(c); ok {
			if p, err := g.game.Board().Piece(idx); err == nil {
				out = append(out, p.Square)
			}
		}
	}
	return out
}

// Layout returns the game's screen dimensions.
// Uses device scale factor for crisp rendering on HiDPI displays.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scale = max(ebiten.Monitor().DeviceScaleFactor(), 1.0)
	UIScale = g.scale

	if g.panel != nil && g.panel.Collapsed() {
		return int(float64(BoardSize+CollapsedWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
	}
	return int(float64(ScreenWidth) * g.scale), int(float64(ScreenHeight) * g.scale)
}

// handleBoardInput processes mouse interactions with the board.
func (g *Game) handleBoardInput() {
	if g.status.GameOver() {
		return
	}
	mx, my := g.input.MousePosition()

	if g.input.IsLeftJustPressed() {
		g.handlePress(mx, my)
		return
	}
	if g.dragging && g.input.IsLeftJustReleased() {
		g.handleDrop(float64(mx)-g.dragOffX+SquareSize/2.0, float64(my)-g.dragOffY+SquareSize/2.0)
	}
}

// handlePress selects and lifts a piece of the side to move, or plays the
// selected piece to the clicked square.
func (g *Game) handlePress(mx, my int) {
	sq, ok := screenToSquare(mx, my, g.renderer.Flipped())
	if !ok {
		return
	}
	b := g.game.Board()

	if idx, ok := b.Occupant(sq); ok {
		p, _ := b.Piece(idx)
		if p.Color == g.game.Turn() {
			g.selected = idx
			g.destinations = g.game.LegalDestinations(idx)
			g.dragging = true
			x, y := squareOrigin(sq, g.renderer.Flipped())
			g.dragOffX = float64(mx - x)
			g.dragOffY = float64(my - y)
			return
		}
		if g.selected == board.NoPiece {
			g.feedback.OnInvalidMove(sq, board.OffBoard, ReasonNotYourTurn)
			return
		}
	}

	if g.selected != board.NoPiece && slices.Contains(g.destinations, sq) {
		g.tryMove(sq)
		return
	}
	g.clearSelection()
}

// handleDrop resolves a released drag. (cx, cy) is the centre of the
// dragged sprite in logical pixels.
func (g *Game) handleDrop(cx, cy float64) {
	g.dragging = false

	p, err := g.game.Board().Piece(g.selected)
	if err != nil {
		g.clearSelection()
		return
	}
	to, ok := SnapToSquare(cx, cy, g.renderer.Flipped())
	if !ok || to == p.Square {
		// Outside the acceptance radius or back home: the piece returns and
		// stays selected for click-to-move.
		return
	}
	g.tryMove(to)
}

// tryMove attempts to play the selected piece to to and reports the outcome.
func (g *Game) tryMove(to board.Square) {
	idx := g.selected
	p, err := g.game.Board().Piece(idx)
	if err != nil {
		g.clearSelection()
		return
	}
	from := p.Square

	var captured *board.Piece
	if victim, ok := g.game.Board().PieceAt(to); ok && victim.Color != p.Color {
		captured = &victim
	}

	outcome := g.game.AttemptMove(idx, to)
	g.clearSelection()
	if outcome != board.Applied {
		g.feedback.OnInvalidMove(from, to, reasonFor(outcome))
		return
	}

	rec, _ := g.game.LastMove()
	g.status = g.game.Status()
	g.feedback.OnMoveMade(rec, captured)
	g.checkGameEnd()
	g.panel.ScrollToEnd()
}

// checkGameEnd reports check and checkmate after a move.
func (g *Game) checkGameEnd() {
	switch {
	case g.status.GameOver():
		g.feedback.OnCheckmate(g.status.Summary())
		g.recordResult()
		g.persist()
	case g.status.WhiteInCheck:
		g.feedback.OnCheck(board.White)
	case g.status.BlackInCheck:
		g.feedback.OnCheck(board.Black)
	}
}

// recordResult adds a checkmated game to the statistics once.
func (g *Game) recordResult() {
	if g.storage == nil || g.recorded {
		return
	}
	g.recorded = true
	err := g.storage.RecordGame(storage.GameResult{
		Winner:    g.status.Winner,
		Checkmate: true,
		Moves:     len(g.game.Moves()),
		Duration:  time.Since(g.startedAt),
	})
	if err != nil {
		log.Printf("Warning: Failed to record game: %v", err)
	}
}

// persist stores the current game under its id.
func (g *Game) persist() error {
	if g.storage == nil {
		return errNoStorage
	}
	if err := g.storage.SaveGame(storage.NewSavedGame(g.gameID, g.game)); err != nil {
		log.Printf("Warning: Failed to save game %s: %v", g.gameID, err)
		return err
	}
	return nil
}

// clearSelection drops the selection and any drag in progress.
func (g *Game) clearSelection() {
	g.selected = board.NoPiece
	g.destinations = nil
	g.dragging = false
}

// NewGameAction resets the game to the starting position.
func (g *Game) NewGameAction() {
	if err := g.reset(""); err != nil {
		log.Printf("Warning: Failed to start new game: %v", err)
	}
	g.panel.ScrollToEnd()
}

// FlipAction turns the board around.
func (g *Game) FlipAction() {
	g.renderer.SetFlipped(!g.renderer.Flipped())
	g.savePreferences()
}

// SaveAction stores the current game.
func (g *Game) SaveAction() {
	if len(g.game.Moves()) == 0 {
		g.feedback.Toast("Nothing to save yet", ToastInfo)
		return
	}
	if err := g.persist(); err != nil {
		g.feedback.Toast("Save failed: "+err.Error(), ToastError)
		return
	}
	g.feedback.Toast("Saved as "+g.gameID, ToastSuccess)
}

// ShowSettings opens the settings modal.
func (g *Game) ShowSettings() {
	current := *g.prefs
	current.Flipped = g.renderer.Flipped()
	current.SoundEnabled = g.feedback.Audio().IsEnabled()

	g.settingsModal.Show(&current, func(prefs *storage.UserPreferences) {
		g.prefs.Username = prefs.Username
		g.prefs.ShowLegalMoves = prefs.ShowLegalMoves
		g.feedback.Audio().SetEnabled(prefs.SoundEnabled)
		g.renderer.SetFlipped(prefs.Flipped)
		g.savePreferences()
	}, nil)
}

// Moves returns the applied moves in coordinate notation.
func (g *Game) Moves() []string {
	return g.game.Moves()
}

// Status returns the current check and checkmate flags.
func (g *Game) Status() board.Status {
	return g.status
}

// Username returns the current username.
func (g *Game) Username() string {
	return g.prefs.Username
}

// GameID returns the id the current game is saved under.
func (g *Game) GameID() string {
	return g.gameID
}

// Close saves preferences and any unfinished game with moves.
func (g *Game) Close() {
	g.savePreferences()
	if g.storage != nil && !g.status.GameOver() && len(g.game.Moves()) > 0 {
		g.persist()
	}
}
