package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chessrules/internal/board"
)

// Theme defines the color scheme for the board.
type Theme struct {
	LightSquare    color.RGBA
	DarkSquare     color.RGBA
	SelectedSquare color.RGBA
	LegalMoveColor color.RGBA
	LastMoveColor  color.RGBA
	CheckColor     color.RGBA
	ShadowColor    color.RGBA
	Background     color.RGBA
	CoordLight     color.RGBA
	CoordDark      color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		LightSquare:    color.RGBA{240, 217, 181, 255}, // Tan
		DarkSquare:     color.RGBA{181, 136, 99, 255},  // Brown
		SelectedSquare: color.RGBA{247, 247, 105, 180}, // Yellow highlight
		LegalMoveColor: color.RGBA{130, 151, 105, 200}, // Green dots
		LastMoveColor:  color.RGBA{180, 190, 100, 90},
		CheckColor:     color.RGBA{220, 30, 30, 255},
		ShadowColor:    color.RGBA{0, 0, 0, 70},
		Background:     color.RGBA{40, 44, 52, 255},
		CoordLight:     color.RGBA{181, 136, 99, 255},
		CoordDark:      color.RGBA{240, 217, 181, 255},
	}
}

// Drawing constants relative to the square size.
const (
	legalDotRatio  = 0.12
	checkOutline   = 3
	liftScale      = 1.15
	shadowOffsetX  = 6
	shadowOffsetY  = 10
	shadowRadRatio = 0.32
)

// squareOrigin returns the top-left corner of sq in logical pixels.
// When flipped, Black's back rank is drawn at the bottom.
func squareOrigin(sq board.Square, flipped bool) (int, int) {
	row, col := sq.Row, sq.Col
	if flipped {
		row, col = board.Rows-1-row, board.Cols-1-col
	}
	return col * SquareSize, row * SquareSize
}

// squareCenter returns the centre of sq in logical pixels.
func squareCenter(sq board.Square, flipped bool) (float64, float64) {
	x, y := squareOrigin(sq, flipped)
	return float64(x) + SquareSize/2.0, float64(y) + SquareSize/2.0
}

// screenToSquare converts logical coordinates to the square under them.
func screenToSquare(x, y int, flipped bool) (board.Square, bool) {
	if x < 0 || x >= BoardSize || y < 0 || y >= BoardSize {
		return board.OffBoard, false
	}
	row, col := y/SquareSize, x/SquareSize
	if flipped {
		row, col = board.Rows-1-row, board.Cols-1-col
	}
	return board.NewSquare(row, col), true
}

// Renderer handles all drawing operations.
type Renderer struct {
	sprites *SpriteManager
	theme   *Theme
	flipped bool
	scale   float64 // HiDPI scale factor
}

// NewRenderer creates a new renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		sprites: NewSpriteManager(SquareSize),
		theme:   DefaultTheme(),
		scale:   1.0,
	}
}

// SetScale sets the HiDPI scale factor for rendering.
func (r *Renderer) SetScale(scale float64) {
	r.scale = scale
}

// SetFlipped sets whether the board is drawn from Black's side.
func (r *Renderer) SetFlipped(flipped bool) {
	r.flipped = flipped
}

// Flipped returns whether the board is drawn from Black's side.
func (r *Renderer) Flipped() bool {
	return r.flipped
}

// s returns the scaled value for rendering.
func (r *Renderer) s(v int) float32 {
	return float32(float64(v) * r.scale)
}

func (r *Renderer) sf(v float64) float32 {
	return float32(v * r.scale)
}

// DrawBoard draws the squares and the file/rank labels.
func (r *Renderer) DrawBoard(screen *ebiten.Image) {
	for row := 0; row < board.Rows; row++ {
		for col := 0; col < board.Cols; col++ {
			sq := board.NewSquare(row, col)
			x, y := squareOrigin(sq, r.flipped)

			c := r.theme.LightSquare
			if (row+col)%2 == 1 {
				c = r.theme.DarkSquare
			}
			vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(SquareSize), r.s(SquareSize), c, false)
		}
	}
	r.drawCoordinates(screen)
}

// drawCoordinates labels the bottom row with files and the left column with ranks.
func (r *Renderer) drawCoordinates(screen *ebiten.Image) {
	face := GetFaceWithSize(11 * r.scale)
	if face == nil {
		return
	}
	for i := 0; i < 8; i++ {
		// Files along the bottom edge.
		fileSq, _ := screenToSquare(i*SquareSize, BoardSize-1, r.flipped)
		r.drawLabel(screen, face, string(rune('a'+fileSq.Col)), fileSq,
			float64(i*SquareSize+SquareSize-10), float64(BoardSize-16))

		// Ranks along the left edge.
		rankSq, _ := screenToSquare(0, i*SquareSize, r.flipped)
		r.drawLabel(screen, face, string(rune('0'+rankSq.Rank())), rankSq,
			3, float64(i*SquareSize+2))
	}
}

func (r *Renderer) drawLabel(screen *ebiten.Image, face *text.GoTextFace, label string, sq board.Square, x, y float64) {
	c := r.theme.CoordLight
	if (sq.Row+sq.Col)%2 == 1 {
		c = r.theme.CoordDark
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(r.sf(x)), float64(r.sf(y)))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, label, face, op)
}

// DrawHighlights draws the last move, the selection and legal move dots.
func (r *Renderer) DrawHighlights(screen *ebiten.Image, selected board.Square, destinations []board.Square, last *board.MoveRecord) {
	if last != nil {
		r.highlightSquare(screen, last.From, r.theme.LastMoveColor)
		r.highlightSquare(screen, last.To, r.theme.LastMoveColor)
	}
	if selected.IsValid() {
		r.highlightSquare(screen, selected, r.theme.SelectedSquare)
	}
	for _, sq := range destinations {
		r.drawLegalMoveIndicator(screen, sq)
	}
}

// DrawCheck outlines the square of a king in check.
func (r *Renderer) DrawCheck(screen *ebiten.Image, kingSq board.Square) {
	if !kingSq.IsValid() {
		return
	}
	x, y := squareOrigin(kingSq, r.flipped)
	inset := float32(checkOutline) / 2
	vector.StrokeRect(screen, r.s(x)+inset, r.s(y)+inset,
		r.s(SquareSize)-2*inset, r.s(SquareSize)-2*inset,
		r.sf(checkOutline), r.theme.CheckColor, false)
}

// highlightSquare draws a colored overlay on a square.
func (r *Renderer) highlightSquare(screen *ebiten.Image, sq board.Square, c color.RGBA) {
	if !sq.IsValid() {
		return
	}
	x, y := squareOrigin(sq, r.flipped)
	vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(SquareSize), r.s(SquareSize), c, false)
}

// drawLegalMoveIndicator draws a dot in the middle of a destination square.
func (r *Renderer) drawLegalMoveIndicator(screen *ebiten.Image, sq board.Square) {
	cx, cy := squareCenter(sq, r.flipped)
	radius := r.s(SquareSize) * legalDotRatio
	vector.DrawFilledCircle(screen, r.sf(cx), r.sf(cy), radius, r.theme.LegalMoveColor, false)
}

// DrawPieces draws every living piece except the one being dragged.
// Pieces that are fading out after a capture are drawn by the animation
// manager, not here.
func (r *Renderer) DrawPieces(screen *ebiten.Image, b *board.Board, dragIdx int, anims *AnimationManager) {
	for idx, p := range b.Pieces() {
		if !p.Alive || idx == dragIdx {
			continue
		}

		x, y := squareOrigin(p.Square, r.flipped)
		var dx float64
		if anims != nil {
			dx, _ = anims.GetShakeOffset(p.Square)
		}
		r.sprites.DrawPiece(screen, p.Type, p.Color, r.sf(float64(x)+dx), r.sf(float64(y)), r.scale, 1)
	}
}

// DrawDraggedPiece draws the lifted piece and its shadow at the given
// top-left position in logical coordinates.
func (r *Renderer) DrawDraggedPiece(screen *ebiten.Image, p board.Piece, x, y float64) {
	half := SquareSize / 2.0
	vector.DrawFilledCircle(screen, r.sf(x+half+shadowOffsetX), r.sf(y+half+shadowOffsetY),
		r.s(SquareSize)*shadowRadRatio, r.theme.ShadowColor, false)

	// Grow around the centre of the square.
	grow := (liftScale - 1) * half
	r.sprites.DrawPiece(screen, p.Type, p.Color, r.sf(x-grow), r.sf(y-grow), r.scale*liftScale, 1)
}

// Theme returns the current theme.
func (r *Renderer) Theme() *Theme {
	return r.theme
}

// Sprites returns the sprite manager.
func (r *Renderer) Sprites() *SpriteManager {
	return r.sprites
}
