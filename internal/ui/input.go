package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/hailam/chessrules/internal/board"
)

// SnapRadius is the farthest a drop may land from the centre of its
// nearest square and still count as a move there.
const SnapRadius = SquareSize * 4.0 / 7.0

// nearestSquare returns the square whose centre is closest to (x, y),
// clamped to the board.
func nearestSquare(x, y float64, flipped bool) board.Square {
	col := min(max(int(math.Floor(x/SquareSize)), 0), board.Cols-1)
	row := min(max(int(math.Floor(y/SquareSize)), 0), board.Rows-1)
	if flipped {
		row, col = board.Rows-1-row, board.Cols-1-col
	}
	return board.NewSquare(row, col)
}

// SnapToSquare maps a drop point to the nearest square. The second result
// is false when the point lies farther than SnapRadius from that square's
// centre, in which case the drop is ignored and the piece goes back.
func SnapToSquare(x, y float64, flipped bool) (board.Square, bool) {
	sq := nearestSquare(x, y, flipped)
	cx, cy := squareCenter(sq, flipped)
	return sq, math.Hypot(x-cx, y-cy) <= SnapRadius
}

// InputHandler manages mouse and keyboard input.
type InputHandler struct {
	mouseX, mouseY   int // Logical coordinates (unscaled)
	leftPressed      bool
	leftJustPressed  bool
	leftJustReleased bool
}

// NewInputHandler creates a new input handler.
func NewInputHandler() *InputHandler {
	return &InputHandler{}
}

// Update updates the input state. Call this once per frame.
func (ih *InputHandler) Update() {
	rawX, rawY := ebiten.CursorPosition()

	// Convert to logical coordinates by dividing by scale
	scale := max(UIScale, 1.0)
	ih.mouseX = int(float64(rawX) / scale)
	ih.mouseY = int(float64(rawY) / scale)

	ih.leftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	ih.leftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	ih.leftPressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// MousePosition returns the current mouse position in logical coordinates.
func (ih *InputHandler) MousePosition() (int, int) {
	return ih.mouseX, ih.mouseY
}

// IsLeftJustPressed returns true if the left mouse button was just pressed.
func (ih *InputHandler) IsLeftJustPressed() bool {
	return ih.leftJustPressed
}

// IsLeftJustReleased returns true if the left mouse button was just released.
func (ih *InputHandler) IsLeftJustReleased() bool {
	return ih.leftJustReleased
}

// IsLeftPressed returns true if the left mouse button is currently pressed.
func (ih *InputHandler) IsLeftPressed() bool {
	return ih.leftPressed
}

// IsInBounds returns true if the mouse is within the given rectangle.
func (ih *InputHandler) IsInBounds(x, y, w, h int) bool {
	return ih.mouseX >= x && ih.mouseX < x+w && ih.mouseY >= y && ih.mouseY < y+h
}

// IsKeyJustPressed returns true if the specified key was just pressed.
func IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
