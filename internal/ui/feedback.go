package ui

import (
	"image/color"
	"math"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chessrules/internal/board"
)

// CaptureFadeDuration is how long a captured piece takes to shrink and fade.
const CaptureFadeDuration = 300 * time.Millisecond

// InvalidMoveReason represents why a move was rejected.
type InvalidMoveReason int

const (
	ReasonIllegal InvalidMoveReason = iota
	ReasonWouldLeaveKingInCheck
	ReasonNotYourTurn
)

// reasonFor maps a rejected outcome to the reason shown to the player.
func reasonFor(o board.Outcome) InvalidMoveReason {
	if o == board.RejectedSelfCheck {
		return ReasonWouldLeaveKingInCheck
	}
	return ReasonIllegal
}

// ToastType represents the type of toast notification.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastWarning
	ToastError
	ToastSuccess
)

// Toast represents a notification message.
type Toast struct {
	Message   string
	Type      ToastType
	StartTime time.Time
	Duration  time.Duration
}

// ToastManager manages toast notifications.
type ToastManager struct {
	toasts   []*Toast
	maxStack int
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{maxStack: 3}
}

// Show displays a new toast notification.
func (tm *ToastManager) Show(message string, toastType ToastType, duration time.Duration) {
	tm.toasts = append(tm.toasts, &Toast{
		Message:   message,
		Type:      toastType,
		StartTime: time.Now(),
		Duration:  duration,
	})
	if len(tm.toasts) > tm.maxStack {
		tm.toasts = tm.toasts[1:]
	}
}

// Update removes expired toasts.
func (tm *ToastManager) Update(now time.Time) {
	tm.toasts = slices.DeleteFunc(tm.toasts, func(t *Toast) bool {
		return now.Sub(t.StartTime) >= t.Duration
	})
}

// Draw renders all active toasts centred over the board.
func (tm *ToastManager) Draw(screen *ebiten.Image) {
	face := GetRegularFace()
	if face == nil {
		return
	}

	y := 50.0
	for _, t := range tm.toasts {
		elapsed := time.Since(t.StartTime).Seconds()
		duration := t.Duration.Seconds()

		// Fade in/out
		alpha := 1.0
		fadeTime := 0.2
		if elapsed < fadeTime {
			alpha = elapsed / fadeTime
		} else if elapsed > duration-fadeTime {
			alpha = (duration - elapsed) / fadeTime
		}
		alpha = min(max(alpha, 0), 1)

		var bgColor color.RGBA
		textColor := color.RGBA{255, 255, 255, uint8(255 * alpha)}
		switch t.Type {
		case ToastWarning:
			bgColor = color.RGBA{180, 140, 20, uint8(220 * alpha)}
			textColor = color.RGBA{40, 30, 0, uint8(255 * alpha)}
		case ToastError:
			bgColor = color.RGBA{180, 50, 50, uint8(220 * alpha)}
		case ToastSuccess:
			bgColor = color.RGBA{50, 150, 50, uint8(220 * alpha)}
		default:
			bgColor = color.RGBA{50, 100, 150, uint8(220 * alpha)}
		}

		w, h := MeasureText(t.Message, face)
		padding := 12.0
		boxW := w + padding*2
		boxH := h + padding*2
		x := float64(BoardSize)/2*UIScale - boxW/2
		sy := y * UIScale

		vector.DrawFilledRect(screen, float32(x), float32(sy), float32(boxW), float32(boxH), bgColor, false)

		op := &text.DrawOptions{}
		op.GeoM.Translate(x+padding, sy+padding)
		op.ColorScale.ScaleWithColor(textColor)
		text.Draw(screen, t.Message, face, op)

		y += boxH/UIScale + 8
	}
}

// ShakeAnimation represents a piece shake effect.
type ShakeAnimation struct {
	Square    board.Square
	StartTime time.Time
	Duration  time.Duration
	Intensity float64
}

// FlashAnimation represents a square flash effect.
type FlashAnimation struct {
	Square    board.Square
	StartTime time.Time
	Duration  time.Duration
	Color     color.RGBA
}

// CaptureFade shrinks and fades a captured piece on the square it was
// taken on.
type CaptureFade struct {
	Piece     board.Piece
	Square    board.Square
	StartTime time.Time
}

// progress returns how far the fade has run, in [0,1].
func (cf *CaptureFade) progress(now time.Time) float64 {
	return min(now.Sub(cf.StartTime).Seconds()/CaptureFadeDuration.Seconds(), 1)
}

// AnimationManager manages visual animations.
type AnimationManager struct {
	shakes   []*ShakeAnimation
	flashes  []*FlashAnimation
	captures []*CaptureFade
}

// NewAnimationManager creates a new animation manager.
func NewAnimationManager() *AnimationManager {
	return &AnimationManager{}
}

// StartShake begins a shake animation on a square.
func (am *AnimationManager) StartShake(sq board.Square) {
	am.shakes = append(am.shakes, &ShakeAnimation{
		Square:    sq,
		StartTime: time.Now(),
		Duration:  300 * time.Millisecond,
		Intensity: 8.0,
	})
}

// StartFlash begins a flash animation on a square.
func (am *AnimationManager) StartFlash(sq board.Square, c color.RGBA) {
	am.flashes = append(am.flashes, &FlashAnimation{
		Square:    sq,
		StartTime: time.Now(),
		Duration:  400 * time.Millisecond,
		Color:     c,
	})
}

// StartCapture begins the fade of a piece captured on sq.
func (am *AnimationManager) StartCapture(p board.Piece, sq board.Square) {
	am.captures = append(am.captures, &CaptureFade{
		Piece:     p,
		Square:    sq,
		StartTime: time.Now(),
	})
}

// Clear drops every running animation.
func (am *AnimationManager) Clear() {
	am.shakes, am.flashes, am.captures = nil, nil, nil
}

// Update removes expired animations.
func (am *AnimationManager) Update(now time.Time) {
	am.shakes = slices.DeleteFunc(am.shakes, func(s *ShakeAnimation) bool {
		return now.Sub(s.StartTime) >= s.Duration
	})
	am.flashes = slices.DeleteFunc(am.flashes, func(f *FlashAnimation) bool {
		return now.Sub(f.StartTime) >= f.Duration
	})
	am.captures = slices.DeleteFunc(am.captures, func(c *CaptureFade) bool {
		return c.progress(now) >= 1
	})
}

// GetShakeOffset returns the current shake offset for a square.
func (am *AnimationManager) GetShakeOffset(sq board.Square) (float64, float64) {
	for _, s := range am.shakes {
		if s.Square != sq {
			continue
		}
		progress := time.Since(s.StartTime).Seconds() / s.Duration.Seconds()
		if progress >= 1.0 {
			return 0, 0
		}
		// Damped sine wave oscillation
		decay := 5.0
		freq := 40.0
		amplitude := s.Intensity * math.Exp(-decay*progress)
		return amplitude * math.Sin(freq*progress), 0
	}
	return 0, 0
}

// DrawFlashes renders all active flash overlays.
func (am *AnimationManager) DrawFlashes(screen *ebiten.Image, r *Renderer) {
	for _, f := range am.flashes {
		progress := time.Since(f.StartTime).Seconds() / f.Duration.Seconds()
		if progress >= 1.0 {
			continue
		}

		alpha := 1.0 - progress
		c := color.RGBA{f.Color.R, f.Color.G, f.Color.B, uint8(float64(f.Color.A) * alpha)}

		x, y := squareOrigin(f.Square, r.flipped)
		vector.DrawFilledRect(screen, r.s(x), r.s(y), r.s(SquareSize), r.s(SquareSize), c, false)
	}
}

// DrawCaptures renders captured pieces shrinking about their square's
// centre while fading out.
func (am *AnimationManager) DrawCaptures(screen *ebiten.Image, r *Renderer) {
	now := time.Now()
	for _, c := range am.captures {
		t := c.progress(now)
		if t >= 1 {
			continue
		}
		s := 1 - t
		cx, cy := squareCenter(c.Square, r.flipped)
		half := SquareSize / 2.0 * s
		r.sprites.DrawPiece(screen, c.Piece.Type, c.Piece.Color,
			r.sf(cx-half), r.sf(cy-half), r.scale*s, float32(s))
	}
}

// FeedbackManager coordinates all feedback systems.
type FeedbackManager struct {
	toasts     *ToastManager
	animations *AnimationManager
	audio      *AudioManager
}

// NewFeedbackManager creates a new feedback manager.
func NewFeedbackManager() *FeedbackManager {
	return &FeedbackManager{
		toasts:     NewToastManager(),
		animations: NewAnimationManager(),
		audio:      NewAudioManager(),
	}
}

// Update updates all feedback systems.
func (fm *FeedbackManager) Update() {
	now := time.Now()
	fm.toasts.Update(now)
	fm.animations.Update(now)
}

// Draw renders the overlays that sit above the pieces.
func (fm *FeedbackManager) Draw(screen *ebiten.Image, r *Renderer) {
	fm.animations.DrawFlashes(screen, r)
	fm.toasts.Draw(screen)
}

// Animations returns the animation manager for renderer integration.
func (fm *FeedbackManager) Animations() *AnimationManager {
	return fm.animations
}

// Toast shows a plain notification.
func (fm *FeedbackManager) Toast(message string, toastType ToastType) {
	fm.toasts.Show(message, toastType, 2*time.Second)
}

// OnInvalidMove handles a rejected drop.
func (fm *FeedbackManager) OnInvalidMove(from, to board.Square, reason InvalidMoveReason) {
	var message string
	switch reason {
	case ReasonWouldLeaveKingInCheck:
		message = "Illegal move - King would be in check"
	case ReasonNotYourTurn:
		message = "Not your turn"
	default:
		message = "Invalid move for this piece"
	}

	fm.toasts.Show(message, ToastWarning, 2*time.Second)
	fm.animations.StartShake(from)
	if to.IsValid() {
		fm.animations.StartFlash(to, color.RGBA{255, 80, 80, 150})
	}
	fm.audio.Play(SoundInvalid)
}

// OnCheck handles a check event.
func (fm *FeedbackManager) OnCheck(c board.Color) {
	fm.toasts.Show("Check - "+c.String(), ToastWarning, 2*time.Second)
	fm.audio.Play(SoundCheck)
}

// OnCheckmate handles a checkmate event.
func (fm *FeedbackManager) OnCheckmate(summary string) {
	fm.toasts.Show(summary, ToastSuccess, 5*time.Second)
	fm.audio.Play(SoundGameEnd)
}

// OnMoveMade handles an applied move. captured is the taken piece, if any.
func (fm *FeedbackManager) OnMoveMade(rec board.MoveRecord, captured *board.Piece) {
	switch {
	case rec.Castle:
		fm.audio.Play(SoundCastle)
	case captured != nil:
		fm.animations.StartCapture(*captured, rec.To)
		fm.audio.Play(SoundCapture)
	default:
		fm.audio.Play(SoundMove)
	}
}

// Audio returns the audio manager for settings access.
func (fm *FeedbackManager) Audio() *AudioManager {
	return fm.audio
}
