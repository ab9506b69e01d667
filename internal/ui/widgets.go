package ui

import (
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget colors (shares buttonBg, accentColor and the text colors with panel.go)
var (
	widgetBg          = color.RGBA{48, 52, 58, 255}
	widgetBorder      = color.RGBA{68, 72, 78, 255}
	widgetFocusBorder = color.RGBA{76, 175, 120, 255}
	widgetHoverBg     = color.RGBA{65, 70, 78, 255}
	checkboxCheck     = color.RGBA{76, 175, 120, 255}
	inputTextColor    = color.RGBA{240, 240, 245, 255}
	inputPlaceholder  = color.RGBA{120, 125, 135, 255}
)

// drawLabel draws s vertically centred on logical y, starting at logical x.
func drawLabel(screen *ebiten.Image, s string, x, y int, c color.Color) {
	face := GetRegularFace()
	if face == nil {
		return
	}
	_, h := MeasureText(s, face)
	op := &text.DrawOptions{}
	op.GeoM.Translate(scaleD(x), scaleD(y)-h/2)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

// TextInput is an editable text field widget.
type TextInput struct {
	X, Y, W, H  int
	Value       string
	Placeholder string
	MaxLength   int
	focused     bool
	hovered     bool
	cursorBlink int
}

// NewTextInput creates a new text input widget.
func NewTextInput(x, y, w, h int, placeholder string, maxLen int) *TextInput {
	return &TextInput{
		X: x, Y: y, W: w, H: h,
		Placeholder: placeholder,
		MaxLength:   maxLen,
	}
}

// Update handles text input updates.
func (ti *TextInput) Update(input *InputHandler) bool {
	ti.hovered = input.IsInBounds(ti.X, ti.Y, ti.W, ti.H)
	if input.IsLeftJustPressed() {
		ti.focused = ti.hovered
	}
	if !ti.focused {
		return false
	}

	ti.cursorBlink = (ti.cursorBlink + 1) % 60

	for _, c := range ebiten.AppendInputChars(nil) {
		if ti.MaxLength == 0 || utf8.RuneCountInString(ti.Value) < ti.MaxLength {
			ti.Value += string(c)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(ti.Value) > 0 {
		_, size := utf8.DecodeLastRuneInString(ti.Value)
		ti.Value = ti.Value[:len(ti.Value)-size]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		ti.focused = false
	}
	return true
}

// Draw renders the text input.
func (ti *TextInput) Draw(screen *ebiten.Image) {
	bgColor := widgetBg
	if ti.hovered && !ti.focused {
		bgColor = color.RGBA{52, 56, 62, 255}
	}
	vector.DrawFilledRect(screen, scaleF(ti.X), scaleF(ti.Y), scaleF(ti.W), scaleF(ti.H), bgColor, false)

	borderColor := widgetBorder
	if ti.focused {
		borderColor = widgetFocusBorder
	} else if ti.hovered {
		borderColor = accentColor
	}
	vector.StrokeRect(screen, scaleF(ti.X), scaleF(ti.Y), scaleF(ti.W), scaleF(ti.H), float32(2*UIScale), borderColor, false)

	textX := ti.X + 10
	midY := ti.Y + ti.H/2
	cursorX := scaleF(textX)
	if ti.Value != "" {
		drawLabel(screen, ti.Value, textX, midY, inputTextColor)
		w, _ := MeasureText(ti.Value, GetRegularFace())
		cursorX += float32(w) + 2
	} else {
		drawLabel(screen, ti.Placeholder, textX, midY, inputPlaceholder)
	}
	if ti.focused && ti.cursorBlink < 30 {
		vector.DrawFilledRect(screen, cursorX, scaleF(ti.Y+8), scaleF(2), scaleF(ti.H-16), inputTextColor, false)
	}
}

// IsFocused returns true if the input is focused.
func (ti *TextInput) IsFocused() bool {
	return ti.focused
}

// SetFocused sets the focus state.
func (ti *TextInput) SetFocused(focused bool) {
	ti.focused = focused
}

// Checkbox is a toggleable checkbox widget.
type Checkbox struct {
	X, Y    int
	Label   string
	Checked bool
	hovered bool
}

// NewCheckbox creates a new checkbox.
func NewCheckbox(x, y int, label string, checked bool) *Checkbox {
	return &Checkbox{X: x, Y: y, Label: label, Checked: checked}
}

// Update handles checkbox input.
func (cb *Checkbox) Update(input *InputHandler) bool {
	cb.hovered = input.IsInBounds(cb.X, cb.Y, 200, 24)
	if input.IsLeftJustPressed() && cb.hovered {
		cb.Checked = !cb.Checked
		return true
	}
	return false
}

// Draw renders the checkbox.
func (cb *Checkbox) Draw(screen *ebiten.Image) {
	boxX, boxY, boxSize := scaleF(cb.X), scaleF(cb.Y), scaleF(20)
	u := float32(UIScale)

	bgColor := widgetBg
	if cb.hovered {
		bgColor = widgetHoverBg
	}
	vector.DrawFilledRect(screen, boxX, boxY, boxSize, boxSize, bgColor, false)

	borderC := widgetBorder
	if cb.hovered {
		borderC = accentColor
	} else if cb.Checked {
		borderC = checkboxCheck
	}
	vector.StrokeRect(screen, boxX, boxY, boxSize, boxSize, 2*u, borderC, false)

	if cb.Checked {
		vector.StrokeLine(screen, boxX+4*u, boxY+10*u, boxX+8*u, boxY+14*u, 2*u, checkboxCheck, false)
		vector.StrokeLine(screen, boxX+8*u, boxY+14*u, boxX+16*u, boxY+6*u, 2*u, checkboxCheck, false)
	}

	textColor := textSecondary
	if cb.Checked {
		textColor = textPrimary
	} else if cb.hovered {
		textColor = inputTextColor
	}
	drawLabel(screen, cb.Label, cb.X+30, cb.Y+10, textColor)
}

// ModalButton is a button for modal dialogs.
type ModalButton struct {
	X, Y, W, H int
	Label      string
	Primary    bool
	OnClick    func()
	hovered    bool
	pressed    bool
}

// NewModalButton creates a new modal button.
func NewModalButton(x, y, w, h int, label string, primary bool, onClick func()) *ModalButton {
	return &ModalButton{
		X: x, Y: y, W: w, H: h,
		Label:   label,
		Primary: primary,
		OnClick: onClick,
	}
}

// IsHovered returns true if the button is hovered.
func (mb *ModalButton) IsHovered() bool {
	return mb.hovered
}

// Update handles modal button input.
func (mb *ModalButton) Update(input *InputHandler) bool {
	mb.hovered = input.IsInBounds(mb.X, mb.Y, mb.W, mb.H)
	mb.pressed = input.IsLeftPressed() && mb.hovered

	if input.IsLeftJustPressed() && mb.hovered && mb.OnClick != nil {
		mb.OnClick()
		return true
	}
	return false
}

// Draw renders the modal button.
func (mb *ModalButton) Draw(screen *ebiten.Image) {
	var bgColor, borderC color.RGBA
	if mb.Primary {
		bgColor, borderC = accentColor, accentPressed
		if mb.pressed {
			bgColor = accentPressed
		} else if mb.hovered {
			bgColor, borderC = accentHover, color.RGBA{116, 215, 160, 255}
		}
	} else {
		bgColor, borderC = buttonBg, widgetBorder
		if mb.pressed {
			bgColor = buttonPressedBg
		} else if mb.hovered {
			bgColor, borderC = buttonHoverBg, accentColor
		}
	}

	vector.DrawFilledRect(screen, scaleF(mb.X), scaleF(mb.Y), scaleF(mb.W), scaleF(mb.H), bgColor, false)
	vector.StrokeRect(screen, scaleF(mb.X), scaleF(mb.Y), scaleF(mb.W), scaleF(mb.H), float32(UIScale), borderC, false)

	face := GetRegularFace()
	if face == nil {
		return
	}
	w, h := MeasureText(mb.Label, face)
	op := &text.DrawOptions{}
	op.GeoM.Translate(scaleD(mb.X+mb.W/2)-w/2, scaleD(mb.Y+mb.H/2)-h/2)
	op.ColorScale.ScaleWithColor(textPrimary)
	text.Draw(screen, mb.Label, face, op)
}
