package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hailam/chessrules/internal/storage"
)

// Settings modal dimensions
const (
	SettingsWidth  = 380
	SettingsHeight = 360
	SettingsPadX   = 24
	SettingsPadY   = 20
)

// Settings modal colors
var (
	modalOverlay = color.RGBA{0, 0, 0, 180}
	modalBg      = color.RGBA{38, 40, 45, 255}
	modalHeader  = color.RGBA{48, 52, 58, 255}
	modalBorder  = color.RGBA{58, 62, 68, 255}
)

// SettingsModal edits the player name, sound, legal move dots and board
// orientation.
type SettingsModal struct {
	visible bool
	x, y    int

	usernameInput *TextInput
	soundBox      *Checkbox
	legalBox      *Checkbox
	flipBox       *Checkbox
	saveBtn       *ModalButton
	cancelBtn     *ModalButton

	onSave   func(prefs *storage.UserPreferences)
	onCancel func()

	// Fields the modal does not edit are carried through unchanged.
	base storage.UserPreferences
}

// NewSettingsModal creates a new settings modal centred on the screen.
func NewSettingsModal() *SettingsModal {
	sm := &SettingsModal{
		x: (ScreenWidth - SettingsWidth) / 2,
		y: (ScreenHeight - SettingsHeight) / 2,
	}
	sm.createWidgets()
	return sm
}

// createWidgets initializes all settings widgets.
func (sm *SettingsModal) createWidgets() {
	contentX := sm.x + SettingsPadX
	contentW := SettingsWidth - SettingsPadX*2

	inputY := sm.y + 76
	sm.usernameInput = NewTextInput(contentX, inputY, contentW, 36, "Enter your name", 20)

	checkY := inputY + 36 + 44
	sm.soundBox = NewCheckbox(contentX, checkY, "Sound Effects", true)
	sm.legalBox = NewCheckbox(contentX, checkY+34, "Show Legal Moves", true)
	sm.flipBox = NewCheckbox(contentX, checkY+68, "Flip Board", false)

	btnW, btnH, btnSpacing := 100, 38, 12
	btnY := sm.y + SettingsHeight - SettingsPadY - btnH
	sm.cancelBtn = NewModalButton(sm.x+SettingsWidth-SettingsPadX-btnW*2-btnSpacing, btnY, btnW, btnH, "Cancel", false, sm.handleCancel)
	sm.saveBtn = NewModalButton(sm.x+SettingsWidth-SettingsPadX-btnW, btnY, btnW, btnH, "Save", true, sm.handleSave)
}

// Show displays the settings modal with the given preferences.
func (sm *SettingsModal) Show(prefs *storage.UserPreferences, onSave func(*storage.UserPreferences), onCancel func()) {
	sm.visible = true
	sm.onSave = onSave
	sm.onCancel = onCancel
	sm.base = *prefs

	sm.usernameInput.Value = prefs.Username
	sm.soundBox.Checked = prefs.SoundEnabled
	sm.legalBox.Checked = prefs.ShowLegalMoves
	sm.flipBox.Checked = prefs.Flipped
}

// Hide closes the settings modal.
func (sm *SettingsModal) Hide() {
	sm.visible = false
	sm.usernameInput.SetFocused(false)
}

// IsVisible returns true if the modal is visible.
func (sm *SettingsModal) IsVisible() bool {
	return sm.visible
}

// Preferences returns the preferences as currently edited.
func (sm *SettingsModal) Preferences() *storage.UserPreferences {
	prefs := sm.base
	prefs.Username = sm.usernameInput.Value
	if prefs.Username == "" {
		prefs.Username = storage.DefaultPreferences().Username
	}
	prefs.SoundEnabled = sm.soundBox.Checked
	prefs.ShowLegalMoves = sm.legalBox.Checked
	prefs.Flipped = sm.flipBox.Checked
	return &prefs
}

func (sm *SettingsModal) handleSave() {
	if sm.onSave != nil {
		sm.onSave(sm.Preferences())
	}
	sm.Hide()
}

func (sm *SettingsModal) handleCancel() {
	if sm.onCancel != nil {
		sm.onCancel()
	}
	sm.Hide()
}

// Update handles input for the settings modal. The modal consumes all
// input while visible.
func (sm *SettingsModal) Update(input *InputHandler) bool {
	if !sm.visible {
		return false
	}

	if IsKeyJustPressed(ebiten.KeyEscape) {
		sm.handleCancel()
		return true
	}
	if IsKeyJustPressed(ebiten.KeyEnter) && !sm.usernameInput.IsFocused() {
		sm.handleSave()
		return true
	}

	sm.usernameInput.Update(input)
	sm.soundBox.Update(input)
	sm.legalBox.Update(input)
	sm.flipBox.Update(input)
	sm.saveBtn.Update(input)
	sm.cancelBtn.Update(input)
	return true
}

// AnyButtonHovered returns true if any button in the modal is hovered.
func (sm *SettingsModal) AnyButtonHovered() bool {
	if !sm.visible {
		return false
	}
	return sm.saveBtn.IsHovered() || sm.cancelBtn.IsHovered() ||
		sm.soundBox.hovered || sm.legalBox.hovered || sm.flipBox.hovered
}

// Draw renders the settings modal.
func (sm *SettingsModal) Draw(screen *ebiten.Image) {
	if !sm.visible {
		return
	}

	vector.DrawFilledRect(screen, 0, 0, scaleF(ScreenWidth), scaleF(ScreenHeight), modalOverlay, false)
	vector.DrawFilledRect(screen, scaleF(sm.x), scaleF(sm.y), scaleF(SettingsWidth), scaleF(SettingsHeight), modalBg, false)
	vector.StrokeRect(screen, scaleF(sm.x), scaleF(sm.y), scaleF(SettingsWidth), scaleF(SettingsHeight), float32(UIScale*2), modalBorder, false)
	vector.DrawFilledRect(screen, scaleF(sm.x), scaleF(sm.y), scaleF(SettingsWidth), scaleF(44), modalHeader, false)
	sm.drawTitle(screen)

	contentX := sm.x + SettingsPadX
	drawLabel(screen, "Player Name", contentX, sm.usernameInput.Y-14, textMuted)
	drawLabel(screen, "Board", contentX, sm.soundBox.Y-18, textMuted)

	sm.usernameInput.Draw(screen)
	sm.soundBox.Draw(screen)
	sm.legalBox.Draw(screen)
	sm.flipBox.Draw(screen)
	sm.saveBtn.Draw(screen)
	sm.cancelBtn.Draw(screen)
}

func (sm *SettingsModal) drawTitle(screen *ebiten.Image) {
	face := GetBoldFace()
	if face == nil {
		return
	}
	title := "Settings"
	w, h := MeasureText(title, face)
	op := &text.DrawOptions{}
	op.GeoM.Translate(scaleD(sm.x+SettingsWidth/2)-w/2, scaleD(sm.y+22)-h/2)
	op.ColorScale.ScaleWithColor(textPrimary)
	text.Draw(screen, title, face, op)
}
