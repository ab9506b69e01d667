package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Panel dimensions
const (
	PanelPadding    = 20
	SectionSpacing  = 28
	ButtonHeight    = 40
	CollapsedWidth  = 20
	CollapseButtonW = 16
	CollapseButtonH = 48
	SectionLabelH   = 20
	moveRowHeight   = 22
	statusBarHeight = 70
)

// Panel colors
var (
	panelBg         = color.RGBA{38, 40, 45, 255}
	sectionBg       = color.RGBA{48, 52, 58, 255}
	buttonBg        = color.RGBA{50, 54, 60, 255}
	buttonHoverBg   = color.RGBA{65, 70, 78, 255}
	buttonPressedBg = color.RGBA{40, 44, 50, 255}
	buttonBorder    = color.RGBA{70, 75, 82, 255}
	accentColor     = color.RGBA{76, 175, 120, 255}
	accentHover     = color.RGBA{96, 195, 140, 255}
	accentPressed   = color.RGBA{56, 155, 100, 255}
	textPrimary     = color.RGBA{240, 240, 245, 255}
	textSecondary   = color.RGBA{160, 165, 175, 255}
	textMuted       = color.RGBA{120, 125, 135, 255}
	dividerColor    = color.RGBA{60, 65, 72, 255}
	moveRowAlt      = color.RGBA{44, 48, 54, 255}
	statusCheck     = color.RGBA{255, 120, 100, 255}
	statusGameOver  = color.RGBA{255, 200, 80, 255}
)

// Button represents a clickable UI element.
type Button struct {
	X, Y, W, H int
	Label      string
	OnClick    func()
	hovered    bool
	pressed    bool
}

func (b *Button) contains(mx, my int) bool {
	return mx >= b.X && mx < b.X+b.W && my >= b.Y && my < b.Y+b.H
}

// Panel is the side panel with controls, the move list and the status line.
type Panel struct {
	game      *Game
	collapsed bool

	collapseBtn *Button
	newGameBtn  *Button
	actionBtns  []*Button // Flip, Save, Settings

	// Move history scroll
	scrollY    int
	maxScrollY int
}

// NewPanel creates a new panel for the given game.
func NewPanel(g *Game) *Panel {
	p := &Panel{game: g}
	p.createButtons()
	return p
}

// createButtons lays out the panel buttons for the current collapsed state.
func (p *Panel) createButtons() {
	tabY := (ScreenHeight - CollapseButtonH) / 2
	collapseX := BoardSize
	if p.collapsed {
		collapseX = BoardSize + 2
	}
	p.collapseBtn = &Button{
		X: collapseX, Y: tabY,
		W: CollapseButtonW, H: CollapseButtonH,
		OnClick: p.toggleCollapse,
	}

	contentX := BoardSize + PanelPadding
	contentW := PanelWidth - PanelPadding*2

	newGameY := PanelPadding + 8
	p.newGameBtn = &Button{
		X: contentX, Y: newGameY,
		W: contentW, H: ButtonHeight,
		Label:   "New Game",
		OnClick: p.game.NewGameAction,
	}

	actionY := newGameY + ButtonHeight + 8
	actionW := contentW / 3
	actions := []struct {
		label string
		fn    func()
	}{
		{"Flip", p.game.FlipAction},
		{"Save", p.game.SaveAction},
		{"Settings", p.game.ShowSettings},
	}
	p.actionBtns = p.actionBtns[:0]
	for i, a := range actions {
		p.actionBtns = append(p.actionBtns, &Button{
			X: contentX + i*actionW, Y: actionY,
			W: actionW, H: ButtonHeight - 6,
			Label: a.label, OnClick: a.fn,
		})
	}
}

// buttons returns every button that is currently visible.
func (p *Panel) buttons() []*Button {
	if p.collapsed {
		return []*Button{p.collapseBtn}
	}
	return append([]*Button{p.collapseBtn, p.newGameBtn}, p.actionBtns...)
}

// HandleInput processes input for the panel. Returns true if input was handled.
func (p *Panel) HandleInput(input *InputHandler) bool {
	mx, my := input.MousePosition()

	if !p.collapsed {
		p.handleScroll(mx, my)
	}

	for _, btn := range p.buttons() {
		btn.hovered = btn.contains(mx, my)
		btn.pressed = input.IsLeftPressed() && btn.hovered
	}

	if !input.IsLeftJustPressed() {
		return false
	}
	for _, btn := range p.buttons() {
		if btn.hovered {
			btn.OnClick()
			return true
		}
	}
	return false
}

func (p *Panel) handleScroll(mx, my int) {
	_, wheelY := ebiten.Wheel()
	if wheelY == 0 {
		return
	}
	if mx >= BoardSize && my >= p.historyStartY() && my < ScreenHeight-statusBarHeight {
		p.scrollY = min(max(p.scrollY-int(wheelY*30), 0), p.maxScrollY)
	}
}

// ScrollToEnd scrolls the move list so the latest move is visible.
func (p *Panel) ScrollToEnd() {
	rows := (len(p.game.Moves()) + 1) / 2
	visible := ScreenHeight - statusBarHeight - (p.historyStartY() + SectionLabelH + 4)
	p.maxScrollY = max(rows*moveRowHeight-visible, 0)
	p.scrollY = p.maxScrollY
}

// AnyButtonHovered returns true if any button in the panel is hovered.
func (p *Panel) AnyButtonHovered() bool {
	for _, btn := range p.buttons() {
		if btn.hovered {
			return true
		}
	}
	return false
}

// Draw renders the panel.
func (p *Panel) Draw(screen *ebiten.Image) {
	if p.collapsed {
		vector.DrawFilledRect(screen, scaleF(BoardSize), 0, scaleF(CollapsedWidth), scaleF(ScreenHeight), panelBg, false)
		p.drawCollapseButton(screen, true)
		return
	}

	vector.DrawFilledRect(screen, scaleF(BoardSize), 0, scaleF(PanelWidth), scaleF(ScreenHeight), panelBg, false)
	p.drawCollapseButton(screen, false)
	p.drawPrimaryButton(screen, p.newGameBtn)
	for _, btn := range p.actionBtns {
		p.drawSecondaryButton(screen, btn)
	}

	historyY := p.historyStartY()
	p.drawText(screen, "Moves", BoardSize+PanelPadding, historyY, textMuted)
	p.drawMoveHistory(screen, historyY+SectionLabelH+4)

	p.drawStatusBar(screen)
}

func (p *Panel) historyStartY() int {
	btn := p.actionBtns[0]
	return btn.Y + btn.H + SectionSpacing - 4
}

func (p *Panel) drawCollapseButton(screen *ebiten.Image, expand bool) {
	btn := p.collapseBtn
	bgColor := panelBg
	if btn.hovered {
		bgColor = sectionBg
	}
	vector.DrawFilledRect(screen, scaleF(btn.X), scaleF(btn.Y), scaleF(btn.W), scaleF(btn.H), bgColor, false)

	arrow := "‹"
	if expand {
		arrow = "›"
	}
	textC := textMuted
	if btn.hovered {
		textC = textPrimary
	}
	p.drawTextCentered(screen, arrow, btn.X+btn.W/2, btn.Y+btn.H/2, textC)
}

func (p *Panel) drawPrimaryButton(screen *ebiten.Image, btn *Button) {
	bgColor := accentColor
	if btn.pressed {
		bgColor = accentPressed
	} else if btn.hovered {
		bgColor = accentHover
	}
	vector.DrawFilledRect(screen, scaleF(btn.X), scaleF(btn.Y), scaleF(btn.W), scaleF(btn.H), bgColor, false)

	borderC := accentPressed
	if btn.hovered {
		borderC = color.RGBA{116, 215, 160, 255}
	}
	vector.StrokeRect(screen, scaleF(btn.X), scaleF(btn.Y), scaleF(btn.W), scaleF(btn.H), float32(UIScale), borderC, false)
	p.drawTextCentered(screen, btn.Label, btn.X+btn.W/2, btn.Y+btn.H/2, textPrimary)
}

func (p *Panel) drawSecondaryButton(screen *ebiten.Image, btn *Button) {
	bgColor := buttonBg
	if btn.pressed {
		bgColor = buttonPressedBg
	} else if btn.hovered {
		bgColor = buttonHoverBg
	}
	vector.DrawFilledRect(screen, scaleF(btn.X), scaleF(btn.Y), scaleF(btn.W), scaleF(btn.H), bgColor, false)

	borderC := buttonBorder
	if btn.hovered {
		borderC = accentColor
	}
	vector.StrokeRect(screen, scaleF(btn.X), scaleF(btn.Y), scaleF(btn.W), scaleF(btn.H), float32(UIScale), borderC, false)
	p.drawTextCentered(screen, btn.Label, btn.X+btn.W/2, btn.Y+btn.H/2, textSecondary)
}

// drawMoveHistory lists the moves two plies per row, numbered.
func (p *Panel) drawMoveHistory(screen *ebiten.Image, startY int) {
	moves := p.game.Moves()
	if len(moves) == 0 {
		p.drawText(screen, "No moves yet", BoardSize+PanelPadding, startY+5, textMuted)
		return
	}

	x := BoardSize + PanelPadding
	maxY := ScreenHeight - statusBarHeight
	visibleHeight := maxY - startY

	totalRows := (len(moves) + 1) / 2
	contentHeight := totalRows * moveRowHeight
	p.maxScrollY = max(contentHeight-visibleHeight, 0)
	p.scrollY = min(p.scrollY, p.maxScrollY)

	startRow := p.scrollY / moveRowHeight
	y := startY - (p.scrollY % moveRowHeight)

	for i := startRow * 2; i < len(moves); i += 2 {
		if y > maxY-moveRowHeight {
			break
		}
		if (i/2)%2 == 1 && y >= startY {
			vector.DrawFilledRect(screen, scaleF(x-4), scaleF(y-2),
				scaleF(PanelWidth-PanelPadding*2+8), scaleF(moveRowHeight), moveRowAlt, false)
		}
		if y >= startY {
			p.drawText(screen, fmt.Sprintf("%d.", i/2+1), x, y, textMuted)
			p.drawText(screen, moves[i], x+36, y, textPrimary)
			if i+1 < len(moves) {
				p.drawText(screen, moves[i+1], x+110, y, textPrimary)
			}
		}
		y += moveRowHeight
	}

	if p.maxScrollY > 0 {
		scrollPct := float32(p.scrollY) / float32(p.maxScrollY)
		indicatorH := max(float32(visibleHeight)*float32(visibleHeight)/float32(contentHeight), 20)
		indicatorY := float32(startY) + scrollPct*(float32(visibleHeight)-indicatorH)
		vector.DrawFilledRect(screen, scaleF(BoardSize+PanelWidth-8), indicatorY*float32(UIScale),
			scaleF(4), indicatorH*float32(UIScale), textMuted, false)
	}
}

// drawStatusBar shows the player name, the game id and the status line.
func (p *Panel) drawStatusBar(screen *ebiten.Image) {
	statusY := ScreenHeight - statusBarHeight
	x := BoardSize + PanelPadding

	vector.DrawFilledRect(screen, scaleF(x), scaleF(statusY-10),
		scaleF(PanelWidth-PanelPadding*2), scaleF(1), dividerColor, false)

	username := p.game.Username()
	if len(username) > 12 {
		username = username[:12] + "..."
	}
	p.drawText(screen, username, x, statusY, textPrimary)
	p.drawText(screen, p.game.GameID(), x+130, statusY, textSecondary)

	status := p.game.Status()
	statusColor := textPrimary
	switch {
	case status.GameOver():
		statusColor = statusGameOver
	case status.WhiteInCheck || status.BlackInCheck:
		statusColor = statusCheck
	}
	p.drawText(screen, status.Summary(), x, statusY+22, statusColor)
}

// drawText draws s with its top-left at logical (x, y).
func (p *Panel) drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	face := GetRegularFace()
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(scaleD(x), scaleD(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

func (p *Panel) drawTextCentered(screen *ebiten.Image, s string, centerX, centerY int, c color.Color) {
	face := GetRegularFace()
	if face == nil {
		return
	}
	w, h := MeasureText(s, face)
	op := &text.DrawOptions{}
	op.GeoM.Translate(scaleD(centerX)-w/2, scaleD(centerY)-h/2)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}

// Collapsed returns whether the panel is collapsed.
func (p *Panel) Collapsed() bool {
	return p.collapsed
}

// toggleCollapse toggles the panel collapsed state and resizes the window.
func (p *Panel) toggleCollapse() {
	p.collapsed = !p.collapsed
	p.createButtons()

	if p.collapsed {
		ebiten.SetWindowSize(BoardSize+CollapsedWidth, ScreenHeight)
	} else {
		ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	}
}
