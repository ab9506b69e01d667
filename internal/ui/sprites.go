// Package ui implements the desktop chess client using Ebitengine.
package ui

import (
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/hailam/chessrules/internal/board"
)

// pieceShapes holds the body of each piece drawing on a 45x45 canvas.
// Fill and stroke come from the enclosing group; {detail} marks strokes
// drawn in the contrasting color.
var pieceShapes = map[board.PieceType]string{
	board.Pawn: `<circle cx="22.5" cy="13" r="4.5"/>` +
		`<path d="M18.5 19h8l3 12h-14z"/>` +
		`<path d="M12 31h21v6H12z"/>`,
	board.Knight: `<path d="M22 10c10.5 1 16.5 8 16 29H15c0-9 10-6.5 8-18-3 3-6 4.5-9 6.5-2.5 1.5-5 0-4.5-2 1-3 5-9 8-12.5 1-2 2.5-3 4.5-3z"/>` +
		`<circle cx="15.5" cy="17.5" r="1.2" fill="{detail}"/>`,
	board.Bishop: `<circle cx="22.5" cy="8.5" r="2.5"/>` +
		`<path d="M22.5 11c-5 4-8 9-8 14 0 4 3 7 8 7s8-3 8-7c0-5-3-10-8-14z"/>` +
		`<path d="M9 34h27v4H9z"/>` +
		`<path d="M20 22h5M22.5 19.5v5" fill="none" stroke="{detail}"/>`,
	board.Rook: `<path d="M11 9h4v3h5V9h5v3h5V9h4v5l-3 3v12l3 3v3H11v-3l3-3V17l-3-3z"/>` +
		`<path d="M9 35h27v3H9z"/>` +
		`<path d="M14 17h17M14 29h17" fill="none" stroke="{detail}"/>`,
	board.Queen: `<circle cx="6" cy="12" r="2"/><circle cx="14" cy="9" r="2"/>` +
		`<circle cx="22.5" cy="8" r="2"/><circle cx="31" cy="9" r="2"/><circle cx="39" cy="12" r="2"/>` +
		`<path d="M9 26l-3-13 8 10 1-14 7.5 13 7.5-13 1 14 8-10-3 13z"/>` +
		`<path d="M9 26c0 2 1.5 2 2.5 4l-1 7h24l-1-7c1-2 2.5-2 2.5-4z"/>`,
	board.King: `<path d="M22.5 6v7M19.5 9h6" fill="none"/>` +
		`<path d="M22.5 25s4.5-7.5 3-10.5c0 0-1-2.5-3-2.5s-3 2.5-3 2.5c-1.5 3 3 10.5 3 10.5z"/>` +
		`<path d="M11.5 37c5.5 3.5 15.5 3.5 21 0v-7s9-4.5 6-10.5c-4-6.5-13.5-3.5-16 4V27v-3.5c-2.5-7.5-12-10.5-16-4-3 6 5 10.5 5 10.5z"/>`,
}

// pieceColors returns the fill and detail stroke for a side.
func pieceColors(c board.Color) (fill, detail string) {
	if c == board.White {
		return "#ffffff", "#000000"
	}
	return "#1e1e1e", "#e8e8e8"
}

// pieceSVG returns the complete SVG document for a piece.
func pieceSVG(pt board.PieceType, c board.Color) (string, error) {
	shape, ok := pieceShapes[pt]
	if !ok {
		return "", fmt.Errorf("no drawing for piece type %v", pt)
	}
	fill, detail := pieceColors(c)

	var sb strings.Builder
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="45" height="45" viewBox="0 0 45 45">`)
	fmt.Fprintf(&sb, `<g fill="%s" stroke="#000000" stroke-width="1.5" stroke-linecap="round" stroke-linejoin="round">`, fill)
	sb.WriteString(strings.ReplaceAll(shape, "{detail}", detail))
	sb.WriteString(`</g></svg>`)
	return sb.String(), nil
}

type spriteKey struct {
	pt board.PieceType
	c  board.Color
}

// SpriteManager manages piece sprites.
type SpriteManager struct {
	pieces      map[spriteKey]*ebiten.Image
	size        int     // Display size in logical pixels
	renderScale float64 // Render at higher resolution for quality (e.g., 3.0)
}

// NewSpriteManager creates a new sprite manager with pieces of the given size.
func NewSpriteManager(size int) *SpriteManager {
	sm := &SpriteManager{
		pieces:      make(map[spriteKey]*ebiten.Image),
		size:        size,
		renderScale: 3.0,
	}
	sm.loadPieces()
	return sm
}

// rasterizePiece renders one piece drawing into an RGBA image of size px.
func rasterizePiece(pt board.PieceType, c board.Color, px int) (*image.RGBA, error) {
	doc, err := pieceSVG(pt, c)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadIconStream(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse %v %v: %w", c, pt, err)
	}
	icon.SetTarget(0, 0, float64(px), float64(px))

	rgba := image.NewRGBA(image.Rect(0, 0, px, px))
	scanner := rasterx.NewScannerGV(px, px, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(px, px, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

// loadPieces rasterizes all twelve piece sprites.
func (sm *SpriteManager) loadPieces() {
	renderSize := int(float64(sm.size) * sm.renderScale)

	for _, c := range []board.Color{board.White, board.Black} {
		for pt := board.Pawn; pt <= board.King; pt++ {
			rgba, err := rasterizePiece(pt, c, renderSize)
			if err != nil {
				log.Printf("Failed to render piece sprite: %v", err)
				continue
			}
			sm.pieces[spriteKey{pt, c}] = ebiten.NewImageFromImage(rgba)
		}
	}
}

// GetPiece returns the sprite for a piece.
func (sm *SpriteManager) GetPiece(pt board.PieceType, c board.Color) *ebiten.Image {
	return sm.pieces[spriteKey{pt, c}]
}

// DrawPiece draws a piece with its top-left corner at (x, y) in screen
// pixels. scale is relative to the logical sprite size; alpha in [0,1].
func (sm *SpriteManager) DrawPiece(screen *ebiten.Image, pt board.PieceType, c board.Color, x, y float32, scale float64, alpha float32) {
	sprite := sm.GetPiece(pt, c)
	if sprite == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	s := scale / sm.renderScale
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleAlpha(alpha)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(sprite, op)
}

// Size returns the size of piece sprites.
func (sm *SpriteManager) Size() int {
	return sm.size
}
