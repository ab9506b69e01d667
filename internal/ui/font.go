package ui

import (
	"bytes"
	"log"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	defaultFontSize = 14.0
	titleFontSize   = 16.0
)

var (
	regularSource *text.GoTextFaceSource
	boldSource    *text.GoTextFaceSource

	// Faces are cached per size; Draw runs every frame.
	regularFaces = map[float64]*text.GoTextFace{}
	boldFaces    = map[float64]*text.GoTextFace{}
)

func init() {
	var err error
	if regularSource, err = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF)); err != nil {
		log.Printf("Failed to load regular font: %v", err)
	}
	if boldSource, err = text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF)); err != nil {
		log.Printf("Failed to load bold font: %v", err)
	}
}

func cachedFace(src *text.GoTextFaceSource, cache map[float64]*text.GoTextFace, size float64) *text.GoTextFace {
	if src == nil {
		return nil
	}
	if f, ok := cache[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: src, Size: size}
	cache[size] = f
	return f
}

// GetRegularFace returns the regular face at the default size, scaled for
// the current display.
func GetRegularFace() *text.GoTextFace {
	return cachedFace(regularSource, regularFaces, defaultFontSize*UIScale)
}

// GetBoldFace returns the bold title face, scaled for the current display.
func GetBoldFace() *text.GoTextFace {
	return cachedFace(boldSource, boldFaces, titleFontSize*UIScale)
}

// GetFaceWithSize returns a regular face of an exact pixel size.
func GetFaceWithSize(size float64) *text.GoTextFace {
	return cachedFace(regularSource, regularFaces, size)
}

// MeasureText returns the width and height of the given text.
func MeasureText(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	return text.Measure(s, face, 0)
}
