// Package font provides faces for drawing text on small monochrome panels.
//
// All faces implement [golang.org/x/image/font.Face] and can be used with [font.Drawer] or with
// the cell layout in the draw package.
package font

import (
	"errors"
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Face is an alias for [golang.org/x/image/font.Face].
type Face = font.Face

// Errors
var (
	ErrSize = errors.New("font: size must be positive")
)

// TrueType parses a TrueType font and returns a face of size points at 72 DPI, so that one point
// equals one panel pixel. Glyphs are fully hinted to keep stems on whole pixels.
func TrueType(data []byte, size float64) (Face, error) {
	if size <= 0 {
		return nil, ErrSize
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse TrueType: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// GoMono returns the Go Mono font at size points.
func GoMono(size float64) (Face, error) {
	return TrueType(gomono.TTF, size)
}
