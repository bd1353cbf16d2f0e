package draw

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Replacement is drawn for runes the face has no glyph for.
const Replacement = '?'

// CellSize is the size of one character cell of face: the advance of 'M' by the line height.
func CellSize(face font.Face) image.Point {
	advance, ok := face.GlyphAdvance('M')
	if !ok {
		advance, _ = face.GlyphAdvance(Replacement)
	}
	return image.Pt(advance.Ceil(), face.Metrics().Height.Ceil())
}

// Grid returns the number of text columns and rows of size cells that fit in r.
func Grid(r image.Rectangle, size image.Point) (columns, rows int) {
	if size.X <= 0 || size.Y <= 0 {
		return 0, 0
	}
	return r.Dx() / size.X, r.Dy() / size.Y
}

// String draws s into dst in color c, starting at character cell (row, column).
//
// A newline moves to the start of the next row, a carriage return is ignored and text that runs
// past the right edge wraps to the next row. Drawing stops at the first row that does not fit.
// The returned point is the cell (column, row) following the last drawn glyph.
func String(dst Image, face font.Face, row, column int, s string, c color.Color) image.Point {
	var (
		cell   = CellSize(face)
		bounds = dst.Bounds()
		ascent = face.Metrics().Ascent.Ceil()
		src    = image.NewUniform(c)
		pos    = image.Pt(column, row)
	)
	if cell.X <= 0 || cell.Y <= 0 {
		return pos
	}

	var (
		x = bounds.Min.X + column*cell.X
		y = bounds.Min.Y + row*cell.Y
	)
	newline := func() {
		x = bounds.Min.X
		y += cell.Y
	}
	for _, r := range s {
		if y+cell.Y > bounds.Max.Y {
			break
		}
		switch r {
		case '\n':
			newline()
			continue
		case '\r':
			continue
		}

		advance, ok := face.GlyphAdvance(r)
		if !ok {
			r = Replacement
			advance, _ = face.GlyphAdvance(r)
		}
		if w := advance.Ceil(); x+w > bounds.Max.X {
			newline()
			if y+cell.Y > bounds.Max.Y {
				break
			}
		}

		dot := fixed.P(x, y+ascent)
		dr, mask, maskp, advance, ok := face.Glyph(dot, r)
		if !ok {
			dr, mask, maskp, advance, ok = face.Glyph(dot, Replacement)
		}
		if !ok {
			x += cell.X
			continue
		}
		DrawMask(dst, dr, src, image.Point{}, mask, maskp, Over)
		x += advance.Ceil()
	}

	return image.Pt((x-bounds.Min.X)/cell.X, (y-bounds.Min.Y)/cell.Y)
}
