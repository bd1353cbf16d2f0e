package pixel

import (
	"image"
	"image/color"
)

// Buffer holds the pixel values of an image.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between vertically adjacent bands.
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

// MonoVerticalLSBImage is a 1-bit per pixel monochrome image.
//
// Every byte holds a column of 8 vertical pixels with the top pixel in the least significant bit,
// bytes are ordered left to right, then top to bottom in bands of 8 rows. This is the display RAM
// layout of the PCD8544, where a band is called a bank.
type MonoVerticalLSBImage struct {
	Buffer
}

// NewMonoVerticalLSBImage allocates a blank w x h image.
func NewMonoVerticalLSBImage(w, h int) *MonoVerticalLSBImage {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	bands := ((h + 7) & ^7) / 8 // round up to whole bytes
	return &MonoVerticalLSBImage{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    make([]byte, bands*w),
			Stride: w,
		},
	}
}

func (p *MonoVerticalLSBImage) ColorModel() color.Model {
	return MonoModel
}

func (p *MonoVerticalLSBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}

	var (
		pos = y/8*p.Stride + x
		bit = byte(1) << uint(y&7)
	)
	return Mono{
		On: p.Pix[pos]&bit != 0,
	}
}

func (p *MonoVerticalLSBImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}

	var (
		pos = y/8*p.Stride + x
		bit = byte(1) << uint(y&7)
	)
	if monoModel(c).(Mono).On {
		p.Pix[pos] |= bit
	} else {
		p.Pix[pos] &^= bit
	}
}

func (p *MonoVerticalLSBImage) Fill(c color.Color) {
	var value byte
	if monoModel(c).(Mono).On {
		value = 0xff
	}
	for i := range p.Pix {
		p.Pix[i] = value
	}
}

// Bands is the number of 8 pixel high bands.
func (p *MonoVerticalLSBImage) Bands() int {
	if p.Stride == 0 {
		return 0
	}
	return len(p.Pix) / p.Stride
}

// Band returns the bytes of band n, or nil if n is out of range. The slice aliases Pix.
func (p *MonoVerticalLSBImage) Band(n int) []byte {
	if n < 0 || n >= p.Bands() {
		return nil
	}
	off := n * p.Stride
	return p.Pix[off : off+p.Stride]
}
