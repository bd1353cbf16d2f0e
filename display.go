// Package pcd8544 contains a driver for PCD8544 LCD controllers, as found in the Nokia 3310 and
// 5110 monochrome displays.
package pcd8544

import (
	"errors"
	"image"
	"image/color"

	"github.com/BeatGlow/pcd8544/font"
)

// Errors
var (
	ErrClosed = errors.New("pcd8544: display is closed")
)

// Display is a monochrome LCD.
type Display interface {
	// Close blanks and powers down the display and closes the connection.
	Close() error

	// Clear the display buffer.
	Clear()

	// At returns the color of the pixel at (x, y).
	At(x, y int) color.Color

	// Set the pixel color at (x, y).
	Set(x, y int, c color.Color)

	// Bounds is the display bounding box (dimensions).
	Bounds() image.Rectangle

	// ColorModel used by the display.
	ColorModel() color.Model

	// DrawString writes text to the display buffer starting at character cell (row, column).
	DrawString(row, column int, text string)

	// TextGrid is the number of character cells DrawString can fill.
	TextGrid() (columns, rows int)

	// Show toggles the display on or off.
	Show(bool) error

	// Invert toggles inverse video.
	Invert(bool) error

	// SetContrast adjusts the contrast level.
	SetContrast(level uint8) error

	// Refresh sends the display buffer to the panel.
	Refresh() error
}

// Config is the display configuration.
type Config struct {
	// Width of the display in pixels.
	Width int

	// Height of the display in pixels.
	Height int

	// Contrast is the operating voltage (Vop) setting, 1-127. Zero selects the default; use
	// SetContrast(0) after initialization to drive Vop 0.
	Contrast uint8

	// Bias is the bias system setting, 1-7. Zero selects the default of 4 (1:48 mux) used by the
	// Nokia panels.
	Bias uint8

	// TemperatureCoefficient selects the Vop temperature compensation curve, 0-3.
	TemperatureCoefficient uint8

	// Inverted starts the display in inverse video.
	Inverted bool

	// Face is the font used by DrawString.
	Face font.Face
}

// DefaultConfig are the default configuration values. Zero Width, Height, Contrast, Bias and Face
// fields in a Config take these values.
var DefaultConfig = Config{
	Width:    84,
	Height:   48,
	Contrast: 45,
	Bias:     4,
	Face:     font.Fixed5x7,
}
