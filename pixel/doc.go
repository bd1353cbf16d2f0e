// Package pixel implements the 1-bit color model and image buffer used by PCD8544 LCD panels.
//
// The types are compatible with Go's native [color.Color] and [image.Image] / [draw.Image]
// interfaces, so anything that can draw into an image can draw onto the panel.
package pixel
