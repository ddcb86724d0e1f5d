// Package image1bit provides a 1-bit monochrome image format for OLED bitmaps.
//
// Pixels are kept unpacked, one bool per pixel in row-major order. Use Pack
// to produce the MSB-first byte stream.
package image1bit

import (
	"image"
	"image/color"
)

// Bit represents a monochrome pixel. true is a lit (foreground) pixel.
type Bit bool

const (
	On  Bit = true
	Off Bit = false
)

// RGBA converts the Bit color to standard RGBA: On is white, Off is black.
func (c Bit) RGBA() (r, g, b, a uint32) {
	if c {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

// toBit converts any color.Color to Bit.
func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	// ITU-R 601 luma, compared against the 8-bit threshold
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y>>8 > Threshold)
}

// BitModel converts colors to Bit.
var BitModel = color.ModelFunc(toBit)

// Threshold is the 8-bit intensity above which a pixel is lit.
const Threshold = 128

// Bitmap is a 1-bit image. Pix holds one entry per pixel, row-major, with
// Stride entries per row.
type Bitmap struct {
	Pix    []bool          // Pixel data (1 entry per pixel)
	Stride int             // Entries per row
	Rect   image.Rectangle // Image bounds
}

// NewBitmap creates a new Bitmap with the specified bounds.
func NewBitmap(r image.Rectangle) *Bitmap {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return &Bitmap{Rect: r}
	}
	return &Bitmap{
		Pix:    make([]bool, w*h),
		Stride: w,
		Rect:   r,
	}
}

// ColorModel returns the color model of the image.
func (p *Bitmap) ColorModel() color.Model {
	return BitModel
}

// Bounds returns the image bounds.
func (p *Bitmap) Bounds() image.Rectangle {
	return p.Rect
}

// At returns the color of the pixel at (x, y).
// It implements the image.Image interface.
func (p *Bitmap) At(x, y int) color.Color {
	return p.BitAt(x, y)
}

// BitAt returns the Bit of the pixel at (x, y). Out of bounds pixels are Off.
func (p *Bitmap) BitAt(x, y int) Bit {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Off
	}
	return Bit(p.Pix[p.PixOffset(x, y)])
}

// Set sets the color of the pixel at (x, y).
func (p *Bitmap) Set(x, y int, c color.Color) {
	p.SetBit(x, y, BitModel.Convert(c).(Bit))
}

// SetBit sets the Bit of the pixel at (x, y).
// This is faster than Set() as it doesn't require color conversion.
func (p *Bitmap) SetBit(x, y int, c Bit) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = bool(c)
}

// PixOffset returns the index of the pixel at (x, y) in Pix.
func (p *Bitmap) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

// Invert flips every pixel in place.
func (p *Bitmap) Invert() {
	for i := range p.Pix {
		p.Pix[i] = !p.Pix[i]
	}
}

// Equal reports whether both bitmaps have the same size and pixels.
// The origin of the bounds is ignored.
func (p *Bitmap) Equal(o *Bitmap) bool {
	if p.Rect.Size() != o.Rect.Size() {
		return false
	}
	w, h := p.Rect.Dx(), p.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if p.Pix[y*p.Stride+x] != o.Pix[y*o.Stride+x] {
				return false
			}
		}
	}
	return true
}
