package image1bit

import (
	"fmt"
	"image"
)

// PackedLen returns the number of bytes needed to pack w*h pixels.
func PackedLen(w, h int) int {
	return (w*h + 7) / 8
}

// Pack flattens the bitmap row by row and packs it 8 pixels per byte, most
// significant bit first. Rows are not byte aligned: a row whose width is not
// a multiple of 8 continues in the same byte as the next row. The final byte
// is padded with zero bits on the right.
func Pack(p *Bitmap) []byte {
	w, h := p.Rect.Dx(), p.Rect.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	out := make([]byte, PackedLen(w, h))
	i := 0
	for y := 0; y < h; y++ {
		row := p.Pix[y*p.Stride : y*p.Stride+w]
		for _, on := range row {
			if on {
				out[i>>3] |= 0x80 >> uint(i&7)
			}
			i++
		}
	}
	return out
}

// Unpack is the inverse of Pack. It reads the first w*h bits of data and
// returns a w x h bitmap anchored at the origin. Padding bits are ignored.
func Unpack(data []byte, w, h int) (*Bitmap, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image1bit: invalid size %dx%d", w, h)
	}
	if need := PackedLen(w, h); len(data) < need {
		return nil, fmt.Errorf("image1bit: need %d bytes for %dx%d, got %d", need, w, h, len(data))
	}
	p := NewBitmap(image.Rect(0, 0, w, h))
	for i := range p.Pix {
		p.Pix[i] = data[i>>3]&(0x80>>uint(i&7)) != 0
	}
	return p, nil
}
