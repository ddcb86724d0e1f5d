package oledanim

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"

	// Single-frame formats accepted alongside GIF.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// DefaultFrameLimit is the maximum number of frames taken from one input
// when no limit is given.
const DefaultFrameLimit = 28

var gifMagic = []byte("GIF8")

// ExtractFrames opens path and decodes up to limit frames from it, in order.
// limit <= 0 selects DefaultFrameLimit. Errors wrap ErrDecode.
func ExtractFrames(path string, limit int) ([]image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, decodeError(path, err)
	}
	defer f.Close()

	frames, err := decodeFrames(f, limit)
	if err != nil {
		return nil, decodeError(path, err)
	}
	return frames, nil
}

// DecodeFrames is ExtractFrames for an already opened stream.
func DecodeFrames(r io.Reader, limit int) ([]image.Image, error) {
	frames, err := decodeFrames(r, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return frames, nil
}

func decodeFrames(r io.Reader, limit int) ([]image.Image, error) {
	if limit <= 0 {
		limit = DefaultFrameLimit
	}

	br := bufio.NewReader(r)
	magic, _ := br.Peek(len(gifMagic))
	if !bytes.Equal(magic, gifMagic) {
		img, _, err := image.Decode(br)
		if err != nil {
			return nil, err
		}
		return []image.Image{img}, nil
	}

	g, err := gif.DecodeAll(br)
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, errors.New("gif: no frames")
	}
	return composite(g, limit), nil
}

// composite renders the first limit frames of g onto the logical screen,
// applying each frame's disposal method before drawing the next one. Every
// returned frame is an independent copy of the full screen.
//
// The screen starts filled with the opaque background color. Transparent
// pixels of the first frame take the RGB value stored in the color table,
// as palette-to-gray conversion does; in later frames they show the pixels
// underneath. DisposalBackground restores the background color.
func composite(g *gif.GIF, limit int) []image.Image {
	n := min(limit, len(g.Image))

	screen := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if screen.Empty() {
		for _, fr := range g.Image[:n] {
			screen = screen.Union(fr.Bounds())
		}
	}

	global, _ := g.Config.ColorModel.(color.Palette)
	bg := image.NewUniform(background(global, g.BackgroundIndex))

	canvas := image.NewRGBA(screen)
	draw.Draw(canvas, screen, bg, image.Point{}, draw.Src)
	saved := image.NewRGBA(screen)
	frames := make([]image.Image, 0, n)
	for i, fr := range g.Image[:n] {
		var disposal byte
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			copy(saved.Pix, canvas.Pix)
		}

		if i == 0 {
			draw.Draw(canvas, fr.Bounds(), opaque(fr, global), fr.Bounds().Min, draw.Src)
		} else {
			draw.Draw(canvas, fr.Bounds(), fr, fr.Bounds().Min, draw.Over)
		}

		out := image.NewRGBA(screen)
		copy(out.Pix, canvas.Pix)
		frames = append(frames, out)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, fr.Bounds(), bg, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, saved.Pix)
		}
	}
	return frames
}

// background returns the opaque color at index i of the global color table,
// or black when there is none.
func background(global color.Palette, i byte) color.Color {
	if int(i) < len(global) {
		return opaqueColor(global[int(i)])
	}
	return color.Black
}

// opaque returns fr with every palette entry made opaque. The decoder zeroes
// the transparent entry of a frame's palette; when the frame uses the global
// color table, the stored RGB value is recovered from it.
func opaque(fr *image.Paletted, global color.Palette) *image.Paletted {
	usesGlobal := sameTable(fr.Palette, global)
	p := make(color.Palette, len(fr.Palette))
	for i, c := range fr.Palette {
		if _, _, _, a := c.RGBA(); a == 0 && usesGlobal {
			c = global[i]
		}
		p[i] = opaqueColor(c)
	}
	out := *fr
	out.Palette = p
	return &out
}

func opaqueColor(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: 0xFFFF}
}

// sameTable reports whether p is the global table, ignoring entries the
// decoder made transparent.
func sameTable(p, global color.Palette) bool {
	if len(p) != len(global) {
		return false
	}
	for i, c := range p {
		if _, _, _, a := c.RGBA(); a == 0 {
			continue
		}
		if c != global[i] {
			return false
		}
	}
	return true
}
