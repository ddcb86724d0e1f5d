package oledanim

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var monoPalette = color.Palette{color.Black, color.White, color.Transparent}

// paletted builds a frame from rows of '1' (white), '0' (black) and '.'
// (transparent), placed at (x, y).
func paletted(x, y int, rows ...string) *image.Paletted {
	img := image.NewPaletted(image.Rect(x, y, x+len(rows[0]), y+len(rows)), monoPalette)
	for dy, row := range rows {
		for dx, c := range row {
			switch c {
			case '1':
				img.SetColorIndex(x+dx, y+dy, 1)
			case '.':
				img.SetColorIndex(x+dx, y+dy, 2)
			}
		}
	}
	return img
}

// writeGIF encodes frames as an animated GIF of the given screen size.
func writeGIF(t *testing.T, path string, w, h int, disposal []byte, frames ...*image.Paletted) string {
	t.Helper()
	return encodeGIF(t, path, &gif.GIF{
		Image:    frames,
		Delay:    make([]int, len(frames)),
		Disposal: disposal,
		Config:   image.Config{Width: w, Height: h, ColorModel: monoPalette},
	})
}

func encodeGIF(t *testing.T, path string, g *gif.GIF) string {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, gif.EncodeAll(f, g))
	return path
}

func writePNG(t *testing.T, path string, img image.Image) string {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// twoFrameGIF writes the 8x1 animation used by the end-to-end tests:
// frame 1 is 10101010, frame 2 is 11110000.
func twoFrameGIF(t *testing.T, dir, name string) string {
	t.Helper()
	return writeGIF(t, filepath.Join(dir, name), 8, 1, nil,
		paletted(0, 0, "10101010"),
		paletted(0, 0, "11110000"),
	)
}

func randomGray(rng *rand.Rand, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	rng.Read(img.Pix)
	return img
}

func randomBinaryGray(rng *rand.Rand, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		if rng.Intn(2) == 1 {
			img.Pix[i] = 255
		}
	}
	return img
}
