package oledanim

import (
	"fmt"
	"image"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/flavioheleno/oledanim/image1bit"
)

// Brightness multiplier bounds. The multiplier applied to every pixel is
// Gamma/NeutralGamma, so 128 leaves intensities unchanged.
const (
	MinGamma     = 10
	MaxGamma     = 255
	NeutralGamma = 128
)

// Resampler selects the interpolation used to resize frames.
type Resampler int

const (
	// CatmullRom is a bicubic filter. It is the default.
	CatmullRom Resampler = iota
	// BiLinear is a bilinear filter.
	BiLinear
	// NearestNeighbor copies the closest source pixel.
	NearestNeighbor
)

var resamplerNames = map[Resampler]string{
	CatmullRom:      "catmull-rom",
	BiLinear:        "bilinear",
	NearestNeighbor: "nearest",
}

// String returns the flag name of the resampler.
func (r Resampler) String() string {
	if s, ok := resamplerNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Resampler(%d)", int(r))
}

// ParseResampler parses a resampler name as returned by String.
func ParseResampler(s string) (Resampler, error) {
	for r, name := range resamplerNames {
		if strings.EqualFold(s, name) {
			return r, nil
		}
	}
	return 0, configErrorf("unknown resampler %q", s)
}

func (r Resampler) interpolator() xdraw.Interpolator {
	switch r {
	case BiLinear:
		return xdraw.BiLinear
	case NearestNeighbor:
		return xdraw.NearestNeighbor
	default:
		return xdraw.CatmullRom
	}
}

// RasterConfig controls how frames are turned into monochrome bitmaps. It is
// shared by value across a whole run.
type RasterConfig struct {
	Width  int // Target width in pixels (>0)
	Height int // Target height in pixels (>0)

	// Gamma is a linear brightness multiplier expressed in 1/128 units, not
	// a gamma curve: each intensity is multiplied by Gamma/128.
	Gamma float64

	// Invert flips every pixel after thresholding.
	Invert bool

	Resample Resampler
}

// DefaultRasterConfig returns the legacy defaults: 64x64, neutral gamma,
// no inversion.
func DefaultRasterConfig() RasterConfig {
	return RasterConfig{Width: 64, Height: 64, Gamma: NeutralGamma}
}

// Validate checks the configuration. It returns an error wrapping ErrConfig.
func (c RasterConfig) Validate() error {
	if c.Width <= 0 {
		return configErrorf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return configErrorf("height must be positive, got %d", c.Height)
	}
	if math.IsNaN(c.Gamma) || c.Gamma < MinGamma || c.Gamma > MaxGamma {
		return configErrorf("gamma must be between %d and %d, got %v", MinGamma, MaxGamma, c.Gamma)
	}
	if _, ok := resamplerNames[c.Resample]; !ok {
		return configErrorf("unknown resampler %d", int(c.Resample))
	}
	return nil
}

// Rasterize converts one frame to a Width x Height bitmap. The steps run in a
// fixed order:
//
//  1. reduce to 8-bit intensity
//  2. resize to the target size
//  3. multiply each intensity by Gamma/128, clamped at 255
//  4. light pixels whose intensity is above 128
//  5. flip every pixel when Invert is set
//
// The result depends only on src and cfg.
func Rasterize(src image.Image, cfg RasterConfig) (*image1bit.Bitmap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil || src.Bounds().Empty() {
		return nil, processingErrorf("empty source frame")
	}

	gray := intensity(src)
	scaled := resize(gray, cfg)
	brighten(scaled, cfg.Gamma)

	out := image1bit.NewBitmap(scaled.Rect)
	for i, v := range scaled.Pix {
		out.Pix[i] = v > image1bit.Threshold
	}
	if cfg.Invert {
		out.Invert()
	}
	return out, nil
}

// intensity reduces src to 8-bit luma, Y = (299R + 587G + 114B) / 1000.
// The result is anchored at the origin.
func intensity(src image.Image) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if g, ok := src.(*image.Gray); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return dst
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := dst.Pix[(y-b.Min.Y)*dst.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			row[x-b.Min.X] = uint8((299*(r>>8) + 587*(g>>8) + 114*(bl>>8) + 500) / 1000)
		}
	}
	return dst
}

func resize(src *image.Gray, cfg RasterConfig) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, cfg.Width, cfg.Height))
	if src.Rect.Size() == dst.Rect.Size() {
		copy(dst.Pix, src.Pix)
		return dst
	}
	cfg.Resample.interpolator().Scale(dst, dst.Rect, src, src.Rect, xdraw.Src, nil)
	return dst
}

// brighten multiplies every pixel by gamma/128 in place. Values are clamped
// at 255 and truncated.
func brighten(img *image.Gray, gamma float64) {
	if gamma == NeutralGamma {
		return
	}
	k := gamma / NeutralGamma
	for i, v := range img.Pix {
		img.Pix[i] = uint8(math.Min(float64(v)*k, 255))
	}
}
