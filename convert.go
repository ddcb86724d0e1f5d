package oledanim

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/flavioheleno/oledanim/image1bit"
)

// HeaderGuard is the include guard wrapping every generated document.
const HeaderGuard = "__GENERATED_GIFS_H__"

// preamble is written once per document, before any asset. The geometry and
// address macros describe the 128x64 SSD1306 the generated code targets.
const preamble = `#ifndef ` + HeaderGuard + `
#define ` + HeaderGuard + `

#include <Arduino.h>
#include <Adafruit_GFX.h>
#include <Adafruit_SSD1306.h>
#include <Wire.h>

#define SCREEN_WIDTH 128
#define SCREEN_HEIGHT 64
#define OLED_RESET -1
#define WHITE 1
#define OLED_ADDR 0x3C

extern Adafruit_SSD1306 display;

`

const epilogue = "#endif // " + HeaderGuard + "\n"

// Options is the complete, validated input of a conversion run.
type Options struct {
	Inputs []string // Input files, converted in order
	Output string   // Header file to write

	Raster RasterConfig

	FrameDelay int // Default delay baked into display_<name>, in ms (0: DefaultFrameDelay)
	FrameLimit int // Maximum frames per input (0: DefaultFrameLimit)
	OffsetX    int // x coordinate used by the generated drawBitmap calls

	Observer Observer     // Optional
	Logger   *slog.Logger // Optional; nil disables logging
}

// DefaultOptions returns options matching the legacy converter. Inputs and
// Output still need to be set.
func DefaultOptions() Options {
	return Options{
		Raster:     DefaultRasterConfig(),
		FrameDelay: DefaultFrameDelay,
		FrameLimit: DefaultFrameLimit,
		OffsetX:    DefaultOffsetX,
	}
}

func (o Options) withDefaults() Options {
	if o.FrameDelay == 0 {
		o.FrameDelay = DefaultFrameDelay
	}
	if o.FrameLimit == 0 {
		o.FrameLimit = DefaultFrameLimit
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	o.Logger = loggerOrNop(o.Logger)
	return o
}

// Validate checks o once, before any work starts. Errors wrap ErrConfig.
// Output is only required by Convert.
func (o Options) Validate() error {
	o = o.withDefaults()
	if err := o.Raster.Validate(); err != nil {
		return err
	}
	if o.FrameDelay < 0 || o.FrameDelay > 0xFFFF {
		return configErrorf("frame delay must be between 1 and 65535 ms, got %d", o.FrameDelay)
	}
	if o.FrameLimit < 0 {
		return configErrorf("frame limit must not be negative, got %d", o.FrameLimit)
	}
	if o.OffsetX < 0 {
		return configErrorf("x offset must not be negative, got %d", o.OffsetX)
	}
	for i, in := range o.Inputs {
		if in == "" {
			return configErrorf("input %d is empty", i+1)
		}
	}
	return nil
}

// Convert runs the whole pipeline and writes the header to o.Output.
//
// The document is written to a temporary file in the output directory and
// renamed over o.Output only once every input converted successfully. On
// failure the previous content of o.Output, if any, is left untouched.
func Convert(ctx context.Context, o Options) error {
	o = o.withDefaults()
	err := o.Validate()
	if err == nil && o.Output == "" {
		err = configErrorf("output path is required")
	}
	if err == nil {
		err = convert(ctx, o)
	}
	if err != nil {
		o.Logger.Error("conversion failed", "output", o.Output, "err", err)
		o.Observer.Event("An error occurred: " + err.Error())
		return err
	}
	o.Logger.Info("conversion completed", "output", o.Output, "inputs", len(o.Inputs))
	o.Observer.Event("Conversion completed successfully!")
	return nil
}

func convert(ctx context.Context, o Options) error {
	pf, err := renameio.NewPendingFile(o.Output, renameio.WithPermissions(0o644), renameio.WithTempDir(filepath.Dir(o.Output)))
	if err != nil {
		return ioError(o.Output, err)
	}
	defer pf.Cleanup()

	bw := bufio.NewWriter(pf)
	if err := Assemble(ctx, bw, o); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return ioError(o.Output, err)
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return ioError(o.Output, err)
	}
	return nil
}

// Assemble writes the complete header document for o.Inputs to w: the guard
// and shared declarations once, then one fragment per input in order, then
// the closing guard line. Progress is reported after each input.
//
// Assemble stops at the first failing input. Whatever was already written to
// w stays there.
func Assemble(ctx context.Context, w io.Writer, o Options) error {
	if err := o.Validate(); err != nil {
		return err
	}
	o = o.withDefaults()
	log := o.Logger

	log.Info("starting conversion", "inputs", len(o.Inputs),
		"width", o.Raster.Width, "height", o.Raster.Height,
		"gamma", o.Raster.Gamma, "invert", o.Raster.Invert)
	o.Observer.Event("Starting GIF conversion process...")

	if _, err := io.WriteString(w, preamble); err != nil {
		return ioError(o.Output, err)
	}

	for i, path := range o.Inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		o.Observer.Event(fmt.Sprintf("Processing %s...", filepath.Base(path)))

		a, err := buildAsset(ctx, path, o)
		if err != nil {
			return err
		}
		if err := WriteAsset(w, a); err != nil {
			return err
		}
		log.Debug("asset written", "path", path, "name", a.Name, "frames", len(a.Frames))

		o.Observer.Progress(float64(i+1) / float64(len(o.Inputs)) * 100)
	}

	if _, err := io.WriteString(w, epilogue); err != nil {
		return ioError(o.Output, err)
	}
	return nil
}

// buildAsset runs extraction, rasterization and packing for one input.
func buildAsset(ctx context.Context, path string, o Options) (Asset, error) {
	frames, err := ExtractFrames(path, o.FrameLimit)
	if err != nil {
		return Asset{}, err
	}
	o.Logger.Debug("frames extracted", "path", path, "frames", len(frames))

	a := Asset{
		Name:       AssetName(path),
		Frames:     make([][]byte, 0, len(frames)),
		Width:      o.Raster.Width,
		Height:     o.Raster.Height,
		FrameDelay: o.FrameDelay,
		OffsetX:    o.OffsetX,
	}
	for i, fr := range frames {
		if err := ctx.Err(); err != nil {
			return Asset{}, err
		}
		bm, err := Rasterize(fr, o.Raster)
		if err != nil {
			return Asset{}, fmt.Errorf("%s: frame %d: %w", path, i+1, err)
		}
		a.Frames = append(a.Frames, image1bit.Pack(bm))
	}
	return a, nil
}
