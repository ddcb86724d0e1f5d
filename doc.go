// Package oledanim converts animated GIFs into C header files that play the
// animations on a 128×64 SSD1306 OLED driven by the Adafruit SSD1306 library.
//
// Every input becomes one asset in the generated header: a PROGMEM byte array
// per frame, a pointer array, WIDTH/HEIGHT/FRAMES macros, an accessor and a
// display_<name> function that draws the frames in order.
//
// # Pipeline
//
// Each input goes through the same steps:
//
//   - ExtractFrames decodes the file into fully composited RGBA frames,
//     honoring GIF disposal. Single-frame PNG, JPEG, BMP and TIFF files are
//     accepted as one-frame animations.
//   - Rasterize turns a frame into an image1bit.Bitmap: luma, resize to the
//     target size, gamma, threshold at 128 and optional inversion.
//   - image1bit.Pack packs the bitmap MSB-first into the byte layout expected
//     by Adafruit_GFX::drawBitmap.
//   - WriteAsset emits the C fragment for the asset.
//
// Convert wraps the whole document with the include guard and the shared
// declarations, and replaces the output file atomically once every input
// succeeded.
//
// # Basic Usage
//
//	o := oledanim.DefaultOptions()
//	o.Inputs = []string{"spinner.gif", "heart.gif"}
//	o.Output = "gifs.h"
//	o.Raster.Width, o.Raster.Height = 48, 48
//	if err := oledanim.Convert(ctx, o); err != nil {
//	    log.Fatal(err)
//	}
//
// The generated header expects the sketch to define the display object:
//
//	Adafruit_SSD1306 display(SCREEN_WIDTH, SCREEN_HEIGHT, &Wire, OLED_RESET);
//
//	void loop() {
//	    display_spinner();
//	    display_heart(50);
//	}
//
// # Errors
//
// Errors returned by this package wrap one of ErrConfig, ErrDecode,
// ErrProcessing or ErrIO and can be tested with errors.Is. The exception is
// cancellation: when ctx is done, Convert, Assemble, Play and PreviewFile
// return ctx.Err() unchanged. The first failing input aborts the run.
//
// # Preview
//
// Player and PreviewFile play an asset on any periph.io display.Drawer, such
// as the ssd1306 package driver, using the same frames that end up in the
// header.
package oledanim
