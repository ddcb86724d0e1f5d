// Package ssd1306 controls a SSD1306 OLED display via I²C.
//
// The SSD1306 is a monochrome OLED controller supporting up to 128×64 pixels.
// This driver implements the display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 1-bit monochrome
// - 128×64 or 128×32 resolutions (any multiple of 8 rows up to 64)
// - RAM organized in pages: each byte is a vertical strip of 8 pixels
// - Hardware scrolling support (horizontal only)
// - Adjustable contrast (0-255)
// - Display inversion
//
// # Hardware Connection
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL         → I²C clock (SCL)
//	SDA         → I²C data (SDA)
//	RES         → Optional: GPIO for hardware reset
//
// # Basic Usage
//
//	package main
//
//	import (
//		"image"
//
//		"github.com/flavioheleno/oledanim/image1bit"
//		"github.com/flavioheleno/oledanim/ssd1306"
//		"periph.io/x/conn/v3/i2c/i2creg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		bus, _ := i2creg.Open("")
//		defer bus.Close()
//
//		dev, _ := ssd1306.NewI2C(bus, nil)
//		defer dev.Halt()
//
//		img := image1bit.NewBitmap(dev.Bounds())
//		for x := 0; x < 128; x++ {
//			img.SetBit(x, 32, image1bit.On)
//		}
//		dev.Draw(dev.Bounds(), img, image.Point{})
//	}
//
// # Drawing Modes
//
// Write sends a raw page buffer (Dx()*Dy()/8 bytes) to the display.
//
// Draw accepts any image.Image. Colors are converted with image1bit.BitModel,
// and only the rectangle of columns and pages that changed since the previous
// update is transferred, which matters on a 400kHz bus where a full frame
// takes about 25ms.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1306
