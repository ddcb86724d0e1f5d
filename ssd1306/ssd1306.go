// Package ssd1306 controls a SSD1306 monochrome OLED display via I²C.
//
// The SSD1306 drives up to 128x64 pixels. It is the display the generated
// headers target; this driver lets the converter preview animations on the
// real panel.
//
// cmd/oledanim uses this package for its -preview mode.
package ssd1306

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"

	"github.com/flavioheleno/oledanim/image1bit"
)

// DefaultAddr is the usual I²C address of SSD1306 modules (OLED_ADDR in the
// generated headers). Some modules use 0x3D.
const DefaultAddr = 0x3C

// Control bytes prefixing every I²C write.
const (
	ctrlCommand = 0x00
	ctrlData    = 0x40
)

// Opts is the configuration for the SSD1306 display.
type Opts struct {
	// Display dimensions in pixels
	W int // Width (default: 128, must be ≤128)
	H int // Height (default: 64, must be a multiple of 8 and ≤64)

	Addr uint16 // I²C address (default: DefaultAddr)

	Rotated bool // 180° rotation

	// Optional hardware reset pin
	RST gpio.PinIO // Reset pin (optional, nil if not used)
}

// Dev is the device handle for the SSD1306 display.
type Dev struct {
	// Communication
	c   conn.Conn  // I²C connection
	rst gpio.PinIO // Reset pin (optional)

	// Display geometry
	rect image.Rectangle

	// Pixel buffers
	buffer []byte            // Displayed frame in page format
	next   *image1bit.Bitmap // Frame being composed by Draw

	// State
	halted bool
}

var _ display.Drawer = (*Dev)(nil)

// NewI2C creates a new SSD1306 device connected via I²C.
//
// opts can be nil to use defaults (128x64 display at DefaultAddr).
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	o := *opts
	if o.W == 0 {
		o.W = 128
	}
	if o.H == 0 {
		o.H = 64
	}
	if o.Addr == 0 {
		o.Addr = DefaultAddr
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	d := newDev(&i2c.Dev{Bus: b, Addr: o.Addr}, &o)
	if err := d.init(&o); err != nil {
		return nil, err
	}
	return d, nil
}

func (o *Opts) validate() error {
	if o.W <= 0 || o.W > 128 {
		return errors.New("ssd1306: width must be between 1 and 128")
	}
	if o.H <= 0 || o.H > 64 || o.H%8 != 0 {
		return errors.New("ssd1306: height must be a multiple of 8 between 8 and 64")
	}
	return nil
}

func newDev(c conn.Conn, opts *Opts) *Dev {
	rect := image.Rect(0, 0, opts.W, opts.H)
	return &Dev{
		c:      c,
		rst:    opts.RST,
		rect:   rect,
		buffer: make([]byte, opts.W*opts.H/8),
		next:   image1bit.NewBitmap(rect),
	}
}

// init sends the initialization sequence to the display.
func (d *Dev) init(opts *Opts) error {
	// Hardware reset sequence (if RST pin is provided)
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return fmt.Errorf("ssd1306: failed to pull RST low: %w", err)
		}
		time.Sleep(10 * time.Millisecond)

		if err := d.rst.Out(gpio.High); err != nil {
			return fmt.Errorf("ssd1306: failed to pull RST high: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// COM pins: alternative configuration for 64 rows, sequential otherwise
	comPins := byte(0x02)
	if opts.H == 64 {
		comPins = 0x12
	}
	segRemap, comScan := byte(0xA1), byte(0xC8)
	if opts.Rotated {
		segRemap, comScan = 0xA0, 0xC0
	}

	cmds := []byte{
		0xAE,       // Display OFF
		0xD5, 0x80, // Clock divider and oscillator frequency
		0xA8, byte(opts.H - 1), // MUX ratio
		0xD3, 0x00, // Display offset
		0x40,       // Start line 0
		0x8D, 0x14, // Charge pump on
		0x20, 0x00, // Horizontal addressing mode
		segRemap,
		comScan,
		0xDA, comPins,
		0x81, 0xCF, // Contrast
		0xD9, 0xF1, // Pre-charge period
		0xDB, 0x40, // VCOMH deselect level
		0xA4, // Resume to RAM content
		0xA6, // Normal display mode
		0x2E, // Scroll off
	}
	if err := d.sendCommands(cmds); err != nil {
		return err
	}

	if err := d.writeFullFrame(d.buffer); err != nil {
		return err
	}

	// Turn display ON
	return d.sendCommand(0xAF)
}

// sendCommand sends a single command byte.
func (d *Dev) sendCommand(cmd byte) error {
	return d.sendCommands([]byte{cmd})
}

// sendCommands sends a slice of command bytes in one transaction.
func (d *Dev) sendCommands(cmds []byte) error {
	return d.c.Tx(append([]byte{ctrlCommand}, cmds...), nil)
}

// sendData sends a slice of display RAM bytes in one transaction.
func (d *Dev) sendData(data []byte) error {
	return d.c.Tx(append([]byte{ctrlData}, data...), nil)
}

// writeRect writes page data to a rectangle of columns and pages.
func (d *Dev) writeRect(col, page, width, pages int, data []byte) error {
	commands := []byte{
		0x21, byte(col), byte(col + width - 1), // Column address
		0x22, byte(page), byte(page + pages - 1), // Page address
	}
	if err := d.sendCommands(commands); err != nil {
		return err
	}
	return d.sendData(data)
}

// writeFullFrame writes the entire page buffer to the display.
func (d *Dev) writeFullFrame(pixels []byte) error {
	return d.writeRect(0, 0, d.rect.Dx(), d.rect.Dy()/8, pixels)
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Write writes raw page data to the display. Each byte is a vertical strip of
// 8 pixels, least significant bit on top; pages of Dx() bytes follow each
// other from top to bottom. The data must be exactly Dx()*Dy()/8 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, errors.New("ssd1306: halted")
	}
	if len(pixels) != len(d.buffer) {
		return 0, errors.New("ssd1306: invalid buffer size")
	}
	if err := d.writeFullFrame(pixels); err != nil {
		return 0, err
	}
	copy(d.buffer, pixels)
	fromPages(d.next, d.buffer)
	return len(pixels), nil
}

// Clear turns every pixel off.
func (d *Dev) Clear() error {
	_, err := d.Write(make([]byte, len(d.buffer)))
	return err
}

// Draw draws an image onto the display with differential update optimization.
// Only the columns and pages that changed since the last update are sent.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errors.New("ssd1306: halted")
	}

	// Clip to display bounds
	dst = dst.Intersect(d.rect)
	if dst.Empty() {
		return nil
	}

	// Fast path: full frame bitmap of the right size
	if bm, ok := src.(*image1bit.Bitmap); ok && dst == d.rect && sp == bm.Rect.Min && bm.Rect.Size() == d.rect.Size() {
		copy(d.next.Pix, bm.Pix)
	} else {
		draw.Draw(d.next, dst, src, sp, draw.Src)
	}

	pages := make([]byte, len(d.buffer))
	toPages(pages, d.next)

	minCol, maxCol, minPage, maxPage := d.calculateDiff(pages)
	if minCol > maxCol {
		// No changes
		return nil
	}

	changed := d.extractRegion(pages, minCol, maxCol, minPage, maxPage)
	if err := d.writeRect(minCol, minPage, maxCol-minCol+1, maxPage-minPage+1, changed); err != nil {
		return err
	}
	copy(d.buffer, pages)
	return nil
}

// calculateDiff compares the displayed buffer with pages and returns the
// smallest column and page range containing every change, or
// (1, 0, 0, 0) if nothing changed.
func (d *Dev) calculateDiff(pages []byte) (minCol, maxCol, minPage, maxPage int) {
	width := d.rect.Dx()
	numPages := d.rect.Dy() / 8

	minCol, maxCol = width, -1
	minPage, maxPage = numPages, -1

	for p := 0; p < numPages; p++ {
		start := p * width
		end := start + width
		if bytes.Equal(d.buffer[start:end], pages[start:end]) {
			continue
		}
		minPage = min(minPage, p)
		maxPage = max(maxPage, p)
		for x := 0; x < width; x++ {
			if d.buffer[start+x] != pages[start+x] {
				minCol = min(minCol, x)
				maxCol = max(maxCol, x)
			}
		}
	}

	if maxCol < 0 {
		return 1, 0, 0, 0
	}
	return minCol, maxCol, minPage, maxPage
}

// extractRegion copies the bytes of a rectangle of columns and pages.
func (d *Dev) extractRegion(pages []byte, minCol, maxCol, minPage, maxPage int) []byte {
	width := d.rect.Dx()
	cols := maxCol - minCol + 1

	result := make([]byte, 0, cols*(maxPage-minPage+1))
	for p := minPage; p <= maxPage; p++ {
		start := p*width + minCol
		result = append(result, pages[start:start+cols]...)
	}
	return result
}

// toPages converts a bitmap to the SSD1306 page layout.
func toPages(dst []byte, src *image1bit.Bitmap) {
	width := src.Rect.Dx()
	for i := range dst {
		dst[i] = 0
	}
	for y := 0; y < src.Rect.Dy(); y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+width]
		base := (y / 8) * width
		bit := byte(1) << uint(y%8)
		for x, on := range row {
			if on {
				dst[base+x] |= bit
			}
		}
	}
}

// fromPages is the inverse of toPages.
func fromPages(dst *image1bit.Bitmap, src []byte) {
	width := dst.Rect.Dx()
	for y := 0; y < dst.Rect.Dy(); y++ {
		base := (y / 8) * width
		bit := byte(1) << uint(y%8)
		for x := 0; x < width; x++ {
			dst.Pix[y*dst.Stride+x] = src[base+x]&bit != 0
		}
	}
}

// SetContrast sets the display contrast (0-255).
func (d *Dev) SetContrast(contrast byte) error {
	if d.halted {
		return errors.New("ssd1306: halted")
	}
	return d.sendCommands([]byte{0x81, contrast})
}

// Invert inverts the display colors (lit becomes dark and vice versa).
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return errors.New("ssd1306: halted")
	}
	mode := byte(0xA6) // Normal display
	if invert {
		mode = 0xA7 // Inverted display
	}
	return d.sendCommand(mode)
}

// Halt powers off the display.
// After calling Halt, the display will not respond to further commands
// until the device is re-initialized.
func (d *Dev) Halt() error {
	d.halted = true
	return d.sendCommand(0xAE) // Display OFF
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// ScrollSpeed defines the horizontal scroll interval in frames.
type ScrollSpeed byte

const (
	// Scroll intervals (in display refresh cycles)
	Speed2Frames   ScrollSpeed = 0x07
	Speed3Frames   ScrollSpeed = 0x04
	Speed4Frames   ScrollSpeed = 0x05
	Speed5Frames   ScrollSpeed = 0x00
	Speed25Frames  ScrollSpeed = 0x06
	Speed64Frames  ScrollSpeed = 0x01
	Speed128Frames ScrollSpeed = 0x02
	Speed256Frames ScrollSpeed = 0x03
)

// ScrollHorizontal starts horizontal scrolling of the pages between
// startPage and endPage (inclusive, each 8 rows tall).
// If right is true, scrolls right; otherwise scrolls left.
func (d *Dev) ScrollHorizontal(startPage, endPage byte, speed ScrollSpeed, right bool) error {
	if d.halted {
		return errors.New("ssd1306: halted")
	}

	numPages := d.rect.Dy() / 8
	if int(startPage) >= numPages || int(endPage) >= numPages || startPage > endPage {
		return errors.New("ssd1306: scroll page out of range")
	}

	scrollCmd := byte(0x27) // Left
	if right {
		scrollCmd = 0x26 // Right
	}

	return d.sendCommands([]byte{
		0x2E, // Scrolling must be off while it is configured
		scrollCmd,
		0x00,        // Dummy byte
		startPage,   // Start page
		byte(speed), // Scroll interval
		endPage,     // End page
		0x00, 0xFF,  // Dummy bytes
		0x2F, // Activate scroll
	})
}

// StopScroll stops scrolling. The RAM content has to be rewritten afterwards.
func (d *Dev) StopScroll() error {
	if d.halted {
		return errors.New("ssd1306: halted")
	}
	return d.sendCommand(0x2E) // Deactivate scroll
}
