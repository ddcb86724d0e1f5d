package ssd1306

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/flavioheleno/oledanim/image1bit"
)

func newTestDev(t *testing.T, opts *Opts) (*Dev, *i2ctest.Record) {
	t.Helper()
	rec := &i2ctest.Record{}
	dev, err := NewI2C(rec, opts)
	if err != nil {
		t.Fatalf("NewI2C() error = %v", err)
	}
	rec.Ops = nil
	return dev, rec
}

func TestOptsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    *Opts
		wantErr bool
	}{
		{"nil options (uses defaults)", nil, false},
		{"valid 128x64", &Opts{W: 128, H: 64}, false},
		{"valid 128x32", &Opts{W: 128, H: 32}, false},
		{"valid 64x48", &Opts{W: 64, H: 48}, false},
		{"width > 128", &Opts{W: 256, H: 64}, true},
		{"negative width", &Opts{W: -1, H: 64}, true},
		{"height not multiple of 8", &Opts{W: 128, H: 60}, true},
		{"height > 64", &Opts{W: 128, H: 128}, true},
		{"rotated (valid)", &Opts{W: 128, H: 64, Rotated: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewI2C(&i2ctest.Record{}, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewI2C() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitSequence(t *testing.T) {
	rec := &i2ctest.Record{}
	if _, err := NewI2C(rec, nil); err != nil {
		t.Fatal(err)
	}

	if len(rec.Ops) != 4 {
		t.Fatalf("got %d transactions, want 4 (init, window, clear, on)", len(rec.Ops))
	}
	for _, op := range rec.Ops {
		if op.Addr != DefaultAddr {
			t.Errorf("Addr = 0x%X, want 0x%X", op.Addr, DefaultAddr)
		}
	}

	seq := rec.Ops[0].W
	if seq[0] != ctrlCommand || seq[1] != 0xAE {
		t.Errorf("init starts with %x, want [00 ae]", seq[:2])
	}
	if !bytes.Contains(seq, []byte{0xA8, 63}) {
		t.Error("init does not set MUX ratio to 63")
	}
	if !bytes.Contains(seq, []byte{0xDA, 0x12}) {
		t.Error("init does not select alternative COM pins for 64 rows")
	}

	frame := rec.Ops[2].W
	if frame[0] != ctrlData || len(frame) != 1+128*64/8 {
		t.Errorf("clear transfer = %d bytes with control 0x%X, want %d with 0x40", len(frame), frame[0], 1+128*64/8)
	}
	if last := rec.Ops[3].W; !bytes.Equal(last, []byte{ctrlCommand, 0xAF}) {
		t.Errorf("last transfer = %x, want [00 af]", last)
	}
}

func TestInitAddrAndRotation(t *testing.T) {
	rec := &i2ctest.Record{}
	if _, err := NewI2C(rec, &Opts{H: 32, Addr: 0x3D, Rotated: true}); err != nil {
		t.Fatal(err)
	}
	seq := rec.Ops[0].W
	if rec.Ops[0].Addr != 0x3D {
		t.Errorf("Addr = 0x%X, want 0x3D", rec.Ops[0].Addr)
	}
	if !bytes.Contains(seq, []byte{0xA0, 0xC0}) {
		t.Error("rotated init does not use 0xA0 0xC0 remap")
	}
	if !bytes.Contains(seq, []byte{0xDA, 0x02}) {
		t.Error("32 row init does not select sequential COM pins")
	}
}

func TestDevBounds(t *testing.T) {
	dev := &Dev{rect: image.Rect(0, 0, 128, 64)}
	want := image.Rect(0, 0, 128, 64)
	if got := dev.Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestDevColorModel(t *testing.T) {
	dev := &Dev{}
	if dev.ColorModel() != image1bit.BitModel {
		t.Error("ColorModel() did not return BitModel")
	}
}

func TestDevString(t *testing.T) {
	dev := &Dev{rect: image.Rect(0, 0, 128, 32)}
	want := "ssd1306.Dev{128x32}"
	if got := dev.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDevHalt(t *testing.T) {
	dev, rec := newTestDev(t, nil)

	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(rec.Ops[0].W, []byte{ctrlCommand, 0xAE}) {
		t.Errorf("Halt sent %x, want [00 ae]", rec.Ops[0].W)
	}

	if err := dev.SetContrast(100); err == nil {
		t.Error("SetContrast should fail when halted")
	}
	if err := dev.Invert(true); err == nil {
		t.Error("Invert should fail when halted")
	}
	if _, err := dev.Write(make([]byte, 128*64/8)); err == nil {
		t.Error("Write should fail when halted")
	}
	if err := dev.Draw(dev.Bounds(), image.NewRGBA(dev.Bounds()), image.Point{}); err == nil {
		t.Error("Draw should fail when halted")
	}
	if err := dev.ScrollHorizontal(0, 7, Speed5Frames, false); err == nil {
		t.Error("ScrollHorizontal should fail when halted")
	}
	if err := dev.StopScroll(); err == nil {
		t.Error("StopScroll should fail when halted")
	}
}

func TestWriteBufferSizeValidation(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		bufferSize int
	}{
		{"128x64 too small", 128, 64, 128*64/8 - 1},
		{"128x64 too large", 128, 64, 128*64/8 + 1},
		{"128x32 too small", 128, 32, 128*32/8 - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, _ := newTestDev(t, &Opts{W: tt.width, H: tt.height})
			_, err := dev.Write(make([]byte, tt.bufferSize))
			if err == nil || err.Error() != "ssd1306: invalid buffer size" {
				t.Errorf("Write error = %v, want %q", err, "ssd1306: invalid buffer size")
			}
		})
	}
}

func TestWriteUpdatesDrawState(t *testing.T) {
	dev, rec := newTestDev(t, &Opts{W: 8, H: 8})

	pixels := []byte{0x01, 0, 0, 0, 0, 0, 0, 0x80}
	if _, err := dev.Write(pixels); err != nil {
		t.Fatal(err)
	}
	if got := rec.Ops[1].W[1:]; !bytes.Equal(got, pixels) {
		t.Errorf("Write sent %x, want %x", got, pixels)
	}
	if dev.next.BitAt(0, 0) != image1bit.On || dev.next.BitAt(7, 7) != image1bit.On {
		t.Error("Write did not update the draw buffer")
	}

	// Drawing the same content again is a no-op.
	rec.Ops = nil
	img := image1bit.NewBitmap(dev.Bounds())
	img.SetBit(0, 0, image1bit.On)
	img.SetBit(7, 7, image1bit.On)
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 0 {
		t.Errorf("Draw of unchanged frame sent %d transactions, want 0", len(rec.Ops))
	}
}

func TestDrawDifferential(t *testing.T) {
	dev, rec := newTestDev(t, nil)

	img := image1bit.NewBitmap(dev.Bounds())
	img.SetBit(10, 9, image1bit.On)  // page 1, bit 1
	img.SetBit(12, 15, image1bit.On) // page 1, bit 7
	if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}

	if len(rec.Ops) != 2 {
		t.Fatalf("got %d transactions, want 2", len(rec.Ops))
	}
	wantWindow := []byte{ctrlCommand, 0x21, 10, 12, 0x22, 1, 1}
	if !bytes.Equal(rec.Ops[0].W, wantWindow) {
		t.Errorf("window = %x, want %x", rec.Ops[0].W, wantWindow)
	}
	wantData := []byte{ctrlData, 0x02, 0x00, 0x80}
	if !bytes.Equal(rec.Ops[1].W, wantData) {
		t.Errorf("data = %x, want %x", rec.Ops[1].W, wantData)
	}
}

func TestDrawPartialGenericImage(t *testing.T) {
	dev, rec := newTestDev(t, nil)

	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 255})
	src.SetGray(1, 0, color.Gray{Y: 10})

	if err := dev.Draw(image.Rect(32, 0, 34, 1), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if dev.next.BitAt(32, 0) != image1bit.On || dev.next.BitAt(33, 0) != image1bit.Off {
		t.Error("Draw did not convert gray pixels with BitModel")
	}
	wantData := []byte{ctrlData, 0x01}
	if !bytes.Equal(rec.Ops[1].W, wantData) {
		t.Errorf("data = %x, want %x", rec.Ops[1].W, wantData)
	}
}

func TestDrawOutsideBounds(t *testing.T) {
	dev, rec := newTestDev(t, nil)
	if err := dev.Draw(image.Rect(200, 0, 210, 8), image.NewGray(image.Rect(0, 0, 10, 8)), image.Point{}); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 0 {
		t.Errorf("Draw outside bounds sent %d transactions", len(rec.Ops))
	}
}

func TestCalculateDiffNoChanges(t *testing.T) {
	dev := newDev(nil, &Opts{W: 4, H: 8})
	pages := make([]byte, 4)

	minCol, maxCol, _, _ := dev.calculateDiff(pages)
	if minCol <= maxCol {
		t.Errorf("No changes should result in minCol > maxCol, got %d <= %d", minCol, maxCol)
	}
}

func TestExtractRegion(t *testing.T) {
	dev := newDev(nil, &Opts{W: 4, H: 16})
	pages := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}

	region := dev.extractRegion(pages, 1, 2, 0, 1)
	want := []byte{0x11, 0x22, 0x55, 0x66}
	if !bytes.Equal(region, want) {
		t.Errorf("extractRegion = %x, want %x", region, want)
	}
}

func TestPageConversionRoundTrip(t *testing.T) {
	img := image1bit.NewBitmap(image.Rect(0, 0, 3, 16))
	img.SetBit(0, 0, image1bit.On)
	img.SetBit(2, 7, image1bit.On)
	img.SetBit(1, 8, image1bit.On)

	pages := make([]byte, 6)
	toPages(pages, img)
	want := []byte{0x01, 0x00, 0x80, 0x00, 0x01, 0x00}
	if !bytes.Equal(pages, want) {
		t.Errorf("toPages = %x, want %x", pages, want)
	}

	back := image1bit.NewBitmap(img.Rect)
	fromPages(back, pages)
	if !back.Equal(img) {
		t.Error("fromPages(toPages(img)) differs from img")
	}
}

func TestScroll(t *testing.T) {
	dev, rec := newTestDev(t, nil)

	if err := dev.ScrollHorizontal(0, 7, Speed2Frames, true); err != nil {
		t.Fatal(err)
	}
	want := []byte{ctrlCommand, 0x2E, 0x26, 0x00, 0x00, 0x07, 0x07, 0x00, 0xFF, 0x2F}
	if !bytes.Equal(rec.Ops[0].W, want) {
		t.Errorf("scroll = %x, want %x", rec.Ops[0].W, want)
	}

	if err := dev.ScrollHorizontal(0, 8, Speed2Frames, false); err == nil {
		t.Error("ScrollHorizontal past the last page should fail")
	}
	if err := dev.ScrollHorizontal(3, 2, Speed2Frames, false); err == nil {
		t.Error("ScrollHorizontal with start > end should fail")
	}

	if err := dev.StopScroll(); err != nil {
		t.Fatal(err)
	}
	if got := rec.Ops[len(rec.Ops)-1].W; !bytes.Equal(got, []byte{ctrlCommand, 0x2E}) {
		t.Errorf("StopScroll sent %x, want [00 2e]", got)
	}
}

func TestContrastAndInvert(t *testing.T) {
	dev, rec := newTestDev(t, nil)

	if err := dev.SetContrast(0x42); err != nil {
		t.Fatal(err)
	}
	if err := dev.Invert(true); err != nil {
		t.Fatal(err)
	}
	if err := dev.Invert(false); err != nil {
		t.Fatal(err)
	}

	want := [][]byte{
		{ctrlCommand, 0x81, 0x42},
		{ctrlCommand, 0xA7},
		{ctrlCommand, 0xA6},
	}
	for i, w := range want {
		if !bytes.Equal(rec.Ops[i].W, w) {
			t.Errorf("op %d = %x, want %x", i, rec.Ops[i].W, w)
		}
	}
}

func TestClear(t *testing.T) {
	dev, rec := newTestDev(t, &Opts{W: 8, H: 8})
	dev.next.SetBit(1, 1, image1bit.On)

	if err := dev.Clear(); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 2 {
		t.Fatalf("Clear sent %d transactions, want 2", len(rec.Ops))
	}
	want := append([]byte{ctrlData}, make([]byte, 8)...)
	if !bytes.Equal(rec.Ops[1].W, want) {
		t.Errorf("Clear sent %x, want %x", rec.Ops[1].W, want)
	}
	if dev.next.BitAt(1, 1) != image1bit.Off {
		t.Error("Clear did not reset the draw buffer")
	}
}
