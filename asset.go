package oledanim

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/flavioheleno/oledanim/image1bit"
)

// DefaultFrameDelay is the default playback delay, in milliseconds, baked
// into the generated display function.
const DefaultFrameDelay = 30

// DefaultOffsetX is the x coordinate at which generated code draws frames,
// centering a 64 pixel wide animation on a 128 pixel wide display.
const DefaultOffsetX = 32

// Asset is one converted input: its packed frames plus the parameters the
// generated code needs to play them.
type Asset struct {
	Name       string   // C identifier prefix, see SanitizeName
	Frames     [][]byte // Packed frames, each image1bit.PackedLen(Width, Height) bytes
	Width      int
	Height     int
	FrameDelay int // Default delay in milliseconds
	OffsetX    int // x coordinate passed to drawBitmap
}

// AssetName derives an asset name from an input path: the base name without
// extension, sanitized.
func AssetName(path string) string {
	base := filepath.Base(path)
	return SanitizeName(strings.TrimSuffix(base, filepath.Ext(base)))
}

// NamePrefix is prepended to names that would otherwise not be usable as a
// file scope C++ identifier in the generated header.
const NamePrefix = "gif_"

// reservedNames are C/C++ keywords plus the identifiers the generated code
// already uses: the preamble declarations, the Arduino runtime calls and the
// locals of display_<name>.
var reservedNames = map[string]bool{}

func init() {
	for _, s := range strings.Fields(`
		alignas alignof and and_eq asm auto bitand bitor bool break case catch
		char char8_t char16_t char32_t class compl concept const consteval
		constexpr constinit const_cast continue co_await co_return co_yield
		decltype default delete do double dynamic_cast else enum explicit
		export extern false float for friend goto if inline int long mutable
		namespace new noexcept not not_eq nullptr operator or or_eq private
		protected public register reinterpret_cast requires restrict return
		short signed sizeof static static_assert static_cast struct switch
		template this thread_local throw true try typedef typeid typename
		union unsigned using virtual void volatile wchar_t while xor xor_eq

		display delay Wire Adafruit_SSD1306 Adafruit_GFX PROGMEM WHITE BLACK
		SCREEN_WIDTH SCREEN_HEIGHT OLED_RESET OLED_ADDR setup loop main
		i frame frame_delay`) {
		reservedNames[s] = true
	}
}

// SanitizeName turns s into a valid C++ identifier for the generated header.
// Every character other than an ASCII letter, digit or underscore becomes an
// underscore. NamePrefix is prepended when the result is empty, starts with a
// digit or an underscore, is a keyword or an identifier the header already
// declares, or would define the SCREEN_WIDTH/SCREEN_HEIGHT macros. An empty
// name becomes "gif".
func SanitizeName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	switch {
	case out == "":
		return strings.TrimSuffix(NamePrefix, "_")
	case out[0] == '_' || (out[0] >= '0' && out[0] <= '9'),
		reservedNames[out],
		strings.ToUpper(out) == "SCREEN":
		return NamePrefix + out
	}
	return out
}

func (a Asset) validate() error {
	if a.Name == "" || SanitizeName(a.Name) != a.Name {
		return processingErrorf("asset name %q is not a valid identifier", a.Name)
	}
	if a.Width <= 0 || a.Height <= 0 {
		return processingErrorf("asset %s: invalid size %dx%d", a.Name, a.Width, a.Height)
	}
	if len(a.Frames) == 0 {
		return processingErrorf("asset %s: no frames", a.Name)
	}
	want := image1bit.PackedLen(a.Width, a.Height)
	for i, f := range a.Frames {
		if len(f) != want {
			return processingErrorf("asset %s: frame %d is %d bytes, want %d", a.Name, i+1, len(f), want)
		}
	}
	return nil
}

// WriteAsset writes the C fragment for a: one PROGMEM array per frame, a
// pointer array, the WIDTH/HEIGHT/FRAMES macros, an accessor returning a
// frame pointer, and a display_<name> function that plays every frame once
// on the external Adafruit_SSD1306 display object.
//
// The accessor does not check bounds.
func WriteAsset(w io.Writer, a Asset) error {
	if err := a.validate(); err != nil {
		return err
	}
	delay := a.FrameDelay
	if delay <= 0 {
		delay = DefaultFrameDelay
	}
	name, macro := a.Name, strings.ToUpper(a.Name)

	var buf bytes.Buffer
	for i, f := range a.Frames {
		fmt.Fprintf(&buf, "const PROGMEM unsigned char %s_frame%d[] = {%s};\n", name, i+1, hexList(f))
	}

	fmt.Fprintf(&buf, "\nconst PROGMEM unsigned char* const %s_frames[] = {", name)
	for i := range a.Frames {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s_frame%d", name, i+1)
	}
	buf.WriteString("};\n\n")

	fmt.Fprintf(&buf, "#define %s_WIDTH %d\n", macro, a.Width)
	fmt.Fprintf(&buf, "#define %s_HEIGHT %d\n", macro, a.Height)
	fmt.Fprintf(&buf, "#define %s_FRAMES %d\n\n", macro, len(a.Frames))

	fmt.Fprintf(&buf, "const unsigned char* %s(int frame){return %s_frames[frame];}\n\n", name, name)

	fmt.Fprintf(&buf, "void display_%s(uint16_t frame_delay = %d) {\n", name, delay)
	buf.WriteString("    display.clearDisplay();\n")
	fmt.Fprintf(&buf, "    for (int i = 0; i < %s_FRAMES; i++) {\n", macro)
	fmt.Fprintf(&buf, "        display.drawBitmap(%d, 0, %s(i), %s_WIDTH, %s_HEIGHT, WHITE);\n", a.OffsetX, name, macro, macro)
	buf.WriteString("        display.display();\n")
	buf.WriteString("        delay(frame_delay);\n")
	buf.WriteString("        display.clearDisplay();\n")
	buf.WriteString("    }\n")
	buf.WriteString("}\n\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return ioError(a.Name, err)
	}
	return nil
}

func hexList(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * 6)
	for i, v := range data {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "0x%02x", v)
	}
	return b.String()
}
