// Command oledanim converts animated GIFs into a C header for SSD1306 OLED
// displays driven by the Adafruit SSD1306 library.
//
// Usage:
//
//	oledanim [flags] input.gif [input.gif ...]
//
// Settings can also come from a JSON file given with -config. Flags set on
// the command line override the file:
//
//	{
//	  "inputs": ["spinner.gif", "heart.gif"],
//	  "output": "gifs.h",
//	  "width": 48,
//	  "height": 48,
//	  "gamma": 150,
//	  "frame_delay_ms": 40
//	}
//
// With -preview, every input is also played on an SSD1306 attached to the
// host I2C bus once the header has been written:
//
//	oledanim -preview -i2c 1 -o gifs.h spinner.gif
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/flavioheleno/oledanim"
	"github.com/flavioheleno/oledanim/internal/config"
	"github.com/flavioheleno/oledanim/ssd1306"
)

var (
	output     = flag.String("o", "gifs.h", "Output header file")
	width      = flag.Int("width", 64, "Bitmap width in pixels")
	height     = flag.Int("height", 64, "Bitmap height in pixels")
	gamma      = flag.Float64("gamma", oledanim.NeutralGamma, "Brightness multiplier x/128 (10-255)")
	invert     = flag.Bool("invert", false, "Invert lit and dark pixels")
	resample   = flag.String("resample", oledanim.CatmullRom.String(), "Resampling filter: catmull-rom, bilinear, nearest")
	delay      = flag.Int("delay", oledanim.DefaultFrameDelay, "Default frame delay of the generated functions, in ms")
	frames     = flag.Int("frames", oledanim.DefaultFrameLimit, "Maximum number of frames per input")
	offsetX    = flag.Int("offset-x", oledanim.DefaultOffsetX, "x coordinate of the generated drawBitmap calls")
	configPath = flag.String("config", "", "JSON config file")
	verbose    = flag.Bool("v", false, "Enable debug logging")

	preview = flag.Bool("preview", false, "Play every input on an SSD1306 after conversion")
	i2cBus  = flag.String("i2c", "", "I2C bus name (empty for default)")
	i2cAddr = flag.String("i2c-addr", "0x3C", "SSD1306 I2C address")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] input.gif [input.gif ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("oledanim failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	o, err := options()
	if err != nil {
		return err
	}
	o.Logger = logger
	o.Observer = oledanim.ObserverFuncs{
		OnProgress: func(p float64) { logger.Info("progress", "percent", fmt.Sprintf("%.1f", p)) },
		OnEvent:    func(msg string) { logger.Debug(msg) },
	}

	if err := oledanim.Convert(ctx, o); err != nil {
		return err
	}
	logger.Info("header written", "output", o.Output, "inputs", len(o.Inputs))

	if *preview {
		if err := runPreview(ctx, o); err != nil {
			logger.Warn("preview failed", "err", err)
		}
	}
	return nil
}

// options builds the run options from the defaults, the optional config
// file and the command line, in that order of precedence.
func options() (oledanim.Options, error) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if flag.NArg() > 0 {
		set["inputs"] = true
	}

	o := oledanim.DefaultOptions()
	o.Inputs = flag.Args()
	o.Output = *output
	o.Raster.Width = *width
	o.Raster.Height = *height
	o.Raster.Gamma = *gamma
	o.Raster.Invert = *invert
	o.FrameDelay = *delay
	o.FrameLimit = *frames
	o.OffsetX = *offsetX

	r, err := oledanim.ParseResampler(*resample)
	if err != nil {
		return o, err
	}
	o.Raster.Resample = r

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return o, err
		}
		if err := cfg.Apply(&o, set); err != nil {
			return o, err
		}
	}

	if len(o.Inputs) == 0 {
		return o, fmt.Errorf("%w: no input files given", oledanim.ErrConfig)
	}
	return o, o.Validate()
}

func runPreview(ctx context.Context, o oledanim.Options) error {
	addr, err := strconv.ParseUint(*i2cAddr, 0, 16)
	if err != nil {
		return fmt.Errorf("invalid I2C address %q: %w", *i2cAddr, err)
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph.io: %w", err)
	}

	b, err := i2creg.Open(*i2cBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer b.Close()

	dev, err := ssd1306.NewI2C(b, &ssd1306.Opts{Addr: uint16(addr)})
	if err != nil {
		return fmt.Errorf("failed to create display: %w", err)
	}
	defer dev.Halt()

	o.Logger.Info("previewing", "display", dev.String())
	for _, in := range o.Inputs {
		o.Logger.Debug("playing", "input", in)
		if err := oledanim.PreviewFile(ctx, dev, in, o); err != nil {
			return err
		}
	}
	return nil
}
