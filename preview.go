package oledanim

import (
	"context"
	"image"
	"time"

	"periph.io/x/conn/v3/display"

	"github.com/flavioheleno/oledanim/image1bit"
)

// Player plays assets on a periph.io display the same way the generated
// display_<name> function does on the firmware side.
type Player struct {
	Drawer  display.Drawer
	OffsetX int // x coordinate of the animation, as in drawBitmap
}

// Play shows every frame of a once: clear, draw the frame, wait delay, clear.
// It returns early with ctx.Err() if ctx is cancelled.
func (p *Player) Play(ctx context.Context, a Asset, delay time.Duration) error {
	if err := a.validate(); err != nil {
		return err
	}
	blank := image1bit.NewBitmap(p.Drawer.Bounds())
	if err := p.clear(blank); err != nil {
		return err
	}
	for _, data := range a.Frames {
		frame, err := image1bit.Unpack(data, a.Width, a.Height)
		if err != nil {
			return processingErrorf("%s: %v", a.Name, err)
		}
		dst := frame.Rect.Add(p.Drawer.Bounds().Min).Add(image.Pt(p.OffsetX, 0))
		if err := p.Drawer.Draw(dst, frame, image.Point{}); err != nil {
			return err
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		if err := p.clear(blank); err != nil {
			return err
		}
	}
	return nil
}

func (p *Player) clear(blank *image1bit.Bitmap) error {
	return p.Drawer.Draw(p.Drawer.Bounds(), blank, blank.Rect.Min)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// PreviewFile converts path with the raster settings of o and plays it on d
// using o.FrameDelay and o.OffsetX. The frames are produced by the same code
// as Convert, so the display shows exactly the bitmaps written to the header.
func PreviewFile(ctx context.Context, d display.Drawer, path string, o Options) error {
	if err := o.Validate(); err != nil {
		return err
	}
	o = o.withDefaults()
	a, err := buildAsset(ctx, path, o)
	if err != nil {
		return err
	}
	p := &Player{Drawer: d, OffsetX: o.OffsetX}
	return p.Play(ctx, a, time.Duration(o.FrameDelay)*time.Millisecond)
}
