package videobackend

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"time"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/framesource/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const defaultMockFrameCount = 90

type MockOptions struct {
	// FrameCount is the finite length the device reports,
	// defaulted when left zero.
	FrameCount int64
	// ProduceDelay stalls every produce attempt, useful for
	// exercising expiry behaviour upstream.
	ProduceDelay time.Duration
	Label        string
}

func MockWithOptions(opts MockOptions) Device {
	if opts.FrameCount == 0 {
		opts.FrameCount = defaultMockFrameCount
	}
	if len(opts.Label) == 0 {
		opts.Label = "FS_MOCK_STREAM"
	}
	return &mockDevice{opts: opts}
}

// mockDevice renders labelled synthetic frames entirely in memory. It
// behaves as a finite seekable recording of opts.FrameCount frames.
type mockDevice struct {
	opts                    MockOptions
	mu                      sync.Mutex
	isOpen                  bool
	pos                     int64
	renderedBaseFrameCanvas bool
	baseFrameCanvas         image.Image
}

func (d *mockDevice) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.isOpen = true
	d.pos = 0
	return nil
}

func (d *mockDevice) Produce(ctx context.Context) (videoframe.Frame, bool) {
	if d.opts.ProduceDelay > 0 {
		select {
		case <-time.After(d.opts.ProduceDelay):
		case <-ctx.Done():
			return nil, false
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isOpen || d.pos >= d.opts.FrameCount {
		return nil, false
	}

	if !d.renderedBaseFrameCanvas {
		d.baseFrameCanvas = renderBaseFrameCanvas()
		d.renderedBaseFrameCanvas = true
	}

	img, err := drawTextLayerOntoBaseFrameClone(
		d.baseFrameCanvas, d.opts.Label, d.pos,
	)
	if err != nil {
		return nil, false
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, false
	}

	d.pos++
	return &openCVFrame{mat: mat}, true
}

func (d *mockDevice) Reposition(pos int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.isOpen {
		return xerror.New("mock device is not open")
	}
	d.pos = pos
	return nil
}

func (d *mockDevice) Length() int64 {
	return d.opts.FrameCount
}

func (d *mockDevice) Seekable() bool { return true }
func (d *mockDevice) Live() bool     { return false }

func (d *mockDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.isOpen = false
	d.renderedBaseFrameCanvas = false
	d.baseFrameCanvas = nil
	return nil
}

func drawTextLayerOntoBaseFrameClone(base image.Image, label string, pos int64) (image.Image, error) {
	baseClone := cloneImage(base)
	if err := drawText(baseClone, 5, 50, label); err != nil {
		return nil, xerror.Errorf("unable to draw label onto in-mem image: %w", err)
	}
	if err := drawText(baseClone, 5, 180, fmt.Sprintf("FRAME %d", pos)); err != nil {
		return nil, xerror.Errorf("unable to draw frame counter onto in-mem image: %w", err)
	}
	if err := drawText(baseClone, 5, 310, time.Now().Format("2006-01-02 15:04:05.999999999")); err != nil {
		return nil, xerror.Errorf("unable to draw timestamp onto in-mem image: %w", err)
	}
	return baseClone, nil
}

func renderBaseFrameCanvas() image.Image {
	var w, h int = 600, 400
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := 200.0
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), 300}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), 300}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), 300}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

func drawText(canvas *image.RGBA, x, y int, text string) error {
	fontFace, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return err
	}

	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(fontFace, &truetype.Options{
			Size:    64.0,
			Hinting: font.HintingFull,
		}),
	}
	textBounds, _ := fontDrawer.BoundString(text)
	textHeight := textBounds.Max.Y - textBounds.Min.Y
	yPosition := fixed.I((y)-textHeight.Ceil())/2 + fixed.I(textHeight.Ceil())
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: yPosition,
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
