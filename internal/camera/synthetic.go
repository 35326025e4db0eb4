package camera

import (
	"context"
	"image"
	"image/color"
	"math"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Synthetic is an animated test pattern. It stands in for a camera when
// none is attached and keeps the whole pipeline runnable in tests.
type Synthetic struct {
	width  int
	height int

	mu    sync.Mutex
	count int
}

func NewSynthetic(width, height int) *Synthetic {
	return &Synthetic{width: width, height: height}
}

func (s *Synthetic) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	n := s.count
	s.count++
	s.mu.Unlock()

	// Slow hue drift so consecutive frames differ visibly.
	base := colorful.Hsv(math.Mod(float64(n)*3.7, 360), 0.32, 0.92)
	accent := colorful.Hsv(math.Mod(float64(n)*3.7+140, 360), 0.55, 0.55)

	img := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	span := float64(s.width + s.height)
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			t := float64(x+y) / span
			img.SetNRGBA(x, y, toNRGBA(base.BlendRgb(accent, t)))
		}
	}

	s.drawMarker(img, n)
	return img, nil
}

// drawMarker paints a roaming square so motion is obvious in previews.
func (s *Synthetic) drawMarker(img *image.NRGBA, n int) {
	size := s.height / 8
	if size < 4 {
		size = 4
	}
	if s.width <= size || s.height <= size {
		return
	}
	cx := (n * 7) % (s.width - size)
	cy := (n * 5) % (s.height - size)
	mark := toNRGBA(colorful.Hsv(math.Mod(float64(n)*11, 360), 0.9, 0.95))
	for y := cy; y < cy+size; y++ {
		for x := cx; x < cx+size; x++ {
			img.SetNRGBA(x, y, mark)
		}
	}
}

func (s *Synthetic) Live() bool {
	return true
}

func (s *Synthetic) Close() error {
	return nil
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
