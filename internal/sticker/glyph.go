package sticker

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
)

// Glyphs render at a fixed size on a transparent canvas; the compositor
// scales them down to sticker size.
const glyphSize = 128

func renderGlyph(name string) (image.Image, error) {
	dc := gg.NewContext(glyphSize, glyphSize)
	s := float64(glyphSize)

	switch name {
	case "heart":
		drawHeart(dc, s)
	case "star":
		drawStar(dc, s)
	case "sparkle":
		drawSparkle(dc, s)
	case "bloom":
		drawBloom(dc, s)
	default:
		return nil, fmt.Errorf("unknown builtin sticker: %s", name)
	}
	return dc.Image(), nil
}

// drawHeart builds the shape from two lobes and a point.
func drawHeart(dc *gg.Context, s float64) {
	dc.SetHexColor("#ff4d79")
	r := s * 0.23
	dc.DrawCircle(s*0.35, s*0.36, r)
	dc.DrawCircle(s*0.65, s*0.36, r)
	dc.Fill()

	dc.MoveTo(s*0.125, s*0.44)
	dc.LineTo(s*0.875, s*0.44)
	dc.LineTo(s*0.5, s*0.9)
	dc.ClosePath()
	dc.Fill()
}

func drawStar(dc *gg.Context, s float64) {
	dc.SetHexColor("#ffd23f")
	starPath(dc, s/2, s/2, 5, s*0.46, s*0.19, -math.Pi/2)
	dc.Fill()
}

func drawSparkle(dc *gg.Context, s float64) {
	dc.SetHexColor("#8ad7ff")
	starPath(dc, s/2, s/2, 4, s*0.48, s*0.1, 0)
	dc.Fill()

	dc.SetHexColor("#ffffff")
	dc.DrawCircle(s/2, s/2, s*0.07)
	dc.Fill()
}

func drawBloom(dc *gg.Context, s float64) {
	dc.SetHexColor("#ffa8d9")
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		dc.DrawCircle(s/2+s*0.26*math.Cos(a), s/2+s*0.26*math.Sin(a), s*0.17)
	}
	dc.Fill()

	dc.SetHexColor("#ffd23f")
	dc.DrawCircle(s/2, s/2, s*0.14)
	dc.Fill()
}

// starPath traces a star polygon of the given point count, alternating
// between the outer and inner radius.
func starPath(dc *gg.Context, cx, cy float64, points int, outer, inner, phase float64) {
	for i := 0; i < points*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := phase + float64(i)*math.Pi/float64(points)
		x := cx + r*math.Cos(a)
		y := cy + r*math.Sin(a)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}
