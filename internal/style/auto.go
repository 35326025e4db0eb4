package style

import (
	"fmt"
	"image"
	"math"

	"github.com/cenkalti/dominantcolor"
	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/CyberJohn04/myfotobooth/pkg/types"
)

type Auto struct{}

func init() {
	Register(&Auto{})
}

func (s *Auto) GetName() string {
	return "Auto Palette"
}

func (s *Auto) GetKey() string {
	return string(types.StripStyleAuto)
}

func (s *Auto) NeedsColor() bool {
	return false
}

// Paint derives the background from the first snapshot: the dominant
// color, darkened so the photos stand out, with kmeans accent colors on
// the corner ornaments.
func (s *Auto) Paint(dc *gg.Context, w, h int, ctx *Context) error {
	if ctx == nil || len(ctx.Photos) == 0 {
		return fmt.Errorf("auto style requires at least one photo")
	}

	base := dominantcolor.Find(ctx.Photos[0])
	bg, _ := colorful.MakeColor(base)
	l, a, b := bg.Lab()
	dc.SetColor(colorful.Lab(l*0.55, a*0.8, b*0.8).Clamped())
	dc.Clear()

	accents := palette(ctx.Photos[0], 3)
	if len(accents) == 0 {
		accents = []colorful.Color{bg}
	}

	r := randOf(ctx)
	for i, c := range accents {
		fi := float64(i)
		dc.SetColor(c)
		starPath(dc, 34+fi*26+jitter(r, 4), 38+fi*18+jitter(r, 4), 4, 11, 3, 0)
		dc.Fill()
		starPath(dc, float64(w)-34-fi*26+jitter(r, 4), float64(h)-42-fi*18+jitter(r, 4), 4, 11, 3, 0)
		dc.Fill()
	}
	return nil
}

func (s *Auto) PreviewFill(_ *Context) string {
	// The raster pass sees the photos; the live page does not.
	return "#3a3352"
}

// palette clusters a subsample of pixels into k representative colors.
func palette(img image.Image, k int) []colorful.Color {
	bounds := img.Bounds()
	step := int(math.Max(1, float64(bounds.Dx()*bounds.Dy())/4000))

	var obs clusters.Observations
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if i%step == 0 {
				r, g, b, _ := img.At(x, y).RGBA()
				obs = append(obs, clusters.Coordinates{
					float64(r) / 65535,
					float64(g) / 65535,
					float64(b) / 65535,
				})
			}
			i++
		}
	}
	if len(obs) < k {
		return nil
	}

	km := kmeans.New()
	groups, err := km.Partition(obs, k)
	if err != nil {
		return nil
	}

	out := make([]colorful.Color, 0, len(groups))
	for _, g := range groups {
		center := g.Center
		if len(center) < 3 {
			continue
		}
		out = append(out, colorful.Color{R: center[0], G: center[1], B: center[2]}.Clamped())
	}
	return out
}
